package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/tidwall/gjson"
)

func TestNewWritesJSONWithServiceAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Encoding: "json", Service: "coachboard", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := ContextWithRequestID(context.Background(), "req-7")
	WithRequestID(ctx, log).Debug("calendar synced")
	_ = log.Sync()

	line := buf.Bytes()
	if got := gjson.GetBytes(line, "msg").String(); got != "calendar synced" {
		t.Errorf("unexpected msg %q in %s", got, line)
	}
	if got := gjson.GetBytes(line, "service").String(); got != "coachboard" {
		t.Errorf("expected service field, got %q", got)
	}
	if got := gjson.GetBytes(line, "request_id").String(); got != "req-7" {
		t.Errorf("expected request id field, got %q", got)
	}
	if !gjson.GetBytes(line, "timestamp").Exists() {
		t.Error("expected timestamp field")
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, _ := New(Config{Level: "chatty", Output: &buf})
	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()

	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Error("debug entry must be filtered at info level")
	}
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Error("info entry missing")
	}
}

func TestWithRequestIDWithoutID(t *testing.T) {
	if RequestIDFromContext(context.Background()) != "" {
		t.Fatal("expected empty request id")
	}
	if WithRequestID(context.Background(), nil) != nil {
		t.Fatal("nil base must stay nil")
	}
}
