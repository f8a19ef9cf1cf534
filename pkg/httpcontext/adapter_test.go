package httpcontext

import (
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appLogger "github.com/fastygo/coachboard/pkg/logger"
)

func TestAttachReusesIncomingRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set(HeaderRequestID, "req-42")

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	if got := string(rc.Response.Header.Peek(HeaderRequestID)); got != "req-42" {
		t.Errorf("expected echoed request id, got %q", got)
	}

	core, logs := observer.New(zap.InfoLevel)
	appLogger.WithRequestID(ctx, zap.New(core)).Info("hello")
	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["request_id"] != "req-42" {
		t.Fatalf("expected request id field, got %+v", entries)
	}
}

func TestRequestIDIsStablePerRequest(t *testing.T) {
	var rc fasthttp.RequestCtx
	first := RequestID(&rc)
	if first == "" {
		t.Fatal("expected a generated id")
	}
	if second := RequestID(&rc); second != first {
		t.Errorf("id changed within request: %q then %q", first, second)
	}
}

func TestAttachWithTimeoutOverridesDeadline(t *testing.T) {
	var rc fasthttp.RequestCtx
	a := NewAdapter(time.Second)

	ctx, cancel := a.AttachWithTimeout(&rc, time.Minute)
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) < 30*time.Second {
		t.Errorf("expected long deadline, got %v", time.Until(deadline))
	}
}
