package middleware

import (
	"testing"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/coachboard/pkg/httpcontext"
)

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	handler := AccessLog(zap.New(core))(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	})

	var rc fasthttp.RequestCtx
	rc.Request.Header.SetMethod(fasthttp.MethodGet)
	rc.Request.SetRequestURI("/health")
	rc.Request.Header.Set(httpcontext.HeaderRequestID, "abc")
	handler(&rc)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log line, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel {
		t.Errorf("expected warn for 5xx, got %s", e.Level)
	}
	fields := e.ContextMap()
	if fields["request_id"] != "abc" || fields["path"] != "/health" || fields["status"] != int64(503) {
		t.Errorf("unexpected fields %v", fields)
	}
}
