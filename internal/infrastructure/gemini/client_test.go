package gemini

import (
	"context"
	"net"
	"sync/atomic"
	"testing"

	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/fastygo/coachboard/domain"
)

func newTestClient(t *testing.T, key string, handler fasthttp.RequestHandler) *Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go server.Serve(ln)
	t.Cleanup(func() {
		server.Shutdown()
		ln.Close()
	})

	return New(Config{
		APIKey:   key,
		Endpoint: "http://gemini.test/v1beta/models/test:generateContent",
		HTTPClient: &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
		},
	}, nil)
}

func TestGenerateSendsPromptAndParsesReply(t *testing.T) {
	var gotKey, gotPrompt string
	client := newTestClient(t, "secret", func(ctx *fasthttp.RequestCtx) {
		gotKey = string(ctx.Request.Header.Peek(apiKeyHeader))
		gotPrompt = gjson.GetBytes(ctx.PostBody(), "contents.0.parts.0.text").String()
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"candidates":[{"content":{"parts":[{"text":"Focus on the campaign."}]}}]}`)
	})

	reply, err := client.Generate(context.Background(), "what next?")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "Focus on the campaign." {
		t.Errorf("unexpected reply %q", reply)
	}
	if gotKey != "secret" {
		t.Errorf("expected api key header, got %q", gotKey)
	}
	if gotPrompt != "what next?" {
		t.Errorf("expected prompt in body, got %q", gotPrompt)
	}
}

func TestGenerateClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   domain.ErrorCode
	}{
		{"server error", fasthttp.StatusInternalServerError, `{"error":"boom"}`, domain.ErrCodeTransientNetwork},
		{"rate limited", fasthttp.StatusTooManyRequests, ``, domain.ErrCodeTransientNetwork},
		{"not json", fasthttp.StatusOK, `<html>`, domain.ErrCodeMalformedResponse},
		{"no candidates", fasthttp.StatusOK, `{"candidates":[]}`, domain.ErrCodeMalformedResponse},
		{"text not a string", fasthttp.StatusOK, `{"candidates":[{"content":{"parts":[{"text":42}]}}]}`, domain.ErrCodeMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "secret", func(ctx *fasthttp.RequestCtx) {
				ctx.SetStatusCode(tt.status)
				ctx.SetBodyString(tt.body)
			})
			_, err := client.Generate(context.Background(), "hi")
			if !domain.IsDomainError(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestGenerateWithoutKeySkipsNetwork(t *testing.T) {
	var calls int32
	client := newTestClient(t, "", func(ctx *fasthttp.RequestCtx) {
		atomic.AddInt32(&calls, 1)
	})
	if client.Configured() {
		t.Fatal("client without key must report unconfigured")
	}
	_, err := client.Generate(context.Background(), "hello")
	if !domain.IsDomainError(err, domain.ErrCodeConfigurationMissing) {
		t.Fatalf("expected configuration missing, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("expected no network calls, got %d", n)
	}
}
