package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/coachboard/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// HeaderRequestID carries the request id in and out.
const HeaderRequestID = "X-Request-ID"

const requestIDValue = "httpcontext.request_id"

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return a.AttachWithTimeout(ctx, a.timeout)
}

// AttachWithTimeout is Attach with a per-route deadline, used by actions that
// wait on an interactive sign-in.
func (a *Adapter) AttachWithTimeout(ctx *fasthttp.RequestCtx, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = a.timeout
	}
	stdCtx, cancel := context.WithTimeout(context.Background(), timeout)

	reqID := RequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// RequestID returns the request id for ctx, reusing an incoming X-Request-ID header
// and minting a uuid otherwise. The id is echoed on the response and stays stable
// for the lifetime of the request.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if id, ok := ctx.UserValue(requestIDValue).(string); ok && id != "" {
		return id
	}
	id := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderRequestID)))
	if id == "" {
		id = uuid.NewString()
	}
	ctx.SetUserValue(requestIDValue, id)
	ctx.Response.Header.Set(HeaderRequestID, id)
	return id
}
