package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachboard/api/transport"
	"github.com/fastygo/coachboard/domain"
	"github.com/fastygo/coachboard/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) requestContextWithTimeout(ctx *fasthttp.RequestCtx, timeout time.Duration) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.AttachWithTimeout(ctx, timeout)
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

// respondNoContent writes a bare 204; fasthttp drops any body for that status anyway.
func (h baseHandler) respondNoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusNoContent)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("request_id", httpcontext.RequestID(ctx)), zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

func (h baseHandler) invalid(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), message, nil))
}

// taskID reads the {id} route parameter.
func (h baseHandler) taskID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.invalid(ctx, "invalid task id")
		return 0, false
	}
	return id, true
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConfigurationMissing):
		return http.StatusServiceUnavailable, string(domain.ErrCodeConfigurationMissing)
	case domain.IsDomainError(err, domain.ErrCodeTransientNetwork):
		return http.StatusBadGateway, string(domain.ErrCodeTransientNetwork)
	case domain.IsDomainError(err, domain.ErrCodeMalformedResponse):
		return http.StatusBadGateway, string(domain.ErrCodeMalformedResponse)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
