package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachboard/pkg/httpcontext"
)

// AccessLog logs one line per request with its request id, status and latency.
func AccessLog(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			reqID := httpcontext.RequestID(ctx)

			next(ctx)

			status := ctx.Response.StatusCode()
			fields := []zap.Field{
				zap.String("request_id", reqID),
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			}
			if status >= fasthttp.StatusInternalServerError {
				logger.Warn("request completed", fields...)
				return
			}
			logger.Info("request completed", fields...)
		}
	}
}
