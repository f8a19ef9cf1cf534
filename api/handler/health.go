package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachboard/internal/infrastructure/monitor"
	"github.com/fastygo/coachboard/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Manager
}

func NewHealthHandler(mon *monitor.Manager, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"display":   status.Display(),
		"services": map[string]interface{}{
			"ai": map[string]interface{}{
				"ready": status.AIReady,
				"state": status.AIState,
			},
			"calendar": map[string]interface{}{
				"ready": status.CalendarReady,
				"state": status.CalendarState,
			},
		},
		"lastChange": status.LastChange,
	}

	// Offline and AI-only are normal operating modes; readiness is reported, not enforced.
	h.respondSuccess(ctx, http.StatusOK, payload)
}
