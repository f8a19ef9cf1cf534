package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachboard/api/transport"
	"github.com/fastygo/coachboard/pkg/httpcontext"
	calendarUC "github.com/fastygo/coachboard/usecase/calendar"
)

type CalendarHandler struct {
	baseHandler
	client *calendarUC.Client
	// connectTimeout covers the interactive sign-in plus fetch.
	connectTimeout time.Duration
}

func NewCalendarHandler(client *calendarUC.Client, adapter *httpcontext.Adapter, logger *zap.Logger, connectTimeout time.Duration) *CalendarHandler {
	return &CalendarHandler{
		baseHandler:    newBaseHandler(adapter, logger),
		client:         client,
		connectTimeout: connectTimeout,
	}
}

// @Summary Connect calendar
// @Tags calendar
// @Router /api/v1/calendar/connect [post]
func (h *CalendarHandler) Connect(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContextWithTimeout(ctx, h.connectTimeout)
	defer cancel()

	h.respondResult(ctx, h.client.Connect(stdCtx))
}

// @Summary Refresh calendar
// @Tags calendar
// @Router /api/v1/calendar/refresh [post]
func (h *CalendarHandler) Refresh(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondResult(ctx, h.client.Refresh(stdCtx))
}

// respondResult reports every outcome as a result payload; only the status code differs.
func (h *CalendarHandler) respondResult(ctx *fasthttp.RequestCtx, res calendarUC.Result) {
	switch res.Outcome {
	case calendarUC.OutcomeSynced:
		h.respondSuccess(ctx, http.StatusOK, res)
	case calendarUC.OutcomeConfigurationMissing:
		h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError(string(res.Outcome), "calendar credentials not configured", res))
	case calendarUC.OutcomeNotConnected:
		h.respondJSON(ctx, http.StatusConflict, transport.NewError(string(res.Outcome), "calendar not connected", res))
	default:
		msg := "calendar sync failed"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		h.respondJSON(ctx, http.StatusBadGateway, transport.NewError(string(res.Outcome), msg, res))
	}
}
