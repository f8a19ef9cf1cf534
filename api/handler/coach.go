package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachboard/api/transport"
	"github.com/fastygo/coachboard/domain"
	"github.com/fastygo/coachboard/pkg/httpcontext"
	"github.com/fastygo/coachboard/usecase/coach"
)

type CoachHandler struct {
	baseHandler
	session *coach.Session
}

func NewCoachHandler(session *coach.Session, adapter *httpcontext.Adapter, logger *zap.Logger) *CoachHandler {
	return &CoachHandler{
		baseHandler: newBaseHandler(adapter, logger),
		session:     session,
	}
}

type transcriptResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
	Pending  bool                 `json:"pending"`
}

// @Summary Chat transcript
// @Tags coach
// @Router /api/v1/chat [get]
func (h *CoachHandler) GetTranscript(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, transcriptResponse{
		Messages: h.session.Transcript(),
		Pending:  h.session.Pending(),
	})
}

// @Summary Send chat message
// @Tags coach
// @Router /api/v1/chat [post]
func (h *CoachHandler) Send(ctx *fasthttp.RequestCtx) {
	var req transport.ChatRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.invalid(ctx, domain.ErrInvalidPayload.Message)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	res := h.session.Send(stdCtx, req.Message)
	switch {
	case res.Accepted:
		h.respondSuccess(ctx, http.StatusOK, res)
	case res.Reason == coach.RejectBusy:
		h.respondJSON(ctx, http.StatusConflict, transport.NewError("BUSY", "a message is already being answered", res))
	default:
		h.invalid(ctx, "message must not be empty")
	}
}
