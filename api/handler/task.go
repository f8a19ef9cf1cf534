package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachboard/api/transport"
	"github.com/fastygo/coachboard/domain"
	"github.com/fastygo/coachboard/pkg/httpcontext"
	"github.com/fastygo/coachboard/repository"
	taskUC "github.com/fastygo/coachboard/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	priority, err := domain.ParsePriorityFilter(string(args.Peek("priority")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	status, err := domain.ParseStatusFilter(string(args.Peek("status")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	filter := repository.TaskFilter{
		Search:   string(args.Peek("search")),
		Priority: priority,
		Status:   status,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondJSON(ctx, http.StatusOK, transport.NewList(h.uc.ListTasks(stdCtx, filter)))
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondSuccess(ctx, http.StatusCreated, h.uc.CreateTask(stdCtx, req.NewTask()))
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}
	req, ok := h.parseTask(ctx)
	if !ok {
		return
	}
	patch, err := req.Patch()
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Complete task
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.CompleteTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Archive task
// @Tags tasks
// @Router /api/v1/tasks/{id}/archive [post]
func (h *TaskHandler) ArchiveTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.ArchiveTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Delete task (idempotent)
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Dashboard stats
// @Tags dashboard
// @Router /api/v1/stats [get]
func (h *TaskHandler) GetStats(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondSuccess(ctx, http.StatusOK, h.uc.Stats(stdCtx))
}

// @Summary List calendar events
// @Tags dashboard
// @Router /api/v1/events [get]
func (h *TaskHandler) GetEvents(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondJSON(ctx, http.StatusOK, transport.NewList(h.uc.ListEvents(stdCtx)))
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx) (transport.TaskRequest, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.invalid(ctx, domain.ErrInvalidPayload.Message)
		return transport.TaskRequest{}, false
	}
	return req, true
}
