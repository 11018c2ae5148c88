package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/smarttask/api/transport"
	"github.com/fastygo/smarttask/domain"
	"github.com/fastygo/smarttask/pkg/httpcontext"
	taskUC "github.com/fastygo/smarttask/usecase/task"
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

// @Summary Preview how a line of text would be parsed
// @Tags tasks
// @Router /api/v1/parse [post]
func (h *TaskHandler) Parse(ctx *fasthttp.RequestCtx) {
	var req transport.IngestRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondSuccess(ctx, http.StatusOK, h.uc.Preview(stdCtx, req.Input))
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	snapshot := h.uc.Snapshot()
	tasks := h.uc.List(criteriaFromQuery(ctx))
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(tasks, transport.ListMeta{
		Count:   len(tasks),
		Version: snapshot.Version,
	}))
}

// @Summary Create a task from free-form text
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.IngestRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Ingest(stdCtx, req.Input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get a task by id or unique id prefix
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	t, err := h.uc.Get(pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, t)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	var req transport.EditRequest
	if !h.decode(ctx, &req) {
		return
	}
	patch, err := patchFromRequest(req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Edit(stdCtx, pathParam(ctx, "id"), patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.Delete(stdCtx, pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

// @Summary Toggle completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Toggle(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Toggle a subtask
// @Tags tasks
// @Router /api/v1/tasks/{id}/subtasks/{subID}/toggle [post]
func (h *TaskHandler) ToggleSubtask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.ToggleSubtask(stdCtx, pathParam(ctx, "id"), pathParam(ctx, "subID"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Raise or lower priority by one step
// @Tags tasks
// @Router /api/v1/tasks/{id}/bump [post]
func (h *TaskHandler) BumpTask(ctx *fasthttp.RequestCtx) {
	var req transport.BumpRequest
	if len(ctx.PostBody()) > 0 && !h.decode(ctx, &req) {
		return
	}
	direction := 1
	switch strings.ToLower(strings.TrimSpace(req.Direction)) {
	case "", "up":
	case "down":
		direction = -1
	default:
		h.respondInvalid(ctx, "direction must be up or down")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Bump(stdCtx, pathParam(ctx, "id"), direction)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Reschedule into a board column
// @Tags board
// @Router /api/v1/tasks/{id}/move [post]
func (h *TaskHandler) MoveTask(ctx *fasthttp.RequestCtx) {
	var req transport.MoveRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Move(stdCtx, pathParam(ctx, "id"), domain.Bucket(req.Bucket))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Board view
// @Tags board
// @Router /api/v1/board [get]
func (h *TaskHandler) GetBoard(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.uc.Board(criteriaFromQuery(ctx)))
}

func patchFromRequest(req transport.EditRequest) (taskUC.Patch, error) {
	patch := taskUC.Patch{Title: req.Title, Notes: req.Notes}
	if req.Due != nil {
		raw := strings.TrimSpace(*req.Due)
		if raw == "" {
			patch.ClearDue = true
		} else {
			due, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return patch, domain.WrapError(domain.ErrCodeInvalid, "due must be RFC3339", err)
			}
			patch.Due = &due
		}
	}
	if req.Tags != nil {
		patch.Tags = *req.Tags
		patch.SetTags = true
	}
	if req.Priority != nil {
		p, ok := domain.ParsePriority(*req.Priority)
		if !ok {
			return patch, domain.WrapError(domain.ErrCodeInvalid, "priority must be low, medium or high", nil)
		}
		patch.Priority = &p
	}
	if req.Subtasks != nil {
		patch.SetSubtasks = true
		for _, s := range *req.Subtasks {
			patch.Subtasks = append(patch.Subtasks, domain.Subtask{ID: s.ID, Title: s.Title, Done: s.Done})
		}
	}
	return patch, nil
}
