package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/smarttask/api/transport"
	"github.com/fastygo/smarttask/pkg/httpcontext"
	assistantUC "github.com/fastygo/smarttask/usecase/assistant"
	taskUC "github.com/fastygo/smarttask/usecase/task"
)

type AssistantHandler struct {
	baseHandler
	tasks     *taskUC.UseCase
	assistant *assistantUC.UseCase
}

func NewAssistantHandler(tasks *taskUC.UseCase, assistant *assistantUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tasks:       tasks,
		assistant:   assistant,
	}
}

// @Summary Summarize today's open tasks
// @Tags assistant
// @Router /api/v1/assistant/summary [post]
func (h *AssistantHandler) Summary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	text := h.assistant.SummarizeDay(stdCtx, h.tasks.Snapshot().Tasks, h.tasks.Now())
	h.respondSuccess(ctx, http.StatusOK, transport.SummaryResponse{Text: text})
}

// @Summary Suggest subtasks, optionally attaching them
// @Tags assistant
// @Router /api/v1/tasks/{id}/breakdown [post]
func (h *AssistantHandler) Breakdown(ctx *fasthttp.RequestCtx) {
	t, err := h.tasks.Get(pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	text := h.assistant.BreakDown(stdCtx, t)
	resp := transport.BreakdownResponse{Text: text, Steps: assistantUC.ParseSteps(text)}
	if resp.Steps == nil {
		resp.Steps = []string{}
	}

	if ctx.QueryArgs().GetBool("apply") && len(resp.Steps) > 0 {
		updated, err := h.tasks.AddSubtasks(stdCtx, t.ID, resp.Steps)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		resp.Task = &updated
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}
