package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/smarttask/api/transport"
	"github.com/fastygo/smarttask/pkg/httpcontext"
	taskUC "github.com/fastygo/smarttask/usecase/task"
)

// DataHandler moves the whole collection in and out as the persisted document.
type DataHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewDataHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DataHandler {
	return &DataHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Export all tasks
// @Tags data
// @Router /api/v1/export [get]
func (h *DataHandler) Export(ctx *fasthttp.RequestCtx) {
	body, err := h.uc.Export()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="tasks.json"`)
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(body)
}

// @Summary Replace all tasks from an exported document
// @Tags data
// @Router /api/v1/import [post]
func (h *DataHandler) Import(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	n, err := h.uc.Import(stdCtx, ctx.PostBody())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ImportResponse{Imported: n})
}
