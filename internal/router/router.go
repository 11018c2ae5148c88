package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/fastygo/smarttask/api/handler"
	"github.com/fastygo/smarttask/internal/middleware"
)

type Handlers struct {
	Task      *apiHandler.TaskHandler
	Data      *apiHandler.DataHandler
	Assistant *apiHandler.AssistantHandler
	Health    *apiHandler.HealthHandler
}

// New registers every route. guard wraps the /api/v1 routes; pass
// middleware.Passthrough to leave them open.
func New(handlers Handlers, guard middleware.Middleware) *router.Router {
	if guard == nil {
		guard = middleware.Passthrough
	}
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	api := r.Group("/api/v1")

	api.POST("/parse", guard(handlers.Task.Parse))

	api.GET("/tasks", guard(handlers.Task.GetTasks))
	api.POST("/tasks", guard(handlers.Task.CreateTask))
	api.GET("/tasks/{id}", guard(handlers.Task.GetTask))
	api.PUT("/tasks/{id}", guard(handlers.Task.UpdateTask))
	api.DELETE("/tasks/{id}", guard(handlers.Task.DeleteTask))
	api.POST("/tasks/{id}/toggle", guard(handlers.Task.ToggleTask))
	api.POST("/tasks/{id}/subtasks/{subID}/toggle", guard(handlers.Task.ToggleSubtask))
	api.POST("/tasks/{id}/bump", guard(handlers.Task.BumpTask))
	api.POST("/tasks/{id}/move", guard(handlers.Task.MoveTask))
	api.POST("/tasks/{id}/breakdown", guard(handlers.Assistant.Breakdown))

	api.GET("/board", guard(handlers.Task.GetBoard))
	api.POST("/assistant/summary", guard(handlers.Assistant.Summary))

	api.GET("/export", guard(handlers.Data.Export))
	api.POST("/import", guard(handlers.Data.Import))

	return r
}
