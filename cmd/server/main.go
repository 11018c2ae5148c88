package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/smarttask/api/handler"
	"github.com/fastygo/smarttask/internal/app"
	"github.com/fastygo/smarttask/internal/config"
	"github.com/fastygo/smarttask/internal/middleware"
	"github.com/fastygo/smarttask/internal/router"
	"github.com/fastygo/smarttask/pkg/httpcontext"
	"github.com/fastygo/smarttask/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	application, err := app.Bootstrap(context.Background(), cfg, zapLogger, app.Options{Background: true})
	if err != nil {
		zapLogger.Fatal("bootstrap failed", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}

	appCtx, cancel := application.Lifecycle.Context(context.Background())
	defer cancel()

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:      apiHandler.NewTaskHandler(application.Tasks, ctxAdapter, zapLogger),
		Data:      apiHandler.NewDataHandler(application.Tasks, ctxAdapter, zapLogger),
		Assistant: apiHandler.NewAssistantHandler(application.Tasks, application.Assistant, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(application.Monitor, ctxAdapter, zapLogger),
	}

	guard := middleware.Guard(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	if cfg.JWT.Secret == "" {
		zapLogger.Warn("JWT_SECRET not set, API routes are open")
	}
	r := router.New(handlers, guard)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", application.Store.Name()),
			zap.String("assistant", application.Generator.Name()),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	application.Lifecycle.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := application.Close(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
