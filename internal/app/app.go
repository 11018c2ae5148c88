// Package app assembles the storage backend, use cases and background
// services shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/smarttask/internal/config"
	boltInfra "github.com/fastygo/smarttask/internal/infrastructure/bolt"
	"github.com/fastygo/smarttask/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/smarttask/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/smarttask/internal/infrastructure/redis"
	"github.com/fastygo/smarttask/internal/infrastructure/textgen"
	"github.com/fastygo/smarttask/internal/services"
	"github.com/fastygo/smarttask/internal/services/lifecycle"
	"github.com/fastygo/smarttask/repository"
	boltRepo "github.com/fastygo/smarttask/repository/bolt"
	pgRepo "github.com/fastygo/smarttask/repository/postgres"
	redisRepo "github.com/fastygo/smarttask/repository/redis"
	assistantUC "github.com/fastygo/smarttask/usecase/assistant"
	"github.com/fastygo/smarttask/usecase/ingest"
	taskUC "github.com/fastygo/smarttask/usecase/task"
)

type Options struct {
	// Background starts the connection monitor and the snapshot drain job.
	Background bool
}

type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Lifecycle *lifecycle.Manager
	Store     repository.TaskStore
	Monitor   *monitor.Monitor
	Buffer    *services.SnapshotBuffer
	Generator textgen.Generator
	Tasks     *taskUC.UseCase
	Assistant *assistantUC.UseCase
}

// Bootstrap opens the configured backend and loads the collection. Every
// resource it opens is registered with the returned app's Lifecycle.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		Config:    cfg,
		Logger:    logger,
		Lifecycle: lifecycle.New(cfg.Context.ShutdownTimeout, logger),
	}

	store, err := a.openStore(ctx)
	if err != nil {
		_ = a.Lifecycle.Shutdown(context.Background())
		return nil, err
	}
	a.Store = store

	if opts.Background {
		a.startBackground()
	}

	pipeline := ingest.New(ingest.NewWhenResolver(), logger.Named("ingest"))
	a.Tasks = taskUC.New(store, pipeline, logger.Named("tasks"))
	if err := a.Tasks.Load(ctx); err != nil {
		_ = a.Lifecycle.Shutdown(context.Background())
		return nil, err
	}

	a.Generator = textgen.New(ctx, cfg.Assistant, logger)
	a.Assistant = assistantUC.New(a.Generator, logger.Named("assistant"))
	return a, nil
}

func (a *App) startBackground() {
	a.Monitor = monitor.New(a.Store, a.Config.Buffer.MonitorEvery, a.Logger.Named("monitor"))
	if a.Buffer != nil {
		a.Monitor.TrackPending(a.Buffer)
		a.Buffer.Watch(a.Monitor)
	}
	a.Monitor.Start()
	a.Lifecycle.Register("monitor", func(context.Context) error {
		a.Monitor.Stop()
		return nil
	})

	if a.Buffer != nil {
		a.Buffer.Start()
		a.Lifecycle.Register("snapshot_buffer", func(ctx context.Context) error {
			a.Buffer.Stop(ctx)
			return nil
		})
	}
}

// Close runs every registered shutdown hook.
func (a *App) Close(ctx context.Context) error {
	return a.Lifecycle.Shutdown(ctx)
}

func (a *App) openStore(ctx context.Context) (repository.TaskStore, error) {
	cfg := a.Config
	switch cfg.Storage.Backend {
	case config.BackendBolt:
		db, err := boltInfra.Open(cfg.Storage.BoltPath, boltRepo.Bucket)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		a.Lifecycle.RegisterCloser("bolt", db)
		return boltRepo.NewTaskStore(db), nil

	case config.BackendRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("redis client: %w", err)
		}
		a.Lifecycle.RegisterCloser("redis", client)
		return a.buffered(redisRepo.NewTaskStore(client, cfg.Redis.Key))

	case config.BackendPostgres:
		if err := pgInfra.RunMigrations(cfg, a.Logger); err != nil {
			a.Logger.Warn("migrations skipped", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("postgres pool: %w", err)
		}
		a.Lifecycle.Register("postgres", func(context.Context) error {
			pgInfra.Close(pool, a.Logger)
			return nil
		})
		return a.buffered(pgRepo.NewTaskStore(pool, cfg.Storage.Collection))
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// buffered fronts a remote store with the local snapshot buffer.
func (a *App) buffered(remote repository.TaskStore) (repository.TaskStore, error) {
	db, err := boltInfra.Open(a.Config.Buffer.Path, services.PendingBucket)
	if err != nil {
		return nil, fmt.Errorf("open snapshot buffer: %w", err)
	}
	a.Lifecycle.RegisterCloser("buffer", db)
	a.Buffer = services.NewSnapshotBuffer(remote, db, nil, a.Logger.Named("buffer"), services.BufferConfig{
		Interval: a.Config.Buffer.SyncInterval,
	})
	return a.Buffer, nil
}
