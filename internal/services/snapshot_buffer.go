package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	bbolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/fastygo/smarttask/domain"
	"github.com/fastygo/smarttask/repository"
)

// PendingBucket holds the snapshot that could not reach the backend.
const PendingBucket = "pending"

var pendingKey = []byte("snapshot")

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// BufferConfig controls how frequently a parked snapshot is retried.
type BufferConfig struct {
	Interval time.Duration
}

// SnapshotBuffer wraps a remote TaskStore. A save that fails is parked in a
// local bbolt file and pushed again by a cron job once the backend is back.
// Only the latest snapshot is kept: it supersedes every earlier one.
type SnapshotBuffer struct {
	remote  repository.TaskStore
	db      *bbolt.DB
	monitor ConnectionHealth
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     BufferConfig

	mu sync.Mutex
}

var _ repository.TaskStore = (*SnapshotBuffer)(nil)

// NewSnapshotBuffer expects db to contain PendingBucket.
func NewSnapshotBuffer(
	remote repository.TaskStore,
	db *bbolt.DB,
	monitor ConnectionHealth,
	logger *zap.Logger,
	cfg BufferConfig,
) *SnapshotBuffer {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sb := &SnapshotBuffer{
		remote:  remote,
		db:      db,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", max(1, int(cfg.Interval.Seconds())))
	_, _ = sb.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := sb.Drain(ctx); err != nil {
			sb.logger.Error("snapshot drain failed", zap.Error(err))
		}
	})

	return sb
}

// Watch gates remote writes on health. Without it every save tries the remote.
func (sb *SnapshotBuffer) Watch(health ConnectionHealth) {
	sb.mu.Lock()
	sb.monitor = health
	sb.mu.Unlock()
}

// Start launches the cron scheduler.
func (sb *SnapshotBuffer) Start() {
	sb.cron.Start()
	sb.logger.Info("snapshot buffer started", zap.String("store", sb.remote.Name()))
}

// Stop waits for a running drain to finish or ctx to expire.
func (sb *SnapshotBuffer) Stop(ctx context.Context) {
	stopCtx := sb.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	sb.logger.Info("snapshot buffer stopped")
}

func (sb *SnapshotBuffer) Name() string {
	return sb.remote.Name()
}

func (sb *SnapshotBuffer) Ping(ctx context.Context) error {
	return sb.remote.Ping(ctx)
}

// Load prefers a parked snapshot: it is newer than anything the backend has.
func (sb *SnapshotBuffer) Load(ctx context.Context) (domain.Collection, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	payload, err := sb.readPending()
	if err != nil {
		return nil, err
	}
	if payload != nil {
		sb.logger.Info("loading parked snapshot", zap.String("store", sb.remote.Name()))
		return repository.Decode(payload)
	}
	return sb.remote.Load(ctx)
}

// Save writes through to the backend, or parks the snapshot when the backend
// is offline or rejects the write.
func (sb *SnapshotBuffer) Save(ctx context.Context, tasks domain.Collection) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.monitor == nil || sb.monitor.IsOnline() {
		err := sb.remote.Save(ctx, tasks)
		if err == nil {
			return sb.clearPending()
		}
		sb.logger.Warn("snapshot save failed, parking locally", zap.String("store", sb.remote.Name()), zap.Error(err))
	}

	payload, err := repository.Encode(tasks)
	if err != nil {
		return err
	}
	if err := sb.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(PendingBucket)).Put(pendingKey, payload)
	}); err != nil {
		return fmt.Errorf("park snapshot: %w", err)
	}
	return nil
}

// Drain pushes the parked snapshot to the backend when it is reachable.
func (sb *SnapshotBuffer) Drain(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.monitor != nil && !sb.monitor.IsOnline() {
		sb.logger.Debug("skipping snapshot drain (offline)")
		return nil
	}

	payload, err := sb.readPending()
	if err != nil || payload == nil {
		return err
	}
	tasks, err := repository.Decode(payload)
	if err != nil {
		return errors.Join(err, sb.clearPending())
	}
	if err := sb.remote.Save(ctx, tasks); err != nil {
		return err
	}
	sb.logger.Info("parked snapshot synchronized", zap.String("store", sb.remote.Name()), zap.Int("tasks", len(tasks)))
	return sb.clearPending()
}

// Pending returns 1 while a snapshot waits for the backend.
func (sb *SnapshotBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	payload, err := sb.readPending()
	if err != nil || payload == nil {
		return 0
	}
	return 1
}

func (sb *SnapshotBuffer) readPending() ([]byte, error) {
	var payload []byte
	err := sb.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(PendingBucket)).Get(pendingKey); v != nil {
			payload = append([]byte{}, v...)
		}
		return nil
	})
	return payload, err
}

func (sb *SnapshotBuffer) clearPending() error {
	return sb.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(PendingBucket)).Delete(pendingKey)
	})
}
