package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is the storage backend being watched.
type Pinger interface {
	Ping(ctx context.Context) error
	Name() string
}

// PendingCounter reports snapshots waiting to be written to the backend.
type PendingCounter interface {
	Pending() int
}

type Monitor struct {
	store   Pinger
	pending PendingCounter

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	logger   *zap.Logger
}

func New(store Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		store:    store,
		interval: interval,
		timeout:  3 * time.Second,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
	if store != nil {
		m.status.Store = store.Name()
	}
	return m
}

// TrackPending adds a pending-snapshot counter to the reported status.
func (m *Monitor) TrackPending(counter PendingCounter) {
	m.mu.Lock()
	m.pending = counter
	m.mu.Unlock()
}

// Start checks once synchronously, then keeps checking every interval.
func (m *Monitor) Start() {
	m.refresh()
	m.wg.Add(1)
	go m.loop()
}

// Stop halts the loop and waits for it. Safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	online := m.checkStore()

	m.mu.RLock()
	counter := m.pending
	m.mu.RUnlock()
	pending := 0
	if counter != nil {
		pending = counter.Pending()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status.Online != online && !m.status.LastCheck.IsZero() {
		m.logger.Info("storage connectivity changed", zap.String("store", m.status.Store), zap.Bool("online", online))
	}
	m.status.Online = online
	m.status.Pending = pending
	m.status.LastCheck = time.Now()
}

func (m *Monitor) checkStore() bool {
	if m.store == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := m.store.Ping(ctx); err != nil {
		m.logger.Debug("storage ping failed", zap.String("store", m.store.Name()), zap.Error(err))
		return false
	}
	return true
}
