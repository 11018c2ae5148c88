package task

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/smarttask/domain"
	"github.com/fastygo/smarttask/pkg/logger"
	"github.com/fastygo/smarttask/repository"
	"github.com/fastygo/smarttask/usecase/ingest"
	"github.com/fastygo/smarttask/usecase/organizer"
)

// UseCase owns the task collection. It loads once, persists the whole
// collection on every mutation and swaps the in-memory version only after a
// successful save.
type UseCase struct {
	store    repository.TaskStore
	pipeline *ingest.Pipeline
	logger   *zap.Logger
	clock    func() time.Time
	newID    func() string

	mu      sync.RWMutex
	tasks   domain.Collection
	version uint64
}

type Option func(*UseCase)

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCase) {
		if clock != nil {
			uc.clock = clock
		}
	}
}

// WithIDs overrides the uuid generator.
func WithIDs(newID func() string) Option {
	return func(uc *UseCase) {
		if newID != nil {
			uc.newID = newID
		}
	}
}

func New(store repository.TaskStore, pipeline *ingest.Pipeline, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pipeline == nil {
		pipeline = ingest.New(ingest.NewWhenResolver(), logger)
	}
	uc := &UseCase{
		store:    store,
		pipeline: pipeline,
		logger:   logger,
		clock:    time.Now,
		newID:    domain.NewID,
		tasks:    domain.Collection{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Snapshot is one fully formed version of the collection.
type Snapshot struct {
	Version uint64
	Tasks   domain.Collection
}

// Patch carries an edit. Nil fields are left unchanged.
type Patch struct {
	Title    *string
	Notes    *string
	Due      *time.Time
	ClearDue bool
	Tags     []string
	SetTags  bool
	Priority *domain.Priority
	Subtasks []domain.Subtask
	// SetSubtasks replaces the checklist with Subtasks, even when empty.
	SetSubtasks bool
}

// Load reads the stored collection. It is called once at start.
func (uc *UseCase) Load(ctx context.Context) error {
	tasks, err := uc.store.Load(ctx)
	if err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, domain.ErrStoreFailed.Message, err)
	}
	uc.mu.Lock()
	uc.tasks = tasks.Clone()
	uc.version++
	uc.mu.Unlock()
	uc.logger.Info("task collection loaded", zap.String("store", uc.store.Name()), zap.Int("tasks", len(tasks)))
	return nil
}

func (uc *UseCase) Snapshot() Snapshot {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return Snapshot{Version: uc.version, Tasks: uc.tasks.Clone()}
}

// Now is the store's clock truncated to the persisted precision.
func (uc *UseCase) Now() time.Time {
	return uc.clock().Truncate(time.Millisecond)
}

func (uc *UseCase) List(criteria organizer.Criteria) []domain.Task {
	return organizer.Rank(organizer.Filter(uc.Snapshot().Tasks, criteria))
}

// Board always carries a done column, regardless of criteria.ShowDone.
func (uc *UseCase) Board(criteria organizer.Criteria) organizer.Board {
	criteria.ShowDone = true
	return organizer.Build(organizer.Filter(uc.Snapshot().Tasks, criteria), uc.Now())
}

// Get resolves a full id or a unique id prefix.
func (uc *UseCase) Get(ref string) (domain.Task, error) {
	return uc.Snapshot().Tasks.Resolve(ref)
}

// Preview runs the ingestion pipeline without touching the collection.
func (uc *UseCase) Preview(ctx context.Context, raw string) ingest.Result {
	return uc.pipeline.Analyze(ctx, raw, uc.Now())
}

// Ingest parses raw text and appends the resulting task.
func (uc *UseCase) Ingest(ctx context.Context, raw string) (domain.Task, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.Task{}, domain.ErrEmptyInput
	}
	now := uc.Now()
	draft := uc.pipeline.Ingest(ctx, raw, now)
	created := domain.NewTask(uc.newID(), draft, now)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.commit(ctx, "ingest", uc.tasks.Append(created)); err != nil {
		return domain.Task{}, err
	}
	return created.Clone(), nil
}

func (uc *UseCase) Toggle(ctx context.Context, ref string) (domain.Task, error) {
	return uc.mutate(ctx, "toggle", ref, func(t domain.Task) (domain.Task, error) {
		return domain.ToggleDone(t), nil
	})
}

func (uc *UseCase) ToggleSubtask(ctx context.Context, ref, subtaskID string) (domain.Task, error) {
	return uc.mutate(ctx, "toggle_subtask", ref, func(t domain.Task) (domain.Task, error) {
		return domain.ToggleSubtask(t, subtaskID)
	})
}

// Bump moves the priority one step; direction is +1 or -1.
func (uc *UseCase) Bump(ctx context.Context, ref string, direction int) (domain.Task, error) {
	return uc.mutate(ctx, "bump", ref, func(t domain.Task) (domain.Task, error) {
		return organizer.BumpPriority(t, direction), nil
	})
}

func (uc *UseCase) Move(ctx context.Context, ref string, target domain.Bucket) (domain.Task, error) {
	bucket, err := domain.ParseBucket(string(target))
	if err != nil {
		return domain.Task{}, err
	}
	now := uc.Now()
	return uc.mutate(ctx, "move", ref, func(t domain.Task) (domain.Task, error) {
		return organizer.MoveToBucket(t, bucket, now), nil
	})
}

func (uc *UseCase) Edit(ctx context.Context, ref string, patch Patch) (domain.Task, error) {
	return uc.mutate(ctx, "edit", ref, func(t domain.Task) (domain.Task, error) {
		return uc.applyPatch(t, patch)
	})
}

// AddSubtasks appends checklist entries, skipping blank titles.
func (uc *UseCase) AddSubtasks(ctx context.Context, ref string, titles []string) (domain.Task, error) {
	return uc.mutate(ctx, "add_subtasks", ref, func(t domain.Task) (domain.Task, error) {
		for _, title := range titles {
			title = strings.TrimSpace(title)
			if title == "" {
				continue
			}
			t.Subtasks = append(t.Subtasks, domain.Subtask{ID: uc.newID(), Title: title})
		}
		return t, nil
	})
}

func (uc *UseCase) Delete(ctx context.Context, ref string) (domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	target, err := uc.tasks.Resolve(ref)
	if err != nil {
		return domain.Task{}, err
	}
	next, err := uc.tasks.Remove(target.ID)
	if err != nil {
		return domain.Task{}, err
	}
	if err := uc.commit(ctx, "delete", next); err != nil {
		return domain.Task{}, err
	}
	return target, nil
}

// Import replaces the whole collection with a normalized document. Nothing
// changes when the document is rejected.
func (uc *UseCase) Import(ctx context.Context, data []byte) (int, error) {
	tasks, err := domain.DecodeCollection(data, domain.DecodeOptions{Now: uc.Now(), NewID: uc.newID})
	if err != nil {
		return 0, err
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.commit(ctx, "import", tasks); err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// Export renders the current version in the persisted format.
func (uc *UseCase) Export() ([]byte, error) {
	return domain.EncodeCollection(uc.Snapshot().Tasks)
}

func (uc *UseCase) mutate(ctx context.Context, op, ref string, fn func(domain.Task) (domain.Task, error)) (domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	target, err := uc.tasks.Resolve(ref)
	if err != nil {
		return domain.Task{}, err
	}
	var fnErr error
	next, updated, err := uc.tasks.Replace(target.ID, func(t domain.Task) domain.Task {
		out, err := fn(t)
		if err != nil {
			fnErr = err
			return t
		}
		return out
	})
	if err != nil {
		return domain.Task{}, err
	}
	if fnErr != nil {
		return domain.Task{}, fnErr
	}
	if err := uc.commit(ctx, op, next); err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}

// commit persists next and swaps it in. Callers hold uc.mu.
func (uc *UseCase) commit(ctx context.Context, op string, next domain.Collection) error {
	log := logger.WithRequestID(ctx, uc.logger)
	if err := uc.store.Save(ctx, next); err != nil {
		log.Error("failed to save task collection",
			zap.String("operation", op),
			zap.String("store", uc.store.Name()),
			zap.Error(err),
		)
		return domain.WrapError(domain.ErrCodeUnavailable, domain.ErrStoreFailed.Message, err)
	}
	uc.tasks = next
	uc.version++
	log.Debug("task collection saved",
		zap.String("operation", op),
		zap.Uint64("version", uc.version),
		zap.Int("tasks", len(next)),
	)
	return nil
}

func (uc *UseCase) applyPatch(t domain.Task, patch Patch) (domain.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return t, domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidPayload.Message, domain.ErrEmptyInput)
		}
		t.Title = title
	}
	if patch.Notes != nil {
		t.Notes = *patch.Notes
	}
	switch {
	case patch.ClearDue:
		t.Due = nil
	case patch.Due != nil:
		due := patch.Due.Truncate(time.Millisecond)
		t.Due = &due
	}
	if patch.SetTags {
		t = t.WithTags(patch.Tags)
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return t, domain.ErrInvalidPayload
		}
		t.Priority = *patch.Priority
	}
	if patch.SetSubtasks {
		subtasks := make([]domain.Subtask, 0, len(patch.Subtasks))
		for _, s := range patch.Subtasks {
			s.Title = strings.TrimSpace(s.Title)
			if s.Title == "" {
				continue
			}
			if s.ID == "" {
				s.ID = uc.newID()
			}
			subtasks = append(subtasks, s)
		}
		t.Subtasks = subtasks
	}
	return t, nil
}
