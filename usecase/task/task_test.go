package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/smarttask/domain"
	"github.com/fastygo/smarttask/usecase/ingest"
	"github.com/fastygo/smarttask/usecase/organizer"
)

var errBackendDown = errors.New("backend down")

type memoryStore struct {
	mu      sync.Mutex
	saved   domain.Collection
	saves   int
	failing bool
	loadErr error
}

func (m *memoryStore) Load(context.Context) (domain.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved.Clone(), nil
}

func (m *memoryStore) Save(_ context.Context, tasks domain.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errBackendDown
	}
	m.saved = tasks.Clone()
	m.saves++
	return nil
}

func (m *memoryStore) Ping(context.Context) error { return nil }
func (m *memoryStore) Name() string                { return "memory" }

func (m *memoryStore) setFailing(v bool) {
	m.mu.Lock()
	m.failing = v
	m.mu.Unlock()
}

var fixedNow = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func newUseCase(t *testing.T, store *memoryStore) *UseCase {
	t.Helper()
	resolver := ingest.DateResolverFunc(func(_ context.Context, text string, ref time.Time, _ ingest.ResolveOptions) ([]ingest.DateMatch, error) {
		const phrase = "tomorrow"
		for i := 0; i+len(phrase) <= len(text); i++ {
			if text[i:i+len(phrase)] == phrase {
				at := time.Date(ref.Year(), ref.Month(), ref.Day()+1, 15, 0, 0, 0, ref.Location())
				return []ingest.DateMatch{{Text: phrase, Start: i, End: i + len(phrase), At: at}}, nil
			}
		}
		return nil, nil
	})
	uc := New(store, ingest.New(resolver, nil), nil,
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(sequence()),
	)
	require.NoError(t, uc.Load(context.Background()))
	return uc
}

func TestIngest(t *testing.T) {
	store := &memoryStore{}
	uc := newUseCase(t, store)
	ctx := context.Background()

	before := uc.Snapshot().Version
	created, err := uc.Ingest(ctx, "Email Alex tomorrow #work !high")
	require.NoError(t, err)

	assert.Equal(t, "id-001", created.ID)
	assert.Equal(t, "Email Alex", created.Title)
	require.NotNil(t, created.Due)
	assert.Equal(t, time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC), *created.Due)
	assert.Equal(t, []string{"work"}, created.Tags)
	assert.Equal(t, domain.PriorityHigh, created.Priority)
	assert.Equal(t, fixedNow, created.CreatedAt)
	assert.False(t, created.Done)
	assert.Empty(t, created.Subtasks)

	snap := uc.Snapshot()
	assert.Equal(t, before+1, snap.Version)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, snap.Tasks, store.saved)
}

func TestIngestRejectsBlankInput(t *testing.T) {
	store := &memoryStore{}
	uc := newUseCase(t, store)

	_, err := uc.Ingest(context.Background(), "   \t")
	require.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Zero(t, store.saves)
	assert.Empty(t, uc.Snapshot().Tasks)
}

func TestFailedSaveKeepsPreviousVersion(t *testing.T) {
	store := &memoryStore{}
	uc := newUseCase(t, store)
	ctx := context.Background()

	created, err := uc.Ingest(ctx, "Pay rent")
	require.NoError(t, err)
	before := uc.Snapshot()

	store.setFailing(true)

	_, err = uc.Ingest(ctx, "Buy milk")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
	assert.ErrorIs(t, err, errBackendDown)

	_, err = uc.Toggle(ctx, created.ID)
	require.Error(t, err)
	_, err = uc.Delete(ctx, created.ID)
	require.Error(t, err)
	_, err = uc.Import(ctx, []byte(`[]`))
	require.Error(t, err)

	after := uc.Snapshot()
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.Tasks, after.Tasks)

	store.setFailing(false)
	toggled, err := uc.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)
	assert.Equal(t, before.Version+1, uc.Snapshot().Version)
}

func TestLoad(t *testing.T) {
	due := fixedNow.Add(time.Hour)
	store := &memoryStore{saved: domain.Collection{
		{ID: "abc123", Title: "Stored", CreatedAt: fixedNow, Due: &due, Tags: []string{}, Priority: domain.PriorityLow, Subtasks: []domain.Subtask{}},
	}}
	uc := newUseCase(t, store)

	got, err := uc.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, "Stored", got.Title)
	assert.Equal(t, uint64(1), uc.Snapshot().Version)

	failing := New(&memoryStore{loadErr: errBackendDown}, nil, nil)
	err = failing.Load(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
}

func TestSnapshotIsIsolated(t *testing.T) {
	uc := newUseCase(t, &memoryStore{})
	_, err := uc.Ingest(context.Background(), "Call mom #family")
	require.NoError(t, err)

	snap := uc.Snapshot()
	snap.Tasks[0].Title = "changed"
	snap.Tasks[0].Tags[0] = "changed"

	fresh := uc.Snapshot()
	assert.Equal(t, "Call mom", fresh.Tasks[0].Title)
	assert.Equal(t, []string{"family"}, fresh.Tasks[0].Tags)
}

func TestMutationsResolvePrefixes(t *testing.T) {
	uc := newUseCase(t, &memoryStore{})
	ctx := context.Background()

	first, err := uc.Ingest(ctx, "First")
	require.NoError(t, err)
	_, err = uc.Ingest(ctx, "Second")
	require.NoError(t, err)

	_, err = uc.Toggle(ctx, "id-")
	assert.ErrorIs(t, err, domain.ErrAmbiguousID)

	_, err = uc.Toggle(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	toggled, err := uc.Toggle(ctx, "id-001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, toggled.ID)
	assert.True(t, toggled.Done)

	toggled, err = uc.Toggle(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Done)
}

func TestBumpAndMove(t *testing.T) {
	uc := newUseCase(t, &memoryStore{})
	ctx := context.Background()

	created, err := uc.Ingest(ctx, "Write report !low")
	require.NoError(t, err)

	bumped, err := uc.Bump(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, bumped.Priority)
	bumped, err = uc.Bump(ctx, created.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLow, bumped.Priority)

	moved, err := uc.Move(ctx, created.ID, domain.Bucket(" Today "))
	require.NoError(t, err)
	require.NotNil(t, moved.Due)
	assert.Equal(t, time.Date(2024, 3, 14, 17, 0, 0, 0, time.UTC), *moved.Due)

	board := uc.Board(organizer.Criteria{})
	require.Len(t, board.Today, 1)
	assert.Equal(t, created.ID, board.Today[0].ID)

	moved, err = uc.Move(ctx, created.ID, domain.BucketDone)
	require.NoError(t, err)
	assert.True(t, moved.Done)
	board = uc.Board(organizer.Criteria{})
	assert.Len(t, board.Done, 1, "board always includes completed tasks")
	assert.Empty(t, uc.List(organizer.Criteria{}))

	_, err = uc.Move(ctx, created.ID, domain.Bucket("someday"))
	assert.ErrorIs(t, err, domain.ErrInvalidBucket)
}

func TestEdit(t *testing.T) {
	uc := newUseCase(t, &memoryStore{})
	ctx := context.Background()

	created, err := uc.Ingest(ctx, "Draft plan tomorrow #work")
	require.NoError(t, err)

	title := "  Final plan "
	notes := "share with team"
	priority := domain.PriorityHigh
	edited, err := uc.Edit(ctx, created.ID[:5], Patch{
		Title:    &title,
		Notes:    &notes,
		ClearDue: true,
		Tags:     []string{"#Proj:Apollo", "work", "WORK"},
		SetTags:  true,
		Priority: &priority,
		Subtasks: []domain.Subtask{
			{Title: "outline"},
			{ID: "keep", Title: "review", Done: true},
			{Title: "   "},
		},
		SetSubtasks: true,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, edited.ID)
	assert.Equal(t, created.CreatedAt, edited.CreatedAt)
	assert.Equal(t, "Final plan", edited.Title)
	assert.Equal(t, notes, edited.Notes)
	assert.Nil(t, edited.Due)
	assert.Equal(t, []string{"proj:apollo", "work"}, edited.Tags)
	assert.Equal(t, "apollo", edited.Project)
	assert.Equal(t, domain.PriorityHigh, edited.Priority)
	require.Len(t, edited.Subtasks, 2)
	assert.Equal(t, "id-002", edited.Subtasks[0].ID)
	assert.Equal(t, domain.Subtask{ID: "keep", Title: "review", Done: true}, edited.Subtasks[1])

	due := time.Date(2024, 4, 1, 8, 30, 0, 123456789, time.UTC)
	edited, err = uc.Edit(ctx, created.ID, Patch{Due: &due})
	require.NoError(t, err)
	require.NotNil(t, edited.Due)
	assert.Equal(t, 123*time.Millisecond, time.Duration(edited.Due.Nanosecond()))
	assert.Equal(t, "Final plan", edited.Title, "nil fields are left unchanged")

	empty := " "
	version := uc.Snapshot().Version
	_, err = uc.Edit(ctx, created.ID, Patch{Title: &empty})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	bad := domain.Priority("urgent")
	_, err = uc.Edit(ctx, created.ID, Patch{Priority: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	assert.Equal(t, version, uc.Snapshot().Version, "rejected edits do not commit")
}

func TestSubtasks(t *testing.T) {
	uc := newUseCase(t, &memoryStore{})
	ctx := context.Background()

	created, err := uc.Ingest(ctx, "Move house")
	require.NoError(t, err)

	withSteps, err := uc.AddSubtasks(ctx, created.ID, []string{"Book van", "", " Pack boxes "})
	require.NoError(t, err)
	require.Len(t, withSteps.Subtasks, 2)
	assert.Equal(t, "Pack boxes", withSteps.Subtasks[1].Title)

	toggled, err := uc.ToggleSubtask(ctx, created.ID, withSteps.Subtasks[0].ID)
	require.NoError(t, err)
	assert.True(t, toggled.Subtasks[0].Done)
	assert.False(t, toggled.Subtasks[1].Done)
	assert.False(t, toggled.Done)

	_, err = uc.ToggleSubtask(ctx, created.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrSubtaskNotFound)
}

func TestDelete(t *testing.T) {
	store := &memoryStore{}
	uc := newUseCase(t, store)
	ctx := context.Background()

	created, err := uc.Ingest(ctx, "Temporary")
	require.NoError(t, err)

	removed, err := uc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)
	assert.Empty(t, uc.Snapshot().Tasks)
	assert.Empty(t, store.saved)

	_, err = uc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestImportExport(t *testing.T) {
	uc := newUseCase(t, &memoryStore{})
	ctx := context.Background()

	_, err := uc.Ingest(ctx, "Email Alex tomorrow #work !high")
	require.NoError(t, err)
	_, err = uc.Ingest(ctx, "Plan garden #proj:home")
	require.NoError(t, err)

	exported, err := uc.Export()
	require.NoError(t, err)

	other := newUseCase(t, &memoryStore{})
	n, err := other.Import(ctx, exported)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	reexported, err := other.Export()
	require.NoError(t, err)
	assert.JSONEq(t, string(exported), string(reexported))
	assert.Equal(t, "home", other.Snapshot().Tasks[1].Project)

	version := other.Snapshot().Version
	for _, doc := range []string{`{"title":"x"}`, `[{"title":"ok"}, 3]`, `not json`} {
		_, err := other.Import(ctx, []byte(doc))
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), doc)
	}
	assert.Equal(t, version, other.Snapshot().Version)
	assert.Len(t, other.Snapshot().Tasks, 2)

	n, err = other.Import(ctx, []byte(`[{"title":"Sparse"}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got := other.Snapshot().Tasks[0]
	assert.Equal(t, "Sparse", got.Title)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	assert.Equal(t, fixedNow, got.CreatedAt)
}

func TestPreviewDoesNotCommit(t *testing.T) {
	store := &memoryStore{}
	uc := newUseCase(t, store)

	res := uc.Preview(context.Background(), "Ship release tomorrow #work")
	assert.Equal(t, "Ship release", res.Draft.Title)
	require.NotNil(t, res.DateMatch)
	assert.Equal(t, "tomorrow", res.DateMatch.Text)
	assert.Zero(t, store.saves)
	assert.Empty(t, uc.Snapshot().Tasks)
}

func TestConcurrentMutations(t *testing.T) {
	store := &memoryStore{}
	uc := New(store, ingest.New(ingest.NoopResolver{}, nil), nil)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Ingest(ctx, fmt.Sprintf("task %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap := uc.Snapshot()
	assert.Len(t, snap.Tasks, writers)
	assert.Equal(t, uint64(writers), snap.Version)
	assert.Equal(t, writers, store.saves)
}
