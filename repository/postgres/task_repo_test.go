package postgres

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/smarttask/domain"
)

// Set SMARTTASK_TEST_DATABASE_URL to a database where the migrations have run.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("SMARTTASK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SMARTTASK_TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	name := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM task_snapshots WHERE name = $1`, name)
	})

	store := NewTaskStore(pool, name)
	require.NoError(t, store.Ping(ctx))

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	due := time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC)
	for _, title := range []string{"first", "second"} {
		require.NoError(t, store.Save(ctx, domain.Collection{
			{ID: "a", Title: title, Due: &due, Tags: []string{}, Priority: domain.PriorityLow, Subtasks: []domain.Subtask{}},
		}))
	}

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Title)
	require.NotNil(t, got[0].Due)
	assert.True(t, got[0].Due.Equal(due))

	var version int64
	require.NoError(t, pool.QueryRow(ctx, `SELECT version FROM task_snapshots WHERE name = $1`, name).Scan(&version))
	assert.Equal(t, int64(2), version)
}

func TestClampName(t *testing.T) {
	assert.Equal(t, "default", clampName("  "))
	assert.Equal(t, "inbox", clampName(" inbox "))
	assert.Len(t, clampName(strings.Repeat("x", 100)), 64)
}
