package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/smarttask/domain"
	"github.com/fastygo/smarttask/repository"
)

type taskStore struct {
	pool *pgxpool.Pool
	name string
}

// NewTaskStore returns a Postgres-backed TaskStore. Each named collection is a
// single row of task_snapshots holding the JSON document.
func NewTaskStore(pool *pgxpool.Pool, name string) repository.TaskStore {
	return &taskStore{pool: pool, name: clampName(name)}
}

func (s *taskStore) Name() string { return "postgres" }

func (s *taskStore) Load(ctx context.Context) (domain.Collection, error) {
	const query = `
	SELECT payload
	FROM task_snapshots
	WHERE name = $1
	`
	var payload []byte
	if err := s.pool.QueryRow(ctx, query, s.name).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Collection{}, nil
		}
		return nil, err
	}
	return repository.Decode(payload)
}

func (s *taskStore) Save(ctx context.Context, tasks domain.Collection) error {
	payload, err := repository.Encode(tasks)
	if err != nil {
		return err
	}

	const query = `
	INSERT INTO task_snapshots (name, payload, version, updated_at)
	VALUES ($1, $2, 1, NOW())
	ON CONFLICT (name) DO UPDATE
	SET payload = EXCLUDED.payload,
		version = task_snapshots.version + 1,
		updated_at = NOW()
	`
	_, err = s.pool.Exec(ctx, query, s.name, payload)
	return err
}

func (s *taskStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
