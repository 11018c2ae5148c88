package redis

import (
	"context"
	"errors"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/smarttask/domain"
	"github.com/fastygo/smarttask/repository"
)

const defaultKey = "smarttask:tasks"

type taskStore struct {
	client *redislib.Client
	key    string
}

// NewTaskStore creates a Redis-backed TaskStore keeping the snapshot under key.
func NewTaskStore(client *redislib.Client, key string) repository.TaskStore {
	if key == "" {
		key = defaultKey
	}
	return &taskStore{client: client, key: key}
}

func (s *taskStore) Name() string { return "redis" }

func (s *taskStore) Load(ctx context.Context) (domain.Collection, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
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
	return s.client.Set(ctx, s.key, payload, 0).Err()
}

func (s *taskStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
