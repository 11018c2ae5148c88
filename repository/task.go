package repository

import (
	"context"

	"github.com/fastygo/smarttask/domain"
)

// TaskStore persists the whole task collection as one serialized value.
// Load on a store that has never been written returns an empty collection.
type TaskStore interface {
	Load(ctx context.Context) (domain.Collection, error)
	Save(ctx context.Context, tasks domain.Collection) error
	Ping(ctx context.Context) error
	Name() string
}
