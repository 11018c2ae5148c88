package bolt

import (
	"context"
	"errors"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/smarttask/domain"
	"github.com/fastygo/smarttask/repository"
)

const (
	// Bucket holds the task snapshot.
	Bucket      = "tasks"
	snapshotKey = "snapshot"
)

var errNoBucket = errors.New("bolt: tasks bucket missing")

type taskStore struct {
	db *bbolt.DB
}

// NewTaskStore returns a BoltDB-backed TaskStore. The database must have been
// opened with Bucket.
func NewTaskStore(db *bbolt.DB) repository.TaskStore {
	return &taskStore{db: db}
}

func (s *taskStore) Name() string { return "bolt" }

func (s *taskStore) Load(ctx context.Context) (domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(Bucket))
		if b == nil {
			return errNoBucket
		}
		if v := b.Get([]byte(snapshotKey)); v != nil {
			payload = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repository.Decode(payload)
}

func (s *taskStore) Save(ctx context.Context, tasks domain.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := repository.Encode(tasks)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(Bucket))
		if b == nil {
			return errNoBucket
		}
		return b.Put([]byte(snapshotKey), payload)
	})
}

func (s *taskStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(Bucket)) == nil {
			return errNoBucket
		}
		return nil
	})
}
