package repository

import (
	"time"

	"github.com/fastygo/smarttask/domain"
)

// Encode renders a collection into the persisted JSON document.
func Encode(tasks domain.Collection) ([]byte, error) {
	return domain.EncodeCollection(tasks)
}

// Decode reads a persisted document. An empty payload is an empty collection.
func Decode(payload []byte) (domain.Collection, error) {
	if len(payload) == 0 {
		return domain.Collection{}, nil
	}
	return domain.DecodeCollection(payload, domain.DecodeOptions{Now: time.Now()})
}
