// Package store holds the serialized snapshot handed to dashboard readers.
package store

import (
	"encoding/json"
	"sync"

	"rubrik-monitor-backend/internal/model"
)

// SnapshotStore exposes the most recently published payload. Each publish
// replaces the previous payload wholesale; readers never observe a partial
// update and no history is kept.
type SnapshotStore interface {
	Publish(stats *model.Stats) error
	PublishError(message string)
	Get() ([]byte, bool)
}

type statsPayload struct {
	Stats *model.Stats `json:"stats"`
}

type errorPayload struct {
	Error string `json:"error"`
}

type inMemorySnapshotStore struct {
	mu      sync.RWMutex
	payload []byte
}

func NewInMemorySnapshotStore() SnapshotStore {
	return &inMemorySnapshotStore{}
}

// Publish serializes the aggregate under the "stats" key and swaps it in as
// the visible payload.
func (s *inMemorySnapshotStore) Publish(stats *model.Stats) error {
	data, err := json.Marshal(statsPayload{Stats: stats})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.payload = data
	s.mu.Unlock()
	return nil
}

// PublishError replaces the visible payload with an error object.
func (s *inMemorySnapshotStore) PublishError(message string) {
	data, _ := json.Marshal(errorPayload{Error: message})
	s.mu.Lock()
	s.payload = data
	s.mu.Unlock()
}

// Get returns the latest payload. The second return is false until the first
// publish of the process. Callers must not modify the returned slice.
func (s *inMemorySnapshotStore) Get() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payload, s.payload != nil
}
