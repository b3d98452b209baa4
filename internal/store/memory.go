package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// MemoryStore is the default JobStore: a process-local concurrent map.
// Records are kept as serialized JSON so reads go through the same
// round-trip as the Redis backend.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string][]byte
}

var _ JobStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, id string, rec models.JobRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal job record: %w", err)
	}
	s.mu.Lock()
	s.jobs[id] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (models.JobRecord, error) {
	s.mu.RLock()
	data, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return models.JobRecord{}, models.ErrNotFound
	}
	var rec models.JobRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.JobRecord{}, fmt.Errorf("unmarshal job record: %w", err)
	}
	return rec, nil
}
