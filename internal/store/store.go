package store

import (
	"context"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// JobStore maps a job identifier to its single persisted record. Each key is
// written exactly twice over a job's lifetime (processing, then terminal),
// always by that job's own goroutine, and read concurrently by status polling.
type JobStore interface {
	// Put writes the record for id, replacing any previous value.
	Put(ctx context.Context, id string, rec models.JobRecord) error
	// Get returns the record for id, or models.ErrNotFound if the id was
	// never submitted.
	Get(ctx context.Context, id string) (models.JobRecord, error)
}
