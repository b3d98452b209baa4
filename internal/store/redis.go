package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// RedisStore persists job records in Redis, one JSON value per job key.
// TTL of zero keeps records until they are deleted externally.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ JobStore = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "job:",
		ttl:    ttl,
	}
}

func (s *RedisStore) Put(ctx context.Context, id string, rec models.JobRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal job record: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set job %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (models.JobRecord, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.JobRecord{}, models.ErrNotFound
		}
		return models.JobRecord{}, fmt.Errorf("redis get job %s: %w", id, err)
	}
	var rec models.JobRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return models.JobRecord{}, fmt.Errorf("unmarshal job record: %w", err)
	}
	return rec, nil
}
