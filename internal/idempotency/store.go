package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "idempotency:"
	defaultTTL = 24 * time.Hour

	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Record is what a claimed key holds: the request fingerprint while in
// progress, plus the final response once completed.
type Record struct {
	Status      string `json:"status"`
	Fingerprint string `json:"fingerprint"`
	StatusCode  int    `json:"statusCode,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

type Store interface {
	// Claim reserves key for the caller. When the key is already held it
	// returns the existing record and claimed=false.
	Claim(ctx context.Context, key, fingerprint string) (existing *Record, claimed bool, err error)
	Complete(ctx context.Context, key string, rec Record) error
	Release(ctx context.Context, key string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(k string) string {
	return keyPrefix + k
}

func (s *RedisStore) Claim(ctx context.Context, key, fingerprint string) (*Record, bool, error) {
	raw, err := json.Marshal(Record{Status: StatusInProgress, Fingerprint: fingerprint})
	if err != nil {
		return nil, false, fmt.Errorf("marshalling idempotency record: %w", err)
	}

	k := s.key(key)
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		_, err := s.client.SetArgs(ctx, k, raw, redis.SetArgs{Mode: "NX", TTL: s.ttl}).Result()
		if err == nil {
			return nil, true, nil
		}
		if !errors.Is(err, redis.Nil) {
			return nil, false, fmt.Errorf("redis set: %w", err)
		}

		data, err := s.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			// expired or released between SET and GET
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("redis get: %w", err)
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, false, fmt.Errorf("redis unmarshal: %w", err)
		}
		return &rec, false, nil
	}
}

func (s *RedisStore) Complete(ctx context.Context, key string, rec Record) error {
	rec.Status = StatusCompleted
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling idempotency record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
