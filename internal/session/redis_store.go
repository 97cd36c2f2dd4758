package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corops/cordash/internal/domain"
)

// RedisStore persists session records in redis so browser sessions survive
// server restarts and can be shared across replicas. Each record is one
// JSON blob written with a single SET, which keeps Save atomic with respect
// to concurrent Loads.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed keyed session store. Records expire
// after ttl; a ttl of zero means no expiry.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "cordash:session:"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// LoadKey returns the stored session for id. A missing key is an empty
// session, not an error.
func (r *RedisStore) LoadKey(ctx context.Context, id string) (domain.Session, error) {
	data, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return s, nil
}

// SaveKey stores the whole record under id with the configured TTL.
func (r *RedisStore) SaveKey(ctx context.Context, id string, s domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+id, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ClearKey removes the record for id.
func (r *RedisStore) ClearKey(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.prefix+id).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
