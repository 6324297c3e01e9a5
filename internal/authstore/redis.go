package authstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/exstem-client/internal/config"
)

// RedisStore keeps credentials as one JSON value under config.StoreKey.
// The value expires with the token when the token carries an exp claim.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisStore creates a RedisStore on rdb.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func (s *RedisStore) Load(ctx context.Context) (*Credentials, error) {
	raw, err := s.rdb.Get(ctx, config.StoreKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return &creds, nil
}

func (s *RedisStore) Save(ctx context.Context, creds *Credentials) error {
	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	var ttl time.Duration
	if exp, ok := creds.ExpiresAt(); ok {
		ttl = exp.Sub(s.now())
		if ttl <= 0 {
			return s.Clear(ctx)
		}
	}
	if err := s.rdb.Set(ctx, config.StoreKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.Delete(ctx, config.StoreKey)
}

// Get reads a raw string key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

// Delete removes raw keys.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	return nil
}
