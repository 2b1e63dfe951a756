package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the snapshot under one string key, letting several
// instances share notes and favorites.
type RedisStore struct {
	name   string
	client redis.Cmdable
	key    string
}

// NewRedisStore returns a store reading and writing key through client.
func NewRedisStore(name string, client redis.Cmdable, key string, opts ...RedisOption) *RedisStore {
	s := &RedisStore{name: name, client: client, key: key}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Store.
func (s *RedisStore) Name() string { return s.name }

// Key returns the full redis key.
func (s *RedisStore) Key() string { return s.key }

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotMissing
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return data, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
