// Package repository persists whole-document snapshots for the note and
// favorites stores.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/frcscout/pkg/metrics"
)

// Backend names accepted by New.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Store loads and persists one opaque snapshot. Callers serialize access;
// implementations only need each call to be atomic on its own.
type Store interface {
	// Load returns the last saved snapshot, or ErrSnapshotMissing when none
	// has been saved yet.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the snapshot.
	Save(ctx context.Context, data []byte) error
	// Name identifies the snapshot in logs and metrics.
	Name() string
}

// Target describes where one named snapshot lives for every backend.
type Target struct {
	Name     string // metrics label, e.g. "notes"
	FilePath string
	RedisKey string
}

// New builds an instrumented store for backend. client is only used by the
// redis backend and may be nil otherwise.
func New(backend string, target Target, client redis.Cmdable) (Store, error) {
	var s Store
	switch backend {
	case BackendFile:
		s = NewFileStore(target.Name, target.FilePath)
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("repository: redis backend without client: %w", ErrUnknownBackend)
		}
		s = NewRedisStore(target.Name, client, target.RedisKey)
	case BackendMemory:
		s = NewMemoryStore(target.Name)
	default:
		return nil, fmt.Errorf("repository: %q: %w", backend, ErrUnknownBackend)
	}
	return Instrument(s), nil
}

// Instrument wraps s so every call is recorded in the store operation metrics.
func Instrument(s Store) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{next: s}
}

type instrumented struct {
	next Store
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Load(ctx context.Context) ([]byte, error) {
	start := time.Now()
	data, err := i.next.Load(ctx)
	metrics.RecordStoreOperation(i.next.Name(), "load", outcome(err), msSince(start))
	return data, err
}

func (i *instrumented) Save(ctx context.Context, data []byte) error {
	start := time.Now()
	err := i.next.Save(ctx, data)
	metrics.RecordStoreOperation(i.next.Name(), "save", outcome(err), msSince(start))
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSnapshotMissing):
		return "missing"
	default:
		return "error"
	}
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
