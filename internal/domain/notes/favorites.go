package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/frcscout/internal/adapters/repository"
	"github.com/okian/frcscout/pkg/logger"
	"github.com/okian/frcscout/pkg/metrics"
)

// FavoriteStore keeps the favorite team ids in insertion order.
type FavoriteStore struct {
	mu    sync.Mutex
	store repository.Store
	settings
}

// NewFavoriteStore returns a FavoriteStore persisting through store.
func NewFavoriteStore(store repository.Store, opts ...Option) *FavoriteStore {
	s := &FavoriteStore{store: store, settings: defaults()}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

// Init writes an empty list when no snapshot exists yet.
func (s *FavoriteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.store.Load(ctx); errors.Is(err, repository.ErrSnapshotMissing) {
		return s.save(ctx, []string{})
	}
	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	metrics.UpdateFavoriteCount(len(list))
	return nil
}

// Add appends teamID unless already present. added reports whether the list changed.
func (s *FavoriteStore) Add(ctx context.Context, teamID string) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if slices.Contains(list, teamID) {
		return false, nil
	}
	return true, s.save(ctx, append(list, teamID))
}

// Remove drops teamID. Removing an absent id is a no-op.
func (s *FavoriteStore) Remove(ctx context.Context, teamID string) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	i := slices.Index(list, teamID)
	if i < 0 {
		return false, nil
	}
	return true, s.save(ctx, slices.Delete(list, i, i+1))
}

// List returns the favorites in insertion order.
func (s *FavoriteStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Contains reports whether teamID is a favorite.
func (s *FavoriteStore) Contains(ctx context.Context, teamID string) (bool, error) {
	list, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(list, teamID), nil
}

func (s *FavoriteStore) load(ctx context.Context) ([]string, error) {
	data, err := s.store.Load(ctx)
	if errors.Is(err, repository.ErrSnapshotMissing) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.store.Name(), err)
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", s.store.Name(), ErrCorruptSnapshot, err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

func (s *FavoriteStore) save(ctx context.Context, list []string) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.store.Name(), err)
	}
	if err := s.store.Save(ctx, data); err != nil {
		return fmt.Errorf("save %s: %w", s.store.Name(), err)
	}
	metrics.UpdateFavoriteCount(len(list))
	s.log.Debug(ctx, "favorites saved", logger.Int("count", len(list)))
	return nil
}
