// Package notes implements the note and favorites stores on top of a
// snapshot repository.
//
// Each store holds one mutex across load, mutate and save so concurrent
// requests never lose each other's updates. Indices exposed to callers are
// 1-based.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/okian/frcscout/internal/adapters/repository"
	"github.com/okian/frcscout/internal/domain/model"
	"github.com/okian/frcscout/pkg/logger"
	"github.com/okian/frcscout/pkg/metrics"
)

type noteSnapshot map[string][]model.Note

// NoteStore keeps per-team note lists.
type NoteStore struct {
	mu    sync.Mutex
	store repository.Store
	settings
}

// NewNoteStore returns a NoteStore persisting through store.
func NewNoteStore(store repository.Store, opts ...Option) *NoteStore {
	s := &NoteStore{store: store, settings: defaults()}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

// Init writes an empty snapshot when none exists yet and refreshes the gauges.
func (s *NoteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.store.Load(ctx); errors.Is(err, repository.ErrSnapshotMissing) {
		return s.save(ctx, noteSnapshot{})
	}
	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	updateNoteGauges(snap)
	return nil
}

// Get returns a copy of the team's notes, empty when it has none.
func (s *NoteStore) Get(ctx context.Context, teamID string) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap[teamID]), nil
}

// Append adds a timestamped note at the end of the team's list.
func (s *NoteStore) Append(ctx context.Context, teamID, text string) (model.Note, error) {
	var note model.Note
	err := s.mutate(ctx, func(snap noteSnapshot) error {
		note = s.stamp(text)
		snap[teamID] = append(snap[teamID], note)
		return nil
	})
	return note, err
}

// RemoveAt deletes the note at 1-based index and returns it. Removing the
// last note removes the team entirely.
func (s *NoteStore) RemoveAt(ctx context.Context, teamID string, index int) (model.Note, error) {
	var removed model.Note
	err := s.mutate(ctx, func(snap noteSnapshot) error {
		list := snap[teamID]
		if index < 1 || index > len(list) {
			return fmt.Errorf("team %s index %d of %d: %w", teamID, index, len(list), ErrIndexOutOfRange)
		}
		removed = list[index-1]
		setNotes(snap, teamID, slices.Delete(list, index-1, index))
		return nil
	})
	return removed, err
}

// RemoveText deletes the first note whose text equals text, ignoring case.
func (s *NoteStore) RemoveText(ctx context.Context, teamID, text string) (model.Note, error) {
	var removed model.Note
	err := s.mutate(ctx, func(snap noteSnapshot) error {
		list := snap[teamID]
		i := indexOfText(list, text)
		if i < 0 {
			return fmt.Errorf("team %s %q: %w", teamID, text, ErrNoteNotFound)
		}
		removed = list[i]
		setNotes(snap, teamID, slices.Delete(list, i, i+1))
		return nil
	})
	return removed, err
}

// EditAt replaces the text of the note at 1-based index, keeping its
// position and refreshing its timestamp.
func (s *NoteStore) EditAt(ctx context.Context, teamID string, index int, newText string) (model.Note, error) {
	var edited model.Note
	err := s.mutate(ctx, func(snap noteSnapshot) error {
		list := snap[teamID]
		if index < 1 || index > len(list) {
			return fmt.Errorf("team %s index %d of %d: %w", teamID, index, len(list), ErrIndexOutOfRange)
		}
		edited = s.stamp(newText)
		list[index-1] = edited
		return nil
	})
	return edited, err
}

// EditText replaces the first note whose text equals oldText, ignoring case.
func (s *NoteStore) EditText(ctx context.Context, teamID, oldText, newText string) (model.Note, error) {
	var edited model.Note
	err := s.mutate(ctx, func(snap noteSnapshot) error {
		list := snap[teamID]
		i := indexOfText(list, oldText)
		if i < 0 {
			return fmt.Errorf("team %s %q: %w", teamID, oldText, ErrNoteNotFound)
		}
		edited = s.stamp(newText)
		list[i] = edited
		return nil
	})
	return edited, err
}

// ListAllKeys returns every team with notes in numeric order.
func (s *NoteStore) ListAllKeys(ctx context.Context) ([]model.TeamNoteCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.TeamNoteCount, 0, len(snap))
	for _, id := range sortedTeams(snap) {
		out = append(out, model.TeamNoteCount{TeamID: id, Count: len(snap[id])})
	}
	return out, nil
}

// Search returns notes containing keyword, ignoring case, ordered by team
// then index.
func (s *NoteStore) Search(ctx context.Context, keyword string) ([]model.NoteMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(keyword)
	var out []model.NoteMatch
	for _, id := range sortedTeams(snap) {
		for i, n := range snap[id] {
			if strings.Contains(strings.ToLower(n.Text), needle) {
				out = append(out, model.NoteMatch{TeamID: id, Index: i + 1, Note: n})
			}
		}
	}
	return out, nil
}

func (s *NoteStore) stamp(text string) model.Note {
	return model.Note{Text: text, Timestamp: s.now().Format(model.NoteTimeLayout)}
}

// mutate runs fn on the current snapshot and saves it when fn succeeds.
func (s *NoteStore) mutate(ctx context.Context, fn func(noteSnapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	return s.save(ctx, snap)
}

func (s *NoteStore) load(ctx context.Context) (noteSnapshot, error) {
	data, err := s.store.Load(ctx)
	if errors.Is(err, repository.ErrSnapshotMissing) {
		return noteSnapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.store.Name(), err)
	}
	snap := noteSnapshot{}
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", s.store.Name(), ErrCorruptSnapshot, err)
	}
	return snap, nil
}

func (s *NoteStore) save(ctx context.Context, snap noteSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.store.Name(), err)
	}
	if err := s.store.Save(ctx, data); err != nil {
		return fmt.Errorf("save %s: %w", s.store.Name(), err)
	}
	updateNoteGauges(snap)
	s.log.Debug(ctx, "notes saved", logger.String("store", s.store.Name()), logger.Int("teams", len(snap)))
	return nil
}

// setNotes stores list under teamID, dropping the key when list is empty.
func setNotes(snap noteSnapshot, teamID string, list []model.Note) {
	if len(list) == 0 {
		delete(snap, teamID)
		return
	}
	snap[teamID] = list
}

func indexOfText(list []model.Note, text string) int {
	text = strings.TrimSpace(text)
	return slices.IndexFunc(list, func(n model.Note) bool {
		return strings.EqualFold(strings.TrimSpace(n.Text), text)
	})
}

// sortedTeams orders team ids numerically; ids are digit strings so shorter
// sorts first.
func sortedTeams(snap noteSnapshot) []string {
	ids := make([]string, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	})
	return ids
}

func updateNoteGauges(snap noteSnapshot) {
	total := 0
	for _, list := range snap {
		total += len(list)
	}
	metrics.UpdateNoteCounts(len(snap), total)
}
