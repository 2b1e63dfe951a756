// Package service answers free-form scouting questions by classifying them
// and dispatching to the lookup, note and favorite components.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/frcscout/internal/domain/intent"
	"github.com/okian/frcscout/internal/domain/lookup"
	"github.com/okian/frcscout/internal/domain/model"
	"github.com/okian/frcscout/internal/domain/notes"
	"github.com/okian/frcscout/pkg/logger"
	"github.com/okian/frcscout/pkg/metrics"
)

// Scout looks teams up across the upstream providers.
type Scout interface {
	LookupTeam(ctx context.Context, teamID string) (lookup.Report, error)
	CompareTeams(ctx context.Context, teamA, teamB string) lookup.Comparison
	Season() int
}

// Notes is the per-team note store.
type Notes interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, teamID string) ([]model.Note, error)
	Append(ctx context.Context, teamID, text string) (model.Note, error)
	RemoveAt(ctx context.Context, teamID string, index int) (model.Note, error)
	RemoveText(ctx context.Context, teamID, text string) (model.Note, error)
	EditAt(ctx context.Context, teamID string, index int, newText string) (model.Note, error)
	EditText(ctx context.Context, teamID, oldText, newText string) (model.Note, error)
	ListAllKeys(ctx context.Context) ([]model.TeamNoteCount, error)
	Search(ctx context.Context, keyword string) ([]model.NoteMatch, error)
}

// Favorites is the favorite-team list.
type Favorites interface {
	Init(ctx context.Context) error
	Add(ctx context.Context, teamID string) (bool, error)
	Remove(ctx context.Context, teamID string) (bool, error)
	List(ctx context.Context) ([]string, error)
	Contains(ctx context.Context, teamID string) (bool, error)
}

// Service is the command dispatcher behind /ask.
type Service struct {
	mu sync.RWMutex

	scout     Scout
	notes     Notes
	favorites Favorites

	backend   string
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBackendName records the store backend for stats.
func WithBackendName(name string) Option {
	return func(s *Service) {
		s.backend = name
	}
}

// New constructs a Service over its collaborators.
func New(scout Scout, n Notes, f Favorites, opts ...Option) *Service {
	s := &Service{
		scout:     scout,
		notes:     n,
		favorites: f,
		backend:   "unknown",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the stores so empty snapshots exist on first use.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if err := s.notes.Init(ctx); err != nil {
		return fmt.Errorf("init notes: %w", err)
	}
	if err := s.favorites.Init(ctx); err != nil {
		return fmt.Errorf("init favorites: %w", err)
	}
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "scouting service started",
		logger.Int("season", s.scout.Season()),
		logger.String("store", s.backend))
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "scouting service stopped")
}

// Ask answers one free-form question. It never fails: user mistakes get a
// fixed apology and internal failures are logged and replaced with a
// generic one.
func (s *Service) Ask(ctx context.Context, text string) (reply string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return PromptReply
	}

	start := time.Now()
	in, raw := intent.Classify(text)
	log := s.log().Named("dispatch")

	defer func() {
		if r := recover(); r != nil {
			log.Error(ctx, "panic while answering",
				logger.String("intent", string(in)),
				logger.Any("panic", r))
			metrics.RecordErrorByComponent("dispatcher", "panic")
			reply = InternalErrorReply
		}
		metrics.RecordAsk(string(in), float64(time.Since(start).Milliseconds()))
	}()

	var err error
	reply, err = s.dispatch(ctx, in, raw)
	if err != nil {
		log.Error(ctx, "failed to answer",
			logger.String("intent", string(in)),
			logger.Error(err))
		metrics.RecordErrorByComponent("dispatcher", string(in))
		return InternalErrorReply
	}
	log.Debug(ctx, "answered", logger.String("intent", string(in)), logger.Duration("elapsed", time.Since(start)))
	return reply
}

func (s *Service) dispatch(ctx context.Context, in intent.Intent, raw string) (string, error) {
	switch in {
	case intent.Compare:
		return s.compare(ctx, raw), nil
	case intent.SearchNotes:
		return s.searchNotes(ctx, raw)
	case intent.Unfavorite:
		return s.unfavorite(ctx, raw)
	case intent.Favorite:
		return s.favorite(ctx, raw)
	case intent.ListFavorites:
		return s.listFavorites(ctx)
	case intent.ListNotes:
		return s.listNotes(ctx)
	case intent.DeleteNote:
		return s.deleteNote(ctx, raw)
	case intent.EditNote:
		return s.editNote(ctx, raw)
	case intent.AddNote:
		return s.addNote(ctx, raw)
	default:
		return s.teamLookup(ctx, raw)
	}
}

func (s *Service) teamLookup(ctx context.Context, raw string) (string, error) {
	teamID, ok := intent.ExtractTeamID(raw)
	if !ok {
		return BadTeamReply, nil
	}
	rep, err := s.scout.LookupTeam(ctx, teamID)
	if errors.Is(err, lookup.ErrTeamNotFound) {
		return fmt.Sprintf(notFoundReply, teamID), nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", teamID, err)
	}

	var teamNotes lookup.Result[[]model.Note]
	if list, err := s.notes.Get(ctx, teamID); err != nil {
		s.log().Warn(ctx, "notes unavailable for report", logger.String("team", teamID), logger.Error(err))
		teamNotes = lookup.Unavailable[[]model.Note](err)
	} else {
		teamNotes = lookup.Ok(list)
	}
	favorite, err := s.favorites.Contains(ctx, teamID)
	if err != nil {
		s.log().Warn(ctx, "favorites unavailable for report", logger.String("team", teamID), logger.Error(err))
	}
	return formatReport(rep, teamNotes, favorite), nil
}

func (s *Service) compare(ctx context.Context, raw string) string {
	a, b, err := intent.ParseCompare(raw)
	if err != nil {
		return compareNoTeamsReply
	}
	return formatComparison(s.scout.CompareTeams(ctx, a, b))
}

func (s *Service) searchNotes(ctx context.Context, raw string) (string, error) {
	keyword, err := intent.ParseSearch(raw)
	if err != nil {
		return searchEmptyReply, nil
	}
	hits, err := s.notes.Search(ctx, keyword)
	if err != nil {
		return "", fmt.Errorf("search notes: %w", err)
	}
	return formatSearch(keyword, hits), nil
}

func (s *Service) favorite(ctx context.Context, raw string) (string, error) {
	cmd, err := intent.ParseTeamCommand(intent.Favorite, raw)
	if err != nil {
		return favoriteNoTeamReply, nil
	}
	if _, err := s.favorites.Add(ctx, cmd.TeamID); err != nil {
		return "", fmt.Errorf("favorite %s: %w", cmd.TeamID, err)
	}
	return fmt.Sprintf(favoriteAddedReply, cmd.TeamID), nil
}

func (s *Service) unfavorite(ctx context.Context, raw string) (string, error) {
	cmd, err := intent.ParseTeamCommand(intent.Unfavorite, raw)
	if err != nil {
		return unfavoriteNoTeamReply, nil
	}
	if _, err := s.favorites.Remove(ctx, cmd.TeamID); err != nil {
		return "", fmt.Errorf("unfavorite %s: %w", cmd.TeamID, err)
	}
	return fmt.Sprintf(unfavoriteDoneReply, cmd.TeamID), nil
}

func (s *Service) listFavorites(ctx context.Context) (string, error) {
	list, err := s.favorites.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list favorites: %w", err)
	}
	if len(list) == 0 {
		return favoritesEmptyReply, nil
	}
	return fmt.Sprintf(favoritesListReply, strings.Join(list, ", ")), nil
}

func (s *Service) listNotes(ctx context.Context) (string, error) {
	counts, err := s.notes.ListAllKeys(ctx)
	if err != nil {
		return "", fmt.Errorf("list notes: %w", err)
	}
	if len(counts) == 0 {
		return notesEmptyReply, nil
	}
	return formatNoteCounts(counts), nil
}

func (s *Service) addNote(ctx context.Context, raw string) (string, error) {
	cmd, err := intent.ParseTeamCommand(intent.AddNote, raw)
	if err != nil {
		return addNoteNoTeamReply, nil
	}
	if cmd.Payload == "" {
		return fmt.Sprintf(addNoteEmptyReply, cmd.TeamID, cmd.TeamID), nil
	}
	if _, err := s.notes.Append(ctx, cmd.TeamID, cmd.Payload); err != nil {
		return "", fmt.Errorf("add note %s: %w", cmd.TeamID, err)
	}
	return fmt.Sprintf(addNoteSavedReply, cmd.TeamID), nil
}

func (s *Service) deleteNote(ctx context.Context, raw string) (string, error) {
	cmd, err := intent.ParseTeamCommand(intent.DeleteNote, raw)
	if err != nil {
		return deleteNoTeamReply, nil
	}
	if cmd.Payload == "" {
		return fmt.Sprintf(deleteEmptyReply, cmd.TeamID), nil
	}

	if idx, ok := intent.ParseIndex(cmd.Payload); ok {
		_, err = s.notes.RemoveAt(ctx, cmd.TeamID, idx)
		switch {
		case errors.Is(err, notes.ErrIndexOutOfRange):
			return fmt.Sprintf(noteIndexMissingReply, cmd.TeamID, idx), nil
		case err != nil:
			return "", fmt.Errorf("delete note %s #%d: %w", cmd.TeamID, idx, err)
		}
		return fmt.Sprintf(deleteByIndexReply, idx, cmd.TeamID), nil
	}

	_, err = s.notes.RemoveText(ctx, cmd.TeamID, cmd.Payload)
	switch {
	case errors.Is(err, notes.ErrNoteNotFound):
		return fmt.Sprintf(deleteNotFoundReply, cmd.TeamID), nil
	case err != nil:
		return "", fmt.Errorf("delete note %s: %w", cmd.TeamID, err)
	}
	return fmt.Sprintf(deleteByTextReply, cmd.TeamID), nil
}

func (s *Service) editNote(ctx context.Context, raw string) (string, error) {
	cmd, err := intent.ParseTeamCommand(intent.EditNote, raw)
	if err != nil {
		return editNoTeamReply, nil
	}
	oldRef, newText, err := intent.ParseEdit(cmd.Payload)
	if err != nil {
		return editFormatReply, nil
	}

	if idx, ok := intent.ParseIndex(oldRef); ok {
		_, err = s.notes.EditAt(ctx, cmd.TeamID, idx, newText)
		switch {
		case errors.Is(err, notes.ErrIndexOutOfRange):
			return fmt.Sprintf(noteIndexMissingReply, cmd.TeamID, idx), nil
		case err != nil:
			return "", fmt.Errorf("edit note %s #%d: %w", cmd.TeamID, idx, err)
		}
		return fmt.Sprintf(editByIndexReply, idx, cmd.TeamID), nil
	}

	_, err = s.notes.EditText(ctx, cmd.TeamID, oldRef, newText)
	switch {
	case errors.Is(err, notes.ErrNoteNotFound):
		return fmt.Sprintf(editNotFoundReply, cmd.TeamID), nil
	case err != nil:
		return "", fmt.Errorf("edit note %s: %w", cmd.TeamID, err)
	}
	return fmt.Sprintf(editByTextReply, cmd.TeamID), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	started, startedAt := s.started, s.startedAt
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       started,
		"season":        s.scout.Season(),
		"store_backend": s.backend,
	}
	if started {
		stats["uptime_seconds"] = int64(time.Since(startedAt).Seconds())
	}

	if counts, err := s.notes.ListAllKeys(ctx); err == nil {
		total := 0
		for _, c := range counts {
			total += c.Count
		}
		stats["note_teams"] = len(counts)
		stats["note_count"] = total
	}
	if favs, err := s.favorites.List(ctx); err == nil {
		stats["favorites"] = len(favs)
	}
	return stats
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Nop()
	}
	return l
}
