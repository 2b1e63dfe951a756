// Package lookup aggregates a team report from the competition-results and
// performance-metrics providers.
//
// Only the existence check is fatal. Every other call is isolated in its own
// Result so a failing provider degrades one section and nothing else.
package lookup

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/frcscout/internal/domain/model"
	"github.com/okian/frcscout/pkg/logger"
	"github.com/okian/frcscout/pkg/metrics"
)

// TeamSource is the competition-results provider.
type TeamSource interface {
	Team(ctx context.Context, teamID string) (model.TeamProfile, error)
	Events(ctx context.Context, teamID string, season int) ([]model.SeasonEvent, error)
	EventStatuses(ctx context.Context, teamID string, season int) (map[string]model.EventStatus, error)
	AwardCount(ctx context.Context, teamID string, season int) (int, error)
	EventMatches(ctx context.Context, teamID, eventKey string) ([]model.Match, error)
}

// MetricsSource is the performance-metrics provider.
type MetricsSource interface {
	TeamYear(ctx context.Context, teamID string, season int) (model.PerformanceMetrics, error)
}

// Report is everything known about one team for one season.
type Report struct {
	Profile   model.TeamProfile
	Season    int
	Events    Result[[]model.EventOutcome]
	Metrics   Result[model.PerformanceMetrics]
	Awards    Result[int]
	Specialty Result[model.SpecialtyStats]
}

// Comparison holds the metrics of two teams side by side.
type Comparison struct {
	Season int
	A, B   TeamMetrics
}

// TeamMetrics pairs a team with its metrics lookup.
type TeamMetrics struct {
	TeamID  string
	Metrics Result[model.PerformanceMetrics]
}

// Aggregator fans out upstream calls for a team.
type Aggregator struct {
	teams       TeamSource
	perf        MetricsSource
	season      int
	callTimeout time.Duration
	now         func() time.Time
	log         logger.Logger
}

// New returns an Aggregator over the two providers.
func New(teams TeamSource, perf MetricsSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		teams:       teams,
		perf:        perf,
		season:      DefaultSeason,
		callTimeout: DefaultCallTimeout,
		now:         time.Now,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Season returns the season lookups report on.
func (a *Aggregator) Season() int { return a.season }

// LookupTeam builds the report for teamID. It returns a *NotFoundError when
// the existence check fails, before any other call is issued.
func (a *Aggregator) LookupTeam(ctx context.Context, teamID string) (Report, error) {
	profile := call(ctx, a.callTimeout, func(ctx context.Context) (model.TeamProfile, error) {
		return a.teams.Team(ctx, teamID)
	})
	if !profile.OK() {
		metrics.RecordTeamNotFound()
		a.log.Info(ctx, "team existence check failed", logger.String("team", teamID), logger.Error(profile.Err))
		return Report{}, &NotFoundError{TeamID: teamID, Cause: profile.Err}
	}

	rep := Report{Profile: profile.Value, Season: a.season}
	var (
		events   Result[[]model.SeasonEvent]
		statuses Result[map[string]model.EventStatus]
	)

	// Each goroutine records its own Result and returns nil so one failure
	// never cancels its siblings.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		events = call(egCtx, a.callTimeout, func(ctx context.Context) ([]model.SeasonEvent, error) {
			return a.teams.Events(ctx, teamID, a.season)
		})
		rep.Specialty = a.specialty(egCtx, teamID, events)
		return nil
	})
	eg.Go(func() error {
		statuses = call(egCtx, a.callTimeout, func(ctx context.Context) (map[string]model.EventStatus, error) {
			return a.teams.EventStatuses(ctx, teamID, a.season)
		})
		return nil
	})
	eg.Go(func() error {
		rep.Awards = call(egCtx, a.callTimeout, func(ctx context.Context) (int, error) {
			return a.teams.AwardCount(ctx, teamID, a.season)
		})
		return nil
	})
	eg.Go(func() error {
		rep.Metrics = a.metrics(egCtx, teamID)
		return nil
	})
	_ = eg.Wait()

	rep.Events = joinOutcomes(events, statuses)
	a.recordDegraded(ctx, teamID, rep, statuses)
	return rep, nil
}

// CompareTeams fetches both teams' metrics concurrently. No existence check
// is made; a missing team simply has unavailable metrics.
func (a *Aggregator) CompareTeams(ctx context.Context, teamA, teamB string) Comparison {
	cmp := Comparison{Season: a.season, A: TeamMetrics{TeamID: teamA}, B: TeamMetrics{TeamID: teamB}}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		cmp.A.Metrics = a.metrics(egCtx, teamA)
		return nil
	})
	eg.Go(func() error {
		cmp.B.Metrics = a.metrics(egCtx, teamB)
		return nil
	})
	_ = eg.Wait()
	return cmp
}

func (a *Aggregator) metrics(ctx context.Context, teamID string) Result[model.PerformanceMetrics] {
	return call(ctx, a.callTimeout, func(ctx context.Context) (model.PerformanceMetrics, error) {
		return a.perf.TeamYear(ctx, teamID, a.season)
	})
}

// specialty computes the latest event's alliance averages once the event
// list is known.
func (a *Aggregator) specialty(ctx context.Context, teamID string, events Result[[]model.SeasonEvent]) Result[model.SpecialtyStats] {
	if !events.OK() {
		return Unavailable[model.SpecialtyStats](events.Err)
	}
	latest, ok := LatestEvent(events.Value, a.now())
	if !ok {
		return Unavailable[model.SpecialtyStats](ErrNoEvents)
	}
	matches := call(ctx, a.callTimeout, func(ctx context.Context) ([]model.Match, error) {
		return a.teams.EventMatches(ctx, teamID, latest.Key)
	})
	if !matches.OK() {
		return Unavailable[model.SpecialtyStats](matches.Err)
	}
	stats, err := ComputeSpecialty(teamID, latest, matches.Value)
	if err != nil {
		return Unavailable[model.SpecialtyStats](err)
	}
	return Ok(stats)
}

func (a *Aggregator) recordDegraded(ctx context.Context, teamID string, rep Report, statuses Result[map[string]model.EventStatus]) {
	degraded := map[string]error{
		"events":    rep.Events.Err,
		"statuses":  statuses.Err,
		"metrics":   rep.Metrics.Err,
		"awards":    rep.Awards.Err,
		"specialty": rep.Specialty.Err,
	}
	for section, err := range degraded {
		if err == nil {
			continue
		}
		metrics.RecordDegradedSection(section)
		a.log.Debug(ctx, "section unavailable",
			logger.String("team", teamID),
			logger.String("section", section),
			logger.Error(err))
	}
}
