package lookup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	"github.com/okian/frcscout/internal/domain/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errBoom = errors.New("boom")

type fakeTeams struct {
	profile    model.TeamProfile
	profileErr error
	events     []model.SeasonEvent
	eventsErr  error
	statuses   map[string]model.EventStatus
	statusErr  error
	awards     int
	awardsErr  error
	matches    map[string][]model.Match
	matchesErr error
	block      bool // block until ctx is done on non-profile calls

	calls atomic.Int32
}

func (f *fakeTeams) wait(ctx context.Context) error {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeTeams) Team(_ context.Context, id string) (model.TeamProfile, error) {
	p := f.profile
	p.TeamID = id
	return p, f.profileErr
}

func (f *fakeTeams) Events(ctx context.Context, _ string, _ int) ([]model.SeasonEvent, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.events, f.eventsErr
}

func (f *fakeTeams) EventStatuses(ctx context.Context, _ string, _ int) (map[string]model.EventStatus, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.statuses, f.statusErr
}

func (f *fakeTeams) AwardCount(ctx context.Context, _ string, _ int) (int, error) {
	if err := f.wait(ctx); err != nil {
		return 0, err
	}
	return f.awards, f.awardsErr
}

func (f *fakeTeams) EventMatches(ctx context.Context, _ string, key string) ([]model.Match, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.matches[key], f.matchesErr
}

type fakeMetrics struct {
	byTeam map[string]model.PerformanceMetrics
	calls  atomic.Int32
}

func (f *fakeMetrics) TeamYear(_ context.Context, id string, _ int) (model.PerformanceMetrics, error) {
	f.calls.Add(1)
	m, ok := f.byTeam[id]
	if !ok {
		return model.PerformanceMetrics{}, errBoom
	}
	return m, nil
}

func date(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }

func TestLookupTeam(t *testing.T) {
	now := func() time.Time { return date(4, 10) }

	Convey("Given a team that does not exist", t, func() {
		teams := &fakeTeams{profileErr: errBoom}
		perf := &fakeMetrics{}
		agg := New(teams, perf)

		_, err := agg.LookupTeam(context.Background(), "99999")

		Convey("Then a NotFoundError short-circuits every other call", func() {
			var nf *NotFoundError
			So(errors.As(err, &nf), ShouldBeTrue)
			So(nf.TeamID, ShouldEqual, "99999")
			So(errors.Is(err, ErrTeamNotFound), ShouldBeTrue)
			So(errors.Is(err, errBoom), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "99999")
			So(teams.calls.Load(), ShouldEqual, 0)
			So(perf.calls.Load(), ShouldEqual, 0)
		})
	})

	Convey("Given a team where every provider answers", t, func() {
		teams := &fakeTeams{
			profile: model.TeamProfile{Nickname: "Warlocks", City: "Lockport"},
			events: []model.SeasonEvent{
				{Key: "2025cmptx", Name: "Championship", StartDate: date(4, 16)},
				{Key: "2025nyro", Name: "Finger Lakes", StartDate: date(3, 26)},
				{Key: "2025nyli", Name: "Long Island", StartDate: date(3, 5)},
			},
			statuses: map[string]model.EventStatus{
				"2025nyli": {EventKey: "2025nyli", Rank: 7, PlayoffStatus: model.PlayoffEliminated},
				"2025nyro": {EventKey: "2025nyro", Rank: 2, PlayoffStatus: model.PlayoffWon},
			},
			awards: 3,
			matches: map[string][]model.Match{
				"2025nyro": {
					{
						TeamKeys:  map[string][]string{model.AllianceBlue: {"frc1", "frc2", "frc1507"}},
						Breakdown: map[string]model.AllianceBreakdown{model.AllianceBlue: {AutoCoral: 4, TeleopCoral: 10, NetAlgae: 3, Endgame: [3]string{"", "", model.EndgameDeepCage}}},
					},
					{
						TeamKeys:  map[string][]string{model.AllianceRed: {"frc1507", "frc5", "frc6"}},
						Breakdown: map[string]model.AllianceBreakdown{model.AllianceRed: {AutoCoral: 2, TeleopCoral: 4, ProcessorAlgae: 1, Endgame: [3]string{"Parked", model.EndgameDeepCage, ""}}},
					},
				},
			},
		}
		perf := &fakeMetrics{byTeam: map[string]model.PerformanceMetrics{"1507": {Overall: 70, Auto: 15, Teleop: 40, WorldRank: 120}}}
		agg := New(teams, perf, WithSeason(2025), WithClock(now))

		rep, err := agg.LookupTeam(context.Background(), "1507")
		So(err, ShouldBeNil)

		Convey("Then events are joined and ordered by date", func() {
			So(rep.Events.OK(), ShouldBeTrue)
			want := []model.EventOutcome{
				{EventKey: "2025nyli", Name: "Long Island", Rank: 7},
				{EventKey: "2025nyro", Name: "Finger Lakes", Won: true, Rank: 2},
				{EventKey: "2025cmptx", Name: "Championship"},
			}
			So(cmp.Diff(want, rep.Events.Value), ShouldBeEmpty)
		})

		Convey("Then specialty stats come from the latest past event", func() {
			So(rep.Specialty.OK(), ShouldBeTrue)
			So(rep.Specialty.Value.EventKey, ShouldEqual, "2025nyro")
			So(rep.Specialty.Value.Matches, ShouldEqual, 2)
			So(rep.Specialty.Value.AvgCoral, ShouldEqual, 10.0)
			So(rep.Specialty.Value.AvgAlgae, ShouldEqual, 2.0)
			So(rep.Specialty.Value.ClimbRate, ShouldEqual, 0.5)
		})

		Convey("Then metrics and awards are present", func() {
			So(rep.Profile.Nickname, ShouldEqual, "Warlocks")
			So(rep.Season, ShouldEqual, 2025)
			So(rep.Metrics.Value.WorldRank, ShouldEqual, 120)
			So(rep.Awards.Value, ShouldEqual, 3)
		})
	})

	Convey("Given every call after the profile failing", t, func() {
		teams := &fakeTeams{
			profile:   model.TeamProfile{Nickname: "Warlocks"},
			eventsErr: errBoom, statusErr: errBoom, awardsErr: errBoom,
		}
		agg := New(teams, &fakeMetrics{})

		rep, err := agg.LookupTeam(context.Background(), "1507")

		Convey("Then the report still comes back with each section unavailable", func() {
			So(err, ShouldBeNil)
			So(rep.Profile.Nickname, ShouldEqual, "Warlocks")
			So(rep.Events.OK(), ShouldBeFalse)
			So(rep.Metrics.OK(), ShouldBeFalse)
			So(rep.Awards.OK(), ShouldBeFalse)
			So(rep.Specialty.OK(), ShouldBeFalse)
		})
	})

	Convey("Given a failing statuses call only", t, func() {
		teams := &fakeTeams{
			events:    []model.SeasonEvent{{Key: "a", Name: "Alpha", StartDate: date(3, 1)}},
			statusErr: errBoom,
		}
		rep, err := New(teams, &fakeMetrics{}, WithClock(now)).LookupTeam(context.Background(), "1507")
		So(err, ShouldBeNil)

		Convey("Then events degrade to plain attendance", func() {
			So(rep.Events.OK(), ShouldBeTrue)
			So(rep.Events.Value, ShouldResemble, []model.EventOutcome{{EventKey: "a", Name: "Alpha"}})
			So(errors.Is(rep.Specialty.Err, ErrNoMatchData), ShouldBeTrue)
		})
	})

	Convey("Given providers that hang", t, func() {
		teams := &fakeTeams{block: true}
		agg := New(teams, &fakeMetrics{byTeam: map[string]model.PerformanceMetrics{"1507": {Overall: 50}}},
			WithCallTimeout(30*time.Millisecond))

		start := time.Now()
		rep, err := agg.LookupTeam(context.Background(), "1507")

		Convey("Then each call times out independently and the request finishes", func() {
			So(err, ShouldBeNil)
			So(time.Since(start), ShouldBeLessThan, time.Second)
			So(errors.Is(rep.Events.Err, context.DeadlineExceeded), ShouldBeTrue)
			So(errors.Is(rep.Awards.Err, context.DeadlineExceeded), ShouldBeTrue)
			So(rep.Metrics.OK(), ShouldBeTrue)
		})
	})
}

func TestCompareTeams(t *testing.T) {
	Convey("Given two teams where one has no metrics", t, func() {
		perf := &fakeMetrics{byTeam: map[string]model.PerformanceMetrics{"254": {Overall: 90}}}
		cmpRes := New(&fakeTeams{}, perf).CompareTeams(context.Background(), "254", "1507")

		So(cmpRes.A.TeamID, ShouldEqual, "254")
		So(cmpRes.A.Metrics.Value.Overall, ShouldEqual, 90)
		So(cmpRes.B.TeamID, ShouldEqual, "1507")
		So(cmpRes.B.Metrics.OK(), ShouldBeFalse)
		So(perf.calls.Load(), ShouldEqual, 2)
	})
}

func TestLatestEventAndSpecialty(t *testing.T) {
	Convey("Given events around today", t, func() {
		evs := []model.SeasonEvent{
			{Key: "past", StartDate: date(3, 1)},
			{Key: "recent", StartDate: date(3, 20)},
			{Key: "future", StartDate: date(5, 1)},
		}
		ev, ok := LatestEvent(evs, date(4, 1))
		So(ok, ShouldBeTrue)
		So(ev.Key, ShouldEqual, "recent")

		Convey("Before the season starts the newest event is used", func() {
			ev, _ := LatestEvent(evs, date(1, 1))
			So(ev.Key, ShouldEqual, "future")
		})

		Convey("No events means nothing to pick", func() {
			_, ok := LatestEvent(nil, date(1, 1))
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given matches the team did not play or without breakdowns", t, func() {
		ms := []model.Match{
			{TeamKeys: map[string][]string{model.AllianceRed: {"frc1507"}}},
			{TeamKeys: map[string][]string{model.AllianceRed: {"frc254"}}, Breakdown: map[string]model.AllianceBreakdown{model.AllianceRed: {}}},
		}
		_, err := ComputeSpecialty("1507", model.SeasonEvent{Key: "x"}, ms)
		So(errors.Is(err, ErrNoMatchData), ShouldBeTrue)
	})
}
