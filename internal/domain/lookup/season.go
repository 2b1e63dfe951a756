package lookup

import (
	"slices"
	"time"

	"github.com/okian/frcscout/internal/domain/model"
)

// joinOutcomes pairs events with their statuses, ordered by start date. A
// failed statuses call leaves every event with no rank and no playoff result.
func joinOutcomes(events Result[[]model.SeasonEvent], statuses Result[map[string]model.EventStatus]) Result[[]model.EventOutcome] {
	if !events.OK() {
		return Unavailable[[]model.EventOutcome](events.Err)
	}
	ordered := slices.Clone(events.Value)
	slices.SortStableFunc(ordered, func(x, y model.SeasonEvent) int {
		return x.StartDate.Compare(y.StartDate)
	})

	out := make([]model.EventOutcome, 0, len(ordered))
	for _, ev := range ordered {
		o := model.EventOutcome{EventKey: ev.Key, Name: ev.Name}
		if statuses.OK() {
			if st, ok := statuses.Value[ev.Key]; ok {
				o.Won = st.PlayoffStatus == model.PlayoffWon
				o.Rank = st.Rank
			}
		}
		out = append(out, o)
	}
	return Ok(out)
}

// LatestEvent picks the event with the greatest start date not after now,
// falling back to the greatest start date overall.
func LatestEvent(events []model.SeasonEvent, now time.Time) (model.SeasonEvent, bool) {
	if len(events) == 0 {
		return model.SeasonEvent{}, false
	}
	var (
		best, newest model.SeasonEvent
		found        bool
	)
	for i, ev := range events {
		if i == 0 || ev.StartDate.After(newest.StartDate) {
			newest = ev
		}
		if ev.StartDate.After(now) {
			continue
		}
		if !found || ev.StartDate.After(best.StartDate) {
			best, found = ev, true
		}
	}
	if found {
		return best, true
	}
	return newest, true
}

// ComputeSpecialty averages the team's alliance output over every match at
// event that has a score breakdown.
func ComputeSpecialty(teamID string, event model.SeasonEvent, matches []model.Match) (model.SpecialtyStats, error) {
	key := "frc" + teamID
	var coral, algae, climbs, n int
	for _, m := range matches {
		if m.Breakdown == nil {
			continue
		}
		color, slot, ok := findTeam(m, key)
		if !ok {
			continue
		}
		b, ok := m.Breakdown[color]
		if !ok {
			continue
		}
		n++
		coral += b.AutoCoral + b.TeleopCoral
		algae += b.NetAlgae + b.ProcessorAlgae
		if slot < len(b.Endgame) && isClimb(b.Endgame[slot]) {
			climbs++
		}
	}
	if n == 0 {
		return model.SpecialtyStats{}, ErrNoMatchData
	}
	return model.SpecialtyStats{
		EventKey:  event.Key,
		EventName: event.Name,
		Matches:   n,
		AvgCoral:  float64(coral) / float64(n),
		AvgAlgae:  float64(algae) / float64(n),
		ClimbRate: float64(climbs) / float64(n),
	}, nil
}

func findTeam(m model.Match, key string) (color string, slot int, ok bool) {
	for _, c := range []string{model.AllianceRed, model.AllianceBlue} {
		if i := slices.Index(m.TeamKeys[c], key); i >= 0 {
			return c, i, true
		}
	}
	return "", 0, false
}

func isClimb(endgame string) bool {
	return endgame == model.EndgameDeepCage || endgame == model.EndgameShallowCage
}
