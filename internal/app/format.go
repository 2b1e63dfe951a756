package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/frcscout/internal/domain/lookup"
	"github.com/okian/frcscout/internal/domain/model"
	"github.com/okian/frcscout/internal/domain/opinion"
)

// formatReport renders the six report sections in fixed order, one per line.
// Missing data never drops a section.
func formatReport(rep lookup.Report, notes lookup.Result[[]model.Note], favorite bool) string {
	sections := []string{
		formatIdentity(rep.Profile, favorite),
		formatSeason(rep.Season, rep.Events),
		formatMetrics(rep.Metrics),
		formatSpecialty(rep.Specialty),
		formatNotes(notes),
		formatOpinion(rep.Metrics, rep.Awards),
	}
	return strings.Join(sections, "\n")
}

func formatIdentity(p model.TeamProfile, favorite bool) string {
	var where []string
	for _, part := range []string{p.City, p.State, p.Country} {
		if part != "" {
			where = append(where, part)
		}
	}
	line := fmt.Sprintf(identityLine, p.TeamID, p.Nickname, strings.Join(where, ", "))
	if favorite {
		line += favoriteMention
	}
	return line
}

func formatSeason(season int, events lookup.Result[[]model.EventOutcome]) string {
	if !events.OK() {
		return fmt.Sprintf(seasonUnavailable, season)
	}
	if len(events.Value) == 0 {
		return fmt.Sprintf(seasonLine, season, seasonNoEvents)
	}
	parts := make([]string, 0, len(events.Value))
	for _, ev := range events.Value {
		parts = append(parts, formatOutcome(ev))
	}
	return fmt.Sprintf(seasonLine, season, strings.Join(parts, "; ")+".")
}

// formatOutcome prefers a playoff win over a ranking over plain attendance.
func formatOutcome(ev model.EventOutcome) string {
	switch {
	case ev.Won:
		return fmt.Sprintf(seasonWon, ev.Name)
	case ev.Rank > 0:
		return fmt.Sprintf(seasonRanked, ev.Rank, ev.Name)
	default:
		return fmt.Sprintf(seasonCompeted, ev.Name)
	}
}

func formatMetrics(m lookup.Result[model.PerformanceMetrics]) string {
	if !m.OK() {
		return metricsMissing
	}
	rank := "unknown"
	if m.Value.WorldRank > 0 {
		rank = "#" + strconv.Itoa(m.Value.WorldRank)
	}
	return fmt.Sprintf(metricsLine, m.Value.Overall, rank, m.Value.Auto, m.Value.Teleop)
}

func formatSpecialty(s lookup.Result[model.SpecialtyStats]) string {
	if !s.OK() {
		return specialtyMissing
	}
	v := s.Value
	return fmt.Sprintf(specialtyLine, v.EventName, v.Matches, v.AvgCoral, v.AvgAlgae, v.ClimbRate*100)
}

func formatNotes(notes lookup.Result[[]model.Note]) string {
	if !notes.OK() {
		return notesMissing
	}
	if len(notes.Value) == 0 {
		return notesNone
	}
	parts := make([]string, 0, len(notes.Value))
	for i, n := range notes.Value {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, n.Label()))
	}
	return fmt.Sprintf(notesLine, strings.Join(parts, " "))
}

// formatOpinion falls back to zero rates, an unranked team and no awards when
// the providers had nothing, so a phrase is always produced.
func formatOpinion(m lookup.Result[model.PerformanceMetrics], awards lookup.Result[int]) string {
	in := opinion.FromMetrics(m.Value, m.OK())
	count := 0
	if awards.OK() {
		count = awards.Value
	}
	return fmt.Sprintf(opinionLine, opinion.Opinion(in, count))
}

func formatComparison(c lookup.Comparison) string {
	a, b := c.A.Metrics.Value, c.B.Metrics.Value
	lines := []string{
		fmt.Sprintf(compareLine, c.A.TeamID, a.Overall, a.Auto, a.Teleop),
		fmt.Sprintf(compareLine, c.B.TeamID, b.Overall, b.Auto, b.Teleop),
	}
	switch {
	case a.Overall > b.Overall:
		lines = append(lines, fmt.Sprintf(compareAheadReply, c.A.TeamID, c.B.TeamID))
	case b.Overall > a.Overall:
		lines = append(lines, fmt.Sprintf(compareAheadReply, c.B.TeamID, c.A.TeamID))
	default:
		lines = append(lines, compareEvenReply)
	}
	return strings.Join(lines, "\n")
}

func formatNoteCounts(counts []model.TeamNoteCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s (%d)", c.TeamID, c.Count))
	}
	return fmt.Sprintf(notesListReply, strings.Join(parts, ", "))
}

func formatSearch(keyword string, hits []model.NoteMatch) string {
	if len(hits) == 0 {
		return fmt.Sprintf(searchNoHitsReply, keyword)
	}
	lines := []string{fmt.Sprintf(searchHeaderReply, keyword)}
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf(searchHitLineReply, h.TeamID, h.Index, h.Note.Label()))
	}
	return strings.Join(lines, "\n")
}
