package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/okian/frcscout/internal/domain/model"
)

// DefaultTBABaseURL is The Blue Alliance v3 API root.
const DefaultTBABaseURL = "https://www.thebluealliance.com/api/v3"

const (
	tbaProvider   = "tba"
	tbaAuthHeader = "X-TBA-Auth-Key"
	tbaDateLayout = "2006-01-02"
)

// Profile fallbacks when the provider omits a field.
const (
	UnknownNickname = "Unknown Nickname"
	UnknownCity     = "Unknown City"
)

// TBA is the competition-results client.
type TBA struct {
	*Client
}

// NewTBA returns a client authenticating with authKey.
func NewTBA(baseURL, authKey string, opts ...Option) *TBA {
	if baseURL == "" {
		baseURL = DefaultTBABaseURL
	}
	c := newClient(tbaProvider, baseURL, opts...)
	if authKey != "" {
		c.header.Set(tbaAuthHeader, authKey)
	}
	return &TBA{Client: c}
}

func teamKey(teamID string) string { return "frc" + teamID }

type tbaTeam struct {
	Nickname string `json:"nickname"`
	City     string `json:"city"`
	State    string `json:"state_prov"`
	Country  string `json:"country"`
}

// Team fetches the team profile. ErrNotFound means the team does not exist.
func (t *TBA) Team(ctx context.Context, teamID string) (model.TeamProfile, error) {
	var dto tbaTeam
	if err := t.getJSON(ctx, "team", "/team/"+teamKey(teamID), &dto); err != nil {
		return model.TeamProfile{}, err
	}
	p := model.TeamProfile{
		TeamID:   teamID,
		Nickname: dto.Nickname,
		City:     dto.City,
		State:    dto.State,
		Country:  dto.Country,
	}
	if p.Nickname == "" {
		p.Nickname = UnknownNickname
	}
	if p.City == "" {
		p.City = UnknownCity
	}
	return p, nil
}

type tbaEvent struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	StartDate string `json:"start_date"`
}

// Events lists the team's events in season.
func (t *TBA) Events(ctx context.Context, teamID string, season int) ([]model.SeasonEvent, error) {
	var dtos []tbaEvent
	path := fmt.Sprintf("/team/%s/events/%d", teamKey(teamID), season)
	if err := t.getJSON(ctx, "events", path, &dtos); err != nil {
		return nil, err
	}
	out := make([]model.SeasonEvent, 0, len(dtos))
	for _, d := range dtos {
		ev := model.SeasonEvent{Key: d.Key, Name: d.Name}
		if ev.Name == "" {
			ev.Name = d.ShortName
		}
		if ev.Name == "" {
			ev.Name = d.Key
		}
		if ts, err := time.Parse(tbaDateLayout, d.StartDate); err == nil {
			ev.StartDate = ts
		}
		out = append(out, ev)
	}
	return out, nil
}

type tbaStatus struct {
	Qual *struct {
		Ranking *struct {
			Rank int `json:"rank"`
		} `json:"ranking"`
	} `json:"qual"`
	Playoff *struct {
		Status string `json:"status"`
	} `json:"playoff"`
}

// EventStatuses returns the team's standing per event key. Events the
// provider reports as null are omitted.
func (t *TBA) EventStatuses(ctx context.Context, teamID string, season int) (map[string]model.EventStatus, error) {
	var dtos map[string]*tbaStatus
	path := fmt.Sprintf("/team/%s/events/%d/statuses", teamKey(teamID), season)
	if err := t.getJSON(ctx, "event_statuses", path, &dtos); err != nil {
		return nil, err
	}
	out := make(map[string]model.EventStatus, len(dtos))
	for key, d := range dtos {
		if d == nil {
			continue
		}
		st := model.EventStatus{EventKey: key}
		if d.Qual != nil && d.Qual.Ranking != nil {
			st.Rank = d.Qual.Ranking.Rank
		}
		if d.Playoff != nil {
			st.PlayoffStatus = d.Playoff.Status
		}
		out[key] = st
	}
	return out, nil
}

type tbaAward struct {
	Name     string `json:"name"`
	EventKey string `json:"event_key"`
	Year     int    `json:"year"`
}

// Awards returns the team's awards in season.
func (t *TBA) Awards(ctx context.Context, teamID string, season int) ([]model.Award, error) {
	var raw []tbaAward
	path := fmt.Sprintf("/team/%s/awards/%d", teamKey(teamID), season)
	if err := t.getJSON(ctx, "awards", path, &raw); err != nil {
		return nil, err
	}
	out := make([]model.Award, 0, len(raw))
	for _, a := range raw {
		out = append(out, model.Award{Name: a.Name, EventKey: a.EventKey, Year: a.Year})
	}
	return out, nil
}

// AwardCount returns how many awards the team won in season.
func (t *TBA) AwardCount(ctx context.Context, teamID string, season int) (int, error) {
	awards, err := t.Awards(ctx, teamID, season)
	if err != nil {
		return 0, err
	}
	return len(awards), nil
}

type tbaBreakdown struct {
	AutoCoralCount   int    `json:"autoCoralCount"`
	TeleopCoralCount int    `json:"teleopCoralCount"`
	NetAlgaeCount    int    `json:"netAlgaeCount"`
	WallAlgaeCount   int    `json:"wallAlgaeCount"` // processor
	EndGameRobot1    string `json:"endGameRobot1"`
	EndGameRobot2    string `json:"endGameRobot2"`
	EndGameRobot3    string `json:"endGameRobot3"`
}

type tbaMatch struct {
	Key       string `json:"key"`
	Alliances map[string]struct {
		TeamKeys []string `json:"team_keys"`
	} `json:"alliances"`
	ScoreBreakdown map[string]tbaBreakdown `json:"score_breakdown"`
}

// EventMatches returns the team's matches at eventKey with score breakdowns.
// Matches without a breakdown keep a nil Breakdown map.
func (t *TBA) EventMatches(ctx context.Context, teamID, eventKey string) ([]model.Match, error) {
	var dtos []tbaMatch
	path := fmt.Sprintf("/team/%s/event/%s/matches", teamKey(teamID), url.PathEscape(eventKey))
	if err := t.getJSON(ctx, "event_matches", path, &dtos); err != nil {
		return nil, err
	}
	out := make([]model.Match, 0, len(dtos))
	for _, d := range dtos {
		m := model.Match{Key: d.Key, TeamKeys: make(map[string][]string, len(d.Alliances))}
		for color, a := range d.Alliances {
			m.TeamKeys[color] = a.TeamKeys
		}
		if len(d.ScoreBreakdown) > 0 {
			m.Breakdown = make(map[string]model.AllianceBreakdown, len(d.ScoreBreakdown))
			for color, b := range d.ScoreBreakdown {
				m.Breakdown[color] = model.AllianceBreakdown{
					AutoCoral:      b.AutoCoralCount,
					TeleopCoral:    b.TeleopCoralCount,
					NetAlgae:       b.NetAlgaeCount,
					ProcessorAlgae: b.WallAlgaeCount,
					Endgame:        [3]string{b.EndGameRobot1, b.EndGameRobot2, b.EndGameRobot3},
				}
			}
		}
		out = append(out, m)
	}
	return out, nil
}
