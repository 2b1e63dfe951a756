// Package model contains domain models passed between layers.
package model

import "time"

// TeamProfile is the identity section of a lookup. Never persisted.
type TeamProfile struct {
	TeamID   string
	Nickname string
	City     string
	State    string
	Country  string
}

// SeasonEvent is one competition a team is registered for in a season.
type SeasonEvent struct {
	Key       string
	Name      string
	StartDate time.Time // zero when the provider omits it
}

// Playoff statuses reported by the competition-results provider.
const (
	PlayoffWon        = "won"
	PlayoffEliminated = "eliminated"
	PlayoffPlaying    = "playing"
)

// EventStatus is a team's standing at one event.
type EventStatus struct {
	EventKey      string
	Rank          int // 0 when the team has no qualification ranking
	PlayoffStatus string
}

// Award is one award a team received. Only the season count feeds the opinion.
type Award struct {
	Name     string
	EventKey string
	Year     int
}

// EventOutcome is the joined, display-ready result of one season event.
type EventOutcome struct {
	EventKey string
	Name     string
	Won      bool
	Rank     int
}

// Alliance colors.
const (
	AllianceRed  = "red"
	AllianceBlue = "blue"
)

// Endgame values that count as a climb.
const (
	EndgameDeepCage    = "DeepCage"
	EndgameShallowCage = "ShallowCage"
)

// AllianceBreakdown holds the per-alliance score fields the specialty stats use.
type AllianceBreakdown struct {
	AutoCoral      int
	TeleopCoral    int
	NetAlgae       int
	ProcessorAlgae int
	// Endgame holds the endgame state for robot slots 1..3, indexed 0..2.
	Endgame [3]string
}

// Match is one played match with both alliances.
type Match struct {
	Key       string
	TeamKeys  map[string][]string // alliance color -> team keys in robot-slot order
	Breakdown map[string]AllianceBreakdown
}
