package lookup

import (
	"time"

	"github.com/okian/frcscout/pkg/logger"
)

// Defaults.
const (
	DefaultSeason      = 2025
	DefaultCallTimeout = 5 * time.Second
)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSeason sets the season every lookup reports on.
func WithSeason(season int) Option {
	return func(a *Aggregator) {
		if season > 0 {
			a.season = season
		}
	}
}

// WithCallTimeout bounds each upstream call.
func WithCallTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.callTimeout = d
		}
	}
}

// WithClock sets the clock used to pick the latest event.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}
