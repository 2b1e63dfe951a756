package notes

import (
	"time"

	"github.com/okian/frcscout/pkg/logger"
)

// Option configures a NoteStore or FavoriteStore.
type Option func(*settings)

type settings struct {
	now func() time.Time
	log logger.Logger
}

func defaults() settings {
	return settings{now: time.Now, log: logger.Nop()}
}

// WithClock sets the clock used for note timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}
