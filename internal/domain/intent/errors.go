package intent

import "errors"

// Sentinel kinds for argument extraction.
var (
	ErrNoTeamIdentifier = errors.New("no team identifier")
	ErrEmptyPayload     = errors.New("empty payload")
	ErrMissingArrow     = errors.New("missing -> separator")
)
