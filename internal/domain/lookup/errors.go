package lookup

import (
	"errors"
	"fmt"
)

// Sentinel kinds for aggregation errors.
var (
	ErrTeamNotFound = errors.New("team not found")
	ErrNoMatchData  = errors.New("no usable match data")
	ErrNoEvents     = errors.New("no events")
)

// NotFoundError is returned when the existence check for TeamID fails. It
// matches ErrTeamNotFound and the upstream cause with errors.Is.
type NotFoundError struct {
	TeamID string
	Cause  error
}

func (e *NotFoundError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("team %s: %v", e.TeamID, ErrTeamNotFound)
	}
	return fmt.Sprintf("team %s: %v: %v", e.TeamID, ErrTeamNotFound, e.Cause)
}

func (e *NotFoundError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrTeamNotFound}
	}
	return []error{ErrTeamNotFound, e.Cause}
}
