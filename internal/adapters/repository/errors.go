package repository

import "errors"

// Sentinel kinds for snapshot storage errors.
var (
	ErrSnapshotMissing = errors.New("snapshot missing")
	ErrUnknownBackend  = errors.New("unknown store backend")
)
