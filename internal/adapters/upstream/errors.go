package upstream

import "errors"

// Sentinel kinds for upstream call failures.
var (
	ErrNotFound         = errors.New("upstream resource not found")
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
	ErrDecode           = errors.New("decode upstream response")
	ErrRateLimited      = errors.New("upstream rate limit wait aborted")
)
