package askclient

import "errors"

// Sentinel errors returned by the client.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrDecode           = errors.New("decode reply")
	ErrNoQuestions      = errors.New("no questions")
)
