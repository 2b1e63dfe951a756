package notes

import "errors"

// Sentinel kinds for note and favorite store errors.
var (
	ErrIndexOutOfRange = errors.New("note index out of range")
	ErrNoteNotFound    = errors.New("note not found")
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
