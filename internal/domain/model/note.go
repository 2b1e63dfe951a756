package model

import (
	"bytes"
	"encoding/json"
)

// NoteTimeLayout is the timestamp format stored with each note.
const NoteTimeLayout = "2006-01-02 15:04"

// Note is a user annotation about a team. Order within a team's list is
// insertion order and defines the 1-based index used by edit and delete.
type Note struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// UnmarshalJSON accepts the {text, timestamp} object or a bare string.
// Bare strings come from older notes files and carry no timestamp.
func (n *Note) UnmarshalJSON(b []byte) error {
	if b = bytes.TrimSpace(b); len(b) > 0 && b[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		*n = Note{Text: text}
		return nil
	}
	type plain Note
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*n = Note(p)
	return nil
}

// Label renders the note text followed by its timestamp in parentheses,
// omitting the parentheses when no timestamp is known.
func (n Note) Label() string {
	if n.Timestamp == "" {
		return n.Text
	}
	return n.Text + " (" + n.Timestamp + ")"
}

// TeamNoteCount pairs a team with how many notes it has.
type TeamNoteCount struct {
	TeamID string `json:"team_id"`
	Count  int    `json:"count"`
}

// NoteMatch is one search hit.
type NoteMatch struct {
	TeamID string
	Index  int // 1-based
	Note   Note
}
