package intent

import (
	"strconv"
	"strings"
)

// MinTeamDigits is the shortest digit run accepted as a team identifier.
// Shorter runs ("2 notes", "#1") are ignored.
const MinTeamDigits = 3

// Arrow separates old and new text in an edit command.
const Arrow = "->"

// digitRuns returns [start, end) byte offsets of maximal ASCII digit runs.
func digitRuns(s string) [][2]int {
	var runs [][2]int
	start := -1
	for i := 0; i < len(s); i++ {
		isDigit := s[i] >= '0' && s[i] <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(s)})
	}
	return runs
}

func findTeamID(text string) (id string, start, end int, ok bool) {
	for _, r := range digitRuns(text) {
		if r[1]-r[0] >= MinTeamDigits {
			return text[r[0]:r[1]], r[0], r[1], true
		}
	}
	return "", 0, 0, false
}

// ExtractTeamID returns the first run of at least MinTeamDigits digits.
func ExtractTeamID(text string) (string, bool) {
	id, _, _, ok := findTeamID(text)
	return id, ok
}

// ExtractTeamIDs returns every team identifier in order of appearance.
func ExtractTeamIDs(text string) []string {
	var ids []string
	for _, r := range digitRuns(text) {
		if r[1]-r[0] >= MinTeamDigits {
			ids = append(ids, text[r[0]:r[1]])
		}
	}
	return ids
}

// indexFold is a case-insensitive strings.Index for ASCII needles that keeps
// byte offsets into s valid.
func indexFold(s, needle string) int {
	n := len(needle)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], needle) {
			return i
		}
	}
	return -1
}

// SplitOnTrigger splits raw around the first trigger found, trying triggers in
// order. ok is false when none occurs.
func SplitOnTrigger(raw string, triggers ...string) (before, after string, ok bool) {
	for _, t := range triggers {
		if i := indexFold(raw, t); i >= 0 {
			return raw[:i], raw[i+len(t):], true
		}
	}
	return raw, "", false
}

// Command is a classified input with its arguments pulled out.
type Command struct {
	Intent  Intent
	Raw     string
	TeamID  string
	Payload string
}

// ParseTeamCommand extracts the team identifier and payload for a note or
// favorite command. The team is taken from the text before the trigger; when
// none is there, the first identifier after the trigger is used and removed
// from the payload.
func ParseTeamCommand(in Intent, raw string) (Command, error) {
	cmd := Command{Intent: in, Raw: raw}
	before, after, _ := SplitOnTrigger(raw, Triggers(in)...)

	if id, ok := ExtractTeamID(before); ok {
		cmd.TeamID = id
	} else if id, s, e, ok := findTeamID(after); ok {
		cmd.TeamID = id
		after = after[:s] + after[e:]
	}
	cmd.Payload = cleanPayload(after)

	if cmd.TeamID == "" {
		return cmd, ErrNoTeamIdentifier
	}
	return cmd, nil
}

// cleanPayload trims whitespace and leftover separators.
func cleanPayload(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), ":"))
}

// ParseCompare extracts the two teams of "compare A vs B". Without "vs" the
// first two identifiers after the trigger are used.
func ParseCompare(raw string) (a, b string, err error) {
	_, after, _ := SplitOnTrigger(raw, Triggers(Compare)...)
	if left, right, ok := SplitOnTrigger(after, "vs"); ok {
		a, _ = ExtractTeamID(left)
		b, _ = ExtractTeamID(right)
	} else if ids := ExtractTeamIDs(after); len(ids) >= 2 {
		a, b = ids[0], ids[1]
	}
	if a == "" || b == "" {
		return a, b, ErrNoTeamIdentifier
	}
	return a, b, nil
}

// ParseSearch returns the keyword after "search notes".
func ParseSearch(raw string) (string, error) {
	_, after, _ := SplitOnTrigger(raw, Triggers(SearchNotes)...)
	kw := strings.Trim(cleanPayload(after), `"'`)
	if kw == "" {
		return "", ErrEmptyPayload
	}
	return kw, nil
}

// ParseEdit splits an edit payload "old -> new".
func ParseEdit(payload string) (oldRef, newText string, err error) {
	i := strings.Index(payload, Arrow)
	if i < 0 {
		return "", "", ErrMissingArrow
	}
	oldRef = strings.TrimSpace(payload[:i])
	newText = strings.TrimSpace(payload[i+len(Arrow):])
	if oldRef == "" || newText == "" {
		return oldRef, newText, ErrEmptyPayload
	}
	return oldRef, newText, nil
}

// ParseIndex reads a 1-based note index. ok is false when ref is not a
// positive integer, in which case the caller treats ref as note text.
func ParseIndex(ref string) (int, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
