// Package intent classifies free-form questions into commands.
//
// Classification is substring based and deliberately forgiving: rules are
// evaluated top to bottom and the first match wins. An input that matches
// several rules (a note whose text says "compare") resolves to the earliest
// rule; that ambiguity is accepted.
package intent

import "strings"

// Intent names a command the dispatcher knows how to answer.
type Intent string

// Known intents.
const (
	Compare       Intent = "compare"
	SearchNotes   Intent = "search_notes"
	Unfavorite    Intent = "unfavorite"
	Favorite      Intent = "favorite"
	ListFavorites Intent = "list_favorites"
	ListNotes     Intent = "list_notes"
	DeleteNote    Intent = "delete_note"
	EditNote      Intent = "edit_note"
	AddNote       Intent = "add_note"
	TeamLookup    Intent = "team_lookup"
)

// rule maps a predicate over the lower-cased input to an intent.
type rule struct {
	intent Intent
	match  func(lower string) bool
}

func containsAny(subs ...string) func(string) bool {
	return func(lower string) bool {
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

// rules is the single source of truth for intent priority.
var rules = []rule{ //nolint:gochecknoglobals // immutable rule table
	{Compare, containsAny("compare")},
	{SearchNotes, containsAny("search notes")},
	{Unfavorite, containsAny("unfavorite")},
	// "list favorites" is excluded the same way "unfavorite" is, otherwise
	// the listing command could never be reached.
	{Favorite, func(lower string) bool {
		return strings.Contains(lower, "favorite") &&
			!strings.Contains(lower, "unfavorite") &&
			!strings.Contains(lower, "list favorites")
	}},
	{ListFavorites, containsAny("list favorites")},
	{ListNotes, containsAny("list notes")},
	{DeleteNote, containsAny("delete:", "delete note")},
	{EditNote, containsAny("edit:", "edit note")},
	{AddNote, containsAny("note:", "note")},
}

// triggers lists, per intent, the phrases its payload is split on, most specific first.
var triggers = map[Intent][]string{ //nolint:gochecknoglobals // immutable lookup table
	Compare:       {"compare"},
	SearchNotes:   {"search notes"},
	Unfavorite:    {"unfavorite"},
	Favorite:      {"favorite"},
	ListFavorites: {"list favorites"},
	ListNotes:     {"list notes"},
	DeleteNote:    {"delete:", "delete note"},
	EditNote:      {"edit:", "edit note"},
	AddNote:       {"note:", "note"},
}

// Classify maps raw text to an intent. Raw text is returned unchanged for the
// dispatcher. Inputs that match no rule are team lookups.
func Classify(raw string) (Intent, string) {
	lower := strings.ToLower(raw)
	for _, r := range rules {
		if r.match(lower) {
			return r.intent, raw
		}
	}
	return TeamLookup, raw
}

// Priority returns the intents in the order they are tested.
func Priority() []Intent {
	out := make([]Intent, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.intent)
	}
	return append(out, TeamLookup)
}

// Triggers returns the phrases an intent's payload is split on.
func Triggers(i Intent) []string {
	return append([]string(nil), triggers[i]...)
}
