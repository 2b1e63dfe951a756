package service

// Fixed replies. Every dispatch path ends in one of these or a formatted report.
const (
	PromptReply        = "Please provide a team number or a note!"
	BadTeamReply       = "Hmm... I didn't understand that team number. Please try again!"
	InternalErrorReply = "⚠️ Sorry, something unexpected happened. Please try again."

	notFoundReply = "Sorry, I couldn't find team %s. Please double check the number."

	compareNoTeamsReply = "I couldn't figure out which two teams to compare."
	compareAheadReply   = "🔮 Team %s tends to outscore Team %s."
	compareEvenReply    = "🔮 These teams have similar scoring potential."

	searchEmptyReply   = "What should I search for? Try 'search notes defense'."
	searchNoHitsReply  = "No notes mention %q."
	searchHeaderReply  = "🔎 Notes matching %q:"
	searchHitLineReply = "- Team %s #%d: %s"

	favoriteNoTeamReply   = "I couldn't find which team to favorite."
	favoriteAddedReply    = "⭐ Team %s has been added to your favorites!"
	unfavoriteNoTeamReply = "I couldn't find which team to unfavorite."
	unfavoriteDoneReply   = "🚫 Team %s has been removed from your favorites."
	favoritesEmptyReply   = "You have no favorite teams yet."
	favoritesListReply    = "⭐ Your favorite teams: %s"

	notesEmptyReply = "There are no saved notes yet."
	notesListReply  = "Teams with saved notes: %s"

	addNoteNoTeamReply = "I couldn't figure out which team you're noting."
	addNoteEmptyReply  = "What should I write down about Team %s? Try '%s note: good driving'."
	addNoteSavedReply  = "Got it! I saved your note for Team %s."

	deleteNoTeamReply     = "I couldn't figure out which team's note to delete."
	deleteEmptyReply      = "Tell me which note to delete, e.g. '%s delete: 1'."
	deleteByIndexReply    = "Deleted note #%d for Team %s."
	deleteByTextReply     = "Deleted the note for Team %s."
	deleteNotFoundReply   = "I couldn't find that note for Team %s."
	noteIndexMissingReply = "Team %s doesn't have a note #%d."

	editNoTeamReply   = "I couldn't figure out which team's note to edit."
	editFormatReply   = "I couldn't read that edit. Format: '1507 edit: old note -> new note' or '1507 edit: 2 -> new note'."
	editByIndexReply  = "Updated note #%d for Team %s."
	editByTextReply   = "Updated the note for Team %s."
	editNotFoundReply = "I couldn't find that original note for Team %s."
)

// Report section texts.
const (
	identityLine      = "Team %s - %s is from %s."
	favoriteMention   = " ⭐ They are one of your favorites."
	seasonLine        = "Here's what I found about their %d season: %s"
	seasonNoEvents    = "No events found."
	seasonUnavailable = "I couldn't load their %d season info."
	seasonWon         = "won %s"
	seasonRanked      = "ranked #%d at %s"
	seasonCompeted    = "competed at %s"
	metricsLine       = "📊 EPA: %.1f (World Rank %s) | Auto: %.1f | Teleop: %.1f"
	metricsMissing    = "📊 Statbotics data not available."
	specialtyLine     = "🔧 At %s (%d matches): %.1f coral and %.1f algae per match, climbed in %.0f%% of matches."
	specialtyMissing  = "🔧 Specialty stats not available."
	notesLine         = "📝 Notes: %s"
	notesNone         = "📝 No custom notes yet."
	notesMissing      = "📝 Notes not available."
	opinionLine       = "🧠 Scout opinion: %s"
	compareLine       = "Team %s EPA: %.1f (Auto: %.1f | Teleop: %.1f)"
)
