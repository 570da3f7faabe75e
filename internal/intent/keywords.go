package intent

import "strings"

// schedulingTerms name a meeting or the act of arranging one.
var schedulingTerms = []string{
	"meeting", "schedule", "appointment", "call", "discussion",
	"sync", "catch up", "get together", "meet up", "meet",
	"book", "arrange", "set up", "organize", "plan",
	"conference", "video call", "zoom", "teams", "google meet",
	"hangout", "coffee", "lunch", "dinner", "breakfast",
	"standup", "stand up", "daily", "weekly", "monthly",
	"review", "brainstorm", "workshop", "training", "presentation",
}

// availabilityTerms ask about someone's time. On their own they are enough
// to count as scheduling intent.
var availabilityTerms = []string{
	"when", "what time", "available", "free", "busy", "can", "could",
}

// HasIntent reports whether text carries scheduling intent. Matching is
// plain substring membership on the lower-cased text.
func HasIntent(text string) bool {
	lower := strings.ToLower(text)
	return containsAny(lower, schedulingTerms) || containsAny(lower, availabilityTerms)
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
