package intent

import (
	"regexp"

	"github.com/MikeSquared-Agency/huddle/internal/textscan"
)

const weekdayAlt = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`

const monthAlt = `january|february|march|april|may|june|july|august|september|october|november|december`

// dateTable lists date fragments in priority order. Relative tokens come
// first so "next friday" is claimed before the bare "friday" inside it.
var dateTable = textscan.MustCompile(
	`\b(?:today|tomorrow|yesterday)\b`,
	`\b(?:next|this|last) (?:week|month|year)\b`,
	`\b(?:next|this) (?:`+weekdayAlt+`)\b`,
	`\b(?:`+weekdayAlt+`)\b`,
	`\b\d{1,2}/\d{1,2}/\d{4}\b`,
	`\b\d{1,2}-\d{1,2}-\d{4}\b`,
	`\b\d{1,2}\.\d{1,2}\.\d{4}\b`,
	`\b\d{1,2}/\d{1,2}\b`,
	`\b\d{1,2}-\d{1,2}\b`,
	`\b(?:`+monthAlt+`) \d{1,2}\b`,
	`\bin \d+ (?:days?|weeks?|months?)\b`,
	`\b\d+ (?:days?|weeks?|months?) from now\b`,
)

// timeTable lists time fragments in priority order: explicit clock times,
// then idioms around a bare hour, then named periods.
var timeTable = textscan.MustCompile(
	`\b(?:business|office|work) hours\b`,
	`\b9 to 5\b`,
	`\b9-5\b`,
	`\b\d{1,2}:\d{2} ?(?:am|pm)\b`,
	`\b\d{1,2} ?(?:am|pm)\b`,
	`\b\d{1,2}:\d{2}\b`,
	`\b(?:at|around|about) \d{1,2}\b`,
	`\b\d{1,2} ?ish\b`,
	`\b\d{1,2} o'? ?clock\b`,
	`\b(?:this|tomorrow|next) (?:morning|afternoon|evening)\b`,
	`\bearly morning\b`,
	`\blate (?:afternoon|evening)\b`,
	`\b(?:morning|afternoon|evening|night|noon|midnight)\b`,
)

// participantPatterns capture candidate names around relational words.
var participantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bwith\s+([a-z]+)`),
	regexp.MustCompile(`\bmeet\s+([a-z]+)`),
	regexp.MustCompile(`\b([a-z]+)\s+and\s+([a-z]+)`),
	regexp.MustCompile(`\b([a-z]+),\s+([a-z]+)`),
	regexp.MustCompile(`\b([a-z]+)\s*&\s*([a-z]+)`),
}

// collectiveNouns address a group or a role rather than a person. They are
// matched by the participant patterns and then dropped.
var collectiveNouns = map[string]bool{
	"team": true, "everyone": true, "all": true, "group": true, "us": true, "we": true,
	"manager": true, "lead": true, "developer": true, "designer": true,
	"stakeholder": true, "client": true, "customer": true,
}

// functionWords are pronouns, articles, prepositions and chat filler the
// relational patterns pick up ("with the", "meet with", "ok, sure").
var functionWords = map[string]bool{
	"the": true, "a": true, "an": true, "me": true, "you": true, "him": true,
	"her": true, "them": true, "it": true, "i": true, "my": true, "our": true,
	"your": true, "this": true, "that": true, "then": true, "with": true,
	"to": true, "at": true, "for": true, "on": true, "in": true, "or": true,
	"up": true, "let": true, "ok": true, "sure": true, "yes": true, "no": true,
	"hi": true, "hey": true, "thanks": true,
}

// temporalWords are never names even when they sit next to "and" or a comma
// ("tomorrow and friday").
var temporalWords = map[string]bool{
	"today": true, "tomorrow": true, "yesterday": true, "tonight": true,
	"morning": true, "afternoon": true, "evening": true, "night": true,
	"noon": true, "midnight": true, "week": true, "month": true, "year": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// Fallback anchors searched on the raw text when no time fragment resolved.
var (
	fallbackMeridiemRe = regexp.MustCompile(`(\d{1,2})\s*(am|pm)`)
	fallbackAtRe       = regexp.MustCompile(`at\s+(\d{1,2})(?:\s*(am|pm))?`)
	fallbackAroundRe   = regexp.MustCompile(`(?:around|about)\s+(\d{1,2})`)
)
