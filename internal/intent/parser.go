// Package intent decides whether a block of chat text proposes a meeting and
// pulls out the dates, times and people it mentions.
package intent

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MikeSquared-Agency/huddle/internal/textscan"
)

// Categories reported in MeetingIntent.MissingInfo.
const (
	MissingDate         = "date"
	MissingTime         = "time"
	MissingParticipants = "participants"
)

// DefaultMeetingTime fills in the time when a date was found without one.
const DefaultMeetingTime = "2:00 PM"

// Confidence weights. The base applies once intent is detected.
const (
	baseConfidence    = 0.3
	dateWeight        = 0.3
	timeWeight        = 0.2
	participantWeight = 0.2
)

// MeetingIntent is the result of analysing one block of text.
type MeetingIntent struct {
	IntentDetected bool     `json:"intent_detected"`
	Confidence     float64  `json:"confidence"`
	ExtractedDates []string `json:"extracted_dates"`
	ExtractedTimes []string `json:"extracted_times"`
	Participants   []string `json:"participants"`
	SuggestedDate  string   `json:"suggested_date,omitempty"`
	SuggestedTime  string   `json:"suggested_time,omitempty"`
	MissingInfo    []string `json:"missing_info"`
}

// Resolver normalises a single date or time fragment.
type Resolver interface {
	Resolve(fragment string) (string, bool)
}

// Parser extracts meeting intent from text. It holds only read-only
// resolvers and is safe for concurrent use.
type Parser struct {
	dates Resolver
	times Resolver
}

func NewParser(dates, times Resolver) *Parser {
	return &Parser{dates: dates, times: times}
}

// Parse analyses text. When no scheduling intent is detected every list is
// empty and MissingInfo stays empty too: gaps are only reported once there is
// a meeting to fill them for.
func (p *Parser) Parse(text string) MeetingIntent {
	if !HasIntent(text) {
		return MeetingIntent{
			ExtractedDates: []string{},
			ExtractedTimes: []string{},
			Participants:   []string{},
			MissingInfo:    []string{},
		}
	}

	lower := strings.ToLower(text)
	in := MeetingIntent{
		IntentDetected: true,
		ExtractedDates: resolveAll(dateTable.FindAll(lower), p.dates),
		ExtractedTimes: resolveAll(timeTable.FindAll(lower), p.times),
		Participants:   extractParticipants(lower),
	}
	in.Confidence = confidence(len(in.ExtractedDates), len(in.ExtractedTimes), len(in.Participants))

	if len(in.ExtractedTimes) == 0 {
		if len(in.ExtractedDates) > 0 {
			in.ExtractedTimes = append(in.ExtractedTimes, DefaultMeetingTime)
		} else if t, ok := p.fallbackTime(lower); ok {
			in.ExtractedTimes = append(in.ExtractedTimes, t)
		}
	}
	if len(in.ExtractedDates) > 0 {
		in.SuggestedDate = in.ExtractedDates[0]
	}
	if len(in.ExtractedTimes) > 0 {
		in.SuggestedTime = in.ExtractedTimes[0]
	}

	in.MissingInfo = MissingInfo(in.ExtractedDates, in.ExtractedTimes, in.Participants)
	return in
}

// MissingInfo lists the categories whose values are empty.
func MissingInfo(dates, times, participants []string) []string {
	missing := []string{}
	if len(dates) == 0 {
		missing = append(missing, MissingDate)
	}
	if len(times) == 0 {
		missing = append(missing, MissingTime)
	}
	if len(participants) == 0 {
		missing = append(missing, MissingParticipants)
	}
	return missing
}

func confidence(dates, times, participants int) float64 {
	c := baseConfidence
	if dates > 0 {
		c += dateWeight
	}
	if times > 0 {
		c += timeWeight
	}
	if participants > 0 {
		c += participantWeight
	}
	return math.Min(c, 1.0)
}

// resolveAll keeps successful resolutions in match order. Fragments that do
// not resolve are dropped.
func resolveAll(ms []textscan.Match, r Resolver) []string {
	out := []string{}
	for _, m := range ms {
		if v, ok := r.Resolve(m.Text); ok {
			out = append(out, v)
		}
	}
	return out
}

// extractParticipants collects capitalised names from relational patterns,
// deduplicated in first-seen order.
func extractParticipants(lower string) []string {
	title := cases.Title(language.English)
	seen := make(map[string]bool)
	out := []string{}
	for _, re := range participantPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			for _, name := range m[1:] {
				if name == "" || seen[name] || collectiveNouns[name] || functionWords[name] || temporalWords[name] {
					continue
				}
				seen[name] = true
				out = append(out, title.String(name))
			}
		}
	}
	return out
}

type fallbackRule struct {
	keyword string
	find    func(lower string) (string, bool)
}

// fallbackRules are tried in order; each fires only when its keyword occurs
// somewhere in the text.
var fallbackRules = []fallbackRule{
	{"am", meridiemFragment},
	{"pm", meridiemFragment},
	{"morning", literal("morning")},
	{"afternoon", literal("afternoon")},
	{"evening", literal("evening")},
	{"noon", literal("noon")},
	{"midnight", literal("midnight")},
	{"at", func(lower string) (string, bool) {
		m := fallbackAtRe.FindStringSubmatch(lower)
		if m == nil {
			return "", false
		}
		mer := m[2]
		if mer == "" {
			mer = "pm"
		}
		return m[1] + " " + mer, true
	}},
	{"around", aroundFragment},
	{"about", aroundFragment},
}

// fallbackTime scans the raw text for loose time anchors the fragment
// tables missed, stopping at the first one that resolves.
func (p *Parser) fallbackTime(lower string) (string, bool) {
	for _, fr := range fallbackRules {
		if !strings.Contains(lower, fr.keyword) {
			continue
		}
		frag, ok := fr.find(lower)
		if !ok {
			continue
		}
		if t, ok := p.times.Resolve(frag); ok {
			return t, true
		}
	}
	return "", false
}

func meridiemFragment(lower string) (string, bool) {
	m := fallbackMeridiemRe.FindStringSubmatch(lower)
	if m == nil {
		return "", false
	}
	return m[1] + " " + m[2], true
}

func aroundFragment(lower string) (string, bool) {
	m := fallbackAroundRe.FindStringSubmatch(lower)
	if m == nil {
		return "", false
	}
	return m[1] + " pm", true
}

func literal(s string) func(string) (string, bool) {
	return func(string) (string, bool) { return s, true }
}
