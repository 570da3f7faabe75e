package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/MikeSquared-Agency/huddle/internal/chat"
	"github.com/MikeSquared-Agency/huddle/internal/textscan"
	"github.com/MikeSquared-Agency/huddle/internal/timeexpr"
)

const previewLimit = 200

// MeetingContext is a group enriched with the scheduling signals found in it.
// ExtractedDates holds the raw date tokens ("tomorrow", "next week"); they
// are resolved to calendar dates later.
type MeetingContext struct {
	ParticipantEmails []string       `json:"participant_emails"`
	SourceMessages    []chat.Message `json:"source_messages"`
	ExtractedTimes    []string       `json:"extracted_times"`
	ExtractedDates    []string       `json:"extracted_dates"`
	PreviewText       string         `json:"preview_text"`
	MessageCount      int            `json:"message_count"`
}

// Text returns the group's messages joined into one block.
func (c *MeetingContext) Text() string {
	return chat.JoinText(c.SourceMessages)
}

var contextTimeTable = textscan.MustCompile(
	`\b\d{1,2}:\d{2}\s*(?:am|pm)\b`,
	`\b\d{1,2}\s*(?:am|pm)\b`,
	`\bat\s+\d{1,2}\b`,
	`\baround\s+\d{1,2}\b`,
	`\b\d{1,2}\s*o'?clock\b`,
)

var dateTokens = []string{"tomorrow", "today", "friday", "monday", "next week"}

var (
	intentKeywords = []string{
		"meeting", "schedule", "call", "discussion", "standup",
		"review", "available", "time", "when",
	}
	timeMentions = []string{
		"at", "around", "about", "am", "pm", "morning", "afternoon", "evening",
	}
)

var times = timeexpr.New()

// Extract summarises g. It reports false when the group has no senders or
// carries neither a scheduling keyword nor a time mention.
func Extract(g Group) (*MeetingContext, bool) {
	participants := chat.Senders(g.Messages)
	if len(participants) == 0 {
		return nil, false
	}

	text := chat.JoinText(g.Messages)
	lower := strings.ToLower(text)
	if !hasAny(lower, intentKeywords) && !hasAny(lower, timeMentions) {
		return nil, false
	}

	ctx := &MeetingContext{
		ParticipantEmails: participants,
		SourceMessages:    g.Messages,
		ExtractedTimes:    []string{},
		ExtractedDates:    []string{},
		PreviewText:       preview(text),
		MessageCount:      len(g.Messages),
	}
	for _, m := range contextTimeTable.FindAll(lower) {
		if t, ok := times.Resolve(m.Text); ok {
			ctx.ExtractedTimes = append(ctx.ExtractedTimes, t)
		}
	}
	for _, tok := range dateTokens {
		if strings.Contains(lower, tok) {
			ctx.ExtractedDates = append(ctx.ExtractedDates, tok)
		}
	}
	return ctx, true
}

// ExtractAll segments msgs and keeps the groups that yield a context.
func ExtractAll(msgs []chat.Message) []*MeetingContext {
	var out []*MeetingContext
	for _, g := range Segment(msgs) {
		if ctx, ok := Extract(g); ok {
			out = append(out, ctx)
		}
	}
	return out
}

func preview(text string) string {
	if len(text) <= previewLimit {
		return text
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
