// Package segment splits a chat history into independent conversation
// threads and summarises the scheduling signals of each thread.
package segment

import (
	"sort"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/huddle/internal/chat"
)

// RelatedWindow bounds how far a message may sit from the start of a group
// and still belong to it.
const RelatedWindow = 15 * time.Minute

// continuityKeywords signal that a message carries on an existing thread.
var continuityKeywords = []string{
	"meeting", "schedule", "available", "time", "when",
	"how about", "works for me", "ok", "sure", "yes", "no",
}

// Group is a contiguous run of messages judged to belong to one thread.
type Group struct {
	Messages          []chat.Message `json:"messages"`
	ParticipantEmails []string       `json:"participant_emails"`
}

// Segment partitions msgs into groups using RelatedWindow. The input slice is
// not modified.
func Segment(msgs []chat.Message) []Group {
	return SegmentWithin(msgs, RelatedWindow)
}

// SegmentWithin is Segment with an explicit relatedness window.
func SegmentWithin(msgs []chat.Message, window time.Duration) []Group {
	if len(msgs) == 0 {
		return nil
	}

	sorted := make([]chat.Message, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var groups []Group
	var current builder

	for _, msg := range sorted {
		if current.empty() || current.related(msg, window) {
			current.add(msg)
			continue
		}
		groups = append(groups, current.build())
		current = builder{}
		current.add(msg)
	}

	// Flush remaining.
	groups = append(groups, current.build())
	return groups
}

type builder struct {
	msgs     []chat.Message
	senders  map[string]bool
	earliest time.Time
	text     strings.Builder
}

func (b *builder) empty() bool { return len(b.msgs) == 0 }

func (b *builder) add(msg chat.Message) {
	if b.senders == nil {
		b.senders = make(map[string]bool)
	}
	b.msgs = append(b.msgs, msg)
	b.senders[msg.SenderEmail] = true
	if !msg.Timestamp.IsZero() && (b.earliest.IsZero() || msg.Timestamp.Before(b.earliest)) {
		b.earliest = msg.Timestamp
	}
	if b.text.Len() > 0 {
		b.text.WriteByte(' ')
	}
	b.text.WriteString(strings.ToLower(msg.Text))
}

// related applies the three thread checks in order: distance from the
// group's earliest timestamp, sender already in the group, then a continuity
// keyword in either the message or the group. Missing timestamps skip the
// distance check.
func (b *builder) related(msg chat.Message, window time.Duration) bool {
	if !msg.Timestamp.IsZero() && !b.earliest.IsZero() {
		gap := msg.Timestamp.Sub(b.earliest)
		if gap < 0 {
			gap = -gap
		}
		if gap > window {
			return false
		}
	}

	if !b.senders[msg.SenderEmail] {
		return false
	}

	return hasAny(strings.ToLower(msg.Text), continuityKeywords) ||
		hasAny(b.text.String(), continuityKeywords)
}

func (b *builder) build() Group {
	g := Group{Messages: make([]chat.Message, len(b.msgs))}
	copy(g.Messages, b.msgs)
	g.ParticipantEmails = chat.Senders(g.Messages)
	return g
}

func hasAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
