package chat

import (
	"strings"
	"time"
)

// Message is a single chat line from one participant.
type Message struct {
	ID          string    `json:"id,omitempty"`
	SenderName  string    `json:"name"`
	SenderEmail string    `json:"email"`
	Text        string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// JoinText concatenates message texts with single spaces, in slice order.
func JoinText(msgs []Message) string {
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = m.Text
	}
	return strings.Join(parts, " ")
}

// Senders returns the distinct sender emails in first-seen order.
func Senders(msgs []Message) []string {
	seen := make(map[string]bool, len(msgs))
	var out []string
	for _, m := range msgs {
		if seen[m.SenderEmail] {
			continue
		}
		seen[m.SenderEmail] = true
		out = append(out, m.SenderEmail)
	}
	return out
}
