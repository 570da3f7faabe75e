package hermes

import (
	"encoding/json"
	"fmt"
	"time"
)

// Subjects huddle consumes and produces.
const (
	SubjectChatMessage      = "swarm.chat.message.created"
	SubjectSlackReaction    = "swarm.slack.reaction"
	SubjectMeetingScheduled = "swarm.huddle.meeting.scheduled"
	SubjectMeetingNeedsInfo = "swarm.huddle.meeting.needs_info"
	SubjectRegistered       = "swarm.huddle.registered"
)

// ChatMessageEvent is a chat line published by the chat frontend.
type ChatMessageEvent struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ParseChatMessage decodes a chat event and checks the required fields.
func ParseChatMessage(data []byte) (*ChatMessageEvent, error) {
	var evt ChatMessageEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("parse chat message: %w", err)
	}
	if evt.Email == "" || evt.Message == "" {
		return nil, fmt.Errorf("chat message missing email or message")
	}
	if evt.Name == "" {
		evt.Name = evt.Email
	}
	return &evt, nil
}

// MeetingScheduledEvent announces a meeting created from chat.
type MeetingScheduledEvent struct {
	MeetingID    string   `json:"meeting_id"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Participants []string `json:"participants"`
	Confidence   float64  `json:"confidence"`
	Source       string   `json:"source"`
}

// MeetingNeedsInfoEvent asks the chat for the details still missing before a
// meeting can be booked.
type MeetingNeedsInfoEvent struct {
	MissingInfo  []string `json:"missing_info"`
	Dates        []string `json:"dates"`
	Times        []string `json:"times"`
	Participants []string `json:"participants"`
	Confidence   float64  `json:"confidence"`
}
