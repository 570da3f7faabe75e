package slack

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/huddle/internal/store"
)

// ReactionEvent is the structure received from slack-forwarder via NATS.
type ReactionEvent struct {
	Reaction  string `json:"reaction"`
	UserID    string `json:"user_id"`
	Channel   string `json:"channel"`
	MessageTS string `json:"message_ts"`
}

// StatusForReaction maps a reaction on a meeting post to the meeting status
// it requests.
func StatusForReaction(reaction string) (string, bool) {
	switch reaction {
	case "+1", "thumbsup":
		return store.StatusConfirmed, true
	case "-1", "thumbsdown":
		return store.StatusCancelled, true
	case "white_check_mark", "heavy_check_mark":
		return store.StatusCompleted, true
	default:
		return "", false
	}
}

// ParseReactionEvent parses a NATS payload from slack-forwarder. The
// forwarder wraps fields in a metadata map; a flat event is accepted too.
func ParseReactionEvent(data []byte) (*ReactionEvent, error) {
	var wrapper struct {
		Metadata map[string]string `json:"metadata"`
		ReactionEvent
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse reaction wrapper: %w", err)
	}

	evt := wrapper.ReactionEvent
	if len(wrapper.Metadata) > 0 {
		evt = ReactionEvent{
			Reaction:  wrapper.Metadata["text"],
			UserID:    wrapper.Metadata["user_id"],
			Channel:   wrapper.Metadata["channel_id"],
			MessageTS: wrapper.Metadata["message_ts"],
		}
	}

	evt.Reaction = strings.Trim(evt.Reaction, ":")
	return &evt, nil
}
