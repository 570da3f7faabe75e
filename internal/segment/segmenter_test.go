package segment

import (
	"testing"
	"time"

	"github.com/MikeSquared-Agency/huddle/internal/chat"
)

var base = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func msg(email, text string, offset time.Duration) chat.Message {
	return chat.Message{
		SenderName:  email,
		SenderEmail: email,
		Text:        text,
		Timestamp:   base.Add(offset),
	}
}

func TestSegment_Empty(t *testing.T) {
	if got := Segment(nil); got != nil {
		t.Errorf("expected nil for nil input, got %v", got)
	}
	if got := Segment([]chat.Message{}); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestSegment_Singleton(t *testing.T) {
	groups := Segment([]chat.Message{msg("a@x.com", "hi", 0)})

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Messages) != 1 {
		t.Errorf("expected 1 message, got %d", len(groups[0].Messages))
	}
	if len(groups[0].ParticipantEmails) != 1 || groups[0].ParticipantEmails[0] != "a@x.com" {
		t.Errorf("participants = %v", groups[0].ParticipantEmails)
	}
}

func TestSegment_PartitionsSortedInput(t *testing.T) {
	input := []chat.Message{
		msg("b@x.com", "sure, works for me", 3*time.Minute),
		msg("a@x.com", "meeting at 3?", 0),
		msg("a@x.com", "ok great", 4*time.Minute),
		msg("b@x.com", "yes", 2*time.Minute),
		msg("c@x.com", "lunch?", 40*time.Minute),
	}

	groups := Segment(input)

	var flat []chat.Message
	for _, g := range groups {
		if len(g.Messages) == 0 {
			t.Fatal("empty group")
		}
		flat = append(flat, g.Messages...)
	}
	if len(flat) != len(input) {
		t.Fatalf("expected %d messages across groups, got %d", len(input), len(flat))
	}
	for i := 1; i < len(flat); i++ {
		if flat[i].Timestamp.Before(flat[i-1].Timestamp) {
			t.Errorf("message %d out of order: %v before %v", i, flat[i].Timestamp, flat[i-1].Timestamp)
		}
	}

	// Input slice is left untouched.
	if input[0].SenderEmail != "b@x.com" || input[1].Text != "meeting at 3?" {
		t.Error("input slice was reordered")
	}
}

func TestSegment_NewParticipantSplits(t *testing.T) {
	groups := Segment([]chat.Message{
		msg("a@x.com", "meeting at 3?", 0),
		msg("b@x.com", "sure, meeting works", time.Minute),
	})

	if len(groups) != 2 {
		t.Fatalf("expected a new sender to start a new group, got %d groups", len(groups))
	}
}

func TestSegment_TimeGap(t *testing.T) {
	far := Segment([]chat.Message{
		msg("a@x.com", "meeting at 3?", 0),
		msg("a@x.com", "ok", 20*time.Minute),
	})
	if len(far) != 2 {
		t.Errorf("20 minutes apart: expected 2 groups, got %d", len(far))
	}

	near := Segment([]chat.Message{
		msg("a@x.com", "meeting at 3?", 0),
		msg("a@x.com", "ok", 10*time.Minute),
	})
	if len(near) != 1 {
		t.Errorf("10 minutes apart with continuity: expected 1 group, got %d", len(near))
	}
}

func TestSegment_GapMeasuredFromEarliest(t *testing.T) {
	groups := Segment([]chat.Message{
		msg("a@x.com", "meeting?", 0),
		msg("a@x.com", "meeting at 3?", 10*time.Minute),
		msg("a@x.com", "meeting at 4?", 20*time.Minute),
	})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if len(groups[0].Messages) != 2 {
		t.Errorf("group 0: expected 2 messages, got %d", len(groups[0].Messages))
	}
}

func TestSegment_NoContinuitySplits(t *testing.T) {
	groups := Segment([]chat.Message{
		msg("a@x.com", "hello", 0),
		msg("a@x.com", "got it", 2*time.Minute),
	})

	if len(groups) != 2 {
		t.Errorf("expected 2 groups without a continuity keyword, got %d", len(groups))
	}
}

func TestSegment_ZeroTimestampsSkipGapCheck(t *testing.T) {
	groups := Segment([]chat.Message{
		{SenderEmail: "a@x.com", Text: "meeting?"},
		{SenderEmail: "a@x.com", Text: "ok"},
	})

	if len(groups) != 1 {
		t.Errorf("expected 1 group, got %d", len(groups))
	}
}

func TestSegmentWithin_CustomWindow(t *testing.T) {
	msgs := []chat.Message{
		msg("a@x.com", "meeting?", 0),
		msg("a@x.com", "ok", 20*time.Minute),
	}

	if got := SegmentWithin(msgs, 30*time.Minute); len(got) != 1 {
		t.Errorf("30 minute window: expected 1 group, got %d", len(got))
	}
}
