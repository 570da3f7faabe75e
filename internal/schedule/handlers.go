package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/MikeSquared-Agency/huddle/internal/chat"
	"github.com/MikeSquared-Agency/huddle/internal/hermes"
	"github.com/MikeSquared-Agency/huddle/internal/intent"
	"github.com/MikeSquared-Agency/huddle/internal/slack"
	"github.com/MikeSquared-Agency/huddle/internal/store"
)

// HandleChatMessage is the NATS handler for swarm.chat.message.created.
func (s *Scheduler) HandleChatMessage(subject string, data []byte) {
	ctx := context.Background()

	evt, err := hermes.ParseChatMessage(data)
	if err != nil {
		s.logger.Error("failed to parse chat message", "subject", subject, "error", err)
		return
	}

	saved, err := s.Ingest(ctx, chat.Message{
		SenderName:  evt.Name,
		SenderEmail: evt.Email,
		Text:        evt.Message,
		Timestamp:   evt.Timestamp,
	})
	if err != nil {
		s.logger.Error("failed to store chat message", "email", evt.Email, "error", err)
		return
	}
	s.logger.Debug("chat message stored", "id", saved.ID, "email", saved.SenderEmail)

	if !s.opts.ScheduleOnMessage || !intent.HasIntent(evt.Message) {
		return
	}

	res, err := s.Schedule(ctx)
	switch {
	case errors.Is(err, ErrNoIntent), errors.Is(err, ErrNoMessages):
		s.logger.Debug("nothing to schedule", "reason", err)
	case err != nil:
		s.logger.Error("scheduling failed", "error", err)
	default:
		s.logger.Info("scheduling run finished", "status", res.Status, "meetings", res.MeetingCount)
	}
}

// HandleReaction is the NATS handler for swarm.slack.reaction. Reactions on
// a meeting confirmation post change the meeting's status.
func (s *Scheduler) HandleReaction(subject string, data []byte) {
	ctx := context.Background()

	evt, err := slack.ParseReactionEvent(data)
	if err != nil {
		s.logger.Error("failed to parse reaction", "error", err)
		return
	}

	status, ok := slack.StatusForReaction(evt.Reaction)
	if !ok {
		return // not a meeting reaction
	}

	m, err := s.store.GetMeetingByNotification(ctx, evt.MessageTS)
	if errors.Is(err, store.ErrNotFound) {
		return // not a message we posted
	}
	if err != nil {
		s.logger.Error("failed to look up meeting", "message_ts", evt.MessageTS, "error", err)
		return
	}
	if m.Status == status {
		return
	}

	if err := s.store.UpdateMeetingStatus(ctx, m.ID, status); err != nil {
		s.logger.Error("failed to update meeting status", "meeting_id", m.ID, "error", err)
		return
	}
	if s.metrics != nil {
		s.metrics.StatusChanges.WithLabelValues(status).Inc()
	}
	s.logger.Info("meeting status changed from slack",
		"meeting_id", m.ID,
		"status", status,
		"user_id", evt.UserID,
	)

	if s.notifier != nil {
		text := fmt.Sprintf("Meeting %s by <@%s>", status, evt.UserID)
		if err := s.notifier.PostThread(ctx, evt.MessageTS, text); err != nil {
			s.logger.Warn("failed to post status reply", "meeting_id", m.ID, "error", err)
		}
	}
}
