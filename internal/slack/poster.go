package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"github.com/MikeSquared-Agency/huddle/internal/store"
)

const reactionHint = "React: :+1: confirm | :-1: cancel | :white_check_mark: done"

// Poster sends meeting notifications to a Slack channel.
type Poster struct {
	api     *slack.Client
	channel string
	logger  *slog.Logger
}

// NewPoster builds a poster for channel. Extra options are passed to the
// Slack client (tests use slack.OptionAPIURL).
func NewPoster(token, channel string, logger *slog.Logger, opts ...slack.Option) *Poster {
	return &Poster{
		api:     slack.New(token, opts...),
		channel: channel,
		logger:  logger,
	}
}

// PostMeetingConfirmation announces a scheduled meeting. The returned message
// timestamp identifies the post in later reaction events.
func (p *Poster) PostMeetingConfirmation(ctx context.Context, m *store.Meeting) (string, error) {
	text := formatMeetingMessage(m)

	_, ts, err := p.api.PostMessageContext(ctx, p.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
			slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, reactionHint, false, false)),
		),
	)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}

	p.logger.Info("posted meeting to slack", "ts", ts, "meeting_id", m.ID)
	return ts, nil
}

// PostThread posts a threaded reply to a message.
func (p *Poster) PostThread(ctx context.Context, threadTS, text string) error {
	_, _, err := p.api.PostMessageContext(ctx, p.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		return fmt.Errorf("slack thread reply: %w", err)
	}
	return nil
}

func formatMeetingMessage(m *store.Meeting) string {
	var sb strings.Builder

	title := m.Title
	if title == "" {
		title = "Meeting"
	}
	fmt.Fprintf(&sb, "*%s scheduled*\n", title)
	fmt.Fprintf(&sb, "*When:* %s at %s\n", m.Date, m.Time)
	if len(m.Participants) > 0 {
		fmt.Fprintf(&sb, "*Who:* %s\n", strings.Join(m.Participants, ", "))
	} else {
		sb.WriteString("*Who:* _no participants detected_\n")
	}
	if m.Description != "" {
		fmt.Fprintf(&sb, "> %s\n", m.Description)
	}
	fmt.Fprintf(&sb, "Confidence: %.2f", m.Confidence)

	return sb.String()
}
