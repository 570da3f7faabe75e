// Package schedule turns analysed chat history into booked meetings.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/huddle/internal/chat"
	"github.com/MikeSquared-Agency/huddle/internal/hermes"
	"github.com/MikeSquared-Agency/huddle/internal/intent"
	"github.com/MikeSquared-Agency/huddle/internal/metrics"
	"github.com/MikeSquared-Agency/huddle/internal/segment"
	"github.com/MikeSquared-Agency/huddle/internal/store"
)

// DefaultMeetingDate is booked when a thread names no date.
const DefaultMeetingDate = "2025-08-04"

const defaultHistoryLimit = 50

// Meeting sources reported in events and metrics.
const (
	SourceContext = "context"
	SourceHistory = "history"
)

// Result statuses.
const (
	StatusScheduled = "scheduled"
	StatusNeedsInfo = "needs_info"
)

var (
	ErrNoMessages = errors.New("no messages found")
	ErrNoIntent   = errors.New("no meeting intent detected")
)

// Store is the persistence the scheduler needs.
type Store interface {
	SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error)
	ListMessages(ctx context.Context, limit int) ([]chat.Message, error)
	CreateMeeting(ctx context.Context, in store.MeetingInput) (*store.Meeting, error)
	SetMeetingNotification(ctx context.Context, id uuid.UUID, ts string) error
	GetMeetingByNotification(ctx context.Context, ts string) (*store.Meeting, error)
	UpdateMeetingStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Publisher emits events on the bus.
type Publisher interface {
	Publish(subject string, data any) error
}

// Notifier announces meetings to people. It may be nil.
type Notifier interface {
	PostMeetingConfirmation(ctx context.Context, m *store.Meeting) (string, error)
	PostThread(ctx context.Context, threadTS, text string) error
}

type Options struct {
	HistoryLimit      int
	ScheduleOnMessage bool
}

// Result describes one scheduling run.
type Result struct {
	Status       string                `json:"status"`
	Meetings     []store.Meeting       `json:"meetings,omitempty"`
	MeetingCount int                   `json:"meeting_count"`
	Confidence   float64               `json:"confidence"`
	MissingInfo  []string              `json:"missing_info,omitempty"`
	Intent       *intent.MeetingIntent `json:"extracted_data,omitempty"`
	Notified     bool                  `json:"notified"`
}

// NeedsInfo reports whether the run stopped for missing details.
func (r *Result) NeedsInfo() bool { return r.Status == StatusNeedsInfo }

type Scheduler struct {
	store    Store
	parser   *intent.Parser
	events   Publisher
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
	opts     Options

	// mu serialises scheduling runs so concurrent triggers do not book the
	// same history twice.
	mu sync.Mutex
}

func New(s Store, p *intent.Parser, events Publisher, notifier Notifier, m *metrics.Metrics, opts Options, logger *slog.Logger) *Scheduler {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	return &Scheduler{
		store:    s,
		parser:   p,
		events:   events,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		opts:     opts,
	}
}

// Ingest stores a chat message.
func (s *Scheduler) Ingest(ctx context.Context, m chat.Message) (chat.Message, error) {
	saved, err := s.store.SaveMessage(ctx, m)
	if err != nil {
		return chat.Message{}, err
	}
	if s.metrics != nil {
		s.metrics.MessagesIngested.Inc()
	}
	return saved, nil
}

// Schedule analyses the recent chat history and books a meeting for every
// thread that proposes one. When no thread qualifies the whole history is
// analysed as a single proposal.
func (s *Scheduler) Schedule(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, err := s.store.ListMessages(ctx, s.opts.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	if len(msgs) == 0 {
		return nil, ErrNoMessages
	}

	contexts := segment.ExtractAll(msgs)
	if len(contexts) == 0 {
		s.logger.Debug("no meeting contexts, analysing whole history", "messages", len(msgs))
		return s.scheduleFromHistory(ctx, msgs)
	}

	res := &Result{Status: StatusScheduled, Notified: s.notifier != nil}
	var total float64
	for i, c := range contexts {
		in := s.parser.Parse(c.Text())
		s.metrics.ObserveIntent(in.IntentDetected, in.Confidence)

		m, err := s.book(ctx, store.MeetingInput{
			Date:         pick(in.SuggestedDate, DefaultMeetingDate),
			Time:         contextTime(c, in),
			Participants: c.ParticipantEmails,
			Description:  c.PreviewText,
			Confidence:   in.Confidence,
		}, SourceContext)
		if err != nil {
			s.logger.Error("failed to book meeting", "context", i, "error", err)
			continue
		}
		res.Meetings = append(res.Meetings, *m)
		total += in.Confidence
	}

	if len(res.Meetings) == 0 {
		return nil, fmt.Errorf("book meetings: none of %d contexts could be stored", len(contexts))
	}
	res.MeetingCount = len(res.Meetings)
	res.Confidence = total / float64(len(res.Meetings))
	return res, nil
}

// contextTime prefers the first time the thread itself mentioned.
func contextTime(c *segment.MeetingContext, in intent.MeetingIntent) string {
	if len(c.ExtractedTimes) > 0 {
		return c.ExtractedTimes[0]
	}
	return pick(in.SuggestedTime, intent.DefaultMeetingTime)
}

func (s *Scheduler) scheduleFromHistory(ctx context.Context, msgs []chat.Message) (*Result, error) {
	in := AnalyzeHistory(s.parser, msgs)
	s.metrics.ObserveIntent(in.IntentDetected, in.Confidence)

	if !in.IntentDetected {
		return nil, ErrNoIntent
	}

	if len(in.MissingInfo) > 0 {
		if s.metrics != nil {
			s.metrics.NeedsInfo.Inc()
		}
		s.publish(hermes.SubjectMeetingNeedsInfo, hermes.MeetingNeedsInfoEvent{
			MissingInfo:  in.MissingInfo,
			Dates:        in.ExtractedDates,
			Times:        in.ExtractedTimes,
			Participants: in.Participants,
			Confidence:   in.Confidence,
		})
		return &Result{
			Status:      StatusNeedsInfo,
			Confidence:  in.Confidence,
			MissingInfo: in.MissingInfo,
			Intent:      &in,
		}, nil
	}

	m, err := s.book(ctx, store.MeetingInput{
		Date:         in.SuggestedDate,
		Time:         in.SuggestedTime,
		Participants: in.Participants,
		Confidence:   in.Confidence,
	}, SourceHistory)
	if err != nil {
		return nil, err
	}
	return &Result{
		Status:       StatusScheduled,
		Meetings:     []store.Meeting{*m},
		MeetingCount: 1,
		Confidence:   in.Confidence,
		Intent:       &in,
		Notified:     s.notifier != nil,
	}, nil
}

// AnalyzeHistory parses the whole history as one block of text. Every sender
// counts as a participant and missing details are re-derived afterwards.
func AnalyzeHistory(p *intent.Parser, msgs []chat.Message) intent.MeetingIntent {
	in := p.Parse(chat.JoinText(msgs))

	seen := make(map[string]bool)
	participants := []string{}
	for _, name := range append(append([]string{}, in.Participants...), chat.Senders(msgs)...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		participants = append(participants, name)
	}
	in.Participants = participants

	if in.IntentDetected {
		in.MissingInfo = intent.MissingInfo(in.ExtractedDates, in.ExtractedTimes, in.Participants)
	}
	return in
}

// book stores a meeting, then announces it. Announcement failures are logged
// and do not undo the booking.
func (s *Scheduler) book(ctx context.Context, in store.MeetingInput, source string) (*store.Meeting, error) {
	m, err := s.store.CreateMeeting(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	if s.metrics != nil {
		s.metrics.MeetingsScheduled.WithLabelValues(source).Inc()
	}
	s.logger.Info("meeting scheduled",
		"meeting_id", m.ID,
		"date", m.Date,
		"time", m.Time,
		"participants", len(m.Participants),
		"source", source,
	)

	s.publish(hermes.SubjectMeetingScheduled, hermes.MeetingScheduledEvent{
		MeetingID:    m.ID.String(),
		Date:         m.Date,
		Time:         m.Time,
		Participants: m.Participants,
		Confidence:   m.Confidence,
		Source:       source,
	})

	if s.notifier != nil {
		ts, err := s.notifier.PostMeetingConfirmation(ctx, m)
		if err != nil {
			s.logger.Error("failed to post meeting to slack", "meeting_id", m.ID, "error", err)
			return m, nil
		}
		if err := s.store.SetMeetingNotification(ctx, m.ID, ts); err != nil {
			s.logger.Error("failed to record slack ts", "meeting_id", m.ID, "error", err)
			return m, nil
		}
		m.NotificationTS = ts
	}
	return m, nil
}

func (s *Scheduler) publish(subject string, evt any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(subject, evt); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func pick(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
