package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Meeting statuses.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ErrInvalidStatus is returned for a status outside the known set.
var ErrInvalidStatus = errors.New("invalid meeting status")

// ValidStatus reports whether status is one of the meeting statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type Meeting struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title,omitempty"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Participants   []string  `json:"participants"`
	Description    string    `json:"description,omitempty"`
	Confidence     float64   `json:"confidence"`
	Status         string    `json:"status"`
	NotificationTS string    `json:"notification_ts,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// MeetingInput holds the fields a caller sets when creating a meeting.
type MeetingInput struct {
	Title        string
	Date         string
	Time         string
	Participants []string
	Description  string
	Confidence   float64
}

const meetingColumns = `id, title, meeting_date, meeting_time, participants, description, confidence, status, notification_ts, created_at`

// CreateMeeting inserts a meeting in the scheduled state and returns it.
func (s *Store) CreateMeeting(ctx context.Context, in MeetingInput) (*Meeting, error) {
	participants := in.Participants
	if participants == nil {
		participants = []string{}
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO meetings (id, title, meeting_date, meeting_time, participants, description, confidence, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+meetingColumns,
		uuid.New(), in.Title, in.Date, in.Time, participants, in.Description, in.Confidence, StatusScheduled,
	)
	m, err := scanMeeting(row)
	if err != nil {
		return nil, fmt.Errorf("insert meeting: %w", err)
	}
	return m, nil
}

func (s *Store) GetMeeting(ctx context.Context, id uuid.UUID) (*Meeting, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)
	m, err := scanMeeting(row)
	if err != nil {
		return nil, fmt.Errorf("get meeting %s: %w", id, err)
	}
	return m, nil
}

// GetMeetingByNotification finds the meeting whose confirmation post has the
// given Slack message timestamp.
func (s *Store) GetMeetingByNotification(ctx context.Context, ts string) (*Meeting, error) {
	if ts == "" {
		return nil, ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE notification_ts = $1`, ts)
	m, err := scanMeeting(row)
	if err != nil {
		return nil, fmt.Errorf("get meeting by notification: %w", err)
	}
	return m, nil
}

// ListMeetings returns all meetings, newest first.
func (s *Store) ListMeetings(ctx context.Context) ([]Meeting, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+meetingColumns+` FROM meetings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	meetings := []Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, *m)
	}
	return meetings, rows.Err()
}

func (s *Store) UpdateMeetingStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE meetings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update meeting status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update meeting %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetMeetingNotification records the Slack timestamp of a meeting's
// confirmation post.
func (s *Store) SetMeetingNotification(ctx context.Context, id uuid.UUID, ts string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE meetings SET notification_ts = $1 WHERE id = $2`, ts, id)
	if err != nil {
		return fmt.Errorf("set meeting notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set notification on %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanMeeting(row pgx.Row) (*Meeting, error) {
	var m Meeting
	err := row.Scan(&m.ID, &m.Title, &m.Date, &m.Time, &m.Participants, &m.Description,
		&m.Confidence, &m.Status, &m.NotificationTS, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
