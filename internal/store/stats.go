package store

import (
	"context"
	"fmt"
	"time"
)

type Statistics struct {
	TotalMessages      int            `json:"total_messages"`
	TotalUsers         int            `json:"total_users"`
	TotalMeetings      int            `json:"total_meetings"`
	UniqueParticipants int            `json:"unique_participants"`
	LastMessage        *time.Time     `json:"last_message"`
	MeetingsByStatus   map[string]int `json:"meetings_by_status"`
}

// Statistics summarises stored chat and meeting volume.
func (s *Store) Statistics(ctx context.Context) (*Statistics, error) {
	st := Statistics{MeetingsByStatus: map[string]int{}}

	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM messages),
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM meetings),
			(SELECT count(DISTINCT email) FROM messages),
			(SELECT max(created_at) FROM messages)`,
	).Scan(&st.TotalMessages, &st.TotalUsers, &st.TotalMeetings, &st.UniqueParticipants, &st.LastMessage)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT status, count(*) FROM meetings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query meetings by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		st.MeetingsByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return &st, nil
}
