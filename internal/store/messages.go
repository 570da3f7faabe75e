package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/huddle/internal/chat"
)

// SaveMessage stores a chat message and upserts its sender into users. A zero
// timestamp is replaced by the current time. The stored message is returned.
func (s *Store) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return chat.Message{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO messages (id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, m.SenderName, m.SenderEmail, m.Text, m.Timestamp,
	)
	if err != nil {
		return chat.Message{}, fmt.Errorf("insert message: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING`,
		uuid.New(), m.SenderName, m.SenderEmail,
	)
	if err != nil {
		return chat.Message{}, fmt.Errorf("upsert sender: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return chat.Message{}, fmt.Errorf("commit: %w", err)
	}

	m.ID = id.String()
	return m, nil
}

// ListMessages returns the newest limit messages in chronological order.
func (s *Store) ListMessages(ctx context.Context, limit int) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, message, created_at FROM (
			SELECT id, name, email, message, created_at
			FROM messages ORDER BY created_at DESC LIMIT $1
		) recent ORDER BY created_at ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	return collectMessages(rows)
}

// ListMessagesByUser returns every message sent by email, oldest first.
func (s *Store) ListMessagesByUser(ctx context.Context, email string) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, message, created_at
		FROM messages WHERE email = $1 ORDER BY created_at ASC`, email)
	if err != nil {
		return nil, fmt.Errorf("query messages by user: %w", err)
	}
	return collectMessages(rows)
}

func collectMessages(rows pgx.Rows) ([]chat.Message, error) {
	defer rows.Close()

	msgs := []chat.Message{}
	for rows.Next() {
		var (
			id uuid.UUID
			m  chat.Message
		)
		if err := rows.Scan(&id, &m.SenderName, &m.SenderEmail, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ID = id.String()
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}
