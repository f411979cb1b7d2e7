// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/bankchat/models"
)

// CreateConversation starts a new conversation holding the welcome message.
func (s *Store) CreateConversation(ctx context.Context, userID string) (models.Conversation, error) {
	now := time.Now().UTC()
	conv := models.Conversation{
		ID:           models.NewID("conv"),
		Name:         models.DefaultConversationName,
		Messages:     []models.Message{models.NewWelcomeMessage(now)},
		CreatedAt:    now,
		LastActivity: now,
		UserID:       userID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversation (id, user_id, name, created_at, last_activity)
		VALUES ($1, $2, $3, $4, $5)
	`, conv.ID, userID, conv.Name, toMicros(now), toMicros(now))
	if err != nil {
		return models.Conversation{}, fmt.Errorf("failed to insert conversation: %w", err)
	}

	if err := insertMessage(ctx, tx, conv.ID, 1, conv.Messages[0]); err != nil {
		return models.Conversation{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Conversation{}, fmt.Errorf("failed to commit conversation: %w", err)
	}

	return conv, nil
}

// ListConversations returns the user's conversations, most recently active
// first. A non-empty search keeps names containing it, case-insensitively.
func (s *Store) ListConversations(ctx context.Context, userID, search string) ([]models.ConversationSummary, error) {
	query := `
		SELECT
			c.id,
			c.name,
			c.created_at,
			c.last_activity,
			(SELECT COUNT(*) FROM message m WHERE m.conversation_id = c.id) AS message_count,
			COALESCE((SELECT m.sender FROM message m WHERE m.conversation_id = c.id ORDER BY m.seq DESC LIMIT 1), ''),
			COALESCE((SELECT m.content FROM message m WHERE m.conversation_id = c.id ORDER BY m.seq DESC LIMIT 1), '{}')
		FROM conversation c
		WHERE c.user_id = $1
		ORDER BY c.last_activity DESC, c.id`

	// Matched in Go: SQL LIKE treats % and _ as wildcards and SQLite's LOWER
	// only folds ASCII.
	needle := strings.ToLower(strings.TrimSpace(search))

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	summaries := []models.ConversationSummary{}
	for rows.Next() {
		var (
			sum                     models.ConversationSummary
			createdAt, lastActivity int64
			lastSender, lastContent string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &createdAt, &lastActivity,
			&sum.MessageCount, &lastSender, &lastContent); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if needle != "" && !strings.Contains(strings.ToLower(sum.Name), needle) {
			continue
		}
		sum.CreatedAt = fromMicros(createdAt)
		sum.LastActivity = fromMicros(lastActivity)

		content, err := decodeContent(lastContent)
		if err != nil {
			return nil, err
		}
		sum.Preview = preview(sum.MessageCount, lastSender, content)

		summaries = append(summaries, sum)
	}

	return summaries, rows.Err()
}

// GetConversation loads a conversation and its ordered messages.
func (s *Store) GetConversation(ctx context.Context, userID, id string) (models.Conversation, error) {
	var (
		conv                    models.Conversation
		createdAt, lastActivity int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at, last_activity
		FROM conversation
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&conv.ID, &conv.UserID, &conv.Name, &createdAt, &lastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrNotFound
	}
	if err != nil {
		return models.Conversation{}, fmt.Errorf("failed to query conversation: %w", err)
	}
	conv.CreatedAt = fromMicros(createdAt)
	conv.LastActivity = fromMicros(lastActivity)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender, content, created_at
		FROM message
		WHERE conversation_id = $1
		ORDER BY seq
	`, id)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	conv.Messages = []models.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return models.Conversation{}, err
		}
		conv.Messages = append(conv.Messages, msg)
	}

	return conv, rows.Err()
}

// GetMessage loads one message of a conversation owned by userID.
func (s *Store) GetMessage(ctx context.Context, userID, conversationID, messageID string) (models.Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT m.id, m.sender, m.content, m.created_at
		FROM message m
		JOIN conversation c ON c.id = m.conversation_id
		WHERE m.id = $1 AND c.id = $2 AND c.user_id = $3
	`, messageID, conversationID, userID)

	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrNotFound
	}
	return msg, err
}

// AppendMessage adds msg to the end of the conversation. The first user
// message replaces the welcome greeting.
func (s *Store) AppendMessage(ctx context.Context, userID, conversationID string, msg models.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM conversation WHERE id = $1 AND user_id = $2
	`, conversationID, userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query conversation: %w", err)
	}

	var count int
	var lastSeq int64
	var firstID string
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(MAX(seq), 0), COALESCE(MIN(id), '')
		FROM message
		WHERE conversation_id = $1
	`, conversationID).Scan(&count, &lastSeq, &firstID)
	if err != nil {
		return fmt.Errorf("failed to query messages: %w", err)
	}

	if msg.Sender == models.SenderUser && count == 1 && strings.HasPrefix(firstID, models.WelcomeIDPrefix) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM message WHERE id = $1`, firstID); err != nil {
			return fmt.Errorf("failed to remove welcome message: %w", err)
		}
	}

	if err := insertMessage(ctx, tx, conversationID, lastSeq+1, msg); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE conversation SET last_activity = $1 WHERE id = $2
	`, toMicros(msg.Timestamp), conversationID)
	if err != nil {
		return fmt.Errorf("failed to update conversation activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}
	return nil
}

// RenameConversation sets a new, trimmed, non-empty name.
func (s *Store) RenameConversation(ctx context.Context, userID, id, name string) (string, error) {
	name, err := normalizeName(name)
	if err != nil {
		return "", err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE conversation SET name = $1, last_activity = $2
		WHERE id = $3 AND user_id = $4
	`, name, toMicros(time.Now().UTC()), id, userID)
	if err != nil {
		return "", fmt.Errorf("failed to rename conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", ErrNotFound
	}
	return name, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *Store) DeleteConversation(ctx context.Context, userID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM conversation WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	// SQLite does not enforce ON DELETE CASCADE unless foreign_keys is on
	if _, err := tx.ExecContext(ctx, `DELETE FROM message WHERE conversation_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (models.Message, error) {
	var (
		msg       models.Message
		raw       string
		createdAt int64
	)
	if err := row.Scan(&msg.ID, &msg.Sender, &raw, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return msg, err
		}
		return msg, fmt.Errorf("failed to scan message: %w", err)
	}
	content, err := decodeContent(raw)
	if err != nil {
		return msg, err
	}
	msg.Content = content
	msg.Timestamp = fromMicros(createdAt)
	return msg, nil
}

func insertMessage(ctx context.Context, tx *sql.Tx, conversationID string, seq int64, msg models.Message) error {
	content, err := encodeContent(msg.Content)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO message (id, conversation_id, seq, sender, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, msg.ID, conversationID, seq, msg.Sender, content, toMicros(msg.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}
