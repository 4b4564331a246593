package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// ChatMessageRepository defines the interface for conversation persistence
type ChatMessageRepository interface {
	CreateMessage(ctx context.Context, sessionID, role, content string) (*entity.ChatMessage, error)
	GetSessionMessages(ctx context.Context, sessionID string, limit int) ([]*entity.ChatMessage, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ ChatMessageRepository = &ChatMessagePostgres{}

// ChatMessagePostgres implements ChatMessageRepository using PostgreSQL
type ChatMessagePostgres struct {
	db *pgxpool.Pool
}

func NewChatMessagePostgres(db *pgxpool.Pool) *ChatMessagePostgres {
	return &ChatMessagePostgres{db: db}
}

func (r *ChatMessagePostgres) CreateMessage(
	ctx context.Context,
	sessionID string,
	role string,
	content string,
) (*entity.ChatMessage, error) {
	msg := &entity.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		msg.ID, msg.SessionID, msg.Role, msg.Content,
	).Scan(&msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create chat message: %w", err)
	}

	return msg, nil
}

// GetSessionMessages returns the newest messages of a session in
// chronological order. limit <= 0 means no limit.
func (r *ChatMessagePostgres) GetSessionMessages(
	ctx context.Context,
	sessionID string,
	limit int,
) ([]*entity.ChatMessage, error) {
	query := `SELECT id, session_id, role, content, created_at
		 FROM (
			SELECT id, session_id, role, content, created_at
			FROM chat_messages
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		 ) recent
		 ORDER BY created_at ASC`

	var rows pgx.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(ctx, query, sessionID, limit)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, session_id, role, content, created_at
			 FROM chat_messages
			 WHERE session_id = $1
			 ORDER BY created_at ASC`,
			sessionID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("get session messages: %w", err)
	}
	defer rows.Close()

	var messages []*entity.ChatMessage
	for rows.Next() {
		var m entity.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}

	return messages, nil
}

// PurgeOlderThan deletes messages created before the cutoff and returns the
// number of rows removed. Run periodically by the retention daemon.
func (r *ChatMessagePostgres) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM chat_messages WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("purge chat messages: %w", err)
	}
	return tag.RowsAffected(), nil
}
