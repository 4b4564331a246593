package state

import (
	"context"
	"time"
)

// ChatSession maps a telegram chat to an assistant session.
type ChatSession struct {
	ChatID    int64     `json:"chat_id"`
	UserID    int64     `json:"user_id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Storage defines the interface for chat session persistence
type Storage interface {
	// Get retrieves the session mapping for a chat
	Get(ctx context.Context, chatID int64) (*ChatSession, error)

	// Set saves the session mapping
	Set(ctx context.Context, session *ChatSession) error

	// Delete removes the session mapping
	Delete(ctx context.Context, chatID int64) error
}
