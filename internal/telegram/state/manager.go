package state

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Manager resolves the assistant session for a telegram chat.
type Manager struct {
	storage Storage
}

func NewManager(storage Storage) *Manager {
	return &Manager{storage: storage}
}

// GetOrCreate returns the chat's session, creating one on first contact.
func (m *Manager) GetOrCreate(ctx context.Context, chatID, userID int64) (*ChatSession, error) {
	session, err := m.storage.Get(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat session: %w", err)
	}
	if session != nil {
		return session, nil
	}

	session = &ChatSession{
		ChatID:    chatID,
		UserID:    userID,
		SessionID: uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if err := m.storage.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("save chat session: %w", err)
	}
	return session, nil
}

// Reset discards the chat's current session and starts a new one.
func (m *Manager) Reset(ctx context.Context, chatID, userID int64) (*ChatSession, error) {
	if err := m.storage.Delete(ctx, chatID); err != nil {
		return nil, fmt.Errorf("delete chat session: %w", err)
	}
	return m.GetOrCreate(ctx, chatID, userID)
}
