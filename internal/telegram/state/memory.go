package state

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStorage keeps chat sessions in an in-process cache. Mappings expire
// after the configured idle TTL, which starts a fresh session on the next
// message from that chat.
type MemoryStorage struct {
	cache *gocache.Cache
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (s *MemoryStorage) Get(_ context.Context, chatID int64) (*ChatSession, error) {
	v, ok := s.cache.Get(key(chatID))
	if !ok {
		return nil, nil
	}
	return v.(*ChatSession), nil
}

func (s *MemoryStorage) Set(_ context.Context, session *ChatSession) error {
	session.UpdatedAt = time.Now()
	s.cache.SetDefault(key(session.ChatID), session)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, chatID int64) error {
	s.cache.Delete(key(chatID))
	return nil
}

func key(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}
