package ratelimit

import (
	"hash/fnv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

type Config struct {
	MaxActionsPerHour int
	MaxTrackedUsers   int
	Window            time.Duration
}

const lockStripes = 64

// Limiter tracks executed actions per user inside a fixed window. Counters
// live in an expiring cache keyed by user id; a counter's TTL starts at the
// user's first recorded action and is not extended by later ones, so the
// whole allowance resets at once.
//
// Counters are stored by value and replaced on every write. Per-user striped
// mutexes serialize the read-modify-write of a single user without stalling
// unrelated users.
type Limiter struct {
	cfg    Config
	cache  *gocache.Cache
	locks  [lockStripes]sync.Mutex
	admit  sync.Mutex
	logger *zap.Logger
}

type counter struct {
	count    int
	windowAt time.Time
}

func NewLimiter(cfg Config, logger *zap.Logger) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	return &Limiter{
		cfg:    cfg,
		cache:  gocache.New(cfg.Window, cfg.Window/2),
		logger: logger,
	}
}

// lockUser locks the stripe owning the user id and returns the unlock.
func (l *Limiter) lockUser(userID string) func() {
	h := fnv.New32a()
	h.Write([]byte(userID))
	stripe := &l.locks[h.Sum32()%lockStripes]
	stripe.Lock()
	return stripe.Unlock
}

// IsRateLimited reports whether the user has exhausted the window allowance.
// It never mutates state, so a rejected or cancelled action costs nothing.
// An empty user id fails closed: unidentified callers get no allowance.
func (l *Limiter) IsRateLimited(userID string) bool {
	if strings.TrimSpace(userID) == "" {
		l.logger.Warn("rate limit check without user id, denying")
		return true
	}
	unlock := l.lockUser(userID)
	defer unlock()
	c, ok := l.get(userID)
	if !ok {
		return false
	}
	return c.count >= l.cfg.MaxActionsPerHour
}

// RecordAction counts one executed action against the user. Call this only
// after the action durably succeeded.
func (l *Limiter) RecordAction(userID string) {
	if strings.TrimSpace(userID) == "" {
		l.logger.Warn("action recorded without user id, dropping")
		return
	}
	unlock := l.lockUser(userID)
	defer unlock()

	if c, ok := l.get(userID); ok {
		c.count++
		remaining := time.Until(c.windowAt.Add(l.cfg.Window))
		if remaining <= 0 {
			remaining = time.Millisecond
		}
		l.cache.Set(userID, c, remaining)
		return
	}
	l.admitUser(userID)
}

// admitUser inserts a fresh counter, evicting the oldest tracked user when
// the bound is hit. A separate mutex serializes admissions only, so two new
// users cannot both slip past the capacity check.
func (l *Limiter) admitUser(userID string) {
	l.admit.Lock()
	defer l.admit.Unlock()

	if l.cfg.MaxTrackedUsers > 0 && l.cache.ItemCount() >= l.cfg.MaxTrackedUsers {
		l.cache.DeleteExpired()
		if l.cache.ItemCount() >= l.cfg.MaxTrackedUsers {
			l.evictOldest()
		}
	}
	l.cache.Set(userID, counter{count: 1, windowAt: time.Now()}, l.cfg.Window)
}

// Remaining returns how many actions the user may still execute this window.
func (l *Limiter) Remaining(userID string) int {
	if strings.TrimSpace(userID) == "" {
		return 0
	}
	unlock := l.lockUser(userID)
	defer unlock()
	c, ok := l.get(userID)
	if !ok {
		return l.cfg.MaxActionsPerHour
	}
	left := l.cfg.MaxActionsPerHour - c.count
	if left < 0 {
		return 0
	}
	return left
}

// Status snapshots the user's allowance for reporting.
func (l *Limiter) Status(userID string) entity.RateLimitStatusDTO {
	remaining := l.Remaining(userID)
	return entity.RateLimitStatusDTO{
		MaxPerHour: l.cfg.MaxActionsPerHour,
		Remaining:  remaining,
		Limited:    remaining == 0,
	}
}

func (l *Limiter) get(userID string) (counter, bool) {
	v, ok := l.cache.Get(userID)
	if !ok {
		return counter{}, false
	}
	return v.(counter), true
}

// evictOldest removes the counter with the oldest window start. Counters are
// immutable values, so scanning the cache items needs no per-user locks.
// Caller holds the admission mutex.
func (l *Limiter) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	for key, item := range l.cache.Items() {
		c, ok := item.Object.(counter)
		if !ok {
			continue
		}
		if oldestKey == "" || c.windowAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = c.windowAt
		}
	}
	if oldestKey != "" {
		l.cache.Delete(oldestKey)
	}
}
