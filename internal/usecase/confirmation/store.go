package confirmation

import (
	"hash/fnv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

const lockStripes = 64

// actionStore holds staged actions in an expiring cache. Cache TTL is a
// backstop only; the confirmation deadline is checked against ExpiresAt so an
// action lingering past its deadline still refuses to execute.
//
// Per-action striped mutexes make the confirm check-then-transition atomic:
// two concurrent confirms of the same id serialize on the same stripe.
type actionStore struct {
	cache      *gocache.Cache
	maxEntries int
	mu         sync.Mutex
	locks      [lockStripes]sync.Mutex
}

func newActionStore(ttl time.Duration, maxEntries int) *actionStore {
	return &actionStore{
		// Entries outlive their deadline by a grace period so late confirm
		// attempts get a precise "expired" answer instead of "not found".
		cache:      gocache.New(ttl*2, ttl),
		maxEntries: maxEntries,
	}
}

// lockAction locks the stripe owning the action id and returns the unlock.
func (s *actionStore) lockAction(actionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(actionID))
	stripe := &s.locks[h.Sum32()%lockStripes]
	stripe.Lock()
	return stripe.Unlock
}

func (s *actionStore) put(action *entity.PendingAction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxEntries > 0 && s.cache.ItemCount() >= s.maxEntries {
		s.cache.DeleteExpired()
		if s.cache.ItemCount() >= s.maxEntries {
			return false
		}
	}
	s.cache.SetDefault(action.ActionID, action)
	return true
}

func (s *actionStore) get(actionID string) (*entity.PendingAction, bool) {
	v, ok := s.cache.Get(actionID)
	if !ok {
		return nil, false
	}
	return v.(*entity.PendingAction), true
}

func (s *actionStore) delete(actionID string) {
	s.cache.Delete(actionID)
}

// snapshot returns value copies of every stored action. Each copy is taken
// under the action's stripe lock so a concurrent confirm or cancel never
// races the read of Status.
func (s *actionStore) snapshot() []entity.PendingAction {
	items := s.cache.Items()
	out := make([]entity.PendingAction, 0, len(items))
	for _, item := range items {
		a, ok := item.Object.(*entity.PendingAction)
		if !ok {
			continue
		}
		unlock := s.lockAction(a.ActionID)
		out = append(out, *a)
		unlock()
	}
	return out
}
