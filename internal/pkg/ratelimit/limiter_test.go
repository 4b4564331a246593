package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(max int) *Limiter {
	return NewLimiter(Config{MaxActionsPerHour: max, MaxTrackedUsers: 100, Window: time.Hour}, zap.NewNop())
}

func TestIsRateLimitedFreshUser(t *testing.T) {
	l := newTestLimiter(3)
	assert.False(t, l.IsRateLimited("u1"))
	assert.Equal(t, 3, l.Remaining("u1"))
}

func TestIsRateLimitedDoesNotConsume(t *testing.T) {
	l := newTestLimiter(3)
	for i := 0; i < 50; i++ {
		l.IsRateLimited("u1")
	}
	assert.Equal(t, 3, l.Remaining("u1"))
}

func TestRecordActionConsumesAllowance(t *testing.T) {
	l := newTestLimiter(3)
	l.RecordAction("u1")
	l.RecordAction("u1")
	assert.False(t, l.IsRateLimited("u1"))
	assert.Equal(t, 1, l.Remaining("u1"))

	l.RecordAction("u1")
	assert.True(t, l.IsRateLimited("u1"))
	assert.Equal(t, 0, l.Remaining("u1"))
}

func TestBlankUserIDFailsClosed(t *testing.T) {
	l := newTestLimiter(3)
	assert.True(t, l.IsRateLimited(""))
	assert.True(t, l.IsRateLimited("   "))
	assert.Equal(t, 0, l.Remaining(""))

	// A blank id never accrues a counter either.
	l.RecordAction("")
	assert.Equal(t, 0, l.Remaining(""))
}

func TestLimitsAreIndependentPerUser(t *testing.T) {
	l := newTestLimiter(1)
	l.RecordAction("u1")
	assert.True(t, l.IsRateLimited("u1"))
	assert.False(t, l.IsRateLimited("u2"))
}

func TestWindowExpiryResetsAllowance(t *testing.T) {
	l := NewLimiter(Config{MaxActionsPerHour: 1, MaxTrackedUsers: 100, Window: 30 * time.Millisecond}, zap.NewNop())
	l.RecordAction("u1")
	require.True(t, l.IsRateLimited("u1"))

	time.Sleep(50 * time.Millisecond)
	assert.False(t, l.IsRateLimited("u1"))
	assert.Equal(t, 1, l.Remaining("u1"))
}

func TestLaterActionsDoNotExtendWindow(t *testing.T) {
	l := NewLimiter(Config{MaxActionsPerHour: 10, MaxTrackedUsers: 100, Window: 60 * time.Millisecond}, zap.NewNop())
	l.RecordAction("u1")
	time.Sleep(30 * time.Millisecond)
	l.RecordAction("u1")
	require.Equal(t, 8, l.Remaining("u1"))

	// The second action must not push the reset past the original window.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 10, l.Remaining("u1"))
}

func TestTrackedUserBoundEvictsOldest(t *testing.T) {
	l := NewLimiter(Config{MaxActionsPerHour: 5, MaxTrackedUsers: 3, Window: time.Hour}, zap.NewNop())
	for i := 0; i < 4; i++ {
		l.RecordAction(fmt.Sprintf("u%d", i))
		time.Sleep(time.Millisecond)
	}
	// u0 had the oldest window and was evicted to admit u3.
	assert.Equal(t, 5, l.Remaining("u0"))
	assert.Equal(t, 4, l.Remaining("u3"))
}

func TestStatus(t *testing.T) {
	l := newTestLimiter(2)
	l.RecordAction("u1")
	st := l.Status("u1")
	assert.Equal(t, 2, st.MaxPerHour)
	assert.Equal(t, 1, st.Remaining)
	assert.False(t, st.Limited)

	l.RecordAction("u1")
	assert.True(t, l.Status("u1").Limited)
}

func TestConcurrentRecordAndCheck(t *testing.T) {
	l := newTestLimiter(1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l.RecordAction("u1")
				l.IsRateLimited("u1")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000-200, l.Remaining("u1"))
}

func TestConcurrentUsersDoNotInterfere(t *testing.T) {
	l := newTestLimiter(100)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("u%d", n)
			for j := 0; j < 10; j++ {
				l.RecordAction(user)
				l.IsRateLimited(user)
			}
		}(i)
	}
	wg.Wait()
	for i := 0; i < 8; i++ {
		assert.Equal(t, 90, l.Remaining(fmt.Sprintf("u%d", i)))
	}
}
