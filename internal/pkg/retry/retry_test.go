package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "github.com/servicedesk-ai/assistant-backend/pkg/http"
)

func fastConfig() RetryConfig {
	return RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDoRetriesNetworkErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return &pkghttp.NetworkError{Err: errors.New("connection reset")}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return &pkghttp.HTTPError{StatusCode: 400, Message: "bad request"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesServerErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return &pkghttp.HTTPError{StatusCode: 503, Message: "unavailable"}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(context.Canceled))
	assert.False(t, Retryable(&pkghttp.HTTPError{StatusCode: 404}))
	assert.True(t, Retryable(&pkghttp.HTTPError{StatusCode: 500}))
	assert.True(t, Retryable(&pkghttp.NetworkError{Err: errors.New("timeout")}))
	assert.False(t, Retryable(errors.New("plain error")))
}
