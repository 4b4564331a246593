package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

type stubActionService struct {
	result       *entity.ConfirmationResult
	pending      []*entity.PendingAction
	err          error
	lastActionID string
}

func (s *stubActionService) Confirm(_ context.Context, sessionID, userID, actionID string) (*entity.ConfirmationResult, error) {
	s.lastActionID = actionID
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubActionService) Cancel(_ context.Context, sessionID, userID, actionID string) (*entity.ConfirmationResult, error) {
	s.lastActionID = actionID
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubActionService) ListPending(sessionID, userID string) []*entity.PendingAction {
	return s.pending
}

type stubLimiterService struct {
	status entity.RateLimitStatusDTO
}

func (s *stubLimiterService) Status(userID string) entity.RateLimitStatusDTO {
	return s.status
}

func newTestRouter(actions ActionService, limiter LimiterService) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(actions, limiter))
	return r
}

func TestConfirmAction(t *testing.T) {
	svc := &stubActionService{
		result: &entity.ConfirmationResult{
			Success:  true,
			RecordID: "INC00000042",
			Message:  "Incident INC00000042 has been created.",
		},
	}
	router := newTestRouter(svc, &stubLimiterService{})

	body := `{"session_id":"s1","user_id":"u1"}`
	req := httptest.NewRequest(http.MethodPost, "/actions/abc123/confirm", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", svc.lastActionID)

	var result entity.ConfirmationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "INC00000042", result.RecordID)
}

func TestCancelAction(t *testing.T) {
	svc := &stubActionService{
		result: &entity.ConfirmationResult{
			Cancelled: true,
			Message:   "Action cancelled.",
		},
	}
	router := newTestRouter(svc, &stubLimiterService{})

	body := `{"session_id":"s1","user_id":"u1"}`
	req := httptest.NewRequest(http.MethodPost, "/actions/abc123/cancel", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result entity.ConfirmationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Cancelled)
}

func TestDecisionRequiresIdentity(t *testing.T) {
	router := newTestRouter(&stubActionService{}, &stubLimiterService{})

	body := `{"session_id":"s1"}`
	req := httptest.NewRequest(http.MethodPost, "/actions/abc123/confirm", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecisionErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", entity.ErrActionNotFound, http.StatusNotFound},
		{"wrong session", entity.ErrWrongSession, http.StatusNotFound},
		{"expired", entity.ErrActionExpired, http.StatusConflict},
		{"already decided", entity.ErrActionTerminal, http.StatusConflict},
		{"rate limited", entity.ErrRateLimited, http.StatusTooManyRequests},
		{"ticketing down", entity.ErrExternalFailure, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubActionService{err: tt.err}, &stubLimiterService{})

			body := `{"session_id":"s1","user_id":"u1"}`
			req := httptest.NewRequest(http.MethodPost, "/actions/abc123/confirm", strings.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestListPending(t *testing.T) {
	now := time.Now()
	svc := &stubActionService{
		pending: []*entity.PendingAction{
			{
				ActionID:  "abc123",
				Type:      entity.ActionIncidentCreate,
				Preview:   "Incident: VPN outage",
				StagedAt:  now,
				ExpiresAt: now.Add(5 * time.Minute),
				Status:    entity.ActionPending,
			},
		},
	}
	router := newTestRouter(svc, &stubLimiterService{})

	req := httptest.NewRequest(http.MethodGet, "/actions/pending?session_id=s1&user_id=u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out []entity.PendingActionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "abc123", out[0].ActionID)
	assert.Equal(t, string(entity.ActionIncidentCreate), out[0].Type)
}

func TestListPendingRequiresIdentity(t *testing.T) {
	router := newTestRouter(&stubActionService{}, &stubLimiterService{})

	req := httptest.NewRequest(http.MethodGet, "/actions/pending?session_id=s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRateLimitStatus(t *testing.T) {
	limiter := &stubLimiterService{
		status: entity.RateLimitStatusDTO{MaxPerHour: 10, Remaining: 3},
	}
	router := newTestRouter(&stubActionService{}, limiter)

	req := httptest.NewRequest(http.MethodGet, "/actions/rate-limit?user_id=u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status entity.RateLimitStatusDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 10, status.MaxPerHour)
	assert.Equal(t, 3, status.Remaining)
	assert.False(t, status.Limited)
}
