package confirmation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/config"
	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

type stubTicketing struct {
	mu         sync.Mutex
	incidents  int
	workOrders int
	fail       bool
	failErr    error
}

func (s *stubTicketing) CreateIncident(_ context.Context, _ *entity.IncidentCreationRequest) (*entity.CreationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	if s.fail {
		return &entity.CreationResult{Success: false, ErrorMessage: "backend rejected"}, nil
	}
	s.incidents++
	return &entity.CreationResult{Success: true, RecordID: "INC00000001"}, nil
}

func (s *stubTicketing) CreateWorkOrder(_ context.Context, _ *entity.WorkOrderCreationRequest) (*entity.CreationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workOrders++
	return &entity.CreationResult{Success: true, RecordID: "WO00000001"}, nil
}

type stubAudit struct {
	mu          sync.Mutex
	staged      []string
	transitions map[string][]string
}

func newStubAudit() *stubAudit {
	return &stubAudit{transitions: map[string][]string{}}
}

func (s *stubAudit) RecordStaged(_ context.Context, action *entity.PendingAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, action.ActionID)
	return nil
}

func (s *stubAudit) RecordTransition(_ context.Context, actionID, status, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitions[actionID] = append(s.transitions[actionID], status)
	return nil
}

type stubLimiter struct {
	mu       sync.Mutex
	limited  bool
	recorded int
}

func (s *stubLimiter) IsRateLimited(string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limited
}

func (s *stubLimiter) RecordAction(string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded++
}

func testConfig() config.AgenticConfig {
	return config.AgenticConfig{
		Enabled:             true,
		ConfirmationTimeout: 5 * time.Minute,
		MaxActionsPerHour:   10,
		MaxPendingActions:   100,
	}
}

func incidentReq() *entity.IncidentCreationRequest {
	return &entity.IncidentCreationRequest{
		Summary:     "VPN gateway unreachable",
		Description: "All sessions drop after the certificate rollover.",
		Impact:      "2-Significant",
		Urgency:     "2-High",
		ReportedBy:  "u1",
	}
}

func testUser() entity.UserContext {
	return entity.UserContext{UserID: "u1", Groups: []string{"Service Desk"}}
}

func newTestUsecase(t *testing.T) (*ConfirmationUsecase, *stubTicketing, *stubAudit, *stubLimiter) {
	t.Helper()
	ticketing := &stubTicketing{}
	audit := newStubAudit()
	limiter := &stubLimiter{}
	uc := NewUsecase(testConfig(), ticketing, audit, limiter, zap.NewNop())
	return uc, ticketing, audit, limiter
}

func TestStageIncident(t *testing.T) {
	uc, _, audit, _ := newTestUsecase(t)

	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)
	assert.Len(t, action.ActionID, 8)
	assert.Equal(t, entity.ActionPending, action.Status)
	assert.Contains(t, action.ConfirmationPrompt(), "confirm "+action.ActionID)
	assert.Contains(t, audit.staged, action.ActionID)
}

func TestStageRejectedWhenRateLimited(t *testing.T) {
	uc, _, _, limiter := newTestUsecase(t)
	limiter.limited = true

	_, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	assert.ErrorIs(t, err, entity.ErrRateLimited)
}

func TestStageRejectedWhenAgenticDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	uc := NewUsecase(cfg, &stubTicketing{}, newStubAudit(), &stubLimiter{}, zap.NewNop())

	_, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	assert.ErrorIs(t, err, entity.ErrPolicyRejected)
}

func TestConfirmExecutesAndCountsAction(t *testing.T) {
	uc, ticketing, audit, limiter := newTestUsecase(t)
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	res, err := uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "INC00000001", res.RecordID)
	assert.Equal(t, 1, ticketing.incidents)
	assert.Equal(t, 1, limiter.recorded)
	assert.Equal(t, []string{entity.AuditConfirmed, entity.AuditExecuted}, audit.transitions[action.ActionID])
}

func TestConfirmRejectedWhenRateLimited(t *testing.T) {
	uc, ticketing, _, limiter := newTestUsecase(t)
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	// Staged before the limit hit; the quota still applies at execution.
	limiter.limited = true
	_, err = uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	assert.ErrorIs(t, err, entity.ErrRateLimited)
	assert.Equal(t, 0, ticketing.incidents)
	assert.Equal(t, 0, limiter.recorded)

	// The action survives so it can be confirmed after the window resets.
	limiter.limited = false
	res, err := uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestConfirmUnknownAction(t *testing.T) {
	uc, _, _, _ := newTestUsecase(t)
	_, err := uc.Confirm(context.Background(), "s1", "u1", "deadbeef")
	assert.ErrorIs(t, err, entity.ErrActionNotFound)
}

func TestConfirmFromDifferentSessionRejected(t *testing.T) {
	uc, ticketing, _, limiter := newTestUsecase(t)
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), "s2", "u1", action.ActionID)
	assert.ErrorIs(t, err, entity.ErrWrongSession)

	_, err = uc.Confirm(context.Background(), "s1", "u2", action.ActionID)
	assert.ErrorIs(t, err, entity.ErrWrongSession)

	assert.Equal(t, 0, ticketing.incidents)
	assert.Equal(t, 0, limiter.recorded)
}

func TestConfirmExpiredAction(t *testing.T) {
	uc, ticketing, audit, _ := newTestUsecase(t)
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	uc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	_, err = uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	assert.ErrorIs(t, err, entity.ErrActionExpired)
	assert.Equal(t, 0, ticketing.incidents)
	assert.Equal(t, []string{entity.AuditExpired}, audit.transitions[action.ActionID])
}

func TestConfirmTwiceExecutesOnce(t *testing.T) {
	uc, ticketing, _, limiter := newTestUsecase(t)
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	assert.ErrorIs(t, err, entity.ErrActionNotFound)
	assert.Equal(t, 1, ticketing.incidents)
	assert.Equal(t, 1, limiter.recorded)
}

func TestConcurrentConfirmsExecuteExactlyOnce(t *testing.T) {
	uc, ticketing, _, limiter := newTestUsecase(t)
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	var wg sync.WaitGroup
	successes := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
			successes <- err == nil && res.Success
		}()
	}
	wg.Wait()
	close(successes)

	won := 0
	for ok := range successes {
		if ok {
			won++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, ticketing.incidents)
	assert.Equal(t, 1, limiter.recorded)
}

func TestConfirmExecutionFailureDoesNotCount(t *testing.T) {
	uc, ticketing, audit, limiter := newTestUsecase(t)
	ticketing.fail = true
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	res, err := uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 0, limiter.recorded)
	assert.Contains(t, audit.transitions[action.ActionID], entity.AuditFailed)
}

func TestConfirmTransportFailureDoesNotCount(t *testing.T) {
	uc, ticketing, _, limiter := newTestUsecase(t)
	ticketing.failErr = errors.New("connection refused")
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	assert.Error(t, err)
	assert.Equal(t, 0, limiter.recorded)
}

func TestCancel(t *testing.T) {
	uc, ticketing, audit, limiter := newTestUsecase(t)
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	res, err := uc.Cancel(context.Background(), "s1", "u1", action.ActionID)
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Equal(t, 0, ticketing.incidents)
	assert.Equal(t, 0, limiter.recorded)
	assert.Equal(t, []string{entity.AuditCancelled}, audit.transitions[action.ActionID])

	_, err = uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	assert.ErrorIs(t, err, entity.ErrActionNotFound)
}

func TestListPending(t *testing.T) {
	uc, _, _, _ := newTestUsecase(t)
	a1, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)
	_, err = uc.StageIncident(context.Background(), entity.UserContext{UserID: "u2"}, "s2", incidentReq())
	require.NoError(t, err)

	pending := uc.ListPending("s1", "u1")
	require.Len(t, pending, 1)
	assert.Equal(t, a1.ActionID, pending[0].ActionID)
}

func TestListPendingReturnsCopies(t *testing.T) {
	uc, _, _, _ := newTestUsecase(t)
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	pending := uc.ListPending("s1", "u1")
	require.Len(t, pending, 1)
	pending[0].Status = entity.ActionCancelled

	// Mutating the listed copy must not touch the stored action.
	res, err := uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestListPendingDuringConcurrentConfirms(t *testing.T) {
	uc, _, _, _ := newTestUsecase(t)
	var ids []string
	for i := 0; i < 8; i++ {
		action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
		require.NoError(t, err)
		ids = append(ids, action.ActionID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(actionID string) {
			defer wg.Done()
			uc.Confirm(context.Background(), "s1", "u1", actionID)
		}(id)
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uc.ListPending("s1", "u1")
		}()
	}
	wg.Wait()
	assert.Empty(t, uc.ListPending("s1", "u1"))
}

func TestSweepExpired(t *testing.T) {
	uc, _, audit, _ := newTestUsecase(t)
	action, err := uc.StageIncident(context.Background(), testUser(), "s1", incidentReq())
	require.NoError(t, err)

	uc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	swept := uc.SweepExpired(context.Background())
	assert.Equal(t, 1, swept)
	assert.Equal(t, []string{entity.AuditExpired}, audit.transitions[action.ActionID])
	assert.Empty(t, uc.ListPending("s1", "u1"))

	_, err = uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	assert.ErrorIs(t, err, entity.ErrActionNotFound)
}

func TestStageWorkOrderAndConfirm(t *testing.T) {
	uc, ticketing, _, _ := newTestUsecase(t)
	action, err := uc.StageWorkOrder(context.Background(), testUser(), "s1", &entity.WorkOrderCreationRequest{
		Summary:     "Provision a loaner laptop",
		Description: "Loaner needed while INC00000042 is being worked.",
		Priority:    "Medium",
		RequestedBy: "u1",
	})
	require.NoError(t, err)

	res, err := uc.Confirm(context.Background(), "s1", "u1", action.ActionID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "WO00000001", res.RecordID)
	assert.Equal(t, 1, ticketing.workOrders)
}
