package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActionType enumerates the write operations the assistant can stage.
type ActionType string

const (
	ActionIncidentCreate  ActionType = "INCIDENT_CREATE"
	ActionWorkOrderCreate ActionType = "WORK_ORDER_CREATE"
	ActionIncidentUpdate  ActionType = "INCIDENT_UPDATE"
)

// Label returns the human-readable form used in previews.
func (t ActionType) Label() string {
	switch t {
	case ActionIncidentCreate:
		return "Incident"
	case ActionWorkOrderCreate:
		return "Work Order"
	case ActionIncidentUpdate:
		return "Incident Update"
	default:
		return string(t)
	}
}

// ActionStatus is the lifecycle state of a staged action.
type ActionStatus string

const (
	ActionPending   ActionStatus = "PENDING"
	ActionConfirmed ActionStatus = "CONFIRMED"
	ActionCancelled ActionStatus = "CANCELLED"
	ActionExpired   ActionStatus = "EXPIRED"
)

// Terminal reports whether the status can never change again.
func (s ActionStatus) Terminal() bool {
	return s == ActionConfirmed || s == ActionCancelled || s == ActionExpired
}

// PendingAction is a write operation staged for explicit user confirmation.
// It is created by staging and mutated only by confirm, cancel or expiry.
type PendingAction struct {
	ActionID       string                    `json:"action_id"`
	Type           ActionType                `json:"type"`
	OwnerSessionID string                    `json:"owner_session_id"`
	OwnerUserID    string                    `json:"owner_user_id"`
	Preview        string                    `json:"preview"`
	Incident       *IncidentCreationRequest  `json:"incident,omitempty"`
	WorkOrder      *WorkOrderCreationRequest `json:"work_order,omitempty"`
	StagedAt       time.Time                 `json:"staged_at"`
	ExpiresAt      time.Time                 `json:"expires_at"`
	Status         ActionStatus              `json:"status"`
}

// NewActionID returns an 8-character alphanumeric action identifier.
func NewActionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// IsExpired reports whether the TTL elapsed, regardless of recorded status.
func (a *PendingAction) IsExpired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}

// BelongsTo reports whether the action was staged in the given session by the
// given user.
func (a *PendingAction) BelongsTo(sessionID, userID string) bool {
	return a.OwnerSessionID != "" && a.OwnerSessionID == sessionID &&
		a.OwnerUserID != "" && a.OwnerUserID == userID
}

// ConfirmationPrompt renders the message shown to the user after staging.
func (a *PendingAction) ConfirmationPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "I'll create this %s:\n\n%s\n\n", a.Type.Label(), a.Preview)
	fmt.Fprintf(&b, "To confirm, reply: `confirm %s`\n", a.ActionID)
	fmt.Fprintf(&b, "To cancel, reply: `cancel %s`\n", a.ActionID)
	fmt.Fprintf(&b, "\nThis action expires at %s.", a.ExpiresAt.Format(time.RFC3339))
	return b.String()
}

// ConfirmationResult is the outcome of a confirm or cancel operation.
type ConfirmationResult struct {
	Success   bool   `json:"success"`
	Cancelled bool   `json:"cancelled"`
	RecordID  string `json:"record_id,omitempty"`
	Message   string `json:"message"`
}
