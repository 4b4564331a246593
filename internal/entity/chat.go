package entity

import "time"

// ChatMessage is a persisted conversation turn.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatResult is what the chat usecase returns for one processed message.
type ChatResult struct {
	SessionID string   `json:"session_id"`
	Reply     string   `json:"reply"`
	Intent    Intent   `json:"intent"`
	Sources   []string `json:"sources,omitempty"`
	// ActionID is set when a write action was staged by this message.
	ActionID string `json:"action_id,omitempty"`
	// RecordID is set when a confirmed action created a ticketing record.
	RecordID string `json:"record_id,omitempty"`
}

// ActionAudit is the persisted trail of a staged action's lifecycle.
type ActionAudit struct {
	ID        int64      `json:"id"`
	ActionID  string     `json:"action_id"`
	SessionID string     `json:"session_id"`
	UserID    string     `json:"user_id"`
	Type      ActionType `json:"type"`
	Status    string     `json:"status"`
	Preview   string     `json:"preview"`
	RecordID  string     `json:"record_id,omitempty"`
	Detail    string     `json:"detail,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Audit status values. Staged actions move through the same transitions as
// the in-memory state machine, plus the execution outcomes.
const (
	AuditStaged    = "STAGED"
	AuditConfirmed = "CONFIRMED"
	AuditCancelled = "CANCELLED"
	AuditExpired   = "EXPIRED"
	AuditExecuted  = "EXECUTED"
	AuditFailed    = "FAILED"
)
