package entity

import "time"

// ChatMessageRequest is the API payload for POST /chat/message.
type ChatMessageRequest struct {
	SessionID string   `json:"session_id"`
	UserID    string   `json:"user_id"`
	Groups    []string `json:"groups,omitempty"`
	Message   string   `json:"message"`
	Stream    bool     `json:"stream,omitempty"`
}

// PendingActionDTO is the wire form of a staged action.
type PendingActionDTO struct {
	ActionID  string    `json:"action_id"`
	Type      string    `json:"type"`
	Preview   string    `json:"preview"`
	StagedAt  time.Time `json:"staged_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Status    string    `json:"status"`
}

// RateLimitStatusDTO reports a user's remaining write-action quota.
type RateLimitStatusDTO struct {
	MaxPerHour int  `json:"max_per_hour"`
	Remaining  int  `json:"remaining"`
	Limited    bool `json:"limited"`
}

// ToPendingActionDTO converts a pending action for the API.
func ToPendingActionDTO(a *PendingAction) PendingActionDTO {
	return PendingActionDTO{
		ActionID:  a.ActionID,
		Type:      string(a.Type),
		Preview:   a.Preview,
		StagedAt:  a.StagedAt,
		ExpiresAt: a.ExpiresAt,
		Status:    string(a.Status),
	}
}
