package entity

import (
	"fmt"
	"strings"
)

// IncidentCreationRequest is the validated payload for creating an incident
// in the ticketing system.
type IncidentCreationRequest struct {
	Summary       string `json:"summary"`
	Description   string `json:"description"`
	Impact        string `json:"impact"`
	Urgency       string `json:"urgency"`
	ReportedBy    string `json:"reported_by"`
	AssignedGroup string `json:"assigned_group,omitempty"`
	Category      string `json:"category,omitempty"`
}

// PreviewString renders the request for the confirmation prompt.
func (r *IncidentCreationRequest) PreviewString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary: %s\n", r.Summary)
	fmt.Fprintf(&b, "Description: %s\n", r.Description)
	fmt.Fprintf(&b, "Impact: %s, Urgency: %s\n", r.Impact, r.Urgency)
	fmt.Fprintf(&b, "Reported by: %s", r.ReportedBy)
	if r.Category != "" {
		fmt.Fprintf(&b, "\nCategory: %s", r.Category)
	}
	return b.String()
}

// WorkOrderCreationRequest is the validated payload for creating a work order.
type WorkOrderCreationRequest struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	RequestedBy string `json:"requested_by"`
	ServiceID   string `json:"service_id,omitempty"`
}

// PreviewString renders the request for the confirmation prompt.
func (r *WorkOrderCreationRequest) PreviewString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary: %s\n", r.Summary)
	fmt.Fprintf(&b, "Description: %s\n", r.Description)
	fmt.Fprintf(&b, "Priority: %s\n", r.Priority)
	fmt.Fprintf(&b, "Requested by: %s", r.RequestedBy)
	return b.String()
}

// CreationResult is the structured outcome of a ticketing write call.
type CreationResult struct {
	Success      bool   `json:"success"`
	RecordID     string `json:"record_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// UserMessage renders the result for the end user.
func (r *CreationResult) UserMessage(actionType ActionType) string {
	if r.Success {
		return fmt.Sprintf("Successfully created %s %s.", actionType.Label(), r.RecordID)
	}
	return "The request could not be completed."
}
