package entity

// Intent is the classified purpose of a user message.
type Intent string

const (
	// IntentQuestion - the user wants information or guidance.
	IntentQuestion Intent = "QUESTION"
	// IntentActionIncident - the user wants an incident raised (broken thing).
	IntentActionIncident Intent = "ACTION_INCIDENT"
	// IntentActionWorkOrder - the user wants a work order (new thing/change).
	IntentActionWorkOrder Intent = "ACTION_WORKORDER"
	// IntentServiceRequest - the user wants a catalog service provisioned.
	IntentServiceRequest Intent = "SERVICE_REQUEST"
	// IntentAmbiguous - signals conflict; the assistant asks instead of acting.
	IntentAmbiguous Intent = "AMBIGUOUS"
	// IntentNone - no recognizable intent (empty or filler message).
	IntentNone Intent = "NONE"
)

// Actionable reports whether the intent may lead to a staged write action.
func (i Intent) Actionable() bool {
	return i == IntentActionIncident || i == IntentActionWorkOrder || i == IntentServiceRequest
}

// ConfirmCommand is a parsed `confirm <id>` / `cancel <id>` message.
type ConfirmCommand struct {
	ActionID string
	Cancel   bool
}
