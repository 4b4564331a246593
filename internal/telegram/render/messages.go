package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

const welcome = `Welcome to the IT service desk assistant.

Ask me about IT issues and I will search the knowledge base for you. If something is broken I can raise an incident, and for requests like access or equipment I can raise a work order. Ticket creation always asks for your confirmation first.

Commands:
/new - start a fresh conversation
/pending - show actions waiting for confirmation
/help - show this message`

// Welcome renders the /start and /help reply.
func Welcome() string {
	return welcome
}

// Reply renders a chat result for telegram. Sources are appended as a
// numbered list when the answer cited any.
func Reply(result *entity.ChatResult) string {
	var b strings.Builder
	b.WriteString(result.Reply)

	if len(result.Sources) > 0 {
		b.WriteString("\n\nSources:\n")
		for i, src := range result.Sources {
			fmt.Fprintf(&b, "%d. %s\n", i+1, src)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// PendingList renders the /pending reply.
func PendingList(actions []entity.PendingActionDTO) string {
	if len(actions) == 0 {
		return "No actions are waiting for confirmation."
	}

	var b strings.Builder
	b.WriteString("Actions waiting for confirmation:\n\n")
	for _, a := range actions {
		fmt.Fprintf(&b, "• %s [%s]\n  %s\n  expires %s\n",
			a.ActionID, a.Type, a.Preview, a.ExpiresAt.Format(time.Kitchen))
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewSession renders the /new reply.
func NewSession() string {
	return "Started a new conversation. Previous context has been cleared."
}
