package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// ExportTranscript renders a session's conversation in the requested format.
func (uc *ChatUsecase) ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat) (*entity.TranscriptExport, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id", entity.ErrMissingField)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}

	messages, err := uc.messages.GetSessionMessages(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, sessionID)
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}

	data, err := f.Format(renderTranscript(messages))
	if err != nil {
		return nil, fmt.Errorf("format transcript: %w", err)
	}

	return &entity.TranscriptExport{
		Data:        data,
		ContentType: f.ContentType(),
		Filename:    fmt.Sprintf("transcript-%s%s", sessionID, f.FileExtension()),
	}, nil
}

func renderTranscript(messages []*entity.ChatMessage) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		role := "User"
		if m.Role == entity.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "[%s] %s:\n%s", m.CreatedAt.Format(time.RFC3339), role, m.Content)
	}
	return b.String()
}

// PendingActions lists the caller's live staged actions in a session.
func (uc *ChatUsecase) PendingActions(sessionID, userID string) []entity.PendingActionDTO {
	actions := uc.confirmation.ListPending(sessionID, userID)
	out := make([]entity.PendingActionDTO, 0, len(actions))
	for _, a := range actions {
		out = append(out, entity.ToPendingActionDTO(a))
	}
	return out
}
