package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/validation"
)

const systemPrompt = "You are an IT service desk assistant. Answer using only the numbered " +
	"sources provided in the context block and cite them by number. If the context does not " +
	"cover the question, say so and suggest opening an incident. Never invent ticket numbers " +
	"or resolution steps."

const noKnowledgeReply = "I could not find anything relevant in the knowledge base for that. " +
	"You can rephrase the question, or I can open an incident so the service desk picks it up."

const ambiguousOffer = "\n\nIf you want me to open an incident for this, just say so and " +
	"describe what is affected."

// answerQuestion runs the informational flow: retrieval, then a grounded
// model answer over the visible sources.
func (uc *ChatUsecase) answerQuestion(ctx context.Context, user entity.UserContext, sessionID, message string, detected entity.Intent, onDelta func(delta string) error) (*entity.ChatResult, error) {
	retrieved, err := uc.retrieval.Retrieve(ctx, user, message)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	if retrieved.IsEmpty() {
		reply := noKnowledgeReply
		result := &entity.ChatResult{Reply: reply, Intent: detected}
		return result, uc.emit(reply, onDelta)
	}

	llmReq := &entity.LLMChatRequest{
		Messages:    uc.buildPrompt(ctx, sessionID, retrieved.Context, message),
		Temperature: 0.3,
	}

	var reply string
	if onDelta != nil {
		reply, err = uc.llm.ChatStream(ctx, llmReq, onDelta)
	} else {
		var resp *entity.LLMChatResponse
		resp, err = uc.llm.Chat(ctx, llmReq)
		if resp != nil {
			reply = resp.Content
		}
	}
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	if detected == entity.IntentAmbiguous {
		reply += ambiguousOffer
		if err := uc.emit(ambiguousOffer, onDelta); err != nil {
			return nil, err
		}
	}

	return &entity.ChatResult{
		Reply:   reply,
		Intent:  detected,
		Sources: retrieved.SourceReferences(),
	}, nil
}

// buildPrompt assembles system prompt, recent history, retrieved context and
// the current message.
func (uc *ChatUsecase) buildPrompt(ctx context.Context, sessionID, contextBlock, message string) []entity.LLMMessage {
	msgs := []entity.LLMMessage{{Role: entity.RoleSystem, Content: systemPrompt}}

	history, err := uc.messages.GetSessionMessages(ctx, sessionID, historyLimit)
	if err == nil {
		for _, h := range history {
			// The current user turn is already persisted and is appended
			// below together with the context block.
			if h.Role == entity.RoleUser && h.Content == message {
				continue
			}
			msgs = append(msgs, entity.LLMMessage{Role: h.Role, Content: h.Content})
		}
	}

	msgs = append(msgs, entity.LLMMessage{
		Role:    entity.RoleUser,
		Content: fmt.Sprintf("Context:\n\n%s\n\nQuestion: %s", contextBlock, message),
	})
	return msgs
}

// maxDraftSummaryWords bounds the summary derived from a free-text message.
const maxDraftSummaryWords = 12

// draftSummary condenses a message into a ticket summary.
func draftSummary(message string) string {
	sanitized := validation.Sanitize(message)
	words := strings.Fields(sanitized)
	if len(words) > maxDraftSummaryWords {
		words = words[:maxDraftSummaryWords]
	}
	return strings.Join(words, " ")
}

func (uc *ChatUsecase) stageIncidentFromMessage(ctx context.Context, user entity.UserContext, sessionID, message string, onDelta func(delta string) error) (*entity.ChatResult, error) {
	summary := uc.validator.ValidateSummary(ctx, draftSummary(message))
	if !summary.Valid {
		return uc.clarificationReply(entity.IntentActionIncident, summary, onDelta)
	}
	description := uc.validator.ValidateDescription(ctx, message)
	if !description.Valid {
		return uc.clarificationReply(entity.IntentActionIncident, description, onDelta)
	}

	action, err := uc.confirmation.StageIncident(ctx, user, sessionID, &entity.IncidentCreationRequest{
		Summary:     summary.SanitizedText,
		Description: description.SanitizedText,
		Impact:      "3-Moderate",
		Urgency:     "3-Medium",
		ReportedBy:  user.UserID,
	})
	if err != nil {
		return nil, err
	}

	return uc.stagedReply(entity.IntentActionIncident, action, onDelta)
}

func (uc *ChatUsecase) stageWorkOrderFromMessage(ctx context.Context, user entity.UserContext, sessionID, message string, onDelta func(delta string) error) (*entity.ChatResult, error) {
	summary := uc.validator.ValidateSummary(ctx, draftSummary(message))
	if !summary.Valid {
		return uc.clarificationReply(entity.IntentActionWorkOrder, summary, onDelta)
	}
	description := uc.validator.ValidateDescription(ctx, message)
	if !description.Valid {
		return uc.clarificationReply(entity.IntentActionWorkOrder, description, onDelta)
	}

	action, err := uc.confirmation.StageWorkOrder(ctx, user, sessionID, &entity.WorkOrderCreationRequest{
		Summary:     summary.SanitizedText,
		Description: description.SanitizedText,
		Priority:    "Medium",
		RequestedBy: user.UserID,
	})
	if err != nil {
		return nil, err
	}

	return uc.stagedReply(entity.IntentActionWorkOrder, action, onDelta)
}

func (uc *ChatUsecase) stagedReply(detected entity.Intent, action *entity.PendingAction, onDelta func(delta string) error) (*entity.ChatResult, error) {
	reply := action.ConfirmationPrompt()
	result := &entity.ChatResult{
		Reply:    reply,
		Intent:   detected,
		ActionID: action.ActionID,
	}
	return result, uc.emit(reply, onDelta)
}

// clarificationReply asks the user to firm up a draft that failed validation
// instead of erroring out the turn.
func (uc *ChatUsecase) clarificationReply(detected entity.Intent, outcome entity.ValidationOutcome, onDelta func(delta string) error) (*entity.ChatResult, error) {
	var b strings.Builder
	b.WriteString("Before I can stage that ticket I need a bit more detail:\n")
	for _, e := range outcome.Errors {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	b.WriteString("\nPlease describe the affected system and what exactly is failing.")

	reply := b.String()
	result := &entity.ChatResult{Reply: reply, Intent: detected}
	return result, uc.emit(reply, onDelta)
}
