package handlers

import (
	"errors"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// userFacingError maps assistant errors to messages safe to show in chat.
// Internal details stay in the logs.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, entity.ErrInjectionDetected):
		return "I can't process that message. Please rephrase your request."
	case errors.Is(err, entity.ErrQueryTooLong):
		return "That message is too long. Please shorten it and try again."
	case errors.Is(err, entity.ErrRateLimited):
		return "You have reached the hourly limit for creating tickets. Please try again later."
	case errors.Is(err, entity.ErrActionNotFound), errors.Is(err, entity.ErrWrongSession):
		return "I couldn't find that action. It may have already been handled."
	case errors.Is(err, entity.ErrActionExpired):
		return "That action has expired. Please describe your issue again if you still need a ticket."
	case errors.Is(err, entity.ErrActionTerminal):
		return "That action has already been confirmed or cancelled."
	case errors.Is(err, entity.ErrStreamTimeout), errors.Is(err, entity.ErrExternalFailure):
		return "The service desk is temporarily unavailable. Please try again in a moment."
	default:
		return "Something went wrong. Please try again."
	}
}
