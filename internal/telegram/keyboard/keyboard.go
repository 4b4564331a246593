package keyboard

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes for staged action buttons.
const (
	ConfirmPrefix = "confirm:"
	CancelPrefix  = "cancel:"
)

// Confirmation builds the inline keyboard attached to a staged action
// preview. Button callbacks carry the action id.
func Confirmation(actionID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", ConfirmPrefix+actionID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", CancelPrefix+actionID),
		),
	)
}

// ParseDecision extracts the decision and action id from callback data.
// Returns ok=false for callback data the bot does not recognize.
func ParseDecision(data string) (confirm bool, actionID string, ok bool) {
	switch {
	case strings.HasPrefix(data, ConfirmPrefix):
		return true, strings.TrimPrefix(data, ConfirmPrefix), true
	case strings.HasPrefix(data, CancelPrefix):
		return false, strings.TrimPrefix(data, CancelPrefix), true
	default:
		return false, "", false
	}
}

// DecisionCommand renders the chat command equivalent of a button press.
func DecisionCommand(confirm bool, actionID string) string {
	if confirm {
		return fmt.Sprintf("confirm %s", actionID)
	}
	return fmt.Sprintf("cancel %s", actionID)
}
