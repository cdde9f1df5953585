package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Callback data prefixes. Payload-carrying actions append numeric IDs,
// parsed back by the helpers below.
const (
	cbTakeTask     = "take_task_"
	cbPrevTask     = "prev_task"
	cbNextTask     = "next_task"
	cbAddMoreProof = "add_more_screenshots"
	cbProofsDone   = "screenshots_done"

	cbVerifyTask = "verify_task_"
	cbRejectTask = "reject_task_"

	cbApprovePayment = "approve_payment_"
	cbRejectPayment  = "reject_payment_"

	cbConfirmDelete = "confirm_delete_task_"
	cbFinalDelete   = "final_delete_task_"
	cbCancelDelete  = "cancel_delete"

	cbToggleBan   = "toggle_ban_"
	cbUserDetails = "user_details_"
	cbBackToUsers = "back_to_users_list"

	cbConfirmBroadcast = "confirm_broadcast"
	cbCancelBroadcast  = "cancel_broadcast"
)

func parseID(data, prefix string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("callback %q: %w", data, err)
	}
	return id, nil
}

// parseUserTask decodes the "<prefix><userID>_<taskID>" moderation payload.
func parseUserTask(data, prefix string) (userID, taskID int64, err error) {
	rest := strings.TrimPrefix(data, prefix)
	left, right, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, 0, fmt.Errorf("callback %q: missing separator", data)
	}
	if userID, err = strconv.ParseInt(left, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("callback %q: %w", data, err)
	}
	if taskID, err = strconv.ParseInt(right, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("callback %q: %w", data, err)
	}
	return userID, taskID, nil
}

func answer(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cb.ID,
	})
}

func alert(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cb.ID,
		Text:            text,
		ShowAlert:       true,
	})
}

// callbackChat returns the chat and message the callback button lives on.
func callbackChat(cb *models.CallbackQuery) (chatID int64, messageID int) {
	if msg := cb.Message.Message; msg != nil {
		return msg.Chat.ID, msg.ID
	}
	return 0, 0
}

// editCallbackMessage rewrites the message carrying the pressed button,
// handling both text messages and photo captions.
func editCallbackMessage(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery, text string) {
	chatID, messageID := callbackChat(cb)
	if chatID == 0 {
		return
	}
	msg := cb.Message.Message
	if msg != nil && len(msg.Photo) > 0 {
		b.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
			ChatID:    chatID,
			MessageID: messageID,
			Caption:   text,
		})
		return
	}
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
}
