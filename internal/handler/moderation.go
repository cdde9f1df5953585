package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/domain"
	tg "github.com/perchik2875/ONI/internal/telegram"
)

// handleCompletionQueue lists submissions awaiting moderation, each with its
// proof album and a verdict keyboard.
func (h *Handler) handleCompletionQueue(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.isAdminUpdate(update) {
		return
	}
	chatID := update.Message.Chat.ID

	pending, err := h.submissions.ListPending(ctx)
	if err != nil {
		slog.Error("list pending completions", "error", err)
		return
	}
	if len(pending) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📭 Нет заявок на выполнение заданий.",
		})
		return
	}

	for _, p := range pending {
		caption := fmt.Sprintf(
			"🆔 ID заявки: %d\n"+
				"📌 Задание #%d: %s\n"+
				"👤 Пользователь: @%s (ID: %d)\n"+
				"📅 Дата выполнения: %s",
			p.ID, p.TaskID, truncate(p.TaskDescription, 50),
			p.Username, p.UserTelegramID,
			p.SubmittedAt.Format("2006-01-02 15:04"),
		)
		markup := tg.InlineKeyboard(
			tg.ButtonRow(
				tg.InlineButton("✅ Подтвердить", fmt.Sprintf("%s%d_%d", cbVerifyTask, p.UserID, p.TaskID)),
				tg.InlineButton("❌ Отклонить", fmt.Sprintf("%s%d_%d", cbRejectTask, p.UserID, p.TaskID)),
			),
		)
		if err := tg.SendProofAlbum(ctx, b, chatID, p.Proofs, caption, markup); err != nil {
			slog.Error("send pending completion", "completion_id", p.ID, "error", err)
		}
	}
}

func (h *Handler) handleVerifyTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	userID, taskID, err := parseUserTask(cb.Data, cbVerifyTask)
	if err != nil {
		answer(ctx, b, cb)
		return
	}

	res, err := h.submissions.Approve(ctx, userID, taskID)
	switch {
	case errors.Is(err, domain.ErrCompletionNotFound):
		alert(ctx, b, cb, "❌ Заявка не найдена")
		return
	case errors.Is(err, domain.ErrAlreadyVerified):
		alert(ctx, b, cb, "❌ Заявка уже обработана")
		return
	case err != nil:
		slog.Error("approve completion", "user_id", userID, "task_id", taskID, "error", err)
		alert(ctx, b, cb, "❌ Произошла ошибка")
		return
	}

	tg.Notify(ctx, b, res.UserTelegramID, fmt.Sprintf(
		"✅ Ваше задание #%d проверено!\n💰 Вам начислено %s RUB.",
		res.TaskID, res.Reward.StringFixed(2)))

	if res.Referral != nil {
		tg.Notify(ctx, b, res.Referral.ReferrerTelegramID, fmt.Sprintf(
			"💎 Ваш реферал заработал %s RUB!\n💰 Ваш бонус: %s RUB (%s)",
			res.Referral.Earned.StringFixed(2),
			res.Referral.Bonus.StringFixed(2),
			res.Referral.Description))
	}

	editCallbackMessage(ctx, b, cb, fmt.Sprintf(
		"✅ Задание #%d подтверждено!\n👤 Пользователь: ID %d\n💰 Сумма: %s RUB",
		res.TaskID, userID, res.Reward.StringFixed(2)))
	answer(ctx, b, cb)
}

func (h *Handler) handleRejectTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	userID, taskID, err := parseUserTask(cb.Data, cbRejectTask)
	if err != nil {
		answer(ctx, b, cb)
		return
	}

	res, err := h.submissions.Reject(ctx, userID, taskID)
	switch {
	case errors.Is(err, domain.ErrCompletionNotFound):
		alert(ctx, b, cb, "❌ Заявка не найдена")
		return
	case errors.Is(err, domain.ErrAlreadyVerified):
		alert(ctx, b, cb, "❌ Заявка уже обработана")
		return
	case err != nil:
		slog.Error("reject completion", "user_id", userID, "task_id", taskID, "error", err)
		alert(ctx, b, cb, "❌ Произошла ошибка")
		return
	}

	tg.Notify(ctx, b, res.UserTelegramID, fmt.Sprintf(
		"❌ Ваше выполнение задания #%d отклонено!\nПричина: скриншоты не соответствуют требованиям",
		res.TaskID))

	editCallbackMessage(ctx, b, cb, fmt.Sprintf(
		"❌ Задание #%d отклонено!\n👤 Пользователь: ID %d",
		res.TaskID, userID))
	answer(ctx, b, cb)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
