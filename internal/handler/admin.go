package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/config"
	tg "github.com/perchik2875/ONI/internal/telegram"
)

// isAdminUpdate reports whether the update comes from the operator. Admin
// handlers bail out early for everyone else.
func (h *Handler) isAdminUpdate(update *models.Update) bool {
	if update.Message != nil && update.Message.From != nil {
		return h.cfg.IsAdmin(update.Message.From.ID)
	}
	if update.CallbackQuery != nil {
		return h.cfg.IsAdmin(update.CallbackQuery.From.ID)
	}
	return false
}

func (h *Handler) handleAdminPanel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.isAdminUpdate(update) {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "🔐 Админ-панель",
		ReplyMarkup: adminMenu(),
	})
}

func (h *Handler) handleMainMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleBack(ctx, b, update)
}

func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.isAdminUpdate(update) {
		return
	}

	stats, err := h.users.Stats(ctx)
	if err != nil {
		slog.Error("load stats", "error", err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: fmt.Sprintf(
			"📊 Статистика бота:\n\n"+
				"👥 Пользователей: %d (🔴 %d забанено)\n"+
				"📌 Активных заданий: %d\n"+
				"✅ Выполнено заданий: %d\n"+
				"💰 Общий баланс: %s RUB\n"+
				"💎 Заработано с рефералов: %s RUB\n"+
				"💸 Выплачено: %s RUB\n"+
				"⏳ На выплате: %s RUB",
			stats.Users, stats.Banned, stats.ActiveTasks, stats.Completions,
			stats.TotalBalance.StringFixed(2),
			stats.ReferralEarnings.StringFixed(2),
			stats.PaidOut.StringFixed(2),
			stats.PendingPayout.StringFixed(2),
		),
	})
}

func (h *Handler) handleUserList(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.isAdminUpdate(update) {
		return
	}
	h.sendUserList(ctx, b, update.Message.Chat.ID)
}

func (h *Handler) sendUserList(ctx context.Context, b *bot.Bot, chatID int64) {
	users, err := h.users.List(ctx, config.UsersPageLimit)
	if err != nil {
		slog.Error("list users", "error", err)
		return
	}
	if len(users) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📭 Нет пользователей в базе.",
		})
		return
	}

	for _, u := range users {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: fmt.Sprintf(
				"🆔 ID: %d\n"+
					"👤 Ник: @%s\n"+
					"💰 Баланс: %s RUB\n"+
					"👥 Рефералов: %d\n"+
					"💎 Заработано с рефералов: %s RUB\n"+
					"Статус: %s",
				u.TelegramID, displayName(u.Username),
				u.Balance.StringFixed(2), u.ReferralCount,
				u.EarnedFromReferrals.StringFixed(2), banStatus(u.Banned),
			),
			ReplyMarkup: tg.InlineKeyboard(
				tg.ButtonRow(
					tg.InlineButton(banAction(u.Banned), fmt.Sprintf("%s%d", cbToggleBan, u.ID)),
					tg.InlineButton("👀 Подробнее", fmt.Sprintf("%s%d", cbUserDetails, u.ID)),
				),
			),
		})
	}
}

func (h *Handler) handleToggleBan(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	userID, err := parseID(cb.Data, cbToggleBan)
	if err != nil {
		answer(ctx, b, cb)
		return
	}

	user, err := h.users.ToggleBan(ctx, userID)
	if err != nil {
		slog.Error("toggle ban", "user_id", userID, "error", err)
		alert(ctx, b, cb, "❌ Пользователь не найден")
		return
	}

	action, emoji := "разбанен", "✅"
	if user.Banned {
		action, emoji = "забанен", "⛔"
	}

	chatID, messageID := callbackChat(cb)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text: fmt.Sprintf("%s Пользователь @%s (ID: %d) %s!\n\nНовый статус: %s",
			emoji, displayName(user.Username), user.TelegramID, action, banStatus(user.Banned)),
		ReplyMarkup: tg.InlineKeyboard(
			tg.ButtonRow(tg.InlineButton("🔙 Назад к списку", cbBackToUsers)),
		),
	})

	if user.Banned {
		tg.Notify(ctx, b, user.TelegramID,
			"⛔ Ваш аккаунт был заблокирован администратором.\n\n"+
				"Вы больше не можете выполнять задания или выводить средства.")
	} else {
		tg.Notify(ctx, b, user.TelegramID,
			"✅ Вы разбанены администратором!\nДля использования бота нажмите /start")
	}

	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cb.ID,
		Text:            fmt.Sprintf("Пользователь %s", action),
	})
}

func (h *Handler) handleUserDetails(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	userID, err := parseID(cb.Data, cbUserDetails)
	if err != nil {
		answer(ctx, b, cb)
		return
	}

	overview, err := h.users.Overview(ctx, userID)
	if err != nil {
		slog.Error("load user overview", "user_id", userID, "error", err)
		alert(ctx, b, cb, "❌ Пользователь не найден")
		return
	}

	earnings, err := h.users.RecentReferralEarnings(ctx, userID, config.RecentReferralEarnings)
	if err != nil {
		slog.Error("load referral earnings", "user_id", userID, "error", err)
	}

	refInfo := "Нет рефералов"
	if len(earnings) > 0 {
		var lines []string
		for _, e := range earnings {
			lines = append(lines, fmt.Sprintf("• @%s (%s RUB, %s)",
				displayName(e.ReferralUsername), e.Amount.StringFixed(2),
				e.EarnedAt.Format("2006-01-02 15:04")))
		}
		refInfo = strings.Join(lines, "\n")
	}

	chatID, messageID := callbackChat(cb)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text: fmt.Sprintf(
			"📊 Подробная информация о пользователе:\n\n"+
				"🆔 ID: %d\n"+
				"👤 Ник: @%s\n"+
				"💰 Баланс: %s RUB\n"+
				"💵 Всего заработано: %s RUB\n"+
				"👥 Рефералов: %d\n"+
				"💎 Заработано с рефералов: %s RUB\n"+
				"✅ Выполнено заданий: %d\n"+
				"💸 Выводов средств: %d\n"+
				"📅 Дата регистрации: %s\n"+
				"Статус: %s\n\n"+
				"Последние рефералы:\n%s",
			overview.TelegramID, displayName(overview.Username),
			overview.Balance.StringFixed(2), overview.Earned.StringFixed(2),
			overview.ReferralCount, overview.EarnedFromReferrals.StringFixed(2),
			overview.CompletedTasks, overview.Payments,
			overview.RegisteredAt.Format("2006-01-02 15:04"),
			banStatus(overview.Banned), refInfo,
		),
		ReplyMarkup: tg.InlineKeyboard(
			tg.ButtonRow(
				tg.InlineButton(banAction(overview.Banned), fmt.Sprintf("%s%d", cbToggleBan, overview.ID)),
				tg.InlineButton("🔙 Назад", cbBackToUsers),
			),
		),
	})
	answer(ctx, b, cb)
}

func (h *Handler) handleBackToUsers(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	answer(ctx, b, cb)

	chatID, messageID := callbackChat(cb)
	if chatID == 0 {
		return
	}
	b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID})
	h.sendUserList(ctx, b, chatID)
}

func displayName(username string) string {
	if username == "" {
		return "N/A"
	}
	return username
}

func banStatus(banned bool) string {
	if banned {
		return "🔴 Забанен"
	}
	return "🟢 Активен"
}

func banAction(banned bool) string {
	if banned {
		return "✅ Разбанить"
	}
	return "⛔ Забанить"
}
