package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/middleware"
	"github.com/perchik2875/ONI/internal/service"
	"github.com/perchik2875/ONI/internal/session"
	tg "github.com/perchik2875/ONI/internal/telegram"
)

// handleWithdraw opens the withdrawal flow with the method choice keyboard.
func (h *Handler) handleWithdraw(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID
	min := h.withdrawals.Minimum()

	if user.Balance.LessThan(min) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: fmt.Sprintf("❌ Минимальная сумма вывода - %s RUB. Ваш баланс: %s RUB",
				min.StringFixed(0), user.Balance.StringFixed(2)),
		})
		return
	}

	state := &session.State{
		Flow:       session.FlowWithdrawal,
		Step:       session.StepChooseMethod,
		Withdrawal: &session.WithdrawalData{},
	}
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save withdrawal session", "error", err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"💰 Ваш баланс: %s RUB\n"+
				"💳 Минимальная сумма вывода: %s RUB\n\n"+
				"Выберите способ вывода:",
			user.Balance.StringFixed(2), min.StringFixed(0)),
		ReplyMarkup: withdrawMenu(),
	})
}

func (h *Handler) handleWithdrawCard(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.startWithdrawAmount(ctx, b, update, domain.PaymentMethodCard,
		"💳 Вывод средств на банковскую карту")
}

func (h *Handler) handleWithdrawWallet(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.startWithdrawAmount(ctx, b, update, domain.PaymentMethodWallet,
		"🤖 Вывод средств через CryptoBot")
}

func (h *Handler) startWithdrawAmount(ctx context.Context, b *bot.Bot, update *models.Update, method domain.PaymentMethod, header string) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	state := &session.State{
		Flow:       session.FlowWithdrawal,
		Step:       session.StepAwaitAmount,
		Withdrawal: &session.WithdrawalData{Method: method},
	}
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save withdrawal session", "error", err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: fmt.Sprintf(
			"%s\n\n"+
				"💰 Ваш баланс: %s RUB\n"+
				"💳 Минимальная сумма вывода: %s RUB\n\n"+
				"Введите сумму для вывода:",
			header, user.Balance.StringFixed(2), h.withdrawals.Minimum().StringFixed(0)),
		ReplyMarkup: &models.ReplyKeyboardRemove{RemoveKeyboard: true},
	})
}

// handleWithdrawAmount consumes the typed amount. The balance is re-checked
// here for early feedback; the authoritative check happens at request time.
func (h *Handler) handleWithdrawAmount(ctx context.Context, b *bot.Bot, update *models.Update, state *session.State) {
	user := middleware.GetUser(ctx)
	if user == nil || state.Withdrawal == nil {
		return
	}
	chatID := update.Message.Chat.ID

	amount, err := h.withdrawals.ParseAmount(update.Message.Text)
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Пожалуйста, введите число!",
		})
		return
	case errors.Is(err, domain.ErrBelowMinimum):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("❌ Минимальная сумма вывода - %s RUB", h.withdrawals.Minimum().StringFixed(0)),
		})
		return
	case err != nil:
		return
	}

	if user.Balance.LessThan(amount) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("❌ Недостаточно средств. Ваш баланс: %s RUB", user.Balance.StringFixed(2)),
		})
		return
	}

	state.Withdrawal.Amount = amount
	state.Step = session.StepAwaitDestination
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save withdrawal session", "error", err)
		return
	}

	var prompt string
	if state.Withdrawal.Method == domain.PaymentMethodCard {
		prompt = "💳 Введите данные для вывода на карту:\n" +
			"Название банка, номер карты\n\n" +
			"Пример: Тинькофф, 1234 5678 9012 3456\n" +
			"Можно ввести в любом формате"
	} else {
		prompt = "🤖 Введите ваш юзернейм в CryptoBot (например, @CryptoBot):\n\n" +
			"Как найти юзернейм в CryptoBot:\n" +
			"1. Откройте @CryptoBot\n" +
			"2. Нажмите 'Начать'\n" +
			"3. Ваш юзернейм будет указан в профиле"
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   prompt,
	})
}

// handleWithdrawDestination consumes the payout details, reserves the
// amount and files the request.
func (h *Handler) handleWithdrawDestination(ctx context.Context, b *bot.Bot, update *models.Update, state *session.State) {
	user := middleware.GetUser(ctx)
	if user == nil || state.Withdrawal == nil {
		return
	}
	chatID := update.Message.Chat.ID
	wd := state.Withdrawal

	destination := service.NormalizeDestination(wd.Method, update.Message.Text)

	payment, err := h.withdrawals.Request(ctx, user.ID, wd.Amount, wd.Method, destination)
	h.sessions.Clear(ctx, user.TelegramID)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:      chatID,
				Text:        "❌ Недостаточно средств для вывода.",
				ReplyMarkup: h.mainMenu(user.TelegramID),
			})
			return
		}
		slog.Error("create withdrawal", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "❌ Произошла ошибка при создании заявки. Попробуйте позже.",
			ReplyMarkup: h.mainMenu(user.TelegramID),
		})
		return
	}

	tg.Notify(ctx, b, h.cfg.AdminID, fmt.Sprintf(
		"⚠️ Новая заявка на вывод через %s!\n\n"+
			"👤 Пользователь: @%s (ID: %d)\n"+
			"💰 Сумма: %s RUB\n"+
			"📌 Реквизиты: %s",
		payment.Method.Title(), user.Username, user.TelegramID,
		payment.Amount.StringFixed(2), payment.Destination,
	))

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"✅ Заявка на вывод %s RUB создана!\n"+
				"Способ: %s\n"+
				"Реквизиты: %s\n\n"+
				"Ожидайте обработки в течение 24 часов.",
			payment.Amount.StringFixed(2), payment.Method.Title(), payment.Destination),
		ReplyMarkup: h.mainMenu(user.TelegramID),
	})
}

// handleBack abandons the current flow and returns to the main menu.
func (h *Handler) handleBack(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	h.sessions.Clear(ctx, user.TelegramID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "Главное меню",
		ReplyMarkup: h.mainMenu(user.TelegramID),
	})
}
