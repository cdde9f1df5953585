package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/domain"
	tg "github.com/perchik2875/ONI/internal/telegram"
)

// handlePaymentQueue lists pending withdrawal requests, each with payout
// instructions and a verdict keyboard.
func (h *Handler) handlePaymentQueue(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.isAdminUpdate(update) {
		return
	}
	chatID := update.Message.Chat.ID

	pending, err := h.withdrawals.ListPending(ctx)
	if err != nil {
		slog.Error("list pending payments", "error", err)
		return
	}
	if len(pending) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📭 Нет заявок на вывод.",
		})
		return
	}

	for _, p := range pending {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: fmt.Sprintf(
				"🆔 ID заявки: %d\n"+
					"👤 Пользователь: @%s (ID: %d)\n"+
					"💰 Сумма: %s RUB\n"+
					"💳 Способ: %s\n"+
					"📌 Реквизиты: %s\n\n%s",
				p.ID, p.Username, p.UserTelegramID,
				p.Amount.StringFixed(2), p.Method.Title(), p.Destination,
				payoutInstructions(&p.Payment),
			),
			ReplyMarkup: tg.InlineKeyboard(
				tg.ButtonRow(
					tg.InlineButton("✅ Одобрить", fmt.Sprintf("%s%d", cbApprovePayment, p.ID)),
					tg.InlineButton("❌ Отклонить", fmt.Sprintf("%s%d", cbRejectPayment, p.ID)),
				),
			),
		})
	}
}

func payoutInstructions(p *domain.Payment) string {
	if p.Method == domain.PaymentMethodWallet {
		return fmt.Sprintf(
			"Для выплаты через CryptoBot:\n"+
				"1. Откройте @CryptoBot\n"+
				"2. Выберите 'Отправить'\n"+
				"3. Введите сумму: %s RUB\n"+
				"4. Укажите получателя: %s",
			p.Amount.StringFixed(2), p.Destination)
	}

	bank, card, ok := strings.Cut(p.Destination, ",")
	if !ok {
		bank, card = "Не указан", p.Destination
	}
	return fmt.Sprintf(
		"Для выплаты на карту:\n"+
			"1. Откройте приложение вашего банка\n"+
			"2. Переведите %s RUB\n"+
			"3. На карту: %s\n"+
			"4. Банк: %s",
		p.Amount.StringFixed(2), strings.TrimSpace(card), strings.TrimSpace(bank))
}

func (h *Handler) handleApprovePayment(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	paymentID, err := parseID(cb.Data, cbApprovePayment)
	if err != nil {
		answer(ctx, b, cb)
		return
	}

	res, err := h.withdrawals.Approve(ctx, paymentID)
	if !h.checkPaymentDecision(ctx, b, cb, paymentID, err) {
		return
	}

	editCallbackMessage(ctx, b, cb, fmt.Sprintf(
		"✅ Заявка #%d одобрена!\n👤 Пользователь: ID %d\n💰 Сумма: %s RUB",
		paymentID, res.Payment.UserID, res.Payment.Amount.StringFixed(2)))

	tg.Notify(ctx, b, res.UserTelegramID, fmt.Sprintf(
		"✅ Ваша заявка на вывод %s RUB одобрена!\nДеньги должны поступить в течение 24 часов.",
		res.Payment.Amount.StringFixed(2)))
	answer(ctx, b, cb)
}

func (h *Handler) handleRejectPayment(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	paymentID, err := parseID(cb.Data, cbRejectPayment)
	if err != nil {
		answer(ctx, b, cb)
		return
	}

	res, err := h.withdrawals.Reject(ctx, paymentID)
	if !h.checkPaymentDecision(ctx, b, cb, paymentID, err) {
		return
	}

	editCallbackMessage(ctx, b, cb, fmt.Sprintf(
		"❌ Заявка #%d отклонена!\n👤 Пользователь: ID %d\n💰 Сумма: %s RUB возвращена на баланс",
		paymentID, res.Payment.UserID, res.Payment.Amount.StringFixed(2)))

	tg.Notify(ctx, b, res.UserTelegramID, fmt.Sprintf(
		"❌ Ваша заявка на вывод %s RUB отклонена.\nСредства возвращены на ваш баланс.",
		res.Payment.Amount.StringFixed(2)))
	answer(ctx, b, cb)
}

func (h *Handler) checkPaymentDecision(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery, paymentID int64, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrPaymentNotFound):
		alert(ctx, b, cb, "❌ Заявка не найдена")
	case errors.Is(err, domain.ErrPaymentResolved):
		alert(ctx, b, cb, "❌ Заявка уже обработана")
	default:
		slog.Error("resolve payment", "payment_id", paymentID, "error", err)
		alert(ctx, b, cb, "❌ Произошла ошибка")
	}
	return false
}
