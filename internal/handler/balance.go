package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/middleware"
)

func (h *Handler) handleBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: fmt.Sprintf(
			"💰 Ваш баланс: %s RUB\n"+
				"💵 Всего заработано: %s RUB\n"+
				"👥 Рефералов: %d\n"+
				"🎁 Заработано с рефералов: %s RUB",
			user.Balance.StringFixed(2),
			user.Earned.StringFixed(2),
			user.ReferralCount,
			user.EarnedFromReferrals.StringFixed(2),
		),
	})
}
