package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/middleware"
)

func (h *Handler) handleReferral(ctx context.Context, b *bot.Bot, update *models.Update) {
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
			"👥 Реферальная программа\n\n"+
				"🔗 Ваша ссылка: %s\n\n"+
				"💎 Вы получаете 10%% от заработка каждого приглашенного друга!\n"+
				"👥 Приглашено друзей: %d\n"+
				"💰 Заработано с рефералов: %s RUB\n\n"+
				"Чем больше друзей вы пригласите, тем больше будет ваш пассивный доход!",
			h.referralLink(user.TelegramID),
			user.ReferralCount,
			user.EarnedFromReferrals.StringFixed(2),
		),
	})
}
