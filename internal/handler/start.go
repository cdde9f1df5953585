package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/middleware"
	tg "github.com/perchik2875/ONI/internal/telegram"
)

const termsURL = "https://telegra.ph/Usloviya-polzovaniya-botom-ONI-06-30"

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID

	// Any in-progress flow is abandoned on /start.
	h.sessions.Clear(ctx, user.TelegramID)

	reg := middleware.GetRegistration(ctx)
	if reg != nil && reg.SelfReferral {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Нельзя использовать свою реферальную ссылку!",
		})
	}
	if reg != nil && reg.Created && reg.Referrer != nil {
		tg.Notify(ctx, b, reg.Referrer.TelegramID,
			fmt.Sprintf("🎉 У вас новый реферал! @%s присоединился по вашей ссылке.", user.Username))
	}

	text := fmt.Sprintf(
		"👋 Добро пожаловать в ONI!\n\n"+
			"🔗 Ваша реферальная ссылка: %s\n"+
			"💎 За каждого приглашенного друга вы получаете 10%% от его заработка!\n\n"+
			"🛡️ Продолжая пользоваться ботом вы автоматически принимаете [Условия использования](%s)\n\n"+
			"📌 Чтобы начать, нажмите кнопку 'Доступные задания'",
		h.referralLink(user.TelegramID), termsURL,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: bot.True(),
		},
		ReplyMarkup: h.mainMenu(user.TelegramID),
	})
}

func (h *Handler) referralLink(telegramID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", h.botUsername, telegramID)
}
