package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/middleware"
	"github.com/perchik2875/ONI/internal/session"
	tg "github.com/perchik2875/ONI/internal/telegram"
)

// handleBroadcastStart opens the broadcast compose flow.
func (h *Handler) handleBroadcastStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.isAdminUpdate(update) {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	state := &session.State{
		Flow:      session.FlowBroadcast,
		Step:      session.StepCompose,
		Broadcast: &session.BroadcastData{},
	}
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save broadcast session", "error", err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "📢 Отправьте сообщение для рассылки (текст, фото, фото с подписью):",
		ReplyMarkup: &models.ReplyKeyboardRemove{RemoveKeyboard: true},
	})
}

// handleBroadcastContent captures the composed message and shows a preview
// with confirm and cancel buttons.
func (h *Handler) handleBroadcastContent(ctx context.Context, b *bot.Bot, update *models.Update, state *session.State) {
	user := middleware.GetUser(ctx)
	if user == nil || state.Broadcast == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	var content domain.BroadcastContent
	switch {
	case len(msg.Photo) > 0:
		content = domain.BroadcastContent{
			PhotoID: msg.Photo[len(msg.Photo)-1].FileID,
			Caption: msg.Caption,
		}
	case msg.Text != "":
		content = domain.BroadcastContent{Text: msg.Text}
	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Пожалуйста, отправьте только текст или фото (с подписью или без)",
		})
		return
	}

	markup := tg.InlineKeyboard(
		tg.ButtonRow(tg.InlineButton("✅ Подтвердить", cbConfirmBroadcast)),
		tg.ButtonRow(tg.InlineButton("❌ Отменить", cbCancelBroadcast)),
	)

	var preview *models.Message
	var err error
	if content.IsPhoto() {
		caption := "📢 Предпросмотр рассылки:\n\n🖼 Фото без текста"
		if content.Caption != "" {
			caption = "📢 Предпросмотр рассылки:\n\n🖼 Фото + текст: " + content.Caption
		}
		preview, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       &models.InputFileString{Data: content.PhotoID},
			Caption:     caption,
			ReplyMarkup: markup,
		})
	} else {
		preview, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "📢 Предпросмотр рассылки:\n\n" + content.Text,
			ReplyMarkup: markup,
		})
	}
	if err != nil {
		slog.Error("send broadcast preview", "error", err)
		return
	}

	state.Step = session.StepPreviewing
	state.Broadcast.Content = content
	state.Broadcast.PreviewMessageID = preview.ID
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save broadcast session", "error", err)
	}
}

func (h *Handler) handleConfirmBroadcast(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		answer(ctx, b, cb)
		return
	}

	state, err := h.sessions.Get(ctx, user.TelegramID)
	if err != nil || state.Flow != session.FlowBroadcast ||
		state.Step != session.StepPreviewing || state.Broadcast == nil {
		answer(ctx, b, cb)
		return
	}
	// A re-composed broadcast leaves the old preview's buttons live; only
	// the current preview may confirm.
	if _, messageID := callbackChat(cb); messageID != state.Broadcast.PreviewMessageID {
		answer(ctx, b, cb)
		return
	}
	content := state.Broadcast.Content
	h.sessions.Clear(ctx, user.TelegramID)

	editCallbackMessage(ctx, b, cb, "📢 Рассылка начата...")
	answer(ctx, b, cb)

	report, err := h.broadcasts.Send(ctx, content, func(ctx context.Context, telegramID int64, c domain.BroadcastContent) error {
		if c.IsPhoto() {
			_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
				ChatID:  telegramID,
				Photo:   &models.InputFileString{Data: c.PhotoID},
				Caption: c.Caption,
			})
			return err
		}
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: telegramID,
			Text:   c.Text,
		})
		return err
	})

	chatID, _ := callbackChat(cb)
	if chatID == 0 {
		return
	}
	if err != nil {
		slog.Error("broadcast", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "❌ Ошибка при рассылке",
			ReplyMarkup: adminMenu(),
		})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf("📢 Рассылка завершена!\n\n✅ Успешно: %d\n❌ Не удалось: %d",
			report.Sent, report.Failed),
		ReplyMarkup: adminMenu(),
	})
}

func (h *Handler) handleCancelBroadcast(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	user := middleware.GetUser(ctx)
	if user != nil {
		h.sessions.Clear(ctx, user.TelegramID)
	}

	editCallbackMessage(ctx, b, cb, "❌ Рассылка отменена")
	answer(ctx, b, cb)

	chatID, _ := callbackChat(cb)
	if chatID != 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "Главное меню",
			ReplyMarkup: adminMenu(),
		})
	}
}
