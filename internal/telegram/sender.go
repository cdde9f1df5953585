package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const MaxMessageLen = 4096

// SendLongMessage sends a potentially long message, splitting it into parts
// if needed.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) error {
	parts := SplitMessage(text, MaxMessageLen)

	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		}
		// Keyboard goes with the final part only.
		if markup != nil && i == len(parts)-1 {
			params.ReplyMarkup = markup
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}

	return nil
}

// Notify sends a message and only logs on failure. Used for user
// notifications that follow a committed state change: the blocked-bot or
// deleted-account errors must not undo the moderation decision.
func Notify(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		slog.Warn("notification failed", "chat_id", chatID, "error", err)
	}
}

// SendProofAlbum sends completion proofs as a photo album with the caption
// on the first photo. A single proof goes out as a plain photo message.
func SendProofAlbum(ctx context.Context, b *bot.Bot, chatID int64, photoIDs []string, caption string, markup models.ReplyMarkup) error {
	switch len(photoIDs) {
	case 0:
		return SendLongMessage(ctx, b, chatID, caption, markup)
	case 1:
		_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       &models.InputFileString{Data: photoIDs[0]},
			Caption:     caption,
			ReplyMarkup: markup,
		})
		if err != nil {
			return fmt.Errorf("send photo: %w", err)
		}
		return nil
	}

	media := make([]models.InputMedia, 0, len(photoIDs))
	for i, id := range photoIDs {
		photo := &models.InputMediaPhoto{Media: id}
		if i == 0 {
			photo.Caption = caption
		}
		media = append(media, photo)
	}
	if _, err := b.SendMediaGroup(ctx, &bot.SendMediaGroupParams{
		ChatID: chatID,
		Media:  media,
	}); err != nil {
		return fmt.Errorf("send media group: %w", err)
	}

	// Media groups cannot carry an inline keyboard; attach it to a
	// follow-up message.
	if markup != nil {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "Выберите действие:",
			ReplyMarkup: markup,
		})
		if err != nil {
			return fmt.Errorf("send album keyboard: %w", err)
		}
	}
	return nil
}
