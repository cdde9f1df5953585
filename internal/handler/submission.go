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
	"github.com/perchik2875/ONI/internal/session"
	tg "github.com/perchik2875/ONI/internal/telegram"
)

// handleProofPhoto buffers one submitted screenshot. Telegram sends several
// photo sizes per message; the last one is the full resolution.
func (h *Handler) handleProofPhoto(ctx context.Context, b *bot.Bot, update *models.Update, state *session.State) {
	user := middleware.GetUser(ctx)
	if user == nil || state.Submission == nil {
		return
	}
	photos := update.Message.Photo
	if len(photos) == 0 {
		return
	}

	state.Submission.Proofs = append(state.Submission.Proofs, photos[len(photos)-1].FileID)
	state.Step = session.StepAwaitMoreProof
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save submission session", "error", err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "📸 Скриншот получен! Хотите добавить ещё?",
		ReplyMarkup: tg.InlineKeyboard(
			tg.ButtonRow(
				tg.InlineButton("➕ Добавить ещё", cbAddMoreProof),
				tg.InlineButton("✅ Готово", cbProofsDone),
			),
		),
	})
}

func (h *Handler) handleAddMoreProof(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		answer(ctx, b, cb)
		return
	}

	state, err := h.sessions.Get(ctx, user.TelegramID)
	if err != nil || state.Flow != session.FlowSubmission || state.Submission == nil {
		answer(ctx, b, cb)
		return
	}

	state.Step = session.StepAwaitProof
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save submission session", "error", err)
		answer(ctx, b, cb)
		return
	}

	chatID, messageID := callbackChat(cb)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      "📸 Отправьте следующий скриншот:",
		ReplyMarkup: tg.InlineKeyboard(
			tg.ButtonRow(tg.InlineButton("✅ Готово", cbProofsDone)),
		),
	})
	answer(ctx, b, cb)
}

// handleProofsDone finalizes the buffered proofs into a pending completion
// and hands it to the admin for moderation.
func (h *Handler) handleProofsDone(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		answer(ctx, b, cb)
		return
	}

	state, err := h.sessions.Get(ctx, user.TelegramID)
	if err != nil || state.Flow != session.FlowSubmission || state.Submission == nil {
		answer(ctx, b, cb)
		return
	}
	sub := state.Submission
	if len(sub.Proofs) == 0 {
		alert(ctx, b, cb, "❌ Нужно отправить хотя бы один скриншот!")
		return
	}

	chatID, _ := callbackChat(cb)

	_, err = h.submissions.Submit(ctx, user.ID, sub.TaskID, sub.Proofs)
	if err != nil {
		h.sessions.Clear(ctx, user.TelegramID)
		if errors.Is(err, domain.ErrAlreadySubmitted) {
			alert(ctx, b, cb, "❌ Вы уже выполняли это задание!")
			return
		}
		slog.Error("submit completion", "task_id", sub.TaskID, "error", err)
		answer(ctx, b, cb)
		if chatID != 0 {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:      chatID,
				Text:        "❌ Произошла ошибка при обработке задания. Попробуйте позже.",
				ReplyMarkup: h.mainMenu(user.TelegramID),
			})
		}
		return
	}

	h.sessions.Clear(ctx, user.TelegramID)
	h.notifyAdminSubmission(ctx, b, user, sub)

	answer(ctx, b, cb)
	if chatID != 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: "✅ Скриншоты отправлены на проверку!\n" +
				"Обычно проверка занимает до 24 часов.",
			ReplyMarkup: h.mainMenu(user.TelegramID),
		})
	}
}

func (h *Handler) notifyAdminSubmission(ctx context.Context, b *bot.Bot, user *domain.User, sub *session.SubmissionData) {
	caption := fmt.Sprintf(
		"⚠️ Новое выполненное задание!\n\n"+
			"👤 Пользователь: @%s (ID: %d)\n"+
			"📌 Задание ID: %d\n"+
			"💰 Вознаграждение: %s RUB",
		user.Username, user.TelegramID, sub.TaskID, sub.Reward.StringFixed(2),
	)
	markup := tg.InlineKeyboard(
		tg.ButtonRow(
			tg.InlineButton("✅ Подтвердить", fmt.Sprintf("%s%d_%d", cbVerifyTask, user.ID, sub.TaskID)),
			tg.InlineButton("❌ Отклонить", fmt.Sprintf("%s%d_%d", cbRejectTask, user.ID, sub.TaskID)),
		),
	)
	if err := tg.SendProofAlbum(ctx, b, h.cfg.AdminID, sub.Proofs, caption, markup); err != nil {
		slog.Error("notify admin about submission", "task_id", sub.TaskID, "error", err)
	}
}
