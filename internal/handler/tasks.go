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

// handleShowTasks starts a browse session over a snapshot of the currently
// available tasks.
func (h *Handler) handleShowTasks(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID

	tasks, err := h.tasks.ListAvailable(ctx)
	if err != nil {
		slog.Error("list available tasks", "error", err)
		return
	}
	if len(tasks) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📭 На данный момент нет доступных заданий. Загляните позже!",
		})
		return
	}

	state := &session.State{
		Flow:   session.FlowBrowse,
		Browse: &session.BrowseData{Tasks: tasks},
	}
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save browse session", "error", err)
		return
	}
	h.sendTaskCard(ctx, b, chatID, state.Browse)
}

func (h *Handler) sendTaskCard(ctx context.Context, b *bot.Bot, chatID int64, browse *session.BrowseData) {
	task, ok := browse.Current()
	if !ok {
		return
	}

	limit := "Без ограничений"
	if task.MaxCompletions != nil {
		limit = fmt.Sprintf("%d/%d", task.CompletionsCount, *task.MaxCompletions)
	}

	rows := [][]models.InlineKeyboardButton{
		tg.ButtonRow(tg.InlineButton("✅ Взять задание", fmt.Sprintf("%s%d", cbTakeTask, task.ID))),
	}
	if len(browse.Tasks) > 1 {
		var nav []models.InlineKeyboardButton
		if browse.HasPrev() {
			nav = append(nav, tg.InlineButton("⬅️ Назад", cbPrevTask))
		}
		if browse.HasNext() {
			nav = append(nav, tg.InlineButton("➡️ Вперед", cbNextTask))
		}
		if len(nav) > 0 {
			rows = append(rows, nav)
		}
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"📌 Задание #%d\n\n"+
				"📝 %s\n"+
				"🔗 Ссылка: %s\n\n"+
				"💰 Вознаграждение: %s RUB\n"+
				"🔄 Доступно выполнений: %s",
			task.ID, task.Description, task.Link, task.Reward.StringFixed(2), limit,
		),
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: bot.True(),
		},
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
}

func (h *Handler) handlePrevTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.moveBrowseCursor(ctx, b, update, -1)
}

func (h *Handler) handleNextTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.moveBrowseCursor(ctx, b, update, 1)
}

func (h *Handler) moveBrowseCursor(ctx context.Context, b *bot.Bot, update *models.Update, dir int) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	answer(ctx, b, cb)

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	state, err := h.sessions.Get(ctx, user.TelegramID)
	if err != nil || state.Flow != session.FlowBrowse || state.Browse == nil {
		return
	}
	chatID, messageID := callbackChat(cb)
	if chatID == 0 {
		return
	}

	var moved bool
	if dir < 0 {
		moved = state.Browse.Prev()
	} else {
		moved = state.Browse.Next()
	}

	b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID})

	if !moved {
		h.sessions.Clear(ctx, user.TelegramID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "🎉 Вы просмотрели все доступные задания!",
		})
		return
	}

	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save browse session", "error", err)
		return
	}
	h.sendTaskCard(ctx, b, chatID, state.Browse)
}

// handleTakeTask moves the user from browsing into the proof submission
// flow for the chosen task.
func (h *Handler) handleTakeTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	taskID, err := parseID(cb.Data, cbTakeTask)
	if err != nil {
		answer(ctx, b, cb)
		return
	}

	task, err := h.submissions.CanTake(ctx, user.ID, taskID)
	switch {
	case errors.Is(err, domain.ErrAlreadySubmitted):
		alert(ctx, b, cb, "❌ Вы уже выполняли это задание!")
		return
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrTaskUnavailable):
		alert(ctx, b, cb, "❌ Задание не найдено или неактивно!")
		return
	case err != nil:
		slog.Error("take task", "task_id", taskID, "error", err)
		alert(ctx, b, cb, "❌ Произошла ошибка")
		return
	}

	state := &session.State{
		Flow: session.FlowSubmission,
		Step: session.StepAwaitProof,
		Submission: &session.SubmissionData{
			TaskID: task.ID,
			Reward: task.Reward,
		},
	}
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save submission session", "error", err)
		alert(ctx, b, cb, "❌ Произошла ошибка")
		return
	}

	chatID, messageID := callbackChat(cb)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text: "📌 Вы взяли задание!\n\n" +
			"📸 Отправьте скриншот выполнения задания (можно несколько):\n" +
			"Когда закончите, нажмите кнопку 'Готово'",
		ReplyMarkup: tg.InlineKeyboard(
			tg.ButtonRow(tg.InlineButton("✅ Готово", cbProofsDone)),
		),
	})
	answer(ctx, b, cb)
}
