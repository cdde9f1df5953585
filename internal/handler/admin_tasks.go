package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/middleware"
	"github.com/perchik2875/ONI/internal/service"
	"github.com/perchik2875/ONI/internal/session"
	tg "github.com/perchik2875/ONI/internal/telegram"
)

// handleAddTask starts the task authoring flow.
func (h *Handler) handleAddTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.isAdminUpdate(update) {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	state := &session.State{
		Flow:       session.FlowTaskCreate,
		Step:       session.StepTaskDescription,
		TaskCreate: &session.TaskCreateData{},
	}
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		slog.Error("save task create session", "error", err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "📝 Введите описание задания:",
		ReplyMarkup: &models.ReplyKeyboardRemove{RemoveKeyboard: true},
	})
}

// handleTaskCreateText advances the authoring flow one answer at a time.
func (h *Handler) handleTaskCreateText(ctx context.Context, b *bot.Bot, update *models.Update, state *session.State) {
	user := middleware.GetUser(ctx)
	if user == nil || state.TaskCreate == nil {
		return
	}
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	tc := state.TaskCreate

	switch state.Step {
	case session.StepTaskDescription:
		tc.Description = text
		state.Step = session.StepTaskLink
		h.saveAndPrompt(ctx, b, user.TelegramID, state, chatID,
			"🔗 Теперь введите ссылку для задания:")

	case session.StepTaskLink:
		tc.Link = text
		if title, err := h.preview.Title(ctx, text); err == nil && title != "" {
			tc.LinkTitle = title
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   fmt.Sprintf("🔎 Заголовок страницы: %s", title),
			})
		}
		state.Step = session.StepTaskReward
		h.saveAndPrompt(ctx, b, user.TelegramID, state, chatID,
			"💰 Введите вознаграждение (в RUB):")

	case session.StepTaskReward:
		reward, err := decimal.NewFromString(strings.ReplaceAll(text, ",", "."))
		if err != nil {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ Ошибка! Введите число.",
			})
			return
		}
		if !reward.IsPositive() {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ Вознаграждение должно быть больше 0!",
			})
			return
		}
		tc.Reward = reward
		state.Step = session.StepTaskMaxCount
		h.saveAndPrompt(ctx, b, user.TelegramID, state, chatID,
			"🔢 Введите максимальное количество выполнений (или 0 для безлимита):")

	case session.StepTaskMaxCount:
		maxCount, err := strconv.Atoi(text)
		if err != nil {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ Ошибка! Введите целое число.",
			})
			return
		}
		if maxCount < 0 {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ Число должно быть положительным!",
			})
			return
		}

		_, err = h.tasks.Create(ctx, service.TaskDraft{
			Description:    tc.Description,
			Link:           tc.Link,
			Reward:         tc.Reward,
			MaxCompletions: maxCount,
		})
		h.sessions.Clear(ctx, user.TelegramID)
		if err != nil {
			slog.Error("create task", "error", err)
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:      chatID,
				Text:        "❌ Не удалось сохранить задание.",
				ReplyMarkup: adminMenu(),
			})
			return
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "✅ Задание успешно добавлено!",
			ReplyMarkup: adminMenu(),
		})
	}
}

func (h *Handler) saveAndPrompt(ctx context.Context, b *bot.Bot, telegramID int64, state *session.State, chatID int64, prompt string) {
	if err := h.sessions.Set(ctx, telegramID, state); err != nil {
		slog.Error("save task create session", "error", err)
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   prompt,
	})
}

func (h *Handler) handleTaskList(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.isAdminUpdate(update) {
		return
	}
	chatID := update.Message.Chat.ID

	tasks, err := h.tasks.ListAll(ctx)
	if err != nil {
		slog.Error("list tasks", "error", err)
		return
	}
	if len(tasks) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📭 Нет активных заданий.",
		})
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Список заданий:\n\n")
	for _, t := range tasks {
		status := "🔴 Неактивно"
		if t.Active {
			status = "🟢 Активно"
		}
		limit := "∞"
		if t.MaxCompletions != nil {
			limit = fmt.Sprintf("%d/%d", t.CompletionsCount, *t.MaxCompletions)
		}
		fmt.Fprintf(&sb,
			"🔹 ID: %d\n"+
				"📝 Описание: %s\n"+
				"🔗 Ссылка: %s\n"+
				"💰 Награда: %s RUB\n"+
				"🔄 Выполнено: %s\n"+
				"📅 Дата: %s\n"+
				"Статус: %s\n\n",
			t.ID, t.Description, t.Link, t.Reward.StringFixed(2),
			limit, t.CreatedAt.Format("2006-01-02 15:04"), status)
	}

	if err := tg.SendLongMessage(ctx, b, chatID, sb.String(), nil); err != nil {
		slog.Error("send task list", "error", err)
	}
}

// handleDeleteTaskMenu lists tasks with one delete button each.
func (h *Handler) handleDeleteTaskMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.isAdminUpdate(update) {
		return
	}
	chatID := update.Message.Chat.ID

	tasks, err := h.tasks.ListAll(ctx)
	if err != nil {
		slog.Error("list tasks", "error", err)
		return
	}
	if len(tasks) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📭 Нет заданий для удаления.",
		})
		return
	}

	var rows [][]models.InlineKeyboardButton
	for _, t := range tasks {
		rows = append(rows, tg.ButtonRow(tg.InlineButton(
			fmt.Sprintf("❌ Удалить #%d - %s", t.ID, truncate(t.Description, 20)),
			fmt.Sprintf("%s%d", cbConfirmDelete, t.ID),
		)))
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: "📋 Выберите задание для удаления:\n" +
			"⚠️ Это полностью удалит задание из базы данных!",
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
}

func (h *Handler) handleConfirmDeleteTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	taskID, err := parseID(cb.Data, cbConfirmDelete)
	if err != nil {
		answer(ctx, b, cb)
		return
	}

	task, err := h.tasks.Get(ctx, taskID)
	if err != nil {
		alert(ctx, b, cb, "❌ Задание не найдено")
		return
	}

	chatID, messageID := callbackChat(cb)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text: fmt.Sprintf(
			"⚠️ Вы уверены, что хотите полностью удалить задание?\n\n"+
				"ID: %d\n"+
				"Описание: %s\n\n"+
				"Это действие нельзя отменить!",
			task.ID, truncate(task.Description, 100)),
		ReplyMarkup: tg.InlineKeyboard(
			tg.ButtonRow(
				tg.InlineButton("✅ Да, удалить", fmt.Sprintf("%s%d", cbFinalDelete, taskID)),
				tg.InlineButton("❌ Отмена", cbCancelDelete),
			),
		),
	})
	answer(ctx, b, cb)
}

func (h *Handler) handleFinalDeleteTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	taskID, err := parseID(cb.Data, cbFinalDelete)
	if err != nil {
		answer(ctx, b, cb)
		return
	}

	if err := h.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			alert(ctx, b, cb, "❌ Задание не найдено")
			return
		}
		slog.Error("delete task", "task_id", taskID, "error", err)
		alert(ctx, b, cb, "❌ Произошла ошибка при удалении")
		return
	}

	editCallbackMessage(ctx, b, cb, fmt.Sprintf(
		"✅ Задание #%d полностью удалено из базы данных!", taskID))
	answer(ctx, b, cb)
}

func (h *Handler) handleCancelDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || !h.isAdminUpdate(update) {
		return
	}
	editCallbackMessage(ctx, b, cb, "❌ Удаление отменено")
	answer(ctx, b, cb)
}
