package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/middleware"
	"github.com/perchik2875/ONI/internal/session"
)

// HandleDefault routes messages that no registered pattern matched. These
// are the free-form answers inside multi-step flows: proof photos, typed
// amounts and payout details, task authoring answers, broadcast content.
func (h *Handler) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != models.ChatTypePrivate {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	state, err := h.sessions.Get(ctx, user.TelegramID)
	if err != nil {
		slog.Error("load session", "telegram_id", user.TelegramID, "error", err)
		return
	}

	switch state.Flow {
	case session.FlowSubmission:
		if state.Step == session.StepAwaitProof || state.Step == session.StepAwaitMoreProof {
			h.handleProofPhoto(ctx, b, update, state)
		}

	case session.FlowWithdrawal:
		switch state.Step {
		case session.StepAwaitAmount:
			h.handleWithdrawAmount(ctx, b, update, state)
		case session.StepAwaitDestination:
			h.handleWithdrawDestination(ctx, b, update, state)
		}

	case session.FlowTaskCreate:
		if h.isAdminUpdate(update) {
			h.handleTaskCreateText(ctx, b, update, state)
		}

	case session.FlowBroadcast:
		if h.isAdminUpdate(update) && state.Step == session.StepCompose {
			h.handleBroadcastContent(ctx, b, update, state)
		}
	}
}
