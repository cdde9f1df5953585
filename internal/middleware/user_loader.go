package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/service"
)

type ctxKey string

const (
	userKey         ctxKey = "user"
	registrationKey ctxKey = "registration"
)

// GetUser extracts the loaded user from context.
func GetUser(ctx context.Context) *domain.User {
	u, ok := ctx.Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

// GetRegistration extracts the registration result from context. Non-nil
// for every update that carried a sender.
func GetRegistration(ctx context.Context) *service.Registration {
	r, ok := ctx.Value(registrationKey).(*service.Registration)
	if !ok {
		return nil
	}
	return r
}

// UserLoader returns middleware that registers or loads the sender into
// context. A referral payload on /start is bound here, before any handler
// runs. Banned users are cut off for everything except the admin.
func UserLoader(users *service.UserService, cfg interface{ IsAdmin(int64) bool }, supportContact string) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			var chatID int64

			if update.Message != nil {
				from = update.Message.From
				chatID = update.Message.Chat.ID
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
				if update.CallbackQuery.Message.Message != nil {
					chatID = update.CallbackQuery.Message.Message.Chat.ID
				}
			}

			if from == nil {
				next(ctx, b, update)
				return
			}

			var referrerTelegramID int64
			if update.Message != nil {
				referrerTelegramID = startPayload(update.Message.Text)
			}

			reg, err := users.FindOrCreate(ctx, from.ID, from.Username, referrerTelegramID)
			if err != nil {
				slog.Error("user load failed", "telegram_id", from.ID, "error", err)
				return
			}

			if reg.User.Banned && !cfg.IsAdmin(from.ID) {
				if chatID != 0 {
					b.SendMessage(ctx, &bot.SendMessageParams{
						ChatID: chatID,
						Text: "⛔ Вы забанены администратором и больше не можете использовать бота.\n" +
							"Если вы считаете ограничения ошибкой обратитесь в поддержку: " + supportContact,
					})
				}
				return
			}

			ctx = context.WithValue(ctx, userKey, reg.User)
			ctx = context.WithValue(ctx, registrationKey, reg)
			next(ctx, b, update)
		}
	}
}

// startPayload extracts the referrer telegram ID from a /start deep link.
func startPayload(text string) int64 {
	if !strings.HasPrefix(text, "/start ") {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(text, "/start ")), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
