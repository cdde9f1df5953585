package handler

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/perchik2875/ONI/internal/config"
)

// The moderation surfaces move money and expose payout destinations, so they
// must bail out for anyone but the operator. The handler under test carries a
// nil bot and nil services: getting past the admin gate panics the test.
func TestModerationHandlersIgnoreNonAdmin(t *testing.T) {
	h := &Handler{cfg: &config.Config{AdminID: 1}}

	msg := &models.Update{Message: &models.Message{
		From: &models.User{ID: 2},
		Chat: models.Chat{ID: 2},
	}}
	cb := &models.Update{CallbackQuery: &models.CallbackQuery{
		From: models.User{ID: 2},
		Data: "approve_payment_7",
	}}

	cases := []struct {
		name   string
		fn     func(context.Context, *bot.Bot, *models.Update)
		update *models.Update
	}{
		{"payment queue", h.handlePaymentQueue, msg},
		{"completion queue", h.handleCompletionQueue, msg},
		{"approve payment", h.handleApprovePayment, cb},
		{"reject payment", h.handleRejectPayment, cb},
		{"verify task", h.handleVerifyTask, cb},
		{"reject task", h.handleRejectTask, cb},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(context.Background(), nil, tc.update)
		})
	}
}
