package service

import (
	"context"
	"log/slog"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/metrics"
	"github.com/perchik2875/ONI/internal/storage"
)

// Delivery sends one broadcast message to one chat. The handler layer
// supplies the actual Telegram call so the fan-out stays transport-free.
type Delivery func(ctx context.Context, telegramID int64, content domain.BroadcastContent) error

// BroadcastService fans an admin message out to every non-banned user.
type BroadcastService struct {
	store storage.Store
	log   *slog.Logger
}

func NewBroadcastService(store storage.Store, log *slog.Logger) *BroadcastService {
	return &BroadcastService{store: store, log: log}
}

// BroadcastReport tallies the fan-out outcome.
type BroadcastReport struct {
	Sent   int
	Failed int
}

// Send delivers content to all active users one by one. Individual delivery
// failures (blocked bot, deleted account) are counted, not fatal.
func (s *BroadcastService) Send(ctx context.Context, content domain.BroadcastContent, deliver Delivery) (BroadcastReport, error) {
	ids, err := s.store.ListActiveTelegramIDs(ctx)
	if err != nil {
		return BroadcastReport{}, err
	}

	var report BroadcastReport
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := deliver(ctx, id, content); err != nil {
			report.Failed++
			metrics.BroadcastDeliveries.WithLabelValues("failed").Inc()
			s.log.Warn("broadcast delivery failed", "telegram_id", id, "error", err)
			continue
		}
		report.Sent++
		metrics.BroadcastDeliveries.WithLabelValues("sent").Inc()
	}
	return report, nil
}
