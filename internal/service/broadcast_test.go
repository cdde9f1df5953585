package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/perchik2875/ONI/internal/domain"
)

func TestBroadcastTalliesOutcomes(t *testing.T) {
	store := newTestStore(t)
	svc := NewBroadcastService(store, slog.Default())
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		mustCreateUser(t, store, i, fmt.Sprintf("user%d", i))
	}

	var delivered []int64
	report, err := svc.Send(ctx, domain.BroadcastContent{Text: "привет"}, func(ctx context.Context, telegramID int64, c domain.BroadcastContent) error {
		if telegramID == 2 || telegramID == 4 {
			return errors.New("blocked by user")
		}
		delivered = append(delivered, telegramID)
		return nil
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if report.Sent != 3 || report.Failed != 2 {
		t.Fatalf("report = %+v, want Sent 3 Failed 2", report)
	}
	if len(delivered) != 3 {
		t.Fatalf("delivered = %v", delivered)
	}
}

func TestBroadcastSkipsBannedUsers(t *testing.T) {
	store := newTestStore(t)
	svc := NewBroadcastService(store, slog.Default())
	ctx := context.Background()

	active := mustCreateUser(t, store, 1, "active")
	banned := mustCreateUser(t, store, 2, "banned")
	if err := store.SetBanned(ctx, banned.ID, true); err != nil {
		t.Fatal(err)
	}

	var delivered []int64
	report, err := svc.Send(ctx, domain.BroadcastContent{Text: "привет"}, func(ctx context.Context, telegramID int64, c domain.BroadcastContent) error {
		delivered = append(delivered, telegramID)
		return nil
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if report.Sent != 1 || len(delivered) != 1 || delivered[0] != active.TelegramID {
		t.Fatalf("report = %+v delivered = %v, want only active user", report, delivered)
	}
}

func TestBroadcastStopsOnCancel(t *testing.T) {
	store := newTestStore(t)
	svc := NewBroadcastService(store, slog.Default())
	for i := int64(1); i <= 3; i++ {
		mustCreateUser(t, store, i, fmt.Sprintf("user%d", i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Send(ctx, domain.BroadcastContent{Text: "x"}, func(ctx context.Context, telegramID int64, c domain.BroadcastContent) error {
		t.Fatal("delivery must not run after cancel")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
