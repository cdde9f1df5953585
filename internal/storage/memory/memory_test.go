package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/storage"
)

func TestWithTxRollsBackOnError(t *testing.T) {
	store := New()
	ctx := context.Background()

	user, err := store.CreateUser(ctx, 100, "worker")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AddEarnings(ctx, user.ID, decimal.RequireFromString("50")); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err = store.WithTx(ctx, func(st storage.Store) error {
		if err := st.AddEarnings(ctx, user.ID, decimal.RequireFromString("25")); err != nil {
			return err
		}
		if _, err := st.CreateUser(ctx, 200, "other"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v, want boom", err)
	}

	got, err := store.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Balance.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("balance = %s, want 50 after rollback", got.Balance)
	}
	if _, err := store.GetUserByTelegramID(ctx, 200); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("rolled-back user still visible: err = %v", err)
	}
}

func TestWithTxCommits(t *testing.T) {
	store := New()
	ctx := context.Background()

	user, err := store.CreateUser(ctx, 100, "worker")
	if err != nil {
		t.Fatal(err)
	}
	err = store.WithTx(ctx, func(st storage.Store) error {
		return st.AddEarnings(ctx, user.ID, decimal.RequireFromString("25"))
	})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := store.GetUser(ctx, user.ID)
	if !got.Balance.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("balance = %s, want 25", got.Balance)
	}
}

func TestAdjustBalanceNeverNegative(t *testing.T) {
	store := New()
	ctx := context.Background()

	user, err := store.CreateUser(ctx, 100, "worker")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AddEarnings(ctx, user.ID, decimal.RequireFromString("10")); err != nil {
		t.Fatal(err)
	}

	err = store.AdjustBalance(ctx, user.ID, decimal.RequireFromString("-20"))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	got, _ := store.GetUser(ctx, user.ID)
	if !got.Balance.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("balance = %s, want 10", got.Balance)
	}
}

func TestCompletionUniqueness(t *testing.T) {
	store := New()
	ctx := context.Background()

	user, _ := store.CreateUser(ctx, 100, "worker")
	task, err := store.CreateTask(ctx, &domain.Task{
		Description: "задание",
		Reward:      decimal.RequireFromString("10"),
		Active:      true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.CreateCompletion(ctx, user.ID, task.ID, []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateCompletion(ctx, user.ID, task.ID, []string{"b"}); !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestListUsersOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	rich, _ := store.CreateUser(ctx, 1, "rich")
	poor, _ := store.CreateUser(ctx, 2, "poor")
	outlaw, _ := store.CreateUser(ctx, 3, "outlaw")

	store.AddEarnings(ctx, rich.ID, decimal.RequireFromString("100"))
	store.AddEarnings(ctx, outlaw.ID, decimal.RequireFromString("500"))
	store.SetBanned(ctx, outlaw.ID, true)

	users, err := store.ListUsers(ctx, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 3 {
		t.Fatalf("users = %d, want 3", len(users))
	}
	// Active first ordered by balance, banned last.
	if users[0].ID != rich.ID || users[1].ID != poor.ID || users[2].ID != outlaw.ID {
		t.Fatalf("order = %d,%d,%d want %d,%d,%d",
			users[0].ID, users[1].ID, users[2].ID, rich.ID, poor.ID, outlaw.ID)
	}

	limited, err := store.ListUsers(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Fatalf("limited users = %d, want 2", len(limited))
	}
}

func TestGetStats(t *testing.T) {
	store := New()
	ctx := context.Background()

	user, _ := store.CreateUser(ctx, 1, "worker")
	banned, _ := store.CreateUser(ctx, 2, "outlaw")
	store.SetBanned(ctx, banned.ID, true)
	store.AddEarnings(ctx, user.ID, decimal.RequireFromString("80"))

	task, _ := store.CreateTask(ctx, &domain.Task{
		Description: "задание",
		Reward:      decimal.RequireFromString("80"),
		Active:      true,
	})
	store.CreateCompletion(ctx, user.ID, task.ID, []string{"a"})

	payment, _ := store.CreatePayment(ctx, &domain.Payment{
		Reference: "ref-1", UserID: user.ID,
		Amount: decimal.RequireFromString("50"),
		Method: domain.PaymentMethodCard, Destination: "Сбер, 1234",
	})
	store.AdjustBalance(ctx, user.ID, decimal.RequireFromString("-50"))

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Users != 2 || stats.Banned != 1 || stats.ActiveTasks != 1 || stats.Completions != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if !stats.TotalBalance.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("total balance = %s, want 30", stats.TotalBalance)
	}
	if !stats.PendingPayout.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("pending payout = %s, want 50", stats.PendingPayout)
	}

	store.SetPaymentStatus(ctx, payment.ID, domain.PaymentStatusApproved)
	stats, _ = store.GetStats(ctx)
	if !stats.PaidOut.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("paid out = %s, want 50", stats.PaidOut)
	}
	if !stats.PendingPayout.IsZero() {
		t.Fatalf("pending payout = %s, want 0", stats.PendingPayout)
	}
}
