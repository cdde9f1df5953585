package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/storage/memory"
)

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.New()
}

func mustCreateUser(t *testing.T, store *memory.Store, telegramID int64, username string) *domain.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), telegramID, username)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTask(t *testing.T, store *memory.Store, reward string, maxCompletions int) *domain.Task {
	t.Helper()
	task := &domain.Task{
		Description: "подписаться на канал",
		Link:        "https://t.me/example",
		Reward:      decimal.RequireFromString(reward),
		Active:      true,
	}
	if maxCompletions > 0 {
		task.MaxCompletions = &maxCompletions
	}
	created, err := store.CreateTask(context.Background(), task)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return created
}

func mustCredit(t *testing.T, store *memory.Store, userID int64, amount string) {
	t.Helper()
	if err := store.AddEarnings(context.Background(), userID, decimal.RequireFromString(amount)); err != nil {
		t.Fatalf("credit user: %v", err)
	}
}

func assertBalance(t *testing.T, store *memory.Store, userID int64, want string) {
	t.Helper()
	user, err := store.GetUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !user.Balance.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("balance = %s, want %s", user.Balance, want)
	}
}
