package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/config"
	"github.com/perchik2875/ONI/internal/domain"
)

func TestCreateTask(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	ctx := context.Background()

	task, err := svc.Create(ctx, TaskDraft{
		Description:    "  подписаться на канал  ",
		Link:           "https://t.me/example",
		Reward:         decimal.RequireFromString("25.00"),
		MaxCompletions: 3,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Description != "подписаться на канал" {
		t.Fatalf("description not trimmed: %q", task.Description)
	}
	if task.MaxCompletions == nil || *task.MaxCompletions != 3 {
		t.Fatalf("max completions = %v, want 3", task.MaxCompletions)
	}
	if !task.Active {
		t.Fatal("new task must be active")
	}

	unlimited, err := svc.Create(ctx, TaskDraft{
		Description: "без лимита",
		Link:        "https://t.me/example2",
		Reward:      decimal.RequireFromString("10.00"),
	})
	if err != nil {
		t.Fatalf("Create unlimited: %v", err)
	}
	if unlimited.MaxCompletions != nil {
		t.Fatal("zero max completions must mean unlimited")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc := NewTaskService(newTestStore(t))
	ctx := context.Background()

	drafts := []TaskDraft{
		{Description: "", Reward: decimal.RequireFromString("10")},
		{Description: "ok", Reward: decimal.Zero},
		{Description: "ok", Reward: decimal.RequireFromString("-5")},
	}
	for _, draft := range drafts {
		if _, err := svc.Create(ctx, draft); err == nil {
			t.Errorf("Create(%+v): expected error", draft)
		}
	}
}

func TestListAvailableExcludesFullAndInactive(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	subs := NewSubmissionService(store, NewReferralService(config.ReferralShare))
	ctx := context.Background()

	open := mustCreateTask(t, store, "10.00", 0)
	full := mustCreateTask(t, store, "10.00", 1)
	inactive := mustCreateTask(t, store, "10.00", 0)
	if err := svc.SetActive(ctx, inactive.ID, false); err != nil {
		t.Fatal(err)
	}

	user := mustCreateUser(t, store, 100, "worker")
	if _, err := subs.Submit(ctx, user.ID, full.ID, []string{"photo"}); err != nil {
		t.Fatal(err)
	}

	available, err := svc.ListAvailable(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(available) != 1 || available[0].ID != open.ID {
		t.Fatalf("available = %v, want only task %d", available, open.ID)
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("all tasks = %d, want 3", len(all))
	}
}

func TestDeleteTaskCascades(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	subs := NewSubmissionService(store, NewReferralService(config.ReferralShare))
	ctx := context.Background()

	task := mustCreateTask(t, store, "10.00", 0)
	user := mustCreateUser(t, store, 100, "worker")
	if _, err := subs.Submit(ctx, user.ID, task.ID, []string{"photo"}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.GetTask(ctx, task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("task still present: err = %v", err)
	}
	if _, err := store.GetCompletion(ctx, user.ID, task.ID); !errors.Is(err, domain.ErrCompletionNotFound) {
		t.Fatalf("completion survived cascade: err = %v", err)
	}

	if err := svc.Delete(ctx, task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("second delete: err = %v, want ErrTaskNotFound", err)
	}
}
