package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/config"
	"github.com/perchik2875/ONI/internal/domain"
)

func TestSubmitRequiresProof(t *testing.T) {
	store := newTestStore(t)
	svc := NewSubmissionService(store, NewReferralService(config.ReferralShare))
	user := mustCreateUser(t, store, 100, "worker")
	task := mustCreateTask(t, store, "25.00", 0)

	_, err := svc.Submit(context.Background(), user.ID, task.ID, nil)
	if !errors.Is(err, domain.ErrEmptyProof) {
		t.Fatalf("Submit with no proofs: err = %v, want ErrEmptyProof", err)
	}
}

func TestSubmitUniquePerUserTask(t *testing.T) {
	store := newTestStore(t)
	svc := NewSubmissionService(store, NewReferralService(config.ReferralShare))
	user := mustCreateUser(t, store, 100, "worker")
	task := mustCreateTask(t, store, "25.00", 0)

	if _, err := svc.Submit(context.Background(), user.ID, task.ID, []string{"photo-1"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(context.Background(), user.ID, task.ID, []string{"photo-2"})
	if !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("second submit: err = %v, want ErrAlreadySubmitted", err)
	}

	got, err := store.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CompletionsCount != 1 {
		t.Fatalf("completions count = %d, want 1", got.CompletionsCount)
	}
}

func TestCanTakeChecksAvailability(t *testing.T) {
	store := newTestStore(t)
	svc := NewSubmissionService(store, NewReferralService(config.ReferralShare))
	first := mustCreateUser(t, store, 100, "first")
	second := mustCreateUser(t, store, 200, "second")
	task := mustCreateTask(t, store, "25.00", 1)

	if _, err := svc.Submit(context.Background(), first.ID, task.ID, []string{"photo"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.CanTake(context.Background(), second.ID, task.ID); !errors.Is(err, domain.ErrTaskUnavailable) {
		t.Fatalf("CanTake on full task: err = %v, want ErrTaskUnavailable", err)
	}
	if _, err := svc.CanTake(context.Background(), first.ID, task.ID); !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("CanTake after own submit: err = %v, want ErrAlreadySubmitted", err)
	}
	if _, err := svc.CanTake(context.Background(), second.ID, 999); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("CanTake on missing task: err = %v, want ErrTaskNotFound", err)
	}
}

func TestApproveCreditsRewardOnce(t *testing.T) {
	store := newTestStore(t)
	svc := NewSubmissionService(store, NewReferralService(config.ReferralShare))
	user := mustCreateUser(t, store, 100, "worker")
	task := mustCreateTask(t, store, "25.50", 0)

	if _, err := svc.Submit(context.Background(), user.ID, task.ID, []string{"photo"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	res, err := svc.Approve(context.Background(), user.ID, task.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !res.Reward.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("reward = %s, want 25.50", res.Reward)
	}
	if res.Referral != nil {
		t.Fatalf("unexpected referral award for user without referrer")
	}
	assertBalance(t, store, user.ID, "25.50")

	if _, err := svc.Approve(context.Background(), user.ID, task.ID); !errors.Is(err, domain.ErrAlreadyVerified) {
		t.Fatalf("second approve: err = %v, want ErrAlreadyVerified", err)
	}
	assertBalance(t, store, user.ID, "25.50")
}

func TestApprovePaysReferralOneLevelOnly(t *testing.T) {
	store := newTestStore(t)
	svc := NewSubmissionService(store, NewReferralService(config.ReferralShare))
	ctx := context.Background()

	grand := mustCreateUser(t, store, 1, "grand")
	parent := mustCreateUser(t, store, 2, "parent")
	worker := mustCreateUser(t, store, 3, "worker")
	if err := store.SetReferrer(ctx, parent.ID, grand.ID); err != nil {
		t.Fatal(err)
	}
	if err := store.SetReferrer(ctx, worker.ID, parent.ID); err != nil {
		t.Fatal(err)
	}

	task := mustCreateTask(t, store, "100.00", 0)
	if _, err := svc.Submit(ctx, worker.ID, task.ID, []string{"photo"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	res, err := svc.Approve(ctx, worker.ID, task.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if res.Referral == nil {
		t.Fatal("expected referral award")
	}
	if !res.Referral.Bonus.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("bonus = %s, want 10.00", res.Referral.Bonus)
	}

	assertBalance(t, store, worker.ID, "100.00")
	assertBalance(t, store, parent.ID, "10.00")
	assertBalance(t, store, grand.ID, "0")

	earnings, err := store.ListReferralEarnings(ctx, parent.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(earnings) != 1 {
		t.Fatalf("referral earnings rows = %d, want 1", len(earnings))
	}
}

func TestRejectReopensSlotAndAllowsResubmission(t *testing.T) {
	store := newTestStore(t)
	svc := NewSubmissionService(store, NewReferralService(config.ReferralShare))
	ctx := context.Background()
	user := mustCreateUser(t, store, 100, "worker")
	task := mustCreateTask(t, store, "25.00", 1)

	if _, err := svc.Submit(ctx, user.ID, task.ID, []string{"photo"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, _ := store.GetTask(ctx, task.ID)
	if got.Available() {
		t.Fatal("task should be full after submission")
	}

	res, err := svc.Reject(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if res.UserTelegramID != 100 {
		t.Fatalf("telegram id = %d, want 100", res.UserTelegramID)
	}
	assertBalance(t, store, user.ID, "0")

	got, _ = store.GetTask(ctx, task.ID)
	if !got.Available() {
		t.Fatal("task slot should reopen after rejection")
	}

	// Rejection deletes the attempt entirely, so resubmission is allowed.
	if _, err := svc.Submit(ctx, user.ID, task.ID, []string{"photo-2"}); err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}
}

func TestRejectVerifiedCompletion(t *testing.T) {
	store := newTestStore(t)
	svc := NewSubmissionService(store, NewReferralService(config.ReferralShare))
	ctx := context.Background()
	user := mustCreateUser(t, store, 100, "worker")
	task := mustCreateTask(t, store, "25.00", 0)

	if _, err := svc.Submit(ctx, user.ID, task.ID, []string{"photo"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Approve(ctx, user.ID, task.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.Reject(ctx, user.ID, task.ID); !errors.Is(err, domain.ErrAlreadyVerified) {
		t.Fatalf("reject after approve: err = %v, want ErrAlreadyVerified", err)
	}
}
