package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/metrics"
	"github.com/perchik2875/ONI/internal/storage"
)

// SubmissionService owns the task submission lifecycle: taking a task,
// recording the proof set, and the admin approve/reject decisions over
// pending completions.
type SubmissionService struct {
	store     storage.Store
	referrals *ReferralService
}

func NewSubmissionService(store storage.Store, referrals *ReferralService) *SubmissionService {
	return &SubmissionService{store: store, referrals: referrals}
}

// CanTake is the entry guard for the submission flow: the task must exist,
// be offerable, and the user must not have attempted it before.
func (s *SubmissionService) CanTake(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	if _, err := s.store.GetCompletion(ctx, userID, taskID); err == nil {
		return nil, domain.ErrAlreadySubmitted
	}

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Available() {
		return nil, domain.ErrTaskUnavailable
	}
	return task, nil
}

// Submit finalizes a proof buffer into a pending completion. The uniqueness
// guard is re-checked inside the transaction so a stale "done" press cannot
// record a second submission, and the task counter moves with the insert.
func (s *SubmissionService) Submit(ctx context.Context, userID, taskID int64, proofs []string) (*domain.Completion, error) {
	if len(proofs) == 0 {
		return nil, domain.ErrEmptyProof
	}

	var completion *domain.Completion
	err := s.store.WithTx(ctx, func(st storage.Store) error {
		task, err := st.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if !task.Available() {
			return domain.ErrTaskUnavailable
		}

		completion, err = st.CreateCompletion(ctx, userID, taskID, proofs)
		if err != nil {
			return err
		}
		return st.AdjustCompletionsCount(ctx, taskID, 1)
	})
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// ApprovalResult carries what the post-commit notifications need.
type ApprovalResult struct {
	TaskID         int64
	Reward         decimal.Decimal
	UserTelegramID int64
	Referral       *ReferralAward
}

// Approve verifies a pending completion and credits the reward. Verified is
// re-checked inside the transaction, so a second approve never credits
// twice. The referral override is posted in the same transaction.
func (s *SubmissionService) Approve(ctx context.Context, userID, taskID int64) (*ApprovalResult, error) {
	var res *ApprovalResult
	err := s.store.WithTx(ctx, func(st storage.Store) error {
		completion, err := st.GetCompletion(ctx, userID, taskID)
		if err != nil {
			return err
		}
		if completion.Verified {
			return domain.ErrAlreadyVerified
		}

		task, err := st.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		user, err := st.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if err := st.MarkVerified(ctx, completion.ID); err != nil {
			return err
		}
		if err := st.AddEarnings(ctx, userID, task.Reward); err != nil {
			return fmt.Errorf("credit reward: %w", err)
		}

		award, err := s.referrals.Award(ctx, st, user, task.Reward, fmt.Sprintf("Задание #%d", taskID))
		if err != nil {
			return err
		}

		res = &ApprovalResult{
			TaskID:         taskID,
			Reward:         task.Reward,
			UserTelegramID: user.TelegramID,
			Referral:       award,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CompletionsModerated.WithLabelValues("approved").Inc()
	return res, nil
}

// RejectionResult carries what the post-commit notifications need.
type RejectionResult struct {
	TaskID         int64
	UserTelegramID int64
}

// Reject deletes a pending completion together with its proof sequence and
// reopens the task slot. The user is free to resubmit afterwards.
func (s *SubmissionService) Reject(ctx context.Context, userID, taskID int64) (*RejectionResult, error) {
	var res *RejectionResult
	err := s.store.WithTx(ctx, func(st storage.Store) error {
		completion, err := st.GetCompletion(ctx, userID, taskID)
		if err != nil {
			return err
		}
		if completion.Verified {
			return domain.ErrAlreadyVerified
		}

		user, err := st.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := st.DeleteCompletion(ctx, completion.ID); err != nil {
			return err
		}
		if err := st.AdjustCompletionsCount(ctx, taskID, -1); err != nil {
			return err
		}

		res = &RejectionResult{TaskID: taskID, UserTelegramID: user.TelegramID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CompletionsModerated.WithLabelValues("rejected").Inc()
	return res, nil
}

func (s *SubmissionService) ListPending(ctx context.Context) ([]domain.PendingCompletion, error) {
	return s.store.ListPendingCompletions(ctx)
}
