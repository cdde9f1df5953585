package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/storage"
)

// TaskService owns the task catalog.
type TaskService struct {
	store storage.Store
}

func NewTaskService(store storage.Store) *TaskService {
	return &TaskService{store: store}
}

// TaskDraft is the admin-authored input for a new task. MaxCompletions of
// zero means unlimited.
type TaskDraft struct {
	Description    string
	Link           string
	Reward         decimal.Decimal
	MaxCompletions int
}

func (s *TaskService) Create(ctx context.Context, draft TaskDraft) (*domain.Task, error) {
	if strings.TrimSpace(draft.Description) == "" || !draft.Reward.IsPositive() {
		return nil, domain.ErrTaskUnavailable
	}
	task := &domain.Task{
		Description: strings.TrimSpace(draft.Description),
		Link:        strings.TrimSpace(draft.Link),
		Reward:      draft.Reward,
		Active:      true,
	}
	if draft.MaxCompletions > 0 {
		max := draft.MaxCompletions
		task.MaxCompletions = &max
	}
	return s.store.CreateTask(ctx, task)
}

func (s *TaskService) Get(ctx context.Context, taskID int64) (*domain.Task, error) {
	return s.store.GetTask(ctx, taskID)
}

// ListAvailable returns tasks a user may still take: active and under the
// completion cap.
func (s *TaskService) ListAvailable(ctx context.Context) ([]domain.Task, error) {
	return s.store.ListAvailableTasks(ctx)
}

func (s *TaskService) ListAll(ctx context.Context) ([]domain.Task, error) {
	return s.store.ListAllTasks(ctx)
}

func (s *TaskService) SetActive(ctx context.Context, taskID int64, active bool) error {
	return s.store.SetTaskActive(ctx, taskID, active)
}

// Delete removes a task together with its completions and proofs.
func (s *TaskService) Delete(ctx context.Context, taskID int64) error {
	return s.store.WithTx(ctx, func(st storage.Store) error {
		if _, err := st.GetTask(ctx, taskID); err != nil {
			return err
		}
		return st.DeleteTask(ctx, taskID)
	})
}
