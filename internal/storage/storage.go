// Package storage defines the ledger store contract shared by the Postgres
// implementation and the in-memory implementation used in tests.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
)

// Store is the single source of truth for users, tasks, completions,
// payments and referral earnings. Every balance mutation goes through it.
//
// WithTx runs fn against a store bound to one transaction; fn returning an
// error rolls the whole transaction back. A store passed to fn must not be
// used after fn returns.
type Store interface {
	WithTx(ctx context.Context, fn func(Store) error) error

	// Users.
	CreateUser(ctx context.Context, telegramID int64, username string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserForUpdate(ctx context.Context, id int64) (*domain.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	UpdateUsername(ctx context.Context, id int64, username string) error
	SetReferrer(ctx context.Context, id, referrerID int64) error
	AddEarnings(ctx context.Context, id int64, amount decimal.Decimal) error
	AddReferralEarnings(ctx context.Context, id int64, amount decimal.Decimal) error
	AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) error
	SetBanned(ctx context.Context, id int64, banned bool) error
	ListUsers(ctx context.Context, limit int) ([]domain.User, error)
	ListActiveTelegramIDs(ctx context.Context) ([]int64, error)
	GetUserOverview(ctx context.Context, id int64) (*domain.UserOverview, error)
	GetStats(ctx context.Context) (*domain.Stats, error)

	// Tasks.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	GetTaskForUpdate(ctx context.Context, id int64) (*domain.Task, error)
	ListAvailableTasks(ctx context.Context) ([]domain.Task, error)
	ListAllTasks(ctx context.Context) ([]domain.Task, error)
	SetTaskActive(ctx context.Context, id int64, active bool) error
	AdjustCompletionsCount(ctx context.Context, id int64, delta int) error
	DeleteTask(ctx context.Context, id int64) error

	// Completions.
	CreateCompletion(ctx context.Context, userID, taskID int64, proofs []string) (*domain.Completion, error)
	GetCompletion(ctx context.Context, userID, taskID int64) (*domain.Completion, error)
	MarkVerified(ctx context.Context, completionID int64) error
	DeleteCompletion(ctx context.Context, completionID int64) error
	ListPendingCompletions(ctx context.Context) ([]domain.PendingCompletion, error)

	// Payments.
	CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetPaymentForUpdate(ctx context.Context, id int64) (*domain.Payment, error)
	SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	ListPendingPayments(ctx context.Context) ([]domain.PendingPayment, error)

	// Referral earnings.
	CreateReferralEarning(ctx context.Context, earning *domain.ReferralEarning) error
	ListReferralEarnings(ctx context.Context, referrerID int64, limit int) ([]domain.ReferralEarningDetail, error)
}
