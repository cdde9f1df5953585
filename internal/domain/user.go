package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                  int64
	TelegramID          int64
	Username            string
	Balance             decimal.Decimal
	Earned              decimal.Decimal
	ReferrerID          *int64
	ReferralCount       int
	EarnedFromReferrals decimal.Decimal
	Banned              bool
	RegisteredAt        time.Time
}

// UserOverview extends User with per-user activity counters shown in the
// admin details view.
type UserOverview struct {
	User
	CompletedTasks int
	Payments       int
}

// Stats is the aggregate snapshot behind the admin statistics screen.
type Stats struct {
	Users            int
	Banned           int
	ActiveTasks      int
	Completions      int
	TotalBalance     decimal.Decimal
	ReferralEarnings decimal.Decimal
	PaidOut          decimal.Decimal
	PendingPayout    decimal.Decimal
}
