package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralEarning is an append-only audit row: one per referral override
// credited to a referrer.
type ReferralEarning struct {
	ID          int64
	ReferrerID  int64
	ReferralID  int64
	Amount      decimal.Decimal
	EarnedAt    time.Time
	Description string
}

// ReferralEarningDetail joins an earning with the invitee's handle for the
// admin details view.
type ReferralEarningDetail struct {
	ReferralEarning
	ReferralUsername string
}
