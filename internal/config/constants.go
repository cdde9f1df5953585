package config

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Flow state lifetime in the session store
	SessionTTL = 24 * time.Hour

	// Admin listing limits
	UsersPageLimit         = 50
	RecentReferralEarnings = 5

	// Task link title fetch
	LinkPreviewTimeout = 10 * time.Second
)

var (
	// MinWithdrawal is the smallest amount a user may request, in RUB.
	MinWithdrawal = decimal.NewFromInt(50)

	// ReferralShare is the fraction of each verified reward paid to the
	// earner's referrer.
	ReferralShare = decimal.NewFromFloat(0.10)
)
