package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Completion is a single submission attempt of a task by a user. At most one
// row exists per (user, task) pair. Proofs keeps the photo references in the
// order they were submitted.
type Completion struct {
	ID          int64
	UserID      int64
	TaskID      int64
	SubmittedAt time.Time
	Proofs      []string
	Verified    bool
}

// PendingCompletion is a completion awaiting moderation, joined with the
// task and submitter fields the admin queue renders.
type PendingCompletion struct {
	Completion
	TaskDescription string
	Reward          decimal.Decimal
	Username        string
	UserTelegramID  int64
}
