package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Task struct {
	ID               int64
	Description      string
	Link             string
	Reward           decimal.Decimal
	CreatedAt        time.Time
	Active           bool
	MaxCompletions   *int
	CompletionsCount int
}

// Available reports whether the task may still be offered: it must be active
// and must have a free completion slot. Slots count both pending and verified
// submissions, so a rejected submission reopens one.
func (t *Task) Available() bool {
	if !t.Active {
		return false
	}
	if t.MaxCompletions == nil {
		return true
	}
	return t.CompletionsCount < *t.MaxCompletions
}
