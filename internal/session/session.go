// Package session holds the per-user ephemeral flow state: which multi-step
// flow a user is in, which step of it, and the data collected so far.
package session

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
)

type Flow string

const (
	FlowNone       Flow = ""
	FlowBrowse     Flow = "browse"
	FlowSubmission Flow = "submission"
	FlowWithdrawal Flow = "withdrawal"
	FlowTaskCreate Flow = "task_create"
	FlowBroadcast  Flow = "broadcast"
)

type Step string

const (
	StepNone Step = ""

	// Submission.
	StepAwaitProof     Step = "await_proof"
	StepAwaitMoreProof Step = "await_more_proof"

	// Withdrawal.
	StepChooseMethod     Step = "choose_method"
	StepAwaitAmount      Step = "await_amount"
	StepAwaitDestination Step = "await_destination"

	// Task authoring.
	StepTaskDescription Step = "task_description"
	StepTaskLink        Step = "task_link"
	StepTaskReward      Step = "task_reward"
	StepTaskMaxCount    Step = "task_max_count"

	// Broadcast.
	StepCompose    Step = "compose"
	StepPreviewing Step = "previewing"
)

// State is a tagged union: Flow selects which data pointer is set, and each
// flow carries only the fields it needs.
type State struct {
	Flow Flow `json:"flow"`
	Step Step `json:"step"`

	Browse     *BrowseData     `json:"browse,omitempty"`
	Submission *SubmissionData `json:"submission,omitempty"`
	Withdrawal *WithdrawalData `json:"withdrawal,omitempty"`
	TaskCreate *TaskCreateData `json:"task_create,omitempty"`
	Broadcast  *BroadcastData  `json:"broadcast,omitempty"`
}

// BrowseData is a task snapshot taken at browse start plus a cursor into it.
// The snapshot is deliberately not re-queried mid-browse.
type BrowseData struct {
	Tasks  []domain.Task `json:"tasks"`
	Cursor int           `json:"cursor"`
}

func (b *BrowseData) Current() (*domain.Task, bool) {
	if b.Cursor < 0 || b.Cursor >= len(b.Tasks) {
		return nil, false
	}
	return &b.Tasks[b.Cursor], true
}

func (b *BrowseData) HasPrev() bool { return b.Cursor > 0 }
func (b *BrowseData) HasNext() bool { return b.Cursor < len(b.Tasks)-1 }

// Prev moves the cursor back one task; it reports false at the lower bound.
func (b *BrowseData) Prev() bool {
	if !b.HasPrev() {
		return false
	}
	b.Cursor--
	return true
}

// Next moves the cursor forward one task; it reports false past the end of
// the snapshot, which ends the browse session.
func (b *BrowseData) Next() bool {
	if b.Cursor >= len(b.Tasks) {
		return false
	}
	b.Cursor++
	return b.Cursor < len(b.Tasks)
}

type SubmissionData struct {
	TaskID int64           `json:"task_id"`
	Reward decimal.Decimal `json:"reward"`
	Proofs []string        `json:"proofs"`
}

type WithdrawalData struct {
	Method domain.PaymentMethod `json:"method"`
	Amount decimal.Decimal      `json:"amount"`
}

type TaskCreateData struct {
	Description string          `json:"description"`
	Link        string          `json:"link"`
	LinkTitle   string          `json:"link_title,omitempty"`
	Reward      decimal.Decimal `json:"reward"`
}

type BroadcastData struct {
	Content          domain.BroadcastContent `json:"content"`
	PreviewMessageID int                     `json:"preview_message_id"`
}

// Manager persists flow state across independent inbound events, isolated
// per user. Get returns a zero State when the user has none.
type Manager interface {
	Get(ctx context.Context, userID int64) (*State, error)
	Set(ctx context.Context, userID int64, state *State) error
	Clear(ctx context.Context, userID int64) error
}
