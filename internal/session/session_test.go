package session

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
)

func browseOver(n int) *BrowseData {
	tasks := make([]domain.Task, n)
	for i := range tasks {
		tasks[i] = domain.Task{ID: int64(i + 1), Active: true}
	}
	return &BrowseData{Tasks: tasks}
}

func TestBrowseCursorBounds(t *testing.T) {
	b := browseOver(2)

	if b.HasPrev() {
		t.Fatal("HasPrev at start")
	}
	if b.Prev() {
		t.Fatal("Prev below lower bound must not move")
	}
	task, ok := b.Current()
	if !ok || task.ID != 1 {
		t.Fatalf("Current = %v %v, want task 1", task, ok)
	}

	if !b.Next() {
		t.Fatal("Next within snapshot must move")
	}
	task, _ = b.Current()
	if task.ID != 2 {
		t.Fatalf("Current after Next = %d, want 2", task.ID)
	}
	if b.HasNext() {
		t.Fatal("HasNext at last task")
	}

	// Walking past the end reports false and ends the browse.
	if b.Next() {
		t.Fatal("Next past end must report false")
	}
	if _, ok := b.Current(); ok {
		t.Fatal("Current past end must report false")
	}
	if !b.Prev() {
		t.Fatal("Prev from past-end must move back")
	}
}

func TestBrowseSingleTask(t *testing.T) {
	b := browseOver(1)
	if b.HasPrev() || b.HasNext() {
		t.Fatal("single task snapshot has no navigation")
	}
}

func TestMemoryManagerKeepsPreviewMessageID(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	in := &State{
		Flow: FlowBroadcast,
		Step: StepPreviewing,
		Broadcast: &BroadcastData{
			Content:          domain.BroadcastContent{Text: "привет"},
			PreviewMessageID: 421,
		},
	}
	if err := m.Set(ctx, 100, in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	out, err := m.Get(ctx, 100)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Broadcast == nil || out.Broadcast.PreviewMessageID != 421 {
		t.Fatalf("broadcast data = %+v", out.Broadcast)
	}
}

func TestMemoryManagerRoundtrip(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	// Unknown user gets a zero state.
	state, err := m.Get(ctx, 100)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Flow != FlowNone {
		t.Fatalf("flow = %q, want none", state.Flow)
	}

	in := &State{
		Flow: FlowSubmission,
		Step: StepAwaitMoreProof,
		Submission: &SubmissionData{
			TaskID: 7,
			Reward: decimal.RequireFromString("25.50"),
			Proofs: []string{"photo-1", "photo-2"},
		},
	}
	if err := m.Set(ctx, 100, in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	out, err := m.Get(ctx, 100)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Flow != FlowSubmission || out.Step != StepAwaitMoreProof {
		t.Fatalf("state = %+v", out)
	}
	if out.Submission == nil || out.Submission.TaskID != 7 || len(out.Submission.Proofs) != 2 {
		t.Fatalf("submission data = %+v", out.Submission)
	}
	if !out.Submission.Reward.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("reward = %s", out.Submission.Reward)
	}

	// Per-user isolation.
	other, err := m.Get(ctx, 200)
	if err != nil {
		t.Fatal(err)
	}
	if other.Flow != FlowNone {
		t.Fatal("state leaked across users")
	}

	if err := m.Clear(ctx, 100); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	cleared, err := m.Get(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	if cleared.Flow != FlowNone {
		t.Fatal("state survived Clear")
	}
}
