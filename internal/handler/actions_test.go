package handler

import (
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestParseID(t *testing.T) {
	id, err := parseID("take_task_42", cbTakeTask)
	if err != nil {
		t.Fatalf("parseID: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}

	if _, err := parseID("take_task_abc", cbTakeTask); err == nil {
		t.Fatal("expected error for non-numeric payload")
	}
	if _, err := parseID("take_task_", cbTakeTask); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestParseUserTask(t *testing.T) {
	userID, taskID, err := parseUserTask("verify_task_7_42", cbVerifyTask)
	if err != nil {
		t.Fatalf("parseUserTask: %v", err)
	}
	if userID != 7 || taskID != 42 {
		t.Fatalf("got (%d, %d), want (7, 42)", userID, taskID)
	}

	bad := []string{
		"verify_task_7",
		"verify_task_x_42",
		"verify_task_7_y",
	}
	for _, data := range bad {
		if _, _, err := parseUserTask(data, cbVerifyTask); err == nil {
			t.Errorf("parseUserTask(%q): expected error", data)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("короткий", 50); got != "короткий" {
		t.Fatalf("got %q", got)
	}
	got := truncate("очень длинное описание задания", 10)
	if got != "очень длин..." {
		t.Fatalf("got %q", got)
	}
}

func TestCallbackChat(t *testing.T) {
	cb := &models.CallbackQuery{Message: models.MaybeInaccessibleMessage{
		Message: &models.Message{ID: 421, Chat: models.Chat{ID: 9}},
	}}
	chatID, messageID := callbackChat(cb)
	if chatID != 9 || messageID != 421 {
		t.Fatalf("got (%d, %d), want (9, 421)", chatID, messageID)
	}

	chatID, messageID = callbackChat(&models.CallbackQuery{})
	if chatID != 0 || messageID != 0 {
		t.Fatalf("inaccessible message: got (%d, %d), want zeros", chatID, messageID)
	}
}
