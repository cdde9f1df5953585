package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessageShort(t *testing.T) {
	parts := SplitMessage("короткое сообщение", 100)
	if len(parts) != 1 || parts[0] != "короткое сообщение" {
		t.Fatalf("parts = %v", parts)
	}
}

func TestSplitMessageAtNewline(t *testing.T) {
	text := strings.Repeat("строка\n", 40)
	parts := SplitMessage(text, 100)

	if len(parts) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(parts))
	}
	for i, part := range parts {
		if utf8.RuneCountInString(part) > 100 {
			t.Fatalf("part %d exceeds limit: %d runes", i, utf8.RuneCountInString(part))
		}
	}
	if strings.Join(parts, "") != text {
		t.Fatal("parts do not reassemble the original text")
	}
	// Splits should land on line boundaries.
	for i, part := range parts[:len(parts)-1] {
		if !strings.HasSuffix(part, "\n") {
			t.Fatalf("part %d does not end at a newline", i)
		}
	}
}

func TestSplitMessageMultibyteNewline(t *testing.T) {
	// A newline just under the limit in multibyte text must be found by
	// rune position, not byte position.
	text := strings.Repeat("щ", 99) + "\n" + strings.Repeat("щ", 50)
	parts := SplitMessage(text, 100)

	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	if !strings.HasSuffix(parts[0], "\n") {
		t.Fatal("first part does not end at the newline")
	}
	if got := utf8.RuneCountInString(parts[0]); got != 100 {
		t.Fatalf("first part = %d runes, want 100", got)
	}
	if strings.Join(parts, "") != text {
		t.Fatal("parts do not reassemble the original text")
	}
}

func TestSplitMessageNoNewlines(t *testing.T) {
	text := strings.Repeat("щ", 250)
	parts := SplitMessage(text, 100)
	if len(parts) != 3 {
		t.Fatalf("parts = %d, want 3", len(parts))
	}
	if strings.Join(parts, "") != text {
		t.Fatal("parts do not reassemble the original text")
	}
}
