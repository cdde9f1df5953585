package middleware

import "testing"

func TestStartPayload(t *testing.T) {
	tests := []struct {
		text string
		want int64
	}{
		{"/start 12345", 12345},
		{"/start  12345 ", 12345},
		{"/start", 0},
		{"/start abc", 0},
		{"/start -5", 0},
		{"/start 0", 0},
		{"привет", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := startPayload(tt.text); got != tt.want {
			t.Errorf("startPayload(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
