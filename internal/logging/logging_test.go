package logging

import (
	"strings"
	"testing"
)

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		maxLen int
		want   string
	}{
		{"short passes through", "hello", 10, "hello"},
		{"exact length passes through", "hello", 5, "hello"},
		{"long is truncated", strings.Repeat("a", 20), 8, "aaaaaaaa...[truncated]"},
		{"empty", "", 8, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeForLog(tt.data, tt.maxLen); got != tt.want {
				t.Errorf("SanitizeForLog = %q, want %q", got, tt.want)
			}
		})
	}
}
