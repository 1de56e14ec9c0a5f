package dedup

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestEventID(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "event_id preferred",
			payload: map[string]any{"event_id": "evt_1", "submission_id": "sub_1"},
			want:    "evt_1",
		},
		{
			name:    "camelCase alias",
			payload: map[string]any{"eventId": "evt_2"},
			want:    "evt_2",
		},
		{
			name:    "submission id",
			payload: map[string]any{"submission_id": " sub_9 "},
			want:    "sub_9",
		},
		{
			name:    "non-string ignored",
			payload: map[string]any{"event_id": 42},
			want:    "",
		},
		{
			name:    "absent",
			payload: map[string]any{"message": "hi"},
			want:    "",
		},
		{
			name:    "blank ignored",
			payload: map[string]any{"event_id": "   ", "response_id": "r1"},
			want:    "r1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EventID(tt.payload); got != tt.want {
				t.Errorf("EventID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_EmptyURLDisables(t *testing.T) {
	g, err := New("", zerolog.Nop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if g != nil {
		t.Error("expected nil guard for empty URL")
	}
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New("not a url", zerolog.Nop()); err == nil {
		t.Error("expected error for invalid redis URL")
	}
}
