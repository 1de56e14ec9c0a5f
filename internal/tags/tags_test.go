package tags

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       []string
	}{
		{
			name:       "single category",
			transcript: "Hit the gym every day this week",
			want:       []string{"exercise"},
		},
		{
			name:       "multiple categories in fixed order",
			transcript: "Tracked my meals and crushed every workout, feeling proud",
			want:       []string{"nutrition", "exercise", "success", "mood"},
		},
		{
			name:       "case-insensitive",
			transcript: "NEW DIET going well",
			want:       []string{"nutrition"},
		},
		{
			name:       "substring match",
			transcript: "Felt very motivated after the call",
			want:       []string{"motivation"},
		},
		{
			name:       "no match falls back to general",
			transcript: "Checked in on Tuesday",
			want:       []string{"general"},
		},
		{
			name:       "empty transcript",
			transcript: "",
			want:       []string{"general"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.transcript); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %v, want %v", tt.transcript, got, tt.want)
			}
		})
	}
}

// Tag output is never empty, for any transcript.
func TestClassify_NeverEmpty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		transcript := rapid.String().Draw(rt, "transcript")
		got := Classify(transcript)
		if len(got) == 0 {
			rt.Fatalf("Classify(%q) returned no tags", transcript)
		}
	})
}
