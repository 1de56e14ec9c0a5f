// Package tags labels check-in transcripts with coarse content categories.
// This is best-effort keyword matching, not understanding: overlapping
// categories are all kept and accuracy is not guaranteed.
package tags

import "strings"

// DefaultTag is applied when no category keyword matches
const DefaultTag = "general"

// category pairs a tag with the keywords that trigger it. The slice order
// fixes the output order so classification is deterministic.
var categories = []struct {
	tag      string
	keywords []string
}{
	{"nutrition", []string{"food", "diet", "meal", "calories", "nutrition", "eating"}},
	{"exercise", []string{"workout", "gym", "training", "exercise", "run", "cardio"}},
	{"motivation", []string{"motivat", "inspired", "excited", "committed"}},
	{"challenge", []string{"struggle", "difficult", "hard time", "challenge", "setback"}},
	{"success", []string{"achieved", "success", "progress", "milestone", "proud", "win"}},
	{"energy", []string{"energy", "tired", "exhausted", "fatigue", "rested"}},
	{"mood", []string{"mood", "happy", "sad", "stressed", "anxious", "feeling"}},
}

// Classify returns the matching category tags for a transcript, in fixed
// category order. The result is never empty: with no matches it is exactly
// [DefaultTag].
func Classify(transcript string) []string {
	lower := strings.ToLower(transcript)

	var matched []string
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, c.tag)
				break
			}
		}
	}

	if len(matched) == 0 {
		return []string{DefaultTag}
	}
	return matched
}
