// Package transcript turns a webhook payload into the free-text
// representation consumed by downstream AI features. The derivation is lossy
// toward structure: producing some readable text always beats fidelity.
package transcript

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// directFields are checked in order; the first non-empty string is the
// transcript verbatim, never combined with other fields.
var directFields = []string{"transcript", "message", "notes", "checkin_notes"}

// excludedFields were either consumed for identity extraction or are
// provider bookkeeping with no conversational content.
var excludedFields = map[string]bool{
	"client_name":         true,
	"clientName":          true,
	"name":                true,
	"first_name":          true,
	"last_name":           true,
	"firstName":           true,
	"lastName":            true,
	"contact":             true,
	"contact_id":          true,
	"contactId":           true,
	"ghl_contact_id":      true,
	"external_contact_id": true,
	"email":               true,
	"phone":               true,
	"phone_number":        true,
	"id":                  true,
	"event_id":            true,
	"eventId":             true,
	"submission_id":       true,
	"response_id":         true,
	"timestamp":           true,
	"created_at":          true,
	"createdAt":           true,
	"submitted_at":        true,
	"submittedAt":         true,
}

// Derive produces a non-empty transcript for any well-formed JSON object.
func Derive(payload map[string]any) string {
	for _, field := range directFields {
		if s, ok := payload[field].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return s
			}
		}
	}

	// No direct transcript field: compose one line per remaining field.
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if !excludedFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		if line := formatValue(payload[k]); line != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", k, line))
		}
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n")
	}

	// Nothing survived the exclusion list: stringify the whole payload so the
	// transcript is never empty.
	return stringify(payload)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]any, []any:
		return stringify(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func stringify(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
