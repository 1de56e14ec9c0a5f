// Package extract pulls a client identity out of provider-shaped webhook
// payloads. External form systems disagree on field layout, so each identity
// field is resolved through an ordered list of small pure strategies; the
// first non-empty match wins and candidates are never merged.
package extract

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrMissingIdentity is returned when no usable name can be derived
var ErrMissingIdentity = errors.New("no usable client name in payload")

// Identity is the contact information derived from a payload. Name is always
// set; the other fields are empty when absent. ExternalContactID is empty
// unless the provider supplied a well-formed UUID.
type Identity struct {
	Name              string
	ExternalContactID string
	Email             string
	Phone             string
}

// strategy produces an optional trimmed value from a payload
type strategy func(payload map[string]any) string

var nameStrategies = []strategy{
	stringField("client_name"),
	stringField("clientName"),
	nestedField("contact", "name"),
	joinedName("first_name", "last_name"),
	joinedName("firstName", "lastName"),
	nestedJoinedName("contact", "first_name", "last_name"),
	nestedJoinedName("contact", "firstName", "lastName"),
	stringField("name"),
}

var contactIDStrategies = []strategy{
	stringField("contact_id"),
	stringField("contactId"),
	stringField("ghl_contact_id"),
	stringField("external_contact_id"),
	nestedField("contact", "id"),
}

var emailStrategies = []strategy{
	stringField("email"),
	nestedField("contact", "email"),
}

var phoneStrategies = []strategy{
	stringField("phone"),
	stringField("phone_number"),
	nestedField("contact", "phone"),
}

// Extract derives a client identity from an arbitrary payload. It fails with
// ErrMissingIdentity when no strategy yields a name.
func Extract(payload map[string]any) (Identity, error) {
	ident := Identity{
		Name:  firstMatch(payload, nameStrategies),
		Email: firstMatch(payload, emailStrategies),
		Phone: firstMatch(payload, phoneStrategies),
	}
	if ident.Name == "" {
		return Identity{}, ErrMissingIdentity
	}

	// Provider contact ids are opaque; only a canonical UUID is safe to carry
	// forward as if it referenced one of our own records.
	if raw := firstMatch(payload, contactIDStrategies); raw != "" {
		if _, err := uuid.Parse(raw); err == nil && len(raw) == 36 {
			ident.ExternalContactID = raw
		}
	}

	return ident, nil
}

func firstMatch(payload map[string]any, strategies []strategy) string {
	for _, s := range strategies {
		if v := s(payload); v != "" {
			return v
		}
	}
	return ""
}

// stringField reads a trimmed top-level string field
func stringField(key string) strategy {
	return func(payload map[string]any) string {
		return trimmedString(payload[key])
	}
}

// nestedField reads a trimmed string field from a nested object
func nestedField(parent, key string) strategy {
	return func(payload map[string]any) string {
		obj, ok := payload[parent].(map[string]any)
		if !ok {
			return ""
		}
		return trimmedString(obj[key])
	}
}

// joinedName concatenates first and last name fields when at least one is set
func joinedName(firstKey, lastKey string) strategy {
	return func(payload map[string]any) string {
		return joinNames(trimmedString(payload[firstKey]), trimmedString(payload[lastKey]))
	}
}

func nestedJoinedName(parent, firstKey, lastKey string) strategy {
	return func(payload map[string]any) string {
		obj, ok := payload[parent].(map[string]any)
		if !ok {
			return ""
		}
		return joinNames(trimmedString(obj[firstKey]), trimmedString(obj[lastKey]))
	}
}

func joinNames(first, last string) string {
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}

func trimmedString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
