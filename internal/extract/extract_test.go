package extract

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestExtract_NamePriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		wantName string
	}{
		{
			name:     "client_name wins over everything",
			payload:  map[string]any{"client_name": "Ada Lovelace", "name": "Wrong", "firstName": "Also", "lastName": "Wrong"},
			wantName: "Ada Lovelace",
		},
		{
			name:     "contact.name beats first/last concatenation",
			payload:  map[string]any{"contact": map[string]any{"name": "Grace Hopper"}, "firstName": "Not", "lastName": "Used"},
			wantName: "Grace Hopper",
		},
		{
			name:     "top-level first/last concatenation",
			payload:  map[string]any{"firstName": "Jo", "lastName": "Ann"},
			wantName: "Jo Ann",
		},
		{
			name:     "snake_case first/last",
			payload:  map[string]any{"first_name": "Jo", "last_name": "Ann"},
			wantName: "Jo Ann",
		},
		{
			name:     "nested contact first/last",
			payload:  map[string]any{"contact": map[string]any{"firstName": "Lin", "lastName": "Mei"}},
			wantName: "Lin Mei",
		},
		{
			name:     "bare name as last resort",
			payload:  map[string]any{"name": "Solo"},
			wantName: "Solo",
		},
		{
			name:     "first name alone is enough",
			payload:  map[string]any{"firstName": "Cher"},
			wantName: "Cher",
		},
		{
			name:     "values are trimmed",
			payload:  map[string]any{"client_name": "  Padded Name  "},
			wantName: "Padded Name",
		},
		{
			name:     "empty client_name falls through",
			payload:  map[string]any{"client_name": "   ", "name": "Fallback"},
			wantName: "Fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := Extract(tt.payload)
			if err != nil {
				t.Fatalf("Extract returned error: %v", err)
			}
			if ident.Name != tt.wantName {
				t.Errorf("name = %q, want %q", ident.Name, tt.wantName)
			}
		})
	}
}

func TestExtract_MissingIdentity(t *testing.T) {
	payloads := []map[string]any{
		{},
		{"message": "hello", "phone": "5551234567"},
		{"name": "   "},
		{"name": 42},
		{"contact": map[string]any{"email": "a@b.co"}},
	}
	for _, p := range payloads {
		if _, err := Extract(p); !errors.Is(err, ErrMissingIdentity) {
			t.Errorf("Extract(%v) error = %v, want ErrMissingIdentity", p, err)
		}
	}
}

func TestExtract_ExternalContactID(t *testing.T) {
	valid := "5a2f2f6e-1d34-4c0f-9f1a-0b8e2b1c9d7e"

	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "valid UUID passes the gate",
			payload: map[string]any{"name": "A", "contact_id": valid},
			want:    valid,
		},
		{
			name:    "camelCase alias",
			payload: map[string]any{"name": "A", "contactId": valid},
			want:    valid,
		},
		{
			name:    "nested contact.id",
			payload: map[string]any{"name": "A", "contact": map[string]any{"id": valid}},
			want:    valid,
		},
		{
			name:    "opaque provider id is rejected",
			payload: map[string]any{"name": "A", "contact_id": "ghl_9f8e7d6c"},
			want:    "",
		},
		{
			name:    "undashed hex is rejected",
			payload: map[string]any{"name": "A", "contact_id": "5a2f2f6e1d344c0f9f1a0b8e2b1c9d7e"},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := Extract(tt.payload)
			if err != nil {
				t.Fatalf("Extract returned error: %v", err)
			}
			if ident.ExternalContactID != tt.want {
				t.Errorf("external contact id = %q, want %q", ident.ExternalContactID, tt.want)
			}
		})
	}
}

func TestExtract_EmailAndPhone(t *testing.T) {
	ident, err := Extract(map[string]any{
		"name":    "A",
		"email":   " Coach@Example.COM ",
		"contact": map[string]any{"email": "nested@example.com", "phone": "5551112222"},
	})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if ident.Email != "Coach@Example.COM" {
		t.Errorf("email = %q, want top-level match (trimmed, not normalized)", ident.Email)
	}
	if ident.Phone != "5551112222" {
		t.Errorf("phone = %q, want nested contact phone", ident.Phone)
	}
}

// For any payload carrying a non-blank client_name, extraction succeeds and
// returns that value trimmed, regardless of whatever else is present.
func TestExtract_ClientNameAlwaysWins(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,30}[A-Za-z]`).Draw(rt, "name")
		noise := rapid.MapOf(
			rapid.StringMatching(`[a-z_]{1,12}`),
			rapid.OneOf(
				rapid.String().AsAny(),
				rapid.Int().AsAny(),
				rapid.Bool().AsAny(),
			),
		).Draw(rt, "noise")

		payload := map[string]any{}
		for k, v := range noise {
			payload[k] = v
		}
		payload["client_name"] = "  " + name + "  "

		ident, err := Extract(payload)
		if err != nil {
			rt.Fatalf("Extract failed: %v", err)
		}
		if ident.Name != name {
			rt.Fatalf("name = %q, want %q", ident.Name, name)
		}
	})
}
