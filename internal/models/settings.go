package models

import (
	"time"

	"github.com/google/uuid"
)

// Identifier represents a contact field used to match inbound submissions
type Identifier string

const (
	IdentifierPhone Identifier = "phone"
	IdentifierEmail Identifier = "email"
	IdentifierNone  Identifier = "none"
)

// WebhookSettings is the per-coach ingestion configuration. It is created and
// updated by the coach-facing settings UI; this service only reads it.
type WebhookSettings struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	CoachID             uuid.UUID  `json:"coach_id" db:"coach_id"`
	SecretToken         string     `json:"-" db:"secret_token"`
	PrimaryIdentifier   Identifier `json:"primary_identifier" db:"primary_identifier"`
	FallbackIdentifier  Identifier `json:"fallback_identifier" db:"fallback_identifier"`
	AutoCreateClients   bool       `json:"auto_create_clients" db:"auto_create_clients"`
	NewClientStatus     string     `json:"new_client_status" db:"new_client_status"`
	NewClientEngagement string     `json:"new_client_engagement" db:"new_client_engagement"`
	Active              bool       `json:"active" db:"active"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// Defaults applied when the settings row leaves the enum columns empty
const (
	DefaultNewClientStatus     = "active"
	DefaultNewClientEngagement = "medium"
)
