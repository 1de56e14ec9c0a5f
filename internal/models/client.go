package models

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a coach's client record. Phone and email are stored
// normalized and act as near-unique lookup keys within a coach; partial
// unique indexes back them at the database level.
type Client struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	CoachID      uuid.UUID         `json:"coach_id" db:"coach_id"`
	Name         string            `json:"name" db:"name"`
	Phone        *string           `json:"phone,omitempty" db:"phone"`
	Email        *string           `json:"email,omitempty" db:"email"`
	Status       string            `json:"status" db:"status"`
	Engagement   string            `json:"engagement" db:"engagement"`
	CustomFields map[string]string `json:"custom_fields,omitempty" db:"custom_fields"`
	Tags         []string          `json:"tags" db:"tags"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}

// TagWebhookCreated marks clients auto-created by the ingestion pipeline
const TagWebhookCreated = "webhook"

// CustomFieldExternalContactID is the custom-fields key holding a provider's
// contact id, kept only when it is a well-formed UUID
const CustomFieldExternalContactID = "external_contact_id"
