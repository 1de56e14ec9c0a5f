package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Checkin is one ingested submission. Rows are append-only: this service
// creates them and never mutates or deletes them. ClientName is denormalized
// so the record survives a later rename or deletion of the client.
type Checkin struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	CoachID     uuid.UUID       `json:"coach_id" db:"coach_id"`
	ClientID    uuid.UUID       `json:"client_id" db:"client_id"`
	ClientName  string          `json:"client_name" db:"client_name"`
	SubmittedAt time.Time       `json:"submitted_at" db:"submitted_at"`
	Transcript  string          `json:"transcript" db:"transcript"`
	Embedding   []float32       `json:"embedding,omitempty" db:"embedding"`
	Tags        []string        `json:"tags" db:"tags"`
	RawData     json.RawMessage `json:"raw_data" db:"raw_data"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
