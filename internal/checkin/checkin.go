// Package checkin persists ingested submissions. Check-in rows are
// append-only from this service's point of view; downstream coaching
// workflow owns any later status changes.
package checkin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coachpulse/checkin-ingest/internal/models"
	"github.com/coachpulse/checkin-ingest/internal/monitoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service writes check-in records
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a new check-in writer
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// CreateParams holds everything needed to persist one check-in
type CreateParams struct {
	CoachID     uuid.UUID
	ClientID    uuid.UUID
	ClientName  string
	SubmittedAt time.Time
	Transcript  string
	Embedding   []float32 // nil when the embedding call failed or was skipped
	Tags        []string
	RawData     json.RawMessage
}

// Summary is the acknowledgement returned to the calling webhook system
type Summary struct {
	CheckinID          uuid.UUID `json:"checkin_id"`
	ClientName         string    `json:"client_name"`
	TranscriptLength   int       `json:"transcript_length"`
	EmbeddingGenerated bool      `json:"embedding_generated"`
	SuggestedTags      []string  `json:"suggested_tags"`
}

// Create inserts one immutable check-in row and returns its summary. No
// idempotency key is enforced at this layer; redelivery handling happens
// upstream of the writer.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Summary, error) {
	start := time.Now()
	defer func() {
		monitoring.RecordDBQuery("checkin_insert", time.Since(start))
	}()

	submittedAt := params.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	var id uuid.UUID
	err := s.db.QueryRow(ctx, `
		INSERT INTO checkins (coach_id, client_id, client_name, submitted_at, transcript, embedding, tags, raw_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		params.CoachID, params.ClientID, params.ClientName, submittedAt,
		params.Transcript, params.Embedding, params.Tags, params.RawData,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert check-in: %w", err)
	}

	monitoring.RecordCheckinWritten()

	return &Summary{
		CheckinID:          id,
		ClientName:         params.ClientName,
		TranscriptLength:   len(params.Transcript),
		EmbeddingGenerated: len(params.Embedding) > 0,
		SuggestedTags:      params.Tags,
	}, nil
}

// GetByID fetches a check-in row, mainly for verification and tooling
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Checkin, error) {
	var rec models.Checkin
	err := s.db.QueryRow(ctx, `
		SELECT id, coach_id, client_id, client_name, submitted_at, transcript, embedding, tags, raw_data, created_at
		FROM checkins WHERE id = $1
	`, id).Scan(
		&rec.ID, &rec.CoachID, &rec.ClientID, &rec.ClientName, &rec.SubmittedAt,
		&rec.Transcript, &rec.Embedding, &rec.Tags, &rec.RawData, &rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch check-in: %w", err)
	}
	return &rec, nil
}
