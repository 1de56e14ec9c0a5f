// Package settings reads the per-coach webhook configuration. Rows are
// written by the coach-facing settings surface; this service only looks them
// up to authenticate and parameterize inbound check-ins.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coachpulse/checkin-ingest/internal/models"
	"github.com/coachpulse/checkin-ingest/internal/monitoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnauthorized covers both an unknown coach and a token mismatch. The two
// cases are deliberately indistinguishable to the caller.
var ErrUnauthorized = errors.New("unauthorized")

// Service handles webhook settings lookups
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a new settings service
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// GetActive returns the active settings row for a coach, or ErrUnauthorized
// when none exists
func (s *Service) GetActive(ctx context.Context, coachID uuid.UUID) (*models.WebhookSettings, error) {
	start := time.Now()
	defer func() {
		monitoring.RecordDBQuery("settings_lookup", time.Since(start))
	}()

	var ws models.WebhookSettings
	err := s.db.QueryRow(ctx, `
		SELECT id, coach_id, secret_token, primary_identifier, fallback_identifier,
		       auto_create_clients, new_client_status, new_client_engagement,
		       active, created_at, updated_at
		FROM webhook_settings
		WHERE coach_id = $1 AND active
	`, coachID).Scan(
		&ws.ID, &ws.CoachID, &ws.SecretToken, &ws.PrimaryIdentifier, &ws.FallbackIdentifier,
		&ws.AutoCreateClients, &ws.NewClientStatus, &ws.NewClientEngagement,
		&ws.Active, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up webhook settings: %w", err)
	}

	if ws.NewClientStatus == "" {
		ws.NewClientStatus = models.DefaultNewClientStatus
	}
	if ws.NewClientEngagement == "" {
		ws.NewClientEngagement = models.DefaultNewClientEngagement
	}

	return &ws, nil
}

// Authenticate validates the URL-embedded token against the coach's stored
// secret. The token is compared verbatim; on success the settings row is
// returned for the rest of the pipeline.
func (s *Service) Authenticate(ctx context.Context, coachID uuid.UUID, token string) (*models.WebhookSettings, error) {
	ws, err := s.GetActive(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if token == "" || ws.SecretToken != token {
		return nil, ErrUnauthorized
	}
	return ws, nil
}
