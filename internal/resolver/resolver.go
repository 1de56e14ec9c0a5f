// Package resolver matches an inbound submission to a client record, creating
// one when the coach's settings allow it.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coachpulse/checkin-ingest/internal/extract"
	"github.com/coachpulse/checkin-ingest/internal/models"
	"github.com/coachpulse/checkin-ingest/internal/monitoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Service errors
var (
	// ErrResolutionFailed means no existing client matched and auto-create is
	// disabled, or no usable identifier was supplied. A deliberate hard stop:
	// a misconfigured coach should notice immediately instead of silently
	// losing submissions.
	ErrResolutionFailed = errors.New("client resolution failed")
)

// Service resolves submissions to client records
type Service struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

// NewService creates a new client resolver
func NewService(db *pgxpool.Pool, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}

const clientColumns = `id, coach_id, name, phone, email, status, engagement, custom_fields, tags, created_at`

// Resolve returns the client matching the extracted identity under the
// coach's identifier strategy, creating one when permitted. Resolution must
// fully succeed before any check-in row is written.
func (s *Service) Resolve(ctx context.Context, coachID uuid.UUID, ident extract.Identity, cfg *models.WebhookSettings) (*models.Client, error) {
	start := time.Now()
	defer func() {
		monitoring.RecordPipelineStage("resolve", time.Since(start))
	}()

	phone := NormalizePhone(ident.Phone)
	email := NormalizeEmail(ident.Email)

	// Primary identifier lookup; first match wins and resolution stops.
	client, err := s.lookup(ctx, coachID, cfg.PrimaryIdentifier, phone, email)
	if err != nil {
		return nil, err
	}
	if client != nil {
		return client, nil
	}

	// Distinct fallback identifier, when configured.
	if cfg.FallbackIdentifier != models.IdentifierNone && cfg.FallbackIdentifier != cfg.PrimaryIdentifier {
		client, err = s.lookup(ctx, coachID, cfg.FallbackIdentifier, phone, email)
		if err != nil {
			return nil, err
		}
		if client != nil {
			return client, nil
		}
	}

	if !cfg.AutoCreateClients {
		return nil, fmt.Errorf("%w: no client matched %s and auto-create is disabled",
			ErrResolutionFailed, describeIdentifiers(phone, email))
	}

	return s.create(ctx, coachID, ident, phone, email, cfg)
}

// lookup queries clients scoped to the coach by one normalized identifier.
// Returns nil without error when the identifier is absent or unmatched.
func (s *Service) lookup(ctx context.Context, coachID uuid.UUID, identifier models.Identifier, phone, email string) (*models.Client, error) {
	var column, value string
	switch identifier {
	case models.IdentifierPhone:
		column, value = "phone", phone
	case models.IdentifierEmail:
		column, value = "email", email
	default:
		return nil, nil
	}
	if value == "" {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		monitoring.RecordDBQuery("client_lookup", time.Since(start))
	}()

	// Ordered by created_at so resolution stays deterministic if the
	// soft-uniqueness assumption is ever violated.
	row := s.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM clients
		WHERE coach_id = $1 AND %s = $2
		ORDER BY created_at
		LIMIT 1
	`, clientColumns, column), coachID, value)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up client by %s: %w", column, err)
	}
	return client, nil
}

// create inserts a new client row. A concurrent request may win the insert
// race; the partial unique indexes turn that into a conflict, which is
// resolved by re-fetching the winning row.
func (s *Service) create(ctx context.Context, coachID uuid.UUID, ident extract.Identity, phone, email string, cfg *models.WebhookSettings) (*models.Client, error) {
	if phone == "" && email == "" {
		return nil, fmt.Errorf("%w: neither phone nor email present, cannot create client", ErrResolutionFailed)
	}

	customFields := map[string]string{}
	if ident.ExternalContactID != "" {
		customFields[models.CustomFieldExternalContactID] = ident.ExternalContactID
	}

	start := time.Now()
	defer func() {
		monitoring.RecordDBQuery("client_insert", time.Since(start))
	}()

	row := s.db.QueryRow(ctx, `
		INSERT INTO clients (coach_id, name, phone, email, status, engagement, custom_fields, tags)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8)
		ON CONFLICT DO NOTHING
		RETURNING `+clientColumns,
		coachID, ident.Name, phone, email,
		cfg.NewClientStatus, cfg.NewClientEngagement,
		customFields, []string{models.TagWebhookCreated},
	)

	client, err := scanClient(row)
	if err == nil {
		s.log.Info().
			Str("coach_id", coachID.String()).
			Str("client_id", client.ID.String()).
			Msg("Client auto-created from webhook")
		monitoring.RecordClientAutoCreated()
		return client, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	// Lost the race: another request inserted the same identifier between our
	// lookup and insert. Fetch whichever row won.
	for _, identifier := range []models.Identifier{models.IdentifierPhone, models.IdentifierEmail} {
		client, err := s.lookup(ctx, coachID, identifier, phone, email)
		if err != nil {
			return nil, err
		}
		if client != nil {
			return client, nil
		}
	}
	return nil, fmt.Errorf("client insert conflicted but no matching row found")
}

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID, &c.CoachID, &c.Name, &c.Phone, &c.Email,
		&c.Status, &c.Engagement, &c.CustomFields, &c.Tags, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func describeIdentifiers(phone, email string) string {
	var parts []string
	if phone != "" {
		parts = append(parts, fmt.Sprintf("phone %q", phone))
	}
	if email != "" {
		parts = append(parts, fmt.Sprintf("email %q", email))
	}
	if len(parts) == 0 {
		return "an empty identifier set"
	}
	return strings.Join(parts, " / ")
}
