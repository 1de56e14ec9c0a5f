// Package dedup guards against duplicate webhook delivery, which external
// form providers do routinely. When the payload carries a recognizable
// provider event id, a short-lived Redis key makes redelivery a no-op;
// otherwise ingestion stays at-least-once.
package dedup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// TTL bounds how long a delivery is remembered. Providers retry within
// minutes to hours; a day covers every retry policy seen in practice.
const TTL = 24 * time.Hour

// eventIDFields are checked in order for a provider-assigned event id
var eventIDFields = []string{"event_id", "eventId", "submission_id", "response_id"}

// Guard remembers recently seen delivery ids
type Guard struct {
	client *redis.Client
	log    zerolog.Logger
}

// New creates a dedup guard from a Redis URL. Returns nil when the URL is
// empty, which disables deduplication transparently.
func New(redisURL string, log zerolog.Logger) (*Guard, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &Guard{client: redis.NewClient(opts), log: log}, nil
}

// EventID extracts a provider event id from a payload, or "" when none of
// the known aliases carries a non-blank string.
func EventID(payload map[string]any) string {
	for _, field := range eventIDFields {
		if s, ok := payload[field].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// Seen reports whether this (coach, event id) pair was already ingested
// within the TTL. Redis unavailability fails open: ingestion must not depend
// on the dedup store, so an error counts as a first delivery.
func (g *Guard) Seen(ctx context.Context, coachID uuid.UUID, eventID string) bool {
	n, err := g.client.Exists(ctx, deliveryKey(coachID, eventID)).Result()
	if err != nil {
		g.log.Warn().Err(err).Str("coach_id", coachID.String()).Msg("Dedup store unavailable, treating delivery as first")
		return false
	}
	return n > 0
}

// MarkDelivered records a successfully ingested delivery. Called only after
// the check-in row is committed; a delivery that failed partway stays
// unmarked so the provider's retry is processed, not swallowed. Best-effort:
// a marking failure just means a later redelivery writes a second row.
func (g *Guard) MarkDelivered(ctx context.Context, coachID uuid.UUID, eventID string) {
	if err := g.client.Set(ctx, deliveryKey(coachID, eventID), 1, TTL).Err(); err != nil {
		g.log.Warn().Err(err).Str("coach_id", coachID.String()).Msg("Failed to record delivery id")
	}
}

func deliveryKey(coachID uuid.UUID, eventID string) string {
	return fmt.Sprintf("checkin:seen:%s:%s", coachID, eventID)
}

// Close releases the underlying Redis connection
func (g *Guard) Close() error {
	return g.client.Close()
}
