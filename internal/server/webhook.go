package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/coachpulse/checkin-ingest/internal/checkin"
	"github.com/coachpulse/checkin-ingest/internal/dedup"
	apierrors "github.com/coachpulse/checkin-ingest/internal/errors"
	"github.com/coachpulse/checkin-ingest/internal/extract"
	"github.com/coachpulse/checkin-ingest/internal/logging"
	"github.com/coachpulse/checkin-ingest/internal/middleware"
	"github.com/coachpulse/checkin-ingest/internal/monitoring"
	"github.com/coachpulse/checkin-ingest/internal/resolver"
	"github.com/coachpulse/checkin-ingest/internal/settings"
	"github.com/coachpulse/checkin-ingest/internal/tags"
	"github.com/coachpulse/checkin-ingest/internal/transcript"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxPayloadBytes bounds the webhook body; form submissions are small and
// anything larger is abuse.
const maxPayloadBytes = 1 << 20

// handleWebhookCheckin runs the full ingestion pipeline for one submission:
// authenticate, extract identity, derive transcript, classify, embed
// (best-effort), resolve the client, persist the check-in.
func (s *APIServer) handleWebhookCheckin(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := middleware.GetRequestIDFromContext(c)

	coachID, err := uuid.Parse(c.Param("coach_id"))
	if err != nil {
		monitoring.RecordWebhookRequest("bad_request")
		respondError(c, apierrors.NewInvalidRequestError("Malformed webhook path"))
		return
	}
	token := c.Param("token")

	// Authenticate before reading anything else; no detail about which check
	// failed leaks to the caller.
	cfg, err := s.settings.Authenticate(ctx, coachID, token)
	if err != nil {
		if errors.Is(err, settings.ErrUnauthorized) {
			monitoring.RecordWebhookRequest("unauthorized")
			respondError(c, apierrors.ErrUnauthorizedError)
			return
		}
		logging.LogError(err, requestID, "settings", "authenticate")
		monitoring.RecordWebhookRequest("error")
		respondError(c, apierrors.ErrStorageError)
		return
	}

	// The body must be a JSON object; its exact shape is unconstrained.
	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes))
	if err != nil {
		monitoring.RecordWebhookRequest("bad_request")
		respondError(c, apierrors.NewInvalidRequestError("Failed to read request body"))
		return
	}
	var payload map[string]any
	if err := json.Unmarshal(rawBody, &payload); err != nil || payload == nil {
		monitoring.RecordWebhookRequest("bad_request")
		respondError(c, apierrors.NewInvalidRequestError("Body must be a JSON object"))
		return
	}

	// Redelivery guard: only when the provider supplied an event id and a
	// dedup store is configured. Everything else stays at-least-once. The id
	// is marked delivered after the write, not here: a delivery that fails
	// with a retryable error must stay retryable.
	var eventID string
	if s.dedup != nil {
		if eventID = dedup.EventID(payload); eventID != "" {
			if s.dedup.Seen(ctx, coachID, eventID) {
				monitoring.RecordDuplicateDelivery()
				monitoring.RecordWebhookRequest("duplicate")
				c.JSON(http.StatusOK, gin.H{"success": true, "duplicate": true})
				return
			}
		}
	}

	stageStart := time.Now()
	ident, err := extract.Extract(payload)
	monitoring.RecordPipelineStage("extract", time.Since(stageStart))
	if err != nil {
		logging.LogUnprocessablePayload(requestID, "missing_identity", string(rawBody))
		monitoring.RecordWebhookRequest("missing_identity")
		respondError(c, apierrors.ErrMissingIdentityError)
		return
	}

	stageStart = time.Now()
	text := transcript.Derive(payload)
	monitoring.RecordPipelineStage("transcript", time.Since(stageStart))

	tagList := tags.Classify(text)

	// Embedding is the one step allowed to fail: a vendor outage must never
	// block data capture.
	var vector []float32
	if s.embedder != nil {
		stageStart = time.Now()
		vector, err = s.embedder.Embed(ctx, text)
		monitoring.RecordPipelineStage("embed", time.Since(stageStart))
		if err != nil {
			logging.LogError(err, requestID, "embedding", "embed")
			monitoring.RecordEmbeddingFailure()
			vector = nil
		}
	}

	client, err := s.resolver.Resolve(ctx, coachID, ident, cfg)
	if err != nil {
		if errors.Is(err, resolver.ErrResolutionFailed) {
			logging.LogUnprocessablePayload(requestID, "resolution_failed", string(rawBody))
			monitoring.RecordWebhookRequest("resolution_failed")
			respondError(c, apierrors.NewClientResolutionError(err.Error()))
			return
		}
		logging.LogError(err, requestID, "resolver", "resolve")
		monitoring.RecordWebhookRequest("error")
		respondError(c, apierrors.ErrStorageError)
		return
	}

	summary, err := s.checkins.Create(ctx, checkin.CreateParams{
		CoachID:     coachID,
		ClientID:    client.ID,
		ClientName:  client.Name,
		SubmittedAt: time.Now().UTC(),
		Transcript:  text,
		Embedding:   vector,
		Tags:        tagList,
		RawData:     rawBody,
	})
	if err != nil {
		logging.LogError(err, requestID, "checkin", "create")
		monitoring.RecordWebhookRequest("error")
		respondError(c, apierrors.ErrStorageError)
		return
	}

	if s.dedup != nil && eventID != "" {
		s.dedup.MarkDelivered(ctx, coachID, eventID)
	}

	logging.LogCheckinIngested(requestID, coachID.String(), client.ID.String(),
		summary.CheckinID.String(), summary.TranscriptLength, summary.EmbeddingGenerated, summary.SuggestedTags)
	monitoring.RecordWebhookRequest("ok")

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"checkin_id":          summary.CheckinID,
		"client_name":         summary.ClientName,
		"transcript_length":   summary.TranscriptLength,
		"embedding_generated": summary.EmbeddingGenerated,
		"suggested_tags":      summary.SuggestedTags,
	})
}
