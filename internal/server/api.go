package server

import (
	"context"
	"net/http"

	"github.com/coachpulse/checkin-ingest/internal/checkin"
	"github.com/coachpulse/checkin-ingest/internal/config"
	apierrors "github.com/coachpulse/checkin-ingest/internal/errors"
	"github.com/coachpulse/checkin-ingest/internal/extract"
	"github.com/coachpulse/checkin-ingest/internal/logging"
	"github.com/coachpulse/checkin-ingest/internal/middleware"
	"github.com/coachpulse/checkin-ingest/internal/models"
	"github.com/coachpulse/checkin-ingest/internal/monitoring"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettingsStore authenticates inbound webhook calls against per-coach settings
type SettingsStore interface {
	Authenticate(ctx context.Context, coachID uuid.UUID, token string) (*models.WebhookSettings, error)
}

// ClientResolver matches or creates the client for an extracted identity
type ClientResolver interface {
	Resolve(ctx context.Context, coachID uuid.UUID, ident extract.Identity, cfg *models.WebhookSettings) (*models.Client, error)
}

// CheckinWriter persists the final check-in record
type CheckinWriter interface {
	Create(ctx context.Context, params checkin.CreateParams) (*checkin.Summary, error)
}

// Embedder produces a vector for a transcript; failures are absorbed
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DedupGuard tracks delivered event ids. Seen is consulted before the
// pipeline runs; MarkDelivered only after the check-in is persisted, so a
// failed delivery is never remembered and the provider's retry goes through.
type DedupGuard interface {
	Seen(ctx context.Context, coachID uuid.UUID, eventID string) bool
	MarkDelivered(ctx context.Context, coachID uuid.UUID, eventID string)
}

// HealthChecker reports storage availability for the health endpoint
type HealthChecker interface {
	Health(ctx context.Context) error
}

// APIServer represents the webhook ingestion server
type APIServer struct {
	config   *config.Config
	router   *gin.Engine
	settings SettingsStore
	resolver ClientResolver
	checkins CheckinWriter
	embedder Embedder
	dedup    DedupGuard // nil disables redelivery dedup
	health   HealthChecker
}

// NewAPIServer creates a new API server instance
func NewAPIServer(cfg *config.Config, settings SettingsStore, resolver ClientResolver, checkins CheckinWriter, embedder Embedder, dedup DedupGuard, health HealthChecker) *APIServer {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware in order
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS([]string{"*"}))
	router.Use(monitoring.MetricsMiddleware())
	router.Use(logging.RequestLogger())

	srv := &APIServer{
		config:   cfg,
		router:   router,
		settings: settings,
		resolver: resolver,
		checkins: checkins,
		embedder: embedder,
		dedup:    dedup,
		health:   health,
	}

	srv.setupRoutes()
	return srv
}

// Router returns the gin router
func (s *APIServer) Router() http.Handler {
	return s.router
}

// setupRoutes configures all API routes
func (s *APIServer) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/webhook-checkin/:coach_id/:token", s.handleWebhookCheckin)
}

// Health check handler
func (s *APIServer) healthCheck(c *gin.Context) {
	if s.health != nil {
		if err := s.health.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"service": "checkin-ingest",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "checkin-ingest",
	})
}

// respondError sends a standardized error response
func respondError(c *gin.Context, err *apierrors.APIError) {
	requestID := middleware.GetRequestIDFromContext(c)
	c.JSON(err.HTTPStatus, apierrors.NewErrorResponse(err, requestID, c.Request.URL.Path, c.Request.Method))
}
