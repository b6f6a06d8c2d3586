package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/scorefree/internal/database"
	"github.com/jonesrussell/scorefree/internal/domain"
	"github.com/jonesrussell/scorefree/internal/ingest"
	"github.com/jonesrussell/scorefree/internal/logger"
)

// defaultUserID is used when a request carries no X-User-ID header.
const defaultUserID = "default"

// IngestionRunner triggers one ingestion pass. A non-positive maxResults
// falls back to the configured per-category cap.
type IngestionRunner interface {
	Run(ctx context.Context, categories []string, maxResults int) (*domain.IngestionReport, error)
}

// ReclassifyRunner triggers one reclassification batch.
type ReclassifyRunner interface {
	Run(ctx context.Context, limit int) (*domain.ReclassificationReport, error)
}

// TextClassifier produces an ad-hoc verdict without persisting anything.
type TextClassifier interface {
	Analyze(title, description string) domain.ClassificationResult
}

// VideoReader lists stored videos for display.
type VideoReader interface {
	List(ctx context.Context, filter database.VideoFilter) ([]*domain.VideoRecord, error)
	CountPending(ctx context.Context) (int, error)
}

// PreferencesStore manages per-user category preferences.
type PreferencesStore interface {
	Upsert(ctx context.Context, p *domain.CategoryPreference) error
	List(ctx context.Context, userID string) ([]*domain.CategoryPreference, error)
	ListEnabledCategories(ctx context.Context, userID string) ([]string, error)
}

// InteractionsStore records display-time interaction state.
type InteractionsStore interface {
	Upsert(ctx context.Context, i *domain.UserVideoInteraction) error
}

// Readiness reports whether backing dependencies are reachable.
type Readiness func(ctx context.Context) error

// Handler handles HTTP requests for the scorefree API.
type Handler struct {
	ingestion    IngestionRunner
	reclassifier ReclassifyRunner
	classifier   TextClassifier
	videos       VideoReader
	preferences  PreferencesStore
	interactions InteractionsStore
	ready        Readiness
	logger       logger.Logger

	serviceName    string
	serviceVersion string
	// minDisplayConfidence is the default confidence floor for score-free
	// listings; callers can override it per request.
	minDisplayConfidence int
}

// HandlerConfig carries the display-facing settings the handler needs.
type HandlerConfig struct {
	ServiceName          string
	ServiceVersion       string
	MinDisplayConfidence int
}

// NewHandler creates the API handler.
func NewHandler(
	ingestion IngestionRunner,
	reclassifier ReclassifyRunner,
	textClassifier TextClassifier,
	videos VideoReader,
	preferences PreferencesStore,
	interactions InteractionsStore,
	ready Readiness,
	cfg HandlerConfig,
	log logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		ingestion:            ingestion,
		reclassifier:         reclassifier,
		classifier:           textClassifier,
		videos:               videos,
		preferences:          preferences,
		interactions:         interactions,
		ready:                ready,
		logger:               log,
		serviceName:          cfg.ServiceName,
		serviceVersion:       cfg.ServiceVersion,
		minDisplayConfidence: cfg.MinDisplayConfidence,
	}
}

func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return defaultUserID
}

// IngestRequest names the categories to fetch. When empty, the pass falls
// back to the caller's enabled category preferences. MaxResults overrides
// the configured per-category cap for this pass only.
type IngestRequest struct {
	Categories []string `json:"categories"`
	MaxResults int      `json:"max_results"`
}

// Ingest handles POST /api/v1/ingest.
func (h *Handler) Ingest(c *gin.Context) {
	// An empty body is a valid "use my preferences" request.
	var req IngestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("invalid ingest request", logger.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	categories := req.Categories
	if len(categories) == 0 {
		enabled, err := h.preferences.ListEnabledCategories(c.Request.Context(), userID(c))
		if err != nil {
			h.logger.Error("failed to load enabled categories", logger.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load category preferences"})
			return
		}
		categories = enabled
	}

	report, err := h.ingestion.Run(c.Request.Context(), categories, req.MaxResults)
	if err != nil {
		if errors.Is(err, ingest.ErrNoCategories) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no categories requested and none enabled"})
			return
		}
		h.logger.Error("ingestion pass failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ReclassifyRequest bounds one reclassification batch.
type ReclassifyRequest struct {
	Limit int `json:"limit"`
}

// Reclassify handles POST /api/v1/reclassify.
func (h *Handler) Reclassify(c *gin.Context) {
	var req ReclassifyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("invalid reclassify request", logger.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	report, err := h.reclassifier.Run(c.Request.Context(), req.Limit)
	if err != nil {
		h.logger.Error("reclassification batch failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ClassifyRequest carries metadata text for an ad-hoc verdict.
type ClassifyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Classify handles POST /api/v1/classify. Nothing is persisted.
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid classify request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.classifier.Analyze(req.Title, req.Description)
	c.JSON(http.StatusOK, result)
}

// ListVideos handles GET /api/v1/videos.
//
// Query parameters: category, score_free_only (default true), min_confidence
// (default from configuration, applies to score-free listings only), limit.
// Videos hidden by the requesting user are excluded.
func (h *Handler) ListVideos(c *gin.Context) {
	filter := database.VideoFilter{
		Category:      c.Query("category"),
		ScoreFreeOnly: true,
		MinConfidence: h.minDisplayConfidence,
		HideForUser:   userID(c),
	}

	if raw := c.Query("score_free_only"); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "score_free_only must be a boolean"})
			return
		}
		filter.ScoreFreeOnly = only
	}
	if raw := c.Query("min_confidence"); raw != "" {
		minConfidence, err := strconv.Atoi(raw)
		if err != nil || minConfidence < 0 || minConfidence > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_confidence must be an integer between 0 and 100"})
			return
		}
		filter.MinConfidence = minConfidence
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		filter.Limit = limit
	}

	videos, err := h.videos.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list videos", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load videos"})
		return
	}

	response := make([]VideoResponse, len(videos))
	for i, video := range videos {
		response[i] = toVideoResponse(video)
	}

	c.JSON(http.StatusOK, VideosListResponse{Videos: response, Total: len(response)})
}

// ListPreferences handles GET /api/v1/preferences.
func (h *Handler) ListPreferences(c *gin.Context) {
	preferences, err := h.preferences.List(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.Error("failed to list preferences", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, PreferencesListResponse{Preferences: preferences, Total: len(preferences)})
}

// PreferenceRequest enables or disables one category.
type PreferenceRequest struct {
	CategoryName string `json:"category_name" binding:"required"`
	Enabled      bool   `json:"enabled"`
}

// UpsertPreference handles PUT /api/v1/preferences.
func (h *Handler) UpsertPreference(c *gin.Context) {
	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid preference request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preference := &domain.CategoryPreference{
		UserID:       userID(c),
		CategoryName: req.CategoryName,
		Enabled:      req.Enabled,
	}
	if err := h.preferences.Upsert(c.Request.Context(), preference); err != nil {
		h.logger.Error("failed to save preference",
			logger.String("category", req.CategoryName),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preference"})
		return
	}

	c.JSON(http.StatusOK, preference)
}

// InteractionRequest updates display-time state for one video.
type InteractionRequest struct {
	Watched bool `json:"watched"`
	Liked   bool `json:"liked"`
	Hidden  bool `json:"hidden"`
}

// UpsertInteraction handles POST /api/v1/videos/:external_id/interaction.
func (h *Handler) UpsertInteraction(c *gin.Context) {
	externalID := c.Param("external_id")
	if externalID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "external_id is required"})
		return
	}

	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid interaction request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	interaction := &domain.UserVideoInteraction{
		UserID:          userID(c),
		VideoExternalID: externalID,
		Watched:         req.Watched,
		Liked:           req.Liked,
		Hidden:          req.Hidden,
	}
	if err := h.interactions.Upsert(c.Request.Context(), interaction); err != nil {
		h.logger.Error("failed to save interaction",
			logger.String("external_id", externalID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save interaction"})
		return
	}

	c.JSON(http.StatusOK, interaction)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.serviceName,
		"version": h.serviceVersion,
	})
}

// ReadyCheck handles GET /ready.
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"checks": gin.H{"postgresql": err.Error()},
			})
			return
		}
	}

	pending := 0
	if h.videos != nil {
		if count, err := h.videos.CountPending(c.Request.Context()); err == nil {
			pending = count
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"checks":  gin.H{"postgresql": "ok"},
		"pending": pending,
	})
}
