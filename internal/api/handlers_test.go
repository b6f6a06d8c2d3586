package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/scorefree/internal/classifier"
	"github.com/jonesrussell/scorefree/internal/database"
	"github.com/jonesrussell/scorefree/internal/domain"
	"github.com/jonesrussell/scorefree/internal/ingest"
)

type stubIngestion struct {
	report     *domain.IngestionReport
	err        error
	categories []string
	maxResults int
}

func (s *stubIngestion) Run(_ context.Context, categories []string, maxResults int) (*domain.IngestionReport, error) {
	s.categories = categories
	s.maxResults = maxResults
	if len(categories) == 0 {
		return nil, ingest.ErrNoCategories
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

type stubReclassifier struct {
	report *domain.ReclassificationReport
	limit  int
}

func (s *stubReclassifier) Run(_ context.Context, limit int) (*domain.ReclassificationReport, error) {
	s.limit = limit
	return s.report, nil
}

type stubVideos struct {
	videos  []*domain.VideoRecord
	filter  database.VideoFilter
	listErr error
	pending int
}

func (s *stubVideos) List(_ context.Context, filter database.VideoFilter) ([]*domain.VideoRecord, error) {
	s.filter = filter
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.videos, nil
}

func (s *stubVideos) CountPending(context.Context) (int, error) {
	return s.pending, nil
}

type stubPreferences struct {
	enabled []string
	saved   []*domain.CategoryPreference
	listed  []*domain.CategoryPreference
}

func (s *stubPreferences) Upsert(_ context.Context, p *domain.CategoryPreference) error {
	s.saved = append(s.saved, p)
	return nil
}

func (s *stubPreferences) List(context.Context, string) ([]*domain.CategoryPreference, error) {
	return s.listed, nil
}

func (s *stubPreferences) ListEnabledCategories(context.Context, string) ([]string, error) {
	return s.enabled, nil
}

type stubInteractions struct {
	saved []*domain.UserVideoInteraction
}

func (s *stubInteractions) Upsert(_ context.Context, i *domain.UserVideoInteraction) error {
	s.saved = append(s.saved, i)
	return nil
}

type deps struct {
	ingestion    *stubIngestion
	reclassifier *stubReclassifier
	videos       *stubVideos
	preferences  *stubPreferences
	interactions *stubInteractions
	ready        Readiness
}

func newDeps() *deps {
	return &deps{
		ingestion:    &stubIngestion{report: &domain.IngestionReport{Found: 3, Stored: 2}},
		reclassifier: &stubReclassifier{report: &domain.ReclassificationReport{Updated: 1}},
		videos:       &stubVideos{},
		preferences:  &stubPreferences{},
		interactions: &stubInteractions{},
	}
}

func setupRouter(d *deps) *gin.Engine {
	handler := NewHandler(
		d.ingestion,
		d.reclassifier,
		classifier.New(classifier.DefaultConfig()),
		d.videos,
		d.preferences,
		d.interactions,
		d.ready,
		HandlerConfig{ServiceName: "scorefree", ServiceVersion: "1.0.0", MinDisplayConfidence: 60},
		nil,
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, handler, nil)
	return router
}

func perform(router *gin.Engine, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(newDeps())

	w := perform(router, "GET", "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["status"] != "healthy" || response["service"] != "scorefree" {
		t.Errorf("unexpected health payload: %v", response)
	}
}

func TestReadyCheck_DependencyFailure(t *testing.T) {
	d := newDeps()
	d.ready = func(context.Context) error { return errors.New("connection refused") }
	router := setupRouter(d)

	w := perform(router, "GET", "/ready", nil, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestReadyCheck_ReportsPendingBacklog(t *testing.T) {
	d := newDeps()
	d.videos.pending = 7
	router := setupRouter(d)

	w := perform(router, "GET", "/ready", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["pending"] != float64(7) {
		t.Errorf("expected pending 7, got %v", response["pending"])
	}
}

func TestIngest_ExplicitCategories(t *testing.T) {
	d := newDeps()
	router := setupRouter(d)

	w := perform(router, "POST", "/api/v1/ingest", IngestRequest{
		Categories: []string{"soccer", "hockey"},
		MaxResults: 3,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(d.ingestion.categories) != 2 {
		t.Errorf("coordinator received %v, want both requested categories", d.ingestion.categories)
	}
	if d.ingestion.maxResults != 3 {
		t.Errorf("max results = %d, want the per-request override", d.ingestion.maxResults)
	}

	var report domain.IngestionReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to unmarshal report: %v", err)
	}
	if report.Found != 3 || report.Stored != 2 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestIngest_FallsBackToEnabledPreferences(t *testing.T) {
	d := newDeps()
	d.preferences.enabled = []string{"basketball"}
	router := setupRouter(d)

	w := perform(router, "POST", "/api/v1/ingest", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(d.ingestion.categories) != 1 || d.ingestion.categories[0] != "basketball" {
		t.Errorf("coordinator received %v, want the enabled preference", d.ingestion.categories)
	}
}

func TestIngest_NoCategoriesAnywhere(t *testing.T) {
	router := setupRouter(newDeps())

	w := perform(router, "POST", "/api/v1/ingest", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestReclassify_PassesLimit(t *testing.T) {
	d := newDeps()
	router := setupRouter(d)

	w := perform(router, "POST", "/api/v1/reclassify", ReclassifyRequest{Limit: 25}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if d.reclassifier.limit != 25 {
		t.Errorf("limit = %d, want 25", d.reclassifier.limit)
	}
}

func TestClassify_AdHocVerdict(t *testing.T) {
	router := setupRouter(newDeps())

	w := perform(router, "POST", "/api/v1/classify", ClassifyRequest{
		Title: "Lakers defeat Celtics 112-108 in thrilling finish",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var result domain.ClassificationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if result.IsScoreFree {
		t.Error("score-revealing title must not be score-free")
	}
	if len(result.FlaggedTerms) == 0 {
		t.Error("expected flagged terms in the verdict")
	}
}

func TestListVideos_DefaultsAndFormatting(t *testing.T) {
	d := newDeps()
	d.videos.videos = []*domain.VideoRecord{
		{
			ExternalID:  "v1",
			Title:       "Amazing skills compilation",
			DurationISO: "PT1H5M9S",
			ViewCount:   1_500_000,
			PublishedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			IsScoreFree: true,
		},
	}
	router := setupRouter(d)

	w := perform(router, "GET", "/api/v1/videos", nil, map[string]string{"X-User-ID": "alice"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	if !d.videos.filter.ScoreFreeOnly {
		t.Error("listing must default to score-free only")
	}
	if d.videos.filter.MinConfidence != 60 {
		t.Errorf("min confidence = %d, want the configured display floor 60", d.videos.filter.MinConfidence)
	}
	if d.videos.filter.HideForUser != "alice" {
		t.Errorf("hide-for-user = %q, want the X-User-ID header", d.videos.filter.HideForUser)
	}

	var response VideosListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Total != 1 {
		t.Fatalf("total = %d, want 1", response.Total)
	}
	if response.Videos[0].Duration != "1:05:09" {
		t.Errorf("duration = %q, want 1:05:09", response.Videos[0].Duration)
	}
	if response.Videos[0].Views != "1.5M views" {
		t.Errorf("views = %q, want 1.5M views", response.Videos[0].Views)
	}
}

func TestListVideos_QueryOverrides(t *testing.T) {
	d := newDeps()
	router := setupRouter(d)

	w := perform(router, "GET", "/api/v1/videos?category=soccer&score_free_only=false&min_confidence=40&limit=10", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	filter := d.videos.filter
	if filter.Category != "soccer" || filter.ScoreFreeOnly || filter.MinConfidence != 40 || filter.Limit != 10 {
		t.Errorf("unexpected filter: %+v", filter)
	}
}

func TestListVideos_RejectsBadParams(t *testing.T) {
	router := setupRouter(newDeps())

	for _, path := range []string{
		"/api/v1/videos?min_confidence=abc",
		"/api/v1/videos?min_confidence=150",
		"/api/v1/videos?score_free_only=maybe",
		"/api/v1/videos?limit=-1",
	} {
		if w := perform(router, "GET", path, nil, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
		}
	}
}

func TestUpsertPreference(t *testing.T) {
	d := newDeps()
	router := setupRouter(d)

	w := perform(router, "PUT", "/api/v1/preferences", PreferenceRequest{
		CategoryName: "soccer",
		Enabled:      true,
	}, map[string]string{"X-User-ID": "alice"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(d.preferences.saved) != 1 {
		t.Fatal("preference must be persisted")
	}
	saved := d.preferences.saved[0]
	if saved.UserID != "alice" || saved.CategoryName != "soccer" || !saved.Enabled {
		t.Errorf("unexpected preference: %+v", saved)
	}
}

func TestUpsertPreference_RequiresCategory(t *testing.T) {
	router := setupRouter(newDeps())

	w := perform(router, "PUT", "/api/v1/preferences", map[string]any{"enabled": true}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestUpsertInteraction_DefaultUser(t *testing.T) {
	d := newDeps()
	router := setupRouter(d)

	w := perform(router, "POST", "/api/v1/videos/v1/interaction", InteractionRequest{Hidden: true}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(d.interactions.saved) != 1 {
		t.Fatal("interaction must be persisted")
	}
	saved := d.interactions.saved[0]
	if saved.UserID != defaultUserID {
		t.Errorf("user = %q, want the default user", saved.UserID)
	}
	if saved.VideoExternalID != "v1" || !saved.Hidden {
		t.Errorf("unexpected interaction: %+v", saved)
	}
}
