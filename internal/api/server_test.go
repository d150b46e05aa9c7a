package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"frequency-workers/internal/booking"
	"frequency-workers/internal/catalog"
	"frequency-workers/internal/common/database"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/models"
	"frequency-workers/internal/recommendation"
	"frequency-workers/internal/sessionstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name string
	err  error
}

func (c stubChecker) Name() string { return c.name }
func (c stubChecker) Ping(ctx context.Context) error { return c.err }

func testCatalog() []models.Candidate {
	return []models.Candidate{
		{
			ID: "solfeggio-174", Name: "Foundation", FrequencyRangeMin: 174, FrequencyRangeMax: 174,
			PrimaryIntentions: []string{"pain"}, HarmonicConnections: []int{285},
			Family: "Solfeggio", AudioURL: "https://cdn.example.com/174.mp3",
		},
		{
			ID: "solfeggio-528", Name: "Transformation", FrequencyRangeMin: 528, FrequencyRangeMax: 528,
			HealingProperties: []string{"Love", "Vitality"}, Family: "Solfeggio",
			AudioURL: "https://cdn.example.com/528.mp3",
		},
	}
}

func newTestRouter(t *testing.T, checkers ...database.Checker) (*mux.Router, sessionstore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewTestLogger(t)
	store := sessionstore.NewRedis(client, time.Hour)
	engine := recommendation.NewEngine(catalog.NewStatic(testCatalog()...), log)
	return NewRouter(booking.NewService(engine, store, log), log, checkers...), store
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v))
}

// ==========================
// Health
// ==========================

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestReady(t *testing.T) {
	router, _ := newTestRouter(t, stubChecker{name: "redis"})
	rr := serve(router, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	router, _ = newTestRouter(t, stubChecker{name: "redis"}, stubChecker{name: "postgres", err: errors.New("refused")})
	rr = serve(router, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var body struct {
		Failures map[string]string `json:"failures"`
	}
	decode(t, rr, &body)
	assert.Equal(t, map[string]string{"postgres": "refused"}, body.Failures)
}

func TestMetrics(t *testing.T) {
	router, _ := newTestRouter(t)
	serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `http_requests_total{method="GET",route="/health",status="200"}`)
}

// ==========================
// Recommendations
// ==========================

func TestRecommend(t *testing.T) {
	router, store := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations?bookingId=bk-1",
		strings.NewReader(`{"intentions":["Pain"]}`))
	rr := serve(router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var rec models.Recommendation
	decode(t, rr, &rec)
	assert.NotEmpty(t, rec.RecommendationID)
	assert.Equal(t, 174.0, rec.Frequency)
	assert.Equal(t, models.SourceScored, rec.Source)
	assert.Equal(t, 15, rec.Score)
	assert.True(t, rec.HasAsset)
	assert.Equal(t, "https://cdn.example.com/174.mp3", rec.AudioURL)
	assert.Equal(t, []int{285}, rec.Metadata.RelatedFrequencies)

	saved, err := store.Get(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, rec.RecommendationID, saved.RecommendationID)

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/v1/bookings/bk-1/recommendation", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var session models.SessionRecord
	decode(t, rr, &session)
	assert.Equal(t, 174.0, session.Frequency)
}

func TestRecommend_EmptyBodyFallsBack(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := serve(router, httptest.NewRequest(http.MethodPost, "/v1/recommendations", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var rec models.Recommendation
	decode(t, rr, &rec)
	assert.Equal(t, 174.0, rec.Frequency, "no 432 entry, so the first catalog entry")
	assert.Equal(t, models.SourceFallbackFirst, rec.Source)
}

func TestRecommend_InvalidIntake(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := serve(router, httptest.NewRequest(http.MethodPost, "/v1/recommendations",
		strings.NewReader(`{"intentions": "pain"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body errorResponse
	decode(t, rr, &body)
	assert.Equal(t, "INVALID_INTAKE", body.Code)
}

func TestRecommend_BodyTooLarge(t *testing.T) {
	router, _ := newTestRouter(t)

	big := `{"healthConcerns":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rr := serve(router, httptest.NewRequest(http.MethodPost, "/v1/recommendations", strings.NewReader(big)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

// ==========================
// Frequencies
// ==========================

func TestDescribe(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantName   string
	}{
		{name: "known", path: "/v1/frequencies/528", wantStatus: http.StatusOK, wantName: "Transformation"},
		{name: "with unit", path: "/v1/frequencies/528Hz", wantStatus: http.StatusOK, wantName: "Transformation"},
		{name: "unknown", path: "/v1/frequencies/999", wantStatus: http.StatusOK, wantName: "Unknown Frequency"},
		{name: "not a number", path: "/v1/frequencies/abc", wantStatus: http.StatusBadRequest},
		{name: "zero", path: "/v1/frequencies/0", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(router, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantName == "" {
				return
			}
			var meta models.DisplayMetadata
			decode(t, rr, &meta)
			assert.Equal(t, tt.wantName, meta.Name)
		})
	}
}

func TestAsset(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/v1/frequencies/174/asset", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var asset models.Candidate
	decode(t, rr, &asset)
	assert.Equal(t, "solfeggio-174", asset.ID)

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/v1/frequencies/963/asset", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	var body errorResponse
	decode(t, rr, &body)
	assert.Equal(t, noAudioMessage, body.Error)
}

func TestSession_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/v1/bookings/missing/recommendation", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerWithURLVars(t *testing.T) {
	log := logger.NewTestLogger(t)
	engine := recommendation.NewEngine(catalog.NewStatic(testCatalog()...), log)
	s := &Server{svc: booking.NewService(engine, nil, log), logger: log}

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"hz": "174"})
	rr := httptest.NewRecorder()
	s.handleDescribe(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Foundation"`)
}
