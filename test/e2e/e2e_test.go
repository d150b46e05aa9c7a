//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"frequency-workers/internal/api"
	"frequency-workers/internal/booking"
	"frequency-workers/internal/catalog"
	"frequency-workers/internal/common/config"
	"frequency-workers/internal/common/database"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/intake"
	"frequency-workers/internal/models"
	"frequency-workers/internal/recommendation"
	"frequency-workers/internal/sessionstore"
	"frequency-workers/pkg/registry"

	describefrequency "frequency-workers/internal/workers/frequency/describe-frequency"
	findfrequencyasset "frequency-workers/internal/workers/frequency/find-frequency-asset"
	recommendfrequency "frequency-workers/internal/workers/frequency/recommend-frequency"
)

var (
	zeebeClient zbc.Client
	zapLog      *zap.Logger
)

func TestMain(m *testing.M) {
	var err error

	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         envOr("ZEEBE_ADDRESS", "localhost:26500"),
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to zeebe: %v", err))
	}

	zapLog, _ = zap.NewProduction()

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// stack is everything a worker needs, backed by real Postgres and Redis.
type stack struct {
	cfg *config.Config
	db  *database.PostgresClient
	rdb *database.RedisClient
	svc *booking.Service
}

func TestFullE2E(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	// always talk to the docker-compose ports
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Catalog.Backend = config.CatalogBackendPostgres
	cfg.Catalog.Table = "frequency_assets_e2e"

	s := newStack(t, cfg)

	t.Run("connectivity", func(t *testing.T) { assertConnectivity(t, s) })
	t.Run("recommend-frequency", func(t *testing.T) { testRecommendFrequency(t, s) })
	t.Run("describe-frequency", func(t *testing.T) { testDescribeFrequency(t, s) })
	t.Run("find-frequency-asset", func(t *testing.T) { testFindFrequencyAsset(t, s) })
	t.Run("http api", func(t *testing.T) { testHTTPAPI(t, s) })
}

func newStack(t *testing.T, cfg *config.Config) *stack {
	t.Helper()

	db, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb := database.NewRedis(cfg.Database.Redis)
	t.Cleanup(func() { rdb.Close() })

	seedCatalog(t, db.DB, cfg.Catalog.Table)

	log := logger.NewZapAdapter(zapLog)
	provider, err := catalog.New(cfg.Catalog, catalog.Backends{Postgres: db.DB})
	require.NoError(t, err)

	engine := recommendation.NewEngine(provider, log)
	store := sessionstore.NewRedis(rdb.Client, time.Minute)

	return &stack{
		cfg: cfg,
		db:  db,
		rdb: rdb,
		svc: booking.NewService(engine, store, log),
	}
}

// ==========================
// 1. Service Connectivity
// ==========================

func assertConnectivity(t *testing.T, s *stack) {
	ctx := context.Background()

	assert.NoError(t, s.db.Ping(ctx), "postgres ping failed")
	assert.NoError(t, s.rdb.Ping(ctx), "redis ping failed")

	_, err := zeebeClient.NewTopologyCommand().Send(ctx)
	assert.NoError(t, err, "zeebe topology request failed")
}

// ==========================
// 2. Catalog Table + Seed Data
// ==========================

func seedCatalog(t *testing.T, db *sql.DB, table string) {
	t.Helper()
	ctx := context.Background()

	reg, err := registry.LoadRegistry("../../configs/catalog.yaml")
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	ident := pq.QuoteIdentifier(table)
	_, err = db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, ident))
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			frequency_range_min DOUBLE PRECISION NOT NULL,
			frequency_range_max DOUBLE PRECISION NOT NULL,
			primary_intentions JSONB NOT NULL DEFAULT '[]',
			healing_properties JSONB NOT NULL DEFAULT '[]',
			harmonic_connections JSONB NOT NULL DEFAULT '[]',
			family TEXT,
			audio_url TEXT
		)`, ident))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), fmt.Sprintf(`DROP TABLE IF EXISTS %s`, ident))
	})

	insert := fmt.Sprintf(`
		INSERT INTO %s (id, name, frequency_range_min, frequency_range_max,
			primary_intentions, healing_properties, harmonic_connections, family, audio_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''))`, ident)

	for _, f := range reg.Frequencies {
		intentions, _ := json.Marshal(f.PrimaryIntentions)
		properties, _ := json.Marshal(f.HealingProperties)
		harmonics, _ := json.Marshal(f.HarmonicConnections)
		_, err := db.ExecContext(ctx, insert, f.ID, f.Name, f.FrequencyRangeMin, f.FrequencyRangeMax,
			string(intentions), string(properties), string(harmonics), f.Family, f.AudioURL)
		require.NoError(t, err, "insert %s", f.ID)
	}
	t.Logf("seeded %d frequencies into %s", len(reg.Frequencies), table)
}

// ==========================
// 3. Workers
// ==========================

func testRecommendFrequency(t *testing.T, s *stack) {
	h := recommendfrequency.NewHandler(&recommendfrequency.Config{Timeout: 10 * time.Second}, s.svc, logger.NewZapAdapter(zapLog))

	out, err := h.Execute(context.Background(), &recommendfrequency.Input{
		BookingID: "e2e-booking-1",
		Intake:    json.RawMessage(`{"intentions":["sleep"],"healthConcerns":"insomnia, pain"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourceScored, out.Source)
	assert.Greater(t, out.Score, 0)
	assert.Contains(t, out.Metadata.PrimaryIntentions, "sleep")

	session, err := s.svc.Session(context.Background(), "e2e-booking-1")
	require.NoError(t, err)
	assert.Equal(t, out.Frequency, session.Frequency)

	out, err = h.Execute(context.Background(), &recommendfrequency.Input{BookingID: "e2e-booking-2"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFrequency, out.Frequency)
}

func testDescribeFrequency(t *testing.T, s *stack) {
	h := describefrequency.NewHandler(&describefrequency.Config{Timeout: 10 * time.Second}, s.svc, logger.NewZapAdapter(zapLog))

	hz := intake.Hz(528)
	out, err := h.Execute(context.Background(), &describefrequency.Input{Frequency: &hz})
	require.NoError(t, err)
	assert.True(t, out.Known)

	unknown := intake.Hz(12345)
	out, err = h.Execute(context.Background(), &describefrequency.Input{Frequency: &unknown})
	require.NoError(t, err)
	assert.False(t, out.Known)
	assert.Equal(t, models.UnknownFrequencyName, out.Name)
}

func testFindFrequencyAsset(t *testing.T, s *stack) {
	h := findfrequencyasset.NewHandler(&findfrequencyasset.Config{Timeout: 10 * time.Second}, s.svc, logger.NewZapAdapter(zapLog))

	// falls back to the stored session of e2e-booking-1
	out, err := h.Execute(context.Background(), &findfrequencyasset.Input{BookingID: "e2e-booking-1"})
	require.NoError(t, err)
	assert.True(t, out.Found)

	missing := intake.Hz(99999)
	out, err = h.Execute(context.Background(), &findfrequencyasset.Input{Frequency: &missing})
	require.NoError(t, err)
	assert.False(t, out.Found)
}

// ==========================
// 4. HTTP API
// ==========================

func testHTTPAPI(t *testing.T, s *stack) {
	srv := httptest.NewServer(api.NewRouter(s.svc, logger.NewZapAdapter(zapLog), s.db, s.rdb))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Post(srv.URL+"/v1/recommendations?bookingId=e2e-http-1", "application/json",
		strings.NewReader(`{"intentions":["love"]}`))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var rec models.Recommendation
	require.NoError(t, json.NewDecoder(res.Body).Decode(&rec))
	assert.Equal(t, "e2e-http-1", rec.BookingID)

	res, err = http.Get(srv.URL + "/v1/bookings/e2e-http-1/recommendation")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
