package recommendation

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"frequency-workers/internal/catalog"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/common/metrics"
	"frequency-workers/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct{ name string }

func (f failingProvider) Name() string { return f.name }

func (f failingProvider) FetchCandidates(ctx context.Context) ([]models.Candidate, error) {
	return nil, errors.New("connection refused")
}

// finderProvider records whether the lookup went through FindAsset.
type finderProvider struct {
	*catalog.Static
	found   *models.Candidate
	err     error
	lookups int
}

func (f *finderProvider) FindAsset(ctx context.Context, hz float64) (*models.Candidate, error) {
	f.lookups++
	return f.found, f.err
}

func newTestEngine(t *testing.T, p catalog.Provider, opts ...Option) *Engine {
	t.Helper()
	return NewEngine(p, logger.NewTestLogger(t), opts...)
}

// ==========================
// Recommend
// ==========================

func TestEngine_Recommend_SingleMatch(t *testing.T) {
	e := newTestEngine(t, catalog.NewStatic(withIntentions(single(174), "pain")))

	got := e.Recommend(context.Background(), models.IntakeSignal{Intentions: []string{"pain"}})

	assert.Equal(t, 174.0, got.Frequency)
	assert.Equal(t, models.SourceScored, got.Source)
	assert.Equal(t, WeightIntention, got.Score)
	assert.True(t, got.HasAsset())
}

func TestEngine_Recommend_NothingScoresPrefers432(t *testing.T) {
	e := newTestEngine(t, catalog.NewStatic(single(174), single(432)))

	got := e.Recommend(context.Background(), models.IntakeSignal{})

	assert.Equal(t, 432.0, got.Frequency)
	assert.Equal(t, models.SourceFallbackDefault, got.Source)
	require.NotNil(t, got.Candidate)
	assert.Equal(t, 432.0, got.Candidate.FrequencyRangeMin)
}

func TestEngine_Recommend_TieIsRoughlyEven(t *testing.T) {
	e := newTestEngine(t,
		catalog.NewStatic(withIntentions(single(174), "calm"), withIntentions(single(285), "calm")),
		WithRand(rand.New(rand.NewPCG(7, 11))),
	)

	const trials = 4000
	counts := map[float64]int{}
	for i := 0; i < trials; i++ {
		got := e.Recommend(context.Background(), models.IntakeSignal{Intentions: []string{"calm"}})
		counts[got.Frequency]++
	}

	require.Len(t, counts, 2)
	assert.InDelta(t, trials/2, counts[174], trials*0.1)
	assert.InDelta(t, trials/2, counts[285], trials*0.1)
}

func TestEngine_Recommend_EmptyCatalog(t *testing.T) {
	e := newTestEngine(t, catalog.NewStatic())

	got := e.Recommend(context.Background(), models.IntakeSignal{Intentions: []string{"pain"}})

	assert.Equal(t, models.DefaultFrequency, got.Frequency)
	assert.Equal(t, models.SourceFallbackConstant, got.Source)
	assert.False(t, got.HasAsset())
}

func TestEngine_Recommend_EmotionalMatch(t *testing.T) {
	e := newTestEngine(t, catalog.NewStatic(withProperties(single(528), "Love", "Vitality")))

	got := e.Recommend(context.Background(), models.IntakeSignal{EmotionalIndicators: []string{"love"}})

	assert.Equal(t, 528.0, got.Frequency)
	assert.Equal(t, WeightEmotionalIndicator, got.Score)
}

func TestEngine_Recommend_CatalogFailureFallsBack(t *testing.T) {
	p := failingProvider{name: "engine-test-failing"}
	e := newTestEngine(t, p)

	before := testutil.ToFloat64(metrics.CatalogFetchFailures.WithLabelValues(p.name))
	got := e.Recommend(context.Background(), models.IntakeSignal{Intentions: []string{"pain"}})

	assert.Equal(t, models.DefaultFrequency, got.Frequency)
	assert.Equal(t, models.SourceFallbackConstant, got.Source)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CatalogFetchFailures.WithLabelValues(p.name)))
}

func TestEngine_Recommend_CountsBySource(t *testing.T) {
	e := newTestEngine(t, catalog.NewStatic(single(528)))
	counter := metrics.RecommendationsTotal.WithLabelValues(string(models.SourceFallbackFirst))

	before := testutil.ToFloat64(counter)
	e.Recommend(context.Background(), models.IntakeSignal{})

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

// ==========================
// Describe / FindAsset
// ==========================

func TestEngine_Describe(t *testing.T) {
	e := newTestEngine(t, catalog.NewStatic(models.Candidate{
		Name: "Liberation", FrequencyRangeMin: 396, FrequencyRangeMax: 396, Family: "Solfeggio",
	}))

	assert.Equal(t, "Liberation", e.Describe(context.Background(), 396).Name)

	unknown := e.Describe(context.Background(), 999)
	assert.Equal(t, models.UnknownFrequencyName, unknown.Name)
	assert.Equal(t, 999.0, unknown.Hz)
	assert.Empty(t, unknown.RelatedFrequencies)
}

func TestEngine_Describe_CatalogFailure(t *testing.T) {
	e := newTestEngine(t, failingProvider{name: "engine-test-describe"})
	assert.Equal(t, Placeholder(528), e.Describe(context.Background(), 528))
}

func TestEngine_FindAsset_ScansCatalog(t *testing.T) {
	e := newTestEngine(t, catalog.NewStatic(
		models.Candidate{ID: "a", FrequencyRangeMin: 1, FrequencyRangeMax: 4},
		models.Candidate{ID: "b", FrequencyRangeMin: 4, FrequencyRangeMax: 8},
	))

	got := e.FindAsset(context.Background(), 4)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID, "first entry in catalog order wins on a shared bound")

	assert.Nil(t, e.FindAsset(context.Background(), 100))
}

func TestEngine_FindAsset_UsesFinder(t *testing.T) {
	p := &finderProvider{
		Static: catalog.NewStatic(),
		found:  &models.Candidate{ID: "x", FrequencyRangeMin: 528, FrequencyRangeMax: 528},
	}
	e := newTestEngine(t, p)

	got := e.FindAsset(context.Background(), 528)

	require.NotNil(t, got)
	assert.Equal(t, "x", got.ID)
	assert.Equal(t, 1, p.lookups)
}

func TestEngine_FindAsset_FinderError(t *testing.T) {
	p := &finderProvider{Static: catalog.NewStatic(), err: errors.New("timeout")}
	e := newTestEngine(t, p)

	assert.Nil(t, e.FindAsset(context.Background(), 528))
}
