// Package recommendation matches intake signals to catalog frequencies.
package recommendation

import (
	"context"

	"frequency-workers/internal/catalog"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/common/metrics"
	"frequency-workers/internal/common/observability"
	"frequency-workers/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// Engine is safe for concurrent use: each call reads the catalog and scores from scratch.
type Engine struct {
	provider catalog.Provider
	rnd      Rand
	logger   logger.Logger
	obs      *observability.Observability
}

type Option func(*Engine)

// WithRand replaces the tie-break source, typically with a seeded *rand.Rand in tests.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rnd = r }
}

func WithObservability(o *observability.Observability) Option {
	return func(e *Engine) { e.obs = o }
}

func NewEngine(provider catalog.Provider, log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		rnd:      DefaultRand,
		logger:   log.WithFields(map[string]interface{}{"component": "recommendation", "catalog": provider.Name()}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend scores the catalog against signal and always returns a frequency.
func (e *Engine) Recommend(ctx context.Context, signal models.IntakeSignal) models.RecommendationResult {
	ctx, span := e.obs.StartSpan(ctx, "recommendation.recommend")
	defer span.End()

	candidates := e.candidates(ctx)
	entries := Score(candidates, signal)

	var result models.RecommendationResult
	if best := Select(entries, e.rnd); best != nil {
		c := best.Candidate
		result = models.RecommendationResult{
			Frequency: c.FrequencyRangeMin,
			Candidate: &c,
			Score:     best.Score,
			Source:    models.SourceScored,
		}
		metrics.RecommendationScore.Observe(float64(best.Score))
	} else {
		result = Fallback(candidates)
	}

	metrics.RecommendationsTotal.WithLabelValues(string(result.Source)).Inc()
	span.SetAttributes(
		attribute.Float64("frequency", result.Frequency),
		attribute.String("source", string(result.Source)),
		attribute.Int("candidates", len(candidates)),
	)
	e.logger.Debug("recommendation made", map[string]interface{}{
		"frequency":  result.Frequency,
		"source":     result.Source,
		"score":      result.Score,
		"candidates": len(candidates),
	})
	return result
}

// Describe returns display metadata for hz; unknown frequencies get the placeholder.
func (e *Engine) Describe(ctx context.Context, hz float64) models.DisplayMetadata {
	ctx, span := e.obs.StartSpan(ctx, "recommendation.describe", attribute.Float64("frequency", hz))
	defer span.End()

	return Resolve(hz, e.candidates(ctx))
}

// FindAsset returns the catalog entry whose range covers hz, or nil when there is no
// playable asset for it.
func (e *Engine) FindAsset(ctx context.Context, hz float64) *models.Candidate {
	ctx, span := e.obs.StartSpan(ctx, "recommendation.find_asset", attribute.Float64("frequency", hz))
	defer span.End()

	if finder, ok := e.provider.(catalog.AssetFinder); ok {
		c, err := finder.FindAsset(ctx, hz)
		if err != nil {
			e.catalogFailed(err)
			return nil
		}
		return c
	}
	return findContaining(hz, e.candidates(ctx))
}

// candidates reads the catalog, turning a failed read into an empty catalog.
func (e *Engine) candidates(ctx context.Context) []models.Candidate {
	candidates, err := e.provider.FetchCandidates(ctx)
	if err != nil {
		e.catalogFailed(err)
		return nil
	}
	metrics.CatalogCandidates.WithLabelValues(e.provider.Name()).Set(float64(len(candidates)))
	return candidates
}

func (e *Engine) catalogFailed(err error) {
	metrics.CatalogFetchFailures.WithLabelValues(e.provider.Name()).Inc()
	e.logger.Error("catalog read failed, continuing with empty catalog", map[string]interface{}{
		"error": err,
	})
}
