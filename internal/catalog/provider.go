// Package catalog reads frequency candidates from the configured store.
package catalog

import (
	"context"
	"time"

	"frequency-workers/internal/models"
)

// Provider supplies the full candidate catalog, ascending by FrequencyRangeMin by convention.
type Provider interface {
	FetchCandidates(ctx context.Context) ([]models.Candidate, error)
	Name() string
}

// AssetFinder is implemented by providers that can look a frequency up without reading
// the whole catalog. It returns nil, nil when no entry covers hz.
type AssetFinder interface {
	FindAsset(ctx context.Context, hz float64) (*models.Candidate, error)
}

// Static serves a fixed in-memory catalog.
type Static struct {
	candidates []models.Candidate
}

func NewStatic(candidates ...models.Candidate) *Static {
	return &Static{candidates: candidates}
}

func (s *Static) Name() string { return "static" }

// FetchCandidates returns a copy so callers cannot mutate the catalog.
func (s *Static) FetchCandidates(ctx context.Context) ([]models.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]models.Candidate(nil), s.candidates...), nil
}

// assetRow is the snake_case document shape shared by the search index and PostgREST.
type assetRow struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	FrequencyRangeMin   float64  `json:"frequency_range_min"`
	FrequencyRangeMax   float64  `json:"frequency_range_max"`
	PrimaryIntentions   []string `json:"primary_intentions"`
	HealingProperties   []string `json:"healing_properties"`
	HarmonicConnections []int    `json:"harmonic_connections"`
	Family              *string  `json:"family"`
	AudioURL            *string  `json:"audio_url"`
}

func (r assetRow) toCandidate() models.Candidate {
	c := models.Candidate{
		ID:                  r.ID,
		Name:                r.Name,
		FrequencyRangeMin:   r.FrequencyRangeMin,
		FrequencyRangeMax:   r.FrequencyRangeMax,
		PrimaryIntentions:   r.PrimaryIntentions,
		HealingProperties:   r.HealingProperties,
		HarmonicConnections: r.HarmonicConnections,
	}
	if r.Family != nil {
		c.Family = *r.Family
	}
	if r.AudioURL != nil {
		c.AudioURL = *r.AudioURL
	}
	if c.FrequencyRangeMax < c.FrequencyRangeMin {
		// single-frequency rows often leave max unset
		c.FrequencyRangeMax = c.FrequencyRangeMin
	}
	return c
}

// boundedContext applies a backend's fetch timeout; zero means none.
func boundedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
