// pkg/registry/schema.go
package registry

import (
	"fmt"
	"math"

	"frequency-workers/internal/models"
)

// FrequencyRegistry is the on-disk frequency catalog.
type FrequencyRegistry struct {
	Version     string             `yaml:"version"`
	LastUpdated string             `yaml:"last_updated"`
	Frequencies []models.Candidate `yaml:"frequencies"`
}

// Validate checks every entry and the uniqueness of ids and ranges.
func (r *FrequencyRegistry) Validate() error {
	if len(r.Frequencies) == 0 {
		return fmt.Errorf("registry contains no frequencies")
	}

	ids := make(map[string]bool)
	keys := make(map[models.CandidateKey]string)
	for i, f := range r.Frequencies {
		if f.ID == "" {
			return fmt.Errorf("frequency #%d missing required field: id", i)
		}
		if ids[f.ID] {
			return fmt.Errorf("duplicate frequency id: %s", f.ID)
		}
		ids[f.ID] = true

		if err := ValidateEntry(f); err != nil {
			return fmt.Errorf("frequency %s: %w", f.ID, err)
		}

		if other, dup := keys[f.Key()]; dup {
			return fmt.Errorf("frequency %s: range %s already used by %s", f.ID, f.Key(), other)
		}
		keys[f.Key()] = f.ID
	}
	return nil
}

// ValidateEntry checks a single catalog entry.
func ValidateEntry(f models.Candidate) error {
	if f.Name == "" {
		return fmt.Errorf("missing required field: name")
	}
	if math.IsNaN(f.FrequencyRangeMin) || math.IsNaN(f.FrequencyRangeMax) {
		return fmt.Errorf("range bounds must be numbers")
	}
	if f.FrequencyRangeMin <= 0 {
		return fmt.Errorf("frequency_range_min must be positive")
	}
	if f.FrequencyRangeMin > f.FrequencyRangeMax {
		return fmt.Errorf("frequency_range_min %g exceeds frequency_range_max %g", f.FrequencyRangeMin, f.FrequencyRangeMax)
	}
	for _, hz := range f.HarmonicConnections {
		if hz <= 0 {
			return fmt.Errorf("harmonic connection %d must be positive", hz)
		}
	}
	return nil
}

// Find returns the entry with id, or nil.
func (r *FrequencyRegistry) Find(id string) *models.Candidate {
	for i := range r.Frequencies {
		if r.Frequencies[i].ID == id {
			return &r.Frequencies[i]
		}
	}
	return nil
}
