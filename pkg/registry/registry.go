// pkg/registry/registry.go
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"frequency-workers/internal/models"

	"gopkg.in/yaml.v3"
)

func LoadRegistry(path string) (*FrequencyRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg FrequencyRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes reg sorted by range and stamps LastUpdated.
func SaveRegistry(reg *FrequencyRegistry, path string) error {
	SortByRange(reg.Frequencies)
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := yaml.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Add appends f after validating it against the existing entries.
func (r *FrequencyRegistry) Add(f models.Candidate) error {
	if r.Find(f.ID) != nil {
		return fmt.Errorf("frequency with id %s already exists", f.ID)
	}
	next := FrequencyRegistry{Frequencies: append(append([]models.Candidate{}, r.Frequencies...), f)}
	if err := next.Validate(); err != nil {
		return err
	}
	r.Frequencies = next.Frequencies
	return nil
}

// SortByRange orders entries by ascending min, then max, the order catalog backends yield.
func SortByRange(frequencies []models.Candidate) {
	sort.SliceStable(frequencies, func(i, j int) bool {
		if frequencies[i].FrequencyRangeMin != frequencies[j].FrequencyRangeMin {
			return frequencies[i].FrequencyRangeMin < frequencies[j].FrequencyRangeMin
		}
		return frequencies[i].FrequencyRangeMax < frequencies[j].FrequencyRangeMax
	})
}
