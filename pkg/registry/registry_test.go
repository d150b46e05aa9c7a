package registry

import (
	"path/filepath"
	"testing"

	"frequency-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, min, max float64) models.Candidate {
	return models.Candidate{ID: id, Name: id, FrequencyRangeMin: min, FrequencyRangeMax: max}
}

func TestSaveAndLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.yaml")
	reg := &FrequencyRegistry{
		Version: "1.0.0",
		Frequencies: []models.Candidate{
			{ID: "f528", Name: "Miracle Tone", FrequencyRangeMin: 528, FrequencyRangeMax: 528,
				PrimaryIntentions: []string{"love"}, HealingProperties: []string{"DNA repair"},
				HarmonicConnections: []int{396, 639}, Family: "Solfeggio"},
			entry("f174", 174, 174),
		},
	}
	require.NoError(t, SaveRegistry(reg, path))
	assert.NotEmpty(t, reg.LastUpdated)

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, loaded.Frequencies, 2)
	assert.Equal(t, "f174", loaded.Frequencies[0].ID, "saved sorted by range")
	assert.Equal(t, []int{396, 639}, loaded.Frequencies[1].HarmonicConnections)
	assert.Equal(t, "Solfeggio", loaded.Frequencies[1].Family)
}

func TestLoadRegistry_Missing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.Candidate
		wantErr string
	}{
		{"empty", nil, "no frequencies"},
		{"ok", []models.Candidate{entry("a", 174, 174), entry("b", 100, 200)}, ""},
		{"missing id", []models.Candidate{entry("", 174, 174)}, "missing required field: id"},
		{"duplicate id", []models.Candidate{entry("a", 174, 174), entry("a", 285, 285)}, "duplicate frequency id"},
		{"inverted range", []models.Candidate{entry("a", 300, 200)}, "exceeds"},
		{"non-positive", []models.Candidate{entry("a", 0, 10)}, "must be positive"},
		{"duplicate range", []models.Candidate{entry("a", 174, 174), entry("b", 174, 174)}, "already used by a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&FrequencyRegistry{Frequencies: tt.entries}).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAdd(t *testing.T) {
	reg := &FrequencyRegistry{Frequencies: []models.Candidate{entry("a", 174, 174)}}

	require.NoError(t, reg.Add(entry("b", 285, 285)))
	assert.Len(t, reg.Frequencies, 2)

	assert.Error(t, reg.Add(entry("b", 396, 396)))
	assert.Error(t, reg.Add(entry("c", 174, 174)))
	assert.Len(t, reg.Frequencies, 2)
}
