package describefrequency

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"frequency-workers/internal/booking"
	"frequency-workers/internal/catalog"
	"frequency-workers/internal/common/config"
	"frequency-workers/internal/common/errors"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/intake"
	"frequency-workers/internal/models"
	"frequency-workers/internal/recommendation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	engine := recommendation.NewEngine(catalog.NewStatic(
		models.Candidate{
			Name: "Schumann Resonance", FrequencyRangeMin: 7.83, FrequencyRangeMax: 7.83,
			PrimaryIntentions: []string{"grounding"}, HarmonicConnections: []int{432}, Family: "Earth",
		},
		models.Candidate{
			Name: "Alpha Waves", FrequencyRangeMin: 8, FrequencyRangeMax: 12,
			HealingProperties: []string{"Relaxed focus"}, Family: "Brainwave",
		},
	), log)
	return NewHandler(LoadConfig(config.WorkerConfig{}), booking.NewService(engine, nil, log), log)
}

func hz(v float64) *intake.Hz {
	h := intake.Hz(v)
	return &h
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		frequency *intake.Hz
		wantName  string
		wantKnown bool
		family    string
	}{
		{name: "exact entry", frequency: hz(7.83), wantName: "Schumann Resonance", wantKnown: true, family: "Earth"},
		{name: "inside a band", frequency: hz(10), wantName: "Alpha Waves", wantKnown: true, family: "Brainwave"},
		{name: "band bound", frequency: hz(12), wantName: "Alpha Waves", wantKnown: true, family: "Brainwave"},
		{name: "unknown", frequency: hz(999), wantName: "Unknown Frequency", wantKnown: false, family: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := createTestHandler(t).Execute(context.Background(), &Input{Frequency: tt.frequency})

			require.NoError(t, err)
			assert.Equal(t, float64(*tt.frequency), output.Hz)
			assert.Equal(t, tt.wantName, output.Name)
			assert.Equal(t, tt.wantKnown, output.Known)
			assert.Equal(t, tt.family, output.Family)
			assert.NotNil(t, output.RelatedFrequencies)
			assert.NotNil(t, output.PrimaryIntentions)
			assert.NotNil(t, output.HealingProperties)
		})
	}
}

func TestHandler_Execute_StringFrequency(t *testing.T) {
	var input Input
	require.NoError(t, json.Unmarshal([]byte(`{"frequency": "7.83 Hz"}`), &input))

	output, err := createTestHandler(t).Execute(context.Background(), &input)

	require.NoError(t, err)
	assert.Equal(t, []int{432}, output.RelatedFrequencies)
}

func TestHandler_Execute_InvalidFrequency(t *testing.T) {
	for _, input := range []*Input{{}, {Frequency: hz(0)}, {Frequency: hz(-7)}} {
		_, err := createTestHandler(t).Execute(context.Background(), input)

		var stdErr *errors.StandardError
		require.True(t, stderrors.As(err, &stdErr))
		assert.Equal(t, errors.ErrCodeInvalidFrequency, stdErr.Code)
	}
}
