package intake

import (
	"encoding/json"
	"math"
	"strings"

	"frequency-workers/internal/common/errors"
	"frequency-workers/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	minRating = 1
	maxRating = 10
)

// Parse validates a raw questionnaire payload and normalizes it. An empty or null payload
// is a valid questionnaire with nothing answered.
func Parse(raw []byte) (models.IntakeSignal, error) {
	if trimmed := strings.TrimSpace(string(raw)); trimmed == "" || trimmed == "null" {
		return models.IntakeSignal{}, nil
	}
	if result := FormSchema.ValidateJSON(string(raw)); !result.Valid {
		return models.IntakeSignal{}, errors.NewInvalidIntakeError(result.Error())
	}

	var form Form
	if err := json.Unmarshal(raw, &form); err != nil {
		return models.IntakeSignal{}, errors.NewInvalidIntakeError(err.Error())
	}
	return Normalize(form), nil
}

// Normalize cleans free text (trim, NFC, case fold), drops blanks and duplicates,
// keeps the first three positive frequencies and clamps ratings into 1-10. A rating
// of zero or less means the question was skipped.
func Normalize(form Form) models.IntakeSignal {
	t := newTextNormalizer()

	intentions := append(append([]string{}, form.Intentions...), form.Goals...)

	signal := models.IntakeSignal{
		Intentions:          t.unique(intentions),
		SelectedFrequencies: frequencies(form.SelectedFrequencies),
		EmotionalIndicators: t.unique(form.EmotionalIndicators),
		HealthConcerns:      t.unique(form.HealthConcerns),
		Intensity:           intensity(t.text(form.Intensity)),
	}
	if e := form.EnergyLevels; e != nil {
		signal.Energy = models.EnergyLevels{
			Physical:  clampRating(e.Physical),
			Emotional: clampRating(e.Emotional),
			Mental:    clampRating(e.Mental),
			Spiritual: clampRating(e.Spiritual),
		}
	}
	return signal
}

type textNormalizer struct {
	caser cases.Caser
}

func newTextNormalizer() *textNormalizer {
	return &textNormalizer{caser: cases.Fold()}
}

func (t *textNormalizer) text(s string) string {
	return t.caser.String(norm.NFC.String(strings.TrimSpace(s)))
}

func (t *textNormalizer) unique(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = t.text(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func frequencies(values FrequencyList) []float64 {
	var out []float64
	for _, hz := range values {
		if math.IsNaN(hz) || math.IsInf(hz, 0) || hz <= 0 {
			continue
		}
		dup := false
		for _, existing := range out {
			if existing == hz {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		out = append(out, hz)
		if len(out) == models.MaxSelectedFrequencies {
			break
		}
	}
	return out
}

func clampRating(r Rating) int {
	v := float64(r)
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	n := int(math.Round(v))
	switch {
	case n < minRating:
		return minRating
	case n > maxRating:
		return maxRating
	}
	return n
}

func intensity(s string) models.Intensity {
	switch models.Intensity(s) {
	case models.IntensityGentle, models.IntensityModerate, models.IntensityDeep:
		return models.Intensity(s)
	}
	return ""
}
