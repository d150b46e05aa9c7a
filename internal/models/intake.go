// internal/models/intake.go
package models

type Intensity string

const (
	IntensityGentle   Intensity = "gentle"
	IntensityModerate Intensity = "moderate"
	IntensityDeep     Intensity = "deep"
)

// EnergyLevels holds the four 1-10 self ratings. Zero means the client skipped the question.
type EnergyLevels struct {
	Physical  int `json:"physical,omitempty"`
	Emotional int `json:"emotional,omitempty"`
	Mental    int `json:"mental,omitempty"`
	Spiritual int `json:"spiritual,omitempty"`
}

// IntakeSignal is the normalized questionnaire the scoring engine consumes.
// The zero value is a valid signal with nothing reported.
type IntakeSignal struct {
	Intentions          []string     `json:"intentions,omitempty"`
	SelectedFrequencies []float64    `json:"selectedFrequencies,omitempty"`
	EmotionalIndicators []string     `json:"emotionalIndicators,omitempty"`
	Energy              EnergyLevels `json:"energyLevels"`
	HealthConcerns      []string     `json:"healthConcerns,omitempty"`
	Intensity           Intensity    `json:"intensity,omitempty"`
}

// MaxSelectedFrequencies caps the manual pre-selection.
const MaxSelectedFrequencies = 3

func (s IntakeSignal) IsEmpty() bool {
	return len(s.Intentions) == 0 &&
		len(s.SelectedFrequencies) == 0 &&
		len(s.EmotionalIndicators) == 0 &&
		len(s.HealthConcerns) == 0 &&
		s.Energy == (EnergyLevels{})
}
