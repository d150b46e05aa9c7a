// internal/models/frequency.go
package models

import "strconv"

// Candidate is one catalog entry: a frequency band with its audio asset and therapeutic metadata.
type Candidate struct {
	ID                  string   `json:"id" yaml:"id" db:"id"`
	Name                string   `json:"name" yaml:"name" db:"name"`
	FrequencyRangeMin   float64  `json:"frequencyRangeMin" yaml:"frequency_range_min" db:"frequency_range_min"`
	FrequencyRangeMax   float64  `json:"frequencyRangeMax" yaml:"frequency_range_max" db:"frequency_range_max"`
	PrimaryIntentions   []string `json:"primaryIntentions" yaml:"primary_intentions" db:"primary_intentions"`
	HealingProperties   []string `json:"healingProperties" yaml:"healing_properties" db:"healing_properties"`
	HarmonicConnections []int    `json:"harmonicConnections" yaml:"harmonic_connections" db:"harmonic_connections"`
	Family              string   `json:"family,omitempty" yaml:"family,omitempty" db:"family"`
	AudioURL            string   `json:"audioUrl,omitempty" yaml:"audio_url,omitempty" db:"audio_url"`
}

// CandidateKey identifies a candidate by its range.
type CandidateKey struct {
	Min float64
	Max float64
}

func (k CandidateKey) String() string {
	if k.Min == k.Max {
		return strconv.FormatFloat(k.Min, 'f', -1, 64)
	}
	return strconv.FormatFloat(k.Min, 'f', -1, 64) + "-" + strconv.FormatFloat(k.Max, 'f', -1, 64)
}

func (c Candidate) Key() CandidateKey {
	return CandidateKey{Min: c.FrequencyRangeMin, Max: c.FrequencyRangeMax}
}

// Contains reports whether hz lies inside the candidate range, bounds included.
func (c Candidate) Contains(hz float64) bool {
	return c.FrequencyRangeMin <= hz && hz <= c.FrequencyRangeMax
}

// ScoreEntry accumulates the relevance score of one candidate for one request.
type ScoreEntry struct {
	Candidate Candidate `json:"candidate"`
	Score     int       `json:"score"`
}

type RecommendationSource string

const (
	SourceScored           RecommendationSource = "scored"
	SourceFallbackDefault  RecommendationSource = "fallback_432"
	SourceFallbackFirst    RecommendationSource = "fallback_first"
	SourceFallbackConstant RecommendationSource = "fallback_constant"
)

// DefaultFrequency is the universal resonance used whenever nothing scores.
const DefaultFrequency = 432.0

// RecommendationResult is what the engine hands back to the booking pipeline.
// Candidate is nil only when the constant fallback fired.
type RecommendationResult struct {
	Frequency float64              `json:"frequency"`
	Candidate *Candidate           `json:"candidate,omitempty"`
	Score     int                  `json:"score"`
	Source    RecommendationSource `json:"source"`
}

func (r RecommendationResult) HasAsset() bool {
	return r.Candidate != nil
}

// DisplayMetadata feeds the results screen and follow-up emails. Slices are never nil.
type DisplayMetadata struct {
	Hz                 float64  `json:"hz"`
	Name               string   `json:"name"`
	RelatedFrequencies []int    `json:"relatedFrequencies"`
	PrimaryIntentions  []string `json:"primaryIntentions"`
	HealingProperties  []string `json:"healingProperties"`
	Family             string   `json:"family"`
}

const (
	UnknownFrequencyName = "Unknown Frequency"
	UnknownFamily        = "Unknown"
)

// Recommendation is the response returned to the booking app and the recommend-frequency job.
type Recommendation struct {
	RecommendationID string               `json:"recommendationId"`
	BookingID        string               `json:"bookingId,omitempty"`
	Frequency        float64              `json:"frequency"`
	Source           RecommendationSource `json:"source"`
	Score            int                  `json:"score"`
	HasAsset         bool                 `json:"hasAsset"`
	AssetID          string               `json:"assetId,omitempty"`
	AudioURL         string               `json:"audioUrl,omitempty"`
	Metadata         DisplayMetadata      `json:"metadata"`
}
