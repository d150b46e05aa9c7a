package findfrequencyasset

import "frequency-workers/internal/intake"

// Input needs a frequency or a booking with a stored recommendation.
type Input struct {
	Frequency *intake.Hz `json:"frequency,omitempty"`
	BookingID string     `json:"bookingId,omitempty"`
}

// Output with Found=false is the "no audio available" state.
type Output struct {
	Found     bool    `json:"found"`
	AssetID   string  `json:"assetId,omitempty"`
	Name      string  `json:"name,omitempty"`
	AudioURL  string  `json:"audioUrl,omitempty"`
	Frequency float64 `json:"frequency"`
}
