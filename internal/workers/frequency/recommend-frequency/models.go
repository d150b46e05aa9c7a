package recommendfrequency

import (
	"encoding/json"

	"frequency-workers/internal/models"
)

type Input struct {
	BookingID string          `json:"bookingId,omitempty"`
	Intake    json.RawMessage `json:"intake"`
}

type Output struct {
	RecommendationID string                      `json:"recommendationId"`
	Frequency        float64                     `json:"frequency"`
	Source           models.RecommendationSource `json:"source"`
	Score            int                         `json:"score"`
	HasAsset         bool                        `json:"hasAsset"`
	AssetID          string                      `json:"assetId,omitempty"`
	AudioURL         string                      `json:"audioUrl,omitempty"`
	Metadata         models.DisplayMetadata      `json:"metadata"`
}
