package models

import "time"

// SessionRecord is the recommendation remembered for a booking so playback and the
// follow-up email reuse the frequency chosen during intake.
type SessionRecord struct {
	BookingID        string               `json:"bookingId"`
	RecommendationID string               `json:"recommendationId"`
	Frequency        float64              `json:"frequency"`
	Source           RecommendationSource `json:"source"`
	Score            int                  `json:"score"`
	AssetID          string               `json:"assetId,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
}

// Age returns how long ago the recommendation was made.
func (s *SessionRecord) Age() time.Duration {
	return time.Since(s.CreatedAt)
}
