// Package booking ties recommendations to bookings: it records the chosen frequency per
// booking and resolves it again for playback and the follow-up report.
package booking

import (
	"context"
	"math"
	"time"

	"frequency-workers/internal/common/errors"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/models"
	"frequency-workers/internal/recommendation"
	"frequency-workers/internal/sessionstore"

	"github.com/google/uuid"
)

type Service struct {
	engine *recommendation.Engine
	store  sessionstore.Store
	logger logger.Logger
	newID  func() string
}

// NewService wires the engine to a session store. store may be nil, in which case
// nothing is remembered between calls.
func NewService(engine *recommendation.Engine, store sessionstore.Store, log logger.Logger) *Service {
	return &Service{
		engine: engine,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "booking"}),
		newID:  func() string { return uuid.New().String() },
	}
}

// Recommend always produces a recommendation. When bookingID is set the result is
// saved for the booking; a failed save is logged and does not fail the call.
func (s *Service) Recommend(ctx context.Context, bookingID string, signal models.IntakeSignal) *models.Recommendation {
	result := s.engine.Recommend(ctx, signal)

	rec := &models.Recommendation{
		RecommendationID: s.newID(),
		BookingID:        bookingID,
		Frequency:        result.Frequency,
		Source:           result.Source,
		Score:            result.Score,
		HasAsset:         result.HasAsset(),
	}
	var matched []models.Candidate
	if result.Candidate != nil {
		rec.AssetID = result.Candidate.ID
		rec.AudioURL = result.Candidate.AudioURL
		matched = []models.Candidate{*result.Candidate}
	}
	rec.Metadata = recommendation.Resolve(result.Frequency, matched)

	if bookingID != "" && s.store != nil {
		err := s.store.Save(ctx, models.SessionRecord{
			BookingID:        bookingID,
			RecommendationID: rec.RecommendationID,
			Frequency:        rec.Frequency,
			Source:           rec.Source,
			Score:            rec.Score,
			AssetID:          rec.AssetID,
			CreatedAt:        time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("failed to save session record", map[string]interface{}{
				"bookingId": bookingID,
				"error":     err.Error(),
			})
		}
	}
	return rec
}

func (s *Service) Describe(ctx context.Context, hz float64) (models.DisplayMetadata, error) {
	if err := ValidateFrequency(hz); err != nil {
		return models.DisplayMetadata{}, err
	}
	return s.engine.Describe(ctx, hz), nil
}

// FindAsset returns nil without error when no audio exists for hz.
func (s *Service) FindAsset(ctx context.Context, hz float64) (*models.Candidate, error) {
	if err := ValidateFrequency(hz); err != nil {
		return nil, err
	}
	return s.engine.FindAsset(ctx, hz), nil
}

// Session returns the stored recommendation for a booking.
func (s *Service) Session(ctx context.Context, bookingID string) (*models.SessionRecord, error) {
	if s.store == nil || bookingID == "" {
		return nil, errors.NewSessionNotFoundError(bookingID)
	}
	return s.store.Get(ctx, bookingID)
}

// FrequencyFor returns hz when given, otherwise the frequency stored for the booking.
func (s *Service) FrequencyFor(ctx context.Context, bookingID string, hz *float64) (float64, error) {
	if hz != nil {
		if err := ValidateFrequency(*hz); err != nil {
			return 0, err
		}
		return *hz, nil
	}
	if bookingID == "" {
		return 0, errors.NewInvalidFrequencyError("frequency or bookingId is required")
	}
	rec, err := s.Session(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	return rec.Frequency, nil
}

// ValidateFrequency rejects zero, negative and non-finite values.
func ValidateFrequency(hz float64) error {
	if math.IsNaN(hz) || math.IsInf(hz, 0) || hz <= 0 {
		return errors.NewInvalidFrequencyError("frequency must be a positive finite number")
	}
	return nil
}
