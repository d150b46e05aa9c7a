package recommendation

import "frequency-workers/internal/models"

// Fallback produces a result when nothing scored. It never fails:
// the candidate covering 432 Hz, else the first candidate, else a bare 432.
func Fallback(candidates []models.Candidate) models.RecommendationResult {
	for i := range candidates {
		if candidates[i].Contains(models.DefaultFrequency) {
			c := candidates[i]
			return models.RecommendationResult{
				Frequency: models.DefaultFrequency,
				Candidate: &c,
				Source:    models.SourceFallbackDefault,
			}
		}
	}

	if len(candidates) > 0 {
		c := candidates[0]
		return models.RecommendationResult{
			Frequency: c.FrequencyRangeMin,
			Candidate: &c,
			Source:    models.SourceFallbackFirst,
		}
	}

	return models.RecommendationResult{
		Frequency: models.DefaultFrequency,
		Source:    models.SourceFallbackConstant,
	}
}
