package recommendation

import (
	"strconv"

	"frequency-workers/internal/models"
)

// Resolve describes hz using the first candidate whose range contains it, or the
// "Unknown Frequency" placeholder. No field of the result is ever nil.
func Resolve(hz float64, candidates []models.Candidate) models.DisplayMetadata {
	c := findContaining(hz, candidates)
	if c == nil {
		return Placeholder(hz)
	}

	name := c.Name
	if name == "" {
		name = strconv.FormatFloat(hz, 'f', -1, 64) + " Hz"
	}
	family := c.Family
	if family == "" {
		family = models.UnknownFamily
	}

	return models.DisplayMetadata{
		Hz:                 hz,
		Name:               name,
		RelatedFrequencies: append([]int{}, c.HarmonicConnections...),
		PrimaryIntentions:  append([]string{}, c.PrimaryIntentions...),
		HealingProperties:  append([]string{}, c.HealingProperties...),
		Family:             family,
	}
}

// Placeholder is the metadata shown for a frequency with no catalog entry.
func Placeholder(hz float64) models.DisplayMetadata {
	return models.DisplayMetadata{
		Hz:                 hz,
		Name:               models.UnknownFrequencyName,
		RelatedFrequencies: []int{},
		PrimaryIntentions:  []string{},
		HealingProperties:  []string{},
		Family:             models.UnknownFamily,
	}
}

func findContaining(hz float64, candidates []models.Candidate) *models.Candidate {
	for i := range candidates {
		if candidates[i].Contains(hz) {
			c := candidates[i]
			return &c
		}
	}
	return nil
}
