package recommendation

import "frequency-workers/internal/models"

// Rule weights. Their relative order decides recommendations and must not change:
// intention > manual selection > emotional indicator > harmonic support > health concern > energy axis.
const (
	WeightIntention          = 15
	WeightHarmonicSupport    = 5
	WeightManualSelection    = 10
	WeightEmotionalIndicator = 6
	WeightLowEnergyAxis      = 3
	WeightHealthConcern      = 4
)

// LowEnergyThreshold is the highest rating that still counts as depleted.
const LowEnergyThreshold = 3

// Axis keywords matched against healing properties when the client rates that axis low.
var (
	physicalKeywords  = []string{"pain", "stress", "energy"}
	emotionalKeywords = []string{"emotional", "harmony"}
	mentalKeywords    = []string{"clarity", "focus"}
	spiritualKeywords = []string{"spiritual", "meditation"}
)

// scoredCandidate is a candidate with its tag sets folded once per call.
type scoredCandidate struct {
	intentions map[string]struct{}
	properties []string
}

// Score rates every candidate against signal and returns one entry per candidate in
// catalog order. It reads nothing but its arguments and never mutates them.
func Score(candidates []models.Candidate, signal models.IntakeSignal) []models.ScoreEntry {
	entries := make([]models.ScoreEntry, len(candidates))
	if len(candidates) == 0 {
		return entries
	}

	f := newFolder()
	prepared := make([]scoredCandidate, len(candidates))
	for i, c := range candidates {
		prepared[i] = scoredCandidate{
			intentions: f.foldSet(c.PrimaryIntentions),
			properties: f.foldAll(c.HealingProperties),
		}
	}

	intentions := f.uniqueFolded(signal.Intentions)
	indicators := f.foldAll(signal.EmotionalIndicators)
	concerns := f.foldAll(signal.HealthConcerns)
	selected := signal.SelectedFrequencies
	if len(selected) > models.MaxSelectedFrequencies {
		selected = selected[:models.MaxSelectedFrequencies]
	}
	lowAxes := lowEnergyKeywords(signal.Energy)
	harmonics := buildHarmonicIndex(candidates)

	for i, c := range candidates {
		p := prepared[i]
		score := 0

		for _, intention := range intentions {
			if _, ok := p.intentions[intention]; ok {
				score += WeightIntention
			}
			for _, hz := range c.HarmonicConnections {
				ref, ok := harmonics[hz]
				if !ok {
					continue
				}
				if _, ok := prepared[ref].intentions[intention]; ok {
					score += WeightHarmonicSupport
				}
			}
		}

		for _, hz := range selected {
			if c.Contains(hz) {
				score += WeightManualSelection
			}
		}

		if len(p.properties) > 0 {
			for _, indicator := range indicators {
				if anyMutualSubstring(p.properties, indicator) {
					score += WeightEmotionalIndicator
				}
			}
			for _, keywords := range lowAxes {
				if anyKeyword(p.properties, keywords) {
					score += WeightLowEnergyAxis
				}
			}
			for _, concern := range concerns {
				if anyMutualSubstring(p.properties, concern) {
					score += WeightHealthConcern
				}
			}
		}

		entries[i] = models.ScoreEntry{Candidate: c, Score: score}
	}
	return entries
}

// ScoreMap keys Score's result by candidate range. Candidates sharing a range collapse to
// the last one in catalog order.
func ScoreMap(candidates []models.Candidate, signal models.IntakeSignal) map[models.CandidateKey]int {
	entries := Score(candidates, signal)
	out := make(map[models.CandidateKey]int, len(entries))
	for _, e := range entries {
		out[e.Candidate.Key()] = e.Score
	}
	return out
}

// buildHarmonicIndex maps every referenced Hz to the first candidate whose range contains it.
func buildHarmonicIndex(candidates []models.Candidate) map[int]int {
	index := make(map[int]int)
	for _, c := range candidates {
		for _, hz := range c.HarmonicConnections {
			if _, seen := index[hz]; seen {
				continue
			}
			for j := range candidates {
				if candidates[j].Contains(float64(hz)) {
					index[hz] = j
					break
				}
			}
		}
	}
	return index
}

func lowEnergyKeywords(e models.EnergyLevels) [][]string {
	var axes [][]string
	for _, axis := range []struct {
		rating   int
		keywords []string
	}{
		{e.Physical, physicalKeywords},
		{e.Emotional, emotionalKeywords},
		{e.Mental, mentalKeywords},
		{e.Spiritual, spiritualKeywords},
	} {
		if axis.rating >= 1 && axis.rating <= LowEnergyThreshold {
			axes = append(axes, axis.keywords)
		}
	}
	return axes
}

func anyKeyword(properties, keywords []string) bool {
	for _, k := range keywords {
		if anyMutualSubstring(properties, k) {
			return true
		}
	}
	return false
}
