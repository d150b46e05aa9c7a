package recommendation

import (
	"math/rand/v2"

	"frequency-workers/internal/models"
)

// Rand picks the tie-break index. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the runtime-seeded, goroutine-safe math/rand/v2 source.
var DefaultRand Rand = globalRand{}

// Select returns one of the highest-scoring entries, chosen uniformly when several tie.
// It returns nil when no entry scored above zero.
func Select(entries []models.ScoreEntry, rnd Rand) *models.ScoreEntry {
	if rnd == nil {
		rnd = DefaultRand
	}

	maxScore := 0
	var top []int
	for i, e := range entries {
		switch {
		case e.Score > maxScore:
			maxScore = e.Score
			top = append(top[:0], i)
		case e.Score == maxScore && maxScore > 0:
			top = append(top, i)
		}
	}

	if len(top) == 0 {
		return nil
	}
	chosen := entries[top[rnd.IntN(len(top))]]
	return &chosen
}
