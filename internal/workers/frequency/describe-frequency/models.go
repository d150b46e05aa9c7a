package describefrequency

import "frequency-workers/internal/intake"

type Input struct {
	Frequency *intake.Hz `json:"frequency"`
}

type Output struct {
	Hz                 float64  `json:"hz"`
	Name               string   `json:"name"`
	RelatedFrequencies []int    `json:"relatedFrequencies"`
	PrimaryIntentions  []string `json:"primaryIntentions"`
	HealingProperties  []string `json:"healingProperties"`
	Family             string   `json:"family"`
	Known              bool     `json:"known"`
}
