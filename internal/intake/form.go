// Package intake turns the booking wizard's questionnaire into an IntakeSignal.
package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Form is the questionnaire as the booking app sends it. Older app versions send
// "goals" instead of "intentions", frequencies as "528 Hz" strings and health concerns
// as one free-text field, so several fields accept more than one JSON shape.
type Form struct {
	Intentions          []string      `json:"intentions,omitempty"`
	Goals               []string      `json:"goals,omitempty"`
	SelectedFrequencies FrequencyList `json:"selectedFrequencies,omitempty"`
	EmotionalIndicators []string      `json:"emotionalIndicators,omitempty"`
	EnergyLevels        *Energy       `json:"energyLevels,omitempty"`
	HealthConcerns      TextList      `json:"healthConcerns,omitempty"`
	Intensity           string        `json:"intensity,omitempty"`
}

type Energy struct {
	Physical  Rating `json:"physical"`
	Emotional Rating `json:"emotional"`
	Mental    Rating `json:"mental"`
	Spiritual Rating `json:"spiritual"`
}

// FrequencyList accepts numbers and strings such as "528", "528 Hz" or "7.83hz".
// Entries that do not parse are kept as NaN and dropped by Normalize.
type FrequencyList []float64

func (l *FrequencyList) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*l = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("selectedFrequencies: %w", err)
	}
	out := make(FrequencyList, 0, len(raw))
	for _, item := range raw {
		out = append(out, parseHz(item))
	}
	*l = out
	return nil
}

func parseHz(item json.RawMessage) float64 {
	var n float64
	if err := json.Unmarshal(item, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return math.NaN()
	}
	return ParseHz(s)
}

// ParseHz reads "528", "528 Hz" or "7.83hz". It returns NaN when s is not a number.
func ParseHz(s string) float64 {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "hz"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// TextList accepts an array of strings or a single comma or newline separated string.
type TextList []string

func (l *TextList) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*l = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("healthConcerns: expected string or array of strings")
	}
	*l = strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	return nil
}

// Rating is a 1-10 self rating. Sliders send numbers, some text inputs send strings.
type Rating float64

func (r *Rating) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*r = 0
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*r = Rating(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("energy rating: expected number")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*r = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("energy rating %q: %w", s, err)
	}
	*r = Rating(n)
	return nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// Hz is a single frequency in job variables, either 528 or "528 Hz".
type Hz float64

func (h *Hz) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*h = 0
		return nil
	}
	v := parseHz(data)
	if math.IsNaN(v) {
		return fmt.Errorf("frequency: cannot parse %s", string(data))
	}
	*h = Hz(v)
	return nil
}

// Ptr returns nil for an absent frequency so callers can fall back to the session.
func (h *Hz) Ptr() *float64 {
	if h == nil {
		return nil
	}
	v := float64(*h)
	return &v
}
