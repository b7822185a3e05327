package recommend

import (
	"fmt"
	"math"
)

// Weights is the scoring-weights table. Sign and magnitude of every term
// are load-bearing for ranking; RacingPenalty in particular must stay negative.
type Weights struct {
	// Component weights of the final score; must sum to 1.
	Attribute  float64 `json:"attribute"`
	Category   float64 `json:"category"`
	Experience float64 `json:"experience"`

	// CategoryAmplifier multiplies the preference for the item's own category.
	CategoryAmplifier float64 `json:"category_amplifier"`

	// WeightCeiling is the assumed heaviest shoe in grams. Heavier items make
	// the lightweight term negative.
	WeightCeiling float64 `json:"weight_ceiling"`

	// PerfectWeight is the weight of the hypothetical perfect item used to
	// normalize confidence.
	PerfectWeight float64 `json:"perfect_weight"`

	RacingThreshold        float64 `json:"racing_threshold"`
	RacingMultiplier       float64 `json:"racing_multiplier"`
	RacingPenalty          float64 `json:"racing_penalty"`
	DailyBaseline          float64 `json:"daily_baseline"`
	SuperTrainerMultiplier float64 `json:"super_trainer_multiplier"`

	// Reason thresholds.
	ReasonAttributeMin int `json:"reason_attribute_min"`
	ReasonWeightMax    int `json:"reason_weight_max"`

	MinConfidence   int `json:"min_confidence"`
	MaxConfidence   int `json:"max_confidence"`
	MaxReasons      int `json:"max_reasons"`
	MaxAlternatives int `json:"max_alternatives"`
}

// DefaultWeights returns the production scoring table.
func DefaultWeights() Weights {
	return Weights{
		Attribute:              0.4,
		Category:               0.4,
		Experience:             0.2,
		CategoryAmplifier:      2,
		WeightCeiling:          350,
		PerfectWeight:          129,
		RacingThreshold:        4,
		RacingMultiplier:       1.5,
		RacingPenalty:          -2,
		DailyBaseline:          2,
		SuperTrainerMultiplier: 0.8,
		ReasonAttributeMin:     7,
		ReasonWeightMax:        220,
		MinConfidence:          60,
		MaxConfidence:          98,
		MaxReasons:             3,
		MaxAlternatives:        3,
	}
}

// Validate checks the table is internally consistent.
func (w Weights) Validate() error {
	sum := w.Attribute + w.Category + w.Experience
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("component weights sum to %.4f, must sum to 1.0", sum)
	}
	if w.WeightCeiling <= 0 {
		return fmt.Errorf("weight ceiling must be positive, got %v", w.WeightCeiling)
	}
	if w.MinConfidence < 0 || w.MaxConfidence > 100 {
		return fmt.Errorf("confidence bounds must lie within 0..100, got %d..%d", w.MinConfidence, w.MaxConfidence)
	}
	if w.MinConfidence > w.MaxConfidence {
		return fmt.Errorf("min confidence %d exceeds max confidence %d", w.MinConfidence, w.MaxConfidence)
	}
	if w.MaxReasons < 0 || w.MaxAlternatives < 0 {
		return fmt.Errorf("reason and alternative limits must be non-negative")
	}
	return nil
}
