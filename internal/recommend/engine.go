// Package recommend turns quiz answers into a ranked, explained shoe
// recommendation.
//
// Scoring is a pure function of (answers, catalog, question bank, weights):
// no randomness, no clock, no shared mutable state. Missing data never
// produces an error; it degrades to a neutral result with the minimum
// confidence.
package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/hpungsan/solefit/internal/catalog"
)

// Input is everything one recommendation depends on.
type Input struct {
	Answers   []catalog.Answer
	Items     []catalog.Item
	Questions *catalog.QuestionBank

	// BrandPreference is passed through to the result; it does not affect scoring.
	BrandPreference string
}

// Alternative is a runner-up with a one-line comparison to the primary pick.
type Alternative struct {
	Item   catalog.Item `json:"item"`
	Reason string       `json:"reason"`
}

// Result is the final recommendation. Primary is nil only for an empty catalog.
type Result struct {
	Primary         *catalog.Item       `json:"primary"`
	Alternatives    []Alternative       `json:"alternatives"`
	MatchPercentage int                 `json:"match_percentage"`
	MatchReasons    []string            `json:"match_reasons"`
	Reasoning       string              `json:"reasoning"`
	BrandPreference string              `json:"brand_preference,omitempty"`
	Scores          catalog.ScoreVector `json:"scores"`
}

// Breakdown is the per-component score of one item.
type Breakdown struct {
	Attribute  float64 `json:"attribute"`
	Category   float64 `json:"category"`
	Experience float64 `json:"experience"`
	Total      float64 `json:"total"`
}

// Match is one ranked catalog item.
type Match struct {
	Item  catalog.Item `json:"item"`
	Score float64      `json:"score"`
}

// Engine scores catalogs with a fixed weights table.
type Engine struct {
	w Weights
}

// New creates an Engine after checking w with Validate.
func New(w Weights) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}
	return &Engine{w: w}, nil
}

var defaultEngine = &Engine{w: DefaultWeights()}

// Weights returns the engine's scoring table.
func (e *Engine) Weights() Weights {
	return e.w
}

// Compute runs a recommendation with DefaultWeights.
func Compute(in Input) *Result {
	return defaultEngine.Compute(in)
}

// Compute aggregates answers, scores and ranks every item, and explains the
// top pick.
func (e *Engine) Compute(in Input) *Result {
	prefs := Aggregate(in.Answers, in.Questions)

	result := &Result{
		Alternatives:    []Alternative{},
		MatchReasons:    []string{},
		MatchPercentage: e.w.MinConfidence,
		BrandPreference: in.BrandPreference,
		Scores:          prefs,
	}

	ranked := e.Rank(in.Items, prefs)
	if len(ranked) == 0 {
		result.Reasoning = reasoning(nil, prefs, nil)
		return result
	}

	top := ranked[0]
	primary := top.Item
	result.Primary = &primary
	result.MatchPercentage = e.confidence(top.Score, prefs)
	result.MatchReasons = e.matchReasons(&primary, prefs)

	for i := 1; i < len(ranked) && len(result.Alternatives) < e.w.MaxAlternatives; i++ {
		alt := ranked[i].Item
		result.Alternatives = append(result.Alternatives, Alternative{
			Item:   alt,
			Reason: comparativeReason(&alt, &primary),
		})
	}

	result.Reasoning = reasoning(&primary, prefs, result.MatchReasons)
	return result
}

// Aggregate sums the score contributions of every resolvable answer.
// Unknown questions or options are skipped.
func Aggregate(answers []catalog.Answer, bank *catalog.QuestionBank) catalog.ScoreVector {
	prefs := catalog.ScoreVector{}
	if bank == nil {
		return prefs
	}
	for _, a := range answers {
		opt, ok := bank.Option(a.QuestionID, a.OptionID)
		if !ok {
			continue
		}
		prefs.Add(opt.Scores)
	}
	return prefs
}

// Rank scores every item and sorts descending. Ties keep catalog order.
func (e *Engine) Rank(items []catalog.Item, prefs catalog.ScoreVector) []Match {
	ranked := make([]Match, len(items))
	for i := range items {
		ranked[i] = Match{Item: items[i], Score: e.Score(&items[i], prefs).Total}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Score computes the weighted breakdown for one item.
func (e *Engine) Score(item *catalog.Item, prefs catalog.ScoreVector) Breakdown {
	b := Breakdown{
		Attribute:  e.attributeScore(item.Specs, prefs),
		Category:   prefs.Get(string(item.CategoryID)) * e.w.CategoryAmplifier,
		Experience: e.experienceScore(item, prefs),
	}
	b.Total = e.w.Attribute*b.Attribute + e.w.Category*b.Category + e.w.Experience*b.Experience
	return b
}

func (e *Engine) attributeScore(s catalog.Specs, prefs catalog.ScoreVector) float64 {
	score := prefs.Get(catalog.KeyCushioning)*float64(s.Cushioning)/10 +
		prefs.Get(catalog.KeyResponsiveness)*float64(s.Responsiveness)/10 +
		prefs.Get(catalog.KeyStability)*float64(s.Stability)/10
	// Goes negative above the ceiling.
	score += prefs.Get(catalog.KeyLightweight) * (e.w.WeightCeiling - float64(s.Weight)) / e.w.WeightCeiling
	return score
}

func (e *Engine) experienceScore(item *catalog.Item, prefs catalog.ScoreVector) float64 {
	switch item.CategoryID {
	case catalog.CategoryRacing:
		if !item.HasCarbonPlate() {
			return 0
		}
		return e.racingExperience(prefs.Get(string(catalog.CategoryRacing)))
	case catalog.CategoryDaily:
		return e.w.DailyBaseline
	case catalog.CategorySuperTrainer:
		return e.w.SuperTrainerMultiplier * prefs.Get(string(catalog.CategorySuperTrainer))
	default:
		return 0
	}
}

func (e *Engine) racingExperience(racing float64) float64 {
	if racing >= e.w.RacingThreshold {
		return e.w.RacingMultiplier * racing
	}
	return e.w.RacingPenalty
}

// TheoreticalMax is the score of a hypothetical perfect item for prefs:
// 10/10 attributes, PerfectWeight grams, the strongest category preference
// and the best of the experience formulas.
func (e *Engine) TheoreticalMax(prefs catalog.ScoreVector) float64 {
	attribute := prefs.Get(catalog.KeyCushioning) +
		prefs.Get(catalog.KeyResponsiveness) +
		prefs.Get(catalog.KeyStability) +
		prefs.Get(catalog.KeyLightweight)*(e.w.WeightCeiling-e.w.PerfectWeight)/e.w.WeightCeiling

	bestCategory := 0.0
	for _, c := range catalog.Categories() {
		bestCategory = math.Max(bestCategory, prefs.Get(string(c)))
	}

	experience := math.Max(
		e.racingExperience(prefs.Get(string(catalog.CategoryRacing))),
		math.Max(e.w.DailyBaseline, e.w.SuperTrainerMultiplier*prefs.Get(string(catalog.CategorySuperTrainer))),
	)

	return e.w.Attribute*attribute + e.w.Category*bestCategory*e.w.CategoryAmplifier + e.w.Experience*experience
}

// confidence normalizes a raw score into the clamped integer percentage.
// Without any positive preference there is nothing to match against, so the
// floor is reported regardless of baseline experience scores.
func (e *Engine) confidence(score float64, prefs catalog.ScoreVector) int {
	if len(prefs.TopKeys(1)) == 0 {
		return e.w.MinConfidence
	}
	maxScore := e.TheoreticalMax(prefs)
	if maxScore <= 0 {
		maxScore = 1
	}
	pct := score / maxScore * 100
	pct = math.Max(float64(e.w.MinConfidence), math.Min(float64(e.w.MaxConfidence), pct))
	return int(math.Round(pct))
}
