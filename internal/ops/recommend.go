package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/config"
	"github.com/hpungsan/solefit/internal/db"
	"github.com/hpungsan/solefit/internal/errors"
	"github.com/hpungsan/solefit/internal/history"
	"github.com/hpungsan/solefit/internal/logging"
	"github.com/hpungsan/solefit/internal/metrics"
	"github.com/hpungsan/solefit/internal/recommend"
)

// RecommendInput contains parameters for the Recommend operation.
type RecommendInput struct {
	Answers         []catalog.Answer
	BrandPreference string
	Save            *bool // default: true (nil means default)
}

// RecommendOutput contains the computed recommendation.
type RecommendOutput struct {
	// ID is empty when the result was not saved.
	ID string `json:"id,omitempty"`
	*recommend.Result
}

// Recommend scores the catalog against the answers and, unless disabled,
// saves the result to history.
func Recommend(ctx context.Context, database *sql.DB, cat *catalog.Catalog, bank *catalog.QuestionBank, cfg *config.Config, input RecommendInput) (*RecommendOutput, error) {
	answers, err := validateAnswers(input.Answers, cfg.MaxAnswers)
	if err != nil {
		return nil, err
	}

	res := recommend.Compute(recommend.Input{
		Answers:         answers,
		Items:           cat.Items,
		Questions:       bank,
		BrandPreference: strings.TrimSpace(input.BrandPreference),
	})
	metrics.RecordRecommendation(res.Primary != nil, res.MatchPercentage)

	out := &RecommendOutput{Result: res}
	if !boolValue(input.Save, true) {
		return out, nil
	}

	id, err := newID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	record := history.New(id, answers, res, time.Now().Unix())
	if err := db.Insert(ctx, database, record); err != nil {
		return nil, err
	}
	out.ID = id

	logging.Debug().
		Str("id", id).
		Str("primary", record.PrimaryID).
		Int("match_percentage", res.MatchPercentage).
		Msg("recommendation saved")

	return out, nil
}

// validateAnswers trims ids and rejects empty ids, duplicate questions and
// oversized answer sets. Unknown ids are left for the engine to skip.
func validateAnswers(answers []catalog.Answer, maxAnswers int) ([]catalog.Answer, error) {
	if maxAnswers > 0 && len(answers) > maxAnswers {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("too many answers: %d (max %d)", len(answers), maxAnswers))
	}

	seen := make(map[string]bool, len(answers))
	cleaned := make([]catalog.Answer, len(answers))
	for i, a := range answers {
		a.QuestionID = strings.TrimSpace(a.QuestionID)
		a.OptionID = strings.TrimSpace(a.OptionID)
		if a.QuestionID == "" {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("answers[%d]: question_id is required", i))
		}
		if a.OptionID == "" {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("answers[%d]: option_id is required", i))
		}
		if seen[a.QuestionID] {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("duplicate answer for question %q", a.QuestionID))
		}
		seen[a.QuestionID] = true
		cleaned[i] = a
	}
	return cleaned, nil
}
