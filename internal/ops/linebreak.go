package ops

import (
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/solefit/internal/config"
	"github.com/hpungsan/solefit/internal/errors"
	"github.com/hpungsan/solefit/internal/linebreak"
	"github.com/hpungsan/solefit/internal/metrics"
)

// LineBreakInput contains parameters for the LineBreak operation.
// Zero options fall back to config, then to the planner's defaults.
type LineBreakInput struct {
	Text          string
	MobileTarget  float64
	DesktopTarget float64
	MinTokenCount int
}

// LineBreakOutput contains the line-break plan.
type LineBreakOutput struct {
	Text string `json:"text"`
	linebreak.Result
}

// LineBreak plans line breaks for text. A nil cache computes directly.
func LineBreak(cache *linebreak.Cache, cfg *config.Config, input LineBreakInput) (*LineBreakOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.NewInvalidRequest("text is required")
	}
	if cfg.LineBreakMaxChars > 0 {
		if n := utf8.RuneCountInString(input.Text); n > cfg.LineBreakMaxChars {
			return nil, errors.NewTextTooLong(cfg.LineBreakMaxChars, n)
		}
	}
	if input.MobileTarget < 0 || input.DesktopTarget < 0 || input.MinTokenCount < 0 {
		return nil, errors.NewInvalidRequest("line-break options must not be negative")
	}

	opts := LineBreakOptions(cfg)
	if input.MobileTarget > 0 {
		opts.MobileTarget = input.MobileTarget
	}
	if input.DesktopTarget > 0 {
		opts.DesktopTarget = input.DesktopTarget
	}
	if input.MinTokenCount > 0 {
		opts.MinTokenCount = input.MinTokenCount
	}

	var res linebreak.Result
	if cache != nil {
		res = cache.Plan(input.Text, opts)
	} else {
		res = linebreak.Plan(input.Text, opts)
	}
	metrics.RecordLineBreakPlan(res.ShouldOptimize)

	return &LineBreakOutput{Text: input.Text, Result: res}, nil
}

// LineBreakOptions returns the configured planner defaults.
func LineBreakOptions(cfg *config.Config) linebreak.Options {
	return linebreak.Options{
		MobileTarget:  cfg.MobileTarget,
		DesktopTarget: cfg.DesktopTarget,
		MinTokenCount: cfg.MinTokenCount,
	}
}
