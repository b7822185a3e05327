// Package linebreak plans readable line breaks for headline-style text.
//
// Text is split into whitespace tokens with an estimated visual width, and a
// dynamic program picks the break points with the lowest cost for a target
// width. Plans are produced for a mobile and a desktop width. Plan is pure;
// see Cache for memoization.
package linebreak

import (
	"math"
	"slices"
	"strings"
)

// DefaultMinTokenCount is the token count below which text is never broken.
const DefaultMinTokenCount = 7

// Options tunes a plan. Zero values use defaults; zero targets are inferred
// from the text's script mix.
type Options struct {
	MobileTarget  float64 `json:"mobile_target,omitempty"`
	DesktopTarget float64 `json:"desktop_target,omitempty"`
	MinTokenCount int     `json:"min_token_count,omitempty"`
}

// Result is a line-break plan for both breakpoints.
type Result struct {
	MobileLines  []string `json:"mobile_lines"`
	DesktopLines []string `json:"desktop_lines"`

	// ShouldOptimize is false when the text was passed through as one line.
	ShouldOptimize bool `json:"should_optimize"`

	// SameAcrossBreakpoints is true when both plans are identical and a
	// single rendering serves every width.
	SameAcrossBreakpoints bool `json:"same_across_breakpoints"`

	MobileTarget  float64 `json:"mobile_target"`
	DesktopTarget float64 `json:"desktop_target"`
}

// Cost model.
const (
	overflowFactor = 1.2
	minFillDivisor = 1.9

	overflowBase  = 220.0
	overflowSlope = 150.0

	shortLineRatio    = 0.45
	shortLinePenalty  = 46.0
	shortFinalRatio   = 0.32
	shortFinalPenalty = 26.0

	leadingCloserPenalty  = 120.0
	trailingOpenerPenalty = 70.0

	sentenceBonus = 34.0
	clauseBonus   = 13.0

	koreanWeakPenalty  = 32.0
	englishStopPenalty = 20.0
)

// unreachable marks a position with no finite-cost continuation.
const unreachable = -1

// Plan breaks text for both target widths.
func Plan(text string, opts Options) Result {
	minTokens := opts.MinTokenCount
	if minTokens <= 0 {
		minTokens = DefaultMinTokenCount
	}

	tokens := Tokenize(text)
	normalized := joinTokens(tokens)
	mobile, desktop := resolveTargets(normalized, opts)

	res := Result{MobileTarget: mobile, DesktopTarget: desktop}

	if len(tokens) < minTokens || lineWidth(tokens) <= mobile {
		single := []string{}
		if normalized != "" {
			single = []string{normalized}
		}
		res.MobileLines = single
		res.DesktopLines = slices.Clone(single)
		res.SameAcrossBreakpoints = true
		return res
	}

	res.ShouldOptimize = true
	res.MobileLines = breakLines(tokens, mobile)
	res.DesktopLines = breakLines(tokens, desktop)
	res.SameAcrossBreakpoints = slices.Equal(res.MobileLines, res.DesktopLines)
	return res
}

// LineWidth estimates the rendered width of a line of text.
func LineWidth(line string) float64 {
	return lineWidth(Tokenize(line))
}

func lineWidth(tokens []Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	w := float64(len(tokens)-1) * widthSpace
	for _, t := range tokens {
		w += t.Width
	}
	return w
}

// breakLines solves the segmentation backward over suffixes and rebuilds the
// cheapest path forward through next. Falls back to a single line when no
// finite-cost path exists.
func breakLines(tokens []Token, target float64) []string {
	n := len(tokens)
	cost := make([]float64, n+1)
	next := make([]int, n+1)
	for i := range cost {
		cost[i] = math.Inf(1)
		next[i] = unreachable
	}
	cost[n] = 0

	maxWidth := target * overflowFactor
	minWidth := target / minFillDivisor

	for i := n - 1; i >= 0; i-- {
		width := 0.0
		for j := i; j < n; j++ {
			if j > i {
				width += widthSpace
			}
			width += tokens[j].Width
			if width > maxWidth {
				break
			}
			final := j == n-1
			if !final && width < minWidth {
				continue
			}
			if math.IsInf(cost[j+1], 1) {
				continue
			}
			c := lineCost(tokens[i:j+1], width, target, final) + cost[j+1]
			if c < cost[i] {
				cost[i] = c
				next[i] = j + 1
			}
		}
	}

	if next[0] == unreachable {
		return []string{joinTokens(tokens)}
	}

	lines := make([]string, 0, 4)
	for i := 0; i < n; i = next[i] {
		if next[i] == unreachable {
			return []string{joinTokens(tokens)}
		}
		lines = append(lines, joinTokens(tokens[i:next[i]]))
	}
	return lines
}

// lineCost scores one candidate line. The break-affinity and weak-ending
// terms only apply where the line actually ends in a break.
func lineCost(line []Token, width, target float64, final bool) float64 {
	var c float64
	if slack := target - width; slack >= 0 {
		c = slack * slack
	} else {
		c = overflowBase + -slack*overflowSlope
	}

	ratio := width / target
	if !final && ratio < shortLineRatio {
		c += shortLinePenalty
	}
	if final && ratio < shortFinalRatio {
		c += shortFinalPenalty
	}

	first, last := line[0], line[len(line)-1]
	if startsWithCloser(first.Raw) {
		c += leadingCloserPenalty
	}
	if endsWithOpener(last.Raw) {
		c += trailingOpenerPenalty
	}

	if final {
		return c
	}
	switch last.Break {
	case BreakSentence:
		c -= sentenceBonus
	case BreakClause:
		c -= clauseBonus
	default:
		if hasKoreanWeakEnding(last) {
			c += koreanWeakPenalty
		} else if isEnglishStopWord(last) {
			c += englishStopPenalty
		}
	}
	return c
}

func joinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Raw
	}
	return strings.Join(parts, " ")
}
