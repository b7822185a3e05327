package linebreak

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// BreakStrength is how strongly a token prefers to end a line.
type BreakStrength int

const (
	BreakSoft BreakStrength = iota
	BreakClause
	BreakSentence
)

func (b BreakStrength) String() string {
	switch b {
	case BreakSentence:
		return "sentence"
	case BreakClause:
		return "clause"
	default:
		return "soft"
	}
}

// Token is one whitespace-delimited unit of text. Raw is what gets rendered;
// Normalized is only used for heuristic matching.
type Token struct {
	Raw        string
	Normalized string
	Width      float64
	Break      BreakStrength
}

// Width weights in estimated character units.
const (
	widthWide    = 1.0
	widthUpper   = 0.66
	widthLower   = 0.56
	widthDigit   = 0.6
	widthPunct   = 0.33
	widthDash    = 0.45
	widthSpace   = 0.34
	widthUnknown = 0.72
)

const (
	openers       = "([{\"'“‘「『《〈<"
	closers       = "\"'”’)]}」』》〉>"
	trailingPunct = ".,!?;:…·、，。！？"
	sentenceEnds  = ".!?…。！？"
	clauseEnds    = ",:;·、，"

	// lineClosers may not start a line; lineOpeners may not end one.
	// ASCII quotes are ambiguous and left out of both.
	lineClosers = ")]}”’」』》〉,.;:!?、，。"
	lineOpeners = "([{“‘「『《〈"

	commonPunct = ".,!?;:'\"()[]{}…·“”‘’「」『』《》〈〉、，。！？"
)

// koreanSentenceEndings are sentence-final morphemes. Longer endings come first.
var koreanSentenceEndings = []string{"습니다", "니다", "세요", "어요", "아요", "해요", "네요", "죠", "다", "요"}

// Tokenize collapses whitespace and splits text into classified tokens.
func Tokenize(text string) []Token {
	fields := strings.Fields(text)
	tokens := make([]Token, len(fields))
	for i, raw := range fields {
		norm := normalizeToken(raw)
		tokens[i] = Token{
			Raw:        raw,
			Normalized: norm,
			Width:      EstimateWidth(raw),
			Break:      classify(raw, norm),
		}
	}
	return tokens
}

// EstimateWidth sums per-rune width weights.
func EstimateWidth(s string) float64 {
	w := 0.0
	for _, r := range s {
		w += runeWidth(r)
	}
	return w
}

func runeWidth(r rune) float64 {
	switch {
	case isWide(r):
		return widthWide
	case r >= 'A' && r <= 'Z':
		return widthUpper
	case r >= 'a' && r <= 'z':
		return widthLower
	case r >= '0' && r <= '9':
		return widthDigit
	case r == '-' || r == '/':
		return widthDash
	case unicode.IsSpace(r):
		return widthSpace
	case strings.ContainsRune(commonPunct, r):
		return widthPunct
	default:
		return widthUnknown
	}
}

func isWide(r rune) bool {
	return unicode.In(r, unicode.Hangul, unicode.Han, unicode.Hiragana, unicode.Katakana)
}

func isHangul(r rune) bool {
	return unicode.Is(unicode.Hangul, r)
}

func normalizeToken(raw string) string {
	s := strings.TrimLeft(raw, openers)
	s = strings.TrimRight(s, trailingPunct+closers)
	return strings.ToLower(s)
}

func classify(raw, norm string) BreakStrength {
	core := strings.TrimRight(raw, closers)
	if last, _ := utf8.DecodeLastRuneInString(core); last != utf8.RuneError {
		if strings.ContainsRune(sentenceEnds, last) {
			return BreakSentence
		}
		if strings.ContainsRune(clauseEnds, last) {
			return BreakClause
		}
	}
	if strings.IndexFunc(norm, isHangul) >= 0 {
		for _, ending := range koreanSentenceEndings {
			if strings.HasSuffix(norm, ending) {
				return BreakSentence
			}
		}
	}
	return BreakSoft
}

func startsWithCloser(raw string) bool {
	r, _ := utf8.DecodeRuneInString(raw)
	return r != utf8.RuneError && strings.ContainsRune(lineClosers, r)
}

func endsWithOpener(raw string) bool {
	r, _ := utf8.DecodeLastRuneInString(raw)
	return r != utf8.RuneError && strings.ContainsRune(lineOpeners, r)
}

// koreanWeakEndings are particles that read badly at the end of a line.
var koreanWeakEndings = []string{"에서", "에게", "부터", "까지", "으로", "은", "는", "이", "가", "을", "를", "의", "에", "와", "과", "도", "로", "만"}

var englishStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true, "nor": true,
	"of": true, "to": true, "in": true, "on": true, "at": true, "for": true, "with": true,
	"by": true, "from": true, "as": true, "into": true, "than": true, "that": true,
	"this": true, "is": true, "are": true, "was": true, "were": true, "be": true,
	"if": true, "so": true, "your": true, "our": true, "my": true, "its": true, "their": true,
}

// hasKoreanWeakEnding reports a Hangul token of two or more runes ending in a
// particle.
func hasKoreanWeakEnding(t Token) bool {
	if utf8.RuneCountInString(t.Normalized) < 2 || strings.IndexFunc(t.Normalized, isHangul) < 0 {
		return false
	}
	for _, p := range koreanWeakEndings {
		if strings.HasSuffix(t.Normalized, p) {
			return true
		}
	}
	return false
}

func isEnglishStopWord(t Token) bool {
	return englishStopWords[t.Normalized]
}
