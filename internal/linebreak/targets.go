package linebreak

import "unicode"

// Script is the dominant writing system of a text.
type Script int

const (
	ScriptLatin Script = iota
	ScriptMixed
	ScriptKorean
)

func (s Script) String() string {
	switch s {
	case ScriptKorean:
		return "korean"
	case ScriptMixed:
		return "mixed"
	default:
		return "latin"
	}
}

// Script-mix thresholds on the share of Hangul among letters.
const (
	koreanRatio = 0.8
	latinRatio  = 0.2
)

// DetectScript classifies text by its Hangul to Latin letter ratio.
// Whitespace and non-letters are ignored; text without letters is Latin.
func DetectScript(text string) Script {
	var hangul, latin int
	for _, r := range text {
		switch {
		case isHangul(r):
			hangul++
		case unicode.Is(unicode.Latin, r) && unicode.IsLetter(r):
			latin++
		}
	}
	letters := hangul + latin
	if letters == 0 {
		return ScriptLatin
	}
	ratio := float64(hangul) / float64(letters)
	switch {
	case ratio >= koreanRatio:
		return ScriptKorean
	case ratio <= latinRatio:
		return ScriptLatin
	default:
		return ScriptMixed
	}
}

// DefaultTargets returns the mobile and desktop target widths for a script.
func DefaultTargets(s Script) (mobile, desktop float64) {
	switch s {
	case ScriptKorean:
		return 14, 24
	case ScriptMixed:
		return 16, 28
	default:
		return 18, 32
	}
}

// resolveTargets fills unset targets from the text's script mix.
func resolveTargets(text string, opts Options) (mobile, desktop float64) {
	mobile, desktop = opts.MobileTarget, opts.DesktopTarget
	if mobile > 0 && desktop > 0 {
		return mobile, desktop
	}
	m, d := DefaultTargets(DetectScript(text))
	if mobile <= 0 {
		mobile = m
	}
	if desktop <= 0 {
		desktop = d
	}
	return mobile, desktop
}
