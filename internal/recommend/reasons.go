package recommend

import (
	"fmt"
	"strings"

	"github.com/hpungsan/solefit/internal/catalog"
)

// matchReasons explains why item fits prefs. Reasons are checked in a fixed
// order and truncated to MaxReasons.
func (e *Engine) matchReasons(item *catalog.Item, prefs catalog.ScoreVector) []string {
	s := item.Specs
	threshold := e.w.ReasonAttributeMin
	reasons := make([]string, 0, 5)

	if s.Cushioning >= threshold && prefs.Get(catalog.KeyCushioning) > 0 {
		reasons = append(reasons, fmt.Sprintf("Cushioning rated %d/10 matches your comfort preference", s.Cushioning))
	}
	if s.Responsiveness >= threshold && prefs.Get(catalog.KeyResponsiveness) > 0 {
		reasons = append(reasons, fmt.Sprintf("Responsiveness rated %d/10 gives the energetic toe-off you asked for", s.Responsiveness))
	}
	if s.Stability >= threshold && prefs.Get(catalog.KeyStability) > 0 {
		reasons = append(reasons, fmt.Sprintf("Stability rated %d/10 keeps your stride supported", s.Stability))
	}
	if s.Weight < e.w.ReasonWeightMax && prefs.Get(catalog.KeyLightweight) > 0 {
		reasons = append(reasons, fmt.Sprintf("Only %dg, light enough for quick turnover", s.Weight))
	}
	if prefs.Get(string(item.CategoryID)) > 0 {
		reasons = append(reasons, fmt.Sprintf("Built for %s, the kind of running you lean toward", catalog.DisplayName(string(item.CategoryID))))
	}

	if len(reasons) > e.w.MaxReasons {
		reasons = reasons[:e.w.MaxReasons]
	}
	return reasons
}

// comparativeReason describes the first way alt beats primary.
func comparativeReason(alt, primary *catalog.Item) string {
	a, p := alt.Specs, primary.Specs
	switch {
	case a.Responsiveness > p.Responsiveness:
		return fmt.Sprintf("More responsive (%d/10) for faster efforts", a.Responsiveness)
	case a.Cushioning > p.Cushioning:
		return fmt.Sprintf("More cushioned (%d/10) for extra comfort on long runs", a.Cushioning)
	case a.Weight < p.Weight:
		return fmt.Sprintf("Lighter at %dg for a nimbler feel", a.Weight)
	case a.Stability > p.Stability:
		return fmt.Sprintf("More stable (%d/10) for added support", a.Stability)
	default:
		return "A different style worth trying"
	}
}

var markdownMarks = strings.NewReplacer("**", "", "__", "", "`", "")

// reasoning builds the explanatory paragraph for the primary pick.
func reasoning(primary *catalog.Item, prefs catalog.ScoreVector, reasons []string) string {
	if primary == nil {
		return "No shoes are available to recommend right now."
	}

	var b strings.Builder
	keys := prefs.TopKeys(3)
	if len(keys) == 0 {
		fmt.Fprintf(&b, "We could not read a clear preference from your answers, so here is a dependable all-rounder: the %s.", primary.Name)
	} else {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = catalog.DisplayName(k)
		}
		fmt.Fprintf(&b, "You care most about %s, so we recommend the %s.", joinList(names), primary.Name)
	}

	if desc := strings.TrimSpace(markdownMarks.Replace(primary.Description)); desc != "" {
		b.WriteString(" ")
		b.WriteString(desc)
	}

	if len(reasons) > 0 {
		n := min(2, len(reasons))
		b.WriteString(" ")
		b.WriteString(strings.Join(reasons[:n], ". "))
		b.WriteString(".")
	}
	return b.String()
}

// joinList renders "a", "a and b" or "a, b and c".
func joinList(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
