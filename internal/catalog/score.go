package catalog

import "sort"

// Score keys. Attribute keys come first, then one key per category.
const (
	KeyCushioning     = "cushioning"
	KeyLightweight    = "lightweight"
	KeyResponsiveness = "responsiveness"
	KeyStability      = "stability"
)

// ScoreKeys lists every ScoreVector key in canonical order. The order breaks
// ties wherever keys are ranked.
var ScoreKeys = []string{
	KeyCushioning,
	KeyLightweight,
	KeyResponsiveness,
	KeyStability,
	string(CategoryDaily),
	string(CategorySuperTrainer),
	string(CategoryRacing),
	string(CategoryTrail),
}

// displayNames maps score keys to the phrases used in reasoning text.
var displayNames = map[string]string{
	KeyCushioning:                "cushioning",
	KeyLightweight:               "a light feel",
	KeyResponsiveness:            "responsiveness",
	KeyStability:                 "stability",
	string(CategoryDaily):        "daily training",
	string(CategorySuperTrainer): "versatile super-training",
	string(CategoryRacing):       "racing",
	string(CategoryTrail):        "trail running",
}

// DisplayName returns the human-readable phrase for a score key.
func DisplayName(key string) string {
	if name, ok := displayNames[key]; ok {
		return name
	}
	return key
}

// ScoreVector accumulates preference weight per score key.
type ScoreVector map[string]float64

// Get returns the weight for key, 0 when absent.
func (v ScoreVector) Get(key string) float64 {
	return v[key]
}

// Add sums every entry of scores into v.
func (v ScoreVector) Add(scores map[string]float64) {
	for key, w := range scores {
		v[key] += w
	}
}

// TopKeys returns up to n keys with positive weight, heaviest first.
// Ties keep canonical ScoreKeys order; keys outside ScoreKeys are ignored.
func (v ScoreVector) TopKeys(n int) []string {
	keys := make([]string, 0, len(ScoreKeys))
	for _, k := range ScoreKeys {
		if v[k] > 0 {
			keys = append(keys, k)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return v[keys[i]] > v[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
