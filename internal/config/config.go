package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// CatalogPath overrides the embedded shoe catalog with a JSON file.
	// Empty means use the embedded catalog.
	CatalogPath string `json:"catalog_path,omitempty"`

	// QuestionsPath overrides the embedded question bank with a JSON file.
	QuestionsPath string `json:"questions_path,omitempty"`

	// MobileTarget and DesktopTarget are the default line-break target widths
	// in estimated character units. 0 means infer from the text's script mix.
	MobileTarget  float64 `json:"mobile_target,omitempty"`
	DesktopTarget float64 `json:"desktop_target,omitempty"`

	// MinTokenCount is the token count below which line breaking is skipped.
	MinTokenCount int `json:"min_token_count,omitempty"`

	// LineBreakCacheSize bounds the number of cached line-break plans.
	// The cache is cleared entirely when it overflows.
	LineBreakCacheSize int `json:"linebreak_cache_size,omitempty"`

	// LineBreakMaxChars rejects line-break input longer than this many runes.
	LineBreakMaxChars int `json:"linebreak_max_chars,omitempty"`

	// MaxAnswers caps the number of answers accepted per recommendation request.
	MaxAnswers int `json:"max_answers,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of tool types to disable entirely.
	// Known types: "quiz", "catalog", "result", "text".
	DisabledTypes []string `json:"disabled_types,omitempty"`

	// LogLevel is the minimum log level (debug, info, warn, error, disabled).
	LogLevel string `json:"log_level,omitempty"`

	// LogFormat is "console" or "json".
	LogFormat string `json:"log_format,omitempty"`

	// RateLimitPerMinute bounds quiz submissions accepted by the web UI.
	RateLimitPerMinute int `json:"rate_limit_per_minute,omitempty"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		MinTokenCount:      7,
		LineBreakCacheSize: 256,
		LineBreakMaxChars:  2000,
		MaxAnswers:         32,
		LogLevel:           "info",
		LogFormat:          "console",
		RateLimitPerMinute: 60,
	}
}

const fileName = "config.json"

// Load reads baseDir/config.json over the defaults. A missing file is not an
// error.
func Load(baseDir string) (*Config, error) {
	c, err := readFile(filepath.Join(baseDir, fileName))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), c), nil
}

// LoadWithRepo layers defaults, then globalDir/config.json, then the nearest
// .solefit/config.json at or above startDir. Relative catalog and question
// paths in the repo file resolve against the directory holding .solefit.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := readFile(filepath.Join(globalDir, fileName))
	if err != nil {
		return nil, err
	}
	repoPath := FindRepoConfig(startDir)
	repo, err := readFile(repoPath)
	if err != nil {
		return nil, err
	}

	cfg := Merge(Merge(DefaultConfig(), global), repo)
	if repoPath != "" {
		root := filepath.Dir(filepath.Dir(repoPath))
		cfg.CatalogPath = resolveAgainst(root, repo.CatalogPath, cfg.CatalogPath)
		cfg.QuestionsPath = resolveAgainst(root, repo.QuestionsPath, cfg.QuestionsPath)
	}
	return cfg, nil
}

// resolveAgainst joins a relative repo path onto root; otherwise merged wins.
func resolveAgainst(root, repoValue, merged string) string {
	if repoValue == "" || filepath.IsAbs(repoValue) {
		return merged
	}
	return filepath.Join(root, repoValue)
}

// FindRepoConfig returns the nearest .solefit/config.json at or above
// startDir, or "" when there is none.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	for dir := startDir; ; {
		candidate := filepath.Join(dir, ".solefit", fileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// readFile decodes one config file without applying defaults. An empty path
// or a missing file yields a zero Config.
func readFile(path string) (*Config, error) {
	c := &Config{}
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Merge overlays one config on another. Non-zero overlay scalars win;
// disabled tool and type lists are unioned.
func Merge(base, overlay *Config) *Config {
	return &Config{
		CatalogPath:        pickString(overlay.CatalogPath, base.CatalogPath),
		QuestionsPath:      pickString(overlay.QuestionsPath, base.QuestionsPath),
		MobileTarget:       pick(overlay.MobileTarget, base.MobileTarget),
		DesktopTarget:      pick(overlay.DesktopTarget, base.DesktopTarget),
		MinTokenCount:      pick(overlay.MinTokenCount, base.MinTokenCount),
		LineBreakCacheSize: pick(overlay.LineBreakCacheSize, base.LineBreakCacheSize),
		LineBreakMaxChars:  pick(overlay.LineBreakMaxChars, base.LineBreakMaxChars),
		MaxAnswers:         pick(overlay.MaxAnswers, base.MaxAnswers),
		DBMaxOpenConns:     pick(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:     pick(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
		LogLevel:           pickString(overlay.LogLevel, base.LogLevel),
		LogFormat:          pickString(overlay.LogFormat, base.LogFormat),
		RateLimitPerMinute: pick(overlay.RateLimitPerMinute, base.RateLimitPerMinute),
		DisabledTools:      union(base.DisabledTools, overlay.DisabledTools),
		DisabledTypes:      union(base.DisabledTypes, overlay.DisabledTypes),
	}
}

func pick[T int | float64](overlay, base T) T {
	if overlay != 0 {
		return overlay
	}
	return base
}

func pickString(overlay, base string) string {
	if strings.TrimSpace(overlay) == "" {
		return base
	}
	return overlay
}

// union trims, drops blanks and dedupes, keeping first-seen order.
func union(lists ...[]string) []string {
	var out []string
	seen := map[string]bool{}
	for _, list := range lists {
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
