package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/config"
	"github.com/hpungsan/solefit/internal/db"
	"github.com/hpungsan/solefit/internal/ops"
)

// setupTestDeps creates a temporary database with the embedded catalog.
func setupTestDeps(t *testing.T) *appDeps {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cat, bank, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	return &appDeps{db: database, cfg: config.DefaultConfig(), cat: cat, bank: bank}
}

// runCLI runs the app with stdin content and returns stdout.
func runCLI(t *testing.T, deps *appDeps, stdin string, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(deps)
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"solefit"}, args...))
	return out.String(), err
}

func seedResult(t *testing.T, deps *appDeps) string {
	t.Helper()
	out, err := ops.Recommend(context.Background(), deps.db, deps.cat, deps.bank, deps.cfg, ops.RecommendInput{
		Answers: []catalog.Answer{{QuestionID: "goal", OptionID: "race-pr"}},
	})
	if err != nil {
		t.Fatalf("failed to seed result: %v", err)
	}
	return out.ID
}

// TestParseDuration tests the parseDuration helper function.
func TestParseDuration(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    int
		expectError bool
	}{
		{name: "valid days", input: "7d", expected: 7},
		{name: "zero days", input: "0d", expected: 0},
		{name: "negative days", input: "-1d", expectError: true},
		{name: "missing suffix", input: "7", expectError: true},
		{name: "hours not supported", input: "7h", expectError: true},
		{name: "not a number", input: "xd", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseDuration(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

// TestParseAnswers tests question=option parsing.
func TestParseAnswers(t *testing.T) {
	answers, err := parseAnswers([]string{"goal=race-pr", " pace = tempo "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 2 || answers[1].QuestionID != "pace" || answers[1].OptionID != "tempo" {
		t.Errorf("answers = %+v", answers)
	}

	for _, bad := range []string{"goal", "=race-pr", "goal="} {
		if _, err := parseAnswers([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

// TestDecodeAnswers tests both accepted stdin shapes.
func TestDecodeAnswers(t *testing.T) {
	list, err := decodeAnswers(`[{"question_id":"goal","option_id":"fitness"}]`)
	if err != nil || len(list) != 1 || list[0].OptionID != "fitness" {
		t.Errorf("list form = %+v, %v", list, err)
	}

	wrapped, err := decodeAnswers(`{"answers":[{"question_id":"feel","option_id":"plush"}]}`)
	if err != nil || len(wrapped) != 1 || wrapped[0].QuestionID != "feel" {
		t.Errorf("wrapped form = %+v, %v", wrapped, err)
	}

	if _, err := decodeAnswers(`{not json`); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

// TestCLIQuestionsAndCatalog tests the read-only catalog commands.
func TestCLIQuestionsAndCatalog(t *testing.T) {
	deps := setupTestDeps(t)

	t.Run("questions", func(t *testing.T) {
		out, err := runCLI(t, deps, "", "questions")
		if err != nil {
			t.Fatalf("questions command failed: %v", err)
		}
		var output ops.QuestionsOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Count != len(deps.bank.Questions) {
			t.Errorf("count = %d, want %d", output.Count, len(deps.bank.Questions))
		}
	})

	t.Run("catalog filtered", func(t *testing.T) {
		out, err := runCLI(t, deps, "", "catalog", "--category=racing")
		if err != nil {
			t.Fatalf("catalog command failed: %v", err)
		}
		var output ops.CatalogOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Count != 3 {
			t.Errorf("count = %d, want 3", output.Count)
		}
	})

	t.Run("item", func(t *testing.T) {
		out, err := runCLI(t, deps, "", "item", "apex-ridge-trail")
		if err != nil {
			t.Fatalf("item command failed: %v", err)
		}
		var item catalog.Item
		if err := json.Unmarshal([]byte(out), &item); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if item.CategoryID != catalog.CategoryTrail {
			t.Errorf("category = %q, want trail", item.CategoryID)
		}
	})
}

// TestCLIRecommend tests the recommend command.
func TestCLIRecommend(t *testing.T) {
	deps := setupTestDeps(t)

	t.Run("answers from flags", func(t *testing.T) {
		out, err := runCLI(t, deps, "", "recommend", "-a", "goal=race-pr", "-a", "pace=race", "--brand", "Stride")
		if err != nil {
			t.Fatalf("recommend command failed: %v", err)
		}
		var output map[string]any
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if id, _ := output["id"].(string); id == "" {
			t.Error("expected saved result id")
		}
		if output["brand_preference"] != "Stride" {
			t.Errorf("brand_preference = %v, want Stride", output["brand_preference"])
		}
	})

	t.Run("answers from stdin without saving", func(t *testing.T) {
		stdin := `[{"question_id":"feel","option_id":"plush"},{"question_id":"distance","option_id":"long"}]`
		out, err := runCLI(t, deps, stdin, "recommend", "--no-save")
		if err != nil {
			t.Fatalf("recommend command failed: %v", err)
		}
		var output map[string]any
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if _, ok := output["id"]; ok {
			t.Error("unsaved result should have no id")
		}
		if output["primary"] == nil {
			t.Error("expected a primary recommendation")
		}
	})

	t.Run("malformed answer flag", func(t *testing.T) {
		if _, err := runCLI(t, deps, "", "recommend", "-a", "goal"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestCLIResultLifecycle tests fetch, list, delete and purge.
func TestCLIResultLifecycle(t *testing.T) {
	deps := setupTestDeps(t)
	id := seedResult(t, deps)
	seedResult(t, deps)

	out, err := runCLI(t, deps, "", "fetch", id)
	if err != nil {
		t.Fatalf("fetch command failed: %v", err)
	}
	var fetched ops.FetchOutput
	if err := json.Unmarshal([]byte(out), &fetched); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if fetched.ID != id {
		t.Errorf("expected ID=%s, got %s", id, fetched.ID)
	}

	out, err = runCLI(t, deps, "", "list", "--limit=1")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	var listed ops.ListOutput
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(listed.Items) != 1 || !listed.Pagination.HasMore || listed.Pagination.Total != 2 {
		t.Errorf("list = %d items, pagination %+v", len(listed.Items), listed.Pagination)
	}

	if _, err := runCLI(t, deps, "", "delete", id); err != nil {
		t.Fatalf("delete command failed: %v", err)
	}

	out, err = runCLI(t, deps, "", "purge")
	if err != nil {
		t.Fatalf("purge command failed: %v", err)
	}
	var purged ops.PurgeOutput
	if err := json.Unmarshal([]byte(out), &purged); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if purged.Purged != 1 {
		t.Errorf("expected purged=1, got %d", purged.Purged)
	}
}

// TestCLILinebreak tests the linebreak command with args and stdin.
func TestCLILinebreak(t *testing.T) {
	deps := setupTestDeps(t)

	for _, tc := range []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "from args", args: []string{"linebreak", "--min-tokens=4", "Running", "Shoe", "Catalog", "&", "Recommendation"}},
		{name: "from stdin", stdin: "Running Shoe Catalog & Recommendation\n", args: []string{"linebreak", "--min-tokens=4"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runCLI(t, deps, tc.stdin, tc.args...)
			if err != nil {
				t.Fatalf("linebreak command failed: %v", err)
			}
			var output ops.LineBreakOutput
			if err := json.Unmarshal([]byte(out), &output); err != nil {
				t.Fatalf("failed to parse output: %v", err)
			}
			if strings.Join(output.MobileLines, "|") != "Running Shoe Catalog|& Recommendation" {
				t.Errorf("mobile_lines = %q", output.MobileLines)
			}
		})
	}
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	deps := setupTestDeps(t)

	tests := []struct {
		name string
		args []string
	}{
		{"fetch not found", []string{"fetch", "NONEXISTENT"}},
		{"fetch without id", []string{"fetch"}},
		{"delete not found", []string{"delete", "NONEXISTENT"}},
		{"invalid duration format", []string{"purge", "--older-than=invalid"}},
		{"unknown item", []string{"item", "missing"}},
		{"unknown category", []string{"catalog", "--category=sandals"}},
		{"linebreak without text", []string{"linebreak"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// cli.Exit writes to stderr, so just verify the error is returned
			if _, err := runCLI(t, deps, "", tt.args...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// TestOutputError tests the [CODE] message format.
func TestOutputError(t *testing.T) {
	_, err := ops.CatalogItem(setupTestDeps(t).cat, "missing")
	exit := outputError(err)
	if exit.Error() != "[NOT_FOUND] item not found: missing" {
		t.Errorf("outputError() = %q", exit.Error())
	}
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		interactive bool
		want        runMode
	}{
		{"no args at terminal", []string{"solefit"}, true, modeBanner},
		{"no args piped", []string{"solefit"}, false, modeMCP},
		{"recommend command", []string{"solefit", "recommend"}, false, modeCLI},
		{"linebreak command", []string{"solefit", "linebreak"}, true, modeCLI},
		{"serve command", []string{"solefit", "serve"}, true, modeCLI},
		{"help flag", []string{"solefit", "--help"}, true, modeHelp},
		{"short help flag", []string{"solefit", "-h"}, false, modeHelp},
		{"short version flag", []string{"solefit", "-v"}, true, modeHelp},
		{"help subcommand", []string{"solefit", "help"}, true, modeHelp},
		{"unknown arg at terminal", []string{"solefit", "--unknown"}, true, modeUnknown},
		{"unknown arg piped falls back to MCP", []string{"solefit", "--unknown"}, false, modeMCP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectMode(tt.args, tt.interactive); got != tt.want {
				t.Errorf("detectMode(%v, %v) = %d, want %d", tt.args, tt.interactive, got, tt.want)
			}
		})
	}
}

// TestReadStdinWithLimit tests the readStdin function respects size limits.
func TestReadStdinWithLimit(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		result, err := readStdin(strings.NewReader("  small content \n"), 1000)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if result != "small content" {
			t.Errorf("expected %q, got %q", "small content", result)
		}
	})

	t.Run("exceeds limit", func(t *testing.T) {
		_, err := readStdin(strings.NewReader(strings.Repeat("x", 100)), 50)
		if err == nil {
			t.Error("expected error for content exceeding limit, got nil")
		}
	})
}

// TestHelpWithoutDeps tests that help works before any storage is opened.
func TestHelpWithoutDeps(t *testing.T) {
	app := newCLIApp(nil)
	var out bytes.Buffer
	app.Writer = &out
	if err := app.Run([]string{"solefit", "--help"}); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	if !strings.Contains(out.String(), "linebreak") {
		t.Error("expected command list in help output")
	}
}
