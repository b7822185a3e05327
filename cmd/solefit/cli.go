package main

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/config"
	"github.com/hpungsan/solefit/internal/errors"
	"github.com/hpungsan/solefit/internal/ops"
	"github.com/hpungsan/solefit/internal/web"
)

// maxStdinBytes bounds piped input.
const maxStdinBytes = 1 << 20

// appDeps holds what every command works against.
type appDeps struct {
	db   *sql.DB
	cfg  *config.Config
	cat  *catalog.Catalog
	bank *catalog.QuestionBank
}

// newCLIApp creates the CLI application with all commands. deps may be nil
// when only help or version output is needed.
func newCLIApp(deps *appDeps) *cli.App {
	if deps == nil {
		deps = &appDeps{cfg: config.DefaultConfig()}
	}
	app := &cli.App{
		Name:    "solefit",
		Usage:   "Running shoe quiz and line-break planner",
		Version: Version,
		Commands: []*cli.Command{
			questionsCmd(deps),
			catalogCmd(deps),
			itemCmd(deps),
			recommendCmd(deps),
			fetchCmd(deps),
			listCmd(deps),
			deleteCmd(deps),
			purgeCmd(deps),
			linebreakCmd(deps),
			serveCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// questionsCmd creates the questions command.
func questionsCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "questions",
		Usage: "List the quiz questions and their option ids",
		Action: func(c *cli.Context) error {
			return outputJSON(c, ops.Questions(deps.bank))
		},
	}
}

// catalogCmd creates the catalog command.
func catalogCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "List catalog shoes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category: daily|super-trainer|racing|trail"},
			&cli.StringFlag{Name: "brand", Aliases: []string{"b"}, Usage: "Filter by brand"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Catalog(deps.cat, ops.CatalogInput{
				Category: c.String("category"),
				Brand:    c.String("brand"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// itemCmd creates the item command.
func itemCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:      "item",
		Usage:     "Show one catalog shoe",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			item, err := ops.CatalogItem(deps.cat, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, item)
		},
	}
}

// recommendCmd creates the recommend command.
func recommendCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Recommend a shoe from quiz answers (--answer q=o, or a JSON answer list on stdin)",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "answer", Aliases: []string{"a"}, Usage: "Answer as question_id=option_id (repeatable)"},
			&cli.StringFlag{Name: "brand", Usage: "Preferred brand (recorded, does not affect scoring)"},
			&cli.BoolFlag{Name: "no-save", Usage: "Do not save the result to history"},
		},
		Action: func(c *cli.Context) error {
			answers, err := parseAnswers(c.StringSlice("answer"))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			if len(answers) == 0 {
				text, piped, err := pipedInput(c)
				if err != nil {
					return outputError(err)
				}
				if piped {
					if answers, err = decodeAnswers(text); err != nil {
						return outputError(errors.NewInvalidRequest(err.Error()))
					}
				}
			}

			input := ops.RecommendInput{
				Answers:         answers,
				BrandPreference: c.String("brand"),
			}
			if c.Bool("no-save") {
				save := false
				input.Save = &save
			}

			output, err := ops.Recommend(c.Context, deps.db, deps.cat, deps.bank, deps.cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a saved recommendation",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted results"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(c.Context, deps.db, ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List saved recommendations, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Results to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted results"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, deps.db, ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a saved recommendation",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, deps.db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted recommendations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}
			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(c.Context, deps.db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// linebreakCmd creates the linebreak command.
func linebreakCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:      "linebreak",
		Usage:     "Plan mobile and desktop line breaks for text (from args or stdin)",
		ArgsUsage: "[text]",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "mobile", Usage: "Mobile target width (default: inferred from script)"},
			&cli.Float64Flag{Name: "desktop", Usage: "Desktop target width (default: inferred from script)"},
			&cli.IntFlag{Name: "min-tokens", Usage: "Skip breaking below this many words"},
		},
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			if text == "" {
				piped, _, err := pipedInput(c)
				if err != nil {
					return outputError(err)
				}
				text = piped
			}

			output, err := ops.LineBreak(nil, deps.cfg, ops.LineBreakInput{
				Text:          text,
				MobileTarget:  c.Float64("mobile"),
				DesktopTarget: c.Float64("desktop"),
				MinTokenCount: c.Int("min-tokens"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv, err := web.NewServer(web.Deps{
				DB:        deps.db,
				Config:    deps.cfg,
				Catalog:   deps.cat,
				Questions: deps.bank,
				Version:   Version,
			}, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return web.Run(ctx, srv)
		},
	}
}

// Helper functions

// outputJSON writes v to the app's writer as indented JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var sErr *errors.SolefitError
	if stderrors.As(err, &sErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// pipedInput reads the app's input unless it is an interactive terminal.
// The bool reports whether any non-blank input was read.
func pipedInput(c *cli.Context) (string, bool, error) {
	if f, ok := c.App.Reader.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
			return "", false, nil
		}
	}
	text, err := readStdin(c.App.Reader, maxStdinBytes)
	if err != nil {
		return "", false, err
	}
	return text, text != "", nil
}

// readStdin reads at most limit bytes from r.
func readStdin(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if int64(len(data)) > limit {
		return "", errors.NewInvalidRequest(fmt.Sprintf("input exceeds %d bytes", limit))
	}
	return strings.TrimSpace(string(data)), nil
}

// parseAnswers parses "question=option" pairs.
func parseAnswers(pairs []string) ([]catalog.Answer, error) {
	answers := make([]catalog.Answer, 0, len(pairs))
	for _, p := range pairs {
		q, o, ok := strings.Cut(p, "=")
		q, o = strings.TrimSpace(q), strings.TrimSpace(o)
		if !ok || q == "" || o == "" {
			return nil, fmt.Errorf("invalid answer %q: want question_id=option_id", p)
		}
		answers = append(answers, catalog.Answer{QuestionID: q, OptionID: o})
	}
	return answers, nil
}

// decodeAnswers accepts either a JSON answer list or {"answers": [...]}.
func decodeAnswers(text string) ([]catalog.Answer, error) {
	var answers []catalog.Answer
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &answers); err != nil {
			return nil, fmt.Errorf("invalid answers JSON: %w", err)
		}
		return answers, nil
	}
	var wrapped struct {
		Answers []catalog.Answer `json:"answers"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
		return nil, fmt.Errorf("invalid answers JSON: %w", err)
	}
	return wrapped.Answers, nil
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
