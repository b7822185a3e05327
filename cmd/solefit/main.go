package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/config"
	"github.com/hpungsan/solefit/internal/db"
	"github.com/hpungsan/solefit/internal/logging"
	"github.com/hpungsan/solefit/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

type runMode int

const (
	modeMCP runMode = iota
	modeBanner
	modeHelp
	modeCLI
	modeUnknown
)

var subcommands = map[string]bool{
	"questions": true, "catalog": true, "item": true,
	"recommend": true, "fetch": true, "list": true,
	"delete": true, "purge": true, "linebreak": true,
	"serve": true,
}

var helpArgs = map[string]bool{
	"help": true, "--help": true, "-h": true, "--version": true, "-v": true,
}

// detectMode picks what the binary does from its arguments. MCP stdio is the
// fallback, but an unknown argument typed at a terminal is reported instead.
func detectMode(args []string, interactive bool) runMode {
	if len(args) < 2 {
		if interactive {
			return modeBanner
		}
		return modeMCP
	}
	switch first := args[1]; {
	case helpArgs[first]:
		return modeHelp
	case subcommands[first]:
		return modeCLI
	case interactive:
		return modeUnknown
	default:
		return modeMCP
	}
}

func stdinIsTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

const banner = `
   ___  ___  _    ___ ___ ___ _____
  / __|/ _ \| |  | __| __|_ _|_   _|
  \__ \ (_) | |__| _|| _| | |  | |
  |___/\___/|____|___|_| |___| |_|

  Running shoe quiz and line-break planner

  Usage: solefit <command> [options]
         solefit --help

  Without a command, solefit serves MCP on piped stdio.`

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	mode := detectMode(args, stdinIsTerminal())
	switch mode {
	case modeBanner:
		fmt.Println(banner)
		return 0
	case modeHelp:
		return exitOn(newCLIApp(nil).Run(args))
	case modeUnknown:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\nRun 'solefit --help' for usage.\n", args[1])
		return 1
	}

	deps, closeDB, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeDB()

	if mode == modeCLI {
		return exitOn(newCLIApp(deps).Run(args))
	}
	return exitOn(mcp.Run(deps.db, deps.cfg, deps.cat, deps.bank, Version))
}

// setup loads config, logging, catalog and the database under ~/.solefit.
func setup() (*appDeps, func(), error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".solefit")

	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logging.Warn().Strs("tools", unknown).Msg("unknown tools in disabled_tools")
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		logging.Warn().Strs("types", unknown).Msg("unknown types in disabled_types")
	}

	cat, bank, err := catalog.LoadFiles(cfg.CatalogPath, cfg.QuestionsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	database, err := db.Init(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	db.ConfigurePool(database, cfg)

	return &appDeps{db: database, cfg: cfg, cat: cat, bank: bank}, func() { database.Close() }, nil
}

func exitOn(err error) int {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
