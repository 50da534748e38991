package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/db"
	"github.com/hpungsan/roster/internal/mcp"
	"github.com/hpungsan/roster/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"add": true, "import": true, "list": true, "dupes": true,
	"remove": true, "clear": true, "dedupe": true, "export": true,
	"serve": true, "help": true,
}

// commandArg returns the first argument after any leading --ephemeral flag.
func commandArg() string {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "--ephemeral" {
		args = args[1:]
	}
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	arg := commandArg()
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	arg := commandArg()
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___  ___  ___ _____ ___ ___
  | _ \/ _ \/ __|_   _| __| _ \
  |   / (_) \__ \ | | | _||   /
  |_|_\\___/|___/ |_| |___|_|_\

  People records with duplicate detection

  Usage: roster <command> [options]
         roster serve      (web UI)
         roster --help

  MCP server mode requires piped input.`)
}

// sessionOpener opens the collection. The returned func releases it.
type sessionOpener func(ctx context.Context, ephemeral bool) (*ops.Session, func(), error)

// newOpener returns an opener backed by the SQLite database in baseDir,
// or by process memory for ephemeral runs.
func newOpener(baseDir string, cfg *config.Config) sessionOpener {
	return func(ctx context.Context, ephemeral bool) (*ops.Session, func(), error) {
		if ephemeral {
			s, err := ops.Open(ctx, ops.NewMemoryStore(), cfg)
			return s, func() {}, err
		}

		database, err := db.Init(baseDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		db.ConfigurePool(database, cfg)

		s, err := ops.Open(ctx, db.NewSnapshots(database, db.PeopleKey), cfg)
		if err != nil {
			database.Close()
			return nil, nil, err
		}
		if loadErr := s.LoadErr(); loadErr != nil {
			fmt.Fprintf(os.Stderr, "warning: %v; starting with an empty list\n", loadErr)
		}
		return s, func() { database.Close() }, nil
	}
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	baseDir, err := ops.BaseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := initLogger(cfg.LogLevel, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		slog.Warn("unknown tools in disabled_tools", "tools", unknown)
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		slog.Warn("unknown types in disabled_types", "types", unknown)
	}

	open := newOpener(baseDir, cfg)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(open)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if commandArg() != "" && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", commandArg())
		fmt.Fprintf(os.Stderr, "Run 'roster --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	session, release, err := open(context.Background(), len(os.Args) > 1 && os.Args[1] == "--ephemeral")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer release()

	if err := mcp.Run(session, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
