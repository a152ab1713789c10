package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramonehamilton/rotisserie-companion/internal/config"
	"github.com/ramonehamilton/rotisserie-companion/internal/metrics"
	"github.com/ramonehamilton/rotisserie-companion/internal/query"
	"github.com/ramonehamilton/rotisserie-companion/internal/storage"
)

// errUsage means the command line was wrong and usage has been printed.
var errUsage = errors.New("invalid usage")

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	out     io.Writer
	errOut  io.Writer
	metrics *metrics.AnalysisMetrics
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("rotisserie", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "Path to config.toml (default ~/"+config.DirName+"/config.toml)")
	debugMode := global.Bool("debug-mode", false, "Enable verbose debug logging")
	debugModeShort := global.Bool("d", false, "Enable debug logging (shorthand for -debug-mode)")
	dbPath := global.String("db-path", "", "Path to the draft history database")
	global.Usage = func() { printUsage(stderr, global) }

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		printUsage(stderr, global)
		return errUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *debugMode || *debugModeShort {
		cfg.App.DebugMode = true
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  newLogger(stderr, cfg.App.DebugMode),
		out:     stdout,
		errOut:  stderr,
		metrics: metrics.NewAnalysisMetrics(),
	}
	slog.SetDefault(a.logger)

	command, rest := global.Arg(0), global.Args()[1:]
	switch command {
	case "import":
		return a.runImport(ctx, rest)
	case "result":
		return a.runResult(ctx, rest)
	case "catalog":
		return a.runCatalog(ctx, rest)
	case "drafts":
		return a.runDrafts(ctx, rest)
	case "card":
		return a.runCard(ctx, rest)
	case "rankings":
		return a.runRankings(ctx, rest)
	case "equity":
		return a.runEquity(ctx, rest)
	case "state":
		return a.runState(rest)
	case "watch":
		return a.runWatch(ctx, rest)
	case "chart":
		return a.runChart(ctx, rest)
	case "export":
		return a.runExport(ctx, rest)
	case "mcp":
		return a.runMCP(ctx, rest)
	case "version":
		return a.runVersion()
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr, global)
		return errUsage
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// flags creates a subcommand flag set that reports errors to stderr.
func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// openStore opens the history database and wraps it in a storage service.
// The caller must close the returned service.
func (a *app) openStore() (*storage.Service, error) {
	path, err := a.cfg.DatabasePath()
	if err != nil {
		return nil, err
	}

	dbConfig := storage.DefaultConfig(path)
	dbConfig.AutoMigrate = a.cfg.Database.AutoMigrate
	dbConfig.Logger = a.logger

	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	a.logger.Debug("history database opened", "path", path)
	return storage.NewService(db), nil
}

// openEngine opens the store and builds a query engine over it.
func (a *app) openEngine() (*query.Engine, *storage.Service, error) {
	svc, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	return query.NewEngine(svc, a.metrics), svc, nil
}

func printUsage(w io.Writer, global *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: rotisserie [global flags] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  import     Import a finished draft's pick grid into the history")
	fmt.Fprintln(w, "  result     Record match results for a seat of an imported draft")
	fmt.Fprintln(w, "  catalog    Load card metadata (type line, color identity)")
	fmt.Fprintln(w, "  drafts     List or delete imported drafts")
	fmt.Fprintln(w, "  card       Show statistics for one card")
	fmt.Fprintln(w, "  rankings   Rank cards by weighted average pick position")
	fmt.Fprintln(w, "  equity     Rank cards by attributed win rate")
	fmt.Fprintln(w, "  state      Show the live state of an in-progress draft")
	fmt.Fprintln(w, "  watch      Follow an in-progress draft as its export changes")
	fmt.Fprintln(w, "  chart      Render an HTML chart")
	fmt.Fprintln(w, "  export     Write rankings or equity to CSV or JSON")
	fmt.Fprintln(w, "  mcp        Serve the queries as MCP tools over stdio")
	fmt.Fprintln(w, "  version    Print the version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	global.PrintDefaults()
}
