// academyscope is an interactive terminal browser for the placement dataset.
//
// Usage:
//
//	academyscope [flags]
//
// Flags:
//
//	--db          Path to the placement database (default: $DATABASE_PATH)
//	--log-level   debug, info, warn or error (default: $LOG_LEVEL)
//	--preset      JSONC preset to start from
//	--limit       Rows printed per result (default: $RESULT_LIMIT)
//
// Filter commands mirror the bot's slash commands without the slash, and
// every accepted change re-runs the search.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"academyscope/internal/autocomplete"
	"academyscope/internal/config"
	"academyscope/internal/logging"
	"academyscope/internal/model"
	"academyscope/internal/preset"
	"academyscope/internal/search"
	"academyscope/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	dbPath   string
	logLevel string
	preset   string
	limit    int
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("academyscope", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.dbPath, "db", cfg.DatabasePath, "path to the placement database")
	fs.StringVar(&o.logLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&o.preset, "preset", "", "JSONC preset to start from")
	fs.IntVar(&o.limit, "limit", cfg.ResultLimit, "rows printed per result")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.limit <= 0 {
		return options{}, fmt.Errorf("--limit must be positive, got %d", o.limit)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	o, err := parseFlags(args, cfg, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	log := logging.New(stderr, o.logLevel)

	sel := model.DefaultSelection()
	if o.preset != "" {
		if sel, err = preset.Load(o.preset); err != nil {
			log.Error("load preset", "path", o.preset, "error", err)
			return 1
		}
	}

	var store storage.Storage
	if s, err := storage.NewSQLite(storage.ReadOnlyDSN(o.dbPath)); err != nil {
		log.Error("open database", "path", o.dbPath, "error", err)
		store = storage.Unavailable{Cause: err}
	} else {
		store = s
	}
	defer func() { _ = store.Close() }()

	unis, depts := loadProxies(ctx, store, log)

	r := newREPL(search.NewEngine(store, log, nil), unis, depts, sel, stdout, o.limit)
	if err := r.Run(ctx); err != nil {
		log.Error("repl", "error", err)
		return 1
	}
	return 0
}

func loadProxies(ctx context.Context, store storage.Storage, log *slog.Logger) (*autocomplete.Proxy, *autocomplete.Proxy) {
	unis, err := autocomplete.LoadUniversities(ctx, store)
	if err != nil {
		log.Warn("load university names", "error", err)
		unis = autocomplete.New(nil)
	}
	depts, err := autocomplete.LoadDepartments(ctx, store)
	if err != nil {
		log.Warn("load department names", "error", err)
		depts = autocomplete.New(nil)
	}
	return unis, depts
}
