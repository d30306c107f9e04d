package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"academyscope/internal/autocomplete"
	"academyscope/internal/bot"
	"academyscope/internal/config"
	"academyscope/internal/logging"
	"academyscope/internal/metrics"
	"academyscope/internal/search"
	"academyscope/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(os.Stderr, cfg.LogLevel)

	if err := cfg.RequireBotToken(); err != nil {
		log.Error("check config", "error", err)
		os.Exit(1)
	}

	store := openStorage(cfg.DatabasePath, log)
	defer func() { _ = store.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, m, log)
	}

	b, err := bot.New(cfg.TelegramBotToken, search.NewEngine(store, log, m), loadCandidates(ctx, store, log), cfg, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	log.Info("starting bot", "database", cfg.DatabasePath)

	b.Run(ctx)

	log.Info("bot stopped")
}

// openStorage opens the dataset read-only. A missing or broken database is
// logged and searches then come back empty.
func openStorage(path string, log *slog.Logger) storage.Storage {
	store, err := storage.NewSQLite(storage.ReadOnlyDSN(path))
	if err != nil {
		log.Error("open database", "path", path, "error", err)
		return storage.Unavailable{Cause: err}
	}
	return store
}

func loadCandidates(ctx context.Context, store storage.Storage, log *slog.Logger) bot.Candidates {
	var c bot.Candidates
	var err error
	if c.Universities, err = autocomplete.LoadUniversities(ctx, store); err != nil {
		log.Warn("load university names", "error", err)
		c.Universities = autocomplete.New(nil)
	}
	if c.Departments, err = autocomplete.LoadDepartments(ctx, store); err != nil {
		log.Warn("load department names", "error", err)
		c.Departments = autocomplete.New(nil)
	}
	log.Debug("loaded candidates", "universities", c.Universities.Len(), "departments", c.Departments.Len())
	return c
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("serve metrics", "error", err)
	}
}
