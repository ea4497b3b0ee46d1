// Command chemsim runs one chemical-works management session behind the
// HTTP API. A front end drives the game by invoking action endpoints and
// ending turns; this process owns the state.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/talgya/chemworks/internal/api"
	"github.com/talgya/chemworks/internal/catalog"
	"github.com/talgya/chemworks/internal/history"
	"github.com/talgya/chemworks/internal/sim"
)

func main() {
	var (
		seed        = flag.Int64("seed", time.Now().UnixNano(), "market RNG seed")
		port        = flag.Int("port", 8080, "HTTP API port")
		catalogPath = flag.String("catalog", "", "catalog YAML override (default: embedded data)")
		dbPath      = flag.String("db", "data/chemsim.db", "run history database path (empty disables)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		cat *catalog.Catalog
		err error
	)
	if *catalogPath != "" {
		cat, err = catalog.LoadFile(*catalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		slog.Error("catalog load failed", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded",
		"chemicals", len(cat.Chemicals),
		"processes", len(cat.Processes),
		"eras", len(cat.Eras),
		"tech_levels", len(cat.TechLevels),
	)

	var hist *history.DB
	if *dbPath != "" {
		os.MkdirAll(filepath.Dir(*dbPath), 0755)
		hist, err = history.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open history database", "error", err)
			os.Exit(1)
		}
		defer hist.Close()
		slog.Info("history database opened", "path", *dbPath)
	}

	state := sim.New(cat, sim.NewSource(*seed))
	slog.Info("session started",
		"run_id", state.RunID,
		"money", state.Money,
		"era", state.CurrentEra().Name,
	)

	adminKey := os.Getenv("CHEMSIM_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("CHEMSIM_ADMIN_KEY not set, action endpoints will be disabled")
	}

	server := &api.Server{
		State:    state,
		Hist:     hist,
		Port:     *port,
		AdminKey: adminKey,
		Limiter:  api.NewRateLimiter(120, time.Minute),
	}
	server.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig, "turn", state.Turn)
}
