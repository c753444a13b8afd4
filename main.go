package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jxoesneon/EvoSim/api"
	"github.com/jxoesneon/EvoSim/config"
	"github.com/jxoesneon/EvoSim/game"
	"github.com/jxoesneon/EvoSim/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the program with the given arguments and returns its exit
// code. Deferred cleanup runs before main exits.
func run(args []string) int {
	// CLI flags
	fs := flag.NewFlagSet("evosim", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := fs.Uint("seed", 0, "RNG seed (0 = use config)")
	logStats := fs.Bool("log-stats", false, "Output stats via slog")
	statsWindow := fs.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	perf := fs.Bool("perf", false, "Collect per-phase step timings")
	bookmarks := fs.Bool("bookmarks", false, "Detect and log notable population events")
	outputDir := fs.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := fs.String("snapshot-dir", "", "Directory for the final state snapshot")
	maxTicks := fs.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	serve := fs.Bool("serve", false, "Run the HTTP/WebSocket host server instead of a headless loop")
	addr := fs.String("addr", "", "Listen address for -serve (empty = use config)")
	dbPath := fs.String("db", "", "SQLite database for run history (empty = disabled)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if *seed != 0 {
		cfg.World.Seed = uint32(*seed)
	}

	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		return 1
	}
	if out != nil {
		defer out.Close()
		if err := out.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := game.NewWorldFromConfig(cfg)

	var recorder *telemetry.RunRecorder
	if *dbPath != "" {
		store, err := telemetry.OpenRunStore(*dbPath)
		if err != nil {
			slog.Error("failed to open run store", "error", err)
			return 1
		}
		defer store.Close()

		recorder, err = store.StartRun(ctx, w.RunInfo())
		if err != nil {
			slog.Error("failed to start run", "error", err)
			return 1
		}
		slog.Info("recording run", "run_id", recorder.RunID(), "db", *dbPath)
	}

	w.AttachTelemetry(game.TelemetryOptions{
		WindowSec: statsWindowSec,
		DT:        cfg.Derived.DT32,
		Output:    out,
		LogStats:  *logStats,
		Perf:      *perf,
		Bookmarks: *bookmarks,
		Recorder:  recorder,
	})

	if *serve {
		listen := cfg.Server.Addr
		if *addr != "" {
			listen = *addr
		}
		srv := api.NewServer(w, cfg.Server, cfg.Derived.DT32)
		if err := srv.ListenAndServe(ctx, listen); err != nil {
			slog.Error("server stopped", "error", err)
			return 1
		}
		return 0
	}

	slog.Info("starting headless simulation",
		"seed", cfg.World.Seed,
		"mode", w.Mode().String(),
		"stats_window", statsWindowSec,
		"max_ticks", *maxTicks,
	)

	runHeadless(ctx, w, cfg.Derived.DT32, *maxTicks)

	if *snapshotDir != "" {
		path, err := telemetry.SaveSnapshot(w.Snapshot(), *snapshotDir)
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
			return 1
		}
		slog.Info("snapshot saved", "path", path)
	}
	return 0
}

// runHeadless steps w until maxTicks (0 = unlimited), extinction or
// cancellation.
func runHeadless(ctx context.Context, w *game.World, dt float32, maxTicks uint64) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", w.Tick())
			return
		default:
		}

		w.Step(dt)

		if maxTicks > 0 && w.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", w.Tick())
			return
		}
		if w.NumCreatures() == 0 {
			slog.Info("population extinct", "tick", w.Tick())
			return
		}
	}
}
