package game

import (
	"context"
	"log/slog"
	"slices"

	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/telemetry"
)

// TelemetryOptions configures windowed statistics for a world.
type TelemetryOptions struct {
	WindowSec float64                  // sim seconds per stats window
	DT        float32                  // seconds per tick, for tick-to-time conversion
	Output    *telemetry.OutputManager // nil disables CSV output
	LogStats  bool                     // log each window via slog
	Perf      bool                     // time step phases
	Bookmarks bool                     // detect and log notable windows

	// Recorder, if set, persists windows and bookmarks to a run store.
	Recorder *telemetry.RunRecorder

	// OnWindow, if set, receives every finished window.
	OnWindow func(telemetry.WindowStats)
}

// Windows of history kept by the bookmark detector.
const bookmarkHistory = 12

// AttachTelemetry enables windowed statistics collection.
func (w *World) AttachTelemetry(opts TelemetryOptions) {
	w.collector = telemetry.NewCollector(opts.WindowSec, opts.DT)
	w.output = opts.Output
	w.logStats = opts.LogStats
	w.onWindow = opts.OnWindow
	w.recorder = opts.Recorder
	if opts.Bookmarks {
		w.bookmarks = telemetry.NewBookmarkDetector(bookmarkHistory)
	}
	if opts.Perf {
		w.perf = telemetry.NewPerfCollector(int(w.collector.WindowDurationTicks()))
	}
}

// recordTelemetry feeds one step into the collector and flushes finished
// windows.
func (w *World) recordTelemetry(stats StepStats) {
	c := w.collector
	if c == nil {
		return
	}
	for range stats.HerbBirths {
		c.RecordBirth(components.Herbivore)
	}
	for range stats.CarnBirths {
		c.RecordBirth(components.Carnivore)
	}
	for range stats.HerbDeaths {
		c.RecordDeath(components.Herbivore)
	}
	for range stats.CarnDeaths {
		c.RecordDeath(components.Carnivore)
	}
	c.RecordCorpses(stats.CorpsesCreated, stats.CorpsesRemoved)

	if !c.ShouldFlush(w.tick) {
		return
	}
	w.flushTelemetry()
}

// flushTelemetry closes the current stats window.
func (w *World) flushTelemetry() {
	window := w.collector.Flush(w.tick, telemetry.Population{
		Creatures: w.creatures,
		Plants:    w.plants.Len(),
		Corpses:   w.corpses.Len(),
	})

	var perfStats telemetry.PerfStats
	if w.perf != nil {
		perfStats = w.perf.Stats()
	}

	if w.bookmarks != nil {
		for _, b := range w.bookmarks.Check(window) {
			b.LogBookmark()
			w.bookmarkLog = append(w.bookmarkLog, b)
			if w.recorder != nil {
				if err := w.recorder.SaveBookmark(context.Background(), b); err != nil {
					slog.Error("failed to store bookmark", "error", err)
				}
			}
		}
	}

	if w.onWindow != nil {
		w.onWindow(window)
	}

	if w.recorder != nil {
		if err := w.recorder.SaveWindow(context.Background(), window); err != nil {
			slog.Error("failed to store window", "error", err)
		}
	}

	if w.logStats {
		window.LogStats()
		if w.perf != nil {
			perfStats.LogStats()
		}
	}

	if w.output != nil {
		if err := w.output.WriteTelemetry(window); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := w.output.WriteEnvCosts(w.tick, w.EnvCosts()); err != nil {
			slog.Error("failed to write env costs", "error", err)
		}
		if w.perf != nil {
			if err := w.output.WritePerf(perfStats, window.WindowEndTick); err != nil {
				slog.Error("failed to write perf", "error", err)
			}
		}
	}
}

// Bookmarks returns the bookmarks detected so far.
func (w *World) Bookmarks() []telemetry.Bookmark {
	return slices.Clone(w.bookmarkLog)
}

// RunInfo describes the world's current seed, size, brain mode and
// coefficients.
func (w *World) RunInfo() telemetry.RunInfo {
	return telemetry.RunInfo{
		Seed:      w.seed,
		Width:     w.width,
		Height:    w.height,
		BrainMode: w.mode.String(),
		Sim:       w.sim,
	}
}

// newSegment opens a new run segment after a reset or reconfiguration, so
// restarted ticks and changed settings never mix with earlier windows.
func (w *World) newSegment(reason string) {
	if w.recorder == nil {
		return
	}
	if err := w.recorder.NewSegment(context.Background(), w.tick, reason, w.RunInfo()); err != nil {
		slog.Error("failed to start run segment", "reason", reason, "error", err)
	}
}
