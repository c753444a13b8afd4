package telemetry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jxoesneon/EvoSim/config"
)

// RunStore persists runs, their stats windows and bookmarks in SQLite.
type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens or creates the database at path and runs migrations.
func OpenRunStore(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	s := &RunStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error { return s.db.Close() }

func (s *RunStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS segments (
			run_id TEXT NOT NULL,
			segment INTEGER NOT NULL,
			start_tick INTEGER NOT NULL,
			reason TEXT NOT NULL,
			seed INTEGER NOT NULL,
			width REAL NOT NULL,
			height REAL NOT NULL,
			brain_mode TEXT NOT NULL,
			config_json TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			PRIMARY KEY (run_id, segment),
			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS windows (
			run_id TEXT NOT NULL,
			segment INTEGER NOT NULL,
			window_start INTEGER NOT NULL,
			window_end INTEGER NOT NULL,
			sim_time REAL NOT NULL,
			creatures INTEGER NOT NULL,
			herbivores INTEGER NOT NULL,
			carnivores INTEGER NOT NULL,
			pregnant INTEGER NOT NULL,
			plants INTEGER NOT NULL,
			corpses INTEGER NOT NULL,
			herb_births INTEGER NOT NULL,
			carn_births INTEGER NOT NULL,
			herb_deaths INTEGER NOT NULL,
			carn_deaths INTEGER NOT NULL,
			energy_mean REAL NOT NULL,
			energy_p50 REAL NOT NULL,
			health_mean REAL NOT NULL,
			age_mean REAL NOT NULL,
			env_cost_mean REAL NOT NULL,
			PRIMARY KEY (run_id, segment, window_end),
			FOREIGN KEY (run_id, segment) REFERENCES segments(run_id, segment) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			segment INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL,
			FOREIGN KEY (run_id, segment) REFERENCES segments(run_id, segment) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_run_tick ON bookmarks(run_id, segment, tick)`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return tx.Commit()
}

// RunInfo describes the world state a run segment starts from.
type RunInfo struct {
	Seed      uint32
	Width     float32
	Height    float32
	BrainMode string
	Sim       config.Sim
}

// Segment reasons recorded by StartRun and NewSegment.
const (
	SegmentStart     = "start"
	SegmentReset     = "reset"
	SegmentSeed      = "seed"
	SegmentBrainMode = "brain_mode"
	SegmentConfig    = "config"
)

// Segment is one stretch of a run with fixed seed, mode and coefficients.
// A run starts a new segment whenever the world is reset or reconfigured.
type Segment struct {
	Index     int
	StartTick uint64
	Reason    string
	Info      RunInfo
}

// StartRun registers a new run, opens its first segment and returns a
// recorder bound to it.
func (s *RunStore) StartRun(ctx context.Context, info RunInfo) (*RunRecorder, error) {
	id := uuid.New().String()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`, id, time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	rec := &RunRecorder{store: s, runID: id, segment: -1}
	if err := rec.NewSegment(ctx, 0, SegmentStart, info); err != nil {
		return nil, err
	}
	return rec, nil
}

// Segments returns the segments of a run in order.
func (s *RunStore) Segments(ctx context.Context, runID string) ([]Segment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT segment, start_tick, reason, seed, width, height, brain_mode, config_json
		 FROM segments WHERE run_id = ? ORDER BY segment`, runID)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var out []Segment
	for rows.Next() {
		var seg Segment
		var raw string
		if err := rows.Scan(&seg.Index, &seg.StartTick, &seg.Reason,
			&seg.Info.Seed, &seg.Info.Width, &seg.Info.Height, &seg.Info.BrainMode, &raw); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		seg.Info.Sim, err = config.ParseSimJSON([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decode segment config: %w", err)
		}
		out = append(out, seg)
	}
	return out, rows.Err()
}

// RunConfig returns the coefficient set of the run's latest segment.
func (s *RunStore) RunConfig(ctx context.Context, runID string) (config.Sim, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT config_json FROM segments WHERE run_id = ? ORDER BY segment DESC LIMIT 1`, runID,
	).Scan(&raw)
	if err != nil {
		return config.Sim{}, fmt.Errorf("query run %s: %w", runID, err)
	}
	sim, err := config.ParseSimJSON([]byte(raw))
	if err != nil {
		return config.Sim{}, fmt.Errorf("decode run config: %w", err)
	}
	return sim, nil
}

// Windows returns the stored windows of one run segment in tick order.
// Columns not persisted are left zero.
func (s *RunStore) Windows(ctx context.Context, runID string, segment int) ([]WindowStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT window_start, window_end, sim_time, creatures, herbivores, carnivores,
		        pregnant, plants, corpses, herb_births, carn_births, herb_deaths, carn_deaths,
		        energy_mean, energy_p50, health_mean, age_mean, env_cost_mean
		 FROM windows WHERE run_id = ? AND segment = ? ORDER BY window_end`, runID, segment)
	if err != nil {
		return nil, fmt.Errorf("query windows: %w", err)
	}
	defer rows.Close()

	var out []WindowStats
	for rows.Next() {
		var w WindowStats
		if err := rows.Scan(
			&w.WindowStartTick, &w.WindowEndTick, &w.SimTimeSec,
			&w.Creatures, &w.Herbivores, &w.Carnivores,
			&w.Pregnant, &w.Plants, &w.Corpses,
			&w.HerbBirths, &w.CarnBirths, &w.HerbDeaths, &w.CarnDeaths,
			&w.EnergyMean, &w.EnergyP50, &w.HealthMean, &w.AgeMean, &w.EnvCostMean,
		); err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CountWindows returns how many windows a run stored across all segments.
func (s *RunStore) CountWindows(ctx context.Context, runID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM windows WHERE run_id = ?`, runID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count windows: %w", err)
	}
	return n, nil
}

// Bookmarks returns the stored bookmarks of a run in segment and tick order.
func (s *RunStore) Bookmarks(ctx context.Context, runID string) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tick, type, description FROM bookmarks WHERE run_id = ?
		 ORDER BY segment, tick, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var b Bookmark
		var typ string
		if err := rows.Scan(&b.Tick, &typ, &b.Description); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		b.Type = BookmarkType(typ)
		out = append(out, b)
	}
	return out, rows.Err()
}

// RunRecorder appends to the current segment of one run.
type RunRecorder struct {
	store   *RunStore
	runID   string
	segment int
}

// RunID returns the id of the run being recorded.
func (r *RunRecorder) RunID() string { return r.runID }

// Segment returns the index of the segment being recorded.
func (r *RunRecorder) Segment() int { return r.segment }

// NewSegment closes the current segment and opens the next one, starting at
// tick with the given world state. Later windows and bookmarks go to it.
func (r *RunRecorder) NewSegment(ctx context.Context, tick uint64, reason string, info RunInfo) error {
	cfg, err := json.Marshal(info.Sim)
	if err != nil {
		return fmt.Errorf("encode segment config: %w", err)
	}

	next := r.segment + 1
	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO segments (run_id, segment, start_tick, reason, seed, width, height,
		                       brain_mode, config_json, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.runID, next, tick, reason, info.Seed, info.Width, info.Height,
		info.BrainMode, string(cfg), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert segment: %w", err)
	}
	r.segment = next
	return nil
}

// SaveWindow stores one stats window in the current segment.
func (r *RunRecorder) SaveWindow(ctx context.Context, w WindowStats) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO windows (run_id, segment, window_start, window_end, sim_time, creatures,
		                      herbivores, carnivores, pregnant, plants, corpses, herb_births,
		                      carn_births, herb_deaths, carn_deaths, energy_mean, energy_p50,
		                      health_mean, age_mean, env_cost_mean)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.runID, r.segment, w.WindowStartTick, w.WindowEndTick, w.SimTimeSec, w.Creatures,
		w.Herbivores, w.Carnivores, w.Pregnant, w.Plants, w.Corpses, w.HerbBirths,
		w.CarnBirths, w.HerbDeaths, w.CarnDeaths, w.EnergyMean, w.EnergyP50,
		w.HealthMean, w.AgeMean, w.EnvCostMean,
	)
	if err != nil {
		return fmt.Errorf("insert window: %w", err)
	}
	return nil
}

// SaveBookmark stores one bookmark in the current segment.
func (r *RunRecorder) SaveBookmark(ctx context.Context, b Bookmark) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO bookmarks (run_id, segment, tick, type, description) VALUES (?, ?, ?, ?, ?)`,
		r.runID, r.segment, b.Tick, string(b.Type), b.Description,
	)
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}
