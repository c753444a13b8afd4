package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/config"
)

// EnvSample is one creature's environmental cost row in env.csv.
type EnvSample struct {
	Tick       uint64  `csv:"tick"`
	ID         string  `csv:"id"`
	EnvTotal   float32 `csv:"env_total"`
	EnvSwim    float32 `csv:"env_swim"`
	EnvWind    float32 `csv:"env_wind"`
	EnvCold    float32 `csv:"env_cold"`
	EnvHeat    float32 `csv:"env_heat"`
	EnvHumid   float32 `csv:"env_humid"`
	EnvOxy     float32 `csv:"env_oxy"`
	EnvNoise   float32 `csv:"env_noise"`
	EnvDisease float32 `csv:"env_disease"`
	Locomotion float32 `csv:"locomotion"`
}

// csvFile appends gocsv records, writing the header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir       string
	telemetry csvFile
	perf      csvFile
	env       csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		name string
		dst  *csvFile
	}{
		{"telemetry.csv", &om.telemetry},
		{"perf.csv", &om.perf},
		{"env.csv", &om.env},
	}
	for _, file := range files {
		f, err := os.Create(filepath.Join(dir, file.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", file.name, err)
		}
		file.dst.f = f
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd uint64) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteEnvCosts writes one env.csv row per creature record.
func (om *OutputManager) WriteEnvCosts(tick uint64, records []components.EnvCostRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	rows := make([]EnvSample, len(records))
	for i, r := range records {
		rows[i] = EnvSample{
			Tick:       tick,
			ID:         r.ID,
			EnvTotal:   r.EnvTotal,
			EnvSwim:    r.EnvSwim,
			EnvWind:    r.EnvWind,
			EnvCold:    r.EnvCold,
			EnvHeat:    r.EnvHeat,
			EnvHumid:   r.EnvHumid,
			EnvOxy:     r.EnvOxy,
			EnvNoise:   r.EnvNoise,
			EnvDisease: r.EnvDisease,
			Locomotion: r.Locomotion,
		}
	}
	if err := om.env.write(rows); err != nil {
		return fmt.Errorf("writing env costs: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{&om.telemetry, &om.perf, &om.env} {
		if c.f == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.f = nil
	}
	return firstErr
}
