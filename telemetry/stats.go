// Package telemetry provides windowed population statistics, bookmarks,
// CSV output and state snapshots.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Creatures  int `csv:"creatures"`
	Herbivores int `csv:"herbivores"`
	Carnivores int `csv:"carnivores"`
	Pregnant   int `csv:"pregnant"`
	Plants     int `csv:"plants"`
	Corpses    int `csv:"corpses"`

	// Events during window
	HerbBirths     int `csv:"herb_births"`
	CarnBirths     int `csv:"carn_births"`
	HerbDeaths     int `csv:"herb_deaths"`
	CarnDeaths     int `csv:"carn_deaths"`
	CorpsesCreated int `csv:"corpses_created"`
	CorpsesRemoved int `csv:"corpses_removed"`

	// Distributions (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	HealthMean float64 `csv:"health_mean"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`

	AgeMean float64 `csv:"age_mean"`
	AgeP90  float64 `csv:"age_p90"`

	// Mean per-second environmental cost over living creatures
	EnvCostMean float64 `csv:"env_cost_mean"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Describe computes the mean, sample standard deviation and empirical
// 10/50/90th percentiles of values. An empty sample yields zeros.
func Describe(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if n == 1 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("creatures", s.Creatures),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("pregnant", s.Pregnant),
		slog.Int("plants", s.Plants),
		slog.Int("corpses", s.Corpses),
		slog.Int("herb_births", s.HerbBirths),
		slog.Int("carn_births", s.CarnBirths),
		slog.Int("herb_deaths", s.HerbDeaths),
		slog.Int("carn_deaths", s.CarnDeaths),
		slog.Int("corpses_created", s.CorpsesCreated),
		slog.Int("corpses_removed", s.CorpsesRemoved),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("health_p10", s.HealthP10),
		slog.Float64("health_p50", s.HealthP50),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_p90", s.AgeP90),
		slog.Float64("env_cost_mean", s.EnvCostMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"creatures", s.Creatures,
		"herbivores", s.Herbivores,
		"carnivores", s.Carnivores,
		"pregnant", s.Pregnant,
		"plants", s.Plants,
		"corpses", s.Corpses,
		"herb_births", s.HerbBirths,
		"carn_births", s.CarnBirths,
		"herb_deaths", s.HerbDeaths,
		"carn_deaths", s.CarnDeaths,
		"corpses_created", s.CorpsesCreated,
		"corpses_removed", s.CorpsesRemoved,
		"energy_mean", s.EnergyMean,
		"energy_p50", s.EnergyP50,
		"health_mean", s.HealthMean,
		"age_mean", s.AgeMean,
		"env_cost_mean", s.EnvCostMean,
	)
}
