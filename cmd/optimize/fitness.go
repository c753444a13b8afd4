package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/jxoesneon/EvoSim/config"
	"github.com/jxoesneon/EvoSim/game"
	"github.com/jxoesneon/EvoSim/telemetry"
)

// A run ends once the population falls below minViablePop after warmup.
const (
	minViablePop = 3
	warmupSec    = 5.0
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    uint64
	seeds       []uint32
	baseConfig  config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. The base config is copied.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []uint32, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  *baseCfg,
		statsWindow: baseCfg.Telemetry.StatsWindow,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks uint64                  // ticks before collapse, or maxTicks
	windowStats   []telemetry.WindowStats // one per finished stats window
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negative mean survival ticks across all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fe.runSimulation(fe.Config(x, seed), nil)
		}()
	}
	wg.Wait()

	var totalSurvival, totalQuality float64
	for _, r := range results {
		totalSurvival += float64(r.survivalTicks)
		totalQuality += computeQuality(r.windowStats)
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return -totalSurvival / n
}

// Config returns a copy of the base config with x applied and the world
// seeded with seed.
func (fe *FitnessEvaluator) Config(x []float64, seed uint32) *config.Config {
	cfg := fe.baseConfig
	fe.params.Apply(&cfg.Sim, x)
	cfg.World.Seed = seed
	return &cfg
}

// runSimulation executes a single headless simulation run until collapse
// or maxTicks. out, if non-nil, receives full telemetry.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, out *telemetry.OutputManager) *runResult {
	result := &runResult{}
	dt := cfg.Derived.DT32

	w := game.NewWorldFromConfig(cfg)
	w.AttachTelemetry(game.TelemetryOptions{
		WindowSec: fe.statsWindow,
		DT:        dt,
		Output:    out,
		OnWindow: func(ws telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, ws)
		},
	})

	warmupTicks := uint64(warmupSec / float64(dt))
	for w.Tick() < fe.maxTicks {
		w.Step(dt)
		if w.Tick() >= warmupTicks && w.NumCreatures() < minViablePop {
			result.survivalTicks = w.Tick()
			return result
		}
	}
	result.survivalTicks = fe.maxTicks
	return result
}

// Quality component weights.
const (
	qualityWeightBalance   = 0.30
	qualityWeightStability = 0.25
	qualityWeightEnergy    = 0.25
	qualityWeightTurnover  = 0.20

	qualityWarmupWindows = 3 // skip first N windows
	targetCarnivoreShare = 0.2
	targetEnergyP50      = 60.0
)

// computeQuality scores an ecosystem in [0, 1] from its window stats. It is
// reported alongside fitness but does not affect it.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var balanceSum, energySum, turnoverSum float64
	var n int
	counts := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.Creatures < minViablePop {
			continue
		}
		n++
		counts = append(counts, float64(w.Creatures))

		share := float64(w.Carnivores) / float64(w.Creatures)
		balanceSum += gauss(share, targetCarnivoreShare, 0.15)
		energySum += gauss(w.EnergyP50, targetEnergyP50, 30)

		births := w.HerbBirths + w.CarnBirths
		deaths := w.HerbDeaths + w.CarnDeaths
		if deaths == 0 {
			turnoverSum++
		} else {
			turnoverSum += min(float64(births)/float64(deaths), 1)
		}
	}
	if n == 0 {
		return 0
	}

	stability := 0.0
	if len(counts) >= 2 {
		mean, std := stat.MeanStdDev(counts, nil)
		if mean > 0 {
			cv := std / mean
			stability = math.Exp(-cv * cv)
		}
	}

	nf := float64(n)
	quality := qualityWeightBalance*balanceSum/nf +
		qualityWeightStability*stability +
		qualityWeightEnergy*energySum/nf +
		qualityWeightTurnover*turnoverSum/nf
	return min(max(quality, 0), 1)
}

// gauss returns a bell-shaped score that is 1 at target.
func gauss(x, target, width float64) float64 {
	d := (x - target) / width
	return math.Exp(-d * d)
}
