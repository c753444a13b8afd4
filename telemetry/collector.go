package telemetry

import (
	"math"

	"github.com/jxoesneon/EvoSim/components"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks uint64
	dt                  float32

	// Current window tracking
	windowStartTick uint64

	// Event counters for current window
	herbBirths     int
	carnBirths     int
	herbDeaths     int
	carnDeaths     int
	corpsesCreated int
	corpsesRemoved int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := uint64(1)
	if dt > 0 && windowDurationSec > 0 {
		ticksPerWindow = max(uint64(math.Round(windowDurationSec/float64(dt))), 1)
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(diet components.Diet) {
	if diet == components.Herbivore {
		c.herbBirths++
	} else {
		c.carnBirths++
	}
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(diet components.Diet) {
	if diet == components.Herbivore {
		c.herbDeaths++
	} else {
		c.carnDeaths++
	}
}

// RecordCorpses records corpses created and removed during a tick.
func (c *Collector) RecordCorpses(created, removed int) {
	c.corpsesCreated += created
	c.corpsesRemoved += removed
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is the world state sampled at a window boundary.
type Population struct {
	Creatures []components.Creature
	Plants    int
	Corpses   int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, pop Population) WindowStats {
	var energies, healths, ages []float64
	var herbivores, carnivores, pregnant int
	var envSum float64
	for i := range pop.Creatures {
		cr := &pop.Creatures[i]
		if cr.Diet == components.Herbivore {
			herbivores++
		} else {
			carnivores++
		}
		if cr.Pregnant {
			pregnant++
		}
		energies = append(energies, float64(cr.Energy))
		healths = append(healths, float64(cr.Health))
		ages = append(ages, float64(cr.Age))
		envSum += float64(cr.LastEnv.Total)
	}

	energy := Describe(energies)
	health := Describe(healths)
	age := Describe(ages)

	var envMean float64
	if n := len(pop.Creatures); n > 0 {
		envMean = envSum / float64(n)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Creatures:  len(pop.Creatures),
		Herbivores: herbivores,
		Carnivores: carnivores,
		Pregnant:   pregnant,
		Plants:     pop.Plants,
		Corpses:    pop.Corpses,

		HerbBirths:     c.herbBirths,
		CarnBirths:     c.carnBirths,
		HerbDeaths:     c.herbDeaths,
		CarnDeaths:     c.carnDeaths,
		CorpsesCreated: c.corpsesCreated,
		CorpsesRemoved: c.corpsesRemoved,

		EnergyMean: energy.Mean,
		EnergyStd:  energy.Std,
		EnergyP10:  energy.P10,
		EnergyP50:  energy.P50,
		EnergyP90:  energy.P90,

		HealthMean: health.Mean,
		HealthP10:  health.P10,
		HealthP50:  health.P50,

		AgeMean: age.Mean,
		AgeP90:  age.P90,

		EnvCostMean: envMean,
	}

	c.Restart(currentTick)
	return stats
}

// Restart discards the current window's events and opens a new window at
// tick.
func (c *Collector) Restart(tick uint64) {
	c.windowStartTick = tick
	c.herbBirths = 0
	c.carnBirths = 0
	c.herbDeaths = 0
	c.carnDeaths = 0
	c.corpsesCreated = 0
	c.corpsesRemoved = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowDurationTicks
}
