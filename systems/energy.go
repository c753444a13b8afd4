package systems

import (
	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/config"
)

// MaxLifespanTicks is the age at which ambient decay reaches its full
// aging surcharge (60 minutes at 60 ticks per second).
const MaxLifespanTicks = 60 * 60 * 60

// Fraction of world height at the top and bottom treated as water.
const waterBand = 0.12

// ApplyLocomotion charges energy proportional to speed and records it.
func ApplyLocomotion(c *components.Creature, speed float32, sim *config.Sim, dt float32) {
	locomotion := sim.MoveCostCoeffPerSpeedPerSec * speed
	c.LastLocomotion = locomotion
	c.Energy = floorAt(c.Energy-perTick(locomotion, dt), 0)
}

// EnvironmentCost computes the per-second environmental cost terms for a
// creature at y moving at speed. worldHeight places the water bands.
func EnvironmentCost(env Env, y, speed, worldHeight float32, sim *config.Sim) components.EnvCost {
	var e components.EnvCost

	if y < worldHeight*waterBand || y > worldHeight*(1-waterBand) {
		e.Swim = sim.SwimEnergyCostPerSec
	}
	e.Wind = float32(sim.WindDragCoeff * env.Wind * speed)
	if env.Temp < sim.ComfortLowC {
		e.Cold = sim.TempColdPenaltyPerSec * floorAt(sim.ComfortLowC-env.Temp, 0) / 10
	}
	if env.Temp > sim.ComfortHighC {
		e.Heat = sim.TempHeatPenaltyPerSec * floorAt(env.Temp-sim.ComfortHighC, 0) / 10
	}
	if env.Humid > sim.HumidityThreshold {
		e.Humid = float32(sim.HumidityDehydrationCoeffPerSec * floorAt(env.Humid-sim.HumidityThreshold, 0))
	}
	if env.Elev > sim.ThinAirElevationCutoff01 {
		e.Oxy = float32(sim.OxygenThinAirPenaltyPerSec * floorAt(env.Elev-sim.ThinAirElevationCutoff01, 0))
	}
	e.Noise = float32(sim.NoiseStressPenaltyPerSec * env.Noise)
	e.Disease = sim.DiseaseEnergyDrainPerSec

	e.Total = e.Swim + e.Wind + e.Cold + e.Heat + e.Humid + e.Oxy + e.Noise + e.Disease
	return e
}

// ApplyEnvironment records the cost breakdown and charges its total.
func ApplyEnvironment(c *components.Creature, cost components.EnvCost, dt float32) {
	c.LastEnv = cost
	if cost.Total != 0 {
		c.Energy = floorAt(c.Energy-float32(cost.Total*(dt*FrameScale)), 0)
	}
}

// ApplyAmbientDecay drains health unless the creature rests. Older
// creatures decay faster, up to (1 + aging coefficient) times the base rate.
func ApplyAmbientDecay(c *components.Creature, resting bool, sim *config.Sim, dt float32) {
	ageNorm := clamp01(float32(c.Age) / MaxLifespanTicks)
	ambient := sim.AmbientHealthDecayPerSec * (1 + float32(sim.AgingHealthDecayCoeff*ageNorm))
	if !resting {
		c.Health = floorAt(c.Health-perTick(ambient, dt), 0)
	}
}

// ApplyGestation charges the per-tick pregnancy cost and advances the
// gestation timer. It reports whether the birth is due.
func ApplyGestation(c *components.Creature, sim *config.Sim, dt float32) bool {
	if !c.Pregnant {
		return false
	}
	oc := float32(max(c.OffspringCount, 1))
	cost := sim.GestationBaseCostPerSec + float32(sim.GestationCostPerOffspringPerSec*oc)
	c.Energy = floorAt(c.Energy-perTick(cost, dt), components.MinEnergy)
	c.GestationTimer += float32(dt * FrameScale)
	return c.GestationTimer >= sim.GestationPeriod
}

// FinalizeVitals wraps the position into the world, clamps energy and
// health to their ranges and ages the creature by one tick.
func FinalizeVitals(c *components.Creature, width, height float32) {
	c.X = wrapCoord(c.X, width)
	c.Y = wrapCoord(c.Y, height)
	c.Energy = clampFloat(c.Energy, components.MinEnergy, components.MaxEnergy)
	c.Health = clampFloat(c.Health, 0, components.MaxHealth)
	if c.Age < ^uint32(0) {
		c.Age++
	}
}
