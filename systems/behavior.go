package systems

import (
	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/config"
	"github.com/jxoesneon/EvoSim/neural"
)

// Movement constants. Simulation rates are tuned against a 60 Hz clock, so
// every per-second quantity is applied as rate * dt * FrameScale.
const (
	FrameScale      = 60
	BaseAccel       = 0.35
	BoostMultiplier = 1.5
	Friction        = 0.99
	RestDamping     = 0.9

	EatTrickle       = 0.15 // energy gained per eating tick
	SprintCost       = 0.1  // flat energy per sprinting tick
	SprintOverflowAt = 2.5  // speed above which sprinting costs extra
	IdleSpeed        = 0.05 // below this a non-resting creature pays posture cost
	ReachMargin      = 5    // plant reach beyond the body radius
)

// Steer accelerates the creature along its steering output, integrates
// position and applies friction. Action and feeling masks are cleared for
// the new tick.
func Steer(c *components.Creature, out neural.BehaviorOutputs, speedMult, dt float32) {
	accel := BaseAccel * speedMult * (0.5 + abs32(out.AccelScale))
	if out.Boosting() {
		accel *= BoostMultiplier
	}
	// Conversions round each product so no platform fuses it into the add.
	c.VX += float32(out.SteerX * accel)
	c.VY += float32(out.SteerY * accel)
	c.X += float32(c.VX * dt * FrameScale * speedMult)
	c.Y += float32(c.VY * dt * FrameScale * speedMult)
	c.VX *= Friction
	c.VY *= Friction

	c.Actions = 0
	c.Feelings = 0
}

// ActionContext carries what a creature can perceive for its actions.
type ActionContext struct {
	NearPlant  bool // a plant lies within radius + ReachMargin
	PreyExists bool // another herbivore exists anywhere
}

// ApplyActions evaluates the behavior gates in order and charges their
// costs. It returns the speed after rest damping, which the later cost
// terms use.
func ApplyActions(c *components.Creature, out neural.BehaviorOutputs, ctx ActionContext, sim *config.Sim, dt float32) float32 {
	resting := out.Resting()
	boosting := out.Boosting()

	if resting {
		c.VX *= RestDamping
		c.VY *= RestDamping
		c.Stamina = min(c.Stamina+perTick(sim.RestStaminaRegenPerSec, dt), c.MaxStamina)
		if c.Health < components.MaxHealth {
			c.Health = min(c.Health+perTick(sim.RestHealthRegenPerSec, dt), components.MaxHealth)
		}
		c.Actions |= components.ActionResting
	}

	if out.Eating() && ctx.NearPlant {
		c.Energy = min(c.Energy+EatTrickle, components.MaxEnergy)
		c.Energy = floorAt(c.Energy-perTick(sim.HarvestPlantActionCostPerSecond, dt), 0)
		c.Actions |= components.ActionEating
	}

	if boosting {
		c.Energy = floorAt(c.Energy-SprintCost, 0)
		c.Actions |= components.ActionSprinting
	}

	speed := c.Speed()
	if boosting && speed > SprintOverflowAt {
		c.Energy = floorAt(c.Energy-perTick(sim.SprintOverflowCostPerSec, dt), 0)
	}
	if !resting && speed < IdleSpeed {
		c.Energy = floorAt(c.Energy-perTick(sim.PostureCostPerSec, dt), 0)
	}

	if c.Diet == components.Carnivore && boosting && ctx.PreyExists {
		c.Energy = floorAt(c.Energy-perTick(sim.AttackCostPerHitEnergy, dt), 0)
		c.Actions |= components.ActionAttacking
	}

	if ctx.NearPlant && c.Thirst < sim.ThirstThreshold {
		c.Thirst = min(c.Thirst+perTick(sim.ThirstRecoveryPerSec, dt), components.MaxThirst)
		c.Energy = floorAt(c.Energy-perTick(sim.DrinkCostPerSecond, dt), 0)
		c.Actions |= components.ActionDrinking
	}

	return speed
}

// UpdateFeelings recomputes the feeling mask and the stagnation counter.
func UpdateFeelings(c *components.Creature, sim *config.Sim) {
	if c.Thirst < sim.ThirstThreshold {
		c.Feelings |= components.FeelingThirsty
	}
	if c.Energy < sim.HungerEnergyThreshold {
		c.Feelings |= components.FeelingHungry
	}
	if c.Stamina < sim.FatigueStaminaThreshold {
		c.Feelings |= components.FeelingFatigued
	}

	if c.Speed() < sim.MovementThreshold {
		if c.StagnantTicks < ^uint32(0) {
			c.StagnantTicks++
		}
	} else {
		c.StagnantTicks = 0
	}
	if c.StagnantTicks >= sim.StagnantTicksLimit {
		c.Feelings |= components.FeelingRestless
	}
}

// perTick scales a per-second rate to one tick of length dt. The result is
// rounded before callers add it to a resource.
func perTick(rate, dt float32) float32 {
	return float32(rate * dt * FrameScale)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
