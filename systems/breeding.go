package systems

import (
	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/config"
	"github.com/jxoesneon/EvoSim/neural"
)

// Breeding constants
const (
	OffspringAngleStride = 0.7    // radians between successive siblings
	OffspringAngleJitter = 6.2831 // random angle offset range
	OffspringMinDist     = 4.0
	OffspringDistJitter  = 6.0
	NewbornRadius        = 4.0
	NewbornVelocity      = 0.5 // velocity components drawn from ±this
)

// Random is the draw interface the breeding system consumes.
// *rng.LCG satisfies it.
type Random interface {
	Float32() float32
	Uniform(min, max float32) float32
}

// Breeder produces offspring for creatures whose gestation is complete.
// All draws come from Rand in a fixed order per birth: the mutation factor,
// then for each offspring its angle, distance, brain and velocity.
type Breeder struct {
	Rand   Random
	Sim    *config.Sim
	Width  float32
	Height float32
	Mode   neural.Mode
	Avoid  neural.HashSet
	NextID func() string
}

// TryConceive makes an eligible creature pregnant. Conception is disabled
// while the configured energy threshold is 0; an ineligible creature
// consumes no draws.
func (b *Breeder) TryConceive(c *components.Creature) bool {
	sim := b.Sim
	if c.Pregnant || sim.ConceptionEnergyThreshold <= 0 {
		return false
	}
	if c.Energy < sim.ConceptionEnergyThreshold || c.Age < sim.MaturityTicks {
		return false
	}
	litter := max(sim.MaxLitter, 1)
	n := 1 + uint32(b.Rand.Float32()*float32(litter))
	c.Pregnant = true
	c.GestationTimer = 0
	c.OffspringCount = min(n, litter)
	return true
}

// GiveBirth charges the birth and mutation costs, creates the parent's
// pending offspring and resets its pregnancy. Newborns are returned to the
// caller, which must not add them to the population until the current pass
// over it has finished.
func (b *Breeder) GiveBirth(parent *components.Creature) []components.Creature {
	sim := b.Sim
	count := max(parent.OffspringCount, 1)
	oc := float32(count)

	parent.Energy = floorAt(parent.Energy-sim.BirthEventCostEnergy, components.MinEnergy)
	mutation := sim.MutationCostEnergyBase + float32(sim.MutationCostPerStdChange*oc*(0.5+b.Rand.Float32()))
	parent.Energy = floorAt(parent.Energy-mutation, components.MinEnergy)

	newborns := make([]components.Creature, 0, count)
	for k := uint32(0); k < count; k++ {
		angle := float32(float32(k)*OffspringAngleStride) + float32(b.Rand.Float32()*OffspringAngleJitter)
		r := OffspringMinDist + float32(b.Rand.Float32()*OffspringDistJitter)
		x := clampFloat(parent.X+float32(cos32(angle)*r), 0, b.Width)
		y := clampFloat(parent.Y+float32(sin32(angle)*r), 0, b.Height)

		brain, _ := neural.NewBrainAvoiding(b.Mode.LayerSizes(), b.Rand, b.Avoid)
		vx := b.Rand.Uniform(-NewbornVelocity, NewbornVelocity)
		vy := b.Rand.Uniform(-NewbornVelocity, NewbornVelocity)

		newborns = append(newborns, NewCreature(b.NextID(), x, y, vx, vy, NewbornRadius, components.NewbornEnergy, parent.Diet, brain))
	}

	parent.Pregnant = false
	parent.GestationTimer = 0
	parent.OffspringCount = 1
	return newborns
}

// NewCreature returns a creature with full health, stamina and thirst.
func NewCreature(id string, x, y, vx, vy, radius, energy float32, diet components.Diet, brain *neural.Brain) components.Creature {
	return components.Creature{
		ID:             id,
		X:              x,
		Y:              y,
		VX:             vx,
		VY:             vy,
		Radius:         radius,
		Health:         components.MaxHealth,
		Energy:         energy,
		Stamina:        100,
		MaxStamina:     100,
		Thirst:         components.MaxThirst,
		Diet:           diet,
		Brain:          brain,
		OffspringCount: 1,
	}
}
