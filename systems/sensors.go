package systems

import (
	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/neural"
)

// Neighbors is a read-only view of the population seen by one creature:
// every creature except the one at index Self.
type Neighbors struct {
	All  []components.Creature
	Self int
}

// NearestHerbivore returns the position of the closest other herbivore by
// squared distance. The first of several equally close candidates wins.
func (n Neighbors) NearestHerbivore(x, y float32) (tx, ty float32, ok bool) {
	best := float32(0)
	for j := range n.All {
		c := &n.All[j]
		if j == n.Self || c.Diet != components.Herbivore {
			continue
		}
		d2 := distanceSq(x, y, c.X, c.Y)
		if !ok || d2 < best {
			best, tx, ty, ok = d2, c.X, c.Y, true
		}
	}
	return tx, ty, ok
}

// NearestCarnivore returns the position of the closest other carnivore by
// Euclidean distance. The first of several equally close candidates wins.
func (n Neighbors) NearestCarnivore(x, y float32) (tx, ty float32, ok bool) {
	best := float32(0)
	for j := range n.All {
		c := &n.All[j]
		if j == n.Self || c.Diet != components.Carnivore {
			continue
		}
		d := sqrt32(distanceSq(x, y, c.X, c.Y))
		if !ok || d < best {
			best, tx, ty, ok = d, c.X, c.Y, true
		}
	}
	return tx, ty, ok
}

// AnyHerbivore reports whether any other creature is a herbivore.
func (n Neighbors) AnyHerbivore() bool {
	for j := range n.All {
		if j != n.Self && n.All[j].Diet == components.Herbivore {
			return true
		}
	}
	return false
}

// SensorInputs holds the named features of one creature's brain input.
type SensorInputs struct {
	// Shared by both topologies
	PosX, PosY     float32
	VelX, VelY     float32 // tanh of velocity
	Energy, Health float32
	PhaseSin       float32
	PhaseCos       float32
	HerbDX, HerbDY float32 // unit vector toward nearest herbivore
	HerbDist       float32 // normalized, 1 when none

	// Extended topology only
	CarnDX, CarnDY float32
	CarnDist       float32
	Rough          float32
	RoughNorm      float32
	Speed          float32
	HeadingHerb    float32
	HeadingCarn    float32
	WaveA, WaveB   float32
	Carnivore      float32
	InvEnergy      float32
}

// ComputeSensors builds the feature set of creature self for the given
// topology. Extended-only fields stay zero in compact mode.
func ComputeSensors(self *components.Creature, others Neighbors, width, height float32, tick uint64, mode neural.Mode) SensorInputs {
	var s SensorInputs

	s.PosX = self.X / width
	s.PosY = self.Y / height
	s.VelX = tanh32(self.VX)
	s.VelY = tanh32(self.VY)
	s.Energy = clamp01(self.Energy / 100)
	s.Health = clamp01(self.Health / 100)
	t := float32(tick) * 0.01
	s.PhaseSin = sin32(t)
	s.PhaseCos = cos32(t)

	span := max(width, height)
	s.HerbDist = 1
	if tx, ty, ok := others.NearestHerbivore(self.X, self.Y); ok {
		s.HerbDX, s.HerbDY, s.HerbDist = unitToward(self.X, self.Y, tx, ty, span)
	}

	if mode != neural.Extended {
		return s
	}

	s.CarnDist = 1
	if tx, ty, ok := others.NearestCarnivore(self.X, self.Y); ok {
		s.CarnDX, s.CarnDY, s.CarnDist = unitToward(self.X, self.Y, tx, ty, span)
	}
	s.Rough = TerrainSpeed(self.X, self.Y, tick)
	s.RoughNorm = (s.Rough - 0.6) / 0.4
	s.Speed = tanh32(self.Speed())
	s.HeadingHerb = float32(s.VelX*s.HerbDX) + float32(s.VelY*s.HerbDY)
	s.HeadingCarn = float32(s.VelX*s.CarnDX) + float32(s.VelY*s.CarnDY)
	s.WaveA = sin32(float32(t*0.37) + float32(self.X*0.0007) + float32(self.Y*0.0009))
	s.WaveB = cos32(float32(t*0.41) - float32(self.X*0.0006) + float32(self.Y*0.0011))
	if self.Diet == components.Carnivore {
		s.Carnivore = 1
	}
	s.InvEnergy = clamp01(1 - s.Energy)
	return s
}

// unitToward returns the unit vector from (x, y) to (tx, ty) and the
// distance normalized by span, clamped to [0, 1].
func unitToward(x, y, tx, ty, span float32) (dx, dy, dist float32) {
	ddx := tx - x
	ddy := ty - y
	d := max(sqrt32(float32(ddx*ddx)+float32(ddy*ddy)), 0.0001)
	return ddx / d, ddy / d, clamp01(d / span)
}

// AsSlice returns the feature vector for the topology, bias term appended
// and zero-padded or truncated to the mode's input size.
func (s *SensorInputs) AsSlice(mode neural.Mode) []float32 {
	n := mode.InputSize()
	v := make([]float32, 0, n)
	v = append(v,
		s.PosX, s.PosY, s.VelX, s.VelY, s.Energy, s.Health,
		s.PhaseSin, s.PhaseCos, s.HerbDX, s.HerbDY, s.HerbDist,
	)
	if mode == neural.Extended {
		v = append(v,
			s.CarnDX, s.CarnDY, s.CarnDist, s.Rough, s.RoughNorm, s.Speed,
			s.HeadingHerb, s.HeadingCarn, s.WaveA, s.WaveB, s.Carnivore, s.InvEnergy,
		)
	}
	v = append(v, 1)
	for len(v) < n {
		v = append(v, 0)
	}
	return v[:n]
}

// BuildInputs computes the brain input vector for creature self.
func BuildInputs(self *components.Creature, others Neighbors, width, height float32, tick uint64, mode neural.Mode) []float32 {
	s := ComputeSensors(self, others, width, height, tick, mode)
	return s.AsSlice(mode)
}
