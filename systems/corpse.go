package systems

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/config"
)

// Temperature above which corpses decay faster, and the span over which
// the temperature term grows by 1.
const (
	decayRefTemp  = 20
	decayTempSpan = 15
	decayTempMax  = 2
)

// DecayRate computes a corpse's per-second decay rate and its breakdown.
// Each environmental term is a fraction of the base rate.
func DecayRate(env Env, sim *config.Sim) components.DecayCost {
	base := floorAt(sim.CorpseBaseDecayPerSec, 0)
	tempTerm := clampFloat((env.Temp-decayRefTemp)/decayTempSpan, 0, decayTempMax)

	temp := float32(base * sim.CorpseTempDecayCoeff * tempTerm)
	humid := float32(base * sim.CorpseHumidityDecayCoeff * floorAt(env.Humid, 0))
	rain := float32(base * sim.CorpseRainDecayCoeff * floorAt(env.Rain, 0))
	wet := float32(base * sim.CorpseWetnessDecayCoeff * floorAt(env.Wet, 0))

	return components.DecayCost{
		Total: floorAt(base+temp+humid+rain+wet, 0),
		Base:  base,
		Temp:  floorAt(temp, 0),
		Humid: floorAt(humid, 0),
		Rain:  floorAt(rain, 0),
		Wet:   floorAt(wet, 0),
	}
}

// CorpseField stores corpses as ECS entities with Position, Body and
// Remains components, plus their last decay breakdown.
type CorpseField struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Body, components.Remains, components.DecayCost]
	filter *ecs.Filter4[components.Position, components.Body, components.Remains, components.DecayCost]
	seq    uint64
	count  int
}

// NewCorpseField creates an empty corpse field in its own ECS world.
func NewCorpseField() *CorpseField {
	world := ecs.NewWorld()
	return &CorpseField{
		world:  world,
		mapper: ecs.NewMap4[components.Position, components.Body, components.Remains, components.DecayCost](world),
		filter: ecs.NewFilter4[components.Position, components.Body, components.Remains, components.DecayCost](world),
	}
}

// Len returns the number of corpses.
func (f *CorpseField) Len() int {
	return f.count
}

// Add turns a dead creature into a corpse at its last position.
func (f *CorpseField) Add(c *components.Creature) {
	pos := components.Position{X: c.X, Y: c.Y}
	body := components.Body{Radius: c.Radius}
	remains := components.Remains{
		EnergyRemaining: floorAt(c.Energy, 0),
		InitialDecay:    components.InitialDecayTime,
		DecayTimer:      components.InitialDecayTime,
		Seq:             f.seq,
	}
	f.seq++
	f.count++
	f.mapper.NewEntity(&pos, &body, &remains, &components.DecayCost{})
}

// Decay advances every corpse's timer by one tick and removes corpses whose
// timer reached zero. It returns how many were removed.
func (f *CorpseField) Decay(sim *config.Sim, tick uint64, dt float32) int {
	// First pass: decay (must complete before modifying the world)
	var expired []ecs.Entity
	query := f.filter.Query()
	for query.Next() {
		pos, _, remains, cost := query.Get()

		*cost = DecayRate(SampleEnv(pos.X, pos.Y, tick), sim)
		remains.DecayTimer = floorAt(remains.DecayTimer-float32(dt*FrameScale*cost.Total), 0)
		if !(remains.DecayTimer > 0) {
			expired = append(expired, query.Entity())
		}
	}

	// Second pass: remove (query iteration complete)
	for _, e := range expired {
		f.world.RemoveEntity(e)
	}
	f.count -= len(expired)
	return len(expired)
}

// Clear removes every corpse and restarts the creation sequence.
func (f *CorpseField) Clear() {
	var all []ecs.Entity
	query := f.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		f.world.RemoveEntity(e)
	}
	f.count = 0
	f.seq = 0
}

type corpseRow struct {
	seq    uint64
	corpse components.Corpse
	cost   components.DecayCost
}

// rows collects all corpses in creation order.
func (f *CorpseField) rows() []corpseRow {
	rows := make([]corpseRow, 0, f.count)
	query := f.filter.Query()
	for query.Next() {
		pos, body, remains, cost := query.Get()
		rows = append(rows, corpseRow{
			seq: remains.Seq,
			corpse: components.Corpse{
				X:               pos.X,
				Y:               pos.Y,
				Radius:          body.Radius,
				EnergyRemaining: remains.EnergyRemaining,
				InitialDecay:    remains.InitialDecay,
				DecayTimer:      remains.DecayTimer,
			},
			cost: *cost,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	return rows
}

// Corpses returns the corpses in creation order.
func (f *CorpseField) Corpses() []components.Corpse {
	rows := f.rows()
	out := make([]components.Corpse, len(rows))
	for i, r := range rows {
		out[i] = r.corpse
	}
	return out
}

// Costs returns each corpse's last decay breakdown, in creation order.
func (f *CorpseField) Costs() []components.DecayCost {
	rows := f.rows()
	out := make([]components.DecayCost, len(rows))
	for i, r := range rows {
		out[i] = r.cost
	}
	return out
}
