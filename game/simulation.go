package game

import (
	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/neural"
	"github.com/jxoesneon/EvoSim/systems"
	"github.com/jxoesneon/EvoSim/telemetry"
)

// StepStats summarizes what happened during one step.
type StepStats struct {
	Tick           uint64 `json:"tick"`
	HerbBirths     int    `json:"herbBirths"`
	CarnBirths     int    `json:"carnBirths"`
	HerbDeaths     int    `json:"herbDeaths"`
	CarnDeaths     int    `json:"carnDeaths"`
	CorpsesCreated int    `json:"corpsesCreated"`
	CorpsesRemoved int    `json:"corpsesRemoved"`
}

// Births returns the total number of newborns.
func (s StepStats) Births() int { return s.HerbBirths + s.CarnBirths }

// Deaths returns the total number of creatures that died.
func (s StepStats) Deaths() int { return s.HerbDeaths + s.CarnDeaths }

// Step advances the world by one tick of dt seconds.
//
// Creatures update in index order against the live population, so a
// creature sees this tick's movement of every lower-indexed creature.
// Newborns are buffered and join the population only after the pass.
func (w *World) Step(dt float32) {
	w.tick++
	stats := StepStats{Tick: w.tick}

	if w.perf != nil {
		w.perf.StartTick()
		w.perf.StartPhase(telemetry.PhaseCreatures)
	}

	breeder := w.breeder()
	var newborns []components.Creature
	for i := range w.creatures {
		newborns = append(newborns, w.updateCreature(i, breeder, dt)...)
	}

	w.startPhase(telemetry.PhaseBirths)
	for i := range newborns {
		stats.countBirth(newborns[i].Diet)
	}
	w.creatures = append(w.creatures, newborns...)

	w.startPhase(telemetry.PhaseDeaths)
	w.collectDead(&stats)

	w.startPhase(telemetry.PhaseCorpses)
	stats.CorpsesRemoved = w.corpses.Decay(&w.sim, w.tick, dt)

	w.lastStep = stats
	w.startPhase(telemetry.PhaseTelemetry)
	w.recordTelemetry(stats)

	if w.perf != nil {
		w.perf.EndTick()
	}
}

// updateCreature runs the full per-tick update for creature i and returns
// any offspring it gave birth to.
func (w *World) updateCreature(i int, breeder *systems.Breeder, dt float32) []components.Creature {
	c := &w.creatures[i]
	sim := &w.sim

	speedMult := systems.TerrainSpeed(c.X, c.Y, w.tick)
	others := systems.Neighbors{All: w.creatures, Self: i}

	inputs := systems.BuildInputs(c, others, w.width, w.height, w.tick, w.mode)
	out := neural.DecodeOutputs(c.Brain.Forward(inputs))

	systems.Steer(c, out, speedMult, dt)

	ctx := systems.ActionContext{
		NearPlant:  w.plants.AnyWithin(c.X, c.Y, c.Radius+systems.ReachMargin),
		PreyExists: others.AnyHerbivore(),
	}
	speed := systems.ApplyActions(c, out, ctx, sim, dt)

	systems.ApplyLocomotion(c, speed, sim, dt)
	env := systems.SampleEnv(c.X, c.Y, w.tick)
	systems.ApplyEnvironment(c, systems.EnvironmentCost(env, c.Y, speed, w.height, sim), dt)
	systems.ApplyAmbientDecay(c, out.Resting(), sim, dt)

	var born []components.Creature
	breeder.TryConceive(c)
	if systems.ApplyGestation(c, sim, dt) {
		born = breeder.GiveBirth(c)
	}

	systems.FinalizeVitals(c, w.width, w.height)
	systems.UpdateFeelings(c, sim)
	return born
}

// collectDead moves every dead creature into the corpse field, keeping the
// survivors' relative order.
func (w *World) collectDead(stats *StepStats) {
	alive := w.creatures[:0]
	for i := range w.creatures {
		c := &w.creatures[i]
		if !c.Dead() {
			alive = append(alive, *c)
			continue
		}
		w.corpses.Add(c)
		stats.CorpsesCreated++
		if c.Diet == components.Herbivore {
			stats.HerbDeaths++
		} else {
			stats.CarnDeaths++
		}
	}
	// Drop references held by the truncated tail.
	clear(w.creatures[len(alive):])
	w.creatures = alive
}

func (s *StepStats) countBirth(diet components.Diet) {
	if diet == components.Herbivore {
		s.HerbBirths++
	} else {
		s.CarnBirths++
	}
}

func (w *World) startPhase(name string) {
	if w.perf != nil {
		w.perf.StartPhase(name)
	}
}
