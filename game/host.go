package game

import (
	"fmt"
	"log/slog"

	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/config"
	"github.com/jxoesneon/EvoSim/neural"
	"github.com/jxoesneon/EvoSim/rng"
	"github.com/jxoesneon/EvoSim/systems"
	"github.com/jxoesneon/EvoSim/telemetry"
)

// SpawnCreature adds a creature at (x, y), bypassing population and
// placement rules. Draws: diet, brain, vx, vy.
func (w *World) SpawnCreature(x, y float32) string {
	diet := w.drawDiet()
	brain := w.newBrain()
	vx := w.rng.Uniform(-1, 1) * 2
	vy := w.rng.Uniform(-1, 1) * 2
	id := w.newID()
	w.creatures = append(w.creatures, systems.NewCreature(id, x, y, vx, vy, CreatureRadius, CreatureEnergy, diet, brain))
	return id
}

// SpawnPlant adds a plant at (x, y). A nil radius uses the default size;
// radii below MinPlantSize are raised to it.
func (w *World) SpawnPlant(x, y float32, radius *float32) {
	r := float32(DefaultPlantSize)
	if radius != nil {
		r = *radius
	}
	w.plants.Insert(components.Plant{X: x, Y: y, Radius: max(r, MinPlantSize)})
}

// Reset clears every creature, plant and corpse and regenerates the default
// population at the current size and brain mode. The random stream is not
// reseeded, so the new population continues it. Each creature draws diet,
// brain, x, y, vx and vy in that order.
func (w *World) Reset() {
	w.tick = 0
	w.nextID = 0
	w.lastStep = StepStats{}
	w.creatures = w.creatures[:0]
	w.plants.Clear()
	w.corpses.Clear()
	if w.collector != nil {
		w.collector.Restart(0)
	}

	for i := 0; i < w.initialCreatures; i++ {
		diet := w.drawDiet()
		brain := w.newBrain()
		x := w.rng.Uniform(0, w.width)
		y := w.rng.Uniform(0, w.height)
		vx := w.rng.Uniform(-1, 1) * 2
		vy := w.rng.Uniform(-1, 1) * 2
		w.creatures = append(w.creatures, systems.NewCreature(w.newID(), x, y, vx, vy, CreatureRadius, CreatureEnergy, diet, brain))
	}
	w.addRandomPlants()
	w.newSegment(telemetry.SegmentReset)
}

// SetBrainMode switches the brain topology by name and gives every living
// creature a fresh brain for it. Unchanged modes are a no-op.
func (w *World) SetBrainMode(name string) {
	mode := neural.ParseMode(name)
	if mode == w.mode {
		return
	}
	w.mode = mode
	for i := range w.creatures {
		w.creatures[i].Brain = w.newBrain()
	}
	slog.Info("brain mode changed", "mode", mode.String(), "creatures", len(w.creatures))
	w.newSegment(telemetry.SegmentBrainMode)
}

// SetSeed replaces the random stream. Existing entities are unaffected.
func (w *World) SetSeed(seed uint32) {
	w.rng = rng.New(seed)
	w.seed = seed
	w.newSegment(telemetry.SegmentSeed)
}

// SetBadBrainHashes replaces the avoidance set wholesale.
func (w *World) SetBadBrainHashes(hashes []string) {
	w.badBrains = neural.NewHashSet(hashes)
}

// SetBadBrainHashesJSON decodes a JSON array of strings and replaces the
// avoidance set. Malformed input leaves the set unchanged.
func (w *World) SetBadBrainHashesJSON(data []byte) error {
	hashes, err := config.ParseHashList(data)
	if err != nil {
		slog.Warn("bad brain hash list rejected", "error", err)
		return fmt.Errorf("set bad brain hashes: %w", err)
	}
	w.SetBadBrainHashes(hashes)
	return nil
}

// SetConfig replaces the coefficient set wholesale.
func (w *World) SetConfig(sim config.Sim) {
	w.sim = sim
	w.newSegment(telemetry.SegmentConfig)
}

// SetConfigJSON decodes a full camelCase coefficient object and replaces
// the coefficient set. Malformed or incomplete input leaves it unchanged.
func (w *World) SetConfigJSON(data []byte) error {
	sim, err := config.ParseSimJSON(data)
	if err != nil {
		slog.Warn("config rejected", "error", err)
		return fmt.Errorf("set config: %w", err)
	}
	w.SetConfig(sim)
	return nil
}
