// Package game hosts the simulated world: construction, the tick loop, the
// host-facing setters and read-back of all observable state.
package game

import (
	"fmt"

	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/config"
	"github.com/jxoesneon/EvoSim/neural"
	"github.com/jxoesneon/EvoSim/rng"
	"github.com/jxoesneon/EvoSim/systems"
	"github.com/jxoesneon/EvoSim/telemetry"
)

// Default population of a freshly built or reset world.
const (
	DefaultCreatures = 50
	DefaultPlants    = 150
	DefaultPlantSize = 3.0
	MinPlantSize     = 0.5
	CreatureRadius   = 5.0
	CreatureEnergy   = 100.0
)

// World owns every creature, plant and corpse, the random stream and the
// active coefficient set. It is not safe for concurrent use; callers must
// serialize access.
type World struct {
	width, height float32
	tick          uint64

	mode      neural.Mode
	rng       *rng.LCG
	seed      uint32
	badBrains neural.HashSet
	sim       config.Sim

	creatures []components.Creature
	plants    *systems.PlantGrid
	corpses   *systems.CorpseField

	initialCreatures int
	initialPlants    int
	nextID           uint64

	lastStep StepStats

	// Telemetry (optional)
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool
	onWindow  func(telemetry.WindowStats)
	recorder  *telemetry.RunRecorder

	bookmarks   *telemetry.BookmarkDetector
	bookmarkLog []telemetry.Bookmark
}

// NewWorld builds a world of the given size with the default population,
// coefficients and compact brains.
func NewWorld(width, height float32, seed uint32) *World {
	w := newEmptyWorld(width, height, seed, config.DefaultSim(), neural.Compact)
	w.initialCreatures = DefaultCreatures
	w.initialPlants = DefaultPlants
	w.populate()
	return w
}

// NewWorldFromConfig builds a world from a loaded configuration.
func NewWorldFromConfig(cfg *config.Config) *World {
	wc := cfg.World
	w := newEmptyWorld(wc.Width, wc.Height, wc.Seed, cfg.Sim, neural.ParseMode(wc.BrainMode))
	w.initialCreatures = wc.InitialCreatures
	w.initialPlants = wc.InitialPlants
	w.populate()
	return w
}

func newEmptyWorld(width, height float32, seed uint32, sim config.Sim, mode neural.Mode) *World {
	return &World{
		width:     width,
		height:    height,
		mode:      mode,
		rng:       rng.New(seed),
		seed:      seed,
		badBrains: neural.HashSet{},
		sim:       sim,
		plants:    systems.NewPlantGrid(width, height),
		corpses:   systems.NewCorpseField(),
	}
}

// populate creates the initial creatures and plants. Each creature draws
// x, y, vx, vy, diet and brain in that order; each plant draws x then y.
func (w *World) populate() {
	w.creatures = make([]components.Creature, 0, w.initialCreatures)
	for i := 0; i < w.initialCreatures; i++ {
		x := w.rng.Uniform(0, w.width)
		y := w.rng.Uniform(0, w.height)
		vx := w.rng.Uniform(-1, 1) * 2
		vy := w.rng.Uniform(-1, 1) * 2
		diet := w.drawDiet()
		brain := w.newBrain()
		w.creatures = append(w.creatures, systems.NewCreature(w.newID(), x, y, vx, vy, CreatureRadius, CreatureEnergy, diet, brain))
	}
	w.addRandomPlants()
}

func (w *World) addRandomPlants() {
	for i := 0; i < w.initialPlants; i++ {
		x := w.rng.Uniform(0, w.width)
		y := w.rng.Uniform(0, w.height)
		w.plants.Insert(components.Plant{X: x, Y: y, Radius: DefaultPlantSize})
	}
}

// drawDiet consumes one draw: above 0.8 is a carnivore.
func (w *World) drawDiet() components.Diet {
	if w.rng.Float32() > 0.8 {
		return components.Carnivore
	}
	return components.Herbivore
}

func (w *World) newBrain() *neural.Brain {
	b, _ := neural.NewBrainAvoiding(w.mode.LayerSizes(), w.rng, w.badBrains)
	return b
}

func (w *World) newID() string {
	id := fmt.Sprintf("c%d", w.nextID)
	w.nextID++
	return id
}

func (w *World) breeder() *systems.Breeder {
	return &systems.Breeder{
		Rand:   w.rng,
		Sim:    &w.sim,
		Width:  w.width,
		Height: w.height,
		Mode:   w.mode,
		Avoid:  w.badBrains,
		NextID: w.newID,
	}
}

// ---------- Read-back ----------

// Tick returns the number of completed steps since construction or reset.
func (w *World) Tick() uint64 { return w.tick }

// Mode returns the active brain topology.
func (w *World) Mode() neural.Mode { return w.mode }

// Size returns the world dimensions.
func (w *World) Size() (width, height float32) { return w.width, w.height }

// Seed returns the seed of the current random stream.
func (w *World) Seed() uint32 { return w.seed }

// Config returns a copy of the active coefficient set.
func (w *World) Config() config.Sim { return w.sim }

// BadBrainHashes returns the avoidance set in sorted order.
func (w *World) BadBrainHashes() []string { return w.badBrains.List() }

// LastStep returns the statistics of the most recent step.
func (w *World) LastStep() StepStats { return w.lastStep }

// NumCreatures returns the living population size.
func (w *World) NumCreatures() int { return len(w.creatures) }

// Creatures returns deep copies of all living creatures in update order.
func (w *World) Creatures() []components.Creature {
	out := make([]components.Creature, len(w.creatures))
	for i := range w.creatures {
		out[i] = w.creatures[i].Clone()
	}
	return out
}

// Plants returns a copy of the plant list in insertion order.
func (w *World) Plants() []components.Plant {
	src := w.plants.Plants()
	out := make([]components.Plant, len(src))
	copy(out, src)
	return out
}

// Corpses returns the corpses in creation order.
func (w *World) Corpses() []components.Corpse {
	return w.corpses.Corpses()
}

// EnvCosts returns each creature's last-tick environmental costs.
func (w *World) EnvCosts() []components.EnvCostRecord {
	out := make([]components.EnvCostRecord, len(w.creatures))
	for i := range w.creatures {
		out[i] = w.creatures[i].EnvRecord()
	}
	return out
}

// CorpseCosts returns each corpse's last decay breakdown, aligned with Corpses.
func (w *World) CorpseCosts() []components.DecayCost {
	return w.corpses.Costs()
}

// Snapshot captures the full observable state.
func (w *World) Snapshot() *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Seed:        w.seed,
		RNGState:    w.rng.State(),
		WorldWidth:  w.width,
		WorldHeight: w.height,
		BrainMode:   w.mode.String(),
		Tick:        w.tick,
		Config:      w.sim,
		Creatures:   w.Creatures(),
		Plants:      w.Plants(),
		Corpses:     w.Corpses(),
		EnvCosts:    w.EnvCosts(),
		CorpseCosts: w.CorpseCosts(),
	}
}
