package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/config"
	"github.com/jxoesneon/EvoSim/neural"
	"github.com/jxoesneon/EvoSim/rng"
)

const frame = float32(1.0 / 60.0)

// zeroSource draws 0 for every weight, giving a brain whose outputs are 0.
type zeroSource struct{}

func (zeroSource) Uniform(min, max float32) float32 { return 0 }

func snapshotJSON(t *testing.T, w *World) []byte {
	t.Helper()
	data, err := json.Marshal(w.Snapshot())
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	return data
}

// ---------- Construction ----------

func TestNewWorldDefaults(t *testing.T) {
	w := NewWorld(100, 100, 42)

	if w.Tick() != 0 {
		t.Errorf("tick = %d, want 0", w.Tick())
	}
	if n := len(w.Creatures()); n != DefaultCreatures {
		t.Errorf("creatures = %d, want %d", n, DefaultCreatures)
	}
	if n := len(w.Plants()); n != DefaultPlants {
		t.Errorf("plants = %d, want %d", n, DefaultPlants)
	}
	if n := len(w.Corpses()); n != 0 {
		t.Errorf("corpses = %d, want 0", n)
	}
	if w.Mode() != neural.Compact {
		t.Errorf("mode = %v, want compact", w.Mode())
	}
	if w.Config() != config.DefaultSim() {
		t.Error("expected default coefficients")
	}

	for i, c := range w.Creatures() {
		if c.ID != fmt.Sprintf("c%d", i) {
			t.Errorf("creature %d id = %q", i, c.ID)
		}
		if c.X < 0 || c.X > 100 || c.Y < 0 || c.Y > 100 {
			t.Errorf("creature %d at (%v,%v) outside world", i, c.X, c.Y)
		}
		if c.Health != 100 || c.Energy != 100 || c.Radius != 5 || c.Age != 0 {
			t.Errorf("creature %d has wrong initial vitals: %+v", i, c)
		}
	}
	for i, p := range w.Plants() {
		if p.Radius != DefaultPlantSize {
			t.Errorf("plant %d radius = %v", i, p.Radius)
		}
	}
}

func TestNewWorldDrawOrder(t *testing.T) {
	w := NewWorld(100, 80, 42)
	replay := rng.New(42)

	for i, c := range w.Creatures() {
		x := replay.Uniform(0, 100)
		y := replay.Uniform(0, 80)
		vx := replay.Uniform(-1, 1) * 2
		vy := replay.Uniform(-1, 1) * 2
		diet := components.Herbivore
		if replay.Float32() > 0.8 {
			diet = components.Carnivore
		}
		brain := neural.NewBrain(neural.Compact.LayerSizes(), replay)

		if c.X != x || c.Y != y || c.VX != vx || c.VY != vy {
			t.Fatalf("creature %d kinematics do not match replay", i)
		}
		if c.Diet != diet {
			t.Fatalf("creature %d diet = %v, want %v", i, c.Diet, diet)
		}
		if neural.Hash(c.Brain) != neural.Hash(brain) {
			t.Fatalf("creature %d brain does not match replay", i)
		}
	}
	for i, p := range w.Plants() {
		x := replay.Uniform(0, 100)
		y := replay.Uniform(0, 80)
		if p.X != x || p.Y != y {
			t.Fatalf("plant %d at (%v,%v), want (%v,%v)", i, p.X, p.Y, x, y)
		}
	}
}

func TestDietSplit(t *testing.T) {
	w := NewWorld(800, 600, 1234)
	var carnivores int
	for _, c := range w.Creatures() {
		if c.Diet == components.Carnivore {
			carnivores++
		}
	}
	// About one in five; a loose bound keeps the test seed-agnostic.
	if carnivores == 0 || carnivores > 25 {
		t.Errorf("carnivores = %d of 50", carnivores)
	}
}

func TestNewWorldFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.World.Width = 300
	cfg.World.Height = 200
	cfg.World.InitialCreatures = 10
	cfg.World.InitialPlants = 5
	cfg.World.BrainMode = "extended"
	cfg.Sim.PostureCostPerSec = 0.5

	w := NewWorldFromConfig(cfg)
	if width, height := w.Size(); width != 300 || height != 200 {
		t.Errorf("size = %vx%v", width, height)
	}
	if len(w.Creatures()) != 10 || len(w.Plants()) != 5 {
		t.Errorf("population = %d creatures, %d plants", len(w.Creatures()), len(w.Plants()))
	}
	if w.Mode() != neural.Extended {
		t.Error("expected extended brains")
	}
	if got := w.Creatures()[0].Brain.LayerSizes; got[0] != neural.ExtendedInputs {
		t.Errorf("layer sizes = %v", got)
	}
	if w.Config().PostureCostPerSec != 0.5 {
		t.Error("coefficients not taken from config")
	}
}

// ---------- Read-back ----------

func TestReadBackIsolation(t *testing.T) {
	w := NewWorld(100, 100, 42)

	cs := w.Creatures()
	cs[0].X = -999
	cs[0].Brain.Weights[0][0] = 123

	again := w.Creatures()
	if again[0].X == -999 {
		t.Error("creature read-back aliases world state")
	}
	if again[0].Brain.Weights[0][0] == 123 {
		t.Error("brain read-back aliases world state")
	}

	ps := w.Plants()
	ps[0].X = -999
	if w.Plants()[0].X == -999 {
		t.Error("plant read-back aliases world state")
	}
}

func TestEnvCostsAligned(t *testing.T) {
	w := NewWorld(100, 100, 42)
	w.Step(frame)

	cs := w.Creatures()
	env := w.EnvCosts()
	if len(env) != len(cs) {
		t.Fatalf("env costs = %d, creatures = %d", len(env), len(cs))
	}
	for i := range cs {
		if env[i].ID != cs[i].ID {
			t.Errorf("env cost %d id %q, creature id %q", i, env[i].ID, cs[i].ID)
		}
		if env[i].Locomotion < 0 {
			t.Errorf("negative locomotion for %s", env[i].ID)
		}
	}
}

func TestSnapshotCapturesState(t *testing.T) {
	w := NewWorld(100, 100, 42)
	w.Step(frame)

	s := w.Snapshot()
	if s.Tick != 1 || s.Seed != 42 || s.BrainMode != "compact" {
		t.Errorf("header = %+v", s)
	}
	if len(s.Creatures) != len(w.Creatures()) || len(s.Plants) != DefaultPlants {
		t.Error("snapshot population mismatch")
	}

	// Telemetry fields are excluded from the creature JSON.
	if bytes.Contains(snapshotJSON(t, w), []byte("LastEnv")) {
		t.Error("snapshot JSON leaks internal telemetry fields")
	}
}
