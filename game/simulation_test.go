package game

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/neural"
	"github.com/jxoesneon/EvoSim/systems"
)

// harshWorld returns a world whose creatures die and breed within a few
// hundred ticks.
func harshWorld(seed uint32) *World {
	w := NewWorld(200, 200, seed)
	sim := w.Config()
	sim.DiseaseEnergyDrainPerSec = 0.4
	sim.ConceptionEnergyThreshold = 60
	sim.MaturityTicks = 30
	sim.MaxLitter = 2
	sim.GestationPeriod = 60
	w.SetConfig(sim)
	return w
}

func TestFirstStepScenario(t *testing.T) {
	w := NewWorld(100, 100, 42)
	w.Step(frame)

	if w.Tick() != 1 {
		t.Errorf("tick = %d, want 1", w.Tick())
	}
	cs := w.Creatures()
	if len(cs) != 50 {
		t.Fatalf("creatures = %d, want 50", len(cs))
	}
	for _, c := range cs {
		if c.Age != 1 {
			t.Errorf("%s age = %d, want 1", c.ID, c.Age)
		}
	}
	if s := w.LastStep(); s.Births() != 0 || s.Deaths() != 0 {
		t.Errorf("unexpected births/deaths: %+v", s)
	}
}

func TestDyingCreatureBecomesCorpse(t *testing.T) {
	w := NewWorld(100, 100, 42)

	c := &w.creatures[0]
	c.Health = 0.01
	c.Energy = 50
	c.Brain = neural.NewBrain(neural.Compact.LayerSizes(), zeroSource{})

	// A zero brain outputs nothing, so only steering moves the body.
	expected := c.Clone()
	systems.Steer(&expected, neural.BehaviorOutputs{}, systems.TerrainSpeed(c.X, c.Y, 1), 1)
	systems.FinalizeVitals(&expected, 100, 100)

	w.Step(1)

	for _, cr := range w.Creatures() {
		if cr.ID == "c0" {
			t.Fatal("dying creature is still alive")
		}
	}
	s := w.LastStep()
	if s.Deaths() != 1 || s.CorpsesCreated != 1 {
		t.Fatalf("deaths %d corpses created %d, want 1/1", s.Deaths(), s.CorpsesCreated)
	}

	corpses := w.Corpses()
	if len(corpses) != 1 {
		t.Fatalf("corpses = %d, want 1", len(corpses))
	}
	got := corpses[0]
	if got.X != expected.X || got.Y != expected.Y {
		t.Errorf("corpse at (%v,%v), want (%v,%v)", got.X, got.Y, expected.X, expected.Y)
	}
	if got.EnergyRemaining <= 0 {
		t.Errorf("corpse energy = %v, want > 0", got.EnergyRemaining)
	}
	// Decay already ran once at base rate 0.5: 100 - 1*60*0.5.
	if got.DecayTimer != 70 {
		t.Errorf("decay timer = %v, want 70", got.DecayTimer)
	}
	if costs := w.CorpseCosts(); len(costs) != 1 || costs[0].Total != 0.5 {
		t.Errorf("corpse costs = %+v", costs)
	}
}

func TestDeterminism(t *testing.T) {
	run := func(seed uint32) []byte {
		w := harshWorld(seed)
		w.SetBadBrainHashes([]string{"abc"})
		for i := 0; i < 300; i++ {
			w.Step(frame)
		}
		return snapshotJSON(t, w)
	}

	a := run(7)
	b := run(7)
	if !bytes.Equal(a, b) {
		t.Error("same seed produced different states")
	}
	if bytes.Equal(a, run(8)) {
		t.Error("different seeds produced identical states")
	}
}

func TestVitalsStayClamped(t *testing.T) {
	w := harshWorld(3)
	for step := 0; step < 600; step++ {
		w.Step(frame)
		for _, c := range w.creatures {
			if c.Health < 0 || c.Health > 100 {
				t.Fatalf("step %d: %s health %v", step, c.ID, c.Health)
			}
			if c.Energy < -50 || c.Energy > 100 {
				t.Fatalf("step %d: %s energy %v", step, c.ID, c.Energy)
			}
			if c.X < 0 || c.X > 200 || c.Y < 0 || c.Y > 200 {
				t.Fatalf("step %d: %s at (%v,%v)", step, c.ID, c.X, c.Y)
			}
		}
	}
}

func TestPopulationConservation(t *testing.T) {
	w := harshWorld(11)
	var births, deaths int
	for step := 0; step < 600; step++ {
		before := w.NumCreatures()
		corpsesBefore := len(w.Corpses())

		w.Step(frame)
		s := w.LastStep()
		births += s.Births()
		deaths += s.Deaths()

		if got, want := w.NumCreatures(), before+s.Births()-s.Deaths(); got != want {
			t.Fatalf("step %d: population %d, want %d", step, got, want)
		}
		if s.CorpsesCreated != s.Deaths() {
			t.Fatalf("step %d: %d corpses for %d deaths", step, s.CorpsesCreated, s.Deaths())
		}
		if got, want := len(w.Corpses()), corpsesBefore+s.CorpsesCreated-s.CorpsesRemoved; got != want {
			t.Fatalf("step %d: corpses %d, want %d", step, got, want)
		}
	}
	if births == 0 || deaths == 0 {
		t.Errorf("harsh world should breed and die: births %d deaths %d", births, deaths)
	}
}

func TestNewbornsDoNotAffectSameTick(t *testing.T) {
	build := func(pregnant bool) *World {
		w := NewWorld(100, 100, 42)
		if pregnant {
			c := &w.creatures[0]
			c.Pregnant = true
			c.GestationTimer = w.sim.GestationPeriod - 0.5
		}
		return w
	}

	birthing := build(true)
	control := build(false)
	birthing.Step(frame)
	control.Step(frame)

	if s := birthing.LastStep(); s.Births() != 1 {
		t.Fatalf("births = %d, want 1", s.Births())
	}

	got := birthing.Creatures()
	want := control.Creatures()
	if len(got) != len(want)+1 {
		t.Fatalf("population %d, want %d", len(got), len(want)+1)
	}
	if got[len(got)-1].ID != "c50" {
		t.Errorf("newborn id = %q, want c50", got[len(got)-1].ID)
	}
	if got[len(got)-1].Age != 0 {
		t.Error("newborn should not be updated on its birth tick")
	}

	// Every creature after the parent sees the same world in both runs.
	for i := 1; i < len(want); i++ {
		a, _ := json.Marshal(got[i])
		b, _ := json.Marshal(want[i])
		if !bytes.Equal(a, b) {
			t.Fatalf("creature %s differs when a sibling is born mid-tick", want[i].ID)
		}
	}

	parent := got[0]
	if parent.Pregnant || parent.GestationTimer != 0 {
		t.Error("parent pregnancy not reset")
	}
	if parent.Energy >= want[0].Energy {
		t.Error("birth should cost the parent energy")
	}
}

func TestExtendedModeSteps(t *testing.T) {
	w := NewWorld(100, 100, 5)
	w.SetBrainMode("Zegion")
	for i := 0; i < 10; i++ {
		w.Step(frame)
	}
	for _, c := range w.Creatures() {
		if len(c.Brain.Activations) == 0 || len(c.Brain.Activations[0]) != neural.ExtendedInputs {
			t.Fatalf("%s did not run an extended forward pass", c.ID)
		}
	}
}

func TestActionMasksRecorded(t *testing.T) {
	w := NewWorld(100, 100, 42)
	w.Step(frame)
	for _, c := range w.Creatures() {
		if c.Actions&^(components.ActionResting|components.ActionEating|components.ActionSprinting|
			components.ActionAttacking|components.ActionDrinking) != 0 {
			t.Errorf("%s has unknown action bits %b", c.ID, c.Actions)
		}
	}
}

func BenchmarkStep(b *testing.B) {
	w := NewWorld(800, 600, 42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Step(frame)
		if w.NumCreatures() == 0 {
			b.StopTimer()
			w.Reset()
			b.StartTimer()
		}
	}
}
