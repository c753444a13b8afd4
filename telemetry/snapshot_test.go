package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/config"
	"github.com/jxoesneon/EvoSim/neural"
	"github.com/jxoesneon/EvoSim/rng"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	brain := neural.NewBrain(neural.Compact.LayerSizes(), rng.New(5))
	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		Seed:        42,
		RNGState:    12345,
		WorldWidth:  800,
		WorldHeight: 600,
		BrainMode:   "compact",
		Tick:        1000,
		Config:      config.DefaultSim(),
		Creatures: []components.Creature{
			{
				ID:       "c3",
				X:        150,
				Y:        250,
				VX:       0.5,
				VY:       -0.3,
				Radius:   5,
				Health:   90,
				Energy:   75,
				Diet:     components.Carnivore,
				Brain:    brain,
				Age:      300,
				Pregnant: true,
			},
		},
		Plants:  []components.Plant{{X: 1, Y: 2, Radius: 3}},
		Corpses: []components.Corpse{{X: 4, Y: 5, Radius: 5, InitialDecay: 100, DecayTimer: 40}},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_1000.json" {
		t.Errorf("unexpected filename %s", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Seed != 42 || loaded.RNGState != 12345 || loaded.Tick != 1000 {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if loaded.Config != snapshot.Config {
		t.Error("config mismatch")
	}
	if len(loaded.Creatures) != 1 {
		t.Fatalf("expected 1 creature, got %d", len(loaded.Creatures))
	}

	c := loaded.Creatures[0]
	if c.ID != "c3" || c.X != 150 || c.VY != -0.3 || c.Diet != components.Carnivore || !c.Pregnant || c.Age != 300 {
		t.Errorf("creature mismatch: %+v", c)
	}
	if neural.Hash(c.Brain) != neural.Hash(brain) {
		t.Error("brain weights did not survive the round trip")
	}
	if len(loaded.Plants) != 1 || loaded.Corpses[0].DecayTimer != 40 {
		t.Error("plants or corpses mismatch")
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
