package telemetry

import (
	"math"
	"testing"

	"github.com/jxoesneon/EvoSim/components"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("window ticks = %d, want 10", c.WindowDurationTicks())
	}
	if c.ShouldFlush(9) {
		t.Error("flushed before window end")
	}
	if !c.ShouldFlush(10) {
		t.Error("did not flush at window end")
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0.001, 1.0/60)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("window ticks = %d, want 1", c.WindowDurationTicks())
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.5)
	c.RecordBirth(components.Herbivore)
	c.RecordBirth(components.Carnivore)
	c.RecordBirth(components.Carnivore)
	c.RecordDeath(components.Herbivore)
	c.RecordCorpses(1, 0)
	c.RecordCorpses(0, 1)

	pop := Population{
		Creatures: []components.Creature{
			{Diet: components.Herbivore, Energy: 40, Health: 100, Age: 10},
			{Diet: components.Carnivore, Energy: 60, Health: 50, Age: 30, Pregnant: true},
		},
		Plants:  7,
		Corpses: 2,
	}
	pop.Creatures[0].LastEnv.Total = 1
	pop.Creatures[1].LastEnv.Total = 3

	s := c.Flush(4, pop)
	if s.WindowStartTick != 0 || s.WindowEndTick != 4 {
		t.Errorf("window = [%d,%d], want [0,4]", s.WindowStartTick, s.WindowEndTick)
	}
	if math.Abs(s.SimTimeSec-2) > 1e-9 {
		t.Errorf("sim time = %v, want 2", s.SimTimeSec)
	}
	if s.Creatures != 2 || s.Herbivores != 1 || s.Carnivores != 1 || s.Pregnant != 1 {
		t.Errorf("population counts: %+v", s)
	}
	if s.Plants != 7 || s.Corpses != 2 {
		t.Errorf("plants %d corpses %d", s.Plants, s.Corpses)
	}
	if s.HerbBirths != 1 || s.CarnBirths != 2 || s.HerbDeaths != 1 || s.CarnDeaths != 0 {
		t.Errorf("event counts: %+v", s)
	}
	if s.CorpsesCreated != 1 || s.CorpsesRemoved != 1 {
		t.Errorf("corpse counts: created %d removed %d", s.CorpsesCreated, s.CorpsesRemoved)
	}
	if s.EnergyMean != 50 || s.AgeMean != 20 || s.HealthMean != 75 {
		t.Errorf("means: energy %v age %v health %v", s.EnergyMean, s.AgeMean, s.HealthMean)
	}
	if s.EnvCostMean != 2 {
		t.Errorf("env cost mean = %v, want 2", s.EnvCostMean)
	}

	// Counters reset for the next window.
	next := c.Flush(8, Population{})
	if next.WindowStartTick != 4 || next.HerbBirths != 0 || next.CorpsesCreated != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollectorRestart(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	c.Flush(50, Population{})
	c.RecordBirth(components.Herbivore)

	c.Restart(0)
	if c.ShouldFlush(5) {
		t.Error("restarted window flushed early")
	}
	if s := c.Flush(10, Population{}); s.HerbBirths != 0 || s.WindowStartTick != 0 {
		t.Errorf("restart kept stale state: births %d start %d", s.HerbBirths, s.WindowStartTick)
	}
}
