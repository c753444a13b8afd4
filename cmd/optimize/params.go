package main

import (
	"github.com/jxoesneon/EvoSim/config"
)

// ParamSpec defines a single optimizable coefficient.
type ParamSpec struct {
	Name    string  // yaml key under sim
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting point

	get func(*config.Sim) float64
	set func(*config.Sim, float64)
}

func f32Param(name string, min, max, def float64, field func(*config.Sim) *float32) ParamSpec {
	return ParamSpec{
		Name: name, Min: min, Max: max, Default: def,
		get: func(s *config.Sim) float64 { return float64(*field(s)) },
		set: func(s *config.Sim, v float64) { *field(s) = float32(v) },
	}
}

func u32Param(name string, min, max, def float64, field func(*config.Sim) *uint32) ParamSpec {
	return ParamSpec{
		Name: name, Min: min, Max: max, Default: def,
		get: func(s *config.Sim) float64 { return float64(*field(s)) },
		set: func(s *config.Sim, v float64) { *field(s) = uint32(v + 0.5) },
	}
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Conception is always searched with a positive threshold so populations
// can replace themselves.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Movement and upkeep
			f32Param("move_cost_coeff_per_speed_per_sec", 0.005, 0.05, 0.02,
				func(s *config.Sim) *float32 { return &s.MoveCostCoeffPerSpeedPerSec }),
			f32Param("posture_cost_per_sec", 0, 0.02, 0.005,
				func(s *config.Sim) *float32 { return &s.PostureCostPerSec }),
			f32Param("sprint_overflow_cost_per_sec", 0, 0.1, 0.03,
				func(s *config.Sim) *float32 { return &s.SprintOverflowCostPerSec }),
			f32Param("attack_cost_per_hit_energy", 0.01, 0.1, 0.04,
				func(s *config.Sim) *float32 { return &s.AttackCostPerHitEnergy }),
			// Health
			f32Param("ambient_health_decay_per_sec", 0.005, 0.05, 0.02,
				func(s *config.Sim) *float32 { return &s.AmbientHealthDecayPerSec }),
			f32Param("aging_health_decay_coeff", 0, 1.5, 0.5,
				func(s *config.Sim) *float32 { return &s.AgingHealthDecayCoeff }),
			f32Param("rest_health_regen_per_sec", 0.05, 0.5, 0.2,
				func(s *config.Sim) *float32 { return &s.RestHealthRegenPerSec }),
			// Reproduction
			f32Param("gestation_base_cost_per_sec", 0.005, 0.05, 0.02,
				func(s *config.Sim) *float32 { return &s.GestationBaseCostPerSec }),
			f32Param("gestation_cost_per_offspring_per_sec", 0.005, 0.05, 0.015,
				func(s *config.Sim) *float32 { return &s.GestationCostPerOffspringPerSec }),
			f32Param("gestation_period", 300, 2400, 1200,
				func(s *config.Sim) *float32 { return &s.GestationPeriod }),
			f32Param("birth_event_cost_energy", 1, 10, 4,
				func(s *config.Sim) *float32 { return &s.BirthEventCostEnergy }),
			f32Param("mutation_cost_energy_base", 0, 2, 0.5,
				func(s *config.Sim) *float32 { return &s.MutationCostEnergyBase }),
			f32Param("conception_energy_threshold", 40, 95, 70,
				func(s *config.Sim) *float32 { return &s.ConceptionEnergyThreshold }),
			u32Param("maturity_ticks", 120, 1800, 600,
				func(s *config.Sim) *uint32 { return &s.MaturityTicks }),
			u32Param("max_litter", 1, 4, 2,
				func(s *config.Sim) *uint32 { return &s.MaxLitter }),
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Apply writes clamped parameter values into sim.
func (pv *ParamVector) Apply(sim *config.Sim, values []float64) {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		spec.set(sim, clamped[i])
	}
}

// Extract reads the current parameter values from sim.
func (pv *ParamVector) Extract(sim *config.Sim) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(sim)
	}
	return v
}
