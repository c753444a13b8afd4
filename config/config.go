// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Sim       Sim             `yaml:"sim"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds world construction parameters.
type WorldConfig struct {
	Width            float32 `yaml:"width"`
	Height           float32 `yaml:"height"`
	Seed             uint32  `yaml:"seed"`
	InitialCreatures int     `yaml:"initial_creatures"`
	InitialPlants    int     `yaml:"initial_plants"`
	BrainMode        string  `yaml:"brain_mode"` // compact | extended
}

// Sim is the flat set of cost and threshold coefficients consulted every tick.
// Rates are per simulated second; the tick applies them scaled by dt*60.
type Sim struct {
	RestStaminaRegenPerSec           float32 `yaml:"rest_stamina_regen_per_sec" json:"restStaminaRegenPerSec"`
	RestHealthRegenPerSec            float32 `yaml:"rest_health_regen_per_sec" json:"restHealthRegenPerSec"`
	HarvestPlantActionCostPerSecond  float32 `yaml:"harvest_plant_action_cost_per_second" json:"harvestPlantActionCostPerSecond"`
	AttackCostPerHitStamina          float32 `yaml:"attack_cost_per_hit_stamina" json:"attackCostPerHitStamina"`
	SprintOverflowCostPerSec         float32 `yaml:"sprint_overflow_cost_per_sec" json:"sprintOverflowCostPerSec"`
	PostureCostPerSec                float32 `yaml:"posture_cost_per_sec" json:"postureCostPerSec"`
	AttackCostPerHitEnergy           float32 `yaml:"attack_cost_per_hit_energy" json:"attackCostPerHitEnergy"`
	ThirstThreshold                  float32 `yaml:"thirst_threshold" json:"thirstThreshold"`
	ThirstRecoveryPerSec             float32 `yaml:"thirst_recovery_per_sec" json:"thirstRecoveryPerSec"`
	DrinkCostPerSecond               float32 `yaml:"drink_cost_per_second" json:"drinkCostPerSecond"`
	MoveCostCoeffPerSpeedPerSec      float32 `yaml:"move_cost_coeff_per_speed_per_sec" json:"moveCostCoeffPerSpeedPerSec"`
	AmbientHealthDecayPerSec         float32 `yaml:"ambient_health_decay_per_sec" json:"ambientHealthDecayPerSec"`
	AgingHealthDecayCoeff            float32 `yaml:"aging_health_decay_coeff" json:"agingHealthDecayCoeff"`
	GestationBaseCostPerSec          float32 `yaml:"gestation_base_cost_per_sec" json:"gestationBaseCostPerSec"`
	GestationCostPerOffspringPerSec  float32 `yaml:"gestation_cost_per_offspring_per_sec" json:"gestationCostPerOffspringPerSec"`
	GestationPeriod                  float32 `yaml:"gestation_period" json:"gestationPeriod"` // frame units: the timer advances by dt*60
	BirthEventCostEnergy             float32 `yaml:"birth_event_cost_energy" json:"birthEventCostEnergy"`
	MutationCostEnergyBase           float32 `yaml:"mutation_cost_energy_base" json:"mutationCostEnergyBase"`
	MutationCostPerStdChange         float32 `yaml:"mutation_cost_per_std_change" json:"mutationCostPerStdChange"`
	HungerEnergyThreshold            float32 `yaml:"hunger_energy_threshold" json:"hungerEnergyThreshold"`
	FatigueStaminaThreshold          float32 `yaml:"fatigue_stamina_threshold" json:"fatigueStaminaThreshold"`
	MovementThreshold                float32 `yaml:"movement_threshold" json:"movementThreshold"`
	StagnantTicksLimit               uint32  `yaml:"stagnant_ticks_limit" json:"stagnantTicksLimit"`
	SwimEnergyCostPerSec             float32 `yaml:"swim_energy_cost_per_sec" json:"swimEnergyCostPerSec"`
	WindDragCoeff                    float32 `yaml:"wind_drag_coeff" json:"windDragCoeff"`
	TempColdPenaltyPerSec            float32 `yaml:"temp_cold_penalty_per_sec" json:"tempColdPenaltyPerSec"`
	TempHeatPenaltyPerSec            float32 `yaml:"temp_heat_penalty_per_sec" json:"tempHeatPenaltyPerSec"`
	ComfortLowC                      float32 `yaml:"comfort_low_c" json:"comfortLowC"`
	ComfortHighC                     float32 `yaml:"comfort_high_c" json:"comfortHighC"`
	HumidityDehydrationCoeffPerSec   float32 `yaml:"humidity_dehydration_coeff_per_sec" json:"humidityDehydrationCoeffPerSec"`
	HumidityThreshold                float32 `yaml:"humidity_threshold" json:"humidityThreshold"`
	OxygenThinAirPenaltyPerSec       float32 `yaml:"oxygen_thin_air_penalty_per_sec" json:"oxygenThinAirPenaltyPerSec"`
	ThinAirElevationCutoff01         float32 `yaml:"thin_air_elevation_cutoff01" json:"thinAirElevationCutoff01"`
	NoiseStressPenaltyPerSec         float32 `yaml:"noise_stress_penalty_per_sec" json:"noiseStressPenaltyPerSec"`
	DiseaseEnergyDrainPerSec         float32 `yaml:"disease_energy_drain_per_sec" json:"diseaseEnergyDrainPerSec"`
	CorpseBaseDecayPerSec            float32 `yaml:"corpse_base_decay_per_sec" json:"corpseBaseDecayPerSec"`
	CorpseTempDecayCoeff             float32 `yaml:"corpse_temp_decay_coeff" json:"corpseTempDecayCoeff"`
	CorpseHumidityDecayCoeff         float32 `yaml:"corpse_humidity_decay_coeff" json:"corpseHumidityDecayCoeff"`
	CorpseRainDecayCoeff             float32 `yaml:"corpse_rain_decay_coeff" json:"corpseRainDecayCoeff"`
	CorpseWetnessDecayCoeff          float32 `yaml:"corpse_wetness_decay_coeff" json:"corpseWetnessDecayCoeff"`

	// Conception is disabled while ConceptionEnergyThreshold is 0.
	ConceptionEnergyThreshold float32 `yaml:"conception_energy_threshold" json:"conceptionEnergyThreshold,omitempty"`
	MaturityTicks             uint32  `yaml:"maturity_ticks" json:"maturityTicks,omitempty"`
	MaxLitter                 uint32  `yaml:"max_litter" json:"maxLitter,omitempty"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // sim seconds per stats window
	DT          float64 `yaml:"dt"`           // seconds per tick for headless runs
}

// ServerConfig holds host server parameters.
type ServerConfig struct {
	Addr           string  `yaml:"addr"`
	TickRate       float64 `yaml:"tick_rate"`       // ticks per wall-clock second (0 = paused)
	BroadcastEvery int     `yaml:"broadcast_every"` // ticks between websocket frames
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32        float32 // Telemetry.DT as float32
	TicksPerSec float64 // 1 / Telemetry.DT
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// DefaultSim returns the default coefficient set.
func DefaultSim() Sim {
	return Defaults().Sim
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world size must be positive, got %vx%v", ErrMalformed, c.World.Width, c.World.Height)
	}
	if c.World.InitialCreatures < 0 || c.World.InitialPlants < 0 {
		return fmt.Errorf("%w: initial counts must not be negative", ErrMalformed)
	}
	switch strings.ToLower(c.World.BrainMode) {
	case "", "compact", "og", "extended", "zegion":
	default:
		return fmt.Errorf("%w: unknown brain_mode %q", ErrMalformed, c.World.BrainMode)
	}
	if c.Telemetry.DT <= 0 {
		return fmt.Errorf("%w: telemetry.dt must be positive", ErrMalformed)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Telemetry.DT)
	c.Derived.TicksPerSec = 1 / c.Telemetry.DT
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
