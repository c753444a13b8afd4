package components

import "github.com/jxoesneon/EvoSim/neural"

// Vital ranges.
const (
	MaxHealth     = 100
	MaxEnergy     = 100
	MinEnergy     = -50
	MaxThirst     = 100
	NewbornEnergy = 80
)

// Creature is one mobile agent. The World owns every Creature exclusively.
type Creature struct {
	ID         string  `json:"id"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	VX         float32 `json:"vx"`
	VY         float32 `json:"vy"`
	Radius     float32 `json:"radius"`
	Health     float32 `json:"health"`
	Energy     float32 `json:"energy"`
	Stamina    float32 `json:"stamina"`
	MaxStamina float32 `json:"max_stamina"`
	Thirst     float32 `json:"thirst"`   // 0..100, lower = thirstier
	Age        uint32  `json:"lifespan"` // ticks lived
	Diet       Diet    `json:"diet"`

	Brain *neural.Brain `json:"brain"`

	Pregnant       bool    `json:"is_pregnant"`
	GestationTimer float32 `json:"gestation_timer"`
	OffspringCount uint32  `json:"offspring_count"`

	Actions       ActionMask  `json:"actions_mask"`
	Feelings      FeelingMask `json:"feelings_mask"`
	StagnantTicks uint32      `json:"stagnant_ticks"`

	// Last-tick telemetry, read back separately.
	LastEnv        EnvCost `json:"-"`
	LastLocomotion float32 `json:"-"`
}

// Dead reports whether the creature must become a corpse.
func (c *Creature) Dead() bool {
	return c.Health <= 0 || c.Energy <= 0
}

// Speed returns the velocity magnitude.
func (c *Creature) Speed() float32 {
	return sqrt32(float32(c.VX*c.VX) + float32(c.VY*c.VY))
}

// Clone returns a deep copy, brain included.
func (c *Creature) Clone() Creature {
	out := *c
	if c.Brain != nil {
		out.Brain = c.Brain.Clone()
	}
	return out
}

// EnvCost is the per-second environmental cost breakdown of one update.
type EnvCost struct {
	Total   float32
	Swim    float32
	Wind    float32
	Cold    float32
	Heat    float32
	Humid   float32
	Oxy     float32
	Noise   float32
	Disease float32
}

// EnvCostRecord is the read-back form of a creature's last-tick costs.
type EnvCostRecord struct {
	ID         string  `json:"id" csv:"id"`
	EnvTotal   float32 `json:"envTotal" csv:"env_total"`
	EnvSwim    float32 `json:"envSwim" csv:"env_swim"`
	EnvWind    float32 `json:"envWind" csv:"env_wind"`
	EnvCold    float32 `json:"envCold" csv:"env_cold"`
	EnvHeat    float32 `json:"envHeat" csv:"env_heat"`
	EnvHumid   float32 `json:"envHumid" csv:"env_humid"`
	EnvOxy     float32 `json:"envOxy" csv:"env_oxy"`
	EnvNoise   float32 `json:"envNoise" csv:"env_noise"`
	EnvDisease float32 `json:"envDisease" csv:"env_disease"`
	Locomotion float32 `json:"locomotion" csv:"locomotion"`
}

// EnvRecord builds the read-back telemetry record.
func (c *Creature) EnvRecord() EnvCostRecord {
	e := c.LastEnv
	return EnvCostRecord{
		ID:         c.ID,
		EnvTotal:   e.Total,
		EnvSwim:    e.Swim,
		EnvWind:    e.Wind,
		EnvCold:    e.Cold,
		EnvHeat:    e.Heat,
		EnvHumid:   e.Humid,
		EnvOxy:     e.Oxy,
		EnvNoise:   e.Noise,
		EnvDisease: e.Disease,
		Locomotion: c.LastLocomotion,
	}
}
