package components

// InitialDecayTime is the decay timer a fresh corpse starts with.
const InitialDecayTime = 100

// Body holds the collision radius of an entity.
type Body struct {
	Radius float32
}

// Remains holds the state of a corpse entity.
type Remains struct {
	EnergyRemaining float32 // informational, max(energy at death, 0)
	InitialDecay    float32
	DecayTimer      float32
	Seq             uint64 // creation order, for stable read-back
}

// DecayCost is the per-second decay rate breakdown of one corpse tick.
type DecayCost struct {
	Total float32 `json:"total" csv:"total"`
	Base  float32 `json:"base" csv:"base"`
	Temp  float32 `json:"temp" csv:"temp"`
	Humid float32 `json:"humid" csv:"humid"`
	Rain  float32 `json:"rain" csv:"rain"`
	Wet   float32 `json:"wet" csv:"wet"`
}

// Corpse is the read-back form of a corpse entity.
type Corpse struct {
	X               float32 `json:"x"`
	Y               float32 `json:"y"`
	Radius          float32 `json:"radius"`
	EnergyRemaining float32 `json:"energy_remaining"`
	InitialDecay    float32 `json:"initial_decay_time"`
	DecayTimer      float32 `json:"decay_timer"`
}
