package neural

import "strings"

// Mode selects the brain topology shared by every creature in a world.
type Mode uint8

const (
	// Compact uses 14 inputs, one hidden layer of 8 and 8 outputs.
	Compact Mode = iota
	// Extended uses 24 inputs, a hidden layer of 16 and 6 outputs.
	Extended
)

// Input vector lengths per mode.
const (
	CompactInputs  = 14
	ExtendedInputs = 24
)

// ParseMode maps a host-supplied mode name to a Mode. "extended" and
// "zegion" (any case) select Extended; everything else is Compact.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extended", "zegion":
		return Extended
	default:
		return Compact
	}
}

func (m Mode) String() string {
	if m == Extended {
		return "extended"
	}
	return "compact"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	*m = ParseMode(string(text))
	return nil
}

// LayerSizes returns a fresh copy of the layer sizes for the mode.
func (m Mode) LayerSizes() []uint32 {
	if m == Extended {
		return []uint32{ExtendedInputs, 16, 6}
	}
	return []uint32{CompactInputs, 8, 8}
}

// InputSize returns the length of the feature vector for the mode.
func (m Mode) InputSize() int {
	if m == Extended {
		return ExtendedInputs
	}
	return CompactInputs
}

// IODescriptor describes one brain input or output for inspection tools.
type IODescriptor struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Min         float32 `json:"min"`
	Max         float32 `json:"max"`
	Group       string  `json:"group"`
}

var sharedInputs = []IODescriptor{
	{ID: "pos_x", Description: "x / width", Min: 0, Max: 1, Group: "self"},
	{ID: "pos_y", Description: "y / height", Min: 0, Max: 1, Group: "self"},
	{ID: "vel_x", Description: "tanh(vx)", Min: -1, Max: 1, Group: "self"},
	{ID: "vel_y", Description: "tanh(vy)", Min: -1, Max: 1, Group: "self"},
	{ID: "energy", Description: "energy / 100", Min: 0, Max: 1, Group: "self"},
	{ID: "health", Description: "health / 100", Min: 0, Max: 1, Group: "self"},
	{ID: "phase_sin", Description: "sin(tick * 0.01)", Min: -1, Max: 1, Group: "time"},
	{ID: "phase_cos", Description: "cos(tick * 0.01)", Min: -1, Max: 1, Group: "time"},
	{ID: "herb_dx", Description: "unit x toward nearest herbivore", Min: -1, Max: 1, Group: "target"},
	{ID: "herb_dy", Description: "unit y toward nearest herbivore", Min: -1, Max: 1, Group: "target"},
	{ID: "herb_dist", Description: "distance / max(width, height), 1 if none", Min: 0, Max: 1, Group: "target"},
}

var extendedInputs = []IODescriptor{
	{ID: "carn_dx", Description: "unit x toward nearest carnivore", Min: -1, Max: 1, Group: "threat"},
	{ID: "carn_dy", Description: "unit y toward nearest carnivore", Min: -1, Max: 1, Group: "threat"},
	{ID: "carn_dist", Description: "distance / max(width, height), 1 if none", Min: 0, Max: 1, Group: "threat"},
	{ID: "rough", Description: "terrain speed multiplier", Min: 0.6, Max: 1, Group: "terrain"},
	{ID: "rough_norm", Description: "(rough - 0.6) / 0.4", Min: 0, Max: 1, Group: "terrain"},
	{ID: "speed", Description: "tanh(|v|)", Min: 0, Max: 1, Group: "self"},
	{ID: "heading_herb", Description: "heading . herbivore direction", Min: -1, Max: 1, Group: "target"},
	{ID: "heading_carn", Description: "heading . carnivore direction", Min: -1, Max: 1, Group: "threat"},
	{ID: "wave_a", Description: "positional phase wave", Min: -1, Max: 1, Group: "time"},
	{ID: "wave_b", Description: "positional phase wave", Min: -1, Max: 1, Group: "time"},
	{ID: "carnivore", Description: "1 for carnivores", Min: 0, Max: 1, Group: "self"},
	{ID: "inv_energy", Description: "1 - energy / 100", Min: 0, Max: 1, Group: "self"},
}

var biasInput = IODescriptor{ID: "bias", Description: "constant 1", Min: 1, Max: 1, Group: "internal"}

// InputDescriptors returns metadata for the mode's inputs, in vector order.
// Trailing zero padding is not listed.
func (m Mode) InputDescriptors() []IODescriptor {
	out := append([]IODescriptor(nil), sharedInputs...)
	if m == Extended {
		out = append(out, extendedInputs...)
	}
	return append(out, biasInput)
}

// OutputDescriptors returns metadata for the decoded outputs.
func OutputDescriptors() []IODescriptor {
	return []IODescriptor{
		{ID: "steer_x", Description: "acceleration direction x", Min: -1, Max: 1, Group: "movement"},
		{ID: "steer_y", Description: "acceleration direction y", Min: -1, Max: 1, Group: "movement"},
		{ID: "accel", Description: "acceleration scale, used as |value|", Min: -1, Max: 1, Group: "movement"},
		{ID: "eat", Description: "eat gate (>0.5)", Min: -1, Max: 1, Group: "action"},
		{ID: "rest", Description: "rest gate (>0.5)", Min: -1, Max: 1, Group: "action"},
		{ID: "boost", Description: "sprint gate (>0.5)", Min: -1, Max: 1, Group: "action"},
	}
}
