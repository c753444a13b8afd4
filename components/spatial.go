package components

import "math"

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
