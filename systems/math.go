package systems

import "math"

// Clamp functions for common value ranges

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	return clampFloat(v, 0, 1)
}

// floorAt returns v, or floor if v is below it.
func floorAt(v, floor float32) float32 {
	if v < floor {
		return floor
	}
	return v
}

// Single-precision wrappers. Each evaluates in float64 and rounds once.

func sin32(x float32) float32  { return float32(math.Sin(float64(x))) }
func cos32(x float32) float32  { return float32(math.Cos(float64(x))) }
func tanh32(x float32) float32 { return float32(math.Tanh(float64(x))) }
func sqrt32(x float32) float32 { return float32(math.Sqrt(float64(x))) }

// wrapCoord moves a coordinate that left [0, max] to the opposite edge:
// past max it restarts at 0, below 0 it restarts at max.
func wrapCoord(v, max float32) float32 {
	if v > max {
		return 0
	}
	if v < 0 {
		return max
	}
	return v
}

// Distance functions

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x2 - x1
	dy := y2 - y1
	return float32(dx*dx) + float32(dy*dy)
}
