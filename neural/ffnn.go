// Package neural provides the fixed-topology feedforward brains that steer creatures.
package neural

import (
	"fmt"
	"math"
)

// Source supplies uniform draws for weight initialization.
// *rng.LCG satisfies it.
type Source interface {
	Uniform(min, max float32) float32
}

// Brain is a dense feedforward network with one weight matrix per layer
// transition. Weights[l] is flattened row-major with the output index major:
// the weight from input i to output o lives at Weights[l][o*nIn+i].
type Brain struct {
	LayerSizes []uint32    `json:"layerSizes"`
	Weights    [][]float32 `json:"weights"`
	Biases     [][]float32 `json:"biases"`

	// Activations of the last forward pass, input vector first.
	// Inspection only; nothing reads it back into the simulation.
	Activations [][]float32 `json:"activations,omitempty"`
}

// NewBrain creates a network for the given layer sizes with He-scaled
// uniform weights and zero biases.
func NewBrain(layerSizes []uint32, src Source) *Brain {
	if len(layerSizes) < 2 {
		panic(fmt.Sprintf("neural: need at least two layers, got %v", layerSizes))
	}
	b := &Brain{
		LayerSizes: append([]uint32(nil), layerSizes...),
		Weights:    make([][]float32, 0, len(layerSizes)-1),
		Biases:     make([][]float32, 0, len(layerSizes)-1),
	}
	for l := 1; l < len(layerSizes); l++ {
		nIn := int(layerSizes[l-1])
		nOut := int(layerSizes[l])
		scale := float32(math.Sqrt(float64(2 / max(float32(nIn), 1))))

		w := make([]float32, nIn*nOut)
		for i := range w {
			w[i] = src.Uniform(-1, 1) * scale
		}
		b.Weights = append(b.Weights, w)
		b.Biases = append(b.Biases, make([]float32, nOut))
	}
	return b
}

// Inputs returns the size of the input layer.
func (b *Brain) Inputs() int { return int(b.LayerSizes[0]) }

// Outputs returns the size of the output layer.
func (b *Brain) Outputs() int { return int(b.LayerSizes[len(b.LayerSizes)-1]) }

// Forward runs the network and records every layer's activations.
// Hidden layers use ReLU, the output layer tanh. inputs must match the input
// layer size.
func (b *Brain) Forward(inputs []float32) []float32 {
	if len(inputs) != b.Inputs() {
		panic(fmt.Sprintf("neural: got %d inputs, brain expects %d", len(inputs), b.Inputs()))
	}
	last := len(b.LayerSizes) - 1
	acts := make([][]float32, 0, len(b.LayerSizes))

	cur := append([]float32(nil), inputs...)
	acts = append(acts, cur)
	for l := 1; l <= last; l++ {
		nIn := int(b.LayerSizes[l-1])
		nOut := int(b.LayerSizes[l])
		w := b.Weights[l-1]
		bias := b.Biases[l-1]

		next := make([]float32, nOut)
		for o := 0; o < nOut; o++ {
			sum := bias[o]
			row := w[o*nIn : (o+1)*nIn]
			for i, x := range cur {
				// Explicit conversion keeps the product rounded before the add.
				sum += float32(row[i] * x)
			}
			if l == last {
				next[o] = tanh(sum)
			} else if sum > 0 {
				next[o] = sum
			}
		}
		acts = append(acts, next)
		cur = next
	}

	b.Activations = acts
	return cur
}

// Clone creates a deep copy of the network, activations included.
func (b *Brain) Clone() *Brain {
	clone := &Brain{
		LayerSizes: append([]uint32(nil), b.LayerSizes...),
		Weights:    cloneRows(b.Weights),
		Biases:     cloneRows(b.Biases),
	}
	if b.Activations != nil {
		clone.Activations = cloneRows(b.Activations)
	}
	return clone
}

func cloneRows(rows [][]float32) [][]float32 {
	out := make([][]float32, len(rows))
	for i, r := range rows {
		out[i] = append([]float32(nil), r...)
	}
	return out
}

// tanh evaluates the hyperbolic tangent in float64 and rounds once.
func tanh(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}
