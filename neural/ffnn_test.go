package neural

import (
	"math"
	"testing"

	"github.com/jxoesneon/EvoSim/rng"
)

// countingSource records how many draws were made.
type countingSource struct {
	src   Source
	draws int
}

func (c *countingSource) Uniform(min, max float32) float32 {
	c.draws++
	return c.src.Uniform(min, max)
}

// constSource always returns the same value, so every brain it builds is identical.
type constSource float32

func (c constSource) Uniform(min, max float32) float32 {
	return min + (max-min)*float32(c)
}

func weightCount(sizes []uint32) int {
	n := 0
	for l := 1; l < len(sizes); l++ {
		n += int(sizes[l-1] * sizes[l])
	}
	return n
}

func TestNewBrainShapes(t *testing.T) {
	for _, mode := range []Mode{Compact, Extended} {
		sizes := mode.LayerSizes()
		src := &countingSource{src: rng.New(42)}
		b := NewBrain(sizes, src)

		if len(b.Weights) != len(sizes)-1 || len(b.Biases) != len(sizes)-1 {
			t.Fatalf("%v: got %d weight and %d bias layers, want %d", mode, len(b.Weights), len(b.Biases), len(sizes)-1)
		}
		for l := 1; l < len(sizes); l++ {
			nIn, nOut := int(sizes[l-1]), int(sizes[l])
			if len(b.Weights[l-1]) != nIn*nOut {
				t.Errorf("%v layer %d: got %d weights, want %d", mode, l, len(b.Weights[l-1]), nIn*nOut)
			}
			if len(b.Biases[l-1]) != nOut {
				t.Errorf("%v layer %d: got %d biases, want %d", mode, l, len(b.Biases[l-1]), nOut)
			}
			scale := math.Sqrt(2 / float64(nIn))
			for _, w := range b.Weights[l-1] {
				if math.Abs(float64(w)) > scale+1e-6 {
					t.Errorf("%v layer %d: weight %v outside ±%v", mode, l, w, scale)
				}
			}
			for _, v := range b.Biases[l-1] {
				if v != 0 {
					t.Errorf("%v layer %d: bias %v, want 0", mode, l, v)
				}
			}
		}
		if src.draws != weightCount(sizes) {
			t.Errorf("%v: got %d draws, want %d", mode, src.draws, weightCount(sizes))
		}
	}
}

func TestForwardKnownValues(t *testing.T) {
	b := &Brain{
		LayerSizes: []uint32{2, 2, 1},
		Weights: [][]float32{
			{1, 0, 0, 1}, // hidden[0] = in[0], hidden[1] = in[1]
			{1, 1},
		},
		Biases: [][]float32{{0, 0}, {0.5}},
	}

	out := b.Forward([]float32{1, -1})

	// ReLU zeroes hidden[1], so the output is tanh(1 + 0 + 0.5).
	want := float32(math.Tanh(1.5))
	if len(out) != 1 || out[0] != want {
		t.Fatalf("got %v, want [%v]", out, want)
	}
	if len(b.Activations) != 3 {
		t.Fatalf("got %d activation layers, want 3", len(b.Activations))
	}
	if b.Activations[0][0] != 1 || b.Activations[0][1] != -1 {
		t.Errorf("input activations: got %v, want [1 -1]", b.Activations[0])
	}
	if b.Activations[1][0] != 1 || b.Activations[1][1] != 0 {
		t.Errorf("hidden activations: got %v, want [1 0]", b.Activations[1])
	}
}

func TestForwardOutputRange(t *testing.T) {
	b := NewBrain(Extended.LayerSizes(), rng.New(7))
	inputs := make([]float32, ExtendedInputs)
	for i := range inputs {
		inputs[i] = 5
	}
	for _, v := range b.Forward(inputs) {
		if v < -1 || v > 1 {
			t.Errorf("output %v outside [-1,1]", v)
		}
	}
}

func TestForwardDoesNotAliasInputs(t *testing.T) {
	b := NewBrain(Compact.LayerSizes(), rng.New(3))
	inputs := make([]float32, CompactInputs)
	b.Forward(inputs)
	inputs[0] = 99
	if b.Activations[0][0] != 0 {
		t.Errorf("recorded inputs changed with caller slice: %v", b.Activations[0][0])
	}
}

func TestForwardDeterministic(t *testing.T) {
	b := NewBrain(Compact.LayerSizes(), rng.New(11))
	inputs := make([]float32, CompactInputs)
	for i := range inputs {
		inputs[i] = float32(i) * 0.1
	}
	first := append([]float32(nil), b.Forward(inputs)...)
	second := b.Forward(inputs)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("output %d: %v then %v", i, first[i], second[i])
		}
	}
}

func TestForwardPanicsOnShapeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for wrong input length")
		}
	}()
	NewBrain(Compact.LayerSizes(), rng.New(1)).Forward(make([]float32, 3))
}

func TestClone(t *testing.T) {
	b := NewBrain(Compact.LayerSizes(), rng.New(5))
	b.Forward(make([]float32, CompactInputs))
	clone := b.Clone()

	if Hash(clone) != Hash(b) {
		t.Fatal("clone hash differs from original")
	}
	clone.Weights[0][0] += 1
	clone.Activations[0][0] = 42
	if b.Weights[0][0] == clone.Weights[0][0] {
		t.Error("modifying clone weights affected original")
	}
	if b.Activations[0][0] == 42 {
		t.Error("modifying clone activations affected original")
	}
}

func BenchmarkForwardCompact(b *testing.B) {
	brain := NewBrain(Compact.LayerSizes(), rng.New(42))
	inputs := make([]float32, CompactInputs)
	for i := range inputs {
		inputs[i] = 0.5
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		brain.Forward(inputs)
	}
}

func BenchmarkForwardExtended(b *testing.B) {
	brain := NewBrain(Extended.LayerSizes(), rng.New(42))
	inputs := make([]float32, ExtendedInputs)
	for i := range inputs {
		inputs[i] = 0.5
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		brain.Forward(inputs)
	}
}
