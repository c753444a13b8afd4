package rng

import "testing"

func TestUint32Sequence(t *testing.T) {
	r := New(1)
	// 1*1664525 + 1013904223
	if got, want := r.Uint32(), uint32(1015568748); got != want {
		t.Fatalf("first draw: got %d, want %d", got, want)
	}
	// Wraps modulo 2^32.
	want := uint32(1015568748)*1664525 + 1013904223
	if got := r.Uint32(); got != want {
		t.Errorf("second draw: got %d, want %d", got, want)
	}
}

func TestZeroSeedRemapped(t *testing.T) {
	a := New(0)
	b := New(0xDEADBEEF)
	if a.State() != 0xDEADBEEF {
		t.Fatalf("zero seed state = %#x, want 0xDEADBEEF", a.State())
	}
	for i := 0; i < 10; i++ {
		if a.Uint32() != b.Uint32() {
			t.Fatalf("draw %d differs between seed 0 and its remap", i)
		}
	}
}

func TestSameSeedSameStream(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 1000; i++ {
		if x, y := a.Float32(), b.Float32(); x != y {
			t.Fatalf("draw %d: %v != %v", i, x, y)
		}
	}
}

func TestUniformRange(t *testing.T) {
	r := New(7)
	for i := 0; i < 10000; i++ {
		v := r.Uniform(-1, 1)
		if v < -1 || v > 1 {
			t.Fatalf("uniform draw out of range: %v", v)
		}
	}
}

func TestFloat32Range(t *testing.T) {
	r := New(123)
	for i := 0; i < 10000; i++ {
		v := r.Float32()
		if v < 0 || v > 1 {
			t.Fatalf("float draw out of range: %v", v)
		}
	}
}

func TestFloat32TopOfRangeIsOne(t *testing.T) {
	// The next state is 0xFFFFFFFF, which rounds to 2^32 as a float32.
	r := &LCG{state: 653637408}
	if got := r.Float32(); got != 1 {
		t.Errorf("got %v, want exactly 1", got)
	}

	r = &LCG{state: 653637408}
	if got := r.Uniform(-2, 3); got != 3 {
		t.Errorf("uniform at top of range: got %v, want 3", got)
	}
}

func TestUniformRoundsEachStep(t *testing.T) {
	// float64 holds any float32 sum or product exactly before the final
	// rounding, so this yields the product rounded on its own, then the sum.
	stepwise := func(min, max, f float32) float32 {
		prod := float32(float64(max-min) * float64(f))
		return float32(float64(min) + float64(prod))
	}

	a, b := New(99), New(99)
	for i := 0; i < 10000; i++ {
		min, max := float32(-0.7), float32(1.3)
		got := a.Uniform(min, max)
		want := stepwise(min, max, b.Float32())
		if got != want {
			t.Fatalf("draw %d: got %v, want %v", i, got, want)
		}
	}
}
