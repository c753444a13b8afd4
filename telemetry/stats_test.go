package telemetry

import (
	"math"
	"testing"
)

func TestDescribe(t *testing.T) {
	values := []float64{9, 2, 4, 4, 4, 5, 5, 7}
	d := Describe(values)

	if math.Abs(d.Mean-5) > 0.001 {
		t.Errorf("mean = %v, want 5", d.Mean)
	}
	// Sample standard deviation: sqrt(32/7)
	if math.Abs(d.Std-math.Sqrt(32.0/7.0)) > 0.001 {
		t.Errorf("std = %v, want %v", d.Std, math.Sqrt(32.0/7.0))
	}
	if d.P10 != 2 {
		t.Errorf("p10 = %v, want 2", d.P10)
	}
	if d.P50 != 4 {
		t.Errorf("p50 = %v, want 4", d.P50)
	}
	if d.P90 != 9 {
		t.Errorf("p90 = %v, want 9", d.P90)
	}

	// Input must not be reordered.
	if values[0] != 9 {
		t.Error("Describe sorted its input in place")
	}
}

func TestDescribePercentiles(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	d := Describe(values)
	if d.P10 != 1 || d.P50 != 5 || d.P90 != 9 {
		t.Errorf("percentiles = %v/%v/%v, want 1/5/9", d.P10, d.P50, d.P90)
	}
}

func TestDescribeEmpty(t *testing.T) {
	if d := Describe(nil); d != (Distribution{}) {
		t.Errorf("expected zeros for empty input, got %+v", d)
	}
}

func TestDescribeSingle(t *testing.T) {
	d := Describe([]float64{42})
	if d.Mean != 42 || d.Std != 0 || d.P50 != 42 {
		t.Errorf("single value: got %+v", d)
	}
}
