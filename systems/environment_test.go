package systems

import "testing"

func TestSamplersBounded(t *testing.T) {
	for tick := uint64(0); tick < 20000; tick += 997 {
		for x := float32(-500); x <= 3000; x += 137 {
			for y := float32(-500); y <= 3000; y += 211 {
				if v := TerrainSpeed(x, y, tick); v < 0.6 || v > 1 {
					t.Fatalf("terrain(%v,%v,%d) = %v outside [0.6,1]", x, y, tick, v)
				}
				if v := Temperature(x, y, tick); v < 10 || v > 30 {
					t.Fatalf("temperature(%v,%v,%d) = %v outside [10,30]", x, y, tick, v)
				}
				env := SampleEnv(x, y, tick)
				for name, v := range map[string]float32{
					"humidity": env.Humid, "rain": env.Rain, "wetness": env.Wet,
					"wind": env.Wind, "elevation": env.Elev, "noise": env.Noise,
				} {
					if v < 0 || v > 1 {
						t.Fatalf("%s(%v,%v,%d) = %v outside [0,1]", name, x, y, tick, v)
					}
				}
			}
		}
	}
}

func TestSamplersDeterministic(t *testing.T) {
	a := SampleEnv(123.5, 77.25, 4242)
	b := SampleEnv(123.5, 77.25, 4242)
	if a != b {
		t.Errorf("same inputs gave %+v and %+v", a, b)
	}
}

func TestElevationIgnoresTime(t *testing.T) {
	if SampleEnv(10, 20, 0).Elev != SampleEnv(10, 20, 99999).Elev {
		t.Error("elevation changed with tick")
	}
}

func TestWetnessLagSaturates(t *testing.T) {
	// Before the lag elapses, wetness uses rain at tick 0.
	for _, tick := range []uint64{0, 10, 50} {
		want := clamp01(Rain(5, 5, 0)*0.7 + Humidity(5, 5, tick)*0.3)
		if got := Wetness(5, 5, tick); got != want {
			t.Errorf("tick %d: got %v, want %v", tick, got, want)
		}
	}
	want := clamp01(Rain(5, 5, 50)*0.7 + Humidity(5, 5, 100)*0.3)
	if got := Wetness(5, 5, 100); got != want {
		t.Errorf("tick 100: got %v, want %v", got, want)
	}
}

func TestTerrainSpeedPeriodic(t *testing.T) {
	if TerrainSpeed(40, 60, 3) != TerrainSpeed(40, 60, 10003) {
		t.Error("terrain phase should repeat every 10000 ticks")
	}
}
