package systems

// Procedural environment samplers. All are pure functions of position and
// tick, continuous in both, and bounded as documented. Every product that
// feeds an addition is converted explicitly so it is rounded on its own.

// TerrainSpeed returns the movement multiplier in [0.6, 1.0].
func TerrainSpeed(x, y float32, tick uint64) float32 {
	tt := float32(tick%10000) * 0.001
	v := float32(sin32(float32(x*0.003)+tt)*cos32(float32(y*0.002)-tt)*0.5) + 0.5
	return 0.6 + float32(v*0.4)
}

// Temperature returns degrees Celsius in [10, 30].
func Temperature(x, y float32, tick uint64) float32 {
	tt := float32(tick) * 0.01
	return 20 + float32((sin32(float32(x*0.001)+tt)+cos32(float32(y*0.001)-float32(tt*0.7)))*5)
}

// Humidity returns relative humidity in [0, 0.9].
func Humidity(x, y float32, tick uint64) float32 {
	tt := float32(tick) * 0.008
	return clamp01((float32(sin32(float32(x*0.0007)+float32(y*0.0005)+tt)*0.5) + 0.5) * 0.9)
}

// Rain returns rain intensity in [0, 1]. Rain falls in periodic bands.
func Rain(x, y float32, tick uint64) float32 {
	tt := float32(tick) * 0.02
	band := float32(sin32(tt)*0.5) + 0.5
	return clamp01(band * (float32(sin32(float32(y*0.002)+float32(tt*0.3))*0.5) + 0.5))
}

// wetnessLag is how many ticks ground wetness trails rain.
const wetnessLag = 50

// Wetness returns ground wetness in [0, 1], blending lagged rain with humidity.
func Wetness(x, y float32, tick uint64) float32 {
	lagged := uint64(0)
	if tick > wetnessLag {
		lagged = tick - wetnessLag
	}
	return clamp01(float32(Rain(x, y, lagged)*0.7) + float32(Humidity(x, y, tick)*0.3))
}

// Wind returns wind speed in [0, 1].
func Wind(x, y float32, tick uint64) float32 {
	tt := float32(tick) * 0.015
	return clamp01(float32(sin32(float32(x*0.0009)+tt)*cos32(float32(y*0.0006)-tt)*0.5) + 0.5)
}

// Elevation returns normalized elevation in [0, 0.9]. It does not vary with time.
func Elevation(x, y float32) float32 {
	nx := float32(sin32(x*0.001)*0.5) + 0.5
	ny := float32(cos32(y*0.001)*0.5) + 0.5
	return clamp01((float32(nx*0.6) + float32(ny*0.4)) * 0.9)
}

// Noise returns ambient noise in [0, 1].
func Noise(x, y float32, tick uint64) float32 {
	tt := float32(tick) * 0.05
	return clamp01(float32(sin32(float32(x*0.004)+tt)*sin32(float32(y*0.003)-tt)*0.5) + 0.5)
}

// Env is every environmental sample at one point and tick.
type Env struct {
	Temp  float32 // °C
	Humid float32
	Rain  float32
	Wet   float32
	Wind  float32
	Elev  float32
	Noise float32
}

// SampleEnv evaluates all samplers at (x, y, tick).
func SampleEnv(x, y float32, tick uint64) Env {
	return Env{
		Temp:  Temperature(x, y, tick),
		Humid: Humidity(x, y, tick),
		Rain:  Rain(x, y, tick),
		Wet:   Wetness(x, y, tick),
		Wind:  Wind(x, y, tick),
		Elev:  Elevation(x, y),
		Noise: Noise(x, y, tick),
	}
}
