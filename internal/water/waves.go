package water

import (
	"OceanMirror/internal/renderer"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const gravity = 9.81

// AngularSpeed is the configured speed, or the deep water dispersion
// relation omega = sqrt(g*k) when none is set.
func (w WaveConfig) AngularSpeed() float32 {
	if w.Speed != 0 {
		return w.Speed
	}
	return float32(math.Sqrt(gravity * float64(w.Frequency)))
}

// Displace applies the Gerstner sum to a point of the flat plane at time t.
// It is the CPU twin of the gerstner height-field chunk.
func Displace(waves []WaveConfig, position mgl32.Vec3, t float32) mgl32.Vec3 {
	var displacement mgl32.Vec3
	for _, w := range waves {
		theta := (position.X()*w.Direction[0]+position.Z()*w.Direction[1])*w.Frequency - w.AngularSpeed()*t
		c := float32(math.Cos(float64(theta)))
		s := float32(math.Sin(float64(theta)))
		displacement[0] += w.Steepness * w.Direction[0] * w.Amplitude * c
		displacement[2] += w.Steepness * w.Direction[1] * w.Amplitude * c
		displacement[1] += w.Amplitude * s
	}
	return position.Add(displacement)
}

// waveUniforms packs the wave set into the arrays the height-field chunk
// reads. Arrays are always MaxWaves long; waveCount limits the loop.
func waveUniforms(waves []WaveConfig) map[string]interface{} {
	directions := make(renderer.Vec3Array, MaxWaves*3)
	amplitudes := make([]float32, MaxWaves)
	frequencies := make([]float32, MaxWaves)
	speeds := make([]float32, MaxWaves)
	steepness := make([]float32, MaxWaves)

	count := len(waves)
	if count > MaxWaves {
		count = MaxWaves
	}
	for i := 0; i < count; i++ {
		directions[i*3] = waves[i].Direction[0]
		directions[i*3+2] = waves[i].Direction[1]
		amplitudes[i] = waves[i].Amplitude
		frequencies[i] = waves[i].Frequency
		speeds[i] = waves[i].AngularSpeed()
		steepness[i] = waves[i].Steepness
	}

	return map[string]interface{}{
		"waveCount":       int32(count),
		"waveDirections":  directions,
		"waveAmplitudes":  amplitudes,
		"waveFrequencies": frequencies,
		"waveSpeeds":      speeds,
		"waveSteepness":   steepness,
	}
}

func cosDeg(degrees float64) float64 {
	return math.Cos(degrees * math.Pi / 180.0)
}

func sinDeg(degrees float64) float64 {
	return math.Sin(degrees * math.Pi / 180.0)
}
