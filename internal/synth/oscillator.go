// Package synth renders note schedules into raw sample buffers.
//
// All audio is mono float64 at SampleRate. The oscillators are exact
// closed-form shapes, not band-limited; aliasing at high frequencies is
// accepted for this use case.
package synth

import (
	"math"

	"github.com/dygy/songforge/internal/song"
)

// SampleRate is the fixed engine sample rate in Hz.
const SampleRate = 44100

// SampleCount returns the buffer length for a tone of the given duration:
// zero for non-positive durations, otherwise at least one sample.
func SampleCount(duration float64) int {
	if duration <= 0 {
		return 0
	}
	n := int(math.Round(SampleRate * duration))
	if n < 1 {
		n = 1
	}
	return n
}

// Oscillator generates a single tone. Values are in [-1, 1]. An unknown
// waveform falls back to sine; noise is handled by the layer renderer,
// not here.
func Oscillator(wave song.Waveform, freq, duration float64) []float64 {
	n := SampleCount(duration)
	if n == 0 {
		return nil
	}

	var shape func(cycles float64) float64
	switch wave {
	case song.WaveSquare:
		shape = func(c float64) float64 {
			s := math.Sin(2 * math.Pi * c)
			switch {
			case s > 0:
				return 1
			case s < 0:
				return -1
			}
			return 0
		}
	case song.WaveSaw:
		shape = func(c float64) float64 {
			return 2 * (c - math.Floor(0.5+c))
		}
	case song.WaveTriangle:
		shape = func(c float64) float64 {
			return 2*math.Abs(2*(c-math.Floor(c+0.5))) - 1
		}
	default: // sine, and anything unrecognized
		shape = func(c float64) float64 {
			return math.Sin(2 * math.Pi * c)
		}
	}

	out := make([]float64, n)
	step := duration / float64(n)
	for i := range out {
		out[i] = shape(freq * float64(i) * step)
	}
	return out
}

// ApplyEnvelope shapes samples in place with a piecewise-linear
// attack/sustain/release gain curve and returns the same slice. Attack and
// release are floored at one sample period. The release window is anchored
// to the buffer end and wins when the two regions overlap.
func ApplyEnvelope(samples []float64, attack, release float64) []float64 {
	n := len(samples)
	if n == 0 {
		return samples
	}
	if attack < 1.0/SampleRate {
		attack = 1.0 / SampleRate
	}
	if release < 1.0/SampleRate {
		release = 1.0 / SampleRate
	}
	attackN := int(SampleRate * attack)
	if attackN > n {
		attackN = n
	}
	releaseN := int(SampleRate * release)
	if releaseN > n {
		releaseN = n
	}

	releaseStart := n - releaseN
	for i := range samples {
		gain := 1.0
		if i < attackN {
			gain = float64(i) / float64(attackN)
		}
		if i >= releaseStart && releaseN > 1 {
			gain = 1.0 - float64(i-releaseStart)/float64(releaseN-1)
		}
		samples[i] *= gain
	}
	return samples
}
