// Package analysis computes offline measurements of rendered buffers:
// peak, RMS, duration, and the dominant frequency via an FFT probe.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/ktye/fft"

	"github.com/dygy/songforge/internal/synth"
)

// maxWindow bounds the FFT probe; longer buffers are analyzed over their
// leading window only.
const maxWindow = 32768

// Result contains buffer analysis results
type Result struct {
	Peak       float64 `json:"peak"`
	RMS        float64 `json:"rms"`
	Duration   float64 `json:"duration_seconds"`
	DominantHz float64 `json:"dominant_hz"`
}

// Analyze measures a sample buffer. An empty buffer yields a zero result.
func Analyze(samples []float64) Result {
	if len(samples) == 0 {
		return Result{}
	}

	sumSquares := 0.0
	for _, v := range samples {
		sumSquares += v * v
	}

	return Result{
		Peak:       synth.Peak(samples),
		RMS:        math.Sqrt(sumSquares / float64(len(samples))),
		Duration:   float64(len(samples)) / synth.SampleRate,
		DominantHz: dominantFrequency(samples),
	}
}

// dominantFrequency returns the frequency of the strongest spectral bin
// over a power-of-two window, or 0 when the buffer is too short to probe.
func dominantFrequency(samples []float64) float64 {
	window := 1
	for window*2 <= len(samples) && window*2 <= maxWindow {
		window *= 2
	}
	if window < 4 {
		return 0
	}

	transform, err := fft.New(window)
	if err != nil {
		return 0
	}
	buf := make([]complex128, window)
	for i := 0; i < window; i++ {
		buf[i] = complex(samples[i], 0)
	}
	buf = transform.Transform(buf)

	bestBin := 0
	bestMag := 0.0
	for bin := 1; bin <= window/2; bin++ {
		if mag := cmplx.Abs(buf[bin]); mag > bestMag {
			bestMag = mag
			bestBin = bin
		}
	}
	if bestBin == 0 {
		return 0
	}
	return float64(bestBin) * synth.SampleRate / float64(window)
}
