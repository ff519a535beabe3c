package analysis

import (
	"math"
	"testing"

	"github.com/dygy/songforge/internal/song"
	"github.com/dygy/songforge/internal/synth"
)

func TestAnalyzeEmpty(t *testing.T) {
	result := Analyze(nil)
	if result.Peak != 0 || result.RMS != 0 || result.DominantHz != 0 {
		t.Errorf("empty buffer should yield a zero result, got %+v", result)
	}
}

func TestAnalyzeSine(t *testing.T) {
	samples := synth.Oscillator(song.WaveSine, 440, 1.0)
	result := Analyze(samples)

	if math.Abs(result.Peak-1.0) > 1e-3 {
		t.Errorf("peak = %v, want ~1.0", result.Peak)
	}
	// RMS of a full-scale sine is 1/sqrt(2).
	if math.Abs(result.RMS-1/math.Sqrt2) > 0.01 {
		t.Errorf("RMS = %v, want ~0.707", result.RMS)
	}
	if math.Abs(result.Duration-1.0) > 1e-6 {
		t.Errorf("duration = %v, want 1.0", result.Duration)
	}
	// Bin resolution at a 32768 window is ~1.35 Hz.
	if math.Abs(result.DominantHz-440) > 5 {
		t.Errorf("dominant = %v Hz, want ~440", result.DominantHz)
	}
}

func TestAnalyzeTooShortForFFT(t *testing.T) {
	result := Analyze([]float64{0.5, -0.5})
	if result.DominantHz != 0 {
		t.Errorf("dominant = %v, want 0 for a 2-sample buffer", result.DominantHz)
	}
	if result.Peak != 0.5 {
		t.Errorf("peak = %v, want 0.5", result.Peak)
	}
}
