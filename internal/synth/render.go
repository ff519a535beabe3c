package synth

import (
	"math"
	"math/rand"

	"github.com/dygy/songforge/internal/song"
)

// RenderLayer renders one instrument layer to samples: each (note,
// duration) pair becomes a tone (or noise burst, or silence), envelope
// shaped and scaled by the layer volume, concatenated in order. A layer
// with no pairs renders as an empty buffer.
func RenderLayer(layer song.SectionLayer) []float64 {
	rng := rand.New(rand.NewSource(layer.Seed))

	steps := len(layer.Notes)
	if len(layer.Durations) < steps {
		steps = len(layer.Durations)
	}

	var out []float64
	for i := 0; i < steps; i++ {
		d := layer.Durations[i]
		if d < 1.0/SampleRate {
			d = 1.0 / SampleRate
		}

		var tone []float64
		switch {
		case layer.Noise:
			tone = make([]float64, SampleCount(d))
			for j := range tone {
				tone[j] = rng.Float64()*2 - 1
			}
		case layer.Notes[i] == nil || *layer.Notes[i] <= 0:
			tone = make([]float64, SampleCount(d))
		default:
			tone = Oscillator(layer.Waveform, *layer.Notes[i], d)
		}

		ApplyEnvelope(tone, layer.Envelope.Attack, layer.Envelope.Release)
		for j := range tone {
			tone[j] *= layer.Volume
		}
		out = append(out, tone...)
	}
	return out
}

// Mix sums sample buffers of unequal length, zero-padding to the longest,
// and peak-normalizes the result. Empty buffers are excluded; mixing
// nothing yields an empty buffer.
func Mix(layers ...[]float64) []float64 {
	var active [][]float64
	maxLen := 0
	for _, l := range layers {
		if len(l) == 0 {
			continue
		}
		active = append(active, l)
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	if len(active) == 0 {
		return nil
	}

	sum := make([]float64, maxLen)
	for _, l := range active {
		for i, v := range l {
			sum[i] += v
		}
	}
	return Normalize(sum)
}

// Peak returns the maximum absolute sample value.
func Peak(samples []float64) float64 {
	peak := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// Normalize scales samples in place so the peak absolute value is exactly
// 1.0, and returns the same slice. An all-zero buffer is left untouched.
func Normalize(samples []float64) []float64 {
	peak := Peak(samples)
	if peak == 0 {
		return samples
	}
	for i := range samples {
		samples[i] /= peak
	}
	return samples
}

// RenderSection renders a section along its voicing path: layered sections
// mix their rendered layers, flat sections take the legacy single-voice
// path over LeadNotes.
func RenderSection(sec *song.SongSection) []float64 {
	if sec.Voicing() == song.VoicingLayered {
		rendered := make([][]float64, 0, len(sec.Layers))
		for _, layer := range sec.Layers {
			rendered = append(rendered, RenderLayer(layer))
		}
		return Mix(rendered...)
	}

	if len(sec.LeadNotes) == 0 {
		n := int(SampleRate * sec.Duration)
		if n < 1 {
			n = 1
		}
		return make([]float64, n)
	}
	return RenderFlat(sec.LeadNotes, sec.Duration)
}

// RenderFlat is the legacy single-voice renderer used by sections without
// layers: equal time budget per note, sine tone, coarse linear fade from
// 1.0 to 0.05 across each note. Projects persisted before layered
// rendering depend on this exact formula, so it must not change.
func RenderFlat(notes []float64, duration float64) []float64 {
	if len(notes) == 0 {
		n := int(SampleRate * duration)
		if n < 1 {
			n = 1
		}
		return make([]float64, n)
	}

	count := len(notes)
	perNote := int(SampleRate * duration / float64(count))
	if perNote < 1 {
		perNote = 1
	}
	out := make([]float64, perNote*count)
	noteDur := duration / float64(count)
	step := noteDur / float64(perNote)

	for idx, freq := range notes {
		base := idx * perNote
		for i := 0; i < perNote; i++ {
			env := 1.0
			if perNote > 1 {
				env = 1.0 - 0.95*float64(i)/float64(perNote-1)
			}
			out[base+i] = math.Sin(2*math.Pi*freq*float64(i)*step) * env * 0.5
		}
	}
	return Normalize(out)
}
