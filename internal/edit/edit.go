// Package edit provides the post-processing transforms that operate on a
// finished project's sample buffer: tempo-relative resampling,
// band-interpolated equalization, and section rearrangement.
package edit

import (
	"math"

	"github.com/dygy/songforge/internal/errors"
	"github.com/dygy/songforge/internal/song"
	"github.com/dygy/songforge/internal/synth"
)

// Summary reports what an edit changed.
type Summary struct {
	TempoRatio float64
	Equalized  bool
	Rearranged bool
}

// Editor applies in-place transforms to SongProjects.
type Editor struct{}

// AdjustTempo resamples the project's audio by newTempo/oldTempo and
// records the new tempo on the project.
func (Editor) AdjustTempo(p *song.SongProject, tempo int) (Summary, error) {
	if tempo <= 0 {
		return Summary{}, errors.Invalidf("tempo must be positive, got %d", tempo)
	}
	oldTempo := p.Tempo
	if oldTempo < 1 {
		oldTempo = 1
	}
	ratio := float64(tempo) / float64(oldTempo)
	resampled, err := Resample(p.Audio, ratio)
	if err != nil {
		return Summary{}, err
	}
	p.Audio = resampled
	p.Tempo = tempo
	return Summary{TempoRatio: ratio}, nil
}

// Resample stretches audio by the given ratio using linear interpolation
// over fractional source positions. The output holds round(len/ratio)
// samples; a non-positive ratio is an invalid-input error.
func Resample(audio []float64, ratio float64) ([]float64, error) {
	if ratio <= 0 {
		return nil, errors.Invalidf("resample ratio must be positive, got %g", ratio)
	}
	n := len(audio)
	if ratio == 1.0 || n == 0 {
		return audio, nil
	}

	outLen := int(math.Round(float64(n) / ratio))
	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * ratio
		i0 := int(pos)
		if i0 >= n-1 {
			out[i] = audio[n-1]
			continue
		}
		frac := pos - float64(i0)
		out[i] = audio[i0]*(1-frac) + audio[i0+1]*frac
	}
	return out, nil
}

// Equalize multiplies the buffer by a gain curve linearly interpolated
// from the per-band profile (band boundaries spread evenly across the
// buffer) and re-normalizes to peak 1.0. An empty profile is an
// invalid-input error; an empty buffer is a no-op.
func (Editor) Equalize(p *song.SongProject, profile []float64) (Summary, error) {
	if len(profile) == 0 {
		return Summary{}, errors.Invalidf("equalizer profile must contain at least one band")
	}
	n := len(p.Audio)
	if n == 0 {
		return Summary{Equalized: true}, nil
	}

	bands := len(profile)
	for i := range p.Audio {
		gain := profile[0]
		if bands > 1 && n > 1 {
			x := float64(i) * float64(bands-1) / float64(n-1)
			j := int(x)
			if j >= bands-1 {
				gain = profile[bands-1]
			} else {
				frac := x - float64(j)
				gain = profile[j]*(1-frac) + profile[j+1]*frac
			}
		}
		p.Audio[i] *= gain
	}
	synth.Normalize(p.Audio)
	return Summary{Equalized: true}, nil
}

// Rearrange reorders the project's sections by the given permutation,
// re-renders every section, and re-normalizes the concatenated result.
// The permutation must reference each section index exactly once.
func (Editor) Rearrange(p *song.SongProject, order []int) (Summary, error) {
	if len(order) != len(p.Sections) {
		return Summary{}, errors.Invalidf("order has %d entries for %d sections", len(order), len(p.Sections))
	}
	seen := make([]bool, len(order))
	for _, idx := range order {
		if idx < 0 || idx >= len(order) || seen[idx] {
			return Summary{}, errors.Invalidf("order must reference each section exactly once")
		}
		seen[idx] = true
	}

	reordered := make([]song.SongSection, len(order))
	for i, idx := range order {
		reordered[i] = p.Sections[idx]
	}
	p.Sections = reordered

	var combined []float64
	for i := range p.Sections {
		combined = append(combined, synth.RenderSection(&p.Sections[i])...)
	}
	p.Audio = synth.Normalize(combined)
	return Summary{Rearranged: true}, nil
}
