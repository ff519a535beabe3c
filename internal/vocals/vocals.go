// Package vocals synthesizes a simple vibrato vocal line from lyrics and
// blends vocal takes into a project's mix.
package vocals

import (
	"math"
	"strings"

	"github.com/dygy/songforge/internal/song"
	"github.com/dygy/songforge/internal/synth"
)

// DefaultMix is the vocal share used when no mix level is given.
const DefaultMix = 0.5

// Synthesize renders one sung tone per word of the lyrics at the given
// base pitch, with a slow vibrato and a rising per-word envelope. Empty
// lyrics produce an empty buffer.
func Synthesize(lyrics string, pitch float64) []float64 {
	words := strings.Fields(lyrics)
	if len(words) == 0 {
		return nil
	}

	perWord := 2.5 / float64(len(words))
	if perWord < 0.25 {
		perWord = 0.25
	}
	wordSamples := int(synth.SampleRate * perWord)
	if wordSamples <= 0 {
		return nil
	}

	out := make([]float64, 0, wordSamples*len(words))
	for range words {
		for i := 0; i < wordSamples; i++ {
			t := float64(i) / synth.SampleRate
			vibrato := math.Sin(math.Pi * 4 * t)
			base := math.Sin(2 * math.Pi * pitch * t)
			envelope := 0.1 + 0.9*float64(i)/float64(max(wordSamples-1, 1))
			out = append(out, base*(0.6+0.4*vibrato)*envelope)
		}
	}
	return out
}

// Blend mixes a vocal take into the project's audio: both buffers are
// zero-padded to the longer length, combined as (1-mix)*song + mix*vocal,
// and peak-renormalized. An empty vocal buffer is a no-op; a project with
// no audio simply adopts the vocals.
func Blend(p *song.SongProject, vocal []float64, mix float64) {
	if len(vocal) == 0 {
		return
	}
	if len(p.Audio) == 0 {
		p.Audio = append([]float64(nil), vocal...)
		return
	}

	length := len(p.Audio)
	if len(vocal) > length {
		length = len(vocal)
	}
	blended := make([]float64, length)
	for i := range blended {
		var s, v float64
		if i < len(p.Audio) {
			s = p.Audio[i]
		}
		if i < len(vocal) {
			v = vocal[i]
		}
		blended[i] = (1-mix)*s + mix*v
	}
	p.Audio = synth.Normalize(blended)
}
