// Package compose plans song structure: which sections play, for how
// long, and what every instrument layer schedules inside them. All
// randomness comes from the caller's seeded source, so a fixed seed
// always yields the same plan.
package compose

import (
	"math"
	"math/rand"

	"github.com/dygy/songforge/internal/song"
	"github.com/dygy/songforge/internal/template"
)

// Section length bounds in seconds. The final section may undercut the
// floor when it absorbs a small remainder; that is intentional.
const (
	minSectionSeconds  = 4.0
	drawSectionLow     = 6.0
	drawSectionHigh    = 12.0
	minStepBeatDivisor = 4 // note steps never shrink below a quarter beat
)

// PlanSections fills the requested duration with randomly drawn sections,
// each carrying a full set of instrument layers built from the template's
// presets (or the built-in default voices when the template has none).
func PlanSections(tmpl *template.Template, duration float64, tempo int, rng *rand.Rand) []song.SongSection {
	var sections []song.SongSection
	remaining := duration
	for remaining > 0 {
		name := tmpl.Sections[rng.Intn(len(tmpl.Sections))]
		length := drawSectionLow + rng.Float64()*(drawSectionHigh-drawSectionLow)
		if length < minSectionSeconds {
			length = minSectionSeconds
		}
		if length > remaining {
			length = remaining
		}
		remaining -= length

		layers := buildLayers(tmpl, length, tempo, rng)
		sections = append(sections, song.SongSection{
			Name:      name,
			LeadNotes: leadNotes(layers),
			Duration:  length,
			Layers:    layers,
		})
	}
	return sections
}

// buildLayers schedules one layer per instrument preset. Every layer gets
// an independent seed from the parent source so noise rendering stays
// deterministic per layer.
func buildLayers(tmpl *template.Template, sectionLen float64, tempo int, rng *rand.Rand) []song.SectionLayer {
	presets := tmpl.Presets
	if len(presets) == 0 {
		presets = template.DefaultPresets()
	}

	layers := make([]song.SectionLayer, 0, len(presets))
	for _, preset := range presets {
		notes, durations := scheduleNotes(preset, tmpl.Scale, sectionLen, tempo)
		layers = append(layers, song.SectionLayer{
			Name:      preset.Name,
			Notes:     notes,
			Durations: durations,
			Waveform:  preset.Waveform,
			Volume:    preset.Volume,
			Envelope:  preset.Envelope,
			Seed:      rng.Int63(),
			Noise:     preset.Waveform == song.WaveNoise,
		})
	}
	return layers
}

// scheduleNotes walks the preset's pattern and rhythm arrays cyclically,
// converting each step into a (note, duration) pair, until the layer
// exactly fills the section. The last step is clipped to the boundary.
func scheduleNotes(preset template.InstrumentPreset, scale []float64, sectionLen float64, tempo int) ([]*float64, []float64) {
	beat := 60.0 / float64(tempo)
	minStep := beat / minStepBeatDivisor

	pattern := preset.Pattern
	if len(pattern) == 0 {
		pattern = []int{0}
	}
	rhythm := preset.Rhythm
	if len(rhythm) == 0 {
		rhythm = []float64{1}
	}

	var notes []*float64
	var durations []float64
	total := 0.0
	for i := 0; total < sectionLen; i++ {
		step := beat * rhythm[i%len(rhythm)]
		if step < minStep {
			step = minStep
		}
		if total+step > sectionLen {
			step = sectionLen - total
		}

		idx := pattern[i%len(pattern)]
		if idx == template.Rest {
			notes = append(notes, nil)
		} else {
			freq := scale[idx%len(scale)] * math.Pow(2, float64(preset.OctaveShift))
			notes = append(notes, song.Note(freq))
		}
		durations = append(durations, step)
		total += step
	}
	return notes, durations
}

// leadNotes derives the legacy lead-note list from the first layer's
// resolved frequencies. Rests contribute 0, which renders as silence on
// the flat path.
func leadNotes(layers []song.SectionLayer) []float64 {
	if len(layers) == 0 {
		return nil
	}
	lead := make([]float64, 0, len(layers[0].Notes))
	for _, note := range layers[0].Notes {
		if note == nil {
			lead = append(lead, 0)
		} else {
			lead = append(lead, *note)
		}
	}
	return lead
}
