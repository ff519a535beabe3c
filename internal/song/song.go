// Package song holds the in-memory data model for generated songs.
//
// A SongProject owns its sections and its sample buffer outright; sections
// own their layers. Nothing in the model is shared or cyclic, so projects
// can be copied, persisted, and rendered independently.
package song

// Waveform identifies a basic oscillator shape.
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveSquare   Waveform = "square"
	WaveSaw      Waveform = "saw"
	WaveTriangle Waveform = "triangle"
	WaveNoise    Waveform = "noise"
)

// Envelope is a linear attack/release gain shape in seconds.
type Envelope struct {
	Attack  float64 `json:"attack" msgpack:"attack" yaml:"attack"`
	Release float64 `json:"release" msgpack:"release" yaml:"release"`
}

// SectionLayer is one instrument's schedule within a section. Notes and
// Durations are parallel: Notes[i] plays for Durations[i] seconds. A nil
// note is a rest that still consumes its duration slot.
type SectionLayer struct {
	Name      string     `json:"name" msgpack:"name"`
	Notes     []*float64 `json:"notes" msgpack:"notes"`
	Durations []float64  `json:"durations" msgpack:"durations"`
	Waveform  Waveform   `json:"waveform" msgpack:"waveform"`
	Volume    float64    `json:"volume" msgpack:"volume"`
	Envelope  Envelope   `json:"envelope" msgpack:"envelope"`
	Seed      int64      `json:"seed" msgpack:"seed"`
	Noise     bool       `json:"noise" msgpack:"noise"`
}

// Note boxes a frequency for use in SectionLayer.Notes.
func Note(freq float64) *float64 {
	return &freq
}

// Voicing selects which render path a section takes.
type Voicing int

const (
	// VoicingLayered renders and mixes the section's instrument layers.
	VoicingLayered Voicing = iota
	// VoicingFlat is the legacy single-voice path driven by LeadNotes,
	// kept for projects persisted before layered rendering existed.
	VoicingFlat
)

// SongSection is a named time segment of a song.
type SongSection struct {
	Name      string         `json:"name" msgpack:"name"`
	LeadNotes []float64      `json:"notes" msgpack:"notes"`
	Duration  float64        `json:"duration" msgpack:"duration"`
	Layers    []SectionLayer `json:"layers" msgpack:"layers"`
}

// Voicing reports the render path for this section. The dispatch is
// explicit so the legacy fallback stays an intentional, testable branch.
func (s *SongSection) Voicing() Voicing {
	if len(s.Layers) > 0 {
		return VoicingLayered
	}
	return VoicingFlat
}

// SongProject is the root aggregate of a generated song. Audio is the
// flattened, peak-normalized concatenation of its rendered sections;
// editing operations replace it in place.
type SongProject struct {
	ID       string        `json:"id" msgpack:"id"`
	Title    string        `json:"title" msgpack:"title"`
	Genre    string        `json:"genre" msgpack:"genre"`
	Mood     string        `json:"mood" msgpack:"mood"`
	Tempo    int           `json:"tempo" msgpack:"tempo"`
	Sections []SongSection `json:"sections" msgpack:"sections"`
	Audio    []float64     `json:"-" msgpack:"-"`
}
