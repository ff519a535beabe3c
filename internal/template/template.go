// Package template defines genre templates and their lookup store.
package template

import (
	"strings"

	"github.com/dygy/songforge/internal/song"
)

// Rest marks a pattern step that plays no note but still consumes its
// rhythm slot.
const Rest = -1

// InstrumentPreset describes one instrument voice of a template. Pattern
// holds scale indices (or Rest); Rhythm holds beat-length multipliers.
// Both are walked cyclically until a section is full.
type InstrumentPreset struct {
	Name        string        `yaml:"name"`
	Waveform    song.Waveform `yaml:"waveform"`
	Pattern     []int         `yaml:"pattern"`
	Rhythm      []float64     `yaml:"rhythm"`
	Volume      float64       `yaml:"volume"`
	OctaveShift int           `yaml:"octave_shift"`
	Envelope    song.Envelope `yaml:"envelope"`
}

// Template is an immutable genre preset. Templates are looked up by key
// and never mutated after the store is built.
type Template struct {
	Genre    string             `yaml:"genre"`
	Mood     string             `yaml:"mood"`
	Tempo    int                `yaml:"tempo"`
	Scale    []float64          `yaml:"scale"`
	Sections []string           `yaml:"sections"`
	Presets  []InstrumentPreset `yaml:"presets"`
	Keywords []string           `yaml:"keywords"`
}

// Store is an ordered, read-only mapping of style keys to templates.
// Iteration order is insertion order so resolution stays deterministic.
type Store struct {
	keys  []string
	byKey map[string]*Template
}

// NewStore builds a store preloaded with the built-in genre templates.
func NewStore() *Store {
	s := &Store{byKey: make(map[string]*Template)}
	for _, b := range builtins {
		s.Add(b.key, b.tmpl)
	}
	return s
}

// Add registers a template under key, replacing any previous entry.
func (s *Store) Add(key string, t *Template) {
	if _, ok := s.byKey[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.byKey[key] = t
}

// Get looks up a template by exact style key.
func (s *Store) Get(key string) (*Template, bool) {
	t, ok := s.byKey[key]
	return t, ok
}

// Keys returns the style keys in insertion order.
func (s *Store) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Resolve picks a template for a request. Resolution order: exact style
// key, then case-insensitive keyword match against the description, then
// the first template in store order. Resolution cannot fail.
func (s *Store) Resolve(style, description string) *Template {
	if style != "" {
		if t, ok := s.byKey[style]; ok {
			return t
		}
	}
	if description != "" {
		lowered := strings.ToLower(description)
		for _, key := range s.keys {
			for _, kw := range s.byKey[key].Keywords {
				if strings.Contains(lowered, kw) {
					return s.byKey[key]
				}
			}
		}
	}
	return s.byKey[s.keys[0]]
}

// DefaultPresets is the built-in 3-voice arrangement used when a template
// defines no instrument presets: saw lead, square bass an octave down,
// and a noise percussion layer.
func DefaultPresets() []InstrumentPreset {
	return []InstrumentPreset{
		{
			Name:     "lead",
			Waveform: song.WaveSaw,
			Pattern:  []int{0, 2, 4, Rest, 5, 4, 2, 0},
			Rhythm:   []float64{1, 0.5, 0.5, 1, 0.5, 0.5, 1, 1},
			Volume:   0.5,
			Envelope: song.Envelope{Attack: 0.01, Release: 0.3},
		},
		{
			Name:        "bass",
			Waveform:    song.WaveSquare,
			Pattern:     []int{0, Rest, 3, Rest},
			Rhythm:      []float64{2, 1, 2, 1},
			Volume:      0.4,
			OctaveShift: -1,
			Envelope:    song.Envelope{Attack: 0.02, Release: 0.25},
		},
		{
			Name:     "percussion",
			Waveform: song.WaveNoise,
			Pattern:  []int{0},
			Rhythm:   []float64{0.5},
			Volume:   0.15,
			Envelope: song.Envelope{Attack: 0.005, Release: 0.05},
		},
	}
}

type builtin struct {
	key  string
	tmpl *Template
}

var builtins = []builtin{
	{"lofi", &Template{
		Genre:    "Lo-Fi",
		Mood:     "chill",
		Tempo:    85,
		Scale:    []float64{220.0, 246.94, 277.18, 293.66, 329.63, 369.99, 415.3},
		Sections: []string{"intro", "verse", "chorus", "outro"},
		Keywords: []string{"study", "lofi", "relax", "coffee"},
	}},
	{"pop", &Template{
		Genre:    "Pop",
		Mood:     "upbeat",
		Tempo:    120,
		Scale:    []float64{261.63, 293.66, 329.63, 349.23, 392.0, 440.0, 493.88},
		Sections: []string{"intro", "verse", "chorus", "bridge", "chorus"},
		Keywords: []string{"pop", "catchy", "radio"},
	}},
	{"cinematic", &Template{
		Genre:    "Cinematic",
		Mood:     "epic",
		Tempo:    100,
		Scale:    []float64{174.61, 196.0, 220.0, 246.94, 277.18, 311.13, 349.23},
		Sections: []string{"intro", "build", "climax", "resolution"},
		Keywords: []string{"film", "orchestra", "cinematic"},
	}},
	{"edm", &Template{
		Genre:    "EDM",
		Mood:     "energetic",
		Tempo:    128,
		Scale:    []float64{261.63, 293.66, 329.63, 391.0, 440.0, 523.25, 587.33},
		Sections: []string{"intro", "build", "drop", "breakdown"},
		Keywords: []string{"club", "dance", "edm"},
	}},
	{"jazz", &Template{
		Genre:    "Jazz",
		Mood:     "smooth",
		Tempo:    110,
		Scale:    []float64{261.63, 311.13, 349.23, 392.0, 466.16, 523.25, 587.33},
		Sections: []string{"intro", "theme", "solo", "theme"},
		Keywords: []string{"jazz", "sax", "swing"},
	}},
	{"ambient", &Template{
		Genre:    "Ambient",
		Mood:     "dreamy",
		Tempo:    60,
		Scale:    []float64{110.0, 146.83, 196.0, 220.0, 261.63, 329.63, 392.0},
		Sections: []string{"drone", "texture", "swells", "release"},
		Keywords: []string{"ambient", "relax", "space"},
	}},
}
