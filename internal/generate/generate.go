// Package generate is the top-level song synthesis entry point: it
// resolves a template, plans sections, renders and mixes every layer,
// and returns a finished SongProject.
package generate

import (
	"fmt"
	"math/rand"

	"github.com/dygy/songforge/internal/compose"
	"github.com/dygy/songforge/internal/errors"
	"github.com/dygy/songforge/internal/song"
	"github.com/dygy/songforge/internal/synth"
	"github.com/dygy/songforge/internal/template"
)

// Request describes one generation call. Style takes priority over
// Description during template resolution; zero Tempo and empty Mood fall
// back to the template's values. A fixed Seed reproduces the exact same
// sample sequence.
type Request struct {
	Style       string
	Description string
	Duration    float64
	Tempo       int
	Mood        string
	Seed        int64
}

// Generator creates songs from an injected template store. Stores are
// read-only after construction, so one Generator is safe for concurrent
// use; each call owns its own random source and buffers.
type Generator struct {
	store *template.Store
}

// New creates a Generator backed by the given template store.
func New(store *template.Store) *Generator {
	return &Generator{store: store}
}

// Store exposes the generator's template store for listing.
func (g *Generator) Store() *template.Store {
	return g.store
}

// Generate creates a new SongProject for the request.
func (g *Generator) Generate(req Request) (*song.SongProject, error) {
	if req.Duration <= 0 {
		return nil, errors.Invalidf("duration must be positive, got %g", req.Duration)
	}

	rng := rand.New(rand.NewSource(req.Seed))
	tmpl := g.store.Resolve(req.Style, req.Description)

	tempo := req.Tempo
	if tempo <= 0 {
		tempo = tmpl.Tempo
	}
	mood := req.Mood
	if mood == "" {
		mood = tmpl.Mood
	}

	title := deriveTitle(tmpl, mood, rng)
	sections := compose.PlanSections(tmpl, req.Duration, tempo, rng)
	audio := stitch(sections)

	return &song.SongProject{
		Title:    title,
		Genre:    tmpl.Genre,
		Mood:     mood,
		Tempo:    tempo,
		Sections: sections,
		Audio:    audio,
	}, nil
}

// stitch renders every section, concatenates them back to back, and
// normalizes the whole buffer to peak 1.0.
func stitch(sections []song.SongSection) []float64 {
	var combined []float64
	for i := range sections {
		combined = append(combined, synth.RenderSection(&sections[i])...)
	}
	return synth.Normalize(combined)
}

var (
	titleAdjectives = []string{"Crimson", "Electric", "Crystal", "Midnight", "Golden", "Velvet"}
	titleNouns      = []string{"Echo", "Dream", "Pulse", "Canvas", "Mirage", "Cascade"}
)

func deriveTitle(tmpl *template.Template, mood string, rng *rand.Rand) string {
	adjective := titleAdjectives[rng.Intn(len(titleAdjectives))]
	noun := titleNouns[rng.Intn(len(titleNouns))]
	return fmt.Sprintf("%s %s (%s - %s)", adjective, noun, tmpl.Genre, mood)
}
