// Package library persists song projects to a storage directory. Each
// project is one msgpack file holding metadata plus the raw sample buffer
// (stored as float32, the engine's wire sample format), with a small JSON
// sidecar so listing never has to decode audio.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dygy/songforge/internal/errors"
	"github.com/dygy/songforge/internal/song"
)

const (
	projectExt    = ".sfp"
	sidecarExt    = ".json"
	formatVersion = 1
)

// projectFile is the on-disk representation of a project. Rests inside
// layers serialize as explicit nulls via the model's pointer notes.
type projectFile struct {
	Version  int                `msgpack:"version"`
	ID       string             `msgpack:"id"`
	Title    string             `msgpack:"title"`
	Genre    string             `msgpack:"genre"`
	Mood     string             `msgpack:"mood"`
	Tempo    int                `msgpack:"tempo"`
	Sections []song.SongSection `msgpack:"sections"`
	Audio    []float32          `msgpack:"audio"`
}

// Entry summarizes a stored project for listing.
type Entry struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Genre    string    `json:"genre"`
	Mood     string    `json:"mood"`
	Tempo    int       `json:"tempo"`
	Sections int       `json:"sections"`
	Samples  int       `json:"samples"`
	SavedAt  time.Time `json:"saved_at"`
}

// Library is a directory-backed project store.
type Library struct {
	root string
}

// Open creates (if needed) and opens a library rooted at dir.
func Open(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}
	return &Library{root: dir}, nil
}

// Root returns the library's storage directory.
func (l *Library) Root() string {
	return l.root
}

// Save writes the project to the library, assigning an ID if it has none,
// and returns the project's ID.
func (l *Library) Save(p *song.SongProject) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	file := projectFile{
		Version:  formatVersion,
		ID:       p.ID,
		Title:    p.Title,
		Genre:    p.Genre,
		Mood:     p.Mood,
		Tempo:    p.Tempo,
		Sections: p.Sections,
		Audio:    toFloat32(p.Audio),
	}
	data, err := msgpack.Marshal(&file)
	if err != nil {
		return "", fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(l.projectPath(p.ID), data, 0644); err != nil {
		return "", fmt.Errorf("write project: %w", err)
	}

	entry := Entry{
		ID:       p.ID,
		Title:    p.Title,
		Genre:    p.Genre,
		Mood:     p.Mood,
		Tempo:    p.Tempo,
		Sections: len(p.Sections),
		Samples:  len(p.Audio),
		SavedAt:  time.Now().UTC(),
	}
	meta, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode sidecar: %w", err)
	}
	if err := os.WriteFile(l.sidecarPath(p.ID), meta, 0644); err != nil {
		return "", fmt.Errorf("write sidecar: %w", err)
	}
	return p.ID, nil
}

// Load reconstructs a project from the library.
func (l *Library) Load(id string) (*song.SongProject, error) {
	data, err := os.ReadFile(l.projectPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrProjectNotFound, id)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}

	var file projectFile
	if err := msgpack.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	return &song.SongProject{
		ID:       file.ID,
		Title:    file.Title,
		Genre:    file.Genre,
		Mood:     file.Mood,
		Tempo:    file.Tempo,
		Sections: file.Sections,
		Audio:    toFloat64(file.Audio),
	}, nil
}

// List returns stored project entries, newest first.
func (l *Library) List() ([]Entry, error) {
	names, err := filepath.Glob(filepath.Join(l.root, "*"+sidecarExt))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(name)
		if err != nil {
			continue // sidecar raced with a delete
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SavedAt.After(entries[j].SavedAt)
	})
	return entries, nil
}

// Delete removes a stored project and its sidecar.
func (l *Library) Delete(id string) error {
	if err := os.Remove(l.projectPath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", errors.ErrProjectNotFound, id)
		}
		return err
	}
	os.Remove(l.sidecarPath(id))
	return nil
}

func (l *Library) projectPath(id string) string {
	return filepath.Join(l.root, sanitize(id)+projectExt)
}

func (l *Library) sidecarPath(id string) string {
	return filepath.Join(l.root, sanitize(id)+sidecarExt)
}

// sanitize keeps stored filenames flat even if an ID contains separators.
func sanitize(id string) string {
	id = strings.ReplaceAll(id, string(filepath.Separator), "_")
	return strings.ReplaceAll(id, "..", "_")
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
