package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dygy/songforge/internal/analysis"
	"github.com/dygy/songforge/internal/errors"
	"github.com/dygy/songforge/internal/generate"
	"github.com/dygy/songforge/internal/song"
	"github.com/dygy/songforge/internal/wav"
)

// createRequest is the JSON body of POST /api/songs.
type createRequest struct {
	Style       string  `json:"style"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Tempo       int     `json:"tempo"`
	Mood        string  `json:"mood"`
	Seed        int64   `json:"seed"`
}

// songResponse is the metadata returned for a generated or stored song.
type songResponse struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Genre    string          `json:"genre"`
	Mood     string          `json:"mood"`
	Tempo    int             `json:"tempo"`
	Sections []sectionInfo   `json:"sections"`
	Analysis analysis.Result `json:"analysis"`
}

type sectionInfo struct {
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Layers   int     `json:"layers"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleTemplates lists the available genre template keys
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"templates": s.generator.Store().Keys(),
	})
}

// handleCreateSong generates a song, saves it to the library, and returns
// its metadata
func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}

	project, err := s.generator.Generate(generate.Request{
		Style:       req.Style,
		Description: req.Description,
		Duration:    req.Duration,
		Tempo:       req.Tempo,
		Mood:        req.Mood,
		Seed:        req.Seed,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errors.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err.Error())
		return
	}

	if _, err := s.lib.Save(project); err != nil {
		s.logger.Error("save project", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "failed to save project")
		return
	}

	s.writeJSON(w, http.StatusCreated, toSongResponse(project))
}

// handleListSongs lists stored projects
func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	entries, err := s.lib.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"songs": entries})
}

// handleGetSong returns metadata for one stored project
func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	project, ok := s.loadProject(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, toSongResponse(project))
}

// handleDownloadWAV streams a stored project as a WAV file
func (s *Server) handleDownloadWAV(w http.ResponseWriter, r *http.Request) {
	project, ok := s.loadProject(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", project.Title+".wav"))
	if err := wav.Encode(w, project.Audio); err != nil {
		s.logger.Error("stream wav", slog.Any("error", err))
	}
}

func (s *Server) loadProject(w http.ResponseWriter, id string) (*song.SongProject, bool) {
	project, err := s.lib.Load(id)
	if err != nil {
		if errors.Is(err, errors.ErrProjectNotFound) {
			s.writeError(w, http.StatusNotFound, "project not found")
		} else {
			s.writeError(w, http.StatusInternalServerError, "failed to load project")
		}
		return nil, false
	}
	return project, true
}

func toSongResponse(p *song.SongProject) songResponse {
	sections := make([]sectionInfo, len(p.Sections))
	for i, sec := range p.Sections {
		sections[i] = sectionInfo{Name: sec.Name, Duration: sec.Duration, Layers: len(sec.Layers)}
	}
	return songResponse{
		ID:       p.ID,
		Title:    p.Title,
		Genre:    p.Genre,
		Mood:     p.Mood,
		Tempo:    p.Tempo,
		Sections: sections,
		Analysis: analysis.Analyze(p.Audio),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
