package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dygy/songforge/internal/generate"
	"github.com/dygy/songforge/internal/library"
	"github.com/dygy/songforge/internal/template"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	lib, err := library.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(Config{Port: 0}, generate.New(template.NewStore()), lib)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestTemplates(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/templates", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Templates []string `json:"templates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, key := range body.Templates {
		if key == "lofi" {
			found = true
		}
	}
	if !found {
		t.Errorf("lofi missing from templates: %v", body.Templates)
	}
}

func TestCreateAndDownload(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"style":"pop","duration":2.0,"seed":5}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/songs", bytes.NewBufferString(payload)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID       string `json:"id"`
		Genre    string `json:"genre"`
		Sections []struct {
			Name string `json:"name"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("no project ID returned")
	}
	if created.Genre != "Pop" {
		t.Errorf("genre = %q, want Pop", created.Genre)
	}
	if len(created.Sections) == 0 {
		t.Error("no sections in response")
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/songs/"+created.ID+"/wav", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("content type = %q, want audio/wav", ct)
	}
	if data := rec.Body.Bytes(); len(data) < 44 || string(data[0:4]) != "RIFF" {
		t.Error("response is not a WAV stream")
	}
}

func TestCreateInvalidDuration(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/songs", bytes.NewBufferString(`{"style":"pop","duration":-1}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetMissingSong(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/songs/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
