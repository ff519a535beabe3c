package encode

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dygy/songforge/internal/errors"
)

func TestExportWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track")
	out, err := Export(context.Background(), []float64{0, 0.5, -0.5}, path, "wav")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(out) != ".wav" {
		t.Errorf("output path %q missing .wav extension", out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestExportDefaultsToWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track")
	out, err := Export(context.Background(), []float64{0.1}, path, "")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(out) != ".wav" {
		t.Errorf("output path %q missing .wav extension", out)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := Export(context.Background(), []float64{0.1}, filepath.Join(t.TempDir(), "x"), "ogg")
	if !errors.Is(err, errors.ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestWithExt(t *testing.T) {
	cases := map[string]string{
		"track":     "track.mp3",
		"track.wav": "track.mp3",
		"a/b/c.mp3": "a/b/c.mp3",
	}
	for in, want := range cases {
		if got := withExt(in, ".mp3"); got != want {
			t.Errorf("withExt(%q) = %q, want %q", in, got, want)
		}
	}
}
