package wav

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, []float64{0, 0.5, -0.5}); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if len(data) != 44+6 {
		t.Fatalf("got %d bytes, want 50", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if string(data[36:40]) != "data" {
		t.Error("missing data chunk marker")
	}
}

func TestFileRoundTrip(t *testing.T) {
	samples := []float64{0, 0.25, -0.25, 1.0, -1.0, 0.333}
	path := filepath.Join(t.TempDir(), "tone.wav")

	if err := WriteFile(path, samples); err != nil {
		t.Fatal(err)
	}
	loaded, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(loaded) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(loaded), len(samples))
	}
	// 16-bit quantization error is bounded by one quantization step.
	for i := range samples {
		if math.Abs(loaded[i]-samples[i]) > 1.0/32767+1e-9 {
			t.Errorf("sample %d: %v vs %v", i, loaded[i], samples[i])
		}
	}
}

func TestReadFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("this is not a wav file at all"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Error("expected error for non-WAV input")
	}
}
