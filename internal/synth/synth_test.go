package synth

import (
	"math"
	"testing"

	"github.com/dygy/songforge/internal/song"
)

func TestOscillator(t *testing.T) {
	t.Run("ZeroDuration_Empty", func(t *testing.T) {
		if got := Oscillator(song.WaveSine, 440, 0); len(got) != 0 {
			t.Errorf("expected empty buffer, got %d samples", len(got))
		}
		if got := Oscillator(song.WaveSine, 440, -1); len(got) != 0 {
			t.Errorf("expected empty buffer for negative duration, got %d samples", len(got))
		}
	})

	t.Run("Length", func(t *testing.T) {
		if got := Oscillator(song.WaveSine, 440, 0.5); len(got) != 22050 {
			t.Errorf("0.5s tone: got %d samples, want 22050", len(got))
		}
		// A duration shorter than one sample period still yields one sample
		if got := Oscillator(song.WaveSine, 440, 1e-9); len(got) != 1 {
			t.Errorf("tiny duration: got %d samples, want 1", len(got))
		}
	})

	t.Run("Range", func(t *testing.T) {
		for _, wave := range []song.Waveform{song.WaveSine, song.WaveSquare, song.WaveSaw, song.WaveTriangle} {
			samples := Oscillator(wave, 440, 0.1)
			for i, v := range samples {
				if v < -1 || v > 1 {
					t.Fatalf("%s sample %d out of range: %v", wave, i, v)
				}
			}
		}
	})

	t.Run("SquareIsBinary", func(t *testing.T) {
		for i, v := range Oscillator(song.WaveSquare, 100, 0.05) {
			if v != 1 && v != -1 && v != 0 {
				t.Fatalf("square sample %d = %v, want -1, 0, or 1", i, v)
			}
		}
	})

	t.Run("UnknownWaveform_FallsBackToSine", func(t *testing.T) {
		sine := Oscillator(song.WaveSine, 220, 0.05)
		other := Oscillator(song.Waveform("theremin"), 220, 0.05)
		if len(sine) != len(other) {
			t.Fatalf("length mismatch: %d vs %d", len(sine), len(other))
		}
		for i := range sine {
			if sine[i] != other[i] {
				t.Fatalf("sample %d differs: %v vs %v", i, sine[i], other[i])
			}
		}
	})
}

func TestApplyEnvelope(t *testing.T) {
	ones := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = 1
		}
		return out
	}

	t.Run("Shape", func(t *testing.T) {
		samples := ApplyEnvelope(ones(4410), 0.01, 0.01) // 441-sample ramps in a 4410 buffer
		if samples[0] != 0 {
			t.Errorf("attack should start at 0, got %v", samples[0])
		}
		if samples[441] != 1 {
			t.Errorf("sustain should be unity, got %v", samples[441])
		}
		if last := samples[len(samples)-1]; last != 0 {
			t.Errorf("release should end at exactly 0, got %v", last)
		}
	})

	t.Run("ReleaseAnchoredToEnd", func(t *testing.T) {
		// Attack and release both want the whole buffer; release wins at the tail.
		samples := ApplyEnvelope(ones(100), 1.0, 1.0)
		if last := samples[len(samples)-1]; last != 0 {
			t.Errorf("tail should be 0, got %v", last)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := ApplyEnvelope(nil, 0.01, 0.3); len(got) != 0 {
			t.Errorf("expected empty, got %d", len(got))
		}
	})
}

func TestMix(t *testing.T) {
	t.Run("PadsAndNormalizes", func(t *testing.T) {
		mixed := Mix([]float64{0.5, 0.5}, []float64{0.5, 0.5, 0.25})
		if len(mixed) != 3 {
			t.Fatalf("got %d samples, want 3", len(mixed))
		}
		if peak := Peak(mixed); peak != 1.0 {
			t.Errorf("peak = %v, want exactly 1.0", peak)
		}
		// Third sample had only one contributor: 0.25 scaled by peak 1.0
		if mixed[2] != 0.25 {
			t.Errorf("padded tail = %v, want 0.25", mixed[2])
		}
	})

	t.Run("EmptyInputsExcluded", func(t *testing.T) {
		mixed := Mix(nil, []float64{}, []float64{0.5})
		if len(mixed) != 1 || mixed[0] != 1.0 {
			t.Errorf("got %v, want [1.0]", mixed)
		}
	})

	t.Run("NothingToMix", func(t *testing.T) {
		if mixed := Mix(); len(mixed) != 0 {
			t.Errorf("expected empty buffer, got %d samples", len(mixed))
		}
	})

	t.Run("AllZeros_StayZeros", func(t *testing.T) {
		mixed := Mix(make([]float64, 10), make([]float64, 5))
		for i, v := range mixed {
			if v != 0 {
				t.Fatalf("sample %d = %v, want 0", i, v)
			}
		}
	})
}

func TestRenderLayer(t *testing.T) {
	t.Run("EmptyLayer", func(t *testing.T) {
		layer := song.SectionLayer{Name: "empty", Waveform: song.WaveSine, Volume: 0.5}
		if got := RenderLayer(layer); len(got) != 0 {
			t.Errorf("empty layer rendered %d samples, want 0", len(got))
		}
	})

	t.Run("SilenceAndNonPositiveNotes", func(t *testing.T) {
		layer := song.SectionLayer{
			Name:      "rests",
			Notes:     []*float64{nil, song.Note(0), song.Note(-20)},
			Durations: []float64{0.01, 0.01, 0.01},
			Waveform:  song.WaveSine,
			Volume:    1.0,
			Envelope:  song.Envelope{Attack: 0.001, Release: 0.001},
		}
		for i, v := range RenderLayer(layer) {
			if v != 0 {
				t.Fatalf("sample %d = %v, want silence", i, v)
			}
		}
	})

	t.Run("NoiseIsDeterministicPerSeed", func(t *testing.T) {
		layer := song.SectionLayer{
			Name:      "perc",
			Notes:     []*float64{song.Note(0)},
			Durations: []float64{0.05},
			Volume:    0.3,
			Envelope:  song.Envelope{Attack: 0.001, Release: 0.001},
			Seed:      99,
			Noise:     true,
		}
		a := RenderLayer(layer)
		b := RenderLayer(layer)
		if len(a) == 0 {
			t.Fatal("noise layer rendered no samples")
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("noise not deterministic at sample %d", i)
			}
		}
	})

	t.Run("VolumeScales", func(t *testing.T) {
		layer := song.SectionLayer{
			Name:      "lead",
			Notes:     []*float64{song.Note(440)},
			Durations: []float64{0.1},
			Waveform:  song.WaveSine,
			Volume:    0.5,
			Envelope:  song.Envelope{Attack: 0.001, Release: 0.001},
		}
		if peak := Peak(RenderLayer(layer)); peak > 0.5001 {
			t.Errorf("peak %v exceeds layer volume 0.5", peak)
		}
	})
}

func TestRenderFlat(t *testing.T) {
	t.Run("LengthAndNormalization", func(t *testing.T) {
		out := RenderFlat([]float64{440, 220}, 0.1)
		perNote := int(SampleRate * 0.1 / 2)
		if len(out) != perNote*2 {
			t.Errorf("got %d samples, want %d", len(out), perNote*2)
		}
		if peak := Peak(out); peak != 1.0 {
			t.Errorf("peak = %v, want exactly 1.0", peak)
		}
	})

	t.Run("NoNotes_Silence", func(t *testing.T) {
		out := RenderFlat(nil, 0.01)
		if len(out) != int(SampleRate*0.01) {
			t.Errorf("got %d samples, want %d", len(out), int(SampleRate*0.01))
		}
		for _, v := range out {
			if v != 0 {
				t.Fatal("expected silence")
			}
		}
	})

	t.Run("ZeroFrequencyRendersSilence", func(t *testing.T) {
		for _, v := range RenderFlat([]float64{0}, 0.01) {
			if v != 0 {
				t.Fatal("zero-frequency note should render as silence")
			}
		}
	})
}

func TestRenderSection(t *testing.T) {
	t.Run("FlatPathWithoutLayers", func(t *testing.T) {
		sec := song.SongSection{Name: "legacy", LeadNotes: []float64{330}, Duration: 0.05}
		flat := RenderFlat(sec.LeadNotes, sec.Duration)
		got := RenderSection(&sec)
		if len(got) != len(flat) {
			t.Fatalf("length mismatch: %d vs %d", len(got), len(flat))
		}
		for i := range got {
			if got[i] != flat[i] {
				t.Fatalf("flat path diverged at sample %d", i)
			}
		}
	})

	t.Run("EmptySection_Silence", func(t *testing.T) {
		sec := song.SongSection{Name: "void", Duration: 0.02}
		out := RenderSection(&sec)
		if len(out) != int(SampleRate*0.02) {
			t.Errorf("got %d samples, want %d", len(out), int(SampleRate*0.02))
		}
	})

	t.Run("LayeredPathNormalizes", func(t *testing.T) {
		sec := song.SongSection{
			Name:     "verse",
			Duration: 0.1,
			Layers: []song.SectionLayer{
				{
					Name:      "lead",
					Notes:     []*float64{song.Note(440)},
					Durations: []float64{0.1},
					Waveform:  song.WaveSaw,
					Volume:    0.5,
					Envelope:  song.Envelope{Attack: 0.01, Release: 0.02},
				},
				{
					Name:      "bass",
					Notes:     []*float64{song.Note(110)},
					Durations: []float64{0.1},
					Waveform:  song.WaveSquare,
					Volume:    0.4,
					Envelope:  song.Envelope{Attack: 0.01, Release: 0.02},
				},
			},
		}
		out := RenderSection(&sec)
		if len(out) == 0 {
			t.Fatal("layered section rendered no samples")
		}
		if peak := Peak(out); math.Abs(peak-1.0) > 1e-12 {
			t.Errorf("peak = %v, want 1.0", peak)
		}
	})
}
