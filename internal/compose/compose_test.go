package compose

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/dygy/songforge/internal/template"
)

func TestPlanSections(t *testing.T) {
	store := template.NewStore()
	lofi, _ := store.Get("lofi")

	t.Run("FillsRequestedDuration", func(t *testing.T) {
		sections := PlanSections(lofi, 30.0, lofi.Tempo, rand.New(rand.NewSource(42)))
		if len(sections) == 0 {
			t.Fatal("no sections planned")
		}
		total := 0.0
		for _, sec := range sections {
			total += sec.Duration
		}
		if math.Abs(total-30.0) > 1e-9 {
			t.Errorf("section durations sum to %v, want 30.0", total)
		}
	})

	t.Run("SectionNamesComeFromTemplate", func(t *testing.T) {
		valid := make(map[string]bool)
		for _, name := range lofi.Sections {
			valid[name] = true
		}
		for _, sec := range PlanSections(lofi, 20.0, lofi.Tempo, rand.New(rand.NewSource(7))) {
			if !valid[sec.Name] {
				t.Errorf("section name %q not in template", sec.Name)
			}
		}
	})

	t.Run("DefaultPresetsWhenTemplateHasNone", func(t *testing.T) {
		sections := PlanSections(lofi, 10.0, lofi.Tempo, rand.New(rand.NewSource(1)))
		want := len(template.DefaultPresets())
		for _, sec := range sections {
			if len(sec.Layers) != want {
				t.Errorf("section %q has %d layers, want %d", sec.Name, len(sec.Layers), want)
			}
		}
	})

	t.Run("LayerScheduleFillsSectionExactly", func(t *testing.T) {
		for _, sec := range PlanSections(lofi, 15.0, lofi.Tempo, rand.New(rand.NewSource(3))) {
			for _, layer := range sec.Layers {
				if len(layer.Notes) != len(layer.Durations) {
					t.Fatalf("layer %q: %d notes vs %d durations", layer.Name, len(layer.Notes), len(layer.Durations))
				}
				total := 0.0
				for _, d := range layer.Durations {
					if d <= 0 {
						t.Fatalf("layer %q has non-positive duration %v", layer.Name, d)
					}
					total += d
				}
				if math.Abs(total-sec.Duration) > 1e-9 {
					t.Errorf("layer %q fills %v of a %v section", layer.Name, total, sec.Duration)
				}
			}
		}
	})

	t.Run("QuarterBeatFloor", func(t *testing.T) {
		beat := 60.0 / float64(lofi.Tempo)
		for _, sec := range PlanSections(lofi, 12.0, lofi.Tempo, rand.New(rand.NewSource(9))) {
			for _, layer := range sec.Layers {
				// Every step but the clipped last one respects the floor.
				for i, d := range layer.Durations[:len(layer.Durations)-1] {
					if d < beat/4-1e-9 {
						t.Errorf("layer %q step %d = %v, below quarter-beat floor %v", layer.Name, i, d, beat/4)
					}
				}
			}
		}
	})

	t.Run("LeadNotesDeriveFromFirstLayer", func(t *testing.T) {
		for _, sec := range PlanSections(lofi, 10.0, lofi.Tempo, rand.New(rand.NewSource(5))) {
			first := sec.Layers[0]
			if len(sec.LeadNotes) != len(first.Notes) {
				t.Fatalf("lead notes %d vs first layer notes %d", len(sec.LeadNotes), len(first.Notes))
			}
			for i, note := range first.Notes {
				want := 0.0
				if note != nil {
					want = *note
				}
				if sec.LeadNotes[i] != want {
					t.Errorf("lead note %d = %v, want %v", i, sec.LeadNotes[i], want)
				}
			}
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		a := PlanSections(lofi, 18.0, lofi.Tempo, rand.New(rand.NewSource(11)))
		b := PlanSections(lofi, 18.0, lofi.Tempo, rand.New(rand.NewSource(11)))
		if !reflect.DeepEqual(a, b) {
			t.Error("same seed produced different plans")
		}
	})

	t.Run("OctaveShiftHalvesBassFrequencies", func(t *testing.T) {
		sections := PlanSections(lofi, 8.0, lofi.Tempo, rand.New(rand.NewSource(2)))
		maxScale := 0.0
		for _, f := range lofi.Scale {
			if f > maxScale {
				maxScale = f
			}
		}
		for _, sec := range sections {
			for _, layer := range sec.Layers {
				if layer.Name != "bass" {
					continue
				}
				for _, note := range layer.Notes {
					if note != nil && *note > maxScale/2+1e-9 {
						t.Errorf("bass note %v above shifted range", *note)
					}
				}
			}
		}
	})
}
