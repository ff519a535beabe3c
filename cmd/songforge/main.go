package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dygy/songforge/internal/analysis"
	"github.com/dygy/songforge/internal/config"
	"github.com/dygy/songforge/internal/edit"
	"github.com/dygy/songforge/internal/encode"
	"github.com/dygy/songforge/internal/generate"
	"github.com/dygy/songforge/internal/library"
	"github.com/dygy/songforge/internal/playback"
	"github.com/dygy/songforge/internal/progress"
	"github.com/dygy/songforge/internal/server"
	"github.com/dygy/songforge/internal/song"
	"github.com/dygy/songforge/internal/synth"
	"github.com/dygy/songforge/internal/template"
	"github.com/dygy/songforge/internal/vocals"
	"github.com/dygy/songforge/internal/wav"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "songforge",
	Short: "Generate short songs offline from genre templates",
	Long: `Songforge procedurally composes and synthesizes short musical
pieces entirely offline: genre template -> section plan -> layered
oscillator synthesis -> mixed, normalized audio.`,
	Version: version,
}

var createCmd = &cobra.Command{
	Use:   "create <style>",
	Short: "Generate a new song from a genre template",
	Long: `Generate a new song for a style key (lofi, pop, cinematic, edm,
jazz, ambient, or a user-defined template).

Examples:
  songforge create lofi
  songforge create pop --duration 20 --tempo 100 --output track
  songforge create "" --description "music for a rainy study session"`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var vocalsCmd = &cobra.Command{
	Use:   "vocals <lyrics>",
	Short: "Synthesize vocals and blend them over an ambient backing track",
	Long: `Synthesize a simple vocal line for the given lyrics, generate an
ambient backing track of matching length, and blend the two.

Examples:
  songforge vocals "hello world"
  songforge vocals "la la la" --pitch 330 --output demo`,
	Args: cobra.ExactArgs(1),
	RunE: runVocals,
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a stored song project",
	Long: `Apply post-processing transforms to a project in the library.

Subcommands:
  tempo      Change tempo (resamples the audio)
  eq         Apply a band gain profile
  rearrange  Reorder sections and re-render`,
}

var editTempoCmd = &cobra.Command{
	Use:   "tempo <id>",
	Short: "Change a project's tempo",
	Args:  cobra.ExactArgs(1),
	RunE:  runEditTempo,
}

var editEQCmd = &cobra.Command{
	Use:   "eq <id>",
	Short: "Apply an equalizer band profile",
	Long: `Apply per-band gain multipliers interpolated across the track.

Example:
  songforge edit eq 4f1c... --bands 1.2,1.0,0.8`,
	Args: cobra.ExactArgs(1),
	RunE: runEditEQ,
}

var editRearrangeCmd = &cobra.Command{
	Use:   "rearrange <id>",
	Short: "Reorder a project's sections",
	Long: `Reorder sections by a permutation of their indices and re-render.

Example:
  songforge edit rearrange 4f1c... --order 2,0,1`,
	Args: cobra.ExactArgs(1),
	RunE: runEditRearrange,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored song projects",
	RunE:  runList,
}

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show details and audio analysis for a stored project",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Play a stored project on the default audio device",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available genre templates",
	RunE:  runTemplates,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON API for generating and downloading songs.

Example:
  songforge serve --port 8080`,
	RunE: runServe,
}

var (
	flagConfig      string
	flagDescription string
	flagDuration    float64
	flagTempo       int
	flagMood        string
	flagSeed        int64
	flagOutput      string
	flagFormat      string
	flagVerbose     bool
	flagPitch       float64
	flagMix         float64
	flagBands       string
	flagOrder       string
	flagPort        int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")

	createCmd.Flags().StringVar(&flagDescription, "description", "", "Free-text description used when style is unknown")
	createCmd.Flags().Float64Var(&flagDuration, "duration", 0, "Target duration in seconds")
	createCmd.Flags().IntVar(&flagTempo, "tempo", 0, "Tempo override in BPM")
	createCmd.Flags().StringVar(&flagMood, "mood", "", "Mood override")
	createCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Random seed (same seed reproduces the same song)")
	createCmd.Flags().StringVarP(&flagOutput, "output", "o", "output", "Output path (extension added by format)")
	createCmd.Flags().StringVar(&flagFormat, "format", "wav", "Export format: wav or mp3")
	createCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose progress output")

	vocalsCmd.Flags().Float64Var(&flagPitch, "pitch", 440.0, "Vocal base pitch in Hz")
	vocalsCmd.Flags().Float64Var(&flagMix, "mix", vocals.DefaultMix, "Vocal mix level in [0,1]")
	vocalsCmd.Flags().StringVarP(&flagOutput, "output", "o", "vocals", "Output path")

	editTempoCmd.Flags().IntVar(&flagTempo, "tempo", 0, "New tempo in BPM")
	editTempoCmd.MarkFlagRequired("tempo")
	editEQCmd.Flags().StringVar(&flagBands, "bands", "", "Comma-separated band gain multipliers")
	editEQCmd.MarkFlagRequired("bands")
	editRearrangeCmd.Flags().StringVar(&flagOrder, "order", "", "Comma-separated permutation of section indices")
	editRearrangeCmd.MarkFlagRequired("order")

	serveCmd.Flags().IntVar(&flagPort, "port", 0, "Port to listen on")

	editCmd.AddCommand(editTempoCmd, editEQCmd, editRearrangeCmd)
	rootCmd.AddCommand(createCmd, vocalsCmd, editCmd, listCmd, infoCmd, playCmd, templatesCmd, serveCmd)
}

// setup loads config and opens the shared collaborators.
func setup() (config.Config, *generate.Generator, *library.Library, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, nil, err
	}

	store := template.NewStore()
	if cfg.TemplatesFile != "" {
		if err := store.LoadFile(cfg.TemplatesFile); err != nil {
			return cfg, nil, nil, err
		}
	}

	lib, err := library.Open(cfg.LibraryRoot)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, generate.New(store), lib, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, gen, lib, err := setup()
	if err != nil {
		return err
	}
	reporter := progress.NewReporter(os.Stdout, flagVerbose)

	duration := flagDuration
	if duration == 0 {
		duration = cfg.DefaultDuration
	}
	tempo := flagTempo
	if tempo == 0 {
		tempo = cfg.DefaultTempo
	}
	seed := flagSeed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}

	reporter.StartStage(progress.StageResolve)
	reporter.StartStage(progress.StagePlan)
	reporter.StartStage(progress.StageRender)
	project, err := gen.Generate(generate.Request{
		Style:       args[0],
		Description: flagDescription,
		Duration:    duration,
		Tempo:       tempo,
		Mood:        flagMood,
		Seed:        seed,
	})
	if err != nil {
		reporter.Error(err)
		return err
	}
	reporter.StageComplete("%d sections, %d samples", len(project.Sections), len(project.Audio))

	if _, err := lib.Save(project); err != nil {
		reporter.Warning("could not save project to library: %s", err)
	} else {
		reporter.Update("saved as %s", project.ID)
	}

	reporter.StartStage(progress.StageExport)
	outPath, err := encode.Export(context.Background(), project.Audio, flagOutput, flagFormat)
	if err != nil {
		reporter.Error(err)
		return err
	}

	reporter.Done(project.Title, outPath)
	return nil
}

func runVocals(cmd *cobra.Command, args []string) error {
	_, gen, _, err := setup()
	if err != nil {
		return err
	}

	vocalTrack := vocals.Synthesize(args[0], flagPitch)
	if len(vocalTrack) == 0 {
		return fmt.Errorf("no vocals produced: lyrics are empty")
	}

	backing, err := gen.Generate(generate.Request{
		Style:    "ambient",
		Duration: float64(len(vocalTrack)) / synth.SampleRate,
		Seed:     time.Now().UnixNano(),
	})
	if err != nil {
		return err
	}
	vocals.Blend(backing, vocalTrack, flagMix)

	outPath := flagOutput
	if !strings.HasSuffix(outPath, ".wav") {
		outPath += ".wav"
	}
	if err := wav.WriteFile(outPath, backing.Audio); err != nil {
		return err
	}
	fmt.Printf("Generated backing track with vocals -> %s\n", outPath)
	return nil
}

// editProject loads a project, applies one transform, and saves it back.
func editProject(id string, apply func(editor edit.Editor, p *song.SongProject) error) error {
	_, _, lib, err := setup()
	if err != nil {
		return err
	}
	project, err := lib.Load(id)
	if err != nil {
		return err
	}

	if err := apply(edit.Editor{}, project); err != nil {
		return err
	}

	if _, err := lib.Save(project); err != nil {
		return err
	}
	fmt.Printf("Updated %q (%s)\n", project.Title, project.ID)
	return nil
}

func runEditTempo(cmd *cobra.Command, args []string) error {
	return editProject(args[0], func(editor edit.Editor, p *song.SongProject) error {
		_, err := editor.AdjustTempo(p, flagTempo)
		return err
	})
}

func runEditEQ(cmd *cobra.Command, args []string) error {
	bands, err := parseFloats(flagBands)
	if err != nil {
		return err
	}
	return editProject(args[0], func(editor edit.Editor, p *song.SongProject) error {
		_, err := editor.Equalize(p, bands)
		return err
	})
}

func runEditRearrange(cmd *cobra.Command, args []string) error {
	order, err := parseInts(flagOrder)
	if err != nil {
		return err
	}
	return editProject(args[0], func(editor edit.Editor, p *song.SongProject) error {
		_, err := editor.Rearrange(p, order)
		return err
	})
}

func runList(cmd *cobra.Command, args []string) error {
	_, _, lib, err := setup()
	if err != nil {
		return err
	}
	entries, err := lib.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-40s %-10s %3d bpm  %d sections\n", e.ID, e.Title, e.Genre, e.Tempo, e.Sections)
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	_, _, lib, err := setup()
	if err != nil {
		return err
	}
	project, err := lib.Load(args[0])
	if err != nil {
		return err
	}

	result := analysis.Analyze(project.Audio)
	fmt.Printf("Title:     %s\n", project.Title)
	fmt.Printf("Genre:     %s (%s)\n", project.Genre, project.Mood)
	fmt.Printf("Tempo:     %d bpm\n", project.Tempo)
	fmt.Printf("Duration:  %.1f s (%d samples)\n", result.Duration, len(project.Audio))
	fmt.Printf("Peak:      %.3f   RMS: %.3f   Dominant: %.1f Hz\n", result.Peak, result.RMS, result.DominantHz)
	fmt.Println("Sections:")
	for i, sec := range project.Sections {
		fmt.Printf("  %2d. %-12s %5.1f s  %d layers\n", i, sec.Name, sec.Duration, len(sec.Layers))
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	_, _, lib, err := setup()
	if err != nil {
		return err
	}
	project, err := lib.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Playing %q (%.1f s)...\n", project.Title, float64(len(project.Audio))/synth.SampleRate)
	return playback.Play(project.Audio)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	_, gen, _, err := setup()
	if err != nil {
		return err
	}
	store := gen.Store()
	for _, key := range store.Keys() {
		tmpl, _ := store.Get(key)
		fmt.Printf("%-10s %-10s %3d bpm  mood=%s  sections=%s\n",
			key, tmpl.Genre, tmpl.Tempo, tmpl.Mood, strings.Join(tmpl.Sections, ","))
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, gen, lib, err := setup()
	if err != nil {
		return err
	}
	port := flagPort
	if port == 0 {
		port = cfg.Port
	}
	return server.New(server.Config{Port: port}, gen, lib).Run()
}

func parseFloats(csv string) ([]float64, error) {
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func parseInts(csv string) ([]int, error) {
	parts := strings.Split(csv, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
