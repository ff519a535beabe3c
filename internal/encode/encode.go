// Package encode exports project audio to disk. WAV export is handled
// in-process; lossy formats are delegated to an external encoder found on
// PATH, surfacing ErrEncoderNotInstalled when none is available.
package encode

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dygy/songforge/internal/errors"
	"github.com/dygy/songforge/internal/wav"
)

// Export writes samples to path in the requested format ("wav" or "mp3")
// and returns the final output path with the proper extension.
func Export(ctx context.Context, samples []float64, path, format string) (string, error) {
	switch strings.ToLower(format) {
	case "wav", "":
		out := withExt(path, ".wav")
		if err := writeWAV(out, samples); err != nil {
			return "", err
		}
		return out, nil
	case "mp3":
		out := withExt(path, ".mp3")
		if err := exportMP3(ctx, samples, out); err != nil {
			return "", err
		}
		return out, nil
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, format)
}

func writeWAV(path string, samples []float64) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return wav.WriteFile(path, samples)
}

// exportMP3 writes a temporary WAV and hands it to the first encoder
// found on PATH.
func exportMP3(ctx context.Context, samples []float64, outPath string) error {
	tool, args := findEncoder()
	if tool == "" {
		return errors.ErrEncoderNotInstalled
	}

	tmp, err := os.CreateTemp("", "songforge-*.wav")
	if err != nil {
		return fmt.Errorf("create temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := writeWAV(tmpPath, samples); err != nil {
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	full := make([]string, 0, len(args)+2)
	for _, a := range args {
		switch a {
		case "{in}":
			full = append(full, tmpPath)
		case "{out}":
			full = append(full, outPath)
		default:
			full = append(full, a)
		}
	}

	cmd := exec.CommandContext(ctx, tool, full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return errors.NewEncodeError(filepath.Base(tool), exitCode, strings.TrimSpace(stderr.String()), err)
	}
	return nil
}

// findEncoder returns the first available external encoder and its
// argument template.
func findEncoder() (string, []string) {
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, []string{"-y", "-i", "{in}", "-codec:a", "libmp3lame", "-qscale:a", "2", "{out}"}
	}
	if path, err := exec.LookPath("lame"); err == nil {
		return path, []string{"--quiet", "{in}", "{out}"}
	}
	return "", nil
}

func withExt(path, ext string) string {
	if cur := filepath.Ext(path); cur != "" {
		return strings.TrimSuffix(path, cur) + ext
	}
	return path + ext
}
