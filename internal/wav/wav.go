// Package wav is the thin format adapter between the engine's float
// buffers and mono 16-bit PCM WAV files. Samples quantize as
// round(sample * 32767); everything else in the engine stays float.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dygy/songforge/internal/synth"
)

const (
	numChannels   = 1
	bitsPerSample = 16
)

// Encode writes samples as a standard mono 44.1kHz 16-bit PCM WAV stream.
func Encode(w io.Writer, samples []float64) error {
	dataLen := len(samples) * 2
	byteRate := synth.SampleRate * numChannels * bitsPerSample / 8

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], synth.SampleRate)
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], numChannels*bitsPerSample/8)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}

	pcm := make([]byte, dataLen)
	for i, s := range samples {
		v := math.Round(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v)))
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	return nil
}

// WriteFile writes samples to path as a WAV file.
func WriteFile(path string, samples []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	if err := Encode(f, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile loads a mono 16-bit PCM WAV file back into float samples in
// [-1, 1]. Used for loading externally recorded vocal takes.
func ReadFile(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wav file: %w", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%s: not a RIFF/WAVE file", path)
	}

	// Walk chunks until the data chunk.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			size = len(data) - body
		}
		if id == "data" {
			samples := make([]float64, size/2)
			for i := range samples {
				v := int16(binary.LittleEndian.Uint16(data[body+i*2:]))
				samples[i] = float64(v) / 32767.0
			}
			return samples, nil
		}
		off = body + size
		if size%2 == 1 {
			off++ // chunk bodies are word aligned
		}
	}
	return nil, fmt.Errorf("%s: no data chunk found", path)
}
