// Package playback previews rendered buffers on the default audio device.
package playback

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/dygy/songforge/internal/synth"
)

var initOnce sync.Once

// Play streams the buffer to the speaker and blocks until it finishes.
func Play(samples []float64) error {
	var initErr error
	initOnce.Do(func() {
		sr := beep.SampleRate(synth.SampleRate)
		initErr = speaker.Init(sr, sr.N(time.Millisecond*100))
	})
	if initErr != nil {
		return initErr
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(&bufferStreamer{samples: samples}, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}

// bufferStreamer adapts a mono float buffer to beep's stereo stream.
type bufferStreamer struct {
	samples []float64
	pos     int
}

func (b *bufferStreamer) Stream(out [][2]float64) (int, bool) {
	if b.pos >= len(b.samples) {
		return 0, false
	}
	n := 0
	for i := range out {
		if b.pos >= len(b.samples) {
			break
		}
		v := b.samples[b.pos]
		out[i][0] = v
		out[i][1] = v
		b.pos++
		n++
	}
	return n, true
}

func (b *bufferStreamer) Err() error {
	return nil
}
