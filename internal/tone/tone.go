// Package tone plays synthesized key tones on the shared speaker mixer.
package tone

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/cbarrett/pitchback/internal/synth"
)

// Generator synthesizes and plays tones. The speaker is initialized
// lazily on first play; if initialization fails the generator stays
// silent and never surfaces the error to callers.
type Generator struct {
	enabled  bool
	logger   *log.Logger
	initOnce sync.Once
	initErr  error
}

// New creates a Generator. If enabled is false, all playback is a no-op.
func New(enabled bool, logger *log.Logger) *Generator {
	return &Generator{enabled: enabled, logger: logger}
}

func (g *Generator) initSpeaker() error {
	g.initOnce.Do(func() {
		sr := beep.SampleRate(synth.SampleRate)
		g.initErr = speaker.Init(sr, sr.N(time.Second/10))
		// The result is permanent, so report a failure once rather
		// than on every tone request.
		if g.initErr != nil && g.logger != nil {
			g.logger.Printf("tone: speaker init error, staying silent: %v", g.initErr)
		}
	})
	return g.initErr
}

// monoStreamer streams pre-rendered mono samples to both channels.
type monoStreamer struct {
	data []float64
	pos  int
}

func (s *monoStreamer) Stream(out [][2]float64) (int, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	n := 0
	for i := range out {
		if s.pos >= len(s.data) {
			break
		}
		v := s.data[s.pos]
		out[i][0] = v
		out[i][1] = v
		s.pos++
		n++
	}
	return n, true
}

func (s *monoStreamer) Err() error { return nil }

// play enqueues a tone on the mixer. It returns a channel closed when the
// tone has finished rendering, or nil when nothing was enqueued (disabled,
// bad arguments, or a dead speaker).
func (g *Generator) play(freq float64, d time.Duration) <-chan struct{} {
	if !g.enabled {
		return nil
	}

	samples := synth.Render(freq, d)
	if samples == nil {
		return nil
	}

	if g.initSpeaker() != nil {
		return nil
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(&monoStreamer{data: samples}, beep.Callback(func() {
		close(done)
	})))
	return done
}

// PlayTone synthesizes and plays a tone without blocking the caller.
func (g *Generator) PlayTone(freq float64, d time.Duration) {
	g.play(freq, d)
}

// PlayToneWait plays a tone and blocks until it has finished rendering or
// ctx is cancelled. When audio is unavailable but the request was valid,
// it sleeps for the tone duration instead, so timed cue sequences keep
// their pacing with or without sound.
func (g *Generator) PlayToneWait(ctx context.Context, freq float64, d time.Duration) {
	if done := g.play(freq, d); done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
		return
	}

	if freq <= 0 || d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
