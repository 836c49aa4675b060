// Package synth renders the piano-ish tone used for every key: a short
// stack of weighted sine harmonics shaped by an attack/decay envelope.
package synth

import (
	"math"
	"time"
)

// SampleRate is the fixed output rate for all rendered tones (mono).
const SampleRate = 44100

// harmonicAmps weights the partials at 1x, 2x, 3x, 4x the fundamental.
var harmonicAmps = [4]float64{1.0, 0.3, 0.15, 0.08}

// ampSum normalizes the summed partials so peak loudness does not depend
// on the harmonic count (1.0 + 0.3 + 0.15 + 0.08).
const ampSum = 1.53

const (
	attackDuration = 0.02 // seconds
	attackRate     = 3.0
	decayRate      = 0.8
	masterGain     = 0.3
)

// Render synthesizes a tone at the given fundamental frequency as mono
// float64 samples in [-1, 1] at SampleRate. Returns nil for non-positive
// frequency or duration.
func Render(freq float64, d time.Duration) []float64 {
	if freq <= 0 || d <= 0 {
		return nil
	}

	dur := d.Seconds()
	n := int(SampleRate * dur)
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	for i := range out {
		t := float64(i) / SampleRate

		var s float64
		for h, amp := range harmonicAmps {
			s += amp * math.Sin(2*math.Pi*freq*float64(h+1)*t)
		}
		s /= ampSum

		// Fast exponential rise, then a gentle decay that leaves the
		// tail audible rather than fading to silence.
		var env float64
		if t < attackDuration {
			env = 1 - math.Exp(-(t/attackDuration)*attackRate)
		} else {
			env = math.Exp(-((t - attackDuration) / (dur - attackDuration)) * decayRate)
		}

		s *= env * masterGain
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = s
	}
	return out
}
