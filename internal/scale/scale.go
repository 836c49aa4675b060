// Package scale derives the equal-temperament frequency table supplied to
// the game for a chosen key count.
package scale

import "math"

// DefaultBaseFrequency is middle C (C4).
const DefaultBaseFrequency = 261.63

// Modes supported by Frequencies.
const (
	ModeMajor     = "major"
	ModeChromatic = "chromatic"
)

// majorSteps are the semitone offsets of the major scale within one octave.
var majorSteps = [7]int{0, 2, 4, 5, 7, 9, 11}

// Frequencies returns keyCount ascending frequencies in Hz starting at
// base, spaced by equal temperament. Mode "major" walks the major scale;
// anything else is treated as chromatic. Returns nil if keyCount or base
// is non-positive.
func Frequencies(keyCount int, base float64, mode string) []float64 {
	if keyCount <= 0 || base <= 0 {
		return nil
	}

	out := make([]float64, keyCount)
	for i := range out {
		semitone := i
		if mode == ModeMajor {
			semitone = (i/7)*12 + majorSteps[i%7]
		}
		out[i] = base * math.Pow(2, float64(semitone)/12)
	}
	return out
}
