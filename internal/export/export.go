// Package export renders the key scale to WAV files so players can
// preview or reuse the tones outside the game.
package export

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/cbarrett/pitchback/internal/synth"
)

// WriteScale renders one WAV file per key frequency into dir, named
// key_01.wav, key_02.wav, and so on. toneDur is the rendered length and
// targetRate the output sample rate; rates other than the synthesis rate
// go through a polyphase FIR resample.
func WriteScale(dir string, freqs []float64, toneDur time.Duration, targetRate int) error {
	if len(freqs) == 0 {
		return fmt.Errorf("no frequencies to export")
	}
	if targetRate <= 0 {
		return fmt.Errorf("invalid target sample rate %d", targetRate)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for i, freq := range freqs {
		samples := Quantize(synth.Render(freq, toneDur))
		if len(samples) == 0 {
			return fmt.Errorf("key %d: nothing rendered for %.2f Hz", i+1, freq)
		}

		if targetRate != synth.SampleRate {
			resampled, err := Resample(samples, synth.SampleRate, float64(targetRate))
			if err != nil {
				return fmt.Errorf("key %d: %w", i+1, err)
			}
			samples = resampled
		}

		data, err := EncodeWAV(samples, targetRate)
		if err != nil {
			return fmt.Errorf("key %d: %w", i+1, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("key_%02d.wav", i+1))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// Quantize converts normalized float64 samples to int16 PCM.
func Quantize(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, f := range samples {
		v := f * 32768.0
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(math.Round(v))
	}
	return out
}

// Resample converts PCM int16 samples from inputRate to outputRate using
// polyphase FIR filtering with a Kaiser window.
func Resample(samples []int16, inputRate, outputRate float64) ([]int16, error) {
	if inputRate == outputRate || len(samples) == 0 {
		return samples, nil
	}

	floats := make([]float64, len(samples))
	for i, s := range samples {
		floats[i] = float64(s) / 32768.0
	}

	resampled, err := resampling.ResampleMono(floats, inputRate, outputRate, resampling.QualityLow)
	if err != nil {
		return nil, fmt.Errorf("resample mono: %w", err)
	}

	return Quantize(resampled), nil
}

// writeSeeker is an in-memory io.WriteSeeker for WAV encoding.
type writeSeeker struct {
	buf []byte
	pos int
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	end := ws.pos + len(p)
	if end > len(ws.buf) {
		ws.buf = append(ws.buf, make([]byte, end-len(ws.buf))...)
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos = end
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case 0: // io.SeekStart
		newPos = int(offset)
	case 1: // io.SeekCurrent
		newPos = ws.pos + int(offset)
	case 2: // io.SeekEnd
		newPos = len(ws.buf) + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if newPos < 0 || newPos > len(ws.buf) {
		return 0, fmt.Errorf("seek position %d out of bounds [0, %d]", newPos, len(ws.buf))
	}
	ws.pos = newPos
	return int64(ws.pos), nil
}

// EncodeWAV encodes mono int16 PCM samples to WAV format in memory.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	ws := &writeSeeker{}

	intBuf := &audio.IntBuffer{
		Data: make([]int, len(samples)),
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		intBuf.Data[i] = int(s)
	}

	enc := wav.NewEncoder(ws, sampleRate, 16, 1, 1)
	if err := enc.Write(intBuf); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}

	return ws.buf, nil
}

// DecodeWAV reads a WAV file from bytes and returns the samples and
// sample rate.
func DecodeWAV(data []byte) ([]int16, int, error) {
	reader := bytes.NewReader(data)
	dec := wav.NewDecoder(reader)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid WAV file")
	}

	pcmBuf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav: %w", err)
	}

	samples := make([]int16, len(pcmBuf.Data))
	for i, v := range pcmBuf.Data {
		samples[i] = int16(v)
	}

	return samples, int(dec.SampleRate), nil
}
