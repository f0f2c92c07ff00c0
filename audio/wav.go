package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavWriter captures everything pushed to it into a WAV file. Samples are
// buffered in memory and written on Close, so it suits short captures.
type WavWriter struct {
	filename string
	rate     int
	buffer   []int
}

// NewWavWriter records to filename
func NewWavWriter(filename string) *WavWriter {
	return &WavWriter{filename: filename, rate: 44100}
}

// SetSampleRate implements Sink. The file gets the rate set last.
func (w *WavWriter) SetSampleRate(hz int) {
	if hz > 0 {
		w.rate = hz
	}
}

// Push implements Sink
func (w *WavWriter) Push(samples []int16) {
	for _, s := range samples {
		w.buffer = append(w.buffer, int(s))
	}
}

// Samples returns the number of samples captured so far
func (w *WavWriter) Samples() int {
	return len(w.buffer)
}

// Close encodes the capture to disk
func (w *WavWriter) Close() (rerr error) {
	f, err := os.Create(w.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, w.rate, 16, 2, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: w.rate},
		Data:           w.buffer,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	return nil
}
