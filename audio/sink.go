// Package audio takes the sample buffers AI DMA hands out and plays or
// records them. Samples are interleaved stereo, signed 16 bit.
package audio

// Sink receives AI DMA buffers. It satisfies rcp.AudioSink.
type Sink interface {
	SetSampleRate(hz int)
	Push(samples []int16)
}

// Multi fans samples out to several sinks
type Multi []Sink

// SetSampleRate implements Sink
func (m Multi) SetSampleRate(hz int) {
	for _, s := range m {
		s.SetSampleRate(hz)
	}
}

// Push implements Sink
func (m Multi) Push(samples []int16) {
	for _, s := range m {
		s.Push(samples)
	}
}
