//go:build headless

package audio

import "errors"

// OtoPlayer is not available in headless builds
type OtoPlayer struct{}

// NewOtoPlayer always fails in headless builds
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return nil, errors.New("audio output not built in (headless)")
}

// SetSampleRate implements Sink
func (p *OtoPlayer) SetSampleRate(hz int) {}

// Push implements Sink
func (p *OtoPlayer) Push(samples []int16) {}

// Start does nothing
func (p *OtoPlayer) Start() {}

// Close does nothing
func (p *OtoPlayer) Close() error { return nil }
