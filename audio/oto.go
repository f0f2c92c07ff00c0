//go:build !headless

package audio

import (
	"encoding/binary"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer plays AI output on the host sound device. The device runs at a
// fixed rate; pushed buffers are resampled to it by nearest neighbour.
type OtoPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	ring   *Ring
	rate   int

	srcRate int
	pos     float64

	tmp     []int16 // emulation thread
	readBuf []int16 // audio thread
	started bool
	mutex   sync.Mutex // only for setup/control operations
}

// NewOtoPlayer opens the audio device at sampleRate
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &OtoPlayer{
		ctx:     ctx,
		ring:    NewRing(sampleRate), // half a second of stereo
		rate:    sampleRate,
		srcRate: sampleRate,
	}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// SetSampleRate implements Sink
func (p *OtoPlayer) SetSampleRate(hz int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if hz > 0 {
		p.srcRate = hz
	}
}

// Push implements Sink. Runs on the emulation thread.
func (p *OtoPlayer) Push(samples []int16) {
	p.mutex.Lock()
	step := float64(p.srcRate) / float64(p.rate)
	p.mutex.Unlock()

	frames := len(samples) / 2
	out := p.tmp[:0]
	for ; p.pos < float64(frames); p.pos += step {
		i := int(p.pos) * 2
		out = append(out, samples[i], samples[i+1])
	}
	p.pos -= float64(frames)
	p.tmp = out
	p.ring.Write(out)
}

// Read is the io.Reader the device pulls from. Runs on the audio thread;
// an underrun plays silence.
func (p *OtoPlayer) Read(b []byte) (int, error) {
	if cap(p.readBuf) < len(b)/2 {
		p.readBuf = make([]int16, len(b)/2)
	}
	samples := p.readBuf[:len(b)/2]
	n := p.ring.Read(samples)
	clear(samples[n:])
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	return len(samples) * 2, nil
}

// Start begins playback
func (p *OtoPlayer) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if !p.started {
		p.player.Play()
		p.started = true
	}
}

// Close stops playback
func (p *OtoPlayer) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.started = false
	return p.player.Close()
}
