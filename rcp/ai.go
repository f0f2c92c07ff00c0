package rcp

import (
	"n64/interrupts"
	"n64/memory"
)

// AI registers
const (
	AIDramAddr uint32 = 0x00
	AILen      uint32 = 0x04
	AIControl  uint32 = 0x08
	AIStatus   uint32 = 0x0C
	AIDacRate  uint32 = 0x10
	AIBitRate  uint32 = 0x14

	aiSize = 0x18

	// VideoClock is the NTSC VI clock the DAC rate divides
	VideoClock = 48681812
)

// AudioSink receives interleaved stereo samples from AI DMA
type AudioSink interface {
	SetSampleRate(hz int)
	Push(samples []int16)
}

// AI is the audio interface. A LEN write hands the buffer to the sink
// immediately and raises the AI interrupt, there is no DMA latency.
type AI struct {
	regBlock
	mi    *MI
	rdram *memory.BigEndian
	sink  AudioSink
}

// NewAI returns an audio interface reading samples from rdram
func NewAI(mi *MI, rdram *memory.BigEndian) *AI {
	return &AI{regBlock: newRegBlock(aiSize), mi: mi, rdram: rdram}
}

// SetSink attaches the audio output, nil drops samples
func (ai *AI) SetSink(s AudioSink) {
	ai.sink = s
}

func (ai *AI) Name() string { return "AI" }

// GetRegister returns the raw register value
func (ai *AI) GetRegister(reg uint32) uint32 { return ai.get(reg) }

// SetRegister stores v without write side effects
func (ai *AI) SetRegister(reg uint32, v uint32) { ai.set(reg, v) }

// SampleRate returns the output rate selected by DACRATE, 0 if unset
func (ai *AI) SampleRate() int {
	dac := ai.get(AIDacRate) & 0x3FFF
	if dac == 0 {
		return 0
	}
	return VideoClock / int(dac+1)
}

func (ai *AI) Read(off uint32, n int) uint64 {
	return ai.read(off, n)
}

func (ai *AI) Write(off uint32, n int, v uint64) {
	switch {
	case hits(off, n, AIStatus):
		ai.mi.Lower(interrupts.AI)
	case hits(off, n, AILen):
		ai.write(off, n, v)
		ai.dma()
	case hits(off, n, AIDacRate):
		ai.write(off, n, v)
		if ai.sink != nil && ai.SampleRate() > 0 {
			ai.sink.SetSampleRate(ai.SampleRate())
		}
	default:
		ai.write(off, n, v)
	}
}

func (ai *AI) dma() {
	length := ai.get(AILen) & 0x3FFF8
	if length == 0 {
		return
	}
	addr := ai.get(AIDramAddr) & 0xFFFFF8

	if ai.sink != nil {
		samples := make([]int16, length/2)
		for i := range samples {
			samples[i] = int16(ai.rdram.Read16(addr + uint32(2*i)))
		}
		ai.sink.Push(samples)
	}

	// consumed
	ai.set(AILen, 0)
	ai.mi.Raise(interrupts.AI)
}
