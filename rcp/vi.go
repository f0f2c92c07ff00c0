package rcp

import (
	"n64/interrupts"
)

// VI registers
const (
	VIStatus   uint32 = 0x00
	VIOrigin   uint32 = 0x04
	VIWidth    uint32 = 0x08
	VIVIntr    uint32 = 0x0C
	VIVCurrent uint32 = 0x10
	VIBurst    uint32 = 0x14
	VIVSync    uint32 = 0x18
	VIHSync    uint32 = 0x1C
	VILeap     uint32 = 0x20
	VIHStart   uint32 = 0x24
	VIVStart   uint32 = 0x28
	VIVBurst   uint32 = 0x2C
	VIXScale   uint32 = 0x30
	VIYScale   uint32 = 0x34

	viSize = 0x38

	// half-lines per NTSC frame, used until V_SYNC is programmed
	viDefaultVSync = 525
)

// VI is the video interface. Only the timing side is modelled: the
// framebuffer registers are plain storage for an external renderer.
type VI struct {
	regBlock
	mi *MI

	// Frames counts V_SYNC wraps
	Frames uint64
}

// NewVI returns a video interface raising its interrupt through mi
func NewVI(mi *MI) *VI {
	vi := &VI{regBlock: newRegBlock(viSize), mi: mi}
	vi.Reset()
	return vi
}

// Reset puts V_INTR out of reach, the way the hardware comes up
func (vi *VI) Reset() {
	vi.mem.Clear()
	vi.set(VIVIntr, 0x3FF)
	vi.Frames = 0
}

func (vi *VI) Name() string { return "VI" }

// GetRegister returns the raw register value
func (vi *VI) GetRegister(reg uint32) uint32 { return vi.get(reg) }

// SetRegister stores v without write side effects
func (vi *VI) SetRegister(reg uint32, v uint32) { vi.set(reg, v) }

func (vi *VI) Read(off uint32, n int) uint64 {
	return vi.read(off, n)
}

func (vi *VI) Write(off uint32, n int, v uint64) {
	if hits(off, n, VIVCurrent) {
		// any write acknowledges the interrupt, the counter keeps running
		vi.mi.Lower(interrupts.VI)
		return
	}
	vi.write(off, n, v)
}

// Tick advances the beam by one half-line
func (vi *VI) Tick() {
	vsync := vi.get(VIVSync) & 0x3FF
	if vsync == 0 {
		vsync = viDefaultVSync
	}

	cur := vi.get(VIVCurrent) + 1
	if cur >= vsync {
		cur = 0
		vi.Frames++
	}
	vi.set(VIVCurrent, cur)

	if cur == vi.get(VIVIntr)&0x3FF {
		vi.mi.Raise(interrupts.VI)
	}
}

// Framebuffer returns the origin and width registers for a renderer
func (vi *VI) Framebuffer() (origin uint32, width uint32) {
	return vi.get(VIOrigin) & 0xFFFFFF, vi.get(VIWidth) & 0xFFF
}
