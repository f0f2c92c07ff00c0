package rcp

// RI registers
const (
	RIMode        uint32 = 0x00
	RIConfig      uint32 = 0x04
	RICurrentLoad uint32 = 0x08
	RISelect      uint32 = 0x0C
	RIRefresh     uint32 = 0x10
	RILatency     uint32 = 0x14
	RIRError      uint32 = 0x18
	RIWError      uint32 = 0x1C

	riSize = 0x20
)

// RI is the RDRAM interface. Values match an already initialised memory
// subsystem so IPL3 skips RDRAM probing.
type RI struct {
	regBlock
}

// NewRI returns an initialised RDRAM interface
func NewRI() *RI {
	ri := &RI{regBlock: newRegBlock(riSize)}
	ri.Reset()
	return ri
}

// Reset restores post-IPL values
func (ri *RI) Reset() {
	ri.mem.Clear()
	ri.set(RIMode, 0x0E)
	ri.set(RIConfig, 0x40)
	ri.set(RISelect, 0x14)
	ri.set(RIRefresh, 0x00063634)
}

func (ri *RI) Name() string { return "RI" }

// GetRegister returns the raw register value
func (ri *RI) GetRegister(reg uint32) uint32 { return ri.get(reg) }

// SetRegister stores v without write side effects
func (ri *RI) SetRegister(reg uint32, v uint32) { ri.set(reg, v) }

func (ri *RI) Read(off uint32, n int) uint64 {
	if hits(off, n, RIWError) {
		// write only
		return 0
	}
	return ri.read(off, n)
}

func (ri *RI) Write(off uint32, n int, v uint64) {
	switch {
	case hits(off, n, RIRError):
		// read only
	case hits(off, n, RIWError):
		ri.set(RIRError, 0)
	default:
		ri.write(off, n, v)
	}
}
