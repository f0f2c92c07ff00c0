package rcp

// RDRAM configuration registers of module 0
const (
	RDRAMConfig      uint32 = 0x00
	RDRAMDeviceID    uint32 = 0x04
	RDRAMDelay       uint32 = 0x08
	RDRAMMode        uint32 = 0x0C
	RDRAMRefInterval uint32 = 0x10
	RDRAMRefRow      uint32 = 0x14
	RDRAMRasInterval uint32 = 0x18
	RDRAMMinInterval uint32 = 0x1C
	RDRAMAddrSelect  uint32 = 0x20
	RDRAMDeviceManuf uint32 = 0x24

	rdramRegSize = 0x28
)

// RDRAMRegs is plain storage, there is no timing to configure
type RDRAMRegs struct {
	regBlock
}

// NewRDRAMRegs returns a zeroed register window
func NewRDRAMRegs() *RDRAMRegs {
	return &RDRAMRegs{regBlock: newRegBlock(rdramRegSize)}
}

func (r *RDRAMRegs) Name() string { return "RDRAM" }

// GetRegister returns the raw register value
func (r *RDRAMRegs) GetRegister(reg uint32) uint32 { return r.get(reg) }

// SetRegister stores v
func (r *RDRAMRegs) SetRegister(reg uint32, v uint32) { r.set(reg, v) }

func (r *RDRAMRegs) Read(off uint32, n int) uint64 { return r.read(off, n) }

func (r *RDRAMRegs) Write(off uint32, n int, v uint64) { r.write(off, n, v) }
