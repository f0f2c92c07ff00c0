package rcp

import (
	"n64/interrupts"
)

// MI registers
const (
	MIMode     uint32 = 0x00
	MIVersion  uint32 = 0x04
	MIIntr     uint32 = 0x08
	MIIntrMask uint32 = 0x0C

	miSize = 0x10

	// MIVersionValue is what the RCP reports on real hardware
	MIVersionValue uint32 = 0x02020102
)

// MODE write bits
const (
	miModeInitLen     = 0x7F
	miModeClearInit   = 1 << 7
	miModeSetInit     = 1 << 8
	miModeClearEbus   = 1 << 9
	miModeSetEbus     = 1 << 10
	miModeClearDP     = 1 << 11
	miModeClearRDRAM  = 1 << 12
	miModeSetRDRAM    = 1 << 13
	miModeInitBit     = 1 << 7
	miModeEbusBit     = 1 << 8
	miModeRDRAMRegBit = 1 << 9
)

// InterruptLine is the CPU side of the MI output: COP0 Cause IP2
type InterruptLine interface {
	SetInterruptLine(asserted bool)
}

// MI is the MIPS interface, the interrupt controller of the RCP.
// Devices raise and lower their flag in the pending register, the
// controller forwards (pending & mask) != 0 to the cpu.
type MI struct {
	regBlock
	line InterruptLine
}

// NewMI returns an interrupt controller with everything masked
func NewMI() *MI {
	mi := &MI{regBlock: newRegBlock(miSize)}
	mi.set(MIVersion, MIVersionValue)
	return mi
}

// Connect attaches the cpu interrupt input and syncs it
func (mi *MI) Connect(line InterruptLine) {
	mi.line = line
	mi.update()
}

func (mi *MI) Name() string { return "MI" }

// Pending returns the interrupt pending register
func (mi *MI) Pending() interrupts.Flag {
	return interrupts.Flag(mi.get(MIIntr))
}

// Mask returns the interrupt mask register
func (mi *MI) Mask() interrupts.Flag {
	return interrupts.Flag(mi.get(MIIntrMask))
}

// Raise sets device flags in the pending register
func (mi *MI) Raise(f interrupts.Flag) {
	mi.set(MIIntr, uint32(mi.Pending()|f))
	mi.update()
}

// Lower clears device flags in the pending register
func (mi *MI) Lower(f interrupts.Flag) {
	mi.set(MIIntr, uint32(mi.Pending()&^f))
	mi.update()
}

// Asserted reports the aggregate interrupt output
func (mi *MI) Asserted() bool {
	return mi.Pending()&mi.Mask() != 0
}

func (mi *MI) update() {
	if mi.line != nil {
		mi.line.SetInterruptLine(mi.Asserted())
	}
}

// GetRegister returns the raw register value
func (mi *MI) GetRegister(reg uint32) uint32 {
	return mi.get(reg)
}

// SetRegister stores v without write side effects. The interrupt line is
// recomputed when pending or mask changed.
func (mi *MI) SetRegister(reg uint32, v uint32) {
	mi.set(reg, v)
	if reg == MIIntr || reg == MIIntrMask {
		mi.update()
	}
}

func (mi *MI) Read(off uint32, n int) uint64 {
	return mi.read(off, n)
}

func (mi *MI) Write(off uint32, n int, v uint64) {
	switch {
	case hits(off, n, MIMode):
		mi.writeMode(mi.merged(MIMode, off, n, v))
	case hits(off, n, MIIntrMask):
		mi.writeMask(mi.merged(MIIntrMask, off, n, v))
	}
	// VERSION and INTR are read only
}

func (mi *MI) writeMode(v uint32) {
	mode := mi.get(MIMode)&^miModeInitLen | v&miModeInitLen
	mode = clearSet(mode, v, miModeClearInit, miModeSetInit, miModeInitBit)
	mode = clearSet(mode, v, miModeClearEbus, miModeSetEbus, miModeEbusBit)
	mode = clearSet(mode, v, miModeClearRDRAM, miModeSetRDRAM, miModeRDRAMRegBit)
	mi.set(MIMode, mode)

	if v&miModeClearDP != 0 {
		mi.Lower(interrupts.DP)
	}
}

// mask writes come in clear/set pairs, one per device, in flag order
func (mi *MI) writeMask(v uint32) {
	mask := mi.get(MIIntrMask)
	for i := uint(0); i < 6; i++ {
		mask = clearSet(mask, v, 1<<(2*i), 1<<(2*i+1), 1<<i)
	}
	mi.set(MIIntrMask, mask)
	mi.update()
}

// clearSet applies a clear/set bit pair from a written value to bit in reg.
// Both set at once leaves the bit alone.
func clearSet(reg, written, clear, set, bit uint32) uint32 {
	c, s := written&clear != 0, written&set != 0
	switch {
	case c && !s:
		return reg &^ bit
	case s && !c:
		return reg | bit
	}
	return reg
}
