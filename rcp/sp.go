package rcp

import (
	"n64/interrupts"
	"n64/memory"
)

// SP registers, relative to 0x04040000
const (
	SPMemAddr   uint32 = 0x00
	SPDramAddr  uint32 = 0x04
	SPRdLen     uint32 = 0x08
	SPWrLen     uint32 = 0x0C
	SPStatus    uint32 = 0x10
	SPDmaFull   uint32 = 0x14
	SPDmaBusy   uint32 = 0x18
	SPSemaphore uint32 = 0x1C
	SPPC        uint32 = 0x40000
	SPIBist     uint32 = 0x40004

	spSize = 0x20

	// SPWindow is the span of the SP register window on the bus
	SPWindow = 0x80000

	// SPMemSize is the size of each of DMEM and IMEM
	SPMemSize = 0x1000
)

// SP STATUS read bits
const (
	SPStatusHalt      = 1 << 0
	SPStatusBroke     = 1 << 1
	SPStatusSStep     = 1 << 5
	SPStatusIntrBreak = 1 << 6
	spStatusSig0      = 7
)

// SP is the register side of the RSP. The vector unit does not run: a
// task started by clearing HALT completes at once, setting BROKE and
// raising the SP interrupt if interrupt-on-break is on.
type SP struct {
	regBlock
	mi    *MI
	rdram *memory.BigEndian
	dmem  *memory.BigEndian
	imem  *memory.BigEndian
	pc    uint32

	// Tasks counts halt-clear writes
	Tasks uint64
}

// NewSP returns a halted RSP with its DMA engine between rdram and the two
// scratchpads
func NewSP(mi *MI, rdram, dmem, imem *memory.BigEndian) *SP {
	sp := &SP{regBlock: newRegBlock(spSize), mi: mi, rdram: rdram, dmem: dmem, imem: imem}
	sp.set(SPStatus, SPStatusHalt)
	return sp
}

func (sp *SP) Name() string { return "SP" }

// GetRegister returns the raw register value
func (sp *SP) GetRegister(reg uint32) uint32 {
	if reg == SPPC {
		return sp.pc
	}
	return sp.get(reg)
}

// SetRegister stores v without write side effects
func (sp *SP) SetRegister(reg uint32, v uint32) {
	if reg == SPPC {
		sp.pc = v & 0xFFC
		return
	}
	sp.set(reg, v)
}

func (sp *SP) Read(off uint32, n int) uint64 {
	switch {
	case hits(off, n, SPPC):
		return clipWord(sp.pc, SPPC, off, n)
	case hits(off, n, SPSemaphore):
		v := sp.read(off, n)
		sp.set(SPSemaphore, 1)
		return v
	}
	return sp.read(off, n)
}

func (sp *SP) Write(off uint32, n int, v uint64) {
	switch {
	case hits(off, n, SPPC):
		sp.pc = mergeWord(sp.pc, SPPC, off, n, v) & 0xFFC
	case hits(off, n, SPRdLen):
		sp.write(off, n, v)
		sp.dma(sp.get(SPRdLen), true)
	case hits(off, n, SPWrLen):
		sp.write(off, n, v)
		sp.dma(sp.get(SPWrLen), false)
	case hits(off, n, SPStatus):
		sp.writeStatus(sp.merged(SPStatus, off, n, v))
	case hits(off, n, SPSemaphore):
		sp.set(SPSemaphore, 0)
	case hits(off, n, SPDmaFull), hits(off, n, SPDmaBusy):
		// read only
	default:
		sp.write(off, n, v)
	}
}

func (sp *SP) writeStatus(v uint32) {
	s := sp.get(SPStatus)
	wasHalted := s&SPStatusHalt != 0

	s = clearSet(s, v, 1<<0, 1<<1, SPStatusHalt)
	if v&(1<<2) != 0 {
		s &^= SPStatusBroke
	}
	switch {
	case v&(1<<3) != 0 && v&(1<<4) == 0:
		sp.mi.Lower(interrupts.SP)
	case v&(1<<4) != 0 && v&(1<<3) == 0:
		sp.mi.Raise(interrupts.SP)
	}
	s = clearSet(s, v, 1<<5, 1<<6, SPStatusSStep)
	s = clearSet(s, v, 1<<7, 1<<8, SPStatusIntrBreak)
	for i := uint32(0); i < 8; i++ {
		s = clearSet(s, v, 1<<(9+2*i), 1<<(10+2*i), 1<<(spStatusSig0+i))
	}

	if wasHalted && s&SPStatusHalt == 0 {
		sp.Tasks++
		s |= SPStatusHalt | SPStatusBroke
		if s&SPStatusIntrBreak != 0 {
			sp.mi.Raise(interrupts.SP)
		}
	}
	sp.set(SPStatus, s)
}

// dma copies count blocks of length bytes, skipping skip bytes in RDRAM
// after each block. toSP selects the direction.
func (sp *SP) dma(lenReg uint32, toSP bool) {
	length := (lenReg&0xFFF | 7) + 1
	count := (lenReg>>12)&0xFF + 1
	skip := lenReg >> 20 & 0xFFF

	memAddr := sp.get(SPMemAddr)
	mem := sp.dmem
	if memAddr&0x1000 != 0 {
		mem = sp.imem
	}
	maddr := memAddr & 0xFF8
	daddr := sp.get(SPDramAddr) & 0xFFFFF8

	for c := uint32(0); c < count; c++ {
		for i := uint32(0); i < length; i++ {
			m := (maddr + i) & 0xFFF
			if toSP {
				mem.Write8(m, sp.rdram.Read8(daddr+i))
			} else {
				sp.rdram.Write8(daddr+i, mem.Read8(m))
			}
		}
		maddr = (maddr + length) & 0xFFF
		daddr += length + skip
	}

	sp.set(SPMemAddr, memAddr&0x1000|maddr)
	sp.set(SPDramAddr, daddr)
	sp.set(SPRdLen, 0xFF8)
	sp.set(SPWrLen, 0xFF8)
}
