package rcp

import (
	"log"

	"n64/interrupts"
	"n64/memory"
)

// SI registers
const (
	SIDramAddr     uint32 = 0x00
	SIPifAddrRd64B uint32 = 0x04
	SIPifAddrWr64B uint32 = 0x10
	SIStatus       uint32 = 0x18

	siSize = 0x1C

	// PIFRAMSize is the size of the PIF RAM command block
	PIFRAMSize = 64

	siStatusInterrupt = 1 << 12
)

// PIFHandler runs the controller protocol over PIF RAM after the program
// wrote a command block
type PIFHandler interface {
	Exec(ram *memory.BigEndian)
}

// SI is the serial interface: 64 byte DMA between RDRAM and PIF RAM
type SI struct {
	regBlock
	mi     *MI
	rdram  *memory.BigEndian
	pifram *memory.BigEndian
	pif    PIFHandler
	log    *log.Logger
	warned bool
}

// NewSI returns a serial interface between rdram and pifram
func NewSI(mi *MI, rdram, pifram *memory.BigEndian, l *log.Logger) *SI {
	return &SI{regBlock: newRegBlock(siSize), mi: mi, rdram: rdram, pifram: pifram, log: l}
}

// SetPIF attaches the controller protocol. Without one every PIF read
// returns all ones, which games take as "nothing plugged in".
func (si *SI) SetPIF(h PIFHandler) {
	si.pif = h
}

func (si *SI) Name() string { return "SI" }

// GetRegister returns the raw register value
func (si *SI) GetRegister(reg uint32) uint32 { return si.get(reg) }

// SetRegister stores v without write side effects
func (si *SI) SetRegister(reg uint32, v uint32) { si.set(reg, v) }

func (si *SI) Read(off uint32, n int) uint64 {
	if hits(off, n, SIStatus) {
		tmp := regBlock{mem: memory.NewBigEndian(4)}
		if si.mi.Pending()&interrupts.SI != 0 {
			tmp.set(0, siStatusInterrupt)
		}
		return tmp.read(off-SIStatus, n)
	}
	return si.read(off, n)
}

func (si *SI) Write(off uint32, n int, v uint64) {
	switch {
	case hits(off, n, SIStatus):
		si.mi.Lower(interrupts.SI)
	case hits(off, n, SIPifAddrRd64B):
		si.write(off, n, v)
		si.pifToRDRAM()
	case hits(off, n, SIPifAddrWr64B):
		si.write(off, n, v)
		si.rdramToPIF()
	default:
		si.write(off, n, v)
	}
}

func (si *SI) pifToRDRAM() {
	dram := si.get(SIDramAddr) & 0xFFFFFF
	for i := uint32(0); i < PIFRAMSize; i++ {
		b := uint8(0xFF)
		if si.pif != nil {
			b = si.pifram.Read8(i)
		}
		si.rdram.Write8(dram+i, b)
	}
	si.mi.Raise(interrupts.SI)
}

func (si *SI) rdramToPIF() {
	dram := si.get(SIDramAddr) & 0xFFFFFF
	si.pifram.CopyIn(0, si.rdram.CopyOut(dram, PIFRAMSize))
	if si.pif != nil {
		si.pif.Exec(si.pifram)
	} else if !si.warned {
		si.log.Printf("SI: no PIF handler, command block at %06X ignored", dram)
		si.warned = true
	}
	si.mi.Raise(interrupts.SI)
}
