package rcp

import (
	"log"

	"n64/interrupts"
	"n64/memory"
)

// PI registers
const (
	PIDramAddr   uint32 = 0x00
	PICartAddr   uint32 = 0x04
	PIRdLen      uint32 = 0x08
	PIWrLen      uint32 = 0x0C
	PIStatus     uint32 = 0x10
	PIBsdDom1Lat uint32 = 0x14
	PIBsdDom1Pwd uint32 = 0x18
	PIBsdDom1Pgs uint32 = 0x1C
	PIBsdDom1Rls uint32 = 0x20
	PIBsdDom2Lat uint32 = 0x24
	PIBsdDom2Pwd uint32 = 0x28
	PIBsdDom2Pgs uint32 = 0x2C
	PIBsdDom2Rls uint32 = 0x30

	piSize = 0x34

	// CartBase is where the cartridge ROM starts in physical memory
	CartBase uint32 = 0x10000000
	// SRAMBase is the battery backed save RAM in cartridge domain 2
	SRAMBase uint32 = 0x08000000

	piStatusReset    = 1 << 0
	piStatusClearInt = 1 << 1
)

// PI is the peripheral interface: DMA between RDRAM and the cartridge
// ROM or save RAM
type PI struct {
	regBlock
	mi    *MI
	rdram *memory.BigEndian
	rom   *memory.BigEndian
	sram  *memory.BigEndian
	log   *log.Logger
}

// NewPI returns a peripheral interface between rdram and the cartridge
func NewPI(mi *MI, rdram, rom, sram *memory.BigEndian, l *log.Logger) *PI {
	return &PI{regBlock: newRegBlock(piSize), mi: mi, rdram: rdram, rom: rom, sram: sram, log: l}
}

func (pi *PI) Name() string { return "PI" }

// GetRegister returns the raw register value
func (pi *PI) GetRegister(reg uint32) uint32 { return pi.get(reg) }

// SetRegister stores v without write side effects
func (pi *PI) SetRegister(reg uint32, v uint32) { pi.set(reg, v) }

func (pi *PI) Read(off uint32, n int) uint64 {
	if hits(off, n, PIStatus) {
		// DMA finishes inside the write, never busy
		return 0
	}
	return pi.read(off, n)
}

func (pi *PI) Write(off uint32, n int, v uint64) {
	switch {
	case hits(off, n, PIWrLen):
		pi.write(off, n, v)
		pi.cartToRDRAM(pi.get(PIWrLen)&0xFFFFFF + 1)
	case hits(off, n, PIRdLen):
		pi.write(off, n, v)
		pi.rdramToCart(pi.get(PIRdLen)&0xFFFFFF + 1)
	case hits(off, n, PIStatus):
		s := pi.merged(PIStatus, off, n, v)
		if s&piStatusClearInt != 0 || s&piStatusReset != 0 {
			pi.mi.Lower(interrupts.PI)
		}
	default:
		pi.write(off, n, v)
	}
}

// cart resolves a cartridge bus address to its backing store
func (pi *PI) cart(addr uint32) (*memory.BigEndian, uint32, bool) {
	switch {
	case addr >= CartBase:
		return pi.rom, addr - CartBase, true
	case addr >= SRAMBase && addr-SRAMBase < uint32(pi.sram.Len()):
		return pi.sram, addr - SRAMBase, true
	}
	return nil, 0, false
}

func (pi *PI) cartToRDRAM(length uint32) {
	dram := pi.get(PIDramAddr) & 0xFFFFFF
	cart := pi.get(PICartAddr)

	src, off, ok := pi.cart(cart)
	if !ok {
		// 64DD and flash domains have no backing store, the program reads zeros
		pi.log.Printf("PI: DMA from unbacked cart address %08X, len %X", cart, length)
	}
	for i := uint32(0); i < length; i++ {
		var b uint8
		if ok {
			b = src.Read8(off + i)
		}
		pi.rdram.Write8(dram+i, b)
	}

	pi.advance(dram, cart, length)
}

func (pi *PI) rdramToCart(length uint32) {
	dram := pi.get(PIDramAddr) & 0xFFFFFF
	cart := pi.get(PICartAddr)

	dst, off, ok := pi.cart(cart)
	if !ok || dst == pi.rom {
		pi.log.Printf("PI: ignored DMA to read only cart address %08X, len %X", cart, length)
	} else {
		for i := uint32(0); i < length; i++ {
			dst.Write8(off+i, pi.rdram.Read8(dram+i))
		}
	}

	pi.advance(dram, cart, length)
}

func (pi *PI) advance(dram, cart, length uint32) {
	pi.set(PIDramAddr, (dram+length+7)&^7)
	pi.set(PICartAddr, (cart+length+1)&^1)
	pi.mi.Raise(interrupts.PI)
}
