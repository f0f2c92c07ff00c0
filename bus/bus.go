// Package bus routes cpu loads and stores to RDRAM, the RSP scratchpads,
// the cartridge and the RCP register windows.
package bus

import (
	"fmt"
	"log"

	"n64/interrupts"
	"n64/memory"
	"n64/rcp"
)

// physical memory map
const (
	RDRAMBase   uint32 = 0x00000000
	RDRAMWindow uint32 = 0x00800000
	RDRAMSize          = 0x00400000

	RDRAMRegBase uint32 = 0x03F00000
	SPDMEMBase   uint32 = 0x04000000
	SPIMEMBase   uint32 = 0x04001000
	SPRegBase    uint32 = 0x04040000
	DPBase       uint32 = 0x04100000
	MIBase       uint32 = 0x04300000
	VIBase       uint32 = 0x04400000
	AIBase       uint32 = 0x04500000
	PIBase       uint32 = 0x04600000
	RIBase       uint32 = 0x04700000
	SIBase       uint32 = 0x04800000
	SRAMBase     uint32 = 0x08000000
	ROMBase      uint32 = 0x10000000
	ROMWindow    uint32 = 0x0FC00000
	PIFRAMBase   uint32 = 0x1FC007C0

	ioWindow uint32 = 0x00100000
	SRAMSize        = 0x8000

	// the address map is indexed by 1 MB page, physical addresses are
	// 29 bits wide
	pageShift = 20
	pageCount = 0x20000000 >> pageShift
)

// region is one entry of the physical address map: either a memory
// block or a device register window
type region struct {
	name     string
	r        memory.Range
	mem      *memory.BigEndian
	dev      rcp.Device
	readOnly bool
}

// Bus owns memory and devices. It has no state of its own beyond the
// address map.
type Bus struct {
	RDRAM  *memory.BigEndian
	DMEM   *memory.BigEndian
	IMEM   *memory.BigEndian
	ROM    *memory.BigEndian
	SRAM   *memory.BigEndian
	PIFRAM *memory.BigEndian

	MI        *rcp.MI
	VI        *rcp.VI
	AI        *rcp.AI
	PI        *rcp.PI
	SI        *rcp.SI
	RI        *rcp.RI
	SP        *rcp.SP
	DP        *rcp.DP
	RDRAMRegs *rcp.RDRAMRegs

	regions []region
	// pages holds the regions overlapping each 1 MB page, most hold one
	pages [pageCount][]*region
	log   *log.Logger
}

// New builds the bus around a byte order normalised cartridge image.
// rdramSize is 4 or 8 MB; the unbacked part of the RDRAM window reads zero.
func New(rom []byte, rdramSize int, l *log.Logger) (*Bus, error) {
	if rdramSize <= 0 || uint32(rdramSize) > RDRAMWindow {
		return nil, fmt.Errorf("bus: invalid RDRAM size %X", rdramSize)
	}

	b := &Bus{
		RDRAM:  memory.NewBigEndian(rdramSize),
		DMEM:   memory.NewBigEndian(rcp.SPMemSize),
		IMEM:   memory.NewBigEndian(rcp.SPMemSize),
		ROM:    memory.NewBigEndianFrom(rom),
		SRAM:   memory.NewBigEndian(SRAMSize),
		PIFRAM: memory.NewBigEndian(rcp.PIFRAMSize),
		log:    l,
	}

	b.MI = rcp.NewMI()
	b.VI = rcp.NewVI(b.MI)
	b.AI = rcp.NewAI(b.MI, b.RDRAM)
	b.PI = rcp.NewPI(b.MI, b.RDRAM, b.ROM, b.SRAM, l)
	b.SI = rcp.NewSI(b.MI, b.RDRAM, b.PIFRAM, l)
	b.RI = rcp.NewRI()
	b.SP = rcp.NewSP(b.MI, b.RDRAM, b.DMEM, b.IMEM)
	b.DP = rcp.NewDP(b.MI, b.RDRAM, b.DMEM)
	b.RDRAMRegs = rcp.NewRDRAMRegs()

	b.regions = []region{
		{name: "RDRAM", r: memory.NewRange(RDRAMBase, RDRAMWindow), mem: b.RDRAM},
		{name: "RDRAM regs", r: memory.NewRange(RDRAMRegBase, ioWindow), dev: b.RDRAMRegs},
		{name: "SP DMEM", r: memory.NewRange(SPDMEMBase, rcp.SPMemSize), mem: b.DMEM},
		{name: "SP IMEM", r: memory.NewRange(SPIMEMBase, rcp.SPMemSize), mem: b.IMEM},
		{name: "SP regs", r: memory.NewRange(SPRegBase, rcp.SPWindow), dev: b.SP},
		{name: "DP", r: memory.NewRange(DPBase, ioWindow), dev: b.DP},
		{name: "MI", r: memory.NewRange(MIBase, ioWindow), dev: b.MI},
		{name: "VI", r: memory.NewRange(VIBase, ioWindow), dev: b.VI},
		{name: "AI", r: memory.NewRange(AIBase, ioWindow), dev: b.AI},
		{name: "PI", r: memory.NewRange(PIBase, ioWindow), dev: b.PI},
		{name: "RI", r: memory.NewRange(RIBase, ioWindow), dev: b.RI},
		{name: "SI", r: memory.NewRange(SIBase, ioWindow), dev: b.SI},
		{name: "SRAM", r: memory.NewRange(SRAMBase, SRAMSize), mem: b.SRAM},
		{name: "ROM", r: memory.NewRange(ROMBase, ROMWindow), mem: b.ROM, readOnly: true},
		{name: "PIF RAM", r: memory.NewRange(PIFRAMBase, rcp.PIFRAMSize), mem: b.PIFRAM},
	}
	if err := checkOverlaps(b.regions); err != nil {
		return nil, err
	}
	b.mapPages()
	return b, nil
}

func (b *Bus) mapPages() {
	for i := range b.regions {
		reg := &b.regions[i]
		first := reg.r.Start >> pageShift
		last := reg.r.End() >> pageShift
		for p := first; p <= last && p < pageCount; p++ {
			b.pages[p] = append(b.pages[p], reg)
		}
	}
}

func checkOverlaps(regions []region) error {
	for i := range regions {
		for j := i + 1; j < len(regions); j++ {
			if regions[i].r.Overlaps(regions[j].r) {
				return fmt.Errorf("bus: %s %v overlaps %s %v",
					regions[i].name, regions[i].r, regions[j].name, regions[j].r)
			}
		}
	}
	return nil
}

// Translate maps a virtual address to a physical one. The upper 32 bits
// are ignored. KSEG0 and KSEG1 are direct mapped, every other segment
// needs the TLB and is not supported.
func Translate(vaddr uint64) (uint32, error) {
	a := uint32(vaddr)
	switch {
	case a >= 0x80000000 && a < 0xA0000000:
		return a - 0x80000000, nil
	case a >= 0xA0000000 && a < 0xC0000000:
		return a - 0xA0000000, nil
	}
	return 0, interrupts.NewFault(interrupts.Unmapped, vaddr, "%s is not direct mapped", segment(a))
}

func segment(a uint32) string {
	switch {
	case a < 0x80000000:
		return "KUSEG"
	case a < 0xA0000000:
		return "KSEG0"
	case a < 0xC0000000:
		return "KSEG1"
	case a < 0xE0000000:
		return "KSSEG"
	}
	return "KSEG3"
}

// lookup finds the region holding a physical address
func (b *Bus) lookup(paddr uint32) (*region, error) {
	if p := paddr >> pageShift; p < pageCount {
		for _, reg := range b.pages[p] {
			if reg.r.Contains(paddr) {
				return reg, nil
			}
		}
	}
	return nil, interrupts.NewFault(interrupts.BusError, uint64(paddr), "no device at physical address")
}

// ReadPhys reads n bytes at a physical address
func (b *Bus) ReadPhys(paddr uint32, n int) (uint64, error) {
	reg, err := b.lookup(paddr)
	if err != nil {
		return 0, err
	}
	off := reg.r.Offset(paddr)
	if reg.dev != nil {
		if n == 8 {
			// registers are 32 bits wide, a double word spans two
			hi := reg.dev.Read(off, 4)
			return hi<<32 | reg.dev.Read(off+4, 4), nil
		}
		return reg.dev.Read(off, n), nil
	}
	switch n {
	case 1:
		return uint64(reg.mem.Read8(off)), nil
	case 2:
		return uint64(reg.mem.Read16(off)), nil
	case 4:
		return uint64(reg.mem.Read32(off)), nil
	}
	return reg.mem.Read64(off), nil
}

// WritePhys writes the low n bytes of v at a physical address
func (b *Bus) WritePhys(paddr uint32, n int, v uint64) error {
	reg, err := b.lookup(paddr)
	if err != nil {
		return err
	}
	off := reg.r.Offset(paddr)
	switch {
	case reg.dev != nil && n == 8:
		reg.dev.Write(off, 4, v>>32)
		reg.dev.Write(off+4, 4, v&0xFFFFFFFF)
	case reg.dev != nil:
		reg.dev.Write(off, n, v)
	case reg.readOnly:
		b.log.Printf("bus: dropped %d byte write of %X to %s at %08X", n, v, reg.name, paddr)
	default:
		switch n {
		case 1:
			reg.mem.Write8(off, uint8(v))
		case 2:
			reg.mem.Write16(off, uint16(v))
		case 4:
			reg.mem.Write32(off, uint32(v))
		default:
			reg.mem.Write64(off, v)
		}
	}
	return nil
}

func (b *Bus) read(vaddr uint64, n int) (uint64, error) {
	paddr, err := Translate(vaddr)
	if err != nil {
		return 0, err
	}
	return b.ReadPhys(paddr, n)
}

func (b *Bus) write(vaddr uint64, n int, v uint64) error {
	paddr, err := Translate(vaddr)
	if err != nil {
		return err
	}
	return b.WritePhys(paddr, n, v)
}

// Read8 reads a byte at a virtual address
func (b *Bus) Read8(vaddr uint64) (uint8, error) {
	v, err := b.read(vaddr, 1)
	return uint8(v), err
}

// Read16 reads a half word at a virtual address
func (b *Bus) Read16(vaddr uint64) (uint16, error) {
	v, err := b.read(vaddr, 2)
	return uint16(v), err
}

// Read32 reads a word at a virtual address
func (b *Bus) Read32(vaddr uint64) (uint32, error) {
	v, err := b.read(vaddr, 4)
	return uint32(v), err
}

// Read64 reads a double word at a virtual address
func (b *Bus) Read64(vaddr uint64) (uint64, error) {
	return b.read(vaddr, 8)
}

// Write8 writes a byte at a virtual address
func (b *Bus) Write8(vaddr uint64, v uint8) error {
	return b.write(vaddr, 1, uint64(v))
}

// Write16 writes a half word at a virtual address
func (b *Bus) Write16(vaddr uint64, v uint16) error {
	return b.write(vaddr, 2, uint64(v))
}

// Write32 writes a word at a virtual address
func (b *Bus) Write32(vaddr uint64, v uint32) error {
	return b.write(vaddr, 4, uint64(v))
}

// Write64 writes a double word at a virtual address
func (b *Bus) Write64(vaddr uint64, v uint64) error {
	return b.write(vaddr, 8, v)
}

// Tick advances devices with their own timing
func (b *Bus) Tick() {
	b.VI.Tick()
}

// Describe names the region a physical address falls into, for the monitor
func (b *Bus) Describe(paddr uint32) string {
	reg, err := b.lookup(paddr)
	if err != nil {
		return "unmapped"
	}
	return fmt.Sprintf("%s+%X", reg.name, reg.r.Offset(paddr))
}
