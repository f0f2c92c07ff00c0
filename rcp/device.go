// Package rcp holds the memory mapped register windows of the N64 reality
// co-processor and its interfaces: MI, VI, AI, PI, SI, RI, SP, DP and the
// RDRAM configuration registers.
//
// Every device stores its registers in a small big endian block. Reads and
// writes outside the block are silently dropped (reserved addresses read as
// zero). Some registers have side effects when written (DMA, interrupt
// acknowledge), some are write masked and some are synthesized on read.
package rcp

import (
	"n64/memory"
)

// Device is a register window on the bus. n is the access width in bytes:
// 1, 2, 4 or 8.
type Device interface {
	Name() string
	Read(off uint32, n int) uint64
	Write(off uint32, n int, v uint64)
}

// Ticker is implemented by devices with autonomous timing
type Ticker interface {
	Tick()
}

// regBlock is the register storage shared by all devices
type regBlock struct {
	mem *memory.BigEndian
}

func newRegBlock(size int) regBlock {
	return regBlock{mem: memory.NewBigEndian(size)}
}

func (r *regBlock) read(off uint32, n int) uint64 {
	switch n {
	case 1:
		return uint64(r.mem.Read8(off))
	case 2:
		return uint64(r.mem.Read16(off))
	case 4:
		return uint64(r.mem.Read32(off))
	case 8:
		return r.mem.Read64(off)
	}
	return 0
}

func (r *regBlock) write(off uint32, n int, v uint64) {
	switch n {
	case 1:
		r.mem.Write8(off, uint8(v))
	case 2:
		r.mem.Write16(off, uint16(v))
	case 4:
		r.mem.Write32(off, uint32(v))
	case 8:
		r.mem.Write64(off, v)
	}
}

func (r *regBlock) get(reg uint32) uint32 {
	return r.mem.Read32(reg)
}

func (r *regBlock) set(reg uint32, v uint32) {
	r.mem.Write32(reg, v)
}

// hits is true if an n byte access at off touches the 32 bit register reg
func hits(off uint32, n int, reg uint32) bool {
	return off < reg+4 && off+uint32(n) > reg
}

// merged returns what register reg would hold after an n byte write of v
// at off, without storing it. Used by write-triggered registers that must
// not keep the written value.
func (r *regBlock) merged(reg uint32, off uint32, n int, v uint64) uint32 {
	return mergeWord(r.get(reg), reg, off, n, v)
}

// mergeWord lays an n byte write of v at off over the word old stored at
// reg. Bytes outside the word are clipped, so a double word store that
// starts one register early still reaches reg.
func mergeWord(old uint32, reg uint32, off uint32, n int, v uint64) uint32 {
	tmp := memory.NewBigEndian(24)
	tmp.Write32(8, old)
	scratch := regBlock{mem: tmp}
	scratch.write(off+8-reg, n, v)
	return tmp.Read32(8)
}

// clipWord is the part of an n byte read at off that falls on the word
// val stored at reg
func clipWord(val uint32, reg uint32, off uint32, n int) uint64 {
	scratch := regBlock{mem: memory.NewBigEndian(24)}
	scratch.set(8, val)
	return scratch.read(off+8-reg, n)
}
