package rcp

import (
	"n64/interrupts"
	"n64/memory"
)

// DP command registers
const (
	DPStart    uint32 = 0x00
	DPEnd      uint32 = 0x04
	DPCurrent  uint32 = 0x08
	DPStatus   uint32 = 0x0C
	DPClock    uint32 = 0x10
	DPBufBusy  uint32 = 0x14
	DPPipeBusy uint32 = 0x18
	DPTmem     uint32 = 0x1C

	dpSize = 0x20

	dpStatusXbus      = 1 << 0
	dpStatusFreeze    = 1 << 1
	dpStatusFlush     = 1 << 2
	dpStatusCbufReady = 1 << 7

	dpCmdSyncFull = 0x29
)

// DP is the RDP command interface. Rasterisation happens elsewhere; the
// command list is only scanned for SYNC_FULL so the DP interrupt arrives
// when the program expects it.
type DP struct {
	regBlock
	mi    *MI
	rdram *memory.BigEndian
	dmem  *memory.BigEndian
}

// NewDP returns a command interface reading lists from rdram or, in XBUS
// mode, from SP DMEM
func NewDP(mi *MI, rdram, dmem *memory.BigEndian) *DP {
	dp := &DP{regBlock: newRegBlock(dpSize), mi: mi, rdram: rdram, dmem: dmem}
	dp.set(DPStatus, dpStatusCbufReady)
	return dp
}

func (dp *DP) Name() string { return "DP" }

// GetRegister returns the raw register value
func (dp *DP) GetRegister(reg uint32) uint32 { return dp.get(reg) }

// SetRegister stores v without write side effects
func (dp *DP) SetRegister(reg uint32, v uint32) { dp.set(reg, v) }

func (dp *DP) Read(off uint32, n int) uint64 {
	return dp.read(off, n)
}

func (dp *DP) Write(off uint32, n int, v uint64) {
	switch {
	case hits(off, n, DPStart):
		dp.write(off, n, v)
		dp.set(DPStart, dp.get(DPStart)&0xFFFFF8)
		dp.set(DPCurrent, dp.get(DPStart))
	case hits(off, n, DPEnd):
		dp.write(off, n, v)
		dp.set(DPEnd, dp.get(DPEnd)&0xFFFFF8)
		dp.run()
	case hits(off, n, DPStatus):
		dp.writeStatus(dp.merged(DPStatus, off, n, v))
	case hits(off, n, DPCurrent), hits(off, n, DPClock), hits(off, n, DPBufBusy),
		hits(off, n, DPPipeBusy), hits(off, n, DPTmem):
		// read only
	}
}

func (dp *DP) writeStatus(v uint32) {
	s := dp.get(DPStatus)
	s = clearSet(s, v, 1<<0, 1<<1, dpStatusXbus)
	s = clearSet(s, v, 1<<2, 1<<3, dpStatusFreeze)
	s = clearSet(s, v, 1<<4, 1<<5, dpStatusFlush)
	if v&(1<<9) != 0 {
		dp.set(DPClock, 0)
	}
	dp.set(DPStatus, s)
}

// run walks the command list from CURRENT to END
func (dp *DP) run() {
	if dp.get(DPStatus)&dpStatusFreeze != 0 {
		return
	}
	src := dp.rdram
	if dp.get(DPStatus)&dpStatusXbus != 0 {
		src = dp.dmem
	}

	cur, end := dp.get(DPCurrent), dp.get(DPEnd)
	for cur < end {
		addr := cur
		if src == dp.dmem {
			addr &= 0xFFF
		}
		cmd := src.Read8(addr) & 0x3F
		if cmd == dpCmdSyncFull {
			dp.mi.Raise(interrupts.DP)
		}
		cur += dpCommandLength(cmd)
	}
	dp.set(DPCurrent, end)
}

// dpCommandLength is the size in bytes of an RDP command
func dpCommandLength(cmd uint8) uint32 {
	switch {
	case cmd >= 0x08 && cmd <= 0x0F:
		// triangles: edge coefficients plus optional shade, texture, z
		n := uint32(32)
		if cmd&4 != 0 {
			n += 64
		}
		if cmd&2 != 0 {
			n += 64
		}
		if cmd&1 != 0 {
			n += 16
		}
		return n
	case cmd == 0x24 || cmd == 0x25:
		return 16
	}
	return 8
}
