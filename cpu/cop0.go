package cpu

import (
	"math/rand"

	"n64/status"
)

// Cop0Reg names a COP0 register
type Cop0Reg int

// COP0 registers
const (
	Index    Cop0Reg = 0
	Random   Cop0Reg = 1
	EntryLo0 Cop0Reg = 2
	EntryLo1 Cop0Reg = 3
	Context  Cop0Reg = 4
	PageMask Cop0Reg = 5
	Wired    Cop0Reg = 6
	BadVAddr Cop0Reg = 8
	Count    Cop0Reg = 9
	EntryHi  Cop0Reg = 10
	Compare  Cop0Reg = 11
	Status   Cop0Reg = 12
	Cause    Cop0Reg = 13
	EPC      Cop0Reg = 14
	PRId     Cop0Reg = 15
	Config   Cop0Reg = 16
	LLAddr   Cop0Reg = 17
	WatchLo  Cop0Reg = 18
	WatchHi  Cop0Reg = 19
	XContext Cop0Reg = 20
	PErr     Cop0Reg = 26
	CacheErr Cop0Reg = 27
	TagLo    Cop0Reg = 28
	TagHi    Cop0Reg = 29
	ErrorEPC Cop0Reg = 30
)

var cop0Names = [32]string{
	"Index", "Random", "EntryLo0", "EntryLo1", "Context", "PageMask", "Wired", "$7",
	"BadVAddr", "Count", "EntryHi", "Compare", "Status", "Cause", "EPC", "PRId",
	"Config", "LLAddr", "WatchLo", "WatchHi", "XContext", "$21", "$22", "$23",
	"$24", "$25", "PErr", "CacheErr", "TagLo", "TagHi", "ErrorEPC", "$31",
}

func (r Cop0Reg) String() string {
	return cop0Names[r&31]
}

// Cause bits
const (
	causeBD       = 1 << 31
	causeCEShift  = 28
	causeCEMask   = 3 << causeCEShift
	causeExcShift = 2
	causeExcMask  = 0x1F << causeExcShift
	causeIP2      = 1 << 10 // RCP, driven by MI
	causeIP7      = 1 << 15 // timer
	causeSoftware = 3 << 8  // IP0, IP1
)

// COP0 is the system control coprocessor: exception state, the timer and
// TLB storage.
type COP0 struct {
	regs [32]uint64

	// ticks feeds Count, which is ticks >> countShift
	ticks      uint64
	countShift uint

	rng *rand.Rand
	tlb [tlbEntries]tlbEntry
}

// NewCOP0 returns a coprocessor in its reset state. Count advances once
// every 1<<countShift ticks.
func NewCOP0(countShift uint) *COP0 {
	c := &COP0{countShift: countShift, rng: rand.New(rand.NewSource(1))}
	c.Reset()
	return c
}

// Reset loads the power on values
func (c *COP0) Reset() {
	c.regs = [32]uint64{}
	c.ticks = 0
	c.regs[Random] = 31
	c.regs[Status] = 0x00400004 // BEV, ERL
	c.regs[PRId] = 0x00000B00
	c.regs[Config] = 0x0006E463
	c.tlb = [tlbEntries]tlbEntry{}
}

// GetReg returns a register. Random and Count are synthesized.
func (c *COP0) GetReg(r Cop0Reg) uint64 {
	switch r {
	case Random:
		return c.random()
	case Count:
		return uint64(uint32(c.ticks >> c.countShift))
	}
	return c.regs[r&31]
}

// SetReg writes a register with the hardware write masks applied
func (c *COP0) SetReg(r Cop0Reg, v uint64) {
	switch r {
	case Random, PRId, CacheErr:
		// read only
	case Count:
		c.ticks = uint64(uint32(v)) << c.countShift
	case Compare:
		c.regs[Compare] = uint64(uint32(v))
		c.regs[Cause] &^= causeIP7
	case Cause:
		c.regs[Cause] = c.regs[Cause]&^causeSoftware | v&causeSoftware
	case Status:
		c.regs[Status] = uint64(uint32(v))
	case Wired:
		c.regs[Wired] = v & 0x3F
	case Index:
		c.regs[Index] = v&0x3F | v&0x80000000
	default:
		c.regs[r&31] = v
	}
}

// Status returns a copy of the Status register
func (c *COP0) Status() status.Word {
	return status.Word(c.regs[Status])
}

// SetStatus stores a modified Status word
func (c *COP0) SetStatus(s status.Word) {
	c.regs[Status] = uint64(s.Get())
}

// Cause returns the Cause register
func (c *COP0) Cause() uint32 {
	return uint32(c.regs[Cause])
}

func (c *COP0) setCause(v uint32) {
	c.regs[Cause] = uint64(v)
}

// SetInterruptLine drives IP2, the RCP interrupt input
func (c *COP0) SetInterruptLine(asserted bool) {
	if asserted {
		c.regs[Cause] |= causeIP2
	} else {
		c.regs[Cause] &^= causeIP2
	}
}

// Tick advances the free running counter. The timer interrupt is raised
// when Count steps onto Compare.
func (c *COP0) Tick() {
	c.ticks++
	if c.ticks&(1<<c.countShift-1) != 0 {
		return
	}
	if uint32(c.ticks>>c.countShift) == uint32(c.regs[Compare]) {
		c.regs[Cause] |= causeIP7
	}
}

// InterruptPending is true when an enabled interrupt line is active and
// the cpu may take it
func (c *COP0) InterruptPending() bool {
	s := c.Status()
	return s.InterruptsEnabled() && c.Cause()&s.Get()&status.InterruptMaskBits != 0
}

// random returns a value in [Wired, 31]
func (c *COP0) random() uint64 {
	wired := int(c.regs[Wired] & 0x1F)
	if wired >= 31 {
		return 31
	}
	return uint64(wired + c.rng.Intn(32-wired))
}
