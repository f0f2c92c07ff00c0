package cpu

const tlbEntries = 32

// tlbEntry is one joint TLB entry. Entries are stored and searched so boot
// code that initialises the TLB runs, addresses are never translated
// through them.
type tlbEntry struct {
	pageMask uint64
	entryHi  uint64
	entryLo0 uint64
	entryLo1 uint64
}

func (e tlbEntry) global() bool {
	return e.entryLo0&e.entryLo1&1 != 0
}

// tlbRead loads entry Index into PageMask, EntryHi, EntryLo0 and EntryLo1
func (c *COP0) tlbRead() {
	e := c.tlb[c.regs[Index]&(tlbEntries-1)]
	c.regs[PageMask] = e.pageMask
	c.regs[EntryHi] = e.entryHi
	c.regs[EntryLo0] = e.entryLo0
	c.regs[EntryLo1] = e.entryLo1
	if e.global() {
		c.regs[EntryLo0] |= 1
		c.regs[EntryLo1] |= 1
	}
}

// tlbWrite stores the entry registers at index i and returns the entry
// number written
func (c *COP0) tlbWrite(i uint64) int {
	i &= tlbEntries - 1
	g := c.regs[EntryLo0] & c.regs[EntryLo1] & 1
	c.tlb[i] = tlbEntry{
		pageMask: c.regs[PageMask] & 0x01FFE000,
		entryHi:  c.regs[EntryHi] &^ 0x1F00,
		entryLo0: c.regs[EntryLo0]&^1 | g,
		entryLo1: c.regs[EntryLo1]&^1 | g,
	}
	return int(i)
}

// tlbProbe searches for EntryHi and sets Index, bit 31 set on a miss
func (c *COP0) tlbProbe() {
	hi := c.regs[EntryHi]
	asid := hi & 0xFF
	for i, e := range c.tlb {
		mask := ^(e.pageMask | 0x1FFF)
		vpnMatch := (e.entryHi & mask & 0xC00000FFFFFFFFFF) == (hi & mask & 0xC00000FFFFFFFFFF)
		if vpnMatch && (e.global() || e.entryHi&0xFF == asid) {
			c.regs[Index] = uint64(i)
			return
		}
	}
	c.regs[Index] = 0x80000000
}

func tlbrOp(c *CPU, instr uint32) error {
	c.COP0.tlbRead()
	return nil
}

func tlbwiOp(c *CPU, instr uint32) error {
	c.logTLBWrite("tlbwi", c.COP0.tlbWrite(c.COP0.regs[Index]))
	return nil
}

func tlbwrOp(c *CPU, instr uint32) error {
	c.logTLBWrite("tlbwr", c.COP0.tlbWrite(c.COP0.random()))
	return nil
}

// mapped segments fault on access, a TLB write is only recorded
func (c *CPU) logTLBWrite(op string, i int) {
	c.log.Printf("cpu: %s at %08X stored entry %d, EntryHi %X, not used for translation\n",
		op, uint32(c.curPC), i, c.COP0.tlb[i].entryHi)
}

func tlbpOp(c *CPU, instr uint32) error {
	c.COP0.tlbProbe()
	return nil
}
