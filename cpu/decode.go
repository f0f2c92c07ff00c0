package cpu

import (
	"n64/interrupts"
)

// handler executes one decoded instruction. A non nil error is a host
// level fault, emulated exceptions go through TriggerException.
type handler func(c *CPU, instr uint32) error

// instruction fields
func rs(i uint32) int       { return int(i >> 21 & 0x1F) }
func rt(i uint32) int       { return int(i >> 16 & 0x1F) }
func rd(i uint32) int       { return int(i >> 11 & 0x1F) }
func sa(i uint32) uint      { return uint(i >> 6 & 0x1F) }
func funct(i uint32) uint32 { return i & 0x3F }
func imm(i uint32) uint16   { return uint16(i) }
func simm(i uint32) uint64  { return signExtend16(uint16(i)) }
func target(i uint32) uint64 {
	return uint64(i&0x03FFFFFF) << 2
}

// fpu fields share positions with the integer ones
func fmtField(i uint32) int { return rs(i) }
func ft(i uint32) int       { return rt(i) }
func fs(i uint32) int       { return rd(i) }
func fd(i uint32) int       { return int(sa(i)) }

// primary opcodes, bits 31..26
var primary = [64]handler{
	0x00: specialOp, 0x01: regimmOp, 0x02: jOp, 0x03: jalOp,
	0x04: beqOp, 0x05: bneOp, 0x06: blezOp, 0x07: bgtzOp,
	0x08: addiOp, 0x09: addiuOp, 0x0A: sltiOp, 0x0B: sltiuOp,
	0x0C: andiOp, 0x0D: oriOp, 0x0E: xoriOp, 0x0F: luiOp,
	0x10: cop0Op, 0x11: cop1Op, 0x12: cop2Op, 0x13: cop3Op,
	0x14: beqlOp, 0x15: bnelOp, 0x16: blezlOp, 0x17: bgtzlOp,
	0x18: daddiOp, 0x19: daddiuOp, 0x1A: ldlOp, 0x1B: ldrOp,
	0x1C: unimplemented, 0x1D: unimplemented, 0x1E: unimplemented, 0x1F: unimplemented,
	0x20: lbOp, 0x21: lhOp, 0x22: lwlOp, 0x23: lwOp,
	0x24: lbuOp, 0x25: lhuOp, 0x26: lwrOp, 0x27: lwuOp,
	0x28: sbOp, 0x29: shOp, 0x2A: swlOp, 0x2B: swOp,
	0x2C: sdlOp, 0x2D: sdrOp, 0x2E: swrOp, 0x2F: cacheOp,
	0x30: llOp, 0x31: lwc1Op, 0x32: unimplemented, 0x33: unimplemented,
	0x34: lldOp, 0x35: ldc1Op, 0x36: unimplemented, 0x37: ldOp,
	0x38: scOp, 0x39: swc1Op, 0x3A: unimplemented, 0x3B: unimplemented,
	0x3C: scdOp, 0x3D: sdc1Op, 0x3E: unimplemented, 0x3F: sdOp,
}

// SPECIAL, bits 5..0
var special = [64]handler{
	0x00: sllOp, 0x01: unimplemented, 0x02: srlOp, 0x03: sraOp,
	0x04: sllvOp, 0x05: unimplemented, 0x06: srlvOp, 0x07: sravOp,
	0x08: jrOp, 0x09: jalrOp, 0x0A: unimplemented, 0x0B: unimplemented,
	0x0C: syscallOp, 0x0D: breakOp, 0x0E: unimplemented, 0x0F: syncOp,
	0x10: mfhiOp, 0x11: mthiOp, 0x12: mfloOp, 0x13: mtloOp,
	0x14: dsllvOp, 0x15: unimplemented, 0x16: dsrlvOp, 0x17: dsravOp,
	0x18: multOp, 0x19: multuOp, 0x1A: divOp, 0x1B: divuOp,
	0x1C: dmultOp, 0x1D: dmultuOp, 0x1E: ddivOp, 0x1F: ddivuOp,
	0x20: addOp, 0x21: adduOp, 0x22: subOp, 0x23: subuOp,
	0x24: andOp, 0x25: orOp, 0x26: xorOp, 0x27: norOp,
	0x28: unimplemented, 0x29: unimplemented, 0x2A: sltOp, 0x2B: sltuOp,
	0x2C: daddOp, 0x2D: dadduOp, 0x2E: dsubOp, 0x2F: dsubuOp,
	0x30: tgeOp, 0x31: tgeuOp, 0x32: tltOp, 0x33: tltuOp,
	0x34: teqOp, 0x35: unimplemented, 0x36: tneOp, 0x37: unimplemented,
	0x38: dsllOp, 0x39: unimplemented, 0x3A: dsrlOp, 0x3B: dsraOp,
	0x3C: dsll32Op, 0x3D: unimplemented, 0x3E: dsrl32Op, 0x3F: dsra32Op,
}

// REGIMM, bits 20..16
var regimm = [32]handler{
	0x00: bltzOp, 0x01: bgezOp, 0x02: bltzlOp, 0x03: bgezlOp,
	0x04: unimplemented, 0x05: unimplemented, 0x06: unimplemented, 0x07: unimplemented,
	0x08: tgeiOp, 0x09: tgeiuOp, 0x0A: tltiOp, 0x0B: tltiuOp,
	0x0C: teqiOp, 0x0D: unimplemented, 0x0E: tneiOp, 0x0F: unimplemented,
	0x10: bltzalOp, 0x11: bgezalOp, 0x12: bltzallOp, 0x13: bgezallOp,
	0x14: unimplemented, 0x15: unimplemented, 0x16: unimplemented, 0x17: unimplemented,
	0x18: unimplemented, 0x19: unimplemented, 0x1A: unimplemented, 0x1B: unimplemented,
	0x1C: unimplemented, 0x1D: unimplemented, 0x1E: unimplemented, 0x1F: unimplemented,
}

// COP0, bits 25..21; 0x10 and up is the CO function space
var cop0Table = [32]handler{
	0x00: mfc0Op, 0x01: dmfc0Op, 0x04: mtc0Op, 0x05: dmtc0Op,
	0x10: tlbOp, 0x11: tlbOp, 0x12: tlbOp, 0x13: tlbOp,
	0x14: tlbOp, 0x15: tlbOp, 0x16: tlbOp, 0x17: tlbOp,
	0x18: tlbOp, 0x19: tlbOp, 0x1A: tlbOp, 0x1B: tlbOp,
	0x1C: tlbOp, 0x1D: tlbOp, 0x1E: tlbOp, 0x1F: tlbOp,
}

// COP0 CO functions, bits 5..0. ERET is decoded before the tables.
var tlbTable = [64]handler{
	0x01: tlbrOp, 0x02: tlbwiOp, 0x06: tlbwrOp, 0x08: tlbpOp,
	0x18: eretOp,
}

// COP1, bits 25..21
var cop1Table = [32]handler{
	0x00: mfc1Op, 0x01: dmfc1Op, 0x02: cfc1Op, 0x04: mtc1Op,
	0x05: dmtc1Op, 0x06: ctc1Op, 0x08: bc1Op,
	0x10: fpuSOp, 0x11: fpuDOp, 0x14: fpuWOp, 0x15: fpuLOp,
}

// FPU arithmetic for S and D formats, bits 5..0. Each handler receives the
// format so one table serves both.
type fpuHandler func(c *CPU, instr uint32, double bool) error

var fpuTable = [64]fpuHandler{
	0x00: faddOp, 0x01: fsubOp, 0x02: fmulOp, 0x03: fdivOp,
	0x04: fsqrtOp, 0x05: fabsOp, 0x06: fmovOp, 0x07: fnegOp,
	0x08: roundLOp, 0x09: truncLOp, 0x0A: ceilLOp, 0x0B: floorLOp,
	0x0C: roundWOp, 0x0D: truncWOp, 0x0E: ceilWOp, 0x0F: floorWOp,
	0x20: cvtSOp, 0x21: cvtDOp, 0x24: cvtWOp, 0x25: cvtLOp,
	0x30: fcmpOp, 0x31: fcmpOp, 0x32: fcmpOp, 0x33: fcmpOp,
	0x34: fcmpOp, 0x35: fcmpOp, 0x36: fcmpOp, 0x37: fcmpOp,
	0x38: fcmpOp, 0x39: fcmpOp, 0x3A: fcmpOp, 0x3B: fcmpOp,
	0x3C: fcmpOp, 0x3D: fcmpOp, 0x3E: fcmpOp, 0x3F: fcmpOp,
}

// dispatch looks h up and treats a missing entry as unimplemented
func dispatch(h handler, c *CPU, instr uint32) error {
	if h == nil {
		return unimplemented(c, instr)
	}
	return h(c, instr)
}

func specialOp(c *CPU, instr uint32) error {
	return dispatch(special[funct(instr)], c, instr)
}

func regimmOp(c *CPU, instr uint32) error {
	return dispatch(regimm[rt(instr)], c, instr)
}

func cop0Op(c *CPU, instr uint32) error {
	if !c.copUsable(0) {
		return nil
	}
	return dispatch(cop0Table[rs(instr)], c, instr)
}

func tlbOp(c *CPU, instr uint32) error {
	return dispatch(tlbTable[funct(instr)], c, instr)
}

func cop1Op(c *CPU, instr uint32) error {
	if !c.copUsable(1) {
		return nil
	}
	return dispatch(cop1Table[fmtField(instr)], c, instr)
}

// COP2 and COP3 do not exist on the VR4300: unusable unless enabled, in
// which case the access is a reserved instruction
func cop2Op(c *CPU, instr uint32) error {
	return c.missingCop(2, instr)
}

func cop3Op(c *CPU, instr uint32) error {
	return c.missingCop(3, instr)
}

func (c *CPU) missingCop(n uint, instr uint32) error {
	if c.copUsable(n) {
		c.log.Printf("cpu: COP%d instruction %08X at %08X with CU%d set, reserved instruction\n",
			n, instr, uint32(c.curPC), n)
		c.TriggerException(interrupts.RI, 0)
	}
	return nil
}

// copUsable checks CU n and raises coprocessor unusable when clear. COP0
// is always usable in kernel mode.
func (c *CPU) copUsable(n uint) bool {
	st := c.COP0.Status()
	if n == 0 {
		return true
	}
	if !st.CU(n) {
		c.TriggerException(interrupts.CpU, uint32(n))
		return false
	}
	return true
}
