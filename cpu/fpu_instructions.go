package cpu

import (
	"math"
)

// fr reads Status.FR. COP1 accesses call it every time, the bit can change
// between any two instructions.
func (c *CPU) fr() bool {
	st := c.COP0.Status()
	return st.FR()
}

// moves between the integer and fpu register files

func mfc1Op(c *CPU, instr uint32) error {
	c.setReg32(rt(instr), c.COP1.GetFGR32(fs(instr), c.fr()))
	return nil
}

func dmfc1Op(c *CPU, instr uint32) error {
	c.SetReg(rt(instr), c.COP1.GetFGR64(fs(instr), c.fr()))
	return nil
}

func cfc1Op(c *CPU, instr uint32) error {
	c.setReg32(rt(instr), c.COP1.GetFCR(fs(instr)))
	return nil
}

func mtc1Op(c *CPU, instr uint32) error {
	c.COP1.SetFGR32(fs(instr), c.fr(), uint32(c.GetReg(rt(instr))))
	return nil
}

func dmtc1Op(c *CPU, instr uint32) error {
	c.COP1.SetFGR64(fs(instr), c.fr(), c.GetReg(rt(instr)))
	return nil
}

func ctc1Op(c *CPU, instr uint32) error {
	c.COP1.SetFCR(fs(instr), uint32(c.GetReg(rt(instr))))
	c.COP1.syncRounding()
	return nil
}

// bc1Op covers BC1F, BC1T, BC1FL and BC1TL. rt bit 0 selects the sense,
// bit 1 the likely form.
func bc1Op(c *CPU, instr uint32) error {
	sel := rt(instr)
	cond := c.COP1.Condition() == (sel&1 != 0)
	if sel&2 != 0 {
		return c.branchLikely(cond, instr)
	}
	return c.branch(cond, instr)
}

// format dispatch

func fpuSOp(c *CPU, instr uint32) error {
	return fpuDispatch(c, instr, false)
}

func fpuDOp(c *CPU, instr uint32) error {
	return fpuDispatch(c, instr, true)
}

func fpuDispatch(c *CPU, instr uint32, double bool) error {
	h := fpuTable[funct(instr)]
	if h == nil {
		return unimplemented(c, instr)
	}
	return h(c, instr, double)
}

// fpuWOp converts a 32 bit integer to S or D
func fpuWOp(c *CPU, instr uint32) error {
	v := int64(int32(c.COP1.GetFGR32(fs(instr), c.fr())))
	return c.fromInteger(instr, v)
}

// fpuLOp converts a 64 bit integer to S or D
func fpuLOp(c *CPU, instr uint32) error {
	v := int64(c.COP1.GetFGR64(fs(instr), c.fr()))
	return c.fromInteger(instr, v)
}

func (c *CPU) fromInteger(instr uint32, v int64) error {
	c.COP1.syncRounding()
	fr, m := c.fr(), c.COP1.ActiveMode()
	switch funct(instr) {
	case 0x20:
		c.COP1.SetFloat32(fd(instr), fr, float32(intToFloat(v, precSingle, m)))
	case 0x21:
		c.COP1.SetFloat64(fd(instr), fr, intToFloat(v, precDouble, m))
	default:
		return unimplemented(c, instr)
	}
	return nil
}

// arithmetic

func (c *CPU) arith(instr uint32, double bool, op fpuOp) error {
	c.COP1.syncRounding()
	fr, m := c.fr(), c.COP1.ActiveMode()
	if double {
		a := c.COP1.GetFloat64(fs(instr), fr)
		b := c.COP1.GetFloat64(ft(instr), fr)
		c.COP1.SetFloat64(fd(instr), fr, arith64(op, a, b, m))
		return nil
	}
	a := c.COP1.GetFloat32(fs(instr), fr)
	b := c.COP1.GetFloat32(ft(instr), fr)
	c.COP1.SetFloat32(fd(instr), fr, arith32(op, a, b, m))
	return nil
}

func faddOp(c *CPU, instr uint32, double bool) error { return c.arith(instr, double, opAdd) }
func fsubOp(c *CPU, instr uint32, double bool) error { return c.arith(instr, double, opSub) }
func fmulOp(c *CPU, instr uint32, double bool) error { return c.arith(instr, double, opMul) }
func fdivOp(c *CPU, instr uint32, double bool) error { return c.arith(instr, double, opDiv) }

func fsqrtOp(c *CPU, instr uint32, double bool) error {
	return c.arith(instr, double, opSqrt)
}

// ABS, MOV and NEG work on the raw bits, NaN payloads pass through

func (c *CPU) signOp(instr uint32, double bool, f func(bits, sign uint64) uint64) {
	fr := c.fr()
	if double {
		v := c.COP1.GetFGR64(fs(instr), fr)
		c.COP1.SetFGR64(fd(instr), fr, f(v, 1<<63))
		return
	}
	v := uint64(c.COP1.GetFGR32(fs(instr), fr))
	c.COP1.SetFGR32(fd(instr), fr, uint32(f(v, 1<<31)))
}

func fabsOp(c *CPU, instr uint32, double bool) error {
	c.signOp(instr, double, func(v, s uint64) uint64 { return v &^ s })
	return nil
}

func fmovOp(c *CPU, instr uint32, double bool) error {
	c.signOp(instr, double, func(v, s uint64) uint64 { return v })
	return nil
}

func fnegOp(c *CPU, instr uint32, double bool) error {
	c.signOp(instr, double, func(v, s uint64) uint64 { return v ^ s })
	return nil
}

// float to integer conversions

func (c *CPU) operand(instr uint32, double bool) float64 {
	if double {
		return c.COP1.GetFloat64(fs(instr), c.fr())
	}
	return float64(c.COP1.GetFloat32(fs(instr), c.fr()))
}

// toInteger converts fs with the active mode into fd
func (c *CPU) toInteger(instr uint32, double, long bool) {
	v := c.operand(instr, double)
	m := c.COP1.ActiveMode()
	if long {
		c.COP1.SetFGR64(fd(instr), c.fr(), toLong(v, m))
	} else {
		c.COP1.SetFGR32(fd(instr), c.fr(), toWord(v, m))
	}
}

// convertWith forces mode for one conversion and puts the previous
// mode back afterwards
func (c *CPU) convertWith(instr uint32, double, long bool, mode RoundingMode) error {
	prev := c.COP1.setRounding(mode)
	c.toInteger(instr, double, long)
	c.COP1.setRounding(prev)
	return nil
}

func roundLOp(c *CPU, instr uint32, double bool) error {
	return c.convertWith(instr, double, true, RoundNearest)
}

func truncLOp(c *CPU, instr uint32, double bool) error {
	return c.convertWith(instr, double, true, RoundZero)
}

func ceilLOp(c *CPU, instr uint32, double bool) error {
	return c.convertWith(instr, double, true, RoundUp)
}

func floorLOp(c *CPU, instr uint32, double bool) error {
	return c.convertWith(instr, double, true, RoundDown)
}

func roundWOp(c *CPU, instr uint32, double bool) error {
	return c.convertWith(instr, double, false, RoundNearest)
}

func truncWOp(c *CPU, instr uint32, double bool) error {
	return c.convertWith(instr, double, false, RoundZero)
}

func ceilWOp(c *CPU, instr uint32, double bool) error {
	return c.convertWith(instr, double, false, RoundUp)
}

func floorWOp(c *CPU, instr uint32, double bool) error {
	return c.convertWith(instr, double, false, RoundDown)
}

func cvtWOp(c *CPU, instr uint32, double bool) error {
	c.COP1.syncRounding()
	c.toInteger(instr, double, false)
	return nil
}

func cvtLOp(c *CPU, instr uint32, double bool) error {
	c.COP1.syncRounding()
	c.toInteger(instr, double, true)
	return nil
}

// format conversions; S to S and D to D are not valid encodings

func cvtSOp(c *CPU, instr uint32, double bool) error {
	if !double {
		return unimplemented(c, instr)
	}
	c.COP1.syncRounding()
	v := c.COP1.GetFloat64(fs(instr), c.fr())
	c.COP1.SetFloat32(fd(instr), c.fr(), roundToSingle(v, c.COP1.ActiveMode()))
	return nil
}

func cvtDOp(c *CPU, instr uint32, double bool) error {
	if double {
		return unimplemented(c, instr)
	}
	c.COP1.SetFloat64(fd(instr), c.fr(), float64(c.COP1.GetFloat32(fs(instr), c.fr())))
	return nil
}

// fcmpOp implements all sixteen C.cond forms. The low three bits of the
// condition select unordered, equal and less than; the signaling forms
// compare the same way.
func fcmpOp(c *CPU, instr uint32, double bool) error {
	a := c.operand(instr, double)
	var b float64
	if double {
		b = c.COP1.GetFloat64(ft(instr), c.fr())
	} else {
		b = float64(c.COP1.GetFloat32(ft(instr), c.fr()))
	}
	cond := funct(instr) & 0xF
	unordered := math.IsNaN(a) || math.IsNaN(b)
	res := cond&1 != 0 && unordered ||
		cond&2 != 0 && !unordered && a == b ||
		cond&4 != 0 && !unordered && a < b
	c.COP1.setCondition(res)
	return nil
}

// fpu loads and stores are primary opcodes and check CU1 themselves

func lwc1Op(c *CPU, instr uint32) error {
	if !c.copUsable(1) {
		return nil
	}
	a := c.effAddr(instr)
	if !c.aligned(a, 4, false) {
		return nil
	}
	v, err := c.bus.Read32(a)
	if err != nil {
		return err
	}
	c.COP1.SetFGR32(ft(instr), c.fr(), v)
	return nil
}

func ldc1Op(c *CPU, instr uint32) error {
	if !c.copUsable(1) {
		return nil
	}
	a := c.effAddr(instr)
	if !c.aligned(a, 8, false) {
		return nil
	}
	v, err := c.bus.Read64(a)
	if err != nil {
		return err
	}
	c.COP1.SetFGR64(ft(instr), c.fr(), v)
	return nil
}

func swc1Op(c *CPU, instr uint32) error {
	if !c.copUsable(1) {
		return nil
	}
	a := c.effAddr(instr)
	if !c.aligned(a, 4, true) {
		return nil
	}
	return c.bus.Write32(a, c.COP1.GetFGR32(ft(instr), c.fr()))
}

func sdc1Op(c *CPU, instr uint32) error {
	if !c.copUsable(1) {
		return nil
	}
	a := c.effAddr(instr)
	if !c.aligned(a, 8, true) {
		return nil
	}
	return c.bus.Write64(a, c.COP1.GetFGR64(ft(instr), c.fr()))
}
