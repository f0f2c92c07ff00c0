package cpu

import (
	"n64/interrupts"
)

// Integer ALU instructions. 32 bit operations work on the low word and
// sign extend the result, 64 bit ones (the D prefix) use the whole register.

// add32Overflows is true when a+b overflows 32 bit two's complement
func add32Overflows(a, b, sum int32) bool {
	return (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0)
}

func add64Overflows(a, b, sum int64) bool {
	return (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0)
}

// add - rd = rs + rt, overflow exception leaves rd alone
func addOp(c *CPU, instr uint32) error {
	a, b := int32(c.GetReg(rs(instr))), int32(c.GetReg(rt(instr)))
	sum := a + b
	if add32Overflows(a, b, sum) {
		c.TriggerException(interrupts.Ov, 0)
		return nil
	}
	c.setReg32(rd(instr), uint32(sum))
	return nil
}

func adduOp(c *CPU, instr uint32) error {
	c.setReg32(rd(instr), uint32(c.GetReg(rs(instr)))+uint32(c.GetReg(rt(instr))))
	return nil
}

func subOp(c *CPU, instr uint32) error {
	a, b := int32(c.GetReg(rs(instr))), int32(c.GetReg(rt(instr)))
	diff := a - b
	if (a >= 0) != (b >= 0) && (diff >= 0) != (a >= 0) {
		c.TriggerException(interrupts.Ov, 0)
		return nil
	}
	c.setReg32(rd(instr), uint32(diff))
	return nil
}

func subuOp(c *CPU, instr uint32) error {
	c.setReg32(rd(instr), uint32(c.GetReg(rs(instr)))-uint32(c.GetReg(rt(instr))))
	return nil
}

func daddOp(c *CPU, instr uint32) error {
	a, b := int64(c.GetReg(rs(instr))), int64(c.GetReg(rt(instr)))
	sum := a + b
	if add64Overflows(a, b, sum) {
		c.TriggerException(interrupts.Ov, 0)
		return nil
	}
	c.SetReg(rd(instr), uint64(sum))
	return nil
}

func dadduOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rs(instr))+c.GetReg(rt(instr)))
	return nil
}

func dsubOp(c *CPU, instr uint32) error {
	a, b := int64(c.GetReg(rs(instr))), int64(c.GetReg(rt(instr)))
	diff := a - b
	if (a >= 0) != (b >= 0) && (diff >= 0) != (a >= 0) {
		c.TriggerException(interrupts.Ov, 0)
		return nil
	}
	c.SetReg(rd(instr), uint64(diff))
	return nil
}

func dsubuOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rs(instr))-c.GetReg(rt(instr)))
	return nil
}

func andOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rs(instr))&c.GetReg(rt(instr)))
	return nil
}

func orOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rs(instr))|c.GetReg(rt(instr)))
	return nil
}

func xorOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rs(instr))^c.GetReg(rt(instr)))
	return nil
}

func norOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), ^(c.GetReg(rs(instr)) | c.GetReg(rt(instr))))
	return nil
}

func sltOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), boolToReg(int64(c.GetReg(rs(instr))) < int64(c.GetReg(rt(instr)))))
	return nil
}

func sltuOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), boolToReg(c.GetReg(rs(instr)) < c.GetReg(rt(instr))))
	return nil
}

func boolToReg(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// immediates:

func addiOp(c *CPU, instr uint32) error {
	a, b := int32(c.GetReg(rs(instr))), int32(int16(imm(instr)))
	sum := a + b
	if add32Overflows(a, b, sum) {
		c.TriggerException(interrupts.Ov, 0)
		return nil
	}
	c.setReg32(rt(instr), uint32(sum))
	return nil
}

func addiuOp(c *CPU, instr uint32) error {
	c.setReg32(rt(instr), uint32(c.GetReg(rs(instr)))+uint32(simm(instr)))
	return nil
}

func daddiOp(c *CPU, instr uint32) error {
	a, b := int64(c.GetReg(rs(instr))), int64(simm(instr))
	sum := a + b
	if add64Overflows(a, b, sum) {
		c.TriggerException(interrupts.Ov, 0)
		return nil
	}
	c.SetReg(rt(instr), uint64(sum))
	return nil
}

func daddiuOp(c *CPU, instr uint32) error {
	c.SetReg(rt(instr), c.GetReg(rs(instr))+simm(instr))
	return nil
}

func sltiOp(c *CPU, instr uint32) error {
	c.SetReg(rt(instr), boolToReg(int64(c.GetReg(rs(instr))) < int64(simm(instr))))
	return nil
}

// sltiu compares unsigned against the sign extended immediate
func sltiuOp(c *CPU, instr uint32) error {
	c.SetReg(rt(instr), boolToReg(c.GetReg(rs(instr)) < simm(instr)))
	return nil
}

func andiOp(c *CPU, instr uint32) error {
	c.SetReg(rt(instr), c.GetReg(rs(instr))&uint64(imm(instr)))
	return nil
}

func oriOp(c *CPU, instr uint32) error {
	c.SetReg(rt(instr), c.GetReg(rs(instr))|uint64(imm(instr)))
	return nil
}

func xoriOp(c *CPU, instr uint32) error {
	c.SetReg(rt(instr), c.GetReg(rs(instr))^uint64(imm(instr)))
	return nil
}

func luiOp(c *CPU, instr uint32) error {
	c.setReg32(rt(instr), uint32(imm(instr))<<16)
	return nil
}

// shifts:

func sllOp(c *CPU, instr uint32) error {
	c.setReg32(rd(instr), uint32(c.GetReg(rt(instr)))<<sa(instr))
	return nil
}

func srlOp(c *CPU, instr uint32) error {
	c.setReg32(rd(instr), uint32(c.GetReg(rt(instr)))>>sa(instr))
	return nil
}

// sra shifts the full register so bits above 31 feed in, like the VR4300
func sraOp(c *CPU, instr uint32) error {
	c.setReg32(rd(instr), uint32(int64(c.GetReg(rt(instr)))>>sa(instr)))
	return nil
}

func sllvOp(c *CPU, instr uint32) error {
	c.setReg32(rd(instr), uint32(c.GetReg(rt(instr)))<<(c.GetReg(rs(instr))&0x1F))
	return nil
}

func srlvOp(c *CPU, instr uint32) error {
	c.setReg32(rd(instr), uint32(c.GetReg(rt(instr)))>>(c.GetReg(rs(instr))&0x1F))
	return nil
}

func sravOp(c *CPU, instr uint32) error {
	c.setReg32(rd(instr), uint32(int64(c.GetReg(rt(instr)))>>(c.GetReg(rs(instr))&0x1F)))
	return nil
}

func dsllOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rt(instr))<<sa(instr))
	return nil
}

func dsrlOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rt(instr))>>sa(instr))
	return nil
}

func dsraOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), uint64(int64(c.GetReg(rt(instr)))>>sa(instr)))
	return nil
}

func dsll32Op(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rt(instr))<<(sa(instr)+32))
	return nil
}

func dsrl32Op(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rt(instr))>>(sa(instr)+32))
	return nil
}

func dsra32Op(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), uint64(int64(c.GetReg(rt(instr)))>>(sa(instr)+32)))
	return nil
}

func dsllvOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rt(instr))<<(c.GetReg(rs(instr))&0x3F))
	return nil
}

func dsrlvOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.GetReg(rt(instr))>>(c.GetReg(rs(instr))&0x3F))
	return nil
}

func dsravOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), uint64(int64(c.GetReg(rt(instr)))>>(c.GetReg(rs(instr))&0x3F)))
	return nil
}

// HI / LO moves:

func mfhiOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.hi)
	return nil
}

func mthiOp(c *CPU, instr uint32) error {
	c.hi = c.GetReg(rs(instr))
	return nil
}

func mfloOp(c *CPU, instr uint32) error {
	c.SetReg(rd(instr), c.lo)
	return nil
}

func mtloOp(c *CPU, instr uint32) error {
	c.lo = c.GetReg(rs(instr))
	return nil
}

// traps and system calls:

func (c *CPU) trapIf(cond bool) error {
	if cond {
		c.TriggerException(interrupts.Tr, 0)
	}
	return nil
}

func tgeOp(c *CPU, instr uint32) error {
	return c.trapIf(int64(c.GetReg(rs(instr))) >= int64(c.GetReg(rt(instr))))
}

func tgeuOp(c *CPU, instr uint32) error {
	return c.trapIf(c.GetReg(rs(instr)) >= c.GetReg(rt(instr)))
}

func tltOp(c *CPU, instr uint32) error {
	return c.trapIf(int64(c.GetReg(rs(instr))) < int64(c.GetReg(rt(instr))))
}

func tltuOp(c *CPU, instr uint32) error {
	return c.trapIf(c.GetReg(rs(instr)) < c.GetReg(rt(instr)))
}

func teqOp(c *CPU, instr uint32) error {
	return c.trapIf(c.GetReg(rs(instr)) == c.GetReg(rt(instr)))
}

func tneOp(c *CPU, instr uint32) error {
	return c.trapIf(c.GetReg(rs(instr)) != c.GetReg(rt(instr)))
}

func tgeiOp(c *CPU, instr uint32) error {
	return c.trapIf(int64(c.GetReg(rs(instr))) >= int64(simm(instr)))
}

func tgeiuOp(c *CPU, instr uint32) error {
	return c.trapIf(c.GetReg(rs(instr)) >= simm(instr))
}

func tltiOp(c *CPU, instr uint32) error {
	return c.trapIf(int64(c.GetReg(rs(instr))) < int64(simm(instr)))
}

func tltiuOp(c *CPU, instr uint32) error {
	return c.trapIf(c.GetReg(rs(instr)) < simm(instr))
}

func teqiOp(c *CPU, instr uint32) error {
	return c.trapIf(c.GetReg(rs(instr)) == simm(instr))
}

func tneiOp(c *CPU, instr uint32) error {
	return c.trapIf(c.GetReg(rs(instr)) != simm(instr))
}

func syscallOp(c *CPU, instr uint32) error {
	c.TriggerException(interrupts.Sys, 0)
	return nil
}

func breakOp(c *CPU, instr uint32) error {
	c.TriggerException(interrupts.Bp, 0)
	return nil
}

// sync and cache have nothing to do without caches or a pipeline
func syncOp(c *CPU, instr uint32) error {
	return nil
}

func cacheOp(c *CPU, instr uint32) error {
	return nil
}
