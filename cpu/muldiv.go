package cpu

import (
	"math"
	"math/bits"
)

// Multiply and divide. Both halves land in HI/LO; 32 bit variants sign
// extend each half. Division by zero does not trap: the quotient
// saturates and the remainder is the dividend.

func multOp(c *CPU, instr uint32) error {
	p := int64(int32(c.GetReg(rs(instr)))) * int64(int32(c.GetReg(rt(instr))))
	c.lo = signExtend32(uint32(p))
	c.hi = signExtend32(uint32(p >> 32))
	return nil
}

func multuOp(c *CPU, instr uint32) error {
	p := uint64(uint32(c.GetReg(rs(instr)))) * uint64(uint32(c.GetReg(rt(instr))))
	c.lo = signExtend32(uint32(p))
	c.hi = signExtend32(uint32(p >> 32))
	return nil
}

func divOp(c *CPU, instr uint32) error {
	n, d := int32(c.GetReg(rs(instr))), int32(c.GetReg(rt(instr)))
	switch {
	case d == 0:
		if n >= 0 {
			c.lo = signExtend32(0xFFFFFFFF)
		} else {
			c.lo = 1
		}
		c.hi = signExtend32(uint32(n))
	case n == math.MinInt32 && d == -1:
		c.lo = signExtend32(uint32(n))
		c.hi = 0
	default:
		c.lo = signExtend32(uint32(n / d))
		c.hi = signExtend32(uint32(n % d))
	}
	return nil
}

func divuOp(c *CPU, instr uint32) error {
	n, d := uint32(c.GetReg(rs(instr))), uint32(c.GetReg(rt(instr)))
	if d == 0 {
		c.lo = signExtend32(0xFFFFFFFF)
		c.hi = signExtend32(n)
		return nil
	}
	c.lo = signExtend32(n / d)
	c.hi = signExtend32(n % d)
	return nil
}

func dmultOp(c *CPU, instr uint32) error {
	a, b := int64(c.GetReg(rs(instr))), int64(c.GetReg(rt(instr)))
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	// signed correction of the unsigned high half
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	c.hi, c.lo = hi, lo
	return nil
}

func dmultuOp(c *CPU, instr uint32) error {
	c.hi, c.lo = bits.Mul64(c.GetReg(rs(instr)), c.GetReg(rt(instr)))
	return nil
}

func ddivOp(c *CPU, instr uint32) error {
	n, d := int64(c.GetReg(rs(instr))), int64(c.GetReg(rt(instr)))
	switch {
	case d == 0:
		if n >= 0 {
			c.lo = math.MaxUint64
		} else {
			c.lo = 1
		}
		c.hi = uint64(n)
	case n == math.MinInt64 && d == -1:
		c.lo = uint64(n)
		c.hi = 0
	default:
		c.lo = uint64(n / d)
		c.hi = uint64(n % d)
	}
	return nil
}

func ddivuOp(c *CPU, instr uint32) error {
	n, d := c.GetReg(rs(instr)), c.GetReg(rt(instr))
	if d == 0 {
		c.lo = math.MaxUint64
		c.hi = n
		return nil
	}
	c.lo = n / d
	c.hi = n % d
	return nil
}
