package cpu

import (
	"n64/interrupts"
)

// exception vectors
const (
	generalVector   uint64 = 0xFFFFFFFF80000180
	bootstrapVector uint64 = 0xFFFFFFFFBFC00380
)

// TriggerException enters the general exception handler for code. cop is
// the coprocessor number for coprocessor unusable, zero otherwise.
//
// EPC points at the faulting instruction, or at the branch before it when
// the fault hit a delay slot (Cause BD set). With EXL already set, EPC and
// BD are left alone. Any pending branch is cancelled.
func (c *CPU) TriggerException(code interrupts.ExceptionCode, cop uint32) {
	cause := c.COP0.Cause()
	cause &^= causeExcMask | causeCEMask
	cause |= uint32(code)<<causeExcShift | cop<<causeCEShift&causeCEMask

	st := c.COP0.Status()
	epc := c.curPC
	if !st.EXL() {
		if c.InDelaySlot() {
			epc -= 4
			cause |= causeBD
		} else {
			cause &^= causeBD
		}
		c.COP0.regs[EPC] = epc
	}
	c.COP0.setCause(cause)

	st.SetEXL(true)
	c.COP0.SetStatus(st)

	if st.BEV() {
		c.pc = bootstrapVector
	} else {
		c.pc = generalVector
	}
	c.branchDelay = 0
	c.tracer.Exception(code, epc)
}

// addressError raises AdEL or AdES for a misaligned access
func (c *CPU) addressError(addr uint64, store bool) {
	c.COP0.regs[BadVAddr] = addr
	ctx := c.COP0.regs[Context]
	c.COP0.regs[Context] = ctx&^0x7FFFF0 | addr>>9&0x7FFFF0
	if store {
		c.TriggerException(interrupts.AdES, 0)
	} else {
		c.TriggerException(interrupts.AdEL, 0)
	}
}

// eret returns from an error exception to ErrorEPC, from anything else
// to EPC. It has no delay slot.
func eretOp(c *CPU, instr uint32) error {
	st := c.COP0.Status()
	if st.ERL() {
		c.pc = c.COP0.regs[ErrorEPC]
		st.SetERL(false)
	} else {
		c.pc = c.COP0.regs[EPC]
		st.SetEXL(false)
	}
	c.COP0.SetStatus(st)
	c.llbit = false
	c.branchDelay = 0
	return nil
}
