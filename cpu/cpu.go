// Package cpu implements the VR4300 interpreter: integer core, COP0 and
// COP1, with a one slot delayed branch.
package cpu

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"n64/interrupts"
)

// Bus is what the cpu needs from the memory system. Addresses are virtual,
// errors are host level faults.
type Bus interface {
	Read8(vaddr uint64) (uint8, error)
	Read16(vaddr uint64) (uint16, error)
	Read32(vaddr uint64) (uint32, error)
	Read64(vaddr uint64) (uint64, error)
	Write8(vaddr uint64, v uint8) error
	Write16(vaddr uint64, v uint16) error
	Write32(vaddr uint64, v uint32) error
	Write64(vaddr uint64, v uint64) error
}

// Tracer observes execution. All methods are called on the emulation
// thread and must not block.
type Tracer interface {
	Instruction(pc uint64, instr uint32)
	Exception(code interrupts.ExceptionCode, epc uint64)
	Fault(err error)
}

type nopTracer struct{}

func (nopTracer) Instruction(uint64, uint32)                 {}
func (nopTracer) Exception(interrupts.ExceptionCode, uint64) {}
func (nopTracer) Fault(error)                                {}

const (
	// ResetVector is where a cold reset starts executing
	ResetVector uint64 = 0xFFFFFFFFBFC00000

	eretInstr uint32 = 0x42000018

	// countdown loaded by a taken branch: the delay slot runs first
	branchDelaySlots = 2
)

// CPU is the main processor
type CPU struct {
	regs   [32]uint64
	hi, lo uint64

	// pc is the next instruction to fetch, curPC the one executing
	pc    uint64
	curPC uint64

	branchTarget uint64
	branchDelay  int

	llbit bool

	COP0 *COP0
	COP1 *COP1

	bus    Bus
	tracer Tracer
	log    *log.Logger

	// Cycles counts executed steps
	Cycles uint64
}

// New returns a cpu in its reset state, fetching through bus. Count
// advances once every 1<<countShift cycles.
func New(bus Bus, countShift uint, l *log.Logger) *CPU {
	c := &CPU{
		COP0:   NewCOP0(countShift),
		COP1:   NewCOP1(),
		bus:    bus,
		tracer: nopTracer{},
		log:    l,
	}
	c.Reset()
	return c
}

// Reset clears the register file and jumps to the reset vector
func (c *CPU) Reset() {
	c.regs = [32]uint64{}
	c.hi, c.lo = 0, 0
	c.pc = ResetVector
	c.curPC = ResetVector
	c.branchDelay = 0
	c.llbit = false
	c.Cycles = 0
	c.COP0.Reset()
	c.COP1.Reset()
}

// SetTracer installs an observer, nil restores the no-op one
func (c *CPU) SetTracer(t Tracer) {
	if t == nil {
		t = nopTracer{}
	}
	c.tracer = t
}

// GetReg returns general purpose register i
func (c *CPU) GetReg(i int) uint64 {
	return c.regs[i&31]
}

// SetReg writes general purpose register i. r0 stays zero.
func (c *CPU) SetReg(i int, v uint64) {
	if i&31 != 0 {
		c.regs[i&31] = v
	}
}

// setReg32 stores a 32 bit result sign extended
func (c *CPU) setReg32(i int, v uint32) {
	c.SetReg(i, signExtend32(v))
}

// PC returns the address of the next instruction
func (c *CPU) PC() uint64 {
	return c.pc
}

// SetPC jumps, dropping any pending branch
func (c *CPU) SetPC(pc uint64) {
	c.pc = pc
	c.curPC = pc
	c.branchDelay = 0
}

// CurrentPC returns the address of the last fetched instruction
func (c *CPU) CurrentPC() uint64 {
	return c.curPC
}

// HI returns the multiply/divide high result
func (c *CPU) HI() uint64 { return c.hi }

// LO returns the multiply/divide low result
func (c *CPU) LO() uint64 { return c.lo }

// SetHI sets the multiply/divide high result
func (c *CPU) SetHI(v uint64) { c.hi = v }

// SetLO sets the multiply/divide low result
func (c *CPU) SetLO(v uint64) { c.lo = v }

// InDelaySlot is true while the instruction after a taken branch executes
func (c *CPU) InDelaySlot() bool {
	return c.branchDelay == 1
}

// branchTo schedules a jump after the delay slot
func (c *CPU) branchTo(target uint64) {
	c.branchTarget = target
	c.branchDelay = branchDelaySlots
}

// Step executes one instruction. Order: pending interrupt, timer, fetch,
// execute, delayed branch.
func (c *CPU) Step() error {
	if c.COP0.InterruptPending() {
		c.curPC = c.pc
		c.TriggerException(interrupts.Int, 0)
	}
	c.COP0.Tick()
	c.Cycles++

	c.curPC = c.pc
	if c.pc&3 != 0 {
		c.addressError(c.pc, false)
		return nil
	}

	instr, err := c.bus.Read32(c.pc)
	if err != nil {
		return c.fault(err, 0)
	}
	c.pc += 4
	c.tracer.Instruction(c.curPC, instr)

	pending := c.branchDelay
	switch instr {
	case 0:
		// sll r0, r0, 0
	case eretInstr:
		err = eretOp(c, instr)
	default:
		err = primary[instr>>26](c, instr)
	}
	if err != nil {
		return c.fault(err, instr)
	}

	// a branch in this instruction or an exception replaced the countdown
	if pending != 0 && pending == c.branchDelay {
		c.branchDelay--
		if c.branchDelay == 0 {
			c.pc = c.branchTarget
		}
	} else if c.branchDelay == branchDelaySlots {
		c.branchDelay--
	}
	return nil
}

// Tick runs n cycles, stopping at the first host fault
func (c *CPU) Tick(n int) error {
	for i := 0; i < n; i++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// fault annotates a host level error with the failing instruction
func (c *CPU) fault(err error, instr uint32) error {
	var f *interrupts.Fault
	if errors.As(err, &f) && !f.HasPC {
		f.PC = c.curPC
		f.Instr = instr
		f.Opcode = instr >> 26
		f.HasPC = true
	}
	c.tracer.Fault(err)
	return err
}

// unimplemented is the handler for empty decode table slots
func unimplemented(c *CPU, instr uint32) error {
	return interrupts.NewFault(interrupts.Unimplemented, c.curPC, "%s", Disasm(instr, c.curPC))
}

// DumpRegisters lists the register file, four registers per line
func (c *CPU) DumpRegisters() string {
	var res strings.Builder
	for i, reg := range c.regs {
		fmt.Fprintf(&res, "%-4s %016X", RegNames[i], reg)
		if i%4 == 3 {
			res.WriteString("\n")
		} else {
			res.WriteString("  ")
		}
	}
	fmt.Fprintf(&res, "hi   %016X  lo   %016X  pc   %016X\n", c.hi, c.lo, c.pc)
	return res.String()
}

func signExtend32(v uint32) uint64 {
	return uint64(int64(int32(v)))
}

func signExtend16(v uint16) uint64 {
	return uint64(int64(int16(v)))
}

func signExtend8(v uint8) uint64 {
	return uint64(int64(int8(v)))
}
