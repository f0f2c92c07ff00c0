package cpu

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log"
	"strings"
	"testing"

	"n64/interrupts"
	"n64/logger"
	"n64/status"
)

const (
	testRAM  = 0x10000
	progBase = 0x1000
	kseg0    = 0xFFFFFFFF80000000
)

// flatBus maps every KSEG0/KSEG1 address onto one small big endian buffer
type flatBus struct {
	mem [testRAM]byte
}

func (b *flatBus) phys(vaddr uint64, n int) (int, error) {
	p := int(vaddr & 0x1FFFFFFF)
	if p+n > testRAM {
		return 0, interrupts.NewFault(interrupts.BusError, vaddr, "no memory at %08X", p)
	}
	return p, nil
}

func (b *flatBus) Read8(a uint64) (uint8, error) {
	p, err := b.phys(a, 1)
	if err != nil {
		return 0, err
	}
	return b.mem[p], nil
}

func (b *flatBus) Read16(a uint64) (uint16, error) {
	p, err := b.phys(a, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b.mem[p:]), nil
}

func (b *flatBus) Read32(a uint64) (uint32, error) {
	p, err := b.phys(a, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b.mem[p:]), nil
}

func (b *flatBus) Read64(a uint64) (uint64, error) {
	p, err := b.phys(a, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b.mem[p:]), nil
}

func (b *flatBus) Write8(a uint64, v uint8) error {
	p, err := b.phys(a, 1)
	if err != nil {
		return err
	}
	b.mem[p] = v
	return nil
}

func (b *flatBus) Write16(a uint64, v uint16) error {
	p, err := b.phys(a, 2)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(b.mem[p:], v)
	return nil
}

func (b *flatBus) Write32(a uint64, v uint32) error {
	p, err := b.phys(a, 4)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b.mem[p:], v)
	return nil
}

func (b *flatBus) Write64(a uint64, v uint64) error {
	p, err := b.phys(a, 8)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint64(b.mem[p:], v)
	return nil
}

func (b *flatBus) load(addr int, words ...uint32) {
	for i, w := range words {
		binary.BigEndian.PutUint32(b.mem[addr+4*i:], w)
	}
}

// encoders
func rType(rs, rt, rd, sa, fn uint32) uint32 {
	return rs<<21 | rt<<16 | rd<<11 | sa<<6 | fn
}

func iType(op, rs, rt uint32, imm uint16) uint32 {
	return op<<26 | rs<<21 | rt<<16 | uint32(imm)
}

func fType(fmt, ft, fs, fd, fn uint32) uint32 {
	return 0x11<<26 | fmt<<21 | ft<<16 | fs<<11 | fd<<6 | fn
}

// newTestCPU returns a cpu in kernel mode with COP1 enabled, EXL/ERL clear,
// about to run prog from progBase
func newTestCPU(prog ...uint32) (*CPU, *flatBus) {
	b := &flatBus{}
	b.load(progBase, prog...)
	c := New(b, 1, logger.Discard())
	c.COP0.SetReg(Status, 1<<29)
	c.SetPC(kseg0 + progBase)
	return c, b
}

func run(t *testing.T, c *CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func excCode(c *CPU) interrupts.ExceptionCode {
	return interrupts.ExceptionCode(c.COP0.Cause() & causeExcMask >> causeExcShift)
}

func TestCPU_ZeroRegister(t *testing.T) {
	tests := []struct {
		name  string
		instr uint32
	}{
		{"addiu", iType(0x09, 0, 0, 5)},
		{"lui", iType(0x0F, 0, 0, 0x1234)},
		{"slti", iType(0x0A, 0, 0, 1)},
		{"addu", rType(1, 2, 0, 0, 0x21)},
		{"or", rType(1, 2, 0, 0, 0x25)},
		{"sltu", rType(0, 1, 0, 0, 0x2B)},
		{"sll", rType(0, 2, 0, 3, 0x00)},
		{"dsll32", rType(0, 2, 0, 1, 0x3C)},
		{"mfhi", rType(0, 0, 0, 0, 0x10)},
		{"mflo", rType(0, 0, 0, 0, 0x12)},
		{"jalr", rType(3, 0, 0, 0, 0x09)},
		{"mfc0", 0x10<<26 | 12<<11},
		{"dmfc0", 0x10<<26 | 0x01<<21 | 12<<11},
		{"mfc1", 0x11<<26 | 0x00<<21 | 2<<11},
		{"dmfc1", 0x11<<26 | 0x01<<21 | 2<<11},
		{"cfc1", 0x11<<26 | 0x02<<21 | 31<<11},
		{"lw", iType(0x23, 0, 0, 0x2000)},
		{"lwl", iType(0x22, 0, 0, 0x2001)},
		{"lwr", iType(0x26, 0, 0, 0x2002)},
		{"ld", iType(0x37, 0, 0, 0x2000)},
		{"sc", iType(0x38, 0, 0, 0x2000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, b := newTestCPU(tt.instr)
			b.load(0x2000, 0x80010203, 0x04050607)
			c.SetReg(1, 0x10)
			c.SetReg(2, 5)
			c.SetReg(3, kseg0+progBase+0x100)
			c.SetHI(7)
			c.SetLO(9)
			c.COP1.SetFGR64(2, false, 0x3FF0000000000000)
			c.COP1.SetFCR(31, 3)
			c.llbit = true
			run(t, c, 1)
			if got := c.GetReg(0); got != 0 {
				t.Errorf("r0 = %X, want 0", got)
			}
		})
	}
}

func TestCPU_SignExtension(t *testing.T) {
	tests := []struct {
		name  string
		instr uint32
		r1    uint64
		r2    uint64
		want  uint64
	}{
		{"addu overflow into bit 31", rType(1, 2, 3, 0, 0x21), 0x7FFFFFFF, 1, 0xFFFFFFFF80000000},
		{"addiu negative", iType(0x09, 1, 3, 0xFFFF), 0, 0, 0xFFFFFFFFFFFFFFFF},
		{"lui high bit", iType(0x0F, 0, 3, 0x8000), 0, 0, 0xFFFFFFFF80000000},
		{"ori zero extends", iType(0x0D, 1, 3, 0x8000), 0, 0, 0x8000},
		{"sll sign extends", rType(0, 2, 3, 31, 0x00), 0, 1, 0xFFFFFFFF80000000},
		{"daddu keeps 64 bits", rType(1, 2, 3, 0, 0x2D), 0x7FFFFFFF, 1, 0x80000000},
		{"dsll32", rType(0, 2, 3, 0, 0x3C), 0, 1, 1 << 32},
		{"sra of 64 bit value", rType(0, 2, 3, 4, 0x03), 0, 0xFFFFFFFF80000000, 0xFFFFFFFFF8000000},
		{"slt signed", rType(1, 2, 3, 0, 0x2A), 0xFFFFFFFFFFFFFFFF, 0, 1},
		{"sltu unsigned", rType(1, 2, 3, 0, 0x2B), 0xFFFFFFFFFFFFFFFF, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(tt.instr)
			c.SetReg(1, tt.r1)
			c.SetReg(2, tt.r2)
			run(t, c, 1)
			if got := c.GetReg(3); got != tt.want {
				t.Errorf("r3 = %016X, want %016X", got, tt.want)
			}
		})
	}
}

func TestCPU_Loads(t *testing.T) {
	tests := []struct {
		name  string
		instr uint32
		want  uint64
	}{
		{"lb", iType(0x20, 0, 3, 0x2000), 0xFFFFFFFFFFFFFF80},
		{"lbu", iType(0x24, 0, 3, 0x2000), 0x80},
		{"lh", iType(0x21, 0, 3, 0x2000), 0xFFFFFFFFFFFF8001},
		{"lhu", iType(0x25, 0, 3, 0x2000), 0x8001},
		{"lw", iType(0x23, 0, 3, 0x2000), 0xFFFFFFFF80010203},
		{"lwu", iType(0x27, 0, 3, 0x2000), 0x80010203},
		{"ld", iType(0x37, 0, 3, 0x2000), 0x8001020304050607},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, b := newTestCPU(tt.instr)
			b.load(0x2000, 0x80010203, 0x04050607)
			run(t, c, 1)
			if got := c.GetReg(3); got != tt.want {
				t.Errorf("r3 = %016X, want %016X", got, tt.want)
			}
		})
	}
}

func TestCPU_UnalignedPairs(t *testing.T) {
	c, b := newTestCPU(
		iType(0x22, 1, 2, 1), // lwl v0, 1(at)
		iType(0x26, 1, 2, 4), // lwr v0, 4(at)
		iType(0x2A, 1, 3, 1), // swl v1, 1(at)
		iType(0x2E, 1, 3, 4), // swr v1, 4(at)
	)
	b.load(0x2000, 0x11223344, 0x55667788)
	c.SetReg(1, kseg0+0x2000)
	c.SetReg(3, 0xAABBCCDD)
	run(t, c, 2)
	if got := c.GetReg(2); got != 0x22334455 {
		t.Errorf("lwl/lwr = %016X, want 22334455", got)
	}
	run(t, c, 2)
	if got := binary.BigEndian.Uint64(b.mem[0x2000:]); got != 0x11AABBCCDD667788 {
		t.Errorf("swl/swr memory = %016X, want 11AABBCCDD667788", got)
	}
}

func TestCPU_MisalignedLoad(t *testing.T) {
	c, _ := newTestCPU(iType(0x23, 0, 3, 0x2002))
	run(t, c, 1)
	if code := excCode(c); code != interrupts.AdEL {
		t.Fatalf("exception = %v, want AdEL", code)
	}
	if got := c.COP0.GetReg(BadVAddr); got != 0x2002 {
		t.Errorf("BadVAddr = %X, want 2002", got)
	}
}

func TestCPU_DivideByZero(t *testing.T) {
	tests := []struct {
		name   string
		fn     uint32
		n      uint64
		hi, lo uint64
	}{
		{"div positive", 0x1A, 5, 5, 0xFFFFFFFFFFFFFFFF},
		{"div negative", 0x1A, 0xFFFFFFFFFFFFFFFB, 0xFFFFFFFFFFFFFFFB, 1},
		{"divu", 0x1B, 5, 5, 0xFFFFFFFFFFFFFFFF},
		{"ddivu", 0x1F, 5, 5, 0xFFFFFFFFFFFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(rType(1, 0, 0, 0, tt.fn))
			c.SetReg(1, tt.n)
			run(t, c, 1)
			if c.HI() != tt.hi || c.LO() != tt.lo {
				t.Errorf("hi, lo = %X, %X, want %X, %X", c.HI(), c.LO(), tt.hi, tt.lo)
			}
		})
	}
}

func TestCPU_MultDiv(t *testing.T) {
	c, _ := newTestCPU(
		rType(1, 2, 0, 0, 0x18), // mult
		rType(1, 2, 0, 0, 0x1C), // dmult
		rType(1, 2, 0, 0, 0x1A), // div
	)
	c.SetReg(1, 0xFFFFFFFFFFFFFFF9) // -7
	c.SetReg(2, 2)
	run(t, c, 1)
	if c.LO() != 0xFFFFFFFFFFFFFFF2 || c.HI() != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("mult: hi, lo = %X, %X", c.HI(), c.LO())
	}
	run(t, c, 1)
	if c.LO() != 0xFFFFFFFFFFFFFFF2 || c.HI() != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("dmult: hi, lo = %X, %X", c.HI(), c.LO())
	}
	run(t, c, 1)
	if c.LO() != 0xFFFFFFFFFFFFFFFD || c.HI() != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("div: hi, lo = %X, %X", c.HI(), c.LO())
	}
}

func TestCPU_Overflow(t *testing.T) {
	c, _ := newTestCPU(rType(1, 2, 3, 0, 0x20)) // add
	c.SetReg(1, 0x7FFFFFFF)
	c.SetReg(2, 1)
	c.SetReg(3, 0xDEAD)
	run(t, c, 1)
	if code := excCode(c); code != interrupts.Ov {
		t.Errorf("exception = %v, want Ov", code)
	}
	if got := c.GetReg(3); got != 0xDEAD {
		t.Errorf("rd = %X, changed by an overflowing add", got)
	}
	if c.PC() != generalVector {
		t.Errorf("pc = %X, want %X", c.PC(), generalVector)
	}
}

func TestCPU_DelayedBranch(t *testing.T) {
	tests := []struct {
		name   string
		branch uint32
		steps  int
		want   [4]uint64
	}{
		{"beq taken runs the delay slot", iType(0x04, 0, 0, 2), 3, [4]uint64{1, 0, 1, 0}},
		{"bne not taken falls through", iType(0x05, 0, 0, 2), 4, [4]uint64{1, 1, 1, 0}},
		{"beql taken runs the delay slot", iType(0x14, 0, 0, 2), 3, [4]uint64{1, 0, 1, 0}},
		{"bnel not taken skips the delay slot", iType(0x15, 0, 0, 2), 3, [4]uint64{0, 1, 1, 0}},
		{"j", 0x02<<26 | (progBase+16)>>2, 3, [4]uint64{1, 0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(
				tt.branch,
				iType(0x09, 0, 1, 1), // delay slot
				iType(0x09, 0, 2, 1),
				iType(0x09, 0, 3, 1), // beq target
				iType(0x09, 0, 4, 1), // j target
			)
			run(t, c, tt.steps)
			got := [4]uint64{c.GetReg(1), c.GetReg(2), c.GetReg(3), c.GetReg(4)}
			if got != tt.want {
				t.Errorf("r1..r4 = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCPU_JumpAndLink(t *testing.T) {
	c, _ := newTestCPU(
		0x03<<26|(progBase+12)>>2, // jal
		0,
		0,
		rType(31, 0, 0, 0, 0x08), // jr ra
		0,
	)
	run(t, c, 2)
	if got, want := c.GetReg(31), uint64(kseg0+progBase+8); got != want {
		t.Errorf("ra = %X, want %X", got, want)
	}
	if got, want := c.PC(), uint64(kseg0+progBase+12); got != want {
		t.Errorf("pc = %X, want %X", got, want)
	}
	run(t, c, 2)
	if got, want := c.PC(), uint64(kseg0+progBase+8); got != want {
		t.Errorf("after jr pc = %X, want %X", got, want)
	}
}

func TestCPU_ExceptionInDelaySlot(t *testing.T) {
	c, _ := newTestCPU(
		iType(0x04, 0, 0, 4),    // beq
		rType(0, 0, 0, 0, 0x0C), // syscall in the delay slot
	)
	run(t, c, 2)
	if got, want := c.COP0.GetReg(EPC), uint64(kseg0+progBase); got != want {
		t.Errorf("EPC = %X, want the branch at %X", got, want)
	}
	if c.COP0.Cause()&causeBD == 0 {
		t.Error("Cause.BD clear")
	}
	if c.PC() != generalVector {
		t.Errorf("pc = %X, pending branch was not cancelled", c.PC())
	}
}

func TestCPU_ExceptionReturn(t *testing.T) {
	c, b := newTestCPU(rType(0, 0, 0, 0, 0x0C)) // syscall
	b.load(0x180, eretInstr)
	x := c.PC()

	run(t, c, 1)
	if got := c.COP0.GetReg(EPC); got != x {
		t.Errorf("EPC = %X, want %X", got, x)
	}
	if code := excCode(c); code != interrupts.Sys {
		t.Errorf("exception = %v, want Sys", code)
	}
	st := c.COP0.Status()
	if !st.EXL() {
		t.Error("EXL not set on entry")
	}

	run(t, c, 1)
	if c.PC() != x {
		t.Errorf("after eret pc = %X, want %X", c.PC(), x)
	}
	st = c.COP0.Status()
	if st.EXL() {
		t.Error("EXL still set after eret")
	}
}

func TestCPU_NestedExceptionKeepsEPC(t *testing.T) {
	c, _ := newTestCPU()
	c.COP0.SetReg(EPC, 0x1234)
	st := c.COP0.Status()
	st.SetEXL(true)
	c.COP0.SetStatus(st)
	c.TriggerException(interrupts.Bp, 0)
	if got := c.COP0.GetReg(EPC); got != 0x1234 {
		t.Errorf("EPC = %X, overwritten with EXL set", got)
	}
}

func TestCPU_BootstrapVector(t *testing.T) {
	c, _ := newTestCPU()
	c.COP0.SetReg(Status, 1<<22) // BEV
	c.TriggerException(interrupts.Sys, 0)
	if c.PC() != bootstrapVector {
		t.Errorf("pc = %X, want %X", c.PC(), bootstrapVector)
	}
}

func TestCPU_InterruptEntry(t *testing.T) {
	c, _ := newTestCPU(0, 0)
	x := c.PC()
	var st status.Word
	st.Set(1<<29 | causeIP2 | 1) // CU1, IM2, IE
	c.COP0.SetStatus(st)

	run(t, c, 1)
	if c.PC() != x+4 {
		t.Fatalf("pc = %X, interrupt taken with the line low", c.PC())
	}

	c.COP0.SetInterruptLine(true)
	run(t, c, 1)
	if code := excCode(c); code != interrupts.Int {
		t.Errorf("exception = %v, want Int", code)
	}
	if got := c.COP0.GetReg(EPC); got != x+4 {
		t.Errorf("EPC = %X, want %X", got, x+4)
	}
	// the handler's first instruction ran in the same step
	if c.PC() != generalVector+4 {
		t.Errorf("pc = %X, want %X", c.PC(), generalVector+4)
	}

	// EXL now masks the still asserted line
	run(t, c, 1)
	if c.PC() != generalVector+8 {
		t.Errorf("pc = %X, interrupt re-entered while EXL set", c.PC())
	}
}

func TestCPU_CoprocessorUnusable(t *testing.T) {
	c, _ := newTestCPU(rType(0x11<<5|0x04, 1, 2, 0, 0)) // mtc1 at, f2
	c.COP0.SetReg(Status, 0)
	c.SetReg(1, 0x3F800000)
	run(t, c, 1)

	if code := excCode(c); code != interrupts.CpU {
		t.Errorf("exception = %v, want CpU", code)
	}
	if ce := c.COP0.Cause() & causeCEMask >> causeCEShift; ce != 1 {
		t.Errorf("Cause.CE = %d, want 1", ce)
	}
	if got := c.COP1.GetFGR32(2, false); got != 0 {
		t.Errorf("f2 = %X, written while unusable", got)
	}
}

func TestCPU_Warnings(t *testing.T) {
	tests := []struct {
		name   string
		instr  uint32
		status uint64
		want   string
		code   interrupts.ExceptionCode
	}{
		{"tlbwi", 0x42000002, 1 << 29, "tlbwi at 80001000 stored entry 5", 0xFF},
		{"tlbwr", 0x42000006, 1 << 29, "tlbwr at 80001000 stored entry", 0xFF},
		{"cop2 enabled", 0x48800000, 1<<30 | 1<<29, "COP2 instruction 48800000 at 80001000", interrupts.RI},
		{"cop3 enabled", 0x4C800000, 1<<31 | 1<<29, "COP3 instruction 4C800000", interrupts.RI},
		{"cop2 disabled", 0x48800000, 1 << 29, "", interrupts.CpU},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(tt.instr)
			var out bytes.Buffer
			c.log = log.New(&out, "", 0)
			c.COP0.SetReg(Status, tt.status)
			c.COP0.SetReg(Index, 5)
			run(t, c, 1)

			if tt.want == "" {
				if out.Len() != 0 {
					t.Errorf("logged %q", out.String())
				}
			} else if !strings.Contains(out.String(), tt.want) {
				t.Errorf("logged %q, want %q", out.String(), tt.want)
			}
			if tt.code != 0xFF {
				if code := excCode(c); code != tt.code {
					t.Errorf("exception = %v, want %v", code, tt.code)
				}
			}
		})
	}
}

func TestCPU_UnimplementedFault(t *testing.T) {
	instr := uint32(0x1C<<26 | 0x1234)
	c, _ := newTestCPU(instr)
	x := c.PC()

	err := c.Step()
	var f *interrupts.Fault
	if !errors.As(err, &f) {
		t.Fatalf("Step() = %v, want a *Fault", err)
	}
	if f.Kind != interrupts.Unimplemented {
		t.Errorf("kind = %v, want Unimplemented", f.Kind)
	}
	if !f.HasPC || f.PC != x || f.Instr != instr || f.Opcode != 0x1C {
		t.Errorf("fault = %+v, not annotated with %X/%08X", f, x, instr)
	}
}

func TestCPU_BusErrorFault(t *testing.T) {
	c, _ := newTestCPU(iType(0x23, 1, 2, 0)) // lw v0, 0(at)
	c.SetReg(1, kseg0+0x00F00000)

	err := c.Step()
	var f *interrupts.Fault
	if !errors.As(err, &f) || f.Kind != interrupts.BusError {
		t.Fatalf("Step() = %v, want a bus error", err)
	}
	if f.Addr != kseg0+0x00F00000 || !f.HasPC {
		t.Errorf("fault = %+v", f)
	}
}

func TestCPU_Traps(t *testing.T) {
	tests := []struct {
		name  string
		instr uint32
		trap  bool
	}{
		{"teq equal", rType(1, 1, 0, 0, 0x34), true},
		{"tne equal", rType(1, 1, 0, 0, 0x36), false},
		{"tlti", iType(0x01, 1, 0x0A, 10), true},
		{"tgei", iType(0x01, 1, 0x08, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(tt.instr)
			c.SetReg(1, 5)
			run(t, c, 1)
			if got := c.PC() == generalVector; got != tt.trap {
				t.Errorf("trapped = %v, want %v", got, tt.trap)
			}
			if tt.trap && excCode(c) != interrupts.Tr {
				t.Errorf("exception = %v, want Tr", excCode(c))
			}
		})
	}
}

func TestCPU_LoadLinked(t *testing.T) {
	c, b := newTestCPU(
		iType(0x30, 0, 2, 0x2000), // ll
		iType(0x38, 0, 3, 0x2000), // sc
		iType(0x38, 0, 4, 0x2004), // sc after eret
	)
	b.load(0x2000, 7)
	c.SetReg(3, 9)
	c.SetReg(4, 9)
	run(t, c, 2)
	if c.GetReg(2) != 7 || c.GetReg(3) != 1 {
		t.Errorf("ll/sc = %d, %d, want 7, 1", c.GetReg(2), c.GetReg(3))
	}
	if got := binary.BigEndian.Uint32(b.mem[0x2000:]); got != 9 {
		t.Errorf("memory = %d, want 9", got)
	}
	if got := c.COP0.GetReg(LLAddr); got != 0x200 {
		t.Errorf("LLAddr = %X, want 200", got)
	}

	c.llbit = false
	run(t, c, 1)
	if c.GetReg(4) != 0 || binary.BigEndian.Uint32(b.mem[0x2004:]) != 0 {
		t.Error("sc without a link stored")
	}
}

func TestCPU_DumpRegisters(t *testing.T) {
	c, _ := newTestCPU()
	c.SetReg(29, 0xA4001FF0)
	out := c.DumpRegisters()
	if want := "sp   00000000A4001FF0"; !strings.Contains(out, want) {
		t.Errorf("dump missing %q:\n%s", want, out)
	}
}
