package cpu

import "fmt"

// RegNames are the conventional ABI names of the general purpose registers
var RegNames = [32]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// operand layouts
const (
	fmtNone = iota
	fmtRdRsRt
	fmtRdRtSa
	fmtRdRtRs
	fmtRsRt
	fmtRs
	fmtRd
	fmtRdRs
	fmtRtRsImm
	fmtRtImm
	fmtRsRtOff
	fmtRsOff
	fmtTarget
	fmtRtMem
	fmtCode
	fmtRsImm
	fmtFtMem
)

type mnemonic struct {
	name string
	f    int
}

var primaryNames = [64]mnemonic{
	0x02: {"j", fmtTarget}, 0x03: {"jal", fmtTarget},
	0x04: {"beq", fmtRsRtOff}, 0x05: {"bne", fmtRsRtOff},
	0x06: {"blez", fmtRsOff}, 0x07: {"bgtz", fmtRsOff},
	0x08: {"addi", fmtRtRsImm}, 0x09: {"addiu", fmtRtRsImm},
	0x0A: {"slti", fmtRtRsImm}, 0x0B: {"sltiu", fmtRtRsImm},
	0x0C: {"andi", fmtRtRsImm}, 0x0D: {"ori", fmtRtRsImm},
	0x0E: {"xori", fmtRtRsImm}, 0x0F: {"lui", fmtRtImm},
	0x14: {"beql", fmtRsRtOff}, 0x15: {"bnel", fmtRsRtOff},
	0x16: {"blezl", fmtRsOff}, 0x17: {"bgtzl", fmtRsOff},
	0x18: {"daddi", fmtRtRsImm}, 0x19: {"daddiu", fmtRtRsImm},
	0x1A: {"ldl", fmtRtMem}, 0x1B: {"ldr", fmtRtMem},
	0x20: {"lb", fmtRtMem}, 0x21: {"lh", fmtRtMem}, 0x22: {"lwl", fmtRtMem}, 0x23: {"lw", fmtRtMem},
	0x24: {"lbu", fmtRtMem}, 0x25: {"lhu", fmtRtMem}, 0x26: {"lwr", fmtRtMem}, 0x27: {"lwu", fmtRtMem},
	0x28: {"sb", fmtRtMem}, 0x29: {"sh", fmtRtMem}, 0x2A: {"swl", fmtRtMem}, 0x2B: {"sw", fmtRtMem},
	0x2C: {"sdl", fmtRtMem}, 0x2D: {"sdr", fmtRtMem}, 0x2E: {"swr", fmtRtMem}, 0x2F: {"cache", fmtRtMem},
	0x30: {"ll", fmtRtMem}, 0x31: {"lwc1", fmtFtMem}, 0x34: {"lld", fmtRtMem}, 0x35: {"ldc1", fmtFtMem},
	0x37: {"ld", fmtRtMem}, 0x38: {"sc", fmtRtMem}, 0x39: {"swc1", fmtFtMem}, 0x3C: {"scd", fmtRtMem},
	0x3D: {"sdc1", fmtFtMem}, 0x3F: {"sd", fmtRtMem},
}

var specialNames = [64]mnemonic{
	0x00: {"sll", fmtRdRtSa}, 0x02: {"srl", fmtRdRtSa}, 0x03: {"sra", fmtRdRtSa},
	0x04: {"sllv", fmtRdRtRs}, 0x06: {"srlv", fmtRdRtRs}, 0x07: {"srav", fmtRdRtRs},
	0x08: {"jr", fmtRs}, 0x09: {"jalr", fmtRdRs},
	0x0C: {"syscall", fmtCode}, 0x0D: {"break", fmtCode}, 0x0F: {"sync", fmtNone},
	0x10: {"mfhi", fmtRd}, 0x11: {"mthi", fmtRs}, 0x12: {"mflo", fmtRd}, 0x13: {"mtlo", fmtRs},
	0x14: {"dsllv", fmtRdRtRs}, 0x16: {"dsrlv", fmtRdRtRs}, 0x17: {"dsrav", fmtRdRtRs},
	0x18: {"mult", fmtRsRt}, 0x19: {"multu", fmtRsRt}, 0x1A: {"div", fmtRsRt}, 0x1B: {"divu", fmtRsRt},
	0x1C: {"dmult", fmtRsRt}, 0x1D: {"dmultu", fmtRsRt}, 0x1E: {"ddiv", fmtRsRt}, 0x1F: {"ddivu", fmtRsRt},
	0x20: {"add", fmtRdRsRt}, 0x21: {"addu", fmtRdRsRt}, 0x22: {"sub", fmtRdRsRt}, 0x23: {"subu", fmtRdRsRt},
	0x24: {"and", fmtRdRsRt}, 0x25: {"or", fmtRdRsRt}, 0x26: {"xor", fmtRdRsRt}, 0x27: {"nor", fmtRdRsRt},
	0x2A: {"slt", fmtRdRsRt}, 0x2B: {"sltu", fmtRdRsRt},
	0x2C: {"dadd", fmtRdRsRt}, 0x2D: {"daddu", fmtRdRsRt}, 0x2E: {"dsub", fmtRdRsRt}, 0x2F: {"dsubu", fmtRdRsRt},
	0x30: {"tge", fmtRsRt}, 0x31: {"tgeu", fmtRsRt}, 0x32: {"tlt", fmtRsRt}, 0x33: {"tltu", fmtRsRt},
	0x34: {"teq", fmtRsRt}, 0x36: {"tne", fmtRsRt},
	0x38: {"dsll", fmtRdRtSa}, 0x3A: {"dsrl", fmtRdRtSa}, 0x3B: {"dsra", fmtRdRtSa},
	0x3C: {"dsll32", fmtRdRtSa}, 0x3E: {"dsrl32", fmtRdRtSa}, 0x3F: {"dsra32", fmtRdRtSa},
}

var regimmNames = [32]mnemonic{
	0x00: {"bltz", fmtRsOff}, 0x01: {"bgez", fmtRsOff}, 0x02: {"bltzl", fmtRsOff}, 0x03: {"bgezl", fmtRsOff},
	0x08: {"tgei", fmtRsImm}, 0x09: {"tgeiu", fmtRsImm}, 0x0A: {"tlti", fmtRsImm}, 0x0B: {"tltiu", fmtRsImm},
	0x0C: {"teqi", fmtRsImm}, 0x0E: {"tnei", fmtRsImm},
	0x10: {"bltzal", fmtRsOff}, 0x11: {"bgezal", fmtRsOff}, 0x12: {"bltzall", fmtRsOff}, 0x13: {"bgezall", fmtRsOff},
}

var fpuNames = [64]string{
	0x00: "add", 0x01: "sub", 0x02: "mul", 0x03: "div",
	0x04: "sqrt", 0x05: "abs", 0x06: "mov", 0x07: "neg",
	0x08: "round.l", 0x09: "trunc.l", 0x0A: "ceil.l", 0x0B: "floor.l",
	0x0C: "round.w", 0x0D: "trunc.w", 0x0E: "ceil.w", 0x0F: "floor.w",
	0x20: "cvt.s", 0x21: "cvt.d", 0x24: "cvt.w", 0x25: "cvt.l",
}

var compareNames = [16]string{
	"f", "un", "eq", "ueq", "olt", "ult", "ole", "ule",
	"sf", "ngle", "seq", "ngl", "lt", "nge", "le", "ngt",
}

var tlbNames = map[uint32]string{
	0x01: "tlbr", 0x02: "tlbwi", 0x06: "tlbwr", 0x08: "tlbp", 0x18: "eret",
}

// Disasm renders instr, fetched from pc, in assembler syntax. Unknown
// encodings come out as a raw word.
func Disasm(instr uint32, pc uint64) string {
	if instr == 0 {
		return "nop"
	}
	op := instr >> 26
	var m mnemonic
	switch op {
	case 0x00:
		m = specialNames[funct(instr)]
	case 0x01:
		m = regimmNames[rt(instr)]
	case 0x10:
		return disasmCop0(instr)
	case 0x11:
		return disasmCop1(instr, pc)
	default:
		m = primaryNames[op]
	}
	if m.name == "" {
		return fmt.Sprintf(".word 0x%08X", instr)
	}
	return m.name + operands(m.f, instr, pc)
}

func operands(f int, instr uint32, pc uint64) string {
	r := func(n int) string { return RegNames[n] }
	off := pc + 4 + simm(instr)<<2
	switch f {
	case fmtRdRsRt:
		return fmt.Sprintf(" %s, %s, %s", r(rd(instr)), r(rs(instr)), r(rt(instr)))
	case fmtRdRtSa:
		return fmt.Sprintf(" %s, %s, %d", r(rd(instr)), r(rt(instr)), sa(instr))
	case fmtRdRtRs:
		return fmt.Sprintf(" %s, %s, %s", r(rd(instr)), r(rt(instr)), r(rs(instr)))
	case fmtRsRt:
		return fmt.Sprintf(" %s, %s", r(rs(instr)), r(rt(instr)))
	case fmtRs:
		return " " + r(rs(instr))
	case fmtRd:
		return " " + r(rd(instr))
	case fmtRdRs:
		return fmt.Sprintf(" %s, %s", r(rd(instr)), r(rs(instr)))
	case fmtRtRsImm:
		return fmt.Sprintf(" %s, %s, 0x%04X", r(rt(instr)), r(rs(instr)), imm(instr))
	case fmtRtImm:
		return fmt.Sprintf(" %s, 0x%04X", r(rt(instr)), imm(instr))
	case fmtRsImm:
		return fmt.Sprintf(" %s, 0x%04X", r(rs(instr)), imm(instr))
	case fmtRsRtOff:
		return fmt.Sprintf(" %s, %s, 0x%08X", r(rs(instr)), r(rt(instr)), uint32(off))
	case fmtRsOff:
		return fmt.Sprintf(" %s, 0x%08X", r(rs(instr)), uint32(off))
	case fmtTarget:
		return fmt.Sprintf(" 0x%08X", uint32((pc+4)&0xF0000000|target(instr)))
	case fmtRtMem:
		return fmt.Sprintf(" %s, %d(%s)", r(rt(instr)), int16(imm(instr)), r(rs(instr)))
	case fmtFtMem:
		return fmt.Sprintf(" f%d, %d(%s)", ft(instr), int16(imm(instr)), r(rs(instr)))
	case fmtCode:
		if code := instr >> 6 & 0xFFFFF; code != 0 {
			return fmt.Sprintf(" 0x%X", code)
		}
	}
	return ""
}

func disasmCop0(instr uint32) string {
	switch rs(instr) {
	case 0x00:
		return fmt.Sprintf("mfc0 %s, %s", RegNames[rt(instr)], Cop0Reg(rd(instr)))
	case 0x01:
		return fmt.Sprintf("dmfc0 %s, %s", RegNames[rt(instr)], Cop0Reg(rd(instr)))
	case 0x04:
		return fmt.Sprintf("mtc0 %s, %s", RegNames[rt(instr)], Cop0Reg(rd(instr)))
	case 0x05:
		return fmt.Sprintf("dmtc0 %s, %s", RegNames[rt(instr)], Cop0Reg(rd(instr)))
	}
	if instr&(1<<25) != 0 {
		if n, ok := tlbNames[funct(instr)]; ok {
			return n
		}
	}
	return fmt.Sprintf(".word 0x%08X", instr)
}

func disasmCop1(instr uint32, pc uint64) string {
	t := RegNames[rt(instr)]
	switch fmtField(instr) {
	case 0x00:
		return fmt.Sprintf("mfc1 %s, f%d", t, fs(instr))
	case 0x01:
		return fmt.Sprintf("dmfc1 %s, f%d", t, fs(instr))
	case 0x02:
		return fmt.Sprintf("cfc1 %s, fcr%d", t, fs(instr))
	case 0x04:
		return fmt.Sprintf("mtc1 %s, f%d", t, fs(instr))
	case 0x05:
		return fmt.Sprintf("dmtc1 %s, f%d", t, fs(instr))
	case 0x06:
		return fmt.Sprintf("ctc1 %s, fcr%d", t, fs(instr))
	case 0x08:
		name := [4]string{"bc1f", "bc1t", "bc1fl", "bc1tl"}[rt(instr)&3]
		return fmt.Sprintf("%s 0x%08X", name, uint32(pc+4+simm(instr)<<2))
	}
	suffix, ok := map[int]string{0x10: "s", 0x11: "d", 0x14: "w", 0x15: "l"}[fmtField(instr)]
	if !ok {
		return fmt.Sprintf(".word 0x%08X", instr)
	}
	fn := funct(instr)
	if fn >= 0x30 {
		return fmt.Sprintf("c.%s.%s f%d, f%d", compareNames[fn&0xF], suffix, fs(instr), ft(instr))
	}
	name := fpuNames[fn]
	if name == "" {
		return fmt.Sprintf(".word 0x%08X", instr)
	}
	switch fn {
	case 0x00, 0x01, 0x02, 0x03:
		return fmt.Sprintf("%s.%s f%d, f%d, f%d", name, suffix, fd(instr), fs(instr), ft(instr))
	}
	return fmt.Sprintf("%s.%s f%d, f%d", name, suffix, fd(instr), fs(instr))
}
