package interrupts

import "fmt"

// FaultKind tells what part of the emulator gave up
type FaultKind int

const (
	// Unimplemented - decode table miss, the instruction is not known
	Unimplemented FaultKind = iota
	// Unmapped - virtual address in a segment that is not translated (KUSEG, KSSEG, KSEG3)
	Unmapped
	// BusError - physical address outside every known range
	BusError
)

func (k FaultKind) String() string {
	switch k {
	case Unimplemented:
		return "unimplemented instruction"
	case Unmapped:
		return "unmapped address"
	case BusError:
		return "bus error"
	}
	return "fault"
}

// Fault is a host-level failure: the emulator itself diverged from what the
// program expects. Unlike an emulated exception it is never recovered from,
// the run loop logs it and halts.
//
// The bus fills in Addr, the cpu adds PC, Instr and Opcode on the way up.
type Fault struct {
	Kind   FaultKind
	Addr   uint64
	PC     uint64
	Instr  uint32
	Opcode uint32
	Msg    string

	// HasPC is false until the cpu annotated the fault
	HasPC bool
}

func (f *Fault) Error() string {
	s := f.Kind.String()
	if f.Kind != Unimplemented {
		s += fmt.Sprintf(" at 0x%08X", f.Addr)
	}
	if f.Msg != "" {
		s += ": " + f.Msg
	}
	if f.HasPC {
		s += fmt.Sprintf(" [PC = 0x%016X, instr 0x%08X, opcode %d]", f.PC, f.Instr, f.Opcode)
	}
	return s
}

// NewFault returns a fault of the given kind
func NewFault(kind FaultKind, addr uint64, format string, args ...interface{}) *Fault {
	return &Fault{
		Kind: kind,
		Addr: addr,
		Msg:  fmt.Sprintf(format, args...),
	}
}
