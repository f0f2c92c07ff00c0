package status

/**
COP0 Status register package
*/

// status word layout. Values here are bits, not the
// powers of 2
const (
	ieFlag  = 0  // interrupt enable
	exlFlag = 1  // exception level
	erlFlag = 2  // error level
	bevFlag = 22 // bootstrap exception vectors
	frFlag  = 26 // 64 bit floating point register mode
	cu0Flag = 28 // coprocessor usability, CU1..CU3 follow
)

// InterruptMaskBits - IM field (bits 8..15), lines up with Cause IP
const InterruptMaskBits = 0xFF00

// Word keeps the COP0 Status register
type Word uint32

// Get returns current status word
func (s *Word) Get() uint32 {
	return uint32(*s)
}

// Set status word value
func (s *Word) Set(v uint32) {
	*s = Word(v)
}

// IE returns the interrupt enable flag
func (s *Word) IE() bool {
	return s.getFlag(ieFlag)
}

// SetIE sets the interrupt enable flag
func (s *Word) SetIE(status bool) {
	s.setFlag(ieFlag, status)
}

// EXL returns the exception level flag
func (s *Word) EXL() bool {
	return s.getFlag(exlFlag)
}

// SetEXL sets the exception level flag
func (s *Word) SetEXL(status bool) {
	s.setFlag(exlFlag, status)
}

// ERL returns the error level flag
func (s *Word) ERL() bool {
	return s.getFlag(erlFlag)
}

// SetERL sets the error level flag
func (s *Word) SetERL(status bool) {
	s.setFlag(erlFlag, status)
}

// BEV returns true if exceptions go to the bootstrap vectors
func (s *Word) BEV() bool {
	return s.getFlag(bevFlag)
}

// FR returns true for 64 bit (direct) floating point register addressing,
// false for 32 bit paired addressing
func (s *Word) FR() bool {
	return s.getFlag(frFlag)
}

// SetFR switches the floating point register addressing mode
func (s *Word) SetFR(status bool) {
	s.setFlag(frFlag, status)
}

// CU returns the usability bit of coprocessor n (0..3)
func (s *Word) CU(n uint) bool {
	return s.getFlag(cu0Flag + (n & 3))
}

// SetCU marks coprocessor n usable or unusable
func (s *Word) SetCU(n uint, status bool) {
	s.setFlag(cu0Flag+(n&3), status)
}

// IM returns the interrupt mask field, still in place (bits 8..15)
func (s *Word) IM() uint32 {
	return uint32(*s) & InterruptMaskBits
}

// InterruptsEnabled - interrupts are taken only with IE set and
// neither exception nor error level active
func (s *Word) InterruptsEnabled() bool {
	return s.IE() && !s.EXL() && !s.ERL()
}

// generic get flag function
func (s *Word) getFlag(flag uint) bool {
	return (*s & (1 << flag)) > 0
}

// generic set flag function
func (s *Word) setFlag(flag uint, status bool) {
	if status {
		*s |= (1 << flag)
	} else {
		*s &^= (1 << flag)
	}
}

// GetFlags returns set flags
func (s *Word) GetFlags() string {
	flags := ""
	for n := uint(0); n < 4; n++ {
		if s.CU(n) {
			flags += string(rune('0' + n))
		} else {
			flags += "-"
		}
	}
	flags += " "
	if s.FR() {
		flags += "F"
	} else {
		flags += " "
	}
	if s.BEV() {
		flags += "B"
	} else {
		flags += " "
	}
	if s.ERL() {
		flags += "R"
	} else {
		flags += " "
	}
	if s.EXL() {
		flags += "X"
	} else {
		flags += " "
	}
	if s.IE() {
		flags += "I"
	} else {
		flags += " "
	}
	return "[" + flags + "]"
}
