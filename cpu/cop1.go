package cpu

import (
	"encoding/binary"
	"math"
)

// RoundingMode is the FCR31 RM field
type RoundingMode uint32

// rounding modes
const (
	RoundNearest RoundingMode = 0
	RoundZero    RoundingMode = 1
	RoundUp      RoundingMode = 2
	RoundDown    RoundingMode = 3
)

func (m RoundingMode) String() string {
	return [...]string{"RN", "RZ", "RP", "RM"}[m&3]
}

const (
	// FCR0 implementation and revision register
	fcr0Value = 0x00000A00

	fcr31Condition = 1 << 23
	fcr31RMMask    = 3
	fcr31Writable  = 0x0183FFFF

	fgrSlot = 8
)

// COP1 is the floating point unit.
//
// The 32 registers live in a 256 byte buffer, one 8 byte slot each. How
// an access maps onto it depends on Status.FR, which the caller passes in
// on every access:
//
//	FR=1: a 64 bit value fills slot n, a 32 bit value is the low half of slot n
//	FR=0: a 64 bit value is split over the even/odd pair, low word in the
//	      low half of slot n&^1, high word in the low half of slot n|1;
//	      a 32 bit value is the low half of slot n
type COP1 struct {
	fgr   [32 * fgrSlot]byte
	fcr31 uint32

	// mode the arithmetic currently rounds with, the equivalent of the
	// host FPU control word
	mode RoundingMode
}

// NewCOP1 returns a cleared fpu
func NewCOP1() *COP1 {
	f := &COP1{}
	f.Reset()
	return f
}

// Reset clears registers and control state
func (f *COP1) Reset() {
	f.fgr = [32 * fgrSlot]byte{}
	f.fcr31 = 0
	f.mode = RoundNearest
}

func (f *COP1) slot(n int) []byte {
	o := (n & 31) * fgrSlot
	return f.fgr[o : o+fgrSlot]
}

// GetFGR32 reads the 32 bit view of register n. The view is the low word
// of slot n in both modes: with FR clear the odd half of a pair lives in
// slot n|1, where SetFGR64 puts it, so fr does not change the result.
func (f *COP1) GetFGR32(n int, fr bool) uint32 {
	return binary.LittleEndian.Uint32(f.slot(n))
}

// SetFGR32 writes the 32 bit view of register n, the same slot in both
// modes
func (f *COP1) SetFGR32(n int, fr bool, v uint32) {
	binary.LittleEndian.PutUint32(f.slot(n), v)
}

// GetFGR64 reads the 64 bit view of register n
func (f *COP1) GetFGR64(n int, fr bool) uint64 {
	if fr {
		return binary.LittleEndian.Uint64(f.slot(n))
	}
	lo := binary.LittleEndian.Uint32(f.slot(n &^ 1))
	hi := binary.LittleEndian.Uint32(f.slot(n | 1))
	return uint64(hi)<<32 | uint64(lo)
}

// SetFGR64 writes the 64 bit view of register n
func (f *COP1) SetFGR64(n int, fr bool, v uint64) {
	if fr {
		binary.LittleEndian.PutUint64(f.slot(n), v)
		return
	}
	binary.LittleEndian.PutUint32(f.slot(n&^1), uint32(v))
	binary.LittleEndian.PutUint32(f.slot(n|1), uint32(v>>32))
}

// GetFloat32 reads register n as single precision
func (f *COP1) GetFloat32(n int, fr bool) float32 {
	return math.Float32frombits(f.GetFGR32(n, fr))
}

// SetFloat32 writes register n as single precision
func (f *COP1) SetFloat32(n int, fr bool, v float32) {
	f.SetFGR32(n, fr, math.Float32bits(v))
}

// GetFloat64 reads register n as double precision
func (f *COP1) GetFloat64(n int, fr bool) float64 {
	return math.Float64frombits(f.GetFGR64(n, fr))
}

// SetFloat64 writes register n as double precision
func (f *COP1) SetFloat64(n int, fr bool, v float64) {
	f.SetFGR64(n, fr, math.Float64bits(v))
}

// GetFCR reads control register n. Only FCR0 and FCR31 exist.
func (f *COP1) GetFCR(n int) uint32 {
	switch n {
	case 0:
		return fcr0Value
	case 31:
		return f.fcr31
	}
	return 0
}

// SetFCR writes control register n; writes to FCR31 select the rounding
// mode for everything that follows
func (f *COP1) SetFCR(n int, v uint32) {
	if n == 31 {
		f.fcr31 = v & fcr31Writable
	}
}

// RoundingMode returns the mode FCR31 selects
func (f *COP1) RoundingMode() RoundingMode {
	return RoundingMode(f.fcr31 & fcr31RMMask)
}

// ActiveMode returns the mode arithmetic is currently using
func (f *COP1) ActiveMode() RoundingMode {
	return f.mode
}

// setRounding switches the active mode and returns the previous one
func (f *COP1) setRounding(m RoundingMode) RoundingMode {
	prev := f.mode
	f.mode = m
	return prev
}

// syncRounding makes the active mode match FCR31
func (f *COP1) syncRounding() {
	f.setRounding(f.RoundingMode())
}

// Condition returns the compare result bit
func (f *COP1) Condition() bool {
	return f.fcr31&fcr31Condition != 0
}

func (f *COP1) setCondition(b bool) {
	if b {
		f.fcr31 |= fcr31Condition
	} else {
		f.fcr31 &^= fcr31Condition
	}
}
