package cpu

import (
	"math"
	"math/big"
)

// Go arithmetic always rounds to nearest even. The other modes are done by
// computing in math/big at the target precision, which rounds exactly once
// in the requested direction. NaN and infinite operands stay on the native
// path where IEEE semantics already give the answer.

const (
	precSingle = 24
	precDouble = 53
)

var bigModes = [4]big.RoundingMode{
	RoundNearest: big.ToNearestEven,
	RoundZero:    big.ToZero,
	RoundUp:      big.ToPositiveInf,
	RoundDown:    big.ToNegativeInf,
}

type fpuOp int

const (
	opAdd fpuOp = iota
	opSub
	opMul
	opDiv
	opSqrt
)

func nonFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func native(op fpuOp, a, b float64) float64 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	case opDiv:
		return a / b
	}
	return math.Sqrt(a)
}

// compute returns op(a, b) rounded to prec bits with mode m
func compute(op fpuOp, a, b float64, prec uint, m RoundingMode) (float64, bool) {
	if op == opSqrt {
		b = 0
	}
	if op == opDiv && b == 0 || op == opSqrt && a < 0 || nonFinite(a, b) {
		return 0, false
	}
	x := new(big.Float).SetFloat64(a)
	y := new(big.Float).SetFloat64(b)
	z := new(big.Float).SetPrec(prec).SetMode(bigModes[m&3])
	switch op {
	case opAdd:
		z.Add(x, y)
	case opSub:
		z.Sub(x, y)
	case opMul:
		z.Mul(x, y)
	case opDiv:
		z.Quo(x, y)
	case opSqrt:
		z.Sqrt(x)
	}
	if prec == precSingle {
		v, _ := z.Float32()
		return float64(v), true
	}
	v, _ := z.Float64()
	return v, true
}

// arith64 is a double precision operation in mode m
func arith64(op fpuOp, a, b float64, m RoundingMode) float64 {
	if m != RoundNearest {
		if v, ok := compute(op, a, b, precDouble, m); ok {
			return v
		}
	}
	return native(op, a, b)
}

// arith32 is a single precision operation in mode m
func arith32(op fpuOp, a, b float32, m RoundingMode) float32 {
	if m != RoundNearest {
		if v, ok := compute(op, float64(a), float64(b), precSingle, m); ok {
			return float32(v)
		}
	}
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	case opDiv:
		return a / b
	}
	return float32(math.Sqrt(float64(a)))
}

// roundToSingle narrows a double in mode m
func roundToSingle(v float64, m RoundingMode) float32 {
	if m == RoundNearest || nonFinite(v) {
		return float32(v)
	}
	z := new(big.Float).SetPrec(precSingle).SetMode(bigModes[m&3])
	z.SetFloat64(v)
	r, _ := z.Float32()
	return r
}

// intToFloat converts an integer in mode m to prec bits
func intToFloat(v int64, prec uint, m RoundingMode) float64 {
	z := new(big.Float).SetPrec(prec).SetMode(bigModes[m&3])
	z.SetInt64(v)
	if prec == precSingle {
		r, _ := z.Float32()
		return float64(r)
	}
	r, _ := z.Float64()
	return r
}

// roundToInt rounds to an integral value in mode m
func roundToInt(v float64, m RoundingMode) float64 {
	switch m {
	case RoundZero:
		return math.Trunc(v)
	case RoundUp:
		return math.Ceil(v)
	case RoundDown:
		return math.Floor(v)
	}
	return math.RoundToEven(v)
}

// invalid conversion results
const (
	invalidWord   uint32 = 0x7FFFFFFF
	invalidDouble uint64 = 0x7FFFFFFFFFFFFFFF
)

// toWord converts to a 32 bit integer in mode m
func toWord(v float64, m RoundingMode) uint32 {
	r := roundToInt(v, m)
	if math.IsNaN(r) || r < math.MinInt32 || r > math.MaxInt32 {
		return invalidWord
	}
	return uint32(int32(r))
}

// toLong converts to a 64 bit integer in mode m
func toLong(v float64, m RoundingMode) uint64 {
	r := roundToInt(v, m)
	if math.IsNaN(r) || r < math.MinInt64 || r >= math.MaxInt64 {
		return invalidDouble
	}
	return uint64(int64(r))
}
