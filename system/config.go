package system

import "n64/bus"

// Config holds the rates that tie the cpu clock to the rest of the machine.
// They are approximations, the real ratios depend on the board revision.
type Config struct {
	// CyclesPerFrame is how many instructions RunFrame executes
	CyclesPerFrame int

	// CountShift makes COP0 Count advance once every 1<<CountShift cycles
	CountShift uint

	// CyclesPerLine is the VI half-line period in cpu cycles
	CyclesPerLine int

	// RDRAMSize is 4 MB, or 8 MB with the expansion pak
	RDRAMSize int

	// TraceDepth is how many instructions the history keeps
	TraceDepth int

	// Breakpoints halt the machine before the instruction at each
	// address executes
	Breakpoints []uint64
}

const defaultCyclesPerFrame = 1562500

// DefaultConfig returns NTSC rates and a 4 MB machine
func DefaultConfig() Config {
	return Config{
		CyclesPerFrame: defaultCyclesPerFrame,
		CountShift:     1,
		CyclesPerLine:  defaultCyclesPerFrame / 525,
		RDRAMSize:      bus.RDRAMSize,
		TraceDepth:     32,
	}
}
