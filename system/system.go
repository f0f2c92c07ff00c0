// Package system puts the cpu, the bus and the cartridge together and
// drives them a frame at a time.
package system

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"n64/bus"
	"n64/cartridge"
	"n64/cpu"
	"n64/debug"
	"n64/pif"
	"n64/rcp"
)

// State of the machine as the driver sees it
type State int

// machine states
const (
	Running State = iota
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrBreakpoint is returned by Tick when the next instruction is on a
// breakpoint
var ErrBreakpoint = errors.New("breakpoint")

// ErrHalted is returned by Tick on a machine that is not running
var ErrHalted = errors.New("machine halted")

// Stopper is an observer that can ask the machine to halt, a script for
// instance
type Stopper interface {
	Err() error
	Resume()
}

// System definition.
type System struct {
	CPU      *cpu.CPU
	Bus      *bus.Bus
	Cart     *cartridge.Cartridge
	Joybus   *pif.Joybus
	Recorder *debug.Recorder
	Config   Config

	State State
	// Err is why the machine is not running
	Err error

	breakpoints map[uint32]bool
	stoppers    []Stopper
	tracers     debug.Tee

	// skip lets the instruction under a breakpoint run once after Resume
	skip       bool
	lineCycles int

	log *log.Logger
}

// New wires the machine around cart. Call Boot before running it.
func New(cart *cartridge.Cartridge, cfg Config, l *log.Logger) (*System, error) {
	if cfg.CyclesPerFrame <= 0 || cfg.CyclesPerLine <= 0 {
		return nil, fmt.Errorf("system: invalid rates, %d cycles per frame, %d per line",
			cfg.CyclesPerFrame, cfg.CyclesPerLine)
	}
	b, err := bus.New(cart.ROM, cfg.RDRAMSize, l)
	if err != nil {
		return nil, err
	}

	sys := &System{
		CPU:         cpu.New(b, cfg.CountShift, l),
		Bus:         b,
		Cart:        cart,
		Joybus:      pif.NewJoybus(l),
		Recorder:    debug.NewRecorder(cfg.TraceDepth, l),
		Config:      cfg,
		State:       Halted,
		breakpoints: make(map[uint32]bool),
		log:         l,
	}
	b.MI.Connect(sys.CPU.COP0)
	b.SI.SetPIF(sys.Joybus)

	sys.tracers = debug.Tee{sys.Recorder}
	sys.CPU.SetTracer(sys.tracers)

	for _, a := range cfg.Breakpoints {
		sys.AddBreakpoint(a)
	}
	return sys, nil
}

// AddTracer adds an observer next to the history recorder
func (sys *System) AddTracer(t cpu.Tracer) {
	sys.tracers = append(sys.tracers, t)
	sys.CPU.SetTracer(sys.tracers)
}

// AddStopper makes the machine halt whenever s reports an error
func (sys *System) AddStopper(s Stopper) {
	sys.stoppers = append(sys.stoppers, s)
}

// SetAudio sends AI DMA buffers to s
func (sys *System) SetAudio(s rcp.AudioSink) {
	sys.Bus.AI.SetSink(s)
}

// AddBreakpoint halts the machine before the instruction at addr. Only
// the low 32 bits of the address are compared.
func (sys *System) AddBreakpoint(addr uint64) {
	sys.breakpoints[uint32(addr)] = true
}

// RemoveBreakpoint clears a breakpoint
func (sys *System) RemoveBreakpoint(addr uint64) {
	delete(sys.breakpoints, uint32(addr))
}

// Breakpoints lists the breakpoint addresses in ascending order
func (sys *System) Breakpoints() []uint32 {
	out := make([]uint32, 0, len(sys.breakpoints))
	for a := range sys.breakpoints {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Tick runs n cycles. It returns early with the reason when a breakpoint,
// a stopper or a fault halts the machine.
func (sys *System) Tick(n int) error {
	if sys.State != Running {
		if sys.Err != nil {
			return sys.Err
		}
		return ErrHalted
	}
	for i := 0; i < n; i++ {
		if err := sys.step(); err != nil {
			return err
		}
	}
	return nil
}

// RunFrame runs one frame worth of cycles
func (sys *System) RunFrame() error {
	return sys.Tick(sys.Config.CyclesPerFrame)
}

// Run runs frames frames, or until halted when frames is 0
func (sys *System) Run(frames int) error {
	for i := 0; frames == 0 || i < frames; i++ {
		if err := sys.RunFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Resume restarts a halted machine. The instruction under a breakpoint
// runs before the breakpoint can trigger again.
func (sys *System) Resume() {
	for _, s := range sys.stoppers {
		s.Resume()
	}
	sys.State = Running
	sys.Err = nil
	sys.skip = true
}

// Halt stops a running machine without an error
func (sys *System) Halt() {
	if sys.State == Running {
		sys.State = Halted
		sys.Err = nil
	}
}

// Step executes a single instruction and leaves the machine halted
func (sys *System) Step() error {
	sys.Resume()
	if err := sys.step(); err != nil {
		return err
	}
	sys.State = Halted
	sys.Err = nil
	return nil
}

func (sys *System) step() error {
	if sys.skip {
		sys.skip = false
	} else if pc := uint32(sys.CPU.PC()); sys.breakpoints[pc] {
		return sys.halt(fmt.Errorf("%w at %08X", ErrBreakpoint, pc))
	}

	if err := sys.CPU.Step(); err != nil {
		return sys.fail(err)
	}

	sys.lineCycles++
	if sys.lineCycles >= sys.Config.CyclesPerLine {
		sys.lineCycles = 0
		sys.Bus.Tick()
	}

	for _, s := range sys.stoppers {
		if err := s.Err(); err != nil {
			return sys.halt(err)
		}
	}
	return nil
}

func (sys *System) halt(err error) error {
	sys.State = Halted
	sys.Err = err
	sys.log.Printf("halted: %v\n", err)
	return err
}

// fail stops the machine on a host fault and logs what led to it
func (sys *System) fail(err error) error {
	sys.State = Faulted
	sys.Err = err
	sys.log.Printf("FAULT: %v\n", err)
	sys.log.Printf("last instructions:\n%s", sys.Recorder.History)
	sys.log.Printf("registers:\n%s", sys.CPU.DumpRegisters())
	return err
}

// Status is a short summary for the monitor
func (sys *System) Status() string {
	s := fmt.Sprintf("%s  pc %08X  cycles %d  frames %d  MI %v/%v",
		sys.State, uint32(sys.CPU.PC()), sys.CPU.Cycles, sys.Bus.VI.Frames,
		sys.Bus.MI.Pending(), sys.Bus.MI.Mask())
	if sys.Err != nil {
		s += "\n" + sys.Err.Error()
	}
	return s
}
