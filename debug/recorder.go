package debug

import (
	"log"

	"n64/cpu"
	"n64/interrupts"
)

const eret = 0x42000018

// Recorder is a cpu.Tracer filling a History and an ExceptionStack
type Recorder struct {
	History    *History
	Exceptions ExceptionStack

	// LastFault is the most recent host fault reported by the cpu
	LastFault error

	log *log.Logger
}

// NewRecorder keeps the last depth instructions
func NewRecorder(depth int, l *log.Logger) *Recorder {
	return &Recorder{History: NewHistory(depth), log: l}
}

// Instruction implements cpu.Tracer
func (r *Recorder) Instruction(pc uint64, instr uint32) {
	r.History.Enqueue(pc, instr)
	if instr == eret {
		if _, err := r.Exceptions.Pop(); err != nil {
			r.log.Printf("eret at %08X: %v\n", uint32(pc), err)
		}
	}
}

// Exception implements cpu.Tracer
func (r *Recorder) Exception(code interrupts.ExceptionCode, epc uint64) {
	r.Exceptions.Push(Frame{Code: code, EPC: epc})
}

// Fault implements cpu.Tracer
func (r *Recorder) Fault(err error) {
	r.LastFault = err
}

// Tee fans every event out to several tracers
type Tee []cpu.Tracer

// Instruction implements cpu.Tracer
func (t Tee) Instruction(pc uint64, instr uint32) {
	for _, tr := range t {
		tr.Instruction(pc, instr)
	}
}

// Exception implements cpu.Tracer
func (t Tee) Exception(code interrupts.ExceptionCode, epc uint64) {
	for _, tr := range t {
		tr.Exception(code, epc)
	}
}

// Fault implements cpu.Tracer
func (t Tee) Fault(err error) {
	for _, tr := range t {
		tr.Fault(err)
	}
}
