package debug

import (
	"errors"
	"fmt"

	"n64/interrupts"
)

// Frame is one exception being handled
type Frame struct {
	Code interrupts.ExceptionCode
	EPC  uint64
}

func (f Frame) String() string {
	return fmt.Sprintf("%v at %08X", f.Code, uint32(f.EPC))
}

/*
 - push a frame when the cpu enters an exception handler
 - pop when ERET executes

 an ERET on an empty stack means the program returned from an exception
 it never took
*/

// ExceptionStack tracks nested exception handlers
type ExceptionStack []Frame

// Push records entry into a handler
func (s *ExceptionStack) Push(f Frame) {
	*s = append(*s, f)
}

// Pop removes the innermost handler
func (s *ExceptionStack) Pop() (Frame, error) {
	if len(*s) == 0 {
		return Frame{}, errors.New("exception stack is empty")
	}
	i := len(*s) - 1
	f := (*s)[i]
	*s = (*s)[:i]
	return f, nil
}

// Depth returns the nesting level
func (s ExceptionStack) Depth() int {
	return len(s)
}
