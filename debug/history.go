// Package debug keeps execution history for post mortem inspection: the
// last instructions executed and the exceptions currently being handled.
package debug

import (
	"errors"
	"fmt"
	"strings"

	"n64/cpu"
)

type entry struct {
	pc    uint64
	instr uint32
}

func (e entry) String() string {
	return fmt.Sprintf("%08X  %08X  %s", uint32(e.pc), e.instr, cpu.Disasm(e.instr, e.pc))
}

// History is a bounded FIFO of executed instructions. Entries are
// disassembled only when read.
type History struct {
	items   []entry
	size    int // current number of elements in the queue
	maxSize int
}

// NewHistory creates an empty queue keeping at most maxSize entries
func NewHistory(maxSize int) *History {
	if maxSize < 1 {
		maxSize = 1
	}
	return &History{maxSize: maxSize}
}

// Enqueue adds an instruction, dropping the oldest one when full
func (q *History) Enqueue(pc uint64, instr uint32) {
	if q.size == q.maxSize {
		q.Dequeue()
	}
	q.items = append(q.items, entry{pc, instr})
	q.size++
}

// Dequeue removes and returns the oldest entry
func (q *History) Dequeue() (string, error) {
	if q.size == 0 {
		return "", errors.New("history is empty")
	}
	front := q.items[0]
	q.items = q.items[1:]
	q.size--
	return front.String(), nil
}

// IsEmpty checks if the queue is empty
func (q *History) IsEmpty() bool {
	return q.size == 0
}

// Len returns the number of entries held
func (q *History) Len() int {
	return q.size
}

// Lines returns the entries disassembled, oldest first
func (q *History) Lines() []string {
	res := make([]string, 0, q.size)
	for _, e := range q.items {
		res = append(res, e.String())
	}
	return res
}

// String renders the history one instruction per line
func (q *History) String() string {
	return strings.Join(q.Lines(), "\n")
}
