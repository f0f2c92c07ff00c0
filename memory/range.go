package memory

import "fmt"

// Range is a window of the physical address space
type Range struct {
	Start  uint32 // Start address
	Length uint32 // Length of the mapping
}

// NewRange returns the window [start, start+length)
func NewRange(start uint32, length uint32) Range {
	return Range{Start: start, Length: length}
}

// Contains returns whether addr is located inside this range
func (r Range) Contains(addr uint32) bool {
	return addr >= r.Start && addr-r.Start < r.Length
}

// Offset returns the offset between addr and the Start of the range.
// Does not check if the range contains the address.
func (r Range) Offset(addr uint32) uint32 {
	return addr - r.Start
}

// End returns the last address in the range
func (r Range) End() uint32 {
	return r.Start + r.Length - 1
}

// Overlaps is true if both ranges share at least one address
func (r Range) Overlaps(o Range) bool {
	return r.Start <= o.End() && o.Start <= r.End()
}

func (r Range) String() string {
	return fmt.Sprintf("%08X-%08X", r.Start, r.End())
}
