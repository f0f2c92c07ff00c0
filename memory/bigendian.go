package memory

import (
	"encoding/binary"
)

// BigEndian is a block of memory addressed the way the N64 addresses it:
// most significant byte first.
//
// The bytes are kept in reverse order, so a value of n bytes at
// architectural address a lives at buffer offset len - a - n and is stored
// least significant byte first. A byte at architectural address a is found at
// len - a - 1. Multi-byte values come out MSB-first from this mapping alone,
// there is no byte swapping anywhere.
//
// Accesses reaching past the end of the block read as zero and are dropped
// on write, the way reserved register addresses behave on the hardware.
type BigEndian struct {
	bytes []byte
}

// NewBigEndian returns a zeroed block of size bytes
func NewBigEndian(size int) *BigEndian {
	return &BigEndian{bytes: make([]byte, size)}
}

// NewBigEndianFrom returns a block holding data, data being in natural
// (big endian, architectural) order.
func NewBigEndianFrom(data []byte) *BigEndian {
	m := NewBigEndian(len(data))
	m.CopyIn(0, data)
	return m
}

// Len returns the size of the block in bytes
func (m *BigEndian) Len() int {
	return len(m.bytes)
}

// offset maps architectural address addr of an n byte value to its
// position in the reversed buffer
func (m *BigEndian) offset(addr uint32, n int) (int, bool) {
	if uint64(addr)+uint64(n) > uint64(len(m.bytes)) {
		return 0, false
	}
	return len(m.bytes) - int(addr) - n, true
}

// Read8 reads a byte
func (m *BigEndian) Read8(addr uint32) uint8 {
	off, ok := m.offset(addr, 1)
	if !ok {
		return 0
	}
	return m.bytes[off]
}

// Read16 reads a half word
func (m *BigEndian) Read16(addr uint32) uint16 {
	off, ok := m.offset(addr, 2)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint16(m.bytes[off:])
}

// Read32 reads a word
func (m *BigEndian) Read32(addr uint32) uint32 {
	off, ok := m.offset(addr, 4)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint32(m.bytes[off:])
}

// Read64 reads a double word
func (m *BigEndian) Read64(addr uint32) uint64 {
	off, ok := m.offset(addr, 8)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint64(m.bytes[off:])
}

// Write8 writes a byte
func (m *BigEndian) Write8(addr uint32, v uint8) {
	if off, ok := m.offset(addr, 1); ok {
		m.bytes[off] = v
	}
}

// Write16 writes a half word
func (m *BigEndian) Write16(addr uint32, v uint16) {
	if off, ok := m.offset(addr, 2); ok {
		binary.LittleEndian.PutUint16(m.bytes[off:], v)
	}
}

// Write32 writes a word
func (m *BigEndian) Write32(addr uint32, v uint32) {
	if off, ok := m.offset(addr, 4); ok {
		binary.LittleEndian.PutUint32(m.bytes[off:], v)
	}
}

// Write64 writes a double word
func (m *BigEndian) Write64(addr uint32, v uint64) {
	if off, ok := m.offset(addr, 8); ok {
		binary.LittleEndian.PutUint64(m.bytes[off:], v)
	}
}

// CopyOut returns n bytes starting at addr in architectural order.
// bytes past the end of the block come back as zero.
func (m *BigEndian) CopyOut(addr uint32, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.Read8(addr + uint32(i))
	}
	return out
}

// CopyIn stores data (architectural order) starting at addr
func (m *BigEndian) CopyIn(addr uint32, data []byte) {
	for i, b := range data {
		m.Write8(addr+uint32(i), b)
	}
}

// Clear zeroes the whole block
func (m *BigEndian) Clear() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}
