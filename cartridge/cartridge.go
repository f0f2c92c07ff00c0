// Package cartridge loads ROM images and reads their header.
package cartridge

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
)

// Format is the byte order a ROM dump was saved in
type Format int

// dump formats, named by their usual file extension
const (
	Z64 Format = iota // big endian, as the cartridge bus sees it
	V64               // 16 bit words swapped
	N64               // 32 bit words swapped
)

func (f Format) String() string {
	switch f {
	case Z64:
		return "z64"
	case V64:
		return "v64"
	case N64:
		return "n64"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// first word of a z64 image
const magic = 0x80371240

// HeaderSize is the part of the ROM the header fields live in
const HeaderSize = 0x40

// Header is the cartridge header at the start of the ROM
type Header struct {
	ClockRate   uint32
	BootAddress uint32
	Release     uint32
	CRC1        uint32
	CRC2        uint32
	Title       string
	GameCode    string
	Version     byte
}

// Cartridge is a ROM image in cartridge bus order
type Cartridge struct {
	Path   string
	Format Format
	Header Header
	ROM    []byte
}

// Load reads a ROM file and normalizes it to big endian
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := New(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// New detects the byte order of data, swaps it in place when needed and
// parses the header
func New(data []byte) (*Cartridge, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("image too short: %d bytes", len(data))
	}
	f, err := Detect(data)
	if err != nil {
		return nil, err
	}
	normalize(data, f)
	return &Cartridge{Format: f, Header: parseHeader(data), ROM: data}, nil
}

// Detect tells the dump format from the first word
func Detect(data []byte) (Format, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("image too short: %d bytes", len(data))
	}
	switch w := binary.BigEndian.Uint32(data); w {
	case magic:
		return Z64, nil
	case 0x37804012:
		return V64, nil
	case 0x40123780:
		return N64, nil
	default:
		return 0, fmt.Errorf("unknown ROM format, first word %08X", w)
	}
}

func normalize(data []byte, f Format) {
	switch f {
	case V64:
		for i := 0; i+1 < len(data); i += 2 {
			data[i], data[i+1] = data[i+1], data[i]
		}
	case N64:
		for i := 0; i+3 < len(data); i += 4 {
			data[i], data[i+1], data[i+2], data[i+3] = data[i+3], data[i+2], data[i+1], data[i]
		}
	}
}

func parseHeader(data []byte) Header {
	be := binary.BigEndian
	return Header{
		ClockRate:   be.Uint32(data[0x04:]),
		BootAddress: be.Uint32(data[0x08:]),
		Release:     be.Uint32(data[0x0C:]),
		CRC1:        be.Uint32(data[0x10:]),
		CRC2:        be.Uint32(data[0x14:]),
		Title:       strings.TrimRight(string(data[0x20:0x34]), " \x00"),
		GameCode:    strings.TrimRight(string(data[0x3B:0x3F]), "\x00"),
		Version:     data[0x3F],
	}
}

// String is a one line summary for the log
func (c *Cartridge) String() string {
	return fmt.Sprintf("%q [%s] %s, %d KiB, boot %08X, CRC %08X %08X",
		c.Header.Title, c.Header.GameCode, c.Format, len(c.ROM)/1024,
		c.Header.BootAddress, c.Header.CRC1, c.Header.CRC2)
}
