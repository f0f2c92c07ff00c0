package cartridge

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func image() []byte {
	rom := make([]byte, 0x1000)
	be := binary.BigEndian
	be.PutUint32(rom[0x00:], magic)
	be.PutUint32(rom[0x04:], 0x0000000F)
	be.PutUint32(rom[0x08:], 0x80000400)
	be.PutUint32(rom[0x10:], 0x12345678)
	be.PutUint32(rom[0x14:], 0x9ABCDEF0)
	copy(rom[0x20:], "TEST CART           ")
	copy(rom[0x3B:], "NTEE")
	rom[0x3F] = 1
	rom[0x40] = 0xA1
	return rom
}

func swap16(b []byte) []byte {
	out := append([]byte(nil), b...)
	for i := 0; i < len(out); i += 2 {
		out[i], out[i+1] = out[i+1], out[i]
	}
	return out
}

func swap32(b []byte) []byte {
	out := append([]byte(nil), b...)
	for i := 0; i < len(out); i += 4 {
		out[i], out[i+3], out[i+1], out[i+2] = out[i+3], out[i], out[i+2], out[i+1]
	}
	return out
}

func TestNew_Formats(t *testing.T) {
	want := image()
	tests := []struct {
		name string
		data []byte
		f    Format
	}{
		{"z64", image(), Z64},
		{"v64", swap16(image()), V64},
		{"n64", swap32(image()), N64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.data)
			if err != nil {
				t.Fatal(err)
			}
			if c.Format != tt.f {
				t.Errorf("format = %v, want %v", c.Format, tt.f)
			}
			if !bytes.Equal(c.ROM, want) {
				t.Error("ROM not normalized to big endian")
			}
		})
	}
}

func TestNew_Header(t *testing.T) {
	c, err := New(image())
	if err != nil {
		t.Fatal(err)
	}
	h := c.Header
	if h.BootAddress != 0x80000400 || h.ClockRate != 0xF {
		t.Errorf("boot %08X clock %X", h.BootAddress, h.ClockRate)
	}
	if h.CRC1 != 0x12345678 || h.CRC2 != 0x9ABCDEF0 {
		t.Errorf("CRC %08X %08X", h.CRC1, h.CRC2)
	}
	if h.Title != "TEST CART" || h.GameCode != "NTEE" || h.Version != 1 {
		t.Errorf("title %q code %q version %d", h.Title, h.GameCode, h.Version)
	}
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{0x80, 0x37}},
		{"bad magic", make([]byte, 0x100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.data); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.v64")
	if err := os.WriteFile(path, swap16(image()), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Path != path || c.Format != V64 || c.ROM[0x40] != 0xA1 {
		t.Errorf("loaded %s", c)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.z64")); err == nil {
		t.Error("missing file loaded")
	}
}
