package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"flag"
	"log"
	"reflect"
	"strings"
	"testing"

	"n64/cartridge"
	"n64/console"
	"n64/system"
)

func TestParseBreakpoints(t *testing.T) {
	tests := []struct {
		in      string
		want    []uint64
		wantErr bool
	}{
		{"", nil, false},
		{"80001000", []uint64{0x80001000}, false},
		{"0xA4000040, 0x80000180", []uint64{0xA4000040, 0x80000180}, false},
		{"0XFFFFFFFF80000400", []uint64{0xFFFFFFFF80000400}, false},
		{"main", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseBreakpoints(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %X, want %X", got, tt.want)
			}
		})
	}
}

func TestRunHeadless(t *testing.T) {
	rom := make([]byte, 0x1000)
	binary.BigEndian.PutUint32(rom, 0x80371240)
	binary.BigEndian.PutUint32(rom[0x40:], 0x1000FFFF) // beq zero, zero, .
	cart, err := cartridge.New(rom)
	if err != nil {
		t.Fatal(err)
	}
	cfg := system.DefaultConfig()
	cfg.CyclesPerFrame = 1000
	cfg.Breakpoints = []uint64{0xA4000044}
	sys, err := system.New(cart, cfg, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	sys.Boot()

	var out bytes.Buffer
	err = runHeadless(sys, 1, console.NewSimple(&out))
	if !errors.Is(err, system.ErrBreakpoint) {
		t.Fatalf("runHeadless = %v", err)
	}
	if !strings.Contains(out.String(), "halted") {
		t.Errorf("console got %q", out.String())
	}
}

func TestFlags(t *testing.T) {
	for _, name := range []string{"log", "monitor", "wav", "audio", "script", "break", "frames", "trace", "statsview", "dump", "expansion"} {
		if flag.Lookup(name) == nil {
			t.Errorf("flag -%s not registered", name)
		}
	}
	if *monitorFlag {
		t.Error("monitor enabled by default")
	}
}
