package system

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log"
	"strings"
	"testing"

	"n64/cartridge"
	"n64/cpu"
	"n64/interrupts"
	"n64/rcp"
	"n64/script"
)

const (
	loop       = 0x1000FFFF // beq zero, zero, .
	addiuT0    = 0x24080001 // addiu t0, zero, 1
	incT0      = 0x25080001 // addiu t0, t0, 1
	reserved   = 0x7C000000
	bootAddr   = 0xA4000040
	testCycles = 525 * 2
)

// newSystem boots a cartridge whose boot code is prog
func newSystem(t *testing.T, cfg Config, prog ...uint32) (*System, *bytes.Buffer) {
	t.Helper()
	rom := make([]byte, 0x2000)
	binary.BigEndian.PutUint32(rom, 0x80371240)
	copy(rom[0x20:], "SYSTEM TEST")
	for i, w := range prog {
		binary.BigEndian.PutUint32(rom[0x40+4*i:], w)
	}
	cart, err := cartridge.New(rom)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	sys, err := New(cart, cfg, log.New(&out, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	sys.Boot()
	return sys, &out
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.CyclesPerFrame = testCycles
	cfg.CyclesPerLine = 2
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.CyclesPerFrame != 1562500 || cfg.CyclesPerLine != 1562500/525 || cfg.CountShift != 1 {
		t.Errorf("rates %+v", cfg)
	}
	cfg.CyclesPerLine = 0
	if _, err := New(&cartridge.Cartridge{ROM: make([]byte, 0x40)}, cfg, log.Default()); err == nil {
		t.Error("zero line period accepted")
	}
}

func TestBoot(t *testing.T) {
	sys, out := newSystem(t, DefaultConfig(), addiuT0, loop, 0)
	if got := sys.CPU.PC(); got != 0xFFFFFFFFA4000040 {
		t.Errorf("pc = %X", got)
	}
	tests := []struct {
		reg  int
		want uint64
	}{
		{11, 0xFFFFFFFFA4000040},
		{20, 1},
		{22, 0x3F},
		{29, 0xFFFFFFFFA4001FF0},
	}
	for _, tt := range tests {
		if got := sys.CPU.GetReg(tt.reg); got != tt.want {
			t.Errorf("%s = %X, want %X", cpu.RegNames[tt.reg], got, tt.want)
		}
	}
	if got := sys.CPU.COP0.GetReg(cpu.Status); got != 0x70400004 {
		t.Errorf("Status = %X", got)
	}
	if got := sys.Bus.DMEM.Read32(0x40); got != addiuT0 {
		t.Errorf("DMEM boot code = %08X", got)
	}
	if sys.State != Running {
		t.Errorf("state = %v", sys.State)
	}
	if !strings.Contains(out.String(), "SYSTEM TEST") {
		t.Errorf("boot log %q", out.String())
	}
}

func TestTick_Breakpoint(t *testing.T) {
	cfg := smallConfig()
	cfg.Breakpoints = []uint64{0xFFFFFFFFA4000048}
	sys, _ := newSystem(t, cfg, addiuT0, incT0, incT0, incT0, loop, 0)

	err := sys.Tick(100)
	if !errors.Is(err, ErrBreakpoint) {
		t.Fatalf("Tick = %v, want breakpoint", err)
	}
	if got := sys.CPU.GetReg(8); got != 2 {
		t.Errorf("t0 = %d at the breakpoint, want 2", got)
	}
	if sys.State != Halted {
		t.Errorf("state = %v", sys.State)
	}
	if err := sys.Tick(1); !errors.Is(err, ErrBreakpoint) {
		t.Errorf("halted machine ran: %v", err)
	}

	if err := sys.Step(); err != nil {
		t.Fatal(err)
	}
	if got := sys.CPU.GetReg(8); got != 3 {
		t.Errorf("t0 = %d after single step, want 3", got)
	}
	if err := sys.Tick(1); !errors.Is(err, ErrHalted) {
		t.Errorf("Tick after Step = %v, want ErrHalted", err)
	}

	sys.Resume()
	if err := sys.Tick(10); err != nil {
		t.Fatal(err)
	}
	if got := sys.CPU.GetReg(8); got != 4 {
		t.Errorf("t0 = %d after resume, want 4", got)
	}
	if bp := sys.Breakpoints(); len(bp) != 1 || bp[0] != bootAddr+8 {
		t.Errorf("Breakpoints() = %X", bp)
	}
	sys.RemoveBreakpoint(bootAddr + 8)
	if len(sys.Breakpoints()) != 0 {
		t.Error("breakpoint not removed")
	}
}

func TestTick_Fault(t *testing.T) {
	sys, out := newSystem(t, smallConfig(), addiuT0, incT0, reserved)

	err := sys.Tick(10)
	var f *interrupts.Fault
	if !errors.As(err, &f) || f.Kind != interrupts.Unimplemented {
		t.Fatalf("Tick = %v, want an unimplemented fault", err)
	}
	if f.PC != 0xFFFFFFFFA4000048 || f.Instr != reserved {
		t.Errorf("fault at %X instr %08X", f.PC, f.Instr)
	}
	if sys.State != Faulted || sys.Recorder.LastFault != err {
		t.Errorf("state %v, recorded %v", sys.State, sys.Recorder.LastFault)
	}
	if sys.Recorder.History.Len() != 3 {
		t.Errorf("history holds %d instructions", sys.Recorder.History.Len())
	}
	if !strings.Contains(out.String(), "FAULT") || !strings.Contains(out.String(), "addiu t0, t0, 0x0001") {
		t.Errorf("fault log %q", out.String())
	}
	if !strings.Contains(sys.Status(), "faulted") {
		t.Errorf("Status() = %q", sys.Status())
	}
}

func TestTick_VideoInterrupt(t *testing.T) {
	cfg := smallConfig()
	cfg.CyclesPerLine = 1
	sys, _ := newSystem(t, cfg, loop, 0)
	sys.CPU.COP0.SetReg(cpu.Status, 0x401) // IE, IM2
	sys.Bus.VI.SetRegister(rcp.VIVIntr, 2)
	if err := sys.Bus.Write32(0xFFFFFFFFA430000C, 0x80); err != nil { // unmask VI
		t.Fatal(err)
	}

	if err := sys.Tick(10); err != nil {
		t.Fatal(err)
	}
	if sys.Bus.MI.Pending()&interrupts.VI == 0 {
		t.Fatal("VI interrupt not raised")
	}
	st := sys.CPU.COP0.Status()
	if !st.EXL() {
		t.Error("interrupt not taken")
	}
	if code := sys.CPU.COP0.Cause() >> 2 & 0x1F; interrupts.ExceptionCode(code) != interrupts.Int {
		t.Errorf("exception code = %d", code)
	}
	if epc := uint32(sys.CPU.COP0.GetReg(cpu.EPC)); epc != bootAddr && epc != bootAddr+4 {
		t.Errorf("EPC = %08X", epc)
	}
}

func TestRunFrame(t *testing.T) {
	sys, _ := newSystem(t, smallConfig(), loop, 0)
	if err := sys.Run(2); err != nil {
		t.Fatal(err)
	}
	if got := sys.CPU.Cycles; got != 2*testCycles {
		t.Errorf("cycles = %d", got)
	}
	// 525 half-lines of 2 cycles per frame
	if got := sys.Bus.VI.Frames; got != 2 {
		t.Errorf("frames = %d, want 2", got)
	}
}

func TestScriptStopper(t *testing.T) {
	sys, out := newSystem(t, smallConfig(), addiuT0, incT0, incT0, loop, 0)
	tr := script.New(sys.CPU, sys.Bus, log.New(out, "", 0))
	defer tr.Close()
	tr.SetPad(sys.Joybus.Port(0))
	if err := tr.DoString(`
function on_instruction(addr, instr)
	if reg(8) == 2 then
		press("start")
		stop("t0 reached 2")
	end
end`); err != nil {
		t.Fatal(err)
	}
	sys.AddTracer(tr)
	sys.AddStopper(tr)

	err := sys.Tick(100)
	if !errors.Is(err, script.ErrStop) {
		t.Fatalf("Tick = %v, want a script stop", err)
	}
	if got := sys.CPU.GetReg(8); got != 3 {
		t.Errorf("t0 = %d, the stopping instruction should have run", got)
	}
	if sys.Recorder.History.Len() != 3 {
		t.Errorf("recorder saw %d instructions", sys.Recorder.History.Len())
	}

	sys.Resume()
	if tr.Err() != nil {
		t.Error("Resume did not clear the script stop")
	}
}
