package cpu

import (
	"testing"
)

func TestCOP0_ResetValues(t *testing.T) {
	c := NewCOP0(1)
	tests := []struct {
		reg  Cop0Reg
		want uint64
	}{
		{Status, 0x00400004},
		{PRId, 0x00000B00},
		{Config, 0x0006E463},
		{Random, 31},
	}
	for _, tt := range tests {
		t.Run(tt.reg.String(), func(t *testing.T) {
			if tt.reg == Random {
				// wired is zero, so any value in range will do
				if got := c.GetReg(Random); got > 31 {
					t.Errorf("Random = %d", got)
				}
				return
			}
			if got := c.GetReg(tt.reg); got != tt.want {
				t.Errorf("%v = %X, want %X", tt.reg, got, tt.want)
			}
		})
	}
}

func TestCOP0_WriteMasks(t *testing.T) {
	tests := []struct {
		name string
		reg  Cop0Reg
		in   uint64
		want uint64
	}{
		{"PRId is read only", PRId, 0xFFFF, 0x0B00},
		{"Cause keeps only IP0 and IP1", Cause, 0xFFFFFFFF, 0x300},
		{"Wired is six bits", Wired, 0xFF, 0x3F},
		{"Index keeps the probe bit", Index, 0x800000FF, 0x8000003F},
		{"EPC holds 64 bits", EPC, 0xFFFFFFFF80001234, 0xFFFFFFFF80001234},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCOP0(1)
			c.SetReg(tt.reg, tt.in)
			if got := c.GetReg(tt.reg); got != tt.want {
				t.Errorf("%v = %X, want %X", tt.reg, got, tt.want)
			}
		})
	}
}

func TestCOP0_CountCompare(t *testing.T) {
	c := NewCOP0(1)
	c.SetReg(Compare, 3)
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	if c.Cause()&causeIP7 != 0 {
		t.Fatalf("timer fired at Count %d", c.GetReg(Count))
	}
	c.Tick()
	if got := c.GetReg(Count); got != 3 {
		t.Fatalf("Count = %d, want 3 after six ticks at half rate", got)
	}
	if c.Cause()&causeIP7 == 0 {
		t.Fatal("timer did not fire on Count == Compare")
	}

	// an enabled timer line is an interrupt
	c.SetReg(Status, 1|causeIP7)
	if !c.InterruptPending() {
		t.Error("timer interrupt not pending")
	}

	c.SetReg(Compare, 10)
	if c.Cause()&causeIP7 != 0 {
		t.Error("writing Compare did not acknowledge the timer")
	}

	c.SetReg(Count, 100)
	if got := c.GetReg(Count); got != 100 {
		t.Errorf("Count = %d after write, want 100", got)
	}
}

func TestCOP0_Random(t *testing.T) {
	c := NewCOP0(1)
	c.SetReg(Wired, 20)
	for i := 0; i < 200; i++ {
		if r := c.GetReg(Random); r < 20 || r > 31 {
			t.Fatalf("Random = %d outside [20, 31]", r)
		}
	}
	c.SetReg(Wired, 31)
	if r := c.GetReg(Random); r != 31 {
		t.Errorf("Random = %d with every entry wired", r)
	}
}

func TestCOP0_InterruptGating(t *testing.T) {
	tests := []struct {
		name   string
		status uint64
		want   bool
	}{
		{"enabled", 1 | causeIP2, true},
		{"masked", 1, false},
		{"ie clear", causeIP2, false},
		{"exl set", 1 | 2 | causeIP2, false},
		{"erl set", 1 | 4 | causeIP2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCOP0(1)
			c.SetReg(Status, tt.status)
			c.SetInterruptLine(true)
			if got := c.InterruptPending(); got != tt.want {
				t.Errorf("InterruptPending() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCOP0_TLB(t *testing.T) {
	c, _ := newTestCPU(
		0x42000002, // tlbwi
		0x42000008, // tlbp
		0x42000008, // tlbp, miss
		0x42000001, // tlbr
	)
	c.COP0.SetReg(Index, 5)
	c.COP0.SetReg(EntryHi, 0x00400000|0x2A)
	c.COP0.SetReg(EntryLo0, 0x1F|1)
	c.COP0.SetReg(EntryLo1, 0x3F|1)
	c.COP0.SetReg(PageMask, 0x6000)
	run(t, c, 1)

	c.COP0.SetReg(Index, 0)
	run(t, c, 1)
	if got := c.COP0.GetReg(Index); got != 5 {
		t.Errorf("probe hit Index = %X, want 5", got)
	}

	c.COP0.SetReg(EntryHi, 0x00800000|0x2A)
	run(t, c, 1)
	if got := c.COP0.GetReg(Index); got&0x80000000 == 0 {
		t.Errorf("probe miss Index = %X, P bit clear", got)
	}

	c.COP0.SetReg(Index, 5)
	c.COP0.SetReg(EntryLo0, 0)
	run(t, c, 1)
	if got := c.COP0.GetReg(EntryLo0); got != 0x1F {
		t.Errorf("tlbr EntryLo0 = %X, want 1F", got)
	}
	if got := c.COP0.GetReg(PageMask); got != 0x6000 {
		t.Errorf("tlbr PageMask = %X, want 6000", got)
	}
}

func TestCPU_Cop0Moves(t *testing.T) {
	c, _ := newTestCPU(
		0x40<<24|0x04<<21|1<<16|14<<11, // mtc0 at, EPC
		0x40<<24|0x00<<21|2<<16|14<<11, // mfc0 v0, EPC
		0x40<<24|0x01<<21|3<<16|14<<11, // dmfc0 v1, EPC
	)
	c.SetReg(1, 0x80001000)
	run(t, c, 3)
	if got := c.COP0.GetReg(EPC); got != 0xFFFFFFFF80001000 {
		t.Errorf("EPC = %X, mtc0 did not sign extend", got)
	}
	if c.GetReg(2) != 0xFFFFFFFF80001000 || c.GetReg(3) != 0xFFFFFFFF80001000 {
		t.Errorf("mfc0/dmfc0 = %X/%X", c.GetReg(2), c.GetReg(3))
	}
}
