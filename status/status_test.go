package status

import (
	"testing"
)

func TestGet(t *testing.T) {
	var s Word
	s = 1

	if s.Get() != 1 {
		t.Errorf("Expected status value of 1, got %v", s.Get())
	}
}

func TestWord_IE(t *testing.T) {
	tests := []struct {
		name string
		s    Word
		want bool
	}{
		{"IE set, all 0", 1, true},
		{"IE set, other flags too", 3, true},
		{"IE clear, all 0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.s
			if s.IE() != tt.want {
				t.Errorf("status.IE() (%v) failed. S: %v, wanted %v, got %v",
					tt.name, s, tt.want, s.IE())
			}
		})
	}
}

func TestWord_SetEXL(t *testing.T) {
	tests := []struct {
		name     string
		s        Word
		args     bool
		modified Word
	}{
		{"set EXL S=0", 0, true, 2},
		{"set EXL S=2", 2, true, 2},
		{"clear EXL S=0", 0, false, 0},
		{"clear EXL S=2", 2, false, 0},
		{"clear EXL S=3", 3, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.s.SetEXL(tt.args)
			if tt.s.EXL() != tt.args {
				t.Errorf("status.SetEXL() (%s) failed. S: %v, expected: %v, got %v",
					tt.name, tt.s, tt.args, tt.s.EXL())
			}

			if tt.s != tt.modified {
				t.Errorf("status.SetEXL (%s) failed. S = %v, expected S = %v",
					tt.name, tt.s, tt.modified)
			}
		})
	}
}

func TestWord_InterruptsEnabled(t *testing.T) {
	tests := []struct {
		name string
		s    Word
		want bool
	}{
		{"IE only", 0x1, true},
		{"IE and EXL", 0x3, false},
		{"IE and ERL", 0x5, false},
		{"nothing", 0x0, false},
		{"IE with mask bits", 0xFF01, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.InterruptsEnabled(); got != tt.want {
				t.Errorf("Word.InterruptsEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWord_CU(t *testing.T) {
	s := Word(0x70400004)
	want := []bool{true, true, true, false}
	for n, w := range want {
		if got := s.CU(uint(n)); got != w {
			t.Errorf("Word.CU(%d) = %v, want %v", n, got, w)
		}
	}

	s.SetCU(1, false)
	if s.CU(1) {
		t.Errorf("Word.SetCU(1, false) left CU1 set: %08x", s.Get())
	}
	if s.Get() != 0x50400004 {
		t.Errorf("Word.SetCU(1, false) = %08x, want %08x", s.Get(), 0x50400004)
	}
}

func TestWord_FR(t *testing.T) {
	var s Word
	if s.FR() {
		t.Errorf("FR set on zero status word")
	}
	s.SetFR(true)
	if s.Get() != 1<<26 {
		t.Errorf("Word.SetFR(true) = %08x, want %08x", s.Get(), uint32(1<<26))
	}
}

func TestWord_GetFlags(t *testing.T) {
	tests := []struct {
		name string
		s    Word
		want string
	}{
		{"boot status", 0x70400004, "[012-  BR  ]"},
		{"fr and ie", 0x24000001, "[-1-- F   I]"},
		{"exl", 0x00000002, "[----    X ]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.GetFlags(); got != tt.want {
				t.Errorf("Word.GetFlags() = %q, want %q", got, tt.want)
			}
		})
	}
}
