package system

import (
	"n64/cpu"
)

// values the PIF ROM leaves behind before it jumps to the cartridge boot
// code in SP DMEM
const (
	bootCodeSize = 0x1000
	bootPC       = 0xFFFFFFFFA4000040
	bootStatus   = 0x70400004
)

var bootRegs = []struct {
	reg int
	v   uint64
}{
	{11, 0xFFFFFFFFA4000040}, // t3
	{20, 1},                  // s4, NTSC
	{22, 0x3F},               // s6, CIC seed
	{29, 0xFFFFFFFFA4001FF0}, // sp
}

// Boot resets the cpu and simulates the PIF ROM: the first 4 KB of the
// cartridge go to SP DMEM and execution starts in them
func (sys *System) Boot() {
	sys.CPU.Reset()
	sys.Bus.DMEM.Clear()
	n := min(bootCodeSize, sys.Bus.ROM.Len())
	sys.Bus.DMEM.CopyIn(0, sys.Bus.ROM.CopyOut(0, n))

	for _, r := range bootRegs {
		sys.CPU.SetReg(r.reg, r.v)
	}
	sys.CPU.COP0.SetReg(cpu.Status, bootStatus)
	sys.CPU.SetPC(bootPC)

	sys.State = Running
	sys.Err = nil
	sys.lineCycles = 0
	sys.log.Printf("Booting %s\n", sys.Cart)
}
