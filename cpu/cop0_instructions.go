package cpu

// COP0 moves. 32 bit moves sign extend, so EPC and friends hold proper
// KSEG addresses after an MTC0.

func mfc0Op(c *CPU, instr uint32) error {
	c.setReg32(rt(instr), uint32(c.COP0.GetReg(Cop0Reg(rd(instr)))))
	return nil
}

func dmfc0Op(c *CPU, instr uint32) error {
	c.SetReg(rt(instr), c.COP0.GetReg(Cop0Reg(rd(instr))))
	return nil
}

func mtc0Op(c *CPU, instr uint32) error {
	c.COP0.SetReg(Cop0Reg(rd(instr)), signExtend32(uint32(c.GetReg(rt(instr)))))
	return nil
}

func dmtc0Op(c *CPU, instr uint32) error {
	c.COP0.SetReg(Cop0Reg(rd(instr)), c.GetReg(rt(instr)))
	return nil
}
