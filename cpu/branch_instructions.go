package cpu

// Branches and jumps. The target is taken after the delay slot; the
// likely variants skip the delay slot when the branch is not taken.

// relTarget computes the target of a relative branch. pc already points
// at the delay slot.
func (c *CPU) relTarget(instr uint32) uint64 {
	return c.pc + simm(instr)<<2
}

// branch schedules the jump when cond holds
func (c *CPU) branch(cond bool, instr uint32) error {
	if cond {
		c.branchTo(c.relTarget(instr))
	}
	return nil
}

// branchLikely is branch, but nullifies the delay slot when not taken
func (c *CPU) branchLikely(cond bool, instr uint32) error {
	if cond {
		c.branchTo(c.relTarget(instr))
	} else {
		c.pc += 4
	}
	return nil
}

// link stores the return address, past the delay slot
func (c *CPU) link(r int) {
	c.SetReg(r, c.curPC+8)
}

func jOp(c *CPU, instr uint32) error {
	c.branchTo(c.pc&0xFFFFFFFFF0000000 | target(instr))
	return nil
}

func jalOp(c *CPU, instr uint32) error {
	c.link(31)
	c.branchTo(c.pc&0xFFFFFFFFF0000000 | target(instr))
	return nil
}

func jrOp(c *CPU, instr uint32) error {
	c.branchTo(c.GetReg(rs(instr)))
	return nil
}

// jalr reads rs before linking so jalr r31, r31 works
func jalrOp(c *CPU, instr uint32) error {
	t := c.GetReg(rs(instr))
	c.link(rd(instr))
	c.branchTo(t)
	return nil
}

func beqOp(c *CPU, instr uint32) error {
	return c.branch(c.GetReg(rs(instr)) == c.GetReg(rt(instr)), instr)
}

func bneOp(c *CPU, instr uint32) error {
	return c.branch(c.GetReg(rs(instr)) != c.GetReg(rt(instr)), instr)
}

func blezOp(c *CPU, instr uint32) error {
	return c.branch(int64(c.GetReg(rs(instr))) <= 0, instr)
}

func bgtzOp(c *CPU, instr uint32) error {
	return c.branch(int64(c.GetReg(rs(instr))) > 0, instr)
}

func beqlOp(c *CPU, instr uint32) error {
	return c.branchLikely(c.GetReg(rs(instr)) == c.GetReg(rt(instr)), instr)
}

func bnelOp(c *CPU, instr uint32) error {
	return c.branchLikely(c.GetReg(rs(instr)) != c.GetReg(rt(instr)), instr)
}

func blezlOp(c *CPU, instr uint32) error {
	return c.branchLikely(int64(c.GetReg(rs(instr))) <= 0, instr)
}

func bgtzlOp(c *CPU, instr uint32) error {
	return c.branchLikely(int64(c.GetReg(rs(instr))) > 0, instr)
}

// REGIMM branches:

func bltzOp(c *CPU, instr uint32) error {
	return c.branch(int64(c.GetReg(rs(instr))) < 0, instr)
}

func bgezOp(c *CPU, instr uint32) error {
	return c.branch(int64(c.GetReg(rs(instr))) >= 0, instr)
}

func bltzlOp(c *CPU, instr uint32) error {
	return c.branchLikely(int64(c.GetReg(rs(instr))) < 0, instr)
}

func bgezlOp(c *CPU, instr uint32) error {
	return c.branchLikely(int64(c.GetReg(rs(instr))) >= 0, instr)
}

// the and-link forms always link, taken or not
func bltzalOp(c *CPU, instr uint32) error {
	cond := int64(c.GetReg(rs(instr))) < 0
	c.link(31)
	return c.branch(cond, instr)
}

func bgezalOp(c *CPU, instr uint32) error {
	cond := int64(c.GetReg(rs(instr))) >= 0
	c.link(31)
	return c.branch(cond, instr)
}

func bltzallOp(c *CPU, instr uint32) error {
	cond := int64(c.GetReg(rs(instr))) < 0
	c.link(31)
	return c.branchLikely(cond, instr)
}

func bgezallOp(c *CPU, instr uint32) error {
	cond := int64(c.GetReg(rs(instr))) >= 0
	c.link(31)
	return c.branchLikely(cond, instr)
}
