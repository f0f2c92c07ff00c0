package cpu

// Loads and stores. Misaligned addresses raise an address error, the
// LWL/LWR family exists to handle unaligned data instead.

func (c *CPU) effAddr(instr uint32) uint64 {
	return c.GetReg(rs(instr)) + simm(instr)
}

// aligned checks an n byte access and raises AdEL/AdES when it is not
func (c *CPU) aligned(addr uint64, n uint64, store bool) bool {
	if addr&(n-1) != 0 {
		c.addressError(addr, store)
		return false
	}
	return true
}

func lbOp(c *CPU, instr uint32) error {
	v, err := c.bus.Read8(c.effAddr(instr))
	if err != nil {
		return err
	}
	c.SetReg(rt(instr), signExtend8(v))
	return nil
}

func lbuOp(c *CPU, instr uint32) error {
	v, err := c.bus.Read8(c.effAddr(instr))
	if err != nil {
		return err
	}
	c.SetReg(rt(instr), uint64(v))
	return nil
}

func lhOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 2, false) {
		return nil
	}
	v, err := c.bus.Read16(a)
	if err != nil {
		return err
	}
	c.SetReg(rt(instr), signExtend16(v))
	return nil
}

func lhuOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 2, false) {
		return nil
	}
	v, err := c.bus.Read16(a)
	if err != nil {
		return err
	}
	c.SetReg(rt(instr), uint64(v))
	return nil
}

func lwOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 4, false) {
		return nil
	}
	v, err := c.bus.Read32(a)
	if err != nil {
		return err
	}
	c.setReg32(rt(instr), v)
	return nil
}

func lwuOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 4, false) {
		return nil
	}
	v, err := c.bus.Read32(a)
	if err != nil {
		return err
	}
	c.SetReg(rt(instr), uint64(v))
	return nil
}

func ldOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 8, false) {
		return nil
	}
	v, err := c.bus.Read64(a)
	if err != nil {
		return err
	}
	c.SetReg(rt(instr), v)
	return nil
}

func sbOp(c *CPU, instr uint32) error {
	return c.bus.Write8(c.effAddr(instr), uint8(c.GetReg(rt(instr))))
}

func shOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 2, true) {
		return nil
	}
	return c.bus.Write16(a, uint16(c.GetReg(rt(instr))))
}

func swOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 4, true) {
		return nil
	}
	return c.bus.Write32(a, uint32(c.GetReg(rt(instr))))
}

func sdOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 8, true) {
		return nil
	}
	return c.bus.Write64(a, c.GetReg(rt(instr)))
}

// unaligned word access, big endian: LWL fills the register from the left,
// LWR from the right

func lwlOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	word, err := c.bus.Read32(a &^ 3)
	if err != nil {
		return err
	}
	shift := uint(a&3) * 8
	old := uint32(c.GetReg(rt(instr)))
	c.setReg32(rt(instr), old&(1<<shift-1)|word<<shift)
	return nil
}

func lwrOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	word, err := c.bus.Read32(a &^ 3)
	if err != nil {
		return err
	}
	shift := uint(3-a&3) * 8
	old := c.GetReg(rt(instr))
	v := uint32(old)&^(0xFFFFFFFF>>shift) | word>>shift
	if a&3 == 3 {
		c.setReg32(rt(instr), v)
	} else {
		c.SetReg(rt(instr), old&0xFFFFFFFF00000000|uint64(v))
	}
	return nil
}

func swlOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	mem, err := c.bus.Read32(a &^ 3)
	if err != nil {
		return err
	}
	shift := uint(a&3) * 8
	v := uint32(c.GetReg(rt(instr)))
	return c.bus.Write32(a&^3, mem&^(0xFFFFFFFF>>shift)|v>>shift)
}

func swrOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	mem, err := c.bus.Read32(a &^ 3)
	if err != nil {
		return err
	}
	shift := uint(3-a&3) * 8
	v := uint32(c.GetReg(rt(instr)))
	return c.bus.Write32(a&^3, mem&(1<<shift-1)|v<<shift)
}

func ldlOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	dw, err := c.bus.Read64(a &^ 7)
	if err != nil {
		return err
	}
	shift := uint(a&7) * 8
	c.SetReg(rt(instr), c.GetReg(rt(instr))&(1<<shift-1)|dw<<shift)
	return nil
}

func ldrOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	dw, err := c.bus.Read64(a &^ 7)
	if err != nil {
		return err
	}
	shift := uint(7-a&7) * 8
	c.SetReg(rt(instr), c.GetReg(rt(instr))&^(^uint64(0)>>shift)|dw>>shift)
	return nil
}

func sdlOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	mem, err := c.bus.Read64(a &^ 7)
	if err != nil {
		return err
	}
	shift := uint(a&7) * 8
	return c.bus.Write64(a&^7, mem&^(^uint64(0)>>shift)|c.GetReg(rt(instr))>>shift)
}

func sdrOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	mem, err := c.bus.Read64(a &^ 7)
	if err != nil {
		return err
	}
	shift := uint(7-a&7) * 8
	return c.bus.Write64(a&^7, mem&(1<<shift-1)|c.GetReg(rt(instr))<<shift)
}

// load linked / store conditional. There is a single cpu, so the link is
// only broken by ERET.

func llOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 4, false) {
		return nil
	}
	if err := lwOp(c, instr); err != nil {
		return err
	}
	c.llbit = true
	c.COP0.regs[LLAddr] = a >> 4
	return nil
}

func lldOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 8, false) {
		return nil
	}
	if err := ldOp(c, instr); err != nil {
		return err
	}
	c.llbit = true
	c.COP0.regs[LLAddr] = a >> 4
	return nil
}

func scOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 4, true) {
		return nil
	}
	if c.llbit {
		if err := c.bus.Write32(a, uint32(c.GetReg(rt(instr)))); err != nil {
			return err
		}
	}
	c.SetReg(rt(instr), boolToReg(c.llbit))
	return nil
}

func scdOp(c *CPU, instr uint32) error {
	a := c.effAddr(instr)
	if !c.aligned(a, 8, true) {
		return nil
	}
	if c.llbit {
		if err := c.bus.Write64(a, c.GetReg(rt(instr))); err != nil {
			return err
		}
	}
	c.SetReg(rt(instr), boolToReg(c.llbit))
	return nil
}
