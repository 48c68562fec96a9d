package cpu

import "github.com/arcovane/gbcore/pkg/bits"

// The eight CB-prefixed rotate/shift primitives. Each sets N, H and C;
// Z is left to the caller because the non-prefixed accumulator forms
// (RLCA/RLA/RRCA/RRA) always clear Z while the CB forms derive it from
// the result.

func (c *CPU) rlc(v uint8) uint8 {
	carry := v&0x80 != 0
	res := v << 1
	if carry {
		res |= 0x01
	}
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carry)
	return res
}

func (c *CPU) rrc(v uint8) uint8 {
	carry := v&0x01 != 0
	res := v >> 1
	if carry {
		res |= 0x80
	}
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carry)
	return res
}

func (c *CPU) rl(v uint8) uint8 {
	oldCarry := uint8(0)
	if c.GetFlag(FlagC) {
		oldCarry = 1
	}
	carry := v&0x80 != 0
	res := v<<1 | oldCarry
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carry)
	return res
}

func (c *CPU) rr(v uint8) uint8 {
	oldCarry := uint8(0)
	if c.GetFlag(FlagC) {
		oldCarry = 0x80
	}
	carry := v&0x01 != 0
	res := v>>1 | oldCarry
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carry)
	return res
}

func (c *CPU) sla(v uint8) uint8 {
	carry := v&0x80 != 0
	res := v << 1
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carry)
	return res
}

func (c *CPU) sra(v uint8) uint8 {
	carry := v&0x01 != 0
	res := (v >> 1) | (v & 0x80)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carry)
	return res
}

func (c *CPU) srl(v uint8) uint8 {
	carry := v&0x01 != 0
	res := v >> 1
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carry)
	return res
}

func (c *CPU) swap(v uint8) uint8 {
	res := v<<4 | v>>4
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, false)
	return res
}

// The non-prefixed accumulator rotates always clear Z.

func (c *CPU) rlca() {
	c.A = c.rlc(c.A)
	c.SetFlag(FlagZ, false)
}

func (c *CPU) rrca() {
	c.A = c.rrc(c.A)
	c.SetFlag(FlagZ, false)
}

func (c *CPU) rla() {
	c.A = c.rl(c.A)
	c.SetFlag(FlagZ, false)
}

func (c *CPU) rra() {
	c.A = c.rr(c.A)
	c.SetFlag(FlagZ, false)
}

// execCB decodes and executes the CB-prefixed opcode space: 8 rotate/
// shift families, then BIT/RES/SET across 8 bits and 8 operand slots.
func (c *CPU) execCB(op uint8, bus Bus) uint8 {
	r := op & 0x07
	group := op >> 3
	val := c.reg8(r, bus)

	switch {
	case op < 0x40:
		var res uint8
		switch group {
		case 0:
			res = c.rlc(val)
		case 1:
			res = c.rrc(val)
		case 2:
			res = c.rl(val)
		case 3:
			res = c.rr(val)
		case 4:
			res = c.sla(val)
		case 5:
			res = c.sra(val)
		case 6:
			res = c.swap(val)
		default:
			res = c.srl(val)
		}
		c.SetFlag(FlagZ, res == 0)
		c.setReg8(r, res, bus)
		if r == 6 {
			return 4
		}
		return 2

	case op < 0x80:
		bit := group - 8
		c.SetFlag(FlagZ, !bits.Test(val, bit))
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, true)
		if r == 6 {
			return 3
		}
		return 2

	case op < 0xC0:
		bit := group - 16
		c.setReg8(r, bits.Reset(val, bit), bus)
		if r == 6 {
			return 4
		}
		return 2

	default:
		bit := group - 24
		c.setReg8(r, bits.Set(val, bit), bus)
		if r == 6 {
			return 4
		}
		return 2
	}
}
