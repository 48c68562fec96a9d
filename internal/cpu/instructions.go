package cpu

import "fmt"

// invalidOpcode reports whether op is one of the eleven opcodes the
// hardware never decodes. Per spec.md §7 taxonomy item 2, these fail the
// emulator in debug builds and are no-ops returning 0 cycles otherwise.
func invalidOpcode(op uint8) bool {
	switch op {
	case 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD:
		return true
	}
	return false
}

func (c *CPU) aluOp(group uint8, v uint8) {
	switch group {
	case 0:
		c.add(v)
	case 1:
		c.adc(v)
	case 2:
		c.sub(v)
	case 3:
		c.sbc(v)
	case 4:
		c.and(v)
	case 5:
		c.xor(v)
	case 6:
		c.or(v)
	default:
		c.cp(v)
	}
}

// exec dispatches a single primary opcode and returns its M-cycle cost.
func (c *CPU) exec(op uint8, bus Bus) uint8 {
	switch {
	// LD r,r' / HALT, 0x40-0x7F
	case op >= 0x40 && op <= 0x7F:
		if op == 0x76 {
			c.collapseEIForHalt()
			c.Halt = true
			return 1
		}
		dst := (op >> 3) & 7
		src := op & 7
		c.setReg8(dst, c.reg8(src, bus), bus)
		if dst == 6 || src == 6 {
			return 2
		}
		return 1

	// ALU A,r  0x80-0xBF
	case op >= 0x80 && op <= 0xBF:
		group := (op >> 3) & 7
		src := op & 7
		c.aluOp(group, c.reg8(src, bus))
		if src == 6 {
			return 2
		}
		return 1
	}

	switch op {
	case 0x00: // NOP
		return 1
	case 0x01, 0x11, 0x21, 0x31: // LD rr,d16
		c.setR16((op>>4)&3, readA16(c, bus))
		return 3
	case 0x02: // LD (BC),A
		bus.Write(c.BC(), c.A)
		return 2
	case 0x12: // LD (DE),A
		bus.Write(c.DE(), c.A)
		return 2
	case 0x22: // LD (HL+),A
		bus.Write(c.HL(), c.A)
		c.IncHL()
		return 2
	case 0x32: // LD (HL-),A
		bus.Write(c.HL(), c.A)
		c.DecHL()
		return 2
	case 0x03, 0x13, 0x23, 0x33: // INC rr
		i := (op >> 4) & 3
		c.setR16(i, c.getR16(i)+1)
		return 2
	case 0x0B, 0x1B, 0x2B, 0x3B: // DEC rr
		i := (op >> 4) & 3
		c.setR16(i, c.getR16(i)-1)
		return 2
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x3C: // INC r
		r := (op >> 3) & 7
		c.setReg8(r, c.inc8(c.reg8(r, bus)), bus)
		return 1
	case 0x34: // INC (HL)
		c.setReg8(6, c.inc8(c.reg8(6, bus)), bus)
		return 3
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x3D: // DEC r
		r := (op >> 3) & 7
		c.setReg8(r, c.dec8(c.reg8(r, bus)), bus)
		return 1
	case 0x35: // DEC (HL)
		c.setReg8(6, c.dec8(c.reg8(6, bus)), bus)
		return 3
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x3E: // LD r,d8
		r := (op >> 3) & 7
		c.setReg8(r, bus.Read(c.Bump()), bus)
		return 2
	case 0x36: // LD (HL),d8
		bus.Write(c.HL(), bus.Read(c.Bump()))
		return 3
	case 0x07:
		c.rlca()
		return 1
	case 0x0F:
		c.rrca()
		return 1
	case 0x17:
		c.rla()
		return 1
	case 0x1F:
		c.rra()
		return 1
	case 0x08: // LD (a16),SP
		addr := readA16(c, bus)
		bus.Write(addr, uint8(c.SP))
		bus.Write(addr+1, uint8(c.SP>>8))
		return 5
	case 0x09, 0x19, 0x29, 0x39: // ADD HL,rr
		c.addHL16(c.getR16((op >> 4) & 3))
		return 2
	case 0x0A: // LD A,(BC)
		c.A = bus.Read(c.BC())
		return 2
	case 0x1A: // LD A,(DE)
		c.A = bus.Read(c.DE())
		return 2
	case 0x2A: // LD A,(HL+)
		c.A = bus.Read(c.HL())
		c.IncHL()
		return 2
	case 0x3A: // LD A,(HL-)
		c.A = bus.Read(c.HL())
		c.DecHL()
		return 2
	case 0x10: // STOP
		c.Stop = true
		if bus.TrySpeedSwitch() {
			c.Stop = false
		}
		bus.Read(c.Bump()) // STOP is followed by an ignored padding byte
		return 1
	case 0x18: // JR r8
		c.jr(bus)
		return 3
	case 0x20, 0x28, 0x30, 0x38: // JR cc,r8
		cc := (op >> 3) & 3
		if c.condition(cc) {
			c.jr(bus)
			return 3
		}
		c.Bump()
		return 2
	case 0x27:
		c.daa()
		return 1
	case 0x2F: // CPL
		c.A = ^c.A
		c.SetFlag(FlagN, true)
		c.SetFlag(FlagH, true)
		return 1
	case 0x37: // SCF
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, true)
		return 1
	case 0x3F: // CCF
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, !c.GetFlag(FlagC))
		return 1
	case 0xC0, 0xC8, 0xD0, 0xD8: // RET cc
		cc := (op >> 3) & 3
		if c.condition(cc) {
			c.Ret(bus)
			return 5
		}
		return 2
	case 0xC1, 0xD1, 0xE1, 0xF1: // POP rr
		c.setR16Push((op>>4)&3, c.Pop16(bus))
		return 3
	case 0xC5, 0xD5, 0xE5, 0xF5: // PUSH rr
		c.Push16(bus, c.getR16Push((op>>4)&3))
		return 4
	case 0xC2, 0xCA, 0xD2, 0xDA: // JP cc,a16
		addr := readA16(c, bus)
		if c.condition((op >> 3) & 3) {
			c.PC = addr
			return 4
		}
		return 3
	case 0xC3: // JP a16
		c.PC = readA16(c, bus)
		return 4
	case 0xC4, 0xCC, 0xD4, 0xDC: // CALL cc,a16
		addr := readA16(c, bus)
		if c.condition((op >> 3) & 3) {
			c.Rst(addr, bus)
			return 6
		}
		return 3
	case 0xCD: // CALL a16
		addr := readA16(c, bus)
		c.Rst(addr, bus)
		return 6
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE: // ALU A,d8
		c.aluOp((op-0xC6)/8, bus.Read(c.Bump()))
		return 2
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST n
		c.Rst(uint16(op&0x38), bus)
		return 4
	case 0xC9: // RET
		c.Ret(bus)
		return 4
	case 0xD9: // RETI
		c.Ret(bus)
		c.IME = true
		return 4
	case 0xE9: // JP HL
		c.PC = c.HL()
		return 1
	case 0xCB: // CB prefix
		return c.execCB(bus.Read(c.Bump()), bus)
	case 0xE0: // LDH (a8),A
		bus.Write(0xFF00+uint16(bus.Read(c.Bump())), c.A)
		return 3
	case 0xF0: // LDH A,(a8)
		c.A = bus.Read(0xFF00 + uint16(bus.Read(c.Bump())))
		return 3
	case 0xE2: // LD (C),A
		bus.Write(0xFF00+uint16(c.C), c.A)
		return 2
	case 0xF2: // LD A,(C)
		c.A = bus.Read(0xFF00 + uint16(c.C))
		return 2
	case 0xE8: // ADD SP,r8
		c.SP = c.addSPSigned(bus)
		return 4
	case 0xF8: // LD HL,SP+r8
		c.SetHL(c.addSPSigned(bus))
		return 3
	case 0xF9: // LD SP,HL
		c.SP = c.HL()
		return 2
	case 0xEA: // LD (a16),A
		bus.Write(readA16(c, bus), c.A)
		return 4
	case 0xFA: // LD A,(a16)
		c.A = bus.Read(readA16(c, bus))
		return 4
	case 0xF3: // DI
		c.IME = false
		c.eiDelay = 0
		return 1
	case 0xFB: // EI
		c.scheduleEI()
		return 1
	}

	if invalidOpcode(op) {
		if c.Debug {
			panic(fmt.Sprintf("cpu: invalid opcode %02X at %04X", op, c.PC-1))
		}
		return 0
	}

	panic(fmt.Sprintf("cpu: unimplemented opcode %02X at %04X", op, c.PC-1))
}
