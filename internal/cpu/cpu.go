// Package cpu implements the Sharp LR35902 instruction set: the register
// file (C1 in SPEC_FULL.md), the primary and CB-prefixed decode tables
// (C2), and the per-step interrupt dispatch glue described in
// SPEC_FULL.md §4.3. It depends only on the Bus interface, never on the
// concrete memory implementation.
package cpu

import "github.com/arcovane/gbcore/internal/interrupts"

// CPU wraps the register file with the fetch/execute/interrupt loop.
type CPU struct {
	Registers

	// Debug, when true, makes invalid opcodes and unimplemented paths
	// panic instead of silently behaving as a no-op, matching
	// spec.md §7 taxonomy item 2.
	Debug bool
}

// New returns a CPU with its registers zeroed; callers are expected to
// stamp post-boot register values via Registers fields directly (see
// internal/gameboy for the per-target power-up values).
func New() *CPU {
	return &CPU{}
}

// Step executes exactly one instruction (or one halted/stopped tick),
// dispatches at most one pending interrupt, and returns the number of
// master clock cycles elapsed, per spec.md §4.3.
func (c *CPU) Step(bus Bus) uint32 {
	c.tickEI()

	var m uint8
	if !c.Halt && !c.Stop {
		op := bus.Read(c.Bump())
		m = c.exec(op, bus)
	} else {
		m = 1
		if c.Stop && bus.TrySpeedSwitch() {
			c.Stop = false
		}
	}

	pending := bus.Read(interrupts.FlagRegister) & bus.Read(interrupts.EnableRegister) & 0x1F
	if pending != 0 && (c.IME || c.Halt) {
		var i uint8
		for i = 0; i < 5; i++ {
			if pending&(1<<i) != 0 {
				break
			}
		}
		if c.IME {
			ifReg := bus.Read(interrupts.FlagRegister)
			bus.Write(interrupts.FlagRegister, ifReg&^(1<<i))
		}
		c.IME = false
		c.Halt = false
		c.Stop = false
		c.Rst(interrupts.Vector(i), bus)
		m++
	}

	return uint32(m) * uint32(bus.Speed())
}
