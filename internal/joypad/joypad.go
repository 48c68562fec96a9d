// Package joypad decodes the P1 register (0xFF00): button-matrix select
// lines, readback, and the Joypad interrupt raised on keydown. Writes to
// P1 are also the entry point for the SGB serial protocol (C7); Memory
// forwards each write to both this package and internal/sgb.
package joypad

import "github.com/arcovane/gbcore/internal/interrupts"

// Button identifies one of the eight logical buttons.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
)

// actionMask selects which nibble of state a button lives in: the action
// buttons (A,B,Select,Start) share the low nibble, the d-pad shares the
// high nibble of the 8-bit pressed-state byte.
const actionMask = ButtonA | ButtonB | ButtonSelect | ButtonStart

// State is the joypad's full state: the select register written by the
// game, the bitmask of currently-pressed buttons, and the SGB MLT_REG
// multiplayer selector.
type State struct {
	register uint8 // bits 4-5: P15/P14 select lines (active low)
	pressed  uint8 // bitmask of Button values, 1 = held

	players  uint8 // MLT_REG player count: 0 = one controller, 1 = two-controller polling
	selector uint8 // which of up to players+1 controllers is currently polled
}

// New returns a joypad with no buttons held and both select lines high.
func New() *State {
	return &State{register: 0x3F}
}

// Read returns the P1 register as the CPU would observe it: bits 0-3
// reflect the selected button group as active-low, bits 6-7 read 1.
func (s *State) Read() uint8 {
	sel := s.register & 0x30
	if sel&0x10 == 0 { // P14 selected: d-pad
		return 0xC0 | sel | ^(s.pressed>>4)&0x0F
	}
	if sel&0x20 == 0 { // P15 selected: buttons
		return 0xC0 | sel | ^(s.pressed&0x0F)&0x0F
	}
	return 0xC0 | sel | 0x0F
}

// Write updates the select lines (bits 4-5 only; the rest of the
// register is read-only from the CPU's perspective).
func (s *State) Write(value uint8) {
	s.register = (s.register & 0xCF) | (value & 0x30)
}

// Press marks a button as held, raising the Joypad interrupt if the
// button's group is currently selected and it was not already pressed.
func (s *State) Press(b Button, irq *interrupts.Service) {
	wasHeld := s.pressed&uint8(b) != 0
	s.pressed |= uint8(b)
	if wasHeld {
		return
	}
	if b&actionMask != 0 && s.register&0x20 == 0 {
		irq.Request(interrupts.Joypad)
	} else if b&actionMask == 0 && s.register&0x10 == 0 {
		irq.Request(interrupts.Joypad)
	}
}

// Release marks a button as no longer held.
func (s *State) Release(b Button) {
	s.pressed &^= uint8(b)
}

// SetPlayers latches the SGB MLT_REG player-count field (bits 0-1 of its
// data byte): 0 selects single-controller polling, 1 selects two.
func (s *State) SetPlayers(n uint8) {
	s.players = n & 0x03
	s.selector = 0
}

// CycleSelector advances which of the up to players+1 controllers the
// next P1 poll is directed at, wrapping back to controller 0. SGB pulses
// this on every Default-state idle (val==3) transition.
func (s *State) CycleSelector() {
	s.selector = (s.selector + 1) % (s.players + 1)
}

// Selector reports the controller index currently selected by MLT_REG
// polling.
func (s *State) Selector() uint8 {
	return s.selector
}
