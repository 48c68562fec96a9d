package joypad

import (
	"testing"

	"github.com/arcovane/gbcore/internal/interrupts"
)

func TestRead_NoSelection(t *testing.T) {
	s := New()
	s.Write(0x30) // both select lines released
	if s.Read()&0x0F != 0x0F {
		t.Errorf("expected all four low bits set when nothing is selected")
	}
}

func TestRead_DPadSelected(t *testing.T) {
	s := New()
	s.Write(0x20) // P14 low: select d-pad
	irq := interrupts.NewService()
	s.Press(ButtonUp, irq)
	if s.Read()&0x04 != 0 { // bit 2 is Up in the d-pad nibble
		t.Errorf("expected Up bit cleared (active low) in read, got %#02x", s.Read())
	}
	if s.Read()&0x01 == 0 { // Right not pressed stays high
		t.Errorf("expected Right bit set (not pressed), got %#02x", s.Read())
	}
}

func TestPress_RequestsInterruptOnlyWhenSelected(t *testing.T) {
	s := New()
	irq := interrupts.NewService()
	s.Write(0x10) // P15 low: buttons selected, d-pad not selected
	s.Press(ButtonUp, irq)
	if irq.Flag != 0 {
		t.Errorf("expected no interrupt: Up belongs to the unselected d-pad group")
	}
	s.Press(ButtonA, irq)
	if irq.Flag&(1<<interrupts.Joypad) == 0 {
		t.Errorf("expected Joypad interrupt requested: A belongs to the selected group")
	}
}

func TestPress_NoDuplicateInterruptWhileHeld(t *testing.T) {
	s := New()
	irq := interrupts.NewService()
	s.Write(0x10)
	s.Press(ButtonA, irq)
	irq.Clear(interrupts.Joypad)
	s.Press(ButtonA, irq)
	if irq.Flag&(1<<interrupts.Joypad) != 0 {
		t.Errorf("expected no new interrupt for a button already held")
	}
}

func TestCycleSelector_WrapsModuloPlayerCount(t *testing.T) {
	s := New()
	s.SetPlayers(1) // two-controller polling
	if s.Selector() != 0 {
		t.Fatalf("expected selector reset to 0 on SetPlayers, got %d", s.Selector())
	}
	s.CycleSelector()
	if s.Selector() != 1 {
		t.Errorf("expected selector 1 after one cycle, got %d", s.Selector())
	}
	s.CycleSelector()
	if s.Selector() != 0 {
		t.Errorf("expected selector to wrap back to 0, got %d", s.Selector())
	}
}

func TestCycleSelector_SinglePlayerNeverAdvances(t *testing.T) {
	s := New()
	s.CycleSelector()
	if s.Selector() != 0 {
		t.Errorf("expected selector to stay 0 with no MLT_REG player count set, got %d", s.Selector())
	}
}

func TestRelease(t *testing.T) {
	s := New()
	irq := interrupts.NewService()
	s.Write(0x10)
	s.Press(ButtonA, irq)
	s.Release(ButtonA)
	if s.Read()&0x01 == 0 {
		t.Errorf("expected A bit to read high again after release")
	}
}
