package cpu

import "testing"

func TestDAA_AfterBCDAddition(t *testing.T) {
	c := New()
	c.A = 0x09
	c.add(0x09) // binary 0x12, half-carry set
	c.daa()
	if c.A != 0x18 {
		t.Errorf("09 + 09 in BCD should give 0x18, got %#02x", c.A)
	}
	if c.GetFlag(FlagC) {
		t.Errorf("did not expect a carry out of this addition")
	}
}

func TestDAA_AfterBCDAdditionWithCarry(t *testing.T) {
	c := New()
	c.A = 0x90
	c.add(0x90)
	c.daa()
	if c.A != 0x80 {
		t.Errorf("90 + 90 in BCD should give 0x80 with carry, got %#02x", c.A)
	}
	if !c.GetFlag(FlagC) {
		t.Errorf("expected carry set")
	}
}

func TestDAA_AfterBCDSubtraction(t *testing.T) {
	c := New()
	c.A = 0x00
	c.sub(0x01) // sets N, H, C
	c.daa()
	if c.A != 0x99 {
		t.Errorf("00 - 01 in BCD should give 0x99, got %#02x", c.A)
	}
}
