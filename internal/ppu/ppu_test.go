package ppu

import (
	"testing"

	"github.com/arcovane/gbcore/internal/interrupts"
)

func TestStep_ModeTransitionsOAMtoVRAMtoHBlank(t *testing.T) {
	p := New(false)
	irq := interrupts.NewService()
	p.Write(0xFF40, lcdcEnable)
	p.Mode = ModeOAM

	p.Step(oamCycles, irq)
	if p.Mode != ModeVRAM {
		t.Fatalf("expected OAM->VRAM after %d cycles, got mode %d", oamCycles, p.Mode)
	}
	p.Step(vramCycles, irq)
	if p.Mode != ModeHBlank {
		t.Fatalf("expected VRAM->HBlank after %d cycles, got mode %d", vramCycles, p.Mode)
	}
}

func TestStep_VBlankRequestedAtLine144(t *testing.T) {
	p := New(false)
	irq := interrupts.NewService()
	p.Write(0xFF40, lcdcEnable)
	p.Mode = ModeHBlank
	p.LY = ScreenHeight - 1

	p.Step(hblankCycles, irq)
	if p.Mode != ModeVBlank {
		t.Fatalf("expected HBlank->VBlank at LY=%d, got mode %d", ScreenHeight, p.Mode)
	}
	if irq.Flag&(1<<interrupts.VBlank) == 0 {
		t.Errorf("expected VBlank interrupt requested")
	}
}

func TestStep_DisabledLCDKeepsLYAdvancing(t *testing.T) {
	p := New(false)
	irq := interrupts.NewService()
	p.LCDC = 0 // disabled
	p.Mode = ModeHBlank

	p.Step(lineCycles, irq)
	if p.LY != 1 {
		t.Errorf("expected LY to keep advancing while LCD disabled, got %d", p.LY)
	}
	if p.Mode != ModeHBlank {
		t.Errorf("expected mode to stay parked in HBlank while LCD disabled, got %d", p.Mode)
	}
}

func TestStep_DisabledLCDWrapsLYPastLastLine(t *testing.T) {
	p := New(false)
	irq := interrupts.NewService()
	p.LCDC = 0
	p.Mode = ModeHBlank
	p.LY = lastLine

	p.Step(lineCycles, irq)
	if p.LY != 0 {
		t.Errorf("expected LY to wrap to 0 past line %d, got %d", lastLine, p.LY)
	}
}

func TestCheckLYC_RequestsStatWhenEnabled(t *testing.T) {
	p := New(false)
	irq := interrupts.NewService()
	p.LYC = 5
	p.LY = 5
	p.STAT = statLYCIRQ
	p.checkLYC(irq)
	if p.STAT&statLYCEqual == 0 {
		t.Errorf("expected LYC-equal flag set")
	}
	if irq.Flag&(1<<interrupts.LCDStat) == 0 {
		t.Errorf("expected LCDStat interrupt requested")
	}
}

func TestDMA_CopiesFromSourceIntoOAM(t *testing.T) {
	p := New(false)
	src := make([]byte, 0x10000)
	src[0xC000] = 0x42
	src[0xC09F] = 0x99
	p.AttachDMASource(func(addr uint16) uint8 { return src[addr] })
	p.Write(0xFF46, 0xC0)
	if p.OAM[0] != 0x42 || p.OAM[0x9F] != 0x99 {
		t.Errorf("expected OAM copied from source region, got OAM[0]=%#02x OAM[0x9F]=%#02x", p.OAM[0], p.OAM[0x9F])
	}
}

func TestDMA_IgnoresOutOfRangeSourceByte(t *testing.T) {
	p := New(false)
	called := false
	p.AttachDMASource(func(addr uint16) uint8 { called = true; return 0 })
	p.Write(0xFF46, 0xF2) // > 0xF1, invalid source page
	if called {
		t.Errorf("expected Start to reject a source page above 0xF1")
	}
}

func TestWrite_BGPRecompilesPalette(t *testing.T) {
	p := New(false)
	p.Write(0xFF47, 0x00) // every shade maps to index 0 (white)
	if p.bgPalette[3][0] != grayscale[0] {
		t.Errorf("expected shade 3 to compile to grayscale[0], got %d", p.bgPalette[3][0])
	}
}

func TestWrite_WXStoresValueMinusSeven(t *testing.T) {
	p := New(false)
	p.Write(0xFF4B, 10)
	if p.WX != 3 {
		t.Errorf("expected WX stored as written-7, got %d", p.WX)
	}
}

func TestWrite_DisablingLCDResetsLYAndMode(t *testing.T) {
	p := New(false)
	p.LCDC = lcdcEnable
	p.LY = 50
	p.Mode = ModeVRAM
	p.Write(0xFF40, 0x00)
	if p.LY != 0 || p.Mode != ModeHBlank {
		t.Errorf("expected LY reset to 0 and mode HBlank, got LY=%d mode=%d", p.LY, p.Mode)
	}
}
