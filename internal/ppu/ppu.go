// Package ppu implements the scanline PPU (C6): mode timing, background
// rendering, tile/palette caching and OAM DMA, per SPEC_FULL.md §4.5.
// Sprite and window layers are an explicit Non-goal; only the background
// layer is drawn.
package ppu

import "github.com/arcovane/gbcore/internal/interrupts"

// Mode is one of the four PPU scanline modes.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAM
	ModeVRAM
)

const (
	oamCycles   = 80
	vramCycles  = 172
	hblankCycles = 204
	lineCycles  = 456
	lastLine    = 153

	ScreenWidth  = 160
	ScreenHeight = 144
)

// LCDC bits.
const (
	lcdcBGEnable  = 1 << 0
	lcdcTileData  = 1 << 4
	lcdcBGMap     = 1 << 3
	lcdcEnable    = 1 << 7
)

// STAT bits.
const (
	statLYCEqual   = 1 << 2
	statHBlankIRQ  = 1 << 3
	statVBlankIRQ  = 1 << 4
	statOAMIRQ     = 1 << 5
	statLYCIRQ     = 1 << 6
)

// PPU owns the raw VRAM/OAM backing stores, the mode FSM and all
// palette/register state needed to render the background layer.
type PPU struct {
	IsCGB bool
	IsSGB bool

	VRAM [2][0x2000]byte
	OAM  [160]byte

	FrameBuffer [ScreenWidth * ScreenHeight]Color

	cache *tileCache

	Mode    Mode
	LY      uint8
	clock   uint16

	LCDC, STAT       uint8
	SCY, SCX         uint8
	LYC              uint8
	BGP, OBP0, OBP1  uint8
	WY, WX           uint8
	VBK              uint8

	bgPalette  [4]Color
	obp0       [4]Color
	obp1       [4]Color

	BGPalette  cgbPaletteMemory
	OBPalette  cgbPaletteMemory

	dma dmaState

	HDMA1, HDMA2, HDMA3, HDMA4, HDMA5 uint8

	sgb *sgbBridge
}

// sgbBridge is the minimal surface internal/sgb needs to expose for
// background pixels to be remapped through its attribute file and
// palettes; Memory wires the concrete *sgb.Decoder in when SGB mode is
// selected.
type sgbBridge struct {
	PaletteForTile func(tileX, tileY int) [4]Color
}

// New returns a powered-off PPU. Memory calls SetSGBBridge after
// construction if the session is running in SGB mode.
func New(isCGB bool) *PPU {
	p := &PPU{IsCGB: isCGB, cache: newTileCache()}
	p.bgPalette = compilePalette(0xFC)
	return p
}

// SetSGBBridge installs the callback used to remap compiled monochrome
// background pixels into SGB palette colors.
func (p *PPU) SetSGBBridge(paletteForTile func(tileX, tileY int) [4]Color) {
	p.IsSGB = true
	p.sgb = &sgbBridge{PaletteForTile: paletteForTile}
}

// Step advances the PPU by masterCycles master clocks, running the mode
// FSM and requesting STAT/VBlank interrupts as transitions occur.
func (p *PPU) Step(masterCycles uint32, irq *interrupts.Service) {
	if p.LCDC&lcdcEnable == 0 {
		p.stepDisabled(masterCycles)
		return
	}

	p.clock += uint16(masterCycles)

	switch p.Mode {
	case ModeOAM:
		if p.clock >= oamCycles {
			p.clock -= oamCycles
			p.Mode = ModeVRAM
		}
	case ModeVRAM:
		if p.clock >= vramCycles {
			p.clock -= vramCycles
			p.Mode = ModeHBlank
			p.renderScanline()
			p.requestStat(statHBlankIRQ, irq)
		}
	case ModeHBlank:
		if p.clock >= hblankCycles {
			p.clock -= hblankCycles
			p.LY++
			if p.LY == ScreenHeight {
				p.Mode = ModeVBlank
				irq.Request(interrupts.VBlank)
				p.requestStat(statVBlankIRQ, irq)
			} else {
				p.Mode = ModeOAM
				p.requestStat(statOAMIRQ, irq)
			}
			p.checkLYC(irq)
		}
	case ModeVBlank:
		if p.clock >= lineCycles {
			p.clock -= lineCycles
			p.LY++
			if p.LY > lastLine {
				p.LY = 0
				p.Mode = ModeOAM
				p.requestStat(statOAMIRQ, irq)
			}
			p.checkLYC(irq)
		}
	}
}

// stepDisabled keeps LY/clock advancing at the normal 456-cycle line rate
// while LCDC display-enable is clear, parked in ModeHBlank with no render,
// so scanline timing does not drift once the display is re-enabled.
func (p *PPU) stepDisabled(masterCycles uint32) {
	p.clock += uint16(masterCycles)
	for p.clock >= lineCycles {
		p.clock -= lineCycles
		p.LY++
		if p.LY > lastLine {
			p.LY = 0
		}
	}
}

func (p *PPU) requestStat(bit uint8, irq *interrupts.Service) {
	if p.STAT&bit != 0 {
		irq.Request(interrupts.LCDStat)
	}
}

func (p *PPU) checkLYC(irq *interrupts.Service) {
	if p.LY == p.LYC {
		p.STAT |= statLYCEqual
		p.requestStat(statLYCIRQ, irq)
	} else {
		p.STAT &^= statLYCEqual
	}
}

// ReadVRAM and WriteVRAM implement the CPU-facing 0x8000-0x9FFF window,
// banked by VBK on CGB. Mode 3 normally blocks CPU access to VRAM; this
// is not enforced here since spec.md scopes out bus-contention timing.
func (p *PPU) ReadVRAM(addr uint16) uint8 {
	return p.VRAM[p.VBK&1][addr]
}

func (p *PPU) WriteVRAM(addr uint16, value uint8) {
	p.VRAM[p.VBK&1][addr] = value
	p.cache.MarkDirty(p.VBK&1, addr)
}

func (p *PPU) ReadOAM(addr uint16) uint8 { return p.OAM[addr] }
func (p *PPU) WriteOAM(addr uint16, value uint8) { p.OAM[addr] = value }

// Read implements the LCDC..WX register window (0xFF40-0xFF4B), plus
// VBK and the CGB palette ports.
func (p *PPU) Read(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.LCDC
	case 0xFF41:
		return p.STAT | 0x80 | uint8(p.Mode)
	case 0xFF42:
		return p.SCY
	case 0xFF43:
		return p.SCX
	case 0xFF44:
		return p.LY
	case 0xFF45:
		return p.LYC
	case 0xFF46:
		return p.dma.value
	case 0xFF47:
		return p.BGP
	case 0xFF48:
		return p.OBP0
	case 0xFF49:
		return p.OBP1
	case 0xFF4A:
		return p.WY
	case 0xFF4B:
		return p.WX
	case 0xFF4F:
		return p.VBK | 0xFE
	case 0xFF51, 0xFF52, 0xFF53, 0xFF54:
		return 0xFF
	case 0xFF55:
		return p.HDMA5
	case 0xFF68:
		return p.BGPalette.ReadIndex()
	case 0xFF69:
		return p.BGPalette.ReadData()
	case 0xFF6A:
		return p.OBPalette.ReadIndex()
	case 0xFF6B:
		return p.OBPalette.ReadData()
	}
	return 0xFF
}

func (p *PPU) Write(addr uint16, value uint8) {
	switch addr {
	case 0xFF40:
		p.LCDC = value
		if value&lcdcEnable == 0 {
			p.LY = 0
			p.clock = 0
			p.Mode = ModeHBlank
		}
	case 0xFF41:
		p.STAT = value & 0x78
	case 0xFF42:
		p.SCY = value
	case 0xFF43:
		p.SCX = value
	case 0xFF45:
		p.LYC = value
	case 0xFF46:
		p.dma.Start(value)
	case 0xFF47:
		p.BGP = value
		p.bgPalette = compilePalette(value)
	case 0xFF48:
		p.OBP0 = value
		p.obp0 = compilePalette(value)
	case 0xFF49:
		p.OBP1 = value
		p.obp1 = compilePalette(value)
	case 0xFF4A:
		p.WY = value
	case 0xFF4B:
		p.WX = value - 7
	case 0xFF4F:
		p.VBK = value & 1
	case 0xFF51:
		p.HDMA1 = value
	case 0xFF52:
		p.HDMA2 = value & 0xF0
	case 0xFF53:
		p.HDMA3 = value & 0x1F
	case 0xFF54:
		p.HDMA4 = value & 0xF0
	case 0xFF55:
		// Bit 7 clear requests a general-purpose transfer; that path is
		// not implemented (SPEC_FULL.md §4.5 / §9 item iv). The register
		// still latches so reads observe the requested length.
		p.HDMA5 = value
	case 0xFF68:
		p.BGPalette.WriteIndex(value)
	case 0xFF69:
		p.BGPalette.WriteData(value)
	case 0xFF6A:
		p.OBPalette.WriteIndex(value)
	case 0xFF6B:
		p.OBPalette.WriteData(value)
	}
}

// dmaState drives the OAM DMA transfer triggered by a write to 0xFF46.
// The transfer is performed synchronously in Start rather than spread
// over the real 160 M-cycles, matching spec.md §4.5's stated
// simplification.
type dmaState struct {
	value  uint8
	source func(uint16) uint8
	oam    *[160]byte
}

func (p *PPU) AttachDMASource(read func(uint16) uint8) {
	p.dma.source = read
	p.dma.oam = &p.OAM
}

func (d *dmaState) Start(value uint8) {
	if value > 0xF1 {
		return
	}
	d.value = value
	if d.source == nil {
		return
	}
	base := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		d.oam[i] = d.source(base + i)
	}
}
