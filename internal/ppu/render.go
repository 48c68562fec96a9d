package ppu

// renderScanline draws the background layer for the current LY into
// FrameBuffer. Sprites and the window layer are out of scope.
func (p *PPU) renderScanline() {
	if p.LCDC&lcdcBGEnable == 0 && !p.IsCGB {
		p.clearLine()
		return
	}

	mapBase := uint16(0x1800)
	if p.LCDC&lcdcBGMap != 0 {
		mapBase = 0x1C00
	}

	y := uint8(int(p.LY) + int(p.SCY))
	tileRow := uint16(y/8) * 32
	fineY := y % 8

	for screenX := 0; screenX < ScreenWidth; screenX++ {
		x := uint8(screenX) + p.SCX
		tileCol := uint16(x / 8)
		mapIndex := mapBase + tileRow + tileCol

		tileNum := p.VRAM[0][mapIndex]
		attr := uint8(0)
		if p.IsCGB {
			attr = p.VRAM[1][mapIndex]
		}

		bank := (attr >> 3) & 1
		flipX := attr&0x20 != 0
		flipY := attr&0x40 != 0
		palNum := attr & 0x07

		tileIndex := p.tileIndex(tileNum)
		row := fineY
		if flipY {
			row = 7 - row
		}
		col := x % 8
		if flipX {
			col = 7 - col
		}

		t := p.cache.Tile(&p.VRAM, bank, tileIndex)
		pixel := t[row][col]

		var c Color
		switch {
		case p.IsCGB:
			c = p.BGPalette.Color(palNum, pixel)
		case p.IsSGB && p.sgb != nil:
			pal := p.sgb.PaletteForTile(screenX/8, int(p.LY)/8)
			shade := grayToShadeIndex(p.bgPalette[pixel][0])
			c = pal[shade]
		default:
			c = p.bgPalette[pixel]
		}

		p.FrameBuffer[int(p.LY)*ScreenWidth+screenX] = c
	}
}

// tileIndex resolves a raw map byte to an offset into the 384-tile
// cache, honoring LCDC's signed/unsigned tile-data addressing mode:
// unsigned mode (bit 4 set) indexes 0x8000 directly, signed mode
// indexes 0x9000 with tileNum treated as int8.
func (p *PPU) tileIndex(tileNum uint8) uint16 {
	if p.LCDC&lcdcTileData != 0 {
		return uint16(tileNum)
	}
	return uint16(256 + int(int8(tileNum)))
}

func (p *PPU) clearLine() {
	blank := p.bgPalette[0]
	for x := 0; x < ScreenWidth; x++ {
		p.FrameBuffer[int(p.LY)*ScreenWidth+x] = blank
	}
}
