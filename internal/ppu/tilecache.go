package ppu

// tile is one decoded 8x8 tile: two-bit color indices, row-major.
type tile [8][8]uint8

// tileCache decodes the raw VRAM tile data (0x8000-0x97FF, both CGB
// banks) into 2-bit pixel indices on demand, invalidating only the
// tiles touched by a VRAM write rather than redecoding the whole bank
// every scanline.
type tileCache struct {
	tiles [2][384]tile
	dirty [2][384]bool
}

func newTileCache() *tileCache {
	tc := &tileCache{}
	for bank := range tc.dirty {
		for i := range tc.dirty[bank] {
			tc.dirty[bank][i] = true
		}
	}
	return tc
}

// MarkDirty flags the tile(s) touched by a write at VRAM offset addr
// (relative to 0x8000) in the given bank. Each tile is 16 bytes; a
// write touches exactly one tile.
func (tc *tileCache) MarkDirty(bank uint8, addr uint16) {
	if addr >= 0x1800 {
		return // map area, not tile data
	}
	tc.dirty[bank][addr/16] = true
}

// Tile returns the decoded tile at index (0..383) in the given bank,
// decoding it from vram first if its cache entry is stale.
func (tc *tileCache) Tile(vram *[2][0x2000]byte, bank uint8, index uint16) *tile {
	if tc.dirty[bank][index] {
		tc.decode(vram, bank, index)
		tc.dirty[bank][index] = false
	}
	return &tc.tiles[bank][index]
}

func (tc *tileCache) decode(vram *[2][0x2000]byte, bank uint8, index uint16) {
	base := index * 16
	t := &tc.tiles[bank][index]
	for row := 0; row < 8; row++ {
		lo := vram[bank][base+uint16(row)*2]
		hi := vram[bank][base+uint16(row)*2+1]
		for col := 0; col < 8; col++ {
			bit := uint(7 - col)
			b0 := (lo >> bit) & 1
			b1 := (hi >> bit) & 1
			t[row][col] = b0 | b1<<1
		}
	}
}
