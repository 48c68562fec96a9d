package ppu

import "testing"

func TestTileCache_DecodesSimpleTile(t *testing.T) {
	var vram [2][0x2000]byte
	// Row 0: lo=0xFF, hi=0x00 -> all pixels index 1.
	vram[0][0] = 0xFF
	vram[0][1] = 0x00
	tc := newTileCache()
	tile := tc.Tile(&vram, 0, 0)
	for col := 0; col < 8; col++ {
		if tile[0][col] != 1 {
			t.Errorf("col %d: expected pixel index 1, got %d", col, tile[0][col])
		}
	}
}

func TestTileCache_DirtyBitInvalidation(t *testing.T) {
	var vram [2][0x2000]byte
	tc := newTileCache()
	tile := tc.Tile(&vram, 0, 0)
	if tile[0][0] != 0 {
		t.Fatalf("expected initial decode of zeroed vram to be blank")
	}
	vram[0][0] = 0xFF
	// Cache entry is now stale but MarkDirty hasn't been called, so the
	// cached (blank) tile is still returned.
	stale := tc.Tile(&vram, 0, 0)
	if stale[0][0] != 0 {
		t.Fatalf("expected stale cache to still read blank before MarkDirty")
	}
	tc.MarkDirty(0, 0)
	fresh := tc.Tile(&vram, 0, 0)
	if fresh[0][0] != 1 {
		t.Errorf("expected fresh decode after MarkDirty, got %d", fresh[0][0])
	}
}

func TestTileCache_MarkDirtyIgnoresMapArea(t *testing.T) {
	tc := newTileCache()
	tc.dirty[0][0] = false
	tc.MarkDirty(0, 0x1800) // map area, not tile data
	if tc.dirty[0][0] {
		t.Errorf("expected a map-area write to not dirty any tile-data entry")
	}
}
