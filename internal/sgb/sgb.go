// Package sgb decodes the Super Game Boy serial-over-joypad protocol
// (C7): SPEC_FULL.md §4.7, grounded on original_source's sgb.rs (the
// command set and packet framing are unchanged from there; border
// rendering and the SNES-side transfer commands are a Non-goal).
package sgb

// state is the packet-framing FSM state.
type state uint8

const (
	stateDefault state = iota
	stateReset
	stateRead
)

// RGBA is one packed-RGB555-derived color, upscaled to 8 bits per
// channel with alpha forced opaque.
type RGBA [4]uint8

// Decoder holds the 4KiB VRAM-transfer scratch RAM, the packet FSM and
// the four active background palettes plus their 20x18 attribute file.
type Decoder struct {
	ram [0x1000]byte

	state    state
	packets  int
	dataIdx  int
	readBits int
	byteAcc  uint8
	bitIn    uint8
	command  uint8
	data     [16 * 16]byte

	pal [16]uint16 // 4 palettes x 4 colors, packed RGB555
	atf [20 * 18]uint8

	Masked bool // MASK_EN frozen-display request; rendering freeze is a Non-goal, tracked only for diagnostics
	Debug  bool

	vramSource func() VRAMSnapshot
	joypad     *JoypadSelector
}

// JoypadSelector is the minimal surface MLT_REG and the Default-state
// idle pulse need from internal/joypad; Memory wires the concrete
// *joypad.State in when SGB mode is selected, keeping this package's
// dependency on the joypad package one-directional.
type JoypadSelector struct {
	Cycle      func()
	SetPlayers func(uint8)
}

// SetJoypadSelector installs the callbacks MLT_REG uses to set the
// active player count and cycle the polled controller.
func (d *Decoder) SetJoypadSelector(j *JoypadSelector) {
	d.joypad = j
}

// VRAMSnapshot is the view PAL_TRN needs into the PPU's VRAM: the raw
// plane, the active background map's byte offset, the active tile
// data table's byte offset, and the LCDC-dependent signed/unsigned
// tile-index resolver.
type VRAMSnapshot struct {
	Plane        []byte
	BGMapBase    int
	TileDataBase int
	TileIndexOf  func(raw uint8) int
}

// SetVRAMSource installs the callback PAL_TRN uses to read VRAM. Wired
// by Memory only when the session is running in SGB mode.
func (d *Decoder) SetVRAMSource(f func() VRAMSnapshot) {
	d.vramSource = f
}

// New returns a decoder with all palettes black and the attribute file
// pointing at palette 0.
func New() *Decoder {
	return &Decoder{}
}

// Receive processes one bit-transfer pulse from the joypad's P1 select
// lines. val follows the same two-bit encoding as the packet protocol
// itself: 0 when both select lines are driven low (the reset pulse), 3
// when both are released (idle/clock), and 1 or 2 while one line is
// held low to shift in a single data bit (bit0 of val is the data bit).
func (d *Decoder) Receive(val uint8) {
	switch d.state {
	case stateDefault:
		switch val {
		case 0:
			d.state = stateReset
			d.packets = 0
		case 3:
			if d.joypad != nil {
				d.joypad.Cycle()
			}
		}

	case stateReset:
		switch {
		case val == 3:
			d.state = stateRead
			if d.packets == 0 {
				d.packets = 1
				d.dataIdx = 0
			}
			d.byteAcc = 0
			d.readBits = 0
		case val != 0:
			d.state = stateDefault
		}

	case stateRead:
		switch {
		case val == 0:
			d.state = stateReset
			if d.dataIdx == d.packets*16 {
				d.packets = 0
			}
		case val == 3:
			if d.readBits == 128 {
				if d.dataIdx == d.packets*16 {
					d.process()
					d.state = stateDefault
				} else {
					d.readBits = 0
				}
				return
			}
			d.byteAcc |= d.bitIn << uint(d.readBits%8)
			d.readBits++
			if d.readBits%8 == 0 {
				if d.dataIdx == 0 {
					d.packets = int(d.byteAcc % 8)
					d.command = d.byteAcc / 8
				}
				if d.dataIdx < len(d.data) {
					d.data[d.dataIdx] = d.byteAcc
				}
				d.dataIdx++
				d.byteAcc = 0
			}
		default:
			d.bitIn = val & 1
		}
	}
}

// commands not acted on (border/SNES-side transfers, sound, speed)
// still dispatch cleanly; in a debug build they panic so an
// unimplemented packet is never silently swallowed during development.
func (d *Decoder) process() {
	switch d.command {
	case 0x00:
		d.updatePalette(0, 1)
	case 0x01:
		d.updatePalette(2, 3)
	case 0x02:
		d.updatePalette(0, 3)
	case 0x03:
		d.updatePalette(1, 2)
	case 0x04:
		d.attrBlock()
	case 0x0A:
		d.palSet()
	case 0x0B:
		if d.vramSource != nil {
			snap := d.vramSource()
			d.palTrn(snap.Plane, snap.BGMapBase, snap.TileDataBase, snap.TileIndexOf)
		}
	case 0x11:
		if d.joypad != nil {
			d.joypad.SetPlayers(d.data[1] & 0x03)
		}
	case 0x17:
		d.maskEn()
	case 0x0F, 0x13, 0x14:
		// SNES WRAM/character/screen transfers: border and sound are a
		// Non-goal, no data to act on.
	default:
		if d.Debug {
			panic("sgb: unimplemented command")
		}
	}
}

func pack(lo, hi byte) uint16 { return uint16(hi)<<8 | uint16(lo) }

// updatePalette implements PAL01/PAL23/PAL03/PAL12: color 0 is shared
// across all four palettes, the packet's remaining six colors split
// between the two named palette slots p1 and p2.
func (d *Decoder) updatePalette(p1, p2 int) {
	shared := pack(d.data[1], d.data[2])
	for i := 0; i < 4; i++ {
		d.pal[i*4] = shared
	}
	for i := 1; i < 4; i++ {
		d.pal[p1*4+i] = pack(d.data[1+i*2], d.data[2+i*2])
	}
	for i := 1; i < 4; i++ {
		d.pal[p2*4+i] = pack(d.data[7+i*2], d.data[8+i*2])
	}
}

// attrBlock implements ATTR_BLK: each of up to data[1] sub-blocks
// assigns a palette to the inside, border, or outside of a rectangle
// in the 20x18 attribute file.
func (d *Decoder) attrBlock() {
	for i := 0; i < int(d.data[1]); i++ {
		off := 2 + i*6
		x1, y1 := int(d.data[off+2]), int(d.data[off+3])
		x2, y2 := int(d.data[off+4]), int(d.data[off+5])
		insideOn := d.data[off]&1 != 0
		borderOn := d.data[off]&2 != 0
		outsideOn := d.data[off]&4 != 0

		insidePal := d.data[off+1] & 3
		borderPal := (d.data[off+1] >> 2) & 3
		outsidePal := (d.data[off+1] >> 4) & 3

		for y := 0; y < 18; y++ {
			for x := 0; x < 20; x++ {
				idx := y*20 + x
				switch {
				case x > x1 && x < x2 && y > y1 && y < y2:
					if insideOn {
						d.atf[idx] = insidePal
					}
				case x < x1 || x > x2 || y < y1 || y > y2:
					if outsideOn {
						d.atf[idx] = outsidePal
					}
				case borderOn:
					d.atf[idx] = borderPal
				}
			}
		}
	}
}

// palSet implements PAL_SET: the four palettes are loaded from four
// 8-byte slots inside the scratch RAM, addressed by packet-supplied
// indices.
func (d *Decoder) palSet() {
	slot := [4]int{
		int(pack(d.data[1], d.data[2])) * 8,
		int(pack(d.data[3], d.data[4])) * 8,
		int(pack(d.data[5], d.data[6])) * 8,
		int(pack(d.data[7], d.data[8])) * 8,
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			d.pal[i*4+j] = pack(d.ram[slot[i]+2*j], d.ram[slot[i]+2*j+1])
		}
	}
}

// maskEn implements MASK_EN's freeze/unfreeze requests. Actually
// blanking or freezing the displayed framebuffer is left to the
// caller; Masked only records the request.
func (d *Decoder) maskEn() {
	switch d.data[1] {
	case 0, 1:
		d.Masked = d.data[1] == 1
	case 2, 3:
		d.Masked = true
	}
}

// palTrn implements PAL_TRN: copies tile pixel data referenced by the
// background map into the scratch RAM, for later PAL_SET lookups. The
// caller supplies the raw VRAM planes since this package has no VRAM
// access of its own.
func (d *Decoder) palTrn(vram []byte, bgMapBase, tileDataBase int, tileIndexOf func(raw uint8) int) {
	offset := 0
	sgbOffset := 0
	for row := 0; row < 13; row++ {
		for col := 0; col < 20; col++ {
			raw := vram[bgMapBase+offset]
			offset++
			tile := tileIndexOf(raw)
			for k := 0; k < 16; k++ {
				if sgbOffset >= len(d.ram) {
					break
				}
				d.ram[sgbOffset] = vram[tileDataBase+tile*16+k]
				sgbOffset++
			}
		}
		offset += 12
	}
}

// PaletteForBlock returns the four compiled colors of the palette
// assigned to the 8x8 attribute-file block at (blockX, blockY).
func (d *Decoder) PaletteForBlock(blockX, blockY int) [4]RGBA {
	pal := d.atf[blockY*20+blockX]
	var out [4]RGBA
	for j := 0; j < 4; j++ {
		c := d.pal[int(pal)*4+j]
		out[j] = RGBA{
			uint8(c&0x1F) << 3,
			uint8((c>>5)&0x1F) << 3,
			uint8((c>>10)&0x1F) << 3,
			255,
		}
	}
	return out
}
