package sgb

import "testing"

// sendBit pulses one data bit through the joypad protocol: the bit
// value first, then the clock pulse (val=3) that latches it.
func sendBit(d *Decoder, bit uint8) {
	if bit == 1 {
		d.Receive(1)
	} else {
		d.Receive(2)
	}
	d.Receive(3)
}

// sendPacket drives a single 16-byte packet through the full
// reset/read FSM, byte-by-byte, LSB first, and triggers process() at
// the end exactly as the real protocol does.
func sendPacket(d *Decoder, packet [16]byte) {
	d.Receive(0) // stateDefault -> stateReset
	d.Receive(3) // stateReset -> stateRead
	for _, b := range packet {
		for bit := 0; bit < 8; bit++ {
			sendBit(d, (b>>uint(bit))&1)
		}
	}
	d.Receive(3) // readBits==128: dispatch process() and return to stateDefault
}

func TestReceive_FullPacketDispatchesMaskEn(t *testing.T) {
	d := New()
	var packet [16]byte
	packet[0] = (0x17 << 3) | 1 // MASK_EN, 1 packet
	packet[1] = 1               // freeze and blank with color 0
	sendPacket(d, packet)
	if !d.Masked {
		t.Errorf("expected MASK_EN with mode 1 to set Masked")
	}
	if d.state != stateDefault {
		t.Errorf("expected FSM to return to stateDefault after processing, got %d", d.state)
	}
}

func TestUpdatePalette_SharesColorZeroAcrossAllPalettes(t *testing.T) {
	d := New()
	d.data[1], d.data[2] = 0x34, 0x12 // shared color 0: packed 0x1234
	d.updatePalette(0, 1)
	want := uint16(0x1234)
	for i := 0; i < 4; i++ {
		if d.pal[i*4] != want {
			t.Errorf("palette %d color 0: expected %#04x, got %#04x", i, want, d.pal[i*4])
		}
	}
}

func TestAttrBlock_AssignsInsideBorderOutsidePalettes(t *testing.T) {
	d := New()
	d.data[1] = 1 // one sub-block
	// control byte: inside+border+outside all enabled
	d.data[2] = 0x01 | 0x02 | 0x04
	d.data[3] = (1 << 4) | (2 << 2) | 3 // outside=1 border=2 inside=3
	d.data[4], d.data[5] = 5, 5         // x1,y1
	d.data[6], d.data[7] = 10, 10       // x2,y2
	d.attrBlock()

	if got := d.atf[0]; got != 1 {
		t.Errorf("expected outside palette 1 at (0,0), got %d", got)
	}
	if got := d.atf[7*20+7]; got != 3 {
		t.Errorf("expected inside palette 3 at (7,7), got %d", got)
	}
}

func TestPalSet_LoadsFromScratchRAMSlots(t *testing.T) {
	d := New()
	// Slot indices all zero: palette 0 loaded from ram[0:8].
	d.ram[0], d.ram[1] = 0x34, 0x12
	d.ram[2], d.ram[3] = 0x78, 0x56
	d.palSet()
	if d.pal[0] != 0x1234 {
		t.Errorf("expected pal[0]=0x1234, got %#04x", d.pal[0])
	}
	if d.pal[1] != 0x5678 {
		t.Errorf("expected pal[1]=0x5678, got %#04x", d.pal[1])
	}
}

func TestPalTrn_CopiesTileDataIntoScratchRAM(t *testing.T) {
	d := New()
	vram := make([]byte, 0x4000)
	bgMapBase, tileDataBase := 0, 0x1000
	vram[bgMapBase] = 5 // first map entry references tile 5
	for k := 0; k < 16; k++ {
		vram[tileDataBase+5*16+k] = byte(k + 1)
	}
	d.palTrn(vram, bgMapBase, tileDataBase, func(raw uint8) int { return int(raw) })
	for k := 0; k < 16; k++ {
		if d.ram[k] != byte(k+1) {
			t.Fatalf("byte %d: expected %d, got %d", k, k+1, d.ram[k])
		}
	}
}

func TestReceive_DefaultStateIdlePulseCyclesJoypadSelector(t *testing.T) {
	d := New()
	cycles := 0
	d.SetJoypadSelector(&JoypadSelector{
		Cycle:      func() { cycles++ },
		SetPlayers: func(uint8) {},
	})
	d.Receive(3) // idle/clock pulse while already in stateDefault
	d.Receive(3)
	if cycles != 2 {
		t.Errorf("expected every Default-state val==3 pulse to cycle the selector, got %d cycles", cycles)
	}
}

func TestReceive_FullPacketDispatchesMLTREG(t *testing.T) {
	d := New()
	var got uint8 = 0xFF
	d.SetJoypadSelector(&JoypadSelector{
		Cycle:      func() {},
		SetPlayers: func(n uint8) { got = n },
	})
	var packet [16]byte
	packet[0] = (0x11 << 3) | 1 // MLT_REG, 1 packet
	packet[1] = 1               // two-controller polling
	sendPacket(d, packet)
	if got != 1 {
		t.Errorf("expected MLT_REG to set player count 1, got %d", got)
	}
}

func TestPaletteForBlock_UpscalesRGB555(t *testing.T) {
	d := New()
	d.pal[4+1] = 0x1F // palette 1, color 1: red channel fully on
	d.atf[0] = 1
	colors := d.PaletteForBlock(0, 0)
	if colors[1][0] != 0xF8 {
		t.Errorf("expected red channel upscaled to 0xF8, got %#02x", colors[1][0])
	}
}
