package cartridge

// MBC is the memory bank controller interface Memory delegates all
// cartridge-space reads and writes to. addr is the full CPU address
// (0x0000-0x7FFF for ROM, 0xA000-0xBFFF for external RAM); each
// implementation masks the bits it needs.
type MBC interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, value uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, value uint8)
}

// romOnly backs cartridge type 0x00: no banking, optionally a flat
// 8KiB RAM window.
type romOnly struct {
	rom []byte
	ram []byte
}

func newROMOnly(rom []byte, ramSize int) *romOnly {
	return &romOnly{rom: rom, ram: make([]byte, ramSize)}
}

func (m *romOnly) ReadROM(addr uint16) uint8 {
	if int(addr) < len(m.rom) {
		return m.rom[addr]
	}
	return 0xFF
}

func (m *romOnly) WriteROM(uint16, uint8) {}

func (m *romOnly) ReadRAM(addr uint16) uint8 {
	i := addr - 0xA000
	if int(i) < len(m.ram) {
		return m.ram[i]
	}
	return 0xFF
}

func (m *romOnly) WriteRAM(addr uint16, value uint8) {
	i := addr - 0xA000
	if int(i) < len(m.ram) {
		m.ram[i] = value
	}
}
