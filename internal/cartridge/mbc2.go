package cartridge

// mbc2 supports ROM sizes up to 256KiB (16 banks) and has a built-in
// 512x4-bit RAM array wired directly into the chip; writes and reads
// see only the low nibble, with the upper nibble reading back as 1s.
// Grounded on the teacher's internal/cartridge/mbc2.go.
type mbc2 struct {
	rom []byte
	ram [512]byte

	ramEnabled bool
	romBank    uint8
}

func newMBC2(rom []byte) *mbc2 {
	return &mbc2{rom: rom, romBank: 1}
}

func (m *mbc2) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return m.rom[addr]
	}
	bank := m.romBank
	if int(bank)*0x4000 >= len(m.rom) {
		bank %= uint8(len(m.rom) / 0x4000)
	}
	return m.rom[int(bank)*0x4000+int(addr-0x4000)]
}

func (m *mbc2) WriteROM(addr uint16, value uint8) {
	if addr >= 0x4000 {
		return
	}
	if addr&0x100 != 0 {
		bank := value & 0x0F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	} else {
		m.ramEnabled = value&0x0F == 0x0A
	}
}

func (m *mbc2) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	return m.ram[addr&0x1FF] | 0xF0
}

func (m *mbc2) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	m.ram[addr&0x1FF] = value & 0x0F
}
