package cartridge

// mbc1 implements the MBC1 bank-switching scheme: a 5-bit primary ROM
// bank register (bank1, never 0) and a 2-bit secondary register
// (bank2) that either extends the ROM bank or selects the RAM bank,
// depending on mode. Grounded on the teacher's internal/cartridge/mbc1.go.
type mbc1 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	bank1      uint8
	bank2      uint8
	mode       bool

	multicart bool
	romBanks  uint8
}

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

func newMBC1(rom []byte, ramSize int) *mbc1 {
	m := &mbc1{
		rom:      rom,
		ram:      make([]byte, ramSize),
		bank1:    1,
		romBanks: uint8(len(rom) / 0x4000),
	}
	m.detectMulticart()
	return m
}

// detectMulticart applies the standard heuristic: a 1MiB ROM carrying
// the Nintendo logo at the start of more than one 256KiB quarter is a
// MBC1M multicart, which shifts the bank-2 register by 4 bits instead
// of 5.
func (m *mbc1) detectMulticart() {
	if len(m.rom) != 1024*1024 {
		return
	}
	matches := 0
	for bank := 0; bank < 4; bank++ {
		base := bank * 0x40000
		ok := true
		for i, want := range nintendoLogo {
			if m.rom[base+0x104+i] != want {
				ok = false
				break
			}
		}
		if ok {
			matches++
		}
	}
	m.multicart = matches > 1
}

func (m *mbc1) bankShift() uint8 {
	if m.multicart {
		return 4
	}
	return 5
}

func (m *mbc1) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		if m.mode {
			bank := (m.bank2 << m.bankShift()) % max8(m.romBanks, 1)
			return m.rom[int(bank)*0x4000+int(addr)]
		}
		return m.rom[addr]
	}
	bank := (m.bank1 | m.bank2<<m.bankShift()) % max8(m.romBanks, 1)
	return m.rom[int(bank)*0x4000+int(addr-0x4000)]
}

func (m *mbc1) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		value &= 0x1F
		if value == 0 {
			value = 1
		}
		if m.multicart {
			value &= 0x0F
		}
		m.bank1 = value
	case addr < 0x6000:
		m.bank2 = value & 0x03
	default:
		m.mode = value&1 == 1
	}
}

func (m *mbc1) ramBank() uint8 {
	if m.mode {
		return m.bank2
	}
	return 0
}

func (m *mbc1) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	offset := int(m.ramBank())*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		offset %= len(m.ram)
	}
	return m.ram[offset]
}

func (m *mbc1) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	offset := int(m.ramBank())*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		offset %= len(m.ram)
	}
	m.ram[offset] = value
}

func max8(v, floor uint8) uint8 {
	if v < floor {
		return floor
	}
	return v
}
