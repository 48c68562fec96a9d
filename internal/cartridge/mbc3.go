package cartridge

import "github.com/arcovane/gbcore/internal/rtc"

// mbc3 supports ROM banking up to 2MiB, 32KiB of RAM banked in four
// 8KiB slots, and redirects RAM-bank selectors 0x08-0x0C to the MBC3
// real-time clock registers instead. Grounded on the teacher's
// internal/cartridge/mbc3.go, with RTC semantics from internal/rtc.
type mbc3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    uint8
	ramBank    uint8

	clock *rtc.RTC
}

func newMBC3(rom []byte, ramSize int) *mbc3 {
	return &mbc3{
		rom:     rom,
		ram:     make([]byte, ramSize),
		romBank: 1,
		clock:   rtc.New(),
	}
}

func (m *mbc3) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return m.rom[addr]
	}
	bank := m.romBank
	if int(bank)*0x4000 >= len(m.rom) {
		bank %= uint8(len(m.rom) / 0x4000)
	}
	return m.rom[int(bank)*0x4000+int(addr-0x4000)]
}

func (m *mbc3) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		value &= 0x7F
		if value == 0 {
			value = 1
		}
		m.romBank = value
	case addr < 0x6000:
		m.ramBank = value
	default:
		m.clock.Latch(value)
	}
}

func (m *mbc3) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
		m.clock.Current = m.ramBank - 0x08
		return m.clock.Read()
	}
	if len(m.ram) == 0 {
		return 0xFF
	}
	offset := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		offset %= len(m.ram)
	}
	return m.ram[offset]
}

func (m *mbc3) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
		m.clock.Current = m.ramBank - 0x08
		m.clock.Write(value)
		return
	}
	if len(m.ram) == 0 {
		return
	}
	offset := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		offset %= len(m.ram)
	}
	m.ram[offset] = value
}
