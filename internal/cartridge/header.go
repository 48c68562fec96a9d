package cartridge

import (
	"fmt"

	"github.com/cespare/xxhash"
)

// Mode identifies which Game Boy models the cartridge declares support
// for, parsed from the CGB flag at 0x0143.
type Mode uint8

const (
	ModeDMGOnly Mode = iota
	ModeSupportsCGB
	ModeCGBOnly
)

// Type is the MBC identifier at 0x0147.
type Type uint8

const (
	TypeROM               Type = 0x00
	TypeMBC1              Type = 0x01
	TypeMBC1RAM           Type = 0x02
	TypeMBC1RAMBattery    Type = 0x03
	TypeMBC2              Type = 0x05
	TypeMBC2Battery       Type = 0x06
	TypeROMRAM            Type = 0x08
	TypeROMRAMBattery     Type = 0x09
	TypeMBC3TimerBattery  Type = 0x0F
	TypeMBC3TimerRAMBatt  Type = 0x10
	TypeMBC3              Type = 0x11
	TypeMBC3RAM           Type = 0x12
	TypeMBC3RAMBattery    Type = 0x13
	TypeMBC5              Type = 0x19
	TypeMBC5RAM           Type = 0x1A
	TypeMBC5RAMBattery    Type = 0x1B
	TypeMBC5Rumble        Type = 0x1C
	TypeMBC5RumbleRAM     Type = 0x1D
	TypeMBC5RumbleRAMBatt Type = 0x1E
)

var ramSizes = map[uint8]int{
	0x00: 0,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header is the parsed 0x0100-0x014F cartridge header.
type Header struct {
	Title            string
	ManufacturerCode string
	Mode             Mode
	NewLicenseeCode  string
	SGBSupported     bool
	CartridgeType    Type
	ROMSize          int
	RAMSize          int
	CountryCode      uint8
	OldLicenseeCode  uint8
	MaskROMVersion   uint8
	HeaderChecksum   uint8
	GlobalChecksum   uint16

	romHash uint64
}

// ParseHeader reads the header out of a full ROM image. rom must be at
// least 0x150 bytes.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, fmt.Errorf("cartridge: ROM too short for a header (%d bytes)", len(rom))
	}
	h := Header{romHash: xxhash.Sum64(rom)}
	b := rom[0x100:0x150]

	switch b[0x43] {
	case 0x80:
		h.Mode = ModeSupportsCGB
	case 0xC0:
		h.Mode = ModeCGBOnly
	default:
		h.Mode = ModeDMGOnly
	}

	if h.Mode == ModeDMGOnly {
		h.Title = trimTitle(b[0x34:0x44])
	} else {
		h.Title = trimTitle(b[0x34:0x43])
	}
	h.ManufacturerCode = string(b[0x3F:0x43])
	h.NewLicenseeCode = string(b[0x44:0x46])
	h.SGBSupported = b[0x46] == 0x03
	h.CartridgeType = Type(b[0x47])
	h.ROMSize = (32 * 1024) << b[0x48]
	h.RAMSize = ramSizes[b[0x49]]
	h.CountryCode = b[0x4A]
	h.OldLicenseeCode = b[0x4B]
	h.MaskROMVersion = b[0x4C]
	h.HeaderChecksum = b[0x4D]
	h.GlobalChecksum = uint16(b[0x4E]) | uint16(b[0x4F])<<8

	return h, nil
}

// trimTitle stops at the first NUL padding byte.
func trimTitle(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// GameboyColor reports whether the header declares any CGB support.
func (h *Header) GameboyColor() bool {
	return h.Mode == ModeSupportsCGB || h.Mode == ModeCGBOnly
}

// ROMHash returns the xxhash64 digest of the whole ROM image, a
// fingerprint that does not rely on the (often blank or duplicated)
// cartridge title.
func (h *Header) ROMHash() uint64 {
	return h.romHash
}

func (h *Header) String() string {
	return fmt.Sprintf("%s (type %02X, ROM %dKiB, RAM %dKiB)", h.Title, h.CartridgeType, h.ROMSize/1024, h.RAMSize/1024)
}
