// Package cartridge parses the ROM header and selects the memory bank
// controller (C8's upstream half, §4.6 / §4.10): SPEC_FULL.md §3, §4.6.
package cartridge

import "fmt"

// Cartridge pairs the parsed header with its selected bank controller.
type Cartridge struct {
	Header Header
	MBC    MBC
}

// Load parses rom's header and constructs the matching MBC. It is the
// one fallible entry point in the core: every other component either
// cannot fail or fails by panicking on a contract violation a caller
// controls (SPEC_FULL.md §4.10). An unrecognized cartridge type is a
// legitimate runtime condition — a user can hand the emulator any
// file — so it is reported as an error, not a panic.
func Load(rom []byte) (*Cartridge, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	mbc, err := newMBC(rom, header)
	if err != nil {
		return nil, err
	}

	return &Cartridge{Header: header, MBC: mbc}, nil
}

func newMBC(rom []byte, header Header) (MBC, error) {
	switch header.CartridgeType {
	case TypeROM, TypeROMRAM, TypeROMRAMBattery:
		return newROMOnly(rom, header.RAMSize), nil
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		return newMBC1(rom, header.RAMSize), nil
	case TypeMBC2, TypeMBC2Battery:
		return newMBC2(rom), nil
	case TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBattery, TypeMBC3TimerBattery, TypeMBC3TimerRAMBatt:
		return newMBC3(rom, header.RAMSize), nil
	case TypeMBC5, TypeMBC5RAM, TypeMBC5RAMBattery, TypeMBC5Rumble, TypeMBC5RumbleRAM, TypeMBC5RumbleRAMBatt:
		hasRAM := header.CartridgeType != TypeMBC5 && header.CartridgeType != TypeMBC5Rumble
		return newMBC5(rom, header.RAMSize, hasRAM), nil
	}
	return nil, fmt.Errorf("cartridge: unsupported cartridge type %02X", uint8(header.CartridgeType))
}
