// Package memory implements the full address-space decode (C8):
// SPEC_FULL.md §4.6. It owns the cartridge, GPU, timer, joypad and
// optional SGB decoder, and is the concrete cpu.Bus implementation the
// CPU package is built against.
package memory

import (
	"github.com/arcovane/gbcore/internal/cartridge"
	"github.com/arcovane/gbcore/internal/interrupts"
	"github.com/arcovane/gbcore/internal/joypad"
	"github.com/arcovane/gbcore/internal/ppu"
	"github.com/arcovane/gbcore/internal/sgb"
	"github.com/arcovane/gbcore/internal/timer"
)

// Memory is the full 64KiB address space, dispatching each region to
// its owning component.
type Memory struct {
	Cart   *cartridge.Cartridge
	GPU    *ppu.PPU
	Timer  *timer.Controller
	Joypad *joypad.State
	IRQ    *interrupts.Service
	SGB    *sgb.Decoder // nil unless running in SGB mode

	wram     [8][0x1000]byte
	wramBank uint8
	hram     [0x7F]byte

	isCGB bool
	key1  uint8 // bit 0: switch armed, bit 7: current speed (read-only)
	speed uint8 // master clocks per M-cycle: 4 in Normal speed, 2 in Double speed

	soundOn bool // NR52 bit 7 latch; sound synthesis itself is a Non-goal
}

// New wires a fresh address space around an already-loaded cartridge.
func New(cart *cartridge.Cartridge, isCGB, isSGB bool) *Memory {
	m := &Memory{
		Cart:   cart,
		GPU:    ppu.New(isCGB),
		Timer:  timer.New(),
		Joypad: joypad.New(),
		IRQ:    interrupts.NewService(),
		isCGB:  isCGB,
		speed:  4,
	}
	m.wramBank = 1
	m.GPU.AttachDMASource(m.Read)
	if isSGB {
		m.SGB = sgb.New()
		m.GPU.SetSGBBridge(func(tileX, tileY int) [4]ppu.Color {
			raw := m.SGB.PaletteForBlock(tileX, tileY)
			var out [4]ppu.Color
			for i, c := range raw {
				out[i] = ppu.Color(c)
			}
			return out
		})
		m.SGB.SetJoypadSelector(&sgb.JoypadSelector{
			Cycle:      m.Joypad.CycleSelector,
			SetPlayers: m.Joypad.SetPlayers,
		})
		m.SGB.SetVRAMSource(func() sgb.VRAMSnapshot {
			snap := sgb.VRAMSnapshot{Plane: m.GPU.VRAM[0][:], BGMapBase: 0x1800}
			if m.GPU.LCDC&0x08 != 0 {
				snap.BGMapBase = 0x1C00
			}
			unsigned := m.GPU.LCDC&0x10 != 0
			snap.TileIndexOf = func(raw uint8) int {
				if unsigned {
					return int(raw)
				}
				return 256 + int(int8(raw))
			}
			return snap
		})
	}
	return m
}

// Speed implements cpu.Bus: 4 master clocks per M-cycle at normal
// speed, 2 in CGB double speed.
func (m *Memory) Speed() uint8 { return m.speed }

// TrySpeedSwitch implements cpu.Bus: consumes an armed KEY1 request
// when STOP is executed, per spec.md §4.9's CGB double-speed handoff.
func (m *Memory) TrySpeedSwitch() bool {
	if m.key1&0x01 == 0 {
		return false
	}
	if m.speed == 4 {
		m.speed = 2
	} else {
		m.speed = 4
	}
	m.key1 &^= 0x01
	return true
}

// Step advances every cycle-driven component by masterCycles and
// requests any interrupts that become pending as a result.
func (m *Memory) Step(masterCycles uint32) {
	m.Timer.Step(masterCycles, m.IRQ)
	m.GPU.Step(masterCycles, m.IRQ)
}

func (m *Memory) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		return m.Cart.MBC.ReadROM(addr)
	case addr <= 0x9FFF:
		return m.GPU.ReadVRAM(addr - 0x8000)
	case addr <= 0xBFFF:
		return m.Cart.MBC.ReadRAM(addr)
	case addr <= 0xCFFF:
		return m.wram[0][addr-0xC000]
	case addr <= 0xDFFF:
		return m.wram[m.svbkBank()][addr-0xD000]
	case addr <= 0xFDFF: // echo of 0xC000-0xDDFF
		return m.Read(addr - 0x2000)
	case addr <= 0xFE9F:
		return m.GPU.ReadOAM(addr - 0xFE00)
	case addr <= 0xFEFF:
		return 0xFF
	case addr == 0xFF00:
		return m.Joypad.Read()
	case addr == 0xFF01, addr == 0xFF02: // serial: link emulation is a Non-goal
		return 0xFF
	case addr >= 0xFF04 && addr <= 0xFF07:
		return m.Timer.Read(addr)
	case addr == 0xFF0F:
		return m.IRQ.Read(addr)
	case addr == 0xFF26:
		v := uint8(0x70) // unused bits read high
		if m.soundOn {
			v |= 0x80
		}
		return v
	case addr >= 0xFF10 && addr <= 0xFF3F: // sound: synthesis is a Non-goal
		return 0xFF
	case addr >= 0xFF40 && addr <= 0xFF45:
		return m.GPU.Read(addr)
	case addr == 0xFF46:
		return m.GPU.Read(addr)
	case addr >= 0xFF47 && addr <= 0xFF4B:
		return m.GPU.Read(addr)
	case addr == 0xFF4D:
		if !m.isCGB {
			return 0xFF
		}
		v := m.key1 & 0x01
		if m.speed == 2 {
			v |= 0x80
		}
		return v | 0x7E
	case addr == 0xFF4F:
		return m.GPU.Read(addr)
	case addr >= 0xFF51 && addr <= 0xFF55:
		return m.GPU.Read(addr)
	case addr >= 0xFF68 && addr <= 0xFF6B:
		return m.GPU.Read(addr)
	case addr == 0xFF70:
		if !m.isCGB {
			return 0xFF
		}
		return m.wramBank | 0xF8
	case addr <= 0xFFFE:
		return m.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return m.IRQ.Read(addr)
	}
	return 0xFF
}

func (m *Memory) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x7FFF:
		m.Cart.MBC.WriteROM(addr, value)
	case addr <= 0x9FFF:
		m.GPU.WriteVRAM(addr-0x8000, value)
	case addr <= 0xBFFF:
		m.Cart.MBC.WriteRAM(addr, value)
	case addr <= 0xCFFF:
		m.wram[0][addr-0xC000] = value
	case addr <= 0xDFFF:
		m.wram[m.svbkBank()][addr-0xD000] = value
	case addr <= 0xFDFF:
		m.Write(addr-0x2000, value)
	case addr <= 0xFE9F:
		m.GPU.WriteOAM(addr-0xFE00, value)
	case addr <= 0xFEFF:
		// unusable region, writes are dropped
	case addr == 0xFF00:
		m.Joypad.Write(value)
		if m.SGB != nil {
			m.SGB.Receive((value >> 4) & 0x03)
		}
	case addr == 0xFF01, addr == 0xFF02:
		// serial: link emulation is a Non-goal
	case addr >= 0xFF04 && addr <= 0xFF07:
		m.Timer.Write(addr, value)
	case addr == 0xFF0F:
		m.IRQ.Write(addr, value)
	case addr == 0xFF26:
		m.soundOn = value&0x80 != 0
	case addr >= 0xFF10 && addr <= 0xFF3F:
		// sound: synthesis is a Non-goal
	case addr >= 0xFF40 && addr <= 0xFF45:
		m.GPU.Write(addr, value)
	case addr == 0xFF46:
		m.GPU.Write(addr, value)
	case addr >= 0xFF47 && addr <= 0xFF4B:
		m.GPU.Write(addr, value)
	case addr == 0xFF4D:
		if m.isCGB {
			m.key1 = m.key1&0xFE | value&0x01
		}
	case addr == 0xFF4F:
		m.GPU.Write(addr, value)
	case addr >= 0xFF51 && addr <= 0xFF55:
		m.GPU.Write(addr, value)
	case addr >= 0xFF68 && addr <= 0xFF6B:
		m.GPU.Write(addr, value)
	case addr == 0xFF70:
		if m.isCGB {
			bank := value & 0x07
			if bank == 0 {
				bank = 1
			}
			m.wramBank = bank
		}
	case addr <= 0xFFFE:
		m.hram[addr-0xFF80] = value
	case addr == 0xFFFF:
		m.IRQ.Write(addr, value)
	}
}

// svbkBank returns the effective D000-DFFF bank: fixed at 1 on DMG,
// SVBK-selected (1-7) on CGB.
func (m *Memory) svbkBank() uint8 {
	if !m.isCGB {
		return 1
	}
	return m.wramBank
}
