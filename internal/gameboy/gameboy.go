// Package gameboy wires the CPU, Memory and their owned components
// into the frame loop (C9): SPEC_FULL.md §4.9. It is the only package
// that constructs a cpu.CPU against a concrete memory.Memory rather
// than the Bus interface.
package gameboy

import (
	"github.com/arcovane/gbcore/internal/cartridge"
	"github.com/arcovane/gbcore/internal/cpu"
	"github.com/arcovane/gbcore/internal/joypad"
	"github.com/arcovane/gbcore/internal/memory"
	"github.com/arcovane/gbcore/internal/ppu"
	"github.com/arcovane/gbcore/pkg/log"
)

// cyclesPerFrame is the master-clock budget of one 59.7Hz frame at
// normal speed (154 lines x 456 cycles), per spec.md §4.9.
const cyclesPerFrame = 70224

// Machine owns one running cartridge session: the CPU, the full
// address space, and the frame-stepping loop a host calls once per
// vsync.
type Machine struct {
	CPU    *cpu.CPU
	Memory *memory.Memory
	Logger log.Logger

	target Target

	cyclesBudget    int32  // master clocks left to run this frame; carries overshoot/deficit across calls
	framesCompleted uint64 // frames Frame has finished running
}

// New loads rom, selects the hardware target, and powers the machine
// on. Cartridge parsing is the only step that can fail.
func New(rom []byte, opts ...Opt) (*Machine, error) {
	cart, err := cartridge.Load(rom)
	if err != nil {
		return nil, err
	}

	m := &Machine{CPU: cpu.New(), Logger: log.New()}
	for _, opt := range opts {
		opt(m)
	}

	isCGB := m.target == TargetCGB || (m.target == TargetAuto && cart.Header.GameboyColor())
	isSGB := m.target == TargetSGB

	m.Memory = memory.New(cart, isCGB, isSGB)
	m.powerOn(isCGB)

	m.Logger.Infof("loaded %s", cart.Header.String())
	return m, nil
}

// powerOn stamps the post-boot-ROM register and I/O state a real
// DMG/CGB boot ROM leaves behind, per spec.md §8 scenario 1.
func (m *Machine) powerOn(isCGB bool) {
	r := &m.CPU.Registers
	r.SetAF(0x01B0)
	r.SetBC(0x0013)
	r.SetDE(0x00D8)
	r.SetHL(0x014D)
	r.SP = 0xFFFE
	r.PC = 0x0100
	r.IME = false

	mem := m.Memory
	mem.GPU.Write(0xFF40, 0xB1) // LCDC
	mem.GPU.Write(0xFF47, 0xFC) // BGP
	mem.IRQ.Write(0xFFFF, 0x00) // IE

	if isCGB {
		r.A = 0x11
	}
}

// Frame runs the machine until its cycle budget for the current frame is
// exhausted, returning the rendered background framebuffer. Each call
// adds a fixed 70224 master clocks to a persistent budget rather than
// resetting to zero: CPU instructions rarely land exactly on a frame
// boundary, so whatever the loop overshoots carries into the next call
// instead of being discarded. The budget itself is a fixed count of physical master
// clocks regardless of CPU speed mode: CGB double speed only changes how
// many master clocks one CPU M-cycle consumes (Bus.Speed(), 2 instead of
// 4), so CPU.Step already returns its cost in the same master-clock
// units PPU/Timer advance by.
func (m *Machine) Frame() *[ppu.ScreenWidth * ppu.ScreenHeight]ppu.Color {
	m.cyclesBudget += cyclesPerFrame
	for m.cyclesBudget > 0 {
		cycles := m.CPU.Step(m.Memory)
		m.Memory.Step(cycles)
		m.cyclesBudget -= int32(cycles)
	}
	m.framesCompleted++
	return &m.Memory.GPU.FrameBuffer
}

// FramesCompleted reports how many frames Frame has finished running.
func (m *Machine) FramesCompleted() uint64 {
	return m.framesCompleted
}

// KeyDown presses a button, raising the Joypad interrupt if selected.
func (m *Machine) KeyDown(b joypad.Button) {
	m.Memory.Joypad.Press(b, m.Memory.IRQ)
}

// KeyUp releases a button.
func (m *Machine) KeyUp(b joypad.Button) {
	m.Memory.Joypad.Release(b)
}
