package gameboy

import (
	"testing"

	"github.com/arcovane/gbcore/internal/joypad"
	"github.com/arcovane/gbcore/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestROM(cgbFlag byte) []byte {
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00 // ROM only, no RAM
	rom[0x143] = cgbFlag
	return rom
}

// newTestOpts always silences logging so test output stays readable.
func newTestOpts(opts ...Opt) []Opt {
	return append([]Opt{WithLogger(log.NewNullLogger())}, opts...)
}

func TestNew_PowersOnDMGPostBootState(t *testing.T) {
	m, err := New(newTestROM(0x00), newTestOpts(WithTarget(TargetDMG))...)
	require.NoError(t, err)

	r := &m.CPU.Registers
	assert.Equal(t, uint16(0x01B0), r.AF())
	assert.Equal(t, uint16(0x0013), r.BC())
	assert.Equal(t, uint16(0x00D8), r.DE())
	assert.Equal(t, uint16(0x014D), r.HL())
	assert.Equal(t, uint16(0xFFFE), r.SP)
	assert.Equal(t, uint16(0x0100), r.PC)
	assert.False(t, r.IME)

	assert.Equal(t, uint8(0xB1), m.Memory.GPU.LCDC)
	assert.Equal(t, uint8(0xFC), m.Memory.GPU.BGP)
}

func TestNew_CGBTargetStampsAccumulator(t *testing.T) {
	m, err := New(newTestROM(0x80), newTestOpts(WithTarget(TargetCGB))...)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x11), m.CPU.Registers.A)
}

func TestNew_AutoTargetFollowsHeaderCGBFlag(t *testing.T) {
	m, err := New(newTestROM(0x80), newTestOpts()...) // TargetAuto default
	require.NoError(t, err)
	assert.Equal(t, uint8(0x11), m.CPU.Registers.A, "header declares CGB support, auto-detect should pick CGB")
}

func TestNew_InvalidCartridgeIsError(t *testing.T) {
	_, err := New(make([]byte, 0x10), newTestOpts()...) // too short for a header
	assert.Error(t, err)
}

func TestFrame_AdvancesLYAcrossTheScreen(t *testing.T) {
	m, err := New(newTestROM(0x00), newTestOpts(WithTarget(TargetDMG))...)
	require.NoError(t, err)
	fb := m.Frame()
	assert.NotNil(t, fb)
	assert.Equal(t, 0, int(m.Memory.GPU.LY), "LY should land back on line 0 after a full frame budget")
}

func TestFrame_IncrementsFramesCompletedAndCarriesOverBudget(t *testing.T) {
	m, err := New(newTestROM(0x00), newTestOpts(WithTarget(TargetDMG))...)
	require.NoError(t, err)

	m.Frame()
	assert.EqualValues(t, 1, m.FramesCompleted())
	firstOvershoot := m.cyclesBudget
	assert.LessOrEqual(t, firstOvershoot, int32(0), "budget should never be left positive after a frame finishes")

	m.Frame()
	assert.EqualValues(t, 2, m.FramesCompleted())
	assert.Equal(t, firstOvershoot, m.cyclesBudget, "a fixed instruction stream should overshoot by the same amount every frame")
}

func TestKeyDownKeyUp_ForwardsToJoypad(t *testing.T) {
	m, err := New(newTestROM(0x00), newTestOpts(WithTarget(TargetDMG))...)
	require.NoError(t, err)
	m.Memory.Joypad.Write(0x10) // select action buttons
	m.KeyDown(joypad.ButtonA)
	assert.NotZero(t, m.Memory.IRQ.Flag, "expected a Joypad interrupt requested on keydown")
	m.KeyUp(joypad.ButtonA)
	assert.NotZero(t, m.Memory.Joypad.Read()&0x01, "expected A bit to read high again after release")
}
