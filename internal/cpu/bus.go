package cpu

// Bus is the memory-mapped view of the rest of the machine that the CPU
// needs in order to fetch, execute and dispatch interrupts. The owner of
// the address space (internal/memory.Memory) implements it; the CPU
// package never imports memory directly, which keeps the dependency
// pointing one way (gameboy -> cpu, gameboy -> memory).
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	// Speed returns the number of master clocks per M-cycle: 4 in Normal
	// speed, 2 in Double speed (CGB only).
	Speed() uint8

	// TrySpeedSwitch is called when STOP is executed. If a CGB speed
	// switch is armed (KEY1 bit 0), it flips Normal<->Double, clears the
	// arm bit, and returns true.
	TrySpeedSwitch() bool
}
