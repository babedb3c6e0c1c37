package hw

import "nescore/ines"

// Cartridge is the view the bus and the PPU have of the inserted cartridge.
// The boolean results report whether the cartridge claimed the address.
type Cartridge interface {
	CPURead(addr uint16) (uint8, bool)
	CPUWrite(addr uint16, val uint8) bool

	PPURead(addr uint16) (uint8, bool)
	PPUPeek(addr uint16) (uint8, bool)
	PPUWrite(addr uint16, val uint8) bool

	// Mirroring returns the current nametable mirroring.
	Mirroring() ines.NTMirroring
}
