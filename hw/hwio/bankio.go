package hwio

// BankIO8 is an 8-bit data bus, or a device attached to one.
type BankIO8 interface {
	// Read8 reads the byte at addr. With peek set the read has no side
	// effect, for the disassembler and the tracer.
	Read8(addr uint16, peek bool) uint8
	Write8(addr uint16, val uint8)
}

// Read16 reads a little-endian word at addr.
func Read16(b BankIO8, addr uint16) uint16 {
	return uint16(b.Read8(addr, false)) | uint16(b.Read8(addr+1, false))<<8
}

// Write16 writes a little-endian word at addr.
func Write16(b BankIO8, addr uint16, val uint16) {
	b.Write8(addr, uint8(val))
	b.Write8(addr+1, uint8(val>>8))
}
