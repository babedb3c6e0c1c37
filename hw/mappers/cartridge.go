package mappers

import (
	"errors"
	"fmt"

	"nescore/ines"
)

// ErrUnsupportedMapper is returned when loading a rom using a mapper that is
// not implemented.
var ErrUnsupportedMapper = errors.New("unsupported mapper")

// A Cartridge owns the PRG and CHR memories of a game and delegates address
// translation to its mapper.
type Cartridge struct {
	PRG    []byte
	CHR    []byte
	PRGRAM [0x2000]byte

	chrRAM   bool
	mapperID uint16
	mapper   Mapper

	hdrMirroring ines.NTMirroring // mirroring from the rom header
	mirroring    ines.NTMirroring // current mirroring
}

// New creates the cartridge for a rom. A rom using an unsupported mapper
// produces no cartridge.
func New(rom *ines.Rom) (*Cartridge, error) {
	desc, ok := All[rom.Mapper()]
	if !ok {
		modMapper.ErrorZ("unsupported mapper").Uint16("id", rom.Mapper()).End()
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, rom.Mapper())
	}
	if len(rom.PRG) == 0 {
		return nil, fmt.Errorf("empty PRG ROM")
	}

	cart := &Cartridge{
		PRG:          rom.PRG,
		CHR:          rom.CHR,
		mapperID:     rom.Mapper(),
		hdrMirroring: rom.Mirroring(),
	}
	if rom.CHRBanks() == 0 || len(rom.CHR) == 0 {
		cart.CHR = make([]byte, 0x2000)
		cart.chrRAM = true
	}
	cart.mapper = newMapper(desc, len(cart.PRG), len(cart.CHR), cart.chrRAM)
	cart.updateMirroring()

	modMapper.InfoZ("cartridge loaded").
		String("mapper", desc.Name).
		Int("prg", len(cart.PRG)).
		Int("chr", len(cart.CHR)).
		Bool("chrram", cart.chrRAM).
		Stringer("mirroring", cart.mirroring).
		End()
	return cart, nil
}

// Reset puts the mapper back in its power-up state. PRG RAM is preserved.
func (c *Cartridge) Reset() {
	c.mapper.Reset()
	c.updateMirroring()
}

func (c *Cartridge) MapperID() uint16   { return c.mapperID }
func (c *Cartridge) MapperName() string { return c.mapper.Name() }
func (c *Cartridge) HasCHRRAM() bool    { return c.chrRAM }

// Mapper gives access to the cartridge mapper.
func (c *Cartridge) Mapper() *Mapper { return &c.mapper }

// Mirroring returns the current nametable mirroring, taking into account
// the mapper override, if any.
func (c *Cartridge) Mirroring() ines.NTMirroring { return c.mirroring }

func (c *Cartridge) updateMirroring() {
	c.mirroring = c.hdrMirroring
	if c.hdrMirroring == ines.FourScreen {
		return
	}
	if m, ok := c.mapper.Mirroring(); ok {
		c.mirroring = m
	}
}

// CPURead reads from the cartridge address space. The boolean indicates
// whether the cartridge claimed the address.
func (c *Cartridge) CPURead(addr uint16) (uint8, bool) {
	if addr >= 0x6000 && addr < 0x8000 {
		return c.PRGRAM[addr&0x1FFF], true
	}
	if off, ok := c.mapper.MapCPURead(addr); ok {
		return c.PRG[off], true
	}
	return 0, false
}

// CPUWrite writes to the cartridge address space. The boolean indicates
// whether the cartridge claimed the address. PRG ROM is never modified.
func (c *Cartridge) CPUWrite(addr uint16, val uint8) bool {
	if addr >= 0x6000 && addr < 0x8000 {
		c.PRGRAM[addr&0x1FFF] = val
		return true
	}
	off, ok := c.mapper.MapCPUWrite(addr, val)
	if !ok {
		return false
	}
	if off == NoAddr {
		c.updateMirroring()
	}
	return true
}

// PPURead reads the pattern tables. It may update mapper state (MMC2
// latches), use PPUPeek for side-effect free reads.
func (c *Cartridge) PPURead(addr uint16) (uint8, bool) {
	val, ok := c.PPUPeek(addr)
	if ok {
		c.mapper.OnPPURead(addr)
	}
	return val, ok
}

// PPUPeek reads the pattern tables without side effects.
func (c *Cartridge) PPUPeek(addr uint16) (uint8, bool) {
	off, ok := c.mapper.MapPPURead(addr)
	if !ok {
		return 0, false
	}
	return c.CHR[off], true
}

// PPUWrite writes to CHR RAM. Writes to CHR ROM are not claimed.
func (c *Cartridge) PPUWrite(addr uint16, val uint8) bool {
	off, ok := c.mapper.MapPPUWrite(addr)
	if !ok {
		return false
	}
	c.CHR[off] = val
	return true
}
