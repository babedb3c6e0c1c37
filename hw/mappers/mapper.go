package mappers

import (
	"nescore/emu/log"
	"nescore/ines"
)

var modMapper = log.NewModule("mapper")

// Kind identifies the mapper chip of a cartridge.
type Kind uint8

const (
	KindNROM Kind = iota
	KindMMC1
	KindUxROM
	KindCNROM
	KindAxROM
	KindMMC2
	KindGxROM
)

// MapperDesc describes a supported mapper.
type MapperDesc struct {
	Name string
	Kind Kind
}

// All lists the supported mappers, by iNES mapper number.
var All = map[uint16]MapperDesc{
	0:  {Name: "NROM", Kind: KindNROM},
	1:  {Name: "MMC1", Kind: KindMMC1},
	2:  {Name: "UxROM", Kind: KindUxROM},
	3:  {Name: "CNROM", Kind: KindCNROM},
	7:  {Name: "AxROM", Kind: KindAxROM},
	9:  {Name: "MMC2", Kind: KindMMC2},
	66: {Name: "GxROM", Kind: KindGxROM},
}

// NoAddr is the address returned by MapCPUWrite when the write has been
// consumed by a mapper register and must not reach any physical storage.
const NoAddr = ^uint32(0)

// Mapper translates CPU and PPU addresses into offsets of the cartridge PRG
// and CHR memories. Only the register state of the variant selected by kind
// is meaningful.
type Mapper struct {
	desc MapperDesc

	prgSize uint32 // PRG ROM size in bytes
	chrSize uint32 // CHR ROM/RAM size in bytes
	chrRAM  bool

	mmc1  mmc1
	uxrom uxrom
	cnrom cnrom
	axrom axrom
	mmc2  mmc2
	gxrom gxrom
}

func newMapper(desc MapperDesc, prgSize, chrSize int, chrRAM bool) Mapper {
	m := Mapper{
		desc:    desc,
		prgSize: uint32(prgSize),
		chrSize: uint32(chrSize),
		chrRAM:  chrRAM,
	}
	m.Reset()
	return m
}

func (m *Mapper) Name() string { return m.desc.Name }

// Reset puts the mapper registers in their power-up state.
func (m *Mapper) Reset() {
	switch m.desc.Kind {
	case KindMMC1:
		m.mmc1.reset()
	case KindUxROM:
		m.uxrom = uxrom{}
	case KindCNROM:
		m.cnrom = cnrom{}
	case KindAxROM:
		m.axrom = axrom{}
	case KindMMC2:
		m.mmc2 = mmc2{}
	case KindGxROM:
		m.gxrom = gxrom{}
	}
}

// MapCPURead maps a CPU address to an offset into PRG ROM.
func (m *Mapper) MapCPURead(addr uint16) (uint32, bool) {
	if addr < 0x8000 {
		return 0, false
	}

	switch m.desc.Kind {
	case KindNROM, KindCNROM:
		return m.prg(0x8000, 0, addr), true
	case KindMMC1:
		return m.mmc1.mapPRG(m, addr), true
	case KindUxROM:
		return m.uxrom.mapPRG(m, addr), true
	case KindAxROM:
		return m.prg(0x8000, int(m.axrom.prgbank), addr), true
	case KindMMC2:
		return m.mmc2.mapPRG(m, addr), true
	case KindGxROM:
		return m.prg(0x8000, int(m.gxrom.prgbank), addr), true
	}
	return 0, false
}

// MapCPUWrite handles a CPU write. A write consumed by a mapper register
// returns (NoAddr, true).
func (m *Mapper) MapCPUWrite(addr uint16, val uint8) (uint32, bool) {
	if addr < 0x8000 {
		return 0, false
	}

	switch m.desc.Kind {
	case KindNROM:
		// No registers, PRG ROM can't be written.
		return 0, false
	case KindMMC1:
		m.mmc1.write(addr, val)
	case KindUxROM:
		m.uxrom.write(val)
	case KindCNROM:
		m.cnrom.write(val)
	case KindAxROM:
		m.axrom.write(val)
	case KindMMC2:
		m.mmc2.write(addr, val)
	case KindGxROM:
		m.gxrom.write(val)
	}
	return NoAddr, true
}

// MapPPURead maps a PPU address to an offset into CHR memory.
func (m *Mapper) MapPPURead(addr uint16) (uint32, bool) {
	if addr >= 0x2000 {
		return 0, false
	}

	switch m.desc.Kind {
	case KindNROM, KindUxROM, KindAxROM:
		return m.chr(0x2000, 0, addr), true
	case KindMMC1:
		return m.mmc1.mapCHR(m, addr), true
	case KindCNROM:
		return m.chr(0x2000, int(m.cnrom.chrbank), addr), true
	case KindMMC2:
		return m.mmc2.mapCHR(m, addr), true
	case KindGxROM:
		return m.chr(0x2000, int(m.gxrom.chrbank), addr), true
	}
	return 0, false
}

// MapPPUWrite maps a PPU address to an offset into CHR memory, only when
// the cartridge has CHR RAM.
func (m *Mapper) MapPPUWrite(addr uint16) (uint32, bool) {
	if addr >= 0x2000 || !m.chrRAM {
		return 0, false
	}
	return m.MapPPURead(addr)
}

// OnPPURead is called after the PPU fetched a byte from CHR memory. MMC2
// uses it to flip its CHR latches on specific tile fetches.
func (m *Mapper) OnPPURead(addr uint16) {
	if m.desc.Kind == KindMMC2 {
		m.mmc2.updateLatches(addr)
	}
}

// Mirroring returns the nametable mirroring selected by the mapper, if the
// mapper controls it.
func (m *Mapper) Mirroring() (ines.NTMirroring, bool) {
	switch m.desc.Kind {
	case KindMMC1:
		return m.mmc1.mirroring(), true
	case KindAxROM:
		return m.axrom.mirroring(), true
	case KindMMC2:
		return m.mmc2.mirroring()
	}
	return 0, false
}

// prg returns the offset in PRG ROM of addr, in the bank of the given size.
func (m *Mapper) prg(size uint32, bank int, addr uint16) uint32 {
	return bankOffset(m.prgSize, size, bank, addr)
}

// chr returns the offset in CHR memory of addr, in the bank of the given size.
func (m *Mapper) chr(size uint32, bank int, addr uint16) uint32 {
	return bankOffset(m.chrSize, size, bank, addr)
}

// bankOffset computes the offset of addr within the bank number 'bank' of
// 'size' bytes, in a memory of 'total' bytes. Bank numbers wrap around the
// number of banks and the result always lies within the memory.
func bankOffset(total, size uint32, bank int, addr uint16) uint32 {
	nbanks := max(total/size, 1)
	if bank < 0 {
		bank += int(nbanks)
	}
	off := (uint32(bank)%nbanks)*size + uint32(addr)&(size-1)
	return off % total
}
