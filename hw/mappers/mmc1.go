package mappers

import "nescore/ines"

// MMC1 registers are loaded serially, one bit per write, through a 5-bit
// shift register.
//
//	$8000-$9FFF  control   [...C PPMM]
//	$A000-$BFFF  CHR bank 0
//	$C000-$DFFF  CHR bank 1
//	$E000-$FFFF  PRG bank  [...W PPPP]
type mmc1 struct {
	// shift holds the partially loaded register value. It is initialised
	// with a marker bit at bit 4; the load completes when that marker is
	// shifted out.
	shift uint8

	ctrl     uint8
	chrbank0 uint8
	chrbank1 uint8
	prgbank  uint8
}

const mmc1ShiftReset = 0x10

func (m *mmc1) reset() {
	// On powerup, bits 2,3 of control are set: $8000 is switchable and $C000
	// is fixed to the last bank.
	*m = mmc1{shift: mmc1ShiftReset, ctrl: 0x1C}
}

func (m *mmc1) write(addr uint16, val uint8) {
	if val&0x80 != 0 {
		// Reset the shift register and lock the last PRG bank at $C000,
		// other control bits are unchanged.
		m.shift = mmc1ShiftReset
		m.ctrl |= 0x0C
		modMapper.DebugZ("shift register reset").String("mapper", "MMC1").End()
		return
	}

	done := m.shift&1 != 0
	m.shift = m.shift>>1 | (val&1)<<4
	if !done {
		return
	}

	m.writeReg(addr, m.shift)
	m.shift = mmc1ShiftReset
}

func (m *mmc1) writeReg(addr uint16, val uint8) {
	switch (addr >> 13) & 3 {
	case 0:
		m.ctrl = val & 0x1F
		modMapper.DebugZ("write CTRL reg").String("mapper", "MMC1").
			Uint8("prgmode", m.prgmode()).
			Uint8("chrmode", m.ctrl>>4).
			Stringer("mirroring", m.mirroring()).
			End()
	case 1:
		m.chrbank0 = val & 0x1F
		modMapper.DebugZ("write CHR0 reg").String("mapper", "MMC1").Uint8("val", val).End()
	case 2:
		m.chrbank1 = val & 0x1F
		modMapper.DebugZ("write CHR1 reg").String("mapper", "MMC1").Uint8("val", val).End()
	case 3:
		// Bit 4 (WRAM disable) is ignored, PRG RAM is always enabled.
		m.prgbank = val & 0x0F
		modMapper.DebugZ("write PRG reg").String("mapper", "MMC1").Uint8("val", val).End()
	}
}

func (m *mmc1) prgmode() uint8 { return (m.ctrl >> 2) & 3 }

func (m *mmc1) mirroring() ines.NTMirroring {
	switch m.ctrl & 3 {
	case 0:
		return ines.OnlyAScreen
	case 1:
		return ines.OnlyBScreen
	case 2:
		return ines.VertMirroring
	}
	return ines.HorzMirroring
}

func (m *mmc1) mapPRG(mp *Mapper, addr uint16) uint32 {
	switch m.prgmode() {
	case 0, 1:
		// 32KB mode, ignore low bit of bank number.
		return mp.prg(0x8000, int(m.prgbank&0x0E)>>1, addr)
	case 2:
		// First bank fixed at $8000, switch $C000.
		if addr < 0xC000 {
			return mp.prg(0x4000, 0, addr)
		}
		return mp.prg(0x4000, int(m.prgbank), addr)
	}
	// Switch $8000, last bank fixed at $C000.
	if addr < 0xC000 {
		return mp.prg(0x4000, int(m.prgbank), addr)
	}
	return mp.prg(0x4000, -1, addr)
}

func (m *mmc1) mapCHR(mp *Mapper, addr uint16) uint32 {
	if m.ctrl&0x10 == 0 {
		// 8KB mode, ignore low bit of bank number.
		return mp.chr(0x2000, int(m.chrbank0&0x1E)>>1, addr)
	}
	if addr < 0x1000 {
		return mp.chr(0x1000, int(m.chrbank0), addr)
	}
	return mp.chr(0x1000, int(m.chrbank1), addr)
}
