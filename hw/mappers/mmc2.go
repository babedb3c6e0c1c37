package mappers

import "nescore/ines"

// MMC2 (PxROM) switches CHR banks when the PPU fetches specific tiles,
// which allows mid-scanline CHR swaps.
//
//	$A000-$AFFF  PRG bank select, 8KB at $8000
//	$B000-$BFFF  CHR bank $0000 when latch 0 is $FD
//	$C000-$CFFF  CHR bank $0000 when latch 0 is $FE
//	$D000-$DFFF  CHR bank $1000 when latch 1 is $FD
//	$E000-$EFFF  CHR bank $1000 when latch 1 is $FE
//	$F000-$FFFF  mirroring (0: vertical; 1: horizontal)
//
// $A000-$FFFF PRG is fixed to the last three 8KB banks.
type mmc2 struct {
	prgbank uint8

	chrFD0000 uint8
	chrFE0000 uint8
	chrFD1000 uint8
	chrFE1000 uint8

	// Latches are false for $FD and true for $FE.
	latch0 bool
	latch1 bool

	horizontal bool
	mirrorSet  bool
}

func (m *mmc2) write(addr uint16, val uint8) {
	switch addr & 0xF000 {
	case 0xA000:
		m.prgbank = val & 0x0F
	case 0xB000:
		m.chrFD0000 = val & 0x1F
	case 0xC000:
		m.chrFE0000 = val & 0x1F
	case 0xD000:
		m.chrFD1000 = val & 0x1F
	case 0xE000:
		m.chrFE1000 = val & 0x1F
	case 0xF000:
		m.horizontal = val&1 != 0
		m.mirrorSet = true
	default:
		return
	}
	modMapper.DebugZ("register write").String("mapper", "MMC2").Hex16("addr", addr).Uint8("val", val).End()
}

func (m *mmc2) mapPRG(mp *Mapper, addr uint16) uint32 {
	switch {
	case addr < 0xA000:
		return mp.prg(0x2000, int(m.prgbank), addr)
	case addr < 0xC000:
		return mp.prg(0x2000, -3, addr)
	case addr < 0xE000:
		return mp.prg(0x2000, -2, addr)
	}
	return mp.prg(0x2000, -1, addr)
}

func (m *mmc2) mapCHR(mp *Mapper, addr uint16) uint32 {
	var bank uint8
	if addr < 0x1000 {
		bank = m.chrFD0000
		if m.latch0 {
			bank = m.chrFE0000
		}
	} else {
		bank = m.chrFD1000
		if m.latch1 {
			bank = m.chrFE1000
		}
	}
	return mp.chr(0x1000, int(bank), addr)
}

// updateLatches flips the CHR latches after the PPU fetched from one of the
// trigger addresses. The new bank is only visible to subsequent fetches.
func (m *mmc2) updateLatches(addr uint16) {
	switch {
	case addr == 0x0FD8:
		m.latch0 = false
	case addr == 0x0FE8:
		m.latch0 = true
	case addr >= 0x1FD8 && addr <= 0x1FDF:
		m.latch1 = false
	case addr >= 0x1FE8 && addr <= 0x1FEF:
		m.latch1 = true
	}
}

// mirroring is only reported once software selected it, the header
// mirroring applies until then.
func (m *mmc2) mirroring() (ines.NTMirroring, bool) {
	if !m.mirrorSet {
		return 0, false
	}
	if m.horizontal {
		return ines.HorzMirroring, true
	}
	return ines.VertMirroring, true
}
