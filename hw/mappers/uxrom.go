package mappers

// UxROM: 16 KB switchable PRG bank at $8000, last bank fixed at $C000, 8 KB
// of fixed CHR.
type uxrom struct {
	prgbank uint8
}

func (u *uxrom) write(val uint8) {
	// 7  bit  0
	// ---- ----
	// xxxx pPPP
	//      ||||
	//      ++++- Select 16 KB PRG ROM bank for CPU $8000-$BFFF
	//            (UNROM uses bits 2-0; UOROM uses bits 3-0)
	prev := u.prgbank
	u.prgbank = val & 0x0F
	if prev != u.prgbank {
		modMapper.DebugZ("PRG bank switch").String("mapper", "UxROM").Uint8("prev", prev).Uint8("new", u.prgbank).End()
	}
}

func (u *uxrom) mapPRG(m *Mapper, addr uint16) uint32 {
	if addr < 0xC000 {
		return m.prg(0x4000, int(u.prgbank), addr)
	}
	return m.prg(0x4000, -1, addr)
}
