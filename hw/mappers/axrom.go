package mappers

import "nescore/ines"

// AxROM: 32 KB switchable PRG bank, single-screen mirroring selected by
// software.
type axrom struct {
	prgbank uint8
	screenB bool
}

func (a *axrom) write(val uint8) {
	// 7  bit  0
	// ---- ----
	// xxxM xPPP
	//    |  |||
	//    |  +++- Select 32 KB PRG ROM bank for CPU $8000-$FFFF
	//    +------ Select 1 KB VRAM page for all 4 nametables
	a.prgbank = val & 0x07
	prev := a.screenB
	a.screenB = val&0x10 != 0
	if prev != a.screenB {
		modMapper.DebugZ("select NT mirroring").String("mapper", "AxROM").Stringer("new", a.mirroring()).End()
	}
}

func (a *axrom) mirroring() ines.NTMirroring {
	if a.screenB {
		return ines.OnlyBScreen
	}
	return ines.OnlyAScreen
}
