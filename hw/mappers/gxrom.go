package mappers

// GxROM: 32 KB switchable PRG bank and 8 KB switchable CHR bank, both
// selected by the same register.
type gxrom struct {
	prgbank uint8
	chrbank uint8
}

func (g *gxrom) write(val uint8) {
	// 7  bit  0
	// ---- ----
	// xxPP xxCC
	//   ||   ||
	//   ||   ++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	//   ++------ Select 32 KB PRG ROM bank for CPU $8000-$FFFF
	g.chrbank = val & 0x3
	g.prgbank = (val >> 4) & 0x3
	modMapper.DebugZ("bank switch").String("mapper", "GxROM").Uint8("prg", g.prgbank).Uint8("chr", g.chrbank).End()
}
