package mappers

// CNROM: fixed PRG (like NROM), 8 KB switchable CHR bank.
type cnrom struct {
	chrbank uint8
}

func (c *cnrom) write(val uint8) {
	// 7  bit  0
	// ---- ----
	// cccc ccCC
	// |||| ||||
	// ++++-++++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	// CNROM only uses lowest 2 bits
	prev := c.chrbank
	c.chrbank = val & 0b11
	if prev != c.chrbank {
		modMapper.DebugZ("CHR bank switch").String("mapper", "CNROM").Uint8("prev", prev).Uint8("new", c.chrbank).End()
	}
}
