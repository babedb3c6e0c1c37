package hw

// loopy is the PPU internal VRAM address / scroll register.
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X scroll
//	||| || +++++-------- coarse Y scroll
//	||| ++-------------- nametable select
//	+++----------------- fine Y scroll
type loopy uint16

func (l loopy) coarsex() uint8   { return uint8(l & 0x1F) }
func (l loopy) coarsey() uint8   { return uint8(l>>5) & 0x1F }
func (l loopy) nametable() uint8 { return uint8(l>>10) & 0x03 }
func (l loopy) finey() uint8     { return uint8(l>>12) & 0x07 }

func (l loopy) low() uint8  { return uint8(l) }
func (l loopy) high() uint8 { return uint8(l>>8) & 0x7F }

// addr returns the 14-bit VRAM address.
func (l loopy) addr() uint16 { return uint16(l) & 0x3FFF }
func (l loopy) val() uint16  { return uint16(l) & 0x7FFF }

func (l *loopy) setNametable(nt uint8) {
	*l = *l&^0x0C00 | loopy(nt&0x03)<<10
}

// incrementX moves to the next tile horizontally, switching to the
// horizontally adjacent nametable past the last column.
func (l *loopy) incrementX() {
	if l.coarsex() == 31 {
		*l &^= 0x001F
		*l ^= 0x0400
	} else {
		*l++
	}
}

// incrementY moves to the next pixel row, switching to the vertically
// adjacent nametable past row 29.
func (l *loopy) incrementY() {
	if l.finey() < 7 {
		*l += 0x1000
		return
	}

	*l &^= 0x7000
	y := l.coarsey()
	switch y {
	case 29:
		y = 0
		*l ^= 0x0800
	case 31:
		// Coarse Y can be set out of bounds, it then wraps without
		// switching nametable.
		y = 0
	default:
		y++
	}
	*l = *l&^0x03E0 | loopy(y)<<5
}

// copyHorz copies the horizontal position bits from t.
func (l *loopy) copyHorz(t loopy) {
	const mask = 0x041F
	*l = *l&^mask | t&mask
}

// copyVert copies the vertical position bits from t.
func (l *loopy) copyVert(t loopy) {
	const mask = 0x7BE0
	*l = *l&^mask | t&mask
}
