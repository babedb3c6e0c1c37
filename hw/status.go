package hw

// P is the processor status register.
type P uint8

const (
	Carry = 1 << iota
	Zero
	Interrupt
	Decimal
	Break
	Unused
	Overflow
	Negative
)

// String shows each flag, from bit 7 to 0, uppercase when set.
func (p P) String() string {
	const names = "NVUBDIZC"

	s := []byte(names)
	for i := range s {
		if uint8(p)&(0x80>>i) == 0 {
			s[i] += 'a' - 'A'
		}
	}
	return string(s)
}

func (p *P) setFlags(flags uint8) {
	*p |= P(flags)
}

func (p *P) clearFlags(flags uint8) {
	*p &= ^P(flags)
}

func (p *P) writeFlag(flag uint8, b bool) {
	if b {
		p.setFlags(flag)
	} else {
		p.clearFlags(flag)
	}
}

func (p P) hasFlag(flag uint8) bool {
	return uint8(p)&flag == flag
}

func (p P) carry() uint8 {
	return uint8(p) & Carry
}

// checkNZ sets Z if v is 0 and N if bit 7 of v is set, clears them otherwise.
func (p *P) checkNZ(v uint8) {
	p.writeFlag(Zero, v == 0)
	p.writeFlag(Negative, v&0x80 != 0)
}

func (p *P) checkCV(x, y uint8, sum uint16) {
	// forward carry or unsigned overflow.
	p.writeFlag(Carry, sum > 0xFF)

	// signed overflow, can only happen if the sign of the sum differs
	// from that of both operands.
	v := (uint16(x) ^ sum) & (uint16(y) ^ sum) & 0x80
	p.writeFlag(Overflow, v != 0)
}
