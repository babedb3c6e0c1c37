package hwio

// Reg8 is an 8-bit hardware register.
type Reg8 struct {
	Name  string
	Value uint8
}

// GetBit reports whether bit n is set.
func (reg *Reg8) GetBit(n uint) bool { return reg.Value&(1<<n) != 0 }

func (reg *Reg8) SetBit(n uint)        { reg.Value |= 1 << n }
func (reg *Reg8) ClearBit(n uint)      { reg.Value &^= 1 << n }
func (reg *Reg8) ClearBits(mask uint8) { reg.Value &^= mask }
