package hwio

// Mem is a linear memory area, mirrored every len(Data) bytes. Data length
// must be a power of 2.
type Mem struct {
	Name string // name of the memory area (for debugging)
	Data []byte // actual memory buffer
}

// NewMem allocates a memory area of the given size.
func NewMem(name string, size int) Mem {
	if size&(size-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return Mem{Name: name, Data: make([]byte, size)}
}

func (m *Mem) mask() uint16 {
	return uint16(len(m.Data) - 1)
}

func (m *Mem) Read8(addr uint16, _ bool) uint8 {
	return m.Data[addr&m.mask()]
}

func (m *Mem) Write8(addr uint16, val uint8) {
	m.Data[addr&m.mask()] = val
}

// Reset clears the whole memory area.
func (m *Mem) Reset() {
	clear(m.Data)
}
