package hw

import (
	"nescore/emu/log"
	"nescore/hw/apu"
	"nescore/hw/hwio"
)

// Bus connects the CPU to the RAM, the PPU and APU registers, the controller
// ports and the cartridge. It drives the master clock.
//
// The bus doesn't own the components it's connected to.
type Bus struct {
	RAM hwio.Mem

	cpu  *CPU
	ppu  *PPU
	apu  *apu.APU
	cart Cartridge

	// systemClock counts master clock ticks (PPU dots).
	systemClock uint64

	dma   oamDMA
	input InputPorts
}

// Connect wires the bus to the hardware components.
func (b *Bus) Connect(cpu *CPU, ppu *PPU, a *apu.APU) {
	if b.RAM.Data == nil {
		b.RAM = hwio.NewMem("RAM", 0x800)
	}
	b.cpu = cpu
	b.ppu = ppu
	b.apu = a
	b.dma.reset()

	if a != nil {
		// DMC samples are fetched from CPU memory.
		a.SetMemoryReader(func(addr uint16) uint8 {
			return b.Read8(addr, false)
		})
	}
}

// InsertCartridge plugs a cartridge in. The previous one, if any, is
// disconnected.
func (b *Bus) InsertCartridge(cart Cartridge) {
	b.cart = cart
	if b.ppu != nil {
		b.ppu.InsertCartridge(cart)
	}
}

// Reset clears the bus state. RAM content is preserved.
func (b *Bus) Reset() {
	b.systemClock = 0
	b.dma.reset()
	b.input.reset()
}

// SystemClock returns the number of elapsed master clock ticks.
func (b *Bus) SystemClock() uint64 { return b.systemClock }

// DMAActive reports whether an OAM DMA transfer is in progress.
func (b *Bus) DMAActive() bool { return b.dma.active }

// SetController sets the state of the buttons of a controller (0 or 1). Each
// bit of buttons represents a pressed button (see ButtonA and others).
func (b *Bus) SetController(player int, buttons uint8) {
	b.input.buttons[player&1] = buttons
}

// Clock advances the system by one master clock tick. The PPU runs on every
// tick, the CPU and APU every 3 ticks. During an OAM DMA transfer the CPU is
// stalled while the APU keeps running.
func (b *Bus) Clock() {
	b.ppu.Clock()

	if b.systemClock%3 == 0 {
		if b.dma.active {
			b.dma.step(b)
		} else {
			b.cpu.Clock()
		}
		if b.apu != nil {
			b.apu.Clock()
			b.cpu.SetIRQLine(b.apu.IRQ())
		}
	}

	if b.ppu.NMI() {
		b.ppu.ClearNMI()
		b.cpu.NMI()
	}

	b.systemClock++
}

// Read8 reads a byte from the CPU address space. If peek is true, the read
// has no side effects.
func (b *Bus) Read8(addr uint16, peek bool) uint8 {
	if b.cart != nil {
		if val, ok := b.cart.CPURead(addr); ok {
			return val
		}
	}

	switch {
	case addr < 0x2000:
		return b.RAM.Read8(addr, peek)
	case addr < 0x4000:
		if peek {
			return b.ppu.PeekRegister(addr)
		}
		return b.ppu.ReadRegister(addr)
	case addr == 0x4015:
		if b.apu == nil {
			return 0
		}
		if peek {
			return b.apu.PeekStatus()
		}
		return b.apu.ReadStatus()
	case addr == 0x4016, addr == 0x4017:
		return b.input.read(uint8(addr&1), peek)
	}

	log.ModBus.DebugZ("unmapped read").Hex16("addr", addr).End()
	return 0
}

// Peek8 reads a byte from the CPU address space, without side effects.
func (b *Bus) Peek8(addr uint16) uint8 {
	return b.Read8(addr, true)
}

// Write8 writes a byte to the CPU address space.
func (b *Bus) Write8(addr uint16, val uint8) {
	if b.cart != nil && b.cart.CPUWrite(addr, val) {
		return
	}

	switch {
	case addr < 0x2000:
		b.RAM.Write8(addr, val)
	case addr < 0x4000:
		b.ppu.WriteRegister(addr, val)
	case addr == 0x4014:
		b.dma.start(val)
	case addr == 0x4016:
		b.input.write(val)
	case addr <= 0x4017:
		if b.apu != nil {
			b.apu.WriteRegister(addr, val)
		}
	default:
		log.ModBus.DebugZ("unmapped write").Hex16("addr", addr).Hex8("val", val).End()
	}
}
