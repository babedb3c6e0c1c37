package hw

import (
	"io"

	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

// Cycles taken by the reset sequence and by interrupts.
const (
	resetCycles = 8
	nmiCycles   = 7
	irqCycles   = 7
)

type CPU struct {
	bus hwio.BankIO8

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	Cycles int64  // total elapsed CPU cycles
	Instrs uint64 // total executed instructions

	// state of the instruction being executed
	cycles  uint8 // remaining cycles
	opcode  uint8
	mode    addrMode
	addrAbs uint16
	addrRel uint16

	// interrupt handling
	nmiPending bool
	irqLine    bool

	unknownOps [256]bool

	// Non-nil when execution tracing is enabled.
	tracer *tracer
}

// NewCPU creates a CPU connected to the given bus. Reset must be called
// before execution starts.
func NewCPU(bus hwio.BankIO8) *CPU {
	return &CPU{
		bus: bus,
		SP:  0xFD,
		P:   Unused | Interrupt,
	}
}

// Reset loads PC from the reset vector and puts the registers in their
// power-up state. The reset sequence takes 8 cycles.
func (c *CPU) Reset() {
	c.A = 0x00
	c.X = 0x00
	c.Y = 0x00
	c.SP = 0xFD
	c.P = Unused | Interrupt

	c.PC = c.read16(ResetVector)

	c.addrAbs = 0
	c.addrRel = 0
	c.nmiPending = false
	c.cycles = resetCycles
}

// AddLogContext implements log.ContextAdder.
func (c *CPU) AddLogContext(entry *log.EntryZ) {
	entry.Hex16("PC", c.PC)
}

// Complete reports whether the current instruction has completed, that is,
// the next call to Clock will start a new instruction (or interrupt).
func (c *CPU) Complete() bool {
	return c.cycles == 0
}

// Clock runs the CPU for one cycle. The whole instruction is executed on its
// first cycle, subsequent cycles are spent idle.
func (c *CPU) Clock() {
	if c.cycles == 0 {
		switch {
		case c.nmiPending:
			c.nmiPending = false
			c.interrupt(NMIVector, nmiCycles)
		case c.irqLine && !c.P.hasFlag(Interrupt):
			c.interrupt(IRQVector, irqCycles)
		default:
			c.step()
		}
	}

	c.cycles--
	c.Cycles++
}

func (c *CPU) step() {
	c.opcode = c.read8(c.PC)
	c.traceOp()
	c.PC++

	op := &opsTable[c.opcode]
	c.mode = op.mode
	c.cycles = op.cycles

	extra1 := c.address(op.mode)
	extra2 := c.execute(op.op)

	// The page crossing penalty only applies to read instructions.
	c.cycles += extra1 & extra2

	c.P.setFlags(Unused)
	c.Instrs++
}

// StepInstruction finishes the current instruction, if any, then runs the
// next one until its completion.
func (c *CPU) StepInstruction() {
	for c.cycles != 0 {
		c.Clock()
	}

	c.Clock()
	for c.cycles != 0 {
		c.Clock()
	}
}

// NMI latches a non-maskable interrupt request. It's serviced on the next
// call to Clock that starts an instruction, so never while the CPU is stalled.
func (c *CPU) NMI() {
	c.nmiPending = true
}

// SetIRQLine sets the level of the maskable interrupt line. A high line is
// serviced between instructions, as long as interrupts are not disabled.
func (c *CPU) SetIRQLine(high bool) {
	c.irqLine = high
}

func (c *CPU) interrupt(vector uint16, cycles uint8) {
	c.push16(c.PC)

	p := c.P
	p.clearFlags(Break)
	p.setFlags(Unused)
	c.push8(uint8(p))

	c.P.setFlags(Interrupt)
	c.PC = c.read16(vector)
	c.cycles = cycles

	log.ModCPU.DebugZ("interrupt").Hex16("vector", vector).Hex16("handler", c.PC).End()
}

/* bus access */

func (c *CPU) read8(addr uint16) uint8 {
	return c.bus.Read8(addr, false)
}

func (c *CPU) write8(addr uint16, val uint8) {
	c.bus.Write8(addr, val)
}

func (c *CPU) read16(addr uint16) uint16 {
	return hwio.Read16(c.bus, addr)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	top := uint16(c.SP) + 0x0100
	c.write8(top, val)
	c.SP -= 1
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	top := uint16(c.SP) + 0x0100
	return c.read8(top)
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* tracing */

// SetTraceOutput enables the execution trace, written to w before each
// instruction is executed. ppu is optional and is only used to report the
// PPU position.
func (c *CPU) SetTraceOutput(w io.Writer, ppu *PPU) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w, d: c, ppu: ppu}
}

func (c *CPU) traceOp() {
	if c.tracer == nil {
		return
	}

	state := cpuState{
		A:     c.A,
		X:     c.X,
		Y:     c.Y,
		P:     c.P,
		SP:    c.SP,
		Clock: c.Cycles,
		PC:    c.PC,
	}
	if c.tracer.ppu != nil {
		state.Scanline = c.tracer.ppu.Scanline
		state.PPUCycle = c.tracer.ppu.Cycle
	}
	c.tracer.write(state)
}
