package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

type addrMode uint8

const (
	imp addrMode = iota // implied
	acc                 // accumulator
	imm                 // immediate
	zpg                 // zero page
	zpx                 // zero page,X
	zpy                 // zero page,Y
	rel                 // relative
	abs                 // absolute
	abx                 // absolute,X
	aby                 // absolute,Y
	ind                 // indirect
	izx                 // (indirect,X)
	izy                 // (indirect),Y
)

// size returns the length of instructions using this addressing mode.
func (m addrMode) size() uint16 {
	switch m {
	case imp, acc:
		return 1
	case imm, zpg, zpx, zpy, rel, izx, izy:
		return 2
	}
	return 3
}

type operation uint8

const (
	opUnknown operation = iota

	opADC
	opAND
	opASL
	opBCC
	opBCS
	opBEQ
	opBIT
	opBMI
	opBNE
	opBPL
	opBRK
	opBVC
	opBVS
	opCLC
	opCLD
	opCLI
	opCLV
	opCMP
	opCPX
	opCPY
	opDEC
	opDEX
	opDEY
	opEOR
	opINC
	opINX
	opINY
	opJMP
	opJSR
	opLDA
	opLDX
	opLDY
	opLSR
	opNOP
	opORA
	opPHA
	opPHP
	opPLA
	opPLP
	opROL
	opROR
	opRTI
	opRTS
	opSBC
	opSEC
	opSED
	opSEI
	opSTA
	opSTX
	opSTY
	opTAX
	opTAY
	opTSX
	opTXA
	opTXS
	opTYA

	// unofficial
	opALR
	opANC
	opARR
	opAXS
	opDCP
	opISB
	opLAX
	opRLA
	opRRA
	opSAX
	opSLO
	opSRE
)

type opcode struct {
	name   string
	mode   addrMode
	op     operation
	cycles uint8
}

// unknown opcodes (JAM and unstable ones) are 2-cycles NOPs.
var xxx = opcode{"???", imp, opUnknown, 2}

var opsTable = [256]opcode{
	/* 0x00 */ {"BRK", imp, opBRK, 7}, {"ORA", izx, opORA, 6}, xxx, {"SLO", izx, opSLO, 8},
	/* 0x04 */ {"NOP", zpg, opNOP, 3}, {"ORA", zpg, opORA, 3}, {"ASL", zpg, opASL, 5}, {"SLO", zpg, opSLO, 5},
	/* 0x08 */ {"PHP", imp, opPHP, 3}, {"ORA", imm, opORA, 2}, {"ASL", acc, opASL, 2}, {"ANC", imm, opANC, 2},
	/* 0x0C */ {"NOP", abs, opNOP, 4}, {"ORA", abs, opORA, 4}, {"ASL", abs, opASL, 6}, {"SLO", abs, opSLO, 6},
	/* 0x10 */ {"BPL", rel, opBPL, 2}, {"ORA", izy, opORA, 5}, xxx, {"SLO", izy, opSLO, 8},
	/* 0x14 */ {"NOP", zpx, opNOP, 4}, {"ORA", zpx, opORA, 4}, {"ASL", zpx, opASL, 6}, {"SLO", zpx, opSLO, 6},
	/* 0x18 */ {"CLC", imp, opCLC, 2}, {"ORA", aby, opORA, 4}, {"NOP", imp, opNOP, 2}, {"SLO", aby, opSLO, 7},
	/* 0x1C */ {"NOP", abx, opNOP, 4}, {"ORA", abx, opORA, 4}, {"ASL", abx, opASL, 7}, {"SLO", abx, opSLO, 7},
	/* 0x20 */ {"JSR", abs, opJSR, 6}, {"AND", izx, opAND, 6}, xxx, {"RLA", izx, opRLA, 8},
	/* 0x24 */ {"BIT", zpg, opBIT, 3}, {"AND", zpg, opAND, 3}, {"ROL", zpg, opROL, 5}, {"RLA", zpg, opRLA, 5},
	/* 0x28 */ {"PLP", imp, opPLP, 4}, {"AND", imm, opAND, 2}, {"ROL", acc, opROL, 2}, {"ANC", imm, opANC, 2},
	/* 0x2C */ {"BIT", abs, opBIT, 4}, {"AND", abs, opAND, 4}, {"ROL", abs, opROL, 6}, {"RLA", abs, opRLA, 6},
	/* 0x30 */ {"BMI", rel, opBMI, 2}, {"AND", izy, opAND, 5}, xxx, {"RLA", izy, opRLA, 8},
	/* 0x34 */ {"NOP", zpx, opNOP, 4}, {"AND", zpx, opAND, 4}, {"ROL", zpx, opROL, 6}, {"RLA", zpx, opRLA, 6},
	/* 0x38 */ {"SEC", imp, opSEC, 2}, {"AND", aby, opAND, 4}, {"NOP", imp, opNOP, 2}, {"RLA", aby, opRLA, 7},
	/* 0x3C */ {"NOP", abx, opNOP, 4}, {"AND", abx, opAND, 4}, {"ROL", abx, opROL, 7}, {"RLA", abx, opRLA, 7},
	/* 0x40 */ {"RTI", imp, opRTI, 6}, {"EOR", izx, opEOR, 6}, xxx, {"SRE", izx, opSRE, 8},
	/* 0x44 */ {"NOP", zpg, opNOP, 3}, {"EOR", zpg, opEOR, 3}, {"LSR", zpg, opLSR, 5}, {"SRE", zpg, opSRE, 5},
	/* 0x48 */ {"PHA", imp, opPHA, 3}, {"EOR", imm, opEOR, 2}, {"LSR", acc, opLSR, 2}, {"ALR", imm, opALR, 2},
	/* 0x4C */ {"JMP", abs, opJMP, 3}, {"EOR", abs, opEOR, 4}, {"LSR", abs, opLSR, 6}, {"SRE", abs, opSRE, 6},
	/* 0x50 */ {"BVC", rel, opBVC, 2}, {"EOR", izy, opEOR, 5}, xxx, {"SRE", izy, opSRE, 8},
	/* 0x54 */ {"NOP", zpx, opNOP, 4}, {"EOR", zpx, opEOR, 4}, {"LSR", zpx, opLSR, 6}, {"SRE", zpx, opSRE, 6},
	/* 0x58 */ {"CLI", imp, opCLI, 2}, {"EOR", aby, opEOR, 4}, {"NOP", imp, opNOP, 2}, {"SRE", aby, opSRE, 7},
	/* 0x5C */ {"NOP", abx, opNOP, 4}, {"EOR", abx, opEOR, 4}, {"LSR", abx, opLSR, 7}, {"SRE", abx, opSRE, 7},
	/* 0x60 */ {"RTS", imp, opRTS, 6}, {"ADC", izx, opADC, 6}, xxx, {"RRA", izx, opRRA, 8},
	/* 0x64 */ {"NOP", zpg, opNOP, 3}, {"ADC", zpg, opADC, 3}, {"ROR", zpg, opROR, 5}, {"RRA", zpg, opRRA, 5},
	/* 0x68 */ {"PLA", imp, opPLA, 4}, {"ADC", imm, opADC, 2}, {"ROR", acc, opROR, 2}, {"ARR", imm, opARR, 2},
	/* 0x6C */ {"JMP", ind, opJMP, 5}, {"ADC", abs, opADC, 4}, {"ROR", abs, opROR, 6}, {"RRA", abs, opRRA, 6},
	/* 0x70 */ {"BVS", rel, opBVS, 2}, {"ADC", izy, opADC, 5}, xxx, {"RRA", izy, opRRA, 8},
	/* 0x74 */ {"NOP", zpx, opNOP, 4}, {"ADC", zpx, opADC, 4}, {"ROR", zpx, opROR, 6}, {"RRA", zpx, opRRA, 6},
	/* 0x78 */ {"SEI", imp, opSEI, 2}, {"ADC", aby, opADC, 4}, {"NOP", imp, opNOP, 2}, {"RRA", aby, opRRA, 7},
	/* 0x7C */ {"NOP", abx, opNOP, 4}, {"ADC", abx, opADC, 4}, {"ROR", abx, opROR, 7}, {"RRA", abx, opRRA, 7},
	/* 0x80 */ {"NOP", imm, opNOP, 2}, {"STA", izx, opSTA, 6}, {"NOP", imm, opNOP, 2}, {"SAX", izx, opSAX, 6},
	/* 0x84 */ {"STY", zpg, opSTY, 3}, {"STA", zpg, opSTA, 3}, {"STX", zpg, opSTX, 3}, {"SAX", zpg, opSAX, 3},
	/* 0x88 */ {"DEY", imp, opDEY, 2}, {"NOP", imm, opNOP, 2}, {"TXA", imp, opTXA, 2}, xxx,
	/* 0x8C */ {"STY", abs, opSTY, 4}, {"STA", abs, opSTA, 4}, {"STX", abs, opSTX, 4}, {"SAX", abs, opSAX, 4},
	/* 0x90 */ {"BCC", rel, opBCC, 2}, {"STA", izy, opSTA, 6}, xxx, xxx,
	/* 0x94 */ {"STY", zpx, opSTY, 4}, {"STA", zpx, opSTA, 4}, {"STX", zpy, opSTX, 4}, {"SAX", zpy, opSAX, 4},
	/* 0x98 */ {"TYA", imp, opTYA, 2}, {"STA", aby, opSTA, 5}, {"TXS", imp, opTXS, 2}, xxx,
	/* 0x9C */ xxx, {"STA", abx, opSTA, 5}, xxx, xxx,
	/* 0xA0 */ {"LDY", imm, opLDY, 2}, {"LDA", izx, opLDA, 6}, {"LDX", imm, opLDX, 2}, {"LAX", izx, opLAX, 6},
	/* 0xA4 */ {"LDY", zpg, opLDY, 3}, {"LDA", zpg, opLDA, 3}, {"LDX", zpg, opLDX, 3}, {"LAX", zpg, opLAX, 3},
	/* 0xA8 */ {"TAY", imp, opTAY, 2}, {"LDA", imm, opLDA, 2}, {"TAX", imp, opTAX, 2}, xxx,
	/* 0xAC */ {"LDY", abs, opLDY, 4}, {"LDA", abs, opLDA, 4}, {"LDX", abs, opLDX, 4}, {"LAX", abs, opLAX, 4},
	/* 0xB0 */ {"BCS", rel, opBCS, 2}, {"LDA", izy, opLDA, 5}, xxx, {"LAX", izy, opLAX, 5},
	/* 0xB4 */ {"LDY", zpx, opLDY, 4}, {"LDA", zpx, opLDA, 4}, {"LDX", zpy, opLDX, 4}, {"LAX", zpy, opLAX, 4},
	/* 0xB8 */ {"CLV", imp, opCLV, 2}, {"LDA", aby, opLDA, 4}, {"TSX", imp, opTSX, 2}, xxx,
	/* 0xBC */ {"LDY", abx, opLDY, 4}, {"LDA", abx, opLDA, 4}, {"LDX", aby, opLDX, 4}, {"LAX", aby, opLAX, 4},
	/* 0xC0 */ {"CPY", imm, opCPY, 2}, {"CMP", izx, opCMP, 6}, {"NOP", imm, opNOP, 2}, {"DCP", izx, opDCP, 8},
	/* 0xC4 */ {"CPY", zpg, opCPY, 3}, {"CMP", zpg, opCMP, 3}, {"DEC", zpg, opDEC, 5}, {"DCP", zpg, opDCP, 5},
	/* 0xC8 */ {"INY", imp, opINY, 2}, {"CMP", imm, opCMP, 2}, {"DEX", imp, opDEX, 2}, {"AXS", imm, opAXS, 2},
	/* 0xCC */ {"CPY", abs, opCPY, 4}, {"CMP", abs, opCMP, 4}, {"DEC", abs, opDEC, 6}, {"DCP", abs, opDCP, 6},
	/* 0xD0 */ {"BNE", rel, opBNE, 2}, {"CMP", izy, opCMP, 5}, xxx, {"DCP", izy, opDCP, 8},
	/* 0xD4 */ {"NOP", zpx, opNOP, 4}, {"CMP", zpx, opCMP, 4}, {"DEC", zpx, opDEC, 6}, {"DCP", zpx, opDCP, 6},
	/* 0xD8 */ {"CLD", imp, opCLD, 2}, {"CMP", aby, opCMP, 4}, {"NOP", imp, opNOP, 2}, {"DCP", aby, opDCP, 7},
	/* 0xDC */ {"NOP", abx, opNOP, 4}, {"CMP", abx, opCMP, 4}, {"DEC", abx, opDEC, 7}, {"DCP", abx, opDCP, 7},
	/* 0xE0 */ {"CPX", imm, opCPX, 2}, {"SBC", izx, opSBC, 6}, {"NOP", imm, opNOP, 2}, {"ISB", izx, opISB, 8},
	/* 0xE4 */ {"CPX", zpg, opCPX, 3}, {"SBC", zpg, opSBC, 3}, {"INC", zpg, opINC, 5}, {"ISB", zpg, opISB, 5},
	/* 0xE8 */ {"INX", imp, opINX, 2}, {"SBC", imm, opSBC, 2}, {"NOP", imp, opNOP, 2}, {"SBC", imm, opSBC, 2},
	/* 0xEC */ {"CPX", abs, opCPX, 4}, {"SBC", abs, opSBC, 4}, {"INC", abs, opINC, 6}, {"ISB", abs, opISB, 6},
	/* 0xF0 */ {"BEQ", rel, opBEQ, 2}, {"SBC", izy, opSBC, 5}, xxx, {"ISB", izy, opISB, 8},
	/* 0xF4 */ {"NOP", zpx, opNOP, 4}, {"SBC", zpx, opSBC, 4}, {"INC", zpx, opINC, 6}, {"ISB", zpx, opISB, 6},
	/* 0xF8 */ {"SED", imp, opSED, 2}, {"SBC", aby, opSBC, 4}, {"NOP", imp, opNOP, 2}, {"ISB", aby, opISB, 7},
	/* 0xFC */ {"NOP", abx, opNOP, 4}, {"SBC", abx, opSBC, 4}, {"INC", abx, opINC, 7}, {"ISB", abx, opISB, 7},
}

// address computes the effective address of the current instruction and
// advances PC past its operand. It returns 1 if the computed address
// crossed a page boundary relative to its un-indexed base.
func (c *CPU) address(mode addrMode) uint8 {
	switch mode {
	case imp, acc:
		return 0

	case imm:
		c.addrAbs = c.PC
		c.PC++

	case zpg:
		c.addrAbs = uint16(c.read8(c.PC))
		c.PC++

	case zpx:
		c.addrAbs = uint16(c.read8(c.PC) + c.X)
		c.PC++

	case zpy:
		c.addrAbs = uint16(c.read8(c.PC) + c.Y)
		c.PC++

	case rel:
		c.addrRel = uint16(c.read8(c.PC))
		c.PC++
		if c.addrRel&0x80 != 0 {
			c.addrRel |= 0xFF00
		}

	case abs:
		c.addrAbs = c.read16(c.PC)
		c.PC += 2

	case abx, aby:
		base := c.read16(c.PC)
		c.PC += 2
		idx := c.X
		if mode == aby {
			idx = c.Y
		}
		c.addrAbs = base + uint16(idx)
		if hwio.PageCrossed(base, c.addrAbs) {
			return 1
		}

	case ind:
		ptr := c.read16(c.PC)
		c.PC += 2

		// 6502 bug: the high byte is fetched from the start of the same page
		// when the pointer lies on a page boundary.
		lo := c.read8(ptr)
		hi := c.read8(ptr&0xFF00 | uint16(uint8(ptr)+1))
		c.addrAbs = uint16(hi)<<8 | uint16(lo)

	case izx:
		t := c.read8(c.PC) + c.X
		c.PC++
		lo := c.read8(uint16(t))
		hi := c.read8(uint16(t + 1))
		c.addrAbs = uint16(hi)<<8 | uint16(lo)

	case izy:
		t := c.read8(c.PC)
		c.PC++
		lo := c.read8(uint16(t))
		hi := c.read8(uint16(t + 1))
		base := uint16(hi)<<8 | uint16(lo)
		c.addrAbs = base + uint16(c.Y)
		if hwio.PageCrossed(base, c.addrAbs) {
			return 1
		}
	}
	return 0
}

// fetch returns the operand of the current instruction.
func (c *CPU) fetch() uint8 {
	if c.mode == acc || c.mode == imp {
		return c.A
	}
	return c.read8(c.addrAbs)
}

// store writes back the result of a read-modify-write instruction.
func (c *CPU) store(val uint8) {
	if c.mode == acc || c.mode == imp {
		c.A = val
		return
	}
	c.write8(c.addrAbs, val)
}

// execute runs the operation of the current instruction. It returns 1 if the
// operation is subject to the page crossing penalty.
func (c *CPU) execute(op operation) uint8 {
	switch op {
	case opADC:
		c.adc(c.fetch())
		return 1
	case opSBC:
		c.adc(^c.fetch())
		return 1

	case opAND:
		c.A &= c.fetch()
		c.P.checkNZ(c.A)
		return 1
	case opORA:
		c.A |= c.fetch()
		c.P.checkNZ(c.A)
		return 1
	case opEOR:
		c.A ^= c.fetch()
		c.P.checkNZ(c.A)
		return 1

	case opASL:
		c.store(c.asl(c.fetch()))
	case opLSR:
		c.store(c.lsr(c.fetch()))
	case opROL:
		c.store(c.rol(c.fetch()))
	case opROR:
		c.store(c.ror(c.fetch()))

	case opBIT:
		val := c.fetch()
		c.P.writeFlag(Zero, c.A&val == 0)
		c.P.writeFlag(Negative, val&0x80 != 0)
		c.P.writeFlag(Overflow, val&0x40 != 0)

	case opBCC:
		c.branch(!c.P.hasFlag(Carry))
	case opBCS:
		c.branch(c.P.hasFlag(Carry))
	case opBNE:
		c.branch(!c.P.hasFlag(Zero))
	case opBEQ:
		c.branch(c.P.hasFlag(Zero))
	case opBPL:
		c.branch(!c.P.hasFlag(Negative))
	case opBMI:
		c.branch(c.P.hasFlag(Negative))
	case opBVC:
		c.branch(!c.P.hasFlag(Overflow))
	case opBVS:
		c.branch(c.P.hasFlag(Overflow))

	case opBRK:
		// Skip the padding byte.
		c.PC++
		c.push16(c.PC)
		c.P.setFlags(Break | Unused)
		c.push8(uint8(c.P))
		c.P.setFlags(Interrupt)
		c.PC = c.read16(IRQVector)

	case opCLC:
		c.P.clearFlags(Carry)
	case opCLD:
		c.P.clearFlags(Decimal)
	case opCLI:
		c.P.clearFlags(Interrupt)
	case opCLV:
		c.P.clearFlags(Overflow)
	case opSEC:
		c.P.setFlags(Carry)
	case opSED:
		c.P.setFlags(Decimal)
	case opSEI:
		c.P.setFlags(Interrupt)

	case opCMP:
		c.compare(c.A, c.fetch())
		return 1
	case opCPX:
		c.compare(c.X, c.fetch())
	case opCPY:
		c.compare(c.Y, c.fetch())

	case opDEC:
		val := c.fetch() - 1
		c.write8(c.addrAbs, val)
		c.P.checkNZ(val)
	case opDEX:
		c.X--
		c.P.checkNZ(c.X)
	case opDEY:
		c.Y--
		c.P.checkNZ(c.Y)
	case opINC:
		val := c.fetch() + 1
		c.write8(c.addrAbs, val)
		c.P.checkNZ(val)
	case opINX:
		c.X++
		c.P.checkNZ(c.X)
	case opINY:
		c.Y++
		c.P.checkNZ(c.Y)

	case opJMP:
		c.PC = c.addrAbs
	case opJSR:
		c.push16(c.PC - 1)
		c.PC = c.addrAbs
	case opRTS:
		c.PC = c.pull16() + 1
	case opRTI:
		c.P = P(c.pull8())
		c.P.clearFlags(Break)
		c.P.setFlags(Unused)
		c.PC = c.pull16()

	case opLDA:
		c.A = c.fetch()
		c.P.checkNZ(c.A)
		return 1
	case opLDX:
		c.X = c.fetch()
		c.P.checkNZ(c.X)
		return 1
	case opLDY:
		c.Y = c.fetch()
		c.P.checkNZ(c.Y)
		return 1

	case opNOP:
		// Some unofficial NOPs read memory.
		return 1

	case opPHA:
		c.push8(c.A)
	case opPHP:
		c.push8(uint8(c.P) | Break | Unused)
	case opPLA:
		c.A = c.pull8()
		c.P.checkNZ(c.A)
	case opPLP:
		c.P = P(c.pull8())
		c.P.clearFlags(Break)
		c.P.setFlags(Unused)

	case opSTA:
		c.write8(c.addrAbs, c.A)
	case opSTX:
		c.write8(c.addrAbs, c.X)
	case opSTY:
		c.write8(c.addrAbs, c.Y)

	case opTAX:
		c.X = c.A
		c.P.checkNZ(c.X)
	case opTAY:
		c.Y = c.A
		c.P.checkNZ(c.Y)
	case opTSX:
		c.X = c.SP
		c.P.checkNZ(c.X)
	case opTXA:
		c.A = c.X
		c.P.checkNZ(c.A)
	case opTXS:
		c.SP = c.X
	case opTYA:
		c.A = c.Y
		c.P.checkNZ(c.A)

	// unofficial opcodes

	case opLAX:
		c.A = c.fetch()
		c.X = c.A
		c.P.checkNZ(c.A)
		return 1
	case opSAX:
		c.write8(c.addrAbs, c.A&c.X)
	case opDCP:
		val := c.fetch() - 1
		c.write8(c.addrAbs, val)
		c.compare(c.A, val)
	case opISB:
		val := c.fetch() + 1
		c.write8(c.addrAbs, val)
		c.adc(^val)
	case opSLO:
		val := c.asl(c.fetch())
		c.write8(c.addrAbs, val)
		c.A |= val
		c.P.checkNZ(c.A)
	case opRLA:
		val := c.rol(c.fetch())
		c.write8(c.addrAbs, val)
		c.A &= val
		c.P.checkNZ(c.A)
	case opSRE:
		val := c.lsr(c.fetch())
		c.write8(c.addrAbs, val)
		c.A ^= val
		c.P.checkNZ(c.A)
	case opRRA:
		val := c.ror(c.fetch())
		c.write8(c.addrAbs, val)
		c.adc(val)
	case opANC:
		c.A &= c.fetch()
		c.P.checkNZ(c.A)
		c.P.writeFlag(Carry, c.A&0x80 != 0)
	case opALR:
		c.A &= c.fetch()
		c.A = c.lsr(c.A)
	case opARR:
		c.A &= c.fetch()
		c.A = c.A>>1 | c.P.carry()<<7
		c.P.checkNZ(c.A)
		c.P.writeFlag(Carry, c.A&0x40 != 0)
		c.P.writeFlag(Overflow, (c.A>>6^c.A>>5)&1 != 0)
	case opAXS:
		val := c.fetch()
		ax := c.A & c.X
		c.P.writeFlag(Carry, ax >= val)
		c.X = ax - val
		c.P.checkNZ(c.X)

	case opUnknown:
		if !c.unknownOps[c.opcode] {
			c.unknownOps[c.opcode] = true
			log.ModCPU.WarnZ("unknown opcode").Hex8("opcode", c.opcode).Hex16("addr", c.PC-1).End()
		} else {
			log.ModCPU.DebugZ("unknown opcode").Hex8("opcode", c.opcode).Hex16("addr", c.PC-1).End()
		}
	}
	return 0
}

func (c *CPU) adc(val uint8) {
	sum := uint16(c.A) + uint16(val) + uint16(c.P.carry())
	c.P.checkCV(c.A, val, sum)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

func (c *CPU) compare(reg, val uint8) {
	c.P.writeFlag(Carry, reg >= val)
	c.P.checkNZ(reg - val)
}

func (c *CPU) asl(val uint8) uint8 {
	c.P.writeFlag(Carry, val&0x80 != 0)
	val <<= 1
	c.P.checkNZ(val)
	return val
}

func (c *CPU) lsr(val uint8) uint8 {
	c.P.writeFlag(Carry, val&0x01 != 0)
	val >>= 1
	c.P.checkNZ(val)
	return val
}

func (c *CPU) rol(val uint8) uint8 {
	carry := c.P.carry()
	c.P.writeFlag(Carry, val&0x80 != 0)
	val = val<<1 | carry
	c.P.checkNZ(val)
	return val
}

func (c *CPU) ror(val uint8) uint8 {
	carry := c.P.carry()
	c.P.writeFlag(Carry, val&0x01 != 0)
	val = val>>1 | carry<<7
	c.P.checkNZ(val)
	return val
}

// branch takes the branch if cond is true. A taken branch costs an extra
// cycle, plus another one if the target lies on a different page.
func (c *CPU) branch(cond bool) {
	if !cond {
		return
	}

	c.cycles++
	target := c.PC + c.addrRel
	if hwio.PageCrossed(c.PC, target) {
		c.cycles++
	}
	c.PC = target
}
