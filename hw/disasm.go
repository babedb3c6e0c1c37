package hw

import "fmt"

// DisasmOp is a disassembled instruction.
type DisasmOp struct {
	Opcode string // mnemonic
	Oper   string // formatted operand, empty for implied
	Buf    []byte // raw instruction bytes
	PC     uint16
}

// Disasm disassembles the instruction at pc, without side effects.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	opcode := c.bus.Read8(pc, true)
	op := &opsTable[opcode]

	n := op.mode.size()
	buf := make([]byte, n)
	for i := range n {
		buf[i] = c.bus.Read8(pc+i, true)
	}

	d := DisasmOp{
		Opcode: op.name,
		Buf:    buf,
		PC:     pc,
	}

	var oper16 uint16
	if n == 3 {
		oper16 = uint16(buf[2])<<8 | uint16(buf[1])
	}

	switch op.mode {
	case acc:
		d.Oper = "A"
	case imm:
		d.Oper = fmt.Sprintf("#$%02X", buf[1])
	case zpg:
		d.Oper = fmt.Sprintf("$%02X", buf[1])
	case zpx:
		d.Oper = fmt.Sprintf("$%02X,X", buf[1])
	case zpy:
		d.Oper = fmt.Sprintf("$%02X,Y", buf[1])
	case rel:
		target := pc + 2 + uint16(int8(buf[1]))
		d.Oper = fmt.Sprintf("$%04X", target)
	case abs:
		d.Oper = formatAddr(oper16)
	case abx:
		d.Oper = formatAddr(oper16) + ",X"
	case aby:
		d.Oper = formatAddr(oper16) + ",Y"
	case ind:
		d.Oper = fmt.Sprintf("($%04X)", oper16)
	case izx:
		d.Oper = fmt.Sprintf("($%02X,X)", buf[1])
	case izy:
		d.Oper = fmt.Sprintf("($%02X),Y", buf[1])
	}
	return d
}

func (d DisasmOp) String() string {
	if d.Oper == "" {
		return d.Opcode
	}
	return d.Opcode + " " + d.Oper
}

// appendTrace appends the address, raw bytes and text of the instruction to b,
// padded to the width of the trace disassembly column.
func (d DisasmOp) appendTrace(b []byte) []byte {
	start := len(b)
	b = appendHex16(b, d.PC)
	b = append(b, ' ', ' ')
	for _, v := range d.Buf {
		b = appendHex8(b, v)
		b = append(b, ' ')
	}
	b = padTo(b, start+traceOpCol)
	b = append(b, d.Opcode...)
	b = append(b, ' ')
	b = append(b, d.Oper...)
	if len(b)-start > traceDisLen {
		return append(b, ' ')
	}
	return padTo(b, start+traceDisLen)
}

// ioRegNames names the memory-mapped registers in disassembled operands.
var ioRegNames = map[uint16]string{
	0x2000: "PPUCTRL",
	0x2001: "PPUMASK",
	0x2002: "PPUSTATUS",
	0x2003: "OAMADDR",
	0x2004: "OAMDATA",
	0x2005: "PPUSCROLL",
	0x2006: "PPUADDR",
	0x2007: "PPUDATA",
	0x4000: "SQ1_VOL",
	0x4001: "SQ1_SWEEP",
	0x4002: "SQ1_LO",
	0x4003: "SQ1_HI",
	0x4004: "SQ2_VOL",
	0x4005: "SQ2_SWEEP",
	0x4006: "SQ2_LO",
	0x4007: "SQ2_HI",
	0x4008: "TRI_LINEAR",
	0x400A: "TRI_LO",
	0x400B: "TRI_HI",
	0x400C: "NOISE_VOL",
	0x400E: "NOISE_LO",
	0x400F: "NOISE_HI",
	0x4010: "DMC_FREQ",
	0x4011: "DMC_RAW",
	0x4012: "DMC_START",
	0x4013: "DMC_LEN",
	0x4014: "OAMDMA",
	0x4015: "SND_CHN",
	0x4016: "JOY1",
	0x4017: "JOY2",
}

func formatAddr(addr uint16) string {
	if name, ok := ioRegNames[addr]; ok {
		return name
	}
	return fmt.Sprintf("$%04X", addr)
}
