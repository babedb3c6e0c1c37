package hw

import (
	"fmt"
	"io"
)

// cpuState is the CPU snapshot written for each traced instruction.
type cpuState struct {
	A, X, Y uint8
	P       P
	SP      uint8
	PC      uint16

	Clock    int64
	PPUCycle int
	Scanline int
}

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

// tracer writes one line per instruction, in the nestest.log layout:
//
//	C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 S:FD PPU:0  ,21  7
type tracer struct {
	d   disasmer
	w   io.Writer
	ppu *PPU // may be nil

	buf []byte
}

const (
	traceOpCol   = 16 // mnemonic column
	traceDisLen  = 48 // width of the disassembly part
	traceRegsCol = 49
)

func (t *tracer) write(s cpuState) {
	b := t.d.Disasm(s.PC).appendTrace(t.buf[:0])
	b = padTo(b, traceRegsCol)

	regs := [...]struct {
		name byte
		val  uint8
	}{
		{'A', s.A}, {'X', s.X}, {'Y', s.Y}, {'P', uint8(s.P)}, {'S', s.SP},
	}
	for _, r := range regs {
		b = append(b, r.name, ':')
		b = appendHex8(b, r.val)
		b = append(b, ' ')
	}

	line := s.Scanline
	if line == preRenderLine {
		line = -1
	}
	b = fmt.Appendf(b, "PPU:%-3d,%-3d %d\n", line, s.PPUCycle, s.Clock)

	t.buf = b
	t.w.Write(b)
}

const hexDigits = "0123456789ABCDEF"

func appendHex8(b []byte, v uint8) []byte {
	return append(b, hexDigits[v>>4], hexDigits[v&0x0f])
}

func appendHex16(b []byte, v uint16) []byte {
	return appendHex8(appendHex8(b, uint8(v>>8)), uint8(v))
}

func padTo(b []byte, n int) []byte {
	for len(b) < n {
		b = append(b, ' ')
	}
	return b
}
