package emu

import (
	"bytes"
	"testing"

	"nescore/hw/apu"
	"nescore/ines"
)

// Addresses of the handlers installed by testRom.
const (
	nmiHandler = 0x8100
	irqHandler = 0x8110
)

// testRom builds a NROM cartridge with 16KB of PRG, mirrored at $8000 and
// $C000. program is copied at $8000, where the reset vector points. The NMI
// handler increments X and returns, the IRQ/BRK handler loops forever.
func testRom(t testing.TB, mapper uint8, program ...byte) *ines.Rom {
	t.Helper()

	prg := make([]byte, 0x4000)
	copy(prg, program)
	copy(prg[nmiHandler&0x3FFF:], []byte{
		0xE8, // INX
		0x40, // RTI
	})
	copy(prg[irqHandler&0x3FFF:], []byte{
		0x4C, irqHandler & 0xFF, irqHandler >> 8, // JMP irqHandler
	})

	// Vectors.
	copy(prg[0x3FFA:], []byte{
		nmiHandler & 0xFF, nmiHandler >> 8,
		0x00, 0x80,
		irqHandler & 0xFF, irqHandler >> 8,
	})

	hdr := []byte{'N', 'E', 'S', 0x1A, 1, 1, mapper << 4, mapper & 0xF0, 0, 0, 0, 0, 0, 0, 0, 0}
	buf := bytes.NewBuffer(hdr)
	buf.Write(prg)
	buf.Write(make([]byte, 0x2000))

	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(buf); err != nil {
		t.Fatal(err)
	}
	return rom
}

func testNES(t testing.TB, program ...byte) *NES {
	t.Helper()

	nes, err := Load(testRom(t, 0, program...), apu.Config{})
	if err != nil {
		t.Fatal(err)
	}
	return nes
}

// recordSink is an AudioSink keeping all samples in memory.
type recordSink struct {
	samples []float32
	err     error
}

func (rs *recordSink) WriteSamples(samples []float32) error {
	if rs.err != nil {
		return rs.err
	}
	rs.samples = append(rs.samples, samples...)
	return nil
}
