package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newTestSystem returns a bus connected to a CPU, a PPU and a test cartridge
// whose PRG ROM is filled with NOPs. There's no APU.
func newTestSystem(t *testing.T) (*Bus, *CPU, *PPU, *testCart) {
	t.Helper()

	cart := &testCart{}
	for i := range cart.prg {
		cart.prg[i] = 0xEA
	}
	// Reset vector: $8000
	cart.prg[0x7FFC] = 0x00
	cart.prg[0x7FFD] = 0x80

	bus := &Bus{}
	ppu := NewPPU()
	cpu := NewCPU(bus)
	bus.Connect(cpu, ppu, nil)
	bus.InsertCartridge(cart)
	bus.Reset()
	cpu.Reset()
	return bus, cpu, ppu, cart
}

func TestBusRAMMirroring(t *testing.T) {
	bus, _, _, _ := newTestSystem(t)

	bus.Write8(0x0001, 0x42)
	for _, addr := range []uint16{0x0001, 0x0801, 0x1001, 0x1801} {
		if got := bus.Read8(addr, false); got != 0x42 {
			t.Errorf("$%04X = %02X, want 42", addr, got)
		}
	}

	bus.Write8(0x1FFF, 0x99)
	if got := bus.Peek8(0x07FF); got != 0x99 {
		t.Errorf("$07FF = %02X, want 99", got)
	}
}

func TestBusPPURegisters(t *testing.T) {
	bus, _, ppu, _ := newTestSystem(t)

	// $3FFE/$3FFF mirror PPUADDR/PPUDATA.
	bus.Write8(0x3FFE, 0x21)
	bus.Write8(0x3FFE, 0x08)
	bus.Write8(0x3FFF, 0x77)
	if got := ppu.NameTables[0x108]; got != 0x77 {
		t.Errorf("nametable[$108] = %02X, want 77", got)
	}

	// OAMADDR then OAMDATA through mirrors.
	bus.Write8(0x200B, 0x10)
	bus.Write8(0x200C, 0xAB)
	if got := ppu.OAM[0x10]; got != 0xAB {
		t.Errorf("OAM[$10] = %02X, want AB", got)
	}
}

func TestBusCartridge(t *testing.T) {
	bus, cpu, _, _ := newTestSystem(t)

	if cpu.PC != 0x8000 {
		t.Fatalf("PC = %04X, want 8000", cpu.PC)
	}
	if got := bus.Read8(0x8000, false); got != 0xEA {
		t.Errorf("$8000 = %02X, want EA", got)
	}
	// Unmapped addresses read as 0.
	if got := bus.Read8(0x5000, false); got != 0 {
		t.Errorf("$5000 = %02X, want 00", got)
	}
}

func TestController(t *testing.T) {
	bus, _, _, _ := newTestSystem(t)
	bus.SetController(0, ButtonA|ButtonStart|ButtonRight)
	bus.SetController(1, ButtonB)

	// While strobe is high, the A button is continuously reported.
	bus.Write8(0x4016, 1)
	for range 3 {
		if got := bus.Read8(0x4016, false); got != 0x41 {
			t.Fatalf("$4016 = %02X during strobe, want 41", got)
		}
	}
	bus.Write8(0x4016, 0)

	var got1, got2 []uint8
	for range 10 {
		got1 = append(got1, bus.Read8(0x4016, false))
		got2 = append(got2, bus.Read8(0x4017, false))
	}

	// A B Select Start Up Down Left Right, then 1s.
	want1 := []uint8{0x41, 0x40, 0x40, 0x41, 0x40, 0x40, 0x40, 0x41, 0x41, 0x41}
	want2 := []uint8{0x40, 0x41, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x41, 0x41}
	if diff := cmp.Diff(want1, got1); diff != "" {
		t.Errorf("controller 1 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want2, got2); diff != "" {
		t.Errorf("controller 2 mismatch (-want +got):\n%s", diff)
	}

	// Peeking doesn't shift.
	bus.Write8(0x4016, 1)
	bus.Write8(0x4016, 0)
	bus.Peek8(0x4016)
	bus.Peek8(0x4016)
	if got := bus.Read8(0x4016, false); got != 0x41 {
		t.Errorf("$4016 = %02X after peeks, want 41", got)
	}
}

func TestOAMDMA(t *testing.T) {
	bus, cpu, ppu, _ := newTestSystem(t)

	var want [256]uint8
	for i := range 256 {
		bus.Write8(0x0200+uint16(i), uint8(255-i))
		want[i] = uint8(255 - i)
	}

	bus.Write8(0x4014, 0x02)
	if !bus.DMAActive() {
		t.Fatalf("DMA should be active")
	}

	cycles := cpu.Cycles
	stalled := 0
	for bus.DMAActive() {
		if bus.SystemClock()%3 == 0 {
			stalled++
		}
		bus.Clock()
	}

	// Started on an even cycle: 2 alignment cycles, then 256 reads and writes.
	if stalled != 514 {
		t.Errorf("CPU stalled for %d cycles, want 514", stalled)
	}
	if cpu.Cycles != cycles {
		t.Errorf("CPU ran during DMA")
	}
	if diff := cmp.Diff(want, ppu.OAM); diff != "" {
		t.Errorf("OAM mismatch (-want +got):\n%s", diff)
	}

	// The CPU resumes.
	for range 3 {
		bus.Clock()
	}
	if cpu.Cycles != cycles+1 {
		t.Errorf("CPU cycles = %d, want %d", cpu.Cycles, cycles+1)
	}
}

func TestBusNMI(t *testing.T) {
	bus, cpu, ppu, cart := newTestSystem(t)
	// NMI vector: $9000
	cart.prg[0x7FFA] = 0x00
	cart.prg[0x7FFB] = 0x90

	bus.Write8(0x2000, 0x80)
	for ppu.Scanline != 241 || ppu.Cycle != 2 {
		bus.Clock()
	}
	// Let the CPU finish the current instruction and service the NMI.
	for range 3 * 10 {
		bus.Clock()
	}

	if cpu.PC < 0x9000 || cpu.PC > 0x9010 {
		t.Errorf("PC = %04X, want NMI handler at $9000", cpu.PC)
	}
	if ppu.NMI() {
		t.Errorf("PPU NMI line should have been acknowledged")
	}
}

func TestBusNMIDuringDMA(t *testing.T) {
	bus, cpu, ppu, cart := newTestSystem(t)
	// NMI vector: $9000
	cart.prg[0x7FFA] = 0x00
	cart.prg[0x7FFB] = 0x90

	bus.Write8(0x2000, 0x80)

	// Start the transfer shortly before vblank, between 2 instructions.
	for ppu.Scanline != 240 || ppu.Cycle < 300 || !cpu.Complete() || bus.SystemClock()%3 != 0 {
		bus.Clock()
	}
	bus.Write8(0x4014, 0x02)

	pc, sp, cycles := cpu.PC, cpu.SP, cpu.Cycles
	sawVBlank := false
	for bus.DMAActive() {
		bus.Clock()
		if ppu.Scanline == 241 {
			sawVBlank = true
		}
		if cpu.PC != pc || cpu.SP != sp || cpu.Cycles != cycles {
			t.Fatalf("CPU ran during DMA at line %d dot %d: PC %04X->%04X SP %02X->%02X",
				ppu.Scanline, ppu.Cycle, pc, cpu.PC, sp, cpu.SP)
		}
	}
	if !sawVBlank {
		t.Fatalf("vblank should have started during the transfer")
	}

	// The latched NMI is serviced once the CPU resumes.
	for range 3 * 10 {
		bus.Clock()
	}
	if cpu.PC < 0x9000 || cpu.PC > 0x9010 {
		t.Errorf("PC = %04X, want NMI handler at $9000", cpu.PC)
	}
}
