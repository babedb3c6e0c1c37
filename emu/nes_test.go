package emu

import (
	"errors"
	"testing"

	"nescore/hw"
	"nescore/hw/apu"
	"nescore/hw/mappers"
)

func TestPowerUpNoCartridge(t *testing.T) {
	if _, err := PowerUp(nil, apu.Config{}); !errors.Is(err, ErrNoCartridge) {
		t.Errorf("PowerUp(nil) error = %v, want %v", err, ErrNoCartridge)
	}
	if _, err := Load(nil, apu.Config{}); !errors.Is(err, ErrNoCartridge) {
		t.Errorf("Load(nil) error = %v, want %v", err, ErrNoCartridge)
	}
}

func TestLoadUnsupportedMapper(t *testing.T) {
	_, err := Load(testRom(t, 4), apu.Config{})
	if !errors.Is(err, mappers.ErrUnsupportedMapper) {
		t.Errorf("Load() error = %v, want %v", err, mappers.ErrUnsupportedMapper)
	}
}

func TestStepInstructionBRK(t *testing.T) {
	nes := testNES(t,
		0xA9, 0x10, // LDA #$10
		0xA9, 0x42, // LDA #$42
		0x00, // BRK
	)

	for range 3 {
		nes.StepInstruction()
	}

	if nes.CPU.A != 0x42 {
		t.Errorf("A = $%02X, want $42", nes.CPU.A)
	}
	if want := hw.P(hw.Break | hw.Unused); nes.CPU.P&want != want {
		t.Errorf("P = %s, want break and unused set", nes.CPU.P)
	}
	if nes.CPU.PC != irqHandler {
		t.Errorf("PC = $%04X, want $%04X", nes.CPU.PC, irqHandler)
	}

	// Return address is BRK+2, status was pushed with B set.
	stack := []uint8{nes.Bus.Peek8(0x01FD), nes.Bus.Peek8(0x01FC), nes.Bus.Peek8(0x01FB)}
	want := []uint8{0x80, 0x06, 0x34}
	for i := range want {
		if stack[i] != want[i] {
			t.Errorf("stack[%d] = $%02X, want $%02X", i, stack[i], want[i])
		}
	}
}

func TestRunFrame(t *testing.T) {
	nes := testNES(t,
		0x4C, 0x00, 0x80, // JMP $8000
	)

	const ticksPerFrame = hw.NumCycles * hw.NumScanlines
	for i := 1; i <= 3; i++ {
		nes.RunFrame()
		if got := nes.Bus.SystemClock(); got != uint64(i*ticksPerFrame) {
			t.Errorf("after frame %d, system clock = %d, want %d", i, got, i*ticksPerFrame)
		}
		if nes.PPU.FrameComplete() {
			t.Errorf("after frame %d, frame complete flag still set", i)
		}
	}
	if nes.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", nes.Frames())
	}
}

func TestVBlankNMI(t *testing.T) {
	nes := testNES(t,
		0xA9, 0x80, // LDA #$80
		0x8D, 0x00, 0x20, // STA $2000
		0x4C, 0x05, 0x80, // JMP $8005
	)

	for i := 1; i <= 3; i++ {
		nes.RunFrame()
		if nes.CPU.X != uint8(i) {
			t.Errorf("after frame %d, X = %d, want %d", i, nes.CPU.X, i)
		}
	}
}

func TestControllers(t *testing.T) {
	nes := testNES(t,
		0xA9, 0x01, // LDA #$01
		0x8D, 0x16, 0x40, // STA $4016
		0xA9, 0x00, // LDA #$00
		0x8D, 0x16, 0x40, // STA $4016
		0xAD, 0x16, 0x40, // LDA $4016 (A)
		0xAE, 0x16, 0x40, // LDX $4016 (B)
		0xAE, 0x16, 0x40, // LDX $4016 (Select)
		0xAC, 0x16, 0x40, // LDY $4016 (Start)
	)
	nes.SetController(0, hw.ButtonA|hw.ButtonStart)

	for range 8 {
		nes.StepInstruction()
	}

	if nes.CPU.A != 0x41 {
		t.Errorf("A = $%02X, want $41", nes.CPU.A)
	}
	if nes.CPU.X != 0x40 {
		t.Errorf("X = $%02X, want $40", nes.CPU.X)
	}
	if nes.CPU.Y != 0x41 {
		t.Errorf("Y = $%02X, want $41", nes.CPU.Y)
	}
}

func TestResets(t *testing.T) {
	nes := testNES(t,
		0x4C, 0x00, 0x80, // JMP $8000
	)
	nes.RunFrame()
	nes.Bus.Write8(0x0010, 0xAB)

	nes.Reset()
	if got := nes.Bus.Peek8(0x0010); got != 0xAB {
		t.Errorf("after reset, RAM[$10] = $%02X, want $AB", got)
	}
	if nes.CPU.PC != 0x8000 {
		t.Errorf("after reset, PC = $%04X, want $8000", nes.CPU.PC)
	}
	if nes.Frames() != 0 || nes.Bus.SystemClock() != 0 {
		t.Errorf("after reset, frames = %d, clock = %d, want 0", nes.Frames(), nes.Bus.SystemClock())
	}

	nes.PowerCycle()
	if got := nes.Bus.Peek8(0x0010); got != 0 {
		t.Errorf("after power cycle, RAM[$10] = $%02X, want $00", got)
	}
}

func TestInsertCartridge(t *testing.T) {
	nes := testNES(t,
		0x4C, 0x00, 0x80, // JMP $8000
	)

	cart, err := mappers.New(testRom(t, 0, 0xEA))
	if err != nil {
		t.Fatal(err)
	}
	nes.InsertCartridge(cart)
	if nes.Cart != cart {
		t.Fatalf("cartridge not swapped")
	}
	if got := nes.Bus.Peek8(0x8000); got != 0xEA {
		t.Errorf("$8000 = $%02X, want $EA", got)
	}

	nes.InsertCartridge(nil)
	if nes.Cart != cart {
		t.Errorf("nil cartridge should be ignored")
	}
}
