package emu

import (
	"errors"
	"fmt"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/apu"
	"nescore/hw/mappers"
	"nescore/ines"
)

// ErrNoCartridge is returned when trying to power up a console without a
// cartridge.
var ErrNoCartridge = errors.New("no cartridge")

// NES is the console. It owns all hardware components, the bus only holds
// references to them.
type NES struct {
	CPU hw.CPU
	PPU hw.PPU
	APU apu.APU
	Bus hw.Bus

	Cart *mappers.Cartridge

	frames uint64
}

// Load builds a cartridge from rom and powers up a console with it.
func Load(rom *ines.Rom, acfg apu.Config) (*NES, error) {
	if rom == nil {
		return nil, ErrNoCartridge
	}
	cart, err := mappers.New(rom)
	if err != nil {
		log.ModEmu.ErrorZ("invalid cartridge").Uint16("mapper", rom.Mapper()).Error("err", err).End()
		return nil, fmt.Errorf("invalid cartridge: %w", err)
	}
	return PowerUp(cart, acfg)
}

// PowerUp wires the hardware components together, inserts the cartridge and
// performs a hard reset.
func PowerUp(cart *mappers.Cartridge, acfg apu.Config) (*NES, error) {
	if cart == nil {
		return nil, ErrNoCartridge
	}

	nes := &NES{}
	nes.CPU = *hw.NewCPU(&nes.Bus)
	nes.PPU = *hw.NewPPU()
	nes.APU = *apu.New(acfg)
	nes.Bus.Connect(&nes.CPU, &nes.PPU, &nes.APU)

	nes.InsertCartridge(cart)

	log.ModEmu.InfoZ("power up").
		Uint16("mapper", cart.MapperID()).
		String("name", cart.MapperName()).
		End()
	return nes, nil
}

// InsertCartridge swaps the current cartridge for cart, then resets the
// console. A nil cartridge is ignored.
func (nes *NES) InsertCartridge(cart *mappers.Cartridge) {
	if cart == nil {
		log.ModEmu.WarnZ("ignoring nil cartridge").End()
		return
	}

	nes.Cart = cart
	nes.Bus.InsertCartridge(cart)
	nes.Cart.Reset()
	nes.Reset()
}

// Reset performs a reset of all components, as does the reset button. RAM
// content is preserved.
func (nes *NES) Reset() {
	nes.Bus.Reset()
	nes.PPU.Reset()
	nes.APU.Reset()
	nes.CPU.Reset()
	nes.frames = 0

	log.ModEmu.InfoZ("reset").Hex16("PC", nes.CPU.PC).End()
}

// PowerCycle turns the console off and on again. Unlike Reset, RAM content
// and the cartridge state are lost.
func (nes *NES) PowerCycle() {
	nes.Bus.RAM.Reset()
	nes.Cart.Reset()
	nes.Reset()
}

// Clock advances the system by one master clock tick.
func (nes *NES) Clock() {
	nes.Bus.Clock()
}

// RunFrame clocks the system until the PPU completes a frame.
func (nes *NES) RunFrame() {
	for !nes.PPU.FrameComplete() {
		nes.Bus.Clock()
	}
	nes.PPU.ClearFrameComplete()
	nes.frames++
}

// StepInstruction clocks the system until the CPU completes the current
// instruction, or the next one if the CPU is between instructions.
func (nes *NES) StepInstruction() {
	// Finish the instruction in progress.
	for !nes.CPU.Complete() {
		nes.Bus.Clock()
	}

	instrs := nes.CPU.Instrs
	for nes.CPU.Instrs == instrs || !nes.CPU.Complete() {
		nes.Bus.Clock()
	}
}

// SetController sets the buttons pressed on the controller of the given
// player (0 or 1).
func (nes *NES) SetController(player int, buttons uint8) {
	nes.Bus.SetController(player, buttons)
}

// Frame returns the framebuffer of the last rendered frame.
func (nes *NES) Frame() *[hw.ScreenWidth * hw.ScreenHeight]uint32 {
	return nes.PPU.Frame()
}

// Frames returns the number of frames run since the last reset.
func (nes *NES) Frames() uint64 { return nes.frames }
