package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
	"nescore/ines"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumCycles    = 341 // Number of PPU cycles per scanline.

	ScreenWidth  = 256
	ScreenHeight = 240
)

const (
	// PPUCTRL bits
	// $2000

	// Nametable selection mask
	// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
	ntselect = 0b11

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: +1 i.e. horizontal; 1: +32 i.e. vertical)
	vramIncr = 2

	// Sprite pattern table address for 8x8 sprites
	// (0: $0000; 1: $1000; ignored in 8x16 mode)
	spriteAddr = 3

	// Background pattern table address (0: $0000; 1: $1000)
	backgroundAddr = 4

	// Sprite size (0: 8x8 pixels; 1: 8x16 pixels – see byte 1 of OAM)
	spriteSize = 5

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	nmi = 7
)

const (
	// PPUMASK bits
	// $2001

	// Show background in leftmost 8 pixels of screen
	// 1: Show, 0: Hide
	leftmostBg = 1

	// Show sprites in leftmost 8 pixels of screen
	// 1: Show, 0: Hide
	leftmostSprites = 2

	// Show background
	showBg = 3

	// Show sprites
	showSprites = 4
)

const (
	// PPUSTATUS bits
	// $2002

	// Returns stale PPU bus contents.
	openbusMask = 0b11111

	// Sprite overflow, set when more than eight sprites appear on a
	// scanline. Cleared at dot 1 of the pre-render line.
	spriteOverflow = 5

	// Sprite 0 Hit.  Set when a nonzero pixel of sprite 0 overlaps
	// a nonzero background pixel; cleared at dot 1 of the pre-render
	// line.  Used for raster timing.
	sprite0Hit = 6

	// Vertical blank has started (0: not in vblank; 1: in vblank).
	// Set at dot 1 of line 241 (the line *after* the post-render
	// line); cleared after reading $2002 and at dot 1 of the
	// pre-render line.
	vblank = 7
)

const preRenderLine = 261

type PPU struct {
	cart Cartridge

	Cycle    int    // Current cycle/pixel in scanline
	Scanline int    // Current scanline being drawn
	Frames   uint64 // Number of completed frames

	// CPU-exposed memory-mapped PPU registers
	// mapped from $2000 to $2007, mirrored up to $3fff
	PPUCTRL   hwio.Reg8
	PPUMASK   hwio.Reg8
	PPUSTATUS hwio.Reg8
	OAMADDR   uint8

	// $2000-$23FF	$0400	Nametable 0
	// $2400-$27FF	$0400	Nametable 1
	// $2800-$2BFF	$0400	Nametable 2
	// $2C00-$2FFF	$0400	Nametable 3
	// $3000-$3EFF	$0F00	Mirrors of $2000-$2EFF
	//
	// Most cartridges only use the first 2KB, the rest is used by four-screen
	// cartridges.
	NameTables [0x1000]uint8

	// $3F00-$3F1F	$0020	Palette RAM indexes
	// $3F20-$3FFF	$00E0	Mirrors of $3F00-$3F1F
	Palettes [0x20]uint8

	// Object Attribute Memory, 64 sprites of 4 bytes.
	OAM [256]uint8

	// VRAM read/write
	vramAddr   loopy // v
	vramTmp    loopy // t
	finex      uint8
	writeLatch bool
	readBuf    uint8

	nmiLine       bool
	frameComplete bool

	// Scroll position at the start of each visible scanline.
	lineScroll [ScreenHeight]struct {
		v     loopy
		finex uint8
	}

	frame         [ScreenWidth * ScreenHeight]uint32
	patternTables [2][128 * 128]uint32
}

func NewPPU() *PPU {
	p := &PPU{}
	p.Reset()
	return p
}

// InsertCartridge connects the cartridge to the PPU bus.
func (p *PPU) InsertCartridge(cart Cartridge) {
	p.cart = cart
}

func (p *PPU) Reset() {
	p.Scanline = 0
	p.Cycle = 0
	p.PPUCTRL = hwio.Reg8{Name: "PPUCTRL"}
	p.PPUMASK = hwio.Reg8{Name: "PPUMASK"}
	p.PPUSTATUS.Name = "PPUSTATUS"
	p.writeLatch = false
	p.readBuf = 0
	p.finex = 0
	p.vramAddr = 0
	p.vramTmp = 0
	p.nmiLine = false
	p.frameComplete = false
}

// NMI reports whether the NMI output line is asserted.
func (p *PPU) NMI() bool { return p.nmiLine }

// ClearNMI lowers the NMI output line.
func (p *PPU) ClearNMI() { p.nmiLine = false }

// FrameComplete reports whether a frame has been completed since the last
// call to ClearFrameComplete.
func (p *PPU) FrameComplete() bool { return p.frameComplete }

func (p *PPU) ClearFrameComplete() { p.frameComplete = false }

// Frame returns the framebuffer, 256x240 ARGB pixels.
func (p *PPU) Frame() *[ScreenWidth * ScreenHeight]uint32 {
	return &p.frame
}

func (p *PPU) renderingEnabled() bool {
	return p.PPUMASK.GetBit(showBg) || p.PPUMASK.GetBit(showSprites)
}

// Clock runs the PPU for one dot.
func (p *PPU) Clock() {
	switch {
	case p.Scanline < ScreenHeight:
		p.visibleLine()
	case p.Scanline == 241:
		if p.Cycle == 1 {
			p.PPUSTATUS.SetBit(vblank)
			if p.PPUCTRL.GetBit(nmi) {
				p.nmiLine = true
			}
		}
	case p.Scanline == preRenderLine:
		p.preRenderLine()
	}

	p.Cycle++
	if p.Cycle >= NumCycles {
		p.Cycle = 0
		p.Scanline++
		if p.Scanline >= NumScanlines {
			p.Scanline = 0
			p.Frames++
			p.frameComplete = true
		}
	}
}

func (p *PPU) visibleLine() {
	switch p.Cycle {
	case 1:
		p.lineScroll[p.Scanline].v = p.vramAddr
		p.lineScroll[p.Scanline].finex = p.finex
	case 256:
		p.renderLine(p.Scanline)
		if p.renderingEnabled() {
			p.vramAddr.incrementY()
		}
	case 257:
		if p.renderingEnabled() {
			p.vramAddr.copyHorz(p.vramTmp)
		}
	}
}

func (p *PPU) preRenderLine() {
	switch {
	case p.Cycle == 1:
		// Clear vblank, sprite0Hit and spriteOverflow
		const mask = 1<<vblank | 1<<sprite0Hit | 1<<spriteOverflow
		p.PPUSTATUS.ClearBits(mask)
		p.nmiLine = false
	case p.Cycle == 257:
		if p.renderingEnabled() {
			p.vramAddr.copyHorz(p.vramTmp)
		}
	case p.Cycle >= 280 && p.Cycle <= 304:
		if p.renderingEnabled() {
			p.vramAddr.copyVert(p.vramTmp)
		}
	}
}

/* PPU bus */

func (p *PPU) mirroring() ines.NTMirroring {
	if p.cart == nil {
		return ines.HorzMirroring
	}
	return p.cart.Mirroring()
}

// mirrorNametable maps a nametable address ($2000-$3EFF) to an offset in the
// 4KB nametable memory.
func mirrorNametable(addr uint16, m ines.NTMirroring) uint16 {
	addr &= 0x0FFF
	table := addr / 0x400
	switch m {
	case ines.HorzMirroring:
		table >>= 1
	case ines.VertMirroring:
		table &= 1
	case ines.OnlyAScreen:
		table = 0
	case ines.OnlyBScreen:
		table = 1
	}
	return table*0x400 | addr&0x3FF
}

func (p *PPU) ntIndex(addr uint16) uint16 {
	return mirrorNametable(addr, p.mirroring())
}

// read reads from the PPU address space. Cartridge reads may have side
// effects on the mapper state.
func (p *PPU) read(addr uint16) uint8 {
	addr &= 0x3FFF
	if p.cart != nil {
		if val, ok := p.cart.PPURead(addr); ok {
			return val
		}
	}
	return p.readInternal(addr)
}

// peek reads from the PPU address space, without side effects.
func (p *PPU) peek(addr uint16) uint8 {
	addr &= 0x3FFF
	if p.cart != nil {
		if val, ok := p.cart.PPUPeek(addr); ok {
			return val
		}
	}
	return p.readInternal(addr)
}

func (p *PPU) readInternal(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return 0
	case addr < 0x3F00:
		return p.NameTables[p.ntIndex(addr)]
	}
	return p.Palettes[paletteIndex(addr)]
}

func (p *PPU) write(addr uint16, val uint8) {
	addr &= 0x3FFF
	if p.cart != nil && p.cart.PPUWrite(addr, val) {
		return
	}

	switch {
	case addr < 0x2000:
		log.ModPPU.DebugZ("write to CHR ROM").Hex16("addr", addr).Hex8("val", val).End()
	case addr < 0x3F00:
		p.NameTables[p.ntIndex(addr)] = val
	default:
		p.Palettes[paletteIndex(addr)] = val & 0x3F
	}
}

/* CPU-exposed registers */

// ReadRegister reads one of the 8 PPU registers ($2000-$2007, mirrored up
// to $3FFF).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 7 {
	case 2:
		return p.readPPUSTATUS()
	case 4:
		return p.OAM[p.OAMADDR]
	case 7:
		return p.readPPUDATA()
	}
	return 0
}

// PeekRegister is like ReadRegister, without side effects.
func (p *PPU) PeekRegister(addr uint16) uint8 {
	switch addr & 7 {
	case 2:
		return p.PPUSTATUS.Value&^openbusMask | p.readBuf&openbusMask
	case 4:
		return p.OAM[p.OAMADDR]
	case 7:
		vaddr := p.vramAddr.addr()
		if vaddr >= 0x3F00 {
			return p.peek(vaddr)
		}
		return p.readBuf
	}
	return 0
}

// WriteRegister writes to one of the 8 PPU registers ($2000-$2007, mirrored
// up to $3FFF).
func (p *PPU) WriteRegister(addr uint16, val uint8) {
	switch addr & 7 {
	case 0:
		p.writePPUCTRL(val)
	case 1:
		log.ModPPU.DebugZ("Write to PPUMASK").Hex8("val", val).End()
		p.PPUMASK.Value = val
	case 2:
		// read-only
	case 3:
		p.OAMADDR = val
	case 4:
		p.OAM[p.OAMADDR] = val
		p.OAMADDR++
	case 5:
		p.writePPUSCROLL(val)
	case 6:
		p.writePPUADDR(val)
	case 7:
		p.writePPUDATA(val)
	}
}

// WriteOAMDMA writes a byte transferred by OAM DMA at the current OAM
// address.
func (p *PPU) WriteOAMDMA(val uint8) {
	p.OAM[p.OAMADDR] = val
	p.OAMADDR++
}

// PPUCTRL: $2000
func (p *PPU) writePPUCTRL(val uint8) {
	log.ModPPU.DebugZ("Write to PPUCTRL").Hex8("val", val).End()

	prev := p.PPUCTRL.GetBit(nmi)
	p.PPUCTRL.Value = val

	// Enabling NMI while in vblank immediately generates an NMI.
	if !prev && p.PPUCTRL.GetBit(nmi) && p.PPUSTATUS.GetBit(vblank) {
		p.nmiLine = true
	}

	// Transfer the nametable bits.
	p.vramTmp.setNametable(val & ntselect)
}

// PPUSTATUS: $2002
func (p *PPU) readPPUSTATUS() uint8 {
	ret := p.PPUSTATUS.Value&^openbusMask | p.readBuf&openbusMask
	p.PPUSTATUS.ClearBit(vblank)
	p.writeLatch = false
	return ret
}

// PPUSCROLL: $2005
func (p *PPU) writePPUSCROLL(val uint8) {
	log.ModPPU.DebugZ("Write to PPUSCROLL").Hex8("val", val).Bool("latch", p.writeLatch).End()

	if !p.writeLatch { // first write
		p.finex = val & 0b111
		p.vramTmp &^= 0b1_1111
		p.vramTmp |= loopy(val >> 3)
	} else { // second write
		p.vramTmp &^= 0b0111_0011_1110_0000
		p.vramTmp |= loopy(val&0b111) << 12
		p.vramTmp |= loopy(val&0b1111_1000) << 2
	}

	p.writeLatch = !p.writeLatch
}

// To read/write VRAM from CPU, PPUADDR is set to the address of the operation.
// It's a 16-bit register so 2 writes are necessary.
// PPUADDR: $2006
func (p *PPU) writePPUADDR(val uint8) {
	if !p.writeLatch { // first write
		p.vramTmp &^= 0b11_1111_0000_0000
		p.vramTmp |= loopy(val&0b11_1111) << 8
		p.vramTmp &^= 1 << 14 // clear z bit
	} else { // second write
		p.vramTmp &^= 0xff
		p.vramTmp |= loopy(val)
		p.vramAddr = p.vramTmp
	}

	p.writeLatch = !p.writeLatch
}

// PPUDATA: $2007
func (p *PPU) readPPUDATA() uint8 {
	addr := p.vramAddr.addr()

	var val uint8
	if addr < 0x3F00 {
		// Reading VRAM is too slow so the actual data
		// will be returned at the next read.
		val = p.readBuf
		p.readBuf = p.read(addr)
	} else {
		// Reading palette data is immediate, the read buffer gets the
		// nametable byte 'under' the palette.
		val = p.read(addr)
		p.readBuf = p.read(addr - 0x1000)
	}

	p.incVRAMaddr()
	log.ModPPU.DebugZ("VRAM read").Hex16("addr", addr).Hex8("val", val).End()
	return val
}

// PPUDATA: $2007
func (p *PPU) writePPUDATA(val uint8) {
	addr := p.vramAddr.addr()
	p.write(addr, val)
	p.incVRAMaddr()

	log.ModPPU.DebugZ("VRAM write").Hex16("addr", addr).Hex8("val", val).End()
}

// After each i/o on PPUDATA, PPUADDR is incremented.
func (p *PPU) incVRAMaddr() {
	incr := loopy(1)
	if p.PPUCTRL.GetBit(vramIncr) {
		incr = 32
	}
	p.vramAddr = (p.vramAddr + incr) & 0x7FFF
}
