package hw

import "nescore/emu/log"

// renderLine renders a whole scanline into the framebuffer, using the scroll
// position captured at the start of the line. Pattern fetches go through the
// cartridge in the order the PPU performs them: background tiles first, then
// sprites.
func (p *PPU) renderLine(y int) {
	line := p.frame[y*ScreenWidth : (y+1)*ScreenWidth]
	backdrop := nesColors[p.Palettes[0]&0x3F]

	// bgPixels holds the palette RAM index of background pixels, 0 for
	// transparent ones.
	var bgPixels [ScreenWidth]uint8
	if p.PPUMASK.GetBit(showBg) {
		p.renderBackground(y, &bgPixels)
	}

	for x := range line {
		if bgPixels[x] != 0 {
			line[x] = nesColors[p.Palettes[bgPixels[x]]&0x3F]
		} else {
			line[x] = backdrop
		}
	}

	if p.renderingEnabled() {
		p.renderSprites(y, line, &bgPixels)
	}
}

func (p *PPU) renderBackground(y int, pixels *[ScreenWidth]uint8) {
	v := p.lineScroll[y].v
	finex := int(p.lineScroll[y].finex)

	var table uint16
	if p.PPUCTRL.GetBit(backgroundAddr) {
		table = 0x1000
	}

	// 33 tiles are fetched to cover the fine x scroll.
	for tile := 0; tile < 33; tile++ {
		addr := v.addr()
		tileIdx := p.read(0x2000 | addr&0x0FFF)

		// Each attribute byte describes a 4x4 tiles area, 2 bits per 2x2
		// tiles quadrant.
		attr := p.read(0x23C0 | addr&0x0C00 | (addr>>4)&0x38 | (addr>>2)&0x07)
		shift := (addr>>4)&0x04 | addr&0x02
		pal := (attr >> shift) & 0x03

		ptaddr := table + uint16(tileIdx)*16 + uint16(v.finey())
		lo := p.read(ptaddr)
		hi := p.read(ptaddr + 8)

		for col := 0; col < 8; col++ {
			x := tile*8 + col - finex
			if x < 0 || x >= ScreenWidth {
				continue
			}
			bit := 7 - col
			px := (hi>>bit&1)<<1 | lo>>bit&1
			if px != 0 {
				pixels[x] = pal<<2 | px
			}
		}

		v.incrementX()
	}

	if !p.PPUMASK.GetBit(leftmostBg) {
		clear(pixels[:8])
	}
}

const maxSpritesPerLine = 8

func (p *PPU) renderSprites(y int, line []uint32, bgPixels *[ScreenWidth]uint8) {
	height := 8
	if p.PPUCTRL.GetBit(spriteSize) {
		height = 16
	}

	var table uint16
	if p.PPUCTRL.GetBit(spriteAddr) {
		table = 0x1000
	}

	showBackground := p.PPUMASK.GetBit(showBg)
	showSprite := p.PPUMASK.GetBit(showSprites)

	// A pixel is claimed by the first opaque sprite pixel in OAM order, even
	// if that sprite is behind the background.
	var claimed [ScreenWidth]bool
	count := 0

	for i := 0; i < 64; i++ {
		sprite := p.OAM[i*4 : i*4+4]
		row := y - (int(sprite[0]) + 1)
		if row < 0 || row >= height {
			continue
		}

		count++
		if count > maxSpritesPerLine && !p.PPUSTATUS.GetBit(spriteOverflow) {
			p.PPUSTATUS.SetBit(spriteOverflow)
			log.ModPPU.DebugZ("sprite overflow").Int("scanline", y).End()
		}
		if !showSprite {
			continue
		}

		tileIdx := sprite[1]
		attr := sprite[2]
		flipH := attr&0x40 != 0
		flipV := attr&0x80 != 0
		behind := attr&0x20 != 0
		pal := 0x10 | (attr&0x03)<<2

		if flipV {
			row = height - 1 - row
		}

		var ptaddr uint16
		if height == 8 {
			ptaddr = table + uint16(tileIdx)*16
		} else {
			// 8x16 sprites use the pattern table selected by the low bit of
			// the tile index, the top half is the even tile.
			ptaddr = uint16(tileIdx&1)*0x1000 + uint16(tileIdx&0xFE)*16
			if row >= 8 {
				ptaddr += 16
			}
		}
		ptaddr += uint16(row & 7)

		lo := p.read(ptaddr)
		hi := p.read(ptaddr + 8)

		for col := 0; col < 8; col++ {
			x := int(sprite[3]) + col
			if x >= ScreenWidth {
				break
			}
			if x < 8 && !p.PPUMASK.GetBit(leftmostSprites) {
				continue
			}

			bit := 7 - col
			if flipH {
				bit = col
			}
			px := (hi>>bit&1)<<1 | lo>>bit&1
			if px == 0 || claimed[x] {
				continue
			}
			claimed[x] = true

			bgOpaque := bgPixels[x] != 0
			if i == 0 && bgOpaque && showBackground && x != 255 {
				if !p.PPUSTATUS.GetBit(sprite0Hit) {
					p.PPUSTATUS.SetBit(sprite0Hit)
					log.ModPPU.DebugZ("sprite 0 hit").Int("x", x).Int("y", y).End()
				}
			}

			if behind && bgOpaque {
				continue
			}
			line[x] = nesColors[p.Palettes[pal|px]&0x3F]
		}
	}
}

// PatternTable renders one of the 2 pattern tables (0 or 1) as a 128x128
// pixels bitmap, using one of the 8 palettes (0-3 for background, 4-7 for
// sprites). Reads have no side effects on the cartridge.
func (p *PPU) PatternTable(i, palette int) *[128 * 128]uint32 {
	i &= 1
	pt := &p.patternTables[i]
	pal := uint16(palette&7) * 4

	for tileY := 0; tileY < 16; tileY++ {
		for tileX := 0; tileX < 16; tileX++ {
			addr := uint16(i)*0x1000 + uint16(tileY*16+tileX)*16
			for row := 0; row < 8; row++ {
				lo := p.peek(addr + uint16(row))
				hi := p.peek(addr + uint16(row) + 8)
				for col := 0; col < 8; col++ {
					bit := 7 - col
					px := uint16((hi>>bit&1)<<1 | lo>>bit&1)
					color := p.Palettes[paletteIndex(pal+px)] & 0x3F
					pt[(tileY*8+row)*128+tileX*8+col] = nesColors[color]
				}
			}
		}
	}
	return pt
}
