package emu

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"nescore/hw"
)

// toRGBA converts an ARGB bitmap of the given dimensions to an image.
func toRGBA(argb []uint32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, px := range argb[:width*height] {
		off := i * 4
		img.Pix[off+0] = uint8(px >> 16)
		img.Pix[off+1] = uint8(px >> 8)
		img.Pix[off+2] = uint8(px)
		img.Pix[off+3] = uint8(px >> 24)
	}
	return img
}

// Screenshot returns a copy of the last rendered frame.
func (nes *NES) Screenshot() *image.RGBA {
	return toRGBA(nes.PPU.Frame()[:], hw.ScreenWidth, hw.ScreenHeight)
}

// PatternTable returns the pattern table i (0 or 1) rendered with the given
// palette (0-7).
func (nes *NES) PatternTable(i, palette int) *image.RGBA {
	return toRGBA(nes.PPU.PatternTable(i, palette)[:], 128, 128)
}

// SaveAsPNG encodes img as a PNG file at path.
func SaveAsPNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
