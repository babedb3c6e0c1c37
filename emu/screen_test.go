package emu

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"nescore/hw"
)

func TestToRGBA(t *testing.T) {
	argb := []uint32{
		0xFF102030, 0x80FFFFFF,
		0x00000000, 0xFFABCDEF,
	}
	img := toRGBA(argb, 2, 2)

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{0x10, 0x20, 0x30, 0xFF}},
		{1, 0, color.RGBA{0xFF, 0xFF, 0xFF, 0x80}},
		{0, 1, color.RGBA{0x00, 0x00, 0x00, 0x00}},
		{1, 1, color.RGBA{0xAB, 0xCD, 0xEF, 0xFF}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestScreenshot(t *testing.T) {
	nes := testNES(t,
		0x4C, 0x00, 0x80, // JMP $8000
	)
	nes.RunFrame()

	img := nes.Screenshot()
	if got, want := img.Bounds(), image.Rect(0, 0, hw.ScreenWidth, hw.ScreenHeight); got != want {
		t.Fatalf("screenshot bounds = %v, want %v", got, want)
	}

	px := nes.Frame()[0]
	want := color.RGBA{uint8(px >> 16), uint8(px >> 8), uint8(px), uint8(px >> 24)}
	if got := img.RGBAAt(0, 0); got != want {
		t.Errorf("screenshot pixel (0,0) = %v, want %v", got, want)
	}

	if got := nes.PatternTable(1, 0).Bounds(); got != image.Rect(0, 0, 128, 128) {
		t.Errorf("pattern table bounds = %v, want 128x128", got)
	}
}

func TestSaveAsPNG(t *testing.T) {
	img := toRGBA([]uint32{0xFF112233, 0xFF445566}, 2, 1)
	path := filepath.Join(t.TempDir(), "screenshot.png")

	if err := SaveAsPNG(img, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	for x := range 2 {
		r0, g0, b0, a0 := img.At(x, 0).RGBA()
		r1, g1, b1, a1 := decoded.At(x, 0).RGBA()
		if r0 != r1 || g0 != g1 || b0 != b1 || a0 != a1 {
			t.Errorf("pixel %d = %v, want %v", x, decoded.At(x, 0), img.At(x, 0))
		}
	}
}
