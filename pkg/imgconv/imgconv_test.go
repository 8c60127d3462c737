package imgconv

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestModeSize(t *testing.T) {
	tests := []struct {
		mode, w, h int
		wantErr    bool
	}{
		{mode: 0, w: 160, h: 200},
		{mode: 1, w: 320, h: 200},
		{mode: 2, w: 640, h: 200},
		{mode: 3, wantErr: true},
	}
	for _, tt := range tests {
		w, h, err := ModeSize(tt.mode)
		if (err != nil) != tt.wantErr {
			t.Errorf("ModeSize(%d) error = %v", tt.mode, err)
			continue
		}
		if !tt.wantErr && (w != tt.w || h != tt.h) {
			t.Errorf("ModeSize(%d) = %dx%d, want %dx%d", tt.mode, w, h, tt.w, tt.h)
		}
	}
}

func TestConvertSolidBlack(t *testing.T) {
	img, err := Convert(solid(64, 64, color.RGBA{A: 255}), 1)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 320 || img.Height != 200 {
		t.Fatalf("scaled to %dx%d", img.Width, img.Height)
	}
	if len(img.Inks) != 1 || img.Inks[0] != 0 {
		t.Fatalf("palette = %v, want [0] (black)", img.Inks)
	}
	if img.HWPalette()[0] != 0x14 {
		t.Errorf("hardware black = &%02X, want &14", img.HWPalette()[0])
	}
	for _, p := range img.Pixels {
		if p != 0 {
			t.Fatal("non-palette-0 pixel in a solid image")
		}
	}
}

func TestConvertPaletteCap(t *testing.T) {
	// A vertical rainbow exceeds mode 2's two inks; the palette must cap.
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	colors := []color.RGBA{
		{0, 0, 0, 255}, {255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255},
		{255, 255, 0, 255}, {0, 255, 255, 255}, {255, 0, 255, 255}, {255, 255, 255, 255},
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, colors[y])
		}
	}
	out, err := Convert(img, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Inks) != 2 {
		t.Errorf("mode 2 palette has %d entries, want 2", len(out.Inks))
	}
	for _, p := range out.Pixels {
		if int(p) >= len(out.Inks) {
			t.Fatal("pixel index outside the capped palette")
		}
	}
}

func TestPackedMode2(t *testing.T) {
	img := &Image{Mode: 2, Width: 8, Height: 1, Pixels: []byte{1, 0, 1, 0, 1, 0, 1, 0}, Inks: []int{0, 26}}
	data := img.Packed()
	if len(data) != 1 {
		t.Fatalf("packed %d bytes, want 1", len(data))
	}
	if data[0] != 0xAA {
		t.Errorf("mode 2 packing = &%02X, want &AA", data[0])
	}
}

func TestPackedMode1(t *testing.T) {
	// one byte: pixels 3,2,1,0 -> bit1 in the high nibble, bit0 in the low
	img := &Image{Mode: 1, Width: 4, Height: 1, Pixels: []byte{3, 2, 1, 0}, Inks: []int{0, 1, 2, 3}}
	data := img.Packed()
	// pixel0=3: bits 7 and 3; pixel1=2: bit 6; pixel2=1: bit 1
	want := byte(0x80 | 0x08 | 0x40 | 0x02)
	if data[0] != want {
		t.Errorf("mode 1 packing = &%02X, want &%02X", data[0], want)
	}
}

func TestPackedMode0(t *testing.T) {
	// pixel0=15, pixel1=0: all four pixel-0 bits set
	img := &Image{Mode: 0, Width: 2, Height: 1, Pixels: []byte{15, 0}, Inks: make([]int, 16)}
	data := img.Packed()
	want := byte(0x80 | 0x08 | 0x20 | 0x02) // b0->7, b1->3, b2->5, b3->1
	if data[0] != want {
		t.Errorf("mode 0 packing = &%02X, want &%02X", data[0], want)
	}
}

func TestScreenInterleave(t *testing.T) {
	px := make([]byte, 320*200)
	img := &Image{Mode: 1, Width: 320, Height: 200, Pixels: px, Inks: []int{0}}
	scn := img.Screen()
	if len(scn) != 16384 {
		t.Errorf("screen image is %d bytes, want 16384", len(scn))
	}
}
