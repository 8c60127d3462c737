// Package imgconv converts host images to Amstrad CPC video data. The
// conversion depends on the screen mode:
//
//	mode 2: 640x200, 2 colours, 8 pixels per byte
//	mode 1: 320x200, 4 colours, 2 bits per pixel split across nibbles
//	mode 0: 160x200, 16 colours, 4 bits per pixel interleaved
//
// Input images are scaled to the mode resolution, quantized to the nearest
// of the 27 CPC firmware colours and packed into the CPC's interleaved
// byte layout.
package imgconv

import (
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/draw"
)

// Color is one entry of the CPC firmware palette: the hardware byte value
// written to the gate array and the RGB rendering used for matching.
type Color struct {
	HW      byte
	R, G, B uint8
}

// FirmwareColors is the full CPC palette indexed by firmware ink number
// (0-26), as used by the INK statement.
var FirmwareColors = [27]Color{
	{0x14, 0, 0, 0},       // Black
	{0x04, 0, 0, 128},     // Blue
	{0x15, 0, 0, 255},     // Bright Blue
	{0x1C, 128, 0, 0},     // Red
	{0x18, 128, 0, 128},   // Magenta
	{0x1D, 128, 0, 255},   // Mauve
	{0x0C, 255, 0, 0},     // Bright Red
	{0x05, 255, 0, 128},   // Purple
	{0x0D, 255, 0, 255},   // Bright Magenta
	{0x16, 0, 128, 0},     // Green
	{0x06, 0, 128, 128},   // Cyan
	{0x17, 0, 128, 255},   // Sky Blue
	{0x1E, 128, 128, 0},   // Yellow
	{0x00, 128, 128, 128}, // White
	{0x1F, 128, 128, 255}, // Pastel Blue
	{0x0E, 255, 128, 0},   // Orange
	{0x07, 255, 128, 128}, // Pink
	{0x0F, 255, 128, 255}, // Pastel Magenta
	{0x12, 0, 255, 0},     // Bright Green
	{0x02, 0, 255, 128},   // Sea Green
	{0x13, 0, 255, 255},   // Bright Cyan
	{0x1A, 128, 255, 0},   // Lime
	{0x19, 128, 255, 128}, // Pastel Green
	{0x1B, 128, 255, 255}, // Pastel Cyan
	{0x0A, 255, 255, 0},   // Bright Yellow
	{0x03, 255, 255, 128}, // Pastel Yellow
	{0x0B, 255, 255, 255}, // Bright White
}

// ModeSize reports the pixel resolution of a screen mode.
func ModeSize(mode int) (w, h int, err error) {
	switch mode {
	case 0:
		return 160, 200, nil
	case 1:
		return 320, 200, nil
	case 2:
		return 640, 200, nil
	}
	return 0, 0, fmt.Errorf("unknown screen mode %d", mode)
}

func colorsPerMode(mode int) int {
	switch mode {
	case 0:
		return 16
	case 1:
		return 4
	}
	return 2
}

// Image is a converted picture: one palette index per pixel plus the
// firmware inks the palette maps to.
type Image struct {
	Mode   int
	Width  int
	Height int
	Pixels []byte // palette indices, row-major
	Inks   []int  // palette entry -> firmware ink number
}

// Convert scales src to the mode resolution with nearest-neighbour
// sampling, picks the most frequent CPC colours as the palette and maps
// every pixel to its nearest palette entry.
func Convert(src image.Image, mode int) (*Image, error) {
	w, h, err := ModeSize(mode)
	if err != nil {
		return nil, err
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	// Histogram of nearest firmware colours across the whole image.
	var counts [27]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			counts[nearestFirmware(scaled.RGBAAt(x, y))]++
		}
	}
	type entry struct{ count, ink int }
	ranked := make([]entry, 0, 27)
	for ink, c := range counts {
		if c > 0 {
			ranked = append(ranked, entry{count: c, ink: ink})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].ink < ranked[j].ink
	})
	max := colorsPerMode(mode)
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	inks := make([]int, len(ranked))
	for i, e := range ranked {
		inks[i] = e.ink
	}

	img := &Image{Mode: mode, Width: w, Height: h, Pixels: make([]byte, w*h), Inks: inks}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pixels[y*w+x] = nearestPalette(scaled.RGBAAt(x, y), inks)
		}
	}
	return img, nil
}

func distance(c Color, r, g, b uint8) int {
	return abs(int(c.R)-int(r)) + abs(int(c.G)-int(g)) + abs(int(c.B)-int(b))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func nearestFirmware(px interface{ RGBA() (r, g, b, a uint32) }) int {
	r, g, b, _ := px.RGBA()
	best, bestDist := 0, 1<<30
	for ink, c := range FirmwareColors {
		d := distance(c, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		if d < bestDist {
			best, bestDist = ink, d
		}
	}
	return best
}

func nearestPalette(px interface{ RGBA() (r, g, b, a uint32) }, inks []int) byte {
	r, g, b, _ := px.RGBA()
	best, bestDist := 0, 1<<30
	for i, ink := range inks {
		d := distance(FirmwareColors[ink], uint8(r>>8), uint8(g>>8), uint8(b>>8))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return byte(best)
}

// HWPalette returns the hardware byte values of the image palette, the
// form assembly code feeds to the gate array.
func (img *Image) HWPalette() []byte {
	out := make([]byte, len(img.Inks))
	for i, ink := range img.Inks {
		out[i] = FirmwareColors[ink].HW
	}
	return out
}

// Packed returns the pixel data packed into the CPC's per-mode bit layout,
// rows in linear order.
func (img *Image) Packed() []byte {
	perByte := pixelsPerByte(img.Mode)
	data := make([]byte, len(img.Pixels)/perByte)
	for i, p := range img.Pixels {
		bi := i / perByte
		switch img.Mode {
		case 2:
			pos := 7 - uint(i%perByte)
			data[bi] |= (p & 0x01) << pos
		case 1:
			// high nibble carries bit 1 of each pixel, low nibble bit 0
			pos := uint(3 - i%perByte)
			data[bi] |= (p & 0x02) << (pos + 3)
			data[bi] |= (p & 0x01) << pos
		default: // mode 0
			pos := uint(1 - i%perByte)
			data[bi] |= (p & 0x01) << (6 + pos)
			data[bi] |= (p & 0x02) << (1 + pos)
			data[bi] |= (p & 0x04) << (2 + pos)
			data[bi] |= (p & 0x08) >> (3 - pos)
		}
	}
	return data
}

func pixelsPerByte(mode int) int {
	switch mode {
	case 2:
		return 8
	case 1:
		return 4
	}
	return 2
}

// Screen returns the packed data interleaved the way the CPC video memory
// expects it: eight blocks of 25 character rows, each block followed by 48
// bytes of padding, so that
//
//	address(line) = base + (line/8)*80 + (line%8)*2048
func (img *Image) Screen() []byte {
	data := img.Packed()
	const rowBytes = 80
	out := make([]byte, 0, 16384)
	padding := make([]byte, 48)
	for block := 0; block < 8; block++ {
		for row := 0; row < 25; row++ {
			start := (rowBytes*8)*row + rowBytes*block
			out = append(out, data[start:start+rowBytes]...)
		}
		out = append(out, padding...)
	}
	return out
}
