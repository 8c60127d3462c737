package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"

	"basc/pkg/imgconv"
)

func main() {
	mode := flag.Int("mode", 0, "screen mode (0, 1 or 2)")
	format := flag.String("format", "bin", "output format: bin, asm or scn")
	name := flag.String("name", "", "symbol/file base name (default: input name)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: imgconv <image> [--mode <0|1|2>] [--format <bin|asm|scn>] [--name <base>]")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(3)
	}
	input := flag.Arg(0)

	f, err := os.Open(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgconv: %v\n", err)
		os.Exit(2)
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgconv: cannot decode %s: %v\n", input, err)
		os.Exit(2)
	}

	img, err := imgconv.Convert(src, *mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgconv: %v\n", err)
		os.Exit(1)
	}

	base := *name
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	switch *format {
	case "bin":
		err = os.WriteFile(base+".bin", img.Packed(), 0644)
	case "scn":
		err = os.WriteFile(base+".scn", img.Screen(), 0644)
	case "asm":
		err = os.WriteFile(base+".asm", []byte(renderAsm(filepath.Base(base), img)), 0644)
	default:
		fmt.Fprintf(os.Stderr, "imgconv: unknown format %q (want bin, asm or scn)\n", *format)
		os.Exit(3)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgconv: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("mode %d, %dx%d, %d colours -> %s.%s\n",
		img.Mode, img.Width, img.Height, len(img.Inks), base, *format)
}

// renderAsm emits the palette and pixel data as db directives in the same
// Maxam-style syntax the compiler outputs.
func renderAsm(name string, img *imgconv.Image) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; mode %d, width %d, height %d\n\n", img.Mode, img.Width, img.Height)
	fmt.Fprintf(&sb, "%s_pal:\n\tdb %s\n\n", name, hexRow(img.HWPalette()))
	fmt.Fprintf(&sb, "%s_img:\n", name)
	data := img.Packed()
	for len(data) > 0 {
		row := data
		if len(row) > 16 {
			row = row[:16]
		}
		fmt.Fprintf(&sb, "\tdb %s\n", hexRow(row))
		data = data[len(row):]
	}
	return sb.String()
}

func hexRow(bytes []byte) string {
	parts := make([]string, len(bytes))
	for i, b := range bytes {
		parts[i] = fmt.Sprintf("&%02X", b)
	}
	return strings.Join(parts, ",")
}
