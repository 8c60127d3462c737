package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"basc/pkg/basic"
)

const (
	exitOK = iota
	exitDiagnostic
	exitIO
	exitUsage
)

func main() {
	fs := flag.NewFlagSet("basc", flag.ContinueOnError)
	output := fs.String("output", "", "path of the generated .asm file (default: source name with .asm)")
	orgText := fs.String("org", "&4000", "load address of the code area (&hex, 0xhex or decimal)")
	verbose := fs.Bool("verbose", false, "print compilation progress to stdout")
	listing := fs.Bool("listing", false, "also write a numbered .lst listing")
	mapFile := fs.Bool("map", false, "also write a .map symbol map")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: basc <source.bas> [--output <path>] [--org <addr>] [--verbose] [--listing] [--map]")
		fs.PrintDefaults()
	}

	// Accept the source operand in any position relative to the flags.
	var flags, operands []string
	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "-") {
			flags = append(flags, arg)
		} else if len(flags) > 0 && needsValue(flags[len(flags)-1]) {
			flags = append(flags, arg)
		} else {
			operands = append(operands, arg)
		}
	}
	if err := fs.Parse(flags); err != nil {
		os.Exit(exitUsage)
	}
	operands = append(operands, fs.Args()...)
	if len(operands) != 1 {
		fs.Usage()
		os.Exit(exitUsage)
	}

	org, err := parseOrg(*orgText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "basc: %v\n", err)
		os.Exit(exitUsage)
	}

	opts := basic.Options{
		Input:   operands[0],
		Output:  *output,
		Org:     org,
		Verbose: *verbose,
		Listing: *listing,
		Map:     *mapFile,
	}
	if *verbose {
		fmt.Printf("compiling %s (org &%04X)\n", opts.Input, org)
	}

	out, err := basic.CompileFile(opts)
	if err != nil {
		if d, ok := err.(*basic.Diagnostic); ok {
			fmt.Fprintln(os.Stderr, d.Error())
			os.Exit(exitDiagnostic)
		}
		fmt.Fprintf(os.Stderr, "basc: %v\n", err)
		os.Exit(exitIO)
	}
	for _, w := range out.Warnings {
		fmt.Fprintln(os.Stderr, w.Error())
	}
	if *verbose {
		fmt.Printf("%d lines, %d library routines\n", len(out.Lines), len(out.Library))
	}
	os.Exit(exitOK)
}

func needsValue(flagArg string) bool {
	name := strings.TrimLeft(flagArg, "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		return false
	}
	return name == "output" || name == "org"
}

// parseOrg accepts &4000, 0x4000 or plain decimal.
func parseOrg(s string) (int, error) {
	text := strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(text, "&"):
		text = text[1:]
		base = 16
	case strings.HasPrefix(strings.ToLower(text), "0x"):
		text = text[2:]
		base = 16
	}
	v, err := strconv.ParseUint(text, base, 32)
	if err != nil || v > 0xFFFF {
		return 0, fmt.Errorf("invalid org address %q", s)
	}
	return int(v), nil
}
