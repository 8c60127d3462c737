package basic

import (
	"os"
	"path/filepath"
)

// Options configures one compilation.
type Options struct {
	Input   string // source path (used for diagnostics and default outputs)
	Output  string // .asm path; empty derives from Input
	Org     int    // load address of the code area
	Verbose bool
	Listing bool // also write a numbered .lst listing
	Map     bool // also write a .map symbol map
}

const DefaultOrg = 0x4000

// Output bundles everything one compilation produces. Warnings are
// non-fatal and already formatted with source positions.
type Output struct {
	Asm      string
	Listing  string
	Map      string
	Warnings []*Diagnostic
	Lines    []*Line
	Symbols  *SymbolTable
	Library  []string
}

// Build runs the full pipeline over in-memory source text: preprocessor,
// lexer, parser, code generator, listing and map rendering. filename is
// only stamped into diagnostics. Diagnostics come back as *Diagnostic
// errors; anything else is an I/O-level failure.
func Build(src, filename, baseDir string, org int) (*Output, error) {
	pp, err := Preprocess(src, baseDir)
	if err != nil {
		return nil, errorAt(1, 1, SyntaxError, "%s", err.Error()).withFile(filename)
	}
	tokens, err := Lex([]byte(pp))
	if err != nil {
		return nil, stampFile(err, filename)
	}
	lines, syms, err := Parse(tokens, pp)
	if err != nil {
		return nil, stampFile(err, filename)
	}
	result, err := Generate(lines, syms, org)
	if err != nil {
		return nil, stampFile(err, filename)
	}
	for _, w := range result.Warnings {
		w.File = filename
	}
	out := &Output{
		Asm:      result.Asm,
		Warnings: result.Warnings,
		Lines:    lines,
		Symbols:  syms,
		Library:  result.Library,
	}
	out.Listing = renderListing(result.Asm)
	out.Map = renderMap(out)
	return out, nil
}

func (d *Diagnostic) withFile(name string) *Diagnostic {
	d.File = name
	return d
}

func stampFile(err error, name string) error {
	if d, ok := err.(*Diagnostic); ok {
		return d.withFile(name)
	}
	return err
}

// CompileFile reads the source, builds it and writes the .asm output (plus
// optional listing and map). Output files are written to a temporary path
// and renamed into place; a fatal diagnostic leaves nothing behind.
func CompileFile(opts Options) (*Output, error) {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, err
	}
	if opts.Org == 0 {
		opts.Org = DefaultOrg
	}
	out, err := Build(string(data), opts.Input, filepath.Dir(opts.Input), opts.Org)
	if err != nil {
		return nil, err
	}

	asmPath := opts.Output
	if asmPath == "" {
		asmPath = stripExt(opts.Input) + ".asm"
	}
	if err := writeAtomic(asmPath, []byte(out.Asm)); err != nil {
		return nil, err
	}
	if opts.Listing {
		if err := writeAtomic(stripExt(asmPath)+".lst", []byte(out.Listing)); err != nil {
			return nil, err
		}
	}
	if opts.Map {
		if err := writeAtomic(stripExt(asmPath)+".map", []byte(out.Map)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func stripExt(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)]
}

// writeAtomic writes to a sibling temporary file and renames it over the
// target so readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
