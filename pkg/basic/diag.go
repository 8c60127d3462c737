package basic

import "fmt"

// DiagKind classifies a diagnostic.
type DiagKind int

const (
	LexError DiagKind = iota
	SyntaxError
	TypeError
	UnresolvedLabel
	NestingError
	RangeError
	UnsupportedFeature
)

var diagKindNames = [...]string{
	LexError:           "LexError",
	SyntaxError:        "SyntaxError",
	TypeError:          "TypeError",
	UnresolvedLabel:    "UnresolvedLabel",
	NestingError:       "NestingError",
	RangeError:         "RangeError",
	UnsupportedFeature: "UnsupportedFeature",
}

func (k DiagKind) String() string {
	if int(k) >= 0 && int(k) < len(diagKindNames) {
		return diagKindNames[k]
	}
	return fmt.Sprintf("DiagKind(%d)", int(k))
}

// Diagnostic is a source-position-anchored error or warning. File is filled
// in by the driver; the pipeline stages only know line and column.
type Diagnostic struct {
	File    string
	Line    int
	Col     int
	Kind    DiagKind
	Message string
	Warning bool
}

func (d *Diagnostic) Error() string {
	severity := d.Kind.String()
	if d.Warning {
		severity = "warning"
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Col, severity, d.Message)
}

func errorAt(line, col int, kind DiagKind, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Line:    line,
		Col:     col,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func warningAt(line, col int, kind DiagKind, format string, args ...any) *Diagnostic {
	d := errorAt(line, col, kind, format, args...)
	d.Warning = true
	return d
}
