package basic

import (
	"fmt"
	"strings"
)

// VarSymbol is one entry in the variable namespace. Referenced is set
// during code generation so the data area only reserves storage for
// variables the emitted code actually touches.
type VarSymbol struct {
	Name       string // canonical uppercase base name
	Type       ValueType
	Label      string // storage-area label
	ArraySizes []int  // non-nil for DIMed arrays
	Referenced bool
	Line       int // first reference position
	Col        int
}

// SymbolTable tracks the two disjoint namespaces of a program: variables
// and line targets. It is populated during parsing; code generation only
// sets the variables' Referenced flags.
type SymbolTable struct {
	vars     map[string]*VarSymbol
	varOrder []*VarSymbol // first-reference order

	lines   map[int]bool
	aliases map[string]int // LABEL name -> line number
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		vars:    make(map[string]*VarSymbol),
		lines:   make(map[int]bool),
		aliases: make(map[string]int),
	}
}

// DeclareVar records a reference to a variable with the type implied by its
// suffix. The first reference fixes the type; a later reference with a
// conflicting suffix is a type error.
func (s *SymbolTable) DeclareVar(ref *VarRef) (*VarSymbol, error) {
	if sym, ok := s.vars[ref.Name]; ok {
		if sym.Type != ref.Type {
			return nil, errorAt(ref.Line, ref.Col, TypeError,
				"variable %s already declared as %s, used as %s", ref.Name, sym.Type, ref.Type)
		}
		return sym, nil
	}
	sym := &VarSymbol{
		Name:  ref.Name,
		Type:  ref.Type,
		Label: "var_" + strings.ToLower(ref.Name),
		Line:  ref.Line,
		Col:   ref.Col,
	}
	s.vars[ref.Name] = sym
	s.varOrder = append(s.varOrder, sym)
	return sym, nil
}

// LookupVar returns the symbol for a canonical base name, if declared.
func (s *SymbolTable) LookupVar(name string) (*VarSymbol, bool) {
	sym, ok := s.vars[name]
	return sym, ok
}

// Vars returns all variables in first-reference order.
func (s *SymbolTable) Vars() []*VarSymbol {
	return s.varOrder
}

// DefineLine registers a source line number as a branch target.
func (s *SymbolTable) DefineLine(n int) {
	s.lines[n] = true
}

// HasLine reports whether a line number exists in the program.
func (s *SymbolTable) HasLine(n int) bool {
	return s.lines[n]
}

// DefineAlias binds a LABEL name to a line number. Redefinition is an
// error surfaced by the parser.
func (s *SymbolTable) DefineAlias(name string, line int) bool {
	name = strings.ToUpper(name)
	if _, exists := s.aliases[name]; exists {
		return false
	}
	s.aliases[name] = line
	return true
}

// ResolveAlias maps a LABEL name to its line number.
func (s *SymbolTable) ResolveAlias(name string) (int, bool) {
	n, ok := s.aliases[strings.ToUpper(name)]
	return n, ok
}

// LineLabel is the assembly label emitted for a source line number.
func LineLabel(n int) string {
	return fmt.Sprintf("__label_line_%d", n)
}
