package basic

import (
	"fmt"
	"strings"
)

// CodeGen walks the line AST and emits Z80 assembly text in Maxam/WinAPE
// syntax. Output is three sections in fixed order: CODE AREA, LIBRARY AREA
// and DATA AREA. Expression evaluation uses HL as the single accumulator;
// integers travel by value, reals and strings by buffer address.
type CodeGen struct {
	syms *SymbolTable
	org  int

	code strings.Builder
	libs map[string]bool

	nextLabel int
	nextTemp  int
	temps     []tempDef

	strLits     map[string]string
	strLitOrder []string
	realLits    map[[5]byte]string
	realOrder   [][5]byte

	forStack   []forLoop
	whileStack []whileLoop

	symbolDefs     []string
	symbolTableMin int // smallest SYMBOL AFTER first-character seen, -1 when unused

	dataLines  []int // BASIC lines carrying DATA, in order
	dataStream []string
	needsData  bool
	warnings   []*Diagnostic
	libUsed    []string
	lastLine   int // physical source position for coercion warnings
	lastCol    int
}

type tempDef struct {
	label string
	width int
}

type forLoop struct {
	varName   string
	head      string
	out       string
	limitTmp  string
	stepTmp   string // empty when the step is a compile-time constant
	stepConst int    // 16-bit pattern, valid when stepTmp is empty
	isReal    bool
	line, col int
}

type whileLoop struct {
	head      string
	out       string
	line, col int
}

// GenResult is the code generator's output: the assembly text, the
// non-fatal warnings collected along the way, and the names of the runtime
// library routines that were linked in (emission order).
type GenResult struct {
	Asm      string
	Warnings []*Diagnostic
	Library  []string
}

// Generate lowers the program to assembly. The symbol table must already
// hold every line number and variable; nothing here mutates the AST.
func Generate(lines []*Line, syms *SymbolTable, org int) (*GenResult, error) {
	cg := &CodeGen{
		syms:           syms,
		org:            org,
		libs:           make(map[string]bool),
		strLits:        make(map[string]string),
		realLits:       make(map[[5]byte]string),
		symbolTableMin: -1,
	}
	cg.collectData(lines)

	cg.line("org &%04X", org)
	cg.line("")
	cg.line("; CODE AREA")
	cg.line("")
	for _, ln := range lines {
		if err := cg.genLine(ln); err != nil {
			return nil, err
		}
	}
	if err := cg.checkOpenLoops(); err != nil {
		return nil, err
	}
	cg.line("\tjp      0  ; fell off the end of the program: reset")

	var out strings.Builder
	out.WriteString(cg.code.String())
	out.WriteString("\n; LIBRARY AREA\n\n")
	for _, r := range libraryClosure(cg.libs) {
		cg.libUsed = append(cg.libUsed, r.Name)
		for _, l := range r.Body {
			out.WriteString(l)
			out.WriteByte('\n')
		}
		out.WriteByte('\n')
	}
	out.WriteString("\n; DATA AREA\n\n")
	cg.writeDataArea(&out)

	return &GenResult{
		Asm:      out.String(),
		Warnings: cg.warnings,
		Library:  cg.libUsed,
	}, nil
}

func (cg *CodeGen) line(format string, args ...any) {
	fmt.Fprintf(&cg.code, format+"\n", args...)
}

// emit writes one instruction with the mnemonic padded the way the rest of
// the output is.
func (cg *CodeGen) emit(instr string) {
	cg.line("\t%s", instr)
}

func (cg *CodeGen) need(routine string) {
	if _, ok := runtimeLib[routine]; !ok {
		panic("unknown runtime library routine " + routine)
	}
	cg.libs[routine] = true
}

func (cg *CodeGen) callFw(addr string) {
	cg.line("\tcall    %s ;%s", addr, fwNames[addr])
}

func (cg *CodeGen) newLabel(kind string) string {
	cg.nextLabel++
	return fmt.Sprintf("__%s_%d", kind, cg.nextLabel)
}

func (cg *CodeGen) newTemp(width int) string {
	cg.nextTemp++
	label := fmt.Sprintf("var_tmp%03d", cg.nextTemp)
	cg.temps = append(cg.temps, tempDef{label: label, width: width})
	return label
}

func (cg *CodeGen) strLitLabel(s string) string {
	if label, ok := cg.strLits[s]; ok {
		return label
	}
	label := fmt.Sprintf("__str_%d", len(cg.strLitOrder))
	cg.strLits[s] = label
	cg.strLitOrder = append(cg.strLitOrder, s)
	return label
}

func (cg *CodeGen) realLitLabel(v float64) string {
	enc := EncodeReal(v)
	if label, ok := cg.realLits[enc]; ok {
		return label
	}
	label := fmt.Sprintf("__real_%d", len(cg.realOrder))
	cg.realLits[enc] = label
	cg.realOrder = append(cg.realOrder, enc)
	return label
}

// asmInt formats a 16-bit pattern for the assembler: signed decimal when it
// fits the positive range, &hex otherwise.
func asmInt(v int) string {
	v &= 0xFFFF
	if v <= 32767 {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("&%04X", v)
}

// collectData builds the tagged DATA constant stream ahead of code
// emission so READ and RESTORE can reference its labels.
func (cg *CodeGen) collectData(lines []*Line) {
	for _, ln := range lines {
		first := true
		for _, s := range ln.Stmts {
			d, ok := s.(*Data)
			if !ok {
				continue
			}
			cg.needsData = true
			if first {
				cg.dataLines = append(cg.dataLines, ln.Number)
				cg.dataStream = append(cg.dataStream, fmt.Sprintf("__data_line_%d:", ln.Number))
				first = false
			}
			for _, it := range d.Items {
				switch it.Type {
				case TypeInteger:
					cg.dataStream = append(cg.dataStream, "\tdb 0", "\tdw "+asmInt(it.Int))
				case TypeReal:
					enc := EncodeReal(it.Real)
					cg.dataStream = append(cg.dataStream,
						"\tdb 1",
						fmt.Sprintf("\tdb &%02X,&%02X,&%02X,&%02X,&%02X", enc[0], enc[1], enc[2], enc[3], enc[4]))
				case TypeString:
					cg.dataStream = append(cg.dataStream, "\tdb 2", dbString(it.Str))
				}
			}
		}
	}
}

func dbString(s string) string {
	if s == "" {
		return "\tdb &00"
	}
	return fmt.Sprintf("\tdb \"%s\",&00", s)
}

// restoreLabel resolves a RESTORE target to the first DATA-bearing line at
// or after it, Locomotive-style.
func (cg *CodeGen) restoreLabel(target int) string {
	for _, n := range cg.dataLines {
		if n >= target {
			return fmt.Sprintf("__data_line_%d", n)
		}
	}
	return "__data_stream_end"
}

func (cg *CodeGen) genLine(ln *Line) error {
	if ln.Src != "" {
		cg.line("; %s", ln.Src)
	}
	cg.line("%s:", LineLabel(ln.Number))
	for _, s := range ln.Stmts {
		if err := cg.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGen) genStmt(s Stmt) error {
	switch n := s.(type) {
	case *Remark, *LabelStmt, *Data:
		// Remarks surface in the source echo comment; LABEL aliases were
		// resolved to line numbers in the parser; DATA lives in the data
		// stream collected up front.
		return nil

	case *Let:
		return cg.genLet(n)

	case *Dim:
		sym, _ := cg.syms.LookupVar(n.Var.Name)
		sym.Referenced = true
		return nil

	case *Print:
		return cg.genPrint(n)

	case *Input:
		return cg.genInput(n)

	case *Cls:
		cg.callFw(fwTxtClearWin)
		return nil

	case *Mode:
		if err := cg.genExprAsInt(n.Expr); err != nil {
			return err
		}
		cg.emit("ld      a,l")
		cg.callFw(fwScrSetMode)
		return nil

	case *Pen:
		if err := cg.genExprAsInt(n.Expr); err != nil {
			return err
		}
		cg.emit("ld      a,l")
		cg.callFw(fwTxtSetPen)
		return nil

	case *Paper:
		if err := cg.genExprAsInt(n.Expr); err != nil {
			return err
		}
		cg.emit("ld      a,l")
		cg.callFw(fwTxtSetPaper)
		return nil

	case *Locate:
		if err := cg.genExprAsInt(n.Col); err != nil {
			return err
		}
		cg.emit("push    hl")
		if err := cg.genExprAsInt(n.Row); err != nil {
			return err
		}
		cg.emit("pop     de")
		cg.emit("ld      h,e")
		cg.callFw(fwTxtSetCursor)
		return nil

	case *Plot:
		return cg.genGraphics(n.X, n.Y, fwGraPlotAbs)

	case *Draw:
		return cg.genGraphics(n.X, n.Y, fwGraLineAbs)

	case *Poke:
		if err := cg.genExprAsInt(n.Addr); err != nil {
			return err
		}
		cg.emit("push    hl")
		if err := cg.genExprAsInt(n.Value); err != nil {
			return err
		}
		cg.emit("pop     de")
		cg.emit("ld      a,l")
		cg.emit("ld      (de),a")
		return nil

	case *Call:
		if lit, ok := n.Addr.(*IntLit); ok {
			cg.line("\tcall    %s", asmInt(lit.Value))
			return nil
		}
		if err := cg.genExprAsInt(n.Addr); err != nil {
			return err
		}
		cg.need("calllib_jphl")
		cg.emit("call    calllib_jphl")
		return nil

	case *Goto:
		cg.line("\tjp      %s", LineLabel(n.TargetLine))
		return nil

	case *Gosub:
		cg.line("\tcall    %s", LineLabel(n.TargetLine))
		return nil

	case *Return:
		cg.emit("ret")
		return nil

	case *End:
		cg.emit("jp      0  ; reset")
		return nil

	case *If:
		return cg.genIf(n)

	case *For:
		return cg.genFor(n)

	case *Next:
		return cg.genNext(n)

	case *While:
		return cg.genWhile(n)

	case *Wend:
		return cg.genWend(n)

	case *Read:
		return cg.genRead(n)

	case *Restore:
		cg.needsData = true
		cg.line("\tld      hl,%s", cg.restoreLabelFor(n))
		cg.emit("ld      (__datalib_ptr),hl")
		return nil

	case *SymbolAfter:
		if cg.symbolTableMin < 0 || n.First < cg.symbolTableMin {
			cg.symbolTableMin = n.First
		}
		cg.line("\tld      de,%d", n.First)
		cg.emit("ld      hl,__symbol_matrix_table")
		cg.callFw(fwTxtSetMTable)
		return nil

	case *SymbolDef:
		return cg.genSymbolDef(n)
	}
	return fmt.Errorf("code generator cannot lower %T", s)
}

func (cg *CodeGen) genGraphics(x, y Expr, fw string) error {
	if err := cg.genExprAsInt(x); err != nil {
		return err
	}
	cg.emit("push    hl")
	if err := cg.genExprAsInt(y); err != nil {
		return err
	}
	cg.emit("pop     de")
	cg.callFw(fw)
	return nil
}

func (cg *CodeGen) genLet(n *Let) error {
	sym, _ := cg.syms.LookupVar(n.Target.Name)
	sym.Referenced = true
	switch n.Target.Type {
	case TypeInteger:
		if err := cg.genExprAsInt(n.Value); err != nil {
			return err
		}
		cg.line("\tld      (%s),hl", sym.Label)
	case TypeReal:
		if err := cg.genExprAsReal(n.Value); err != nil {
			return err
		}
		cg.need("reallib_copy")
		cg.line("\tld      de,%s", sym.Label)
		cg.emit("call    reallib_copy")
	case TypeString:
		t, err := cg.exprType(n.Value)
		if err != nil {
			return err
		}
		if t != TypeString {
			return errorAt(n.Target.Line, n.Target.Col, TypeError,
				"cannot assign %s expression to string variable %s$", t, n.Target.Name)
		}
		if _, err := cg.genExpr(n.Value); err != nil {
			return err
		}
		cg.need("strlib_copy")
		cg.emit("ex      de,hl")
		cg.line("\tld      hl,%s", sym.Label)
		cg.emit("call    strlib_copy")
	}
	return nil
}

func (cg *CodeGen) genPrint(n *Print) error {
	for _, it := range n.Items {
		t, err := cg.genExpr(it.Expr)
		if err != nil {
			return err
		}
		switch t {
		case TypeString:
			cg.need("strlib_print_str")
			cg.emit("call    strlib_print_str")
		case TypeInteger:
			cg.need("strlib_int2str")
			cg.need("strlib_print_str")
			cg.emit("call    strlib_int2str")
			cg.emit("call    strlib_print_str")
		case TypeReal:
			cg.need("reallib_real2str")
			cg.need("strlib_print_str")
			cg.emit("call    reallib_real2str")
			cg.emit("call    strlib_print_str")
		}
		if it.Sep == COMMA {
			cg.need("strlib_print_zone")
			cg.emit("call    strlib_print_zone")
		}
	}
	if len(n.Items) == 0 || n.Items[len(n.Items)-1].Sep == 0 {
		cg.need("strlib_print_nl")
		cg.emit("call    strlib_print_nl")
	}
	return nil
}

func (cg *CodeGen) genInput(n *Input) error {
	cg.need("inputlib_input")
	cg.need("strlib_print_str")
	if n.HasPrompt {
		cg.line("\tld      hl,%s", cg.strLitLabel(n.Prompt))
	} else {
		cg.emit("ld      hl,__inputlib_question")
	}
	cg.emit("call    strlib_print_str")
	for _, v := range n.Vars {
		sym, _ := cg.syms.LookupVar(v.Name)
		sym.Referenced = true
		cg.emit("call    inputlib_input")
		switch v.Type {
		case TypeInteger:
			cg.need("strlib_str2int")
			cg.emit("ld      de,__inputlib_inbuf")
			cg.line("\tld      hl,%s", sym.Label)
			cg.emit("call    strlib_str2int")
		case TypeReal:
			cg.need("strlib_str2int")
			cg.need("reallib_int2real")
			tmp := cg.newTemp(2)
			cg.emit("ld      de,__inputlib_inbuf")
			cg.line("\tld      hl,%s", tmp)
			cg.emit("call    strlib_str2int")
			cg.line("\tld      hl,(%s)", tmp)
			cg.line("\tld      de,%s", sym.Label)
			cg.emit("call    reallib_int2real")
		case TypeString:
			cg.need("strlib_copy")
			cg.line("\tld      hl,%s", sym.Label)
			cg.emit("ld      de,__inputlib_inbuf")
			cg.emit("call    strlib_copy")
		}
	}
	return nil
}

func (cg *CodeGen) genIf(n *If) error {
	if err := cg.genExprAsInt(n.Cond); err != nil {
		return err
	}
	endLabel := cg.newLabel("if_end")
	elseLabel := endLabel
	if len(n.Else) > 0 {
		elseLabel = cg.newLabel("if_else")
	}
	cg.emit("ld      a,h")
	cg.emit("or      l")
	cg.line("\tjp      z,%s", elseLabel)
	for _, s := range n.Then {
		if err := cg.genStmt(s); err != nil {
			return err
		}
	}
	if len(n.Else) > 0 {
		cg.line("\tjp      %s", endLabel)
		cg.line("%s:", elseLabel)
		for _, s := range n.Else {
			if err := cg.genStmt(s); err != nil {
				return err
			}
		}
	}
	cg.line("%s:", endLabel)
	return nil
}

func (cg *CodeGen) genFor(n *For) error {
	sym, _ := cg.syms.LookupVar(n.Var.Name)
	sym.Referenced = true
	loop := forLoop{
		varName: n.Var.Name,
		head:    cg.newLabel("for_head"),
		out:     cg.newLabel("for_out"),
		isReal:  n.Var.Type == TypeReal,
		line:    n.Line,
		col:     n.Col,
	}
	body := cg.newLabel("for_body")
	if loop.isReal {
		return cg.genForReal(n, sym, &loop, body)
	}

	if err := cg.genExprAsInt(n.From); err != nil {
		return err
	}
	cg.line("\tld      (%s),hl", sym.Label)
	loop.limitTmp = cg.newTemp(2)
	if err := cg.genExprAsInt(n.To); err != nil {
		return err
	}
	cg.line("\tld      (%s),hl", loop.limitTmp)

	loop.stepConst = 1
	stepKnown := true
	if n.Step != nil {
		if lit, ok := n.Step.(*IntLit); ok {
			loop.stepConst = lit.Value
		} else if u, ok := n.Step.(*UnaryExpr); ok && u.Op == MINUS {
			if lit, ok := u.Right.(*IntLit); ok {
				loop.stepConst = int(uint16(-lit.Value))
			} else {
				stepKnown = false
			}
		} else {
			stepKnown = false
		}
	}
	if !stepKnown {
		loop.stepTmp = cg.newTemp(2)
		if err := cg.genExprAsInt(n.Step); err != nil {
			return err
		}
		cg.line("\tld      (%s),hl", loop.stepTmp)
	}

	cg.need("comp16_signed")
	cg.line("%s:", loop.head)
	switch {
	case loop.stepTmp != "":
		down := cg.newLabel("for_down")
		cg.line("\tld      hl,(%s)", loop.stepTmp)
		cg.emit("bit     7,h")
		cg.line("\tjr      nz,%s", down)
		cg.compareIndex(sym.Label, loop.limitTmp)
		cg.line("\tjr      c,%s", body)
		cg.line("\tjr      z,%s", body)
		cg.line("\tjp      %s", loop.out)
		cg.line("%s:", down)
		cg.compareIndex(sym.Label, loop.limitTmp)
		cg.line("\tjp      c,%s", loop.out)
	case loop.stepConst&0x8000 != 0: // negative constant step
		cg.compareIndex(sym.Label, loop.limitTmp)
		cg.line("\tjp      c,%s", loop.out)
	default:
		cg.compareIndex(sym.Label, loop.limitTmp)
		cg.line("\tjr      c,%s", body)
		cg.line("\tjr      z,%s", body)
		cg.line("\tjp      %s", loop.out)
	}
	cg.line("%s:", body)
	cg.forStack = append(cg.forStack, loop)
	return nil
}

func (cg *CodeGen) compareIndex(varLabel, limitLabel string) {
	cg.line("\tld      hl,(%s)", varLabel)
	cg.line("\tld      de,(%s)", limitLabel)
	cg.emit("call    comp16_signed")
}

func (cg *CodeGen) genForReal(n *For, sym *VarSymbol, loop *forLoop, body string) error {
	cg.need("reallib_copy")
	cg.need("reallib_comp")
	if err := cg.genExprAsReal(n.From); err != nil {
		return err
	}
	cg.line("\tld      de,%s", sym.Label)
	cg.emit("call    reallib_copy")
	loop.limitTmp = cg.newTemp(5)
	if err := cg.genExprAsReal(n.To); err != nil {
		return err
	}
	cg.line("\tld      de,%s", loop.limitTmp)
	cg.emit("call    reallib_copy")
	loop.stepTmp = cg.newTemp(5)
	step := n.Step
	if step == nil {
		step = &RealLit{Value: 1, Lexeme: "1.0"}
	}
	if err := cg.genExprAsReal(step); err != nil {
		return err
	}
	cg.line("\tld      de,%s", loop.stepTmp)
	cg.emit("call    reallib_copy")

	down := cg.newLabel("for_down")
	cg.line("%s:", loop.head)
	cg.line("\tld      a,(%s+3)", loop.stepTmp)
	cg.emit("bit     7,a")
	cg.line("\tjr      nz,%s", down)
	cg.line("\tld      hl,%s", sym.Label)
	cg.line("\tld      de,%s", loop.limitTmp)
	cg.emit("call    reallib_comp")
	cg.emit("cp      1")
	cg.line("\tjp      z,%s", loop.out)
	cg.line("\tjr      %s", body)
	cg.line("%s:", down)
	cg.line("\tld      hl,%s", sym.Label)
	cg.line("\tld      de,%s", loop.limitTmp)
	cg.emit("call    reallib_comp")
	cg.emit("cp      &FF")
	cg.line("\tjp      z,%s", loop.out)
	cg.line("%s:", body)
	cg.forStack = append(cg.forStack, *loop)
	return nil
}

func (cg *CodeGen) genNext(n *Next) error {
	if len(cg.forStack) == 0 {
		return errorAt(n.Line, n.Col, NestingError, "NEXT without an open FOR")
	}
	loop := cg.forStack[len(cg.forStack)-1]
	if n.Var != nil && n.Var.Name != loop.varName {
		return errorAt(n.Line, n.Col, NestingError,
			"NEXT %s does not close the innermost FOR %s", n.Var.Name, loop.varName)
	}
	cg.forStack = cg.forStack[:len(cg.forStack)-1]
	sym, _ := cg.syms.LookupVar(loop.varName)
	if loop.isReal {
		cg.need("reallib_add")
		cg.line("\tld      hl,%s", sym.Label)
		cg.line("\tld      de,%s", loop.stepTmp)
		cg.line("\tld      bc,%s", sym.Label)
		cg.emit("call    reallib_add")
	} else {
		cg.line("\tld      hl,(%s)", sym.Label)
		if loop.stepTmp != "" {
			cg.line("\tld      de,(%s)", loop.stepTmp)
		} else {
			cg.line("\tld      de,%s", asmInt(loop.stepConst))
		}
		cg.emit("add     hl,de")
		cg.line("\tld      (%s),hl", sym.Label)
	}
	cg.line("\tjp      %s", loop.head)
	cg.line("%s:", loop.out)
	return nil
}

func (cg *CodeGen) genWhile(n *While) error {
	loop := whileLoop{
		head: cg.newLabel("while_head"),
		out:  cg.newLabel("while_out"),
		line: n.Line,
		col:  n.Col,
	}
	cg.line("%s:", loop.head)
	if err := cg.genExprAsInt(n.Cond); err != nil {
		return err
	}
	cg.emit("ld      a,h")
	cg.emit("or      l")
	cg.line("\tjp      z,%s", loop.out)
	cg.whileStack = append(cg.whileStack, loop)
	return nil
}

func (cg *CodeGen) genWend(n *Wend) error {
	if len(cg.whileStack) == 0 {
		return errorAt(n.Line, n.Col, NestingError, "WEND without an open WHILE")
	}
	loop := cg.whileStack[len(cg.whileStack)-1]
	cg.whileStack = cg.whileStack[:len(cg.whileStack)-1]
	cg.line("\tjp      %s", loop.head)
	cg.line("%s:", loop.out)
	return nil
}

func (cg *CodeGen) genRead(n *Read) error {
	cg.needsData = true
	for _, v := range n.Vars {
		sym, _ := cg.syms.LookupVar(v.Name)
		sym.Referenced = true
		cg.line("\tld      hl,%s", sym.Label)
		switch v.Type {
		case TypeInteger:
			cg.need("datalib_read_int")
			cg.emit("call    datalib_read_int")
		case TypeReal:
			cg.need("datalib_read_real")
			cg.emit("call    datalib_read_real")
		case TypeString:
			cg.need("datalib_read_str")
			cg.emit("call    datalib_read_str")
		}
	}
	return nil
}

func (cg *CodeGen) restoreLabelFor(n *Restore) string {
	if n.HasLine {
		return cg.restoreLabel(n.TargetLine)
	}
	return "__data_stream"
}

func (cg *CodeGen) genSymbolDef(n *SymbolDef) error {
	label := fmt.Sprintf("__symbol_def_%d", len(cg.symbolDefs))
	rows := make([]string, 8)
	for i, r := range n.Rows {
		rows[i] = fmt.Sprintf("&%02X", r)
	}
	cg.symbolDefs = append(cg.symbolDefs, fmt.Sprintf("%s: db %s", label, strings.Join(rows, ",")))
	if err := cg.genExprAsInt(n.Code); err != nil {
		return err
	}
	cg.emit("ld      a,l")
	cg.line("\tld      hl,%s", label)
	cg.callFw(fwTxtSetMatrix)
	return nil
}

func (cg *CodeGen) checkOpenLoops() error {
	if len(cg.forStack) > 0 {
		loop := cg.forStack[len(cg.forStack)-1]
		return errorAt(loop.line, loop.col, NestingError, "FOR %s has no matching NEXT", loop.varName)
	}
	if len(cg.whileStack) > 0 {
		loop := cg.whileStack[len(cg.whileStack)-1]
		return errorAt(loop.line, loop.col, NestingError, "WHILE has no matching WEND")
	}
	return nil
}

// writeDataArea emits reservations for live variables in first-reference
// order, then temporaries, literals, SYMBOL blobs, the DATA stream and the
// buffers owned by linked library routines.
func (cg *CodeGen) writeDataArea(out *strings.Builder) {
	for _, sym := range cg.syms.Vars() {
		if !sym.Referenced {
			continue
		}
		if sym.ArraySizes != nil {
			count := 1
			for _, n := range sym.ArraySizes {
				count *= n + 1 // BASIC subscripts run 0..n inclusive
			}
			fmt.Fprintf(out, "%s: defs %d  ; array %s\n", sym.Label, count*sym.Type.Width(), sym.Name)
			continue
		}
		switch sym.Type {
		case TypeInteger:
			fmt.Fprintf(out, "%s: dw 0\n", sym.Label)
		case TypeReal:
			fmt.Fprintf(out, "%s: defs 5\n", sym.Label)
		case TypeString:
			fmt.Fprintf(out, "%s: defs 256\n", sym.Label)
		}
	}
	for _, t := range cg.temps {
		if t.width == 2 {
			fmt.Fprintf(out, "%s: dw 0\n", t.label)
		} else {
			fmt.Fprintf(out, "%s: defs %d\n", t.label, t.width)
		}
	}
	for _, s := range cg.strLitOrder {
		fmt.Fprintf(out, "%s: %s\n", cg.strLits[s], strings.TrimPrefix(dbString(s), "\t"))
	}
	for _, enc := range cg.realOrder {
		fmt.Fprintf(out, "%s: db &%02X,&%02X,&%02X,&%02X,&%02X\n",
			cg.realLits[enc], enc[0], enc[1], enc[2], enc[3], enc[4])
	}
	for _, blob := range cg.symbolDefs {
		fmt.Fprintf(out, "%s\n", blob)
	}
	if cg.symbolTableMin >= 0 {
		fmt.Fprintf(out, "__symbol_matrix_table: defs %d\n", (256-cg.symbolTableMin)*8)
	}
	if cg.needsData {
		fmt.Fprintf(out, "__datalib_ptr: dw __data_stream\n")
		fmt.Fprintf(out, "__data_stream:\n")
		for _, l := range cg.dataStream {
			fmt.Fprintf(out, "%s\n", l)
		}
		fmt.Fprintf(out, "__data_stream_end: db &FF\n")
	}
	for _, r := range libraryClosure(cg.libs) {
		for _, d := range r.Data {
			fmt.Fprintf(out, "%s\n", d)
		}
	}
}
