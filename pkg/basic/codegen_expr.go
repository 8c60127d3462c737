package basic

// Expression lowering. The evaluation scheme is a stack machine realized on
// the Z80 hardware stack: binary operators push the left operand, evaluate
// the right into HL, pop the left into DE and apply the operation. Integer
// results live in HL; real and string results are buffer addresses in HL.

// exprType infers the result type of an expression bottom-up. It performs
// no emission and is safe to call ahead of genExpr.
func (cg *CodeGen) exprType(e Expr) (ValueType, error) {
	switch n := e.(type) {
	case *IntLit:
		return TypeInteger, nil
	case *RealLit:
		return TypeReal, nil
	case *StrLit:
		return TypeString, nil
	case *VarRef:
		return n.Type, nil

	case *UnaryExpr:
		t, err := cg.exprType(n.Right)
		if err != nil {
			return TypeNone, err
		}
		if t == TypeString {
			return TypeNone, errorAt(n.Line, n.Col, TypeError, "unary operator applied to a string")
		}
		if n.Op == NOT {
			return TypeInteger, nil
		}
		return t, nil

	case *BinaryExpr:
		lt, err := cg.exprType(n.Left)
		if err != nil {
			return TypeNone, err
		}
		rt, err := cg.exprType(n.Right)
		if err != nil {
			return TypeNone, err
		}
		return cg.binaryType(n, lt, rt)

	case *CallExpr:
		return cg.callType(n)
	}
	return TypeNone, errorAt(0, 0, TypeError, "untyped expression node %T", e)
}

func (cg *CodeGen) binaryType(n *BinaryExpr, lt, rt ValueType) (ValueType, error) {
	if lt == TypeString || rt == TypeString {
		if lt != rt {
			return TypeNone, errorAt(n.Line, n.Col, TypeError,
				"operator %s mixes string and %s operands", opSpelling(n.Op), nonString(lt, rt))
		}
		switch n.Op {
		case PLUS:
			return TypeString, nil
		case EQ, NOTEQ:
			return TypeInteger, nil
		}
		return TypeNone, errorAt(n.Line, n.Col, TypeError,
			"operator %s is not defined on strings", opSpelling(n.Op))
	}
	switch n.Op {
	case EQ, NOTEQ, LT, LTEQ, GT, GTEQ, AND, OR, XOR, MOD:
		return TypeInteger, nil
	}
	if lt == TypeReal || rt == TypeReal {
		return TypeReal, nil
	}
	return TypeInteger, nil
}

func nonString(lt, rt ValueType) ValueType {
	if lt == TypeString {
		return rt
	}
	return lt
}

func (cg *CodeGen) callType(n *CallExpr) (ValueType, error) {
	// Argument types are validated here so inference alone catches misuse.
	argTypes := make([]ValueType, len(n.Args))
	for i, a := range n.Args {
		t, err := cg.exprType(a)
		if err != nil {
			return TypeNone, err
		}
		argTypes[i] = t
	}
	wantString := func(i int) error {
		if argTypes[i] != TypeString {
			return errorAt(n.Line, n.Col, TypeError,
				"%s expects a string argument, got %s", n.Func, argTypes[i])
		}
		return nil
	}
	wantNumeric := func(i int) error {
		if argTypes[i] == TypeString {
			return errorAt(n.Line, n.Col, TypeError,
				"%s expects a numeric argument, got string", n.Func)
		}
		return nil
	}
	switch n.Func {
	case ABS:
		return argTypes[0], wantNumeric(0)
	case INTFN:
		return TypeInteger, wantNumeric(0)
	case ASC, LEN, VAL:
		return TypeInteger, wantString(0)
	case PEEK:
		return TypeInteger, wantNumeric(0)
	case CHRS, HEXS:
		return TypeString, wantNumeric(0)
	case INKEYS:
		return TypeString, nil
	case STRS:
		return TypeString, wantNumeric(0)
	case LEFTS, RIGHTS:
		if err := wantString(0); err != nil {
			return TypeNone, err
		}
		return TypeString, wantNumeric(1)
	case MIDS:
		if err := wantString(0); err != nil {
			return TypeNone, err
		}
		for i := 1; i < len(argTypes); i++ {
			if err := wantNumeric(i); err != nil {
				return TypeNone, err
			}
		}
		return TypeString, nil
	}
	return TypeNone, errorAt(n.Line, n.Col, TypeError, "unknown function %s", n.Func)
}

// notePos remembers the most recent position seen inside an expression so
// coercion warnings anchor near their cause.
func (cg *CodeGen) notePos(line, col int) {
	if line > 0 {
		cg.lastLine, cg.lastCol = line, col
	}
}

// genExpr evaluates e and reports its type. Integers end in HL by value;
// reals and strings end as buffer addresses in HL.
func (cg *CodeGen) genExpr(e Expr) (ValueType, error) {
	switch n := e.(type) {
	case *IntLit:
		cg.notePos(n.Line, n.Col)
		cg.line("\tld      hl,%s", asmInt(n.Value))
		return TypeInteger, nil

	case *RealLit:
		cg.notePos(n.Line, n.Col)
		cg.line("\tld      hl,%s", cg.realLitLabel(n.Value))
		return TypeReal, nil

	case *StrLit:
		cg.notePos(n.Line, n.Col)
		cg.line("\tld      hl,%s", cg.strLitLabel(n.Value))
		return TypeString, nil

	case *VarRef:
		cg.notePos(n.Line, n.Col)
		sym, ok := cg.syms.LookupVar(n.Name)
		if !ok {
			return TypeNone, errorAt(n.Line, n.Col, TypeError, "undeclared variable %s", n.Name)
		}
		sym.Referenced = true
		if n.Type == TypeInteger {
			cg.line("\tld      hl,(%s)", sym.Label)
		} else {
			cg.line("\tld      hl,%s", sym.Label)
		}
		return n.Type, nil

	case *UnaryExpr:
		cg.notePos(n.Line, n.Col)
		return cg.genUnary(n)

	case *BinaryExpr:
		cg.notePos(n.Line, n.Col)
		return cg.genBinary(n)

	case *CallExpr:
		cg.notePos(n.Line, n.Col)
		return cg.genCall(n)
	}
	return TypeNone, errorAt(0, 0, TypeError, "cannot evaluate expression node %T", e)
}

// genExprAsInt evaluates e and coerces the result into an integer in HL.
// Coercing a real prints a truncation warning; strings are a type error.
func (cg *CodeGen) genExprAsInt(e Expr) error {
	t, err := cg.genExpr(e)
	if err != nil {
		return err
	}
	switch t {
	case TypeInteger:
		return nil
	case TypeReal:
		cg.warnings = append(cg.warnings, warningAt(cg.lastLine, cg.lastCol, TypeError,
			"implicit conversion of real expression to integer truncates"))
		cg.need("reallib_real2int")
		cg.emit("call    reallib_real2int")
		return nil
	}
	return errorAt(cg.lastLine, cg.lastCol, TypeError, "expected a numeric expression, got string")
}

// genExprAsReal evaluates e and leaves the address of a 5-byte real in HL,
// promoting integers through the runtime conversion snippet.
func (cg *CodeGen) genExprAsReal(e Expr) error {
	t, err := cg.genExpr(e)
	if err != nil {
		return err
	}
	switch t {
	case TypeReal:
		return nil
	case TypeInteger:
		cg.need("reallib_int2real")
		tmp := cg.newTemp(5)
		cg.line("\tld      de,%s", tmp)
		cg.emit("call    reallib_int2real")
		return nil
	}
	return errorAt(cg.lastLine, cg.lastCol, TypeError, "expected a numeric expression, got string")
}

func (cg *CodeGen) genUnary(n *UnaryExpr) (ValueType, error) {
	t, err := cg.exprType(n.Right)
	if err != nil {
		return TypeNone, err
	}
	if t == TypeString {
		return TypeNone, errorAt(n.Line, n.Col, TypeError, "unary operator applied to a string")
	}
	if n.Op == NOT {
		if err := cg.genExprAsInt(n.Right); err != nil {
			return TypeNone, err
		}
		cg.emit("ld      de,&FFFF")
		cg.emit("ex      de,hl")
		cg.emit("xor     a")
		cg.emit("sbc     hl,de")
		return TypeInteger, nil
	}
	// unary minus
	if t == TypeReal {
		if err := cg.genExprAsReal(n.Right); err != nil {
			return TypeNone, err
		}
		cg.need("reallib_neg")
		tmp := cg.newTemp(5)
		cg.line("\tld      bc,%s", tmp)
		cg.emit("call    reallib_neg")
		cg.line("\tld      hl,%s", tmp)
		return TypeReal, nil
	}
	if err := cg.genExprAsInt(n.Right); err != nil {
		return TypeNone, err
	}
	cg.emit("ld      de,0")
	cg.emit("ex      de,hl")
	cg.emit("xor     a")
	cg.emit("sbc     hl,de")
	return TypeInteger, nil
}

func (cg *CodeGen) genBinary(n *BinaryExpr) (ValueType, error) {
	lt, err := cg.exprType(n.Left)
	if err != nil {
		return TypeNone, err
	}
	rt, err := cg.exprType(n.Right)
	if err != nil {
		return TypeNone, err
	}
	result, err := cg.binaryType(n, lt, rt)
	if err != nil {
		return TypeNone, err
	}

	if lt == TypeString {
		return cg.genStringBinary(n)
	}

	realOperands := lt == TypeReal || rt == TypeReal
	switch n.Op {
	case AND, OR, XOR, MOD:
		// logical and remainder operators work on integers
		realOperands = false
	}

	if realOperands {
		return cg.genRealBinary(n, result)
	}
	return cg.genIntBinary(n)
}

func (cg *CodeGen) genStringBinary(n *BinaryExpr) (ValueType, error) {
	if _, err := cg.genExpr(n.Left); err != nil {
		return TypeNone, err
	}
	cg.emit("push    hl")
	if _, err := cg.genExpr(n.Right); err != nil {
		return TypeNone, err
	}
	cg.emit("pop     de")
	switch n.Op {
	case PLUS:
		cg.need("strlib_concat")
		tmp := cg.newTemp(256)
		cg.line("\tld      bc,%s", tmp)
		cg.emit("call    strlib_concat")
		return TypeString, nil
	case EQ:
		cg.need("strlib_comp")
		cg.emit("call    strlib_comp")
		return TypeInteger, nil
	case NOTEQ:
		cg.need("strlib_comp")
		cg.emit("call    strlib_comp")
		cg.emit("ld      de,&FFFF")
		cg.emit("ex      de,hl")
		cg.emit("xor     a")
		cg.emit("sbc     hl,de")
		return TypeInteger, nil
	}
	return TypeNone, errorAt(n.Line, n.Col, TypeError,
		"operator %s is not defined on strings", opSpelling(n.Op))
}

func (cg *CodeGen) genRealBinary(n *BinaryExpr, result ValueType) (ValueType, error) {
	if err := cg.genExprAsReal(n.Left); err != nil {
		return TypeNone, err
	}
	cg.emit("push    hl")
	if err := cg.genExprAsReal(n.Right); err != nil {
		return TypeNone, err
	}
	cg.emit("pop     de")
	cg.emit("ex      de,hl") // HL = left, DE = right

	if result == TypeInteger {
		// comparison yielding the 0/-1 convention
		cg.need("reallib_comp")
		cg.emit("call    reallib_comp")
		switch n.Op {
		case EQ:
			cg.emit("or      a")
			cg.emit("ld      hl,&FFFF  ; hl = -1")
			cg.emit("jr      z,$+3")
			cg.emit("inc     hl        ; hl = 0")
		case NOTEQ:
			cg.emit("or      a")
			cg.emit("ld      hl,0      ; hl = 0")
			cg.emit("jr      z,$+3")
			cg.emit("dec     hl        ; hl = -1")
		case LT:
			cg.emit("cp      &FF")
			cg.emit("ld      hl,&FFFF  ; hl = -1")
			cg.emit("jr      z,$+3")
			cg.emit("inc     hl        ; hl = 0")
		case GT:
			cg.emit("cp      1")
			cg.emit("ld      hl,&FFFF  ; hl = -1")
			cg.emit("jr      z,$+3")
			cg.emit("inc     hl        ; hl = 0")
		case LTEQ:
			cg.emit("cp      1")
			cg.emit("ld      hl,0      ; hl = 0")
			cg.emit("jr      z,$+3")
			cg.emit("dec     hl        ; hl = -1")
		case GTEQ:
			cg.emit("cp      &FF")
			cg.emit("ld      hl,0      ; hl = 0")
			cg.emit("jr      z,$+3")
			cg.emit("dec     hl        ; hl = -1")
		}
		return TypeInteger, nil
	}

	var routine string
	switch n.Op {
	case PLUS:
		routine = "reallib_add"
	case MINUS:
		routine = "reallib_sub"
	case STAR:
		routine = "reallib_mul"
	case SLASH:
		routine = "reallib_div"
	case CARET:
		routine = "reallib_pow"
	default:
		return TypeNone, errorAt(n.Line, n.Col, TypeError,
			"operator %s is not defined on reals", opSpelling(n.Op))
	}
	cg.need(routine)
	tmp := cg.newTemp(5)
	cg.line("\tld      bc,%s", tmp)
	cg.line("\tcall    %s", routine)
	cg.line("\tld      hl,%s", tmp)
	return TypeReal, nil
}

func (cg *CodeGen) genIntBinary(n *BinaryExpr) (ValueType, error) {
	if err := cg.genExprAsInt(n.Left); err != nil {
		return TypeNone, err
	}
	cg.emit("push    hl")
	if err := cg.genExprAsInt(n.Right); err != nil {
		return TypeNone, err
	}

	switch n.Op {
	case PLUS:
		cg.emit("pop     de")
		cg.emit("add     hl,de")
	case MINUS:
		cg.emit("pop     de")
		cg.emit("ex      de,hl")
		cg.emit("xor     a")
		cg.emit("sbc     hl,de")
	case STAR:
		cg.need("mul16_signed")
		cg.emit("pop     de")
		cg.emit("call    mul16_signed")
	case SLASH:
		cg.need("div16_signed")
		cg.emit("pop     de")
		cg.emit("call    div16_signed")
	case MOD:
		cg.need("mod16")
		cg.emit("pop     de")
		cg.emit("call    mod16")
	case CARET:
		cg.need("pow16")
		cg.emit("ex      de,hl")
		cg.emit("pop     hl")
		cg.emit("call    pow16")
	case AND:
		cg.emit("pop     de")
		cg.emit("ld      a,h")
		cg.emit("and     d")
		cg.emit("ld      h,a")
		cg.emit("ld      a,l")
		cg.emit("and     e")
		cg.emit("ld      l,a")
	case OR:
		cg.emit("pop     de")
		cg.emit("ld      a,h")
		cg.emit("or      d")
		cg.emit("ld      h,a")
		cg.emit("ld      a,l")
		cg.emit("or      e")
		cg.emit("ld      l,a")
	case XOR:
		cg.emit("pop     de")
		cg.emit("ld      a,h")
		cg.emit("xor     d")
		cg.emit("ld      h,a")
		cg.emit("ld      a,l")
		cg.emit("xor     e")
		cg.emit("ld      l,a")
	case EQ:
		cg.emit("pop     de")
		cg.emit("xor     a")
		cg.emit("sbc     hl,de")
		cg.emit("ld      hl,&FFFF  ; hl = -1")
		cg.emit("jr      z,$+3")
		cg.emit("inc     hl        ; hl = 0")
	case NOTEQ:
		cg.emit("pop     de")
		cg.emit("xor     a")
		cg.emit("sbc     hl,de")
		cg.emit("ld      hl,&FFFF  ; hl = -1")
		cg.emit("jr      nz,$+3")
		cg.emit("inc     hl        ; hl = 0")
	case LT:
		cg.need("comp16_signed")
		cg.emit("pop     de")
		cg.emit("ex      de,hl")
		cg.emit("call    comp16_signed")
		cg.emit("ld      hl,&FFFF  ; hl = -1")
		cg.emit("jr      c,$+3")
		cg.emit("inc     hl        ; hl = 0")
	case GT:
		cg.need("comp16_signed")
		cg.emit("pop     de")
		cg.emit("call    comp16_signed")
		cg.emit("ld      hl,&FFFF  ; hl = -1")
		cg.emit("jr      c,$+3")
		cg.emit("inc     hl        ; hl = 0")
	case LTEQ:
		cg.need("comp16_signed")
		cg.emit("pop     de")
		cg.emit("call    comp16_signed")
		cg.emit("ld      hl,0      ; hl = 0")
		cg.emit("jr      c,$+3")
		cg.emit("dec     hl        ; hl = -1")
	case GTEQ:
		cg.need("comp16_signed")
		cg.emit("pop     de")
		cg.emit("ex      de,hl")
		cg.emit("call    comp16_signed")
		cg.emit("ld      hl,0      ; hl = 0")
		cg.emit("jr      c,$+3")
		cg.emit("dec     hl        ; hl = -1")
	default:
		return TypeNone, errorAt(n.Line, n.Col, TypeError, "unknown operator %s", n.Op)
	}
	return TypeInteger, nil
}

func (cg *CodeGen) genCall(n *CallExpr) (ValueType, error) {
	result, err := cg.callType(n)
	if err != nil {
		return TypeNone, err
	}
	switch n.Func {
	case ABS:
		if result == TypeReal {
			if err := cg.genExprAsReal(n.Args[0]); err != nil {
				return TypeNone, err
			}
			cg.need("reallib_abs")
			tmp := cg.newTemp(5)
			cg.line("\tld      bc,%s", tmp)
			cg.emit("call    reallib_abs")
			return TypeReal, nil
		}
		if err := cg.genExprAsInt(n.Args[0]); err != nil {
			return TypeNone, err
		}
		cg.need("abs16")
		cg.emit("call    abs16")
		return TypeInteger, nil

	case INTFN:
		t, err := cg.exprType(n.Args[0])
		if err != nil {
			return TypeNone, err
		}
		if t == TypeInteger {
			if _, err := cg.genExpr(n.Args[0]); err != nil {
				return TypeNone, err
			}
			return TypeInteger, nil
		}
		if err := cg.genExprAsReal(n.Args[0]); err != nil {
			return TypeNone, err
		}
		cg.need("reallib_int")
		cg.emit("call    reallib_int")
		return TypeInteger, nil

	case ASC:
		if _, err := cg.genExpr(n.Args[0]); err != nil {
			return TypeNone, err
		}
		cg.emit("ld      a,(hl)")
		cg.emit("ld      l,a")
		cg.emit("ld      h,0")
		return TypeInteger, nil

	case LEN:
		if _, err := cg.genExpr(n.Args[0]); err != nil {
			return TypeNone, err
		}
		cg.need("strlib_len")
		cg.emit("call    strlib_len")
		return TypeInteger, nil

	case VAL:
		if _, err := cg.genExpr(n.Args[0]); err != nil {
			return TypeNone, err
		}
		cg.need("strlib_str2int")
		tmp := cg.newTemp(2)
		cg.emit("ex      de,hl")
		cg.line("\tld      hl,%s", tmp)
		cg.emit("call    strlib_str2int")
		cg.line("\tld      hl,(%s)", tmp)
		return TypeInteger, nil

	case PEEK:
		if err := cg.genExprAsInt(n.Args[0]); err != nil {
			return TypeNone, err
		}
		cg.emit("ld      a,(hl)")
		cg.emit("ld      l,a")
		cg.emit("ld      h,0")
		return TypeInteger, nil

	case CHRS:
		if err := cg.genExprAsInt(n.Args[0]); err != nil {
			return TypeNone, err
		}
		tmp := cg.newTemp(2)
		cg.emit("ld      a,l")
		cg.line("\tld      (%s),a", tmp)
		cg.emit("xor     a")
		cg.line("\tld      (%s+1),a", tmp)
		cg.line("\tld      hl,%s", tmp)
		return TypeString, nil

	case HEXS:
		if err := cg.genExprAsInt(n.Args[0]); err != nil {
			return TypeNone, err
		}
		cg.need("strlib_int2hex")
		tmp := cg.newTemp(5)
		cg.emit("ex      de,hl")
		cg.line("\tld      hl,%s", tmp)
		cg.emit("ld      a,4")
		cg.emit("call    strlib_int2hex")
		return TypeString, nil

	case INKEYS:
		cg.need("strlib_inkey")
		tmp := cg.newTemp(2)
		cg.line("\tld      hl,%s", tmp)
		cg.emit("push    hl")
		cg.emit("call    strlib_inkey")
		cg.emit("pop     hl")
		return TypeString, nil

	case STRS:
		t, err := cg.exprType(n.Args[0])
		if err != nil {
			return TypeNone, err
		}
		if t == TypeReal {
			if err := cg.genExprAsReal(n.Args[0]); err != nil {
				return TypeNone, err
			}
			cg.need("reallib_real2str")
			cg.emit("call    reallib_real2str")
			return TypeString, nil
		}
		if err := cg.genExprAsInt(n.Args[0]); err != nil {
			return TypeNone, err
		}
		cg.need("strlib_int2str")
		cg.emit("call    strlib_int2str")
		return TypeString, nil

	case LEFTS, RIGHTS:
		routine := "strlib_left"
		if n.Func == RIGHTS {
			routine = "strlib_right"
		}
		if _, err := cg.genExpr(n.Args[0]); err != nil {
			return TypeNone, err
		}
		cg.emit("push    hl")
		if err := cg.genExprAsInt(n.Args[1]); err != nil {
			return TypeNone, err
		}
		cg.need(routine)
		tmp := cg.newTemp(256)
		cg.emit("ld      a,l")
		cg.emit("pop     de")
		cg.line("\tld      bc,%s", tmp)
		cg.line("\tcall    %s", routine)
		return TypeString, nil

	case MIDS:
		if _, err := cg.genExpr(n.Args[0]); err != nil {
			return TypeNone, err
		}
		cg.emit("push    hl")
		if err := cg.genExprAsInt(n.Args[1]); err != nil {
			return TypeNone, err
		}
		cg.emit("push    hl")
		count := Expr(&IntLit{Value: 255, Lexeme: "255"})
		if len(n.Args) == 3 {
			count = n.Args[2]
		}
		if err := cg.genExprAsInt(count); err != nil {
			return TypeNone, err
		}
		cg.need("strlib_mid")
		tmp := cg.newTemp(256)
		cg.emit("ld      a,l")
		cg.emit("pop     hl")
		cg.emit("ld      h,l")
		cg.emit("ld      l,a")
		cg.emit("pop     de")
		cg.line("\tld      bc,%s", tmp)
		cg.emit("call    strlib_mid")
		return TypeString, nil
	}
	return TypeNone, errorAt(n.Line, n.Col, TypeError, "unknown function %s", n.Func)
}
