package basic

import (
	"strings"
	"testing"
)

func buildSource(t *testing.T, src string) *Output {
	t.Helper()
	out, err := Build(src, "test.bas", ".", DefaultOrg)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	return out
}

func buildError(t *testing.T, src string) *Diagnostic {
	t.Helper()
	_, err := Build(src, "test.bas", ".", DefaultOrg)
	if err == nil {
		t.Fatalf("expected error compiling %q", src)
	}
	d, ok := err.(*Diagnostic)
	if !ok {
		t.Fatalf("expected *Diagnostic, got %T: %v", err, err)
	}
	return d
}

func TestGenerateDeterministic(t *testing.T) {
	src := "10 MODE 1\n20 FOR I=1 TO 3\n30 PRINT I;\" \";CHR$(I+64)\n40 NEXT\n50 GOTO 10"
	a := buildSource(t, src).Asm
	b := buildSource(t, src).Asm
	if a != b {
		t.Error("two compilations of the same source differ")
	}
}

// definedLabels collects every "name:" definition in the assembly.
func definedLabels(asm string) map[string]bool {
	labels := make(map[string]bool)
	for _, line := range strings.Split(asm, "\n") {
		trimmed := strings.TrimSpace(line)
		if i := strings.IndexByte(trimmed, ':'); i > 0 && !strings.HasPrefix(trimmed, ";") {
			name := trimmed[:i]
			if !strings.ContainsAny(name, " \t") {
				labels[name] = true
			}
		}
	}
	return labels
}

// branchTargets collects the symbolic operands of jp/jr/call instructions.
func branchTargets(asm string) []string {
	var targets []string
	for _, line := range strings.Split(asm, "\n") {
		trimmed := strings.TrimSpace(line)
		if i := strings.IndexByte(trimmed, ';'); i >= 0 {
			trimmed = strings.TrimSpace(trimmed[:i])
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}
		op := fields[0]
		if op != "jp" && op != "jr" && op != "call" {
			continue
		}
		operand := fields[len(fields)-1]
		if i := strings.LastIndexByte(operand, ','); i >= 0 {
			operand = operand[i+1:]
		}
		// skip absolute addresses, relative expressions and register forms
		if operand == "" || operand[0] == '&' || operand[0] == '$' || operand[0] == '(' ||
			(operand[0] >= '0' && operand[0] <= '9') {
			continue
		}
		targets = append(targets, operand)
	}
	return targets
}

// Every symbolic jp/call/jr target must be a defined label.
func TestLabelCompleteness(t *testing.T) {
	src := strings.Join([]string{
		"10 MODE 2",
		"20 FOR X=32 TO 255",
		`30 PRINT X;" ";CHR$(X);" ";`,
		"40 NEXT",
		"50 A$=\"AB\"+\"CD\"",
		"60 IF LEN(A$)>3 THEN 70 ELSE 80",
		"70 PRINT LEFT$(A$,2)",
		"80 WHILE PEEK(&B000)=0",
		"90 WEND",
		"100 B!=1.5*2.5",
		"110 PRINT B!",
		"120 GOSUB 130",
		"130 RETURN",
	}, "\n")
	out := buildSource(t, src)
	labels := definedLabels(out.Asm)
	for _, target := range branchTargets(out.Asm) {
		if !labels[target] {
			t.Errorf("branch target %q has no label definition", target)
		}
	}
}

// Every routine emitted into the LIBRARY AREA must be referenced at least
// once from the code area or from another library routine.
func TestLibraryMinimality(t *testing.T) {
	src := "10 PRINT 123\n20 A%=6/2\n30 PRINT HEX$(A%)\n40 B!=2.5+1\n50 PRINT B!"
	out := buildSource(t, src)
	for _, name := range out.Library {
		r := runtimeLib[name]
		bodyLabels := make(map[string]bool)
		for _, l := range r.Body {
			trimmed := strings.TrimSpace(l)
			if i := strings.IndexByte(trimmed, ':'); i > 0 && !strings.HasPrefix(trimmed, ";") {
				bodyLabels[trimmed[:i]] = true
			}
		}
		referenced := false
		for _, target := range branchTargets(out.Asm) {
			if bodyLabels[target] {
				referenced = true
				break
			}
		}
		if !referenced {
			t.Errorf("library routine %s emitted but never referenced", name)
		}
	}
}

func TestEveryLineGetsLabel(t *testing.T) {
	out := buildSource(t, "10 CLS\n20 PRINT\n30 GOTO 10")
	for _, want := range []string{"__label_line_10:", "__label_line_20:", "__label_line_30:"} {
		if !strings.Contains(out.Asm, want) {
			t.Errorf("missing %s", want)
		}
	}
}

func TestEmptyPrintEmitsNewline(t *testing.T) {
	out := buildSource(t, "10 PRINT")
	if !strings.Contains(out.Asm, "call    strlib_print_nl") {
		t.Error("empty PRINT does not call strlib_print_nl")
	}
}

func TestTrailingSemicolonSuppressesNewline(t *testing.T) {
	out := buildSource(t, `10 PRINT "X";`)
	code := out.Asm[:strings.Index(out.Asm, "; LIBRARY AREA")]
	if strings.Contains(code, "call    strlib_print_nl") {
		t.Error("trailing ; must suppress the newline call")
	}
}

func TestHexLiteralCompilesToFFFF(t *testing.T) {
	out := buildSource(t, "10 A%=&FFFF")
	if !strings.Contains(out.Asm, "ld      hl,&FFFF") {
		t.Error("&FFFF literal not emitted as &FFFF")
	}
}

func TestIntegerDivisionStaysInteger(t *testing.T) {
	out := buildSource(t, "10 A%=7/2")
	if !strings.Contains(out.Asm, "call    div16_signed") {
		t.Error("integer / integer must use div16_signed")
	}
	if strings.Contains(out.Asm, "reallib_div") {
		t.Error("integer division must not touch the real library")
	}
}

func TestComparisonYieldsMinusOne(t *testing.T) {
	out := buildSource(t, "10 A%=1=1")
	if !strings.Contains(out.Asm, "ld      hl,&FFFF") {
		t.Error("comparison does not produce the -1 true value")
	}
}

func TestVariableReservations(t *testing.T) {
	out := buildSource(t, "10 A%=1\n20 B!=1.5\n30 C$=\"X\"")
	data := out.Asm[strings.Index(out.Asm, "; DATA AREA"):]
	checks := []string{"var_a: dw 0", "var_b: defs 5", "var_c: defs 256"}
	for _, want := range checks {
		if !strings.Contains(data, want) {
			t.Errorf("data area missing %q", want)
		}
	}
}

func TestOnlyLiveVariablesReserved(t *testing.T) {
	out := buildSource(t, "10 A%=1")
	data := out.Asm[strings.Index(out.Asm, "; DATA AREA"):]
	if !strings.Contains(data, "var_a: dw 0") {
		t.Error("live variable missing from the data area")
	}
	if strings.Count(data, "var_") != strings.Count(data, "var_a") {
		t.Error("unexpected extra reservations")
	}
}

func TestNestingErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "NEXT without FOR", src: "10 NEXT"},
		{name: "Cross-closed FOR", src: "10 FOR I=1 TO 3\n20 FOR J=1 TO 3\n30 NEXT I"},
		{name: "FOR without NEXT", src: "10 FOR I=1 TO 3\n20 PRINT I"},
		{name: "WEND without WHILE", src: "10 WEND"},
		{name: "WHILE without WEND", src: "10 WHILE 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := buildError(t, tt.src)
			if d.Kind != NestingError {
				t.Errorf("kind = %v, want NestingError (%v)", d.Kind, d)
			}
		})
	}
}

func TestNestingErrorPosition(t *testing.T) {
	d := buildError(t, "10 FOR I=1 TO 3\n20 FOR J=1 TO 3\n30 NEXT I")
	if d.Line != 3 {
		t.Errorf("NestingError anchored at line %d, want 3", d.Line)
	}
}

func TestTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "String plus integer", src: `10 A$="X"+1`},
		{name: "Integer assigned string", src: `10 A%="X"`},
		{name: "String assigned integer", src: `10 A$=5`},
		{name: "Unary minus on string", src: `10 A%=-"X"`},
		{name: "Less-than on strings", src: `10 A%="A"<"B"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := buildError(t, tt.src)
			if d.Kind != TypeError {
				t.Errorf("kind = %v, want TypeError (%v)", d.Kind, d)
			}
		})
	}
}

func TestLocateRealArgumentWarns(t *testing.T) {
	out := buildSource(t, "10 LOCATE 1.5,2")
	if len(out.Warnings) == 0 {
		t.Fatal("expected a truncation warning")
	}
	if !out.Warnings[0].Warning {
		t.Error("diagnostic not marked as warning")
	}
	if !strings.Contains(out.Warnings[0].Error(), "warning:") {
		t.Errorf("warning format: %s", out.Warnings[0].Error())
	}
}

func TestMixedArithmeticPromotesToReal(t *testing.T) {
	out := buildSource(t, "10 A%=5\n20 B!=A%+1.5\n30 PRINT B!")
	if !strings.Contains(out.Asm, "call    reallib_int2real") {
		t.Error("integer operand not promoted through reallib_int2real")
	}
	if !strings.Contains(out.Asm, "call    reallib_add") {
		t.Error("real addition not emitted")
	}
}

func TestStringConcat(t *testing.T) {
	out := buildSource(t, `10 A$="AB"+"CD"`)
	if !strings.Contains(out.Asm, "call    strlib_concat") {
		t.Error("string + string must concatenate")
	}
}

func TestDataStream(t *testing.T) {
	out := buildSource(t, "10 DATA 1,\"HI\",2.5\n20 READ A%,B$,C!\n30 RESTORE 10")
	for _, want := range []string{
		"__data_line_10:",
		"__datalib_ptr: dw __data_stream",
		"call    datalib_read_int",
		"call    datalib_read_str",
		"call    datalib_read_real",
	} {
		if !strings.Contains(out.Asm, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestRestoreWithoutDataLineFindsNext(t *testing.T) {
	out := buildSource(t, "10 A%=0\n20 DATA 7\n30 READ A%\n40 RESTORE 10")
	if !strings.Contains(out.Asm, "ld      hl,__data_line_20") {
		t.Error("RESTORE 10 should resolve to the first DATA line at or after 10")
	}
}

func TestGosubReturn(t *testing.T) {
	out := buildSource(t, "10 GOSUB 30\n20 END\n30 RETURN")
	if !strings.Contains(out.Asm, "call    __label_line_30") {
		t.Error("GOSUB must lower to call")
	}
	if !strings.Contains(out.Asm, "\tret\n") {
		t.Error("RETURN must lower to ret")
	}
}

func TestCallLiteralAndExpression(t *testing.T) {
	out := buildSource(t, "10 CALL &BD19\n20 A%=&BD19\n30 CALL A%")
	if !strings.Contains(out.Asm, "call    &BD19") {
		t.Error("literal CALL must call the address directly")
	}
	if !strings.Contains(out.Asm, "call    calllib_jphl") {
		t.Error("computed CALL must go through calllib_jphl")
	}
}

func TestForStepNegativeConstant(t *testing.T) {
	out := buildSource(t, "10 FOR I%=10 TO 1 STEP -1\n20 NEXT")
	if !strings.Contains(out.Asm, "call    comp16_signed") {
		t.Error("FOR comparison missing")
	}
	// counted down: out-of-range branch on carry only
	if !strings.Contains(out.Asm, "jp      c,__for_out_") {
		t.Error("negative step must exit when the index drops below the limit")
	}
}

func TestWhileWendLowering(t *testing.T) {
	out := buildSource(t, "10 WHILE PEEK(0)=0\n20 WEND")
	if !strings.Contains(out.Asm, "__while_head_") || !strings.Contains(out.Asm, "__while_out_") {
		t.Error("WHILE/WEND labels missing")
	}
}
