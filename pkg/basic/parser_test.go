package basic

import (
	"strings"
	"testing"
)

func parseSource(t *testing.T, src string) ([]*Line, *SymbolTable, error) {
	t.Helper()
	tokens, err := Lex([]byte(src))
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	return Parse(tokens, src)
}

func mustParse(t *testing.T, src string) ([]*Line, *SymbolTable) {
	t.Helper()
	lines, syms, err := parseSource(t, src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return lines, syms
}

func TestParseImplicitLet(t *testing.T) {
	lines, _ := mustParse(t, "10 A=5")
	if len(lines) != 1 || len(lines[0].Stmts) != 1 {
		t.Fatalf("unexpected shape: %v", lines)
	}
	let, ok := lines[0].Stmts[0].(*Let)
	if !ok {
		t.Fatalf("expected *Let, got %T", lines[0].Stmts[0])
	}
	if let.Target.Name != "A" || let.Target.Type != TypeReal {
		t.Errorf("target = %s %s, want A real", let.Target.Name, let.Target.Type)
	}
}

func TestParseExplicitLet(t *testing.T) {
	lines, _ := mustParse(t, "10 LET A%=5")
	let := lines[0].Stmts[0].(*Let)
	if let.Target.Type != TypeInteger {
		t.Errorf("A%% parsed as %s", let.Target.Type)
	}
}

func TestParseThenLineNumberRewritesToGoto(t *testing.T) {
	lines, _ := mustParse(t, "10 IF 0 THEN 30 ELSE 20\n20 END\n30 END")
	ifStmt := lines[0].Stmts[0].(*If)
	g, ok := ifStmt.Then[0].(*Goto)
	if !ok || g.TargetLine != 30 {
		t.Fatalf("THEN 30 did not become GOTO 30: %v", ifStmt.Then[0])
	}
	e, ok := ifStmt.Else[0].(*Goto)
	if !ok || e.TargetLine != 20 {
		t.Fatalf("ELSE 20 did not become GOTO 20: %v", ifStmt.Else[0])
	}
}

func TestParseColonSeparatedStatements(t *testing.T) {
	lines, _ := mustParse(t, "10 CLS : PRINT \"X\" : END")
	if len(lines[0].Stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(lines[0].Stmts))
	}
}

func TestParseNextList(t *testing.T) {
	lines, _ := mustParse(t, "10 FOR I=1 TO 2\n20 FOR J=1 TO 2\n30 NEXT J,I")
	stmts := lines[2].Stmts
	if len(stmts) != 2 {
		t.Fatalf("NEXT J,I expanded to %d statements, want 2", len(stmts))
	}
	if stmts[0].(*Next).Var.Name != "J" || stmts[1].(*Next).Var.Name != "I" {
		t.Errorf("NEXT list order wrong: %v", stmts)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind DiagKind
	}{
		{name: "Unresolved GOTO", src: "10 GOTO 99\n20 END", kind: UnresolvedLabel},
		{name: "Unresolved GOSUB", src: "10 GOSUB 500", kind: UnresolvedLabel},
		{name: "Unresolved THEN target", src: "10 IF 1 THEN 99", kind: UnresolvedLabel},
		{name: "Unknown label alias", src: "10 GOTO NOWHERE", kind: UnresolvedLabel},
		{name: "Line numbers must increase", src: "20 END\n10 END", kind: SyntaxError},
		{name: "Duplicate line number", src: "10 END\n10 END", kind: SyntaxError},
		{name: "Type conflict int then string", src: "10 A%=1\n20 A$=\"X\"", kind: TypeError},
		{name: "Type conflict default real then int", src: "10 A=1\n20 A%=2", kind: TypeError},
		{name: "String FOR index", src: "10 FOR S$=1 TO 2", kind: TypeError},
		{name: "Unsupported keyword", src: "10 SOUND 1,100", kind: UnsupportedFeature},
		{name: "DEF FN unsupported", src: "10 DEF FN A(X)=X*2", kind: UnsupportedFeature},
		{name: "RND unsupported in expression", src: "10 A=RND(1)", kind: UnsupportedFeature},
		{name: "PRINT to stream", src: "10 PRINT #1,\"X\"", kind: UnsupportedFeature},
		{name: "CALL with parameters", src: "10 CALL &BB00,1", kind: UnsupportedFeature},
		{name: "Missing THEN", src: "10 IF 1 GOTO 20\n20 END", kind: SyntaxError},
		{name: "Statement expected", src: "10 5+5", kind: SyntaxError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseSource(t, tt.src)
			if err == nil {
				t.Fatalf("expected error for %q", tt.src)
			}
			d, ok := err.(*Diagnostic)
			if !ok {
				t.Fatalf("expected *Diagnostic, got %T: %v", err, err)
			}
			if d.Kind != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", d.Kind, tt.kind, d)
			}
		})
	}
}

func TestParseUnresolvedLabelPosition(t *testing.T) {
	_, _, err := parseSource(t, "10 GOTO 99\n20 END")
	d := err.(*Diagnostic)
	if d.Line != 1 {
		t.Errorf("diagnostic anchored at line %d, want 1", d.Line)
	}
}

func TestParseLabelStatement(t *testing.T) {
	lines, syms := mustParse(t, "10 LABEL START : PRINT \"X\"\n20 GOTO START")
	g := lines[1].Stmts[0].(*Goto)
	if g.TargetLine != 10 {
		t.Errorf("GOTO START resolved to %d, want 10", g.TargetLine)
	}
	if n, ok := syms.ResolveAlias("START"); !ok || n != 10 {
		t.Errorf("alias START = %d (%v), want 10", n, ok)
	}
}

func TestParseIdentColonLabel(t *testing.T) {
	lines, _ := mustParse(t, "10 LOOP: PRINT \"X\"\n20 GOTO LOOP")
	if _, ok := lines[0].Stmts[0].(*LabelStmt); !ok {
		t.Fatalf("expected label statement, got %T", lines[0].Stmts[0])
	}
	g := lines[1].Stmts[0].(*Goto)
	if g.TargetLine != 10 {
		t.Errorf("GOTO LOOP resolved to %d, want 10", g.TargetLine)
	}
}

func TestParseDataAndRead(t *testing.T) {
	lines, _ := mustParse(t, `10 DATA 1,-2,3.5,"HI"`+"\n20 READ A%,B%,C!,D$\n30 RESTORE 10")
	d := lines[0].Stmts[0].(*Data)
	if len(d.Items) != 4 {
		t.Fatalf("got %d DATA items", len(d.Items))
	}
	if d.Items[1].Type != TypeInteger || int16(d.Items[1].Int) != -2 {
		t.Errorf("DATA -2 decoded as %v", d.Items[1])
	}
	if d.Items[2].Type != TypeReal || d.Items[2].Real != 3.5 {
		t.Errorf("DATA 3.5 decoded as %v", d.Items[2])
	}
	r := lines[1].Stmts[0].(*Read)
	if len(r.Vars) != 4 {
		t.Errorf("READ parsed %d vars", len(r.Vars))
	}
}

func TestParseDimRecordsArray(t *testing.T) {
	_, syms := mustParse(t, "10 DIM A%(10), B$(3)")
	a, _ := syms.LookupVar("A")
	if len(a.ArraySizes) != 1 || a.ArraySizes[0] != 10 {
		t.Errorf("A%% sizes = %v", a.ArraySizes)
	}
	b, _ := syms.LookupVar("B")
	if b.Type != TypeString {
		t.Errorf("B$ type = %v", b.Type)
	}
}

func TestParseSymbol(t *testing.T) {
	lines, _ := mustParse(t, "10 SYMBOL AFTER 240\n20 SYMBOL 240,&00,&00,&74,&7E,&6C,&70,&7C,&30")
	sa := lines[0].Stmts[0].(*SymbolAfter)
	if sa.First != 240 {
		t.Errorf("SYMBOL AFTER first = %d", sa.First)
	}
	sd := lines[1].Stmts[0].(*SymbolDef)
	if sd.Rows[3] != 0x7E {
		t.Errorf("SYMBOL row 3 = &%02X, want &7E", sd.Rows[3])
	}
}

// Re-parsing the prettified AST yields the same prettified form.
func TestParsePrettyRoundTrip(t *testing.T) {
	src := strings.Join([]string{
		"10 MODE 2",
		`20 PRINT "HI";CHR$(65),A%`,
		"30 FOR I=1 TO 10 STEP 2",
		"40 IF I>5 THEN PRINT I ELSE PRINT 0",
		"50 NEXT I",
		"60 GOTO 10",
	}, "\n")
	lines, _ := mustParse(t, src)
	var pretty []string
	for _, ln := range lines {
		pretty = append(pretty, ln.String())
	}
	again, _ := mustParse(t, strings.Join(pretty, "\n"))
	for i := range lines {
		if lines[i].String() != again[i].String() {
			t.Errorf("line %d round trip mismatch:\n%s\n%s", i, lines[i], again[i])
		}
	}
}
