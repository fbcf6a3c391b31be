package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"rpn/internal/diag"
	"rpn/internal/parser"
	"rpn/internal/source"
	"rpn/internal/vm"
)

// parseOK разбирает строку и сравнивает отладочное представление инструкций
func parseOK(t *testing.T, input, want string) {
	t.Helper()
	res, err := parser.ParseLine(input)
	if err != nil {
		t.Fatalf("ParseLine(%q): %v", input, err)
	}
	if diff := cmp.Diff(want, vm.FormatStack(res.Instrs)); diff != "" {
		t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", input, diff)
	}
}

func TestNumbersAndSubtraction(t *testing.T) {
	parseOK(t, "1 1-2--3", "[1.0, 1.0, -2.0, -, -3.0]")
	parseOK(t, ".5.5", "[0.5, 0.5]")
	parseOK(t, "4 4 +4", "[4.0, 4.0, +, 4.0]")
	parseOK(t, "5 2/3+3", "[5.0, 2.0, /, 3.0, +, 3.0]")
}

func TestFloats(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1", 1},
		{"1.0", 1},
		{"1.", 1},
		{"01.00", 1},
		{".5", 0.5},
		{"0.5", 0.5},
		{"-.5", -0.5},
	}
	for _, tt := range tests {
		res, err := parser.ParseLine(tt.in)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", tt.in, err)
		}
		if len(res.Instrs) != 1 || res.Instrs[0].Num != tt.want {
			t.Errorf("ParseLine(%q) = %s, want %v", tt.in, vm.FormatStack(res.Instrs), tt.want)
		}
	}
}

func TestAllOperators(t *testing.T) {
	parseOK(t, "+-*/%<>=?@|$slrSpfcq", "[+, -, *, /, %, <, >, =, ?, @, |, $, s, l, r, S, p, f, c, q]")
}

func TestFunctionReferences(t *testing.T) {
	parseOK(t, `\++`, `[\+, +]`)
	parseOK(t, `1 1\+ $`, `[1.0, 1.0, \+, $]`)
	parseOK(t, `\S \s 256@ |`, `[\S, \s, 256.0, @, |]`)
}

func TestIdentifiers(t *testing.T) {
	parseOK(t, "(asd)(sdf2)", "[(asd), (sdf2)]")
	parseOK(t, "2(x)s", "[2.0, (x), s]")
}

func TestComments(t *testing.T) {
	parseOK(t, "1 2 # 3 4", "[1.0, 2.0]")
	parseOK(t, "# only a comment", "[]")
	parseOK(t, "", "[]")
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"{*2", `[\*, 2.0, @]`},
		{"{+2}", `[\+, 2.0, @]`},
		{"{?+@-@}", `[\?, \+, @, |, \-, @, |]`},
		{`{\+}`, `[\+, @]`},
		{"{(f)}", "[(f)]"},
		{"{ S - 2 r }", `[\S, \-, 2.0, @, |, \r, |]`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			parseOK(t, tt.in, tt.want)
		})
	}
}

func TestBlockChainsLiteralsLeftToRight(t *testing.T) {
	res, err := parser.ParseLine("{ s256 s257 l257 l256 < l257 l256 ? }(min)s")
	if err != nil {
		t.Fatal(err)
	}
	m := vm.New(vm.Options{})
	for _, v := range res.Instrs {
		if verr := m.Process(v); verr != nil {
			t.Fatalf("Process(%s): %v", v, verr)
		}
	}
	if m.Depth() != 0 {
		t.Fatalf("stack must be empty, got %s", vm.FormatStack(m.Stack()))
	}
	stored, ok := m.Lookup("min")
	if !ok || stored.Kind != vm.KindComposed {
		t.Fatalf("min = %s", stored)
	}
	want := `{{{{{{{\s[256.0] | \s[257.0]} | \l[257.0]} | \l[256.0]} | \<} | \l[257.0]} | \l[256.0]} | \?}`
	if diff := cmp.Diff(want, stored.String()); diff != "" {
		t.Errorf("composition mismatch (-want +got):\n%s", diff)
	}
}

func TestImplicitClose(t *testing.T) {
	res, err := parser.ParseLine("{+ -")
	if err != nil {
		t.Fatal(err)
	}
	if !res.ImplicitClose {
		t.Error("expected ImplicitClose")
	}
	if got := vm.FormatStack(res.Instrs); got != `[\+, \-, |]` {
		t.Errorf("instrs = %s", got)
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		in      string
		code    diag.Code
		rest    string
		partial string
	}{
		{"asdf", diag.LexUnknownChar, "asdf", "[]"},
		{"a1", diag.LexUnknownChar, "a1", "[]"},
		{"1 2 x 3", diag.LexUnknownChar, "x 3", "[1.0, 2.0]"},
		{"(abc", diag.LexBadIdent, "(abc", "[]"},
		{"1 ()", diag.LexBadIdent, "()", "[1.0]"},
		{`\x`, diag.LexBadFuncRef, `\x`, "[]"},
		{"{1 {2}", diag.SynNestedBlock, "{2}", "[1.0, @]"},
		{"1 }", diag.SynUnbalancedBrace, "}", "[1.0]"},
		{"1 ①", diag.LexUnknownChar, "①", "[1.0]"},
		{"１ ２＋", diag.LexUnknownChar, "１ ２＋", "[]"},
		{"1 2 ＋", diag.LexUnknownChar, "＋", "[1.0, 2.0]"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res, err := parser.ParseLine(tt.in)
			if err == nil {
				t.Fatalf("expected a parse error, got %s", vm.FormatStack(res.Instrs))
			}
			if err.Code != tt.code {
				t.Errorf("code = %s, want %s", err.Code.ID(), tt.code.ID())
			}
			if err.Rest != tt.rest {
				t.Errorf("rest = %q, want %q", err.Rest, tt.rest)
			}
			if got := vm.FormatStack(res.Instrs); got != tt.partial {
				t.Errorf("partial = %s, want %s", got, tt.partial)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := parser.ParseLine("1 2 xyz")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != `Input contained unparsable tokens: "xyz"` {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseFileReportsDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("prog.rpn", []byte("1 2+\n{*2\n3 ~\n")))
	bag := diag.NewBag(10)

	lines := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Err != nil || lines[1].Err != nil {
		t.Errorf("lines 1-2 must parse: %v %v", lines[0].Err, lines[1].Err)
	}
	if !lines[1].Result.ImplicitClose {
		t.Error("line 2 must be closed implicitly")
	}
	if lines[2].Err == nil || lines[2].Err.Rest != "~" {
		t.Errorf("line 3 error = %v", lines[2].Err)
	}

	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(items))
	}
	if items[0].Code != diag.SynUnclosedBlock || items[0].Severity != diag.SevWarning {
		t.Errorf("first diagnostic = %s %s", items[0].Code.ID(), items[0].Severity)
	}
	if items[1].Code != diag.LexUnknownChar || items[1].Severity != diag.SevError {
		t.Errorf("second diagnostic = %s %s", items[1].Code.ID(), items[1].Severity)
	}
	start, _ := fs.Resolve(items[1].Primary)
	if start.Line != 3 || start.Col != 3 {
		t.Errorf("position = %d:%d, want 3:3", start.Line, start.Col)
	}
}
