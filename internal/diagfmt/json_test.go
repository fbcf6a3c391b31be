package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"rpn/internal/lexer"
	"rpn/internal/source"
	"rpn/internal/token"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	span := func(id source.FileID) source.Span { return source.Span{File: id, Start: 6, End: 7} }
	fs, bag := sampleBag("/src/prog.rpn", "1 2+\n3x\n", span)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LEX1001" {
		t.Errorf("severity/code = %s/%s", d.Severity, d.Code)
	}
	if d.Location.File != "prog.rpn" || d.Location.StartLine != 2 || d.Location.StartCol != 2 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 {
		t.Errorf("expected 1 note, got %d", len(d.Notes))
	}
}

func TestJSONMaxAndNoPositions(t *testing.T) {
	span := func(id source.FileID) source.Span { return source.Span{File: id, Start: 0, End: 1} }
	fs, bag := sampleBag("a.rpn", "x", span)
	bag.Add(bag.Items()[0])

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Errorf("Max must trim output, got %d", out.Count)
	}
	if out.Diagnostics[0].Location.StartLine != 0 || out.Diagnostics[0].Notes != nil {
		t.Errorf("positions and notes must be omitted: %+v", out.Diagnostics[0])
	}
}

func lexAll(fs *source.FileSet, id source.FileID) []token.Token {
	lx := lexer.New(fs.Get(id), lexer.Options{})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.rpn", []byte(`1 \+ # c`))
	toks := lexAll(fs, id)

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(pretty.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got:\n%s", pretty.String())
	}
	if !strings.HasPrefix(lines[0], "  1: Number     \"1\"" + strings.Repeat(" ", 10) + "at 1:1-1:2") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "(leading: Space)") {
		t.Errorf("line 2 = %q", lines[1])
	}

	// широкие руны не сдвигают колонку позиции
	wide := fs.AddVirtual("w.rpn", []byte("＋ 1"))
	var aligned bytes.Buffer
	if err := FormatTokensPretty(&aligned, lexAll(fs, wide), fs); err != nil {
		t.Fatal(err)
	}
	rows := strings.Split(strings.TrimRight(aligned.String(), "\n"), "\n")
	if len(rows) < 2 {
		t.Fatalf("expected at least 2 rows, got:\n%s", aligned.String())
	}
	if a, b := runewidth.StringWidth(rows[0][:strings.Index(rows[0], " at ")]), runewidth.StringWidth(rows[1][:strings.Index(rows[1], " at ")]); a != b {
		t.Errorf("columns differ: %d vs %d\n%s", a, b, aligned.String())
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks); err != nil {
		t.Fatal(err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 3 || decoded[1].Kind != "FuncRef" || decoded[2].Kind != "EOF" {
		t.Errorf("decoded = %+v", decoded)
	}
}
