package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	// Добавляем файл первый раз
	id1 := fs.Add("test.rpn", []byte("1 2+"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	// Добавляем тот же файл с новым содержимым
	id2 := fs.Add("test.rpn", []byte("3 4*"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("test.rpn")
	if !exists {
		t.Fatal("Expected file to exist after second Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}
	if got := string(fs.Get(id1).Content); got != "1 2+" {
		t.Errorf("old version must stay reachable, got %q", got)
	}
	if fs.Get(42) != nil {
		t.Error("Get must return nil for unknown ids")
	}
}

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.rpn")
	content := []byte("\xEF\xBB\xBF1 2+\r\n３ ４＊\r\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if got, want := string(f.Content), "1 2+\n３ ４＊\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	for _, flag := range []FileFlags{FileHadBOM, FileNormalizedCRLF} {
		if f.Flags&flag == 0 {
			t.Errorf("expected flag %b to be set, flags=%b", flag, f.Flags)
		}
	}
	if f.Flags&FileVirtual != 0 {
		t.Error("loaded file must not be virtual")
	}
}

func TestFileLines(t *testing.T) {
	tests := []struct {
		content string
		lines   []string
	}{
		{"", nil},
		{"1 2+", []string{"1 2+"}},
		{"1 2+\n", []string{"1 2+"}},
		{"1\n\n2", []string{"1", "", "2"}},
	}
	for _, tt := range tests {
		f := NewStandalone("t", tt.content)
		if got := f.LineCount(); got != len(tt.lines) {
			t.Errorf("%q: LineCount = %d, want %d", tt.content, got, len(tt.lines))
			continue
		}
		for i, want := range tt.lines {
			if got := f.GetLine(i + 1); got != want {
				t.Errorf("%q: line %d = %q, want %q", tt.content, i+1, got, want)
			}
		}
		if got := f.GetLine(len(tt.lines) + 1); got != "" {
			t.Errorf("%q: line past end = %q", tt.content, got)
		}
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t", []byte("ab\ncd\n"))

	start, end := fs.Resolve(Span{File: id, Start: 3, End: 5})
	if start != (LineCol{Line: 2, Col: 1}) || end != (LineCol{Line: 2, Col: 3}) {
		t.Errorf("got %v-%v", start, end)
	}
	// '\n' belongs to the line it terminates
	start, _ = fs.Resolve(Span{File: id, Start: 2, End: 2})
	if start != (LineCol{Line: 1, Col: 3}) {
		t.Errorf("newline resolved to %v", start)
	}
}
