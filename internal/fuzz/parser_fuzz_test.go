package fuzztests

import (
	"context"
	"testing"
	"time"

	"rpn/internal/diag"
	"rpn/internal/parser"
	"rpn/internal/source"
	"rpn/internal/vm"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParseFile(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.rpn", input))
		bag := diag.NewBag(128)

		lines := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if len(lines) != file.LineCount() {
			t.Fatalf("got %d line results for %d lines", len(lines), file.LineCount())
		}
		for _, l := range lines {
			for _, instr := range l.Result.Instrs {
				if instr.Kind == vm.KindInvalid {
					t.Fatalf("line %d produced an invalid instruction", l.Line)
				}
			}
			if l.Err != nil && bag.Len() == 0 && bag.Cap() > 0 {
				t.Fatalf("line %d failed without a diagnostic: %v", l.Line, l.Err)
			}
		}
	})
}

// FuzzParserNoHang tests that ParseLine doesn't hang on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("{{{{{{{{{{"))
	f.Add([]byte("}}}}}}}}}}"))
	f.Add([]byte("{ \\+ \\- \\* 1 2 3 | @ $ }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = parser.ParseLine(string(input))
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
