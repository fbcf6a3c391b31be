// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"rpn/internal/source"
	"rpn/internal/token"
)

// CheckTokenSpans runs span invariants on a complete token stream:
// 1) the stream ends with exactly one EOF token
// 2) every non-EOF span is non-empty and within file content bounds
// 3) spans are ordered and do not overlap
// 4) every span points to sf
func CheckTokenSpans(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(tokens) == 0 {
		return fmt.Errorf("empty token stream")
	}
	limit, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content length overflow: %w", err)
	}

	var prevEnd uint32
	for i, tok := range tokens {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d points to file %d, want %d", i, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > limit {
			return fmt.Errorf("token %d span %v outside [0,%d]", i, sp, limit)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("token %d span %v overlaps previous end %d", i, sp, prevEnd)
		}
		last := i == len(tokens)-1
		if tok.Kind == token.EOF {
			if !last {
				return fmt.Errorf("EOF at position %d of %d", i, len(tokens))
			}
			continue
		}
		if last {
			return fmt.Errorf("stream does not end with EOF")
		}
		if sp.Empty() {
			return fmt.Errorf("token %d (%s) has an empty span", i, tok.Kind)
		}
		prevEnd = sp.End
	}
	return nil
}
