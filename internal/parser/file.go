package parser

import (
	"rpn/internal/source"
)

// LineResult is the outcome of parsing one line of a file.
type LineResult struct {
	Line   int // 1-based
	Result Result
	Err    *ParseError
}

// ParseFile parses every line of file independently. Function literals never
// span lines.
func ParseFile(file *source.File, opts Options) []LineResult {
	count := file.LineCount()
	out := make([]LineResult, 0, count)
	for line := 1; line <= count; line++ {
		start, end, ok := file.LineBounds(line)
		if !ok {
			break
		}
		res, err := ParseRange(file, start, end, opts)
		out = append(out, LineResult{Line: line, Result: res, Err: err})
	}
	return out
}
