package driver

import (
	"fmt"
	"strings"
)

// ErrorPolicy decides what happens to the rest of a line after a runtime error.
type ErrorPolicy uint8

const (
	// ContinueOnError keeps executing the remaining instructions of the line.
	ContinueOnError ErrorPolicy = iota
	// AbortLine drops the remaining instructions of the line.
	AbortLine
)

func (p ErrorPolicy) String() string {
	switch p {
	case AbortLine:
		return "abort"
	default:
		return "continue"
	}
}

// ParseErrorPolicy converts a string to an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continue":
		return ContinueOnError, nil
	case "abort":
		return AbortLine, nil
	default:
		return ContinueOnError, fmt.Errorf("invalid on_error value %q (expected continue|abort)", s)
	}
}

// ParsePolicy decides whether instructions parsed before a parse failure run.
type ParsePolicy uint8

const (
	// DiscardLine runs nothing from a line that failed to parse.
	DiscardLine ParsePolicy = iota
	// PartialLine runs the instructions parsed before the failure.
	PartialLine
)

func (p ParsePolicy) String() string {
	switch p {
	case PartialLine:
		return "partial"
	default:
		return "discard"
	}
}

// ParseParsePolicy converts a string to a ParsePolicy.
func ParseParsePolicy(s string) (ParsePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discard":
		return DiscardLine, nil
	case "partial":
		return PartialLine, nil
	default:
		return DiscardLine, fmt.Errorf("invalid on_parse_error value %q (expected discard|partial)", s)
	}
}
