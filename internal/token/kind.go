package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Number represents a float literal such as 1, -2.5, .5 or 5.
	Number
	// Ident represents a parenthesized identifier "(name)".
	Ident
	// FuncRef represents a backslash-prefixed operator "\+".
	FuncRef
	// LBrace opens a function-literal block.
	LBrace // {
	// RBrace closes a function-literal block.
	RBrace // }

	// Plus represents the add operator.
	Plus // +
	// Minus represents the sub operator.
	Minus // -
	// Star represents the mul operator.
	Star // *
	// Slash represents the div operator.
	Slash // /
	// Percent represents the mod operator.
	Percent // %
	// Lt represents the less-than operator.
	Lt // <
	// Gt represents the greater-than operator.
	Gt // >
	// Eq represents the equality operator.
	Eq // =
	// Question represents the conditional operator.
	Question // ?
	// At represents the curry operator.
	At // @
	// Pipe represents the compose operator.
	Pipe // |
	// Dollar represents the apply operator.
	Dollar // $
	// Store represents the store operator.
	Store // s
	// Load represents the load operator.
	Load // l
	// Repeat represents the repeat operator.
	Repeat // r
	// StackSize represents the stack size operator.
	StackSize // S
	// Print represents the print operator.
	Print // p
	// PrintAll represents the print-all operator.
	PrintAll // f
	// Clear represents the clear operator.
	Clear // c
	// Quit represents the quit operator.
	Quit // q
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Number:    "Number",
	Ident:     "Ident",
	FuncRef:   "FuncRef",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
	Plus:      "Plus",
	Minus:     "Minus",
	Star:      "Star",
	Slash:     "Slash",
	Percent:   "Percent",
	Lt:        "Lt",
	Gt:        "Gt",
	Eq:        "Eq",
	Question:  "Question",
	At:        "At",
	Pipe:      "Pipe",
	Dollar:    "Dollar",
	Store:     "Store",
	Load:      "Load",
	Repeat:    "Repeat",
	StackSize: "StackSize",
	Print:     "Print",
	PrintAll:  "PrintAll",
	Clear:     "Clear",
	Quit:      "Quit",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsOperator reports whether the kind is one of the single-byte operators.
func (k Kind) IsOperator() bool {
	return k >= Plus && k <= Quit
}
