package token

import (
	"rpn/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsValue reports whether the token produces a pushable value (numbers and function references).
func (t Token) IsValue() bool {
	return t.Kind == Number || t.Kind == FuncRef
}

// Name returns the identifier name without parentheses.
func (t Token) Name() string {
	if t.Kind != Ident || len(t.Text) < 2 {
		return ""
	}
	return t.Text[1 : len(t.Text)-1]
}

// Operator returns the operator kind referenced by a FuncRef token.
func (t Token) Operator() Kind {
	if t.Kind != FuncRef || len(t.Text) != 2 {
		return Invalid
	}
	k, _ := LookupOperator(t.Text[1])
	return k
}
