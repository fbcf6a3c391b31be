package lexer

import (
	"rpn/internal/diag"
	"rpn/internal/token"
)

// Все операторы односимвольные, поэтому жадность не нужна.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	ch := lx.cursor.Peek()
	switch ch {
	case '{':
		lx.cursor.Bump()
		return emit(token.LBrace)
	case '}':
		lx.cursor.Bump()
		return emit(token.RBrace)
	}
	if k, ok := token.LookupOperator(ch); ok {
		lx.cursor.Bump()
		return emit(k)
	}

	lx.bumpRune()
	tok := emit(token.Invalid)
	lx.report(diag.LexUnknownChar, tok.Span, "unknown character "+quoteText(tok.Text)+compatHint(tok.Text))
	return tok
}

// "(" alnum+ ")"
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '('

	n := 0
	for isAlnum(lx.cursor.Peek()) {
		lx.cursor.Bump()
		n++
	}
	if n == 0 || !lx.cursor.Eat(')') {
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadIdent, sp, "expected identifier of the form (name)")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Ident, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// "\" + operator
func (lx *Lexer) scanFuncRef() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'

	if _, ok := token.LookupOperator(lx.cursor.Peek()); !ok {
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadFuncRef, sp, "expected an operator after '\\'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: `\`}
	}
	lx.cursor.Bump()

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.FuncRef, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
