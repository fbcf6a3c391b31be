package lexer

import (
	"rpn/internal/token"
)

// Поддержка: 1, -2, 1.5, .5, 5., -3.25.
// Цифры могут отсутствовать только с одной стороны точки. Экспонент и '+' не поддерживаются:
// '+' всегда оператор.
// Вызывается только когда Next убедился, что впереди есть хотя бы одна цифра.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	lx.cursor.Eat('-')

	// целая часть
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// дробная часть; "5." допустимо
	if lx.cursor.Eat('.') {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Number, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
