package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"rpn/internal/token"
)

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	if lx.cursor.EOF() {
		return
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		lx.cursor.Bump()
		return
	}
	_, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isAlnum(b byte) bool {
	return isDec(b) || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Проверка для кейса ".5": текущая точка, дальше цифра?
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}

// Проверка для "-5" и "-.5".
func (lx *Lexer) isNumberAfterMinus() bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '-' {
		return false
	}
	if isDec(b1) {
		return true
	}
	_, _, b2, ok := lx.cursor.Peek3()
	return ok && b1 == '.' && isDec(b2)
}

func quoteText(s string) string {
	return strconv.Quote(s)
}

// compatHint подсказывает ASCII-символ, если руна является его совместимой
// формой (полноширинные цифры и операторы). Сама руна остаётся ошибкой.
func compatHint(text string) string {
	folded := norm.NFKC.String(text)
	if folded == text || len(folded) != 1 {
		return ""
	}
	b := folded[0]
	if _, ok := token.LookupOperator(b); ok || isDec(b) || b == '{' || b == '}' || b == '(' || b == ')' || b == '\\' {
		return fmt.Sprintf(" (did you mean %q?)", folded)
	}
	return ""
}
