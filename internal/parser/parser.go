// Package parser turns lines of source text into evaluator instructions.
package parser

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"rpn/internal/diag"
	"rpn/internal/lexer"
	"rpn/internal/source"
	"rpn/internal/token"
	"rpn/internal/vm"
)

type Options struct {
	Reporter diag.Reporter // может быть nil
}

// Result holds the instructions of one line. On failure it keeps the
// instructions parsed before the offending token.
type Result struct {
	Instrs []vm.Value
	// ImplicitClose is set when a function literal was still open at end of line.
	ImplicitClose bool
}

// ParseError describes the first unparsable token of a line.
type ParseError struct {
	Code    diag.Code
	Message string
	Span    source.Span
	// Rest is the remainder of the line starting at the offending token.
	Rest string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Input contained unparsable tokens: \"%s\"", e.Rest)
}

// blockContext is the lexical mode of a "{ ... }" function literal.
type blockContext struct {
	active   bool
	literals int
	open     source.Span
}

// Parser: состояние парсера на один диапазон исходника
type Parser struct {
	lx    *lexer.Lexer
	opts  Options
	block blockContext
	out   []vm.Value
}

// ParseLine parses a standalone line of text.
func ParseLine(text string) (Result, *ParseError) {
	file := source.NewStandalone("<line>", text)
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("line length overflow: %w", err))
	}
	return ParseRange(file, 0, end, Options{})
}

// ParseRange parses [start, end) of file as one line.
func ParseRange(file *source.File, start, end uint32, opts Options) (Result, *ParseError) {
	p := Parser{
		lx:   lexer.NewRange(file, start, end, lexer.Options{Reporter: opts.Reporter}),
		opts: opts,
	}
	return p.parse()
}

func (p *Parser) parse() (Result, *ParseError) {
	for {
		tok := p.lx.Next()
		switch tok.Kind {
		case token.EOF:
			implicit := p.block.active
			if implicit {
				p.report(diag.SynUnclosedBlock, diag.SevWarning, p.block.open,
					"function literal is closed implicitly at end of line")
				p.closeBlock()
			}
			return Result{Instrs: p.out, ImplicitClose: implicit}, nil

		case token.Number:
			num, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil {
				return p.fail(tok, diag.LexUnknownChar, fmt.Sprintf("bad number %q", tok.Text))
			}
			p.emitOperand(vm.MakeNumber(num))

		case token.FuncRef:
			op, ok := vm.OpFromChar(tok.Text[1])
			if !ok {
				return p.fail(tok, diag.LexBadFuncRef, "unknown operator in function reference")
			}
			p.emitOperand(vm.MakeFuncRef(op))

		case token.Ident:
			p.out = append(p.out, vm.MakeIdent(tok.Name()))

		case token.LBrace:
			if p.block.active {
				return p.fail(tok, diag.SynNestedBlock, "function literals cannot be nested")
			}
			p.block = blockContext{active: true, open: tok.Span}

		case token.RBrace:
			if !p.block.active {
				return p.fail(tok, diag.SynUnbalancedBrace, "'}' without matching '{'")
			}
			p.closeBlock()

		case token.Invalid:
			return p.fail(tok, invalidCode(tok), "unparsable input")

		default:
			op, ok := vm.OpFromChar(tok.Text[0])
			if !ok {
				return p.fail(tok, diag.LexUnknownChar, "unknown operator")
			}
			p.emitOperator(op)
		}
	}
}

// emitOperand pushes a literal operand; inside a block it is curried into the
// function built so far.
func (p *Parser) emitOperand(v vm.Value) {
	p.out = append(p.out, v)
	if p.block.active {
		p.out = append(p.out, vm.MakePrim(vm.OpCurry))
	}
}

// emitOperator runs a primitive, or inside a block turns it into a function
// literal chained onto the previous ones.
func (p *Parser) emitOperator(op vm.Op) {
	if !p.block.active || op == vm.OpCurry || op == vm.OpCompose {
		p.out = append(p.out, vm.MakePrim(op))
		return
	}
	if p.block.literals >= 2 {
		p.out = append(p.out, vm.MakePrim(vm.OpCompose))
	}
	p.block.literals++
	p.out = append(p.out, vm.MakeFuncRef(op))
}

func (p *Parser) closeBlock() {
	if p.block.literals >= 2 {
		p.out = append(p.out, vm.MakePrim(vm.OpCompose))
	}
	p.block = blockContext{}
}

func (p *Parser) fail(tok token.Token, code diag.Code, msg string) (Result, *ParseError) {
	// лексер уже сообщил о своих ошибках
	if tok.Kind != token.Invalid {
		p.report(code, diag.SevError, tok.Span, msg)
	}
	return Result{Instrs: p.out}, &ParseError{
		Code:    code,
		Message: msg,
		Span:    tok.Span,
		Rest:    p.lx.Rest(tok),
	}
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, sev, sp, msg, nil)
	}
}

func invalidCode(tok token.Token) diag.Code {
	if tok.Text == "" {
		return diag.LexUnknownChar
	}
	switch tok.Text[0] {
	case '(':
		return diag.LexBadIdent
	case '\\':
		return diag.LexBadFuncRef
	default:
		return diag.LexUnknownChar
	}
}
