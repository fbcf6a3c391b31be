// Package token defines lexical token kinds and trivia for rpn source lines.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Every operator is a single byte; a FuncRef token is '\' plus that byte.
//   - An Ident token covers the parentheses: "(name)". Token.Text keeps them,
//     Token.Name() strips them.
//   - Whitespace and '#' comments are represented as leading Trivia and never
//     appear in the main token stream.
package token
