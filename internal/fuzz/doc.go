// Package fuzztests houses Go fuzz harnesses for the front end of rpn
// (source -> lexer -> parser). They guard against panics, hangs and span
// corruption on arbitrary input.
//
// Назначение: прогонять произвольные байты через FileSet, лексер и парсер.
//
// Не делает: выполнение инструкций. Вычисление может законно не завершаться
// (например, repeat с огромным счётчиком), поэтому VM здесь не участвует.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/diag,
// internal/stdlib (seed corpus).

package fuzztests
