// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// Diagnostic is the central record: Severity, a stable numeric Code, a short
// Message and the Primary span pointing at the problem, plus optional Notes.
//
// Producers emit through a Reporter so they never depend on storage;
// BagReporter collects into a Bag, which supports limits, sorting and
// deduplication. Rendering lives in internal/diagfmt.
package diag
