// Package driver wires the parser, the evaluator and the bootstrap library
// into sessions, and hosts the file-level tooling behind the CLI.
package driver
