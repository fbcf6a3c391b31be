// Package stdlib holds the bootstrap library written in the language itself.
package stdlib

import (
	"fmt"

	"rpn/internal/parser"
	"rpn/internal/vm"
)

// Scratch registers used by the library scripts.
const (
	ScratchA = vm.UserRegisterCount     // 256
	ScratchB = vm.UserRegisterCount + 1 // 257
)

// Scripts are evaluated in order on a fresh machine.
var Scripts = []string{
	// min: a b → a<b ? a : b
	"{ s256 s257 l257 l256 < l257 l256 ? }(min)s",
	"{ s256 s257 l257 l256 > l257 l256 ? }(max)s",
	// reduce: x1..xn f → f applied n-1 times
	"{ S - 2 r }(reduce)s",
	`(reduce)l \+@ (sum)s`,
	// avg: сохраняем размер стека в 256 до суммирования
	`\S \s 256@ | (sum)l | \l256@ | \/ |(avg)s`,
	"(avg)l (average)s",
}

// Names lists what Load defines.
var Names = []string{"min", "max", "reduce", "sum", "avg", "average"}

// BootstrapError reports a library script that failed to parse or run.
type BootstrapError struct {
	Index  int
	Script string
	Err    error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap script %d %q: %v", e.Index, e.Script, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// Load evaluates every script on m. The stack must be left as it was.
func Load(m *vm.Machine) error {
	for i, script := range Scripts {
		res, perr := parser.ParseLine(script)
		if perr != nil {
			return &BootstrapError{Index: i, Script: script, Err: perr}
		}
		depth := m.Depth()
		for _, instr := range res.Instrs {
			if err := m.Process(instr); err != nil {
				return &BootstrapError{Index: i, Script: script, Err: err}
			}
		}
		if m.Depth() != depth {
			return &BootstrapError{Index: i, Script: script,
				Err: fmt.Errorf("left %d values on the stack", m.Depth()-depth)}
		}
	}
	return nil
}
