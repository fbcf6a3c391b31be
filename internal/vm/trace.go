package vm

import (
	"fmt"
	"io"
)

// StepFunc observes one dispatch step. stack is the stack before the step and
// must not be retained.
type StepFunc func(depth int, v Value, force bool, stack []Value)

// Tracer outputs execution traces for debugging.
type Tracer struct {
	w    io.Writer
	step StepFunc
}

// NewTracer creates a new tracer that writes to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// NewStepTracer creates a tracer that hands each step to fn.
func NewStepTracer(fn StepFunc) *Tracer {
	return &Tracer{step: fn}
}

// Also returns a tracer that runs t and then fn. t may be nil.
func (t *Tracer) Also(fn StepFunc) *Tracer {
	if t == nil {
		return NewStepTracer(fn)
	}
	prev := t.step
	return &Tracer{w: t.w, step: func(depth int, v Value, force bool, stack []Value) {
		if prev != nil {
			prev(depth, v, force, stack)
		}
		fn(depth, v, force, stack)
	}}
}

// TraceExec traces one dispatch step.
// Format: [depth=N] <mode> <instr> stack=<stack>
func (t *Tracer) TraceExec(depth int, v Value, force bool, stack []Value) {
	if t == nil {
		return
	}
	if t.w != nil {
		mode := "lazy"
		if force {
			mode = "force"
		}
		fmt.Fprintf(t.w, "[depth=%d] %s %s stack=%s\n", depth, mode, v, FormatStack(stack))
	}
	if t.step != nil {
		t.step(depth, v, force, stack)
	}
}
