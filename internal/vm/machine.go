package vm

import (
	"io"
	"maps"
	"slices"
)

const (
	// RegisterCount is the size of the register bank.
	RegisterCount = 512
	// UserRegisterCount is the number of registers free for user programs.
	// Registers above it are scratch space of the bootstrap library.
	UserRegisterCount = 256
	// DefaultMaxDepth bounds nested forced execution.
	DefaultMaxDepth = 10000
)

// Options configures a Machine.
type Options struct {
	Out      io.Writer // Print / PrintAll target; io.Discard when nil
	MaxDepth int       // 0 means DefaultMaxDepth
	Trace    *Tracer
}

// Machine is the evaluator state. It is not safe for concurrent use.
type Machine struct {
	stack     []Value
	registers [RegisterCount]float64
	names     map[string]Value

	Out      io.Writer
	Trace    *Tracer
	ExitCode int
	Halted   bool

	maxDepth int
	depth    int
	eb       *errorBuilder
}

// New creates an empty machine.
func New(opts Options) *Machine {
	m := &Machine{
		names:    make(map[string]Value),
		Out:      opts.Out,
		Trace:    opts.Trace,
		maxDepth: opts.MaxDepth,
	}
	if m.Out == nil {
		m.Out = io.Discard
	}
	if m.maxDepth <= 0 {
		m.maxDepth = DefaultMaxDepth
	}
	m.eb = &errorBuilder{m: m}
	return m
}

// Stack returns a copy of the operand stack, bottom first.
func (m *Machine) Stack() []Value {
	return slices.Clone(m.stack)
}

// Depth returns the number of values on the stack.
func (m *Machine) Depth() int {
	return len(m.stack)
}

// Register returns the content of register i, or false if i is out of range.
func (m *Machine) Register(i int) (float64, bool) {
	if i < 0 || i >= RegisterCount {
		return 0, false
	}
	return m.registers[i], true
}

// Lookup returns the value stored under name.
func (m *Machine) Lookup(name string) (Value, bool) {
	v, ok := m.names[name]
	return v, ok
}

// Names returns the defined names in sorted order.
func (m *Machine) Names() []string {
	return slices.Sorted(maps.Keys(m.names))
}

// Push places values on the stack without executing them.
func (m *Machine) Push(vals ...Value) {
	m.stack = append(m.stack, vals...)
}

func (m *Machine) push(v Value) {
	m.stack = append(m.stack, v)
}

// popN pops n values and returns them bottom first. Nothing is popped on underflow.
func (m *Machine) popN(n int) ([]Value, *VMError) {
	if len(m.stack) < n {
		return nil, m.eb.underflow(n)
	}
	base := len(m.stack) - n
	out := slices.Clone(m.stack[base:])
	m.stack = m.stack[:base]
	return out, nil
}

// restore pushes operands back in their original order.
func (m *Machine) restore(vals []Value) {
	m.stack = append(m.stack, vals...)
}
