package vm

import "fmt"

// PanicCode identifies the type of runtime error.
type PanicCode int

// Stable codes - do not change values.
const (
	PanicStackUnderflow    PanicCode = 1001 // VM1001: not enough operands
	PanicTypeMismatch      PanicCode = 1002 // VM1002: operand has the wrong shape
	PanicAddressOutOfRange PanicCode = 1003 // VM1003: register index out of range
	PanicNameNotFound      PanicCode = 1004 // VM1004: identifier not in the name table
	PanicDepthExceeded     PanicCode = 1005 // VM1005: forced execution nested too deep
)

// String returns the code as "VM1001" format.
func (c PanicCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

// VMError is a recoverable runtime error. The stack is left as it was before
// the failing primitive ran.
type VMError struct {
	Code    PanicCode
	Message string
	// Instr is the top-level instruction that was being processed.
	Instr Value
}

// Error implements the error interface.
func (e *VMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// errorBuilder helps construct VMError values.
type errorBuilder struct {
	m *Machine
}

func (eb *errorBuilder) makeError(code PanicCode, msg string) *VMError {
	return &VMError{Code: code, Message: msg}
}

func (eb *errorBuilder) underflow(need int) *VMError {
	return eb.makeError(PanicStackUnderflow,
		fmt.Sprintf("not enough elements on the stack (need %d, have %d)", need, len(eb.m.stack)))
}

func (eb *errorBuilder) unsaturated() *VMError {
	return eb.makeError(PanicStackUnderflow, "cannot apply an unsaturated function")
}

func (eb *errorBuilder) typeMismatch(op Op, got Value) *VMError {
	return eb.makeError(PanicTypeMismatch, fmt.Sprintf("%s: unexpected %s %s", op, got.Kind, got))
}

func (eb *errorBuilder) typeMismatchf(format string, args ...any) *VMError {
	return eb.makeError(PanicTypeMismatch, fmt.Sprintf(format, args...))
}

func (eb *errorBuilder) outOfRange(addr float64) *VMError {
	return eb.makeError(PanicAddressOutOfRange,
		fmt.Sprintf("register address %s out of range 0..%d", FormatNumber(addr), RegisterCount))
}

func (eb *errorBuilder) nameNotFound(name string) *VMError {
	return eb.makeError(PanicNameNotFound, fmt.Sprintf("name %q not found", name))
}

func (eb *errorBuilder) depthExceeded() *VMError {
	return eb.makeError(PanicDepthExceeded,
		fmt.Sprintf("forced execution nested deeper than %d", eb.m.maxDepth))
}
