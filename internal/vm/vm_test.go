package vm_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rpn/internal/vm"
)

func n(x float64) vm.Value          { return vm.MakeNumber(x) }
func p(op vm.Op) vm.Value           { return vm.MakePrim(op) }
func ref(op vm.Op) vm.Value         { return vm.MakeFuncRef(op) }
func ident(s string) vm.Value       { return vm.MakeIdent(s) }
func stackStr(m *vm.Machine) string { return vm.FormatStack(m.Stack()) }

// run processes instructions in order and fails on the first error.
func run(t *testing.T, m *vm.Machine, prog ...vm.Value) {
	t.Helper()
	for _, v := range prog {
		if err := m.Process(v); err != nil {
			t.Fatalf("Process(%s): %v (stack %s)", v, err, stackStr(m))
		}
	}
}

func expectStack(t *testing.T, m *vm.Machine, want string) {
	t.Helper()
	if diff := cmp.Diff(want, stackStr(m)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		a, b float64
		op   vm.Op
		want float64
	}{
		{1, 2, vm.OpAdd, 3},
		{1, 2, vm.OpSub, -1},
		{3, 4, vm.OpMul, 12},
		{3, 4, vm.OpDiv, 0.75},
		{7, 3, vm.OpMod, 1},
		{-7, 3, vm.OpMod, -1},
		{2, 4, vm.OpLess, 1},
		{4, 2, vm.OpLess, 0},
		{4, 2, vm.OpGreater, 1},
		{2, 2, vm.OpEqual, 1},
		{2, 3, vm.OpEqual, 0},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			m := vm.New(vm.Options{})
			run(t, m, n(tt.a), n(tt.b), p(tt.op))
			got := m.Stack()
			if len(got) != 1 || got[0].Num != tt.want {
				t.Errorf("%v %v %s = %s, want %v", tt.a, tt.b, tt.op, vm.FormatStack(got), tt.want)
			}
		})
	}
}

func TestDivisionByZeroIsIEEE(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, n(1), n(0), p(vm.OpDiv), n(-1), n(0), p(vm.OpDiv), n(1), n(0), p(vm.OpMod))
	st := m.Stack()
	if !math.IsInf(st[0].Num, 1) || !math.IsInf(st[1].Num, -1) || !math.IsNaN(st[2].Num) {
		t.Errorf("unexpected results %s", vm.FormatStack(st))
	}
	expectStack(t, m, "[inf, -inf, NaN]")
}

func TestUnderflowKeepsStack(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, n(1))
	err := m.Process(p(vm.OpAdd))
	if err == nil || err.Code != vm.PanicStackUnderflow {
		t.Fatalf("expected underflow, got %v", err)
	}
	if err.Message != "not enough elements on the stack (need 2, have 1)" {
		t.Errorf("message = %q", err.Message)
	}
	if !err.Instr.Equal(p(vm.OpAdd)) {
		t.Errorf("Instr = %s", err.Instr)
	}
	expectStack(t, m, "[1.0]")
}

func TestTypeMismatchRestoresOperands(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, n(1), ref(vm.OpAdd))
	err := m.Process(p(vm.OpMul))
	if err == nil || err.Code != vm.PanicTypeMismatch {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	expectStack(t, m, `[1.0, \+]`)

	var target *vm.VMError
	if !errors.As(error(err), &target) {
		t.Error("VMError must satisfy errors.As")
	}
}

func TestRegisters(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, n(2), n(0), p(vm.OpStore), n(0), p(vm.OpLoad))
	expectStack(t, m, "[2.0]")

	// 1.5 округляется до 2
	run(t, m, n(7), n(1.5), p(vm.OpStore), n(2), p(vm.OpLoad))
	expectStack(t, m, "[2.0, 7.0]")

	if r, ok := m.Register(2); !ok || r != 7 {
		t.Errorf("register 2 = %v, %v", r, ok)
	}
	if r, _ := m.Register(3); r != 0 {
		t.Errorf("untouched register must be zero, got %v", r)
	}

	// -0.4 -> 0, 511.4 -> 511
	m = vm.New(vm.Options{})
	run(t, m, n(4), n(-0.4), p(vm.OpStore), n(5), n(511.4), p(vm.OpStore), n(0), p(vm.OpLoad), n(511), p(vm.OpLoad))
	expectStack(t, m, "[4.0, 5.0]")
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name string
		prog []vm.Value
		fail vm.Value
		code vm.PanicCode
		want string
	}{
		{"store out of range", []vm.Value{n(1), n(512)}, p(vm.OpStore), vm.PanicAddressOutOfRange, "[1.0, 512.0]"},
		{"negative address", []vm.Value{n(-1)}, p(vm.OpLoad), vm.PanicAddressOutOfRange, "[-1.0]"},
		{"NaN address", []vm.Value{n(math.NaN())}, p(vm.OpLoad), vm.PanicAddressOutOfRange, "[NaN]"},
		{"rounds past the bank", []vm.Value{n(511.5)}, p(vm.OpLoad), vm.PanicAddressOutOfRange, "[511.5]"},
		{"rounds below zero", []vm.Value{n(-0.5)}, p(vm.OpLoad), vm.PanicAddressOutOfRange, "[-0.5]"},
		{"infinite address", []vm.Value{n(math.Inf(1))}, p(vm.OpLoad), vm.PanicAddressOutOfRange, "[inf]"},
		{"function into register", []vm.Value{ref(vm.OpAdd), n(3)}, p(vm.OpStore), vm.PanicTypeMismatch, `[\+, 3.0]`},
		{"function address", []vm.Value{n(1), ref(vm.OpAdd)}, p(vm.OpStore), vm.PanicTypeMismatch, `[1.0, \+]`},
		{"unknown name", []vm.Value{ident("nope")}, p(vm.OpLoad), vm.PanicNameNotFound, "[(nope)]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := vm.New(vm.Options{})
			run(t, m, tt.prog...)
			err := m.Process(tt.fail)
			if err == nil || err.Code != tt.code {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			expectStack(t, m, tt.want)
		})
	}
}

func TestNamesHoldAnyValue(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, n(4), ident("x"), p(vm.OpStore), ident("x"), p(vm.OpLoad))
	expectStack(t, m, "[4.0]")

	run(t, m, ref(vm.OpMul), ident("f"), p(vm.OpStore), ident("f"), p(vm.OpLoad))
	expectStack(t, m, `[4.0, \*]`)

	if diff := cmp.Diff([]string{"f", "x"}, m.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}

func TestCurryAndApply(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, ref(vm.OpAdd), n(1), p(vm.OpCurry), n(2), p(vm.OpCurry))
	expectStack(t, m, `[\+[1.0, 2.0]]`)
	run(t, m, p(vm.OpApply))
	expectStack(t, m, "[3.0]")
}

func TestCurryOrderMatters(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, ref(vm.OpSub), n(10), p(vm.OpCurry), n(4), p(vm.OpCurry), p(vm.OpApply))
	expectStack(t, m, "[6.0]")
}

func TestCurryDoesNotMutateOriginal(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, ref(vm.OpAdd), ident("f"), p(vm.OpStore))
	run(t, m, ident("f"), p(vm.OpLoad), n(1), p(vm.OpCurry))
	f, _ := m.Lookup("f")
	if len(f.Bound) != 0 {
		t.Errorf("stored reference was mutated: %s", f)
	}
}

func TestCurrySaturated(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, ref(vm.OpAdd), n(1), p(vm.OpCurry), n(2), p(vm.OpCurry), n(3))
	err := m.Process(p(vm.OpCurry))
	if err == nil || err.Code != vm.PanicTypeMismatch {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	expectStack(t, m, `[\+[1.0, 2.0], 3.0]`)
}

func TestCurryIntoNumberFails(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, n(1), n(2))
	if err := m.Process(p(vm.OpCurry)); err == nil || err.Code != vm.PanicTypeMismatch {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	expectStack(t, m, "[1.0, 2.0]")
}

func TestCurryIntoComposedWraps(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, ref(vm.OpAdd), ref(vm.OpMul), p(vm.OpCompose), n(3), p(vm.OpCurry))
	expectStack(t, m, `[\{\+ | \*}[3.0]]`)
	wrapped := m.Stack()[0]

	// 1 2 3 + * → 1 5 * → 5
	m = vm.New(vm.Options{})
	run(t, m, n(1), n(2), wrapped, p(vm.OpApply))
	expectStack(t, m, "[5.0]")
}

func TestUnsaturatedTakesFromStack(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, n(1), n(1), ref(vm.OpAdd), p(vm.OpApply))
	expectStack(t, m, "[2.0]")

	m = vm.New(vm.Options{})
	run(t, m, n(10), ref(vm.OpSub), n(4), p(vm.OpCurry), p(vm.OpApply))
	expectStack(t, m, "[6.0]")
}

func TestUnsaturatedApplyFails(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, ref(vm.OpAdd), n(1), p(vm.OpCurry))
	err := m.Process(p(vm.OpApply))
	if err == nil || err.Code != vm.PanicStackUnderflow {
		t.Fatalf("expected underflow, got %v", err)
	}
	if err.Message != "cannot apply an unsaturated function" {
		t.Errorf("message = %q", err.Message)
	}
	expectStack(t, m, `[\+[1.0]]`)
}

func TestApplyEmptyStack(t *testing.T) {
	m := vm.New(vm.Options{})
	if err := m.Process(p(vm.OpApply)); err == nil || err.Code != vm.PanicStackUnderflow {
		t.Fatalf("expected underflow, got %v", err)
	}
}

func TestComposeEqualsSequence(t *testing.T) {
	f := ref(vm.OpAdd)
	g := vm.MakeComposed(ref(vm.OpMul), ref(vm.OpSub))

	a := vm.New(vm.Options{})
	run(t, a, n(1), n(2), n(3), n(4), f, g, p(vm.OpCompose), p(vm.OpApply))

	b := vm.New(vm.Options{})
	run(t, b, n(1), n(2), n(3), n(4))
	if err := b.Force(f); err != nil {
		t.Fatal(err)
	}
	if err := b.Force(g); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(stackStr(b), stackStr(a)); diff != "" {
		t.Errorf("composition differs from sequence (-seq +composed):\n%s", diff)
	}
	// 1 2 (3+4) → 1 (2*7) → (1-14)
	expectStack(t, a, "[-13.0]")
}

func TestFailedApplyRollsBack(t *testing.T) {
	// первая половина композиции успевает отработать
	m := vm.New(vm.Options{})
	half := vm.MakeComposed(ref(vm.OpAdd), ident("missing"))
	run(t, m, n(1), n(2), half)
	err := m.Process(p(vm.OpApply))
	if err == nil || err.Code != vm.PanicNameNotFound {
		t.Fatalf("expected name not found, got %v", err)
	}
	expectStack(t, m, "[1.0, 2.0, {\\+ | (missing)}]")

	m = vm.New(vm.Options{})
	run(t, m, n(1), n(2), n(3), ref(vm.OpAdd), n(5))
	if err := m.Process(p(vm.OpRepeat)); err == nil || err.Code != vm.PanicStackUnderflow {
		t.Fatalf("expected underflow, got %v", err)
	}
	expectStack(t, m, "[1.0, 2.0, 3.0, \\+, 5.0]")

	m = vm.New(vm.Options{})
	run(t, m, n(4), n(5))
	if err := m.Force(half); err == nil {
		t.Fatal("expected failure")
	}
	expectStack(t, m, "[4.0, 5.0]")
}

func TestConditional(t *testing.T) {
	tests := []struct {
		cond float64
		want string
	}{
		{1, `[\+]`},
		{-3, `[\+]`},
		{0, `[\-]`},
	}
	for _, tt := range tests {
		m := vm.New(vm.Options{})
		run(t, m, n(tt.cond), ref(vm.OpAdd), ref(vm.OpSub), p(vm.OpCond))
		expectStack(t, m, tt.want)
	}
}

func TestConditionalNeedsNumber(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, ident("c"), n(1), n(2))
	if err := m.Process(p(vm.OpCond)); err == nil || err.Code != vm.PanicTypeMismatch {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	expectStack(t, m, "[(c), 1.0, 2.0]")
}

func TestRepeat(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, n(1), n(2), n(3), n(4), ref(vm.OpAdd), n(3), p(vm.OpRepeat))
	expectStack(t, m, "[10.0]")

	m = vm.New(vm.Options{})
	run(t, m, n(5), ref(vm.OpAdd), n(-2), p(vm.OpRepeat))
	expectStack(t, m, "[5.0]")

	m = vm.New(vm.Options{})
	run(t, m, ref(vm.OpAdd), n(math.Inf(1)))
	if err := m.Process(p(vm.OpRepeat)); err == nil || err.Code != vm.PanicTypeMismatch {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	expectStack(t, m, `[\+, inf]`)
}

func TestRepeatRoundsCount(t *testing.T) {
	// 2.5 -> 3 прохода
	m := vm.New(vm.Options{})
	run(t, m, n(1), n(1), n(1), n(1), ref(vm.OpAdd), n(2.5), p(vm.OpRepeat))
	expectStack(t, m, "[4.0]")

	m = vm.New(vm.Options{})
	run(t, m, n(7), ref(vm.OpAdd), n(0.4), p(vm.OpRepeat))
	expectStack(t, m, "[7.0]")

	m = vm.New(vm.Options{})
	run(t, m, ref(vm.OpAdd), n(1e19))
	if err := m.Process(p(vm.OpRepeat)); err == nil || err.Code != vm.PanicTypeMismatch {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	expectStack(t, m, `[\+, 10000000000000000000.0]`)
}

func TestStackOps(t *testing.T) {
	var out bytes.Buffer
	m := vm.New(vm.Options{Out: &out})
	run(t, m, n(1), n(2), p(vm.OpStackSize))
	expectStack(t, m, "[1.0, 2.0, 2.0]")

	run(t, m, p(vm.OpPrintAll), p(vm.OpPrint))
	expectStack(t, m, "[1.0, 2.0]")
	if got := out.String(); got != "[1.0, 2.0, 2.0]\n2.0\n" {
		t.Errorf("output = %q", got)
	}

	run(t, m, p(vm.OpClear), p(vm.OpStackSize))
	expectStack(t, m, "[0.0]")
}

func TestQuitHalts(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, n(1), p(vm.OpQuit), n(2))
	if !m.Halted || m.ExitCode != 0 {
		t.Errorf("Halted=%v ExitCode=%d", m.Halted, m.ExitCode)
	}
	expectStack(t, m, "[1.0]")

	// forced sequences stop after quit
	m = vm.New(vm.Options{})
	run(t, m, vm.MakeComposed(ref(vm.OpQuit), ref(vm.OpStackSize)), p(vm.OpApply))
	expectStack(t, m, "[]")
}

func TestIdentifierForce(t *testing.T) {
	m := vm.New(vm.Options{})
	run(t, m, ref(vm.OpMul), ident("sq"), p(vm.OpStore))
	run(t, m, n(3), n(3), ident("sq"), p(vm.OpApply))
	expectStack(t, m, "[9.0]")

	err := m.Process(ident("missing"))
	if err != nil {
		t.Fatalf("lazy identifier must be pushed: %v", err)
	}
	err = m.Process(p(vm.OpApply))
	if err == nil || err.Code != vm.PanicNameNotFound {
		t.Fatalf("expected name not found, got %v", err)
	}
	expectStack(t, m, "[9.0, (missing)]")
}

func TestDepthGuard(t *testing.T) {
	m := vm.New(vm.Options{MaxDepth: 50})
	// (loop) вызывает сам себя
	run(t, m, ident("loop"), ident("loop"), p(vm.OpStore), ident("loop"))
	err := m.Process(p(vm.OpApply))
	if err == nil || err.Code != vm.PanicDepthExceeded {
		t.Fatalf("expected depth exceeded, got %v", err)
	}
}

func TestTracer(t *testing.T) {
	var buf bytes.Buffer
	m := vm.New(vm.Options{Trace: vm.NewTracer(&buf)})
	run(t, m, n(1))
	if got := buf.String(); got != "[depth=0] lazy 1.0 stack=[]\n" {
		t.Errorf("trace = %q", got)
	}
}

func TestStepTracer(t *testing.T) {
	type step struct {
		depth int
		instr string
		force bool
		stack int
	}
	var steps []step
	record := func(depth int, v vm.Value, force bool, stack []vm.Value) {
		steps = append(steps, step{depth, v.String(), force, len(stack)})
	}

	var buf bytes.Buffer
	m := vm.New(vm.Options{Trace: vm.NewTracer(&buf).Also(record)})
	run(t, m, n(2), n(3), ref(vm.OpMul), p(vm.OpApply))

	want := []step{
		{0, "2.0", false, 0},
		{0, "3.0", false, 1},
		{0, `\*`, false, 2},
		{0, "$", false, 3},
		{1, `\*`, true, 2},
	}
	if diff := cmp.Diff(want, steps, cmp.AllowUnexported(step{})); diff != "" {
		t.Errorf("steps (-want +got):\n%s", diff)
	}
	if strings.Count(buf.String(), "\n") != len(want) {
		t.Errorf("writer must see every step too:\n%s", buf.String())
	}

	var nilTracer *vm.Tracer
	count := 0
	m = vm.New(vm.Options{Trace: nilTracer.Also(func(int, vm.Value, bool, []vm.Value) { count++ })})
	run(t, m, n(1))
	if count != 1 {
		t.Errorf("step hook on a nil tracer ran %d times", count)
	}
}
