package vm_test

import (
	"math"
	"testing"

	"rpn/internal/vm"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2.0"},
		{4.5, "4.5"},
		{-3, "-3.0"},
		{0.1, "0.1"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := vm.FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValueString(t *testing.T) {
	plus := vm.MakeFuncRef(vm.OpAdd)
	tests := []struct {
		v    vm.Value
		want string
	}{
		{vm.MakePrim(vm.OpCurry), "@"},
		{plus, `\+`},
		{vm.MakeIdent("avg"), "(avg)"},
		{vm.MakeComposed(vm.MakeFuncRef(vm.OpLoad), vm.MakeNumber(1)), `{\l | 1.0}`},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestOpTable(t *testing.T) {
	for _, c := range []byte("+-*/%<>=?@|$slrSpfcq") {
		op, ok := vm.OpFromChar(c)
		if !ok {
			t.Errorf("no op for %q", c)
			continue
		}
		if op.Char() != c {
			t.Errorf("%s.Char() = %q, want %q", op, op.Char(), c)
		}
	}
	if _, ok := vm.OpFromChar('x'); ok {
		t.Error("'x' is not an operator")
	}
	if vm.OpCond.Arity() != 3 || vm.OpApply.Arity() != 1 || vm.OpQuit.Arity() != 0 {
		t.Error("unexpected arities")
	}
}

func TestArityAndSaturation(t *testing.T) {
	f := vm.MakeFuncRef(vm.OpAdd)
	if f.Arity() != 2 || f.Saturated() {
		t.Errorf("fresh \\+ arity=%d saturated=%v", f.Arity(), f.Saturated())
	}
	c := vm.MakeComposed(f, f)
	wrapped := vm.Value{Kind: vm.KindFunc, Inner: &c}
	if wrapped.Arity() != -1 || wrapped.Saturated() {
		t.Errorf("composed inner must have open arity")
	}
}

func TestEqual(t *testing.T) {
	if vm.MakeNumber(math.NaN()).Equal(vm.MakeNumber(math.NaN())) {
		t.Error("NaN must not equal NaN")
	}
	if !vm.MakeFuncRef(vm.OpAdd).Equal(vm.MakeFuncRef(vm.OpAdd)) {
		t.Error("identical refs must be equal")
	}
	if vm.MakePrim(vm.OpAdd).Equal(vm.MakePrim(vm.OpSub)) {
		t.Error("different primitives must differ")
	}
}
