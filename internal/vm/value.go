// Package vm implements the stack machine that executes parsed instructions.
package vm

// ValueKind identifies the runtime shape of a Value.
type ValueKind uint8

const (
	// KindInvalid is the zero kind.
	KindInvalid ValueKind = iota
	// KindNumber is a float64 literal.
	KindNumber
	// KindPrim is a primitive operation, executed as soon as it is processed.
	KindPrim
	// KindFunc is a deferred function reference with bound arguments.
	KindFunc
	// KindComposed runs First then Second when forced.
	KindComposed
	// KindIdent names an entry in the name table.
	KindIdent
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindPrim:
		return "primitive"
	case KindFunc:
		return "function"
	case KindComposed:
		return "composed"
	case KindIdent:
		return "identifier"
	default:
		return "invalid"
	}
}

// Value is an immutable instruction or operand.
type Value struct {
	Kind ValueKind
	Num  float64
	Op   Op

	// KindFunc
	Inner *Value
	Bound []Value

	// KindComposed
	First  *Value
	Second *Value

	// KindIdent
	Name string
}

// MakeNumber creates a number value.
func MakeNumber(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// MakePrim creates a primitive instruction.
func MakePrim(op Op) Value { return Value{Kind: KindPrim, Op: op} }

// MakeFuncRef creates an unapplied reference to a primitive (the \op form).
func MakeFuncRef(op Op) Value {
	inner := MakePrim(op)
	return Value{Kind: KindFunc, Inner: &inner}
}

// MakeIdent creates an identifier.
func MakeIdent(name string) Value { return Value{Kind: KindIdent, Name: name} }

// MakeComposed creates a value that forces first, then second.
func MakeComposed(first, second Value) Value {
	return Value{Kind: KindComposed, First: &first, Second: &second}
}

// IsNumber reports whether v is a number.
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// Arity returns the number of values the function reference can bind,
// or -1 when the inner value is not a primitive and takes any number.
func (v Value) Arity() int {
	if v.Kind != KindFunc || v.Inner == nil {
		return 0
	}
	if v.Inner.Kind == KindPrim {
		return v.Inner.Op.Arity()
	}
	return -1
}

// Saturated reports whether a primitive reference has all its operands bound.
func (v Value) Saturated() bool {
	a := v.Arity()
	return a >= 0 && len(v.Bound) >= a
}

// bind returns a copy of the function reference with x appended to its bound values.
func (v Value) bind(x Value) Value {
	bound := make([]Value, len(v.Bound), len(v.Bound)+1)
	copy(bound, v.Bound)
	bound = append(bound, x)
	return Value{Kind: KindFunc, Inner: v.Inner, Bound: bound}
}

// Equal compares values structurally. Numbers use IEEE-754 equality.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindPrim:
		return v.Op == o.Op
	case KindIdent:
		return v.Name == o.Name
	case KindComposed:
		return v.First.Equal(*o.First) && v.Second.Equal(*o.Second)
	case KindFunc:
		if len(v.Bound) != len(o.Bound) || !v.Inner.Equal(*o.Inner) {
			return false
		}
		for i := range v.Bound {
			if !v.Bound[i].Equal(o.Bound[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
