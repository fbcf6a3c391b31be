package vm

import (
	"math"

	"fortio.org/safecast"
)

// apply pops the top value and forces it. If that fails without touching the
// stack the value is put back.
func (m *Machine) apply() *VMError {
	args, err := m.popN(1)
	if err != nil {
		return err
	}
	before := len(m.stack)
	if verr := m.exec(args[0], true); verr != nil {
		if len(m.stack) == before {
			m.restore(args)
		}
		return verr
	}
	return nil
}

// curry pops [function, argument] and pushes the function with the argument bound.
func (m *Machine) curry() *VMError {
	args, err := m.popN(2)
	if err != nil {
		return err
	}
	f, x := args[0], args[1]

	switch f.Kind {
	case KindFunc:
		if f.Saturated() {
			m.restore(args)
			return m.eb.typeMismatchf("curry: %s is already saturated", f)
		}
		m.push(f.bind(x))
		return nil
	case KindComposed, KindIdent:
		inner := f
		m.push(Value{Kind: KindFunc, Inner: &inner, Bound: []Value{x}})
		return nil
	default:
		m.restore(args)
		return m.eb.typeMismatch(OpCurry, f)
	}
}

// compose pops [a, b] and pushes Composed(a, b).
func (m *Machine) compose() *VMError {
	args, err := m.popN(2)
	if err != nil {
		return err
	}
	m.push(MakeComposed(args[0], args[1]))
	return nil
}

// repeat pops [value, count] and forces value count times.
func (m *Machine) repeat() *VMError {
	args, err := m.popN(2)
	if err != nil {
		return err
	}
	val, count := args[0], args[1]
	if !count.IsNumber() || math.IsNaN(count.Num) || math.IsInf(count.Num, 0) {
		m.restore(args)
		return m.eb.typeMismatchf("repeat: count must be a finite number, got %s", count)
	}

	if count.Num < 0.5 {
		return nil
	}
	times, cerr := safecast.Round[int](count.Num)
	if cerr != nil {
		m.restore(args)
		return m.eb.typeMismatchf("repeat: count %s too large", count)
	}
	for range times {
		if verr := m.exec(val, true); verr != nil {
			return verr
		}
		if m.Halted {
			return nil
		}
	}
	return nil
}
