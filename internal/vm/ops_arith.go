package vm

import "math"

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// arith runs a binary operator: "a b op" computes a op b.
func (m *Machine) arith(op Op) *VMError {
	args, err := m.popN(2)
	if err != nil {
		return err
	}
	a, b := args[0], args[1]
	if !a.IsNumber() || !b.IsNumber() {
		m.restore(args)
		bad := a
		if a.IsNumber() {
			bad = b
		}
		return m.eb.typeMismatch(op, bad)
	}

	var r float64
	switch op {
	case OpAdd:
		r = a.Num + b.Num
	case OpSub:
		r = a.Num - b.Num
	case OpMul:
		r = a.Num * b.Num
	case OpDiv:
		r = a.Num / b.Num
	case OpMod:
		r = math.Mod(a.Num, b.Num)
	case OpLess:
		r = boolNum(a.Num < b.Num)
	case OpGreater:
		r = boolNum(a.Num > b.Num)
	case OpEqual:
		r = boolNum(a.Num == b.Num)
	}
	m.push(MakeNumber(r))
	return nil
}

// cond pops [condition, then, else]; 0 selects else. The branch is pushed unforced.
func (m *Machine) cond() *VMError {
	args, err := m.popN(3)
	if err != nil {
		return err
	}
	c := args[0]
	if !c.IsNumber() {
		m.restore(args)
		return m.eb.typeMismatch(OpCond, c)
	}
	if c.Num != 0 {
		m.push(args[1])
	} else {
		m.push(args[2])
	}
	return nil
}
