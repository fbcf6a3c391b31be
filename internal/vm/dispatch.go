package vm

import "slices"

// Process executes one top-level instruction. Numbers and function-like values
// are pushed, primitives run immediately.
//
// Apply and Repeat run user code that may fail halfway through; when they fail
// the stack is rolled back to its state before the instruction. Register and
// name writes and printed output are not undone.
func (m *Machine) Process(v Value) *VMError {
	if m.Halted {
		return nil
	}
	return m.guarded(v, false, v.Kind == KindPrim && v.Op.runsCode())
}

// Force executes v as if it had been applied with '$', with the same rollback.
func (m *Machine) Force(v Value) *VMError {
	if m.Halted {
		return nil
	}
	return m.guarded(v, true, true)
}

func (m *Machine) guarded(v Value, force, rollback bool) *VMError {
	var saved []Value
	if rollback {
		saved = slices.Clone(m.stack)
	}
	if err := m.exec(v, force); err != nil {
		if rollback {
			m.stack = append(m.stack[:0], saved...)
		}
		err.Instr = v
		return err
	}
	return nil
}

// exec is the single dispatch shared by lazy and forced execution.
func (m *Machine) exec(v Value, force bool) *VMError {
	if force {
		if m.depth >= m.maxDepth {
			return m.eb.depthExceeded()
		}
		m.depth++
		defer func() { m.depth-- }()
	}
	m.Trace.TraceExec(m.depth, v, force, m.stack)

	switch v.Kind {
	case KindNumber:
		m.push(v)
		return nil

	case KindPrim:
		return m.execPrim(v.Op)

	case KindFunc:
		if !force {
			m.push(v)
			return nil
		}
		return m.forceFunc(v)

	case KindComposed:
		if !force {
			m.push(v)
			return nil
		}
		if err := m.exec(*v.First, true); err != nil {
			return err
		}
		if m.Halted {
			return nil
		}
		return m.exec(*v.Second, true)

	case KindIdent:
		if !force {
			m.push(v)
			return nil
		}
		target, ok := m.names[v.Name]
		if !ok {
			return m.eb.nameNotFound(v.Name)
		}
		return m.exec(target, true)

	default:
		return m.eb.typeMismatchf("cannot execute %s value", v.Kind)
	}
}

func (m *Machine) execPrim(op Op) *VMError {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpLess, OpGreater, OpEqual:
		return m.arith(op)
	case OpCond:
		return m.cond()
	case OpPrint:
		return m.print()
	case OpPrintAll:
		return m.printAll()
	case OpClear:
		m.stack = m.stack[:0]
		return nil
	case OpQuit:
		m.Halted = true
		m.ExitCode = 0
		return nil
	case OpStackSize:
		m.push(MakeNumber(float64(len(m.stack))))
		return nil
	case OpStore:
		return m.store()
	case OpLoad:
		return m.load()
	case OpRepeat:
		return m.repeat()
	case OpApply:
		return m.apply()
	case OpCurry:
		return m.curry()
	case OpCompose:
		return m.compose()
	default:
		return m.eb.typeMismatchf("unknown primitive %s", op)
	}
}

// forceFunc pushes the bound values in binding order and runs the inner value.
// A primitive reference with fewer bound values than its arity takes the rest
// from the stack.
func (m *Machine) forceFunc(f Value) *VMError {
	base := len(m.stack)
	m.stack = append(m.stack, f.Bound...)
	if f.Inner == nil {
		m.stack = m.stack[:base]
		return m.eb.typeMismatchf("function reference without a body")
	}

	if f.Inner.Kind != KindPrim {
		return m.exec(*f.Inner, true)
	}

	if len(m.stack) < f.Inner.Op.Arity() {
		m.stack = m.stack[:base]
		return m.eb.unsaturated()
	}
	err := m.execPrim(f.Inner.Op)
	if err != nil && len(m.stack) == base+len(f.Bound) {
		// the primitive restored its operands; drop what we bound
		m.stack = m.stack[:base]
	}
	return err
}
