package vm

import (
	"math"

	"fortio.org/safecast"
)

// registerIndex rounds a numeric address half away from zero.
func (m *Machine) registerIndex(addr float64) (int, *VMError) {
	if math.IsNaN(addr) || math.IsInf(addr, 0) {
		return 0, m.eb.outOfRange(addr)
	}
	idx, err := safecast.Round[int](addr)
	if err != nil || idx < 0 || idx >= RegisterCount {
		return 0, m.eb.outOfRange(addr)
	}
	return idx, nil
}

// store pops [value, address].
func (m *Machine) store() *VMError {
	args, err := m.popN(2)
	if err != nil {
		return err
	}
	val, addr := args[0], args[1]

	switch addr.Kind {
	case KindIdent:
		m.names[addr.Name] = val
		return nil
	case KindNumber:
		idx, verr := m.registerIndex(addr.Num)
		if verr != nil {
			m.restore(args)
			return verr
		}
		if !val.IsNumber() {
			m.restore(args)
			return m.eb.typeMismatchf("store: registers hold numbers only, got %s %s", val.Kind, val)
		}
		m.registers[idx] = val.Num
		return nil
	default:
		m.restore(args)
		return m.eb.typeMismatch(OpStore, addr)
	}
}

// load pops [address]. Names push the stored value unforced.
func (m *Machine) load() *VMError {
	args, err := m.popN(1)
	if err != nil {
		return err
	}
	addr := args[0]

	switch addr.Kind {
	case KindIdent:
		v, ok := m.names[addr.Name]
		if !ok {
			m.restore(args)
			return m.eb.nameNotFound(addr.Name)
		}
		m.push(v)
		return nil
	case KindNumber:
		idx, verr := m.registerIndex(addr.Num)
		if verr != nil {
			m.restore(args)
			return verr
		}
		m.push(MakeNumber(m.registers[idx]))
		return nil
	default:
		m.restore(args)
		return m.eb.typeMismatch(OpLoad, addr)
	}
}
