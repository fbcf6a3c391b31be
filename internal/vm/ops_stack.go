package vm

import "fmt"

func (m *Machine) print() *VMError {
	args, err := m.popN(1)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.Out, args[0].String())
	return nil
}

func (m *Machine) printAll() *VMError {
	fmt.Fprintln(m.Out, FormatStack(m.stack))
	return nil
}
