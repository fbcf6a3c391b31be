package vm

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Snapshot is a printable view of the machine state. Values are stored in
// their debug form so that non-finite numbers survive every encoding.
type Snapshot struct {
	Stack     []string        `json:"stack" yaml:"stack" msgpack:"stack"`
	Registers []RegisterEntry `json:"registers,omitempty" yaml:"registers,omitempty" msgpack:"registers,omitempty"`
	Names     []NameEntry     `json:"names,omitempty" yaml:"names,omitempty" msgpack:"names,omitempty"`
	Halted    bool            `json:"halted" yaml:"halted" msgpack:"halted"`
}

// RegisterEntry is a non-zero register.
type RegisterEntry struct {
	Index int    `json:"index" yaml:"index" msgpack:"index"`
	Value string `json:"value" yaml:"value" msgpack:"value"`
}

// NameEntry is one name table binding.
type NameEntry struct {
	Name  string `json:"name" yaml:"name" msgpack:"name"`
	Value string `json:"value" yaml:"value" msgpack:"value"`
}

// Snapshot captures the current state.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		Stack:  make([]string, 0, len(m.stack)),
		Halted: m.Halted,
	}
	for _, v := range m.stack {
		s.Stack = append(s.Stack, v.String())
	}
	for i, r := range m.registers {
		if r != 0 {
			s.Registers = append(s.Registers, RegisterEntry{Index: i, Value: FormatNumber(r)})
		}
	}
	for _, name := range m.Names() {
		s.Names = append(s.Names, NameEntry{Name: name, Value: m.names[name].String()})
	}
	return s
}

// WriteSnapshot encodes s as json, yaml or msgpack.
func WriteSnapshot(w io.Writer, s Snapshot, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(s)
	default:
		return fmt.Errorf("unknown snapshot format %q", format)
	}
}
