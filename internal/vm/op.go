package vm

import "fmt"

// Op identifies a primitive operation.
type Op uint8

const (
	// OpInvalid is the zero Op.
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLess
	OpGreater
	OpEqual
	// OpCond pops [condition, then, else] and pushes the selected branch.
	OpCond
	OpPrint
	OpPrintAll
	OpClear
	OpQuit
	OpStackSize
	OpStore
	OpLoad
	OpRepeat
	OpApply
	OpCurry
	OpCompose
)

type opInfo struct {
	char  byte
	name  string
	arity int
}

var opTable = [...]opInfo{
	OpInvalid:   {0, "invalid", 0},
	OpAdd:       {'+', "add", 2},
	OpSub:       {'-', "sub", 2},
	OpMul:       {'*', "mul", 2},
	OpDiv:       {'/', "div", 2},
	OpMod:       {'%', "mod", 2},
	OpLess:      {'<', "less", 2},
	OpGreater:   {'>', "greater", 2},
	OpEqual:     {'=', "equal", 2},
	OpCond:      {'?', "cond", 3},
	OpPrint:     {'p', "print", 1},
	OpPrintAll:  {'f', "printall", 0},
	OpClear:     {'c', "clear", 0},
	OpQuit:      {'q', "quit", 0},
	OpStackSize: {'S', "stacksize", 0},
	OpStore:     {'s', "store", 2},
	OpLoad:      {'l', "load", 1},
	OpRepeat:    {'r', "repeat", 2},
	OpApply:     {'$', "apply", 1},
	OpCurry:     {'@', "curry", 2},
	OpCompose:   {'|', "compose", 2},
}

// Arity is the number of stack operands the primitive consumes.
func (o Op) Arity() int {
	if int(o) < len(opTable) {
		return opTable[o].arity
	}
	return 0
}

// runsCode reports whether the primitive forces user values.
func (o Op) runsCode() bool {
	return o == OpApply || o == OpRepeat
}

// Char returns the source character of the primitive.
func (o Op) Char() byte {
	if int(o) < len(opTable) {
		return opTable[o].char
	}
	return 0
}

func (o Op) String() string {
	if int(o) < len(opTable) {
		return opTable[o].name
	}
	return fmt.Sprintf("Op(%d)", o)
}

// OpFromChar maps a source character to its primitive.
func OpFromChar(c byte) (Op, bool) {
	if c == 0 {
		return OpInvalid, false
	}
	for i := range opTable {
		if opTable[i].char == c {
			return Op(i), true
		}
	}
	return OpInvalid, false
}
