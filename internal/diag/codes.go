package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexUnknownChar Code = 1001
	LexBadIdent    Code = 1002
	LexBadFuncRef  Code = 1003

	// Парсерные
	SynNestedBlock     Code = 2001
	SynUnbalancedBrace Code = 2002
	SynUnclosedBlock   Code = 2003

	// Ввод-вывод
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:        "Unknown error",
	LexUnknownChar:     "Unknown character",
	LexBadIdent:        "Malformed identifier",
	LexBadFuncRef:      "Backslash must be followed by an operator",
	SynNestedBlock:     "Function blocks cannot be nested",
	SynUnbalancedBrace: "Closing brace without an open block",
	SynUnclosedBlock:   "Function block closed by end of line",
	IOLoadFileError:    "Failed to load file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
