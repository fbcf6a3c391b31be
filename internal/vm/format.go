package vm

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders n in shortest form with a trailing ".0" for integral values.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// String returns the debug representation used by Print, PrintAll and error messages.
func (v Value) String() string {
	var sb strings.Builder
	v.writeTo(&sb)
	return sb.String()
}

func (v Value) writeTo(sb *strings.Builder) {
	switch v.Kind {
	case KindNumber:
		sb.WriteString(FormatNumber(v.Num))
	case KindPrim:
		sb.WriteByte(v.Op.Char())
	case KindIdent:
		sb.WriteByte('(')
		sb.WriteString(v.Name)
		sb.WriteByte(')')
	case KindComposed:
		sb.WriteByte('{')
		v.First.writeTo(sb)
		sb.WriteString(" | ")
		v.Second.writeTo(sb)
		sb.WriteByte('}')
	case KindFunc:
		sb.WriteByte('\\')
		if v.Inner != nil {
			v.Inner.writeTo(sb)
		}
		if len(v.Bound) > 0 {
			writeList(sb, v.Bound)
		}
	default:
		sb.WriteString("<invalid>")
	}
}

func writeList(sb *strings.Builder, vals []Value) {
	sb.WriteByte('[')
	for i, x := range vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		x.writeTo(sb)
	}
	sb.WriteByte(']')
}

// FormatStack renders a stack as "[a, b, c]".
func FormatStack(vals []Value) string {
	var sb strings.Builder
	writeList(&sb, vals)
	return sb.String()
}
