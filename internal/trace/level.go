package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff   Level = iota // no tracing
	LevelError              // failures only
	LevelPhase              // commands, bootstrap and eval passes
	LevelLine               // plus one span per input line
	LevelInstr              // plus every dispatch step of the machine
)

var levelNames = [...]string{
	LevelOff:   "off",
	LevelError: "error",
	LevelPhase: "phase",
	LevelLine:  "line",
	LevelInstr: "instr",
}

// String returns the string representation of Level.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a string to a Level. "detail" and "debug" are accepted
// as aliases of "line" and "instr".
func ParseLevel(s string) (Level, error) {
	switch name := strings.ToLower(strings.TrimSpace(s)); name {
	case "", "off":
		return LevelOff, nil
	case "detail":
		return LevelLine, nil
	case "debug":
		return LevelInstr, nil
	default:
		for l, n := range levelNames {
			if n == name {
				return Level(l), nil
			}
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|line|instr)", s)
}

// maxScope is the finest scope emitted at this level; 0 means none.
func (l Level) maxScope() Scope {
	switch l {
	case LevelPhase:
		return ScopePass
	case LevelLine:
		return ScopeLine
	case LevelInstr:
		return ScopeInstr
	}
	return 0
}

// ShouldEmit reports whether regular events of the scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return scope <= l.maxScope()
}

// Accepts is ShouldEmit plus the rules for special kinds: failures pass any
// enabled level, heartbeats pass whenever tracing is on.
func (l Level) Accepts(ev *Event) bool {
	if l == LevelOff {
		return false
	}
	switch ev.Kind {
	case KindFailure, KindHeartbeat:
		return true
	}
	return l.ShouldEmit(ev.Scope)
}
