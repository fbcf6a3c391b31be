package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	// KindFailure is an instant event about a parse or evaluation failure.
	// Failures pass the error level filter regardless of scope.
	KindFailure
	KindHeartbeat // periodic progress report
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindFailure:
		return "failure"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeDriver covers a whole session or command.
	ScopeDriver Scope = iota + 1
	// ScopePass covers bootstrap, eval and check passes.
	ScopePass
	// ScopeLine covers a single input line.
	ScopeLine
	ScopeInstr // one dispatch step of the machine
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeLine:
		return "line"
	case ScopeInstr:
		return "instr"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
//
// Line, Depth and Stack describe where the interpreter was: the 1-based input
// line (0 outside of a line), the forced-execution nesting and the stack
// length after the step. Depth and Stack are only meaningful for ScopeInstr
// events and heartbeats.
type Event struct {
	Time     time.Time
	Seq      uint64 // global sequence number (monotonic)
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 if root
	Name     string // e.g. "run", "bootstrap", "line", "exec"
	Detail   string
	Line     int
	Depth    int
	Stack    int
	Extra    map[string]string
}

func (ev *Event) stamp() *Event {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	ev.Seq = NextSeq()
	return ev
}

// Point emits an instant event if the tracer accepts the scope.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	Emit(t, Event{Kind: KindPoint, Scope: scope, Name: name, Detail: detail, ParentID: parent})
}

// Fail emits a failure event for the given input line. Failures are kept at
// every level above LevelOff.
func Fail(t Tracer, scope Scope, name, detail string, line int, parent uint64) {
	Emit(t, Event{Kind: KindFailure, Scope: scope, Name: name, Detail: detail, Line: line, ParentID: parent})
}

// Emit stamps ev and hands it to t when the level accepts it.
func Emit(t Tracer, ev Event) {
	if t == nil || !t.Enabled() || !t.Level().Accepts(&ev) {
		return
	}
	t.Emit(ev.stamp())
}
