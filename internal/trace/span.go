package trace

import (
	"strconv"
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return globalSeq.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return globalSpans.Add(1) }

// Span tracks one begin/end pair. A nil or disabled span is safe to use.
type Span struct {
	tracer  Tracer
	begin   Event
	started time.Time
	extra   map[string]string
	stack   int
}

// Begin starts a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return Start(t, Event{Scope: scope, Name: name, ParentID: parent})
}

// BeginLine starts a line span. The line text goes into the begin event.
func BeginLine(t Tracer, line int, text string, parent uint64) *Span {
	return Start(t, Event{Scope: ScopeLine, Name: "line", Line: line, Detail: text, ParentID: parent})
}

// Start emits the begin event described by ev and returns its span.
func Start(t Tracer, ev Event) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(ev.Scope) {
		return nil
	}
	ev.Kind = KindSpanBegin
	ev.SpanID = NextSpanID()
	ev.Time = time.Now()
	t.Emit(ev.stamp())
	return &Span{tracer: t, begin: ev, started: ev.Time}
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// WithCount is WithExtra for integer values.
func (s *Span) WithCount(key string, n int) *Span {
	return s.WithExtra(key, strconv.Itoa(n))
}

// WithStack records the stack length reported by the end event.
func (s *Span) WithStack(n int) *Span {
	if s != nil {
		s.stack = n
	}
	return s
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	end := Event{
		Time:     now,
		Kind:     KindSpanEnd,
		Scope:    s.begin.Scope,
		SpanID:   s.begin.SpanID,
		ParentID: s.begin.ParentID,
		Name:     s.begin.Name,
		Detail:   detail,
		Line:     s.begin.Line,
		Stack:    s.stack,
		Extra:    s.extra,
	}
	s.tracer.Emit(end.stamp())
	return now.Sub(s.started)
}

// ID returns the span ID, 0 for a nil span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}
