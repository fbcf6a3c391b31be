package trace

import (
	"container/ring"
	"fmt"
	"io"
	"sync"
)

// RingTracer keeps the last N accepted events in memory. It is the
// post-mortem buffer: dumped when a run fails, panics or ends in ring mode.
type RingTracer struct {
	mu       sync.Mutex
	next     *ring.Ring // slot for the next event; the oldest once full
	capacity int
	stored   int
	failures int
	level    Level
}

// NewRingTracer creates a ring holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{next: ring.New(capacity), capacity: capacity, level: level}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.Accepts(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next.Value = *ev
	t.next = t.next.Next()
	if t.stored < t.capacity {
		t.stored++
	}
	if ev.Kind == KindFailure {
		t.failures++
	}
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Event, 0, t.stored)
	t.next.Do(func(v any) {
		if ev, ok := v.(Event); ok {
			out = append(out, ev)
		}
	})
	return out
}

// Failures returns how many failure events were recorded, including ones
// already overwritten.
func (t *RingTracer) Failures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures
}

// Dump writes a header and the stored events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	if format == FormatText {
		if _, err := fmt.Fprintf(w, "trace: last %d events, %d failures\n", len(events), t.Failures()); err != nil {
			return err
		}
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op: everything is in memory.
func (t *RingTracer) Flush() error { return nil }

// Close is a no-op.
func (t *RingTracer) Close() error { return nil }

// Level returns the current tracing level.
func (t *RingTracer) Level() Level { return t.level }

// Enabled returns true if tracing is active.
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
