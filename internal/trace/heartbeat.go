package trace

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Progress counts what a session has done so far. The session updates it,
// the heartbeat goroutine reads it. A nil *Progress ignores updates.
type Progress struct {
	lines  atomic.Int64
	instrs atomic.Int64
	errors atomic.Int64
}

// StartLine records that a new input line is being evaluated.
func (p *Progress) StartLine() {
	if p != nil {
		p.lines.Add(1)
	}
}

// Executed records one top-level instruction.
func (p *Progress) Executed(failed bool) {
	if p == nil {
		return
	}
	p.instrs.Add(1)
	if failed {
		p.errors.Add(1)
	}
}

// Counts returns lines, instructions and errors seen so far.
func (p *Progress) Counts() (lines, instrs, errors int64) {
	if p == nil {
		return 0, 0, 0
	}
	return p.lines.Load(), p.instrs.Load(), p.errors.Load()
}

// Heartbeat reports Progress at a fixed interval. A heartbeat whose counters
// stop moving means the script is stuck inside one instruction, usually a
// long repeat.
type Heartbeat struct {
	stop chan struct{}
	done sync.WaitGroup
	once sync.Once
}

// StartHeartbeat starts the reporting goroutine. It returns nil when tracing
// is off or the interval is not positive; Stop on nil is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration, p *Progress) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{})}
	h.done.Add(1)
	go h.run(t, interval, p)
	return h
}

func (h *Heartbeat) run(t Tracer, interval time.Duration, p *Progress) {
	defer h.done.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastInstrs int64 = -1
	for beat := 1; ; beat++ {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
		}
		lines, instrs, errs := p.Counts()
		detail := fmt.Sprintf("#%d lines=%d instrs=%d errors=%d", beat, lines, instrs, errs)
		if instrs == lastInstrs && lines > 0 {
			detail += " no progress"
		}
		lastInstrs = instrs
		Emit(t, Event{Kind: KindHeartbeat, Scope: ScopeDriver, Name: "heartbeat", Detail: detail, Line: int(lines)})
	}
}

// Stop ends the goroutine and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.done.Wait()
}
