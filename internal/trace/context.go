package trace

import "context"

type (
	tracerKey   struct{}
	parentKey   struct{}
	progressKey struct{}
)

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// ParentSpan returns the ID of the span new spans should nest under.
func ParentSpan(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(parentKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}

// WithParentSpan makes s the parent of spans started from the returned context.
// A nil span leaves ctx unchanged.
func WithParentSpan(ctx context.Context, s *Span) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, parentKey{}, s.ID())
}

// ProgressFrom returns the progress counters carried by ctx, or nil.
func ProgressFrom(ctx context.Context) *Progress {
	if ctx != nil {
		if p, ok := ctx.Value(progressKey{}).(*Progress); ok {
			return p
		}
	}
	return nil
}

// WithProgress attaches the counters a Heartbeat reports.
func WithProgress(ctx context.Context, p *Progress) context.Context {
	return context.WithValue(ctx, progressKey{}, p)
}
