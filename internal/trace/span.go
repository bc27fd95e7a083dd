package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
	epoch   = time.Now()
)

func stamp(ev Event) Event {
	ev.Seq = seq.Add(1)
	ev.At = time.Since(epoch)
	return ev
}

type tracerKey struct{}
type spanKey struct{}

// WithTracer attaches t to ctx. A nil t detaches tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

func current(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(spanKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}

// Span is an open begin/end pair. A Span from a disabled tracer is inert.
type Span struct {
	t      Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	attrs  []Attr
}

// Start opens a span under the span in ctx and returns a context that
// parents later spans and marks to it.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	t := FromContext(ctx)
	if !t.Level().Keeps(scope) {
		return &Span{}, ctx
	}
	s := &Span{t: t, id: spanIDs.Add(1), parent: current(ctx), scope: scope, name: name}
	t.Emit(stamp(Event{Kind: KindBegin, Scope: scope, Span: s.id, Parent: s.parent, Name: name}))
	return s, context.WithValue(ctx, spanKey{}, s.id)
}

// Set records an attribute reported with End.
func (s *Span) Set(key, value string) *Span {
	if s.t != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End closes the span.
func (s *Span) End(detail string) {
	if s.t == nil {
		return
	}
	s.t.Emit(stamp(Event{Kind: KindEnd, Scope: s.scope, Span: s.id, Parent: s.parent, Name: s.name, Detail: detail, Attrs: s.attrs}))
}

// ID is zero for inert spans.
func (s *Span) ID() uint64 { return s.id }

// Mark emits an instant event under the span in ctx.
func Mark(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Level().Keeps(scope) {
		return
	}
	t.Emit(stamp(Event{Kind: KindMark, Scope: scope, Parent: current(ctx), Name: name, Detail: detail}))
}

// Enabled reports whether ctx would keep events of scope. Callers use it
// to skip building details nobody reads.
func Enabled(ctx context.Context, scope Scope) bool {
	return FromContext(ctx).Level().Keeps(scope)
}
