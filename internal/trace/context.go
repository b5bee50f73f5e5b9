package trace

import "context"

type ctxKey struct{}

// FromContext returns the Tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

type spanKey struct{}

// ParentID returns the ID of the span started by StartSpan on ctx, or 0.
func ParentID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// StartSpan begins a span on the context's tracer, parented to the span
// already carried by ctx, and returns a context carrying the new span.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	sp := Begin(FromContext(ctx), scope, name, ParentID(ctx))
	if sp.ID() == 0 {
		return sp, ctx
	}
	return sp, context.WithValue(ctx, spanKey{}, sp.ID())
}
