// Package trace records spans around transpile calls and build work.
//
// A Tracer is threaded through transpile.Options (one call) or through a
// context.Context (a build). Spans are cheap when tracing is off: Begin on a
// disabled tracer returns an inert span.
//
//	span := trace.Begin(t, trace.ScopePass, "fold", 0)
//	defer span.End("")
//
// Scopes from coarse to fine are driver (a transpile call or a command),
// pass (parse, fold, emit), module (one file of a build) and node. The level
// picks how deep events go; the storage mode picks where: a stream in text,
// NDJSON or Chrome trace format, an in-memory ring dumped on failure, or
// zap log entries.
package trace
