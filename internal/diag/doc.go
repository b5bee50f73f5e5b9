// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error. Only errors stop the pipeline.
//   - Code: compact numeric identifier with a stable string ID (LEX1002,
//     SYN2010, CFG3001, FLD4004, EMT5002). The numeric range decides the
//     Kind: SyntaxError, ConfigurationError, TransformInvariantError or
//     EmitInvariantError.
//   - Message: short human text.
//   - Primary: the source.Span the finding points at. Synthesized positions
//     (Start == 0) are allowed for invariant failures without a location.
//   - Notes: optional secondary spans.
//
// # Producers
//
// Phases report through Reporter and never format text. BagReporter stores into
// a Bag, BufferReporter holds findings during speculative parsing, and
// DedupReporter drops repeats.
//
// # Limits
//
// Bag enforces a maximum count; the first error is always admitted so a run
// that failed can never look clean.
//
// Rendering lives in internal/diagfmt.
package diag
