package emit

import (
	"mesozoic/internal/comments"
	"mesozoic/internal/diag"
	"mesozoic/internal/sourcemap"
	"mesozoic/internal/trace"
)

// Options configure printing of one folded tree.
type Options struct {
	// Minify drops insignificant whitespace and all comments except legal
	// ones and the hashbang.
	Minify bool
	// ASCIIOnly escapes every non-ASCII character.
	ASCIIOnly bool
	// Indent is the number of spaces per level in pretty mode (default 2).
	Indent int

	// SourceMap receives a mapping for each node with a source position.
	SourceMap *sourcemap.Sink
	Comments  *comments.Table
	Reporter  diag.Reporter
	Tracer    trace.Tracer
}

const defaultIndent = 2

func (o Options) withDefaults() Options {
	if o.Indent <= 0 {
		o.Indent = defaultIndent
	}
	if o.Comments == nil {
		o.Comments = comments.New()
	}
	if o.Reporter == nil {
		o.Reporter = diag.NopReporter{}
	}
	return o
}

// Result of printing. Code is empty when Errors > 0.
type Result struct {
	Code   string
	Errors uint
}

// OK reports whether printing succeeded.
func (r Result) OK() bool { return r.Errors == 0 }
