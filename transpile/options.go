package transpile

import (
	"fmt"
	"strings"

	"mesozoic/internal/dialect"
	"mesozoic/internal/fold"
	"mesozoic/internal/observ"
	"mesozoic/internal/trace"
)

// SourceMapMode selects whether and how a source map is produced.
type SourceMapMode uint8

const (
	// SourceMapNone produces no map.
	SourceMapNone SourceMapMode = iota
	// SourceMapSeparate returns the map in Result.Map and links it from the
	// code with a sourceMappingURL comment naming <output>.map.
	SourceMapSeparate
	// SourceMapInline embeds the map into the code as a data URL.
	SourceMapInline
)

func (m SourceMapMode) String() string {
	switch m {
	case SourceMapSeparate:
		return "separate"
	case SourceMapInline:
		return "inline"
	}
	return "none"
}

// ParseSourceMapMode reads none, separate (or true) and inline.
func ParseSourceMapMode(s string) (SourceMapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "false":
		return SourceMapNone, nil
	case "separate", "true", "external":
		return SourceMapSeparate, nil
	case "inline":
		return SourceMapInline, nil
	}
	return SourceMapNone, fmt.Errorf("unknown source map mode %q (expected none|separate|inline)", s)
}

// Options configure one Transpile call. The zero value transpiles with the
// automatic React runtime for the newest target, pretty printed, without a
// source map.
type Options struct {
	// JSXImportSource is the package providing jsx-runtime; "react" when empty.
	JSXImportSource string
	// Development switches JSX to jsxDEV calls with source locations.
	Development bool
	Minify      bool
	// SyntaxOverride forces a dialect; dialect.None infers it from the specifier.
	SyntaxOverride dialect.Dialect

	JSXRuntime  fold.Runtime
	JSXFactory  string
	JSXFragment string
	Target      fold.Target
	ASCIIOnly   bool
	SourceMap   SourceMapMode

	Decorators        bool
	StrictEarlyErrors bool
	// CaptureTokens fills Result.Tokens.
	CaptureTokens bool

	// StripConditionals are if-tests whose consequent is removed, for example
	// process.env.NODE_ENV === "development".
	StripConditionals []string
	// Defines replace global identifiers with JavaScript expressions.
	Defines         map[string]string
	PreserveImports bool

	// MaxDiagnostics caps the collected diagnostics; 0 means the default.
	MaxDiagnostics int
	Tracer         trace.Tracer
	// Timer, when set, records a phase per pipeline step.
	Timer *observ.Timer
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{Target: fold.DefaultTarget}
}
