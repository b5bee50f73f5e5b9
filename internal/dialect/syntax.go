package dialect

// Syntax is the parser configuration derived from a dialect plus feature flags.
type Syntax struct {
	Dialect Dialect
	// TSX enables JSX parsing in TypeScript sources.
	TSX bool
	// Decorators accepts @decorator syntax on classes and members.
	Decorators bool
	// AmbientOnly restricts the unit to declarations (d.ts).
	AmbientOnly bool
	// StrictEarlyErrors reports strict-mode early errors: with, delete of an
	// identifier, legacy octal, duplicate lexical declarations.
	StrictEarlyErrors bool
}

// ForDialect returns the default syntax configuration of d.
func ForDialect(d Dialect) Syntax {
	return Syntax{
		Dialect:     d,
		TSX:         d.AllowsJSX(),
		AmbientOnly: d == DTS,
	}
}

// TypeScript reports whether type annotations are accepted.
func (s Syntax) TypeScript() bool { return s.Dialect.AllowsTypes() }

// JSX reports whether JSX elements are accepted.
func (s Syntax) JSX() bool { return s.TSX || s.Dialect == JSX }
