package dialect

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Dialect is the source language variant a unit is parsed as.
type Dialect uint8

const (
	// None means "infer from the specifier".
	None Dialect = iota
	// TS is TypeScript without JSX; <T>x is a type assertion.
	TS
	// TSX is TypeScript with JSX; <T> starts an element.
	TSX
	// JSX is JavaScript with JSX. Any type syntax is a syntax error.
	JSX
	// DTS is an ambient declaration file: declarations only.
	DTS
)

func (d Dialect) String() string {
	switch d {
	case TS:
		return "ts"
	case TSX:
		return "tsx"
	case JSX:
		return "jsx"
	case DTS:
		return "dts"
	}
	return "none"
}

// Parse maps a dialect name (ts, tsx, jsx, js, dts, d.ts) to a Dialect.
func Parse(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "", "none", "auto":
		return None, nil
	case "ts", "typescript", "mts", "cts":
		return TS, nil
	case "tsx":
		return TSX, nil
	case "jsx", "js", "mjs", "cjs", "javascript":
		return JSX, nil
	case "dts", "d.ts":
		return DTS, nil
	}
	return None, fmt.Errorf("unknown dialect %q", name)
}

// AllowsTypes reports whether type syntax is legal in the dialect.
func (d Dialect) AllowsTypes() bool {
	return d == TS || d == TSX || d == DTS
}

// AllowsJSX reports whether JSX elements are legal in the dialect.
func (d Dialect) AllowsJSX() bool {
	return d == TSX || d == JSX
}

// FromSpecifier infers the dialect from a module specifier: a path or a URL.
// Query strings and fragments are ignored. Unknown extensions fall back to TS.
func FromSpecifier(specifier string) Dialect {
	p := specifier
	if u, err := url.Parse(specifier); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		p = u.Path
		if p == "" {
			p = u.Opaque
		}
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := strings.ToLower(path.Base(strings.ReplaceAll(p, "\\", "/")))

	switch {
	case strings.HasSuffix(base, ".d.ts"), strings.HasSuffix(base, ".d.mts"), strings.HasSuffix(base, ".d.cts"):
		return DTS
	case strings.HasSuffix(base, ".tsx"):
		return TSX
	case strings.HasSuffix(base, ".jsx"), strings.HasSuffix(base, ".js"),
		strings.HasSuffix(base, ".mjs"), strings.HasSuffix(base, ".cjs"):
		return JSX
	}
	return TS
}

// Resolve picks the dialect for a unit: the override when given, otherwise
// the one inferred from the specifier. It fails when the override demands type
// syntax for a specifier that names a JavaScript file.
func Resolve(specifier string, override Dialect) (Dialect, error) {
	inferred := FromSpecifier(specifier)
	if override == None {
		return inferred, nil
	}
	if inferred == JSX && override.AllowsTypes() {
		return None, fmt.Errorf("dialect %s conflicts with JavaScript specifier %q", override, specifier)
	}
	return override, nil
}
