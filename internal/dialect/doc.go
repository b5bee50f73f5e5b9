// Package dialect decides how a source unit is parsed: TypeScript, TSX, JSX or
// an ambient declaration file. The choice comes from an explicit override or
// from the specifier's extension.
package dialect
