package emit

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

type escapeMode uint8

const (
	escapeString escapeMode = iota // strings, templates, regular expressions
	escapeIdent
	escapeComment
)

// escapeText replaces every non-ASCII character of s. Identifiers use
// \u{...} for astral characters, everything else a surrogate pair, which
// strings and regular expressions with or without the u flag accept.
func escapeText(s string, mode escapeMode) string {
	i := 0
	for i < len(s) && s[i] < utf8.RuneSelf {
		i++
	}
	if i == len(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	b.WriteString(s[:i])
	for _, r := range s[i:] {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&b, `\u%04X`, r)
		case mode == escapeIdent:
			fmt.Fprintf(&b, `\u{%X}`, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04X\u%04X`, hi, lo)
		}
	}
	return b.String()
}

// text applies ASCII escaping when configured.
func (p *printer) text(s string, mode escapeMode) string {
	if !p.opts.ASCIIOnly {
		return s
	}
	return escapeText(s, mode)
}

// isPlainNumber reports whether a numeric literal would swallow a following
// '.' (1.toString() is a syntax error).
func isPlainNumber(raw string) bool {
	if len(raw) > 1 && raw[0] == '0' && strings.ContainsAny(raw[1:2], "xXoObB") {
		return false
	}
	return !strings.ContainsAny(raw, ".eEn")
}
