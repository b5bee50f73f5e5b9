package fold

import (
	"html"
	"strings"

	"mesozoic/internal/lexer"
)

// cleanJSXText applies the React whitespace rules to raw JSX text: lines are
// trimmed at the inner edges, blank lines vanish, and the remaining lines are
// joined with single spaces.
func cleanJSXText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	lines := strings.Split(raw, "\n")

	lastNonEmpty := 0
	for i, line := range lines {
		if strings.Trim(line, " \t") != "" {
			lastNonEmpty = i
		}
	}

	var b strings.Builder
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", " ")
		if i > 0 {
			line = strings.TrimLeft(line, " ")
		}
		if i < len(lines)-1 {
			line = strings.TrimRight(line, " ")
		}
		if line == "" {
			continue
		}
		b.WriteString(line)
		if i != lastNonEmpty {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// decodeEntities resolves HTML character references (&amp;, &#123;, &#x7B;)
// in JSX text and attribute strings.
func decodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return html.UnescapeString(s)
}

// isIntrinsicTag reports whether a JSX tag names a host element, passed to
// the runtime as a string: lower-case, dashed and namespaced names.
func isIntrinsicTag(name string) bool {
	if name == "" || name == "this" {
		return false
	}
	c := name[0]
	return (c >= 'a' && c <= 'z') || strings.ContainsAny(name, "-:")
}

func quote(s string) string {
	return lexer.Quote(s, '"')
}
