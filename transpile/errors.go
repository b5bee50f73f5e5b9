package transpile

import (
	"fmt"
	"strings"

	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

// Error is returned when a call produced no output. Diagnostics is never
// empty and holds every collected diagnostic, warnings included.
type Error struct {
	State       State
	Diagnostics []diag.Diagnostic
	// FileSet resolves the spans of Diagnostics.
	FileSet *source.FileSet
}

func (e *Error) Error() string {
	first := e.first()
	if first == nil {
		return "transpile: " + e.State.String()
	}
	var b strings.Builder
	b.WriteString("transpile: ")
	b.WriteString(e.State.String())
	b.WriteString(": ")
	if pos := e.position(first.Primary); pos != "" {
		b.WriteString(pos)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s %s", first.Code.ID(), first.Message)
	if n := e.errorCount(); n > 1 {
		fmt.Fprintf(&b, " (and %d more errors)", n-1)
	}
	return b.String()
}

// Kind returns the category of the first error.
func (e *Error) Kind() diag.Kind {
	if first := e.first(); first != nil {
		return first.Kind()
	}
	return diag.KindUnknown
}

// Has reports whether any diagnostic carries code.
func (e *Error) Has(code diag.Code) bool {
	for _, d := range e.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func (e *Error) first() *diag.Diagnostic {
	for i := range e.Diagnostics {
		if e.Diagnostics[i].Severity >= diag.SevError {
			return &e.Diagnostics[i]
		}
	}
	if len(e.Diagnostics) > 0 {
		return &e.Diagnostics[0]
	}
	return nil
}

func (e *Error) errorCount() int {
	n := 0
	for _, d := range e.Diagnostics {
		if d.Severity >= diag.SevError {
			n++
		}
	}
	return n
}

func (e *Error) position(sp source.Span) string {
	if e.FileSet == nil || sp.IsDummy() {
		return ""
	}
	f, ok := e.FileSet.FileOf(sp.Start)
	if !ok {
		return ""
	}
	lc := f.LineCol(sp.Start)
	return fmt.Sprintf("%s:%d:%d", f.Path, lc.Line, lc.Col)
}
