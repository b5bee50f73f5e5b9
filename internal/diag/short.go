package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"mesozoic/internal/source"
)

// ShortOpts tunes FormatShort.
type ShortOpts struct {
	// Notes prints each note on its own line right after its diagnostic.
	Notes bool
}

type shortLine struct {
	path      string
	line, col uint32
	sev       Severity
	code      Code
	msg       string
	notes     []shortLine
}

// FormatShort renders one line per diagnostic in the compiler style
//
//	src/app.tsx:3:7: error SYN2010: unterminated JSX element
//
// which editors and CI annotators can match with a single pattern. Lines are
// ordered by file and position, errors before warnings at the same spot.
func FormatShort(diags []Diagnostic, fs *source.FileSet, opts ShortOpts) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]shortLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		l := locate(fs, d.Primary)
		l.sev, l.code, l.msg = d.Severity, d.Code, oneLine(d.Message)
		if opts.Notes {
			for _, n := range d.Notes {
				nl := locate(fs, n.Span)
				nl.msg = oneLine(n.Msg)
				l.notes = append(l.notes, nl)
			}
		}
		lines = append(lines, l)
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(b.sev, a.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%s:%d:%d: %s %s: %s\n", l.path, l.line, l.col, strings.ToLower(l.sev.String()), l.code.ID(), l.msg)
		for _, n := range l.notes {
			fmt.Fprintf(&b, "%s:%d:%d: note: %s\n", n.path, n.line, n.col, n.msg)
		}
	}
	return b.String()
}

func locate(fs *source.FileSet, span source.Span) shortLine {
	if fs == nil || span.IsDummy() || int(span.File) >= fs.Len() {
		return shortLine{path: "<unknown>"}
	}
	start, _ := fs.Resolve(span)
	path := fs.Get(span.File).FormatPath("relative", fs.BaseDir())
	return shortLine{path: strings.TrimPrefix(path, "./"), line: start.Line, col: start.Col}
}

// oneLine folds a multi-line message so each diagnostic stays on one line.
func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
