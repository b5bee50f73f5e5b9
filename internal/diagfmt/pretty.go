package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

type palette struct {
	err, warn, info, code, caret, gutter, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		gutter: color.New(color.FgBlue),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.caret, p.gutter, p.note} {
		// глобальный color.NoColor смотрит на stdout, а пишем мы в произвольный w
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	pw := &prettyWriter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	if pw.opts.TabWidth <= 0 {
		pw.opts.TabWidth = 4
	}
	for i := range diags {
		pw.diagnostic(&diags[i])
		if pw.err != nil {
			return pw.err
		}
	}
	return nil
}

type prettyWriter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
	err  error
}

func (pw *prettyWriter) printf(format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = fmt.Fprintf(pw.w, format, args...)
}

func (pw *prettyWriter) diagnostic(d *diag.Diagnostic) {
	pos := resolve(pw.fs, d.Primary, pw.opts.PathMode)
	if pos.File != "" {
		pw.printf("%s:%d:%d: ", pos.File, pos.Start.Line, pos.Start.Col)
	}
	pw.printf("%s %s: %s\n",
		pw.pal.severity(d.Severity).Sprint(d.Severity.String()),
		pw.pal.code.Sprint(d.Code.ID()),
		d.Message)
	if pos.file != nil {
		pw.excerpt(pos, pw.opts.Context)
	}
	if !pw.opts.ShowNotes && d.Code != diag.ObsTimings {
		return
	}
	for _, n := range d.Notes {
		np := resolve(pw.fs, n.Span, pw.opts.PathMode)
		if np.File == "" {
			pw.printf("  %s %s\n", pw.pal.note.Sprint("note:"), n.Msg)
			continue
		}
		pw.printf("  %s %s:%d:%d: %s\n", pw.pal.note.Sprint("note:"), np.File, np.Start.Line, np.Start.Col, n.Msg)
		pw.excerpt(np, 0)
	}
}

// excerpt prints the primary line with up to context lines above it and a
// caret line under the span. Multi-line spans are underlined to the end of
// their first line.
func (pw *prettyWriter) excerpt(pos position, context int8) {
	f := pos.file
	first := pos.Start.Line
	if context > 0 {
		if uint32(context) >= first {
			first = 1
		} else {
			first -= uint32(context)
		}
	}
	width := len(strconv.Itoa(int(pos.Start.Line)))
	for ln := first; ln <= pos.Start.Line; ln++ {
		text := pw.expandTabs(f.GetLine(ln))
		pw.printf("%s %s\n", pw.pal.gutter.Sprintf("%*d |", width, ln), text)
	}

	line := f.GetLine(pos.Start.Line)
	startCol := int(pos.Start.Col) - 1
	startCol = min(max(startCol, 0), len(line))
	endCol := len(line)
	if pos.End.Line == pos.Start.Line {
		endCol = min(max(int(pos.End.Col)-1, startCol), len(line))
	}
	lead := runewidth.StringWidth(pw.expandTabs(line[:startCol]))
	span := runewidth.StringWidth(pw.expandTabs(line[startCol:endCol]))
	marker := "^"
	if span > 1 {
		marker += strings.Repeat("~", span-1)
	}
	pw.printf("%s %s%s\n", pw.pal.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", lead), pw.pal.caret.Sprint(marker))
}

func (pw *prettyWriter) expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", pw.opts.TabWidth))
}
