package emit

import (
	"mesozoic/internal/source"
	"mesozoic/internal/sourcemap"
)

// Writer accumulates output, tracks the generated line and UTF-16 column and
// feeds source-map positions to the sink.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool

	line, col uint32 // 0-based; col in UTF-16 units

	// needSemi holds a statement terminator that minify mode may omit
	// before '}' or at the end of output.
	needSemi bool

	sink    *sourcemap.Sink
	pending source.Span
	hasPend bool
	mapErr  error
}

// NewWriter creates a writer; sizeHint preallocates the buffer.
func NewWriter(opt Options, sizeHint int) *Writer {
	return &Writer{
		opt:  opt,
		buf:  make([]byte, 0, sizeHint),
		sink: opt.SourceMap,
	}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// MapError returns the first error the source-map sink reported.
func (w *Writer) MapError() error {
	return w.mapErr
}

// Map asks for the next written token to be mapped to sp.
func (w *Writer) Map(sp source.Span) {
	if w.sink == nil || sp.IsDummy() {
		return
	}
	w.pending, w.hasPend = sp, true
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	w.atLineStart = false
	if w.opt.Minify {
		return
	}
	for range w.indentLevel * w.opt.Indent {
		w.append(" ")
	}
}

func (w *Writer) flushSemi() {
	if w.needSemi {
		w.needSemi = false
		w.append(";")
	}
}

// Token writes s, inserting a space when it would otherwise fuse with the
// previous token (a b, a - -b, a / /re/).
func (w *Writer) Token(s string) {
	if s == "" {
		return
	}
	w.flushSemi()
	w.writeIndent()
	if n := len(w.buf); n > 0 && needsSpace(w.buf[n-1], s[0]) {
		w.append(" ")
	}
	if w.hasPend {
		w.hasPend = false
		if err := w.sink.Add(w.line, w.col, w.pending); err != nil && w.mapErr == nil {
			w.mapErr = err
		}
	}
	w.append(s)
}

// Semi ends a statement. In minify mode the semicolon is deferred so that it
// can be dropped before '}'.
func (w *Writer) Semi() {
	if w.opt.Minify {
		w.flushSemi()
		w.needSemi = true
		return
	}
	w.Token(";")
}

// DropSemi discards a deferred semicolon (before '}' or at the end).
func (w *Writer) DropSemi() {
	w.needSemi = false
}

// Space writes a single space in pretty mode if the output doesn't already
// end with whitespace.
func (w *Writer) Space() {
	if w.opt.Minify || len(w.buf) == 0 {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\n' {
		return
	}
	w.writeIndent()
	w.append(" ")
}

// Newline ends the line in pretty mode.
func (w *Writer) Newline() {
	if w.opt.Minify {
		return
	}
	w.flushSemi()
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.append("\n")
	}
	w.atLineStart = true
}

// ForceNewline ends the line in both modes (line comments, hashbang).
func (w *Writer) ForceNewline() {
	w.flushSemi()
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.append("\n")
	}
	w.atLineStart = true
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Raw writes text verbatim, without spacing checks (comments).
func (w *Writer) Raw(s string) {
	w.flushSemi()
	w.writeIndent()
	w.append(s)
}

func (w *Writer) append(s string) {
	w.buf = append(w.buf, s...)
	for i := 0; i < len(s); i++ {
		switch b := s[i]; {
		case b == '\n':
			w.line++
			w.col = 0
		case b < 0x80:
			w.col++
		case b >= 0xF0:
			w.col += 2 // суррогатная пара
		case b >= 0xC0:
			w.col++
		}
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' || b == '\\' || b >= 0x80 ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func needsSpace(last, next byte) bool {
	switch {
	case isWordByte(last) && isWordByte(next):
		return true
	case last == '+' && next == '+', last == '-' && next == '-':
		return true
	case last == '/' && next == '/':
		return true
	}
	return false
}
