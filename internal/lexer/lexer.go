package lexer

import (
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
	nl     bool           // перевод строки среди накопленных trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the file being scanned.
func (lx *Lexer) File() *source.File { return lx.file }

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF. Comments before EOF ride on the EOF token.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	var tok token.Token
	if lx.cursor.EOF() {
		tok = token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	} else {
		ch := lx.cursor.Peek()
		switch {
		case isIdentStartByte(ch) || ch == '\\' || ch >= utf8RuneSelf:
			tok = lx.scanIdentOrKeyword()
		case isDec(ch):
			tok = lx.scanNumber()
		case ch == '.' && isDec(lx.cursor.PeekAt(1)):
			tok = lx.scanNumber()
		case ch == '"' || ch == '\'':
			tok = lx.scanString()
		case ch == '`':
			tok = lx.scanTemplate(true)
		case ch == '#':
			tok = lx.scanPrivateName()
		default:
			tok = lx.scanOperatorOrPunct()
		}
	}

	tok.Leading = lx.hold
	tok.NL = lx.nl
	lx.hold = nil
	lx.nl = false
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Push makes tok the next token Next returns. tok must end at the cursor,
// which holds for every token returned by a ReScan call.
func (lx *Lexer) Push(tok token.Token) {
	t := tok
	lx.look = &t
}

// State is an opaque lexer snapshot for speculative parsing.
type State struct {
	off  uint32
	look *token.Token
}

// Snapshot captures the lexer position.
func (lx *Lexer) Snapshot() State {
	st := State{off: lx.cursor.Off}
	if lx.look != nil {
		t := *lx.look
		st.look = &t
	}
	return st
}

// Restore rewinds the lexer to a snapshot.
func (lx *Lexer) Restore(st State) {
	lx.cursor.Off = st.off
	lx.look = st.look
	lx.hold = nil
	lx.nl = false
}

// resetTo discards lookahead and moves the cursor to the start of tok.
func (lx *Lexer) resetTo(tok token.Token) {
	lx.look = nil
	lx.hold = nil
	lx.nl = false
	lx.cursor.Off = lx.file.Offset(tok.Span.Start)
}

func (lx *Lexer) emptySpan() source.Span {
	return lx.cursor.SpanFrom(lx.cursor.Mark())
}

func (lx *Lexer) make(k token.Kind, start Mark) token.Token {
	return token.Token{
		Kind: k,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.TextFrom(start),
	}
}
