package lexer

import (
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// NextJSXChild scans the next JSX child token after prev (a '>' closing an
// opening tag or a '}' closing an expression container). It yields Lt, LBrace,
// JSXText or EOF. Whitespace is significant here, so no trivia is collected.
func (lx *Lexer) NextJSXChild(prev token.Token) token.Token {
	lx.look = nil
	lx.hold = nil
	lx.nl = false
	lx.cursor.Off = lx.file.Offset(prev.Span.End)

	start := lx.cursor.Mark()
	if lx.cursor.EOF() {
		return lx.make(token.EOF, start)
	}
	switch lx.cursor.Peek() {
	case '<':
		lx.cursor.Bump()
		return lx.make(token.Lt, start)
	case '{':
		lx.cursor.Bump()
		return lx.make(token.LBrace, start)
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '<' || b == '{' {
			break
		}
		lx.bumpRune()
	}
	return lx.make(token.JSXText, start)
}

// ReScanJSXIdent extends an identifier or keyword token with '-' segments
// (data-id, aria-label). Other tokens are returned unchanged.
func (lx *Lexer) ReScanJSXIdent(tok token.Token) token.Token {
	if !tok.Kind.IsIdentName() {
		return tok
	}
	lx.resetTo(tok)
	start := lx.cursor.Mark()
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !(IsIdentContinue(r) || r == '-') {
			break
		}
		lx.bumpRune()
	}
	out := lx.make(token.Ident, start)
	out.Leading, out.NL = tok.Leading, tok.NL
	return out
}

// ReScanJSXAttrString re-lexes a quoted attribute value. JSX strings have no
// escapes and may span lines.
func (lx *Lexer) ReScanJSXAttrString(tok token.Token) token.Token {
	if tok.Kind != token.StringLit && tok.Kind != token.Invalid {
		return tok
	}
	lx.resetTo(tok)
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	if quote != '"' && quote != '\'' {
		lx.cursor.Reset(start)
		return tok
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == quote {
			lx.cursor.Bump()
			out := lx.make(token.StringLit, start)
			out.Leading, out.NL = tok.Leading, tok.NL
			return out
		}
		lx.bumpRune()
	}
	out := lx.make(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, out.Span, "unterminated JSX attribute string")
	return out
}
