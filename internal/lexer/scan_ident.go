package lexer

import (
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// scanIdentOrKeyword сканирует идентификатор (включая \uXXXX escapes) и
// проверяет через LookupKeyword. Слова с escape-последовательностями
// ключевыми словами не становятся.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	escaped := false
	first := true
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b < utf8RuneSelf && b != '\\':
			if first && !isIdentStartByte(b) || !first && !isIdentContinueByte(b) {
				goto done
			}
			lx.cursor.Bump()
		case b == '\\':
			if !lx.scanIdentEscape() {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadEscape, sp, "invalid unicode escape in identifier")
				tok := lx.make(token.Invalid, start)
				return tok
			}
			escaped = true
		default:
			r, _ := lx.peekRune()
			if first && !IsIdentStart(r) || !first && !IsIdentContinue(r) {
				if first {
					lx.bumpRune()
					sp := lx.cursor.SpanFrom(start)
					lx.errLex(diag.LexUnknownChar, sp, "unexpected character "+lx.cursor.TextFrom(start))
					return lx.make(token.Invalid, start)
				}
				goto done
			}
			lx.bumpRune()
		}
		first = false
	}
done:
	tok := lx.make(token.Ident, start)
	tok.Escaped = escaped
	if !escaped {
		if k, ok := token.LookupKeyword(tok.Text); ok {
			tok.Kind = k
		}
	}
	return tok
}

// scanIdentEscape consumes \uXXXX or \u{X...}.
func (lx *Lexer) scanIdentEscape() bool {
	if !lx.try("\\u") {
		return false
	}
	if lx.cursor.Eat('{') {
		n := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		return n > 0 && lx.cursor.Eat('}')
	}
	for i := 0; i < 4; i++ {
		if !isHex(lx.cursor.Peek()) {
			return false
		}
		lx.cursor.Bump()
	}
	return true
}

// #name
func (lx *Lexer) scanPrivateName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	r, sz := lx.peekRune()
	if sz == 0 || !(IsIdentStart(r) || r == '\\') {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unexpected character '#'")
		return lx.make(token.Invalid, start)
	}
	id := lx.scanIdentOrKeyword()
	tok := lx.make(token.PrivateName, start)
	tok.Escaped = id.Escaped
	return tok
}
