package lexer

import (
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// '...' или "..." с escape-последовательностями. Перевод строки внутри
// (кроме продолжения строки через '\') - ошибка.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == quote {
			lx.cursor.Bump()
			return lx.make(token.StringLit, start)
		}
		if b == '\\' {
			lx.scanEscape(start)
			continue
		}
		if b == '\n' || b == '\r' {
			tok := lx.make(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "newline in string literal")
			return tok
		}
		lx.bumpRune()
	}
	tok := lx.make(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanEscape проверяет одну escape-последовательность, курсор стоит на '\'.
func (lx *Lexer) scanEscape(tokStart Mark) {
	escStart := lx.cursor.Mark()
	lx.cursor.Bump()
	if lx.cursor.EOF() {
		return
	}
	b := lx.cursor.Peek()
	switch {
	case b == 'x':
		lx.cursor.Bump()
		if !isHex(lx.cursor.Peek()) || !isHex(lx.cursor.PeekAt(1)) {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "invalid hexadecimal escape sequence")
			return
		}
		lx.cursor.Off += 2
	case b == 'u':
		lx.cursor.Reset(escStart)
		if !lx.scanIdentEscape() {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "invalid unicode escape sequence")
		}
	case b >= '1' && b <= '7' || b == '0' && isDec(lx.cursor.PeekAt(1)):
		for isDec(lx.cursor.Peek()) && lx.cursor.Off-uint32(escStart) < 4 {
			lx.cursor.Bump()
		}
		if lx.opts.StrictOctal {
			lx.errLex(diag.LexLegacyOctal, lx.cursor.SpanFrom(escStart), "octal escape sequences are not allowed in strict mode")
		}
	case b == '\r':
		lx.cursor.Bump()
		lx.cursor.Eat('\n')
	default:
		lx.bumpRune()
	}
}

// scanTemplate сканирует `...` / `...${ (head=true) или }...${ / }...` (head=false).
func (lx *Lexer) scanTemplate(head bool) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '`' или '}'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '`':
			lx.cursor.Bump()
			if head {
				return lx.make(token.NoSubstTemplate, start)
			}
			return lx.make(token.TemplateTail, start)
		case '$':
			if lx.cursor.PeekAt(1) == '{' {
				lx.cursor.Off += 2
				if head {
					return lx.make(token.TemplateHead, start)
				}
				return lx.make(token.TemplateMiddle, start)
			}
			lx.cursor.Bump()
		case '\\':
			// в шаблонах невалидные escape допустимы для tagged templates
			lx.cursor.Bump()
			lx.bumpRune()
		default:
			lx.bumpRune()
		}
	}
	tok := lx.make(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedTemplate, tok.Span, "unterminated template literal")
	return tok
}

// ReScanTemplateContinuation re-lexes a '}' that closes a template
// substitution as TemplateMiddle or TemplateTail.
func (lx *Lexer) ReScanTemplateContinuation(tok token.Token) token.Token {
	lx.resetTo(tok)
	out := lx.scanTemplate(false)
	out.Leading, out.NL = tok.Leading, tok.NL
	return out
}

// ReScanSlash re-lexes a '/' or '/=' token as a regular expression literal.
func (lx *Lexer) ReScanSlash(tok token.Token) token.Token {
	lx.resetTo(tok)
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	inClass := false
	for {
		if lx.cursor.EOF() || lx.atLineTerminator() {
			out := lx.make(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedRegExp, out.Span, "unterminated regular expression")
			out.Leading, out.NL = tok.Leading, tok.NL
			return out
		}
		b := lx.cursor.Peek()
		if b == '\\' {
			lx.cursor.Bump()
			if !lx.atLineTerminator() {
				lx.bumpRune()
			}
			continue
		}
		if b == '[' {
			inClass = true
		} else if b == ']' {
			inClass = false
		} else if b == '/' && !inClass {
			lx.cursor.Bump()
			break
		}
		lx.bumpRune()
	}
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !IsIdentContinue(r) {
			break
		}
		lx.bumpRune()
	}
	out := lx.make(token.RegExpLit, start)
	out.Leading, out.NL = tok.Leading, tok.NL
	return out
}
