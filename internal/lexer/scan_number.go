package lexer

import (
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// Поддержка: 123, 1_000, 0b..., 0o..., 0x..., 1.5, .5, 1e-3, 10n, legacy 017.
// Неверные формы - репорт в opts.Reporter, токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.NumberLit

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) | 0x20 {
		case 'b':
			lx.cursor.Off += 2
			lx.scanDigits(func(b byte) bool { return b == '0' || b == '1' })
			return lx.finishRadix(start)
		case 'o':
			lx.cursor.Off += 2
			lx.scanDigits(func(b byte) bool { return b >= '0' && b <= '7' })
			return lx.finishRadix(start)
		case 'x':
			lx.cursor.Off += 2
			lx.scanDigits(isHex)
			return lx.finishRadix(start)
		}
		if isDec(lx.cursor.PeekAt(1)) {
			// legacy octal (017) или decimal с ведущим нулём (08)
			lx.cursor.Bump()
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			tok := lx.make(kind, start)
			if lx.opts.StrictOctal {
				lx.errLex(diag.LexLegacyOctal, tok.Span, "legacy octal literals are not allowed in strict mode")
			}
			return lx.checkNumberTail(tok)
		}
	}

	lx.scanDigits(isDec)
	isInt := true
	if lx.cursor.Peek() == '.' {
		isInt = false
		lx.cursor.Bump()
		lx.scanDigits(isDec)
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		isInt = false
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			tok := lx.make(token.NumberLit, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected exponent digits")
			return tok
		}
		lx.scanDigits(isDec)
	}
	return lx.finishNumber(start, isInt)
}

// scanDigits съедает цифры с разделителями '_'.
func (lx *Lexer) scanDigits(ok func(byte) bool) {
	for {
		b := lx.cursor.Peek()
		if ok(b) {
			lx.cursor.Bump()
			continue
		}
		if b == '_' && ok(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			continue
		}
		return
	}
}

func (lx *Lexer) finishNumber(start Mark, isInt bool) token.Token {
	kind := token.NumberLit
	if isInt && lx.cursor.Peek() == 'n' {
		lx.cursor.Bump()
		kind = token.BigIntLit
	}
	return lx.checkNumberTail(lx.make(kind, start))
}

func (lx *Lexer) finishRadix(start Mark) token.Token {
	if uint32(lx.cursor.Mark())-uint32(start) == 2 {
		lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected digits after radix prefix")
	}
	return lx.finishNumber(start, true)
}

// Идентификатор сразу после числа (3in, 1px) - ошибка.
func (lx *Lexer) checkNumberTail(tok token.Token) token.Token {
	r, sz := lx.peekRune()
	if sz > 0 && (IsIdentStart(r) || isDec(lx.cursor.Peek())) {
		start := lx.cursor.Mark()
		for {
			r, sz := lx.peekRune()
			if sz == 0 || !IsIdentContinue(r) {
				break
			}
			lx.bumpRune()
		}
		lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "identifier directly after number")
		tok.Span.End = lx.cursor.SpanFrom(start).End
	}
	return tok
}
