package lexer

import (
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - пробелы, табы, \v, \f, NBSP, BOM и прочие Zs коалесцируются в один TriviaSpace
//   - подряд идущие переводы строк (\n, \r, U+2028, U+2029) - один TriviaNewline
//   - //... до конца строки -> TriviaLineComment
//   - /* ... */ -> TriviaBlockComment (без вложенности; многострочный ставит nl)
//   - #! в самом начале файла -> TriviaHashbang
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	if lx.cursor.Off == 0 {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '#' && b1 == '!' {
			start := lx.cursor.Mark()
			for !lx.cursor.EOF() && !lx.atLineTerminator() {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaHashbang, start)
		}
	}
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()

		if lx.atSpace() {
			for lx.atSpace() {
				lx.bumpRune()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if lx.atLineTerminator() {
			for lx.atLineTerminator() {
				lx.bumpRune()
			}
			lx.nl = true
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if lx.cursor.Peek() == '/' {
			if lx.scanCommentIntoHold() {
				continue
			}
		}

		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.TextFrom(start),
	})
}

// //... , /*...*/
func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() && !lx.atLineTerminator() {
			lx.bumpRune()
		}
		lx.pushTrivia(token.TriviaLineComment, start)
		return true

	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		closed := false
		for !lx.cursor.EOF() {
			if c0, c1, ok := lx.cursor.Peek2(); ok && c0 == '*' && c1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				closed = true
				break
			}
			if lx.atLineTerminator() {
				lx.nl = true
			}
			lx.bumpRune()
		}
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true
	}
	return false
}
