package lexer

import (
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// Жадность: сначала длинные последовательности, затем короткие.
// '>' всегда одиночный - см. ReScanGreater.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token { return lx.make(k, start) }

	switch {
	case lx.try("..."):
		return emit(token.DotDotDot)
	case lx.try("==="):
		return emit(token.EqEqEq)
	case lx.try("!=="):
		return emit(token.BangEqEq)
	case lx.try("**="):
		return emit(token.StarStarAssign)
	case lx.try("<<="):
		return emit(token.ShlAssign)
	case lx.try("&&="):
		return emit(token.AndAndAssign)
	case lx.try("||="):
		return emit(token.OrOrAssign)
	case lx.try("??="):
		return emit(token.QuestionQuestionAssign)
	case lx.try("=>"):
		return emit(token.Arrow)
	case lx.try("=="):
		return emit(token.EqEq)
	case lx.try("!="):
		return emit(token.BangEq)
	case lx.try("<="):
		return emit(token.LtEq)
	case lx.try("<<"):
		return emit(token.Shl)
	case lx.try("**"):
		return emit(token.StarStar)
	case lx.try("++"):
		return emit(token.PlusPlus)
	case lx.try("--"):
		return emit(token.MinusMinus)
	case lx.try("&&"):
		return emit(token.AndAnd)
	case lx.try("||"):
		return emit(token.OrOr)
	case lx.try("??"):
		return emit(token.QuestionQuestion)
	case lx.try("+="):
		return emit(token.PlusAssign)
	case lx.try("-="):
		return emit(token.MinusAssign)
	case lx.try("*="):
		return emit(token.StarAssign)
	case lx.try("/="):
		return emit(token.SlashAssign)
	case lx.try("%="):
		return emit(token.PercentAssign)
	case lx.try("&="):
		return emit(token.AmpAssign)
	case lx.try("|="):
		return emit(token.PipeAssign)
	case lx.try("^="):
		return emit(token.CaretAssign)
	}
	// ?. не перед цифрой: a?.5:b - это тернарный оператор
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '?' && b1 == '.' && !isDec(lx.cursor.PeekAt(2)) {
		lx.cursor.Off += 2
		return emit(token.QuestionDot)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	case '.':
		return emit(token.Dot)
	case ';':
		return emit(token.Semicolon)
	case ',':
		return emit(token.Comma)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '&':
		return emit(token.Amp)
	case '|':
		return emit(token.Pipe)
	case '^':
		return emit(token.Caret)
	case '!':
		return emit(token.Bang)
	case '~':
		return emit(token.Tilde)
	case '?':
		return emit(token.Question)
	case ':':
		return emit(token.Colon)
	case '@':
		return emit(token.At)
	case '=':
		return emit(token.Assign)
	}
	tok := emit(token.Invalid)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character "+tok.Text)
	return tok
}

// ReScanGreater combines a '>' token with the characters after it into
// '>=', '>>', '>>=', '>>>' or '>>>='.
func (lx *Lexer) ReScanGreater(tok token.Token) token.Token {
	if tok.Kind != token.Gt {
		return tok
	}
	lx.resetTo(tok)
	start := lx.cursor.Mark()
	var k token.Kind
	switch {
	case lx.try(">>>="):
		k = token.UShrAssign
	case lx.try(">>>"):
		k = token.UShr
	case lx.try(">>="):
		k = token.ShrAssign
	case lx.try(">>"):
		k = token.Shr
	case lx.try(">="):
		k = token.GtEq
	default:
		lx.cursor.Bump()
		k = token.Gt
	}
	out := lx.make(k, start)
	out.Leading, out.NL = tok.Leading, tok.NL
	return out
}

// ReScanLessThan splits a '<<' or '<=' token so that '<' opens a type
// argument list, as in f<<T>(x: T) => T>(g).
func (lx *Lexer) ReScanLessThan(tok token.Token) token.Token {
	if tok.Kind != token.Shl && tok.Kind != token.LtEq && tok.Kind != token.ShlAssign {
		return tok
	}
	lx.resetTo(tok)
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	out := lx.make(token.Lt, start)
	out.Leading, out.NL = tok.Leading, tok.NL
	return out
}
