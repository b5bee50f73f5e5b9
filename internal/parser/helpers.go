package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/lexer"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	return p.consume(p.lx.Next())
}

// consume records a token that was already taken from the lexer, either by
// advance or by one of the re-scanning calls.
func (p *Parser) consume(tok token.Token) token.Token {
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
		p.lastTok = tok
		if p.opts.CaptureTokens {
			p.tree.Tokens = append(p.tree.Tokens, tok)
		}
	}
	return tok
}

// eat consumes the next token when it has kind k.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// eatWord consumes the contextual keyword w.
func (p *Parser) eatWord(w string) bool {
	if p.atWord(w) {
		p.advance()
		return true
	}
	return false
}

// diagSpan - лучший span для диагностики: на EOF указываем сразу за последним токеном
func (p *Parser) diagSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	if p.at(token.EOF) {
		code = diag.SynUnexpectedEOF
	}
	sp := p.diagSpan()
	p.report(code, diag.SevError, sp, msg+", got "+describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// expectGt consumes a lone '>' that closes a type argument or parameter list.
func (p *Parser) expectGt() (token.Token, bool) {
	return p.expect(token.Gt, diag.SynUnexpectedToken, "expected '>'")
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident:
		return "identifier '" + tok.Text + "'"
	case token.StringLit, token.NumberLit, token.BigIntLit:
		return "literal " + tok.Text
	}
	return "'" + tok.Text + "'"
}

// err репортует ошибку на текущем токене
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) errAt(sp source.Span, code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	p.rep.Report(code, sev, sp, msg, nil)
	if sev == diag.SevError && p.spec == 0 && p.opts.MaxErrors > 0 && p.rep.errors >= p.opts.MaxErrors {
		panic(bailout{})
	}
	return true
}

// unexpected reports the next token as unexpected and returns a failure.
func (p *Parser) unexpected(what string) (ast.NodeID, bool) {
	if p.at(token.EOF) {
		p.err(diag.SynUnexpectedEOF, "unexpected end of input, expected "+what)
	} else {
		p.err(diag.SynUnexpectedToken, "unexpected "+describe(p.peek())+", expected "+what)
	}
	return ast.NoNodeID, false
}

// semicolon applies automatic semicolon insertion.
func (p *Parser) semicolon() bool {
	if p.eat(token.Semicolon) {
		return true
	}
	tok := p.peek()
	if tok.Kind == token.RBrace || tok.Kind == token.EOF || tok.NL {
		return true
	}
	p.err(diag.SynExpectSemicolon, "expected ';', got "+describe(tok))
	return false
}

// canInsertSemicolon reports whether a statement may end before the next token.
func (p *Parser) canInsertSemicolon() bool {
	tok := p.peek()
	return tok.Kind == token.Semicolon || tok.Kind == token.RBrace || tok.Kind == token.EOF || tok.NL
}

// span covers from start to the last consumed token.
func (p *Parser) span(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}

// spanFrom covers from the start of node id to the last consumed token.
func (p *Parser) spanFrom(id ast.NodeID) source.Span {
	return p.tree.Span(id).Cover(p.lastSpan)
}

// addLeading records the comments in front of tok as leading comments of the
// statement starting at tok.
func (p *Parser) addLeading(tok token.Token) {
	if p.cm == nil || p.spec > 0 {
		return
	}
	p.cm.AddLeading(tok.Span.Start, tok.Leading)
}

// addDangling records the comments in front of a closing '}' or EOF.
func (p *Parser) addDangling(tok token.Token) {
	if p.cm == nil || p.spec > 0 {
		return
	}
	p.cm.AddDangling(tok.Span.Start, tok.Leading)
}

type snapshot struct {
	lx       lexer.State
	nodes    uint32
	tokens   int
	lastTok  token.Token
	lastSpan source.Span
	errors   uint
}

func (p *Parser) save() snapshot {
	return snapshot{
		lx:       p.lx.Snapshot(),
		nodes:    p.tree.Nodes.Len(),
		tokens:   len(p.tree.Tokens),
		lastTok:  p.lastTok,
		lastSpan: p.lastSpan,
		errors:   p.rep.errors,
	}
}

func (p *Parser) restore(s snapshot) {
	p.lx.Restore(s.lx)
	p.tree.Nodes.Truncate(s.nodes)
	p.tree.Tokens = p.tree.Tokens[:s.tokens]
	p.lastTok = s.lastTok
	p.lastSpan = s.lastSpan
	p.rep.errors = s.errors
}

// speculate runs fn with diagnostics buffered. If fn fails or reports an
// error, every effect is undone: lexer position, allocated nodes, captured
// tokens and diagnostics.
func (p *Parser) speculate(fn func() bool) bool {
	st := p.save()
	pending := len(p.pendingTS)
	buf := &diag.BufferReporter{}
	next := p.rep.next
	p.rep.next = buf
	p.spec++
	ok := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				if _, isBail := r.(bailout); !isBail {
					panic(r)
				}
				ok = false
			}
		}()
		return fn()
	}()
	p.spec--
	p.rep.next = next
	if ok && buf.Len() == 0 {
		if p.spec == 0 {
			for _, sp := range p.pendingTS {
				p.errAt(sp, diag.SynTypeSyntaxInJS, "type syntax is only allowed in TypeScript files")
			}
			p.pendingTS = p.pendingTS[:0]
		}
		return true
	}
	p.pendingTS = p.pendingTS[:pending]
	p.restore(st)
	return false
}

// lookahead runs fn speculatively and always rewinds.
func (p *Parser) lookahead(fn func() bool) bool {
	st := p.save()
	pending := len(p.pendingTS)
	buf := &diag.BufferReporter{}
	next := p.rep.next
	p.rep.next = buf
	p.spec++
	ok := fn()
	p.spec--
	p.rep.next = next
	ok = ok && buf.Len() == 0
	p.pendingTS = p.pendingTS[:pending]
	p.restore(st)
	return ok
}

// peek2 returns the token after the next one.
func (p *Parser) peek2() token.Token {
	var tok token.Token
	p.lookahead(func() bool {
		p.advance()
		tok = p.peek()
		return true
	})
	return tok
}

// resync skips tokens until a likely statement boundary.
func (p *Parser) resync() {
	depth := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF:
			return
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		default:
			if depth == 0 && tok.NL && isStatementStart(tok) {
				return
			}
		}
		p.advance()
	}
}

func isStatementStart(tok token.Token) bool {
	switch tok.Kind {
	case token.KwVar, token.KwConst, token.KwFunction, token.KwClass, token.KwIf,
		token.KwFor, token.KwWhile, token.KwDo, token.KwReturn, token.KwTry,
		token.KwSwitch, token.KwThrow, token.KwImport, token.KwExport, token.KwBreak,
		token.KwContinue, token.KwEnum:
		return true
	case token.Ident:
		switch tok.Text {
		case "let", "interface", "type", "declare", "namespace", "abstract":
			return true
		}
	}
	return false
}
