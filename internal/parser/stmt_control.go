package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseControl dispatches keyword-led control statements.
func (p *Parser) parseControl(tok token.Token) (ast.NodeID, bool) {
	switch tok.Kind {
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak, token.KwContinue:
		return p.parseJump()
	case token.KwThrow:
		return p.parseThrow()
	case token.KwTry:
		return p.parseTry()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwWith:
		return p.parseWith()
	case token.KwDebugger:
		p.advance()
		if !p.semicolon() {
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.KindDebugger, tok.Span), true
	}
	return p.unexpected("statement")
}

// parseParenExpr parses '(' expression ')'.
func (p *Parser) parseParenExpr() (ast.NodeID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return ast.NoNodeID, false
	}
	expr, ok := p.parseExpression()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return ast.NoNodeID, false
	}
	return expr, true
}

// parseSubStatement parses the body of if/loops. A nested declaration gets
// its own scope.
func (p *Parser) parseSubStatement() (ast.NodeID, bool) {
	p.pushScope()
	defer p.popScope()
	return p.parseStatement(false)
}

func (p *Parser) parseIf() (ast.NodeID, bool) {
	start := p.advance()
	test, ok := p.parseParenExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	cons, ok := p.parseSubStatement()
	if !ok {
		return ast.NoNodeID, false
	}
	alt := ast.NoNodeID
	if p.eat(token.KwElse) {
		alt, ok = p.parseSubStatement()
		if !ok {
			return ast.NoNodeID, false
		}
	}
	return p.tree.New(ast.KindIf, p.span(start.Span), test, cons, alt), true
}

func (p *Parser) parseLoopBody() (ast.NodeID, bool) {
	p.labels = append(p.labels, label{isLoop: true})
	defer func() { p.labels = p.labels[:len(p.labels)-1] }()
	return p.parseSubStatement()
}

func (p *Parser) parseWhile() (ast.NodeID, bool) {
	start := p.advance()
	test, ok := p.parseParenExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	body, ok := p.parseLoopBody()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindWhile, p.span(start.Span), test, body), true
}

func (p *Parser) parseDoWhile() (ast.NodeID, bool) {
	start := p.advance()
	body, ok := p.parseLoopBody()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while'"); !ok {
		return ast.NoNodeID, false
	}
	test, ok := p.parseParenExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	// после do-while точка с запятой всегда может быть вставлена
	p.eat(token.Semicolon)
	return p.tree.New(ast.KindDoWhile, p.span(start.Span), body, test), true
}

func (p *Parser) parseFor() (ast.NodeID, bool) {
	start := p.advance()
	var flags ast.Flags
	if p.atWord("await") {
		p.advance()
		flags |= ast.FlagAwait
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		return ast.NoNodeID, false
	}
	p.pushScope()
	defer p.popScope()

	init := ast.NoNodeID
	isDecl := false
	if !p.at(token.Semicolon) {
		tok := p.peek()
		kw := ""
		switch {
		case tok.Kind == token.KwVar:
			kw = "var"
		case tok.Kind == token.KwConst:
			kw = "const"
		case tok.Is("let"):
			if next := p.peek2(); next.Kind == token.Ident || next.Kind == token.LBracket || next.Kind == token.LBrace {
				kw = "let"
			}
		}
		prevNoIn := p.noIn
		p.noIn = true
		var ok bool
		if kw != "" {
			p.advance()
			init, ok = p.parseVarDeclList(tok, kw, 0, true)
			isDecl = true
		} else {
			init, ok = p.parseExpression()
		}
		p.noIn = prevNoIn
		if !ok {
			return ast.NoNodeID, false
		}
	}

	if p.atWord("of") || p.at(token.KwIn) {
		isOf := p.atWord("of")
		if !isDecl {
			var ok bool
			init, ok = p.toAssignTarget(init)
			if !ok {
				return ast.NoNodeID, false
			}
		} else if len(p.tree.Get(init).Kids) != 1 {
			p.errAt(p.tree.Span(init), diag.SynUnexpectedToken, "only a single declaration is allowed in a for-in/of head")
		}
		p.advance()
		var right ast.NodeID
		var ok bool
		if isOf {
			right, ok = p.parseAssign()
		} else {
			right, ok = p.parseExpression()
		}
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoNodeID, false
		}
		body, ok := p.parseLoopBody()
		if !ok {
			return ast.NoNodeID, false
		}
		kind := ast.KindForIn
		if isOf {
			kind = ast.KindForOf
		}
		id := p.tree.New(kind, p.span(start.Span), init, right, body)
		p.tree.Get(id).Flags |= flags
		return id, true
	}

	if flags.Has(ast.FlagAwait) {
		p.err(diag.SynUnexpectedToken, "'for await' requires an 'of' loop")
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for statement"); !ok {
		return ast.NoNodeID, false
	}
	test := ast.NoNodeID
	if !p.at(token.Semicolon) {
		var ok bool
		if test, ok = p.parseExpression(); !ok {
			return ast.NoNodeID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for statement"); !ok {
		return ast.NoNodeID, false
	}
	update := ast.NoNodeID
	if !p.at(token.RParen) {
		var ok bool
		if update, ok = p.parseExpression(); !ok {
			return ast.NoNodeID, false
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return ast.NoNodeID, false
	}
	body, ok := p.parseLoopBody()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindFor, p.span(start.Span), init, test, update, body), true
}

func (p *Parser) parseReturn() (ast.NodeID, bool) {
	start := p.advance()
	if !p.fn.inFunc {
		p.errAt(start.Span, diag.SynUnexpectedToken, "'return' outside of a function")
	}
	arg := ast.NoNodeID
	if !p.canInsertSemicolon() {
		var ok bool
		if arg, ok = p.parseExpression(); !ok {
			return ast.NoNodeID, false
		}
	}
	if !p.semicolon() {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindReturn, p.span(start.Span), arg), true
}

// parseJump parses break and continue.
func (p *Parser) parseJump() (ast.NodeID, bool) {
	start := p.advance()
	kind := ast.KindBreak
	if start.Kind == token.KwContinue {
		kind = ast.KindContinue
	}
	lbl := ast.NoNodeID
	if p.at(token.Ident) && !p.peek().NL {
		tok := p.advance()
		l, found := p.findLabel(tok.Text)
		switch {
		case !found:
			p.errAt(tok.Span, diag.SynInvalidLabel, "undefined label '"+tok.Text+"'")
		case kind == ast.KindContinue && !l.isLoop:
			p.errAt(tok.Span, diag.SynInvalidLabel, "label '"+tok.Text+"' does not denote a loop")
		}
		lbl = p.tree.Ident(tok.Text, tok.Span)
	}
	if !p.semicolon() {
		return ast.NoNodeID, false
	}
	return p.tree.New(kind, p.span(start.Span), lbl), true
}

func (p *Parser) parseThrow() (ast.NodeID, bool) {
	start := p.advance()
	if p.peek().NL {
		p.err(diag.SynExpectExpression, "line break is not allowed after 'throw'")
		return ast.NoNodeID, false
	}
	arg, ok := p.parseExpression()
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.semicolon() {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindThrow, p.span(start.Span), arg), true
}

func (p *Parser) parseTry() (ast.NodeID, bool) {
	start := p.advance()
	block, ok := p.parseBlock(true)
	if !ok {
		return ast.NoNodeID, false
	}
	handler, finalizer := ast.NoNodeID, ast.NoNodeID
	if p.at(token.KwCatch) {
		catchTok := p.advance()
		p.pushScope()
		param := ast.NoNodeID
		var ty ast.NodeID
		if p.eat(token.LParen) {
			if param, ok = p.parseBindingTarget(); !ok {
				p.popScope()
				return ast.NoNodeID, false
			}
			p.bindingNames(param, func(name string, n *ast.Node) {
				p.declare(name, declLexical, n.Span)
			})
			if p.at(token.Colon) {
				if ty, ok = p.parseTypeAnnotation(); !ok {
					p.popScope()
					return ast.NoNodeID, false
				}
			}
			if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
				p.popScope()
				return ast.NoNodeID, false
			}
		}
		body, ok := p.parseBlock(false)
		p.popScope()
		if !ok {
			return ast.NoNodeID, false
		}
		handler = p.tree.New(ast.KindCatch, p.span(catchTok.Span), param, body)
		p.tree.Get(handler).Type = ty
	}
	if p.eat(token.KwFinally) {
		if finalizer, ok = p.parseBlock(true); !ok {
			return ast.NoNodeID, false
		}
	}
	if !handler.IsValid() && !finalizer.IsValid() {
		p.err(diag.SynUnexpectedToken, "expected 'catch' or 'finally'")
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindTry, p.span(start.Span), block, handler, finalizer), true
}

func (p *Parser) parseSwitch() (ast.NodeID, bool) {
	start := p.advance()
	disc, ok := p.parseParenExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after switch"); !ok {
		return ast.NoNodeID, false
	}
	p.pushScope()
	defer p.popScope()
	p.labels = append(p.labels, label{})
	defer func() { p.labels = p.labels[:len(p.labels)-1] }()

	kids := []ast.NodeID{disc}
	seenDefault := false
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		caseTok := p.peek()
		p.addLeading(caseTok)
		test := ast.NoNodeID
		switch {
		case p.eat(token.KwCase):
			if test, ok = p.parseExpression(); !ok {
				return ast.NoNodeID, false
			}
		case p.eat(token.KwDefault):
			if seenDefault {
				p.errAt(caseTok.Span, diag.SynUnexpectedToken, "more than one default clause in switch")
			}
			seenDefault = true
		default:
			_, ok := p.unexpected("'case' or 'default'")
			return ast.NoNodeID, ok
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':'"); !ok {
			return ast.NoNodeID, false
		}
		body := []ast.NodeID{test}
		for !p.atOr(token.KwCase, token.KwDefault, token.RBrace, token.EOF) {
			before := p.peek().Span.Start
			st, ok := p.parseStatement(false)
			if !ok {
				p.resync()
				if p.peek().Span.Start == before && !p.at(token.EOF) {
					p.advance()
				}
				continue
			}
			body = append(body, st)
		}
		kids = append(kids, p.tree.New(ast.KindCase, p.span(caseTok.Span), body...))
	}
	p.addDangling(p.peek())
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close switch"); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindSwitch, p.span(start.Span), kids...), true
}

func (p *Parser) parseWith() (ast.NodeID, bool) {
	start := p.advance()
	if p.syn.StrictEarlyErrors {
		p.errAt(start.Span, diag.SynStrictWith, "'with' statements are not allowed in strict mode")
	}
	obj, ok := p.parseParenExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	body, ok := p.parseSubStatement()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindWith, p.span(start.Span), obj, body), true
}
