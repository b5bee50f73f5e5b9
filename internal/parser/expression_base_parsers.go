package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parsePrimary parses a PrimaryExpression.
func (p *Parser) parsePrimary() (ast.NodeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		if tok.Is("async") && !tok.Escaped {
			if next := p.peek2(); next.Kind == token.KwFunction && !next.NL {
				return p.parseFunctionExpr()
			}
		}
		p.advance()
		return p.tree.Ident(tok.Text, tok.Span), true
	case token.KwThis:
		p.advance()
		return p.tree.New(ast.KindThis, tok.Span), true
	case token.KwSuper:
		p.advance()
		if !p.atOr(token.LParen, token.Dot, token.LBracket) {
			p.err(diag.SynUnexpectedToken, "'super' must be followed by an argument list or member access")
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.KindSuper, tok.Span), true
	case token.NumberLit, token.BigIntLit:
		p.advance()
		return p.tree.Add(ast.Node{Kind: ast.KindLiteral, Op: tok.Kind, Span: tok.Span, Text: tok.Text}), true
	case token.StringLit:
		p.advance()
		return p.tree.String(tok.Text, tok.Span), true
	case token.KwTrue, token.KwFalse, token.KwNull:
		p.advance()
		return p.tree.Keyword(tok.Kind, tok.Span), true
	case token.Slash, token.SlashAssign:
		re := p.lx.ReScanSlash(tok)
		p.consume(re)
		if re.Kind != token.RegExpLit {
			return ast.NoNodeID, false
		}
		return p.tree.Add(ast.Node{Kind: ast.KindLiteral, Op: token.RegExpLit, Span: re.Span, Text: re.Text}), true
	case token.NoSubstTemplate, token.TemplateHead:
		return p.parseTemplate()
	case token.LParen:
		return p.parseParen()
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LBrace:
		return p.parseObjectLiteral()
	case token.KwFunction:
		return p.parseFunctionExpr()
	case token.KwClass:
		return p.parseClassExpr(tok, nil)
	case token.At:
		decos, ok := p.parseDecorators()
		if !ok {
			return ast.NoNodeID, false
		}
		if !p.at(token.KwClass) {
			return p.unexpected("class expression after decorators")
		}
		return p.parseClassExpr(tok, decos)
	case token.KwImport:
		return p.parseImportExpr()
	case token.PrivateName:
		p.advance()
		if !p.at(token.KwIn) {
			p.errAt(tok.Span, diag.SynUnexpectedToken, "private name is only allowed before 'in'")
			return ast.NoNodeID, false
		}
		return p.tree.NewText(ast.KindPrivateName, tok.Span, tok.Text), true
	case token.Lt:
		if p.syn.JSX() {
			return p.parseJSXElementOrFragment()
		}
		if next := p.peek2(); next.Kind == token.Ident || next.Kind == token.Gt {
			p.err(diag.SynJSXNotEnabled, "JSX syntax requires the jsx or tsx dialect")
			return ast.NoNodeID, false
		}
	case token.Invalid:
		// лексер уже сообщил об ошибке
		p.advance()
		return ast.NoNodeID, false
	}
	return p.unexpected("expression")
}

// parseImportExpr parses import(...) and import.meta.
func (p *Parser) parseImportExpr() (ast.NodeID, bool) {
	start := p.advance()
	if p.eat(token.Dot) {
		if !p.atWord("meta") {
			return p.unexpected("'meta'")
		}
		p.advance()
		return p.tree.NewText(ast.KindMetaProp, p.span(start.Span), "import.meta"), true
	}
	args, ok := p.parseArguments()
	if !ok {
		return ast.NoNodeID, false
	}
	if len(args) == 0 || len(args) > 2 {
		p.errAt(p.span(start.Span), diag.SynUnexpectedToken, "import() takes a specifier and optional options")
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindImportCall, p.span(start.Span), args...), true
}

// parseTemplate parses a template literal starting at the next token.
func (p *Parser) parseTemplate() (ast.NodeID, bool) {
	head := p.advance()
	if head.Kind == token.NoSubstTemplate {
		q := p.tree.NewText(ast.KindTemplateElem, head.Span, templateRaw(head))
		return p.tree.New(ast.KindTemplate, head.Span, q), true
	}
	kids := []ast.NodeID{p.tree.NewText(ast.KindTemplateElem, head.Span, templateRaw(head))}
	for {
		expr, ok := p.withIn(p.parseExpression)
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, expr)
		tok := p.peek()
		if tok.Kind != token.RBrace {
			p.err(diag.SynUnexpectedToken, "expected '}' to close template substitution")
			return ast.NoNodeID, false
		}
		cont := p.lx.ReScanTemplateContinuation(tok)
		p.consume(cont)
		if cont.Kind != token.TemplateMiddle && cont.Kind != token.TemplateTail {
			return ast.NoNodeID, false
		}
		kids = append(kids, p.tree.NewText(ast.KindTemplateElem, cont.Span, templateRaw(cont)))
		if cont.Kind == token.TemplateTail {
			break
		}
	}
	return p.tree.New(ast.KindTemplate, p.span(head.Span), kids...), true
}

// templateRaw strips the delimiters (` ${ }) from a template token.
func templateRaw(tok token.Token) string {
	s := tok.Text
	switch tok.Kind {
	case token.NoSubstTemplate, token.TemplateTail:
		return s[1 : len(s)-1]
	case token.TemplateHead, token.TemplateMiddle:
		return s[1 : len(s)-2]
	}
	return s
}

// parseParen parses a parenthesised expression. Arrow functions were ruled
// out by tryArrow.
func (p *Parser) parseParen() (ast.NodeID, bool) {
	open := p.advance()
	expr, ok := p.withIn(p.parseExpression)
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindParen, p.span(open.Span), expr)
	return id, true
}

func (p *Parser) parseArrayLiteral() (ast.NodeID, bool) {
	open := p.advance()
	prev := p.noIn
	p.noIn = false
	defer func() { p.noIn = prev }()
	var kids []ast.NodeID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		tok := p.peek()
		if tok.Kind == token.Comma {
			p.advance()
			kids = append(kids, p.tree.New(ast.KindHole, tok.Span))
			continue
		}
		var el ast.NodeID
		var ok bool
		if tok.Kind == token.DotDotDot {
			p.advance()
			if el, ok = p.parseAssign(); ok {
				el = p.tree.New(ast.KindSpread, p.span(tok.Span), el)
			}
		} else {
			el, ok = p.parseAssign()
		}
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, el)
		if !p.at(token.RBracket) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or ']'"); !ok {
				return ast.NoNodeID, false
			}
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindArray, p.span(open.Span), kids...), true
}

// parsePropertyKey parses an object or class member key.
func (p *Parser) parsePropertyKey() (ast.NodeID, ast.Flags, bool) {
	tok := p.peek()
	switch {
	case tok.Kind.IsIdentName():
		p.advance()
		return p.tree.Ident(tok.Text, tok.Span), 0, true
	case tok.Kind == token.StringLit:
		p.advance()
		return p.tree.String(tok.Text, tok.Span), 0, true
	case tok.Kind == token.NumberLit || tok.Kind == token.BigIntLit:
		p.advance()
		return p.tree.Add(ast.Node{Kind: ast.KindLiteral, Op: tok.Kind, Span: tok.Span, Text: tok.Text}), 0, true
	case tok.Kind == token.PrivateName:
		p.advance()
		return p.tree.NewText(ast.KindPrivateName, tok.Span, tok.Text), 0, true
	case tok.Kind == token.LBracket:
		p.advance()
		key, ok := p.withIn(p.parseAssign)
		if !ok {
			return ast.NoNodeID, 0, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
			return ast.NoNodeID, 0, false
		}
		return key, ast.FlagComputed, true
	}
	id, ok := p.unexpected("property name")
	return id, 0, ok
}

func (p *Parser) parseObjectLiteral() (ast.NodeID, bool) {
	open := p.advance()
	prev := p.noIn
	p.noIn = false
	defer func() { p.noIn = prev }()
	var kids []ast.NodeID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		prop, ok := p.parseObjectMember()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, prop)
		if !p.at(token.RBrace) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or '}'"); !ok {
				return ast.NoNodeID, false
			}
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'"); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindObject, p.span(open.Span), kids...), true
}

func (p *Parser) parseObjectMember() (ast.NodeID, bool) {
	start := p.peek()
	if start.Kind == token.DotDotDot {
		p.advance()
		arg, ok := p.parseAssign()
		if !ok {
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.KindSpread, p.span(start.Span), arg), true
	}

	var mflags ast.Flags
	kind := "method"
	if start.Is("async") || start.Is("get") || start.Is("set") {
		next := p.peek2()
		if !next.NL && isPropertyKeyStart(next) {
			p.advance()
			switch start.Text {
			case "async":
				mflags |= ast.FlagAsync
			default:
				kind = start.Text
			}
		}
	}
	if p.at(token.Star) {
		p.advance()
		mflags |= ast.FlagGenerator
	}

	key, kflags, ok := p.parsePropertyKey()
	if !ok {
		return ast.NoNodeID, false
	}
	if mflags != 0 || kind != "method" || p.atOr(token.LParen, token.Lt) {
		return p.parseMethod(start, key, kind, mflags|kflags, methodObject)
	}

	if p.eat(token.Colon) {
		value, ok := p.parseAssign()
		if !ok {
			return ast.NoNodeID, false
		}
		id := p.tree.New(ast.KindObjProp, p.span(start.Span), key, value)
		p.tree.Get(id).Flags |= kflags
		return id, true
	}

	kn := p.tree.Get(key)
	if kn.Kind != ast.KindIdent || kflags.Has(ast.FlagComputed) || start.Kind != token.Ident {
		return p.unexpected("':'")
	}
	value := p.tree.Ident(kn.Text, kn.Span)
	if p.at(token.Assign) {
		// {a = 1} допустимо только как паттерн деструктуризации
		p.advance()
		def, ok := p.parseAssign()
		if !ok {
			return ast.NoNodeID, false
		}
		value = p.tree.NewOp(ast.KindAssign, token.Assign, p.spanFrom(value), value, def)
	}
	id := p.tree.New(ast.KindObjProp, p.span(start.Span), key, value)
	p.tree.Get(id).Flags |= ast.FlagShorthand
	return id, true
}

// isPropertyKeyStart reports whether tok can begin a property key.
func isPropertyKeyStart(tok token.Token) bool {
	switch tok.Kind {
	case token.StringLit, token.NumberLit, token.BigIntLit, token.LBracket, token.PrivateName, token.Star:
		return true
	}
	return tok.Kind.IsIdentName()
}
