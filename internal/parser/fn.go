package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

type methodCtx uint8

const (
	methodObject methodCtx = iota
	methodClass
	methodAmbientClass
)

// parseFunctionDecl parses a function declaration starting at 'async' or
// 'function'. A declaration without a body is an overload signature.
func (p *Parser) parseFunctionDecl(start token.Token, flags ast.Flags) (ast.NodeID, bool) {
	if p.atWord("async") {
		p.advance()
		flags |= ast.FlagAsync
	}
	if _, ok := p.expect(token.KwFunction, diag.SynUnexpectedToken, "expected 'function'"); !ok {
		return ast.NoNodeID, false
	}
	if p.eat(token.Star) {
		flags |= ast.FlagGenerator
	}
	name := ast.NoNodeID
	if p.at(token.Ident) || !flags.Has(ast.FlagDefault) {
		var ok bool
		if name, ok = p.parseBindingIdent(); !ok {
			return ast.NoNodeID, false
		}
		n := p.tree.Get(name)
		p.declare(n.Text, declVar, n.Span)
	}
	return p.parseFunctionRest(ast.KindFuncDecl, start, name, flags, true)
}

// parseFunctionExpr parses [async] function [*] [name] (...) {...}.
func (p *Parser) parseFunctionExpr() (ast.NodeID, bool) {
	start := p.peek()
	var flags ast.Flags
	if p.atWord("async") {
		p.advance()
		flags |= ast.FlagAsync
	}
	p.advance() // function
	if p.eat(token.Star) {
		flags |= ast.FlagGenerator
	}
	name := ast.NoNodeID
	if p.at(token.Ident) {
		tok := p.advance()
		name = p.tree.Ident(tok.Text, tok.Span)
	}
	return p.parseFunctionRest(ast.KindFuncExpr, start, name, flags, false)
}

// enterFunction switches to the context of a new function body and returns
// the function restoring the previous one.
func (p *Parser) enterFunction(flags ast.Flags) func() {
	prevFn, prevLabels, prevNoIn := p.fn, p.labels, p.noIn
	p.fn = fnContext{
		async:     flags.Has(ast.FlagAsync),
		generator: flags.Has(ast.FlagGenerator),
		inFunc:    true,
		inClass:   prevFn.inClass,
	}
	p.labels = nil
	p.noIn = false
	p.pushScope()
	return func() {
		p.popScope()
		p.fn, p.labels, p.noIn = prevFn, prevLabels, prevNoIn
	}
}

// parseFunctionRest parses type parameters, parameters, return type and body.
func (p *Parser) parseFunctionRest(kind ast.Kind, start token.Token, name ast.NodeID, flags ast.Flags, allowNoBody bool) (ast.NodeID, bool) {
	tparams, ok := p.parseTypeParamsOpt()
	if !ok {
		return ast.NoNodeID, false
	}
	leave := p.enterFunction(flags)
	defer leave()

	params, ok := p.parseParams(false)
	if !ok {
		return ast.NoNodeID, false
	}
	ret, ok := p.parseReturnTypeOpt()
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.at(token.LBrace) {
		if !allowNoBody {
			return p.unexpected("'{'")
		}
		if p.ambient == 0 {
			p.requireTS(p.peek())
		}
		if !p.semicolon() {
			return ast.NoNodeID, false
		}
		id := p.tree.New(ast.KindOverload, p.span(start.Span), name, params)
		n := p.tree.Get(id)
		n.Flags |= flags
		n.Type, n.TArgs = ret, tparams
		return id, true
	}
	body, ok := p.parseFunctionBody()
	if !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.New(kind, p.span(start.Span), name, params, body)
	n := p.tree.Get(id)
	n.Flags |= flags
	n.Type, n.TArgs = ret, tparams
	return id, true
}

// parseFunctionBody parses a function body block inside an entered function
// context.
func (p *Parser) parseFunctionBody() (ast.NodeID, bool) {
	if p.ambient > 0 {
		p.errAt(p.peek().Span, diag.SynAmbientBody, "an implementation cannot be declared in an ambient context")
	}
	prevAmbient := p.ambient
	p.ambient = 0
	defer func() { p.ambient = prevAmbient }()
	body, ok := p.parseBlock(false)
	if !ok {
		return ast.NoNodeID, false
	}
	if p.parseDirectives(p.tree.Get(body).Kids) {
		p.tree.Get(body).Flags |= ast.FlagStrict
	}
	return body, true
}

// parseParams parses a parameter list. ctor enables parameter properties.
func (p *Parser) parseParams(ctor bool) (ast.NodeID, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	if !ok {
		return ast.NoNodeID, false
	}
	var kids []ast.NodeID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		param, ok := p.parseParam(ctor, len(kids) == 0)
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, param)
		if p.tree.Get(param).Flags.Has(ast.FlagRest) && !p.at(token.RParen) {
			p.err(diag.SynRestNotLast, "rest parameter must be last")
			return ast.NoNodeID, false
		}
		if !p.at(token.RParen) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or ')'"); !ok {
				return ast.NoNodeID, false
			}
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindParams, p.span(open.Span), kids...), true
}

var paramModifiers = map[string]ast.Flags{
	"public":    ast.FlagPublic,
	"private":   ast.FlagPrivate,
	"protected": ast.FlagProtected,
	"readonly":  ast.FlagReadonly,
	"override":  ast.FlagOverride,
}

func (p *Parser) parseParam(ctor, first bool) (ast.NodeID, bool) {
	start := p.peek()
	var decos []ast.NodeID
	if start.Kind == token.At {
		var ok bool
		if decos, ok = p.parseDecorators(); !ok {
			return ast.NoNodeID, false
		}
	}
	var flags ast.Flags
	for {
		tok := p.peek()
		f, isMod := paramModifiers[tok.Text]
		if tok.Kind != token.Ident || !isMod || tok.Escaped {
			break
		}
		next := p.peek2()
		if next.NL || !(next.Kind == token.Ident || next.Kind == token.LBracket || next.Kind == token.LBrace) {
			break
		}
		p.advance()
		p.requireTS(tok)
		if !ctor {
			p.errAt(tok.Span, diag.SynModifierNotAllowed, "parameter properties are only allowed in a constructor")
		}
		flags |= f
	}

	if first && p.at(token.KwThis) {
		tok := p.advance()
		p.requireTS(tok)
		binding := p.tree.New(ast.KindThis, tok.Span)
		ty := ast.NoNodeID
		if p.at(token.Colon) {
			var ok bool
			if ty, ok = p.parseTypeAnnotation(); !ok {
				return ast.NoNodeID, false
			}
		}
		id := p.tree.New(ast.KindParam, p.span(start.Span), binding, ast.NoNodeID)
		n := p.tree.Get(id)
		n.Flags |= ast.FlagThisParam
		n.Type = ty
		return id, true
	}

	if p.eat(token.DotDotDot) {
		flags |= ast.FlagRest
	}
	binding, ok := p.parseBindingTarget()
	if !ok {
		return ast.NoNodeID, false
	}
	p.bindingNames(binding, func(name string, n *ast.Node) {
		p.declare(name, declVar, n.Span)
	})
	if tok := p.peek(); tok.Kind == token.Question {
		p.advance()
		p.requireTS(tok)
		flags |= ast.FlagOptional
	}
	ty := ast.NoNodeID
	if p.at(token.Colon) {
		if ty, ok = p.parseTypeAnnotation(); !ok {
			return ast.NoNodeID, false
		}
	}
	def := ast.NoNodeID
	if p.eat(token.Assign) {
		if def, ok = p.parseAssign(); !ok {
			return ast.NoNodeID, false
		}
	}
	id := p.tree.New(ast.KindParam, p.span(start.Span), binding, def)
	n := p.tree.Get(id)
	n.Flags |= flags
	n.Type = ty
	n.Decos = decos
	return id, true
}

// parseMethod parses the part of a method after its key.
func (p *Parser) parseMethod(start token.Token, key ast.NodeID, kind string, flags ast.Flags, ctx methodCtx) (ast.NodeID, bool) {
	if tok := p.peek(); tok.Kind == token.Question {
		p.advance()
		p.requireTS(tok)
		flags |= ast.FlagOptional
	}
	tparams, ok := p.parseTypeParamsOpt()
	if !ok {
		return ast.NoNodeID, false
	}
	leave := p.enterFunction(flags)
	defer leave()
	params, ok := p.parseParams(kind == "constructor")
	if !ok {
		return ast.NoNodeID, false
	}
	ret, ok := p.parseReturnTypeOpt()
	if !ok {
		return ast.NoNodeID, false
	}
	body := ast.NoNodeID
	resultKind := ast.KindMethod
	switch {
	case p.at(token.LBrace) && !flags.Has(ast.FlagAbstract) && ctx != methodAmbientClass:
		if body, ok = p.parseFunctionBody(); !ok {
			return ast.NoNodeID, false
		}
	case ctx == methodObject:
		return p.unexpected("'{'")
	default:
		if p.at(token.LBrace) {
			p.err(diag.SynAmbientBody, "an abstract or ambient method cannot have an implementation")
			return ast.NoNodeID, false
		}
		if ctx != methodAmbientClass {
			p.requireTS(p.peek())
		}
		if !p.semicolon() {
			return ast.NoNodeID, false
		}
		resultKind = ast.KindOverload
	}
	id := p.tree.New(resultKind, p.span(start.Span), key, params, body)
	n := p.tree.Get(id)
	n.Text = kind
	n.Flags |= flags
	n.Type, n.TArgs = ret, tparams
	return id, true
}

// tryArrow recognizes an arrow function at the current position. handled is
// false when the tokens do not start an arrow function.
func (p *Parser) tryArrow() (id ast.NodeID, ok, handled bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		next := p.peek2()
		if next.Kind == token.Arrow && !next.NL {
			p.advance()
			binding := p.tree.Ident(tok.Text, tok.Span)
			param := p.tree.New(ast.KindParam, tok.Span, binding, ast.NoNodeID)
			params := p.tree.New(ast.KindParams, tok.Span, param)
			id, ok = p.parseArrowRest(tok.Span, params, ast.NoNodeID, ast.NoNodeID, 0)
			return id, ok, true
		}
		if !tok.Is("async") || next.NL {
			return ast.NoNodeID, false, false
		}
		switch next.Kind {
		case token.Ident:
			isArrow := p.lookahead(func() bool {
				p.advance()
				p.advance()
				t := p.peek()
				return t.Kind == token.Arrow && !t.NL
			})
			if !isArrow {
				return ast.NoNodeID, false, false
			}
			p.advance()
			name := p.advance()
			binding := p.tree.Ident(name.Text, name.Span)
			param := p.tree.New(ast.KindParam, name.Span, binding, ast.NoNodeID)
			params := p.tree.New(ast.KindParams, name.Span, param)
			id, ok = p.parseArrowRest(tok.Span, params, ast.NoNodeID, ast.NoNodeID, ast.FlagAsync)
			return id, ok, true
		case token.LParen, token.Lt:
			return p.speculateArrow(tok.Span, ast.FlagAsync)
		}
	case token.LParen:
		return p.speculateArrow(tok.Span, 0)
	case token.Lt:
		if !p.syn.TypeScript() {
			return ast.NoNodeID, false, false
		}
		if p.syn.JSX() && !p.looksLikeGenericArrow() {
			return ast.NoNodeID, false, false
		}
		return p.speculateArrow(tok.Span, 0)
	}
	return ast.NoNodeID, false, false
}

// looksLikeGenericArrow reports whether '<' starts <T,> or <T extends ...>,
// the only generic arrow forms that are not JSX in a TSX file.
func (p *Parser) looksLikeGenericArrow() bool {
	return p.lookahead(func() bool {
		p.advance()
		if p.peek().Kind != token.Ident {
			return false
		}
		p.advance()
		t := p.peek()
		return t.Kind == token.Comma || t.Is("extends")
	})
}

func (p *Parser) speculateArrow(start source.Span, flags ast.Flags) (ast.NodeID, bool, bool) {
	var params, tparams, ret ast.NodeID
	matched := p.speculate(func() bool {
		if flags.Has(ast.FlagAsync) {
			p.advance()
		}
		var ok bool
		if tparams, ok = p.parseTypeParamsOpt(); !ok {
			return false
		}
		prev := p.fn
		p.fn.async = flags.Has(ast.FlagAsync)
		params, ok = p.parseParams(false)
		p.fn = prev
		if !ok {
			return false
		}
		if p.at(token.Colon) {
			if !p.syn.TypeScript() {
				return false
			}
			if ret, ok = p.parseReturnTypeOpt(); !ok {
				return false
			}
		}
		t := p.peek()
		return t.Kind == token.Arrow && !t.NL
	})
	if !matched {
		return ast.NoNodeID, false, false
	}
	id, ok := p.parseArrowRest(start, params, tparams, ret, flags)
	return id, ok, true
}

// parseArrowRest parses '=>' and the arrow body.
func (p *Parser) parseArrowRest(start source.Span, params, tparams, ret ast.NodeID, flags ast.Flags) (ast.NodeID, bool) {
	if _, ok := p.expect(token.Arrow, diag.SynUnexpectedToken, "expected '=>'"); !ok {
		return ast.NoNodeID, false
	}
	noIn := p.noIn
	leave := p.enterFunction(flags)
	var body ast.NodeID
	var ok bool
	if p.at(token.LBrace) {
		body, ok = p.parseFunctionBody()
	} else {
		p.noIn = noIn
		body, ok = p.parseAssign()
		flags |= ast.FlagExprBody
	}
	leave()
	if !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindArrow, p.span(start), params, body)
	n := p.tree.Get(id)
	n.Flags |= flags
	n.Type, n.TArgs = ret, tparams
	return id, true
}
