package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseLHS parses new, call and member expressions.
func (p *Parser) parseLHS() (ast.NodeID, bool) {
	var base ast.NodeID
	var ok bool
	if p.at(token.KwNew) {
		base, ok = p.parseNew()
	} else {
		base, ok = p.parsePrimary()
	}
	if !ok {
		return ast.NoNodeID, false
	}
	return p.parseCallTail(base, true)
}

// parseCallTail parses member accesses, calls, tagged templates, non-null
// assertions and type arguments after base. With allowCall false it stops at
// the first '(' (the callee of new).
func (p *Parser) parseCallTail(base ast.NodeID, allowCall bool) (ast.NodeID, bool) {
	optional := false
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.Dot:
			p.advance()
			name, ok := p.parseMemberName()
			if !ok {
				return ast.NoNodeID, false
			}
			base = p.tree.New(ast.KindMember, p.spanFrom(base), base, name)
			continue

		case token.QuestionDot:
			if !allowCall {
				p.err(diag.SynUnexpectedToken, "optional chain is not allowed in a new expression")
				return ast.NoNodeID, false
			}
			p.advance()
			optional = true
			var ok bool
			switch p.peek().Kind {
			case token.LParen:
				base, ok = p.parseCall(base, ast.NoNodeID)
			case token.LBracket:
				base, ok = p.parseIndex(base)
			case token.Lt, token.Shl:
				targs, ok2 := p.parseTypeArgs()
				if !ok2 {
					return ast.NoNodeID, false
				}
				base, ok = p.parseCall(base, targs)
			default:
				var name ast.NodeID
				if name, ok = p.parseMemberName(); ok {
					base = p.tree.New(ast.KindMember, p.spanFrom(base), base, name)
				}
			}
			if !ok {
				return ast.NoNodeID, false
			}
			p.tree.Get(base).Flags |= ast.FlagOptional
			continue

		case token.LBracket:
			var ok bool
			if base, ok = p.parseIndex(base); !ok {
				return ast.NoNodeID, false
			}
			continue

		case token.LParen:
			if !allowCall {
				break
			}
			var ok bool
			if base, ok = p.parseCall(base, ast.NoNodeID); !ok {
				return ast.NoNodeID, false
			}
			continue

		case token.NoSubstTemplate, token.TemplateHead:
			if optional {
				p.err(diag.SynUnexpectedToken, "tagged template cannot be used in an optional chain")
				return ast.NoNodeID, false
			}
			var ok bool
			if base, ok = p.parseTagged(base, ast.NoNodeID); !ok {
				return ast.NoNodeID, false
			}
			continue

		case token.Bang:
			if tok.NL || !p.syn.TypeScript() {
				break
			}
			p.advance()
			base = p.tree.New(ast.KindNonNull, p.spanFrom(base), base)
			continue

		case token.Lt, token.Shl:
			if !p.syn.TypeScript() {
				break
			}
			var next ast.NodeID
			if p.speculate(func() bool {
				var ok bool
				next, ok = p.parseTypeArgsInExpr(base, allowCall)
				return ok
			}) {
				base = next
				continue
			}
		}
		break
	}
	if optional {
		base = p.tree.New(ast.KindOptChain, p.tree.Span(base), base)
	}
	return base, true
}

// parseTypeArgsInExpr tries f<T>(...), f<T>`...` and the instantiation
// expression f<T>. It fails when the '<' is a comparison.
func (p *Parser) parseTypeArgsInExpr(base ast.NodeID, allowCall bool) (ast.NodeID, bool) {
	targs, ok := p.parseTypeArgs()
	if !ok {
		return ast.NoNodeID, false
	}
	next := p.peek()
	switch next.Kind {
	case token.LParen:
		if !allowCall {
			id := p.tree.New(ast.KindInstantiation, p.spanFrom(base), base)
			p.tree.Get(id).TArgs = targs
			return id, true
		}
		return p.parseCall(base, targs)
	case token.NoSubstTemplate, token.TemplateHead:
		return p.parseTagged(base, targs)
	}
	if next.NL || !p.startsExpression() {
		id := p.tree.New(ast.KindInstantiation, p.spanFrom(base), base)
		p.tree.Get(id).TArgs = targs
		return id, true
	}
	return ast.NoNodeID, false
}

// parseMemberName parses the name after '.' or '?.'.
func (p *Parser) parseMemberName() (ast.NodeID, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.PrivateName:
		p.advance()
		return p.tree.NewText(ast.KindPrivateName, tok.Span, tok.Text), true
	case tok.Kind.IsIdentName():
		p.advance()
		return p.tree.Ident(tok.Text, tok.Span), true
	}
	return p.unexpected("property name")
}

func (p *Parser) parseIndex(base ast.NodeID) (ast.NodeID, bool) {
	p.advance()
	idx, ok := p.withIn(p.parseExpression)
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindIndex, p.spanFrom(base), base, idx), true
}

func (p *Parser) parseCall(callee, targs ast.NodeID) (ast.NodeID, bool) {
	args, ok := p.parseArguments()
	if !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.Call(p.spanFrom(callee), callee, args...)
	p.tree.Get(id).TArgs = targs
	return id, true
}

// parseArguments parses '(' args ')'.
func (p *Parser) parseArguments() ([]ast.NodeID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return nil, false
	}
	prev := p.noIn
	p.noIn = false
	defer func() { p.noIn = prev }()
	var args []ast.NodeID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		var arg ast.NodeID
		var ok bool
		if tok := p.peek(); tok.Kind == token.DotDotDot {
			p.advance()
			if arg, ok = p.parseAssign(); ok {
				arg = p.tree.New(ast.KindSpread, p.span(tok.Span), arg)
			}
		} else {
			arg, ok = p.parseAssign()
		}
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.at(token.RParen) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or ')'"); !ok {
				return nil, false
			}
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parseTagged(tag, targs ast.NodeID) (ast.NodeID, bool) {
	tpl, ok := p.parseTemplate()
	if !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindTaggedTemplate, p.spanFrom(tag), tag, tpl)
	p.tree.Get(id).TArgs = targs
	return id, true
}

// parseNew parses new expressions and new.target.
func (p *Parser) parseNew() (ast.NodeID, bool) {
	start := p.advance()
	if p.eat(token.Dot) {
		tok := p.peek()
		if !tok.Is("target") {
			return p.unexpected("'target'")
		}
		p.advance()
		return p.tree.NewText(ast.KindMetaProp, p.span(start.Span), "new.target"), true
	}
	var callee ast.NodeID
	var ok bool
	if p.at(token.KwNew) {
		callee, ok = p.parseNew()
	} else {
		callee, ok = p.parsePrimary()
	}
	if !ok {
		return ast.NoNodeID, false
	}
	if callee, ok = p.parseCallTail(callee, false); !ok {
		return ast.NoNodeID, false
	}
	targs := ast.NoNodeID
	if n := p.tree.Get(callee); n.Kind == ast.KindInstantiation {
		targs = n.TArgs
		callee = n.Kid(0)
	}
	id := p.tree.New(ast.KindNew, p.span(start.Span), callee)
	n := p.tree.Get(id)
	n.TArgs = targs
	if p.at(token.LParen) {
		args, ok := p.parseArguments()
		if !ok {
			return ast.NoNodeID, false
		}
		n = p.tree.Get(id)
		n.Kids = append(n.Kids, args...)
		n.Flags |= ast.FlagHasArgs
		n.Span = p.span(start.Span)
	}
	return id, true
}
