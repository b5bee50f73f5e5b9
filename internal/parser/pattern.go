package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// toAssignTarget reinterprets an expression as an assignment target. Array
// and object literals become patterns in place.
func (p *Parser) toAssignTarget(id ast.NodeID) (ast.NodeID, bool) {
	n := p.tree.Get(id)
	switch n.Kind {
	case ast.KindArray:
		n.Kind = ast.KindArrayPattern
		for i, k := range n.Kids {
			kn := p.tree.Get(k)
			switch kn.Kind {
			case ast.KindHole:
			case ast.KindSpread:
				if i != len(n.Kids)-1 {
					p.errAt(kn.Span, diag.SynRestNotLast, "rest element must be last in a destructuring pattern")
					return ast.NoNodeID, false
				}
				t, ok := p.toAssignTarget(kn.Kid(0))
				if !ok {
					return ast.NoNodeID, false
				}
				kn.Kind = ast.KindRestElement
				kn.Kids[0] = t
			default:
				t, ok := p.toTargetWithDefault(k)
				if !ok {
					return ast.NoNodeID, false
				}
				n.Kids[i] = t
			}
		}
		return id, true
	case ast.KindObject:
		n.Kind = ast.KindObjectPattern
		for i, k := range n.Kids {
			kn := p.tree.Get(k)
			switch kn.Kind {
			case ast.KindObjProp:
				t, ok := p.toTargetWithDefault(kn.Kid(1))
				if !ok {
					return ast.NoNodeID, false
				}
				kn.Kids[1] = t
			case ast.KindSpread:
				if i != len(n.Kids)-1 {
					p.errAt(kn.Span, diag.SynRestNotLast, "rest element must be last in a destructuring pattern")
					return ast.NoNodeID, false
				}
				t, ok := p.toAssignTarget(kn.Kid(0))
				if !ok {
					return ast.NoNodeID, false
				}
				kn.Kind = ast.KindRestElement
				kn.Kids[0] = t
			default:
				p.errAt(kn.Span, diag.SynInvalidAssignTarget, "invalid destructuring target")
				return ast.NoNodeID, false
			}
		}
		return id, true
	case ast.KindArrayPattern, ast.KindObjectPattern:
		return id, true
	}
	if p.checkSimpleTarget(id) {
		return id, true
	}
	return ast.NoNodeID, false
}

// toTargetWithDefault handles pattern elements, where x = 1 means a default.
func (p *Parser) toTargetWithDefault(id ast.NodeID) (ast.NodeID, bool) {
	n := p.tree.Get(id)
	if n.Kind == ast.KindAssign && n.Op == token.Assign {
		t, ok := p.toAssignTarget(n.Kid(0))
		if !ok {
			return ast.NoNodeID, false
		}
		n.Kind = ast.KindAssignPattern
		n.Op = token.Invalid
		n.Kids[0] = t
		return id, true
	}
	if n.Kind == ast.KindAssignPattern {
		return id, true
	}
	return p.toAssignTarget(id)
}

// checkSimpleTarget reports whether id may be the operand of ++, -- or a
// compound assignment.
func (p *Parser) checkSimpleTarget(id ast.NodeID) bool {
	n := p.tree.Get(id)
	switch n.Kind {
	case ast.KindIdent:
		return true
	case ast.KindMember, ast.KindIndex:
		if !n.Flags.Has(ast.FlagOptional) {
			return true
		}
	case ast.KindParen, ast.KindAs, ast.KindSatisfies, ast.KindNonNull, ast.KindTypeAssert:
		inner := p.tree.Get(n.Kid(0))
		if inner.Kind != ast.KindArray && inner.Kind != ast.KindObject && p.checkSimpleTarget(n.Kid(0)) {
			return true
		}
		return false
	}
	p.errAt(n.Span, diag.SynInvalidAssignTarget, "invalid assignment target")
	return false
}

// parseBindingIdent parses an identifier in binding position.
func (p *Parser) parseBindingIdent() (ast.NodeID, bool) {
	tok := p.peek()
	if tok.Kind != token.Ident {
		if tok.Kind.IsKeyword() {
			p.err(diag.SynExpectIdentifier, "'"+tok.Text+"' is a reserved word and cannot be used as a binding name")
			return ast.NoNodeID, false
		}
		return p.unexpected("identifier")
	}
	p.advance()
	return p.tree.Ident(tok.Text, tok.Span), true
}

// parseBindingTarget parses an identifier or a destructuring pattern.
func (p *Parser) parseBindingTarget() (ast.NodeID, bool) {
	switch p.peek().Kind {
	case token.LBracket:
		return p.parseArrayBinding()
	case token.LBrace:
		return p.parseObjectBinding()
	}
	return p.parseBindingIdent()
}

// parseBindingElement parses a target with an optional default.
func (p *Parser) parseBindingElement() (ast.NodeID, bool) {
	target, ok := p.parseBindingTarget()
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.eat(token.Assign) {
		return target, true
	}
	def, ok := p.withIn(p.parseAssign)
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindAssignPattern, p.spanFrom(target), target, def), true
}

func (p *Parser) parseArrayBinding() (ast.NodeID, bool) {
	open := p.advance()
	var kids []ast.NodeID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		if tok := p.peek(); tok.Kind == token.Comma {
			p.advance()
			kids = append(kids, p.tree.New(ast.KindHole, tok.Span))
			continue
		}
		if tok := p.peek(); tok.Kind == token.DotDotDot {
			p.advance()
			t, ok := p.parseBindingTarget()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, p.tree.New(ast.KindRestElement, p.span(tok.Span), t))
			if !p.at(token.RBracket) {
				p.err(diag.SynRestNotLast, "rest element must be last in a destructuring pattern")
				return ast.NoNodeID, false
			}
			break
		}
		el, ok := p.parseBindingElement()
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
	return p.tree.New(ast.KindArrayPattern, p.span(open.Span), kids...), true
}

func (p *Parser) parseObjectBinding() (ast.NodeID, bool) {
	open := p.advance()
	var kids []ast.NodeID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if tok := p.peek(); tok.Kind == token.DotDotDot {
			p.advance()
			t, ok := p.parseBindingIdent()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, p.tree.New(ast.KindRestElement, p.span(tok.Span), t))
			if !p.at(token.RBrace) {
				p.err(diag.SynRestNotLast, "rest element must be last in a destructuring pattern")
				return ast.NoNodeID, false
			}
			break
		}
		start := p.peek()
		key, flags, ok := p.parsePropertyKey()
		if !ok {
			return ast.NoNodeID, false
		}
		var value ast.NodeID
		if p.eat(token.Colon) {
			if value, ok = p.parseBindingElement(); !ok {
				return ast.NoNodeID, false
			}
		} else {
			kn := p.tree.Get(key)
			if kn.Kind != ast.KindIdent || flags.Has(ast.FlagComputed) {
				return p.unexpected("':'")
			}
			flags |= ast.FlagShorthand
			value = p.tree.Ident(kn.Text, kn.Span)
			if p.eat(token.Assign) {
				def, ok := p.withIn(p.parseAssign)
				if !ok {
					return ast.NoNodeID, false
				}
				value = p.tree.New(ast.KindAssignPattern, p.spanFrom(value), value, def)
			}
		}
		prop := p.tree.New(ast.KindObjProp, p.span(start.Span), key, value)
		p.tree.Get(prop).Flags |= flags
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
	return p.tree.New(ast.KindObjectPattern, p.span(open.Span), kids...), true
}
