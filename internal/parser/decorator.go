package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseDecorators parses one or more @decorator expressions.
func (p *Parser) parseDecorators() ([]ast.NodeID, bool) {
	var out []ast.NodeID
	for p.at(token.At) {
		at := p.advance()
		if !p.syn.Decorators {
			p.errAt(at.Span, diag.SynDecoratorsDisabled, "decorators are not enabled")
		}
		expr, ok := p.parseDecoratorExpr()
		if !ok {
			return nil, false
		}
		out = append(out, p.tree.New(ast.KindDecorator, p.span(at.Span), expr))
	}
	return out, true
}

// parseDecoratorExpr parses @(expr), @a.b.c and @a.b(args).
func (p *Parser) parseDecoratorExpr() (ast.NodeID, bool) {
	if p.at(token.LParen) {
		return p.parseParen()
	}
	tok := p.peek()
	if tok.Kind != token.Ident {
		return p.unexpected("decorator name")
	}
	p.advance()
	expr := p.tree.Ident(tok.Text, tok.Span)
	for p.at(token.Dot) {
		p.advance()
		name, ok := p.parseMemberName()
		if !ok {
			return ast.NoNodeID, false
		}
		expr = p.tree.New(ast.KindMember, p.spanFrom(expr), expr, name)
	}
	targs := ast.NoNodeID
	if p.at(token.Lt) && p.syn.TypeScript() {
		var ok bool
		if targs, ok = p.parseTypeArgs(); !ok {
			return ast.NoNodeID, false
		}
	}
	if p.at(token.LParen) {
		return p.parseCall(expr, targs)
	}
	return expr, true
}
