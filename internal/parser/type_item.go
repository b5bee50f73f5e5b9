package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseInterface parses interface I<T> extends A, B { members }.
func (p *Parser) parseInterface(start token.Token, flags ast.Flags) (ast.NodeID, bool) {
	kw := p.advance()
	p.requireTS(kw)
	p.inType++
	defer func() { p.inType-- }()

	name, ok := p.parseBindingIdent()
	if !ok {
		return ast.NoNodeID, false
	}
	tparams, ok := p.parseTypeParamsOpt()
	if !ok {
		return ast.NoNodeID, false
	}
	ext := ast.NoNodeID
	if p.eat(token.KwExtends) {
		if ext, ok = p.parseHeritageList(); !ok {
			return ast.NoNodeID, false
		}
	}
	body, ok := p.parseTypeLiteral()
	if !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindInterface, p.span(start.Span), name, ext, body)
	n := p.tree.Get(id)
	n.TArgs = tparams
	n.Flags |= flags
	return id, true
}

// parseTypeAlias parses type T<U> = ...;
func (p *Parser) parseTypeAlias(start token.Token, flags ast.Flags) (ast.NodeID, bool) {
	kw := p.advance()
	p.requireTS(kw)
	p.inType++
	defer func() { p.inType-- }()

	name, ok := p.parseBindingIdent()
	if !ok {
		return ast.NoNodeID, false
	}
	tparams, ok := p.parseTypeParamsOpt()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in type alias"); !ok {
		return ast.NoNodeID, false
	}
	ty, ok := p.parseType()
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.semicolon() {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindTypeAlias, p.span(start.Span), name, ty)
	n := p.tree.Get(id)
	n.TArgs = tparams
	n.Flags |= flags
	return id, true
}
