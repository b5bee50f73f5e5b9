package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseEnum parses enum E { A, B = 1 }. For const enums 'const' was consumed
// by the caller; start is the first token of the declaration.
func (p *Parser) parseEnum(start token.Token, flags ast.Flags) (ast.NodeID, bool) {
	enumTok, ok := p.expect(token.KwEnum, diag.SynUnexpectedToken, "expected 'enum'")
	if !ok {
		return ast.NoNodeID, false
	}
	p.requireTS(enumTok)
	name, ok := p.parseBindingIdent()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after enum name"); !ok {
		return ast.NoNodeID, false
	}
	kids := []ast.NodeID{name}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		tok := p.peek()
		p.addLeading(tok)
		var key ast.NodeID
		switch {
		case tok.Kind.IsIdentName():
			key = p.tree.Ident(tok.Text, tok.Span)
		case tok.Kind == token.StringLit:
			key = p.tree.String(tok.Text, tok.Span)
		default:
			p.err(diag.SynExpectIdentifier, "enum member name must be an identifier or a string")
			return ast.NoNodeID, false
		}
		p.advance()
		init := ast.NoNodeID
		if p.eat(token.Assign) {
			if init, ok = p.withIn(p.parseAssign); !ok {
				return ast.NoNodeID, false
			}
		}
		kids = append(kids, p.tree.New(ast.KindEnumMember, p.span(tok.Span), key, init))
		if !p.at(token.RBrace) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or '}'"); !ok {
				return ast.NoNodeID, false
			}
		}
	}
	p.addDangling(p.peek())
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close enum"); !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindEnum, p.span(start.Span), kids...)
	p.tree.Get(id).Flags |= flags
	return id, true
}
