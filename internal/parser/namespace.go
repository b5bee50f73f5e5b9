package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseNamespace parses namespace A.B { }, module "m" { } and global { }.
func (p *Parser) parseNamespace(start token.Token, flags ast.Flags) (ast.NodeID, bool) {
	kw := p.advance()
	p.requireTS(kw)

	if flags.Has(ast.FlagGlobal) {
		name := p.tree.Ident("global", kw.Span)
		return p.parseNamespaceBody(start, name, flags|ast.FlagDeclare)
	}
	if tok := p.peek(); tok.Kind == token.StringLit {
		p.advance()
		name := p.tree.String(tok.Text, tok.Span)
		flags |= ast.FlagDeclare
		if !p.at(token.LBrace) {
			if !p.semicolon() {
				return ast.NoNodeID, false
			}
			id := p.tree.New(ast.KindNamespace, p.span(start.Span), name, ast.NoNodeID)
			p.tree.Get(id).Flags |= flags
			return id, true
		}
		return p.parseNamespaceBody(start, name, flags)
	}

	name, ok := p.parseBindingIdent()
	if !ok {
		return ast.NoNodeID, false
	}
	if p.at(token.Dot) {
		// namespace A.B.C { } == namespace A { export namespace B.C { } }
		dot := p.peek()
		inner, ok := p.parseNamespace(dot, flags)
		if !ok {
			return ast.NoNodeID, false
		}
		id := p.tree.New(ast.KindNamespace, p.span(start.Span), name, inner)
		p.tree.Get(id).Flags |= flags
		return id, true
	}
	return p.parseNamespaceBody(start, name, flags)
}

func (p *Parser) parseNamespaceBody(start token.Token, name ast.NodeID, flags ast.Flags) (ast.NodeID, bool) {
	if flags.Has(ast.FlagDeclare) {
		p.ambient++
		defer func() { p.ambient-- }()
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoNodeID, false
	}
	p.pushScope()
	stmts := p.parseStatementList(token.RBrace, true)
	p.popScope()
	p.addDangling(p.peek())
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close namespace"); !ok {
		return ast.NoNodeID, false
	}
	body := p.tree.New(ast.KindBlock, p.span(open.Span), stmts...)
	id := p.tree.New(ast.KindNamespace, p.span(start.Span), name, body)
	p.tree.Get(id).Flags |= flags
	return id, true
}

// parseDeclare parses 'declare' followed by a declaration. Everything inside
// is ambient.
func (p *Parser) parseDeclare(start token.Token, top bool) (ast.NodeID, bool) {
	kw := p.advance()
	p.requireTS(kw)
	p.ambient++
	defer func() { p.ambient-- }()

	tok := p.peek()
	var id ast.NodeID
	var ok bool
	switch {
	case tok.Kind == token.KwVar, tok.Kind == token.KwConst && p.peek2().Kind != token.KwEnum, tok.Is("let"):
		p.advance()
		id, ok = p.parseVarStatement(start, tok.Text, ast.FlagDeclare)
	case tok.Kind == token.KwConst:
		p.advance()
		id, ok = p.parseEnum(start, ast.FlagConst|ast.FlagDeclare)
	case tok.Kind == token.KwFunction, tok.Is("async"):
		id, ok = p.parseFunctionDecl(start, ast.FlagDeclare)
	case tok.Kind == token.KwClass:
		id, ok = p.parseClassDecl(start, nil, ast.FlagDeclare)
	case tok.Is("abstract"):
		p.advance()
		id, ok = p.parseClassDecl(start, nil, ast.FlagDeclare|ast.FlagAbstract)
	case tok.Kind == token.KwEnum:
		id, ok = p.parseEnum(start, ast.FlagDeclare)
	case tok.Is("namespace"), tok.Is("module"):
		id, ok = p.parseNamespace(start, ast.FlagDeclare)
	case tok.Is("global"):
		id, ok = p.parseNamespace(start, ast.FlagDeclare|ast.FlagGlobal)
	case tok.Is("interface"):
		id, ok = p.parseInterface(start, ast.FlagDeclare)
	case tok.Is("type"):
		id, ok = p.parseTypeAlias(start, ast.FlagDeclare)
	default:
		return p.unexpected("declaration after 'declare'")
	}
	if ok {
		n := p.tree.Get(id)
		n.Flags |= ast.FlagDeclare
		n.Span = p.span(start.Span)
	}
	return id, ok
}
