package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseImport parses every form of import declaration, including
// TypeScript 'import x = require("m")' and 'import x = A.B'.
func (p *Parser) parseImport() (ast.NodeID, bool) {
	start := p.advance() // import
	var flags ast.Flags

	// import "m";
	if tok := p.peek(); tok.Kind == token.StringLit {
		return p.parseImportRest(start, flags, nil, false)
	}

	if tok := p.peek(); tok.Is("type") {
		next := p.peek2()
		typeOnly := next.Kind == token.LBrace || next.Kind == token.Star
		if next.Kind == token.Ident && !next.Is("from") {
			typeOnly = true
		} else if next.Is("from") {
			// import type from "m" импортирует default под именем type
			typeOnly = p.lookahead(func() bool {
				p.advance()
				p.advance()
				return p.atWord("from")
			})
		}
		if typeOnly {
			p.advance()
			p.requireTS(tok)
			flags |= ast.FlagTypeOnly
		}
	}

	var specs []ast.NodeID
	if p.at(token.Ident) {
		local, ok := p.parseImportLocal()
		if !ok {
			return ast.NoNodeID, false
		}
		if p.at(token.Assign) {
			return p.parseImportEquals(start, local, flags)
		}
		specs = append(specs, p.tree.New(ast.KindImportDefault, p.tree.Span(local), local))
		if !p.eat(token.Comma) {
			return p.parseImportRest(start, flags, specs, true)
		}
	}
	switch {
	case p.at(token.Star):
		star := p.advance()
		if _, ok := p.expectWord("as"); !ok {
			return ast.NoNodeID, false
		}
		local, ok := p.parseImportLocal()
		if !ok {
			return ast.NoNodeID, false
		}
		specs = append(specs, p.tree.New(ast.KindImportNamespace, p.span(star.Span), local))
	case p.at(token.LBrace):
		named, ok := p.parseImportSpecifiers()
		if !ok {
			return ast.NoNodeID, false
		}
		specs = append(specs, named...)
	default:
		return p.unexpected("import clause")
	}
	return p.parseImportRest(start, flags, specs, true)
}

// parseImportRest parses 'from "m"', import attributes and the semicolon.
// clause is set when an import clause was parsed, even an empty '{}'.
func (p *Parser) parseImportRest(start token.Token, flags ast.Flags, specs []ast.NodeID, clause bool) (ast.NodeID, bool) {
	if clause || flags.Has(ast.FlagTypeOnly) {
		if _, ok := p.expectWord("from"); !ok {
			return ast.NoNodeID, false
		}
	}
	source, ok := p.parseModuleSpecifier()
	if !ok {
		return ast.NoNodeID, false
	}
	attrs, ok := p.parseImportAttributes()
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.semicolon() {
		return ast.NoNodeID, false
	}
	kids := append([]ast.NodeID{source, attrs}, specs...)
	id := p.tree.New(ast.KindImport, p.span(start.Span), kids...)
	p.tree.Get(id).Flags |= flags
	return id, true
}

// parseImportEquals parses the part after 'import x' in import x = require("m")
// or import x = A.B.C.
func (p *Parser) parseImportEquals(start token.Token, name ast.NodeID, flags ast.Flags) (ast.NodeID, bool) {
	eq := p.advance()
	p.requireTS(eq)
	var ref ast.NodeID
	if tok := p.peek(); tok.Is("require") && p.peek2().Kind == token.LParen {
		p.advance()
		p.advance()
		src, ok := p.parseModuleSpecifier()
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoNodeID, false
		}
		ref = p.tree.New(ast.KindExternalRef, p.span(tok.Span), src)
	} else {
		var ok bool
		p.inType++
		ref, ok = p.parseEntityName()
		p.inType--
		if !ok {
			return ast.NoNodeID, false
		}
	}
	if !p.semicolon() {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindImportEquals, p.span(start.Span), name, ref)
	p.tree.Get(id).Flags |= flags
	return id, true
}

func (p *Parser) parseImportLocal() (ast.NodeID, bool) {
	id, ok := p.parseBindingIdent()
	if ok {
		n := p.tree.Get(id)
		p.declare(n.Text, declLexical, n.Span)
	}
	return id, ok
}

// parseImportSpecifiers parses { a, b as c, type d, "s" as e }.
func (p *Parser) parseImportSpecifiers() ([]ast.NodeID, bool) {
	p.advance() // {
	var out []ast.NodeID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		start := p.peek()
		typeOnly := p.eatTypeModifier()
		imported, ok := p.parseModuleExportName()
		if !ok {
			return nil, false
		}
		var local ast.NodeID
		if p.eatWord("as") {
			if local, ok = p.parseImportLocal(); !ok {
				return nil, false
			}
		} else {
			n := p.tree.Get(imported)
			if n.Kind != ast.KindIdent {
				p.errAt(n.Span, diag.SynExpectIdentifier, "a string import name must be renamed with 'as'")
				return nil, false
			}
			if _, isKw := token.LookupKeyword(n.Text); isKw {
				p.errAt(n.Span, diag.SynExpectIdentifier, "'"+n.Text+"' is a reserved word and cannot be imported without 'as'")
				return nil, false
			}
			local = p.tree.Ident(n.Text, n.Span)
			p.declare(n.Text, declLexical, n.Span)
		}
		spec := p.tree.New(ast.KindImportSpec, p.span(start.Span), imported, local)
		if typeOnly {
			p.tree.Get(spec).Flags |= ast.FlagTypeOnly
		}
		out = append(out, spec)
		if !p.at(token.RBrace) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or '}'"); !ok {
				return nil, false
			}
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'"); !ok {
		return nil, false
	}
	return out, true
}

// eatTypeModifier consumes an inline 'type' modifier in an import or export
// specifier. 'type' is a modifier unless it is itself the name:
// { type }, { type as x }, { type, ... }.
func (p *Parser) eatTypeModifier() bool {
	tok := p.peek()
	if !tok.Is("type") {
		return false
	}
	next := p.peek2()
	switch {
	case next.Kind == token.Comma || next.Kind == token.RBrace:
		return false
	case next.Is("as"):
		// { type as } и { type as as x }: модификатор; { type as x }: переименование
		isMod := p.lookahead(func() bool {
			p.advance()
			p.advance()
			t := p.peek()
			return t.Kind == token.Comma || t.Kind == token.RBrace || t.Is("as")
		})
		if !isMod {
			return false
		}
	case !next.Kind.IsIdentName() && next.Kind != token.StringLit:
		return false
	}
	p.advance()
	p.requireTS(tok)
	return true
}

// parseModuleExportName parses an identifier name or a string literal.
func (p *Parser) parseModuleExportName() (ast.NodeID, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.StringLit:
		p.advance()
		return p.tree.String(tok.Text, tok.Span), true
	case tok.Kind.IsIdentName():
		p.advance()
		return p.tree.Ident(tok.Text, tok.Span), true
	}
	return p.unexpected("import or export name")
}

func (p *Parser) parseModuleSpecifier() (ast.NodeID, bool) {
	tok := p.peek()
	if tok.Kind != token.StringLit {
		return p.unexpected("module specifier string")
	}
	p.advance()
	return p.tree.String(tok.Text, tok.Span), true
}

// parseImportAttributes parses an optional 'with { type: "json" }' or the
// legacy 'assert { ... }' clause.
func (p *Parser) parseImportAttributes() (ast.NodeID, bool) {
	tok := p.peek()
	if tok.Kind != token.KwWith && !(tok.Is("assert") && !tok.NL) {
		return ast.NoNodeID, true
	}
	p.advance()
	if !p.at(token.LBrace) {
		return p.unexpected("'{' after '" + tok.Text + "'")
	}
	return p.parseObjectLiteral()
}

func (p *Parser) expectWord(w string) (token.Token, bool) {
	if tok := p.peek(); tok.Is(w) {
		return p.advance(), true
	}
	_, ok := p.unexpected("'" + w + "'")
	return token.Token{}, ok
}

// parseExport parses every form of export declaration. decos holds
// decorators written before 'export'.
func (p *Parser) parseExport(top bool, decos []ast.NodeID) (ast.NodeID, bool) {
	start := p.advance() // export
	tok := p.peek()

	switch {
	case tok.Kind == token.KwDefault:
		return p.parseExportDefault(start, decos)
	case tok.Kind == token.Assign:
		// export = x;
		p.advance()
		p.requireTS(tok)
		expr, ok := p.withIn(p.parseAssign)
		if !ok || !p.semicolon() {
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.KindExportAssign, p.span(start.Span), expr), true
	case tok.Is("as"):
		// export as namespace UMDName;
		p.advance()
		p.requireTS(tok)
		if _, ok := p.expectWord("namespace"); !ok {
			return ast.NoNodeID, false
		}
		name, ok := p.parseBindingIdent()
		if !ok || !p.semicolon() {
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.KindExportAsNamespace, p.span(start.Span), name), true
	case tok.Kind == token.Star:
		return p.parseExportAll(start, 0)
	case tok.Kind == token.LBrace:
		return p.parseExportNamed(start, 0)
	case tok.Is("type") && (p.peek2().Kind == token.LBrace || p.peek2().Kind == token.Star):
		p.advance()
		p.requireTS(tok)
		if p.at(token.Star) {
			return p.parseExportAll(start, ast.FlagTypeOnly)
		}
		return p.parseExportNamed(start, ast.FlagTypeOnly)
	case tok.Kind == token.KwImport:
		// export import A = B.C;
		imp, ok := p.parseImport()
		if !ok {
			return ast.NoNodeID, false
		}
		if p.tree.Kind(imp) != ast.KindImportEquals {
			p.errAt(p.tree.Span(imp), diag.SynUnexpectedToken, "only 'import x = ...' can be exported")
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.KindExportDecl, p.span(start.Span), imp), true
	}

	decl, ok := p.parseExportedDeclaration(tok, top, decos)
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindExportDecl, p.span(start.Span), decl), true
}

// parseExportedDeclaration parses the declaration after 'export'.
func (p *Parser) parseExportedDeclaration(tok token.Token, top bool, decos []ast.NodeID) (ast.NodeID, bool) {
	if tok.Kind == token.At {
		more, ok := p.parseDecorators()
		if !ok {
			return ast.NoNodeID, false
		}
		decos = append(decos, more...)
	}
	if len(decos) > 0 {
		var flags ast.Flags
		if p.eatWord("abstract") {
			flags |= ast.FlagAbstract
		}
		if !p.at(token.KwClass) {
			return p.unexpected("class after decorators")
		}
		return p.parseClassDecl(p.peek(), decos, flags)
	}

	switch tok.Kind {
	case token.KwVar:
		p.advance()
		return p.parseVarStatement(tok, "var", 0)
	case token.KwConst:
		if p.peek2().Kind == token.KwEnum {
			p.advance()
			return p.parseEnum(tok, ast.FlagConst)
		}
		p.advance()
		return p.parseVarStatement(tok, "const", 0)
	case token.KwFunction:
		return p.parseFunctionDecl(tok, 0)
	case token.KwClass:
		return p.parseClassDecl(tok, nil, 0)
	case token.KwEnum:
		return p.parseEnum(tok, 0)
	case token.Ident:
		if id, ok, handled := p.parseContextualStatement(tok, top); handled {
			switch p.tree.Kind(id) {
			case ast.KindLabeled:
				p.errAt(tok.Span, diag.SynUnexpectedToken, "unexpected label after 'export'")
				return ast.NoNodeID, false
			}
			return id, ok
		}
	}
	return p.unexpected("declaration after 'export'")
}

// parseExportDefault parses export default <declaration or expression>.
func (p *Parser) parseExportDefault(start token.Token, decos []ast.NodeID) (ast.NodeID, bool) {
	p.advance() // default
	tok := p.peek()
	var decl ast.NodeID
	var ok bool
	switch {
	case tok.Kind == token.KwFunction,
		tok.Is("async") && p.peek2().Kind == token.KwFunction && !p.peek2().NL:
		decl, ok = p.parseFunctionDecl(tok, ast.FlagDefault)
	case tok.Kind == token.KwClass:
		decl, ok = p.parseClassDecl(tok, decos, ast.FlagDefault)
	case tok.Kind == token.At:
		more, mok := p.parseDecorators()
		if !mok {
			return ast.NoNodeID, false
		}
		if !p.at(token.KwClass) {
			return p.unexpected("class after decorators")
		}
		decl, ok = p.parseClassDecl(p.peek(), append(decos, more...), ast.FlagDefault)
	case tok.Is("abstract") && p.peek2().Kind == token.KwClass:
		p.advance()
		decl, ok = p.parseClassDecl(tok, decos, ast.FlagDefault|ast.FlagAbstract)
	case tok.Is("interface") && p.peek2().Kind == token.Ident && !p.peek2().NL:
		decl, ok = p.parseInterface(tok, 0)
	default:
		if len(decos) > 0 {
			return p.unexpected("class after decorators")
		}
		if decl, ok = p.withIn(p.parseAssign); ok {
			ok = p.semicolon()
		}
	}
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindExportDefault, p.span(start.Span), decl), true
}

// parseExportAll parses export * [as name] from "m".
func (p *Parser) parseExportAll(start token.Token, flags ast.Flags) (ast.NodeID, bool) {
	p.advance() // *
	exported := ast.NoNodeID
	if p.eatWord("as") {
		var ok bool
		if exported, ok = p.parseModuleExportName(); !ok {
			return ast.NoNodeID, false
		}
	}
	if _, ok := p.expectWord("from"); !ok {
		return ast.NoNodeID, false
	}
	source, ok := p.parseModuleSpecifier()
	if !ok {
		return ast.NoNodeID, false
	}
	attrs, ok := p.parseImportAttributes()
	if !ok || !p.semicolon() {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindExportAll, p.span(start.Span), source, attrs, exported)
	p.tree.Get(id).Flags |= flags
	return id, true
}

// parseExportNamed parses export { a, b as c } [from "m"].
func (p *Parser) parseExportNamed(start token.Token, flags ast.Flags) (ast.NodeID, bool) {
	p.advance() // {
	var specs []ast.NodeID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		specStart := p.peek()
		typeOnly := p.eatTypeModifier()
		local, ok := p.parseModuleExportName()
		if !ok {
			return ast.NoNodeID, false
		}
		exported := local
		if p.eatWord("as") {
			if exported, ok = p.parseModuleExportName(); !ok {
				return ast.NoNodeID, false
			}
		} else {
			n := p.tree.Get(local)
			exported = p.tree.Add(ast.Node{Kind: n.Kind, Op: n.Op, Text: n.Text, Span: n.Span})
		}
		spec := p.tree.New(ast.KindExportSpec, p.span(specStart.Span), local, exported)
		if typeOnly {
			p.tree.Get(spec).Flags |= ast.FlagTypeOnly
		}
		specs = append(specs, spec)
		if !p.at(token.RBrace) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or '}'"); !ok {
				return ast.NoNodeID, false
			}
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'"); !ok {
		return ast.NoNodeID, false
	}
	source, attrs := ast.NoNodeID, ast.NoNodeID
	if p.eatWord("from") {
		var ok bool
		if source, ok = p.parseModuleSpecifier(); !ok {
			return ast.NoNodeID, false
		}
		if attrs, ok = p.parseImportAttributes(); !ok {
			return ast.NoNodeID, false
		}
	} else {
		for _, spec := range specs {
			local := p.tree.Get(p.tree.Get(spec).Kid(0))
			if local.Kind != ast.KindIdent {
				p.errAt(local.Span, diag.SynExpectIdentifier, "a string export name requires a 'from' clause")
				return ast.NoNodeID, false
			}
		}
	}
	if !p.semicolon() {
		return ast.NoNodeID, false
	}
	kids := append([]ast.NodeID{source, attrs}, specs...)
	id := p.tree.New(ast.KindExportNamed, p.span(start.Span), kids...)
	p.tree.Get(id).Flags |= flags
	return id, true
}
