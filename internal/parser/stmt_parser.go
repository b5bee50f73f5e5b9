package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseStatementList parses statements until end (not consumed).
func (p *Parser) parseStatementList(end token.Kind, top bool) []ast.NodeID {
	var out []ast.NodeID
	for !p.at(end) && !p.at(token.EOF) {
		before := p.peek().Span.Start
		id, ok := p.parseStatement(top)
		if ok {
			if id.IsValid() {
				out = append(out, id)
			}
			continue
		}
		// ошибка в statement - восстанавливаемся до следующей границы
		p.resync()
		if p.peek().Span.Start == before && !p.at(end) && !p.at(token.EOF) {
			p.advance()
		}
	}
	return out
}

func (p *Parser) parseStatement(top bool) (ast.NodeID, bool) {
	tok := p.peek()
	p.addLeading(tok)

	switch tok.Kind {
	case token.LBrace:
		p.checkRuntime(tok)
		return p.parseBlock(true)
	case token.Semicolon:
		p.advance()
		return p.tree.New(ast.KindEmpty, tok.Span), true
	case token.KwVar:
		p.advance()
		return p.parseVarStatement(tok, "var", 0)
	case token.KwConst:
		if next := p.peek2(); next.Kind == token.KwEnum {
			p.advance()
			return p.parseEnum(tok, ast.FlagConst)
		}
		p.advance()
		return p.parseVarStatement(tok, "const", 0)
	case token.KwFunction:
		return p.parseFunctionDecl(tok, 0)
	case token.KwClass:
		return p.parseClassDecl(tok, nil, 0)
	case token.At:
		decos, ok := p.parseDecorators()
		if !ok {
			return ast.NoNodeID, false
		}
		if p.at(token.KwExport) {
			return p.parseExport(top, decos)
		}
		var flags ast.Flags
		if p.atWord("abstract") {
			p.advance()
			flags |= ast.FlagAbstract
		}
		if !p.at(token.KwClass) {
			return p.unexpected("class after decorators")
		}
		return p.parseClassDecl(tok, decos, flags)
	case token.KwEnum:
		return p.parseEnum(tok, 0)
	case token.KwImport:
		if next := p.peek2(); next.Kind == token.LParen || next.Kind == token.Dot {
			break
		}
		if !top {
			p.err(diag.SynImportNotTopLevel, "import declarations may only appear at top level")
		}
		return p.parseImport()
	case token.KwExport:
		if !top {
			p.err(diag.SynImportNotTopLevel, "export declarations may only appear at top level")
		}
		return p.parseExport(top, nil)
	case token.KwIf, token.KwFor, token.KwWhile, token.KwDo, token.KwReturn,
		token.KwBreak, token.KwContinue, token.KwThrow, token.KwTry, token.KwSwitch,
		token.KwWith, token.KwDebugger:
		p.checkRuntime(tok)
		return p.parseControl(tok)
	case token.Ident:
		if id, ok, handled := p.parseContextualStatement(tok, top); handled {
			return id, ok
		}
	}

	p.checkRuntime(tok)
	return p.parseExpressionStatement()
}

// parseContextualStatement handles statements introduced by contextual
// keywords (let, async, type, interface, namespace, declare, abstract) and
// labeled statements.
func (p *Parser) parseContextualStatement(tok token.Token, top bool) (ast.NodeID, bool, bool) {
	if tok.Escaped {
		return ast.NoNodeID, false, false
	}
	next := p.peek2()
	sameLine := !next.NL
	switch tok.Text {
	case "let":
		if next.Kind == token.Ident || next.Kind == token.LBracket || next.Kind == token.LBrace {
			p.advance()
			id, ok := p.parseVarStatement(tok, "let", 0)
			return id, ok, true
		}
	case "async":
		if next.Kind == token.KwFunction && sameLine {
			id, ok := p.parseFunctionDecl(tok, 0)
			return id, ok, true
		}
	case "interface":
		if next.Kind == token.Ident && sameLine {
			id, ok := p.parseInterface(tok, 0)
			return id, ok, true
		}
	case "type":
		if next.Kind == token.Ident && sameLine {
			id, ok := p.parseTypeAlias(tok, 0)
			return id, ok, true
		}
	case "namespace":
		if next.Kind == token.Ident && sameLine {
			id, ok := p.parseNamespace(tok, 0)
			return id, ok, true
		}
	case "module":
		if (next.Kind == token.Ident || next.Kind == token.StringLit) && sameLine {
			id, ok := p.parseNamespace(tok, 0)
			return id, ok, true
		}
	case "global":
		if next.Kind == token.LBrace && sameLine && p.ambient > 0 {
			id, ok := p.parseNamespace(tok, ast.FlagGlobal)
			return id, ok, true
		}
	case "declare":
		if sameLine && startsDeclaration(next) {
			id, ok := p.parseDeclare(tok, top)
			return id, ok, true
		}
	case "abstract":
		if next.Kind == token.KwClass && sameLine {
			p.advance()
			id, ok := p.parseClassDecl(tok, nil, ast.FlagAbstract)
			return id, ok, true
		}
	}
	if next.Kind == token.Colon {
		p.checkRuntime(tok)
		id, ok := p.parseLabeled()
		return id, ok, true
	}
	return ast.NoNodeID, false, false
}

// startsDeclaration reports whether tok can follow 'declare'.
func startsDeclaration(tok token.Token) bool {
	switch tok.Kind {
	case token.KwVar, token.KwConst, token.KwFunction, token.KwClass, token.KwEnum:
		return true
	case token.Ident:
		switch tok.Text {
		case "let", "async", "interface", "type", "namespace", "module", "global", "abstract":
			return true
		}
	}
	return false
}

// checkRuntime reports runtime statements in an ambient context.
func (p *Parser) checkRuntime(tok token.Token) {
	if p.ambient > 0 && !p.fn.inFunc {
		p.errAt(tok.Span, diag.SynAmbientBody, "statements are not allowed in an ambient context")
	}
}

// requireTS reports type syntax in a JavaScript dialect. While speculating the
// report is held back until the speculation is kept.
func (p *Parser) requireTS(tok token.Token) {
	if p.syn.TypeScript() {
		return
	}
	if p.spec > 0 {
		p.pendingTS = append(p.pendingTS, tok.Span)
		return
	}
	p.errAt(tok.Span, diag.SynTypeSyntaxInJS, "type syntax is only allowed in TypeScript files")
}

// parseBlock parses '{' statements '}'. newScope is false for function bodies,
// which open their scope together with the parameters.
func (p *Parser) parseBlock(newScope bool) (ast.NodeID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoNodeID, false
	}
	if newScope {
		p.pushScope()
		defer p.popScope()
	}
	stmts := p.parseStatementList(token.RBrace, false)
	p.addDangling(p.peek())
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block"); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindBlock, p.span(open.Span), stmts...), true
}

func (p *Parser) parseExpressionStatement() (ast.NodeID, bool) {
	start := p.peek().Span
	expr, ok := p.parseExpression()
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.semicolon() {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindExprStmt, p.span(start), expr), true
}

func (p *Parser) parseLabeled() (ast.NodeID, bool) {
	tok := p.advance()
	p.advance() // ':'
	name := p.tree.Ident(tok.Text, tok.Span)
	isLoop := p.atOr(token.KwFor, token.KwWhile, token.KwDo)
	p.labels = append(p.labels, label{name: tok.Text, isLoop: isLoop})
	body, ok := p.parseStatement(false)
	p.labels = p.labels[:len(p.labels)-1]
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindLabeled, p.span(tok.Span), name, body), true
}

// parseVarStatement parses the declarators after var/let/const.
func (p *Parser) parseVarStatement(start token.Token, kw string, flags ast.Flags) (ast.NodeID, bool) {
	id, ok := p.parseVarDeclList(start, kw, flags, false)
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.semicolon() {
		return ast.NoNodeID, false
	}
	p.tree.Get(id).Span = p.span(start.Span)
	return id, true
}

// parseVarDeclList parses declarators. inFor relaxes the initializer rule for
// for-in/of heads.
func (p *Parser) parseVarDeclList(start token.Token, kw string, flags ast.Flags, inFor bool) (ast.NodeID, bool) {
	kind := declVar
	if kw != "var" {
		kind = declLexical
	}
	var decls []ast.NodeID
	for {
		target, ok := p.parseBindingTarget()
		if !ok {
			return ast.NoNodeID, false
		}
		d := ast.Node{Kind: ast.KindDeclarator}
		if p.at(token.Bang) && !p.peek().NL {
			bang := p.advance()
			p.requireTS(bang)
			d.Flags |= ast.FlagDefinite
		}
		if p.at(token.Colon) {
			ty, ok := p.parseTypeAnnotation()
			if !ok {
				return ast.NoNodeID, false
			}
			d.Type = ty
		}
		init := ast.NoNodeID
		if p.eat(token.Assign) {
			init, ok = p.parseAssign()
			if !ok {
				return ast.NoNodeID, false
			}
		} else if !inFor && p.ambient == 0 && flags&ast.FlagDeclare == 0 {
			k := p.tree.Kind(target)
			if kw == "const" || k == ast.KindArrayPattern || k == ast.KindObjectPattern {
				p.errAt(p.tree.Span(target), diag.SynMissingInitializer, "missing initializer in "+kw+" declaration")
			}
		}
		p.bindingNames(target, func(name string, n *ast.Node) {
			p.declare(name, kind, n.Span)
		})
		d.Kids = []ast.NodeID{target, init}
		d.Span = p.spanFrom(target)
		decls = append(decls, p.tree.Add(d))
		if !p.eat(token.Comma) {
			break
		}
	}
	id := p.tree.New(ast.KindVarDecl, p.span(start.Span), decls...)
	n := p.tree.Get(id)
	n.Text = kw
	n.Flags |= flags
	return id, true
}

// bindingNames calls fn for every identifier bound by a pattern.
func (p *Parser) bindingNames(id ast.NodeID, fn func(string, *ast.Node)) {
	n := p.tree.Get(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindIdent:
		fn(n.Text, n)
	case ast.KindArrayPattern, ast.KindObjectPattern:
		for _, k := range n.Kids {
			p.bindingNames(k, fn)
		}
	case ast.KindObjProp:
		p.bindingNames(n.Kid(1), fn)
	case ast.KindAssignPattern, ast.KindRestElement:
		p.bindingNames(n.Kid(0), fn)
	}
}
