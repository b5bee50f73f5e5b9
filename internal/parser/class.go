package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseClassDecl parses a class declaration at 'class'. Modifiers and
// decorators before it were already consumed.
func (p *Parser) parseClassDecl(start token.Token, decos []ast.NodeID, flags ast.Flags) (ast.NodeID, bool) {
	if flags.Has(ast.FlagAbstract) {
		p.requireTS(start)
	}
	if _, ok := p.expect(token.KwClass, diag.SynUnexpectedToken, "expected 'class'"); !ok {
		return ast.NoNodeID, false
	}
	name := ast.NoNodeID
	if p.at(token.Ident) && !p.atWord("implements") && !p.atWord("extends") {
		var ok bool
		if name, ok = p.parseBindingIdent(); !ok {
			return ast.NoNodeID, false
		}
		n := p.tree.Get(name)
		p.declare(n.Text, declLexical, n.Span)
	} else if !flags.Has(ast.FlagDefault) {
		return p.unexpected("class name")
	}
	return p.parseClassRest(ast.KindClassDecl, start, name, decos, flags)
}

func (p *Parser) parseClassExpr(start token.Token, decos []ast.NodeID) (ast.NodeID, bool) {
	p.advance() // class
	name := ast.NoNodeID
	if p.at(token.Ident) && !p.atWord("implements") && !p.atWord("extends") {
		tok := p.advance()
		name = p.tree.Ident(tok.Text, tok.Span)
	}
	return p.parseClassRest(ast.KindClassExpr, start, name, decos, 0)
}

func (p *Parser) parseClassRest(kind ast.Kind, start token.Token, name ast.NodeID, decos []ast.NodeID, flags ast.Flags) (ast.NodeID, bool) {
	tparams, ok := p.parseTypeParamsOpt()
	if !ok {
		return ast.NoNodeID, false
	}
	super := ast.NoNodeID
	if p.eat(token.KwExtends) {
		if super, ok = p.parseHeritageExpr(); !ok {
			return ast.NoNodeID, false
		}
	}
	impls := ast.NoNodeID
	if tok := p.peek(); tok.Is("implements") {
		p.advance()
		p.requireTS(tok)
		if impls, ok = p.parseHeritageList(); !ok {
			return ast.NoNodeID, false
		}
	}

	prevFn := p.fn
	p.fn.inClass = true
	body, ok := p.parseClassBody(flags)
	p.fn = prevFn
	if !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.New(kind, p.span(start.Span), name, super, body)
	n := p.tree.Get(id)
	n.Flags |= flags
	n.TArgs = tparams
	n.Aux = impls
	n.Decos = decos
	return id, true
}

// parseHeritageExpr parses the expression after 'extends' with optional type
// arguments (class A extends B<T> {}).
func (p *Parser) parseHeritageExpr() (ast.NodeID, bool) {
	expr, ok := p.parseLHS()
	if !ok {
		return ast.NoNodeID, false
	}
	if p.atOr(token.Lt, token.Shl) {
		targs, ok := p.parseTypeArgs()
		if !ok {
			return ast.NoNodeID, false
		}
		if p.tree.Get(expr).TArgs.IsValid() {
			p.errAt(p.tree.Span(targs), diag.SynUnexpectedToken, "unexpected type arguments")
			return ast.NoNodeID, false
		}
		p.tree.Get(expr).TArgs = targs
	}
	return expr, true
}

// parseHeritageList parses a comma-separated list of type references
// (implements clauses, interface extends).
func (p *Parser) parseHeritageList() (ast.NodeID, bool) {
	start := p.peek()
	var kids []ast.NodeID
	for {
		ref, ok := p.parseTypeReference()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, ref)
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.tree.New(ast.KindHeritage, p.span(start.Span), kids...), true
}

func (p *Parser) parseClassBody(classFlags ast.Flags) (ast.NodeID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open class body")
	if !ok {
		return ast.NoNodeID, false
	}
	ctx := methodClass
	if classFlags.Has(ast.FlagDeclare) || p.ambient > 0 {
		ctx = methodAmbientClass
	}
	var members []ast.NodeID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			continue
		}
		m, ok := p.parseClassMember(ctx, classFlags)
		if !ok {
			return ast.NoNodeID, false
		}
		members = append(members, m)
	}
	p.addDangling(p.peek())
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close class body"); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindClassBody, p.span(open.Span), members...), true
}

var memberModifiers = map[string]ast.Flags{
	"static":    ast.FlagStatic,
	"public":    ast.FlagPublic,
	"private":   ast.FlagPrivate,
	"protected": ast.FlagProtected,
	"readonly":  ast.FlagReadonly,
	"abstract":  ast.FlagAbstract,
	"override":  ast.FlagOverride,
	"declare":   ast.FlagDeclare,
	"accessor":  ast.FlagAccessor,
	"async":     ast.FlagAsync,
}

const tsOnlyModifiers = ast.FlagPublic | ast.FlagPrivate | ast.FlagProtected | ast.FlagReadonly |
	ast.FlagAbstract | ast.FlagOverride | ast.FlagDeclare

func (p *Parser) parseClassMember(ctx methodCtx, classFlags ast.Flags) (ast.NodeID, bool) {
	start := p.peek()
	p.addLeading(start)
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
		f, isMod := memberModifiers[tok.Text]
		if tok.Kind != token.Ident || !isMod || tok.Escaped {
			break
		}
		next := p.peek2()
		if next.NL && (f == ast.FlagAsync || f == ast.FlagAccessor) {
			break
		}
		if f == ast.FlagStatic && next.Kind == token.LBrace {
			p.advance()
			return p.parseStaticBlock(start)
		}
		if !isPropertyKeyStart(next) {
			break
		}
		p.advance()
		if f&tsOnlyModifiers != 0 {
			p.requireTS(tok)
		}
		if f == ast.FlagAbstract && !classFlags.Has(ast.FlagAbstract) {
			p.errAt(tok.Span, diag.SynModifierNotAllowed, "abstract members are only allowed in an abstract class")
		}
		flags |= f
	}

	// TS index signature: [key: string]: T
	if p.at(token.LBracket) && p.syn.TypeScript() && p.isIndexSignature() {
		id, ok := p.parseIndexSignature(start, ast.KindIndexSignature, flags)
		if ok && !p.semicolon() {
			return ast.NoNodeID, false
		}
		return id, ok
	}

	if p.eat(token.Star) {
		flags |= ast.FlagGenerator
	}
	kind := "method"
	if tok := p.peek(); tok.Is("get") || tok.Is("set") {
		next := p.peek2()
		if !next.NL && isPropertyKeyStart(next) && next.Kind != token.Star {
			p.advance()
			kind = tok.Text
		}
	}

	key, kflags, ok := p.parsePropertyKey()
	if !ok {
		return ast.NoNodeID, false
	}
	flags |= kflags
	if kind == "method" && !flags.Has(ast.FlagStatic|ast.FlagComputed) && p.isConstructorKey(key) {
		kind = "constructor"
	}

	isMethod := kind != "method" || flags.Has(ast.FlagGenerator|ast.FlagAsync) || p.atOr(token.LParen, token.Lt)
	if !isMethod && p.at(token.Question) {
		isMethod = p.peek2().Kind == token.LParen || p.peek2().Kind == token.Lt
	}
	if isMethod {
		mctx := ctx
		if flags.Has(ast.FlagAbstract) {
			mctx = methodAmbientClass
		}
		id, ok := p.parseMethod(start, key, kind, flags, mctx)
		if ok {
			p.tree.Get(id).Decos = decos
		}
		return id, ok
	}
	return p.parseClassProperty(start, key, flags, decos)
}

func (p *Parser) parseClassProperty(start token.Token, key ast.NodeID, flags ast.Flags, decos []ast.NodeID) (ast.NodeID, bool) {
	if tok := p.peek(); tok.Kind == token.Question {
		p.advance()
		p.requireTS(tok)
		flags |= ast.FlagOptional
	} else if tok.Kind == token.Bang && !tok.NL {
		p.advance()
		p.requireTS(tok)
		flags |= ast.FlagDefinite
	}
	ty := ast.NoNodeID
	var ok bool
	if p.at(token.Colon) {
		if ty, ok = p.parseTypeAnnotation(); !ok {
			return ast.NoNodeID, false
		}
	}
	value := ast.NoNodeID
	if p.eat(token.Assign) {
		leave := p.enterFunction(0)
		value, ok = p.parseAssign()
		leave()
		if !ok {
			return ast.NoNodeID, false
		}
	}
	if !p.semicolon() {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindProperty, p.span(start.Span), key, value)
	n := p.tree.Get(id)
	n.Flags |= flags
	n.Type = ty
	n.Decos = decos
	return id, true
}

func (p *Parser) parseStaticBlock(start token.Token) (ast.NodeID, bool) {
	leave := p.enterFunction(0)
	p.fn.inFunc = false
	block, ok := p.parseBlock(false)
	leave()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindStaticBlock, p.span(start.Span), block), true
}

// isIndexSignature looks for '[' ident ':' or '[' ident ']' ... at the
// current position.
func (p *Parser) isIndexSignature() bool {
	return p.lookahead(func() bool {
		p.advance()
		if !p.at(token.Ident) {
			return false
		}
		p.advance()
		return p.at(token.Colon)
	})
}

// parseIndexSignature parses [name: T]: U as a class member or type member.
func (p *Parser) parseIndexSignature(start token.Token, kind ast.Kind, flags ast.Flags) (ast.NodeID, bool) {
	p.advance() // [
	p.inType++
	defer func() { p.inType-- }()
	name := p.advance()
	binding := p.tree.Ident(name.Text, name.Span)
	pty, ok := p.parseTypeAnnotation()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
		return ast.NoNodeID, false
	}
	param := p.tree.New(ast.KindParam, p.span(name.Span), binding, ast.NoNodeID)
	p.tree.Get(param).Type = pty
	ty := ast.NoNodeID
	if p.at(token.Colon) {
		if ty, ok = p.parseTypeAnnotation(); !ok {
			return ast.NoNodeID, false
		}
	}
	id := p.tree.New(kind, p.span(start.Span), param)
	n := p.tree.Get(id)
	n.Type = ty
	n.Flags |= flags
	return id, true
}

func (p *Parser) isConstructorKey(key ast.NodeID) bool {
	n := p.tree.Get(key)
	switch {
	case n.Kind == ast.KindIdent:
		return n.Text == "constructor"
	case n.Kind == ast.KindLiteral && n.Op == token.StringLit:
		return len(n.Text) == len("constructor")+2 && n.Text[1:len(n.Text)-1] == "constructor"
	}
	return false
}
