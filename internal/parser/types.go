package parser

import (
	"strings"

	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// Типы разбираются полностью, но только для того, чтобы их потом стереть.
// Дерево типов нужно для корректного пропуска и для дампов.

var typeKeywords = map[string]bool{
	"any": true, "unknown": true, "number": true, "bigint": true, "boolean": true,
	"string": true, "symbol": true, "object": true, "never": true, "undefined": true,
	"intrinsic": true,
}

// parseTypeAnnotation parses ':' Type.
func (p *Parser) parseTypeAnnotation() (ast.NodeID, bool) {
	colon, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':'")
	if !ok {
		return ast.NoNodeID, false
	}
	p.requireTS(colon)
	return p.parseType()
}

// parseReturnTypeOpt parses an optional ': T' after a parameter list,
// including type predicates.
func (p *Parser) parseReturnTypeOpt() (ast.NodeID, bool) {
	if !p.at(token.Colon) {
		return ast.NoNodeID, true
	}
	colon := p.advance()
	p.requireTS(colon)
	p.inType++
	defer func() { p.inType-- }()
	return p.parseTypeOrPredicate()
}

// parseTypeOrPredicate parses T, x is T, asserts x, asserts x is T or this is T.
func (p *Parser) parseTypeOrPredicate() (ast.NodeID, bool) {
	tok := p.peek()
	if tok.Is("asserts") {
		next := p.peek2()
		if !next.NL && (next.Kind == token.Ident || next.Kind == token.KwThis) {
			p.advance()
			name := p.predicateSubject()
			ty := ast.NoNodeID
			if t := p.peek(); t.Is("is") && !t.NL {
				p.advance()
				var ok bool
				if ty, ok = p.parseType(); !ok {
					return ast.NoNodeID, false
				}
			}
			id := p.tree.New(ast.KindTypePredicate, p.span(tok.Span), name, ty)
			p.tree.Get(id).Flags |= ast.FlagAsserts
			return id, true
		}
	}
	if tok.Kind == token.Ident || tok.Kind == token.KwThis {
		if next := p.peek2(); next.Is("is") && !next.NL {
			name := p.predicateSubject()
			p.advance() // is
			ty, ok := p.parseType()
			if !ok {
				return ast.NoNodeID, false
			}
			return p.tree.New(ast.KindTypePredicate, p.span(tok.Span), name, ty), true
		}
	}
	return p.parseType()
}

func (p *Parser) predicateSubject() ast.NodeID {
	tok := p.advance()
	if tok.Kind == token.KwThis {
		return p.tree.New(ast.KindThis, tok.Span)
	}
	return p.tree.Ident(tok.Text, tok.Span)
}

// parseType parses a full type, conditional types included.
func (p *Parser) parseType() (ast.NodeID, bool) {
	p.inType++
	defer func() { p.inType-- }()
	return p.parseTypeInner(false)
}

// parseTypeInner parses a type. noCond is set while parsing the extends
// clause of a conditional type, where a nested 'extends' belongs to the
// outer type.
func (p *Parser) parseTypeInner(noCond bool) (ast.NodeID, bool) {
	if p.startsFunctionType() {
		return p.parseFunctionType()
	}
	start := p.peek()
	check, ok := p.parseUnionType(noCond)
	if !ok {
		return ast.NoNodeID, false
	}
	if noCond || !p.at(token.KwExtends) || p.peek().NL {
		return check, true
	}
	p.advance()
	ext, ok := p.parseTypeInner(true)
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.Question, diag.SynExpectType, "expected '?' in conditional type"); !ok {
		return ast.NoNodeID, false
	}
	yes, ok := p.parseTypeInner(false)
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' in conditional type"); !ok {
		return ast.NoNodeID, false
	}
	no, ok := p.parseTypeInner(false)
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindTypeConditional, p.span(start.Span), check, ext, yes, no), true
}

// startsFunctionType reports whether the next tokens begin (a) => T,
// <T>(a) => T, new (...) => T or abstract new (...) => T.
func (p *Parser) startsFunctionType() bool {
	tok := p.peek()
	switch {
	case tok.Kind == token.Lt:
		return true
	case tok.Kind == token.KwNew:
		return true
	case tok.Is("abstract"):
		return p.peek2().Kind == token.KwNew
	case tok.Kind != token.LParen:
		return false
	}
	return p.lookahead(func() bool {
		p.advance()
		switch p.peek().Kind {
		case token.RParen, token.DotDotDot:
			return true
		case token.LBracket, token.LBrace:
			if _, ok := p.parseBindingTarget(); !ok {
				return false
			}
		case token.Ident, token.KwThis:
			p.advance()
		default:
			return false
		}
		switch p.peek().Kind {
		case token.Colon, token.Comma, token.Question, token.Assign:
			return true
		case token.RParen:
			p.advance()
			return p.at(token.Arrow)
		}
		return false
	})
}

// parseFunctionType parses function and constructor types.
func (p *Parser) parseFunctionType() (ast.NodeID, bool) {
	start := p.peek()
	kind := ast.KindTypeFunction
	var flags ast.Flags
	if p.eatWord("abstract") {
		flags |= ast.FlagAbstract
	}
	if p.eat(token.KwNew) {
		kind = ast.KindTypeConstructor
	}
	tparams, ok := p.parseTypeParamsOpt()
	if !ok {
		return ast.NoNodeID, false
	}
	prev := p.fn
	params, ok := p.parseParams(false)
	p.fn = prev
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.Arrow, diag.SynExpectType, "expected '=>' in function type"); !ok {
		return ast.NoNodeID, false
	}
	ret, ok := p.parseTypeOrPredicate()
	if !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.New(kind, p.span(start.Span), params)
	n := p.tree.Get(id)
	n.Type, n.TArgs = ret, tparams
	n.Flags |= flags
	return id, true
}

func (p *Parser) parseUnionType(noCond bool) (ast.NodeID, bool) {
	return p.parseTypeList(token.Pipe, ast.KindTypeUnion, func() (ast.NodeID, bool) {
		return p.parseTypeList(token.Amp, ast.KindTypeIntersection, func() (ast.NodeID, bool) {
			return p.parseTypeOperator(noCond)
		})
	})
}

// parseTypeList parses a '|' or '&' separated list with an optional leading
// separator. A single member without a leading separator is returned as is.
func (p *Parser) parseTypeList(sep token.Kind, kind ast.Kind, elem func() (ast.NodeID, bool)) (ast.NodeID, bool) {
	start := p.peek()
	leading := p.eat(sep)
	first, ok := elem()
	if !ok {
		return ast.NoNodeID, false
	}
	if !leading && !p.at(sep) {
		return first, true
	}
	kids := []ast.NodeID{first}
	for p.eat(sep) {
		if p.startsFunctionType() {
			first, ok = p.parseFunctionType()
		} else {
			first, ok = elem()
		}
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, first)
	}
	if len(kids) == 1 {
		return first, true
	}
	return p.tree.New(kind, p.span(start.Span), kids...), true
}

// parseTypeOperator parses keyof T, unique symbol, readonly T[] and infer U.
func (p *Parser) parseTypeOperator(noCond bool) (ast.NodeID, bool) {
	tok := p.peek()
	if tok.Kind == token.Ident && !tok.Escaped {
		switch tok.Text {
		case "keyof", "unique", "readonly":
			if p.startsTypeAfter() {
				p.advance()
				arg, ok := p.parseTypeOperator(noCond)
				if !ok {
					return ast.NoNodeID, false
				}
				id := p.tree.New(ast.KindTypeOperator, p.span(tok.Span), arg)
				p.tree.Get(id).Text = tok.Text
				return id, true
			}
		case "infer":
			if p.peek2().Kind == token.Ident {
				p.advance()
				return p.parseInfer(tok, noCond)
			}
		}
	}
	return p.parsePostfixType()
}

// startsTypeAfter reports whether the token after the next one can start a
// type, so that 'keyof' is an operator and not a type name.
func (p *Parser) startsTypeAfter() bool {
	next := p.peek2()
	switch next.Kind {
	case token.Ident, token.LParen, token.LBracket, token.LBrace, token.KwTypeof,
		token.KwVoid, token.KwNull, token.KwThis, token.StringLit, token.NumberLit,
		token.BigIntLit, token.KwTrue, token.KwFalse, token.Minus, token.KwImport,
		token.NoSubstTemplate, token.TemplateHead:
		return true
	}
	return false
}

func (p *Parser) parseInfer(start token.Token, noCond bool) (ast.NodeID, bool) {
	nameTok := p.advance()
	name := p.tree.Ident(nameTok.Text, nameTok.Span)
	constraint := ast.NoNodeID
	if p.at(token.KwExtends) {
		// infer U extends C ? X : Y: здесь extends относится к внешнему типу
		p.speculate(func() bool {
			p.advance()
			c, ok := p.parseTypeInner(true)
			if !ok || (noCond && p.at(token.Question)) {
				return false
			}
			constraint = c
			return true
		})
	}
	param := p.tree.New(ast.KindTypeParam, p.span(nameTok.Span), name, constraint, ast.NoNodeID)
	return p.tree.New(ast.KindTypeInfer, p.span(start.Span), param), true
}

// parsePostfixType parses array types and indexed access types.
func (p *Parser) parsePostfixType() (ast.NodeID, bool) {
	ty, ok := p.parsePrimaryType()
	if !ok {
		return ast.NoNodeID, false
	}
	for {
		tok := p.peek()
		if tok.Kind != token.LBracket || tok.NL {
			return ty, true
		}
		p.advance()
		if p.eat(token.RBracket) {
			ty = p.tree.New(ast.KindTypeArray, p.spanFrom(ty), ty)
			continue
		}
		idx, ok := p.parseTypeInner(false)
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
			return ast.NoNodeID, false
		}
		ty = p.tree.New(ast.KindTypeIndexed, p.spanFrom(ty), ty, idx)
	}
}

func (p *Parser) parsePrimaryType() (ast.NodeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		if typeKeywords[tok.Text] && !tok.Escaped && p.peek2().Kind != token.Dot {
			p.advance()
			return p.tree.NewText(ast.KindTypeKeyword, tok.Span, tok.Text), true
		}
		return p.parseTypeReference()
	case token.KwVoid, token.KwNull:
		p.advance()
		return p.tree.NewText(ast.KindTypeKeyword, tok.Span, tok.Text), true
	case token.KwThis:
		p.advance()
		return p.tree.NewText(ast.KindTypeKeyword, tok.Span, "this"), true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.tree.New(ast.KindTypeLit, tok.Span, p.tree.Keyword(tok.Kind, tok.Span)), true
	case token.StringLit, token.NumberLit, token.BigIntLit:
		p.advance()
		lit := p.tree.Add(ast.Node{Kind: ast.KindLiteral, Op: tok.Kind, Text: tok.Text, Span: tok.Span})
		return p.tree.New(ast.KindTypeLit, tok.Span, lit), true
	case token.Minus:
		p.advance()
		num := p.peek()
		if num.Kind != token.NumberLit && num.Kind != token.BigIntLit {
			return p.unexpected("numeric literal type")
		}
		p.advance()
		lit := p.tree.Add(ast.Node{Kind: ast.KindLiteral, Op: num.Kind, Text: num.Text, Span: num.Span})
		neg := p.tree.NewOp(ast.KindUnary, token.Minus, p.span(tok.Span), lit)
		return p.tree.New(ast.KindTypeLit, p.span(tok.Span), neg), true
	case token.NoSubstTemplate, token.TemplateHead:
		return p.parseTemplateType()
	case token.KwTypeof:
		return p.parseTypeQuery()
	case token.KwImport:
		return p.parseImportType()
	case token.LBrace:
		if p.isMappedType() {
			return p.parseMappedType()
		}
		return p.parseTypeLiteral()
	case token.LBracket:
		return p.parseTupleType()
	case token.LParen:
		p.advance()
		inner, ok := p.parseTypeInner(false)
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.KindTypeParen, p.span(tok.Span), inner), true
	}
	if tok.Kind == token.EOF {
		p.err(diag.SynUnterminatedType, "unexpected end of input in type")
		return ast.NoNodeID, false
	}
	p.err(diag.SynExpectType, "expected a type, got "+describe(tok))
	return ast.NoNodeID, false
}

// parseTypeReference parses A, A.B.C and A<T>.
func (p *Parser) parseTypeReference() (ast.NodeID, bool) {
	p.inType++
	defer func() { p.inType-- }()
	start := p.peek()
	name, ok := p.parseEntityName()
	if !ok {
		return ast.NoNodeID, false
	}
	targs := ast.NoNodeID
	if tok := p.peek(); (tok.Kind == token.Lt || tok.Kind == token.Shl) && !tok.NL {
		if targs, ok = p.parseTypeArgs(); !ok {
			return ast.NoNodeID, false
		}
	}
	id := p.tree.New(ast.KindTypeRef, p.span(start.Span), name)
	p.tree.Get(id).TArgs = targs
	return id, true
}

// parseEntityName parses a dotted name: A.B.C.
func (p *Parser) parseEntityName() (ast.NodeID, bool) {
	tok := p.peek()
	var name ast.NodeID
	switch tok.Kind {
	case token.Ident:
		p.advance()
		name = p.tree.Ident(tok.Text, tok.Span)
	case token.KwThis:
		p.advance()
		name = p.tree.New(ast.KindThis, tok.Span)
	default:
		if tok.Kind.IsKeyword() {
			p.err(diag.SynExpectIdentifier, "'"+tok.Text+"' is a reserved word and cannot be used as a type name")
			return ast.NoNodeID, false
		}
		return p.unexpected("type name")
	}
	for p.at(token.Dot) {
		p.advance()
		right, ok := p.parseMemberName()
		if !ok {
			return ast.NoNodeID, false
		}
		name = p.tree.New(ast.KindTypeQualified, p.spanFrom(name), name, right)
	}
	return name, true
}

// parseTypeQuery parses typeof x.y<T> and typeof import("m").
func (p *Parser) parseTypeQuery() (ast.NodeID, bool) {
	start := p.advance()
	var name ast.NodeID
	var ok bool
	if p.at(token.KwImport) {
		name, ok = p.parseImportType()
	} else {
		name, ok = p.parseEntityName()
	}
	if !ok {
		return ast.NoNodeID, false
	}
	targs := ast.NoNodeID
	if tok := p.peek(); tok.Kind == token.Lt && !tok.NL {
		if targs, ok = p.parseTypeArgs(); !ok {
			return ast.NoNodeID, false
		}
	}
	id := p.tree.New(ast.KindTypeQuery, p.span(start.Span), name)
	p.tree.Get(id).TArgs = targs
	return id, true
}

// parseImportType parses import("m").A.B<T>.
func (p *Parser) parseImportType() (ast.NodeID, bool) {
	start := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after import"); !ok {
		return ast.NoNodeID, false
	}
	src := p.peek()
	if src.Kind != token.StringLit {
		return p.unexpected("module specifier")
	}
	p.advance()
	source := p.tree.String(src.Text, src.Span)
	if p.eat(token.Comma) && !p.at(token.RParen) {
		// import("m", { with: {...} })
		if _, ok := p.withIn(p.parseAssign); !ok {
			return ast.NoNodeID, false
		}
		p.eat(token.Comma)
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return ast.NoNodeID, false
	}
	qual := ast.NoNodeID
	for p.at(token.Dot) {
		p.advance()
		right, ok := p.parseMemberName()
		if !ok {
			return ast.NoNodeID, false
		}
		if qual.IsValid() {
			qual = p.tree.New(ast.KindTypeQualified, p.spanFrom(qual), qual, right)
		} else {
			qual = right
		}
	}
	targs := ast.NoNodeID
	if tok := p.peek(); tok.Kind == token.Lt && !tok.NL {
		var ok bool
		if targs, ok = p.parseTypeArgs(); !ok {
			return ast.NoNodeID, false
		}
	}
	id := p.tree.New(ast.KindTypeImport, p.span(start.Span), source, qual)
	p.tree.Get(id).TArgs = targs
	return id, true
}

// parseTemplateType parses `prefix${T}suffix`.
func (p *Parser) parseTemplateType() (ast.NodeID, bool) {
	head := p.advance()
	kids := []ast.NodeID{p.tree.NewText(ast.KindTemplateElem, head.Span, templateRaw(head))}
	if head.Kind == token.NoSubstTemplate {
		return p.tree.New(ast.KindTypeTemplate, head.Span, kids...), true
	}
	for {
		ty, ok := p.parseTypeInner(false)
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, ty)
		tok := p.peek()
		if tok.Kind != token.RBrace {
			p.err(diag.SynUnexpectedToken, "expected '}' to close template type substitution")
			return ast.NoNodeID, false
		}
		cont := p.consume(p.lx.ReScanTemplateContinuation(tok))
		if cont.Kind != token.TemplateMiddle && cont.Kind != token.TemplateTail {
			return ast.NoNodeID, false
		}
		kids = append(kids, p.tree.NewText(ast.KindTemplateElem, cont.Span, templateRaw(cont)))
		if cont.Kind == token.TemplateTail {
			return p.tree.New(ast.KindTypeTemplate, p.span(head.Span), kids...), true
		}
	}
}

// parseTupleType parses [A, B?, ...C] and [name: A, rest?: B].
func (p *Parser) parseTupleType() (ast.NodeID, bool) {
	open := p.advance()
	var kids []ast.NodeID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		el, ok := p.parseTupleElement()
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
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close tuple type"); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindTypeTuple, p.span(open.Span), kids...), true
}

func (p *Parser) parseTupleElement() (ast.NodeID, bool) {
	start := p.peek()
	var flags ast.Flags
	if p.eat(token.DotDotDot) {
		flags |= ast.FlagRest
	}
	if tok := p.peek(); tok.Kind.IsIdentName() {
		if next := p.peek2(); next.Kind == token.Colon || next.Kind == token.Question {
			named := p.lookahead(func() bool {
				p.advance()
				p.eat(token.Question)
				return p.at(token.Colon)
			})
			if named {
				p.advance()
				name := p.tree.Ident(tok.Text, tok.Span)
				if p.eat(token.Question) {
					flags |= ast.FlagOptional
				}
				p.advance() // :
				ty, ok := p.parseTypeInner(false)
				if !ok {
					return ast.NoNodeID, false
				}
				id := p.tree.New(ast.KindTypeNamedMember, p.span(start.Span), name, ty)
				p.tree.Get(id).Flags |= flags
				return id, true
			}
		}
	}
	ty, ok := p.parseTypeInner(false)
	if !ok {
		return ast.NoNodeID, false
	}
	if flags.Has(ast.FlagRest) {
		return p.tree.New(ast.KindTypeRest, p.span(start.Span), ty), true
	}
	if p.at(token.Question) {
		p.advance()
		return p.tree.New(ast.KindTypeOptional, p.span(start.Span), ty), true
	}
	return ty, true
}

// isMappedType looks for '{' [+|-]readonly? '[' ident 'in'.
func (p *Parser) isMappedType() bool {
	return p.lookahead(func() bool {
		p.advance()
		if p.at(token.Plus) || p.at(token.Minus) {
			p.advance()
			if !p.atWord("readonly") {
				return false
			}
		}
		p.eatWord("readonly")
		if !p.eat(token.LBracket) || !p.at(token.Ident) {
			return false
		}
		p.advance()
		return p.at(token.KwIn)
	})
}

// parseMappedType parses { readonly [K in T as N]?: V }. Modifiers are kept
// in Text as written, e.g. "-readonly ?".
func (p *Parser) parseMappedType() (ast.NodeID, bool) {
	open := p.advance()
	var mods string
	if tok := p.peek(); tok.Kind == token.Plus || tok.Kind == token.Minus {
		p.advance()
		mods = tok.Text
	}
	if p.eatWord("readonly") {
		mods += "readonly"
	}
	p.advance() // [
	nameTok := p.advance()
	p.advance() // in
	constraint, ok := p.parseTypeInner(false)
	if !ok {
		return ast.NoNodeID, false
	}
	param := p.tree.New(ast.KindTypeParam, p.span(nameTok.Span), p.tree.Ident(nameTok.Text, nameTok.Span), constraint, ast.NoNodeID)
	nameType := ast.NoNodeID
	if p.eatWord("as") {
		if nameType, ok = p.parseTypeInner(false); !ok {
			return ast.NoNodeID, false
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' in mapped type"); !ok {
		return ast.NoNodeID, false
	}
	opt := ""
	if tok := p.peek(); tok.Kind == token.Plus || tok.Kind == token.Minus {
		p.advance()
		opt = tok.Text
		if _, ok := p.expect(token.Question, diag.SynExpectType, "expected '?' after '"+tok.Text+"'"); !ok {
			return ast.NoNodeID, false
		}
		opt += "?"
	} else if p.eat(token.Question) {
		opt = "?"
	}
	if opt != "" {
		if mods != "" {
			mods += " "
		}
		mods += opt
	}
	value := ast.NoNodeID
	if p.eat(token.Colon) {
		if value, ok = p.parseTypeInner(false); !ok {
			return ast.NoNodeID, false
		}
	}
	p.eat(token.Semicolon)
	p.eat(token.Comma)
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close mapped type"); !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindTypeMapped, p.span(open.Span), param, nameType, value)
	p.tree.Get(id).Text = mods
	return id, true
}

// parseTypeLiteral parses { members } of a type literal or interface body.
func (p *Parser) parseTypeLiteral() (ast.NodeID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoNodeID, false
	}
	p.inType++
	defer func() { p.inType-- }()
	var members []ast.NodeID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		m, ok := p.parseTypeMember()
		if !ok {
			return ast.NoNodeID, false
		}
		members = append(members, m)
		if p.eat(token.Semicolon) || p.eat(token.Comma) {
			continue
		}
		if tok := p.peek(); tok.Kind != token.RBrace && !tok.NL {
			p.err(diag.SynExpectSemicolon, "expected ';' or newline between type members, got "+describe(tok))
			return ast.NoNodeID, false
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close type literal"); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindTypeLiteral, p.span(open.Span), members...), true
}

// parseTypeMember parses one member of a type literal: property, method,
// call signature, construct signature or index signature.
func (p *Parser) parseTypeMember() (ast.NodeID, bool) {
	start := p.peek()
	switch start.Kind {
	case token.LParen, token.Lt:
		return p.parseSignature(start, ast.KindTypeCallSig, ast.NoNodeID)
	case token.KwNew:
		if next := p.peek2(); next.Kind == token.LParen || next.Kind == token.Lt {
			p.advance()
			return p.parseSignature(start, ast.KindTypeConstructSig, ast.NoNodeID)
		}
	}

	var flags ast.Flags
	if start.Is("readonly") && isPropertyKeyStart(p.peek2()) {
		p.advance()
		flags |= ast.FlagReadonly
	}
	if p.at(token.LBracket) && p.isIndexSignature() {
		return p.parseIndexSignature(start, ast.KindTypeIndexSig, flags)
	}
	kind := ""
	if tok := p.peek(); tok.Is("get") || tok.Is("set") {
		if next := p.peek2(); !next.NL && isPropertyKeyStart(next) {
			p.advance()
			kind = tok.Text
		}
	}
	key, kflags, ok := p.parsePropertyKey()
	if !ok {
		return ast.NoNodeID, false
	}
	flags |= kflags
	if p.eat(token.Question) {
		flags |= ast.FlagOptional
	}
	if kind != "" || p.atOr(token.LParen, token.Lt) {
		id, ok := p.parseSignature(start, ast.KindTypeMethod, key)
		if ok {
			n := p.tree.Get(id)
			n.Flags |= flags
			n.Text = kind
		}
		return id, ok
	}
	ty := ast.NoNodeID
	if p.eat(token.Colon) {
		if ty, ok = p.parseTypeInner(false); !ok {
			return ast.NoNodeID, false
		}
	}
	id := p.tree.New(ast.KindTypeProperty, p.span(start.Span), key)
	n := p.tree.Get(id)
	n.Type = ty
	n.Flags |= flags
	return id, true
}

// parseSignature parses <T>(params): R for call, construct and method
// signatures. key is set only for methods.
func (p *Parser) parseSignature(start token.Token, kind ast.Kind, key ast.NodeID) (ast.NodeID, bool) {
	tparams, ok := p.parseTypeParamsOpt()
	if !ok {
		return ast.NoNodeID, false
	}
	prev := p.fn
	params, ok := p.parseParams(false)
	p.fn = prev
	if !ok {
		return ast.NoNodeID, false
	}
	ret := ast.NoNodeID
	if p.eat(token.Colon) {
		if ret, ok = p.parseTypeOrPredicate(); !ok {
			return ast.NoNodeID, false
		}
	}
	var id ast.NodeID
	if key.IsValid() {
		id = p.tree.New(kind, p.span(start.Span), key, params)
	} else {
		id = p.tree.New(kind, p.span(start.Span), params)
	}
	n := p.tree.Get(id)
	n.Type, n.TArgs = ret, tparams
	return id, true
}

// parseTypeParamsOpt parses an optional <T extends C = D, ...> list.
func (p *Parser) parseTypeParamsOpt() (ast.NodeID, bool) {
	if !p.at(token.Lt) {
		return ast.NoNodeID, true
	}
	lt := p.advance()
	p.requireTS(lt)
	p.inType++
	defer func() { p.inType-- }()
	var kids []ast.NodeID
	for !p.at(token.Gt) && !p.at(token.EOF) {
		start := p.peek()
		var mods []string
		for {
			tok := p.peek()
			if !tok.Is("out") && tok.Kind != token.KwIn && tok.Kind != token.KwConst {
				break
			}
			if p.peek2().Kind != token.Ident {
				break
			}
			p.advance()
			mods = append(mods, tok.Text)
		}
		name, ok := p.parseBindingIdent()
		if !ok {
			return ast.NoNodeID, false
		}
		constraint := ast.NoNodeID
		if p.eat(token.KwExtends) {
			if constraint, ok = p.parseTypeInner(false); !ok {
				return ast.NoNodeID, false
			}
		}
		def := ast.NoNodeID
		if p.eat(token.Assign) {
			if def, ok = p.parseTypeInner(false); !ok {
				return ast.NoNodeID, false
			}
		}
		param := p.tree.New(ast.KindTypeParam, p.span(start.Span), name, constraint, def)
		if len(mods) > 0 {
			p.tree.Get(param).Text = strings.Join(mods, " ")
		}
		kids = append(kids, param)
		if !p.at(token.Gt) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or '>'"); !ok {
				return ast.NoNodeID, false
			}
		}
	}
	if len(kids) == 0 {
		p.err(diag.SynExpectIdentifier, "type parameter list cannot be empty")
		return ast.NoNodeID, false
	}
	if _, ok := p.expectGt(); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindTypeParams, p.span(lt.Span), kids...), true
}

// parseTypeArgs parses <A, B>. A leading '<<' or '<=' is split first.
func (p *Parser) parseTypeArgs() (ast.NodeID, bool) {
	tok := p.peek()
	if tok.Kind == token.Shl || tok.Kind == token.LtEq {
		tok = p.lx.ReScanLessThan(tok)
		p.lx.Push(tok)
	}
	lt, ok := p.expect(token.Lt, diag.SynUnexpectedToken, "expected '<'")
	if !ok {
		return ast.NoNodeID, false
	}
	p.requireTS(lt)
	p.inType++
	defer func() { p.inType-- }()
	var kids []ast.NodeID
	for !p.at(token.Gt) && !p.at(token.EOF) {
		ty, ok := p.parseTypeInner(false)
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, ty)
		if !p.at(token.Gt) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' or '>'"); !ok {
				return ast.NoNodeID, false
			}
		}
	}
	if len(kids) == 0 {
		p.err(diag.SynExpectType, "type argument list cannot be empty")
		return ast.NoNodeID, false
	}
	if _, ok := p.expectGt(); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindTypeArgs, p.span(lt.Span), kids...), true
}
