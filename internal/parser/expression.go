package parser

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseExpression parses a comma-separated expression.
func (p *Parser) parseExpression() (ast.NodeID, bool) {
	first, ok := p.parseAssign()
	if !ok || !p.at(token.Comma) {
		return first, ok
	}
	kids := []ast.NodeID{first}
	for p.eat(token.Comma) {
		e, ok := p.parseAssign()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, e)
	}
	return p.tree.New(ast.KindSeq, p.spanFrom(first), kids...), true
}

// withIn runs fn with the 'in' operator enabled, as inside brackets and
// parentheses.
func (p *Parser) withIn(fn func() (ast.NodeID, bool)) (ast.NodeID, bool) {
	prev := p.noIn
	p.noIn = false
	defer func() { p.noIn = prev }()
	return fn()
}

// parseAssign parses an AssignmentExpression, including arrow functions and
// yield.
func (p *Parser) parseAssign() (ast.NodeID, bool) {
	tok := p.peek()
	if tok.Is("yield") && p.fn.generator {
		return p.parseYield()
	}
	if id, ok, handled := p.tryArrow(); handled {
		return id, ok
	}

	left, ok := p.parseConditional()
	if !ok {
		return ast.NoNodeID, false
	}
	op := p.peek()
	if !op.Kind.IsAssign() {
		return left, true
	}
	if op.Kind == token.Assign {
		left, ok = p.toAssignTarget(left)
	} else {
		ok = p.checkSimpleTarget(left)
	}
	if !ok {
		return ast.NoNodeID, false
	}
	p.advance()
	right, ok := p.parseAssign()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.NewOp(ast.KindAssign, op.Kind, p.spanFrom(left), left, right), true
}

func (p *Parser) parseYield() (ast.NodeID, bool) {
	start := p.advance()
	var flags ast.Flags
	arg := ast.NoNodeID
	if p.eat(token.Star) {
		flags |= ast.FlagDelegate
		var ok bool
		if arg, ok = p.parseAssign(); !ok {
			return ast.NoNodeID, false
		}
	} else if !p.peek().NL && p.startsExpression() {
		var ok bool
		if arg, ok = p.parseAssign(); !ok {
			return ast.NoNodeID, false
		}
	}
	id := p.tree.New(ast.KindYield, p.span(start.Span), arg)
	p.tree.Get(id).Flags |= flags
	return id, true
}

// startsExpression reports whether the next token can begin an expression.
func (p *Parser) startsExpression() bool {
	k := p.peek().Kind
	switch k {
	case token.RParen, token.RBracket, token.RBrace, token.Semicolon, token.Comma,
		token.Colon, token.EOF, token.Question, token.Arrow, token.Gt, token.KwIn, token.KwInstanceof:
		return false
	case token.Plus, token.Minus, token.Lt, token.Slash, token.SlashAssign:
		return true
	}
	return !k.IsAssign() && BinaryPrec(k) == precNone
}

func (p *Parser) parseConditional() (ast.NodeID, bool) {
	test, ok := p.parseBinary(precNone)
	if !ok || !p.at(token.Question) {
		return test, ok
	}
	p.advance()
	cons, ok := p.withIn(p.parseAssign)
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression"); !ok {
		return ast.NoNodeID, false
	}
	alt, ok := p.parseAssign()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.KindConditional, p.spanFrom(test), test, cons, alt), true
}

// rescanGreater glues a lone '>' with what follows it when it is an operator.
func (p *Parser) rescanGreater() token.Token {
	tok := p.peek()
	if tok.Kind != token.Gt {
		return tok
	}
	tok = p.lx.ReScanGreater(tok)
	p.lx.Push(tok)
	return tok
}

func (p *Parser) parseBinary(minPrec int) (ast.NodeID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.parseBinaryRest(left, minPrec)
}

func (p *Parser) parseBinaryRest(left ast.NodeID, minPrec int) (ast.NodeID, bool) {
	for {
		tok := p.rescanGreater()

		if (tok.Is("as") || tok.Is("satisfies")) && !tok.NL && precRelational > minPrec {
			p.advance()
			p.requireTS(tok)
			kind := ast.KindAs
			if tok.Text == "satisfies" {
				kind = ast.KindSatisfies
			}
			var ty ast.NodeID
			if kind == ast.KindAs && p.at(token.KwConst) {
				c := p.advance()
				ty = p.tree.NewText(ast.KindTypeKeyword, c.Span, "const")
			} else {
				var ok bool
				if ty, ok = p.parseType(); !ok {
					return ast.NoNodeID, false
				}
			}
			left = p.tree.New(kind, p.spanFrom(left), left)
			p.tree.Get(left).Type = ty
			continue
		}

		prec, rightAssoc := p.binaryPrec(tok.Kind)
		if prec <= minPrec {
			return left, true
		}
		p.advance()
		if tok.Kind == token.StarStar {
			// -a ** b неоднозначно: унарный операнд слева допустим только в скобках
			if k := p.tree.Kind(left); k == ast.KindUnary || k == ast.KindAwait {
				p.errAt(tok.Span, diag.SynUnexpectedToken, "unary operand of '**' must be parenthesized")
			}
		}
		next := prec
		if rightAssoc {
			next = prec - 1
		}
		right, ok := p.parseBinary(next)
		if !ok {
			return ast.NoNodeID, false
		}
		left = p.tree.NewOp(ast.KindBinary, tok.Kind, p.spanFrom(left), left, right)
	}
}

func (p *Parser) parseUnary() (ast.NodeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Bang, token.Tilde, token.Plus, token.Minus, token.KwTypeof, token.KwVoid, token.KwDelete:
		p.advance()
		arg, ok := p.parseUnary()
		if !ok {
			return ast.NoNodeID, false
		}
		if tok.Kind == token.KwDelete && p.syn.StrictEarlyErrors && p.tree.Kind(p.tree.Unparen(arg)) == ast.KindIdent {
			p.errAt(p.tree.Span(arg), diag.SynStrictDeleteIdent, "deleting an identifier is not allowed in strict mode")
		}
		return p.tree.NewOp(ast.KindUnary, tok.Kind, p.span(tok.Span), arg), true
	case token.PlusPlus, token.MinusMinus:
		p.advance()
		arg, ok := p.parseUnary()
		if !ok || !p.checkSimpleTarget(arg) {
			return ast.NoNodeID, false
		}
		id := p.tree.NewOp(ast.KindUpdate, tok.Kind, p.span(tok.Span), arg)
		p.tree.Get(id).Flags |= ast.FlagPrefix
		return id, true
	case token.Lt:
		if p.syn.TypeScript() && !p.syn.JSX() {
			return p.parseTypeAssertion()
		}
	case token.Ident:
		if tok.Is("await") && (p.fn.async || !p.fn.inFunc) && p.inType == 0 {
			p.advance()
			arg, ok := p.parseUnary()
			if !ok {
				return ast.NoNodeID, false
			}
			return p.tree.New(ast.KindAwait, p.span(tok.Span), arg), true
		}
	}
	return p.parsePostfixUpdate()
}

// parseTypeAssertion parses <T>expr (TypeScript without JSX).
func (p *Parser) parseTypeAssertion() (ast.NodeID, bool) {
	lt := p.advance()
	ty, ok := p.parseType()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expectGt(); !ok {
		return ast.NoNodeID, false
	}
	arg, ok := p.parseUnary()
	if !ok {
		return ast.NoNodeID, false
	}
	id := p.tree.New(ast.KindTypeAssert, p.span(lt.Span), arg)
	p.tree.Get(id).Type = ty
	return id, true
}

func (p *Parser) parsePostfixUpdate() (ast.NodeID, bool) {
	expr, ok := p.parseLHS()
	if !ok {
		return ast.NoNodeID, false
	}
	tok := p.peek()
	if (tok.Kind == token.PlusPlus || tok.Kind == token.MinusMinus) && !tok.NL {
		if !p.checkSimpleTarget(expr) {
			return ast.NoNodeID, false
		}
		p.advance()
		return p.tree.NewOp(ast.KindUpdate, tok.Kind, p.spanFrom(expr), expr), true
	}
	return expr, true
}
