package parser

import (
	"strings"

	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/token"
)

// parseJSXElementOrFragment parses a JSX element or fragment at '<'.
func (p *Parser) parseJSXElementOrFragment() (ast.NodeID, bool) {
	lt := p.advance()
	return p.parseJSXAfterLt(lt)
}

// parseJSXAfterLt parses the rest of an element whose '<' is already consumed.
func (p *Parser) parseJSXAfterLt(lt token.Token) (ast.NodeID, bool) {
	if p.at(token.Gt) {
		p.advance()
		children, ok := p.parseJSXChildren(lt, ast.NoNodeID)
		if !ok {
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.KindJSXFragment, p.span(lt.Span), children), true
	}

	name, ok := p.parseJSXElementName()
	if !ok {
		return ast.NoNodeID, false
	}
	targs := ast.NoNodeID
	if p.at(token.Lt) && p.syn.TypeScript() {
		if targs, ok = p.parseTypeArgs(); !ok {
			return ast.NoNodeID, false
		}
	}
	attrs, ok := p.parseJSXAttributes(lt)
	if !ok {
		return ast.NoNodeID, false
	}

	var children ast.NodeID
	if p.at(token.Slash) {
		p.advance()
		if _, ok := p.expectGt(); !ok {
			return ast.NoNodeID, false
		}
		children = p.tree.New(ast.KindJSXChildren, p.lastSpan.AtStart())
	} else {
		if _, ok := p.expectGt(); !ok {
			return ast.NoNodeID, false
		}
		if children, ok = p.parseJSXChildren(lt, name); !ok {
			return ast.NoNodeID, false
		}
	}
	id := p.tree.New(ast.KindJSXElement, p.span(lt.Span), name, attrs, children)
	p.tree.Get(id).TArgs = targs
	return id, true
}

// parseJSXIdentPart rescans the next token as a JSX identifier (may contain '-').
func (p *Parser) parseJSXIdentPart() (token.Token, bool) {
	tok := p.peek()
	if !tok.Kind.IsIdentName() {
		if tok.Kind == token.EOF {
			return tok, false
		}
		p.err(diag.SynExpectIdentifier, "expected JSX identifier, got "+describe(tok))
		return tok, false
	}
	tok = p.lx.ReScanJSXIdent(tok)
	p.lx.Push(tok)
	return p.advance(), true
}

// parseJSXElementName parses div, my-elem, svg:path and Foo.Bar.Baz.
func (p *Parser) parseJSXElementName() (ast.NodeID, bool) {
	first, ok := p.parseJSXIdentPart()
	if !ok {
		if first.Kind == token.EOF {
			p.err(diag.SynUnterminatedJSX, "unterminated JSX element")
		}
		return ast.NoNodeID, false
	}
	if p.at(token.Colon) {
		p.advance()
		local, ok := p.parseJSXIdentPart()
		if !ok {
			return ast.NoNodeID, false
		}
		return p.tree.NewText(ast.KindJSXName, p.span(first.Span), first.Text+":"+local.Text), true
	}
	name := p.tree.NewText(ast.KindJSXName, first.Span, first.Text)
	for p.at(token.Dot) {
		p.advance()
		tok := p.peek()
		if !tok.Kind.IsIdentName() {
			return p.unexpected("JSX member name")
		}
		p.advance()
		prop := p.tree.NewText(ast.KindJSXName, tok.Span, tok.Text)
		name = p.tree.New(ast.KindJSXMemberName, p.span(first.Span), name, prop)
	}
	return name, true
}

// parseJSXAttributes parses attributes up to '>' or '/>' (not consumed).
func (p *Parser) parseJSXAttributes(lt token.Token) (ast.NodeID, bool) {
	start := p.peek().Span
	var kids []ast.NodeID
	for !p.at(token.Gt) && !p.at(token.Slash) {
		tok := p.peek()
		if tok.Kind == token.EOF {
			p.errAt(lt.Span, diag.SynUnterminatedJSX, "unterminated JSX element")
			return ast.NoNodeID, false
		}
		if tok.Kind == token.LBrace {
			p.advance()
			if _, ok := p.expect(token.DotDotDot, diag.SynUnexpectedToken, "expected '...' in JSX spread attribute"); !ok {
				return ast.NoNodeID, false
			}
			expr, ok := p.withIn(p.parseAssign)
			if !ok {
				return ast.NoNodeID, false
			}
			if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'"); !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, p.tree.New(ast.KindJSXSpreadAttr, p.span(tok.Span), expr))
			continue
		}
		attr, ok := p.parseJSXAttribute()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, attr)
	}
	return p.tree.New(ast.KindJSXAttrs, p.span(start), kids...), true
}

func (p *Parser) parseJSXAttribute() (ast.NodeID, bool) {
	first, ok := p.parseJSXIdentPart()
	if !ok {
		return ast.NoNodeID, false
	}
	text := first.Text
	if p.at(token.Colon) {
		p.advance()
		local, ok := p.parseJSXIdentPart()
		if !ok {
			return ast.NoNodeID, false
		}
		text += ":" + local.Text
	}
	name := p.tree.NewText(ast.KindJSXName, p.span(first.Span), text)
	value := ast.NoNodeID
	if p.eat(token.Assign) {
		if value, ok = p.parseJSXAttrValue(); !ok {
			return ast.NoNodeID, false
		}
	}
	return p.tree.New(ast.KindJSXAttr, p.span(first.Span), name, value), true
}

// parseJSXAttrValue parses "str", 'str', {expr} or a nested element.
func (p *Parser) parseJSXAttrValue() (ast.NodeID, bool) {
	tok := p.peekJSXAttrValue()
	switch tok.Kind {
	case token.StringLit:
		p.advance()
		return p.tree.String(tok.Text, tok.Span), true
	case token.LBrace:
		p.advance()
		if p.at(token.RBrace) {
			p.err(diag.SynExpectExpression, "JSX attribute value must not be empty")
			return ast.NoNodeID, false
		}
		expr, ok := p.withIn(p.parseAssign)
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'"); !ok {
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.KindJSXExprContainer, p.span(tok.Span), expr), true
	case token.Lt:
		return p.parseJSXElementOrFragment()
	}
	return p.unexpected("JSX attribute value")
}

// peekJSXAttrValue peeks the attribute value. A quoted value is re-lexed by
// JSX rules: no escapes, line breaks allowed. Lexer errors from the ordinary
// scan are dropped in that case.
func (p *Parser) peekJSXAttrValue() token.Token {
	buf := &diag.BufferReporter{}
	prev := p.lx.SetReporter(buf)
	tok := p.peek()
	p.lx.SetReporter(prev)
	if tok.Kind == token.StringLit || tok.Kind == token.Invalid && (strings.HasPrefix(tok.Text, `"`) || strings.HasPrefix(tok.Text, `'`)) {
		tok = p.lx.ReScanJSXAttrString(tok)
		p.lx.Push(tok)
		return tok
	}
	buf.Flush(prev)
	return tok
}

// parseJSXChildren parses children up to and including the closing tag.
// name is the opening element name, NoNodeID for fragments.
func (p *Parser) parseJSXChildren(lt token.Token, name ast.NodeID) (ast.NodeID, bool) {
	start := p.lastSpan
	var kids []ast.NodeID
	prev := p.lastTok
	for {
		tok := p.lx.NextJSXChild(prev)
		switch tok.Kind {
		case token.EOF:
			p.errAt(lt.Span, diag.SynUnterminatedJSX, "unterminated JSX element: missing closing tag")
			return ast.NoNodeID, false
		case token.JSXText:
			p.consume(tok)
			kids = append(kids, p.tree.NewText(ast.KindJSXText, tok.Span, tok.Text))
		case token.LBrace:
			p.consume(tok)
			child, ok := p.parseJSXChildExpr(tok)
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, child)
		case token.Lt:
			p.consume(tok)
			if p.at(token.Slash) {
				p.advance()
				if !p.parseJSXClosing(name) {
					return ast.NoNodeID, false
				}
				return p.tree.New(ast.KindJSXChildren, p.span(start), kids...), true
			}
			child, ok := p.parseJSXAfterLt(tok)
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, child)
		default:
			p.consume(tok)
			return p.unexpected("JSX child")
		}
		prev = p.lastTok
	}
}

// parseJSXChildExpr parses {expr}, {...expr} and {/* comment */} after '{'.
func (p *Parser) parseJSXChildExpr(open token.Token) (ast.NodeID, bool) {
	if p.at(token.RBrace) {
		p.advance()
		return p.tree.New(ast.KindJSXExprContainer, p.span(open.Span), ast.NoNodeID), true
	}
	kind := ast.KindJSXExprContainer
	if p.eat(token.DotDotDot) {
		kind = ast.KindJSXSpreadChild
	}
	expr, ok := p.withIn(p.parseExpression)
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close JSX expression"); !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(kind, p.span(open.Span), expr), true
}

// parseJSXClosing parses the closing tag after '</' and checks that it
// matches the opening one.
func (p *Parser) parseJSXClosing(name ast.NodeID) bool {
	closeStart := p.lastSpan
	if !name.IsValid() {
		if !p.at(token.Gt) {
			p.err(diag.SynJSXMismatchedTag, "expected '</>' to close JSX fragment")
			return false
		}
		p.advance()
		return true
	}
	closing, ok := p.parseJSXElementName()
	if !ok {
		return false
	}
	want, got := p.jsxNameString(name), p.jsxNameString(closing)
	if want != got {
		p.report(diag.SynJSXMismatchedTag, diag.SevError, p.span(closeStart),
			"expected corresponding JSX closing tag for <"+want+">, got </"+got+">")
		return false
	}
	_, ok = p.expectGt()
	return ok
}

func (p *Parser) jsxNameString(id ast.NodeID) string {
	n := p.tree.Get(id)
	if n == nil {
		return ""
	}
	if n.Kind == ast.KindJSXMemberName {
		return p.jsxNameString(n.Kid(0)) + "." + p.jsxNameString(n.Kid(1))
	}
	return n.Text
}
