package emit

import (
	"mesozoic/internal/ast"
)

// function prints a function declaration or expression.
func (p *printer) function(n *ast.Node) {
	if n.Flags.Has(ast.FlagAsync) {
		p.tok("async")
		p.w.Space()
	}
	p.tok("function")
	if n.Flags.Has(ast.FlagGenerator) {
		p.tok("*")
	}
	if name := n.Kid(0); name.IsValid() {
		p.w.Space()
		p.expr(name, precLowest, 0)
	}
	p.params(n.Kid(1))
	p.w.Space()
	p.block(p.tree.Get(n.Kid(2)))
}

func (p *printer) params(id ast.NodeID) {
	p.tok("(")
	if n := p.tree.Get(id); n != nil {
		for i, k := range n.Kids {
			if i > 0 {
				p.comma()
			}
			p.param(k)
		}
	}
	p.tok(")")
}

func (p *printer) param(id ast.NodeID) {
	n := p.tree.Get(id)
	if n.Kind != ast.KindParam {
		p.expr(id, precComma, 0)
		return
	}
	p.decorators(n.Decos, false)
	p.w.Map(n.Span)
	if n.Flags.Has(ast.FlagRest) {
		p.tok("...")
	}
	p.expr(n.Kid(0), precComma, 0)
	if def := n.Kid(1); def.IsValid() {
		p.op("=")
		p.expr(def, precComma, 0)
	}
}

// arrow prints (a, b) => body; an object literal body gets parentheses.
func (p *printer) arrow(n *ast.Node, flags exprFlags) {
	if n.Flags.Has(ast.FlagAsync) {
		p.tok("async")
		p.w.Space()
	}
	p.params(n.Kid(0))
	p.op("=>")
	body := n.Kid(1)
	if p.tree.Kind(body) == ast.KindBlock {
		p.block(p.tree.Get(body))
		return
	}
	wrap := p.needsStmtParens(body)
	p.open(wrap)
	p.expr(body, precComma, flags&forbidIn)
	p.close(wrap)
}

// decorators prints @expr before a class, member or parameter. Parameter
// decorators stay on the same line.
func (p *printer) decorators(decos []ast.NodeID, ownLine bool) {
	for _, d := range decos {
		dn := p.tree.Get(d)
		p.w.Map(dn.Span)
		p.tok("@")
		if p.simpleDecorator(dn.Kid(0)) {
			p.expr(dn.Kid(0), precPostfix, 0)
		} else {
			p.tok("(")
			p.expr(dn.Kid(0), precLowest, 0)
			p.tok(")")
		}
		if ownLine {
			p.w.Newline()
		} else {
			p.w.Space()
		}
	}
}

// simpleDecorator reports whether e fits @a.b.c or @a.b(args) without
// parentheses.
func (p *printer) simpleDecorator(id ast.NodeID) bool {
	n := p.tree.Get(id)
	if n.Kind == ast.KindCall {
		n = p.tree.Get(n.Kid(0))
	}
	for n.Kind == ast.KindMember && !n.Flags.Has(ast.FlagOptional) {
		n = p.tree.Get(n.Kid(0))
	}
	return n.Kind == ast.KindIdent
}

func (p *printer) class(n *ast.Node) {
	p.decorators(n.Decos, true)
	p.tok("class")
	if name := n.Kid(0); name.IsValid() {
		p.w.Space()
		p.expr(name, precLowest, 0)
	}
	if super := n.Kid(1); super.IsValid() {
		p.w.Space()
		p.tok("extends")
		p.w.Space()
		p.expr(super, precNew, 0)
	}
	p.w.Space()
	body := p.tree.Get(n.Kid(2))
	p.tok("{")
	if len(body.Kids) == 0 && !p.hasDangling(body.Span) {
		p.tok("}")
		return
	}
	p.w.IndentPush()
	p.w.Newline()
	for _, m := range body.Kids {
		p.classMember(m)
	}
	p.danglingComments(closer(body.Span))
	p.w.IndentPop()
	p.w.DropSemi()
	p.w.Newline()
	p.tok("}")
}

func (p *printer) classMember(id ast.NodeID) {
	n := p.tree.Get(id)
	p.lastSpan = n.Span
	p.leadingComments(n.Span.Start)
	p.decorators(n.Decos, true)
	p.w.Map(n.Span)
	switch n.Kind {
	case ast.KindMethod:
		p.method(n)
	case ast.KindProperty:
		if n.Flags.Has(ast.FlagStatic) {
			p.tok("static")
			p.w.Space()
		}
		if n.Flags.Has(ast.FlagAccessor) {
			p.tok("accessor")
			p.w.Space()
		}
		p.key(n.Kid(0), n.Flags)
		if v := n.Kid(1); v.IsValid() {
			p.op("=")
			p.expr(v, precComma, 0)
		}
		p.w.Semi()
	case ast.KindStaticBlock:
		p.tok("static")
		p.w.Space()
		p.block(p.tree.Get(n.Kid(0)))
	default:
		p.unknown(n)
	}
	p.w.Newline()
}

// method prints class and object methods, getters, setters and constructors.
func (p *printer) method(n *ast.Node) {
	if n.Flags.Has(ast.FlagStatic) {
		p.tok("static")
		p.w.Space()
	}
	if n.Flags.Has(ast.FlagAsync) {
		p.tok("async")
		p.w.Space()
	}
	switch n.Text {
	case "get", "set":
		p.tok(n.Text)
		p.w.Space()
	}
	if n.Flags.Has(ast.FlagGenerator) {
		p.tok("*")
	}
	p.key(n.Kid(0), n.Flags)
	p.params(n.Kid(1))
	p.w.Space()
	p.block(p.tree.Get(n.Kid(2)))
}
