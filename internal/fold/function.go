package fold

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
)

// function folds a function declaration or expression. Parameter defaults
// are folded in the enclosing frame; the body gets its own temporaries.
func (f *folder) function(n *ast.Node) ast.NodeID {
	derived := f.derivedCtor
	f.derivedCtor = false
	defer func() { f.derivedCtor = derived }()

	name := ast.NoNodeID
	if nn := f.src.Get(n.Kid(0)); nn != nil {
		name = f.leaf(nn)
	}
	params := f.params(n.Kid(1))
	body := f.body(n.Kid(1), n.Kid(2), nil)
	f.unlowered(n)
	return f.like(n, name, params, body)
}

// arrow folds an arrow function. An expression body that needs hoisted
// temporaries turns into a block.
func (f *folder) arrow(n *ast.Node) ast.NodeID {
	params := f.params(n.Kid(0))
	f.unlowered(n)
	if !n.Flags.Has(ast.FlagExprBody) {
		return f.like(n, params, f.body(n.Kid(0), n.Kid(1), nil))
	}
	leave := f.enterFunction(n.Kid(0), ast.NoNodeID)
	f.pushFrame()
	expr := f.expr(n.Kid(1))
	temps := f.popFrame()
	leave()
	if len(temps) == 0 {
		return f.like(n, params, expr)
	}
	sp := f.src.Span(n.Kid(1))
	ret := f.out.New(ast.KindReturn, sp, expr)
	block := f.out.New(ast.KindBlock, sp, f.withTemps([]ast.NodeID{ret}, temps)...)
	id := f.like(n, params, block)
	f.out.Get(id).Flags &^= ast.FlagExprBody
	return id
}

// params folds a parameter list: this-parameters vanish, and so do
// annotations, optional marks and accessibility modifiers.
func (f *folder) params(id ast.NodeID) ast.NodeID {
	n := f.src.Get(id)
	if n == nil {
		return ast.NoNodeID
	}
	kids := make([]ast.NodeID, 0, len(n.Kids))
	for _, p := range n.Kids {
		pn := f.src.Get(p)
		if pn.Flags.Has(ast.FlagThisParam) {
			continue
		}
		if len(pn.Decos) > 0 {
			f.warnAt(f.src.Span(pn.Decos[0]), diag.FoldUnsupported, "parameter decorators are not supported and were removed")
		}
		out := f.like(pn, f.pattern(pn.Kid(0)), f.optExpr(pn.Kid(1)))
		f.out.Get(out).Flags &^= ast.FlagOptional
		kids = append(kids, out)
	}
	return f.like(n, kids...)
}

// body folds a function body block in a fresh frame. prologue statements are
// placed after the directives (parameter properties).
func (f *folder) body(params, id ast.NodeID, prologue func([]ast.NodeID) []ast.NodeID) ast.NodeID {
	n := f.src.Get(id)
	if n == nil {
		return ast.NoNodeID
	}
	defer f.enterFunction(params, id)()
	f.pushFrame()
	stmts := f.stmts(n.Kids)
	if prologue != nil {
		stmts = prologue(stmts)
	}
	temps := f.popFrame()
	return f.like(n, f.withTemps(stmts, temps)...)
}

// method folds a class or object method. derived is set for members of a
// class with an extends clause.
func (f *folder) method(n *ast.Node, derived bool) ast.NodeID {
	saved := f.derivedCtor
	f.derivedCtor = n.Text == "constructor" && derived
	defer func() { f.derivedCtor = saved }()

	key := f.propKey(n)
	params := f.params(n.Kid(1))
	var prologue func([]ast.NodeID) []ast.NodeID
	if n.Text == "constructor" {
		if props := f.paramProps(n.Kid(1)); len(props) > 0 {
			prologue = func(stmts []ast.NodeID) []ast.NodeID {
				return f.afterSuper(stmts, props, derived)
			}
		}
	}
	body := f.body(n.Kid(1), n.Kid(2), prologue)
	f.unlowered(n)
	decos := f.decorators(n.Decos)
	id := f.like(n, key, params, body)
	out := f.out.Get(id)
	out.Flags &^= ast.FlagOptional
	out.Decos = decos
	return id
}

// paramProps builds this.x = x for every constructor parameter declared with
// an accessibility or readonly modifier.
func (f *folder) paramProps(params ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	for _, p := range f.src.Get(params).Kids {
		pn := f.src.Get(p)
		if !pn.Flags.Has(ast.AccessFlags) {
			continue
		}
		name := f.src.Get(pn.Kid(0))
		if name.Kind == ast.KindAssignPattern {
			name = f.src.Get(name.Kid(0))
		}
		if name.Kind != ast.KindIdent {
			f.errorAt(pn.Span, diag.FoldUnsupported, "a parameter property cannot be a binding pattern")
			continue
		}
		sp := pn.Span
		this := f.out.New(ast.KindThis, sp)
		set := f.assign(sp, f.out.Member(this, name.Text, sp), f.out.Ident(name.Text, sp))
		out = append(out, f.out.New(ast.KindExprStmt, sp, set))
	}
	return out
}

// afterSuper inserts stmts after the top-level super(...) call of a derived
// constructor, or after the directives otherwise.
func (f *folder) afterSuper(body, stmts []ast.NodeID, derived bool) []ast.NodeID {
	if derived {
		for i, id := range body {
			n := f.out.Get(id)
			if n.Kind != ast.KindExprStmt {
				continue
			}
			if isSuperCall(f.out, n.Kid(0)) {
				out := make([]ast.NodeID, 0, len(body)+len(stmts))
				out = append(out, body[:i+1]...)
				out = append(out, stmts...)
				return append(out, body[i+1:]...)
			}
		}
	}
	return f.insertAfterDirectives(body, stmts...)
}

func (f *folder) decorators(decos []ast.NodeID) []ast.NodeID {
	if len(decos) == 0 {
		return nil
	}
	out := make([]ast.NodeID, len(decos))
	for i, d := range decos {
		dn := f.src.Get(d)
		out[i] = f.like(dn, f.expr(dn.Kid(0)))
	}
	return out
}

// class folds a class declaration or expression. Members that exist only for
// the type checker are removed: declared and abstract fields, overloads,
// index signatures.
func (f *folder) class(n *ast.Node) ast.NodeID {
	name := ast.NoNodeID
	if nn := f.src.Get(n.Kid(0)); nn != nil {
		name = f.leaf(nn)
	}
	super := f.optExpr(n.Kid(1))
	derived := n.Kid(1).IsValid()

	saved := f.derivedCtor
	f.derivedCtor = false
	defer func() { f.derivedCtor = saved }()

	bn := f.src.Get(n.Kid(2))
	members := make([]ast.NodeID, 0, len(bn.Kids))
	for _, m := range bn.Kids {
		mn := f.src.Get(m)
		f.lastSpan = mn.Span
		switch mn.Kind {
		case ast.KindMethod:
			members = append(members, f.method(mn, derived))
		case ast.KindProperty:
			if mn.Flags.Has(ast.FlagDeclare | ast.FlagAbstract) {
				f.cm.Drop(mn.Span.Start)
				continue
			}
			decos := f.decorators(mn.Decos)
			id := f.like(mn, f.propKey(mn), f.optExpr(mn.Kid(1)))
			out := f.out.Get(id)
			out.Flags &^= ast.FlagOptional
			out.Decos = decos
			f.unlowered(mn)
			members = append(members, id)
		case ast.KindStaticBlock:
			f.unlowered(mn)
			f.pushFrame()
			block := f.src.Get(mn.Kid(0))
			stmts := f.stmts(block.Kids)
			stmts = f.withTemps(stmts, f.popFrame())
			members = append(members, f.like(mn, f.like(block, stmts...)))
		default:
			if !mn.Kind.IsType() {
				f.errorAt(mn.Span, diag.FoldUnknownNode, "unexpected "+mn.Kind.String()+" in class body")
			}
			f.cm.Drop(mn.Span.Start)
		}
	}
	body := f.like(bn, members...)
	decos := f.decorators(n.Decos)
	id := f.like(n, name, super, body)
	f.out.Get(id).Decos = decos
	return id
}

func isSuperCall(t *ast.Tree, id ast.NodeID) bool {
	n := t.Get(id)
	return n != nil && n.Kind == ast.KindCall && t.Kind(n.Kid(0)) == ast.KindSuper
}
