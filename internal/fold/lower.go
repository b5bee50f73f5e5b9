package fold

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

// capture evaluates expr once: a plain identifier is reused as is, anything
// else is stored in a temporary. The first call of read returns the storing
// form, later calls return the temporary.
func (f *folder) capture(expr ast.NodeID) (read func() ast.NodeID) {
	n := *f.out.Get(expr)
	if (n.Kind == ast.KindIdent && !n.Mark.IsValid()) || n.Kind == ast.KindThis {
		first := true
		return func() ast.NodeID {
			if first {
				first = false
				return expr
			}
			return f.out.Add(ast.Node{Kind: n.Kind, Text: n.Text, Span: n.Span})
		}
	}
	m := f.temp()
	first := true
	return func() ast.NodeID {
		if first {
			first = false
			return f.paren(f.assign(f.out.Span(expr), f.ref(m), expr))
		}
		return f.ref(m)
	}
}

func (f *folder) mathPow(sp source.Span, base, exp ast.NodeID) ast.NodeID {
	return f.out.Call(sp, f.dotted("Math.pow", sp), base, exp)
}

// lowerNullish rewrites a ?? b as
//
//	(_a = a) !== null && _a !== void 0 ? _a : b
func (f *folder) lowerNullish(sp source.Span, left ast.NodeID, right func() ast.NodeID) ast.NodeID {
	read := f.capture(left)
	test := f.bin(sp, token.AndAnd,
		f.bin(sp, token.BangEqEq, read(), f.out.Keyword(token.KwNull, sp)),
		f.bin(sp, token.BangEqEq, read(), f.void0(sp)))
	return f.out.New(ast.KindConditional, sp, test, read(), right())
}

// access splits an assignment target so it can be read and written without
// evaluating its object or index twice. The first call yields the capturing
// form.
func (f *folder) access(id ast.NodeID) (func() ast.NodeID, bool) {
	n := f.src.Get(id)
	switch n.Kind {
	case ast.KindParen, ast.KindAs, ast.KindSatisfies, ast.KindTypeAssert, ast.KindNonNull:
		return f.access(n.Kid(0))
	case ast.KindIdent:
		if ns := f.exportedIn(n.Text); ns != nil {
			// exported namespace variable: N.x
			return f.memberAccess(n.Span, f.capture(f.out.Ident(ns.name, n.Span)), n.Text), true
		}
		return func() ast.NodeID { return f.leaf(n) }, true
	case ast.KindMember:
		prop := f.src.Get(n.Kid(1))
		if prop.Kind != ast.KindIdent {
			return nil, false
		}
		return f.memberAccess(n.Span, f.capture(f.expr(n.Kid(0))), prop.Text), true
	case ast.KindIndex:
		obj := f.capture(f.expr(n.Kid(0)))
		key := f.capture(f.expr(n.Kid(1)))
		return func() ast.NodeID { return f.out.New(ast.KindIndex, n.Span, obj(), key()) }, true
	}
	return nil, false
}

func (f *folder) memberAccess(sp source.Span, obj func() ast.NodeID, prop string) func() ast.NodeID {
	return func() ast.NodeID { return f.out.Member(obj(), prop, sp) }
}

// lowerCompound rewrites a op= b as a = a op b (used for **=).
func (f *folder) lowerCompound(n *ast.Node, op token.Kind) ast.NodeID {
	acc, ok := f.access(n.Kid(0))
	if !ok {
		f.errorAt(n.Span, diag.FoldUnsupported, "cannot lower '"+n.Op.String()+"' on this target")
		return f.like(n, f.target(n.Kid(0)), f.expr(n.Kid(1)))
	}
	write := acc()
	read := acc()
	var value ast.NodeID
	if op == token.StarStar {
		value = f.mathPow(n.Span, read, f.expr(n.Kid(1)))
	} else {
		value = f.bin(n.Span, op, read, f.expr(n.Kid(1)))
	}
	return f.assign(n.Span, write, value)
}

// lowerLogicalAssign rewrites a ||= b as a || (a = b), likewise &&= and ??=.
func (f *folder) lowerLogicalAssign(n *ast.Node) ast.NodeID {
	acc, ok := f.access(n.Kid(0))
	if !ok {
		f.errorAt(n.Span, diag.FoldUnsupported, "cannot lower '"+n.Op.String()+"' on this target")
		return f.like(n, f.target(n.Kid(0)), f.expr(n.Kid(1)))
	}
	read := acc()
	set := func() ast.NodeID { return f.paren(f.assign(n.Span, acc(), f.expr(n.Kid(1)))) }
	switch n.Op {
	case token.AndAndAssign:
		return f.bin(n.Span, token.AndAnd, read, set())
	case token.OrOrAssign:
		return f.bin(n.Span, token.OrOr, read, set())
	}
	if f.opts.Target < ES2020 {
		return f.lowerNullish(n.Span, read, set)
	}
	return f.bin(n.Span, token.QuestionQuestion, read, set())
}

// lowerOptChain rewrites an optional chain with explicit null checks:
//
//	a?.b.c     → a === null || a === void 0 ? void 0 : a.b.c
//	a.b?.()    → (_b = (_a = a).b) === null || _b === void 0 ? void 0 : _b.call(_a)
//
// With del the chain is the operand of delete and a short-circuit yields true.
func (f *folder) lowerOptChain(n *ast.Node, del bool) ast.NodeID {
	var links []*ast.Node
	cur := n.Kid(0)
walk:
	for {
		c := f.src.Get(cur)
		switch c.Kind {
		case ast.KindMember, ast.KindIndex, ast.KindCall:
			links = append(links, c)
			cur = c.Kid(0)
		case ast.KindNonNull:
			cur = c.Kid(0)
		default:
			break walk
		}
	}
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}

	sp := n.Span
	result := f.expr(cur)
	var tests []ast.NodeID
	var this func() ast.NodeID
	for i, l := range links {
		optional := l.Flags.Has(ast.FlagOptional)
		if optional {
			read := f.capture(result)
			tests = append(tests, f.bin(sp, token.OrOr,
				f.bin(sp, token.EqEqEq, read(), f.out.Keyword(token.KwNull, sp)),
				f.bin(sp, token.EqEqEq, read(), f.void0(sp))))
			result = read()
		}
		// a.b?.() must call with a as this
		nextOptCall := i+1 < len(links) && links[i+1].Kind == ast.KindCall && links[i+1].Flags.Has(ast.FlagOptional)
		switch l.Kind {
		case ast.KindMember, ast.KindIndex:
			obj := result
			if nextOptCall {
				this = f.capture(obj)
				obj = this()
			}
			var prop ast.NodeID
			if l.Kind == ast.KindMember {
				prop = f.leaf(f.src.Get(l.Kid(1)))
			} else {
				prop = f.expr(l.Kid(1))
			}
			result = f.out.New(l.Kind, l.Span, obj, prop)
		case ast.KindCall:
			args := f.exprs(l.Kids[1:])
			if optional && this != nil {
				callee := f.out.Member(result, "call", l.Span)
				result = f.out.Call(l.Span, callee, append([]ast.NodeID{this()}, args...)...)
				this = nil
			} else {
				result = f.out.Call(l.Span, result, args...)
			}
		}
	}

	short := f.void0(sp)
	if del {
		result = f.out.NewOp(ast.KindUnary, token.KwDelete, sp, result)
		short = f.out.Keyword(token.KwTrue, sp)
	}
	for i := len(tests) - 1; i >= 0; i-- {
		s := short
		if i != len(tests)-1 {
			s = f.cloneLeafTree(short)
		}
		result = f.out.New(ast.KindConditional, sp, tests[i], s, result)
	}
	return result
}

// cloneLeafTree copies a small synthesized subtree (void 0, true).
func (f *folder) cloneLeafTree(id ast.NodeID) ast.NodeID {
	n := *f.out.Get(id)
	kids := make([]ast.NodeID, len(n.Kids))
	for i, k := range n.Kids {
		kids[i] = f.cloneLeafTree(k)
	}
	n.Kids = kids
	return f.out.Add(n)
}

// lowerObjectSpread rewrites {a, ...b, c} as Object.assign({a}, b, {c}).
func (f *folder) lowerObjectSpread(sp source.Span, props []ast.NodeID) ast.NodeID {
	var args, group []ast.NodeID
	flush := func() {
		if len(group) > 0 {
			args = append(args, f.out.New(ast.KindObject, sp, group...))
			group = nil
		}
	}
	for _, p := range props {
		if f.out.Kind(p) == ast.KindSpread {
			flush()
			args = append(args, f.out.Get(p).Kid(0))
			continue
		}
		group = append(group, p)
	}
	flush()
	if len(props) == 0 || f.out.Kind(props[0]) == ast.KindSpread {
		args = append([]ast.NodeID{f.out.New(ast.KindObject, sp)}, args...)
	}
	return f.out.Call(sp, f.dotted("Object.assign", sp), args...)
}

// unlowered warns once per feature the target lacks and Fold leaves as is.
func (f *folder) unlowered(n *ast.Node) {
	var feature string
	var need Target
	switch {
	case n.Kind.IsFunction() && n.Flags.Has(ast.FlagAsync) && n.Flags.Has(ast.FlagGenerator):
		feature, need = "async generators", ES2018
	case n.Kind.IsFunction() && n.Flags.Has(ast.FlagAsync):
		feature, need = "async functions", ES2017
	case n.Kind == ast.KindProperty:
		feature, need = "class fields", ES2022
	case n.Kind == ast.KindStaticBlock:
		feature, need = "class static blocks", ES2022
	default:
		return
	}
	if f.opts.Target >= need || f.warned[feature] {
		return
	}
	if f.warned == nil {
		f.warned = make(map[string]bool)
	}
	f.warned[feature] = true
	f.warnAt(n.Span, diag.FoldUnsupported, feature+" are not lowered for "+f.opts.Target.String()+" and are emitted as written")
}
