package fold

import (
	"strings"

	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/lexer"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

func (f *folder) optExpr(id ast.NodeID) ast.NodeID {
	if !id.IsValid() {
		return ast.NoNodeID
	}
	return f.expr(id)
}

func (f *folder) exprs(ids []ast.NodeID) []ast.NodeID {
	out := make([]ast.NodeID, len(ids))
	for i, id := range ids {
		out[i] = f.expr(id)
	}
	return out
}

// expr folds an expression. TypeScript wrappers disappear here; everything
// else is rebuilt in the output tree.
func (f *folder) expr(id ast.NodeID) ast.NodeID {
	n := f.src.Get(id)
	if n == nil {
		return ast.NoNodeID
	}
	switch n.Kind {
	case ast.KindIdent:
		return f.nameRef(n)
	case ast.KindLiteral:
		return f.literal(n)
	case ast.KindPrivateName, ast.KindTemplateElem, ast.KindThis, ast.KindSuper, ast.KindMetaProp, ast.KindHole, ast.KindRaw:
		return f.leaf(n)
	case ast.KindAs, ast.KindSatisfies, ast.KindTypeAssert, ast.KindNonNull, ast.KindInstantiation:
		return f.expr(n.Kid(0))
	case ast.KindTemplate, ast.KindTaggedTemplate, ast.KindArray, ast.KindSpread, ast.KindConditional,
		ast.KindSeq, ast.KindParen, ast.KindAwait, ast.KindYield, ast.KindNew, ast.KindImportCall,
		ast.KindIndex, ast.KindCall:
		return f.like(n, f.exprs(n.Kids)...)
	case ast.KindMember:
		return f.like(n, f.expr(n.Kid(0)), f.leaf(f.src.Get(n.Kid(1))))
	case ast.KindObject:
		return f.object(n)
	case ast.KindFuncExpr:
		return f.function(n)
	case ast.KindArrow:
		return f.arrow(n)
	case ast.KindClassExpr:
		return f.class(n)
	case ast.KindUnary:
		if n.Op == token.KwDelete && f.opts.Target < ES2020 && f.src.Kind(f.src.Unparen(n.Kid(0))) == ast.KindOptChain {
			return f.lowerOptChain(f.src.Get(f.src.Unparen(n.Kid(0))), true)
		}
		return f.like(n, f.expr(n.Kid(0)))
	case ast.KindUpdate:
		return f.like(n, f.target(n.Kid(0)))
	case ast.KindBinary:
		return f.binary(n)
	case ast.KindAssign:
		return f.assignment(n)
	case ast.KindOptChain:
		if f.opts.Target < ES2020 {
			return f.lowerOptChain(n, false)
		}
		return f.like(n, f.expr(n.Kid(0)))
	case ast.KindJSXElement, ast.KindJSXFragment:
		return f.jsxElement(n)
	case ast.KindArrayPattern, ast.KindObjectPattern, ast.KindAssignPattern, ast.KindRestElement:
		return f.target(id)
	}
	f.errorAt(n.Span, diag.FoldUnknownNode, "unexpected "+n.Kind.String()+" in expression position")
	return f.out.NewText(ast.KindRaw, n.Span, "void 0")
}

// nameRef folds an identifier read: exported namespace variables become
// member accesses and defines are substituted.
func (f *folder) nameRef(n *ast.Node) ast.NodeID {
	if ns := f.exportedIn(n.Text); ns != nil {
		return f.out.New(ast.KindMember, n.Span, f.out.Ident(ns.name, n.Span), f.out.Ident(n.Text, n.Span))
	}
	if id, ok := f.defined(n); ok {
		return id
	}
	return f.leaf(n)
}

func (f *folder) literal(n *ast.Node) ast.NodeID {
	id := f.leaf(n)
	// 1_000 до es2021 не парсится
	if n.Op == token.NumberLit && f.opts.Target < ES2021 && strings.Contains(n.Text, "_") {
		if v, ok := lexer.NumberValue(n.Text); ok {
			f.out.Get(id).Text = lexer.FormatNumber(v)
		}
	}
	return id
}

func (f *folder) object(n *ast.Node) ast.NodeID {
	kids := make([]ast.NodeID, 0, len(n.Kids))
	spread := false
	for _, k := range n.Kids {
		kn := f.src.Get(k)
		switch kn.Kind {
		case ast.KindObjProp:
			kids = append(kids, f.objProp(kn, f.expr))
		case ast.KindMethod:
			kids = append(kids, f.method(kn, false))
		case ast.KindSpread:
			spread = true
			kids = append(kids, f.like(kn, f.expr(kn.Kid(0))))
		default:
			kids = append(kids, f.expr(k))
		}
	}
	if spread && f.opts.Target < ES2018 {
		return f.lowerObjectSpread(n.Span, kids)
	}
	return f.like(n, kids...)
}

// objProp folds key: value. A shorthand property whose value was rewritten
// (namespace export, define) is spelled out in full.
func (f *folder) objProp(n *ast.Node, value func(ast.NodeID) ast.NodeID) ast.NodeID {
	key := f.propKey(n)
	id := f.like(n, key, value(n.Kid(1)))
	if n.Flags.Has(ast.FlagShorthand) {
		out := f.out.Get(id)
		v := f.out.Get(out.Kid(1))
		if v.Kind == ast.KindAssignPattern {
			v = f.out.Get(v.Kid(0))
		}
		if v.Kind != ast.KindIdent || v.Text != f.out.Get(key).Text {
			out.Flags &^= ast.FlagShorthand
		}
	}
	return id
}

// propKey folds the key of a property, method or enum member.
func (f *folder) propKey(n *ast.Node) ast.NodeID {
	if n.Flags.Has(ast.FlagComputed) {
		return f.expr(n.Kid(0))
	}
	return f.leaf(f.src.Get(n.Kid(0)))
}

func (f *folder) binary(n *ast.Node) ast.NodeID {
	switch {
	case n.Op == token.StarStar && f.opts.Target < ES2016:
		return f.mathPow(n.Span, f.expr(n.Kid(0)), f.expr(n.Kid(1)))
	case n.Op == token.QuestionQuestion && f.opts.Target < ES2020:
		return f.lowerNullish(n.Span, f.expr(n.Kid(0)), func() ast.NodeID { return f.expr(n.Kid(1)) })
	}
	return f.like(n, f.expr(n.Kid(0)), f.expr(n.Kid(1)))
}

func (f *folder) assignment(n *ast.Node) ast.NodeID {
	switch n.Op {
	case token.StarStarAssign:
		if f.opts.Target < ES2016 {
			return f.lowerCompound(n, token.StarStar)
		}
	case token.AndAndAssign, token.OrOrAssign, token.QuestionQuestionAssign:
		if f.opts.Target < ES2021 {
			return f.lowerLogicalAssign(n)
		}
	}
	return f.like(n, f.target(n.Kid(0)), f.expr(n.Kid(1)))
}

// pattern folds a binding pattern (declarations, parameters, catch).
func (f *folder) pattern(id ast.NodeID) ast.NodeID { return f.pat(id, false) }

// target folds an assignment target.
func (f *folder) target(id ast.NodeID) ast.NodeID { return f.pat(id, true) }

func (f *folder) pat(id ast.NodeID, assign bool) ast.NodeID {
	n := f.src.Get(id)
	if n == nil {
		return ast.NoNodeID
	}
	sub := func(k ast.NodeID) ast.NodeID { return f.pat(k, assign) }
	switch n.Kind {
	case ast.KindIdent:
		if ns := f.exportedIn(n.Text); assign && ns != nil {
			return f.out.New(ast.KindMember, n.Span, f.out.Ident(ns.name, n.Span), f.out.Ident(n.Text, n.Span))
		}
		return f.leaf(n)
	case ast.KindHole:
		return f.leaf(n)
	case ast.KindArrayPattern:
		kids := make([]ast.NodeID, len(n.Kids))
		for i, k := range n.Kids {
			kids[i] = sub(k)
		}
		return f.like(n, kids...)
	case ast.KindObjectPattern:
		kids := make([]ast.NodeID, len(n.Kids))
		for i, k := range n.Kids {
			kn := f.src.Get(k)
			if kn.Kind == ast.KindRestElement {
				if f.opts.Target < ES2018 {
					f.errorAt(kn.Span, diag.FoldUnsupported, "object rest patterns need target es2018 or later")
				}
				kids[i] = f.like(kn, sub(kn.Kid(0)))
				continue
			}
			kids[i] = f.objProp(kn, sub)
		}
		return f.like(n, kids...)
	case ast.KindAssignPattern:
		return f.like(n, sub(n.Kid(0)), f.expr(n.Kid(1)))
	case ast.KindRestElement, ast.KindParen:
		return f.like(n, sub(n.Kid(0)))
	case ast.KindAs, ast.KindSatisfies, ast.KindTypeAssert, ast.KindNonNull:
		return sub(n.Kid(0))
	}
	return f.expr(id)
}

// Builders for synthesized code.

func (f *folder) void0(sp source.Span) ast.NodeID {
	return f.out.NewOp(ast.KindUnary, token.KwVoid, sp, f.out.Number("0", sp))
}

func (f *folder) assign(sp source.Span, target, value ast.NodeID) ast.NodeID {
	return f.out.NewOp(ast.KindAssign, token.Assign, sp, target, value)
}

func (f *folder) bin(sp source.Span, op token.Kind, left, right ast.NodeID) ast.NodeID {
	return f.out.NewOp(ast.KindBinary, op, sp, left, right)
}

func (f *folder) paren(id ast.NodeID) ast.NodeID {
	return f.out.New(ast.KindParen, f.out.Span(id), id)
}

// dotted builds a member chain from a name such as React.createElement.
func (f *folder) dotted(name string, sp source.Span) ast.NodeID {
	parts := strings.Split(name, ".")
	var id ast.NodeID
	if parts[0] == "this" {
		id = f.out.New(ast.KindThis, sp)
	} else {
		id = f.out.Ident(parts[0], sp)
	}
	for _, p := range parts[1:] {
		id = f.out.Member(id, p, sp)
	}
	return id
}
