package fold

import (
	"slices"

	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

// stmts folds a statement list. An erased statement takes its comments with
// it, except legal ones, which move to the next statement that survives.
func (f *folder) stmts(list []ast.NodeID) []ast.NodeID {
	f.decls = append(f.decls, f.declaredIn(list))
	defer func() { f.decls = f.decls[:len(f.decls)-1] }()

	out := make([]ast.NodeID, 0, len(list))
	var orphans []uint32
	for _, id := range list {
		start := f.src.Span(id).Start
		folded := f.stmt(id)
		if len(folded) == 0 {
			f.cm.Drop(start)
			if len(f.cm.Leading(start)) > 0 {
				orphans = append(orphans, start)
			}
			continue
		}
		if first := f.out.Span(folded[0]).Start; first != source.NoPos && len(orphans) > 0 {
			for _, pos := range slices.Backward(orphans) {
				f.cm.Move(pos, first)
			}
			orphans = orphans[:0]
		}
		out = append(out, folded...)
	}
	return out
}

// declaredIn collects the function and class names of a statement list. An
// enum or namespace merging with one of them needs no var of its own.
func (f *folder) declaredIn(list []ast.NodeID) map[string]bool {
	names := make(map[string]bool)
	for _, id := range list {
		n := f.src.Get(id)
		if n.Kind == ast.KindExportDecl || n.Kind == ast.KindExportDefault {
			n = f.src.Get(n.Kid(0))
		}
		switch n.Kind {
		case ast.KindFuncDecl, ast.KindClassDecl:
			if !n.Flags.Has(ast.FlagDeclare) {
				if name := f.src.Get(n.Kid(0)); name != nil {
					names[name.Text] = true
				}
			}
		}
	}
	return names
}

// declareOnce reports whether name still needs a var in the current list and
// records it.
func (f *folder) declareOnce(name string) bool {
	top := f.decls[len(f.decls)-1]
	if top[name] {
		return false
	}
	top[name] = true
	return true
}

func one(id ast.NodeID) []ast.NodeID {
	if !id.IsValid() {
		return nil
	}
	return []ast.NodeID{id}
}

// stmt folds one statement into zero or more statements.
func (f *folder) stmt(id ast.NodeID) []ast.NodeID {
	n := f.src.Get(id)
	f.lastSpan = n.Span
	switch n.Kind {
	case ast.KindInterface, ast.KindTypeAlias, ast.KindOverload, ast.KindExportAsNamespace:
		return nil
	case ast.KindVarDecl:
		if n.Flags.Has(ast.FlagDeclare) {
			return nil
		}
		return one(f.varDecls(n))
	case ast.KindFuncDecl:
		if n.Flags.Has(ast.FlagDeclare) {
			return nil
		}
		return one(f.function(n))
	case ast.KindClassDecl:
		if n.Flags.Has(ast.FlagDeclare) {
			return nil
		}
		return one(f.class(n))
	case ast.KindEnum:
		return f.enum(n, false)
	case ast.KindNamespace:
		return f.namespace(n, false)
	case ast.KindImport:
		return one(f.importDecl(n))
	case ast.KindImportEquals:
		return one(f.importEquals(n, false))
	case ast.KindExportNamed:
		return one(f.exportNamed(n))
	case ast.KindExportAll:
		return one(f.exportAll(n))
	case ast.KindExportDecl:
		return f.exportDecl(n)
	case ast.KindExportDefault:
		return one(f.exportDefault(n))
	case ast.KindExportAssign:
		f.errorAt(n.Span, diag.FoldUnsupported, "'export =' cannot be expressed in an ES module; use 'export default'")
		return nil
	case ast.KindIf:
		return f.ifStmt(n)
	}
	return one(f.simpleStmt(id, n))
}

// stmtNode folds a statement in a position that takes exactly one statement
// (loop and if bodies, labeled statements).
func (f *folder) stmtNode(id ast.NodeID) ast.NodeID {
	if !id.IsValid() {
		return ast.NoNodeID
	}
	folded := f.stmt(id)
	switch len(folded) {
	case 0:
		return f.out.New(ast.KindEmpty, f.src.Span(id))
	case 1:
		return folded[0]
	}
	return f.out.New(ast.KindBlock, f.src.Span(id), folded...)
}

func (f *folder) simpleStmt(id ast.NodeID, n *ast.Node) ast.NodeID {
	switch n.Kind {
	case ast.KindExprStmt:
		return f.like(n, f.expr(n.Kid(0)))
	case ast.KindBlock:
		return f.like(n, f.stmts(n.Kids)...)
	case ast.KindEmpty, ast.KindDebugger:
		return f.leaf(n)
	case ast.KindFor:
		init := ast.NoNodeID
		if in := f.src.Get(n.Kid(0)); in != nil {
			if in.Kind == ast.KindVarDecl {
				init = f.varDecls(in)
			} else {
				init = f.expr(n.Kid(0))
			}
		}
		return f.like(n, init, f.optExpr(n.Kid(1)), f.optExpr(n.Kid(2)), f.stmtNode(n.Kid(3)))
	case ast.KindForIn, ast.KindForOf:
		var left ast.NodeID
		if l := f.src.Get(n.Kid(0)); l.Kind == ast.KindVarDecl {
			left = f.varDecls(l)
		} else {
			left = f.target(n.Kid(0))
		}
		return f.like(n, left, f.expr(n.Kid(1)), f.stmtNode(n.Kid(2)))
	case ast.KindWhile:
		return f.like(n, f.expr(n.Kid(0)), f.stmtNode(n.Kid(1)))
	case ast.KindDoWhile:
		return f.like(n, f.stmtNode(n.Kid(0)), f.expr(n.Kid(1)))
	case ast.KindReturn, ast.KindThrow:
		return f.like(n, f.optExpr(n.Kid(0)))
	case ast.KindBreak, ast.KindContinue:
		label := ast.NoNodeID
		if l := f.src.Get(n.Kid(0)); l != nil {
			label = f.leaf(l)
		}
		return f.like(n, label)
	case ast.KindTry:
		return f.like(n, f.simpleStmt(n.Kid(0), f.src.Get(n.Kid(0))), f.catchClause(n.Kid(1)), f.optStmt(n.Kid(2)))
	case ast.KindSwitch:
		kids := []ast.NodeID{f.expr(n.Kid(0))}
		for _, c := range n.Kids[1:] {
			cn := f.src.Get(c)
			body := append([]ast.NodeID{f.optExpr(cn.Kid(0))}, f.stmts(cn.Kids[1:])...)
			kids = append(kids, f.like(cn, body...))
		}
		return f.like(n, kids...)
	case ast.KindLabeled:
		return f.like(n, f.leaf(f.src.Get(n.Kid(0))), f.stmtNode(n.Kid(1)))
	case ast.KindWith:
		return f.like(n, f.expr(n.Kid(0)), f.stmtNode(n.Kid(1)))
	}
	f.errorAt(n.Span, diag.FoldUnknownNode, "unexpected "+n.Kind.String()+" in statement position")
	return f.out.New(ast.KindEmpty, n.Span)
}

func (f *folder) optStmt(id ast.NodeID) ast.NodeID {
	if !id.IsValid() {
		return ast.NoNodeID
	}
	return f.simpleStmt(id, f.src.Get(id))
}

func (f *folder) catchClause(id ast.NodeID) ast.NodeID {
	n := f.src.Get(id)
	if n == nil {
		return ast.NoNodeID
	}
	param := ast.NoNodeID
	if n.Kid(0).IsValid() {
		param = f.pattern(n.Kid(0))
	} else if f.opts.Target < ES2019 {
		m := f.hyg.Fresh("_unused")
		param = f.ref(m)
	}
	body := f.simpleStmt(n.Kid(1), f.src.Get(n.Kid(1)))
	return f.like(n, param, body)
}

// varDecls folds var/let/const declarations, dropping annotations and
// definite-assignment marks.
func (f *folder) varDecls(n *ast.Node) ast.NodeID {
	decls := make([]ast.NodeID, 0, len(n.Kids))
	for _, d := range n.Kids {
		dn := f.src.Get(d)
		decls = append(decls, f.like(dn, f.pattern(dn.Kid(0)), f.optExpr(dn.Kid(1))))
	}
	return f.like(n, decls...)
}

// ifStmt applies conditional stripping: an if whose test matches a configured
// condition is replaced by its else branch or removed.
func (f *folder) ifStmt(n *ast.Node) []ast.NodeID {
	if f.stripped(n.Kid(0)) {
		if !n.Kid(2).IsValid() {
			return nil
		}
		return f.stmt(n.Kid(2))
	}
	return one(f.like(n, f.expr(n.Kid(0)), f.stmtNode(n.Kid(1)), f.stmtNode(n.Kid(2))))
}
