package fold

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

// importDecl drops type-only imports and specifiers that are never used as a
// value. A bare import "x" always stays for its side effects.
func (f *folder) importDecl(n *ast.Node) ast.NodeID {
	if n.Flags.Has(ast.FlagTypeOnly) {
		return ast.NoNodeID
	}
	specs := n.Kids[2:]
	if len(specs) == 0 {
		return f.like(n, f.leaf(f.src.Get(n.Kid(0))), f.optExpr(n.Kid(1)))
	}
	kids := []ast.NodeID{f.leaf(f.src.Get(n.Kid(0))), f.optExpr(n.Kid(1))}
	for _, id := range specs {
		s := f.src.Get(id)
		if s.Flags.Has(ast.FlagTypeOnly) {
			continue
		}
		local := f.src.Get(s.Kid(len(s.Kids) - 1))
		if !f.opts.PreserveImports && f.refs[local.Text] == 0 {
			continue
		}
		names := make([]ast.NodeID, 0, len(s.Kids))
		for _, k := range s.Kids {
			names = append(names, f.leaf(f.src.Get(k)))
		}
		kids = append(kids, f.like(s, names...))
	}
	if len(kids) == 2 {
		return ast.NoNodeID
	}
	return f.like(n, kids...)
}

// importEquals lowers import A = B.C to var A = B.C. The CommonJS form
// import A = require("m") has no ES module equivalent.
func (f *folder) importEquals(n *ast.Node, exported bool) ast.NodeID {
	if n.Flags.Has(ast.FlagTypeOnly) {
		return ast.NoNodeID
	}
	ref := f.src.Get(n.Kid(1))
	if ref.Kind == ast.KindExternalRef {
		f.errorAt(n.Span, diag.FoldUnsupported, "'import = require()' cannot be expressed in an ES module; use 'import ... from'")
		return ast.NoNodeID
	}
	name := f.src.Get(n.Kid(0))
	if !exported && !f.opts.PreserveImports && f.refs[name.Text] == 0 {
		return ast.NoNodeID
	}
	decl := f.out.New(ast.KindDeclarator, n.Span, f.leaf(name), f.entity(n.Kid(1)))
	return f.varDecl("var", n.Span, decl)
}

// entity turns an entity name (A.B.C in a type context) into a member chain.
func (f *folder) entity(id ast.NodeID) ast.NodeID {
	n := f.src.Get(id)
	switch n.Kind {
	case ast.KindTypeQualified:
		right := f.src.Get(n.Kid(1))
		return f.out.New(ast.KindMember, n.Span, f.entity(n.Kid(0)), f.out.Ident(right.Text, right.Span))
	case ast.KindIdent:
		return f.nameRef(n)
	}
	return f.expr(id)
}

// exportNamed drops type-only specifiers. A local export of a name that only
// exists as a type is dropped as well.
func (f *folder) exportNamed(n *ast.Node) ast.NodeID {
	if n.Flags.Has(ast.FlagTypeOnly) {
		return ast.NoNodeID
	}
	reexport := n.Kid(0).IsValid()
	specs := n.Kids[2:]
	kids := []ast.NodeID{ast.NoNodeID, f.optExpr(n.Kid(1))}
	if reexport {
		kids[0] = f.leaf(f.src.Get(n.Kid(0)))
	}
	for _, id := range specs {
		s := f.src.Get(id)
		if s.Flags.Has(ast.FlagTypeOnly) {
			continue
		}
		local := f.src.Get(s.Kid(0))
		if !reexport && f.typeOnly[local.Text] {
			continue
		}
		kids = append(kids, f.like(s, f.leaf(local), f.leaf(f.src.Get(s.Kid(1)))))
	}
	if len(specs) > 0 && len(kids) == 2 {
		return ast.NoNodeID
	}
	return f.like(n, kids...)
}

func (f *folder) exportAll(n *ast.Node) ast.NodeID {
	if n.Flags.Has(ast.FlagTypeOnly) {
		return ast.NoNodeID
	}
	exported := ast.NoNodeID
	if e := f.src.Get(n.Kid(2)); e != nil {
		exported = f.leaf(e)
	}
	return f.like(n, f.leaf(f.src.Get(n.Kid(0))), f.optExpr(n.Kid(1)), exported)
}

// exportDecl folds export <declaration>. Inside a namespace body exports
// become assignments to the namespace object instead.
func (f *folder) exportDecl(n *ast.Node) []ast.NodeID {
	if ns := f.namespaceScope(); ns != nil {
		return f.namespaceExport(ns, n)
	}
	decl := f.src.Get(n.Kid(0))
	f.lastSpan = decl.Span
	switch decl.Kind {
	case ast.KindEnum:
		f.cm.Move(n.Span.Start, decl.Span.Start)
		return f.enum(decl, true)
	case ast.KindNamespace:
		f.cm.Move(n.Span.Start, decl.Span.Start)
		return f.namespace(decl, true)
	case ast.KindImportEquals:
		return one(f.exportWrap(n.Span, f.importEquals(decl, true)))
	}
	folded := f.stmt(n.Kid(0))
	if len(folded) == 0 {
		return nil
	}
	return one(f.exportWrap(n.Span, folded[0]))
}

func (f *folder) exportWrap(sp source.Span, id ast.NodeID) ast.NodeID {
	if !id.IsValid() {
		return ast.NoNodeID
	}
	return f.out.New(ast.KindExportDecl, sp, id)
}

// exportDefault folds export default. A default export of a type is erased.
func (f *folder) exportDefault(n *ast.Node) ast.NodeID {
	inner := f.src.Get(n.Kid(0))
	switch {
	case inner.Kind.IsType():
		return ast.NoNodeID
	case inner.Kind == ast.KindFuncDecl:
		return f.like(n, f.function(inner))
	case inner.Kind == ast.KindClassDecl:
		return f.like(n, f.class(inner))
	case inner.Kind == ast.KindIdent && f.typeOnly[inner.Text]:
		return ast.NoNodeID
	}
	return f.like(n, f.expr(n.Kid(0)))
}

// importSpec builds { imported as local } for generated imports.
func (f *folder) importSpec(imported string, local ast.NodeID) ast.NodeID {
	return f.out.New(ast.KindImportSpec, source.Span{}, f.out.Ident(imported, source.Span{}), local)
}

// importFrom builds import { specs } from "source".
func (f *folder) importFrom(from string, specs ...ast.NodeID) ast.NodeID {
	src := f.out.Add(ast.Node{Kind: ast.KindLiteral, Op: token.StringLit, Text: quote(from), Flags: ast.FlagSynth})
	return f.out.New(ast.KindImport, source.Span{}, append([]ast.NodeID{src, ast.NoNodeID}, specs...)...)
}
