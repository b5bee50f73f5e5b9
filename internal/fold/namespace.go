package fold

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

type scopeKind uint8

const (
	scopeFunction scopeKind = iota
	scopeNamespace
	scopeEnum
)

// scope tracks the names that need rewriting inside a namespace or enum
// body: exported variables are read through the namespace object.
type scope struct {
	kind    scopeKind
	name    string
	exports map[string]bool
	locals  map[string]bool
}

// exportedIn returns the namespace (or enum) whose member name refers to, or
// nil when name is a plain binding.
func (f *folder) exportedIn(name string) *scope {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		s := f.scopes[i]
		if s.exports[name] {
			return s
		}
		if s.locals[name] {
			return nil
		}
	}
	return nil
}

// namespaceScope returns the innermost scope when it is a namespace body.
func (f *folder) namespaceScope() *scope {
	if len(f.scopes) == 0 {
		return nil
	}
	if s := f.scopes[len(f.scopes)-1]; s.kind == scopeNamespace {
		return s
	}
	return nil
}

// enterFunction records the bindings of a function nested in a namespace so
// they shadow exported names. Outside namespaces it does nothing.
func (f *folder) enterFunction(params, body ast.NodeID) (leave func()) {
	if len(f.scopes) == 0 {
		return func() {}
	}
	s := &scope{kind: scopeFunction, locals: make(map[string]bool)}
	if pn := f.src.Get(params); pn != nil {
		for _, p := range pn.Kids {
			bindingNames(f.src, f.src.Get(p).Kid(0), func(name string) { s.locals[name] = true })
		}
	}
	if bn := f.src.Get(body); bn != nil && bn.Kind == ast.KindBlock {
		for _, id := range bn.Kids {
			f.localNames(id, s.locals, nil)
		}
	}
	f.scopes = append(f.scopes, s)
	return func() { f.scopes = f.scopes[:len(f.scopes)-1] }
}

// localNames sorts the names declared by a statement into locals and, for a
// namespace body, exported variables.
func (f *folder) localNames(id ast.NodeID, locals, exports map[string]bool) {
	n := f.src.Get(id)
	into := locals
	if n.Kind == ast.KindExportDecl {
		n = f.src.Get(n.Kid(0))
		if n.Kind == ast.KindVarDecl && exports != nil {
			into = exports
		}
	}
	switch n.Kind {
	case ast.KindVarDecl:
		if n.Flags.Has(ast.FlagDeclare) {
			return
		}
		for _, d := range n.Kids {
			bindingNames(f.src, f.src.Get(d).Kid(0), func(name string) { into[name] = true })
		}
	case ast.KindFuncDecl, ast.KindClassDecl, ast.KindEnum, ast.KindNamespace, ast.KindImportEquals:
		if nn := f.src.Get(n.Kid(0)); nn != nil && nn.Kind == ast.KindIdent {
			locals[nn.Text] = true
		}
	}
}

// namespace lowers a namespace to an IIFE over an object:
//
//	var N;
//	(function (N) { ... })(N || (N = {}));
//
// A namespace holding only types produces nothing.
func (f *folder) namespace(n *ast.Node, exported bool) []ast.NodeID {
	if n.Flags.Has(ast.FlagDeclare|ast.FlagGlobal) || !n.Kid(1).IsValid() {
		return nil
	}
	nameNode := f.src.Get(n.Kid(0))
	if nameNode.Kind != ast.KindIdent {
		f.errorAt(nameNode.Span, diag.FoldUnsupported, "a namespace name must be an identifier")
		return nil
	}
	name := nameNode.Text
	parent := f.namespaceScope()

	s := &scope{kind: scopeNamespace, name: name, exports: make(map[string]bool), locals: make(map[string]bool)}
	body := f.src.Get(n.Kid(1))
	f.scopes = append(f.scopes, s)
	f.pushFrame()
	var stmts []ast.NodeID
	if body.Kind == ast.KindNamespace {
		// A.B.C: the inner namespace is an exported member of the outer one
		stmts = f.namespace(body, true)
	} else {
		for _, id := range body.Kids {
			f.localNames(id, s.locals, s.exports)
		}
		stmts = f.stmts(body.Kids)
	}
	temps := f.popFrame()
	f.scopes = f.scopes[:len(f.scopes)-1]
	if len(stmts) == 0 {
		return nil
	}
	stmts = f.withTemps(stmts, temps)
	return f.objectIIFE(n.Span, nameNode, stmts, exported, parent)
}

// objectIIFE emits the declaration and the IIFE shared by enums and
// namespaces.
func (f *folder) objectIIFE(sp source.Span, nameNode *ast.Node, body []ast.NodeID, exported bool, parent *scope) []ast.NodeID {
	name := nameNode.Text
	var out []ast.NodeID
	if f.declareOnce(name) {
		kw := "let"
		if len(f.decls) == 1 {
			kw = "var"
		}
		decl := f.varDecl(kw, sp, f.out.New(ast.KindDeclarator, nameNode.Span, f.out.Ident(name, nameNode.Span), ast.NoNodeID))
		if exported && parent == nil {
			decl = f.exportWrap(sp, decl)
		}
		out = append(out, decl)
	}

	var arg ast.NodeID
	if exported && parent != nil {
		// N = P.N || (P.N = {})
		member := func() ast.NodeID { return f.out.Member(f.out.Ident(parent.name, sp), name, sp) }
		fallback := f.paren(f.assign(sp, member(), f.out.New(ast.KindObject, sp)))
		arg = f.assign(sp, f.out.Ident(name, sp), f.bin(sp, token.OrOr, member(), fallback))
	} else {
		// N || (N = {})
		fallback := f.paren(f.assign(sp, f.out.Ident(name, sp), f.out.New(ast.KindObject, sp)))
		arg = f.bin(sp, token.OrOr, f.out.Ident(name, sp), fallback)
	}

	param := f.out.New(ast.KindParam, nameNode.Span, f.out.Ident(name, nameNode.Span), ast.NoNodeID)
	params := f.out.New(ast.KindParams, sp, param)
	block := f.out.New(ast.KindBlock, sp, body...)
	fn := f.out.New(ast.KindFuncExpr, sp, ast.NoNodeID, params, block)
	call := f.out.Call(sp, f.paren(fn), arg)
	return append(out, f.out.New(ast.KindExprStmt, sp, call))
}

// namespaceExport folds export <declaration> inside a namespace body.
// Variables become assignments to the namespace object; functions and
// classes keep their local binding and are copied onto it.
func (f *folder) namespaceExport(ns *scope, n *ast.Node) []ast.NodeID {
	decl := f.src.Get(n.Kid(0))
	f.cm.Move(n.Span.Start, decl.Span.Start)
	member := func(name string, sp source.Span) ast.NodeID {
		return f.out.Member(f.out.Ident(ns.name, sp), name, sp)
	}
	copyOut := func(nameNode *ast.Node) ast.NodeID {
		sp := nameNode.Span
		return f.out.New(ast.KindExprStmt, sp, f.assign(sp, member(nameNode.Text, sp), f.out.Ident(nameNode.Text, sp)))
	}

	switch decl.Kind {
	case ast.KindVarDecl:
		if decl.Flags.Has(ast.FlagDeclare) {
			return nil
		}
		var out []ast.NodeID
		for _, d := range decl.Kids {
			dn := f.src.Get(d)
			binding := f.src.Get(dn.Kid(0))
			if binding.Kind != ast.KindIdent {
				f.errorAt(binding.Span, diag.FoldUnsupported, "destructuring exports inside a namespace are not supported")
				continue
			}
			if !dn.Kid(1).IsValid() {
				continue
			}
			set := f.assign(dn.Span, member(binding.Text, binding.Span), f.expr(dn.Kid(1)))
			out = append(out, f.out.New(ast.KindExprStmt, dn.Span, set))
		}
		return out
	case ast.KindFuncDecl, ast.KindClassDecl:
		folded := f.stmt(n.Kid(0))
		if len(folded) == 0 {
			return nil
		}
		return append(folded, copyOut(f.src.Get(decl.Kid(0))))
	case ast.KindEnum:
		return f.enum(decl, true)
	case ast.KindNamespace:
		return f.namespace(decl, true)
	case ast.KindImportEquals:
		if f.src.Kind(decl.Kid(1)) == ast.KindExternalRef {
			f.errorAt(decl.Span, diag.FoldUnsupported, "'import = require()' cannot be expressed in an ES module")
			return nil
		}
		name := f.src.Get(decl.Kid(0))
		set := f.assign(decl.Span, member(name.Text, name.Span), f.entity(decl.Kid(1)))
		return one(f.out.New(ast.KindExprStmt, decl.Span, set))
	}
	if decl.Kind.IsType() {
		return nil
	}
	f.errorAt(decl.Span, diag.FoldUnknownNode, "unexpected "+decl.Kind.String()+" exported from a namespace")
	return nil
}
