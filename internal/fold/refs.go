package fold

import (
	"mesozoic/internal/ast"
)

// collectRefs counts value references by name across the whole file. Import
// elision keeps a specifier only when its local name is referenced as a value.
// The count ignores scopes, so a shadowing parameter keeps an import alive.
func (f *folder) collectRefs() {
	f.refs = make(map[string]int)
	f.typeOnly = make(map[string]bool)
	values := make(map[string]bool)

	root := f.src.Get(f.src.Root)
	for _, id := range root.Kids {
		f.declNames(id, values)
	}
	for name := range values {
		delete(f.typeOnly, name)
	}

	sawJSX := false
	var visit func(id ast.NodeID)
	visit = func(id ast.NodeID) {
		n := f.src.Get(id)
		if n == nil || n.Kind.IsType() {
			return
		}
		for _, d := range n.Decos {
			visit(d)
		}
		switch n.Kind {
		case ast.KindIdent:
			f.refs[n.Text]++
			return
		case ast.KindImport, ast.KindExportAll, ast.KindBreak, ast.KindContinue:
			return
		case ast.KindImportEquals:
			// only the referenced entity counts, never the alias it declares
			if root := f.entityRoot(n.Kid(1)); root != "" {
				f.refs[root]++
			}
			return
		case ast.KindExternalRef:
			return
		case ast.KindExportNamed:
			if n.Kid(0).IsValid() {
				return
			}
			for _, spec := range n.Kids[2:] {
				if s := f.src.Get(spec); !s.Flags.Has(ast.FlagTypeOnly) {
					visit(s.Kid(0))
				}
			}
			return
		case ast.KindMember:
			visit(n.Kid(0))
			return
		case ast.KindLabeled:
			visit(n.Kid(1))
			return
		case ast.KindObjProp, ast.KindMethod, ast.KindProperty, ast.KindEnumMember:
			if n.Flags.Has(ast.FlagComputed) {
				visit(n.Kid(0))
			}
			for _, k := range n.Kids[1:] {
				visit(k)
			}
			return
		case ast.KindJSXElement, ast.KindJSXFragment:
			sawJSX = true
		case ast.KindJSXName:
			if !isIntrinsicTag(n.Text) {
				f.refs[n.Text]++
			}
			return
		case ast.KindJSXMemberName:
			visit(n.Kid(0))
			return
		case ast.KindJSXAttr:
			visit(n.Kid(1))
			return
		}
		for _, k := range n.Kids {
			visit(k)
		}
	}
	visit(f.src.Root)

	if sawJSX && f.jsx.Runtime == RuntimeClassic {
		f.refs[rootName(f.jsx.Factory)]++
		f.refs[rootName(f.jsx.Fragment)]++
	}
}

// declNames records the names a top-level statement declares: value names go
// to values, type-only names to f.typeOnly.
func (f *folder) declNames(id ast.NodeID, values map[string]bool) {
	n := f.src.Get(id)
	if n == nil {
		return
	}
	name := func(k ast.NodeID) string {
		if kn := f.src.Get(k); kn != nil && kn.Kind == ast.KindIdent {
			return kn.Text
		}
		return ""
	}
	switch n.Kind {
	case ast.KindExportDecl, ast.KindExportDefault:
		f.declNames(n.Kid(0), values)
	case ast.KindInterface, ast.KindTypeAlias:
		f.typeOnly[name(n.Kid(0))] = true
	case ast.KindFuncDecl, ast.KindClassDecl, ast.KindEnum, ast.KindNamespace:
		if n.Flags.Has(ast.FlagDeclare) {
			f.typeOnly[name(n.Kid(0))] = true
		} else {
			values[name(n.Kid(0))] = true
		}
	case ast.KindVarDecl:
		for _, d := range n.Kids {
			bindingNames(f.src, f.src.Get(d).Kid(0), func(s string) {
				if n.Flags.Has(ast.FlagDeclare) {
					f.typeOnly[s] = true
				} else {
					values[s] = true
				}
			})
		}
	case ast.KindImport:
		for _, spec := range n.Kids[2:] {
			s := f.src.Get(spec)
			local := name(s.Kid(len(s.Kids) - 1))
			if n.Flags.Has(ast.FlagTypeOnly) || s.Flags.Has(ast.FlagTypeOnly) {
				f.typeOnly[local] = true
			} else {
				values[local] = true
			}
		}
	case ast.KindImportEquals:
		if n.Flags.Has(ast.FlagTypeOnly) {
			f.typeOnly[name(n.Kid(0))] = true
		} else {
			values[name(n.Kid(0))] = true
		}
	}
}

// bindingNames calls fn for every identifier a binding pattern declares.
func bindingNames(t *ast.Tree, id ast.NodeID, fn func(string)) {
	n := t.Get(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindIdent:
		fn(n.Text)
	case ast.KindArrayPattern:
		for _, k := range n.Kids {
			bindingNames(t, k, fn)
		}
	case ast.KindObjectPattern:
		for _, k := range n.Kids {
			kn := t.Get(k)
			if kn.Kind == ast.KindRestElement {
				bindingNames(t, kn.Kid(0), fn)
			} else {
				bindingNames(t, kn.Kid(1), fn)
			}
		}
	case ast.KindAssignPattern, ast.KindRestElement:
		bindingNames(t, n.Kid(0), fn)
	}
}

// rootName returns the first segment of a dotted name such as React.createElement.
func rootName(dotted string) string {
	for i := 0; i < len(dotted); i++ {
		if dotted[i] == '.' {
			return dotted[:i]
		}
	}
	return dotted
}

// entityRoot returns the left-most name of an entity name (A in A.B.C).
func (f *folder) entityRoot(id ast.NodeID) string {
	for {
		n := f.src.Get(id)
		switch {
		case n == nil:
			return ""
		case n.Kind == ast.KindTypeQualified:
			id = n.Kid(0)
		case n.Kind == ast.KindIdent:
			return n.Text
		default:
			return ""
		}
	}
}
