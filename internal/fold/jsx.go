package fold

import (
	"strconv"

	"mesozoic/internal/ast"
	"mesozoic/internal/hygiene"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

// Helpers imported by the automatic runtime.
const (
	helperJSX           = "jsx"
	helperJSXs          = "jsxs"
	helperFragment      = "Fragment"
	helperJSXDEV        = "jsxDEV"
	helperCreateElement = "createElement"
)

// jsxRuntime remembers which runtime helpers the file used.
type jsxRuntime struct {
	marks map[string]hygiene.Mark
}

// helper returns a reference to the local binding of a runtime helper,
// importing it on first use.
func (f *folder) helper(name string) ast.NodeID {
	if f.rt.marks == nil {
		f.rt.marks = make(map[string]hygiene.Mark)
	}
	m, ok := f.rt.marks[name]
	if !ok {
		m = f.hyg.Fresh("_" + name)
		f.rt.marks[name] = m
	}
	return f.ref(m)
}

// withRuntimeImports prepends the imports of the helpers the file used:
//
//	import { jsx as _jsx } from "react/jsx-runtime";
func (f *folder) withRuntimeImports(stmts []ast.NodeID) []ast.NodeID {
	if len(f.rt.marks) == 0 {
		return stmts
	}
	runtime := f.jsx.ImportSource + "/jsx-runtime"
	if f.jsx.Development {
		runtime = f.jsx.ImportSource + "/jsx-dev-runtime"
	}
	var specs []ast.NodeID
	for _, name := range []string{helperJSX, helperJSXs, helperFragment, helperJSXDEV} {
		if m, ok := f.rt.marks[name]; ok {
			specs = append(specs, f.importSpec(name, f.ref(m)))
		}
	}
	var imports []ast.NodeID
	if len(specs) > 0 {
		imports = append(imports, f.importFrom(runtime, specs...))
	}
	if m, ok := f.rt.marks[helperCreateElement]; ok {
		imports = append(imports, f.importFrom(f.jsx.ImportSource, f.importSpec(helperCreateElement, f.ref(m))))
	}
	return f.insertAfterDirectives(stmts, imports...)
}

// jsxChild is one lowered child; spread children come from {...list}.
type jsxChild struct {
	expr   ast.NodeID
	spread bool
}

// jsxElement lowers an element or fragment to a runtime call.
func (f *folder) jsxElement(n *ast.Node) ast.NodeID {
	var tag ast.NodeID
	var attrs []ast.NodeID
	var children *ast.Node
	if n.Kind == ast.KindJSXFragment {
		children = f.src.Get(n.Kid(0))
	} else {
		tag = f.jsxTag(n.Kid(0))
		if an := f.src.Get(n.Kid(1)); an != nil {
			attrs = an.Kids
		}
		children = f.src.Get(n.Kid(2))
	}
	var kids []jsxChild
	if children != nil {
		kids = f.jsxChildren(children.Kids)
	}
	if f.jsx.Runtime == RuntimeClassic {
		return f.jsxClassic(n, tag, attrs, kids)
	}
	return f.jsxAutomatic(n, tag, attrs, kids)
}

func (f *folder) jsxTag(id ast.NodeID) ast.NodeID {
	n := f.src.Get(id)
	switch n.Kind {
	case ast.KindJSXMemberName:
		prop := f.src.Get(n.Kid(1))
		return f.out.New(ast.KindMember, n.Span, f.jsxTagObject(n.Kid(0)), f.out.Ident(prop.Text, prop.Span))
	case ast.KindJSXName:
		if isIntrinsicTag(n.Text) {
			return f.out.String(quote(n.Text), n.Span)
		}
		return f.jsxTagObject(id)
	}
	return f.expr(id)
}

// jsxTagObject folds the object part of <a.b.C />, which is never intrinsic.
func (f *folder) jsxTagObject(id ast.NodeID) ast.NodeID {
	n := f.src.Get(id)
	switch {
	case n.Kind == ast.KindJSXMemberName:
		return f.jsxTag(id)
	case n.Text == "this":
		return f.out.New(ast.KindThis, n.Span)
	}
	return f.nameRef(&ast.Node{Kind: ast.KindIdent, Text: n.Text, Span: n.Span})
}

func (f *folder) jsxChildren(ids []ast.NodeID) []jsxChild {
	out := make([]jsxChild, 0, len(ids))
	for _, id := range ids {
		n := f.src.Get(id)
		switch n.Kind {
		case ast.KindJSXText:
			if text := cleanJSXText(n.Text); text != "" {
				out = append(out, jsxChild{expr: f.out.String(quote(decodeEntities(text)), n.Span)})
			}
		case ast.KindJSXExprContainer:
			if n.Kid(0).IsValid() {
				out = append(out, jsxChild{expr: f.expr(n.Kid(0))})
			}
		case ast.KindJSXSpreadChild:
			out = append(out, jsxChild{expr: f.expr(n.Kid(0)), spread: true})
		default:
			out = append(out, jsxChild{expr: f.expr(id)})
		}
	}
	return out
}

// jsxProps folds the attributes into object members. With extractKey the key
// attribute is returned separately; a key after a spread stays a prop and
// sets fallback, since jsx() cannot preserve that evaluation order.
func (f *folder) jsxProps(attrs []ast.NodeID, extractKey bool) (props []ast.NodeID, key ast.NodeID, fallback bool) {
	spread := false
	for _, id := range attrs {
		a := f.src.Get(id)
		if a.Kind == ast.KindJSXSpreadAttr {
			spread = true
			props = append(props, f.out.New(ast.KindSpread, a.Span, f.expr(a.Kid(0))))
			continue
		}
		name := f.src.Get(a.Kid(0))
		value := f.jsxAttrValue(a.Kid(1), a.Span)
		if extractKey && name.Text == "key" {
			if !spread {
				key = value
				continue
			}
			fallback = true
		}
		var k ast.NodeID
		if isIdentName(name.Text) {
			k = f.out.Ident(name.Text, name.Span)
		} else {
			k = f.out.String(quote(name.Text), name.Span)
		}
		props = append(props, f.out.New(ast.KindObjProp, a.Span, k, value))
	}
	return props, key, fallback
}

func (f *folder) jsxAttrValue(id ast.NodeID, sp source.Span) ast.NodeID {
	n := f.src.Get(id)
	switch {
	case n == nil:
		return f.out.Keyword(token.KwTrue, sp)
	case n.Kind == ast.KindLiteral && n.Op == token.StringLit:
		raw := n.Text
		if len(raw) >= 2 {
			raw = raw[1 : len(raw)-1]
		}
		return f.out.String(quote(decodeEntities(raw)), n.Span)
	case n.Kind == ast.KindJSXExprContainer:
		return f.expr(n.Kid(0))
	}
	return f.expr(id)
}

// jsxObject builds the props object, lowering spreads for old targets.
func (f *folder) jsxObject(sp source.Span, props []ast.NodeID) ast.NodeID {
	if f.opts.Target < ES2018 {
		for _, p := range props {
			if f.out.Kind(p) == ast.KindSpread {
				return f.lowerObjectSpread(sp, props)
			}
		}
	}
	return f.out.New(ast.KindObject, sp, props...)
}

// jsxAutomatic emits _jsx(type, props, key) and friends.
func (f *folder) jsxAutomatic(n *ast.Node, tag ast.NodeID, attrs []ast.NodeID, kids []jsxChild) ast.NodeID {
	sp := n.Span
	props, key, fallback := f.jsxProps(attrs, true)
	if tag == ast.NoNodeID {
		tag = f.helper(helperFragment)
	}
	if fallback {
		args := []ast.NodeID{tag, f.jsxObject(sp, props)}
		args = append(args, f.childArgs(kids)...)
		return f.out.Call(sp, f.helper(helperCreateElement), args...)
	}

	static := len(kids) > 1
	for _, k := range kids {
		static = static || k.spread
	}
	childKey := func() ast.NodeID { return f.out.Ident("children", sp) }
	switch {
	case static:
		arr := f.out.New(ast.KindArray, sp, f.childArgs(kids)...)
		props = append(props, f.out.New(ast.KindObjProp, sp, childKey(), arr))
	case len(kids) == 1:
		props = append(props, f.out.New(ast.KindObjProp, sp, childKey(), kids[0].expr))
	}
	args := []ast.NodeID{tag, f.jsxObject(sp, props)}

	if f.jsx.Development {
		if key == ast.NoNodeID {
			key = f.void0(sp)
		}
		isStatic := token.KwFalse
		if static {
			isStatic = token.KwTrue
		}
		self := f.out.New(ast.KindThis, sp)
		if f.derivedCtor {
			self = f.void0(sp)
		}
		args = append(args, key, f.out.Keyword(isStatic, sp), f.jsxSource(sp), self)
		return f.out.Call(sp, f.helper(helperJSXDEV), args...)
	}
	if key != ast.NoNodeID {
		args = append(args, key)
	}
	callee := helperJSX
	if static {
		callee = helperJSXs
	}
	return f.out.Call(sp, f.helper(callee), args...)
}

// jsxClassic emits React.createElement(type, props, ...children).
func (f *folder) jsxClassic(n *ast.Node, tag ast.NodeID, attrs []ast.NodeID, kids []jsxChild) ast.NodeID {
	sp := n.Span
	if tag == ast.NoNodeID {
		tag = f.dotted(f.jsx.Fragment, sp)
	}
	props := f.out.Keyword(token.KwNull, sp)
	if len(attrs) > 0 {
		list, _, _ := f.jsxProps(attrs, false)
		props = f.jsxObject(sp, list)
	}
	args := append([]ast.NodeID{tag, props}, f.childArgs(kids)...)
	return f.out.Call(sp, f.dotted(f.jsx.Factory, sp), args...)
}

func (f *folder) childArgs(kids []jsxChild) []ast.NodeID {
	out := make([]ast.NodeID, len(kids))
	for i, k := range kids {
		out[i] = k.expr
		if k.spread {
			out[i] = f.out.New(ast.KindSpread, f.out.Span(k.expr), k.expr)
		}
	}
	return out
}

// jsxSource builds { fileName, lineNumber, columnNumber } for jsxDEV.
func (f *folder) jsxSource(sp source.Span) ast.NodeID {
	line, col := f.src.File.UTF16LineCol(sp.Start)
	prop := func(name string, value ast.NodeID) ast.NodeID {
		return f.out.New(ast.KindObjProp, sp, f.out.Ident(name, sp), value)
	}
	return f.out.New(ast.KindObject, sp,
		prop("fileName", f.out.String(quote(f.src.File.Path), sp)),
		prop("lineNumber", f.out.Number(strconv.Itoa(int(line)+1), sp)),
		prop("columnNumber", f.out.Number(strconv.Itoa(int(col)+1), sp)),
	)
}
