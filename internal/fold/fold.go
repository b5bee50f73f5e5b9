package fold

import (
	"fmt"
	"strconv"

	"mesozoic/internal/ast"
	"mesozoic/internal/comments"
	"mesozoic/internal/diag"
	"mesozoic/internal/hygiene"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
	"mesozoic/internal/trace"
)

// Result of folding one tree. Tree is nil when Errors > 0.
type Result struct {
	Tree   *ast.Tree
	Errors uint
}

// OK reports whether the fold produced a tree.
func (r Result) OK() bool { return r.Errors == 0 && r.Tree != nil }

// Fold turns a parsed TypeScript/JSX tree into a new tree that holds only
// JavaScript: types are erased, JSX becomes calls, enums and namespaces become
// IIFEs and syntax newer than the target is lowered. src is never modified.
func Fold(src *ast.Tree, opts Options) (res Result) {
	if opts.Hygiene == nil {
		opts.Hygiene = hygiene.NewContext()
	}
	if opts.Comments == nil {
		opts.Comments = comments.New()
	}
	if opts.Target == targetUnset {
		opts.Target = DefaultTarget
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	f := &folder{
		src:  src,
		out:  ast.NewTree(src.File, src.Dialect, uint(src.Nodes.Len())+16),
		opts: opts,
		hyg:  opts.Hygiene,
		cm:   opts.Comments,
		rep:  opts.Reporter,
	}

	span := trace.Begin(opts.Tracer, trace.ScopePass, "fold", 0)
	defer func() {
		if r := recover(); r != nil {
			f.report(diag.FoldPanic, diag.SevError, f.lastSpan, fmt.Sprintf("internal transform failure: %v", r))
			res = Result{Errors: max(f.errors, 1)}
		}
		span.WithExtra("errors", fmt.Sprint(res.Errors)).End("")
	}()

	f.run()
	if f.errors > 0 {
		return Result{Errors: f.errors}
	}
	return Result{Tree: f.out}
}

// folder - состояние одного прохода fold
type folder struct {
	src  *ast.Tree
	out  *ast.Tree
	opts Options
	jsx  JSXOptions
	hyg  *hygiene.Context
	cm   *comments.Table
	rep  diag.Reporter

	errors   uint
	lastSpan source.Span

	refs     map[string]int  // value references by name
	typeOnly map[string]bool // names that exist only at the type level
	defines  map[string]Define

	frames  []*frame
	tempSeq int
	scopes  []*scope // namespace and function scopes inside namespaces
	decls   []map[string]bool
	rt      jsxRuntime
	warned  map[string]bool

	// derivedCtor is set inside the constructor of a class with extends,
	// where this cannot be passed to jsxDEV.
	derivedCtor bool
}

// frame is a function (or the program) that receives hoisted temporaries.
type frame struct {
	temps []hygiene.Mark
}

func (f *folder) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if sev == diag.SevError {
		f.errors++
	}
	f.rep.Report(code, sev, sp, msg, nil)
}

func (f *folder) errorAt(sp source.Span, code diag.Code, msg string) {
	f.report(code, diag.SevError, sp, msg)
}

func (f *folder) warnAt(sp source.Span, code diag.Code, msg string) {
	f.report(code, diag.SevWarning, sp, msg)
}

func (f *folder) run() {
	root := f.src.Get(f.src.Root)
	if root == nil || root.Kind != ast.KindProgram {
		f.errorAt(source.Span{}, diag.FoldUnknownNode, "fold expects a program root")
		return
	}
	f.defines = make(map[string]Define, len(f.opts.Defines))
	for _, d := range f.opts.Defines {
		f.defines[d.Name] = d
	}
	f.jsx = f.resolvePragmas(f.opts.JSX.withDefaults())
	f.collectRefs()

	f.pushFrame()
	stmts := f.stmts(root.Kids)
	temps := f.popFrame()
	stmts = f.withTemps(stmts, temps)
	stmts = f.withRuntimeImports(stmts)

	prog := f.out.New(ast.KindProgram, root.Span, stmts...)
	f.out.Get(prog).Flags |= root.Flags & ast.FlagStrict
	f.out.Root = prog

	if f.errors == 0 {
		f.renameMarked()
		f.checkLeaks()
	}
}

func (f *folder) pushFrame() {
	f.frames = append(f.frames, &frame{})
}

func (f *folder) popFrame() []hygiene.Mark {
	fr := f.frames[len(f.frames)-1]
	f.frames = f.frames[:len(f.frames)-1]
	return fr.temps
}

// tempName returns _a, _b, ... _z, _a1, ...
func tempName(seq int) string {
	name := "_" + string(rune('a'+seq%26))
	if seq >= 26 {
		name += strconv.Itoa(seq / 26)
	}
	return name
}

// temp issues a fresh temporary hoisted to the enclosing function.
func (f *folder) temp() hygiene.Mark {
	m := f.hyg.Fresh(tempName(f.tempSeq))
	f.tempSeq++
	fr := f.frames[len(f.frames)-1]
	fr.temps = append(fr.temps, m)
	return m
}

// ref creates a new identifier node for a marked binding.
func (f *folder) ref(m hygiene.Mark) ast.NodeID {
	return f.out.MarkedIdent(f.hyg.Name(m), m)
}

// withTemps prepends `var _a, _b;` after the directive prologue.
func (f *folder) withTemps(stmts []ast.NodeID, temps []hygiene.Mark) []ast.NodeID {
	if len(temps) == 0 {
		return stmts
	}
	decls := make([]ast.NodeID, 0, len(temps))
	for _, m := range temps {
		decls = append(decls, f.out.New(ast.KindDeclarator, source.Span{}, f.ref(m), ast.NoNodeID))
	}
	decl := f.varDecl("var", source.Span{}, decls...)
	return f.insertAfterDirectives(stmts, decl)
}

func (f *folder) insertAfterDirectives(stmts []ast.NodeID, add ...ast.NodeID) []ast.NodeID {
	i := 0
	for i < len(stmts) && f.isDirective(stmts[i]) {
		i++
	}
	out := make([]ast.NodeID, 0, len(stmts)+len(add))
	out = append(out, stmts[:i]...)
	out = append(out, add...)
	return append(out, stmts[i:]...)
}

func (f *folder) isDirective(id ast.NodeID) bool {
	n := f.out.Get(id)
	if n == nil || n.Kind != ast.KindExprStmt {
		return false
	}
	lit := f.out.Get(n.Kid(0))
	return lit != nil && lit.Kind == ast.KindLiteral && lit.Op == token.StringLit && !lit.Flags.Has(ast.FlagSynth)
}

func (f *folder) varDecl(kw string, sp source.Span, decls ...ast.NodeID) ast.NodeID {
	id := f.out.New(ast.KindVarDecl, sp, decls...)
	f.out.Get(id).Text = kw
	return id
}

// leaf copies a node without children into the output tree.
func (f *folder) leaf(n *ast.Node) ast.NodeID {
	return f.out.Add(ast.Node{Kind: n.Kind, Op: n.Op, Text: n.Text, Span: n.Span, Mark: n.Mark, Flags: n.Flags & runtimeFlags})
}

// runtimeFlags are the flags that mean something to JavaScript.
const runtimeFlags = ast.FlagAsync | ast.FlagGenerator | ast.FlagAwait | ast.FlagStatic |
	ast.FlagComputed | ast.FlagShorthand | ast.FlagOptional | ast.FlagPrefix | ast.FlagDelegate |
	ast.FlagExprBody | ast.FlagHasArgs | ast.FlagConst | ast.FlagRest | ast.FlagAccessor |
	ast.FlagDefault | ast.FlagSynth | ast.FlagNewline | ast.FlagInParens | ast.FlagStrict

// like creates an output node with the kind, operator, text, span and runtime
// flags of n and the given children.
func (f *folder) like(n *ast.Node, kids ...ast.NodeID) ast.NodeID {
	return f.out.Add(ast.Node{Kind: n.Kind, Op: n.Op, Text: n.Text, Span: n.Span, Flags: n.Flags & runtimeFlags, Kids: kids})
}

// renameMarked gives every identifier introduced by the fold its final name.
func (f *folder) renameMarked() {
	taken := make(map[string]bool)
	f.out.Walk(f.out.Root, func(_ ast.NodeID, n *ast.Node) bool {
		if n.Kind == ast.KindIdent && !n.Mark.IsValid() {
			taken[n.Text] = true
		}
		return true
	})
	names := f.hyg.Resolve(taken)
	f.out.Walk(f.out.Root, func(_ ast.NodeID, n *ast.Node) bool {
		if n.Kind != ast.KindIdent || !n.Mark.IsValid() {
			return true
		}
		name, ok := names[n.Mark]
		if !ok || taken[name] {
			f.errorAt(n.Span, diag.FoldHygieneConflict, "no free name for generated binding "+n.Text)
			return true
		}
		n.Text = name
		return true
	})
}

// checkLeaks asserts that no type-level or JSX node survived.
func (f *folder) checkLeaks() {
	f.out.Walk(f.out.Root, func(_ ast.NodeID, n *ast.Node) bool {
		switch {
		case n.Kind.IsType(), n.Kind.IsTSWrapper(), n.Type.IsValid(), n.TArgs.IsValid(), n.Aux.IsValid():
			f.errorAt(n.Span, diag.FoldTypeLeaked, "type syntax survived erasure: "+n.Kind.String())
			return false
		case n.Kind >= ast.KindJSXElement && n.Kind <= ast.KindJSXSpreadChild:
			f.errorAt(n.Span, diag.FoldTypeLeaked, "JSX survived lowering: "+n.Kind.String())
			return false
		}
		return true
	})
}
