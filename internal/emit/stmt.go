package emit

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/source"
)

// closer is the position of the '}' that ends sp, where dangling comments
// are anchored.
func closer(sp source.Span) uint32 {
	if sp.IsDummy() || sp.End == source.NoPos {
		return source.NoPos
	}
	return sp.End - 1
}

func (p *printer) hasDangling(sp source.Span) bool {
	pos := closer(sp)
	return pos != source.NoPos && len(p.cm.Dangling(pos)) > 0
}

// stmt prints one statement with its leading comments on its own line.
func (p *printer) stmt(id ast.NodeID) {
	n := p.tree.Get(id)
	if n == nil {
		return
	}
	p.lastSpan = n.Span
	p.leadingComments(n.Span.Start)
	p.w.Map(n.Span)
	p.stmtBody(n)
	p.w.Newline()
}

func (p *printer) stmtBody(n *ast.Node) {
	switch n.Kind {
	case ast.KindExprStmt:
		wrap := p.needsStmtParens(n.Kid(0))
		p.open(wrap)
		p.expr(n.Kid(0), precLowest, 0)
		p.close(wrap)
		p.w.Semi()
	case ast.KindVarDecl:
		p.varDecl(n, 0)
		p.w.Semi()
	case ast.KindFuncDecl:
		p.function(n)
	case ast.KindClassDecl:
		p.class(n)
	case ast.KindBlock:
		p.block(n)
	case ast.KindEmpty:
		p.tok(";")
	case ast.KindDebugger:
		p.tok("debugger")
		p.w.Semi()
	case ast.KindIf:
		p.ifStmt(n)
	case ast.KindFor:
		p.forStmt(n)
	case ast.KindForIn, ast.KindForOf:
		p.forInOf(n)
	case ast.KindWhile:
		p.tok("while")
		p.w.Space()
		p.paren(n.Kid(0))
		p.body(n.Kid(1))
	case ast.KindDoWhile:
		p.tok("do")
		p.body(n.Kid(0))
		if p.tree.Kind(n.Kid(0)) == ast.KindBlock {
			p.w.Space()
		} else {
			p.w.Newline()
		}
		p.tok("while")
		p.w.Space()
		p.paren(n.Kid(1))
		p.w.Semi()
	case ast.KindReturn, ast.KindThrow:
		if n.Kind == ast.KindReturn {
			p.tok("return")
		} else {
			p.tok("throw")
		}
		if arg := n.Kid(0); arg.IsValid() {
			p.w.Space()
			p.expr(arg, precLowest, 0)
		}
		p.w.Semi()
	case ast.KindBreak, ast.KindContinue:
		if n.Kind == ast.KindBreak {
			p.tok("break")
		} else {
			p.tok("continue")
		}
		if label := n.Kid(0); label.IsValid() {
			p.w.Space()
			p.expr(label, precLowest, 0)
		}
		p.w.Semi()
	case ast.KindTry:
		p.tryStmt(n)
	case ast.KindSwitch:
		p.switchStmt(n)
	case ast.KindLabeled:
		p.expr(n.Kid(0), precLowest, 0)
		p.tok(":")
		if body := p.tree.Get(n.Kid(1)); body.Kind == ast.KindEmpty {
			p.tok(";")
		} else {
			p.w.Space()
			p.stmtBody(body)
		}
	case ast.KindWith:
		p.tok("with")
		p.w.Space()
		p.paren(n.Kid(0))
		p.body(n.Kid(1))
	case ast.KindImport:
		p.importDecl(n)
	case ast.KindExportNamed:
		p.exportNamed(n)
	case ast.KindExportAll:
		p.tok("export")
		p.w.Space()
		p.tok("*")
		if exported := n.Kid(2); exported.IsValid() {
			p.w.Space()
			p.tok("as")
			p.w.Space()
			p.expr(exported, precLowest, 0)
		}
		p.w.Space()
		p.tok("from")
		p.w.Space()
		p.from(n.Kid(0), n.Kid(1))
		p.w.Semi()
	case ast.KindExportDecl:
		p.tok("export")
		p.w.Space()
		decl := p.tree.Get(n.Kid(0))
		p.w.Map(decl.Span)
		p.stmtBody(decl)
	case ast.KindExportDefault:
		p.tok("export")
		p.w.Space()
		p.tok("default")
		p.w.Space()
		decl := p.tree.Get(n.Kid(0))
		switch decl.Kind {
		case ast.KindFuncDecl, ast.KindClassDecl:
			p.stmtBody(decl)
		default:
			wrap := p.needsStmtParens(n.Kid(0))
			p.open(wrap)
			p.expr(n.Kid(0), precComma, 0)
			p.close(wrap)
			p.w.Semi()
		}
	default:
		p.unknown(n)
	}
}

func (p *printer) paren(id ast.NodeID) {
	p.tok("(")
	p.expr(id, precLowest, 0)
	p.tok(")")
}

// block prints { stmts } with dangling comments before the closing brace.
func (p *printer) block(n *ast.Node) {
	if n == nil {
		p.tok("{}")
		return
	}
	p.w.Map(n.Span)
	p.tok("{")
	if len(n.Kids) == 0 && !p.hasDangling(n.Span) {
		p.tok("}")
		return
	}
	p.w.IndentPush()
	p.w.Newline()
	for _, k := range n.Kids {
		p.stmt(k)
	}
	p.danglingComments(closer(n.Span))
	p.w.IndentPop()
	p.w.DropSemi()
	p.w.Newline()
	p.tok("}")
}

// body prints the statement controlled by if, for, while and friends: a
// block stays on the line, anything else goes on its own indented line.
func (p *printer) body(id ast.NodeID) {
	n := p.tree.Get(id)
	switch n.Kind {
	case ast.KindBlock:
		p.w.Space()
		p.block(n)
	case ast.KindEmpty:
		p.tok(";")
	default:
		p.w.IndentPush()
		p.w.Newline()
		p.leadingComments(n.Span.Start)
		p.w.Map(n.Span)
		p.stmtBody(n)
		p.w.IndentPop()
	}
}

func (p *printer) varDecl(n *ast.Node, flags exprFlags) {
	p.tok(n.Text)
	p.w.Space()
	for i, d := range n.Kids {
		if i > 0 {
			p.comma()
		}
		dn := p.tree.Get(d)
		p.w.Map(dn.Span)
		p.expr(dn.Kid(0), precComma, 0)
		if init := dn.Kid(1); init.IsValid() {
			p.op("=")
			p.expr(init, precComma, flags)
		}
	}
}

func (p *printer) ifStmt(n *ast.Node) {
	p.tok("if")
	p.w.Space()
	p.paren(n.Kid(0))
	cons, alt := n.Kid(1), n.Kid(2)
	braced := p.tree.Kind(cons) == ast.KindBlock
	if alt.IsValid() && !braced && p.danglingElse(cons) {
		// if (a) { if (b) x; } else y;
		p.w.Space()
		p.tok("{")
		p.w.IndentPush()
		p.w.Newline()
		p.stmt(cons)
		p.w.IndentPop()
		p.w.DropSemi()
		p.w.Newline()
		p.tok("}")
		braced = true
	} else {
		p.body(cons)
	}
	if !alt.IsValid() {
		return
	}
	if braced {
		p.w.Space()
	} else {
		p.w.Newline()
	}
	p.tok("else")
	an := p.tree.Get(alt)
	if an.Kind == ast.KindIf {
		p.w.Space()
		p.w.Map(an.Span)
		p.ifStmt(an)
		return
	}
	p.body(alt)
}

// danglingElse reports whether an else after id would bind to an if nested
// inside it.
func (p *printer) danglingElse(id ast.NodeID) bool {
	for {
		n := p.tree.Get(id)
		switch n.Kind {
		case ast.KindIf:
			if !n.Kid(2).IsValid() {
				return true
			}
			id = n.Kid(2)
		case ast.KindFor, ast.KindWhile:
			id = n.Kids[len(n.Kids)-1]
		case ast.KindForIn, ast.KindForOf, ast.KindLabeled, ast.KindWith:
			id = n.Kids[len(n.Kids)-1]
		default:
			return false
		}
	}
}

func (p *printer) forStmt(n *ast.Node) {
	p.tok("for")
	p.w.Space()
	p.tok("(")
	if init := n.Kid(0); init.IsValid() {
		if in := p.tree.Get(init); in.Kind == ast.KindVarDecl {
			p.varDecl(in, forbidIn)
		} else {
			p.expr(init, precLowest, forbidIn)
		}
	}
	p.tok(";")
	if test := n.Kid(1); test.IsValid() {
		p.w.Space()
		p.expr(test, precLowest, 0)
	}
	p.tok(";")
	if update := n.Kid(2); update.IsValid() {
		p.w.Space()
		p.expr(update, precLowest, 0)
	}
	p.tok(")")
	p.body(n.Kid(3))
}

func (p *printer) forInOf(n *ast.Node) {
	p.tok("for")
	if n.Flags.Has(ast.FlagAwait) {
		p.w.Space()
		p.tok("await")
	}
	p.w.Space()
	p.tok("(")
	if left := p.tree.Get(n.Kid(0)); left.Kind == ast.KindVarDecl {
		p.varDecl(left, forbidIn)
	} else {
		p.expr(n.Kid(0), precLowest, forbidIn)
	}
	p.w.Space()
	if n.Kind == ast.KindForIn {
		p.tok("in")
		p.w.Space()
		p.expr(n.Kid(1), precLowest, 0)
	} else {
		p.tok("of")
		p.w.Space()
		p.expr(n.Kid(1), precComma, 0)
	}
	p.tok(")")
	p.body(n.Kid(2))
}

func (p *printer) tryStmt(n *ast.Node) {
	p.tok("try")
	p.w.Space()
	p.block(p.tree.Get(n.Kid(0)))
	if c := p.tree.Get(n.Kid(1)); c != nil {
		p.w.Space()
		p.w.Map(c.Span)
		p.tok("catch")
		if param := c.Kid(0); param.IsValid() {
			p.w.Space()
			p.paren(param)
		}
		p.w.Space()
		p.block(p.tree.Get(c.Kid(1)))
	}
	if fin := n.Kid(2); fin.IsValid() {
		p.w.Space()
		p.tok("finally")
		p.w.Space()
		p.block(p.tree.Get(fin))
	}
}

func (p *printer) switchStmt(n *ast.Node) {
	p.tok("switch")
	p.w.Space()
	p.paren(n.Kid(0))
	p.w.Space()
	p.tok("{")
	p.w.IndentPush()
	p.w.Newline()
	for _, id := range n.Kids[1:] {
		c := p.tree.Get(id)
		p.lastSpan = c.Span
		p.leadingComments(c.Span.Start)
		p.w.Map(c.Span)
		if test := c.Kid(0); test.IsValid() {
			p.tok("case")
			p.w.Space()
			p.expr(test, precLowest, 0)
		} else {
			p.tok("default")
		}
		p.tok(":")
		stmts := c.Kids[1:]
		if len(stmts) == 1 && p.tree.Kind(stmts[0]) == ast.KindBlock {
			p.w.Space()
			p.block(p.tree.Get(stmts[0]))
			p.w.Newline()
			continue
		}
		p.w.IndentPush()
		p.w.Newline()
		for _, s := range stmts {
			p.stmt(s)
		}
		p.w.IndentPop()
		p.w.Newline()
	}
	p.danglingComments(closer(n.Span))
	p.w.IndentPop()
	p.w.DropSemi()
	p.w.Newline()
	p.tok("}")
}

func (p *printer) importDecl(n *ast.Node) {
	p.tok("import")
	specs := n.Kids[2:]
	if len(specs) == 0 {
		p.w.Space()
		p.from(n.Kid(0), n.Kid(1))
		p.w.Semi()
		return
	}
	p.w.Space()
	i := 0
	if p.tree.Kind(specs[0]) == ast.KindImportDefault {
		p.expr(p.tree.Get(specs[0]).Kid(0), precLowest, 0)
		i++
		if i < len(specs) {
			p.comma()
		}
	}
	switch {
	case i < len(specs) && p.tree.Kind(specs[i]) == ast.KindImportNamespace:
		p.tok("*")
		p.w.Space()
		p.tok("as")
		p.w.Space()
		p.expr(p.tree.Get(specs[i]).Kid(0), precLowest, 0)
	case i < len(specs):
		p.specList(specs[i:])
	}
	p.w.Space()
	p.tok("from")
	p.w.Space()
	p.from(n.Kid(0), n.Kid(1))
	p.w.Semi()
}

func (p *printer) exportNamed(n *ast.Node) {
	p.tok("export")
	p.w.Space()
	p.specList(n.Kids[2:])
	if src := n.Kid(0); src.IsValid() {
		p.w.Space()
		p.tok("from")
		p.w.Space()
		p.from(src, n.Kid(1))
	}
	p.w.Semi()
}

// from prints a module specifier and its import attributes.
func (p *printer) from(src, attrs ast.NodeID) {
	p.expr(src, precLowest, 0)
	if attrs.IsValid() {
		p.w.Space()
		p.tok("with")
		p.w.Space()
		p.expr(attrs, precLowest, 0)
	}
}

// specList prints { a, b as c } for import and export specifiers.
func (p *printer) specList(specs []ast.NodeID) {
	if len(specs) == 0 {
		p.tok("{}")
		return
	}
	p.tok("{")
	p.w.Space()
	for i, id := range specs {
		if i > 0 {
			p.comma()
		}
		s := p.tree.Get(id)
		p.w.Map(s.Span)
		first, second := s.Kid(0), s.Kid(1)
		p.expr(first, precLowest, 0)
		if f, sec := p.tree.Get(first), p.tree.Get(second); sec != nil && (f.Kind != sec.Kind || f.Text != sec.Text) {
			p.w.Space()
			p.tok("as")
			p.w.Space()
			p.expr(second, precLowest, 0)
		}
	}
	p.w.Space()
	p.tok("}")
}
