// Package emit prints a folded JavaScript tree.
//
// Parentheses come from operator precedence; source parentheses survive as
// Paren nodes, so printing the same tree twice gives the same text. Pretty
// mode writes one statement per line with comments before their statement,
// minify mode strips whitespace and keeps only legal comments.
package emit

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"mesozoic/internal/ast"
	"mesozoic/internal/comments"
	"mesozoic/internal/diag"
	"mesozoic/internal/source"
	"mesozoic/internal/sourcemap"
	"mesozoic/internal/trace"
)

// Emit prints tree. The tree must be free of type-level and JSX nodes.
func Emit(tree *ast.Tree, opts Options) (res Result) {
	opts = opts.withDefaults()
	p := &printer{
		tree: tree,
		opts: opts,
		cm:   opts.Comments,
		rep:  opts.Reporter,
	}
	hint := 256
	if tree != nil && tree.File != nil {
		hint = len(tree.File.Content) + len(tree.File.Content)/4
	}
	p.w = NewWriter(opts, hint)

	span := trace.Begin(opts.Tracer, trace.ScopePass, "emit", 0)
	defer func() {
		if r := recover(); r != nil {
			p.errorAt(p.lastSpan, diag.EmitPanic, fmt.Sprintf("internal printer failure: %v", r))
			res = Result{Errors: max(p.errors, 1)}
		}
		span.WithExtra("errors", fmt.Sprint(res.Errors)).End("")
	}()

	root := tree.Get(tree.Root)
	if root == nil || root.Kind != ast.KindProgram {
		p.errorAt(source.Span{}, diag.EmitUnknownNode, "emit expects a program root")
		return Result{Errors: p.errors}
	}
	p.program(root)

	if err := p.w.MapError(); err != nil {
		code := diag.EmitSourceMapMismatch
		if errors.Is(err, sourcemap.ErrSpan) {
			code = diag.EmitSpanOutOfRange
		}
		p.errorAt(source.Span{}, code, err.Error())
	}
	out := p.w.Bytes()
	p.validate(out)
	if p.errors > 0 {
		return Result{Errors: p.errors}
	}
	return Result{Code: string(out)}
}

type printer struct {
	tree *ast.Tree
	opts Options
	w    *Writer
	cm   *comments.Table
	rep  diag.Reporter

	errors   uint
	lastSpan source.Span
}

func (p *printer) errorAt(sp source.Span, code diag.Code, msg string) {
	p.errors++
	p.rep.Report(code, diag.SevError, sp, msg, nil)
}

func (p *printer) unknown(n *ast.Node) {
	p.errorAt(n.Span, diag.EmitUnknownNode, "cannot print "+n.Kind.String())
}

// validate checks the encoding of the output.
func (p *printer) validate(out []byte) {
	if !utf8.Valid(out) {
		p.errorAt(source.Span{}, diag.EmitInvalidOutput, "output is not valid UTF-8")
		return
	}
	if !p.opts.ASCIIOnly {
		return
	}
	for i, b := range out {
		if b >= utf8.RuneSelf {
			p.errorAt(source.Span{}, diag.EmitInvalidOutput, fmt.Sprintf("non-ASCII byte at offset %d in ASCII-only output", i))
			return
		}
	}
}

func (p *printer) program(n *ast.Node) {
	p.hashbang()
	for _, id := range n.Kids {
		p.stmt(id)
	}
	p.danglingComments(n.Span.End)
	p.w.DropSemi()
	if !p.opts.Minify && len(p.w.Bytes()) > 0 {
		p.w.Newline()
	}
}

// hashbang prints the #! line first, wherever its anchor moved to.
func (p *printer) hashbang() {
	for _, c := range p.cm.All() {
		if c.Hashbang {
			p.w.Raw(c.Text)
			p.w.ForceNewline()
			return
		}
	}
}

// leadingComments prints the comments anchored at pos.
func (p *printer) leadingComments(pos uint32) {
	if pos == source.NoPos {
		return
	}
	p.printComments(p.cm.TakeLeading(pos))
}

// danglingComments prints the comments in front of the closer at pos.
func (p *printer) danglingComments(pos uint32) {
	if pos == source.NoPos {
		return
	}
	p.printComments(p.cm.TakeDangling(pos))
}

func (p *printer) printComments(cs []comments.Comment) {
	for _, c := range cs {
		if c.Hashbang {
			continue
		}
		if p.opts.Minify && !c.Legal {
			continue
		}
		text := c.Text
		if p.opts.ASCIIOnly {
			text = escapeText(text, escapeComment)
		}
		if !c.Block {
			p.w.Newline()
			p.w.Raw(text)
			p.w.ForceNewline()
			continue
		}
		p.w.Newline()
		p.w.Raw(text)
		if p.opts.Minify {
			if strings.Contains(text, "\n") {
				p.w.ForceNewline()
			}
			continue
		}
		p.w.Newline()
	}
}
