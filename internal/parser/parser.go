package parser

import (
	"fmt"
	"slices"

	"mesozoic/internal/ast"
	"mesozoic/internal/comments"
	"mesozoic/internal/diag"
	"mesozoic/internal/dialect"
	"mesozoic/internal/lexer"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
	"mesozoic/internal/trace"
)

type Options struct {
	Syntax dialect.Syntax
	// CaptureTokens keeps every significant token in Tree.Tokens.
	CaptureTokens bool
	MaxErrors     uint
	Reporter      diag.Reporter
	// Comments receives statement-leading and dangling comments. May be nil.
	Comments *comments.Table
	Tracer   trace.Tracer
}

// Result of parsing one file. Tree is nil when Errors > 0.
type Result struct {
	Tree   *ast.Tree
	Errors uint
}

// OK reports whether the file parsed without errors.
func (r Result) OK() bool { return r.Errors == 0 && r.Tree != nil }

// Parser - состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	tree     *ast.Tree
	file     *source.File
	opts     Options
	syn      dialect.Syntax
	rep      *counter
	cm       *comments.Table
	lastTok  token.Token // последний съеденный токен
	lastSpan source.Span

	spec    int // глубина спекулятивного разбора
	fn      fnContext
	noIn    bool
	inType  int
	ambient int
	scope   *scope
	labels  []label

	pendingTS []source.Span // type syntax seen in JS while speculating
}

// fnContext tracks what the enclosing function allows.
type fnContext struct {
	async     bool
	generator bool
	inFunc    bool
	inClass   bool
}

// counter counts errors on their way to the real reporter. Lexer and parser
// share it so that lexical errors also fail the parse.
type counter struct {
	next   diag.Reporter
	errors uint
}

func (c *counter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevError {
		c.errors++
	}
	if c.next != nil {
		c.next.Report(code, sev, primary, msg, notes)
	}
}

// bailout stops the parse once MaxErrors is reached.
type bailout struct{}

// ParseFile parses one registered source file.
func ParseFile(file *source.File, opts Options) (res Result) {
	if opts.Syntax.Dialect == dialect.None {
		opts.Syntax = dialect.ForDialect(dialect.FromSpecifier(file.Path))
	}
	rep := &counter{next: opts.Reporter}
	p := &Parser{
		file: file,
		opts: opts,
		syn:  opts.Syntax,
		rep:  rep,
		cm:   opts.Comments,
		tree: ast.NewTree(file, opts.Syntax.Dialect, uint(len(file.Content)/4+16)),
	}
	p.lx = lexer.New(file, lexer.Options{
		Reporter:    rep,
		StrictOctal: opts.Syntax.StrictEarlyErrors,
	})
	if p.syn.AmbientOnly {
		p.ambient = 1
	}

	span := trace.Begin(opts.Tracer, trace.ScopePass, "parse", 0)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				rep.Report(diag.SynParserPanic, diag.SevError, p.lastSpan,
					fmt.Sprintf("internal parser failure: %v", r), nil)
			}
			res = Result{Errors: max(rep.errors, 1)}
		}
		span.WithExtra("errors", fmt.Sprint(res.Errors)).End("")
	}()

	p.parseProgram()
	if rep.errors > 0 {
		return Result{Errors: rep.errors}
	}
	return Result{Tree: p.tree}
}

func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// atWord reports whether the next token is the contextual keyword w.
func (p *Parser) atWord(w string) bool {
	return p.lx.Peek().Is(w)
}

// parseProgram - основной цикл верхнего уровня: пока не EOF - parseStatement.
func (p *Parser) parseProgram() {
	start := p.peek().Span
	p.pushScope()
	stmts := p.parseStatementList(token.EOF, true)
	p.popScope()
	eof := p.peek()
	p.addDangling(eof)
	root := p.tree.New(ast.KindProgram, start.Cover(eof.Span), stmts...)
	if p.parseDirectives(stmts) {
		p.tree.Get(root).Flags |= ast.FlagStrict
	}
	p.tree.Root = root
}

// parseDirectives reports whether the statement list opens with "use strict".
func (p *Parser) parseDirectives(stmts []ast.NodeID) bool {
	for _, id := range stmts {
		n := p.tree.Get(id)
		if n.Kind != ast.KindExprStmt {
			return false
		}
		lit := p.tree.Get(n.Kid(0))
		if lit.Kind != ast.KindLiteral || lit.Op != token.StringLit {
			return false
		}
		if lit.Text == `"use strict"` || lit.Text == `'use strict'` {
			return true
		}
	}
	return false
}
