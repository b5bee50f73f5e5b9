// Package transpile turns one TypeScript, TSX, JSX or JavaScript source text
// into JavaScript.
//
// A call parses the text, folds the tree into plain JavaScript (types erased,
// JSX turned into runtime calls, enums and namespaces into IIFEs, syntax newer
// than the target lowered) and prints it. Every call owns its file set,
// diagnostics, comments, hygiene marks and source map, so calls may run in
// parallel without coordination.
package transpile

import (
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"mesozoic/internal/comments"
	"mesozoic/internal/diag"
	"mesozoic/internal/dialect"
	"mesozoic/internal/emit"
	"mesozoic/internal/fold"
	"mesozoic/internal/hygiene"
	"mesozoic/internal/parser"
	"mesozoic/internal/source"
	"mesozoic/internal/sourcemap"
	"mesozoic/internal/token"
	"mesozoic/internal/trace"
)

// Result is the output of a successful call.
type Result struct {
	Code string
	// Map is the source map JSON, nil unless a map was requested.
	Map   []byte
	State State
	// Diagnostics holds the warnings; a successful call has no errors.
	Diagnostics []diag.Diagnostic
	// Tokens is filled when Options.CaptureTokens is set.
	Tokens  []token.Token
	Dialect dialect.Dialect
	FileSet *source.FileSet
}

// Transpile converts text, named by specifier, to JavaScript. The specifier
// selects the dialect unless Options.SyntaxOverride is set; it may be a path
// or a URL. On failure the error is an *Error.
func Transpile(specifier, text string, opts Options) (*Result, error) {
	c := &call{
		opts: opts,
		bag:  diag.NewBag(opts.MaxDiagnostics),
		fs:   source.NewFileSet(),
	}
	c.rep = diag.NewDedupReporter(diag.BagReporter{Bag: c.bag})
	root := trace.Begin(opts.Tracer, trace.ScopeDriver, "transpile", 0)
	defer func() {
		root.WithExtra("state", c.state.String()).End(specifier)
	}()
	return c.run(specifier, text)
}

// call is the state of one Transpile invocation.
type call struct {
	opts  Options
	bag   *diag.Bag
	rep   diag.Reporter
	fs    *source.FileSet
	state State
}

type config struct {
	dialect dialect.Dialect
	syntax  dialect.Syntax
	fold    fold.Options
}

func (c *call) run(specifier, text string) (*Result, error) {
	cfg, ok := c.configure(specifier, text)
	if !ok {
		return nil, c.fail()
	}
	file := c.fs.Get(c.fs.AddVirtual(specifier, []byte(text)))
	cm := comments.New()

	// parse
	c.state = StateParsing
	phase := c.begin("parse")
	pr := parser.ParseFile(file, parser.Options{
		Syntax:        cfg.syntax,
		CaptureTokens: c.opts.CaptureTokens,
		MaxErrors:     uint(c.bag.Cap()),
		Reporter:      c.rep,
		Comments:      cm,
		Tracer:        c.opts.Tracer,
	})
	c.end(phase, pr.Errors)
	if !pr.OK() || c.bag.HasErrors() {
		c.state = StateParseFailed
		return nil, c.fail()
	}
	c.state = StateParsed

	// fold
	c.state = StateTransforming
	fo := cfg.fold
	fo.Hygiene = hygiene.NewContext()
	fo.Comments = cm
	fo.Reporter = c.rep
	fo.Tracer = c.opts.Tracer
	phase = c.begin("fold")
	fr := fold.Fold(pr.Tree, fo)
	c.end(phase, fr.Errors)
	if !fr.OK() || c.bag.HasErrors() {
		c.state = StateTransformFailed
		return nil, c.fail()
	}
	c.state = StateTransformed

	// emit
	c.state = StateEmitting
	eo := emit.Options{
		Minify:    c.opts.Minify,
		ASCIIOnly: c.opts.ASCIIOnly,
		Comments:  cm,
		Reporter:  c.rep,
		Tracer:    c.opts.Tracer,
	}
	if c.opts.SourceMap != SourceMapNone {
		sink, err := sourcemap.NewSink(c.fs, file)
		if err != nil {
			c.rep.Report(diag.EmitSourceMapMismatch, diag.SevError, source.Span{}, err.Error(), nil)
			c.state = StateEmitFailed
			return nil, c.fail()
		}
		eo.SourceMap = sink
	}
	phase = c.begin("emit")
	er := emit.Emit(fr.Tree, eo)
	c.end(phase, er.Errors)
	if !er.OK() || c.bag.HasErrors() {
		c.state = StateEmitFailed
		return nil, c.fail()
	}

	res := &Result{
		Code:        er.Code,
		Diagnostics: c.bag.Items(),
		Dialect:     cfg.dialect,
		FileSet:     c.fs,
	}
	if c.opts.CaptureTokens {
		res.Tokens = pr.Tree.Tokens
	}
	if eo.SourceMap != nil {
		if err := c.attachMap(res, eo.SourceMap, specifier); err != nil {
			c.rep.Report(diag.EmitSourceMapMismatch, diag.SevError, source.Span{}, err.Error(), nil)
			c.state = StateEmitFailed
			return nil, c.fail()
		}
	}
	c.state = StateEmitted
	res.State = c.state
	return res, nil
}

// configure validates the options against the specifier and text.
func (c *call) configure(specifier, text string) (config, bool) {
	var cfg config
	cfgErr := func(code diag.Code, msg string) {
		c.rep.Report(code, diag.SevError, source.Span{}, msg, nil)
	}

	d, err := dialect.Resolve(specifier, c.opts.SyntaxOverride)
	if err != nil {
		cfgErr(diag.CfgDialectConflict, err.Error())
	}
	cfg.dialect = d
	cfg.syntax = dialect.ForDialect(d)
	cfg.syntax.Decorators = c.opts.Decorators
	cfg.syntax.StrictEarlyErrors = c.opts.StrictEarlyErrors

	if !utf8.ValidString(text) {
		cfgErr(diag.CfgInvalidUTF8, "source text of "+specifier+" is not valid UTF-8")
	}

	jsx := fold.JSXOptions{
		Runtime:      c.opts.JSXRuntime,
		ImportSource: c.opts.JSXImportSource,
		Development:  c.opts.Development,
		Factory:      c.opts.JSXFactory,
		Fragment:     c.opts.JSXFragment,
	}
	if jsx.Runtime == fold.RuntimeClassic && jsx.ImportSource != "" {
		cfgErr(diag.CfgImportSourceClassic, "a JSX import source needs the automatic runtime")
	}
	if c.opts.Target > fold.ESNext {
		cfgErr(diag.CfgUnknownTarget, "unknown target "+c.opts.Target.String())
	}

	cfg.fold = fold.Options{
		JSX:             jsx,
		Target:          c.opts.Target,
		PreserveImports: c.opts.PreserveImports,
	}

	names := make([]string, 0, len(c.opts.Defines))
	for name := range c.opts.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		def, err := fold.ParseDefine(name, c.opts.Defines[name])
		if err != nil {
			cfgErr(diag.CfgInvalidDefine, err.Error())
			continue
		}
		cfg.fold.Defines = append(cfg.fold.Defines, def)
	}
	for _, src := range c.opts.StripConditionals {
		cond, err := fold.ParseConditional(src)
		if err != nil {
			cfgErr(diag.CfgInvalidStrip, "strip condition "+src+": "+err.Error())
			continue
		}
		cfg.fold.Conditionals = append(cfg.fold.Conditionals, cond)
	}
	return cfg, !c.bag.HasErrors()
}

func (c *call) attachMap(res *Result, sink *sourcemap.Sink, specifier string) error {
	out := OutputName(specifier)
	m, err := sink.Map(path.Base(out))
	if err != nil {
		return err
	}
	data, err := m.JSON()
	if err != nil {
		return err
	}
	sep := "\n"
	if strings.HasSuffix(res.Code, "\n") {
		sep = ""
	}
	switch c.opts.SourceMap {
	case SourceMapInline:
		res.Code += sep + sourcemap.InlineComment(data) + "\n"
	case SourceMapSeparate:
		res.Code += sep + sourcemap.URLComment(path.Base(out)+".map") + "\n"
		res.Map = data
	}
	return nil
}

func (c *call) fail() *Error {
	return &Error{State: c.state, Diagnostics: c.bag.Items(), FileSet: c.fs}
}

func (c *call) begin(name string) int {
	if c.opts.Timer == nil {
		return -1
	}
	return c.opts.Timer.Begin(name)
}

func (c *call) end(idx int, errors uint) {
	if c.opts.Timer == nil {
		return
	}
	note := ""
	if errors > 0 {
		note = "failed"
	}
	c.opts.Timer.End(idx, note)
}
