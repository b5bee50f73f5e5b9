package driver

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/comments"
	"mesozoic/internal/diag"
	"mesozoic/internal/dialect"
	"mesozoic/internal/parser"
	"mesozoic/internal/source"
	"mesozoic/internal/trace"
)

// ParseOptions configure Parse.
type ParseOptions struct {
	MaxDiagnostics int
	// Syntax overrides the dialect picked from the file extension.
	Syntax        dialect.Dialect
	CaptureTokens bool
	Decorators    bool
	Tracer        trace.Tracer
}

// ParseResult is the syntax tree view of one file.
type ParseResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Dialect  dialect.Dialect
	Tree     *ast.Tree // nil when the file has syntax errors
	Comments *comments.Table
	Bag      *diag.Bag
}

// Parse loads path and parses it without folding.
func Parse(path string, opts ParseOptions) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(opts.MaxDiagnostics)
	d, err := dialect.Resolve(path, opts.Syntax)
	if err != nil {
		bag.Add(diag.NewError(diag.CfgDialectConflict, source.Span{}, err.Error()))
		return &ParseResult{FileSet: fs, File: file, Dialect: d, Bag: bag}, nil
	}
	syn := dialect.ForDialect(d)
	syn.Decorators = opts.Decorators

	cm := comments.New()
	res := parser.ParseFile(file, parser.Options{
		Syntax:        syn,
		CaptureTokens: opts.CaptureTokens,
		MaxErrors:     uint(bag.Cap()),
		Reporter:      diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		Comments:      cm,
		Tracer:        opts.Tracer,
	})
	return &ParseResult{
		FileSet:  fs,
		File:     file,
		Dialect:  d,
		Tree:     res.Tree,
		Comments: cm,
		Bag:      bag,
	}, nil
}
