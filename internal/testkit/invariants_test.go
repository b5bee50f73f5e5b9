package testkit

import (
	"strings"
	"testing"

	"mesozoic/internal/fold"
	"mesozoic/internal/parser"
	"mesozoic/internal/source"
)

func TestInvariantsOnParsedAndFoldedTrees(t *testing.T) {
	fs := source.NewFileSet()
	// второй файл сдвигает Base, чтобы проверка границ не совпадала с нулём
	fs.AddVirtual("pad.ts", []byte("x;\n"))
	f := fs.Get(fs.AddVirtual("a.ts", []byte("let a: number = 1;\nfunction f<T>(x: T): T { return x as T; }\n")))

	res := parser.ParseFile(f, parser.Options{})
	if res.Tree == nil {
		t.Fatalf("parse failed: %d errors", res.Errors)
	}
	if err := CheckSpanInvariants(res.Tree); err != nil {
		t.Fatalf("parsed tree: %v", err)
	}
	if err := CheckNoTypeNodes(res.Tree); err == nil {
		t.Fatal("type annotations not detected in parsed tree")
	} else if !strings.Contains(err.Error(), "survived") {
		t.Fatalf("unexpected error: %v", err)
	}

	folded := fold.Fold(res.Tree, fold.Options{})
	if !folded.OK() {
		t.Fatalf("fold failed: %d errors", folded.Errors)
	}
	if err := CheckNoTypeNodes(folded.Tree); err != nil {
		t.Fatalf("folded tree: %v", err)
	}
}

func TestCheckSpanInvariantsRejectsForeignSpan(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("a.ts", []byte("a;\n")))
	res := parser.ParseFile(f, parser.Options{})
	if res.Tree == nil {
		t.Fatal("parse failed")
	}
	stmt := res.Tree.Get(res.Tree.Root).Kids[0]
	res.Tree.Get(stmt).Span = source.Span{File: f.ID, Start: f.End() + 10, End: f.End() + 12}
	if err := CheckSpanInvariants(res.Tree); err == nil {
		t.Fatal("out-of-file span accepted")
	}
}

func TestNilTrees(t *testing.T) {
	if CheckSpanInvariants(nil) == nil || CheckNoTypeNodes(nil) == nil {
		t.Fatal("nil tree accepted")
	}
}
