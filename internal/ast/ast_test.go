package ast

import (
	"strings"
	"testing"

	"mesozoic/internal/dialect"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatal("index 0 must be nil")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 || a.Len() != 1 {
		t.Fatalf("Allocate = %d", id)
	}
}

func TestTypeKindsAreSeparate(t *testing.T) {
	for _, k := range []Kind{KindInterface, KindTypeRef, KindTypeUnion, KindTypeParams, KindOverload} {
		if !k.IsType() {
			t.Errorf("%s must be type-level", k)
		}
	}
	for _, k := range []Kind{KindIdent, KindAs, KindEnum, KindJSXElement, KindInstantiation} {
		if k.IsType() {
			t.Errorf("%s must not be type-level", k)
		}
	}
}

func TestKindNamesComplete(t *testing.T) {
	for k := KindInvalid; k < kindCount; k++ {
		if k == kindTypeStart {
			continue
		}
		if k.String() == "Kind(?)" {
			t.Fatalf("kind %d has no name", k)
		}
	}
}

func TestWalkAndDump(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("a.ts", []byte("let x: number = 1")))
	tr := NewTree(f, dialect.TS, 0)

	name := tr.Ident("x", f.Span(4, 5))
	init := tr.Number("1", f.Span(16, 17))
	decl := tr.New(KindDeclarator, f.Span(4, 17), name, init)
	tr.Get(decl).Type = tr.NewText(KindTypeKeyword, f.Span(7, 13), "number")
	vd := tr.New(KindVarDecl, f.Span(0, 17), decl)
	tr.Get(vd).Text = "let"
	tr.Root = tr.New(KindProgram, f.Span(0, 17), vd)

	if got := tr.Count(tr.Root); got != 6 {
		t.Fatalf("Count = %d, want 6", got)
	}
	var types int
	tr.Walk(tr.Root, func(_ NodeID, n *Node) bool {
		if n.Kind.IsType() {
			types++
		}
		return true
	})
	if types != 1 {
		t.Fatalf("found %d type nodes", types)
	}

	var b strings.Builder
	if err := tr.Dump(&b, tr.Root); err != nil {
		t.Fatal(err)
	}
	want := []string{
		`Program @1:1`,
		`  VarDecl "let" @1:1`,
		`    Declarator @1:5`,
		`      Ident "x" @1:5`,
		`      Literal "1" @1:17`,
		`      : TypeKeyword "number" @1:8`,
	}
	if got := strings.TrimRight(b.String(), "\n"); got != strings.Join(want, "\n") {
		t.Fatalf("dump:\n%s", got)
	}
	if tr.Get(init).Op != token.NumberLit {
		t.Fatal("literal op not set")
	}
}
