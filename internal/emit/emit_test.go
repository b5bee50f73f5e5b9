package emit

import (
	"strings"
	"testing"

	gosm "github.com/go-sourcemap/sourcemap"

	"mesozoic/internal/ast"
	"mesozoic/internal/comments"
	"mesozoic/internal/diag"
	"mesozoic/internal/dialect"
	"mesozoic/internal/fold"
	"mesozoic/internal/parser"
	"mesozoic/internal/source"
	"mesozoic/internal/sourcemap"
	"mesozoic/internal/token"
)

// pipeline прогоняет parse, fold и emit для одного виртуального файла
func pipeline(t *testing.T, name, src string, fo fold.Options, eo Options) string {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(src)))
	bag := diag.NewBag(50)
	rep := diag.BagReporter{Bag: bag}
	cm := comments.New()

	pr := parser.ParseFile(file, parser.Options{
		Syntax:   dialect.ForDialect(dialect.FromSpecifier(name)),
		Reporter: rep,
		Comments: cm,
	})
	if !pr.OK() {
		t.Fatalf("parse %s: %s", name, summary(bag))
	}
	fo.Comments, fo.Reporter = cm, rep
	fr := fold.Fold(pr.Tree, fo)
	if !fr.OK() {
		t.Fatalf("fold %s: %s", name, summary(bag))
	}
	eo.Comments, eo.Reporter = cm, rep
	er := Emit(fr.Tree, eo)
	if !er.OK() {
		t.Fatalf("emit %s: %s", name, summary(bag))
	}
	return er.Code
}

func summary(bag *diag.Bag) string {
	var parts []string
	for _, d := range bag.Items() {
		parts = append(parts, "["+d.Code.ID()+"] "+d.Message)
	}
	return strings.Join(parts, "; ")
}

func TestEmitPretty(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
		want string
	}{
		{
			name: "annotations erased",
			file: "a.ts",
			src:  "let x: number = 1 + 2 * 3;",
			want: "let x = 1 + 2 * 3;\n",
		},
		{
			name: "source parens kept",
			file: "a.ts",
			src:  "const y = (a + b) * c;",
			want: "const y = (a + b) * c;\n",
		},
		{
			name: "function with optional and rest params",
			file: "a.ts",
			src:  "function f(a?: string, ...rest: number[]): void { return; }",
			want: "function f(a, ...rest) {\n  return;\n}\n",
		},
		{
			name: "interface dropped",
			file: "a.ts",
			src:  "interface A { x: number }\nexport const a = 1;",
			want: "export const a = 1;\n",
		},
		{
			name: "as expression",
			file: "a.ts",
			src:  "const v = a as number;",
			want: "const v = a;\n",
		},
		{
			name: "if else chain",
			file: "a.ts",
			src:  "if (a) { b(); } else if (c) d(); else { e(); }",
			want: "if (a) {\n  b();\n} else if (c)\n  d();\nelse {\n  e();\n}\n",
		},
		{
			name: "enum",
			file: "a.ts",
			src:  "enum E { A, B = 5, C }",
			want: "var E;\n(function(E) {\n  E[E[\"A\"] = 0] = \"A\";\n  E[E[\"B\"] = 5] = \"B\";\n  E[E[\"C\"] = 6] = \"C\";\n})(E || (E = {}));\n",
		},
		{
			name: "namespace",
			file: "a.ts",
			src:  "namespace N { export const x = 1; }",
			want: "var N;\n(function(N) {\n  N.x = 1;\n})(N || (N = {}));\n",
		},
		{
			name: "import elision",
			file: "a.ts",
			src:  "import { A, b } from \"m\";\nimport type { T } from \"t\";\nlet x: A = b;",
			want: "import { b } from \"m\";\nlet x = b;\n",
		},
		{
			name: "automatic jsx",
			file: "a.tsx",
			src:  "const a = <div className=\"x\">hi</div>;",
			want: "import { jsx as _jsx } from \"react/jsx-runtime\";\nconst a = _jsx(\"div\", { className: \"x\", children: \"hi\" });\n",
		},
		{
			name: "leading comment",
			file: "a.ts",
			src:  "// lead\nlet a = 1;",
			want: "// lead\nlet a = 1;\n",
		},
		{
			name: "for loop",
			file: "a.ts",
			src:  "for (let i = 0; i < n; i++) sum += i;",
			want: "for (let i = 0; i < n; i++)\n  sum += i;\n",
		},
		{
			name: "star re-exports",
			file: "a.ts",
			src:  "export * from \"m\";\nexport * as ns from \"n\";",
			want: "export * from \"m\";\nexport * as ns from \"n\";\n",
		},
		{
			name: "arrow returning object",
			file: "a.ts",
			src:  "const f = (a: number) => ({ a });",
			want: "const f = (a) => ({ a });\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pipeline(t, tt.file, tt.src, fold.Options{}, Options{})
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestEmitLowering(t *testing.T) {
	tests := []struct {
		name   string
		target fold.Target
		src    string
		want   string
	}{
		{"nullish ident", fold.ES2019, "x = a ?? b;", "x = a !== null && a !== void 0 ? a : b;\n"},
		{"nullish call", fold.ES2019, "x = f() ?? b;", "var _a;\nx = (_a = f()) !== null && _a !== void 0 ? _a : b;\n"},
		{"optional member", fold.ES2019, "x = a?.b;", "x = a === null || a === void 0 ? void 0 : a.b;\n"},
		{"exponent", fold.ES2015, "x = a ** b;", "x = Math.pow(a, b);\n"},
		{"logical assign", fold.ES2020, "a ||= b;", "a || (a = b);\n"},
		{"object spread", fold.ES2017, "x = { ...a, b: 1 };", "x = Object.assign({}, a, { b: 1 });\n"},
		{"kept for new targets", fold.ES2022, "x = a?.b ?? c;", "x = a?.b ?? c;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pipeline(t, "a.ts", tt.src, fold.Options{Target: tt.target}, Options{})
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestEmitMinify(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"function", "function f(a, b) { return a + b; }\nlet x = f(1, 2);", "function f(a,b){return a+b}let x=f(1,2)"},
		{"comments dropped", "// lead\nlet a = 1;", "let a=1"},
		{"legal comment kept", "/*! keep */\nlet a = 1;", "/*! keep */let a=1"},
		{"keywords separated", "function f() { if (a) return; else x = typeof y; }", "function f(){if(a)return;else x=typeof y}"},
		{"star re-exports", "export * from \"m\";\nexport * as ns from \"n\";", "export*from\"m\";export*as ns from\"n\""},
		{"unary minus", "x = a - -b;", "x=a- -b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pipeline(t, "a.js", tt.src, fold.Options{}, Options{Minify: true})
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmitASCIIOnly(t *testing.T) {
	got := pipeline(t, "a.ts", `const s = "héllo 😀";`, fold.Options{}, Options{ASCIIOnly: true})
	want := "const s = \"h\\u00E9llo \\uD83D\\uDE00\";\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEmitHashbang(t *testing.T) {
	got := pipeline(t, "a.ts", "#!/usr/bin/env node\nlet a = 1;", fold.Options{}, Options{})
	if got != "#!/usr/bin/env node\nlet a = 1;\n" {
		t.Fatalf("got %q", got)
	}
}

// builder helps assemble trees without parentheses so that precedence
// alone decides where they go.
type builder struct{ t *ast.Tree }

func (b builder) id(name string) ast.NodeID { return b.t.Ident(name, source.Span{}) }
func (b builder) bin(op token.Kind, l, r ast.NodeID) ast.NodeID {
	return b.t.NewOp(ast.KindBinary, op, source.Span{}, l, r)
}
func (b builder) stmt(e ast.NodeID) ast.NodeID { return b.t.New(ast.KindExprStmt, source.Span{}, e) }

func TestEmitPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		build func(b builder) ast.NodeID
		want  string
	}{
		{"lower binds looser", func(b builder) ast.NodeID {
			return b.bin(token.Star, b.bin(token.Plus, b.id("a"), b.id("b")), b.id("c"))
		}, "(a + b) * c;\n"},
		{"higher needs none", func(b builder) ast.NodeID {
			return b.bin(token.Plus, b.id("a"), b.bin(token.Star, b.id("b"), b.id("c")))
		}, "a + b * c;\n"},
		{"right operand same level", func(b builder) ast.NodeID {
			return b.bin(token.Minus, b.id("a"), b.bin(token.Minus, b.id("b"), b.id("c")))
		}, "a - (b - c);\n"},
		{"exponent is right associative", func(b builder) ast.NodeID {
			return b.bin(token.StarStar, b.bin(token.StarStar, b.id("a"), b.id("b")), b.id("c"))
		}, "(a ** b) ** c;\n"},
		{"unary base of exponent", func(b builder) ast.NodeID {
			neg := b.t.NewOp(ast.KindUnary, token.Minus, source.Span{}, b.id("a"))
			return b.bin(token.StarStar, neg, b.id("b"))
		}, "(-a) ** b;\n"},
		{"nullish with or", func(b builder) ast.NodeID {
			return b.bin(token.QuestionQuestion, b.bin(token.OrOr, b.id("a"), b.id("b")), b.id("c"))
		}, "(a || b) ?? c;\n"},
		{"conditional operand", func(b builder) ast.NodeID {
			cond := b.t.New(ast.KindConditional, source.Span{}, b.id("a"), b.id("b"), b.id("c"))
			return b.bin(token.Plus, cond, b.id("d"))
		}, "(a ? b : c) + d;\n"},
		{"arrow callee", func(b builder) ast.NodeID {
			params := b.t.New(ast.KindParams, source.Span{})
			arrow := b.t.New(ast.KindArrow, source.Span{}, params, b.id("x"))
			return b.t.Call(source.Span{}, arrow)
		}, "(() => x)();\n"},
		{"object at statement start", func(b builder) ast.NodeID {
			return b.t.Member(b.t.New(ast.KindObject, source.Span{}), "x", source.Span{})
		}, "({}.x);\n"},
		{"number member", func(b builder) ast.NodeID {
			return b.t.Member(b.t.Number("1", source.Span{}), "x", source.Span{})
		}, "(1).x;\n"},
		{"call in new callee", func(b builder) ast.NodeID {
			call := b.t.Call(source.Span{}, b.id("f"))
			return b.t.New(ast.KindNew, source.Span{}, call)
		}, "new (f())();\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := ast.NewTree(nil, dialect.TS, 0)
			b := builder{t: tree}
			tree.Root = tree.New(ast.KindProgram, source.Span{}, b.stmt(tt.build(b)))
			res := Emit(tree, Options{})
			if !res.OK() {
				t.Fatalf("emit failed")
			}
			if res.Code != tt.want {
				t.Errorf("got %q, want %q", res.Code, tt.want)
			}
		})
	}
}

func TestEmitForInitForbidsIn(t *testing.T) {
	tree := ast.NewTree(nil, dialect.TS, 0)
	b := builder{t: tree}
	decl := tree.New(ast.KindDeclarator, source.Span{}, b.id("i"), b.bin(token.KwIn, b.id("a"), b.id("b")))
	vd := tree.New(ast.KindVarDecl, source.Span{}, decl)
	tree.Get(vd).Text = "let"
	loop := tree.New(ast.KindFor, source.Span{}, vd, ast.NoNodeID, ast.NoNodeID, tree.New(ast.KindEmpty, source.Span{}))
	tree.Root = tree.New(ast.KindProgram, source.Span{}, loop)
	res := Emit(tree, Options{})
	if want := "for (let i = (a in b);;);\n"; res.Code != want {
		t.Fatalf("got %q, want %q", res.Code, want)
	}
}

func TestEmitUnknownNode(t *testing.T) {
	tree := ast.NewTree(nil, dialect.TS, 0)
	bad := tree.New(ast.KindTypeKeyword, source.Span{})
	tree.Root = tree.New(ast.KindProgram, source.Span{}, tree.New(ast.KindExprStmt, source.Span{}, bad))
	bag := diag.NewBag(10)
	res := Emit(tree, Options{Reporter: diag.BagReporter{Bag: bag}})
	if res.OK() || res.Code != "" {
		t.Fatalf("expected failure, got %q", res.Code)
	}
	if items := bag.Items(); len(items) != 1 || items[0].Code != diag.EmitUnknownNode {
		t.Fatalf("unexpected diagnostics: %s", summary(bag))
	}
}

func TestEmitSourceMap(t *testing.T) {
	const src = "let a: number = 1;\nfoo(a);\n"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.ts", []byte(src)))
	cm := comments.New()
	pr := parser.ParseFile(file, parser.Options{Syntax: dialect.ForDialect(dialect.TS), Comments: cm})
	if !pr.OK() {
		t.Fatal("parse failed")
	}
	fr := fold.Fold(pr.Tree, fold.Options{Comments: cm})
	if !fr.OK() {
		t.Fatal("fold failed")
	}
	sink, err := sourcemap.NewSink(fs, file)
	if err != nil {
		t.Fatal(err)
	}
	res := Emit(fr.Tree, Options{Comments: cm, SourceMap: sink})
	if res.Code != "let a = 1;\nfoo(a);\n" {
		t.Fatalf("unexpected code %q", res.Code)
	}
	m, err := sink.Map("a.js")
	if err != nil {
		t.Fatal(err)
	}
	data, err := m.JSON()
	if err != nil {
		t.Fatal(err)
	}
	consumer, err := gosm.Parse("", data)
	if err != nil {
		t.Fatalf("invalid map: %v", err)
	}
	// сегмент 1:0 -> 1:0 go-sourcemap не читает, сверяем его в сырых mappings
	if !strings.HasPrefix(m.Mappings, "AAAA,") {
		t.Errorf("mappings = %q, want a leading AAAA segment", m.Mappings)
	}
	tests := []struct{ genLine, genCol, line, col int }{
		{1, 8, 1, 16}, // 1 after the erased annotation
		{2, 0, 2, 0},  // foo
		{2, 4, 2, 4},  // a
	}
	for _, tt := range tests {
		_, _, line, col, ok := consumer.Source(tt.genLine, tt.genCol)
		if !ok || line != tt.line || col != tt.col {
			t.Errorf("%d:%d maps to %d:%d (ok=%v), want %d:%d", tt.genLine, tt.genCol, line, col, ok, tt.line, tt.col)
		}
	}
}
