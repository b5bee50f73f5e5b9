package parser

import (
	"fmt"
	"strings"
	"testing"

	"mesozoic/internal/ast"
	"mesozoic/internal/comments"
	"mesozoic/internal/diag"
	"mesozoic/internal/dialect"
	"mesozoic/internal/source"
)

type parseOut struct {
	res  Result
	bag  *diag.Bag
	file *source.File
}

// parseSource - хелпер: регистрирует виртуальный файл и парсит его
func parseSource(t *testing.T, name, src string, syn dialect.Syntax) parseOut {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(src)))
	bag := diag.NewBag(100)
	res := ParseFile(file, Options{
		Syntax:   syn,
		Reporter: diag.BagReporter{Bag: bag},
	})
	return parseOut{res: res, bag: bag, file: file}
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func kindsOf(tree *ast.Tree) map[ast.Kind]int {
	out := make(map[ast.Kind]int)
	tree.Walk(tree.Root, func(_ ast.NodeID, n *ast.Node) bool {
		out[n.Kind]++
		return true
	})
	return out
}

func TestParseAccepts(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
		want []ast.Kind
	}{
		{"typed let", "a.ts", "let x: number = 1;", []ast.Kind{ast.KindVarDecl, ast.KindDeclarator, ast.KindTypeKeyword}},
		{"generic function", "a.ts", "function f<T>(a: T, b?: string): T { return a }",
			[]ast.Kind{ast.KindFuncDecl, ast.KindTypeParams, ast.KindParam, ast.KindReturn, ast.KindTypeRef}},
		{"interface", "a.ts", "interface A extends B<C> { x: number; m(): void; [k: string]: any }",
			[]ast.Kind{ast.KindInterface, ast.KindHeritage, ast.KindTypeLiteral, ast.KindTypeProperty, ast.KindTypeMethod, ast.KindTypeIndexSig}},
		{"union and intersection", "a.ts", "type U = A | B & C;", []ast.Kind{ast.KindTypeAlias, ast.KindTypeUnion, ast.KindTypeIntersection}},
		{"function type", "a.ts", "type F = (a: number) => string;", []ast.Kind{ast.KindTypeFunction}},
		{"conditional type", "a.ts", "type C<T> = T extends string ? 'a' : never;", []ast.Kind{ast.KindTypeConditional, ast.KindTypeLit}},
		{"infer", "a.ts", "type E<T> = T extends Array<infer U> ? U : never;", []ast.Kind{ast.KindTypeInfer}},
		{"mapped type", "a.ts", "type M<T> = { readonly [K in keyof T]?: T[K] };",
			[]ast.Kind{ast.KindTypeMapped, ast.KindTypeOperator, ast.KindTypeIndexed}},
		{"tuple", "a.ts", "type T = [a: string, b?: number, ...rest: boolean[]];",
			[]ast.Kind{ast.KindTypeTuple, ast.KindTypeNamedMember, ast.KindTypeArray}},
		{"template type", "a.ts", "type K = `on${string}`;", []ast.Kind{ast.KindTypeTemplate}},
		{"enum", "a.ts", "enum E { A, B = 2 }", []ast.Kind{ast.KindEnum, ast.KindEnumMember}},
		{"const enum", "a.ts", "const enum E { A }", []ast.Kind{ast.KindEnum}},
		{"nested namespace", "a.ts", "namespace N.M { export const x = 1 }", []ast.Kind{ast.KindNamespace, ast.KindExportDecl}},
		{"ambient module", "a.ts", "declare module 'x' { export function f(): void; }", []ast.Kind{ast.KindNamespace, ast.KindOverload}},
		{"imports", "a.ts", "import a, { b as c, type D } from './m';\nexport { c };",
			[]ast.Kind{ast.KindImport, ast.KindImportDefault, ast.KindImportSpec, ast.KindExportNamed, ast.KindExportSpec}},
		{"namespace import", "a.ts", "import * as ns from './m';", []ast.Kind{ast.KindImportNamespace}},
		{"empty import clause", "a.ts", "import {} from './m';\nimport type {} from './t';", []ast.Kind{ast.KindImport}},
		{"parenthesized unary exponent", "a.js", "x = (-1) ** 2 + 2 ** -1;", []ast.Kind{ast.KindParen, ast.KindBinary}},
		{"import equals", "a.ts", "import fs = require('fs');", []ast.Kind{ast.KindImportEquals, ast.KindExternalRef}},
		{"export default class", "a.ts", "export default class {}", []ast.Kind{ast.KindExportDefault, ast.KindClassDecl}},
		{"export star", "a.ts", "export * as ns from './x';", []ast.Kind{ast.KindExportAll}},
		{"export assign", "a.ts", "export = foo;", []ast.Kind{ast.KindExportAssign}},
		{"generic arrow in tsx", "a.tsx", "const id = <T,>(a: T) => a;", []ast.Kind{ast.KindArrow, ast.KindTypeParams}},
		{"generic call", "a.ts", "const y = f<number>(1);", []ast.Kind{ast.KindCall, ast.KindTypeArgs}},
		{"jsx element", "a.jsx", `const el = <div className="a">{x}<br/></div>;`,
			[]ast.Kind{ast.KindJSXElement, ast.KindJSXAttr, ast.KindJSXExprContainer}},
		{"jsx fragment", "a.jsx", "const f = <>text</>;", []ast.Kind{ast.KindJSXFragment, ast.KindJSXText}},
		{"jsx member name", "a.jsx", "<Foo.Bar {...props} />;", []ast.Kind{ast.KindJSXMemberName, ast.KindJSXSpreadAttr}},
		{"class members", "a.ts", "class A { private x = 1; constructor(public y: number) {} get z() { return 1 } static { } }",
			[]ast.Kind{ast.KindClassDecl, ast.KindProperty, ast.KindMethod, ast.KindStaticBlock}},
		{"as const", "a.ts", "const t = [1, 2] as const;", []ast.Kind{ast.KindAs}},
		{"non-null", "a.ts", "a!.b;", []ast.Kind{ast.KindNonNull}},
		{"for of destructuring", "a.js", "for (const [k, v] of m) {}", []ast.Kind{ast.KindForOf, ast.KindArrayPattern}},
		{"labeled loop", "a.js", "outer: for (;;) { break outer; }", []ast.Kind{ast.KindLabeled, ast.KindBreak}},
		{"generators", "a.js", "async function* g() { yield* h(); await x; }", []ast.Kind{ast.KindYield, ast.KindAwait}},
		{"optional chain", "a.js", "x = a ?? b?.c;", []ast.Kind{ast.KindOptChain}},
		{"assignment pattern", "a.js", "({a, b: [c]} = o);", []ast.Kind{ast.KindObjectPattern, ast.KindArrayPattern}},
		{"tagged template", "a.js", "tag`a${b}c`;", []ast.Kind{ast.KindTaggedTemplate, ast.KindTemplateElem}},
		{"regexp", "a.js", "/ab+c/g.test(s);", []ast.Kind{ast.KindLiteral, ast.KindCall}},
		{"type predicate", "a.ts", "function isS(x: unknown): x is string { return true }", []ast.Kind{ast.KindTypePredicate}},
		{"abstract class", "a.ts", "abstract class S { abstract area(): number; }", []ast.Kind{ast.KindOverload}},
		{"overloads", "a.ts", "function f(a: string): void;\nfunction f(a: any) {}", []ast.Kind{ast.KindOverload, ast.KindFuncDecl}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := parseSource(t, tt.file, tt.src, dialect.Syntax{})
			if !out.res.OK() {
				t.Fatalf("parse failed: %s", diagnosticsSummary(out.bag))
			}
			kinds := kindsOf(out.res.Tree)
			for _, k := range tt.want {
				if kinds[k] == 0 {
					var b strings.Builder
					_ = out.res.Tree.Dump(&b, out.res.Tree.Root)
					t.Fatalf("no %s node in tree:\n%s", k, b.String())
				}
			}
		})
	}
}

func TestParseDecorators(t *testing.T) {
	src := "@dec class A { @m() f() {} }"
	out := parseSource(t, "a.ts", src, dialect.Syntax{Dialect: dialect.TS, Decorators: true})
	if !out.res.OK() {
		t.Fatalf("parse failed: %s", diagnosticsSummary(out.bag))
	}
	if got := kindsOf(out.res.Tree)[ast.KindDecorator]; got != 2 {
		t.Fatalf("decorators = %d, want 2", got)
	}

	out = parseSource(t, "a.ts", src, dialect.Syntax{Dialect: dialect.TS})
	if out.res.OK() {
		t.Fatal("decorators must be rejected when disabled")
	}
	if out.bag.Items()[0].Code != diag.SynDecoratorsDisabled {
		t.Fatalf("got %s", diagnosticsSummary(out.bag))
	}
}

func TestParseErrors(t *testing.T) {
	strict := dialect.Syntax{Dialect: dialect.TS, StrictEarlyErrors: true}
	tests := []struct {
		name string
		file string
		src  string
		syn  dialect.Syntax
		code diag.Code
	}{
		{"types in js", "a.js", "let x: number = 1;", dialect.Syntax{}, diag.SynTypeSyntaxInJS},
		{"interface in js", "a.js", "interface A {}", dialect.Syntax{}, diag.SynTypeSyntaxInJS},
		{"eof in call", "a.ts", "foo(", dialect.Syntax{}, diag.SynUnexpectedEOF},
		{"const without init", "a.ts", "const x;", dialect.Syntax{}, diag.SynMissingInitializer},
		{"mismatched jsx", "a.jsx", "<div></span>;", dialect.Syntax{}, diag.SynJSXMismatchedTag},
		{"unterminated jsx", "a.jsx", "<div>", dialect.Syntax{}, diag.SynUnterminatedJSX},
		{"duplicate let", "a.ts", "let a = 1; let a = 2;", strict, diag.SynDuplicateDeclaration},
		{"ambient body", "a.ts", "declare function f() {}", dialect.Syntax{}, diag.SynAmbientBody},
		{"rest not last", "a.ts", "function f(...a, b) {}", dialect.Syntax{}, diag.SynRestNotLast},
		{"unknown label", "a.ts", "while (x) { break foo; }", dialect.Syntax{}, diag.SynInvalidLabel},
		{"nested import", "a.ts", "if (x) { import a from 'a'; }", dialect.Syntax{}, diag.SynImportNotTopLevel},
		{"bad assignment target", "a.ts", "1 = 2;", dialect.Syntax{}, diag.SynInvalidAssignTarget},
		{"missing semicolon", "a.ts", "let a = 1 let b = 2", dialect.Syntax{}, diag.SynExpectSemicolon},
		{"runtime code in d.ts", "a.d.ts", "foo();", dialect.Syntax{}, diag.SynAmbientBody},
		{"unary before exponent", "a.ts", "let a = -1 ** 2;", dialect.Syntax{}, diag.SynUnexpectedToken},
		{"typeof before exponent", "a.ts", "let a = typeof x ** 2;", dialect.Syntax{}, diag.SynUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := parseSource(t, tt.file, tt.src, tt.syn)
			if out.res.OK() || out.res.Tree != nil {
				t.Fatalf("expected failure for %q", tt.src)
			}
			if out.res.Errors == 0 {
				t.Fatal("Errors must be counted")
			}
			for _, d := range out.bag.Items() {
				if d.Code == tt.code {
					return
				}
			}
			t.Fatalf("want %s, got %s", tt.code.ID(), diagnosticsSummary(out.bag))
		})
	}
}

func TestMaxErrorsStopsParse(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.ts", []byte("var 1;\nvar 2;\nvar 3;\nvar 4;\n")))
	bag := diag.NewBag(100)
	res := ParseFile(file, Options{MaxErrors: 2, Reporter: diag.BagReporter{Bag: bag}})
	if res.Errors != 2 {
		t.Fatalf("Errors = %d, want 2 (%s)", res.Errors, diagnosticsSummary(bag))
	}
	if bag.Len() != 2 {
		t.Fatalf("reported %d diagnostics", bag.Len())
	}
}

func TestRecoveryReportsEveryStatement(t *testing.T) {
	out := parseSource(t, "a.ts", "var 1;\nlet ok = 1;\nvar 2;\n", dialect.Syntax{})
	if out.res.Errors != 2 {
		t.Fatalf("Errors = %d: %s", out.res.Errors, diagnosticsSummary(out.bag))
	}
}

func TestSpeculationLeavesNoDiagnostics(t *testing.T) {
	// (a, b) сначала пробуется как стрелка, затем как выражение
	out := parseSource(t, "a.ts", "x = (a, b);\ny = a < b && c > d;\n", dialect.Syntax{})
	if !out.res.OK() {
		t.Fatalf("parse failed: %s", diagnosticsSummary(out.bag))
	}
	if kindsOf(out.res.Tree)[ast.KindArrow] != 0 {
		t.Fatal("no arrow expected")
	}
}

func TestTypeSyntaxInsideSpeculationIsReported(t *testing.T) {
	out := parseSource(t, "a.js", "const f = (a: number) => a;", dialect.Syntax{})
	if out.res.OK() {
		t.Fatal("annotated arrow must fail in JavaScript")
	}
	found := false
	for _, d := range out.bag.Items() {
		found = found || d.Code == diag.SynTypeSyntaxInJS
	}
	if !found {
		t.Fatalf("got %s", diagnosticsSummary(out.bag))
	}
}

func TestCommentsAreRecorded(t *testing.T) {
	fs := source.NewFileSet()
	src := "// head\nlet x = 1;\nfunction f() {\n  /* tail */\n}\n"
	file := fs.Get(fs.AddVirtual("a.ts", []byte(src)))
	cm := comments.New()
	res := ParseFile(file, Options{Comments: cm, Reporter: diag.NopReporter{}})
	if !res.OK() {
		t.Fatal("parse failed")
	}
	lead := cm.Leading(file.Pos(strings.Index(src, "let")))
	if len(lead) != 1 || !strings.Contains(lead[0].Text, "head") {
		t.Fatalf("leading = %+v", lead)
	}
	dangling := cm.Dangling(file.Pos(strings.LastIndex(src, "}")))
	if len(dangling) != 1 || !strings.Contains(dangling[0].Text, "tail") {
		t.Fatalf("dangling = %+v", dangling)
	}
}

func TestCaptureTokens(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.ts", []byte("let x = a >> 1;")))
	res := ParseFile(file, Options{CaptureTokens: true})
	if !res.OK() {
		t.Fatal("parse failed")
	}
	var texts []string
	for _, tok := range res.Tree.Tokens {
		texts = append(texts, tok.Text)
	}
	if got := strings.Join(texts, " "); got != "let x = a >> 1 ;" {
		t.Fatalf("tokens = %q", got)
	}
}

func TestStrictDirective(t *testing.T) {
	out := parseSource(t, "a.js", "'use strict';\nx = 1;", dialect.Syntax{})
	if !out.res.OK() {
		t.Fatal(diagnosticsSummary(out.bag))
	}
	root := out.res.Tree.Get(out.res.Tree.Root)
	if !root.Flags.Has(ast.FlagStrict) {
		t.Fatal("program must carry FlagStrict")
	}
}

func TestDumpShowsTypeSlots(t *testing.T) {
	out := parseSource(t, "a.ts", "let x: string;", dialect.Syntax{})
	if !out.res.OK() {
		t.Fatal(diagnosticsSummary(out.bag))
	}
	var b strings.Builder
	if err := out.res.Tree.Dump(&b, out.res.Tree.Root); err != nil {
		t.Fatal(err)
	}
	want := []string{"Program", "VarDecl \"let\"", "Ident \"x\"", ": TypeKeyword \"string\""}
	for _, w := range want {
		if !strings.Contains(b.String(), w) {
			t.Fatalf("dump lacks %q:\n%s", w, b.String())
		}
	}
}
