package transpile_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dop251/goja"
	gosm "github.com/go-sourcemap/sourcemap"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"mesozoic/internal/diag"
	"mesozoic/internal/dialect"
	"mesozoic/internal/fold"
	"mesozoic/internal/observ"
	"mesozoic/internal/trace"
	"mesozoic/transpile"
)

func mustTranspile(t *testing.T, specifier, text string, opts transpile.Options) *transpile.Result {
	t.Helper()
	res, err := transpile.Transpile(specifier, text, opts)
	require.NoError(t, err)
	require.Equal(t, transpile.StateEmitted, res.State)
	return res
}

func asError(t *testing.T, err error) *transpile.Error {
	t.Helper()
	require.Error(t, err)
	var terr *transpile.Error
	require.True(t, errors.As(err, &terr), "unexpected error type %T", err)
	require.NotEmpty(t, terr.Diagnostics)
	return terr
}

// jsxPrelude stands in for the JSX runtime: elements render to HTML-ish
// strings so two outputs can be compared by value.
const jsxPrelude = `
function render(type, props) {
	var kids = props.children === undefined ? [] : [].concat(props.children);
	var cls = props.className ? " class=" + props.className : "";
	return "<" + type + cls + ">" + kids.join("") + "</" + type + ">";
}
var _jsx = render, _jsxs = render;
var _jsxDEV = function (type, props, key, isStatic, source, self) { return render(type, props); };
`

// evaluate runs code in goja after dropping its import declarations and
// returns the value of the final expression.
func evaluate(t *testing.T, code, final string) string {
	t.Helper()
	var body []string
	for _, line := range strings.Split(code, "\n") {
		if strings.HasPrefix(line, "import ") {
			continue
		}
		body = append(body, line)
	}
	vm := goja.New()
	v, err := vm.RunString(jsxPrelude + strings.Join(body, "\n") + "\n;" + final)
	require.NoError(t, err, "code:\n%s", code)
	return v.String()
}

func TestTranspileErasesTypes(t *testing.T) {
	res := mustTranspile(t, "a.ts", "const x: number = 1;\ninterface I { a: string }\nexport type T = I;", transpile.Options{})
	require.Equal(t, "const x = 1;\n", res.Code)
	require.Nil(t, res.Map)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, dialect.TS, res.Dialect)
}

func TestTranspileIsIdempotent(t *testing.T) {
	src := `import { readFile } from "fs";
import type { Stats } from "fs";
enum Color { Red, Green = "g" }
namespace Geo { export const origin = { x: 0, y: 0 }; }
abstract class Shape<T> implements Iterable<T> {
  constructor(protected readonly name: string) {}
  abstract area(): number;
  describe(this: Shape<T>, s?: Stats): string { return this.name + (s as any); }
}
export function load(path: string) { return readFile(path, (err) => err ?? null); }
const el = <p className="x">{Color.Red}</p>;
export * from "./shapes";
export * as geo from "./geo";
`
	first := mustTranspile(t, "a.tsx", src, transpile.Options{Target: fold.ES2019})
	second := mustTranspile(t, "a.js", first.Code, transpile.Options{Target: fold.ES2019})
	require.Equal(t, first.Code, second.Code)
	require.NotContains(t, first.Code, "Shape<T>")
	require.NotContains(t, first.Code, "implements")
	require.NotContains(t, first.Code, "Stats")
	require.Contains(t, first.Code, "export * from \"./shapes\";\n")
	require.Contains(t, first.Code, "export * as geo from \"./geo\";\n")
}

func TestTranspileClassFieldTemporaries(t *testing.T) {
	const src = `function f(): number | null { return null; }
class A { m = f() ?? 1; }
`
	res := mustTranspile(t, "a.ts", src, transpile.Options{Target: fold.ES2019})
	require.NotContains(t, res.Code, "??")
	require.True(t, strings.HasPrefix(res.Code, "var _a;\n"), "temporary is hoisted to module scope:\n%s", res.Code)
	require.Equal(t, "1", evaluate(t, res.Code, "new A().m"))
}

func TestTranspileDialectInference(t *testing.T) {
	const src = "let x: number = 1;\nconst a = <div />;"

	_, err := transpile.Transpile("a.jsx", src, transpile.Options{})
	terr := asError(t, err)
	require.Equal(t, transpile.StateParseFailed, terr.State)
	require.True(t, terr.Has(diag.SynTypeSyntaxInJS))
	require.Equal(t, diag.KindSyntax, terr.Kind())
	require.Contains(t, terr.Error(), "a.jsx:1:")

	res := mustTranspile(t, "a.tsx", src, transpile.Options{})
	require.Equal(t, dialect.TSX, res.Dialect)

	_, err = transpile.Transpile("file:///src/a.jsx?v=2", src, transpile.Options{SyntaxOverride: dialect.TSX})
	terr = asError(t, err)
	require.Equal(t, transpile.StateIdle, terr.State)
	require.True(t, terr.Has(diag.CfgDialectConflict))
}

func TestTranspileMalformedJSXSpan(t *testing.T) {
	const src = "const a = <div>hello"
	_, err := transpile.Transpile("a.tsx", src, transpile.Options{})
	terr := asError(t, err)

	var found *diag.Diagnostic
	for i := range terr.Diagnostics {
		if terr.Diagnostics[i].Code == diag.SynUnterminatedJSX {
			found = &terr.Diagnostics[i]
			break
		}
	}
	require.NotNil(t, found)
	file, ok := terr.FileSet.FileOf(found.Primary.Start)
	require.True(t, ok)
	require.Equal(t, uint32(strings.Index(src, "<")), file.Offset(found.Primary.Start))
}

func TestTranspileDevelopmentFlag(t *testing.T) {
	const src = `const n = 5;
const el = <div className="a"><b>x</b>{n}</div>;`

	prod := mustTranspile(t, "app.tsx", src, transpile.Options{})
	dev := mustTranspile(t, "app.tsx", src, transpile.Options{Development: true})

	require.Contains(t, prod.Code, `from "react/jsx-runtime"`)
	require.Contains(t, dev.Code, `from "react/jsx-dev-runtime"`)
	require.Contains(t, dev.Code, `fileName: "app.tsx"`)
	require.NotContains(t, prod.Code, "_jsxDEV")

	want := "<div class=a><b>x</b>5</div>"
	require.Equal(t, want, evaluate(t, prod.Code, "el"))
	require.Equal(t, want, evaluate(t, dev.Code, "el"))
}

func TestTranspileMinify(t *testing.T) {
	const src = `// helpers
function add(a: number, b: number): number {
  return a + b;
}
const xs: number[] = [1, 2, 3].map((x) => add(x, 1));
let label = xs.length > 2 ? "many" : "few";
`
	pretty := mustTranspile(t, "a.ts", src, transpile.Options{})
	mini := mustTranspile(t, "a.ts", src, transpile.Options{Minify: true})

	ws := func(s string) int { return strings.Count(s, " ") + strings.Count(s, "\n") }
	require.Less(t, ws(mini.Code), ws(pretty.Code))
	require.NotContains(t, mini.Code, "helpers")

	final := `xs.join(",") + ":" + label`
	require.Equal(t, "2,3,4:many", evaluate(t, pretty.Code, final))
	require.Equal(t, evaluate(t, pretty.Code, final), evaluate(t, mini.Code, final))
}

func TestTranspileHygieneUnderConcurrency(t *testing.T) {
	const src = "const _jsx = 1;\nconst a = <b>{_jsx}</b>;"
	want := mustTranspile(t, "a.tsx", src, transpile.Options{}).Code
	require.Contains(t, want, "jsx as _jsx1")

	outputs := make([]string, 64)
	var g errgroup.Group
	for i := range outputs {
		g.Go(func() error {
			res, err := transpile.Transpile(fmt.Sprintf("f%d.tsx", i), src, transpile.Options{})
			if err != nil {
				return err
			}
			outputs[i] = res.Code
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for i, got := range outputs {
		require.Equal(t, want, got, "call %d", i)
	}
}

func TestTranspileSourceMap(t *testing.T) {
	const src = "let a: number = 1;\nfoo(a);\n"

	res := mustTranspile(t, "src/a.ts", src, transpile.Options{SourceMap: transpile.SourceMapSeparate})
	require.Equal(t, "let a = 1;\nfoo(a);\n//# sourceMappingURL=a.js.map\n", res.Code)
	require.NotNil(t, res.Map)

	consumer, err := gosm.Parse("", res.Map)
	require.NoError(t, err)
	require.Equal(t, "a.js", consumer.File())
	file, _, line, col, ok := consumer.Source(2, 4)
	require.True(t, ok)
	require.Equal(t, "src/a.ts", file)
	require.Equal(t, 2, line)
	require.Equal(t, 4, col)

	inline := mustTranspile(t, "a.ts", src, transpile.Options{SourceMap: transpile.SourceMapInline, Minify: true})
	require.Nil(t, inline.Map)
	require.Contains(t, inline.Code, "let a=1;foo(a)\n//# sourceMappingURL=data:application/json;base64,")
}

func TestTranspileConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts transpile.Options
		code diag.Code
	}{
		{"import source with classic runtime", "1;", transpile.Options{JSXRuntime: fold.RuntimeClassic, JSXImportSource: "preact"}, diag.CfgImportSourceClassic},
		{"bad define", "1;", transpile.Options{Defines: map[string]string{"a-b": "1"}}, diag.CfgInvalidDefine},
		{"bad strip", "1;", transpile.Options{StripConditionals: []string{"a ==="}}, diag.CfgInvalidStrip},
		{"invalid utf-8", "\xff", transpile.Options{}, diag.CfgInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transpile.Transpile("a.ts", tt.text, tt.opts)
			terr := asError(t, err)
			require.Equal(t, transpile.StateIdle, terr.State)
			require.True(t, terr.Has(tt.code), "diagnostics: %v", terr.Diagnostics)
			require.Equal(t, diag.KindConfiguration, terr.Kind())
		})
	}
}

func TestTranspileTransformFailure(t *testing.T) {
	_, err := transpile.Transpile("a.ts", "export = 1;", transpile.Options{})
	terr := asError(t, err)
	require.Equal(t, transpile.StateTransformFailed, terr.State)
	require.True(t, terr.Has(diag.FoldUnsupported))
}

func TestTranspileReturnsWarnings(t *testing.T) {
	res := mustTranspile(t, "a.tsx", "/** @jsx h */\nconst a = <p />;", transpile.Options{})
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, diag.FoldPragmaIgnored, res.Diagnostics[0].Code)
	require.Equal(t, diag.SevWarning, res.Diagnostics[0].Severity)
}

func TestTranspileDefinesAndStrip(t *testing.T) {
	res := mustTranspile(t, "a.ts", "if (__DEV__) { check(); }\nrun(__VERSION__);", transpile.Options{
		StripConditionals: []string{"__DEV__"},
		Defines:           map[string]string{"__VERSION__": `"1.2.0"`},
	})
	require.Equal(t, "run(\"1.2.0\");\n", res.Code)
}

func TestTranspileCapturesTokensAndTimings(t *testing.T) {
	timer := observ.NewTimer()
	tracer := trace.NewZapTracer(zaptest.NewLogger(t), trace.LevelPhase)
	res := mustTranspile(t, "a.ts", "let a = 1;", transpile.Options{
		CaptureTokens: true,
		Timer:         timer,
		Tracer:        tracer,
	})
	require.NotEmpty(t, res.Tokens)

	report := timer.Report()
	names := make([]string, 0, len(report.Phases))
	for _, p := range report.Phases {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"parse", "fold", "emit"}, names)
}

func TestOutputName(t *testing.T) {
	tests := map[string]string{
		"a.ts":                  "a.js",
		"dir/App.tsx":           "dir/App.js",
		"a.mts":                 "a.mjs",
		"a.cts":                 "a.cjs",
		"a.jsx":                 "a.js",
		"a.mjs":                 "a.mjs",
		"types.d.ts":            "types.d.ts.js",
		"file:///x/a.tsx?v=1#f": "/x/a.js",
		"noext":                 "noext.js",
	}
	for in, want := range tests {
		require.Equal(t, want, transpile.OutputName(in), in)
	}
}

func TestParseSourceMapMode(t *testing.T) {
	m, err := transpile.ParseSourceMapMode("inline")
	require.NoError(t, err)
	require.Equal(t, transpile.SourceMapInline, m)
	m, err = transpile.ParseSourceMapMode("")
	require.NoError(t, err)
	require.Equal(t, transpile.SourceMapNone, m)
	_, err = transpile.ParseSourceMapMode("both")
	require.Error(t, err)
}
