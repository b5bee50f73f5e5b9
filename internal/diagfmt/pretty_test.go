package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

func virtualFile(t *testing.T, name, content string) (*source.FileSet, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	return fs, fs.Get(fs.AddVirtual(name, []byte(content)))
}

func TestPretty(t *testing.T) {
	fs, f := virtualFile(t, "a.tsx", "const a = <div>hello\n")
	tests := []struct {
		name  string
		diags []diag.Diagnostic
		opts  PrettyOpts
		want  string
	}{
		{
			name:  "caret under span",
			diags: []diag.Diagnostic{diag.NewError(diag.SynUnterminatedJSX, f.Span(10, 15), "unterminated JSX element")},
			want: "a.tsx:1:11: ERROR SYN2010: unterminated JSX element\n" +
				"1 | const a = <div>hello\n" +
				"  | " + strings.Repeat(" ", 10) + "^~~~~\n",
		},
		{
			name:  "no location",
			diags: []diag.Diagnostic{diag.New(diag.SevWarning, diag.FoldPragmaIgnored, source.Span{}, "pragma ignored")},
			want:  "WARNING FLD4002: pragma ignored\n",
		},
		{
			name: "notes hidden by default",
			diags: []diag.Diagnostic{
				diag.New(diag.SevWarning, diag.FoldPragmaIgnored, source.Span{}, "pragma ignored").
					WithNote(source.Span{}, "use jsxFactory"),
			},
			want: "WARNING FLD4002: pragma ignored\n",
		},
		{
			name: "notes shown",
			diags: []diag.Diagnostic{
				diag.New(diag.SevWarning, diag.FoldPragmaIgnored, source.Span{}, "pragma ignored").
					WithNote(source.Span{}, "use jsxFactory"),
			},
			opts: PrettyOpts{ShowNotes: true},
			want: "WARNING FLD4002: pragma ignored\n  note: use jsxFactory\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, tt.diags, fs, tt.opts); err != nil {
				t.Fatalf("Pretty: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestPrettyContextAndTabs(t *testing.T) {
	fs, f := virtualFile(t, "b.ts", "a;\nb;\n\tc;\n")
	d := diag.NewError(diag.SynUnterminatedJSX, f.Span(7, 8), "bad")

	var buf bytes.Buffer
	if err := Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{Context: 1, TabWidth: 2}); err != nil {
		t.Fatal(err)
	}
	want := "b.ts:3:2: ERROR SYN2010: bad\n" +
		"2 | b;\n" +
		"3 |   c;\n" +
		"  |   ^\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	fs, f := virtualFile(t, "a.ts", "x\n")
	d := diag.NewError(diag.SynUnterminatedJSX, f.Span(0, 1), "bad")

	var plain, colored bytes.Buffer
	if err := Pretty(&plain, []diag.Diagnostic{d}, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if err := Pretty(&colored, []diag.Diagnostic{d}, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escapes: %q", colored.String())
	}
}
