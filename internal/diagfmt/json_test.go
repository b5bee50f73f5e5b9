package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

func TestJSON(t *testing.T) {
	fs, f := virtualFile(t, "a.tsx", "const a = <div>hello\n")
	diags := []diag.Diagnostic{
		diag.NewError(diag.SynUnterminatedJSX, f.Span(10, 15), "unterminated").
			WithNote(f.Span(10, 11), "opened here"),
		diag.New(diag.SevWarning, diag.FoldPragmaIgnored, source.Span{}, "pragma ignored"),
	}

	var buf bytes.Buffer
	if err := JSON(&buf, diags, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d, len = %d", out.Count, len(out.Diagnostics))
	}

	first := out.Diagnostics[0]
	if first.Severity != "ERROR" || first.Code != "SYN2010" || first.Kind != "SyntaxError" {
		t.Errorf("unexpected header: %+v", first)
	}
	loc := first.Location
	if loc == nil {
		t.Fatal("missing location")
	}
	if loc.File != "a.tsx" || loc.StartByte != 10 || loc.EndByte != 15 {
		t.Errorf("location = %+v", *loc)
	}
	if loc.StartLine != 1 || loc.StartCol != 11 || loc.EndCol != 16 {
		t.Errorf("positions = %+v", *loc)
	}
	if len(first.Notes) != 0 {
		t.Errorf("notes leaked without IncludeNotes: %+v", first.Notes)
	}

	second := out.Diagnostics[1]
	if second.Location != nil {
		t.Errorf("dummy span produced location %+v", *second.Location)
	}
	if second.Kind != "TransformInvariantError" {
		t.Errorf("kind = %q", second.Kind)
	}
}

func TestBuildDiagnosticsOutputOptions(t *testing.T) {
	fs, f := virtualFile(t, "a.ts", "let x\n")
	diags := []diag.Diagnostic{
		diag.NewError(diag.SynUnterminatedJSX, f.Span(4, 5), "one").WithNote(f.Span(0, 3), "here"),
		diag.NewError(diag.SynUnterminatedJSX, f.Span(0, 3), "two"),
		diag.NewError(diag.SynUnterminatedJSX, f.Span(0, 3), "three"),
	}

	out := BuildDiagnosticsOutput(diags, fs, JSONOpts{Max: 2, IncludeNotes: true})
	if out.Count != 2 {
		t.Fatalf("Max not applied: %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Location.StartLine != 0 {
		t.Errorf("positions present without IncludePositions: %+v", *first.Location)
	}
	if len(first.Notes) != 1 || first.Notes[0].Message != "here" || first.Notes[0].Location.EndByte != 3 {
		t.Errorf("notes = %+v", first.Notes)
	}
}
