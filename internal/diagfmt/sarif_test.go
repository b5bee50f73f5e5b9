package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

func TestSarif(t *testing.T) {
	fs, f := virtualFile(t, "a.tsx", "const a = <div>hello\n")
	diags := []diag.Diagnostic{
		diag.New(diag.SevWarning, diag.FoldPragmaIgnored, source.Span{}, "pragma ignored"),
		diag.NewError(diag.SynUnterminatedJSX, f.Span(10, 15), "unterminated").
			WithNote(f.Span(10, 11), "opened here"),
		diag.NewError(diag.SynUnterminatedJSX, f.Span(0, 5), "again"),
	}
	meta := SarifRunMeta{ToolVersion: "1.2.3", InvocationArgs: []string{"transpile", "a.tsx"}}

	var buf bytes.Buffer
	if err := Sarif(&buf, diags, fs, meta); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("version = %q, runs = %d", log.Version, len(log.Runs))
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "mesozoic" || run.Tool.Driver.Version != "1.2.3" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	// правила уникальны и отсортированы по коду
	rules := run.Tool.Driver.Rules
	if len(rules) != 2 || rules[0].ID != "SYN2010" || rules[1].ID != "FLD4002" {
		t.Fatalf("rules = %+v", rules)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("invocations = %+v", run.Invocations)
	}
	if len(run.Results) != 3 {
		t.Fatalf("results = %d", len(run.Results))
	}

	warn := run.Results[0]
	if warn.Level != "warning" || warn.RuleIndex != 1 || len(warn.Locations) != 0 {
		t.Errorf("warning result = %+v", warn)
	}
	jsx := run.Results[1]
	if jsx.Level != "error" || jsx.RuleIndex != 0 || len(jsx.Locations) != 1 {
		t.Fatalf("error result = %+v", jsx)
	}
	region := jsx.Locations[0].PhysicalLocation.Region
	if region.StartLine != 1 || region.StartColumn != 11 || region.ByteOffset != 10 || region.ByteLength != 5 {
		t.Errorf("region = %+v", region)
	}
	if jsx.Locations[0].PhysicalLocation.ArtifactLocation.URI != "a.tsx" {
		t.Errorf("uri = %q", jsx.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	}
	if len(jsx.RelatedLocations) != 1 || jsx.RelatedLocations[0].Message.Text != "opened here" {
		t.Errorf("related = %+v", jsx.RelatedLocations)
	}
}

func TestSarifEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Sarif(&buf, nil, source.NewFileSet(), SarifRunMeta{ToolName: "x"}); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	run := log.Runs[0]
	if run.Results == nil || len(run.Results) != 0 {
		t.Errorf("results = %#v", run.Results)
	}
	if !run.Invocations[0].ExecutionSuccessful {
		t.Error("empty run marked as failed")
	}
}
