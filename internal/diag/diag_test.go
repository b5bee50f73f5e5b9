package diag

import (
	"testing"

	"mesozoic/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("src/sample.tsx", []byte("a\nb\n"))
	f := fs.Get(id)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     FoldPragmaIgnored,
			Message:  "another",
			Primary:  f.Span(2, 3),
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  f.Span(2, 3),
			Notes: []Note{
				{Span: f.Span(0, 1), Msg: "note line"},
			},
		},
	}

	want := "src/sample.tsx:2:1: error SYN2001: first line second\n" +
		"src/sample.tsx:1:1: note: note line\n" +
		"src/sample.tsx:2:1: warning FLD4002: another\n"
	if got := FormatShort(diags, fs, ShortOpts{Notes: true}); got != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\ngot:\n%s", want, got)
	}
	if got := FormatShort(diags[1:], fs, ShortOpts{}); got != "src/sample.tsx:2:1: error SYN2001: first line second\n" {
		t.Fatalf("notes printed without ShortOpts.Notes: %q", got)
	}
	if FormatShort(nil, fs, ShortOpts{}) != "" {
		t.Fatal("no diagnostics must give empty output")
	}
}

func TestCodeKinds(t *testing.T) {
	tests := []struct {
		code Code
		kind Kind
		id   string
	}{
		{LexUnterminatedString, KindSyntax, "LEX1002"},
		{SynUnterminatedJSX, KindSyntax, "SYN2010"},
		{CfgDialectConflict, KindConfiguration, "CFG3001"},
		{FoldTypeLeaked, KindTransformInvariant, "FLD4004"},
		{EmitInvalidOutput, KindEmitInvariant, "EMT5002"},
	}
	for _, tt := range tests {
		if got := tt.code.Kind(); got != tt.kind {
			t.Errorf("%s.Kind() = %s, want %s", tt.id, got, tt.kind)
		}
		if got := tt.code.ID(); got != tt.id {
			t.Errorf("ID() = %s, want %s", got, tt.id)
		}
	}
	if KindSyntax.String() != "SyntaxError" || KindEmitInvariant.String() != "EmitInvariantError" {
		t.Fatal("kind names changed")
	}
}

func TestBagLimitAdmitsFirstError(t *testing.T) {
	b := NewBag(1)
	if !b.Add(New(SevWarning, FoldPragmaIgnored, source.Span{}, "w")) {
		t.Fatal("first warning rejected")
	}
	if b.Add(New(SevWarning, FoldPragmaIgnored, source.Span{}, "w2")) {
		t.Fatal("second warning admitted past limit")
	}
	if !b.Add(NewError(SynUnexpectedToken, source.Span{}, "e")) {
		t.Fatal("first error must be admitted")
	}
	if b.Add(NewError(SynUnexpectedToken, source.Span{}, "e2")) {
		t.Fatal("second error admitted past limit")
	}
	if !b.HasErrors() || len(b.Errors()) != 1 || len(b.Warnings()) != 1 {
		t.Fatalf("unexpected bag contents: %v", b.Items())
	}
}

func TestBufferReporterFlush(t *testing.T) {
	var buf BufferReporter
	ReportError(&buf, SynExpectExpression, source.Span{}, "x").Emit()
	if buf.Len() != 1 {
		t.Fatalf("Len = %d", buf.Len())
	}
	bag := NewBag(0)
	buf.Flush(BagReporter{Bag: bag})
	if bag.Len() != 1 || buf.Len() != 0 {
		t.Fatalf("flush moved %d, left %d", bag.Len(), buf.Len())
	}
}

func TestDedupReporterDropsRepeats(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 3, End: 4}
	r.Report(SynUnexpectedToken, SevError, sp, "unexpected ')'", nil)
	r.Report(SynUnexpectedToken, SevError, sp, "unexpected ')'", nil)
	r.Report(SynUnexpectedToken, SevError, source.Span{File: 1, Start: 5, End: 6}, "unexpected ')'", nil)
	r.Report(SynExpectSemicolon, SevError, sp, "expected ';'", nil)
	if bag.Len() != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", bag.Len())
	}
}
