package sourcemap

import (
	"errors"
	"strings"
	"testing"

	gosm "github.com/go-sourcemap/sourcemap"

	"mesozoic/internal/source"
)

func TestAppendVLQ(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "A"},
		{1, "C"},
		{-1, "D"},
		{15, "e"},
		{16, "gB"},
		{123, "2H"},
		{-123, "3H"},
	}
	for _, tt := range tests {
		if got := string(appendVLQ(nil, tt.in)); got != tt.want {
			t.Errorf("appendVLQ(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func newFile(t *testing.T, name, src string) (*source.FileSet, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	return fs, fs.Get(fs.AddVirtual(name, []byte(src)))
}

func spanOf(t *testing.T, f *source.File, needle string) source.Span {
	t.Helper()
	off := strings.Index(string(f.Content), needle)
	if off < 0 {
		t.Fatalf("%q not found", needle)
	}
	return f.Span(off, off+len(needle))
}

func TestSinkRoundTripsThroughConsumer(t *testing.T) {
	fs, file := newFile(t, "a.ts", "const s = '😀'; bar();\nlet x: number = 1;\n")
	sink, err := NewSink(fs, file)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	must := func(line, col uint32, needle string) {
		t.Helper()
		if err := sink.Add(line, col, spanOf(t, file, needle)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	must(0, 0, "const")
	must(0, 15, "bar")
	must(1, 0, "let")
	must(1, 4, "x")
	// синтезированные узлы без позиции пропускаются
	if err := sink.Add(1, 8, source.Span{}); err != nil {
		t.Fatalf("Add(dummy): %v", err)
	}
	if sink.Len() != 4 {
		t.Fatalf("Len = %d, want 4", sink.Len())
	}

	m, err := sink.Map("a.js")
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if m.Version != 3 || len(m.Sources) != 1 || m.SourcesContent[0] != string(file.Content) {
		t.Fatalf("unexpected map header: %+v", m)
	}
	data, err := m.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	consumer, err := gosm.Parse("", data)
	if err != nil {
		t.Fatalf("consumer rejected map: %v\n%s", err, data)
	}

	// go-sourcemap отбрасывает сегменты, указывающие на 1:0, поэтому первый
	// проверяется по самой строке mappings
	if !strings.HasPrefix(m.Mappings, "AAAA,") {
		t.Errorf("mappings = %q, want a leading AAAA segment", m.Mappings)
	}

	tests := []struct {
		genLine, genCol int // 1-based line, 0-based column
		line, col       int
	}{
		{1, 15, 1, 16}, // эмодзи занимает две UTF-16 единицы
		{2, 0, 2, 0},
		{2, 4, 2, 4},
	}
	for _, tt := range tests {
		_, _, line, col, ok := consumer.Source(tt.genLine, tt.genCol)
		if !ok {
			t.Errorf("no mapping at %d:%d", tt.genLine, tt.genCol)
			continue
		}
		if line != tt.line || col != tt.col {
			t.Errorf("mapping at %d:%d = %d:%d, want %d:%d", tt.genLine, tt.genCol, line, col, tt.line, tt.col)
		}
	}
}

func TestSinkRejectsForeignSpans(t *testing.T) {
	fs, file := newFile(t, "a.ts", "x;\n")
	sink, err := NewSink(fs, file)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	bad := source.Span{File: file.ID, Start: file.End() + 5, End: file.End() + 6}
	if err := sink.Add(0, 0, bad); !errors.Is(err, ErrSpan) {
		t.Fatalf("Add(out of range) = %v, want ErrSpan", err)
	}
	other := source.Span{File: file.ID + 1, Start: file.Base, End: file.Base + 1}
	if err := sink.Add(0, 0, other); !errors.Is(err, ErrSpan) {
		t.Fatalf("Add(other file) = %v, want ErrSpan", err)
	}
}

func TestSinkChecksRegistry(t *testing.T) {
	fs, file := newFile(t, "a.ts", "x;\n")
	shifted := *file
	shifted.Base += 10
	if _, err := NewSink(fs, &shifted); !errors.Is(err, ErrRegistry) {
		t.Fatalf("NewSink(shifted) = %v, want ErrRegistry", err)
	}
	if _, err := NewSink(source.NewFileSet(), file); !errors.Is(err, ErrRegistry) {
		t.Fatalf("NewSink(empty set) = %v, want ErrRegistry", err)
	}

	second := fs.Get(fs.AddVirtual("b.ts", []byte("y;\n")))
	if second.Base == 1 {
		t.Fatalf("second file must not start at base 1")
	}
	if _, err := NewSink(fs, second); err != nil {
		t.Fatalf("NewSink(second) = %v", err)
	}
}

func TestSinkRejectsBackwardMappings(t *testing.T) {
	fs, file := newFile(t, "a.ts", "a; b;\n")
	sink, err := NewSink(fs, file)
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.Add(0, 3, spanOf(t, file, "b")); err != nil {
		t.Fatal(err)
	}
	if err := sink.Add(0, 0, spanOf(t, file, "a")); err == nil {
		t.Fatal("expected an error for a mapping before the previous one")
	}
}

func TestInlineComment(t *testing.T) {
	got := InlineComment([]byte(`{"version":3}`))
	if !strings.HasPrefix(got, "//# sourceMappingURL=data:application/json;base64,") {
		t.Fatalf("unexpected prefix: %s", got)
	}
	if !strings.HasSuffix(got, "eyJ2ZXJzaW9uIjozfQ==") {
		t.Fatalf("unexpected payload: %s", got)
	}
}
