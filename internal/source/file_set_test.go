package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.ts", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("test.ts", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("test.ts")
	if !exists || latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d (exists=%v)", id2, latestID, exists)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("first file content = %q", got)
	}
}

// Первый файл начинается с позиции 1, следующий не пересекается с ним.
func TestFileSetBases(t *testing.T) {
	fs := NewFileSet()
	a := fs.Get(fs.AddVirtual("a.ts", []byte("abc")))
	b := fs.Get(fs.AddVirtual("b.ts", []byte("de")))

	if a.Base != 1 {
		t.Fatalf("first base = %d, want 1", a.Base)
	}
	if b.Base <= a.End() {
		t.Fatalf("second base %d overlaps first file ending at %d", b.Base, a.End())
	}
	if f, ok := fs.FileOf(b.Base + 1); !ok || f.ID != b.ID {
		t.Fatalf("FileOf(%d) = %v, %v", b.Base+1, f, ok)
	}
	if _, ok := fs.FileOf(NoPos); ok {
		t.Fatal("NoPos must not resolve to a file")
	}
}

func TestLineIndexTerminators(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []uint32
	}{
		{"empty", "", []uint32{0}},
		{"lf", "a\nb\n", []uint32{0, 2, 4}},
		{"crlf", "a\r\nb", []uint32{0, 3}},
		{"lone cr", "a\rb", []uint32{0, 2}},
		{"line separator", "a\u2028b", []uint32{0, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildLineIndex([]byte(tt.src))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.ts", []byte("let a;\nlet bb;\n")))

	start, end := fs.Resolve(f.Span(11, 13))
	if start != (LineCol{Line: 2, Col: 5}) || end != (LineCol{Line: 2, Col: 7}) {
		t.Fatalf("Resolve = %v %v", start, end)
	}
	if got := f.GetLine(2); got != "let bb;" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("GetLine(9) = %q", got)
	}
	if got := f.Text(f.Span(4, 5)); got != "a" {
		t.Fatalf("Text = %q", got)
	}
}

func TestUTF16Columns(t *testing.T) {
	fs := NewFileSet()
	// "é" занимает 2 байта и 1 code unit, "😀" - 4 байта и 2 code unit.
	src := "x = \"é😀\"; y"
	f := fs.Get(fs.AddVirtual("a.ts", []byte(src)))
	off := len(src) - 1
	line, col := f.UTF16LineCol(f.Pos(off))
	if line != 0 || col != 11 {
		t.Fatalf("UTF16LineCol = %d:%d, want 0:11", line, col)
	}
}

func TestDecodeInputs(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		want  string
		flags FileFlags
	}{
		{"plain", []byte("a\nb"), "a\nb", 0},
		{"utf8 bom", []byte("\xEF\xBB\xBFa"), "a", FileHadBOM},
		{"crlf", []byte("a\r\nb"), "a\nb", FileNormalizedCRLF},
		{"utf16le", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi", FileHadBOM | FileTranscodedUTF16},
		{"utf16be", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "hi", FileHadBOM | FileTranscodedUTF16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if string(got) != tt.want || flags != tt.flags {
				t.Fatalf("Decode = %q (flags %b), want %q (flags %b)", got, flags, tt.want, tt.flags)
			}
		})
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.tsx")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFconst a = 1;\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "const a = 1;\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileVirtual != 0 {
		t.Fatal("loaded file must not be virtual")
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	baseDir := filepath.Join(tmp, "base")
	target := filepath.Join(tmp, "other", "file.ts")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 0, Start: 3, End: 5}
	b := Span{File: 0, Start: 8, End: 9}
	if got := a.Cover(b); got != (Span{File: 0, Start: 3, End: 9}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := (Span{}).Cover(b); got != b {
		t.Fatalf("dummy Cover = %v", got)
	}
	if !(Span{}).IsDummy() || a.IsDummy() {
		t.Fatal("IsDummy mismatch")
	}
}
