package driver_test

import (
	"path/filepath"
	"testing"

	"mesozoic/internal/dialect"
	"mesozoic/internal/driver"
	"mesozoic/internal/token"
)

func TestParseAndTokenize(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.tsx")
	writeFile(t, good, "const re = /a+/g;\nconst el = <b>x</b>;\n")

	pr, err := driver.Parse(good, driver.ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if pr.Tree == nil || pr.Bag.HasErrors() || pr.Dialect != dialect.TSX {
		t.Fatalf("parse failed: %v", pr.Bag.Items())
	}

	tr, err := driver.Tokenize(good, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Contextual || len(tr.Tokens) == 0 {
		t.Fatalf("expected parser-driven tokens, got %d", len(tr.Tokens))
	}

	bad := filepath.Join(dir, "b.ts")
	writeFile(t, bad, "let = ;\n")
	tr, err = driver.Tokenize(bad, 0)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Contextual || !tr.Bag.HasErrors() {
		t.Fatal("expected raw lexer tokens with parse errors")
	}
	if last := tr.Tokens[len(tr.Tokens)-1]; last.Kind != token.EOF {
		t.Fatalf("last token = %v", last.Kind)
	}
}

func TestParseDialectConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.jsx")
	writeFile(t, path, "x;\n")
	pr, err := driver.Parse(path, driver.ParseOptions{Syntax: dialect.TS})
	if err != nil {
		t.Fatal(err)
	}
	if pr.Tree != nil || !pr.Bag.HasErrors() {
		t.Fatal("expected a configuration error")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := driver.Parse(filepath.Join(t.TempDir(), "none.ts"), driver.ParseOptions{}); err == nil {
		t.Fatal("expected an I/O error")
	}
}
