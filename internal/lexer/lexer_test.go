package lexer_test

import (
	"testing"

	"mesozoic/internal/diag"
	"mesozoic/internal/lexer"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

func newLexer(src string, strict bool) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.ts", []byte(src)))
	bag := diag.NewBag(20)
	return lexer.New(f, lexer.Options{Reporter: diag.BagReporter{Bag: bag}, StrictOctal: strict}), bag
}

func collect(lx *lexer.Lexer) []token.Token {
	var out []token.Token
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, bag := newLexer(src, false)
	toks := collect(lx)
	got := kinds(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", src, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v (all: %v)", src, i, got[i], want[i], got)
		}
	}
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics %v", src, bag.Items())
	}
	return toks
}

func TestOperatorsGreedy(t *testing.T) {
	expectKinds(t, "a ??= b?.c ?? d", token.Ident, token.QuestionQuestionAssign, token.Ident,
		token.QuestionDot, token.Ident, token.QuestionQuestion, token.Ident)
	expectKinds(t, "x === y !== z", token.Ident, token.EqEqEq, token.Ident, token.BangEqEq, token.Ident)
	expectKinds(t, "a **= 2 ** 3", token.Ident, token.StarStarAssign, token.NumberLit, token.StarStar, token.NumberLit)
	expectKinds(t, "(...r) => r", token.LParen, token.DotDotDot, token.Ident, token.RParen, token.Arrow, token.Ident)
	// a?.5:b - тернарный оператор с числом .5
	expectKinds(t, "a?.5:b", token.Ident, token.Question, token.NumberLit, token.Colon, token.Ident)
}

func TestGreaterIsAlwaysSingle(t *testing.T) {
	toks := expectKinds(t, "a >>>= b", token.Ident, token.Gt, token.Gt, token.Gt, token.Assign, token.Ident)
	lx, _ := newLexer("a >>>= b", false)
	lx.Next()
	gt := lx.Next()
	if gt.Span != toks[1].Span {
		t.Fatalf("span mismatch")
	}
	re := lx.ReScanGreater(gt)
	if re.Kind != token.UShrAssign || re.Text != ">>>=" {
		t.Fatalf("ReScanGreater = %v %q", re.Kind, re.Text)
	}
	if next := lx.Next(); next.Kind != token.Ident || next.Text != "b" {
		t.Fatalf("after rescan got %v %q", next.Kind, next.Text)
	}
}

func TestKeywordsAndContextual(t *testing.T) {
	toks := expectKinds(t, "const let = typeof async", token.KwConst, token.Ident, token.Assign, token.KwTypeof, token.Ident)
	if !toks[1].Is("let") || !toks[4].Is("async") {
		t.Fatal("contextual words must be identifiers")
	}
	esc := expectKinds(t, `\u0069f $x _y`, token.Ident, token.Ident, token.Ident)
	if !esc[0].Escaped {
		t.Fatal("escaped identifier not flagged")
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
		val  float64
	}{
		{"42", token.NumberLit, 42},
		{"1_000", token.NumberLit, 1000},
		{"0x1F", token.NumberLit, 31},
		{"0b101", token.NumberLit, 5},
		{"0o17", token.NumberLit, 15},
		{".5", token.NumberLit, 0.5},
		{"1e3", token.NumberLit, 1000},
		{"10n", token.BigIntLit, 0},
		{"017", token.NumberLit, 15},
	}
	for _, c := range cases {
		toks := expectKinds(t, c.src, c.kind)
		if c.kind == token.BigIntLit {
			continue
		}
		v, ok := lexer.NumberValue(toks[0].Text)
		if !ok || v != c.val {
			t.Errorf("NumberValue(%q) = %v, %v; want %v", c.src, v, ok, c.val)
		}
	}
}

func TestLegacyOctalStrict(t *testing.T) {
	lx, bag := newLexer(`017; "\1"`, true)
	collect(lx)
	n := 0
	for _, d := range bag.Items() {
		if d.Code == diag.LexLegacyOctal {
			n++
		}
	}
	if n != 2 {
		t.Fatalf("expected 2 legacy octal errors, got %v", bag.Items())
	}
}

func TestStringsAndUnquote(t *testing.T) {
	toks := expectKinds(t, `'a\'b' "\u{1F600}\x41\n"`, token.StringLit, token.StringLit)
	got, ok := lexer.Unquote(toks[0].Text)
	if !ok || got != "a'b" {
		t.Fatalf("Unquote = %q, %v", got, ok)
	}
	got, ok = lexer.Unquote(toks[1].Text)
	if !ok || got != "\U0001F600A\n" {
		t.Fatalf("Unquote = %q, %v", got, ok)
	}
	if s, _ := lexer.Cook(`\uD83D\uDE00`); s != "\U0001F600" {
		t.Fatalf("surrogate pair decoded to %q", s)
	}
}

func TestUnterminatedString(t *testing.T) {
	lx, bag := newLexer("'abc\nx", false)
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", tok.Kind)
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
}

func TestTemplates(t *testing.T) {
	lx, _ := newLexer("`a${x}b${y}c` `plain`", false)
	head := lx.Next()
	if head.Kind != token.TemplateHead || head.Text != "`a${" {
		t.Fatalf("head = %v %q", head.Kind, head.Text)
	}
	lx.Next() // x
	mid := lx.ReScanTemplateContinuation(lx.Next())
	if mid.Kind != token.TemplateMiddle || mid.Text != "}b${" {
		t.Fatalf("middle = %v %q", mid.Kind, mid.Text)
	}
	lx.Next() // y
	tail := lx.ReScanTemplateContinuation(lx.Next())
	if tail.Kind != token.TemplateTail || tail.Text != "}c`" {
		t.Fatalf("tail = %v %q", tail.Kind, tail.Text)
	}
	if plain := lx.Next(); plain.Kind != token.NoSubstTemplate {
		t.Fatalf("plain = %v", plain.Kind)
	}
}

func TestRegExpRescan(t *testing.T) {
	lx, bag := newLexer(`x = /[/]a\/b/gi.test(s)`, false)
	lx.Next()
	lx.Next()
	re := lx.ReScanSlash(lx.Next())
	if re.Kind != token.RegExpLit || re.Text != `/[/]a\/b/gi` {
		t.Fatalf("regexp = %v %q", re.Kind, re.Text)
	}
	if dot := lx.Next(); dot.Kind != token.Dot {
		t.Fatalf("after regexp got %v", dot.Kind)
	}
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
}

func TestCommentsAndNewlines(t *testing.T) {
	lx, _ := newLexer("#!/usr/bin/env node\na // line\n/* block */ b", false)
	a := lx.Next()
	if len(a.Comments()) != 1 || a.Comments()[0].Kind != token.TriviaHashbang {
		t.Fatalf("hashbang not attached: %+v", a.Leading)
	}
	b := lx.Next()
	if !b.NL {
		t.Fatal("expected newline before b")
	}
	cs := b.Comments()
	if len(cs) != 2 || cs[0].Text != "// line" || cs[1].Text != "/* block */" {
		t.Fatalf("comments = %+v", cs)
	}
	eof := lx.Next()
	if eof.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", eof.Kind)
	}
}

func TestDanglingCommentRidesOnEOF(t *testing.T) {
	lx, _ := newLexer("a\n// tail", false)
	lx.Next()
	eof := lx.Next()
	if eof.Kind != token.EOF || len(eof.Comments()) != 1 {
		t.Fatalf("EOF comments = %+v", eof.Leading)
	}
}

func TestJSXChildren(t *testing.T) {
	src := `<div data-id="a\b">hi {x}</div>`
	lx, _ := newLexer(src, false)
	lx.Next() // <
	tag := lx.Next()
	if tag.Text != "div" {
		t.Fatalf("tag = %q", tag.Text)
	}
	attr := lx.ReScanJSXIdent(lx.Next())
	if attr.Text != "data-id" {
		t.Fatalf("attr = %q", attr.Text)
	}
	lx.Next() // =
	val := lx.ReScanJSXAttrString(lx.Next())
	if val.Kind != token.StringLit || val.Text != `"a\b"` {
		t.Fatalf("attr value = %v %q", val.Kind, val.Text)
	}
	gt := lx.Next()
	text := lx.NextJSXChild(gt)
	if text.Kind != token.JSXText || text.Text != "hi " {
		t.Fatalf("text = %v %q", text.Kind, text.Text)
	}
	brace := lx.NextJSXChild(text)
	if brace.Kind != token.LBrace {
		t.Fatalf("expected {, got %v", brace.Kind)
	}
	lx.Next() // x
	closeBrace := lx.Next()
	lt := lx.NextJSXChild(closeBrace)
	if lt.Kind != token.Lt {
		t.Fatalf("expected <, got %v", lt.Kind)
	}
}

func TestSnapshotRestore(t *testing.T) {
	lx, _ := newLexer("a b c", false)
	lx.Next()
	st := lx.Snapshot()
	if lx.Next().Text != "b" {
		t.Fatal("expected b")
	}
	lx.Next()
	lx.Restore(st)
	if got := lx.Next().Text; got != "b" {
		t.Fatalf("after restore got %q", got)
	}
}

func TestSpansArePositions(t *testing.T) {
	lx, _ := newLexer("ab cd", false)
	first := lx.Next()
	if first.Span.Start != 1 || first.Span.End != 3 {
		t.Fatalf("first span = %v, positions start at 1", first.Span)
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{"plain", `it's "q"`, "a\nb\tc\\", "\x00\x07\x1f", "π  "} {
		raw := lexer.Quote(s, '"')
		back, ok := lexer.Unquote(raw)
		if !ok || back != s {
			t.Errorf("Quote(%q) = %s, unquotes to %q", s, raw, back)
		}
	}
	if got := lexer.Quote("a'b", '\''); got != `'a\'b'` {
		t.Errorf("single quote = %s", got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0: "0", 1: "1", -2: "-2", 0.5: "0.5", 1e21: "1e+21", 1e-7: "1e-7", 123456789: "123456789",
	}
	for v, want := range cases {
		if got := lexer.FormatNumber(v); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", v, got, want)
		}
	}
}
