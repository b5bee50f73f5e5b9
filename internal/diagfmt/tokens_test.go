package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"mesozoic/internal/token"
)

func TestFormatTokens(t *testing.T) {
	fs, f := virtualFile(t, "a.ts", "// hi\nx\n")
	tokens := []token.Token{
		{
			Kind: token.Ident,
			Span: f.Span(6, 7),
			Text: "x",
			NL:   true,
			Leading: []token.Trivia{
				{Kind: token.TriviaLineComment, Span: f.Span(0, 5), Text: "// hi"},
				{Kind: token.TriviaNewline, Span: f.Span(5, 6), Text: "\n"},
			},
		},
		{Kind: token.EOF, Span: f.Span(8, 8)},
		{Kind: token.Ident, Span: f.Span(0, 1), Text: "after-eof"},
	}

	t.Run("pretty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := FormatTokensPretty(&buf, tokens, fs); err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(lines) != 2 {
			t.Fatalf("want 2 lines, got %q", lines)
		}
		for _, want := range []string{`"x"`, "at 2:1-2:2", "(leading: line-comment, newline)"} {
			if !strings.Contains(lines[0], want) {
				t.Errorf("line %q lacks %q", lines[0], want)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := FormatTokensJSON(&buf, tokens, fs); err != nil {
			t.Fatal(err)
		}
		var out []TokenOutput
		if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
			t.Fatal(err)
		}
		if len(out) != 2 {
			t.Fatalf("want 2 tokens, got %d", len(out))
		}
		x := out[0]
		if x.Kind != token.Ident.String() || x.Start != 6 || x.End != 7 || x.Line != 2 || x.Col != 1 || !x.NL {
			t.Errorf("token = %+v", x)
		}
		if len(x.Leading) != 2 || x.Leading[0] != "line-comment" {
			t.Errorf("leading = %v", x.Leading)
		}
		if out[1].Kind != token.EOF.String() || out[1].Start != 8 {
			t.Errorf("eof = %+v", out[1])
		}
	})
}
