package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

// TokenOutput is one token in the JSON dump.
type TokenOutput struct {
	Kind    string   `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Start   uint32   `json:"start"`
	End     uint32   `json:"end"`
	Line    uint32   `json:"line,omitempty"`
	Col     uint32   `json:"col,omitempty"`
	NL      bool     `json:"nl,omitempty"`
	Leading []string `json:"leading,omitempty"`
}

func leadingKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	leading := make([]string, 0, len(tok.Leading))
	for _, trivia := range tok.Leading {
		leading = append(leading, trivia.Kind.String())
	}
	return leading
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	var b strings.Builder
	for i, tok := range tokens {
		fmt.Fprintf(&b, "%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		if pos := resolve(fs, tok.Span, PathModeAuto); pos.file != nil {
			fmt.Fprintf(&b, " at %d:%d-%d:%d",
				pos.Start.Line, pos.Start.Col,
				pos.End.Line, pos.End.Col)
		}
		if leading := leadingKinds(tok); len(leading) > 0 {
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(leading, ", "))
		}
		b.WriteByte('\n')
		if tok.Kind == token.EOF {
			break
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatTokensJSON выводит токены в JSON формате. Смещения считаются от
// начала файла.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			NL:      tok.NL,
			Leading: leadingKinds(tok),
		}
		if pos := resolve(fs, tok.Span, PathModeAuto); pos.file != nil {
			out.Start = pos.file.Offset(tok.Span.Start)
			out.End = pos.file.Offset(max(tok.Span.End, tok.Span.Start))
			out.Line, out.Col = pos.Start.Line, pos.Start.Col
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
