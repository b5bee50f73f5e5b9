package fuzztests

import (
	"testing"

	"mesozoic/internal/diag"
	"mesozoic/internal/lexer"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.tsx", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		// лексер обязан продвигаться, иначе цикл упрётся в лимит
		for i := 0; i < 4*len(input)+16; i++ {
			tok := lx.Next()
			if tok.Span.End < tok.Span.Start {
				t.Fatalf("token %s has inverted span %v", tok.Kind, tok.Span)
			}
			if tok.Kind == token.EOF {
				return
			}
		}
		t.Fatalf("lexer produced more than %d tokens for %d bytes", 4*len(input)+16, len(input))
	})
}
