package fuzztests

import (
	"testing"
	"time"

	"mesozoic/internal/diag"
	"mesozoic/internal/parser"
	"mesozoic/internal/source"
	"mesozoic/internal/testkit"
)

// parseTimeout bounds one parse; exceeding it means a recovery loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsTree(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.tsx", input))
		bag := diag.NewBag(128)

		done := make(chan parser.Result, 1)
		go func() {
			done <- parser.ParseFile(file, parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
		}()

		select {
		case res := <-done:
			if res.Tree == nil {
				if !bag.HasErrors() {
					t.Fatal("parse failed without an error diagnostic")
				}
				return
			}
			if err := testkit.CheckSpanInvariants(res.Tree); err != nil {
				t.Fatal(err)
			}
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang on %d bytes", len(input))
		}
	})
}
