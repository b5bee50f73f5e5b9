package fuzztests

import (
	"errors"
	"testing"

	"mesozoic/transpile"
)

// FuzzTranspileOutcome checks that a call yields output or diagnostics, never both.
func FuzzTranspileOutcome(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		for _, spec := range []string{"fuzz.ts", "fuzz.tsx"} {
			res, err := transpile.Transpile(spec, string(input), transpile.Options{Minify: true})
			if err != nil {
				var terr *transpile.Error
				if !errors.As(err, &terr) {
					t.Fatalf("%s: unexpected error type %T: %v", spec, err, err)
				}
				if len(terr.Diagnostics) == 0 {
					t.Fatalf("%s: error without diagnostics", spec)
				}
				if !terr.State.Failed() && terr.State != transpile.StateIdle {
					t.Fatalf("%s: error in non-terminal state %s", spec, terr.State)
				}
				continue
			}
			if res.State != transpile.StateEmitted {
				t.Fatalf("%s: result in state %s", spec, res.State)
			}
		}
	})
}
