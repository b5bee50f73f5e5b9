package driver

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"mesozoic/internal/dialect"
	"mesozoic/transpile"
)

// CheckResult describes one round trip: the output of a file transpiled again
// as JavaScript must come back byte for byte.
type CheckResult struct {
	Specifier string
	First     *FileOutput
	Second    *FileOutput
	Stable    bool
	// Diff is a line diff from the first output to the second, empty when stable.
	Diff string
}

// CheckRoundTrip transpiles content, then transpiles the result again under
// its output name. Source maps are disabled for both passes since the
// sourceMappingURL comment would differ.
func CheckRoundTrip(specifier string, content []byte, opts transpile.Options) (*CheckResult, error) {
	opts.SourceMap = transpile.SourceMapNone
	first, err := TranspileSource(specifier, content, opts)
	if err != nil {
		return nil, err
	}
	res := &CheckResult{Specifier: specifier, First: first}
	if !first.OK() {
		return res, nil
	}

	again := opts
	again.SyntaxOverride = dialect.None
	second, err := TranspileSource(transpile.OutputName(specifier), []byte(first.Code), again)
	if err != nil {
		return nil, err
	}
	res.Second = second
	if !second.OK() {
		return res, nil
	}
	res.Stable = first.Code == second.Code
	if !res.Stable {
		res.Diff = LineDiff(first.Code, second.Code)
	}
	return res, nil
}

// LineDiff renders a minimal line diff with "-", "+" and " " prefixes.
func LineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
