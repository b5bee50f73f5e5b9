package fold

import (
	"strings"

	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

// resolvePragmas applies the @jsx, @jsxFrag, @jsxRuntime and @jsxImportSource
// comments of the file on top of the configured options.
func (f *folder) resolvePragmas(o JSXOptions) JSXOptions {
	var factory, fragment, importSource string
	var factorySpan, fragmentSpan, importSpan source.Span
	for _, c := range f.cm.All() {
		if !strings.Contains(c.Text, "@jsx") {
			continue
		}
		fields := strings.Fields(c.Text)
		for i := 0; i+1 < len(fields); i++ {
			value := strings.TrimSuffix(fields[i+1], "*/")
			if value == "" {
				continue
			}
			switch fields[i] {
			case "@jsx":
				factory, factorySpan = value, c.Span
			case "@jsxFrag":
				fragment, fragmentSpan = value, c.Span
			case "@jsxImportSource":
				importSource, importSpan = value, c.Span
			case "@jsxRuntime":
				r, err := ParseRuntime(value)
				if err != nil {
					f.warnAt(c.Span, diag.FoldPragmaIgnored, err.Error())
					continue
				}
				o.Runtime = r
			}
		}
	}

	classicOnly := func(value string, sp source.Span, pragma string, dst *string) {
		switch {
		case value == "":
		case o.Runtime != RuntimeClassic:
			f.warnAt(sp, diag.FoldPragmaIgnored, pragma+" has no effect with the automatic JSX runtime")
		case !isDottedName(value):
			f.warnAt(sp, diag.FoldPragmaIgnored, pragma+" expects a dotted name, got "+value)
		default:
			*dst = value
		}
	}
	classicOnly(factory, factorySpan, "@jsx", &o.Factory)
	classicOnly(fragment, fragmentSpan, "@jsxFrag", &o.Fragment)

	if importSource != "" {
		if o.Runtime == RuntimeClassic {
			f.warnAt(importSpan, diag.FoldPragmaIgnored, "@jsxImportSource has no effect with the classic JSX runtime")
		} else {
			o.ImportSource = importSource
		}
	}
	return o
}

func isDottedName(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !isIdentName(part) && part != "this" {
			return false
		}
	}
	return true
}
