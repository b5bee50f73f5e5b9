package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"mesozoic/internal/dialect"
	"mesozoic/internal/fold"
	"mesozoic/transpile"
)

// applyQuery overrides base with the options named in q. Unknown keys are
// rejected so typos do not silently produce different output.
func applyQuery(base transpile.Options, q url.Values) (transpile.Options, error) {
	opts := base
	// карты и срезы не должны делиться между запросами
	opts.Defines = nil
	if len(base.Defines) > 0 {
		opts.Defines = make(map[string]string, len(base.Defines))
		for k, v := range base.Defines {
			opts.Defines[k] = v
		}
	}
	opts.StripConditionals = append([]string(nil), base.StripConditionals...)

	for key, values := range q {
		last := values[len(values)-1]
		var err error
		switch key {
		case "specifier", "format":
			// handled by the caller
		case "syntax":
			opts.SyntaxOverride, err = dialect.Parse(last)
		case "target":
			opts.Target, err = fold.ParseTarget(last)
		case "jsx_runtime":
			opts.JSXRuntime, err = fold.ParseRuntime(last)
		case "jsx_import_source":
			opts.JSXImportSource = last
		case "jsx_factory":
			opts.JSXFactory = last
		case "jsx_fragment":
			opts.JSXFragment = last
		case "source_map":
			opts.SourceMap, err = transpile.ParseSourceMapMode(last)
		case "development":
			opts.Development, err = parseBool(last)
		case "minify":
			opts.Minify, err = parseBool(last)
		case "ascii_only":
			opts.ASCIIOnly, err = parseBool(last)
		case "preserve_imports":
			opts.PreserveImports, err = parseBool(last)
		case "decorators":
			opts.Decorators, err = parseBool(last)
		case "strict":
			opts.StrictEarlyErrors, err = parseBool(last)
		case "define":
			for _, v := range values {
				name, expr, ok := strings.Cut(v, "=")
				if !ok || strings.TrimSpace(name) == "" {
					return opts, fmt.Errorf("define %q: expected NAME=EXPR", v)
				}
				if opts.Defines == nil {
					opts.Defines = make(map[string]string)
				}
				opts.Defines[strings.TrimSpace(name)] = expr
			}
		case "strip":
			opts.StripConditionals = append(opts.StripConditionals, values...)
		default:
			return opts, fmt.Errorf("unknown parameter %q", key)
		}
		if err != nil {
			return opts, fmt.Errorf("%s: %w", key, err)
		}
	}
	return opts, nil
}

// parseBool treats an empty value (?minify) as true.
func parseBool(s string) (bool, error) {
	if s == "" {
		return true, nil
	}
	return strconv.ParseBool(s)
}
