package transpile

import (
	"net/url"
	"path"
	"strings"
)

var outputExt = map[string]string{
	".ts":  ".js",
	".tsx": ".js",
	".jsx": ".js",
	".mts": ".mjs",
	".cts": ".cjs",
}

// OutputName returns the file name of the JavaScript produced for specifier:
// a.tsx -> a.js, a.mts -> a.mjs. Declaration files keep their name with .js
// appended; .js, .mjs and .cjs stay as they are. Query and fragment of URL
// specifiers are dropped.
func OutputName(specifier string) string {
	p := specifier
	if u, err := url.Parse(specifier); err == nil && len(u.Scheme) > 1 {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.ReplaceAll(p, "\\", "/")
	lower := strings.ToLower(p)
	for _, dts := range []string{".d.ts", ".d.mts", ".d.cts"} {
		if strings.HasSuffix(lower, dts) {
			return p + ".js"
		}
	}
	ext := path.Ext(lower)
	if js, ok := outputExt[ext]; ok {
		return p[:len(p)-len(ext)] + js
	}
	switch ext {
	case ".js", ".mjs", ".cjs":
		return p
	}
	return p + ".js"
}
