package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"
	"strconv"

	"mesozoic/transpile"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// combineDigest: H(content || part1 || part2 ...). Части разделяются нулевым байтом.
func combineDigest(content Digest, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = io.WriteString(h, p)
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// OptionsDigest hashes every option that can change the output of a call.
// Tracer, Timer and MaxDiagnostics do not affect the code and are skipped.
func OptionsDigest(opts transpile.Options) Digest {
	b := strconv.AppendUint(nil, uint64(diskCacheSchemaVersion), 10)
	parts := []string{
		string(b),
		opts.JSXImportSource,
		strconv.FormatBool(opts.Development),
		strconv.FormatBool(opts.Minify),
		opts.SyntaxOverride.String(),
		opts.JSXRuntime.String(),
		opts.JSXFactory,
		opts.JSXFragment,
		opts.Target.String(),
		strconv.FormatBool(opts.ASCIIOnly),
		opts.SourceMap.String(),
		strconv.FormatBool(opts.Decorators),
		strconv.FormatBool(opts.StrictEarlyErrors),
		strconv.FormatBool(opts.PreserveImports),
	}
	// порядок strip-условий значим только для сообщений, но оставим как есть
	parts = append(parts, "strip")
	parts = append(parts, opts.StripConditionals...)

	names := make([]string, 0, len(opts.Defines))
	for name := range opts.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	parts = append(parts, "define")
	for _, name := range names {
		parts = append(parts, name, opts.Defines[name])
	}
	return combineDigest(Digest{}, parts...)
}

// EntryKey identifies one cached output. The specifier takes part because it
// ends up in the code (jsxDEV fileName, source map sources).
func EntryKey(specifier string, content []byte, options Digest) Digest {
	return combineDigest(Digest(sha256.Sum256(content)), specifier, options.String())
}
