package driver

import (
	"errors"
	"fmt"
	"os"

	"mesozoic/internal/diag"
	"mesozoic/internal/source"
	"mesozoic/transpile"
)

// FileOutput - результат транспиляции одного файла.
type FileOutput struct {
	// Specifier is the name the file was transpiled under.
	Specifier string
	Code      string
	Map       []byte
	// Diagnostics holds warnings on success and everything on failure.
	Diagnostics []diag.Diagnostic
	// FileSet resolves the spans of Diagnostics.
	FileSet *source.FileSet
	// Err is set when the call produced no output.
	Err    *transpile.Error
	Cached bool
	// InputBytes is the size of the decoded source.
	InputBytes int
}

// OK reports whether the file produced output.
func (o *FileOutput) OK() bool { return o != nil && o.Err == nil }

// ReadSource reads a file and normalizes it the way source.FileSet.Load does:
// UTF-16 and BOM are decoded, CRLF becomes LF.
func ReadSource(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, _, err := source.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return content, nil
}

// TranspileSource runs one call and folds its outcome into a FileOutput. Only
// unexpected failures are returned as errors; diagnostics are not.
func TranspileSource(specifier string, content []byte, opts transpile.Options) (*FileOutput, error) {
	out := &FileOutput{Specifier: specifier, InputBytes: len(content)}
	res, err := transpile.Transpile(specifier, string(content), opts)
	if err != nil {
		var terr *transpile.Error
		if !errors.As(err, &terr) {
			return nil, err
		}
		out.Err = terr
		out.Diagnostics = terr.Diagnostics
		out.FileSet = terr.FileSet
		return out, nil
	}
	out.Code = res.Code
	out.Map = res.Map
	out.Diagnostics = res.Diagnostics
	out.FileSet = res.FileSet
	return out, nil
}

// TranspileFile reads path and transpiles it under specifier (path when empty),
// consulting cache first when it is not nil.
func TranspileFile(path, specifier string, opts transpile.Options, cache *DiskCache) (*FileOutput, error) {
	if specifier == "" {
		specifier = path
	}
	content, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return transpileCached(specifier, content, opts, OptionsDigest(opts), cache)
}

func transpileCached(specifier string, content []byte, opts transpile.Options, optsKey Digest, cache *DiskCache) (*FileOutput, error) {
	key := EntryKey(specifier, content, optsKey)
	if cache != nil {
		var payload DiskPayload
		hit, err := cache.Get(key, &payload)
		if err != nil {
			return nil, err
		}
		if hit {
			out := diskPayloadToOutput(&payload, content)
			out.InputBytes = len(content)
			return out, nil
		}
	}
	out, err := TranspileSource(specifier, content, opts)
	if err != nil {
		return nil, err
	}
	if cache != nil && out.OK() {
		if err := cache.Put(key, outputToDiskPayload(out)); err != nil {
			return nil, fmt.Errorf("cache %s: %w", specifier, err)
		}
	}
	return out, nil
}
