package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты транспиляции по EntryKey на диске.
// Записи - msgpack, сжатый lz4. Кэшируются только успешные вызовы:
// ошибки всегда пересчитываются, чтобы пользователь видел их целиком.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores one successful transpile output.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Specifier string
	Code      string
	Map       []byte

	// Warnings are stored by byte offsets and re-anchored on load.
	Warnings []CachedDiagnostic
}

// CachedDiagnostic is a diagnostic detached from its file set.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	HasSpan  bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it when missing.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// два уровня каталогов, чтобы не держать тысячи файлов в одном
	return filepath.Join(c.dir, "out", hexKey[:2], hexKey+".mp.lz4")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	payload.Schema = diskCacheSchemaVersion

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	zw := lz4.NewWriter(f)
	if err = msgpack.NewEncoder(zw).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = zw.Close(); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Entries written
// by another schema version are reported as misses.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(lz4.NewReader(f)).Decode(out); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			// обрезанная запись: считаем промахом
			return false, nil
		}
		return false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// outputToDiskPayload converts a successful FileOutput for caching.
func outputToDiskPayload(out *FileOutput) *DiskPayload {
	if out == nil || out.Err != nil {
		return nil
	}
	payload := &DiskPayload{
		Schema:    diskCacheSchemaVersion,
		Specifier: out.Specifier,
		Code:      out.Code,
		Map:       out.Map,
	}
	for _, d := range out.Diagnostics {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
		}
		if out.FileSet != nil && !d.Primary.IsDummy() {
			if f, ok := out.FileSet.FileOf(d.Primary.Start); ok {
				cd.Start, cd.End, cd.HasSpan = f.Offset(d.Primary.Start), f.Offset(d.Primary.End), true
			}
		}
		payload.Warnings = append(payload.Warnings, cd)
	}
	return payload
}

// diskPayloadToOutput restores a FileOutput; content is the source text the
// key was computed from, used to re-anchor warning spans.
func diskPayloadToOutput(payload *DiskPayload, content []byte) *FileOutput {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(payload.Specifier, content))
	out := &FileOutput{
		Specifier: payload.Specifier,
		Code:      payload.Code,
		Map:       payload.Map,
		FileSet:   fs,
		Cached:    true,
	}
	for _, cd := range payload.Warnings {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
		}
		if cd.HasSpan {
			d.Primary = file.Span(int(cd.Start), int(cd.End))
		}
		out.Diagnostics = append(out.Diagnostics, d)
	}
	return out
}
