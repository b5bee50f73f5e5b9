package driver

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v2"

	"mesozoic/transpile"
)

// Memo is a per-process cache of successful outputs keyed by EntryKey. It is
// bounded by entry count: once full, new outputs are computed but not kept.
type Memo struct {
	entries *xsync.MapOf[string, *FileOutput]
	size    atomic.Int64
	max     int64
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewMemo creates a Memo holding at most max entries; max <= 0 means 1024.
func NewMemo(max int) *Memo {
	if max <= 0 {
		max = 1024
	}
	return &Memo{entries: xsync.NewMapOf[*FileOutput](), max: int64(max)}
}

// Transpile returns the memoized output for (specifier, content, opts) or
// computes it. Failed calls are never stored.
func (m *Memo) Transpile(specifier string, content []byte, opts transpile.Options) (*FileOutput, error) {
	if m == nil {
		return TranspileSource(specifier, content, opts)
	}
	key := EntryKey(specifier, content, OptionsDigest(opts)).String()
	if out, ok := m.entries.Load(key); ok {
		m.hits.Add(1)
		return out, nil
	}
	m.misses.Add(1)
	out, err := TranspileSource(specifier, content, opts)
	if err != nil || !out.OK() {
		return out, err
	}
	if m.size.Load() < m.max {
		if _, loaded := m.entries.LoadOrStore(key, out); !loaded {
			m.size.Add(1)
		}
	}
	return out, nil
}

// Stats returns hit and miss counters.
func (m *Memo) Stats() (hits, misses int64) {
	if m == nil {
		return 0, 0
	}
	return m.hits.Load(), m.misses.Load()
}

// Len returns the number of stored outputs.
func (m *Memo) Len() int {
	if m == nil {
		return 0
	}
	return m.entries.Size()
}
