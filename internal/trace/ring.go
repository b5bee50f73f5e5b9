package trace

import (
	"io"
	"sync"
)

const defaultRingSize = 4096

// RingTracer keeps the last N events in memory. The CLI dumps it when a
// command fails, so a quiet run costs no I/O.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	head   int  // next write position
	full   bool // has wrapped around
	level  Level
}

// NewRingTracer creates a RingTracer holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

// Emit stores a copy of the event, overwriting the oldest one when full.
func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || (!t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.head] = *ev
	t.head++
	if t.head == len(t.events) {
		t.head = 0
		t.full = true
	}
}

// Len reports how many events are held.
func (t *RingTracer) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.full {
		return len(t.events)
	}
	return t.head
}

// Snapshot returns a copy of the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.full {
		result := make([]Event, t.head)
		copy(result, t.events[:t.head])
		return result
	}
	result := make([]Event, 0, len(t.events))
	result = append(result, t.events[t.head:]...)
	return append(result, t.events[:t.head]...)
}

// Dump writes the held events to w. FormatChrome produces a complete trace
// file; FormatAuto is treated as text.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	st := NewStreamTracer(nopCloser{w}, LevelDebug, format)
	events := t.Snapshot()
	for i := range events {
		st.Emit(&events[i])
	}
	return st.Close()
}

// Flush is a no-op; everything is in memory.
func (t *RingTracer) Flush() error { return nil }

// Close is a no-op.
func (t *RingTracer) Close() error { return nil }

// Level returns the current tracing level.
func (t *RingTracer) Level() Level { return t.level }

// Enabled returns true if tracing is active.
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// nopCloser hides Close from StreamTracer so Dump leaves w open.
type nopCloser struct{ io.Writer }
