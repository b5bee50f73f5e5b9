package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes events to an io.Writer as they arrive. Writes are
// buffered; Flush and Close push them out.
type StreamTracer struct {
	mu     sync.Mutex
	dst    io.Writer
	w      *bufio.Writer
	level  Level
	format Format
	count  int
	closed bool
}

// NewStreamTracer creates a StreamTracer. FormatAuto falls back to text.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	st := &StreamTracer{dst: w, w: bufio.NewWriter(w), level: level, format: format}
	if format == FormatChrome {
		// ошибки записи трассы не должны ронять сборку
		_, _ = st.w.WriteString("{\"traceEvents\":[\n")
	}
	return st
}

// Emit writes an event to the output. Write errors are dropped.
func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || (!t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat) {
		return
	}
	data := FormatEvent(ev, t.format)
	if data == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.format == FormatChrome && t.count > 0 {
		_, _ = t.w.WriteString(",\n")
	}
	t.count++
	_, _ = t.w.Write(data)
	// сердцебиение пишем сразу, иначе зависание не видно
	if ev.Kind == KindHeartbeat {
		_ = t.w.Flush()
	}
}

// Flush pushes buffered events to the writer.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

func (t *StreamTracer) flushLocked() error {
	if err := t.w.Flush(); err != nil {
		return err
	}
	if flusher, ok := t.dst.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close terminates the Chrome array, flushes, and closes the writer when it
// is an io.Closer other than stdout or stderr.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.format == FormatChrome {
		_, _ = t.w.WriteString("\n]}\n")
	}
	if err := t.flushLocked(); err != nil {
		return err
	}
	if closer, ok := t.dst.(io.Closer); ok && !isStdStream(t.dst) {
		return closer.Close()
	}
	return nil
}

// Level returns the current tracing level.
func (t *StreamTracer) Level() Level { return t.level }

// Enabled returns true if tracing is active.
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
