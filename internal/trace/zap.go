package trace

import (
	"strconv"
	"time"

	"github.com/puzpuzpuz/xsync/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapTracer writes events to a zap logger at debug level. Span ends are
// logged with the time elapsed since the matching begin.
type ZapTracer struct {
	log    *zap.Logger
	level  Level
	begins *xsync.MapOf[string, time.Time]
}

// NewZapTracer wraps log. A nil logger disables tracing.
func NewZapTracer(log *zap.Logger, level Level) *ZapTracer {
	if log == nil {
		log = zap.NewNop()
		level = LevelOff
	}
	return &ZapTracer{log: log.Named("trace"), level: level, begins: xsync.NewMapOf[time.Time]()}
}

// Emit logs the event if its scope passes the level filter.
func (t *ZapTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	key := strconv.FormatUint(ev.SpanID, 10)
	var elapsed time.Duration
	switch ev.Kind {
	case KindSpanBegin:
		t.begins.Store(key, ev.Time)
	case KindSpanEnd:
		if began, ok := t.begins.LoadAndDelete(key); ok {
			elapsed = ev.Time.Sub(began)
		}
	}
	ce := t.log.Check(zapcore.DebugLevel, ev.Name)
	if ce == nil {
		return
	}
	fields := make([]zap.Field, 0, 7+len(ev.Extra))
	fields = append(fields,
		zap.Stringer("kind", ev.Kind),
		zap.Stringer("scope", ev.Scope),
		zap.Uint64("span", ev.SpanID),
	)
	if ev.Kind == KindSpanEnd {
		fields = append(fields, zap.Duration("elapsed", elapsed))
	}
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent", ev.ParentID))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	for k, v := range ev.Extra {
		fields = append(fields, zap.String(k, v))
	}
	ce.Write(fields...)
}

// Flush syncs the logger.
func (t *ZapTracer) Flush() error {
	_ = t.log.Sync() // stderr отдаёт EINVAL на Sync, это не ошибка трассировки
	return nil
}

// Close flushes the logger; the logger itself stays owned by the caller.
func (t *ZapTracer) Close() error { return t.Flush() }

// Level returns the configured level.
func (t *ZapTracer) Level() Level { return t.level }

// Enabled reports whether any event can pass.
func (t *ZapTracer) Enabled() bool { return t.level > LevelOff }
