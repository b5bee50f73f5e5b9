package trace

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapTracerLogsSpans(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := NewZapTracer(zap.New(core), LevelPhase)

	sp := Begin(tr, ScopePass, "fold", 0)
	sp.WithExtra("errors", "0").End("")
	Begin(tr, ScopeNode, "ignored", 0).End("")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected begin and end, got %d entries", len(entries))
	}
	end := entries[1].ContextMap()
	if end["kind"] != "end" || end["errors"] != "0" {
		t.Fatalf("unexpected end fields: %v", end)
	}
	if _, ok := end["elapsed"]; !ok {
		t.Fatal("end event lacks elapsed")
	}
	if entries[0].LoggerName != "trace" || entries[0].Message != "fold" {
		t.Fatalf("unexpected entry %+v", entries[0].Entry)
	}
}

func TestZapTracerNilLogger(t *testing.T) {
	tr := NewZapTracer(nil, LevelDebug)
	if tr.Enabled() {
		t.Fatal("nil logger must disable tracing")
	}
	Begin(tr, ScopeDriver, "x", 0).End("")
}
