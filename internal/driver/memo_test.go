package driver_test

import (
	"sync"
	"testing"

	"mesozoic/internal/driver"
	"mesozoic/transpile"
)

func TestMemo_HitMiss(t *testing.T) {
	m := driver.NewMemo(1)
	src := []byte("let a: number = 1;")

	first, err := m.Transpile("a.ts", src, transpile.Options{})
	if err != nil || !first.OK() {
		t.Fatalf("transpile: %v", err)
	}
	second, err := m.Transpile("a.ts", src, transpile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("expected the memoized output")
	}
	if _, err := m.Transpile("a.ts", src, transpile.Options{Minify: true}); err != nil {
		t.Fatal(err)
	}
	// лимит в одну запись: вторая не сохраняется
	if m.Len() != 1 {
		t.Fatalf("Len = %d", m.Len())
	}
	hits, misses := m.Stats()
	if hits != 1 || misses != 2 {
		t.Fatalf("hits=%d misses=%d", hits, misses)
	}
}

func TestMemo_FailuresNotStored(t *testing.T) {
	m := driver.NewMemo(0)
	for range 2 {
		out, err := m.Transpile("a.ts", []byte("let = ;"), transpile.Options{})
		if err != nil || out.OK() {
			t.Fatalf("want a diagnostic failure, got %v", err)
		}
	}
	if m.Len() != 0 {
		t.Fatal("failed output was memoized")
	}
}

func TestMemo_Concurrent(t *testing.T) {
	m := driver.NewMemo(16)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Transpile("a.tsx", []byte("const a = <b />;"), transpile.Options{}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if m.Len() != 1 {
		t.Fatalf("Len = %d", m.Len())
	}
}
