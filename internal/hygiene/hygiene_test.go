package hygiene

import (
	"sync"
	"testing"
)

func TestFreshIsMonotonic(t *testing.T) {
	c := NewContext()
	a := c.Fresh("_jsx")
	b := c.Fresh("_a")
	if !a.IsValid() || b <= a {
		t.Fatalf("marks not monotonic: %v %v", a, b)
	}
	if c.Name(b) != "_a" || c.Issued() != 2 {
		t.Fatalf("bookkeeping broken: %q %d", c.Name(b), c.Issued())
	}
}

func TestResolveAvoidsUserNames(t *testing.T) {
	c := NewContext()
	jsx := c.Fresh("_jsx")
	a1 := c.Fresh("_a")
	a2 := c.Fresh("_a")
	names := c.Resolve(map[string]bool{"_jsx": true, "_jsx1": true})
	if names[jsx] != "_jsx2" {
		t.Errorf("_jsx resolved to %q", names[jsx])
	}
	if names[a1] != "_a" || names[a2] != "_a1" {
		t.Errorf("temps resolved to %q, %q", names[a1], names[a2])
	}
}

// Контексты разных вызовов независимы даже при параллельной работе.
func TestContextsAreIndependent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]Mark, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := NewContext()
			for j := 0; j < 100; j++ {
				c.Fresh("_t")
			}
			results[i] = c.Fresh("_jsx")
		}(i)
	}
	wg.Wait()
	for i, m := range results {
		if m != 101 {
			t.Fatalf("context %d issued %v, want #101", i, m)
		}
	}
}
