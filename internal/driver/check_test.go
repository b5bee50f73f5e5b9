package driver_test

import (
	"testing"

	"mesozoic/internal/driver"
	"mesozoic/transpile"
)

func TestCheckRoundTrip(t *testing.T) {
	src := []byte("enum E { A, B }\nconst f = (x?: number) => x ?? E.B;\nconst el = <div>{f()}</div>;\n")
	res, err := driver.CheckRoundTrip("a.tsx", src, transpile.Options{SourceMap: transpile.SourceMapInline})
	if err != nil {
		t.Fatal(err)
	}
	if !res.First.OK() || !res.Second.OK() {
		t.Fatalf("round trip failed: %v %v", res.First.Err, res.Second.Err)
	}
	if !res.Stable || res.Diff != "" {
		t.Fatalf("unstable round trip:\n%s", res.Diff)
	}
}

func TestCheckRoundTripReportsFailure(t *testing.T) {
	res, err := driver.CheckRoundTrip("a.ts", []byte("let = ;"), transpile.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.First.OK() || res.Second != nil || res.Stable {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLineDiff(t *testing.T) {
	got := driver.LineDiff("a\nb\nc\n", "a\nB\nc\n")
	want := " a\n-b\n+B\n c\n"
	if got != want {
		t.Fatalf("LineDiff =\n%s\nwant\n%s", got, want)
	}
}
