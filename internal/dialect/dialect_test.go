package dialect

import "testing"

func TestFromSpecifier(t *testing.T) {
	cases := map[string]Dialect{
		"a.ts":                         TS,
		"src/App.tsx":                  TSX,
		"comp.jsx":                     JSX,
		"lib.js":                       JSX,
		"types.d.ts":                   DTS,
		"file:///home/u/app.tsx?v=1":   TSX,
		"https://esm.sh/x.d.ts#frag":   DTS,
		"C:\\work\\main.jsx":           JSX,
		"noext":                        TS,
		"main.mts":                     TS,
	}
	for spec, want := range cases {
		if got := FromSpecifier(spec); got != want {
			t.Errorf("FromSpecifier(%q) = %s, want %s", spec, got, want)
		}
	}
}

func TestResolveConflict(t *testing.T) {
	if _, err := Resolve("a.jsx", TS); err == nil {
		t.Fatal("expected conflict for .jsx forced to ts")
	}
	if d, err := Resolve("a.jsx", None); err != nil || d != JSX {
		t.Fatalf("Resolve = %s, %v", d, err)
	}
	if d, err := Resolve("a.ts", TSX); err != nil || d != TSX {
		t.Fatalf("override ignored: %s, %v", d, err)
	}
}

func TestParseNames(t *testing.T) {
	for name, want := range map[string]Dialect{"tsx": TSX, ".ts": TS, "js": JSX, "d.ts": DTS, "": None} {
		got, err := Parse(name)
		if err != nil || got != want {
			t.Errorf("Parse(%q) = %s, %v", name, got, err)
		}
	}
	if _, err := Parse("coffee"); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestSyntaxDefaults(t *testing.T) {
	if s := ForDialect(TSX); !s.JSX() || !s.TypeScript() || s.AmbientOnly {
		t.Fatalf("tsx syntax = %+v", s)
	}
	if s := ForDialect(JSX); !s.JSX() || s.TypeScript() {
		t.Fatalf("jsx syntax = %+v", s)
	}
	if s := ForDialect(DTS); !s.AmbientOnly {
		t.Fatalf("dts syntax = %+v", s)
	}
}
