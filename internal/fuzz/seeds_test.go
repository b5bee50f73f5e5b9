package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var inlineSeeds = []string{
	"",
	"const x: number = 1;\n",
	"enum E { A, B = \"b\" }\nnamespace N { export const v = E.A; }\n",
	"abstract class C<T> implements I { private x?: T; constructor(public y: number) { super(); } }\n",
	"const a = <div className=\"x\">{list.map((i) => <b key={i}>{i}</b>)}</div>;\n",
	"const f = <></>;\n",
	"a?.b ?? c; x **= 2; y ||= z;\n",
	"let { a, ...rest } = obj; const o = { ...rest, b };\n",
	"`a${b}c${`d${e}`}`;\n",
	"/re[/]gex/g.test(s) / 2;\n",
	"@dec class D { @prop() m() {} }\n",
	"import type { T } from \"t\";\nexport type { U } from \"u\";\nimport x, { y as z } from \"m\";\n",
	"if (__DEV__) { check(); }\n",
	"function f(this: Window, a?: string, ...b: number[]): asserts a is string {}\n",
	"const a = <div>hello",
	"let x = (y as any)!<string>;\n",
}

// addSeeds adds the inline seeds and every source file under testdata.
func addSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".ts", ".tsx", ".jsx", ".js":
		default:
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, n int) []byte {
	if len(src) > n {
		src = src[:n]
	}
	return append([]byte(nil), src...)
}
