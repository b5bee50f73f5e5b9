package source

import (
	"path/filepath"
	"slices"
	"unicode/utf8"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// buildLineIndex returns the offsets at which each line starts.
// Line terminators are \n, \r\n, lone \r, U+2028 and U+2029.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 1, len(content)/32+1)
	for i := 0; i < len(content); i++ {
		switch b := content[i]; {
		case b == '\n':
			out = append(out, uint32(i+1))
		case b == '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			out = append(out, uint32(i+1))
		case b == 0xE2 && i+2 < len(content) && content[i+1] == 0x80 && (content[i+2] == 0xA8 || content[i+2] == 0xA9):
			i += 2
			out = append(out, uint32(i+1))
		}
	}
	return out
}

// lineOf returns the 0-based line index containing off.
func lineOf(lineIdx []uint32, off uint32) int {
	// бинпоиск: наибольший lineIdx[i] <= off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if hi < 0 {
		return 0
	}
	return hi
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	line := lineOf(lineIdx, off)
	return LineCol{Line: uint32(line + 1), Col: off - lineIdx[line] + 1}
}

// utf16Len counts UTF-16 code units in b.
func utf16Len(b []byte) uint32 {
	var n uint32
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// BaseName returns the last element of a slash-separated path.
func BaseName(p string) string {
	return filepath.Base(filepath.FromSlash(p))
}

// AbsolutePath returns the normalized absolute form of p.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir, or its absolute form when p lies
// outside baseDir.
func RelativePath(p, baseDir string) (string, error) {
	abs, err := AbsolutePath(p)
	if err != nil {
		return "", err
	}
	base, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(abs))
	if err != nil {
		return abs, nil
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || len(rel) > 2 && rel[:3] == "../" {
		return abs, nil
	}
	return rel, nil
}
