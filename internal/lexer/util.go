package lexer

import (
	"unicode"
	"unicode/utf8"
)

const utf8RuneSelf = 0x80

// ===== Работа с рунами поверх Cursor =====

// peekRune читает текущую руну
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
}

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	lx.cursor.Off += uint32(sz)
}

func (lx *Lexer) atSpace() bool {
	b := lx.cursor.Peek()
	switch b {
	case ' ', '\t', '\v', '\f':
		return true
	}
	if b < utf8RuneSelf {
		return false
	}
	r, _ := lx.peekRune()
	return r == 0xA0 || r == 0xFEFF || (r != 0x2028 && r != 0x2029 && unicode.Is(unicode.Zs, r))
}

func (lx *Lexer) atLineTerminator() bool {
	switch lx.cursor.Peek() {
	case '\n', '\r':
		return true
	case 0xE2:
		r, _ := lx.peekRune()
		return r == 0x2028 || r == 0x2029
	}
	return false
}

// ===== Классификаторы =====

func isIdentStartByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}

// IsIdentStart reports whether r may start an ECMAScript identifier.
func IsIdentStart(r rune) bool {
	if r < utf8RuneSelf {
		return isIdentStartByte(byte(r))
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

// IsIdentContinue reports whether r may continue an ECMAScript identifier.
func IsIdentContinue(r rune) bool {
	if r < utf8RuneSelf {
		return isIdentContinueByte(byte(r))
	}
	return IsIdentStart(r) || r == 0x200C || r == 0x200D ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

// IsIdentifier reports whether s is a valid identifier name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !IsIdentStart(r) || i > 0 && !IsIdentContinue(r) {
			return false
		}
	}
	return true
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// ===== Матчеры последовательностей операторов (жадность) =====

// try проверяет и "съедает" последовательность s, если совпадает.
func (lx *Lexer) try(s string) bool {
	n := uint32(len(s))
	if lx.cursor.Off+n > lx.cursor.Limit {
		return false
	}
	if string(lx.file.Content[lx.cursor.Off:lx.cursor.Off+n]) != s {
		return false
	}
	lx.cursor.Off += n
	return true
}
