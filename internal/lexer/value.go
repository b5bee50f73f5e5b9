package lexer

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Quote renders s as a JavaScript string literal delimited by quote (' or ").
// Non-ASCII characters are written as is, except the line terminators
// U+2028 and U+2029.
func Quote(s string, quote byte) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(quote)
	for _, r := range s {
		switch r {
		case rune(quote), '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case 0x2028, 0x2029:
			b.WriteString(`\u`)
			b.WriteString(strconv.FormatInt(int64(r), 16))
		default:
			if r < 0x20 || r == 0x7F {
				b.WriteString(`\x`)
				if r < 0x10 {
					b.WriteByte('0')
				}
				b.WriteString(strings.ToUpper(strconv.FormatInt(int64(r), 16)))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// FormatNumber renders v the way a JavaScript engine prints a number value.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if a := math.Abs(v); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	// Go пишет 1e+06, JavaScript 1e+6
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if sign == "+" {
		return mant + "e+" + exp
	}
	return mant + "e-" + exp
}

// Unquote decodes the raw text of a string literal, including its quotes.
// Lone surrogates decode to U+FFFD.
func Unquote(raw string) (string, bool) {
	if len(raw) < 2 || raw[0] != raw[len(raw)-1] || (raw[0] != '"' && raw[0] != '\'') {
		return "", false
	}
	return Cook(raw[1 : len(raw)-1])
}

// Cook decodes escape sequences in a string or template body.
func Cook(body string) (string, bool) {
	if !strings.Contains(body, "\\") {
		return body, true
	}
	var b strings.Builder
	var pending rune = -1 // незакрытая high surrogate
	flush := func() {
		if pending >= 0 {
			b.WriteRune(utf8.RuneError)
			pending = -1
		}
	}
	writeUnit := func(r rune) {
		switch {
		case utf16.IsSurrogate(r) && r < 0xDC00:
			flush()
			pending = r
		case utf16.IsSurrogate(r):
			if pending >= 0 {
				b.WriteRune(utf16.DecodeRune(pending, r))
				pending = -1
			} else {
				b.WriteRune(utf8.RuneError)
			}
		default:
			flush()
			b.WriteRune(r)
		}
	}
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			flush()
			r, size := utf8.DecodeRuneInString(body[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		c = body[i]
		i++
		switch c {
		case 'n':
			writeUnit('\n')
		case 't':
			writeUnit('\t')
		case 'r':
			writeUnit('\r')
		case 'b':
			writeUnit('\b')
		case 'f':
			writeUnit('\f')
		case 'v':
			writeUnit('\v')
		case '0':
			if i < len(body) && isDec(body[i]) {
				j := i
				for j < len(body) && j-i < 2 && body[j] >= '0' && body[j] <= '7' {
					j++
				}
				v, _ := strconv.ParseUint(body[i-1:j], 8, 32)
				writeUnit(rune(v))
				i = j
			} else {
				writeUnit(0)
			}
		case '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(body) && j-i < 2 && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(body[i-1:j], 8, 32)
			if v > 0xFF {
				j--
				v, _ = strconv.ParseUint(body[i-1:j], 8, 32)
			}
			writeUnit(rune(v))
			i = j
		case 'x':
			if i+2 > len(body) {
				return "", false
			}
			v, err := strconv.ParseUint(body[i:i+2], 16, 32)
			if err != nil {
				return "", false
			}
			writeUnit(rune(v))
			i += 2
		case 'u':
			var hex string
			if i < len(body) && body[i] == '{' {
				end := strings.IndexByte(body[i:], '}')
				if end < 0 {
					return "", false
				}
				hex = body[i+1 : i+end]
				i += end + 1
			} else {
				if i+4 > len(body) {
					return "", false
				}
				hex = body[i : i+4]
				i += 4
			}
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || v > 0x10FFFF {
				return "", false
			}
			writeUnit(rune(v))
		case '\r':
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\n':
		default:
			// LS/PS после '\' - продолжение строки; прочее - сам символ
			i--
			r, size := utf8.DecodeRuneInString(body[i:])
			i += size
			if r != 0x2028 && r != 0x2029 {
				writeUnit(r)
			}
		}
	}
	flush()
	return b.String(), true
}

// NumberValue evaluates a numeric literal's raw text.
func NumberValue(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, "_", "")
	if len(s) > 1 && s[0] == '0' {
		base := 0
		switch s[1] | 0x20 {
		case 'x':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(s[2:], base)
			if !ok {
				return 0, false
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f, true
		}
		if isLegacyOctal(s) {
			n, err := strconv.ParseUint(s[1:], 8, 64)
			return float64(n), err == nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isLegacyOctal(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}
