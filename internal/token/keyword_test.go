package token

import (
	"testing"
)

func TestLookupKeyword(t *testing.T) {
	cases := map[string]Kind{
		"function": KwFunction,
		"return":   KwReturn,
		"enum":     KwEnum,
		"typeof":   KwTypeof,
		"true":     KwTrue,
	}
	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v, %v; want %v", lexeme, got, ok, want)
		}
	}
	for _, s := range []string{"let", "async", "type", "interface", "as", "Function"} {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) must be an identifier", s)
		}
	}
}
