package token_test

import (
	"testing"

	"mesozoic/internal/token"
)

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.NumberLit, token.BigIntLit, token.StringLit,
		token.NoSubstTemplate, token.RegExpLit, token.KwTrue, token.KwNull,
	}
	for _, k := range lits {
		if !(token.Token{Kind: k}).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwVar, token.Plus, token.TemplateHead}
	for _, k := range non {
		if (token.Token{Kind: k}).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestKindStringCoversAll(t *testing.T) {
	for k := token.Invalid; k <= token.KwWith; k++ {
		if k.String() == "Kind(?)" {
			t.Fatalf("kind %d has no name", k)
		}
	}
}

func TestCompoundBase(t *testing.T) {
	cases := map[token.Kind]token.Kind{
		token.PlusAssign:             token.Plus,
		token.StarStarAssign:         token.StarStar,
		token.QuestionQuestionAssign: token.QuestionQuestion,
		token.UShrAssign:             token.UShr,
	}
	for in, want := range cases {
		got, ok := in.CompoundBase()
		if !ok || got != want {
			t.Fatalf("%v.CompoundBase() = %v, %v", in, got, ok)
		}
	}
	if _, ok := token.Assign.CompoundBase(); ok {
		t.Fatal("plain = has no base operator")
	}
}

func TestContextualIs(t *testing.T) {
	tok := token.Token{Kind: token.Ident, Text: "async"}
	if !tok.Is("async") {
		t.Fatal("expected contextual match")
	}
	tok.Escaped = true
	if tok.Is("async") {
		t.Fatal("escaped identifiers never act as keywords")
	}
}

func TestLegalComments(t *testing.T) {
	cases := []struct {
		tv   token.Trivia
		want bool
	}{
		{token.Trivia{Kind: token.TriviaBlockComment, Text: "/*! keep */"}, true},
		{token.Trivia{Kind: token.TriviaLineComment, Text: "// @license MIT"}, true},
		{token.Trivia{Kind: token.TriviaBlockComment, Text: "/* drop */"}, false},
		{token.Trivia{Kind: token.TriviaSpace, Text: "/*!"}, false},
	}
	for _, c := range cases {
		if got := c.tv.IsLegal(); got != c.want {
			t.Errorf("IsLegal(%q) = %v", c.tv.Text, got)
		}
	}
}
