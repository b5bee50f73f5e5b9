package token

import (
	"mesozoic/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string // сырой текст из исходника
	Leading []Trivia
	// NL is set when a line terminator separates this token from the previous one.
	NL bool
	// Escaped marks identifiers spelled with unicode escapes; they never act as keywords.
	Escaped bool
}

// IsLiteral reports whether the token is a literal value.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, BigIntLit, StringLit, NoSubstTemplate, RegExpLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Is reports whether the token is the contextual keyword word.
func (t Token) Is(word string) bool {
	return t.Kind == Ident && !t.Escaped && t.Text == word
}

// Comments returns the comment trivia attached before the token.
func (t Token) Comments() []Trivia {
	var out []Trivia
	for _, tv := range t.Leading {
		if tv.IsComment() {
			out = append(out, tv)
		}
	}
	return out
}
