package token

import (
	"strings"

	"mesozoic/internal/source"
)

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaHashbang
)

var triviaNames = [...]string{
	TriviaSpace:        "space",
	TriviaNewline:      "newline",
	TriviaLineComment:  "line-comment",
	TriviaBlockComment: "block-comment",
	TriviaHashbang:     "hashbang",
}

func (k TriviaKind) String() string {
	if int(k) < len(triviaNames) {
		return triviaNames[k]
	}
	return "trivia(?)"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsComment reports whether the trivia is a comment or a hashbang line.
func (t Trivia) IsComment() bool {
	return t.Kind == TriviaLineComment || t.Kind == TriviaBlockComment || t.Kind == TriviaHashbang
}

// IsLegal reports whether a comment must survive minification:
// /*! ... */ or any comment mentioning @license or @preserve.
func (t Trivia) IsLegal() bool {
	if t.Kind == TriviaHashbang {
		return true
	}
	if !t.IsComment() {
		return false
	}
	return strings.HasPrefix(t.Text, "/*!") ||
		strings.Contains(t.Text, "@license") ||
		strings.Contains(t.Text, "@preserve")
}
