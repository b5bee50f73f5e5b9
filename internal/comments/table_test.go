package comments

import (
	"testing"

	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

func trivia(kind token.TriviaKind, start uint32, text string) token.Trivia {
	return token.Trivia{
		Kind: kind,
		Span: source.Span{Start: start, End: start + uint32(len(text))},
		Text: text,
	}
}

func TestAddSkipsWhitespace(t *testing.T) {
	tb := New()
	tb.AddLeading(10, []token.Trivia{
		trivia(token.TriviaSpace, 1, "  "),
		trivia(token.TriviaLineComment, 3, "// a"),
		trivia(token.TriviaNewline, 7, "\n"),
		trivia(token.TriviaBlockComment, 8, "/*! keep */"),
	})
	cs := tb.Leading(10)
	if len(cs) != 2 {
		t.Fatalf("got %d comments", len(cs))
	}
	if cs[0].Block || cs[0].Text != "// a" {
		t.Errorf("first = %+v", cs[0])
	}
	if !cs[1].Block || !cs[1].Legal {
		t.Errorf("second = %+v", cs[1])
	}
}

func TestTakeIsOnce(t *testing.T) {
	tb := New()
	tb.AddLeading(5, []token.Trivia{trivia(token.TriviaLineComment, 1, "// x")})
	if len(tb.TakeLeading(5)) != 1 {
		t.Fatal("first take empty")
	}
	if len(tb.TakeLeading(5)) != 0 || tb.Len() != 0 {
		t.Fatal("comment taken twice")
	}
}

func TestMoveAndDrop(t *testing.T) {
	tb := New()
	tb.AddLeading(5, []token.Trivia{
		trivia(token.TriviaLineComment, 1, "// plain"),
		trivia(token.TriviaBlockComment, 2, "/* @license MIT */"),
	})
	tb.AddLeading(9, []token.Trivia{trivia(token.TriviaLineComment, 6, "// nine")})

	tb.Move(5, 9)
	if len(tb.Leading(5)) != 0 {
		t.Fatal("source anchor not cleared")
	}
	cs := tb.Leading(9)
	if len(cs) != 3 || cs[0].Text != "// plain" {
		t.Fatalf("moved = %+v", cs)
	}

	tb.Drop(9)
	cs = tb.Leading(9)
	if len(cs) != 1 || !cs[0].Legal {
		t.Fatalf("after drop = %+v", cs)
	}
}

func TestAllIsOrdered(t *testing.T) {
	tb := New()
	tb.AddDangling(40, []token.Trivia{trivia(token.TriviaLineComment, 30, "// tail")})
	tb.AddLeading(12, []token.Trivia{trivia(token.TriviaHashbang, 1, "#!/usr/bin/env node")})
	all := tb.All()
	if len(all) != 2 || !all[0].Hashbang || all[1].Text != "// tail" {
		t.Fatalf("All = %+v", all)
	}
}
