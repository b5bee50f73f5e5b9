// Package comments keeps source comments that survive transpilation.
//
// Comments are anchored to positions: a leading comment hangs off the first
// position of the statement it precedes, a dangling comment off the closing
// '}' (or EOF) it precedes. Fold moves or drops anchors, Emit takes them.
package comments

import (
	"slices"
	"strings"

	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

// Comment is one retained comment.
type Comment struct {
	Text  string
	Span  source.Span
	Block bool
	// Legal comments survive minification.
	Legal bool
	// Hashbang is the #! line at the very start of a file.
	Hashbang bool
}

// Table owns the comments of one transpile call.
type Table struct {
	leading  map[uint32][]Comment
	dangling map[uint32][]Comment
}

// New returns an empty table.
func New() *Table {
	return &Table{
		leading:  make(map[uint32][]Comment),
		dangling: make(map[uint32][]Comment),
	}
}

func fromTrivia(trivia []token.Trivia) []Comment {
	var out []Comment
	for _, tv := range trivia {
		if !tv.IsComment() {
			continue
		}
		out = append(out, Comment{
			Text:     strings.TrimRight(tv.Text, " \t"),
			Span:     tv.Span,
			Block:    tv.Kind == token.TriviaBlockComment,
			Legal:    tv.IsLegal(),
			Hashbang: tv.Kind == token.TriviaHashbang,
		})
	}
	return out
}

// AddLeading records the comments in trivia as leading comments of pos.
func (t *Table) AddLeading(pos uint32, trivia []token.Trivia) {
	if pos == source.NoPos {
		return
	}
	if cs := fromTrivia(trivia); len(cs) > 0 {
		t.leading[pos] = append(t.leading[pos], cs...)
	}
}

// AddDangling records the comments in trivia as dangling before the closer at pos.
func (t *Table) AddDangling(pos uint32, trivia []token.Trivia) {
	if pos == source.NoPos {
		return
	}
	if cs := fromTrivia(trivia); len(cs) > 0 {
		t.dangling[pos] = append(t.dangling[pos], cs...)
	}
}

// Leading returns the leading comments of pos without removing them.
func (t *Table) Leading(pos uint32) []Comment { return t.leading[pos] }

// Dangling returns the dangling comments of pos without removing them.
func (t *Table) Dangling(pos uint32) []Comment { return t.dangling[pos] }

// TakeLeading returns and removes the leading comments of pos, so a comment is
// printed at most once.
func (t *Table) TakeLeading(pos uint32) []Comment {
	cs := t.leading[pos]
	delete(t.leading, pos)
	return cs
}

// TakeDangling returns and removes the dangling comments of pos.
func (t *Table) TakeDangling(pos uint32) []Comment {
	cs := t.dangling[pos]
	delete(t.dangling, pos)
	return cs
}

// Move re-anchors the leading comments of from onto to.
func (t *Table) Move(from, to uint32) {
	if from == to {
		return
	}
	cs, ok := t.leading[from]
	if !ok {
		return
	}
	delete(t.leading, from)
	if to == source.NoPos {
		return
	}
	t.leading[to] = append(cs, t.leading[to]...)
}

// Drop removes the leading comments of pos. Legal comments and the hashbang
// are kept.
func (t *Table) Drop(pos uint32) {
	cs, ok := t.leading[pos]
	if !ok {
		return
	}
	kept := cs[:0]
	for _, c := range cs {
		if c.Legal || c.Hashbang {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(t.leading, pos)
		return
	}
	t.leading[pos] = kept
}

// Len returns the number of comments still held.
func (t *Table) Len() int {
	n := 0
	for _, cs := range t.leading {
		n += len(cs)
	}
	for _, cs := range t.dangling {
		n += len(cs)
	}
	return n
}

// All returns every held comment ordered by position.
func (t *Table) All() []Comment {
	out := make([]Comment, 0, t.Len())
	for _, cs := range t.leading {
		out = append(out, cs...)
	}
	for _, cs := range t.dangling {
		out = append(out, cs...)
	}
	slices.SortFunc(out, func(a, b Comment) int {
		return int(a.Span.Start) - int(b.Span.Start)
	})
	return out
}
