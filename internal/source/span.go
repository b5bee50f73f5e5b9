package source

import (
	"fmt"
)

// Span is a half-open range of positions in a FileSet. A zero Start marks a
// synthesized node with no source location.
type Span struct {
	File  FileID
	Start uint32 // позиция включительно
	End   uint32 // позиция не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

// IsDummy reports whether the span carries no source location.
func (s Span) IsDummy() bool {
	return s.Start == NoPos
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Dummy spans are absorbed.
func (s Span) Cover(other Span) Span {
	if other.IsDummy() {
		return s
	}
	if s.IsDummy() {
		return other
	}
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether pos lies inside s.
func (s Span) Contains(pos uint32) bool {
	return pos >= s.Start && pos < s.End
}

// AtStart collapses the span to its start position.
func (s Span) AtStart() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}
