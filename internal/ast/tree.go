package ast

import (
	"mesozoic/internal/dialect"
	"mesozoic/internal/hygiene"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

// Tree is one parsed (or transformed) source unit.
type Tree struct {
	Nodes   *Arena[Node]
	Root    NodeID
	File    *source.File
	Dialect dialect.Dialect
	// Tokens is filled when the parser captures tokens.
	Tokens []token.Token
}

// NewTree allocates an empty tree for file.
func NewTree(file *source.File, d dialect.Dialect, capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Tree{
		Nodes:   NewArena[Node](capHint),
		File:    file,
		Dialect: d,
	}
}

// Get returns the node for id, or nil for NoNodeID.
func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// Kind returns the kind of id, or KindInvalid for NoNodeID.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Get(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

// Add stores n and returns its id.
func (t *Tree) Add(n Node) NodeID {
	return NodeID(t.Nodes.Allocate(n))
}

// New creates a node of kind with the given span and children.
func (t *Tree) New(kind Kind, sp source.Span, kids ...NodeID) NodeID {
	return t.Add(Node{Kind: kind, Span: sp, Kids: kids})
}

// NewOp creates an operator node (unary, binary, assign, update).
func (t *Tree) NewOp(kind Kind, op token.Kind, sp source.Span, kids ...NodeID) NodeID {
	return t.Add(Node{Kind: kind, Op: op, Span: sp, Kids: kids})
}

// NewText creates a leaf carrying text (identifiers, raw literals, JSX text).
func (t *Tree) NewText(kind Kind, sp source.Span, text string) NodeID {
	return t.Add(Node{Kind: kind, Span: sp, Text: text})
}

// Ident creates an identifier.
func (t *Tree) Ident(name string, sp source.Span) NodeID {
	return t.NewText(KindIdent, sp, name)
}

// MarkedIdent creates a transform-introduced identifier carrying a hygiene mark.
func (t *Tree) MarkedIdent(name string, m hygiene.Mark) NodeID {
	return t.Add(Node{Kind: KindIdent, Text: name, Mark: m, Flags: FlagSynth})
}

// String creates a string literal from its raw, already quoted text.
func (t *Tree) String(raw string, sp source.Span) NodeID {
	return t.Add(Node{Kind: KindLiteral, Op: token.StringLit, Text: raw, Span: sp})
}

// Number creates a numeric literal.
func (t *Tree) Number(raw string, sp source.Span) NodeID {
	return t.Add(Node{Kind: KindLiteral, Op: token.NumberLit, Text: raw, Span: sp})
}

// Keyword creates true, false or null.
func (t *Tree) Keyword(k token.Kind, sp source.Span) NodeID {
	return t.Add(Node{Kind: KindLiteral, Op: k, Text: k.String(), Span: sp})
}

// Member creates obj.name.
func (t *Tree) Member(obj NodeID, name string, sp source.Span) NodeID {
	return t.New(KindMember, sp, obj, t.Ident(name, sp))
}

// Call creates callee(args...).
func (t *Tree) Call(sp source.Span, callee NodeID, args ...NodeID) NodeID {
	return t.New(KindCall, sp, append([]NodeID{callee}, args...)...)
}

// Append adds kids to an existing node.
func (t *Tree) Append(id NodeID, kids ...NodeID) {
	n := t.Get(id)
	n.Kids = append(n.Kids, kids...)
}

// Span returns the node span or a dummy span.
func (t *Tree) Span(id NodeID) source.Span {
	if n := t.Get(id); n != nil {
		return n.Span
	}
	return source.Span{}
}

// Unparen strips Paren wrappers.
func (t *Tree) Unparen(id NodeID) NodeID {
	for t.Kind(id) == KindParen {
		id = t.Get(id).Kid(0)
	}
	return id
}

// IsIdent reports whether id is an identifier spelled name.
func (t *Tree) IsIdent(id NodeID, name string) bool {
	n := t.Get(id)
	return n != nil && n.Kind == KindIdent && n.Text == name
}
