package ast

import (
	"mesozoic/internal/hygiene"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

// NodeID addresses a node in a Tree's arena (1-based).
type NodeID uint32

// NoNodeID marks an absent optional slot.
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Flags carries modifiers and syntactic variants.
type Flags uint64

const (
	FlagAsync Flags = 1 << iota
	FlagGenerator
	FlagAwait
	FlagStatic
	FlagComputed
	FlagShorthand
	FlagOptional // ?. в выражениях, ? у параметров и свойств
	FlagPrefix
	FlagDelegate
	FlagExprBody
	FlagHasArgs
	FlagTypeOnly
	FlagDeclare
	FlagConst
	FlagGlobal
	FlagAbstract
	FlagReadonly
	FlagPublic
	FlagPrivate
	FlagProtected
	FlagOverride
	FlagDefinite // x!: T
	FlagRest
	FlagAccessor
	FlagAsserts
	FlagThisParam
	FlagDefault  // export default function / class
	FlagSynth    // created by a transform
	FlagNewline  // a line break preceded the node (ASI-relevant for printing)
	FlagInParens // expression was parenthesised in source
	FlagStrict   // "use strict" directive prologue
)

// AccessFlags are the TypeScript-only member modifiers.
const AccessFlags = FlagPublic | FlagPrivate | FlagProtected | FlagReadonly | FlagOverride

func (f Flags) Has(x Flags) bool { return f&x != 0 }

// Node is the single node shape used for every kind.
type Node struct {
	Kind  Kind
	Flags Flags
	Op    token.Kind
	Span  source.Span
	Text  string
	Mark  hygiene.Mark
	Kids  []NodeID
	// Type holds the type annotation, return type or asserted type.
	Type NodeID
	// TArgs holds type parameters on declarations and type arguments on uses.
	TArgs NodeID
	// Aux holds implements clauses and other secondary lists.
	Aux NodeID
	// Decos holds decorators.
	Decos []NodeID
}

// Kid returns the i-th child or NoNodeID.
func (n *Node) Kid(i int) NodeID {
	if n == nil || i < 0 || i >= len(n.Kids) {
		return NoNodeID
	}
	return n.Kids[i]
}
