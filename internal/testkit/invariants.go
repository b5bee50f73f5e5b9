// Package testkit holds structural checks shared by pipeline tests and fuzz
// harnesses.
package testkit

import (
	"fmt"

	"mesozoic/internal/ast"
	"mesozoic/internal/source"
)

// CheckSpanInvariants walks the tree from its root and checks that
//  1. every real span lies inside the tree's file,
//  2. no span ends before it starts,
//  3. the root span covers every statement directly under it.
//
// Synthesized nodes (dummy spans) are skipped.
func CheckSpanInvariants(tree *ast.Tree) error {
	if tree == nil || tree.File == nil {
		return fmt.Errorf("nil tree or file")
	}
	root := tree.Get(tree.Root)
	if root == nil {
		return fmt.Errorf("root node not found")
	}
	f := tree.File
	lo, hi := f.Base, f.End()

	var bad error
	tree.Walk(tree.Root, func(id ast.NodeID, n *ast.Node) bool {
		if bad != nil {
			return false
		}
		sp := n.Span
		if sp.IsDummy() {
			return true
		}
		switch {
		case sp.End < sp.Start:
			bad = fmt.Errorf("node %d (%s): span %v ends before it starts", id, n.Kind, sp)
		case sp.Start < lo || sp.End > hi:
			bad = fmt.Errorf("node %d (%s): span %v outside file [%d,%d]", id, n.Kind, sp, lo, hi)
		case sp.File != f.ID:
			bad = fmt.Errorf("node %d (%s): span file %d, want %d", id, n.Kind, sp.File, f.ID)
		}
		return bad == nil
	})
	if bad != nil {
		return bad
	}

	if root.Span.IsDummy() {
		return nil
	}
	var union source.Span
	for _, kid := range root.Kids {
		union = union.Cover(tree.Span(kid))
	}
	if !union.IsDummy() && (union.Start < root.Span.Start || union.End > root.Span.End) {
		return fmt.Errorf("root span %v does not cover statements %v", root.Span, union)
	}
	return nil
}

// CheckNoTypeNodes reports the first type-level node reachable from the root
// of a folded tree.
func CheckNoTypeNodes(tree *ast.Tree) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	var leaked error
	tree.Walk(tree.Root, func(id ast.NodeID, n *ast.Node) bool {
		if leaked == nil && (n.Kind.IsType() || n.Kind.IsTSWrapper()) {
			leaked = fmt.Errorf("node %d: type-level %s survived", id, n.Kind)
		}
		return leaked == nil
	})
	return leaked
}
