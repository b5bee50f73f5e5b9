package ast

// Visitor is called for each node in pre-order. Returning false skips the
// node's children.
type Visitor func(id NodeID, n *Node) bool

// Walk visits id and its descendants. Type, TArgs, Aux and decorator slots are
// visited after Kids.
func (t *Tree) Walk(id NodeID, visit Visitor) {
	n := t.Get(id)
	if n == nil {
		return
	}
	if !visit(id, n) {
		return
	}
	for _, k := range n.Kids {
		t.Walk(k, visit)
	}
	for _, d := range n.Decos {
		t.Walk(d, visit)
	}
	if n.Type.IsValid() {
		t.Walk(n.Type, visit)
	}
	if n.TArgs.IsValid() {
		t.Walk(n.TArgs, visit)
	}
	if n.Aux.IsValid() {
		t.Walk(n.Aux, visit)
	}
}

// Count returns the number of nodes reachable from id.
func (t *Tree) Count(id NodeID) int {
	n := 0
	t.Walk(id, func(NodeID, *Node) bool {
		n++
		return true
	})
	return n
}
