package diagfmt

import (
	"encoding/json"
	"io"

	"mesozoic/internal/ast"
)

// FormatTreePretty writes the indented dump of the whole tree.
func FormatTreePretty(w io.Writer, tree *ast.Tree) error {
	if tree == nil {
		return nil
	}
	return tree.Dump(w, tree.Root)
}

// NodeJSON is one node of the JSON tree dump. Named slots mirror ast.Node.
type NodeJSON struct {
	Kind   string      `json:"kind,omitempty"`
	Op     string      `json:"op,omitempty"`
	Text   string      `json:"text,omitempty"`
	Flags  []string    `json:"flags,omitempty"`
	Line   uint32      `json:"line,omitempty"`
	Col    uint32      `json:"col,omitempty"`
	Decos  []*NodeJSON `json:"decorators,omitempty"`
	TArgs  *NodeJSON   `json:"type_params,omitempty"`
	Kids   []*NodeJSON `json:"kids,omitempty"`
	Type   *NodeJSON   `json:"type,omitempty"`
	Aux    *NodeJSON   `json:"aux,omitempty"`
	Absent bool        `json:"absent,omitempty"`
}

// FormatTreeJSON writes the tree as nested JSON objects. Empty child slots are
// kept as {"absent": true} so positions in kids stay meaningful.
func FormatTreeJSON(w io.Writer, tree *ast.Tree) error {
	var root *NodeJSON
	if tree != nil {
		root = nodeJSON(tree, tree.Root)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

func nodeJSON(tree *ast.Tree, id ast.NodeID) *NodeJSON {
	if !id.IsValid() {
		return nil
	}
	n := tree.Get(id)
	if n == nil {
		return nil
	}
	out := &NodeJSON{
		Kind:  n.Kind.String(),
		Text:  n.Text,
		Flags: n.Flags.Names(),
	}
	if n.Op != 0 && n.Kind != ast.KindLiteral {
		out.Op = n.Op.String()
	}
	if !n.Span.IsDummy() && tree.File != nil {
		lc := tree.File.LineCol(n.Span.Start)
		out.Line, out.Col = lc.Line, lc.Col
	}
	for _, d := range n.Decos {
		if dj := nodeJSON(tree, d); dj != nil {
			out.Decos = append(out.Decos, dj)
		}
	}
	out.TArgs = nodeJSON(tree, n.TArgs)
	for _, k := range n.Kids {
		kj := nodeJSON(tree, k)
		if kj == nil {
			kj = &NodeJSON{Absent: true}
		}
		out.Kids = append(out.Kids, kj)
	}
	out.Type = nodeJSON(tree, n.Type)
	out.Aux = nodeJSON(tree, n.Aux)
	return out
}
