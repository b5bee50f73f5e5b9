package fold

import (
	"fmt"
	"strings"

	"mesozoic/internal/ast"
	"mesozoic/internal/lexer"
	"mesozoic/internal/parser"
	"mesozoic/internal/token"
)

// Conditional is an if-test whose consequent Fold removes. An if statement
// whose test is structurally equal to the expression (parentheses aside) is
// replaced by its else branch, or dropped when it has none.
type Conditional struct {
	Source string

	tree *ast.Tree
	expr ast.NodeID
}

// ParseConditional parses one strip condition such as
// process.env.NODE_ENV === "development".
func ParseConditional(src string) (Conditional, error) {
	tree, expr, err := parser.ParseExpr(src)
	if err != nil {
		return Conditional{}, err
	}
	return Conditional{Source: strings.TrimSpace(src), tree: tree, expr: expr}, nil
}

// stripped reports whether test matches a configured conditional.
func (f *folder) stripped(test ast.NodeID) bool {
	for _, c := range f.opts.Conditionals {
		if c.tree != nil && sameExpr(f.src, test, c.tree, c.expr) {
			return true
		}
	}
	return false
}

// sameExpr compares two expressions from different trees by shape. String
// literals compare by value, so 'a' equals "a".
func sameExpr(at *ast.Tree, a ast.NodeID, bt *ast.Tree, b ast.NodeID) bool {
	a, b = at.Unparen(a), bt.Unparen(b)
	an, bn := at.Get(a), bt.Get(b)
	if an == nil || bn == nil {
		return an == nil && bn == nil
	}
	if an.Kind != bn.Kind || an.Op != bn.Op || len(an.Kids) != len(bn.Kids) {
		return false
	}
	const shape = ast.FlagOptional | ast.FlagComputed | ast.FlagPrefix
	if an.Flags&shape != bn.Flags&shape {
		return false
	}
	if an.Kind == ast.KindLiteral && an.Op == token.StringLit {
		av, aok := lexer.Unquote(an.Text)
		bv, bok := lexer.Unquote(bn.Text)
		if !aok || !bok || av != bv {
			return false
		}
	} else if an.Text != bn.Text {
		return false
	}
	for i := range an.Kids {
		if !sameExpr(at, an.Kids[i], bt, bn.Kids[i]) {
			return false
		}
	}
	return true
}

// Define replaces every free use of the identifier Name with the JavaScript
// expression Value.
type Define struct {
	Name  string
	Value string

	// bare values (identifiers, literals, member chains) need no parentheses
	bare bool
}

// ParseDefine validates a NAME=VALUE pair.
func ParseDefine(name, value string) (Define, error) {
	name = strings.TrimSpace(name)
	if !isIdentName(name) {
		return Define{}, fmt.Errorf("define name %q is not an identifier", name)
	}
	if _, kw := token.LookupKeyword(name); kw {
		return Define{}, fmt.Errorf("define name %q is a reserved word", name)
	}
	tree, expr, err := parser.ParseExpr(value)
	if err != nil {
		return Define{}, fmt.Errorf("define %s: %w", name, err)
	}
	var bad string
	tree.Walk(expr, func(_ ast.NodeID, n *ast.Node) bool {
		switch {
		case n.Kind.IsType(), n.Kind.IsTSWrapper(), n.Type.IsValid(), n.TArgs.IsValid():
			bad = "type syntax"
		case n.Kind >= ast.KindJSXElement && n.Kind <= ast.KindJSXSpreadChild:
			bad = "JSX"
		}
		return bad == ""
	})
	if bad != "" {
		return Define{}, fmt.Errorf("define %s: value contains %s", name, bad)
	}
	d := Define{Name: name, Value: strings.TrimSpace(value)}
	switch tree.Kind(expr) {
	case ast.KindIdent, ast.KindLiteral, ast.KindMember, ast.KindIndex, ast.KindCall,
		ast.KindParen, ast.KindArray, ast.KindThis, ast.KindTemplate:
		d.bare = true
	}
	return d, nil
}

func isIdentName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// defined returns the replacement for a free identifier, if one is configured.
func (f *folder) defined(n *ast.Node) (ast.NodeID, bool) {
	d, ok := f.defines[n.Text]
	if !ok || n.Mark.IsValid() {
		return ast.NoNodeID, false
	}
	raw := f.out.NewText(ast.KindRaw, n.Span, d.Value)
	if d.bare {
		return raw, true
	}
	return f.out.New(ast.KindParen, n.Span, raw), true
}
