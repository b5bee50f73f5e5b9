package parser

import (
	"errors"
	"fmt"

	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/dialect"
	"mesozoic/internal/source"
)

// ErrNotExpression is returned by ParseExpr for input that parses but is not
// a single expression.
var ErrNotExpression = errors.New("not a single expression")

// ParseExpr parses src as one standalone TypeScript expression, the form used
// by command line defines and strip conditions. The returned tree owns its
// own file set.
func ParseExpr(src string) (*ast.Tree, ast.NodeID, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("expr.ts", []byte(src)))
	buf := &diag.BufferReporter{}
	res := ParseFile(file, Options{
		Syntax:    dialect.ForDialect(dialect.TS),
		Reporter:  buf,
		MaxErrors: 1,
	})
	if !res.OK() {
		bag := diag.NewBag(1)
		buf.Flush(diag.BagReporter{Bag: bag})
		if items := bag.Items(); len(items) > 0 {
			return nil, ast.NoNodeID, fmt.Errorf("%q: %s", src, items[0].Message)
		}
		return nil, ast.NoNodeID, fmt.Errorf("%q: %w", src, ErrNotExpression)
	}
	tree := res.Tree
	prog := tree.Get(tree.Root)
	if len(prog.Kids) != 1 || tree.Kind(prog.Kids[0]) != ast.KindExprStmt {
		return nil, ast.NoNodeID, fmt.Errorf("%q: %w", src, ErrNotExpression)
	}
	return tree, tree.Get(prog.Kids[0]).Kid(0), nil
}
