package emit

import (
	"mesozoic/internal/ast"
	"mesozoic/internal/token"
)

// prec is an operator precedence level, lowest first.
type prec uint8

const (
	precLowest prec = iota
	precComma
	precSpread
	precYield
	precAssign
	precConditional
	precNullish
	precLogicalOr
	precLogicalAnd
	precBitwiseOr
	precBitwiseXor
	precBitwiseAnd
	precEquals
	precCompare
	precShift
	precAdd
	precMultiply
	precExponent
	precPrefix
	precPostfix
	precNew
	precCall
	precMember
)

var binaryPrec = map[token.Kind]prec{
	token.QuestionQuestion: precNullish,
	token.OrOr:             precLogicalOr,
	token.AndAnd:           precLogicalAnd,
	token.Pipe:             precBitwiseOr,
	token.Caret:            precBitwiseXor,
	token.Amp:              precBitwiseAnd,
	token.EqEq:             precEquals,
	token.BangEq:           precEquals,
	token.EqEqEq:           precEquals,
	token.BangEqEq:         precEquals,
	token.Lt:               precCompare,
	token.Gt:               precCompare,
	token.LtEq:             precCompare,
	token.GtEq:             precCompare,
	token.KwInstanceof:     precCompare,
	token.KwIn:             precCompare,
	token.Shl:              precShift,
	token.Shr:              precShift,
	token.UShr:             precShift,
	token.Plus:             precAdd,
	token.Minus:            precAdd,
	token.Star:             precMultiply,
	token.Slash:            precMultiply,
	token.Percent:          precMultiply,
	token.StarStar:         precExponent,
}

// exprFlags carry context that changes how an expression must be printed.
type exprFlags uint8

const (
	// forbidIn: inside a for-init, where a bare 'in' would start for-in.
	forbidIn exprFlags = 1 << iota
	// forbidCall: inside a new callee, where a call would take the arguments.
	forbidCall
)

func (p *printer) tok(s string) { p.w.Token(s) }

// op writes a binary or assignment operator, spaced in pretty mode.
func (p *printer) op(s string) {
	p.w.Space()
	p.tok(s)
	p.w.Space()
}

// comma writes ", " (or "," when minified).
func (p *printer) comma() {
	p.tok(",")
	p.w.Space()
}

func (p *printer) expr(id ast.NodeID, level prec, flags exprFlags) {
	n := p.tree.Get(id)
	if n == nil {
		return
	}
	p.lastSpan = n.Span
	p.w.Map(n.Span)

	switch n.Kind {
	case ast.KindIdent:
		p.tok(p.text(n.Text, escapeIdent))
	case ast.KindPrivateName:
		p.tok(p.text(n.Text, escapeIdent))
	case ast.KindThis:
		p.tok("this")
	case ast.KindSuper:
		p.tok("super")
	case ast.KindMetaProp:
		p.tok(n.Text)
	case ast.KindRaw:
		p.tok(n.Text)
	case ast.KindLiteral:
		p.literal(n)
	case ast.KindTemplate:
		p.template(n)
	case ast.KindTaggedTemplate:
		wrap := level >= precPostfix && flags&forbidCall != 0
		p.open(wrap)
		p.expr(n.Kid(0), precPostfix, flags&forbidCall)
		p.template(p.tree.Get(n.Kid(1)))
		p.close(wrap)
	case ast.KindParen:
		p.tok("(")
		p.expr(n.Kid(0), precLowest, 0)
		p.tok(")")
	case ast.KindArray, ast.KindArrayPattern:
		p.array(n)
	case ast.KindObject, ast.KindObjectPattern:
		p.object(n)
	case ast.KindHole:
	case ast.KindSpread, ast.KindRestElement:
		p.tok("...")
		p.expr(n.Kid(0), precComma, 0)
	case ast.KindAssignPattern:
		wrap := level >= precAssign
		p.open(wrap)
		p.expr(n.Kid(0), precAssign, 0)
		p.op("=")
		p.expr(n.Kid(1), precComma, flags&forbidIn)
		p.close(wrap)
	case ast.KindFuncExpr:
		p.function(n)
	case ast.KindClassExpr:
		p.class(n)
	case ast.KindArrow:
		wrap := level >= precAssign
		p.open(wrap)
		p.arrow(n, flags)
		p.close(wrap)
	case ast.KindUnary:
		p.unary(n, level)
	case ast.KindUpdate:
		p.update(n, level)
	case ast.KindAwait:
		wrap := level >= precPrefix
		p.open(wrap)
		p.tok("await")
		p.w.Space()
		p.expr(n.Kid(0), precPrefix-1, 0)
		p.close(wrap)
	case ast.KindYield:
		wrap := level >= precAssign
		p.open(wrap)
		p.tok("yield")
		if n.Flags.Has(ast.FlagDelegate) {
			p.tok("*")
		}
		if n.Kid(0).IsValid() {
			p.w.Space()
			p.expr(n.Kid(0), precYield, flags&forbidIn)
		}
		p.close(wrap)
	case ast.KindBinary:
		p.binary(n, level, flags)
	case ast.KindAssign:
		wrap := level >= precAssign
		p.open(wrap)
		p.expr(n.Kid(0), precAssign, flags&forbidIn)
		p.op(n.Op.String())
		p.expr(n.Kid(1), precAssign-1, flags&forbidIn)
		p.close(wrap)
	case ast.KindConditional:
		wrap := level >= precConditional
		if wrap {
			flags &^= forbidIn
		}
		p.open(wrap)
		p.expr(n.Kid(0), precConditional, flags&forbidIn)
		p.op("?")
		p.expr(n.Kid(1), precYield, 0)
		p.op(":")
		p.expr(n.Kid(2), precYield, flags&forbidIn)
		p.close(wrap)
	case ast.KindSeq:
		wrap := level >= precComma
		if wrap {
			flags &^= forbidIn
		}
		p.open(wrap)
		for i, k := range n.Kids {
			if i > 0 {
				p.comma()
			}
			p.expr(k, precComma, flags&forbidIn)
		}
		p.close(wrap)
	case ast.KindCall:
		wrap := flags&forbidCall != 0
		p.open(wrap)
		p.expr(n.Kid(0), precPostfix, 0)
		if n.Flags.Has(ast.FlagOptional) {
			p.tok("?.")
		}
		p.args(n.Kids[1:])
		p.close(wrap)
	case ast.KindImportCall:
		p.tok("import")
		p.args(n.Kids)
	case ast.KindNew:
		p.tok("new")
		p.w.Space()
		p.expr(n.Kid(0), precNew, forbidCall)
		p.args(n.Kids[1:])
	case ast.KindMember:
		p.member(n, flags)
	case ast.KindIndex:
		p.expr(n.Kid(0), precPostfix, flags&forbidCall)
		if n.Flags.Has(ast.FlagOptional) {
			p.tok("?.")
		}
		p.tok("[")
		p.expr(n.Kid(1), precLowest, 0)
		p.tok("]")
	case ast.KindOptChain:
		p.expr(n.Kid(0), level, flags)
	default:
		p.unknown(n)
	}
}

func (p *printer) open(wrap bool) {
	if wrap {
		p.tok("(")
	}
}

func (p *printer) close(wrap bool) {
	if wrap {
		p.tok(")")
	}
}

func (p *printer) literal(n *ast.Node) {
	switch n.Op {
	case token.StringLit, token.RegExpLit:
		p.tok(p.text(n.Text, escapeString))
	default:
		p.tok(n.Text)
	}
}

func (p *printer) template(n *ast.Node) {
	p.tok("`")
	for i, k := range n.Kids {
		if i%2 == 1 {
			p.w.Raw("${")
			p.expr(k, precLowest, 0)
			p.w.Raw("}")
			continue
		}
		p.w.Raw(p.text(p.tree.Get(k).Text, escapeString))
	}
	p.w.Raw("`")
}

func (p *printer) member(n *ast.Node, flags exprFlags) {
	obj := p.tree.Get(n.Kid(0))
	wrapNum := obj.Kind == ast.KindLiteral && obj.Op == token.NumberLit && isPlainNumber(obj.Text)
	if wrapNum {
		p.tok("(")
		p.expr(n.Kid(0), precLowest, 0)
		p.tok(")")
	} else {
		p.expr(n.Kid(0), precPostfix, flags&forbidCall)
	}
	if n.Flags.Has(ast.FlagOptional) {
		p.tok("?.")
	} else {
		p.tok(".")
	}
	prop := p.tree.Get(n.Kid(1))
	p.w.Map(prop.Span)
	p.tok(p.text(prop.Text, escapeIdent))
}

func (p *printer) args(args []ast.NodeID) {
	p.tok("(")
	for i, a := range args {
		if i > 0 {
			p.comma()
		}
		p.expr(a, precComma, 0)
	}
	p.tok(")")
}

func (p *printer) unary(n *ast.Node, level prec) {
	wrap := level >= precPrefix
	p.open(wrap)
	p.tok(n.Op.String())
	if n.Op.IsKeyword() {
		p.w.Space()
	}
	p.expr(n.Kid(0), precPrefix-1, 0)
	p.close(wrap)
}

func (p *printer) update(n *ast.Node, level prec) {
	if n.Flags.Has(ast.FlagPrefix) {
		wrap := level >= precPrefix
		p.open(wrap)
		p.tok(n.Op.String())
		p.expr(n.Kid(0), precPrefix-1, 0)
		p.close(wrap)
		return
	}
	wrap := level >= precPostfix
	p.open(wrap)
	p.expr(n.Kid(0), precPostfix-1, 0)
	p.tok(n.Op.String())
	p.close(wrap)
}

func (p *printer) binary(n *ast.Node, level prec, flags exprFlags) {
	pr, ok := binaryPrec[n.Op]
	if !ok {
		p.unknown(n)
		return
	}
	wrap := level >= pr || (n.Op == token.KwIn && flags&forbidIn != 0)
	if wrap {
		flags &^= forbidIn
	}
	p.open(wrap)

	left, right := pr-1, pr
	switch n.Op {
	case token.StarStar:
		left, right = pr, pr-1
		// -a ** b is a syntax error
		if k := p.tree.Kind(n.Kid(0)); k == ast.KindUnary || k == ast.KindAwait {
			left = precPrefix
		}
	case token.QuestionQuestion:
		// ?? cannot mix with || and && without parentheses
		left, right = precBitwiseOr-1, precBitwiseOr-1
	}
	p.expr(n.Kid(0), left, flags&forbidIn)
	p.op(n.Op.String())
	p.expr(n.Kid(1), right, flags&forbidIn)
	p.close(wrap)
}

func (p *printer) array(n *ast.Node) {
	p.tok("[")
	for i, k := range n.Kids {
		if i > 0 {
			p.comma()
		}
		p.expr(k, precComma, 0)
	}
	// [a, ,] keeps the trailing hole
	if len(n.Kids) > 0 && p.tree.Kind(n.Kids[len(n.Kids)-1]) == ast.KindHole {
		p.tok(",")
	}
	p.tok("]")
}

func (p *printer) object(n *ast.Node) {
	if len(n.Kids) == 0 {
		p.tok("{}")
		return
	}
	p.tok("{")
	p.w.Space()
	for i, k := range n.Kids {
		if i > 0 {
			p.comma()
		}
		p.property(k)
	}
	p.w.Space()
	p.tok("}")
}

// property prints an object member.
func (p *printer) property(id ast.NodeID) {
	n := p.tree.Get(id)
	p.w.Map(n.Span)
	switch n.Kind {
	case ast.KindObjProp:
		if n.Flags.Has(ast.FlagShorthand) && p.shorthand(n) {
			p.expr(n.Kid(1), precComma, 0)
			return
		}
		p.key(n.Kid(0), n.Flags)
		p.tok(":")
		p.w.Space()
		p.expr(n.Kid(1), precComma, 0)
	case ast.KindMethod:
		p.method(n)
	default:
		p.expr(id, precComma, 0)
	}
}

// shorthand reports whether {a} / {a = 1} still names the key.
func (p *printer) shorthand(n *ast.Node) bool {
	key := p.tree.Get(n.Kid(0))
	val := p.tree.Get(n.Kid(1))
	if val.Kind == ast.KindAssignPattern {
		val = p.tree.Get(val.Kid(0))
	}
	return key.Kind == ast.KindIdent && val.Kind == ast.KindIdent && key.Text == val.Text
}

// key prints a property name, computed keys in brackets.
func (p *printer) key(id ast.NodeID, flags ast.Flags) {
	if flags.Has(ast.FlagComputed) {
		p.tok("[")
		p.expr(id, precComma, 0)
		p.tok("]")
		return
	}
	n := p.tree.Get(id)
	p.w.Map(n.Span)
	switch n.Kind {
	case ast.KindIdent, ast.KindPrivateName:
		p.tok(p.text(n.Text, escapeIdent))
	default:
		p.expr(id, precComma, 0)
	}
}

// startsWith reports the kind of the leftmost node of an expression.
func (p *printer) startsWith(id ast.NodeID) *ast.Node {
	for {
		n := p.tree.Get(id)
		if n == nil {
			return nil
		}
		switch n.Kind {
		case ast.KindBinary, ast.KindAssign, ast.KindConditional, ast.KindCall,
			ast.KindMember, ast.KindIndex, ast.KindTaggedTemplate, ast.KindOptChain:
			id = n.Kid(0)
		case ast.KindSeq:
			id = n.Kid(0)
		case ast.KindUpdate:
			if n.Flags.Has(ast.FlagPrefix) {
				return n
			}
			id = n.Kid(0)
		default:
			return n
		}
	}
}

// needsStmtParens reports whether an expression statement (or export
// default) would be misread as a declaration or block.
func (p *printer) needsStmtParens(id ast.NodeID) bool {
	n := p.startsWith(id)
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.KindObject, ast.KindObjectPattern, ast.KindFuncExpr, ast.KindClassExpr:
		return true
	case ast.KindIdent:
		// let [a] = ... would be a declaration
		return n.Text == "let" && p.tree.Kind(id) != ast.KindIdent
	}
	return false
}
