package fold

import (
	"math"

	"mesozoic/internal/ast"
	"mesozoic/internal/diag"
	"mesozoic/internal/lexer"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

// enumValue is the constant value of an enum member.
type enumValue struct {
	num   float64
	str   string
	isStr bool
}

// enum lowers an enum to an IIFE that fills the enum object. Numeric members
// get a reverse mapping:
//
//	var E;
//	(function (E) {
//	    E[E["A"] = 0] = "A";
//	    E["S"] = "s";
//	})(E || (E = {}));
//
// Const enums are emitted the same way so that references keep working
// without cross-file inlining.
func (f *folder) enum(n *ast.Node, exported bool) []ast.NodeID {
	if n.Flags.Has(ast.FlagDeclare) {
		return nil
	}
	nameNode := f.src.Get(n.Kid(0))
	name := nameNode.Text
	parent := f.namespaceScope()

	s := &scope{kind: scopeEnum, name: name, exports: make(map[string]bool)}
	known := make(map[string]enumValue)
	next, autoOK := 0.0, true

	f.scopes = append(f.scopes, s)
	body := make([]ast.NodeID, 0, len(n.Kids)-1)
	for _, m := range n.Kids[1:] {
		mn := f.src.Get(m)
		f.lastSpan = mn.Span
		key, ok := f.memberName(mn.Kid(0))
		if !ok {
			f.errorAt(mn.Span, diag.FoldUnsupported, "enum member names must be identifiers or strings")
			continue
		}
		var val ast.NodeID
		var v enumValue
		constant := false
		switch {
		case mn.Kid(1).IsValid():
			if v, constant = f.evalEnum(mn.Kid(1), name, known); !constant {
				val = f.expr(mn.Kid(1))
			}
		case autoOK:
			v, constant = enumValue{num: next}, true
		default:
			f.errorAt(mn.Span, diag.FoldUnsupported, "enum member '"+key+"' must have an initializer")
			continue
		}
		if constant {
			known[key] = v
			val = f.enumLiteral(v, mn.Span)
			autoOK, next = !v.isStr, v.num+1
		} else {
			autoOK = false
		}
		s.exports[key] = true
		body = append(body, f.enumAssign(name, key, val, constant && v.isStr, mn.Span))
	}
	f.scopes = f.scopes[:len(f.scopes)-1]
	return f.objectIIFE(n.Span, nameNode, body, exported, parent)
}

func (f *folder) memberName(id ast.NodeID) (string, bool) {
	n := f.src.Get(id)
	switch {
	case n.Kind == ast.KindIdent:
		return n.Text, true
	case n.Kind == ast.KindLiteral && n.Op == token.StringLit:
		return lexer.Unquote(n.Text)
	}
	return "", false
}

// enumAssign builds E[E["A"] = v] = "A" or, for string members, E["A"] = v.
func (f *folder) enumAssign(enum, key string, val ast.NodeID, isStr bool, sp source.Span) ast.NodeID {
	slot := func() ast.NodeID {
		return f.out.New(ast.KindIndex, sp, f.out.Ident(enum, sp), f.out.String(quote(key), sp))
	}
	set := f.assign(sp, slot(), val)
	if !isStr {
		reverse := f.out.New(ast.KindIndex, sp, f.out.Ident(enum, sp), set)
		set = f.assign(sp, reverse, f.out.String(quote(key), sp))
	}
	return f.out.New(ast.KindExprStmt, sp, set)
}

func (f *folder) enumLiteral(v enumValue, sp source.Span) ast.NodeID {
	if v.isStr {
		return f.out.String(quote(v.str), sp)
	}
	if v.num < 0 || (v.num == 0 && math.Signbit(v.num)) {
		return f.out.NewOp(ast.KindUnary, token.Minus, sp, f.out.Number(lexer.FormatNumber(-v.num), sp))
	}
	return f.out.Number(lexer.FormatNumber(v.num), sp)
}

// evalEnum computes a constant member initializer. Earlier members may be
// referenced by name or as E.A / E["A"].
func (f *folder) evalEnum(id ast.NodeID, enum string, known map[string]enumValue) (enumValue, bool) {
	n := f.src.Get(id)
	if n == nil {
		return enumValue{}, false
	}
	switch n.Kind {
	case ast.KindParen:
		return f.evalEnum(n.Kid(0), enum, known)
	case ast.KindLiteral:
		switch n.Op {
		case token.NumberLit:
			v, ok := lexer.NumberValue(n.Text)
			return enumValue{num: v}, ok
		case token.StringLit:
			s, ok := lexer.Unquote(n.Text)
			return enumValue{str: s, isStr: true}, ok
		}
	case ast.KindTemplate:
		if len(n.Kids) == 1 {
			s, ok := lexer.Cook(f.src.Get(n.Kid(0)).Text)
			return enumValue{str: s, isStr: true}, ok
		}
	case ast.KindIdent:
		switch n.Text {
		case "Infinity":
			return enumValue{num: math.Inf(1)}, true
		case "NaN":
			return enumValue{num: math.NaN()}, true
		}
		v, ok := known[n.Text]
		return v, ok
	case ast.KindMember:
		if f.src.IsIdent(n.Kid(0), enum) {
			v, ok := known[f.src.Get(n.Kid(1)).Text]
			return v, ok
		}
	case ast.KindIndex:
		key := f.src.Get(n.Kid(1))
		if f.src.IsIdent(n.Kid(0), enum) && key.Kind == ast.KindLiteral && key.Op == token.StringLit {
			if s, ok := lexer.Unquote(key.Text); ok {
				v, ok := known[s]
				return v, ok
			}
		}
	case ast.KindUnary:
		x, ok := f.evalEnum(n.Kid(0), enum, known)
		if !ok || x.isStr {
			return enumValue{}, false
		}
		switch n.Op {
		case token.Plus:
			return x, true
		case token.Minus:
			return enumValue{num: -x.num}, true
		case token.Tilde:
			return enumValue{num: float64(^toInt32(x.num))}, true
		}
	case ast.KindBinary:
		l, lok := f.evalEnum(n.Kid(0), enum, known)
		r, rok := f.evalEnum(n.Kid(1), enum, known)
		if !lok || !rok {
			return enumValue{}, false
		}
		if l.isStr || r.isStr {
			if n.Op != token.Plus {
				return enumValue{}, false
			}
			return enumValue{str: l.text() + r.text(), isStr: true}, true
		}
		return evalBinary(n.Op, l.num, r.num)
	}
	return enumValue{}, false
}

func (v enumValue) text() string {
	if v.isStr {
		return v.str
	}
	return lexer.FormatNumber(v.num)
}

func evalBinary(op token.Kind, a, b float64) (enumValue, bool) {
	var r float64
	switch op {
	case token.Plus:
		r = a + b
	case token.Minus:
		r = a - b
	case token.Star:
		r = a * b
	case token.Slash:
		r = a / b
	case token.Percent:
		r = math.Mod(a, b)
	case token.StarStar:
		r = math.Pow(a, b)
	case token.Shl:
		r = float64(toInt32(a) << (uint32(toInt32(b)) & 31))
	case token.Shr:
		r = float64(toInt32(a) >> (uint32(toInt32(b)) & 31))
	case token.UShr:
		r = float64(uint32(toInt32(a)) >> (uint32(toInt32(b)) & 31))
	case token.Amp:
		r = float64(toInt32(a) & toInt32(b))
	case token.Pipe:
		r = float64(toInt32(a) | toInt32(b))
	case token.Caret:
		r = float64(toInt32(a) ^ toInt32(b))
	default:
		return enumValue{}, false
	}
	return enumValue{num: r}, true
}

// toInt32 is the ECMAScript ToInt32 conversion.
func toInt32(v float64) int32 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int32(uint32(int64(math.Mod(math.Trunc(v), 1<<32))))
}
