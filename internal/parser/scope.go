package parser

import (
	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

type declKind uint8

const (
	declVar declKind = iota
	declLexical
)

// scope tracks names declared in one block for the duplicate-declaration
// early error.
type scope struct {
	parent *scope
	names  map[string]declKind
}

type label struct {
	name   string
	isLoop bool
}

func (p *Parser) pushScope() {
	p.scope = &scope{parent: p.scope, names: make(map[string]declKind)}
}

func (p *Parser) popScope() {
	if p.scope != nil {
		p.scope = p.scope.parent
	}
}

// declare records a binding. Lexical bindings may not share a block with any
// other binding of the same name.
func (p *Parser) declare(name string, kind declKind, sp source.Span) {
	if !p.syn.StrictEarlyErrors || p.scope == nil || p.spec > 0 || p.ambient > 0 || p.inType > 0 {
		return
	}
	prev, seen := p.scope.names[name]
	if seen && (kind == declLexical || prev == declLexical) {
		p.errAt(sp, diag.SynDuplicateDeclaration, "identifier '"+name+"' has already been declared")
		return
	}
	p.scope.names[name] = kind
}

func (p *Parser) findLabel(name string) (label, bool) {
	for i := len(p.labels) - 1; i >= 0; i-- {
		if p.labels[i].name == name {
			return p.labels[i], true
		}
	}
	return label{}, false
}
