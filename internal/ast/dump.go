package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented, one-node-per-line rendering of the subtree at id.
// Slots other than Kids are prefixed with their name.
func (t *Tree) Dump(w io.Writer, id NodeID) error {
	d := dumper{t: t, w: w}
	d.node("", id, 0)
	return d.err
}

type dumper struct {
	t   *Tree
	w   io.Writer
	err error
}

func (d *dumper) node(label string, id NodeID, depth int) {
	if d.err != nil {
		return
	}
	n := d.t.Get(id)
	if n == nil {
		return
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(label)
	b.WriteString(n.Kind.String())
	if n.Op != 0 && n.Kind != KindLiteral {
		fmt.Fprintf(&b, " %s", n.Op)
	}
	if n.Text != "" {
		fmt.Fprintf(&b, " %q", n.Text)
	}
	if n.Mark.IsValid() {
		b.WriteString(" " + n.Mark.String())
	}
	if f := flagNames(n.Flags); f != "" {
		b.WriteString(" [" + f + "]")
	}
	if !n.Span.IsDummy() && d.t.File != nil {
		lc := d.t.File.LineCol(n.Span.Start)
		fmt.Fprintf(&b, " @%d:%d", lc.Line, lc.Col)
	}
	b.WriteByte('\n')
	if _, err := io.WriteString(d.w, b.String()); err != nil {
		d.err = err
		return
	}
	for _, dec := range n.Decos {
		d.node("@", dec, depth+1)
	}
	if n.TArgs.IsValid() {
		d.node("<>: ", n.TArgs, depth+1)
	}
	for _, k := range n.Kids {
		if !k.IsValid() {
			fmt.Fprintf(d.w, "%s-\n", strings.Repeat("  ", depth+1))
			continue
		}
		d.node("", k, depth+1)
	}
	if n.Type.IsValid() {
		d.node(": ", n.Type, depth+1)
	}
	if n.Aux.IsValid() {
		d.node("aux: ", n.Aux, depth+1)
	}
}

var flagLabels = []struct {
	f    Flags
	name string
}{
	{FlagAsync, "async"}, {FlagGenerator, "generator"}, {FlagAwait, "await"},
	{FlagStatic, "static"}, {FlagComputed, "computed"}, {FlagShorthand, "shorthand"},
	{FlagOptional, "optional"}, {FlagPrefix, "prefix"}, {FlagDelegate, "delegate"},
	{FlagExprBody, "expr-body"}, {FlagHasArgs, "args"}, {FlagTypeOnly, "type-only"},
	{FlagDeclare, "declare"}, {FlagConst, "const"}, {FlagGlobal, "global"},
	{FlagAbstract, "abstract"}, {FlagReadonly, "readonly"}, {FlagPublic, "public"},
	{FlagPrivate, "private"}, {FlagProtected, "protected"}, {FlagOverride, "override"},
	{FlagDefinite, "definite"}, {FlagRest, "rest"}, {FlagAccessor, "accessor"},
	{FlagAsserts, "asserts"}, {FlagThisParam, "this"}, {FlagDefault, "default"},
	{FlagSynth, "synth"},
}

// Names lists the labels of the printable flags set in f.
func (f Flags) Names() []string {
	var parts []string
	for _, l := range flagLabels {
		if f.Has(l.f) {
			parts = append(parts, l.name)
		}
	}
	return parts
}

func flagNames(f Flags) string {
	return strings.Join(f.Names(), ",")
}
