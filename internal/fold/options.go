package fold

import (
	"fmt"
	"strings"

	"mesozoic/internal/comments"
	"mesozoic/internal/diag"
	"mesozoic/internal/hygiene"
	"mesozoic/internal/trace"
)

// Target is the ECMAScript version the output must run on. The zero value
// means DefaultTarget.
type Target uint8

const (
	targetUnset Target = iota
	ES2015
	ES2016
	ES2017
	ES2018
	ES2019
	ES2020
	ES2021
	ES2022
	ESNext
)

// DefaultTarget is used when the caller gives none.
const DefaultTarget = ES2022

var targetNames = [...]string{
	targetUnset: "", ES2015: "es2015", ES2016: "es2016", ES2017: "es2017", ES2018: "es2018",
	ES2019: "es2019", ES2020: "es2020", ES2021: "es2021", ES2022: "es2022",
	ESNext: "esnext",
}

func (t Target) String() string {
	if t == targetUnset {
		return DefaultTarget.String()
	}
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", uint8(t))
}

// ParseTarget reads es6, es2015 ... es2022 and esnext. The empty string
// selects DefaultTarget.
func ParseTarget(name string) (Target, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "":
		return DefaultTarget, nil
	case "es6":
		return ES2015, nil
	default:
		for t, s := range targetNames {
			if s == n && s != "" {
				return Target(t), nil
			}
		}
	}
	return DefaultTarget, fmt.Errorf("unknown target %q", name)
}

// Runtime selects how JSX elements are turned into calls.
type Runtime uint8

const (
	// RuntimeAutomatic imports jsx/jsxs from <source>/jsx-runtime.
	RuntimeAutomatic Runtime = iota
	// RuntimeClassic calls a pragma such as React.createElement.
	RuntimeClassic
)

func (r Runtime) String() string {
	if r == RuntimeClassic {
		return "classic"
	}
	return "automatic"
}

// ParseRuntime reads "automatic" or "classic"; empty means automatic.
func ParseRuntime(name string) (Runtime, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "automatic":
		return RuntimeAutomatic, nil
	case "classic":
		return RuntimeClassic, nil
	}
	return RuntimeAutomatic, fmt.Errorf("unknown JSX runtime %q", name)
}

// JSXOptions configure JSX lowering. Zero values select the automatic
// runtime with the "react" import source.
type JSXOptions struct {
	Runtime Runtime
	// ImportSource is the package providing jsx-runtime (automatic only).
	ImportSource string
	// Development switches to jsxDEV with source locations.
	Development bool
	// Factory and Fragment are the classic pragmas.
	Factory  string
	Fragment string
}

const (
	defaultImportSource = "react"
	defaultFactory      = "React.createElement"
	defaultFragment     = "React.Fragment"
)

func (o JSXOptions) withDefaults() JSXOptions {
	if o.ImportSource == "" {
		o.ImportSource = defaultImportSource
	}
	if o.Factory == "" {
		o.Factory = defaultFactory
	}
	if o.Fragment == "" {
		o.Fragment = defaultFragment
	}
	return o
}

// Options configure one fold over a parsed tree.
type Options struct {
	JSX    JSXOptions
	Target Target
	// PreserveImports keeps import specifiers that are never used as values.
	PreserveImports bool
	// Conditionals are if-tests whose consequent is dropped.
	Conditionals []Conditional
	// Defines replace global identifiers with fixed expressions.
	Defines []Define

	Hygiene  *hygiene.Context
	Comments *comments.Table
	Reporter diag.Reporter
	Tracer   trace.Tracer
}
