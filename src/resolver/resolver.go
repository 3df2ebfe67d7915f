// Package resolver implements §4.4's two-pass identifier-binding and
// type-checking algorithm: pass 1 binds imports, namespaces and
// signatures; pass 2 walks every function/method body, resolving VarRefs
// and Calls and assigning a type to every expression.
package resolver

import (
	"fly/src/ast"
	"fly/src/diag"
	"fly/src/symtab"
)

// Resolver holds the state shared by both passes over one compilation
// (a set of modules built together, per §4.4's "two-pass algorithm over
// all modules").
type Resolver struct {
	sink     *diag.Sink
	registry *symtab.Registry
	modules  []*ast.Module
	byName   map[string]*ast.Module
}

// Resolve runs both passes over mods and returns an error iff the sink
// recorded any Error/Fatal diagnostic. Per §4.4, all modules are resolved
// together so cross-module namespace/import references can be bound.
func Resolve(sink *diag.Sink, mods []*ast.Module) error {
	r := &Resolver{
		sink:     sink,
		registry: symtab.NewRegistry(),
		modules:  mods,
		byName:   make(map[string]*ast.Module, len(mods)),
	}
	for _, m := range mods {
		r.byName[m.Name] = m
	}

	r.pass1()
	if sink.Aborted() {
		return firstError(sink)
	}
	r.pass2()
	if sink.HasErrors() {
		return firstError(sink)
	}

	fold(mods)
	return nil
}

func firstError(sink *diag.Sink) error {
	for _, d := range sink.Entries() {
		if d.Severity == diag.Error || d.Severity == diag.Fatal {
			dd := d
			return dd
		}
	}
	return nil
}
