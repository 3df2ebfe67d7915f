package symtab

import (
	"fly/src/ast"
	"fly/src/diag"
)

// Registry owns one Table per namespace path, shared across every module
// that declares that namespace (§3: "every module that declares the same
// namespace contributes its public top-level defs to one shared symbol
// set"). It is built once in the resolver's pass 1 and read throughout
// pass 2.
type Registry struct {
	namespaces map[string]*Table
	classes    map[string]*ClassTable // keyed by qualified class name
}

func NewRegistry() *Registry {
	return &Registry{
		namespaces: make(map[string]*Table),
		classes:    make(map[string]*ClassTable),
	}
}

// Namespace returns the Table for path, creating it on first use.
func (r *Registry) Namespace(path string) *Table {
	t, ok := r.namespaces[path]
	if !ok {
		t = New()
		r.namespaces[path] = t
	}
	return t
}

// LookupNamespace returns the Table for path if it has been populated by at
// least one module, per §4.4's "namespace not found" edge case.
func (r *Registry) LookupNamespace(path string) (*Table, bool) {
	t, ok := r.namespaces[path]
	return t, ok
}

// ClassTableFor returns the ClassTable for a fully qualified class name,
// building it on first request.
func (r *Registry) ClassTableFor(sink *diag.Sink, qualifiedName string, c *ast.Class) *ClassTable {
	if ct, ok := r.classes[qualifiedName]; ok {
		return ct
	}
	ct := NewClassTable(sink, c)
	r.classes[qualifiedName] = ct
	return ct
}

// AddModule populates the Registry from one module's top-level
// declarations: globals, functions, classes and enums are inserted into the
// module's namespace Table (duplicate names across co-namespace modules are
// caught here, which is how §5's "order-independent duplicate detection"
// is satisfied — two modules processed in either order report the same
// diagnostics).
func (r *Registry) AddModule(sink *diag.Sink, mod *ast.Module) {
	ns := r.Namespace(mod.Space.Path)
	for _, g := range mod.Globals {
		ns.InsertGlobal(sink, g)
	}
	for _, fn := range mod.Funcs {
		ns.InsertFunction(sink, fn)
	}
	for _, c := range mod.Classes {
		ns.InsertIdentity(sink, c)
		r.ClassTableFor(sink, mod.Space.Path+"."+c.Name, c)
	}
	for _, e := range mod.Enums {
		ns.InsertIdentity(sink, e)
	}
}
