// Package symtab implements the per-namespace symbol tables of §4.2: for
// each namespace, three maps — globals by name, identities (classes/enums)
// by name, and functions keyed by name then arity then a vector of
// overload candidates — plus per-class sub-tables for attributes,
// constructors and methods.
package symtab

import (
	"fmt"

	"fly/src/ast"
	"fly/src/diag"
)

// Callable is implemented by *ast.Function and *ast.ClassMethod, the two
// declaration kinds that populate an overload bucket.
type Callable interface {
	ast.Decl
	ParamTypes() []ast.Type
}

// bucket holds every distinct-signature candidate sharing one (name, arity).
type bucket struct {
	arity      int
	candidates []Callable
}

// overloadSet maps arity to its bucket, for one simple function/method name.
type overloadSet map[int]*bucket

// Table is one namespace's (or one class's) symbol table.
type Table struct {
	Globals    map[string]*ast.GlobalVar
	Identities map[string]ast.Identity
	Functions  map[string]overloadSet
}

// New returns an empty Table.
func New() *Table {
	return &Table{
		Globals:    make(map[string]*ast.GlobalVar),
		Identities: make(map[string]ast.Identity),
		Functions:  make(map[string]overloadSet),
	}
}

// InsertGlobal records g, reporting diag.DuplicateGlobal if the name is
// already bound in this table.
func (t *Table) InsertGlobal(sink *diag.Sink, g *ast.GlobalVar) {
	if _, ok := t.Globals[g.Name]; ok {
		sink.Report(diag.Error, diag.DuplicateGlobal, g.P, "global %q already declared in this namespace", g.Name)
		return
	}
	t.Globals[g.Name] = g
}

// InsertIdentity records id (a *ast.Class or *ast.Enum) under its own name.
func (t *Table) InsertIdentity(sink *diag.Sink, id ast.Identity) {
	if _, ok := t.Identities[id.IdentityName()]; ok {
		sink.Report(diag.Error, diag.ModuleDuplicated, id.Pos(), "identity %q already declared in this namespace", id.IdentityName())
		return
	}
	t.Identities[id.IdentityName()] = id
}

// InsertFunction implements §4.2's insert_function / §4.5's overload-table
// semantics: if (name, arity) is absent, create the bucket; otherwise
// compare fn's parameter type list structurally against existing entries.
// An equal list is a duplicate error; a different list is appended as a new
// overload candidate.
func (t *Table) InsertFunction(sink *diag.Sink, fn Callable) {
	name := fn.DeclName()
	set, ok := t.Functions[name]
	if !ok {
		set = make(overloadSet)
		t.Functions[name] = set
	}
	arity := len(fn.ParamTypes())
	b, ok := set[arity]
	if !ok {
		set[arity] = &bucket{arity: arity, candidates: []Callable{fn}}
		return
	}
	for _, existing := range b.candidates {
		if paramTypesEqual(existing.ParamTypes(), fn.ParamTypes()) {
			sink.Report(diag.Error, diag.DuplicateFunction, fn.Pos(),
				"%q already declared with this parameter list", name)
			return
		}
	}
	b.candidates = append(b.candidates, fn)
}

// FindFunction returns every candidate sharing (name, arity); the resolver
// narrows this to the best match using argument types (§4.4 Call resolution
// order).
func (t *Table) FindFunction(name string, arity int) []Callable {
	set, ok := t.Functions[name]
	if !ok {
		return nil
	}
	b, ok := set[arity]
	if !ok {
		return nil
	}
	return b.candidates
}

// FindVar looks up a module-level global by name.
func (t *Table) FindVar(name string) (*ast.GlobalVar, bool) {
	g, ok := t.Globals[name]
	return g, ok
}

// FindIdentity looks up a class/enum/struct by name.
func (t *Table) FindIdentity(name string) (ast.Identity, bool) {
	id, ok := t.Identities[name]
	return id, ok
}

// paramTypesEqual reports whether two parameter type tuples are
// structurally identical element-by-element, per §4.5 ("same arity and each
// parameter type equals structurally → duplicate error").
func paramTypesEqual(a, b []ast.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !StructuralEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// StructuralEqual compares two types structurally: primitives and arrays by
// shape, identities by qualified name (nominal equality degrades to name
// comparison before the resolver has filled in Def, per ast.IdentityType's
// doc comment).
func StructuralEqual(a, b ast.Type) bool {
	if a.Category() != b.Category() {
		return false
	}
	switch at := a.(type) {
	case ast.IntType:
		bt := b.(ast.IntType)
		return at.Bits == bt.Bits && at.Signed == bt.Signed
	case ast.FloatType:
		bt := b.(ast.FloatType)
		return at.Bits == bt.Bits
	case ast.ArrayType:
		bt := b.(ast.ArrayType)
		return StructuralEqual(at.Elem, bt.Elem)
	case ast.IdentityType:
		bt := b.(ast.IdentityType)
		return at.QualifiedName == bt.QualifiedName
	default:
		return true // BoolType, StringType, VoidType, ErrorType are singletons per category
	}
}

// ClassTable holds one class's own attribute/constructor/method sub-tables,
// per §4.2 ("Per-class sub-tables hold attributes, constructors, methods").
type ClassTable struct {
	Class       *ast.Class
	Attrs       map[string]*ast.ClassAttribute
	Constructors overloadSet
	Methods     map[string]overloadSet
}

// NewClassTable builds a ClassTable from a fully-built *ast.Class,
// reporting diag.ClassFieldRedeclare / diag.ClassMethodRedecl for
// structural collisions the builder did not already catch.
func NewClassTable(sink *diag.Sink, c *ast.Class) *ClassTable {
	ct := &ClassTable{
		Class:        c,
		Attrs:        make(map[string]*ast.ClassAttribute),
		Constructors: make(overloadSet),
		Methods:      make(map[string]overloadSet),
	}
	for _, a := range c.Attrs {
		if _, ok := ct.Attrs[a.Name]; ok {
			sink.Report(diag.Error, diag.ClassFieldRedeclare, a.P, "field %q already declared on %s", a.Name, c.Name)
			continue
		}
		ct.Attrs[a.Name] = a
	}
	for _, ctor := range c.Ctors {
		arity := len(ctor.Params)
		b, ok := ct.Constructors[arity]
		if !ok {
			ct.Constructors[arity] = &bucket{arity: arity, candidates: []Callable{ctor}}
			continue
		}
		dup := false
		for _, existing := range b.candidates {
			if paramTypesEqual(existing.ParamTypes(), ctor.ParamTypes()) {
				sink.Report(diag.Error, diag.ClassMethodRedecl, ctor.P,
					"constructor for %s already declared with this parameter list", c.Name)
				dup = true
				break
			}
		}
		if !dup {
			b.candidates = append(b.candidates, ctor)
		}
	}
	for _, m := range c.Methods {
		set, ok := ct.Methods[m.Name]
		if !ok {
			set = make(overloadSet)
			ct.Methods[m.Name] = set
		}
		arity := len(m.Params)
		b, ok := set[arity]
		if !ok {
			set[arity] = &bucket{arity: arity, candidates: []Callable{m}}
			continue
		}
		dup := false
		for _, existing := range b.candidates {
			if paramTypesEqual(existing.ParamTypes(), m.ParamTypes()) {
				sink.Report(diag.Error, diag.ClassMethodRedecl, m.P,
					"method %q on %s already declared with this parameter list", m.Name, c.Name)
				dup = true
				break
			}
		}
		if !dup {
			b.candidates = append(b.candidates, m)
		}
	}
	return ct
}

// FindMethod mirrors Table.FindFunction for one class's method set.
func (ct *ClassTable) FindMethod(name string, arity int) []Callable {
	set, ok := ct.Methods[name]
	if !ok {
		return nil
	}
	if b, ok := set[arity]; ok {
		return b.candidates
	}
	return nil
}

// FindConstructor returns the constructor candidates for a given arity.
func (ct *ClassTable) FindConstructor(arity int) []Callable {
	if b, ok := ct.Constructors[arity]; ok {
		return b.candidates
	}
	return nil
}

func (ct *ClassTable) String() string {
	return fmt.Sprintf("class %s (%d fields, %d ctors, %d methods)",
		ct.Class.Name, len(ct.Attrs), len(ct.Constructors), len(ct.Methods))
}
