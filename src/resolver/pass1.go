package resolver

import (
	"fly/src/ast"
	"fly/src/diag"
)

// pass1 implements §4.4 Pass 1 — imports & interfaces.
func (r *Resolver) pass1() {
	// Step 2 first: bind every module's own namespace and register its
	// public top-level defs, so imports resolved afterward (step 1) and
	// type references materialized afterward (step 3) can see the full
	// registry regardless of module order (§5 ordering guarantee).
	for _, m := range r.modules {
		r.registry.AddModule(r.sink, m)
	}

	for _, m := range r.modules {
		r.resolveImports(m)
	}
	if r.sink.Aborted() {
		return
	}

	for _, m := range r.modules {
		r.materializeSignatures(m)
	}
}

// resolveImports implements step 1: every import name must exist in the
// registry; an unresolved import is a fatal error.
func (r *Resolver) resolveImports(m *ast.Module) {
	for _, imp := range m.Imports {
		if _, ok := r.registry.LookupNamespace(imp.Path); !ok {
			r.sink.Report(diag.Fatal, diag.NamespaceNotFound, imp.P,
				"import %q does not resolve to any declared namespace", imp.Path)
			continue
		}
		imp.Target = &ast.NameSpace{P: imp.P, Path: imp.Path}
	}
}

// materializeSignatures implements step 3: resolve every IdentityType
// reference used in a signature position (parameter/return types, class
// supers, attribute types) through the order current module/namespace →
// each import → error. Each slot is passed by address so the resolved
// copy (with Def filled in) is written back in place.
func (r *Resolver) materializeSignatures(m *ast.Module) {
	for _, g := range m.Globals {
		r.resolveIdentityType(m, &g.Type)
	}
	for _, fn := range m.Funcs {
		for _, p := range fn.Params {
			r.resolveIdentityType(m, &p.Type)
		}
		r.resolveIdentityType(m, &fn.Ret)
	}
	for _, c := range m.Classes {
		if c.Super != nil {
			r.resolveIdentitySuper(m, c.Super)
		}
		for _, a := range c.Attrs {
			r.resolveIdentityType(m, &a.Type)
		}
		for _, ctor := range c.Ctors {
			for _, p := range ctor.Params {
				r.resolveIdentityType(m, &p.Type)
			}
		}
		for _, meth := range c.Methods {
			for _, p := range meth.Params {
				r.resolveIdentityType(m, &p.Type)
			}
			r.resolveIdentityType(m, &meth.Ret)
		}
	}
}

// resolveIdentityType resolves *slot in place if it holds an unresolved
// ast.IdentityType; any other Type (or an already-resolved identity) is
// left untouched.
func (r *Resolver) resolveIdentityType(m *ast.Module, slot *ast.Type) {
	it, ok := (*slot).(ast.IdentityType)
	if !ok || it.Def != nil {
		return
	}
	if id, found := r.lookupIdentity(m, it.QualifiedName); found {
		it.Def = id
		*slot = it
		return
	}
	r.sink.Report(diag.Error, diag.UnrefType, it.P, "unresolved type reference %q", it.QualifiedName)
}

// resolveIdentitySuper is resolveIdentityType specialized for
// Class.Super, which is already a *ast.IdentityType rather than a Type
// interface slot.
func (r *Resolver) resolveIdentitySuper(m *ast.Module, super *ast.IdentityType) {
	if super.Def != nil {
		return
	}
	if id, found := r.lookupIdentity(m, super.QualifiedName); found {
		super.Def = id
		return
	}
	r.sink.Report(diag.Error, diag.UnrefType, super.P, "unresolved superclass reference %q", super.QualifiedName)
}

// lookupIdentity implements the order: current module's own namespace →
// each import's namespace.
func (r *Resolver) lookupIdentity(m *ast.Module, name string) (ast.Identity, bool) {
	if ownNs, ok := r.registry.LookupNamespace(m.Space.Path); ok {
		if id, found := ownNs.FindIdentity(name); found {
			return id, true
		}
	}
	for _, imp := range m.Imports {
		if imp.Target == nil {
			continue
		}
		ns, found := r.registry.LookupNamespace(imp.Target.Path)
		if !found {
			continue
		}
		if id, found := ns.FindIdentity(name); found {
			return id, true
		}
	}
	return nil, false
}
