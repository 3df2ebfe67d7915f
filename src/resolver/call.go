package resolver

import (
	"fly/src/ast"
	"fly/src/diag"
	"fly/src/symtab"
	"fly/src/validator"
)

// resolveCall implements §4.4's Call resolution order and overload
// selection. A method call (Receiver != nil) looks only at the receiver's
// class method table; a bare/qualified call walks current module →
// current namespace → explicit import's namespace.
func (r *Resolver) resolveCall(scope *funcScope, c *ast.CallExpr) ast.Type {
	argTypes := make([]ast.Type, len(c.Args))
	for i, a := range c.Args {
		argTypes[i] = r.resolveExpr(scope, a)
	}

	if c.Receiver != nil {
		recvT := r.resolveExpr(scope, c.Receiver)
		return r.resolveMethodCall(c, recvT, argTypes)
	}

	arity := len(c.Args)
	var candidates []symtab.Callable

	for _, fn := range scope.mod.LookupFuncByName(c.Ref.Name) {
		if len(fn.Params) == arity {
			candidates = append(candidates, fn)
		}
	}
	if len(candidates) == 0 {
		if ns, ok := r.registry.LookupNamespace(scope.mod.Space.Path); ok {
			candidates = ns.FindFunction(c.Ref.Name, arity)
		}
	}
	if len(candidates) == 0 {
		if c.Ref.Qualified() {
			for _, imp := range scope.mod.Imports {
				if imp.EffectiveName() != c.Ref.Parent.Name || imp.Target == nil {
					continue
				}
				if ns, ok := r.registry.LookupNamespace(imp.Target.Path); ok {
					candidates = ns.FindFunction(c.Ref.Name, arity)
				}
			}
		} else {
			for _, imp := range scope.mod.Imports {
				if imp.Target == nil {
					continue
				}
				if ns, ok := r.registry.LookupNamespace(imp.Target.Path); ok {
					if found := ns.FindFunction(c.Ref.Name, arity); len(found) > 0 {
						candidates = append(candidates, found...)
					}
				}
			}
		}
	}

	best := r.pickBest(c.P, c.Ref.Name, candidates, argTypes)
	if best == nil {
		return ast.VoidType{P: c.P}
	}
	c.Ref.Kind = ast.RefCall
	c.Ref.Def = best
	if fn, ok := best.(*ast.Function); ok {
		return fn.Ret
	}
	if m, ok := best.(*ast.ClassMethod); ok {
		return m.Ret
	}
	return ast.VoidType{P: c.P}
}

// resolveMethodCall resolves `receiver.method(args)` against the
// receiver's class (and its superclass chain, for inherited methods).
func (r *Resolver) resolveMethodCall(c *ast.CallExpr, recvT ast.Type, argTypes []ast.Type) ast.Type {
	it, ok := recvT.(ast.IdentityType)
	if !ok {
		r.sink.Report(diag.Error, diag.UnrefCall, c.P, "cannot call method %q on non-identity type %s", c.Ref.Name, recvT)
		return ast.VoidType{P: c.P}
	}
	for cls, _ := it.Def.(*ast.Class); cls != nil; {
		ct := r.registry.ClassTableFor(r.sink, it.QualifiedName, cls)
		candidates := ct.FindMethod(c.Ref.Name, len(argTypes))
		if len(candidates) > 0 {
			best := r.pickBest(c.P, c.Ref.Name, candidates, argTypes)
			if best == nil {
				return ast.VoidType{P: c.P}
			}
			c.Ref.Kind = ast.RefCall
			c.Ref.Def = best
			return best.(*ast.ClassMethod).Ret
		}
		if cls.Super != nil {
			cls, _ = cls.Super.Def.(*ast.Class)
			continue
		}
		break
	}
	r.sink.Report(diag.Error, diag.UnrefCall, c.P, "%s has no method %q matching %d argument(s)", it.QualifiedName, c.Ref.Name, len(argTypes))
	return ast.VoidType{P: c.P}
}

// resolveNew resolves `new Type(args)` against Type's constructor table,
// per §4.4's edge case: "A call whose resolved callable is a constructor
// for a class with an explicit user constructor must supply matching
// arguments; the auto-default constructor is removed the first time a
// user constructor is added" (enforced by the builder, not here).
func (r *Resolver) resolveNew(scope *funcScope, n *ast.NewExpr) ast.Type {
	argTypes := make([]ast.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = r.resolveExpr(scope, a)
	}
	if n.Type_.Def == nil {
		if id, found := r.lookupIdentity(scope.mod, n.Type_.QualifiedName); found {
			n.Type_.Def = id
		}
	}
	cls, ok := n.Type_.Def.(*ast.Class)
	if !ok {
		r.sink.Report(diag.Error, diag.UnrefType, n.P, "%q is not a class or struct", n.Type_.QualifiedName)
		return ast.VoidType{P: n.P}
	}
	ct := r.registry.ClassTableFor(r.sink, n.Type_.QualifiedName, cls)
	candidates := ct.FindConstructor(len(n.Args))
	best := r.pickBest(n.P, cls.Name, candidates, argTypes)
	if best == nil {
		return ast.VoidType{P: n.P}
	}
	n.Ctor = best.(*ast.ClassMethod)
	return *n.Type_
}

// pickBest implements §4.4's "most-specific one (fewer implicit
// conversions, exact equality preferred over convertibility) wins; ties
// produce an ambiguity error."
func (r *Resolver) pickBest(pos diag.Position, name string, candidates []symtab.Callable, argTypes []ast.Type) symtab.Callable {
	if len(candidates) == 0 {
		r.sink.Report(diag.Error, diag.UnrefCall, pos, "no candidate for %q matching %d argument(s)", name, len(argTypes))
		return nil
	}
	type scored struct {
		c     symtab.Callable
		score int
	}
	var best []scored
	bestScore := -1
	for _, c := range candidates {
		params := c.ParamTypes()
		score := 0
		ok := true
		for i, pt := range params {
			at := argTypes[i]
			if validator.Equal(at, pt) {
				continue
			}
			if validator.ConvertibleTo(at, pt) {
				score++
				continue
			}
			ok = false
			break
		}
		if !ok {
			continue
		}
		if bestScore == -1 || score < bestScore {
			bestScore = score
			best = []scored{{c, score}}
		} else if score == bestScore {
			best = append(best, scored{c, score})
		}
	}
	if len(best) == 0 {
		r.sink.Report(diag.Error, diag.TypeConvert, pos, "no overload of %q accepts the given argument types", name)
		return nil
	}
	if len(best) > 1 {
		r.sink.Report(diag.Error, diag.TypeConvert, pos, "ambiguous call to %q: %d equally-specific overloads match", name, len(best))
		return nil
	}
	return best[0].c
}
