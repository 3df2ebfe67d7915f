package builder

import (
	"fly/src/ast"
	"fly/src/diag"
)

// NewClass appends a class or struct to mod. A synthesized zero-argument
// constructor is attached immediately, marked IsAutoDefault, per §3's
// Invariants ("Ctors is always non-empty after the builder's synthesis");
// NewClassMethod below removes it the first time a real constructor is
// added, per §4.4's edge case.
func (b *Builder) NewClass(mod *ast.Module, pos ast.Pos, name string, scopes ast.Scopes, isStruct bool, super *ast.IdentityType) *ast.Class {
	b.checkName(pos, name)
	b.checkScopes(pos, scopes)
	if isStruct && super != nil {
		b.sink.Report(diag.Error, diag.ClassFieldRedeclare, pos, "a struct cannot declare a superclass")
		super = nil
	}
	c := &ast.Class{
		P: pos, Name: b.intern(name), Scopes: scopes, Super: super, IsStruct: isStruct,
		Comment: b.takeComment(),
	}
	c.Ctors = append(c.Ctors, &ast.ClassMethod{
		P: pos, Name: name, Kind: ast.MethodConstructor, Scopes: scopes,
		Body: ast.NewBlock(pos), IsAutoDefault: true, VtableSlot: -1,
	})
	mod.Classes = append(mod.Classes, c)
	return c
}

// NewClassAttribute appends a field to c, synthesizing a default
// initializer when init is nil (§4.1 Defaulting), and reporting
// diag.ClassFieldRedeclare on a duplicate name.
func (b *Builder) NewClassAttribute(c *ast.Class, pos ast.Pos, name string, scopes ast.Scopes, t ast.Type, init ast.Expr) *ast.ClassAttribute {
	b.checkName(pos, name)
	b.checkScopes(pos, scopes)
	for _, a := range c.Attrs {
		if a.Name == name {
			b.sink.Report(diag.Error, diag.ClassFieldRedeclare, pos, "field %q already declared on %s", name, c.Name)
			break
		}
	}
	if init == nil {
		init = ast.NewValueExpr(pos, ast.Default(t, pos), t)
	}
	a := &ast.ClassAttribute{P: pos, Name: b.intern(name), Scopes: scopes, Type: t, Init: init, Comment: b.takeComment()}
	c.Attrs = append(c.Attrs, a)
	return a
}

// NewClassMethod appends a method or constructor to c. Adding the first
// explicit constructor removes the builder-synthesized auto-default one,
// per §3 Invariants / §4.4 edge cases; if that constructor takes no
// parameters it duplicates the auto-default and diag.ClassMethodRedecl is
// reported. A method on a struct gets no vtable slot and no diagnostic.
func (b *Builder) NewClassMethod(c *ast.Class, pos ast.Pos, name string, kind ast.MethodKind, scopes ast.Scopes, params []*ast.Parameter, ret ast.Type) *ast.ClassMethod {
	b.checkName(pos, name)
	b.checkScopes(pos, scopes)
	if c.IsStruct && kind == ast.MethodOrdinary {
		// Struct methods are static free functions: no vtable slot.
	}
	m := &ast.ClassMethod{
		P: pos, Name: b.intern(name), Kind: kind, Scopes: scopes, Params: params, Ret: ret,
		Body: ast.NewBlock(pos), Comment: b.takeComment(), VtableSlot: -1,
	}
	if kind == ast.MethodConstructor {
		for i, ctor := range c.Ctors {
			if ctor.IsAutoDefault {
				if len(params) == 0 {
					b.sink.Report(diag.Error, diag.ClassMethodRedecl, pos, "zero-argument constructor of %s duplicates the synthesized default constructor", c.Name)
				}
				c.Ctors = append(c.Ctors[:i], c.Ctors[i+1:]...)
				break
			}
		}
		c.Ctors = append(c.Ctors, m)
		return m
	}
	if !c.IsStruct {
		m.VtableSlot = len(c.Methods)
	}
	c.Methods = append(c.Methods, m)
	return m
}
