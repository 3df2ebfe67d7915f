package irgen

import (
	"tinygo.org/x/go-llvm"

	"fly/src/ast"
)

// declareClassType lowers a class or struct to a named LLVM struct type,
// per §4.6: "{ vtable*, field0, field1, … }" for a class, the vtable slot
// omitted for a struct. The type is registered before its body is filled so
// a field referencing the class itself (or a cycle through another class)
// resolves to the same opaque handle instead of recursing.
func (g *generator) declareClassType(c *ast.Class) (llvm.Type, error) {
	name := g.classQualifiedName(c)
	st := g.ctx.StructCreateNamed(name)
	g.identityType[name] = st

	var fields []llvm.Type
	if !c.IsStruct {
		vt, err := g.classVtableType(c)
		if err != nil {
			return llvm.Type{}, err
		}
		fields = append(fields, pointerTo(vt))
	}
	for _, a := range c.Attrs {
		ft, err := g.llTypeMem(a.Type)
		if err != nil {
			return llvm.Type{}, err
		}
		fields = append(fields, ft)
	}
	st.StructSetBody(fields, false)
	return st, nil
}

// classVtableType builds %C_vtable = type { fn1, …, fnn } from c's own
// methods in declaration order (§4.8). Each slot's function type carries
// the error pointer and receiver pointer ahead of the method's own
// parameters, matching the signature declareMethod emits.
func (g *generator) classVtableType(c *ast.Class) (llvm.Type, error) {
	name := g.classQualifiedName(c)
	if existing, ok := g.vtableType[name]; ok {
		return existing, nil
	}

	slots := make([]llvm.Type, 0, len(c.Methods))
	for _, m := range c.Methods {
		ft, err := g.methodFuncType(c, m)
		if err != nil {
			return llvm.Type{}, err
		}
		slots = append(slots, pointerTo(ft))
	}
	vt := g.ctx.StructCreateNamed(name + "_vtable")
	vt.StructSetBody(slots, false)
	g.vtableType[name] = vt
	return vt, nil
}

// methodFuncType builds the LLVM function type for an ordinary method:
// (%error*, %C*, <params>) -> ret. Struct methods omit the receiver since
// they are static free functions (§4.6).
func (g *generator) methodFuncType(c *ast.Class, m *ast.ClassMethod) (llvm.Type, error) {
	ret, err := g.llType(m.Ret)
	if err != nil {
		return llvm.Type{}, err
	}
	params := []llvm.Type{pointerTo(g.errorType)}
	if !c.IsStruct {
		recv, err := g.classSelfPointerType(c)
		if err != nil {
			return llvm.Type{}, err
		}
		params = append(params, recv)
	}
	for _, p := range m.Params {
		pt, err := g.llType(p.Type)
		if err != nil {
			return llvm.Type{}, err
		}
		params = append(params, pt)
	}
	return llvm.FunctionType(ret, params, false), nil
}

// classSelfPointerType returns %C* for c, declaring the struct type first
// if this is the earliest reference to it.
func (g *generator) classSelfPointerType(c *ast.Class) (llvm.Type, error) {
	name := g.classQualifiedName(c)
	if st, ok := g.identityType[name]; ok {
		return pointerTo(st), nil
	}
	st, err := g.declareClassType(c)
	if err != nil {
		return llvm.Type{}, err
	}
	return pointerTo(st), nil
}
