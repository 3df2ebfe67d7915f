package irgen

import (
	"fmt"
	"strconv"

	"tinygo.org/x/go-llvm"

	"fly/src/ast"
)

// genDefaultValue returns the zero-initialized SSA value for t, used for
// function epilogues (the implicit return of a void-reaching block) and
// the early `ret` a `fail` emits outside a handle (§4.9).
func (g *generator) genDefaultValue(t ast.Type) (llvm.Value, error) {
	return g.genValue(ast.Default(t, t.Pos()), t)
}

// genValue lowers a literal ast.Value to an LLVM constant of LLVM type t.
func (g *generator) genValue(v ast.Value, t ast.Type) (llvm.Value, error) {
	switch vv := v.(type) {
	case ast.BoolValue:
		if vv.V {
			return llvm.ConstInt(llvm.Int1Type(), 1, false), nil
		}
		return llvm.ConstInt(llvm.Int1Type(), 0, false), nil
	case ast.IntegerValue:
		it, ok := t.(ast.IntType)
		bits := 32
		signed := true
		if ok {
			bits = it.Bits
			signed = it.Signed
		}
		n, err := strconv.ParseUint(vv.Text, vv.Radix, 64)
		if err != nil {
			return llvm.Value{}, fmt.Errorf("irgen: malformed integer literal %q: %w", vv.Text, err)
		}
		if vv.Negative {
			return llvm.ConstInt(llvm.IntType(bits), uint64(-int64(n)), true), nil
		}
		return llvm.ConstInt(llvm.IntType(bits), n, signed), nil
	case ast.FloatingValue:
		f, err := strconv.ParseFloat(vv.Text, 64)
		if err != nil {
			return llvm.Value{}, fmt.Errorf("irgen: malformed float literal %q: %w", vv.Text, err)
		}
		ft, err := g.llType(t)
		if err != nil {
			return llvm.Value{}, err
		}
		return llvm.ConstFloat(ft, f), nil
	case ast.CharValue:
		if it, ok := t.(ast.IntType); ok {
			return llvm.ConstInt(llvm.IntType(it.Bits), uint64(vv.V), false), nil
		}
		return llvm.ConstInt(llvm.Int32Type(), uint64(vv.V), false), nil
	case ast.StringValue:
		return g.bld.CreateGlobalStringPtr(vv.V, "str"), nil
	case ast.ArrayValue:
		at, ok := t.(ast.ArrayType)
		if !ok {
			return llvm.Value{}, fmt.Errorf("irgen: array literal typed as %s", t.String())
		}
		elemType, err := g.llType(at.Elem)
		if err != nil {
			return llvm.Value{}, err
		}
		if len(vv.List) == 0 {
			return llvm.ConstStruct([]llvm.Value{
				llvm.ConstPointerNull(pointerTo(elemType)),
				llvm.ConstInt(llvm.Int64Type(), 0, false),
			}, false), nil
		}
		elems := make([]llvm.Value, 0, len(vv.List))
		for _, e := range vv.List {
			ev, err := g.genValue(e, at.Elem)
			if err != nil {
				return llvm.Value{}, err
			}
			elems = append(elems, ev)
		}
		arrConst := llvm.ConstArray(elemType, elems)
		backing := llvm.AddGlobal(g.mod, arrConst.Type(), "arr")
		backing.SetInitializer(arrConst)
		backing.SetGlobalConstant(true)
		backing.SetLinkage(llvm.InternalLinkage)
		ptr := llvm.ConstBitCast(backing, pointerTo(elemType))
		return llvm.ConstStruct([]llvm.Value{ptr, llvm.ConstInt(llvm.Int64Type(), uint64(len(vv.List)), false)}, false), nil
	case ast.NullValue:
		it, err := g.llType(t)
		if err != nil {
			return llvm.Value{}, err
		}
		return llvm.ConstPointerNull(it), nil
	case ast.ZeroValue:
		it, err := g.llType(vv.T)
		if err != nil {
			return llvm.Value{}, err
		}
		return llvm.ConstNull(it), nil
	default:
		return llvm.Value{}, fmt.Errorf("irgen: no constant lowering for value kind %T", v)
	}
}

// coerceStore converts an SSA value computed at SSA-type to the memory
// representation a slot of declared type t expects: a bool is zero-extended
// from i1 to i8 (§4.7).
func (g *generator) coerceStore(t ast.Type, v llvm.Value) llvm.Value {
	if _, ok := t.(ast.BoolType); ok {
		return g.bld.CreateZExt(v, llvm.Int8Type(), "")
	}
	return v
}

// coerceLoad is coerceStore's inverse, applied after loading a slot back
// into SSA form.
func (g *generator) coerceLoad(t ast.Type, v llvm.Value) llvm.Value {
	if _, ok := t.(ast.BoolType); ok {
		return g.bld.CreateTrunc(v, llvm.Int1Type(), "")
	}
	return v
}
