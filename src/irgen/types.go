package irgen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"fly/src/ast"
)

// llTypeMem returns the type used for a value's storage location (global or
// alloca slot). Bool uses i8 here; SSA values use i1, converted at the
// store/load boundary (§4.7's "booleans stored in memory use i8").
func (g *generator) llTypeMem(t ast.Type) (llvm.Type, error) {
	if _, ok := t.(ast.BoolType); ok {
		return llvm.Int8Type(), nil
	}
	return g.llType(t)
}

// llType returns the SSA-value LLVM type for t.
func (g *generator) llType(t ast.Type) (llvm.Type, error) {
	switch tt := t.(type) {
	case ast.VoidType:
		return llvm.VoidType(), nil
	case ast.BoolType:
		return llvm.Int1Type(), nil
	case ast.IntType:
		return llvm.IntType(tt.Bits), nil
	case ast.FloatType:
		if tt.Bits == 32 {
			return llvm.FloatType(), nil
		}
		return llvm.DoubleType(), nil
	case ast.StringType:
		return llvm.PointerType(llvm.Int8Type(), 0), nil
	case ast.ErrorType:
		return llvm.PointerType(g.errorType, 0), nil
	case ast.ArrayType:
		elem, err := g.llType(tt.Elem)
		if err != nil {
			return llvm.Type{}, err
		}
		// A resolved array value carries its own length alongside the
		// backing buffer, since Fly arrays are not a fixed compile-time
		// size once passed around (ast.ArrayType.Size is not consulted
		// here).
		return llvm.StructType([]llvm.Type{
			llvm.PointerType(elem, 0),
			llvm.Int64Type(),
		}, false), nil
	case ast.IdentityType:
		return g.identityLLType(tt)
	default:
		return llvm.Type{}, fmt.Errorf("irgen: no LLVM lowering for type %s", t.String())
	}
}

// identityLLType returns the named struct type for a class/struct/enum,
// declaring it (and recursively its dependencies) on first reference so
// forward references within one module set resolve correctly.
func (g *generator) identityLLType(it ast.IdentityType) (llvm.Type, error) {
	name := it.QualifiedName
	if existing, ok := g.identityType[name]; ok {
		return existing, nil
	}

	switch it.Kind {
	case ast.IdentityEnum:
		e, ok := g.enumByName[name]
		if !ok {
			return llvm.Type{}, fmt.Errorf("irgen: unknown enum %q", name)
		}
		return g.declareEnumType(e)
	default:
		c, ok := g.classByName[name]
		if !ok {
			return llvm.Type{}, fmt.Errorf("irgen: unknown class %q", name)
		}
		return g.declareClassType(c)
	}
}

// pointerTo is shorthand for llvm.PointerType(t, 0): Fly instances are
// always handled by pointer (new/delete, §4.6).
func pointerTo(t llvm.Type) llvm.Type {
	return llvm.PointerType(t, 0)
}
