package irgen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"fly/src/ast"
)

// genExpr emits the SSA value for e, per §4.7's "Expressions" lowering
// rules: VarRef is a load, Call threads the current error pointer first,
// short-circuit && / || and ternary share one two-block-diamond shape.
func (g *generator) genExpr(fr *frame, e ast.Expr) (llvm.Value, error) {
	switch ex := e.(type) {
	case *ast.ValueExpr:
		return g.genValue(ex.Value, ex.ExprType())
	case *ast.VarRefExpr:
		return g.genVarRef(fr, ex)
	case *ast.AttrExpr:
		ptr, attrType, err := g.genAttrPointer(fr, ex)
		if err != nil {
			return llvm.Value{}, err
		}
		return g.coerceLoad(attrType, g.bld.CreateLoad(ptr, ex.Ref.Name)), nil
	case *ast.CallExpr:
		return g.genCall(fr, ex)
	case *ast.NewExpr:
		return g.genNew(fr, ex)
	case *ast.UnaryExpr:
		return g.genUnary(fr, ex)
	case *ast.BinaryExpr:
		return g.genBinary(fr, ex)
	case *ast.TernaryExpr:
		return g.genTernary(fr, ex)
	case *ast.IndexExpr:
		return g.genIndex(fr, ex)
	default:
		return llvm.Value{}, fmt.Errorf("irgen: no expression lowering for %T", e)
	}
}

// genVarRef loads the slot a resolved Ref points to; the switch mirrors
// ast.RefKind's cases rather than re-deriving lookup by name, since the
// resolver has already bound Ref.Def to an exact declaration.
func (g *generator) genVarRef(fr *frame, ex *ast.VarRefExpr) (llvm.Value, error) {
	switch decl := ex.Ref.Def.(type) {
	case *ast.LocalVar:
		slot, ok := fr.localSlots[decl]
		if !ok {
			return llvm.Value{}, fmt.Errorf("irgen: local %q has no slot", decl.Name)
		}
		return g.coerceLoad(decl.Type, g.bld.CreateLoad(slot, decl.Name)), nil
	case *ast.Parameter:
		slot, ok := fr.paramSlots[decl]
		if !ok {
			return llvm.Value{}, fmt.Errorf("irgen: parameter %q has no slot", decl.Name)
		}
		return g.coerceLoad(decl.Type, g.bld.CreateLoad(slot, decl.Name)), nil
	case *ast.GlobalVar:
		gv, ok := g.globalVals[decl]
		if !ok {
			return llvm.Value{}, fmt.Errorf("irgen: global %q has no LLVM value", decl.Name)
		}
		return g.coerceLoad(decl.Type, g.bld.CreateLoad(gv, decl.Name)), nil
	case *ast.ClassAttribute:
		ptr, err := g.attrPointerOnReceiver(fr, decl)
		if err != nil {
			return llvm.Value{}, err
		}
		return g.coerceLoad(decl.Type, g.bld.CreateLoad(ptr, decl.Name)), nil
	case *ast.EnumEntry:
		gv, ok := g.enumEntryVals[decl]
		if !ok {
			return llvm.Value{}, fmt.Errorf("irgen: enum entry %q has no LLVM value", decl.Name)
		}
		return g.bld.CreateLoad(gv, decl.Name), nil
	default:
		return llvm.Value{}, fmt.Errorf("irgen: unresolved or unsupported VarRef target %T", decl)
	}
}

// attrPointerOnReceiver GEPs to attr's field inside the current function's
// implicit receiver.
func (g *generator) attrPointerOnReceiver(fr *frame, attr *ast.ClassAttribute) (llvm.Value, error) {
	if fr.receiverSlot.IsNil() || fr.receiverClass == nil {
		return llvm.Value{}, fmt.Errorf("irgen: attribute %q referenced outside a method", attr.Name)
	}
	idx := fr.receiverClass.FieldIndex(attr)
	if idx < 0 {
		return llvm.Value{}, fmt.Errorf("irgen: field %q not found on %s", attr.Name, fr.receiverClass.Name)
	}
	self := g.bld.CreateLoad(fr.receiverSlot, "self")
	return g.bld.CreateStructGEP(self, idx, attr.Name+".addr"), nil
}

// genAttrPointer resolves Receiver.Ref (an explicit `x.attr` access) to a
// field pointer and the attribute's declared type.
func (g *generator) genAttrPointer(fr *frame, ex *ast.AttrExpr) (llvm.Value, ast.Type, error) {
	attr, ok := ex.Ref.Def.(*ast.ClassAttribute)
	if !ok {
		return llvm.Value{}, nil, fmt.Errorf("irgen: attribute access did not resolve to a field")
	}
	it, ok := ex.Receiver.ExprType().(ast.IdentityType)
	if !ok {
		return llvm.Value{}, nil, fmt.Errorf("irgen: attribute receiver is not an identity type")
	}
	c, ok := it.Def.(*ast.Class)
	if !ok {
		return llvm.Value{}, nil, fmt.Errorf("irgen: attribute receiver %q is not a class", it.QualifiedName)
	}
	idx := c.FieldIndex(attr)
	if idx < 0 {
		return llvm.Value{}, nil, fmt.Errorf("irgen: field %q not found on %s", attr.Name, c.Name)
	}
	self, err := g.genExpr(fr, ex.Receiver)
	if err != nil {
		return llvm.Value{}, nil, err
	}
	return g.bld.CreateStructGEP(self, idx, attr.Name+".addr"), attr.Type, nil
}

// currentErrPtr loads the current function's error pointer out of its
// entry-block slot, per §4.7's "the error pointer is stored to a local
// slot in the entry block."
func (g *generator) currentErrPtr(fr *frame) llvm.Value {
	return g.bld.CreateLoad(fr.errSlot, "err")
}

func (g *generator) genCall(fr *frame, ex *ast.CallExpr) (llvm.Value, error) {
	callee, ok := g.funcVals[ex.Ref.Def]
	if !ok {
		return llvm.Value{}, fmt.Errorf("irgen: call to %q has no lowered target", ex.Ref.Name)
	}

	args := []llvm.Value{g.currentErrPtr(fr)}
	if ex.Receiver != nil {
		recv, err := g.genExpr(fr, ex.Receiver)
		if err != nil {
			return llvm.Value{}, err
		}
		args = append(args, recv)
	}
	for _, a := range ex.Args {
		v, err := g.genExpr(fr, a)
		if err != nil {
			return llvm.Value{}, err
		}
		args = append(args, v)
	}
	return g.bld.CreateCall(callee, args, ""), nil
}

// genNew lowers `new T(args)`: malloc(sizeof T), call the resolved
// constructor, yield the pointer (§4.6).
func (g *generator) genNew(fr *frame, ex *ast.NewExpr) (llvm.Value, error) {
	st, err := g.identityLLType(*ex.Type_)
	if err != nil {
		return llvm.Value{}, err
	}
	size := llvm.SizeOf(st)
	raw := g.bld.CreateCall(g.mallocFunc(), []llvm.Value{size}, "raw")
	ptr := g.bld.CreateBitCast(raw, pointerTo(st), ex.Type_.QualifiedName)

	ctorFn, ok := g.funcVals[ex.Ctor]
	if !ok {
		return llvm.Value{}, fmt.Errorf("irgen: constructor for %q has no lowered target", ex.Type_.QualifiedName)
	}
	args := []llvm.Value{g.currentErrPtr(fr), ptr}
	for _, a := range ex.Args {
		v, err := g.genExpr(fr, a)
		if err != nil {
			return llvm.Value{}, err
		}
		args = append(args, v)
	}
	g.bld.CreateCall(ctorFn, args, "")
	return ptr, nil
}

func (g *generator) genUnary(fr *frame, ex *ast.UnaryExpr) (llvm.Value, error) {
	operand, err := g.genExpr(fr, ex.Operand)
	if err != nil {
		return llvm.Value{}, err
	}
	switch ex.Op {
	case ast.OpNeg:
		if _, ok := ex.ExprType().(ast.FloatType); ok {
			return g.bld.CreateFNeg(operand, ""), nil
		}
		return g.bld.CreateNeg(operand, ""), nil
	case ast.OpNot:
		return g.bld.CreateNot(operand, ""), nil
	default:
		return llvm.Value{}, fmt.Errorf("irgen: unknown unary operator %d", ex.Op)
	}
}

func (g *generator) genIndex(fr *frame, ex *ast.IndexExpr) (llvm.Value, error) {
	arr, err := g.genExpr(fr, ex.Array)
	if err != nil {
		return llvm.Value{}, err
	}
	idx, err := g.genExpr(fr, ex.Index)
	if err != nil {
		return llvm.Value{}, err
	}
	dataPtr := g.bld.CreateExtractValue(arr, 0, "data")
	elemPtr := g.bld.CreateGEP(dataPtr, []llvm.Value{idx}, "elem.addr")
	if _, ok := ex.Array.ExprType().(ast.ArrayType); !ok {
		return llvm.Value{}, fmt.Errorf("irgen: index target is not an array type")
	}
	// Array backing storage already holds the SSA representation (an
	// array of i1 for bool elements, not i8), unlike locals/globals, so
	// no coerceLoad is needed here.
	return g.bld.CreateLoad(elemPtr, "elem"), nil
}

// indexPointer is the lvalue form of genIndex, used by Assignment.
func (g *generator) indexPointer(fr *frame, ex *ast.IndexExpr) (llvm.Value, ast.Type, error) {
	arr, err := g.genExpr(fr, ex.Array)
	if err != nil {
		return llvm.Value{}, nil, err
	}
	idx, err := g.genExpr(fr, ex.Index)
	if err != nil {
		return llvm.Value{}, nil, err
	}
	dataPtr := g.bld.CreateExtractValue(arr, 0, "data")
	at, ok := ex.Array.ExprType().(ast.ArrayType)
	if !ok {
		return llvm.Value{}, nil, fmt.Errorf("irgen: index target is not an array type")
	}
	return g.bld.CreateGEP(dataPtr, []llvm.Value{idx}, "elem.addr"), at.Elem, nil
}

func (g *generator) mallocFunc() llvm.Value {
	if fn := g.mod.NamedFunction("malloc"); !fn.IsNil() {
		return fn
	}
	ft := llvm.FunctionType(pointerTo(llvm.Int8Type()), []llvm.Type{llvm.Int64Type()}, false)
	return llvm.AddFunction(g.mod, "malloc", ft)
}

func (g *generator) freeFunc() llvm.Value {
	if fn := g.mod.NamedFunction("free"); !fn.IsNil() {
		return fn
	}
	ft := llvm.FunctionType(llvm.VoidType(), []llvm.Type{pointerTo(llvm.Int8Type())}, false)
	return llvm.AddFunction(g.mod, "free", ft)
}
