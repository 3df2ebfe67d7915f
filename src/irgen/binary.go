package irgen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"fly/src/ast"
)

// promoteTo casts v (of declared type from) up to the LLVM representation
// of to, inserting sext/zext for integers and fpext for floats only when
// to is strictly wider, per §4.7's "Integer promotions".
func (g *generator) promoteTo(v llvm.Value, from, to ast.Type) (llvm.Value, error) {
	ft, ok1 := from.(ast.IntType)
	tt, ok2 := to.(ast.IntType)
	if ok1 && ok2 {
		if tt.Bits <= ft.Bits {
			return v, nil
		}
		dst, err := g.llType(to)
		if err != nil {
			return llvm.Value{}, err
		}
		if ft.Signed {
			return g.bld.CreateSExt(v, dst, ""), nil
		}
		return g.bld.CreateZExt(v, dst, ""), nil
	}
	ff, ok1 := from.(ast.FloatType)
	tf, ok2 := to.(ast.FloatType)
	if ok1 && ok2 {
		if tf.Bits <= ff.Bits {
			return v, nil
		}
		dst, err := g.llType(to)
		if err != nil {
			return llvm.Value{}, err
		}
		return g.bld.CreateFPExt(v, dst, ""), nil
	}
	return v, nil
}

// widerOfType picks the operand type a comparison should promote both
// sides to before comparing, mirroring the resolver's commonType rule
// closely enough for lowering purposes (legality was already checked by
// the validator; this only has to pick a common LLVM type).
func widerOfType(a, b ast.Type) ast.Type {
	if at, ok := a.(ast.IntType); ok {
		if bt, ok := b.(ast.IntType); ok {
			if bt.Bits > at.Bits {
				return bt
			}
			return at
		}
	}
	if at, ok := a.(ast.FloatType); ok {
		if bt, ok := b.(ast.FloatType); ok {
			if bt.Bits > at.Bits {
				return bt
			}
			return at
		}
	}
	return a
}

func isComparisonOp(op ast.BinaryOp) bool {
	switch op {
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return true
	default:
		return false
	}
}

func (g *generator) genBinary(fr *frame, ex *ast.BinaryExpr) (llvm.Value, error) {
	if ex.Op == ast.OpAnd || ex.Op == ast.OpOr {
		return g.genShortCircuit(fr, ex)
	}

	lv, err := g.genExpr(fr, ex.Left)
	if err != nil {
		return llvm.Value{}, err
	}
	rv, err := g.genExpr(fr, ex.Right)
	if err != nil {
		return llvm.Value{}, err
	}

	target := ex.ExprType()
	if isComparisonOp(ex.Op) {
		target = widerOfType(ex.Left.ExprType(), ex.Right.ExprType())
	}
	if lv, err = g.promoteTo(lv, ex.Left.ExprType(), target); err != nil {
		return llvm.Value{}, err
	}
	if rv, err = g.promoteTo(rv, ex.Right.ExprType(), target); err != nil {
		return llvm.Value{}, err
	}

	_, isFloat := target.(ast.FloatType)
	switch ex.Op {
	case ast.OpAdd:
		if isFloat {
			return g.bld.CreateFAdd(lv, rv, ""), nil
		}
		return g.bld.CreateAdd(lv, rv, ""), nil
	case ast.OpSub:
		if isFloat {
			return g.bld.CreateFSub(lv, rv, ""), nil
		}
		return g.bld.CreateSub(lv, rv, ""), nil
	case ast.OpMul:
		if isFloat {
			return g.bld.CreateFMul(lv, rv, ""), nil
		}
		return g.bld.CreateMul(lv, rv, ""), nil
	case ast.OpDiv:
		if isFloat {
			return g.bld.CreateFDiv(lv, rv, ""), nil
		}
		if g.isSignedOperand(ex.Left.ExprType(), ex.Right.ExprType()) {
			return g.bld.CreateSDiv(lv, rv, ""), nil
		}
		return g.bld.CreateUDiv(lv, rv, ""), nil
	case ast.OpMod:
		if isFloat {
			return g.bld.CreateFRem(lv, rv, ""), nil
		}
		if g.isSignedOperand(ex.Left.ExprType(), ex.Right.ExprType()) {
			return g.bld.CreateSRem(lv, rv, ""), nil
		}
		return g.bld.CreateURem(lv, rv, ""), nil
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return g.genComparison(lv, rv, ex.Op, isFloat, g.isSignedOperand(ex.Left.ExprType(), ex.Right.ExprType()))
	default:
		return llvm.Value{}, fmt.Errorf("irgen: unknown binary operator %d", ex.Op)
	}
}

func (g *generator) isSignedOperand(a, b ast.Type) bool {
	if at, ok := a.(ast.IntType); ok && at.Signed {
		return true
	}
	if bt, ok := b.(ast.IntType); ok && bt.Signed {
		return true
	}
	return false
}

func (g *generator) genComparison(lv, rv llvm.Value, op ast.BinaryOp, isFloat, signed bool) (llvm.Value, error) {
	if isFloat {
		pred, err := floatPredicate(op)
		if err != nil {
			return llvm.Value{}, err
		}
		return g.bld.CreateFCmp(pred, lv, rv, ""), nil
	}
	pred, err := intPredicate(op, signed)
	if err != nil {
		return llvm.Value{}, err
	}
	return g.bld.CreateICmp(pred, lv, rv, ""), nil
}

func intPredicate(op ast.BinaryOp, signed bool) (llvm.IntPredicate, error) {
	switch op {
	case ast.OpEq:
		return llvm.IntEQ, nil
	case ast.OpNeq:
		return llvm.IntNE, nil
	case ast.OpLt:
		if signed {
			return llvm.IntSLT, nil
		}
		return llvm.IntULT, nil
	case ast.OpLte:
		if signed {
			return llvm.IntSLE, nil
		}
		return llvm.IntULE, nil
	case ast.OpGt:
		if signed {
			return llvm.IntSGT, nil
		}
		return llvm.IntUGT, nil
	case ast.OpGte:
		if signed {
			return llvm.IntSGE, nil
		}
		return llvm.IntUGE, nil
	default:
		return 0, fmt.Errorf("irgen: %d is not a comparison operator", op)
	}
}

func floatPredicate(op ast.BinaryOp) (llvm.FloatPredicate, error) {
	switch op {
	case ast.OpEq:
		return llvm.FloatOEQ, nil
	case ast.OpNeq:
		return llvm.FloatONE, nil
	case ast.OpLt:
		return llvm.FloatOLT, nil
	case ast.OpLte:
		return llvm.FloatOLE, nil
	case ast.OpGt:
		return llvm.FloatOGT, nil
	case ast.OpGte:
		return llvm.FloatOGE, nil
	default:
		return 0, fmt.Errorf("irgen: %d is not a comparison operator", op)
	}
}

// genShortCircuit lowers && and || to the two-block diamond of §4.7/§8 S4:
// evaluate Left, branch on it to a second block that evaluates Right only
// when necessary, merge with a phi.
func (g *generator) genShortCircuit(fr *frame, ex *ast.BinaryExpr) (llvm.Value, error) {
	lv, err := g.genExpr(fr, ex.Left)
	if err != nil {
		return llvm.Value{}, err
	}

	entry := g.bld.GetInsertBlock()
	rhsBlock := llvm.AddBasicBlock(fr.fn, "")
	mergeBlock := llvm.AddBasicBlock(fr.fn, "")

	if ex.Op == ast.OpAnd {
		g.bld.CreateCondBr(lv, rhsBlock, mergeBlock)
	} else {
		g.bld.CreateCondBr(lv, mergeBlock, rhsBlock)
	}

	g.bld.SetInsertPointAtEnd(rhsBlock)
	rv, err := g.genExpr(fr, ex.Right)
	if err != nil {
		return llvm.Value{}, err
	}
	rhsEnd := g.bld.GetInsertBlock()
	g.bld.CreateBr(mergeBlock)

	g.bld.SetInsertPointAtEnd(mergeBlock)
	phi := g.bld.CreatePHI(llvm.Int1Type(), "")
	shortValue := llvm.ConstInt(llvm.Int1Type(), boolConst(ex.Op == ast.OpOr), false)
	phi.AddIncoming([]llvm.Value{shortValue, rv}, []llvm.BasicBlock{entry, rhsEnd})
	return phi, nil
}

func boolConst(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// genTernary lowers `cond ? then : else` with the same diamond shape as
// short-circuit boolean operators (§4.7).
func (g *generator) genTernary(fr *frame, ex *ast.TernaryExpr) (llvm.Value, error) {
	cond, err := g.genExpr(fr, ex.Cond)
	if err != nil {
		return llvm.Value{}, err
	}

	thenBlock := llvm.AddBasicBlock(fr.fn, "")
	elseBlock := llvm.AddBasicBlock(fr.fn, "")
	mergeBlock := llvm.AddBasicBlock(fr.fn, "")
	g.bld.CreateCondBr(cond, thenBlock, elseBlock)

	target := ex.ExprType()

	g.bld.SetInsertPointAtEnd(thenBlock)
	thenVal, err := g.genExpr(fr, ex.Then)
	if err != nil {
		return llvm.Value{}, err
	}
	if thenVal, err = g.promoteTo(thenVal, ex.Then.ExprType(), target); err != nil {
		return llvm.Value{}, err
	}
	thenEnd := g.bld.GetInsertBlock()
	g.bld.CreateBr(mergeBlock)

	g.bld.SetInsertPointAtEnd(elseBlock)
	elseVal, err := g.genExpr(fr, ex.Else)
	if err != nil {
		return llvm.Value{}, err
	}
	if elseVal, err = g.promoteTo(elseVal, ex.Else.ExprType(), target); err != nil {
		return llvm.Value{}, err
	}
	elseEnd := g.bld.GetInsertBlock()
	g.bld.CreateBr(mergeBlock)

	g.bld.SetInsertPointAtEnd(mergeBlock)
	llt, err := g.llType(target)
	if err != nil {
		return llvm.Value{}, err
	}
	phi := g.bld.CreatePHI(llt, "")
	phi.AddIncoming([]llvm.Value{thenVal, elseVal}, []llvm.BasicBlock{thenEnd, elseEnd})
	return phi, nil
}
