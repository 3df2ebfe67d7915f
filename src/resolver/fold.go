package resolver

import (
	"strconv"

	"fly/src/ast"
)

// fold runs the supplemental constant-folding pass over every already-typed
// module: literal arithmetic (+ - * / on integers and floats, % on
// integers), integer/float negation and Bool `not` are evaluated at
// compile time so irgen emits a single constant
// instead of a redundant instruction sequence. Grounded on the teacher's
// ir.optimise.go constantFolding pass, generalized from int/float-only
// folding to Fly's operator set and restricted to the types that actually
// support each operator. A fold that would itself observably change
// overflow or divide-by-zero behavior is skipped rather than attempted —
// the node is left alone and irgen evaluates it at runtime instead.
func fold(mods []*ast.Module) {
	for _, m := range mods {
		for _, fn := range m.Funcs {
			foldBlock(fn.Body)
		}
		for _, c := range m.Classes {
			for _, ctor := range c.Ctors {
				foldBlock(ctor.Body)
			}
			for _, meth := range c.Methods {
				foldBlock(meth.Body)
			}
		}
	}
}

func foldBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, st := range b.Stmts {
		foldStmt(st)
	}
}

func foldStmt(st ast.Stmt) {
	switch s := st.(type) {
	case *ast.Block:
		foldBlock(s)
	case *ast.ExprStmt:
		s.Expr = foldExpr(s.Expr)
	case *ast.VarDecl:
		if s.Init != nil {
			s.Init = foldExpr(s.Init)
		}
	case *ast.Assignment:
		s.Target = foldExpr(s.Target)
		s.Value = foldExpr(s.Value)
	case *ast.Return:
		if s.Value != nil {
			s.Value = foldExpr(s.Value)
		}
	case *ast.If:
		for i := range s.Clauses {
			s.Clauses[i].Cond = foldExpr(s.Clauses[i].Cond)
			foldBlock(s.Clauses[i].Body)
		}
		foldBlock(s.Else)
	case *ast.Switch:
		s.Subject = foldExpr(s.Subject)
		for i := range s.Cases {
			foldBlock(s.Cases[i].Body)
		}
	case *ast.Loop:
		if s.Init != nil {
			foldStmt(s.Init)
		}
		if s.Cond != nil {
			s.Cond = foldExpr(s.Cond)
		}
		if s.Post != nil {
			foldStmt(s.Post)
		}
		foldBlock(s.Body)
	case *ast.LoopIn:
		s.Array = foldExpr(s.Array)
		foldBlock(s.Body)
	case *ast.Handle:
		foldBlock(s.Body)
		foldBlock(s.Recover)
	case *ast.Fail:
		if s.Payload != nil {
			s.Payload = foldExpr(s.Payload)
		}
	case *ast.Delete:
		s.Target = foldExpr(s.Target)
	}
}

// foldExpr recursively folds e's children, then tries to fold e itself.
// It always returns a usable Expr: either the original e (children folded
// in place) or a replacement *ast.ValueExpr carrying the computed result.
func foldExpr(e ast.Expr) ast.Expr {
	switch v := e.(type) {
	case *ast.UnaryExpr:
		v.Operand = foldExpr(v.Operand)
		if lit, ok := asLiteral(v.Operand); ok {
			if folded, ok := foldUnary(v.Op, lit, v.ExprType()); ok {
				return folded
			}
		}
		return v

	case *ast.BinaryExpr:
		v.Left = foldExpr(v.Left)
		v.Right = foldExpr(v.Right)
		ll, lok := asLiteral(v.Left)
		rl, rok := asLiteral(v.Right)
		if lok && rok {
			if folded, ok := foldBinary(v.Op, ll, rl, v.ExprType()); ok {
				return folded
			}
		}
		return v

	case *ast.TernaryExpr:
		v.Cond = foldExpr(v.Cond)
		v.Then = foldExpr(v.Then)
		v.Else = foldExpr(v.Else)
		return v

	case *ast.CallExpr:
		for i := range v.Args {
			v.Args[i] = foldExpr(v.Args[i])
		}
		return v

	case *ast.NewExpr:
		for i := range v.Args {
			v.Args[i] = foldExpr(v.Args[i])
		}
		return v

	case *ast.IndexExpr:
		v.Array = foldExpr(v.Array)
		v.Index = foldExpr(v.Index)
		return v

	default:
		return e
	}
}

func asLiteral(e ast.Expr) (ast.Value, bool) {
	if v, ok := e.(*ast.ValueExpr); ok {
		return v.Value, true
	}
	return nil, false
}

func foldUnary(op ast.UnaryOp, v ast.Value, t ast.Type) (ast.Expr, bool) {
	switch op {
	case ast.OpNeg:
		switch val := v.(type) {
		case ast.IntegerValue:
			return ast.NewValueExpr(val.P, ast.IntegerValue{
				P: val.P, Text: val.Text, Radix: val.Radix, Negative: !val.Negative,
			}, t), true
		case ast.FloatingValue:
			f, err := strconv.ParseFloat(val.Text, 64)
			if err != nil {
				return nil, false
			}
			return ast.NewValueExpr(val.P, ast.FloatingValue{
				P: val.P, Text: strconv.FormatFloat(-f, 'g', -1, 64),
			}, t), true
		}
	case ast.OpNot:
		if bv, ok := v.(ast.BoolValue); ok {
			return ast.NewValueExpr(bv.P, ast.BoolValue{P: bv.P, V: !bv.V}, t), true
		}
	}
	return nil, false
}

func foldBinary(op ast.BinaryOp, l, r ast.Value, t ast.Type) (ast.Expr, bool) {
	li, liok := l.(ast.IntegerValue)
	ri, riok := r.(ast.IntegerValue)
	if liok && riok {
		return foldIntegerBinary(op, li, ri, t)
	}
	lf, lfok := l.(ast.FloatingValue)
	rf, rfok := r.(ast.FloatingValue)
	if lfok && rfok {
		return foldFloatBinary(op, lf, rf, t)
	}
	return nil, false
}

func intValue(v ast.IntegerValue) (int64, bool) {
	mag, err := strconv.ParseInt(v.Text, v.Radix, 64)
	if err != nil {
		return 0, false
	}
	if v.Negative {
		mag = -mag
	}
	return mag, true
}

func foldIntegerBinary(op ast.BinaryOp, l, r ast.IntegerValue, t ast.Type) (ast.Expr, bool) {
	lv, lok := intValue(l)
	rv, rok := intValue(r)
	if !lok || !rok {
		return nil, false
	}
	var result int64
	switch op {
	case ast.OpAdd:
		result = lv + rv
	case ast.OpSub:
		result = lv - rv
	case ast.OpMul:
		result = lv * rv
	case ast.OpDiv:
		if rv == 0 {
			return nil, false // divide-by-zero behavior must surface at runtime
		}
		result = lv / rv
	case ast.OpMod:
		if rv == 0 {
			return nil, false
		}
		result = lv % rv
	default:
		return nil, false
	}
	text := strconv.FormatInt(result, 10)
	neg := result < 0
	if neg {
		text = text[1:]
	}
	return ast.NewValueExpr(l.P, ast.IntegerValue{P: l.P, Text: text, Radix: 10, Negative: neg}, t), true
}

func foldFloatBinary(op ast.BinaryOp, l, r ast.FloatingValue, t ast.Type) (ast.Expr, bool) {
	lv, lerr := strconv.ParseFloat(l.Text, 64)
	rv, rerr := strconv.ParseFloat(r.Text, 64)
	if lerr != nil || rerr != nil {
		return nil, false
	}
	var result float64
	switch op {
	case ast.OpAdd:
		result = lv + rv
	case ast.OpSub:
		result = lv - rv
	case ast.OpMul:
		result = lv * rv
	case ast.OpDiv:
		if rv == 0 {
			return nil, false
		}
		result = lv / rv
	default:
		return nil, false
	}
	return ast.NewValueExpr(l.P, ast.FloatingValue{P: l.P, Text: strconv.FormatFloat(result, 'g', -1, 64)}, t), true
}
